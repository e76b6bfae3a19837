package matching

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/lazy"
	"github.com/spigell/resume-scorer/internal/nlp"
)

// Embedder turns a text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingMatcher scores by cosine similarity of whole-text embeddings and reports
// missing content words (nouns, proper nouns, verbs and adjectives).
type EmbeddingMatcher struct {
	embedder *lazy.Value[Embedder]
	terms    *nlp.Extractor
}

// NewEmbeddingMatcher wires the matcher to a lazily created embedder and the shared
// language models. Both must be loadable or the matcher reports the model as
// unavailable.
func NewEmbeddingMatcher(embedder *lazy.Value[Embedder], models *nlp.Models) *EmbeddingMatcher {
	return &EmbeddingMatcher{
		embedder: embedder,
		terms: nlp.NewExtractor(models,
			[]nlp.POS{nlp.Noun, nlp.ProperNoun, nlp.Verb, nlp.Adjective},
			nlp.Strict(),
		),
	}
}

func (m *EmbeddingMatcher) Name() string { return TierEmbedding }

func (m *EmbeddingMatcher) Match(ctx context.Context, req Request) (Result, error) {
	if m.embedder == nil {
		return Result{}, apperr.NewModelUnavailableError("embedder", fmt.Errorf("not configured"))
	}
	embedder, err := m.embedder.Get()
	if err != nil {
		return Result{}, apperr.NewModelUnavailableError(m.embedder.Name(), err)
	}

	jobTerms, err := m.terms.Terms(req.JobDescription)
	if err != nil {
		return Result{}, fmt.Errorf("extract job terms: %w", err)
	}
	resumeTerms, err := m.terms.TermSet(req.ResumeText)
	if err != nil {
		return Result{}, fmt.Errorf("extract resume terms: %w", err)
	}
	missing := missingTerms(jobTerms, resumeTerms)

	score := 0
	if strings.TrimSpace(req.ResumeText) != "" && strings.TrimSpace(req.JobDescription) != "" {
		resumeVec, err := embedder.Embed(ctx, req.ResumeText)
		if err != nil {
			return Result{}, fmt.Errorf("embed resume: %w", err)
		}
		jobVec, err := embedder.Embed(ctx, req.JobDescription)
		if err != nil {
			return Result{}, fmt.Errorf("embed job description: %w", err)
		}
		similarity, err := Cosine(resumeVec, jobVec)
		if err != nil {
			return Result{}, err
		}
		score = ClampScore(similarity * 100)
	}

	return Result{
		MatchScore:    score,
		MissingSkills: missing,
		Suggestions:   suggestionsFor(missing),
		RawDiagnostic: "offline embedding similarity analysis",
		Tier:          TierEmbedding,
	}, nil
}

// Cosine returns the cosine similarity of a and b. A zero vector has similarity 0
// with everything.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
