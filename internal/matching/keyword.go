package matching

import (
	"context"
	"fmt"

	"github.com/spigell/resume-scorer/internal/nlp"
)

// KeywordMatcher scores by the share of job nouns that also appear in the resume.
// It has no network dependency and degrades to a rule-based tagger, so it always
// produces a result.
type KeywordMatcher struct {
	terms *nlp.Extractor
}

// NewKeywordMatcher builds a matcher on top of the shared language models.
func NewKeywordMatcher(models *nlp.Models) *KeywordMatcher {
	return &KeywordMatcher{
		terms: nlp.NewExtractor(models, []nlp.POS{nlp.Noun, nlp.ProperNoun}),
	}
}

func (m *KeywordMatcher) Name() string { return TierKeyword }

func (m *KeywordMatcher) Match(_ context.Context, req Request) (Result, error) {
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
	if len(jobTerms) > 0 {
		matched := len(jobTerms) - len(missing)
		score = ClampScore(float64(matched) / float64(len(jobTerms)) * 100)
	}

	return Result{
		MatchScore:    score,
		MissingSkills: missing,
		Suggestions:   suggestionsFor(missing),
		RawDiagnostic: "offline keyword overlap analysis",
		Tier:          TierKeyword,
	}, nil
}
