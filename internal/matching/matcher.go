// Package matching scores a resume against a job description through an ordered
// list of matchers, falling back to the next one whenever a matcher fails.
package matching

import (
	"context"
	"math"
	"strings"

	"github.com/spigell/resume-scorer/internal/apperr"
)

const (
	TierRemote    = "remote"
	TierEmbedding = "embedding"
	TierKeyword   = "keyword"
	TierNone      = "none"
)

// MissingSkillsSuggestion is the advice attached by the offline matchers whenever
// the resume lacks some of the job's terms.
const MissingSkillsSuggestion = "Consider highlighting missing skills in your resume."

// Matcher scores a single request. Returning an error marks the matcher as failed
// for that request.
type Matcher interface {
	Name() string
	Match(ctx context.Context, req Request) (Result, error)
}

// Request carries the two plain texts being compared. Either may be empty.
type Request struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// Result is the outcome of a match. Lists are never nil.
type Result struct {
	MatchScore         int      `json:"match_score"`
	MissingSkills      []string `json:"missing_skills"`
	Suggestions        []string `json:"suggestions"`
	InterviewQuestions []string `json:"interview_questions,omitempty"`
	RawDiagnostic      string   `json:"raw_text"`
	Tier               string   `json:"tier"`
}

// Validate rejects requests that cannot produce a meaningful score. Matching itself
// tolerates such requests; callers use Validate when they prefer an early error.
func Validate(req Request) error {
	if strings.TrimSpace(req.JobDescription) == "" {
		return apperr.NewValidationError("job_description", "must not be empty")
	}
	return nil
}

// ClampScore rounds score half away from zero and limits it to 0..100.
func ClampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	rounded := math.Round(score)
	switch {
	case rounded < 0:
		return 0
	case rounded > 100:
		return 100
	default:
		return int(rounded)
	}
}

func (r Result) normalized() Result {
	if r.MissingSkills == nil {
		r.MissingSkills = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	if r.MatchScore < 0 {
		r.MatchScore = 0
	}
	if r.MatchScore > 100 {
		r.MatchScore = 100
	}
	return r
}

// missingTerms returns the job terms absent from the resume, keeping job order.
func missingTerms(job []string, resume map[string]bool) []string {
	missing := make([]string, 0)
	for _, term := range job {
		if !resume[term] {
			missing = append(missing, term)
		}
	}
	return missing
}

func suggestionsFor(missing []string) []string {
	if len(missing) == 0 {
		return []string{}
	}
	return []string{MissingSkillsSuggestion}
}
