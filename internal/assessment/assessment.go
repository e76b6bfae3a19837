// Package assessment scores multiple-choice answers against a job's answer key and
// records at most one result per application.
package assessment

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/resume-scorer/internal/recommend"
)

// Letters maps a zero-based option index to its answer letter.
const Letters = "ABCD"

// Question is one entry of an answer key.
type Question struct {
	CorrectOption int     `json:"correct_answer"`
	Weight        float64 `json:"weight"`
}

// Letter returns the answer letter of the correct option.
func (q Question) Letter() string {
	return string(Letters[q.CorrectOption])
}

// Submission holds a candidate's answers keyed by the question index ("0", "1", ...).
type Submission struct {
	Answers map[string]string `json:"answers"`
}

// Result is the immutable outcome of scoring a submission.
type Result struct {
	ID              uuid.UUID          `json:"id"`
	ApplicationID   int64              `json:"application_id"`
	Scores          map[string]float64 `json:"scores"`
	TotalScore      float64            `json:"total_score"`
	MaxScore        float64            `json:"max_score"`
	PercentageScore float64            `json:"percentage_score"`
	Recommendation  string             `json:"recommendation"`
	Answers         map[string]string  `json:"answers"`
	SubmittedAt     time.Time          `json:"submitted_at"`
}

// Passed reports whether the result meets the pass mark.
func (r Result) Passed() bool {
	return r.Recommendation == recommend.Pass
}

// Clone returns a copy that shares no maps with r.
func (r Result) Clone() Result {
	r.Scores = maps.Clone(r.Scores)
	r.Answers = maps.Clone(r.Answers)
	return r
}
