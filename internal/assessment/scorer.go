package assessment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/recommend"
)

const defaultWeight = 1.0

// Score grades sub against questions. Unanswered questions score zero; only a
// malformed key is an error.
func Score(questions []Question, sub Submission) (Result, error) {
	if len(questions) == 0 {
		return Result{}, apperr.NewValidationError("questions", "answer key is empty")
	}

	scores := make(map[string]float64, len(questions))
	var total, maxScore float64

	for i, q := range questions {
		if q.CorrectOption < 0 || q.CorrectOption >= len(Letters) {
			return Result{}, apperr.NewValidationError(
				fmt.Sprintf("questions[%d].correct_answer", i),
				fmt.Sprintf("option %d is outside 0..%d", q.CorrectOption, len(Letters)-1),
			)
		}
		if q.Weight < 0 {
			return Result{}, apperr.NewValidationError(
				fmt.Sprintf("questions[%d].weight", i),
				fmt.Sprintf("weight %v must not be negative", q.Weight),
			)
		}

		weight := q.Weight
		if weight == 0 {
			weight = defaultWeight
		}
		maxScore += weight

		idx := strconv.Itoa(i)
		answer := strings.ToUpper(strings.TrimSpace(sub.Answers[idx]))
		awarded := 0.0
		if answer == q.Letter() {
			awarded = weight
		}
		scores[idx] = awarded
		total += awarded
	}

	percentage := 0.0
	if maxScore > 0 {
		percentage = total * 100 / maxScore
	}

	return Result{
		Scores:          scores,
		TotalScore:      total,
		MaxScore:        maxScore,
		PercentageScore: percentage,
		Recommendation:  recommend.PassFail(percentage),
		Answers:         copyAnswers(sub.Answers),
	}, nil
}

func copyAnswers(answers map[string]string) map[string]string {
	out := make(map[string]string, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}
