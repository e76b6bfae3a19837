// Package shortlist combines CV and assessment scores into a ranked candidate list.
package shortlist

import (
	"math"

	"github.com/spigell/resume-scorer/internal/recommend"
)

// Weightings are the percentages a job assigns to the CV and assessment scores.
// They are not required to sum to 100.
type Weightings struct {
	CV         int `json:"cv" mapstructure:"cv"`
	Assessment int `json:"assessment" mapstructure:"assessment"`
}

// DefaultWeightings applies when a job has no weightings of its own.
var DefaultWeightings = Weightings{CV: 60, Assessment: 40}

// Overall blends the two scores. A nil w uses DefaultWeightings.
func Overall(cv, assessment float64, w *Weightings) float64 {
	weights := DefaultWeightings
	if w != nil {
		weights = *w
	}
	return cv*float64(weights.CV)/100 + assessment*float64(weights.Assessment)/100
}

// Round rounds score to the given number of decimal places for display.
func Round(score float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	factor := math.Pow(10, float64(places))
	return math.Round(score*factor) / factor
}

// Recommendation returns the hiring band for an overall score.
func Recommendation(overall float64) string {
	return recommend.ForScore(overall)
}
