// Package recommend holds the single score-to-label table shared by the assessment
// and shortlist packages.
package recommend

const (
	StrongHire = "strong_hire"
	Hire       = "hire"
	Maybe      = "maybe"
	NoHire     = "no_hire"

	Pass = "pass"
	Fail = "fail"
)

// Band is a half-open score range [Min, next band's Min) mapped to a label.
type Band struct {
	Min   float64
	Label string
}

// Bands is ordered from the highest threshold to the lowest; a score takes the
// label of the first band whose Min it reaches.
var Bands = []Band{
	{Min: 80, Label: StrongHire},
	{Min: 70, Label: Hire},
	{Min: 60, Label: Maybe},
}

// PassMark is the lowest score that lands in an accepting band.
var PassMark = Bands[len(Bands)-1].Min

// ForScore returns the hiring recommendation for a 0-100 score.
func ForScore(score float64) string {
	for _, b := range Bands {
		if score >= b.Min {
			return b.Label
		}
	}
	return NoHire
}

// PassFail reduces the table to the assessment verdict.
func PassFail(score float64) string {
	if ForScore(score) == NoHire {
		return Fail
	}
	return Pass
}
