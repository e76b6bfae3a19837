package shortlist

import "sort"

// Application is the per-candidate view the ranker works on.
type Application struct {
	ApplicationID   int64   `json:"application_id"`
	CandidateID     int64   `json:"candidate_id"`
	JobID           int64   `json:"job_id"`
	CVScore         float64 `json:"cv_score"`
	AssessmentScore float64 `json:"assessment_score"`
}

// Entry is a ranked application.
type Entry struct {
	Application
	OverallScore   float64 `json:"overall_score"`
	Recommendation string  `json:"recommendation"`
	Rank           int     `json:"rank"`
}

// WeightingsSource resolves the weightings of a job. A nil result means the job
// has none and the defaults apply.
type WeightingsSource interface {
	Weightings(jobID int64) *Weightings
}

// StaticWeightings is a WeightingsSource backed by a map keyed by job id.
type StaticWeightings map[int64]Weightings

func (s StaticWeightings) Weightings(jobID int64) *Weightings {
	w, ok := s[jobID]
	if !ok {
		return nil
	}
	return &w
}

// Rank scores every application with its job's weightings and orders them by
// overall score, highest first. Equal scores are ordered by ascending
// application id so the output is reproducible.
func Rank(apps []Application, weights WeightingsSource) []Entry {
	entries := make([]Entry, 0, len(apps))
	for _, app := range apps {
		var w *Weightings
		if weights != nil {
			w = weights.Weightings(app.JobID)
		}
		overall := Overall(app.CVScore, app.AssessmentScore, w)
		entries = append(entries, Entry{
			Application:    app,
			OverallScore:   overall,
			Recommendation: Recommendation(overall),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].OverallScore != entries[j].OverallScore {
			return entries[i].OverallScore > entries[j].OverallScore
		}
		return entries[i].ApplicationID < entries[j].ApplicationID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Top returns at most n entries from a ranked list.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}
