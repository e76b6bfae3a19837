package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-scorer/internal/assessment"
	"github.com/spigell/resume-scorer/internal/shortlist"
	"github.com/spigell/resume-scorer/internal/store"
)

func TestResolveApplications(t *testing.T) {
	ctx := context.Background()
	results := store.NewMemory()
	if err := results.Create(ctx, &assessment.Result{
		ID:              uuid.New(),
		ApplicationID:   2,
		PercentageScore: 75,
		SubmittedAt:     time.Now(),
	}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	core, logs := observer.New(zap.WarnLevel)
	explicit := 40.0
	apps, err := resolveApplications(ctx, []applicationInput{
		{ApplicationID: 1, JobID: 9, CVScore: 80, AssessmentScore: &explicit},
		{ApplicationID: 2, JobID: 9, CVScore: 70},
		{ApplicationID: 3, JobID: 9, CVScore: 60},
	}, results, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := []float64{apps[0].AssessmentScore, apps[1].AssessmentScore, apps[2].AssessmentScore}
	want := []float64{40, 75, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected assessment scores %v, got %v", want, got)
		}
	}

	if logs.Len() != 1 {
		t.Fatalf("expected one warning for the unassessed application, got %d", logs.Len())
	}
}

func TestReadShortlistInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	doc := `{"applications": [{"application_id": 5, "candidate_id": 50, "job_id": 1, "cv_score": 88}],
		"profiles": [{"candidate_id": 50, "text": "Go and Kubernetes"}, {"candidate_id": 51, "text": "Go and Docker"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	input, err := readShortlistInput(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(input.Applications) != 1 || input.Applications[0].AssessmentScore != nil {
		t.Fatalf("unexpected applications: %+v", input.Applications)
	}

	similar := similarTo(50, input.Profiles)
	if len(similar) != 1 || similar[0].CandidateID != 51 {
		t.Fatalf("unexpected similar candidates: %+v", similar)
	}
	if got := similarTo(99, input.Profiles); len(got) != 0 {
		t.Fatalf("expected no similar candidates for unknown profile, got %+v", got)
	}

	if _, err := readShortlistInput(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestRankResolvedApplications(t *testing.T) {
	apps := []shortlist.Application{
		{ApplicationID: 1, JobID: 1, CVScore: 80, AssessmentScore: 50},
		{ApplicationID: 2, JobID: 2, CVScore: 80, AssessmentScore: 50},
	}
	weights := shortlist.StaticWeightings(map[int64]shortlist.Weightings{2: {CV: 100}})

	entries := shortlist.Rank(apps, weights)
	if entries[0].ApplicationID != 2 || entries[0].OverallScore != 80 {
		t.Fatalf("expected job weightings to apply, got %+v", entries[0])
	}
	if entries[1].OverallScore != 68 {
		t.Fatalf("expected default weightings to give 68, got %v", entries[1].OverallScore)
	}
}
