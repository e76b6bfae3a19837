package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/matching"
)

func TestEmbedderWithoutLocalModelIsUnavailable(t *testing.T) {
	embedder := newEmbedder(EmbeddingConfig{Enabled: true, ModelsDir: t.TempDir()}, zap.NewNop())

	started := time.Now()
	if _, err := embedder.Get(); !errors.Is(err, apperr.ErrModelUnavailable) {
		t.Fatalf("expected model unavailable, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Fatalf("expected a missing model to fail without waiting, took %s", elapsed)
	}
	if !embedder.Loaded() {
		t.Fatal("expected the failed load to be kept")
	}
}

func TestOrchestratorFallsThroughToKeywordOffline(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	config := &Config{
		AI:        AIConfig{Enabled: false},
		Embedding: EmbeddingConfig{Enabled: true, ModelsDir: t.TempDir()},
	}

	orchestrator := newOrchestrator(context.Background(), config, zap.New(core))

	statuses := orchestrator.Describe()
	if len(statuses) != 3 {
		t.Fatalf("expected three tiers, got %+v", statuses)
	}
	if statuses[0].Name != matching.TierRemote || statuses[0].Enabled {
		t.Fatalf("expected remote tier to be disabled, got %+v", statuses[0])
	}
	if !statuses[1].Enabled || !statuses[2].Enabled {
		t.Fatalf("expected embedding and keyword tiers to be enabled, got %+v", statuses)
	}

	req := matching.Request{ResumeText: "Go developer", JobDescription: "Go developer with Kubernetes"}
	for range 2 {
		result := orchestrator.Match(context.Background(), req)
		if result.Tier != matching.TierKeyword {
			t.Fatalf("expected keyword tier, got %s (%s)", result.Tier, result.RawDiagnostic)
		}
	}

	failures := logs.FilterMessage("matching tier failed").All()
	if len(failures) != 2 {
		t.Fatalf("expected the embedding tier to fail once per match, got %d", len(failures))
	}
	for _, entry := range failures {
		if entry.ContextMap()["tier"] != matching.TierEmbedding {
			t.Fatalf("unexpected failing tier: %v", entry.ContextMap())
		}
	}
	if n := logs.FilterMessage("gemini call failed").Len(); n != 0 {
		t.Fatalf("expected no remote calls, got %d retry logs", n)
	}
}

func TestEmbeddingDisabledInConfiguration(t *testing.T) {
	config := &Config{Embedding: EmbeddingConfig{Enabled: false}}

	statuses := newOrchestrator(context.Background(), config, zap.NewNop()).Describe()
	if statuses[1].Name != matching.TierEmbedding || statuses[1].Enabled || statuses[1].Reason != "disabled in configuration" {
		t.Fatalf("unexpected embedding status: %+v", statuses[1])
	}
}
