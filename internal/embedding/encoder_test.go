package embedding

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spigell/resume-scorer/internal/apperr"
)

func TestLoadMissingModelFailsWithoutDownload(t *testing.T) {
	dir := t.TempDir()

	started := time.Now()
	_, err := Load(Config{ModelsDir: dir}, nil)
	if !errors.Is(err, apperr.ErrModelUnavailable) {
		t.Fatalf("expected model unavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), DefaultModel) {
		t.Fatalf("expected error to name the model, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Fatalf("expected missing model to fail immediately, took %s", elapsed)
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{ModelsDir: "  ", Model: ""}.withDefaults()
	if cfg.ModelsDir != DefaultModelsDir || cfg.Model != DefaultModel {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	cfg = Config{ModelsDir: "/opt/models", Model: "custom/model"}.withDefaults()
	if cfg.ModelsDir != "/opt/models" || cfg.Model != "custom/model" {
		t.Fatalf("expected explicit values to be kept: %+v", cfg)
	}
}

func TestEmbedCutsLongInputAndConverts(t *testing.T) {
	t.Parallel()

	var seen string
	e := newEncoder("stub", func(_ context.Context, text string) ([]float64, error) {
		seen = text
		return []float64{0.5, -0.25}, nil
	})

	long := strings.Repeat("kubernetes ", maxInputWords+50)
	vec, err := e.Embed(context.Background(), "  Go\n"+long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 || vec[1] != -0.25 {
		t.Fatalf("unexpected vector: %v", vec)
	}

	words := strings.Fields(seen)
	if len(words) != maxInputWords || words[0] != "Go" {
		t.Fatalf("expected %d words starting with Go, got %d starting with %q", maxInputWords, len(words), words[0])
	}
}

func TestEmbedErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("tensor shape mismatch")
	e := newEncoder("stub", func(context.Context, string) ([]float64, error) {
		return nil, boom
	})

	if _, err := e.Embed(context.Background(), "Go developer"); !errors.Is(err, boom) {
		t.Fatalf("expected encode error to be wrapped, got %v", err)
	}
	if _, err := e.Embed(context.Background(), " \n\t"); err == nil {
		t.Fatal("expected error for blank text")
	}
	if e.Model() != "stub" {
		t.Fatalf("unexpected model: %s", e.Model())
	}
}
