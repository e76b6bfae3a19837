// Package embedding runs a sentence-embedding model in process. Nothing here
// touches the network unless downloads are explicitly enabled.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nlpodyssey/cybertron/pkg/models/bert"
	"github.com/nlpodyssey/cybertron/pkg/tasks"
	"github.com/nlpodyssey/cybertron/pkg/tasks/textencoding"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/logger"
)

const (
	providerName = "cybertron"

	DefaultModel     = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultModelsDir = "models"

	// all-MiniLM-L6-v2 reads at most 256 word pieces, longer inputs are cut.
	maxInputWords = 200
)

// Config locates the model on disk.
type Config struct {
	ModelsDir string `mapstructure:"models-dir"`
	Model     string `mapstructure:"model"`
	// Download fetches a missing model from the Hugging Face hub while loading.
	Download bool `mapstructure:"download"`
}

func (c Config) withDefaults() Config {
	if c.ModelsDir = strings.TrimSpace(c.ModelsDir); c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.Model = strings.TrimSpace(c.Model); c.Model == "" {
		c.Model = DefaultModel
	}
	return c
}

type encodeFunc func(ctx context.Context, text string) ([]float64, error)

// Encoder turns text into a mean-pooled sentence embedding.
type Encoder struct {
	model  string
	encode encodeFunc
}

// Load reads the model from cfg.ModelsDir. A model that is not on disk, while
// downloads are disabled, is reported as apperr.ErrModelUnavailable right away.
func Load(cfg Config, log *zap.Logger) (*Encoder, error) {
	cfg = cfg.withDefaults()
	log = logger.WithCommonFields(log, providerName, cfg.Model)

	policy := tasks.DownloadMissing
	if !cfg.Download {
		policy = tasks.DownloadNever
		if _, err := os.Stat(filepath.Join(cfg.ModelsDir, cfg.Model)); err != nil {
			return nil, apperr.NewModelUnavailableError(cfg.Model,
				fmt.Errorf("not found in %q and downloads are disabled: %w", cfg.ModelsDir, err))
		}
	}

	started := time.Now()
	model, err := tasks.Load[textencoding.Interface](&tasks.Config{
		ModelsDir:      cfg.ModelsDir,
		ModelName:      cfg.Model,
		DownloadPolicy: policy,
	})
	if err != nil {
		return nil, apperr.NewModelUnavailableError(cfg.Model, err)
	}
	log.Info("embedding model loaded", zap.Duration("duration", time.Since(started)))

	return newEncoder(cfg.Model, func(ctx context.Context, text string) ([]float64, error) {
		resp, err := model.Encode(ctx, text, int(bert.MeanPooling))
		if err != nil {
			return nil, err
		}
		return resp.Vector.Data().F64(), nil
	}), nil
}

func newEncoder(model string, encode encodeFunc) *Encoder {
	return &Encoder{model: model, encode: encode}
}

// Model returns the model name.
func (e *Encoder) Model() string {
	return e.model
}

// Embed returns the embedding of the first words of text.
func (e *Encoder) Embed(ctx context.Context, text string) ([]float32, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, errors.New("nothing to embed")
	}
	if len(words) > maxInputWords {
		words = words[:maxInputWords]
	}

	values, err := e.encode(ctx, strings.Join(words, " "))
	if err != nil {
		return nil, fmt.Errorf("encode with %s: %w", e.model, err)
	}

	vector := make([]float32, len(values))
	for i, v := range values {
		vector[i] = float32(v)
	}
	return vector, nil
}
