package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai/gemini"
	"github.com/spigell/resume-scorer/internal/embedding"
	"github.com/spigell/resume-scorer/internal/lazy"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/matching"
	"github.com/spigell/resume-scorer/internal/nlp"
	"github.com/spigell/resume-scorer/internal/secrets"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

// newOrchestrator builds the remote, embedding and keyword tiers. A tier whose
// dependency is missing stays in the chain as disabled so Describe can explain it.
func newOrchestrator(ctx context.Context, config *Config, log *zap.Logger) *matching.Orchestrator {
	remote, remoteReason := newRemoteTier(ctx, config, log)

	models := nlp.Shared()
	orchestrator := matching.NewOrchestrator(log,
		remote,
		matching.NewEmbeddingMatcher(newEmbedder(config.Embedding, log), models),
		matching.NewKeywordMatcher(models),
	)

	if remoteReason != "" {
		orchestrator.Disable(matching.TierRemote, remoteReason)
	}
	if !config.Embedding.Enabled {
		orchestrator.Disable(matching.TierEmbedding, "disabled in configuration")
	}

	for _, status := range orchestrator.Describe() {
		log.Debug("matching tier",
			zap.String(logger.FieldTier, status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return orchestrator
}

// newRemoteTier returns the Gemini analyzer and, when it cannot run, the reason.
func newRemoteTier(ctx context.Context, config *Config, log *zap.Logger) (matching.Matcher, string) {
	gcfg := config.AI.Gemini
	unavailable := gemini.NewAnalyzer(nil, log, gcfg.MaxLogLength)

	if !config.AI.Enabled {
		return unavailable, "disabled in configuration"
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return unavailable, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv).Error()
	}

	client, err := gemini.NewClient(ctx, apiKey)
	if err != nil {
		return unavailable, err.Error()
	}

	generator, err := gemini.NewGenerator(client, gemini.GeneratorOptions{
		Model:           gcfg.Model,
		MaxOutputTokens: int32(gcfg.MaxOutputTokens),
		Retry: gemini.RetryPolicy{
			Timeout:    gcfg.Timeout,
			MaxRetries: gcfg.MaxRetries,
			Backoff:    gcfg.Backoff,
		},
	}, log.With(zap.Int("ai_retry_attempts", gcfg.MaxRetries)))
	if err != nil {
		return unavailable, err.Error()
	}

	return gemini.NewAnalyzer(generator, log, gcfg.MaxLogLength), ""
}

// newEmbedder defers loading the local model until the embedding tier first runs.
// A failed load is kept, so the tier stays unavailable for the process lifetime.
func newEmbedder(cfg EmbeddingConfig, log *zap.Logger) *lazy.Value[matching.Embedder] {
	return lazy.New("local-embedder", func() (matching.Embedder, error) {
		e, err := embedding.Load(embedding.Config{
			ModelsDir: cfg.ModelsDir,
			Model:     cfg.Model,
			Download:  cfg.Download,
		}, log)
		if err != nil {
			return nil, err
		}
		return e, nil
	})
}
