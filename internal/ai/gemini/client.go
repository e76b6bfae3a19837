package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/utils"
)

const (
	providerName = "gemini"

	defaultModel           = "gemini-2.5-flash"
	defaultMaxOutputTokens = 700
	defaultTimeout         = 60 * time.Second
	defaultMaxRetries      = 3
	defaultBackoff         = 5 * time.Second
)

var waitFor = utils.WaitFor

// contentModels is the subset of genai.Models used by this package.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// RetryPolicy bounds every remote call.
type RetryPolicy struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}
	if p.MaxRetries <= 0 {
		p.MaxRetries = defaultMaxRetries
	}
	if p.Backoff <= 0 {
		p.Backoff = defaultBackoff
	}
	return p
}

// DefaultRetryPolicy returns a 60s per-attempt timeout, 3 attempts and a 5s pause.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Timeout: defaultTimeout, MaxRetries: defaultMaxRetries, Backoff: defaultBackoff}
}

// NewClient creates a genai client for the Gemini API backend.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	Model           string
	MaxOutputTokens int32
	Retry           RetryPolicy
}

// Generator sends single-prompt completions to Gemini.
type Generator struct {
	models          contentModels
	model           string
	maxOutputTokens int32
	retry           RetryPolicy
	logger          *zap.Logger
}

// NewGenerator wraps client. Zero option values fall back to the defaults.
func NewGenerator(client *genai.Client, opts GeneratorOptions, log *zap.Logger) (*Generator, error) {
	if client == nil {
		return nil, errors.New("gemini client is required")
	}
	return newGenerator(client.Models, opts, log), nil
}

func newGenerator(models contentModels, opts GeneratorOptions, log *zap.Logger) *Generator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	tokens := opts.MaxOutputTokens
	if tokens <= 0 {
		tokens = defaultMaxOutputTokens
	}

	return &Generator{
		models:          models,
		model:           model,
		maxOutputTokens: tokens,
		retry:           opts.Retry.withDefaults(),
		logger:          logger.WithCommonFields(log, providerName, model),
	}
}

// GenerateContent sends the prompt with temperature 0 and returns the joined text
// parts of the response. Transient failures are retried; once attempts run out the
// error wraps apperr.ErrTransientTransport.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	temperature := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: g.maxOutputTokens,
	}

	var output string
	err := withRetry(ctx, g.retry, g.logger, "generate content", func(attemptCtx context.Context) error {
		resp, err := g.models.GenerateContent(attemptCtx, g.model, genai.Text(prompt), config)
		if err != nil {
			return err
		}
		output = responseText(resp)
		return nil
	})
	if err != nil {
		return "", err
	}

	if output == "" {
		return "", fmt.Errorf("gemini api returned empty response: %w", apperr.ErrMalformedResponse)
	}
	return output, nil
}

// Model returns the completion model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func withRetry(ctx context.Context, policy RetryPolicy, log *zap.Logger, op string, call func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= policy.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
		err := call(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) || ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		log.Warn("gemini call failed",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.MaxRetries),
			zap.Error(err),
		)

		if attempt == policy.MaxRetries {
			break
		}
		if err := waitFor(ctx, policy.Backoff); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w: %w", op, policy.MaxRetries, apperr.ErrTransientTransport, lastErr)
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return transientStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return transientStatus(apiErrPtr.Code)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
