package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/matching"
	"github.com/spigell/resume-scorer/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Analyzer is the remote matching tier: it asks a Gemini model to compare the
// resume with the job description and parses the answer.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewAnalyzer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger.WithCommonFields(log, providerName, model),
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) Name() string { return matching.TierRemote }

func (a *Analyzer) Match(ctx context.Context, req matching.Request) (matching.Result, error) {
	if a.generator == nil {
		return matching.Result{}, fmt.Errorf("gemini generator is not configured")
	}

	prompt := buildPrompt(req.ResumeText, req.JobDescription)

	a.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return matching.Result{}, err
	}

	a.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	result, err := parseResponse(raw)
	if err != nil {
		a.logger.Warn("gemini response could not be parsed",
			zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
			zap.Error(err),
		)
		return matching.Result{}, err
	}

	result.RawDiagnostic = raw
	result.Tier = matching.TierRemote
	return result, nil
}

func buildPrompt(resume, job string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n{{RESUME}}\n\nJob Description:\n{{JOB_DESCRIPTION}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{RESUME}}", strings.TrimSpace(resume))
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", strings.TrimSpace(job))
	return prompt
}
