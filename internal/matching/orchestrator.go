package matching

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/logger"
)

// Status represents runtime information about a matching tier.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

type tier struct {
	matcher  Matcher
	disabled bool
	reason   string
}

// Orchestrator runs matchers in priority order and returns the first successful
// result. Disable may be called while Match runs.
type Orchestrator struct {
	mu     sync.RWMutex
	tiers  []*tier
	logger *zap.Logger
}

// NewOrchestrator returns an orchestrator that tries matchers in the given order.
// Nil matchers are skipped.
func NewOrchestrator(log *zap.Logger, matchers ...Matcher) *Orchestrator {
	o := &Orchestrator{logger: logger.WithFields(log)}
	for _, m := range matchers {
		if m == nil {
			continue
		}
		o.tiers = append(o.tiers, &tier{matcher: m})
	}
	return o
}

// Disable marks the tier with the provided name as disabled while keeping it in
// the list so that Describe still reports it.
func (o *Orchestrator) Disable(name, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, t := range o.tiers {
		if t.matcher.Name() == name {
			t.disabled = true
			t.reason = reason
		}
	}
}

// Describe returns status entries for every tier in priority order.
func (o *Orchestrator) Describe() []Status {
	o.mu.RLock()
	defer o.mu.RUnlock()

	statuses := make([]Status, 0, len(o.tiers))
	for _, t := range o.tiers {
		statuses = append(statuses, Status{
			Name:    t.matcher.Name(),
			Enabled: !t.disabled,
			Reason:  t.reason,
		})
	}
	return statuses
}

// Match never fails. When every tier fails the result has a zero score, empty
// lists and a diagnostic naming each failure.
func (o *Orchestrator) Match(ctx context.Context, req Request) Result {
	failures := make([]string, 0, len(o.tiers))

	for _, t := range o.tiers {
		name := t.matcher.Name()
		if disabled, reason := o.state(t); disabled {
			o.logger.Debug("matching tier disabled", zap.String(logger.FieldTier, name), zap.String("reason", reason))
			failures = append(failures, fmt.Sprintf("%s: disabled (%s)", name, reason))
			continue
		}

		started := time.Now()
		result, err := safeMatch(ctx, t.matcher, req)
		elapsed := time.Since(started)

		if err != nil {
			o.logger.Warn("matching tier failed",
				zap.String(logger.FieldTier, name),
				zap.Duration("duration", elapsed),
				zap.Error(err),
			)
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		result = result.normalized()
		if result.Tier == "" {
			result.Tier = name
		}

		o.logger.Info("matching tier succeeded",
			zap.String(logger.FieldTier, name),
			zap.Duration("duration", elapsed),
			zap.Int("match_score", result.MatchScore),
			zap.Int("missing_skills", len(result.MissingSkills)),
		)
		return result
	}

	diagnostic := "no matching tiers configured"
	if len(failures) > 0 {
		diagnostic = "all matching tiers failed: " + strings.Join(failures, "; ")
	}
	o.logger.Error("matching exhausted every tier", zap.String("diagnostic", diagnostic))

	return Result{
		MatchScore:    0,
		MissingSkills: []string{},
		Suggestions:   []string{},
		RawDiagnostic: diagnostic,
		Tier:          TierNone,
	}
}

func (o *Orchestrator) state(t *tier) (bool, string) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return t.disabled, t.reason
}

func safeMatch(ctx context.Context, m Matcher, req Request) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return m.Match(ctx, req)
}
