package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/logger"
)

// Store persists results. Create must fail with apperr.ErrDuplicateSubmission when
// a result for the same application already exists, without touching it.
type Store interface {
	Create(ctx context.Context, result *Result) error
	Get(ctx context.Context, applicationID int64) (*Result, error)
}

// Service scores submissions and records the first result per application.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.WithFields(log),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.New,
	}
}

// Submit scores sub and stores the result. A second submission for the same
// application is rejected with a DuplicateSubmissionError.
func (s *Service) Submit(ctx context.Context, applicationID int64, questions []Question, sub Submission) (*Result, error) {
	log := logger.WithApplication(s.logger, applicationID, 0)

	if applicationID <= 0 {
		return nil, apperr.NewValidationError("application_id", "must be positive")
	}

	existing, err := s.store.Get(ctx, applicationID)
	switch {
	case err == nil && existing != nil:
		log.Warn("assessment already submitted", zap.String("result_id", existing.ID.String()))
		return nil, apperr.NewDuplicateSubmissionError(applicationID)
	case err != nil && !errors.Is(err, apperr.ErrResultNotFound):
		return nil, fmt.Errorf("look up assessment result: %w", err)
	}

	result, err := Score(questions, sub)
	if err != nil {
		return nil, err
	}
	result.ID = s.newID()
	result.ApplicationID = applicationID
	result.SubmittedAt = s.now()

	if err := s.store.Create(ctx, &result); err != nil {
		if errors.Is(err, apperr.ErrDuplicateSubmission) {
			log.Warn("assessment submitted concurrently", zap.Error(err))
			return nil, err
		}
		return nil, fmt.Errorf("store assessment result: %w", err)
	}

	log.Info("assessment scored",
		zap.String("result_id", result.ID.String()),
		zap.Float64("total_score", result.TotalScore),
		zap.Float64("max_score", result.MaxScore),
		zap.Float64("percentage_score", result.PercentageScore),
		zap.String("recommendation", result.Recommendation),
	)

	return &result, nil
}

// Result returns the stored result for an application.
func (s *Service) Result(ctx context.Context, applicationID int64) (*Result, error) {
	return s.store.Get(ctx, applicationID)
}
