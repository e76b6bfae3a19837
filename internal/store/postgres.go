package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/assessment"
)

type assessmentRecord struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey"`
	ApplicationID   int64              `gorm:"not null;uniqueIndex"`
	Scores          map[string]float64 `gorm:"type:jsonb;serializer:json"`
	TotalScore      float64            `gorm:"not null"`
	MaxScore        float64            `gorm:"not null"`
	PercentageScore float64            `gorm:"not null"`
	Recommendation  string             `gorm:"type:text;not null"`
	Answers         map[string]string  `gorm:"type:jsonb;serializer:json"`
	SubmittedAt     time.Time          `gorm:"not null"`
}

func (assessmentRecord) TableName() string {
	return "assessment_results"
}

// Postgres keeps results in PostgreSQL. The unique index on application_id makes
// concurrent duplicate inserts fail in the database.
type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and migrates the results table.
func OpenPostgres(dsn string, log *zap.Logger, debug bool) (*Postgres, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	logLevel := gormlogger.Silent
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(&assessmentRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if log != nil {
		log.Debug("assessment store migrated", zap.String("table", assessmentRecord{}.TableName()))
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) Create(ctx context.Context, result *assessment.Result) error {
	record := toRecord(result)
	if err := p.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.NewDuplicateSubmissionError(result.ApplicationID)
		}
		return fmt.Errorf("create assessment result: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, applicationID int64) (*assessment.Result, error) {
	var record assessmentRecord
	err := p.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find assessment result: %w", err)
	}
	result := fromRecord(record)
	return &result, nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(r *assessment.Result) assessmentRecord {
	return assessmentRecord{
		ID:              r.ID,
		ApplicationID:   r.ApplicationID,
		Scores:          r.Scores,
		TotalScore:      r.TotalScore,
		MaxScore:        r.MaxScore,
		PercentageScore: r.PercentageScore,
		Recommendation:  r.Recommendation,
		Answers:         r.Answers,
		SubmittedAt:     r.SubmittedAt,
	}
}

func fromRecord(rec assessmentRecord) assessment.Result {
	return assessment.Result{
		ID:              rec.ID,
		ApplicationID:   rec.ApplicationID,
		Scores:          rec.Scores,
		TotalScore:      rec.TotalScore,
		MaxScore:        rec.MaxScore,
		PercentageScore: rec.PercentageScore,
		Recommendation:  rec.Recommendation,
		Answers:         rec.Answers,
		SubmittedAt:     rec.SubmittedAt,
	}
}
