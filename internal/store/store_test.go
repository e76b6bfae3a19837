package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/assessment"
)

func sampleResult(applicationID int64, percentage float64) *assessment.Result {
	return &assessment.Result{
		ID:              uuid.New(),
		ApplicationID:   applicationID,
		Scores:          map[string]float64{"0": 1, "1": 0},
		TotalScore:      1,
		MaxScore:        2,
		PercentageScore: percentage,
		Recommendation:  "fail",
		Answers:         map[string]string{"0": "A", "1": "C"},
		SubmittedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStoresRejectDuplicates(t *testing.T) {
	t.Parallel()

	backends := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemory() },
		"file": func(t *testing.T) Store {
			f, err := OpenFile(filepath.Join(t.TempDir(), "results.json"))
			require.NoError(t, err)
			return f
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := open(t)
			ctx := context.Background()

			_, err := s.Get(ctx, 9)
			assert.ErrorIs(t, err, apperr.ErrResultNotFound)

			first := sampleResult(9, 50)
			require.NoError(t, s.Create(ctx, first))

			err = s.Create(ctx, sampleResult(9, 100))
			assert.ErrorIs(t, err, apperr.ErrDuplicateSubmission)

			stored, err := s.Get(ctx, 9)
			require.NoError(t, err)
			assert.Equal(t, first.ID, stored.ID)
			assert.Equal(t, 50.0, stored.PercentageScore)

			require.NoError(t, s.Close())
		})
	}
}

func TestMemoryConcurrentCreateAcceptsOne(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	var accepted atomic.Int32
	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Create(context.Background(), sampleResult(1, float64(i))); err == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.json")
	ctx := context.Background()

	s, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, sampleResult(2, 75)))
	require.NoError(t, s.Create(ctx, sampleResult(1, 25)))

	reopened, err := OpenFile(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.PercentageScore)
	assert.Equal(t, "A", got.Answers["0"])

	err = reopened.Create(ctx, sampleResult(1, 90))
	assert.ErrorIs(t, err, apperr.ErrDuplicateSubmission)
}

func TestFileStoreEmptyAndInvalidFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	s, err := OpenFile(empty)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrResultNotFound)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
	_, err = OpenFile(broken)
	assert.Error(t, err)

	_, err = OpenFile("  ")
	assert.Error(t, err)
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Parallel()

	s, err := Open(Config{}, nil, false)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(Config{Driver: "FILE", Path: filepath.Join(t.TempDir(), "r.json")}, nil, false)
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	_, err = Open(Config{Driver: "postgres"}, nil, false)
	assert.Error(t, err)

	_, err = Open(Config{Driver: "mongo"}, nil, false)
	assert.Error(t, err)
}

func TestStoredResultsAreNotShared(t *testing.T) {
	t.Parallel()

	backends := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemory() },
		"file": func(t *testing.T) Store {
			f, err := OpenFile(filepath.Join(t.TempDir(), "results.json"))
			require.NoError(t, err)
			return f
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := open(t)
			ctx := context.Background()

			submitted := sampleResult(4, 50)
			require.NoError(t, s.Create(ctx, submitted))
			submitted.Scores["0"] = 99
			submitted.Answers["1"] = "A"

			got, err := s.Get(ctx, 4)
			require.NoError(t, err)
			assert.Equal(t, 1.0, got.Scores["0"])
			assert.Equal(t, "C", got.Answers["1"])

			got.Scores["1"] = 5
			delete(got.Answers, "0")

			again, err := s.Get(ctx, 4)
			require.NoError(t, err)
			assert.Equal(t, map[string]float64{"0": 1, "1": 0}, again.Scores)
			assert.Equal(t, map[string]string{"0": "A", "1": "C"}, again.Answers)
		})
	}
}
