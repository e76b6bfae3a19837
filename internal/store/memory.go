package store

import (
	"context"
	"sync"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/assessment"
)

// Memory keeps results for the lifetime of the process.
type Memory struct {
	mu      sync.Mutex
	results map[int64]assessment.Result
}

func NewMemory() *Memory {
	return &Memory{results: make(map[int64]assessment.Result)}
}

func (m *Memory) Create(_ context.Context, result *assessment.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.results[result.ApplicationID]; ok {
		return apperr.NewDuplicateSubmissionError(result.ApplicationID)
	}
	m.results[result.ApplicationID] = result.Clone()
	return nil
}

func (m *Memory) Get(_ context.Context, applicationID int64) (*assessment.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result, ok := m.results[applicationID]
	if !ok {
		return nil, apperr.ErrResultNotFound
	}
	stored := result.Clone()
	return &stored, nil
}

func (m *Memory) Close() error { return nil }
