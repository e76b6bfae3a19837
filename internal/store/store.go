// Package store keeps assessment results. Every backend enforces a single result
// per application.
package store

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/assessment"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// Store is an assessment.Store that holds resources.
type Store interface {
	assessment.Store
	Close() error
}

// Open returns the backend named by cfg.Driver. An empty driver means memory.
func Open(cfg Config, log *zap.Logger, debug bool) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		f, err := OpenFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case DriverPostgres:
		pg, err := OpenPostgres(cfg.DSN, log, debug)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
