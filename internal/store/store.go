// Package store persists batch runs and their per-entity resolutions in
// SQLite or Postgres.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/config"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = eris.New("store: not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// ResultFilter specifies criteria for listing a run's results.
type ResultFilter struct {
	RunID   string        `json:"run_id"`
	Outcome model.Outcome `json:"outcome,omitempty"`
	Limit   int           `json:"limit,omitempty"`
	Offset  int           `json:"offset,omitempty"`
}

// Store defines the persistence interface for batch resolution.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, input string) (*model.Run, error)
	FinishRun(ctx context.Context, runID string, status model.RunStatus, stats model.RunStats, runErr string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Results are keyed by (run, entity key); saving again replaces.
	SaveResults(ctx context.Context, records []model.ResultRecord) error
	ListResults(ctx context.Context, filter ResultFilter) ([]model.ResultRecord, error)
	// CompletedKeys returns entity keys of a run that resolved without error.
	CompletedKeys(ctx context.Context, runID string) (map[string]struct{}, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open builds the configured store and migrates it.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "", "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = "resolver.db"
		}
		s, err = NewSQLite(path)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, eris.New("store: postgres driver needs store.database_url")
		}
		s, err = NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
