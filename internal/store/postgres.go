package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/db"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	input      TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	stats      JSONB NOT NULL DEFAULT '{}',
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS results (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	entity_key TEXT NOT NULL,
	line       INTEGER NOT NULL DEFAULT 0,
	outcome    TEXT NOT NULL,
	domain     TEXT NOT NULL DEFAULT '',
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	resolution JSONB,
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (run_id, entity_key)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_results_run_outcome ON results(run_id, outcome);
`

// resultsUpsert stages result batches with COPY and merges on the
// (run_id, entity_key) key. The row id is kept from the first save.
var resultsUpsert = db.UpsertConfig{
	Table:        "results",
	Columns:      []string{"id", "run_id", "entity_key", "line", "outcome", "domain", "confidence", "resolution", "error", "created_at"},
	ConflictKeys: []string{"run_id", "entity_key"},
	UpdateCols:   []string{"line", "outcome", "domain", "confidence", "resolution", "error", "created_at"},
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, input string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, input, status, stats, created_at, updated_at) VALUES ($1, $2, $3, '{}', $4, $5)`,
		id, input, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Input:     input,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, stats model.RunStats, runErr string) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal stats")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, stats = $2, error = $3, updated_at = $4 WHERE id = $5`,
		string(status), statsJSON, runErr, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, input, status, stats, error, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	)
	r, err := scanPgRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrap(ErrNotFound, "postgres: get run")
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, input, status, stats, error, created_at, updated_at FROM runs`
	args := []any{}

	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, listLimit(filter.Limit), filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveResults(ctx context.Context, records []model.ResultRecord) error {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		args, err := resultArgs(rec)
		if err != nil {
			return err
		}
		rows = append(rows, args)
	}
	_, err := db.BulkUpsert(ctx, s.pool, resultsUpsert, rows)
	return eris.Wrap(err, "postgres: save results")
}

func (s *PostgresStore) ListResults(ctx context.Context, filter ResultFilter) ([]model.ResultRecord, error) {
	query := `SELECT id, run_id, entity_key, line, outcome, domain, confidence, resolution, error, created_at
		FROM results WHERE run_id = $1`
	args := []any{filter.RunID}

	if filter.Outcome != "" {
		args = append(args, string(filter.Outcome))
		query += ` AND outcome = ` + placeholder(len(args))
	}
	query += ` ORDER BY line, entity_key LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, listLimit(filter.Limit), filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list results")
	}
	defer rows.Close()

	var out []model.ResultRecord
	for rows.Next() {
		var rec model.ResultRecord
		var outcome string
		var resolutionJSON []byte
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.EntityKey, &rec.Line, &outcome,
			&rec.Domain, &rec.Confidence, &resolutionJSON, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan result")
		}
		rec.Outcome = model.Outcome(outcome)
		if len(resolutionJSON) > 0 {
			rec.Resolution = &model.Resolution{}
			if err := json.Unmarshal(resolutionJSON, rec.Resolution); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal resolution")
			}
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list results iterate")
}

func (s *PostgresStore) CompletedKeys(ctx context.Context, runID string) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT entity_key FROM results WHERE run_id = $1 AND outcome <> $2`,
		runID, string(model.OutcomeError),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: completed keys")
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, eris.Wrap(err, "postgres: scan completed key")
		}
		keys[k] = struct{}{}
	}
	return keys, eris.Wrap(rows.Err(), "postgres: completed keys iterate")
}

func scanPgRun(row pgx.Row) (*model.Run, error) {
	var r model.Run
	var status string
	var statsJSON []byte
	if err := row.Scan(&r.ID, &r.Input, &status, &statsJSON, &r.Error, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Status = model.RunStatus(status)
	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &r.Stats); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal stats")
		}
	}
	return &r, nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
