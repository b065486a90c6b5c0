package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	input      TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	stats      TEXT NOT NULL DEFAULT '{}',
	error      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS results (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	entity_key TEXT NOT NULL,
	line       INTEGER NOT NULL DEFAULT 0,
	outcome    TEXT NOT NULL,
	domain     TEXT NOT NULL DEFAULT '',
	confidence REAL NOT NULL DEFAULT 0,
	resolution TEXT,
	error      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (run_id, entity_key)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_results_run_outcome ON results(run_id, outcome);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, input string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input, status, stats, created_at, updated_at) VALUES (?, ?, ?, '{}', ?, ?)`,
		id, input, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Input:     input,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, stats model.RunStats, runErr string) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal stats")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, stats = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), string(statsJSON), runErr, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input, status, stats, error, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, input, status, stats, error, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, listLimit(filter.Limit), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

const sqliteUpsertResult = `
INSERT INTO results (id, run_id, entity_key, line, outcome, domain, confidence, resolution, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (run_id, entity_key) DO UPDATE SET
	line = excluded.line,
	outcome = excluded.outcome,
	domain = excluded.domain,
	confidence = excluded.confidence,
	resolution = excluded.resolution,
	error = excluded.error,
	created_at = excluded.created_at`

func (s *SQLiteStore) SaveResults(ctx context.Context, records []model.ResultRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save results")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, sqliteUpsertResult)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare save results")
	}
	defer stmt.Close() //nolint:errcheck

	for _, rec := range records {
		args, err := resultArgs(rec)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return eris.Wrapf(err, "sqlite: save result %s", rec.EntityKey)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit save results")
}

func (s *SQLiteStore) ListResults(ctx context.Context, filter ResultFilter) ([]model.ResultRecord, error) {
	query := `SELECT id, run_id, entity_key, line, outcome, domain, confidence, resolution, error, created_at
		FROM results WHERE run_id = ?`
	args := []any{filter.RunID}

	if filter.Outcome != "" {
		query += ` AND outcome = ?`
		args = append(args, string(filter.Outcome))
	}
	query += ` ORDER BY line, entity_key LIMIT ? OFFSET ?`
	args = append(args, listLimit(filter.Limit), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list results")
	}
	defer rows.Close()

	var out []model.ResultRecord
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list results iterate")
}

func (s *SQLiteStore) CompletedKeys(ctx context.Context, runID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entity_key FROM results WHERE run_id = ? AND outcome <> ?`,
		runID, string(model.OutcomeError),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: completed keys")
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan completed key")
		}
		keys[k] = struct{}{}
	}
	return keys, eris.Wrap(rows.Err(), "sqlite: completed keys iterate")
}

// helpers

func checkRowsAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var statsJSON string

	err := row.Scan(&r.ID, &r.Input, &r.Status, &statsJSON, &r.Error, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrap(ErrNotFound, "sqlite: get run")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	if err := json.Unmarshal([]byte(statsJSON), &r.Stats); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal stats")
	}
	return &r, nil
}

func scanResult(row scannable) (*model.ResultRecord, error) {
	var rec model.ResultRecord
	var resolutionJSON sql.NullString

	err := row.Scan(&rec.ID, &rec.RunID, &rec.EntityKey, &rec.Line, &rec.Outcome,
		&rec.Domain, &rec.Confidence, &resolutionJSON, &rec.Error, &rec.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan result")
	}
	if resolutionJSON.Valid && resolutionJSON.String != "" {
		rec.Resolution = &model.Resolution{}
		if err := json.Unmarshal([]byte(resolutionJSON.String), rec.Resolution); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal resolution")
		}
	}
	return &rec, nil
}

// resultArgs returns the column values of rec in results-table order.
func resultArgs(rec model.ResultRecord) ([]any, error) {
	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	var resolution any
	if rec.Resolution != nil {
		b, err := json.Marshal(rec.Resolution)
		if err != nil {
			return nil, eris.Wrap(err, "store: marshal resolution")
		}
		resolution = string(b)
	}
	return []any{
		id, rec.RunID, rec.EntityKey, rec.Line, string(rec.Outcome),
		rec.Domain, rec.Confidence, resolution, rec.Error, created,
	}, nil
}
