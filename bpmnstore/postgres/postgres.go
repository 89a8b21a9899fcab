// Package postgres implements bpmnstore.TraceStore backed by PostgreSQL,
// for a server-backed trace sink shared across engine instances.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/bpmnflow/bpmnstore"
)

// DBPool is the subset of *pgxpool.Pool this store needs, so tests can
// substitute a mock pool without a live Postgres.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// TraceStore implements bpmnstore.TraceStore using PostgreSQL.
type TraceStore struct {
	pool      DBPool
	tableName string
}

// Options configures the Postgres connection.
type Options struct {
	ConnString string
	TableName  string // default "bpmn_runs"
}

// New opens a connection pool and returns a trace store backed by it.
func New(ctx context.Context, opts Options) (*TraceStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "bpmn_runs"
	}
	return &TraceStore{pool: pool, tableName: tableName}, nil
}

// NewWithPool builds a trace store around an already-open pool, for
// injecting a mock pool in tests.
func NewWithPool(pool DBPool, tableName string) *TraceStore {
	if tableName == "" {
		tableName = "bpmn_runs"
	}
	return &TraceStore{pool: pool, tableName: tableName}
}

// InitSchema creates the backing table if it doesn't exist.
func (s *TraceStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			process_id TEXT NOT NULL,
			entries JSONB NOT NULL,
			error TEXT,
			timestamp TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_process_id ON %s (process_id);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *TraceStore) Close() {
	s.pool.Close()
}

// Save records a completed run.
func (s *TraceStore) Save(ctx context.Context, run *bpmnstore.Run) error {
	entriesJSON, err := json.Marshal(run.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, process_id, entries, error, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			process_id = EXCLUDED.process_id,
			entries = EXCLUDED.entries,
			error = EXCLUDED.error,
			timestamp = EXCLUDED.timestamp
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query, run.ID, run.ProcessID, entriesJSON, run.Err, run.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// List returns every recorded run for the given process id, oldest first.
func (s *TraceStore) List(ctx context.Context, processID string) ([]*bpmnstore.Run, error) {
	query := fmt.Sprintf(`
		SELECT id, process_id, entries, error, timestamp
		FROM %s
		WHERE process_id = $1
		ORDER BY timestamp ASC
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*bpmnstore.Run
	for rows.Next() {
		var run bpmnstore.Run
		var entriesJSON []byte
		if err := rows.Scan(&run.ID, &run.ProcessID, &entriesJSON, &run.Err, &run.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if err := json.Unmarshal(entriesJSON, &run.Entries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}
	return runs, nil
}

// Delete removes a recorded run.
func (s *TraceStore) Delete(ctx context.Context, runID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	_, err := s.pool.Exec(ctx, query, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

var _ bpmnstore.TraceStore = (*TraceStore)(nil)
