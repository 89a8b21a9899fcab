// Package sqlite implements bpmnstore.TraceStore backed by SQLite, for a
// single-process, file-backed trace sink.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/bpmnflow/bpmnstore"
)

// TraceStore implements bpmnstore.TraceStore using SQLite.
type TraceStore struct {
	db        *sql.DB
	tableName string
}

// Options configures the SQLite connection.
type Options struct {
	Path      string
	TableName string // default "bpmn_runs"
}

// New opens (creating if necessary) a SQLite-backed trace store.
func New(opts Options) (*TraceStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "bpmn_runs"
	}

	store := &TraceStore{db: db, tableName: tableName}
	if err := store.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// InitSchema creates the backing table if it doesn't exist.
func (s *TraceStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			process_id TEXT NOT NULL,
			entries TEXT NOT NULL,
			error TEXT,
			timestamp DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_process_id ON %s (process_id);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *TraceStore) Close() error {
	return s.db.Close()
}

// Save records a completed run.
func (s *TraceStore) Save(ctx context.Context, run *bpmnstore.Run) error {
	entriesJSON, err := json.Marshal(run.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, process_id, entries, error, timestamp)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			process_id = excluded.process_id,
			entries = excluded.entries,
			error = excluded.error,
			timestamp = excluded.timestamp
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query, run.ID, run.ProcessID, string(entriesJSON), run.Err, run.Timestamp)
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
		WHERE process_id = ?
		ORDER BY timestamp ASC
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*bpmnstore.Run
	for rows.Next() {
		var run bpmnstore.Run
		var entriesJSON string
		if err := rows.Scan(&run.ID, &run.ProcessID, &entriesJSON, &run.Err, &run.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if err := json.Unmarshal([]byte(entriesJSON), &run.Entries); err != nil {
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
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

var _ bpmnstore.TraceStore = (*TraceStore)(nil)
