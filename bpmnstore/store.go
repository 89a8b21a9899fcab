// Package bpmnstore persists completed runs' traces for later inspection
// or replay, keyed by run id. It never persists in-flight scheduler
// state: a run is only written once bpmn.Program.Run has returned, and
// what gets written is the flat []bpmn.TraceEntry the run produced, not
// the token queue or bookkeeper that produced it.
package bpmnstore

import (
	"context"
	"time"

	"github.com/smallnest/bpmnflow/bpmn"
)

// Run is a single completed process run's recorded trace.
type Run struct {
	ID        string           `json:"id"`
	ProcessID string           `json:"process_id"`
	Entries   []bpmn.TraceEntry `json:"entries"`
	Err       string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// TraceStore persists and retrieves completed runs. Unlike a checkpoint
// store built for mid-execution resume, it has no Load or Clear: a
// finished trace is either kept whole or removed, never partially
// overwritten or resumed from.
type TraceStore interface {
	// Save records a completed run.
	Save(ctx context.Context, run *Run) error

	// List returns every recorded run for the given process id, oldest
	// first.
	List(ctx context.Context, processID string) ([]*Run, error)

	// Delete removes a recorded run.
	Delete(ctx context.Context, runID string) error
}
