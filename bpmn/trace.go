package bpmn

import "github.com/google/uuid"

// TraceKind distinguishes the two node kinds the engine records a trace
// entry for. Sequence flows and pass-through (converging) gateways never
// appear in a trace: only a Task invocation or a diverging gateway
// decision changes what replaying the trace would reproduce.
type TraceKind uint8

const (
	TraceTask TraceKind = iota
	TraceGateway
)

func (k TraceKind) String() string {
	if k == TraceGateway {
		return "Gateway"
	}
	return "Task"
}

// TraceEntry is one recorded visit to a Task or a diverging gateway.
// NameOrID is the node's display name, falling back to its BPMN id.
// RunID identifies the Run call that produced it, so entries from
// concurrent or stored runs never get mixed up once persisted.
type TraceEntry struct {
	Kind     TraceKind
	NameOrID string
	RunID    string
}

// recorder collects trace entries off a channel on its own goroutine, so
// the scheduler never blocks on a slow or synchronously-flushed sink while
// a run is in progress. finish drains and returns everything recorded.
type recorder struct {
	ch    chan TraceEntry
	done  chan []TraceEntry
	runID string
}

func newRecorder(buffer int) *recorder {
	r := &recorder{
		ch:    make(chan TraceEntry, buffer),
		done:  make(chan []TraceEntry, 1),
		runID: uuid.New().String(),
	}
	go func() {
		var entries []TraceEntry
		for e := range r.ch {
			entries = append(entries, e)
		}
		r.done <- entries
	}()
	return r
}

func (r *recorder) record(kind TraceKind, nameOrID string) {
	r.ch <- TraceEntry{Kind: kind, NameOrID: nameOrID, RunID: r.runID}
}

// finish closes the channel and waits for the goroutine to drain it,
// returning every entry recorded regardless of whether the run succeeded.
func (r *recorder) finish() []TraceEntry {
	close(r.ch)
	return <-r.done
}
