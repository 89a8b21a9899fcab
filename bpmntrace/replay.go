package bpmntrace

import (
	"fmt"

	"github.com/smallnest/bpmnflow/bpmn"
)

// Replayer is the subset of a bpmn.Registry[T] Replay needs: a way to
// re-invoke a named Task or gateway callback by the kind recorded in a
// trace entry.
type Replayer[T any] interface {
	ReplayTask(name string, state *T) bool
	ReplayGateway(name string, state *T) bool
}

// Replay re-invokes reg's callbacks in the order entries records, against
// a copy of initial, and returns the resulting state. This is the replay
// law a recorded run must satisfy: feeding a trace back through Replay
// reproduces the same final state the original Run produced, since both
// paths invoke the same callbacks in the same order against the same
// starting value.
func Replay[T any](reg Replayer[T], initial T, entries []bpmn.TraceEntry) (T, error) {
	state := initial
	for _, e := range entries {
		var found bool
		switch e.Kind {
		case bpmn.TraceTask:
			found = reg.ReplayTask(e.NameOrID, &state)
		case bpmn.TraceGateway:
			found = reg.ReplayGateway(e.NameOrID, &state)
		}
		if !found {
			return state, fmt.Errorf("bpmntrace: no callback registered for %s %q", e.Kind, e.NameOrID)
		}
	}
	return state, nil
}
