package bpmn

import "github.com/smallnest/bpmnflow/bpmnlog"

// TaskFunc runs a Task activity. It returns a non-nil Symbol when the task
// wants to raise an exception a boundary event on the same activity should
// catch, or nil to continue along the activity's normal outgoing flow.
type TaskFunc[T any] func(state *T) *Symbol

// ExclusiveFunc decides an Exclusive gateway's outgoing flow. It returns
// the name or id of the chosen sequence flow, or "" to fall back to the
// gateway's default flow.
type ExclusiveFunc[T any] func(state *T) string

// decisionKind tags how an Inclusive gateway's callback chose to proceed.
type decisionKind uint8

const (
	decisionDefault decisionKind = iota
	decisionFlow
	decisionFork
)

// Decision is an Inclusive gateway callback's result: either fall back to
// the default flow, take exactly one named flow, or fork onto several
// named flows at once. Build one with DefaultDecision, FlowDecision or
// ForkDecision.
type Decision struct {
	kind  decisionKind
	flow  string
	forks []string
}

// DefaultDecision takes the gateway's configured default flow.
func DefaultDecision() Decision { return Decision{kind: decisionDefault} }

// FlowDecision takes the single named (or id-identified) outgoing flow.
func FlowDecision(nameOrID string) Decision { return Decision{kind: decisionFlow, flow: nameOrID} }

// ForkDecision takes every named (or id-identified) outgoing flow at once,
// forking one token per entry. A single-entry fork behaves like FlowDecision.
func ForkDecision(namesOrIDs ...string) Decision { return Decision{kind: decisionFork, forks: namesOrIDs} }

// InclusiveFunc decides an Inclusive gateway's outgoing flow(s).
type InclusiveFunc[T any] func(state *T) Decision

// IntermediateEvent names the event an EventBased gateway's callback
// selected: a catch event or receive task identified by name or id and by
// symbol.
type IntermediateEvent struct {
	NameOrID string
	Symbol   Symbol
}

// EventBasedFunc decides which of an EventBased gateway's outgoing events
// fired first.
type EventBasedFunc[T any] func(state *T) IntermediateEvent

type callbackKind uint8

const (
	callbackTask callbackKind = iota
	callbackExclusive
	callbackInclusive
	callbackEventBased
)

func (k callbackKind) String() string {
	switch k {
	case callbackTask:
		return "Task"
	case callbackExclusive:
		return "ExclusiveGateway"
	case callbackInclusive:
		return "InclusiveGateway"
	case callbackEventBased:
		return "EventBasedGateway"
	default:
		return "Callback"
	}
}

// callback is the tagged union of the four callback shapes a registry can
// hold, mirroring the engine's Callback variant rather than leaning on an
// interface with a single polymorphic method: the four signatures differ
// enough (return type especially) that a shared interface would need its
// own internal tagging anyway.
type callback[T any] struct {
	kind       callbackKind
	task       TaskFunc[T]
	exclusive  ExclusiveFunc[T]
	inclusive  InclusiveFunc[T]
	eventBased EventBasedFunc[T]
}

type registryKey struct {
	kind callbackKind
	name string
}

// Registry collects the callbacks a running diagram dispatches to, indexed
// by (kind, name) at registration time. Install later binds each diagram
// node to the matching entry by index; registering the same (kind, name)
// twice overwrites the earlier entry and logs a warning rather than
// failing, since re-registration is a common pattern when composing
// handlers from multiple sources.
type Registry[T any] struct {
	callbacks []callback[T]
	index     map[registryKey]int
}

// NewRegistry creates an empty callback registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{index: make(map[registryKey]int)}
}

func (r *Registry[T]) set(kind callbackKind, name string, cb callback[T]) {
	key := registryKey{kind, name}
	if i, ok := r.index[key]; ok {
		bpmnlog.Warn("bpmn: re-registering %s %q, overwriting previous handler", kind, name)
		r.callbacks[i] = cb
		return
	}
	r.index[key] = len(r.callbacks)
	r.callbacks = append(r.callbacks, cb)
}

// AddTask registers the callback a Task activity named name invokes.
func (r *Registry[T]) AddTask(name string, fn TaskFunc[T]) {
	r.set(callbackTask, name, callback[T]{kind: callbackTask, task: fn})
}

// AddExclusive registers the callback a diverging Exclusive gateway named
// name invokes to choose its outgoing flow.
func (r *Registry[T]) AddExclusive(name string, fn ExclusiveFunc[T]) {
	r.set(callbackExclusive, name, callback[T]{kind: callbackExclusive, exclusive: fn})
}

// AddInclusive registers the callback a diverging Inclusive gateway named
// name invokes to choose its outgoing flow(s).
func (r *Registry[T]) AddInclusive(name string, fn InclusiveFunc[T]) {
	r.set(callbackInclusive, name, callback[T]{kind: callbackInclusive, inclusive: fn})
}

// AddEventBased registers the callback a diverging EventBased gateway
// named name invokes to report which event fired first.
func (r *Registry[T]) AddEventBased(name string, fn EventBasedFunc[T]) {
	r.set(callbackEventBased, name, callback[T]{kind: callbackEventBased, eventBased: fn})
}

func (r *Registry[T]) lookup(kind callbackKind, name string) (int, bool) {
	i, ok := r.index[registryKey{kind, name}]
	return i, ok
}

// ReplayTask invokes the Task callback registered under name, if any, and
// reports whether one was found. Its Symbol return value is discarded:
// replay reproduces the callback's side effects on state, not the
// diagram's boundary-hijack routing.
func (r *Registry[T]) ReplayTask(name string, state *T) bool {
	if i, ok := r.lookup(callbackTask, name); ok {
		r.callbacks[i].task(state)
		return true
	}
	return false
}

// ReplayGateway invokes the diverging-gateway callback registered under
// name, trying each gateway kind in turn, and reports whether one was
// found. Its decision is discarded for the same reason ReplayTask's Symbol
// is: replay trusts the trace, not a re-walk of the diagram.
func (r *Registry[T]) ReplayGateway(name string, state *T) bool {
	if i, ok := r.lookup(callbackExclusive, name); ok {
		r.callbacks[i].exclusive(state)
		return true
	}
	if i, ok := r.lookup(callbackInclusive, name); ok {
		r.callbacks[i].inclusive(state)
		return true
	}
	if i, ok := r.lookup(callbackEventBased, name); ok {
		r.callbacks[i].eventBased(state)
		return true
	}
	return false
}
