// Package bpmn provides the core diagram model and token-based execution
// engine for running BPMN 2.0 process diagrams.
//
// This package implements a diagram as an immutable arena of small-integer
// indexed nodes, a registry for binding user callbacks to the diagram's
// tasks and gateways, and a scheduler that advances tokens through the
// diagram batch by batch until every branch has run to completion.
//
// # Core Concepts
//
// ## Diagram and ProcessBody
// A Diagram holds one ProcessBody per process or subprocess. Every
// cross-reference inside a body - a sequence flow's target, a boundary
// event's attached activity, a gateway's default flow - is resolved to a
// local array index at build time, so execution never does string lookups.
//
// ## Registry and Install
// A Registry[T] collects the callbacks a run dispatches to: one per Task
// activity, and one per diverging gateway (a gateway with more than one
// outgoing sequence flow). Install binds a Diagram's nodes to a Registry's
// callbacks by name, and reports every unresolved binding at once.
//
// ## Program and Run
// Install's result is a Program[T], which Run executes against a caller
// state value of type T. T is shared across every callback invocation in
// the run (including nested subprocesses) behind a single mutex, locked
// only for the duration of each callback.
//
// # Key Features
//
//   - Token batches with dynamic-arity (Inclusive) and static-arity
//     (Parallel) join bookkeeping
//   - Boundary event interruption of a running task or subprocess
//   - Subprocess nesting via recursive body execution
//   - Intermediate link throw/catch routing within a process body
//   - A single-consumer trace channel recording every Task and diverging
//     gateway visit, replayable by bpmntrace
//
// # Example Usage
//
//	builder := bpmn.NewBodyBuilder("OrderProcess", "Order process")
//	start := builder.AddStartEvent("start", "")
//	task := builder.AddTask("approve", "Approve order", bpmn.TaskGeneric)
//	end := builder.AddEndEvent("end", "", nil)
//	builder.AddSequenceFlow("f1", "", start, "approve")
//	builder.AddSequenceFlow("f2", "", task, "end")
//	body, err := builder.Build()
//
//	diagramBuilder := bpmn.NewDiagramBuilder("Definitions")
//	diagramBuilder.AddBody(body, true)
//	diagram, err := diagramBuilder.Build()
//
//	reg := bpmn.NewRegistry[OrderState]()
//	reg.AddTask("approve", func(state *OrderState) *bpmn.Symbol {
//		state.Approved = true
//		return nil
//	})
//
//	program, err := bpmn.Install(diagram, reg)
//	final, trace, err := program.Run(context.Background(), OrderState{}, bpmn.Config{})
//
// # Thread Safety
//
// A Program may be Run repeatedly; each Run allocates its own scheduler
// state and trace recorder. Install writes callback indices into the
// Diagram's nodes, so installing the same Diagram again against another
// Registry overwrites the indices an earlier Program of it relies on.
// The shared state
// value T is only ever touched under the run's own mutex, so callbacks
// never need their own synchronization for concurrent-looking access from
// sibling tokens - the scheduler itself advances tokens sequentially
// within a batch.
//
// # Best Practices
//
//  1. Install once per diagram and reuse the resulting Program across runs
//  2. Keep callbacks free of blocking I/O where possible; they run under
//     the shared state's lock
//  3. Treat a MissingImplementationsError as a wiring bug, not a runtime
//     condition to recover from
//  4. Use bpmntrace.Replay in tests to assert the same trace always
//     reproduces the same final state
package bpmn
