// Package bpmnflow is a BPMN 2.0 business-process execution engine for
// Go: it reads a BPMN diagram, binds task and gateway callbacks to a
// caller-supplied state type, and runs the diagram as a token-based
// scheduler with deterministic replay support.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/bpmnflow
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/smallnest/bpmnflow/bpmn"
//		"github.com/smallnest/bpmnflow/bpmnxml"
//	)
//
//	type OrderState struct {
//		Approved bool
//	}
//
//	func main() {
//		diagram, err := bpmnxml.Read(orderXML)
//		if err != nil {
//			panic(err)
//		}
//
//		reg := bpmn.NewRegistry[OrderState]()
//		reg.AddTask("Review Order", func(state *OrderState) *bpmn.Symbol {
//			return nil
//		})
//		reg.AddExclusive("Approved?", func(state *OrderState) string {
//			if state.Approved {
//				return "approve"
//			}
//			return "reject"
//		})
//
//		program, err := bpmn.Install(diagram, reg)
//		if err != nil {
//			panic(err)
//		}
//
//		final, trace, err := program.Run(context.Background(), OrderState{Approved: true}, bpmn.Config{})
//		fmt.Println(final, len(trace), err)
//	}
//
// # Packages
//
//   - bpmn: the diagram model, builder, callback registry, installer and
//     token-based engine.
//   - bpmnxml: reads BPMN 2.0 XML into a bpmn.Diagram.
//   - bpmntrace: replays a recorded trace against a fresh state value.
//   - bpmnstore: persists completed runs' traces (SQLite, PostgreSQL, Redis).
//   - bpmnviz: renders a diagram as Mermaid, DOT or an ASCII tree.
//   - bpmnscaffold: generates a starter callback registry and checklist
//     for a diagram.
//   - bpmnlog: the leveled logger the bpmn package logs its warnings through.
//
// # Core Concepts
//
// A Diagram is an immutable arena of process bodies, each a small-integer
// addressed array of Node values (events, activities, gateways, sequence
// flows). A Registry binds named callbacks to a caller's state type T;
// Install matches every Task activity and diverging gateway in the
// diagram to a registered callback, failing with the full list of gaps
// rather than the first one found. Program.Run then schedules tokens in
// batches: each round processes every live token, stages newly forked
// tokens as pending, and only commits them to the next round once the
// whole round has been processed, so a fork and its sibling are never
// interleaved mid-step.
//
// Dynamic-arity forks (a diverging Inclusive gateway, or any
// multi-output pass-through event) open a bookkeeper frame recording how
// many tokens were created; Parallel gateways instead rely on their
// static incoming-flow count. Both converge through the same body's
// matching join, so a cyclic diagram re-enters the same bookkeeping path
// on every lap.
//
// Boundary events interrupt their attached activity: a Task callback
// that returns a non-nil Symbol, or a SubProcess body whose End event
// carries a matching Symbol, routes the token to the sibling boundary
// event instead of the activity's normal outputs. Link events connect an
// IntermediateThrowEvent to an IntermediateCatchEvent by name within the
// same process body.
//
// Every Task invocation and every diverging gateway's decision is
// recorded on a trace channel; bpmntrace.Replay re-invokes the same
// callbacks in the same order against a fresh state value, reproducing
// the original run's side effects without re-walking the diagram.
package bpmnflow
