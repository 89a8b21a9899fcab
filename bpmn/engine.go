package bpmn

import (
	"context"
	"sync"

	"github.com/smallnest/bpmnflow/bpmnlog"
)

// runtime holds everything shared across a single Run, including any
// subprocess recursion it triggers: the diagram and bound callbacks (both
// read-only after Install), the mutex-guarded user state, the trace
// recorder and the logger. A runtime is created once per Run and threaded
// through every nested runBody call.
type runtime[T any] struct {
	diagram   *Diagram
	callbacks []callback[T]
	state     *T
	mu        *sync.Mutex
	rec       *recorder
	log       bpmnlog.Logger
}

func (rt *runtime[T]) invokeTask(idx int, name string) *Symbol {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.rec.record(TraceTask, name)
	return rt.callbacks[idx].task(rt.state)
}

func (rt *runtime[T]) invokeExclusive(idx int) string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.callbacks[idx].exclusive(rt.state)
}

func (rt *runtime[T]) invokeInclusive(idx int) Decision {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.callbacks[idx].inclusive(rt.state)
}

func (rt *runtime[T]) invokeEventBased(idx int) IntermediateEvent {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.callbacks[idx].eventBased(rt.state)
}

// Run executes every top-level process in the program against initial,
// returning the final state, the full trace of every Task visited and
// every gateway callback decision, and the first error encountered (if
// any). The trace is
// returned even on error, since bpmntrace.Replay can reproduce everything
// that happened up to the failure.
func (p *Program[T]) Run(ctx context.Context, initial T, cfg Config) (T, []TraceEntry, error) {
	rec := newRecorder(cfg.traceBuffer())
	rt := &runtime[T]{
		diagram:   p.diagram,
		callbacks: p.callbacks,
		state:     &initial,
		mu:        &sync.Mutex{},
		rec:       rec,
		log:       cfg.logger(),
	}

	var runErr error
	for _, bodyIdx := range p.diagram.Definitions.TopLevelProcesses {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		body := p.diagram.Body(bodyIdx)
		if _, err := runBody(ctx, rt, bodyIdx, []int{body.Start}, NoIndex, NoIndex); err != nil {
			runErr = err
			break
		}
	}

	entries := rec.finish()
	return initial, entries, runErr
}

// runBody drains the work queue for a single process body to completion.
// parentBody/parentActivity name the enclosing SubProcess activity when
// this body is a nested subprocess (NoIndex/NoIndex at the top level); an
// End event carrying a symbol that matches a boundary event attached to
// that activity is reported back via the returned slice, in the parent
// body's own index space, so the caller can resume from the boundary
// instead of the subprocess's normal outgoing flow.
func runBody[T any](ctx context.Context, rt *runtime[T], bodyIdx int, start []int, parentBody, parentActivity int) ([]int, error) {
	body := rt.diagram.Body(bodyIdx)
	bk := newBookkeeper()
	q := &tokenQueue{batches: [][]int{start}}
	var results []int

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := q.take()
		if len(current) == 0 {
			break
		}
		for _, batch := range current {
			for _, tok := range batch {
				node := &body.Nodes[tok]
				switch node.Kind {
				case KindSequenceFlow:
					q.immediate(node.Flow.Target)

				case KindEvent:
					if err := stepEvent(rt, q, bk, body, node, tok, parentBody, parentActivity, &results); err != nil {
						return nil, err
					}

				case KindActivity:
					if err := stepActivity(ctx, rt, q, body, node, tok, bodyIdx); err != nil {
						return nil, err
					}

				case KindGateway:
					if err := stepGateway(rt, q, bk, body, node, tok); err != nil {
						return nil, err
					}
				}
			}
		}
		q.commit(bk)
	}
	return results, nil
}

func stepEvent[T any](rt *runtime[T], q *tokenQueue, bk *bookkeeper, body *ProcessBody, node *Node, tok, parentBody, parentActivity int, results *[]int) error {
	ev := node.Event
	switch ev.Kind {
	case EventStart, EventIntermediateCatch, EventBoundary:
		return follow(q, node.Outputs, node.Kind.String(), node.NameOrID())

	case EventIntermediateThrow:
		if ev.HasSymbol && ev.Symbol == SymbolLink {
			if node.Name == "" {
				return &MissingIntermediateThrowEventNameError{ID: node.ID}
			}
			target, ok := body.CatchLinks[node.Name]
			if !ok {
				return &MissingIntermediateCatchEventError{Name: node.Name}
			}
			q.immediate(target)
			return nil
		}
		return follow(q, node.Outputs, node.Kind.String(), node.NameOrID())

	case EventEnd:
		if ev.HasSymbol && parentActivity != NoIndex {
			parent := rt.diagram.Body(parentBody)
			for _, bIdx := range parent.Boundaries[parentActivity] {
				be := parent.Nodes[bIdx].Event
				if be.HasSymbol && be.Symbol == ev.Symbol {
					*results = append(*results, bIdx)
					break
				}
			}
		}
		rel, ok := bk.consumeInclusiveEnd()
		releaseInclusive(rt, q, body, rel, ok)
		return nil
	}
	return nil
}

func stepActivity[T any](ctx context.Context, rt *runtime[T], q *tokenQueue, body *ProcessBody, node *Node, tok, bodyIdx int) error {
	act := node.Activity
	switch act.Kind {
	case ActivityTask:
		sym := rt.invokeTask(act.CallbackIndex, node.NameOrID())
		if sym == nil {
			return follow(q, node.Outputs, "Task", node.NameOrID())
		}
		for _, bIdx := range body.Boundaries[tok] {
			be := body.Nodes[bIdx].Event
			if be.HasSymbol && be.Symbol == *sym {
				q.immediate(bIdx)
				return nil
			}
		}
		return &MissingBoundaryError{Symbol: sym.String(), NameOrID: node.NameOrID()}

	case ActivitySubProcess:
		childBody := rt.diagram.Body(act.Body)
		subResults, err := runBody(ctx, rt, act.Body, []int{childBody.Start}, bodyIdx, tok)
		if err != nil {
			return err
		}
		if len(subResults) > 0 {
			q.immediate(subResults[0])
			return nil
		}
		return follow(q, node.Outputs, "SubProcess", node.NameOrID())
	}
	return nil
}

func stepGateway[T any](rt *runtime[T], q *tokenQueue, bk *bookkeeper, body *ProcessBody, node *Node, tok int) error {
	gw := node.Gateway
	if len(node.Outputs) <= 1 {
		return stepConvergingGateway(rt, q, bk, body, node, tok)
	}
	if gw.Kind != GatewayParallel {
		// A Parallel fork has no callback, so it leaves nothing to replay.
		rt.rec.record(TraceGateway, node.NameOrID())
	}
	switch gw.Kind {
	case GatewayExclusive:
		choice := rt.invokeExclusive(gw.CallbackIndex)
		target, err := resolveFlowOrDefault(choice, node.Outputs, gw.Default, gw.Kind.String(), node.NameOrID(), body)
		if err != nil {
			return err
		}
		q.immediate(target)
		return nil

	case GatewayInclusive:
		return stepInclusiveFork(rt, q, body, node, gw)

	case GatewayParallel:
		branches := make([]int, len(node.Outputs))
		copy(branches, node.Outputs)
		q.pendingStaticFork(branches)
		return nil

	case GatewayEventBased:
		ev := rt.invokeEventBased(gw.CallbackIndex)
		idx, ok := resolveBySymbol(ev, node.Outputs, body)
		if !ok {
			return &MissingOutputError{Gateway: gw.Kind.String(), NameOrID: node.NameOrID()}
		}
		q.immediate(idx)
		return nil
	}
	return nil
}

func stepConvergingGateway[T any](rt *runtime[T], q *tokenQueue, bk *bookkeeper, body *ProcessBody, node *Node, tok int) error {
	gw := node.Gateway
	if len(node.Outputs) == 0 {
		return &MissingOutputError{Gateway: gw.Kind.String(), NameOrID: node.NameOrID()}
	}
	first := node.Outputs[0]
	switch gw.Kind {
	case GatewayExclusive:
		q.immediate(first)
	case GatewayInclusive:
		rel, ok := bk.consumeInclusive(tok)
		releaseInclusive(rt, q, body, rel, ok)
	case GatewayParallel:
		if bk.consumeParallel(tok, gw.Incoming) {
			q.immediate(first)
		}
	case GatewayEventBased:
		return &BpmnRequirementError{Message: "event-based gateway must have at least two outgoing sequence flows"}
	}
	return nil
}

func stepInclusiveFork[T any](rt *runtime[T], q *tokenQueue, body *ProcessBody, node *Node, gw *GatewayData) error {
	dec := rt.invokeInclusive(gw.CallbackIndex)
	switch dec.kind {
	case decisionDefault:
		if gw.Default == NoIndex {
			return &MissingDefaultError{Gateway: gw.Kind.String(), NameOrID: node.NameOrID()}
		}
		q.immediate(gw.Default)
		return nil

	case decisionFlow:
		idx, ok := resolveByNameOrID(dec.flow, node.Outputs, body)
		if !ok {
			return &MissingOutputError{Gateway: gw.Kind.String(), NameOrID: node.NameOrID()}
		}
		q.immediate(idx)
		return nil

	case decisionFork:
		if len(dec.forks) == 0 {
			if gw.Default == NoIndex {
				return &MissingDefaultError{Gateway: gw.Kind.String(), NameOrID: node.NameOrID()}
			}
			q.immediate(gw.Default)
			return nil
		}
		var resolved []int
		for _, nm := range dec.forks {
			if idx, ok := resolveByNameOrID(nm, node.Outputs, body); ok {
				resolved = append(resolved, idx)
			}
		}
		if len(resolved) == 0 {
			return &MissingOutputError{Gateway: gw.Kind.String(), NameOrID: node.NameOrID()}
		}
		if len(resolved) == 1 {
			q.immediate(resolved[0])
			return nil
		}
		q.pendingDynamicFork(resolved)
		return nil
	}
	return nil
}

func releaseInclusive[T any](rt *runtime[T], q *tokenQueue, body *ProcessBody, rel []int, ok bool) {
	if !ok {
		return
	}
	if len(rel) > 1 {
		rt.log.Warn("bpmn: unbalanced diagram detected: fork rejoined at %d distinct gateways", len(rel))
	}
	for _, g := range rel {
		q.immediate(body.Nodes[g].Outputs[0])
	}
}

func follow(q *tokenQueue, outputs []int, kind, nameOrID string) error {
	switch len(outputs) {
	case 0:
		return &MissingOutputError{Gateway: kind, NameOrID: nameOrID}
	case 1:
		q.immediate(outputs[0])
		return nil
	default:
		branches := make([]int, len(outputs))
		copy(branches, outputs)
		q.pendingDynamicFork(branches)
		return nil
	}
}

func resolveFlowOrDefault(choice string, outputs []int, def int, kind, name string, body *ProcessBody) (int, error) {
	if choice == "" {
		if def == NoIndex {
			return NoIndex, &MissingDefaultError{Gateway: kind, NameOrID: name}
		}
		return def, nil
	}
	idx, ok := resolveByNameOrID(choice, outputs, body)
	if !ok {
		return NoIndex, &MissingOutputError{Gateway: kind, NameOrID: name}
	}
	return idx, nil
}

func resolveByNameOrID(nameOrID string, outputs []int, body *ProcessBody) (int, bool) {
	for _, o := range outputs {
		f := &body.Nodes[o]
		if (f.Name != "" && f.Name == nameOrID) || f.ID == nameOrID {
			return o, true
		}
	}
	return NoIndex, false
}

func resolveBySymbol(ev IntermediateEvent, outputs []int, body *ProcessBody) (int, bool) {
	for _, o := range outputs {
		flow := &body.Nodes[o]
		target := &body.Nodes[flow.Flow.Target]
		switch target.Kind {
		case KindActivity:
			if target.Activity.Kind == ActivityTask && target.Activity.Task == TaskReceive && ev.Symbol == SymbolMessage {
				if ev.NameOrID == "" || target.Name == ev.NameOrID || target.ID == ev.NameOrID {
					return o, true
				}
			}
		case KindEvent:
			if target.Event.HasSymbol && target.Event.Symbol == ev.Symbol {
				if ev.NameOrID == "" || target.Name == ev.NameOrID || target.ID == ev.NameOrID {
					return o, true
				}
			}
		}
	}
	return NoIndex, false
}
