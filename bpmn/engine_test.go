package bpmn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	count int
	log   []string
}

// buildCountingLoop builds start -> task(increment) -> exclusive(loop/done)
// with the loop arm routing back into the task, exercising a cyclic body.
func buildCountingLoop(t *testing.T) *Diagram {
	t.Helper()
	bb := NewBodyBuilder("loop", "Counting Loop")
	bb.AddStartEvent("start", "Start")
	bb.AddTask("inc", "Increment", TaskGeneric)
	bb.AddGateway("done", "Done?", GatewayExclusive, "")
	bb.AddEndEvent("end", "End", nil)

	bb.AddSequenceFlow("f-start-inc", "", 0, "inc")
	bb.AddSequenceFlow("f-inc-done", "", 1, "done")
	bb.AddSequenceFlow("flow-loop", "loop", 2, "inc")
	bb.AddSequenceFlow("flow-end", "end", 2, "end")

	body, err := bb.Build()
	require.NoError(t, err)
	db := NewDiagramBuilder("defs")
	db.AddBody(body, true)
	d, err := db.Build()
	require.NoError(t, err)
	return d
}

func TestEngine_CountingLoop(t *testing.T) {
	d := buildCountingLoop(t)
	reg := NewRegistry[counterState]()
	reg.AddTask("Increment", func(s *counterState) *Symbol {
		s.count++
		s.log = append(s.log, "inc")
		return nil
	})
	reg.AddExclusive("Done?", func(s *counterState) string {
		if s.count >= 3 {
			return "end"
		}
		return "loop"
	})

	prog, err := Install(d, reg)
	require.NoError(t, err)

	final, trace, err := prog.Run(context.Background(), counterState{}, Config{})
	require.NoError(t, err)
	assert.Equal(t, 3, final.count)
	assert.Equal(t, []string{"inc", "inc", "inc"}, final.log)

	// Three Task visits plus three diverging-gateway decisions.
	taskCount, gwCount := 0, 0
	for _, e := range trace {
		switch e.Kind {
		case TraceTask:
			taskCount++
		case TraceGateway:
			gwCount++
		}
	}
	assert.Equal(t, 3, taskCount)
	assert.Equal(t, 3, gwCount)
}

type gatewayState struct {
	approved bool
	visited  []string
}

func buildExclusiveDefault(t *testing.T) *Diagram {
	t.Helper()
	bb := NewBodyBuilder("excl", "Exclusive Default")
	bb.AddStartEvent("start", "Start")
	bb.AddGateway("gw", "Approved?", GatewayExclusive, "flow-default")
	bb.AddTask("approved-task", "Handle Approved", TaskGeneric)
	bb.AddTask("default-task", "Handle Default", TaskGeneric)
	bb.AddEndEvent("end", "End", nil)

	bb.AddSequenceFlow("f-start-gw", "", 0, "gw")
	bb.AddSequenceFlow("flow-approve", "approve", 1, "approved-task")
	bb.AddSequenceFlow("flow-default", "", 1, "default-task")
	bb.AddSequenceFlow("f-approved-end", "", 2, "end")
	bb.AddSequenceFlow("f-default-end", "", 3, "end")

	body, err := bb.Build()
	require.NoError(t, err)
	db := NewDiagramBuilder("defs")
	db.AddBody(body, true)
	d, err := db.Build()
	require.NoError(t, err)
	return d
}

func TestEngine_ExclusiveGatewayFallsBackToDefault(t *testing.T) {
	d := buildExclusiveDefault(t)
	reg := NewRegistry[gatewayState]()
	reg.AddExclusive("Approved?", func(s *gatewayState) string {
		if s.approved {
			return "approve"
		}
		return ""
	})
	reg.AddTask("Handle Approved", func(s *gatewayState) *Symbol {
		s.visited = append(s.visited, "approved")
		return nil
	})
	reg.AddTask("Handle Default", func(s *gatewayState) *Symbol {
		s.visited = append(s.visited, "default")
		return nil
	})

	prog, err := Install(d, reg)
	require.NoError(t, err)

	final, _, err := prog.Run(context.Background(), gatewayState{approved: false}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, final.visited)

	final2, _, err := prog.Run(context.Background(), gatewayState{approved: true}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"approved"}, final2.visited)
}

type inclusiveState struct {
	visited []string
}

func buildInclusiveMultiSelect(t *testing.T) *Diagram {
	t.Helper()
	bb := NewBodyBuilder("incl", "Inclusive Multi-Select")
	bb.AddStartEvent("start", "Start")
	bb.AddGateway("fork", "Notify Channels?", GatewayInclusive, "")
	bb.AddTask("email", "Send Email", TaskGeneric)
	bb.AddTask("sms", "Send SMS", TaskGeneric)
	bb.AddTask("push", "Send Push", TaskGeneric)
	bb.AddGateway("join", "", GatewayInclusive, "")
	bb.AddEndEvent("end", "End", nil)

	bb.AddSequenceFlow("f-start-fork", "", 0, "fork")
	bb.AddSequenceFlow("flow-email", "email", 1, "email")
	bb.AddSequenceFlow("flow-sms", "sms", 1, "sms")
	bb.AddSequenceFlow("flow-push", "push", 1, "push")
	bb.AddSequenceFlow("f-email-join", "", 2, "join")
	bb.AddSequenceFlow("f-sms-join", "", 3, "join")
	bb.AddSequenceFlow("f-push-join", "", 4, "join")
	bb.AddSequenceFlow("f-join-end", "", 5, "end")

	body, err := bb.Build()
	require.NoError(t, err)
	db := NewDiagramBuilder("defs")
	db.AddBody(body, true)
	d, err := db.Build()
	require.NoError(t, err)
	return d
}

func TestEngine_InclusiveGatewayForksAndJoins(t *testing.T) {
	d := buildInclusiveMultiSelect(t)
	reg := NewRegistry[inclusiveState]()
	reg.AddInclusive("Notify Channels?", func(s *inclusiveState) Decision {
		return ForkDecision("email", "sms")
	})
	reg.AddTask("Send Email", func(s *inclusiveState) *Symbol {
		s.visited = append(s.visited, "email")
		return nil
	})
	reg.AddTask("Send SMS", func(s *inclusiveState) *Symbol {
		s.visited = append(s.visited, "sms")
		return nil
	})
	reg.AddTask("Send Push", func(s *inclusiveState) *Symbol {
		s.visited = append(s.visited, "push")
		return nil
	})

	prog, err := Install(d, reg)
	require.NoError(t, err)

	final, _, err := prog.Run(context.Background(), inclusiveState{}, Config{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"email", "sms"}, final.visited)
}

type parallelState struct {
	visited []string
}

func buildParallelGateway(t *testing.T) *Diagram {
	t.Helper()
	bb := NewBodyBuilder("par", "Parallel Split")
	bb.AddStartEvent("start", "Start")
	bb.AddGateway("fork", "", GatewayParallel, "")
	bb.AddTask("pack", "Pack Items", TaskGeneric)
	bb.AddTask("invoice", "Generate Invoice", TaskGeneric)
	bb.AddGateway("join", "", GatewayParallel, "")
	bb.AddEndEvent("end", "End", nil)

	bb.AddSequenceFlow("f-start-fork", "", 0, "fork")
	bb.AddSequenceFlow("f-fork-pack", "", 1, "pack")
	bb.AddSequenceFlow("f-fork-invoice", "", 1, "invoice")
	bb.AddSequenceFlow("f-pack-join", "", 2, "join")
	bb.AddSequenceFlow("f-invoice-join", "", 3, "join")
	bb.AddSequenceFlow("f-join-end", "", 4, "end")

	body, err := bb.Build()
	require.NoError(t, err)
	db := NewDiagramBuilder("defs")
	db.AddBody(body, true)
	d, err := db.Build()
	require.NoError(t, err)
	return d
}

func TestEngine_ParallelGatewayForksAndJoins(t *testing.T) {
	d := buildParallelGateway(t)
	reg := NewRegistry[parallelState]()
	reg.AddTask("Pack Items", func(s *parallelState) *Symbol {
		s.visited = append(s.visited, "pack")
		return nil
	})
	reg.AddTask("Generate Invoice", func(s *parallelState) *Symbol {
		s.visited = append(s.visited, "invoice")
		return nil
	})

	prog, err := Install(d, reg)
	require.NoError(t, err)

	final, _, err := prog.Run(context.Background(), parallelState{}, Config{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pack", "invoice"}, final.visited)
}

type boundaryState struct {
	failed bool
	notes  []string
}

func buildErrorBoundary(t *testing.T) *Diagram {
	t.Helper()
	bb := NewBodyBuilder("boundary", "Error Boundary")
	bb.AddStartEvent("start", "Start")
	bb.AddTask("charge", "Charge Card", TaskService)
	errSym := SymbolError
	bb.AddBoundaryEvent("on-failure", "Payment Failed", "charge", errSym)
	bb.AddTask("ship", "Ship", TaskGeneric)
	bb.AddTask("refund", "Refund", TaskGeneric)
	bb.AddEndEvent("end-shipped", "Shipped", nil)
	bb.AddEndEvent("end-refunded", "Refunded", nil)

	bb.AddSequenceFlow("f-start-charge", "", 0, "charge")
	bb.AddSequenceFlow("f-charge-ship", "", 1, "ship")
	bb.AddSequenceFlow("f-boundary-refund", "", 2, "refund")
	bb.AddSequenceFlow("f-ship-end", "", 3, "end-shipped")
	bb.AddSequenceFlow("f-refund-end", "", 4, "end-refunded")

	body, err := bb.Build()
	require.NoError(t, err)
	db := NewDiagramBuilder("defs")
	db.AddBody(body, true)
	d, err := db.Build()
	require.NoError(t, err)
	return d
}

func TestEngine_BoundaryEventInterruptsOnSymbol(t *testing.T) {
	d := buildErrorBoundary(t)
	reg := NewRegistry[boundaryState]()
	reg.AddTask("Charge Card", func(s *boundaryState) *Symbol {
		if s.failed {
			sym := SymbolError
			return &sym
		}
		return nil
	})
	reg.AddTask("Ship", func(s *boundaryState) *Symbol {
		s.notes = append(s.notes, "shipped")
		return nil
	})
	reg.AddTask("Refund", func(s *boundaryState) *Symbol {
		s.notes = append(s.notes, "refunded")
		return nil
	})

	prog, err := Install(d, reg)
	require.NoError(t, err)

	okState, _, err := prog.Run(context.Background(), boundaryState{failed: false}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"shipped"}, okState.notes)

	failState, _, err := prog.Run(context.Background(), boundaryState{failed: true}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"refunded"}, failState.notes)
}

func TestEngine_BoundaryEventWithNoMatchingCatcherErrors(t *testing.T) {
	bb := NewBodyBuilder("p1", "No Catch")
	bb.AddStartEvent("start", "Start")
	bb.AddTask("charge", "Charge", TaskService)
	bb.AddEndEvent("end", "End", nil)
	bb.AddSequenceFlow("f1", "", 0, "charge")
	bb.AddSequenceFlow("f2", "", 1, "end")
	body, err := bb.Build()
	require.NoError(t, err)
	db := NewDiagramBuilder("defs")
	db.AddBody(body, true)
	d, err := db.Build()
	require.NoError(t, err)

	reg := NewRegistry[boundaryState]()
	reg.AddTask("Charge", func(s *boundaryState) *Symbol {
		sym := SymbolError
		return &sym
	})
	prog, err := Install(d, reg)
	require.NoError(t, err)

	_, _, err = prog.Run(context.Background(), boundaryState{}, Config{})
	require.Error(t, err)
	var missing *MissingBoundaryError
	assert.ErrorAs(t, err, &missing)
}

type subProcState struct {
	path []string
}

// buildSubProcessWithEndSymbol builds an inner body whose own exclusive
// gateway routes to either a plain end event or a symboled one, and an
// outer body with a SubProcess activity carrying a boundary event for
// that symbol, so each run exercises one arm of the hijack.
func buildSubProcessWithEndSymbol(t *testing.T) *Diagram {
	t.Helper()
	inner := NewBodyBuilder("inner", "Fulfillment")
	inner.AddStartEvent("inner-start", "Start")
	inner.AddTask("pick", "Pick Item", TaskGeneric)
	inner.AddGateway("inner-gw", "In Stock?", GatewayExclusive, "flow-out-of-stock")
	errSym := SymbolError
	inner.AddEndEvent("inner-end-ok", "Picked", nil)
	inner.AddEndEvent("inner-end-fail", "Out Of Stock", &errSym)

	inner.AddSequenceFlow("fi1", "", 0, "pick")
	inner.AddSequenceFlow("fi2", "", 1, "inner-gw")
	inner.AddSequenceFlow("flow-in-stock", "in-stock", 2, "inner-end-ok")
	inner.AddSequenceFlow("flow-out-of-stock", "", 2, "inner-end-fail")

	innerBody, err := inner.Build()
	require.NoError(t, err)

	outer := NewBodyBuilder("outer", "Order")
	outer.AddStartEvent("start", "Start")
	outer.AddSubProcess("fulfill", "Fulfill Order", 0) // Body index patched below
	boundarySym := SymbolError
	outer.AddBoundaryEvent("on-stockout", "Out Of Stock", "fulfill", boundarySym)
	outer.AddTask("notify", "Notify Customer", TaskGeneric)
	outer.AddEndEvent("end-fulfilled", "Fulfilled", nil)
	outer.AddEndEvent("end-stockout", "Stockout", nil)

	outer.AddSequenceFlow("f1", "", 0, "fulfill")
	outer.AddSequenceFlow("f2", "", 1, "end-fulfilled")
	outer.AddSequenceFlow("f3", "", 2, "notify")
	outer.AddSequenceFlow("f4", "", 3, "end-stockout")

	outerBody, err := outer.Build()
	require.NoError(t, err)

	db := NewDiagramBuilder("defs")
	innerIdx := db.AddBody(innerBody, false)
	outerBody.Nodes[1].Activity.Body = innerIdx
	db.AddBody(outerBody, true)
	d, err := db.Build()
	require.NoError(t, err)
	return d
}

func TestEngine_SubProcessEndSymbolHijacksParentBoundary(t *testing.T) {
	d := buildSubProcessWithEndSymbol(t)
	reg := NewRegistry[subProcState]()
	reg.AddTask("Pick Item", func(s *subProcState) *Symbol {
		s.path = append(s.path, "picked")
		return nil
	})
	reg.AddExclusive("In Stock?", func(s *subProcState) string {
		if s.path != nil && s.path[0] == "forced-out-of-stock" {
			return ""
		}
		return "in-stock"
	})
	reg.AddTask("Notify Customer", func(s *subProcState) *Symbol {
		s.path = append(s.path, "notified")
		return nil
	})

	prog, err := Install(d, reg)
	require.NoError(t, err)

	final, _, err := prog.Run(context.Background(), subProcState{}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"picked"}, final.path)

	outOfStock, _, err := prog.Run(context.Background(), subProcState{path: []string{"forced-out-of-stock"}}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"forced-out-of-stock", "picked", "notified"}, outOfStock.path)
}

func TestEngine_ContextCancellationStopsRun(t *testing.T) {
	d := buildCountingLoop(t)
	reg := NewRegistry[counterState]()
	reg.AddTask("Increment", func(s *counterState) *Symbol {
		s.count++
		return nil
	})
	reg.AddExclusive("Done?", func(s *counterState) string { return "loop" })

	prog, err := Install(d, reg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = prog.Run(ctx, counterState{}, Config{})
	require.Error(t, err)
}
