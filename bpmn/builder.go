package bpmn

import "fmt"

// BodyBuilder assembles a single process or subprocess body. Nodes may be
// added in any order: SequenceFlow targets, boundary-event attachments and
// gateway defaults are recorded by BPMN id and resolved against the whole
// body at Build time, the same way a streaming XML reader encounters
// forward references before it has seen the node they point to.
type BodyBuilder struct {
	body *ProcessBody

	pendingFlowTarget map[int]string
	pendingAttachedTo map[int]string
	pendingDefault    map[int]string
}

// NewBodyBuilder starts a body identified by the given BPMN process id.
func NewBodyBuilder(id, name string) *BodyBuilder {
	return &BodyBuilder{
		body:              newProcessBody(id, name),
		pendingFlowTarget: make(map[int]string),
		pendingAttachedTo: make(map[int]string),
		pendingDefault:    make(map[int]string),
	}
}

// IndexOf returns the local index of the node previously added with the
// given BPMN id, for callers (such as an XML reader) building sequence
// flows incrementally as they discover source and target ids.
func (b *BodyBuilder) IndexOf(id string) (int, bool) {
	for i, n := range b.body.Nodes {
		if n.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (b *BodyBuilder) append(n Node) int {
	idx := len(b.body.Nodes)
	b.body.Nodes = append(b.body.Nodes, n)
	return idx
}

// AddStartEvent adds the body's start event. Exactly one unsymboled start
// event must exist per body; Build returns an error otherwise.
func (b *BodyBuilder) AddStartEvent(id, name string) int {
	return b.append(Node{
		Kind:  KindEvent,
		ID:    id,
		Name:  name,
		Event: &EventData{Kind: EventStart, AttachedTo: NoIndex},
	})
}

// AddEndEvent adds an end event, optionally carrying a symbol (e.g. an
// error end event a boundary event elsewhere can catch).
func (b *BodyBuilder) AddEndEvent(id, name string, symbol *Symbol) int {
	ev := &EventData{Kind: EventEnd, AttachedTo: NoIndex}
	if symbol != nil {
		ev.Symbol, ev.HasSymbol = *symbol, true
	}
	return b.append(Node{Kind: KindEvent, ID: id, Name: name, Event: ev})
}

// AddBoundaryEvent adds a boundary event watching the activity with BPMN id
// attachedTo. The attachment is resolved to a local index at Build time and
// recorded in the owning body's Boundaries table.
func (b *BodyBuilder) AddBoundaryEvent(id, name, attachedTo string, symbol Symbol) int {
	idx := b.append(Node{
		Kind: KindEvent, ID: id, Name: name,
		Event: &EventData{Kind: EventBoundary, Symbol: symbol, HasSymbol: true, AttachedTo: NoIndex},
	})
	b.pendingAttachedTo[idx] = attachedTo
	return idx
}

// AddIntermediateCatchEvent adds an intermediate catch event. When it
// carries the link symbol its name becomes a catch point other
// IntermediateThrowEvent(link) nodes in the same body route to directly.
func (b *BodyBuilder) AddIntermediateCatchEvent(id, name string, symbol Symbol) int {
	idx := b.append(Node{
		Kind: KindEvent, ID: id, Name: name,
		Event: &EventData{Kind: EventIntermediateCatch, Symbol: symbol, HasSymbol: true, AttachedTo: NoIndex},
	})
	if symbol == SymbolLink && name != "" {
		b.body.CatchLinks[name] = idx
	}
	return idx
}

// AddIntermediateThrowEvent adds an intermediate throw event.
func (b *BodyBuilder) AddIntermediateThrowEvent(id, name string, symbol *Symbol) int {
	ev := &EventData{Kind: EventIntermediateThrow, AttachedTo: NoIndex}
	if symbol != nil {
		ev.Symbol, ev.HasSymbol = *symbol, true
	}
	return b.append(Node{Kind: KindEvent, ID: id, Name: name, Event: ev})
}

// AddTask adds a leaf activity of the given task sub-kind. Its callback is
// bound later by Install.
func (b *BodyBuilder) AddTask(id, name string, kind TaskKind) int {
	return b.append(Node{
		Kind: KindActivity, ID: id, Name: name,
		Activity: &ActivityData{Kind: ActivityTask, Task: kind, CallbackIndex: NoIndex, Body: NoIndex},
	})
}

// AddSubProcess adds a nested subprocess activity whose body is the
// already-built body at bodyIndex (obtained from DiagramBuilder.AddBody).
func (b *BodyBuilder) AddSubProcess(id, name string, bodyIndex int) int {
	return b.append(Node{
		Kind: KindActivity, ID: id, Name: name,
		Activity: &ActivityData{Kind: ActivitySubProcess, CallbackIndex: NoIndex, Body: bodyIndex},
	})
}

// AddGateway adds a gateway. defaultFlowID names the SequenceFlow to take
// when a diverging Exclusive/Inclusive gateway's callback returns no match;
// pass "" if the gateway has no default.
func (b *BodyBuilder) AddGateway(id, name string, kind GatewayKind, defaultFlowID string) int {
	idx := b.append(Node{
		Kind: KindGateway, ID: id, Name: name,
		Gateway: &GatewayData{Kind: kind, Default: NoIndex, CallbackIndex: NoIndex},
	})
	if defaultFlowID != "" {
		b.pendingDefault[idx] = defaultFlowID
	}
	return idx
}

// AddSequenceFlow adds a flow from the node at fromIndex to the node with
// BPMN id targetID, and records it as one of fromIndex's outputs.
func (b *BodyBuilder) AddSequenceFlow(id, name string, fromIndex int, targetID string) int {
	idx := b.append(Node{Kind: KindSequenceFlow, ID: id, Name: name, Flow: &FlowData{Target: NoIndex}})
	b.pendingFlowTarget[idx] = targetID
	b.body.Nodes[fromIndex].Outputs = append(b.body.Nodes[fromIndex].Outputs, idx)
	return idx
}

// Build resolves every pending id reference to a local index, normalizes
// the start event to index 0, and returns the finished body.
func (b *BodyBuilder) Build() (*ProcessBody, error) {
	body := b.body

	idIndex := make(map[string]int, len(body.Nodes))
	for i, n := range body.Nodes {
		idIndex[n.ID] = i
	}

	for idx, target := range b.pendingFlowTarget {
		t, ok := idIndex[target]
		if !ok {
			return nil, &BuilderError{Message: fmt.Sprintf("sequence flow %q targets unknown id %q", body.Nodes[idx].ID, target)}
		}
		body.Nodes[idx].Flow.Target = t
	}
	for idx, attach := range b.pendingAttachedTo {
		a, ok := idIndex[attach]
		if !ok {
			return nil, &BuilderError{Message: fmt.Sprintf("boundary event %q attached to unknown id %q", body.Nodes[idx].ID, attach)}
		}
		body.Nodes[idx].Event.AttachedTo = a
		body.Boundaries[a] = append(body.Boundaries[a], idx)
	}
	for idx, def := range b.pendingDefault {
		d, ok := idIndex[def]
		if !ok {
			return nil, &BuilderError{Message: fmt.Sprintf("gateway %q default flow references unknown id %q", body.Nodes[idx].ID, def)}
		}
		body.Nodes[idx].Gateway.Default = d
	}

	startPos := NoIndex
	for i, n := range body.Nodes {
		if n.Kind == KindEvent && n.Event.Kind == EventStart {
			if startPos != NoIndex {
				return nil, &BpmnRequirementError{Message: fmt.Sprintf("process %q has more than one start event", body.ID)}
			}
			startPos = i
		}
	}
	if startPos == NoIndex {
		return nil, &MissingStartEventError{ProcessID: body.ID}
	}
	if startPos != 0 {
		swapLocalIndex(body, 0, startPos)
	}
	body.Start = 0

	incoming := make(map[int]int)
	for _, n := range body.Nodes {
		if n.Kind == KindSequenceFlow {
			incoming[n.Flow.Target]++
		}
	}
	for i := range body.Nodes {
		if body.Nodes[i].Kind == KindGateway {
			body.Nodes[i].Gateway.Incoming = incoming[i]
		}
	}

	return body, nil
}

// swapLocalIndex exchanges the nodes at positions a and c and rewrites
// every index-valued reference in the body accordingly, so the arena stays
// internally consistent after the start event is moved to index 0.
func swapLocalIndex(body *ProcessBody, a, c int) {
	remap := func(v int) int {
		switch v {
		case a:
			return c
		case c:
			return a
		default:
			return v
		}
	}
	body.Nodes[a], body.Nodes[c] = body.Nodes[c], body.Nodes[a]
	for i := range body.Nodes {
		n := &body.Nodes[i]
		for j, o := range n.Outputs {
			n.Outputs[j] = remap(o)
		}
		if n.Flow != nil {
			n.Flow.Target = remap(n.Flow.Target)
		}
		if n.Event != nil && n.Event.AttachedTo != NoIndex {
			n.Event.AttachedTo = remap(n.Event.AttachedTo)
		}
		if n.Gateway != nil && n.Gateway.Default != NoIndex {
			n.Gateway.Default = remap(n.Gateway.Default)
		}
	}
	remapped := make(map[int][]int, len(body.Boundaries))
	for k, v := range body.Boundaries {
		nk := remap(k)
		for i, idx := range v {
			v[i] = remap(idx)
		}
		remapped[nk] = v
	}
	body.Boundaries = remapped
	for name, idx := range body.CatchLinks {
		body.CatchLinks[name] = remap(idx)
	}
}

// DiagramBuilder assembles a full Diagram out of process bodies, in the
// order subprocess bodies must be built before the activity that embeds
// them so AddSubProcess can reference a concrete body index.
type DiagramBuilder struct {
	diagram Diagram
}

// NewDiagramBuilder starts a diagram under the given BPMN definitions id.
func NewDiagramBuilder(definitionsID string) *DiagramBuilder {
	return &DiagramBuilder{diagram: Diagram{Definitions: Definitions{ID: definitionsID}}}
}

// AddBody appends a built process body and returns its diagram-wide index.
// Set topLevel for processes Definitions references directly; leave it
// false for bodies only reachable as a SubProcess activity's nested body.
func (b *DiagramBuilder) AddBody(body *ProcessBody, topLevel bool) int {
	idx := len(b.diagram.Bodies)
	b.diagram.Bodies = append(b.diagram.Bodies, *body)
	if topLevel {
		b.diagram.Definitions.TopLevelProcesses = append(b.diagram.Definitions.TopLevelProcesses, idx)
	}
	return idx
}

// Build validates cross-body references and returns the finished diagram.
func (b *DiagramBuilder) Build() (*Diagram, error) {
	d := b.diagram
	if len(d.Definitions.TopLevelProcesses) == 0 {
		return nil, &BuilderError{Message: fmt.Sprintf("definitions %q has no top-level process", d.Definitions.ID)}
	}
	for _, body := range d.Bodies {
		for _, n := range body.Nodes {
			if n.Kind == KindActivity && n.Activity.Kind == ActivitySubProcess {
				if n.Activity.Body < 0 || n.Activity.Body >= len(d.Bodies) {
					return nil, &BuilderError{Message: fmt.Sprintf("subprocess %q in %q references an unbuilt body", n.NameOrID(), body.ID)}
				}
			}
		}
	}
	return &d, nil
}
