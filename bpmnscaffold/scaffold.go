// Package bpmnscaffold generates a starter Go registry file and a
// human-readable report for a diagram, so a new engine user does not
// have to hand-discover every task and diverging gateway that needs a
// callback before Install will succeed.
package bpmnscaffold

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smallnest/bpmnflow/bpmn"
)

type taskInfo struct {
	nameOrID string
	symbols  []string
}

type gatewayInfo struct {
	nameOrID string
	kind     bpmn.GatewayKind
	flows    []string
}

// Collect walks every body in d and returns the distinct tasks and
// diverging gateways a registry must bind before Install succeeds,
// alphabetically ordered by name-or-id.
func Collect(d *bpmn.Diagram) (tasks []taskInfo, gateways []gatewayInfo) {
	seenTasks := make(map[string]bool)
	seenGateways := make(map[string]bool)

	for bi := range d.Bodies {
		body := &d.Bodies[bi]
		for i := range body.Nodes {
			n := &body.Nodes[i]
			switch n.Kind {
			case bpmn.KindActivity:
				if n.Activity.Kind != bpmn.ActivityTask {
					continue
				}
				key := n.NameOrID()
				if seenTasks[key] {
					continue
				}
				seenTasks[key] = true
				tasks = append(tasks, taskInfo{nameOrID: key, symbols: boundarySymbols(body, i)})
			case bpmn.KindGateway:
				if len(n.Outputs) <= 1 {
					continue
				}
				if n.Gateway.Kind == bpmn.GatewayParallel {
					// A Parallel fork takes every outgoing flow unconditionally
					// and needs no registered callback.
					continue
				}
				key := n.NameOrID()
				if seenGateways[key] {
					continue
				}
				seenGateways[key] = true
				gateways = append(gateways, gatewayInfo{nameOrID: key, kind: n.Gateway.Kind, flows: flowNames(body, n)})
			}
		}
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].nameOrID < tasks[j].nameOrID })
	sort.Slice(gateways, func(i, j int) bool { return gateways[i].nameOrID < gateways[j].nameOrID })
	return tasks, gateways
}

func boundarySymbols(body *bpmn.ProcessBody, activityIdx int) []string {
	var symbols []string
	for _, bi := range body.Boundaries[activityIdx] {
		ev := body.Nodes[bi].Event
		if ev != nil && ev.HasSymbol {
			symbols = append(symbols, ev.Symbol.String())
		}
	}
	return symbols
}

func flowNames(body *bpmn.ProcessBody, gw *bpmn.Node) []string {
	var names []string
	for _, out := range gw.Outputs {
		flow := body.Nodes[out]
		if flow.Name != "" {
			names = append(names, flow.Name)
		} else {
			names = append(names, flow.ID)
		}
	}
	return names
}

func gatewayAdder(kind bpmn.GatewayKind) string {
	switch kind {
	case bpmn.GatewayInclusive:
		return "AddInclusive"
	case bpmn.GatewayEventBased:
		return "AddEventBased"
	default:
		return "AddExclusive"
	}
}

func gatewayStub(kind bpmn.GatewayKind) string {
	switch kind {
	case bpmn.GatewayInclusive:
		return "func(state *State) bpmn.Decision { return bpmn.DefaultDecision() }"
	case bpmn.GatewayEventBased:
		return "func(state *State) bpmn.IntermediateEvent { return bpmn.IntermediateEvent{} }"
	default:
		return `func(state *State) string { return "" }`
	}
}

// GenerateGo renders a starter registry file binding every task and
// diverging gateway Collect finds, against a placeholder State type the
// caller is expected to rename to their own.
func GenerateGo(d *bpmn.Diagram, packageName string) string {
	tasks, gateways := Collect(d)

	var sb strings.Builder
	fmt.Fprintf(&sb, "package %s\n\n", packageName)
	sb.WriteString("import \"github.com/smallnest/bpmnflow/bpmn\"\n\n")
	sb.WriteString("// State is a placeholder for the process's shared state type.\n")
	sb.WriteString("// Replace it with whatever your process actually carries.\n")
	sb.WriteString("type State struct{}\n\n")
	sb.WriteString("// NewRegistry builds the callback registry this diagram needs before\n")
	sb.WriteString("// bpmn.Install will succeed. Every callback below is a stub; fill in\n")
	sb.WriteString("// real behavior before running the process.\n")
	sb.WriteString("func NewRegistry() *bpmn.Registry[State] {\n")
	sb.WriteString("\treg := bpmn.NewRegistry[State]()\n\n")

	for _, task := range tasks {
		if len(task.symbols) > 0 {
			fmt.Fprintf(&sb, "\t// boundary symbols: %s\n", strings.Join(task.symbols, ", "))
		}
		fmt.Fprintf(&sb, "\treg.AddTask(%q, func(state *State) *bpmn.Symbol { return nil })\n\n", task.nameOrID)
	}

	for _, gw := range gateways {
		fmt.Fprintf(&sb, "\t// %s. flows: %s\n", gw.kind, strings.Join(gw.flows, ", "))
		fmt.Fprintf(&sb, "\treg.%s(%q, %s)\n\n", gatewayAdder(gw.kind), gw.nameOrID, gatewayStub(gw.kind))
	}

	sb.WriteString("\treturn reg\n}\n")
	return sb.String()
}
