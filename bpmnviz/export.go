// Package bpmnviz renders a bpmn.Diagram as a Mermaid flowchart, a DOT
// (Graphviz) graph, or an indented ASCII tree, for embedding in docs or
// printing to a terminal.
package bpmnviz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"

	"github.com/smallnest/bpmnflow/bpmn"
)

var labelPolicy = bluemonday.StrictPolicy()

// sanitize strips any markup a BPMN name might carry before it is
// embedded in a diagram label, since Mermaid/DOT labels and the ASCII
// tree are often rendered straight into HTML documentation.
func sanitize(s string) string {
	return labelPolicy.Sanitize(s)
}

// Exporter renders one process body of a diagram.
type Exporter struct {
	diagram *bpmn.Diagram
	body    *bpmn.ProcessBody
}

// NewExporter builds an exporter for the body at bodyIndex.
func NewExporter(d *bpmn.Diagram, bodyIndex int) *Exporter {
	return &Exporter{diagram: d, body: d.Body(bodyIndex)}
}

func label(n *bpmn.Node) string {
	text := sanitize(n.NameOrID())
	switch n.Kind {
	case bpmn.KindEvent:
		return fmt.Sprintf("%s (%s)", text, n.Event.Kind)
	case bpmn.KindActivity:
		if n.Activity.Kind == bpmn.ActivitySubProcess {
			return fmt.Sprintf("%s [SubProcess]", text)
		}
		return text
	case bpmn.KindGateway:
		return fmt.Sprintf("%s (%s)", text, n.Gateway.Kind)
	default:
		return text
	}
}

func mermaidShape(n *bpmn.Node, idx int, id string) string {
	switch n.Kind {
	case bpmn.KindEvent:
		return fmt.Sprintf("%s((%q))", id, label(n))
	case bpmn.KindGateway:
		return fmt.Sprintf("%s{%q}", id, label(n))
	default:
		return fmt.Sprintf("%s[%q]", id, label(n))
	}
}

func nodeIDs(body *bpmn.ProcessBody) map[int]string {
	ids := make(map[int]string, len(body.Nodes))
	for i, n := range body.Nodes {
		if n.Kind == bpmn.KindSequenceFlow {
			continue
		}
		ids[i] = fmt.Sprintf("n%d", i)
	}
	return ids
}

// DrawMermaid renders the body as a Mermaid flowchart.
func (e *Exporter) DrawMermaid() string {
	var sb strings.Builder
	sb.WriteString("flowchart TD\n")

	ids := nodeIDs(e.body)
	order := sortedKeys(ids)
	for _, i := range order {
		sb.WriteString("    " + mermaidShape(&e.body.Nodes[i], i, ids[i]) + "\n")
	}

	for _, i := range order {
		n := &e.body.Nodes[i]
		for _, out := range n.Outputs {
			flow := e.body.Nodes[out]
			target := ids[flow.Flow.Target]
			if flow.Name != "" {
				sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", ids[i], sanitize(flow.Name), target))
			} else {
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", ids[i], target))
			}
		}
	}
	return sb.String()
}

// DrawDOT renders the body as a Graphviz DOT graph.
func (e *Exporter) DrawDOT() string {
	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [shape=box];\n")

	ids := nodeIDs(e.body)
	order := sortedKeys(ids)
	for _, i := range order {
		n := &e.body.Nodes[i]
		shape := "box"
		if n.Kind == bpmn.KindEvent {
			shape = "ellipse"
		} else if n.Kind == bpmn.KindGateway {
			shape = "diamond"
		}
		sb.WriteString(fmt.Sprintf("    %s [label=%q, shape=%s];\n", ids[i], label(n), shape))
	}

	for _, i := range order {
		n := &e.body.Nodes[i]
		for _, out := range n.Outputs {
			flow := e.body.Nodes[out]
			target := ids[flow.Flow.Target]
			if flow.Name != "" {
				sb.WriteString(fmt.Sprintf("    %s -> %s [label=%q];\n", ids[i], target, sanitize(flow.Name)))
			} else {
				sb.WriteString(fmt.Sprintf("    %s -> %s;\n", ids[i], target))
			}
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// ASCIIOptions controls DrawASCII's output.
type ASCIIOptions struct {
	// Color enables lipgloss terminal styling of node kinds. Leave false
	// for plain text suitable for log files or piping to other tools.
	Color bool
}

var (
	gatewayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	activityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	eventStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("120"))
)

func styledLabel(n *bpmn.Node, color bool) string {
	text := label(n)
	if !color {
		return text
	}
	switch n.Kind {
	case bpmn.KindGateway:
		return gatewayStyle.Render(text)
	case bpmn.KindActivity:
		return activityStyle.Render(text)
	case bpmn.KindEvent:
		return eventStyle.Render(text)
	default:
		return text
	}
}

// DrawASCII renders the body as an indented tree starting from its start
// event, marking any node revisited through a cycle.
func (e *Exporter) DrawASCII(opts ASCIIOptions) string {
	var sb strings.Builder
	sb.WriteString("Process Flow:\n")
	visited := make(map[int]bool)
	e.drawASCIINode(e.body.Start, "", true, visited, opts, &sb)
	return sb.String()
}

func (e *Exporter) drawASCIINode(idx int, prefix string, isLast bool, visited map[int]bool, opts ASCIIOptions, sb *strings.Builder) {
	connector := "├── "
	nextPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		nextPrefix = prefix + "    "
	}

	n := &e.body.Nodes[idx]
	if visited[idx] {
		sb.WriteString(fmt.Sprintf("%s%s%s (cycle)\n", prefix, connector, styledLabel(n, opts.Color)))
		return
	}
	visited[idx] = true
	sb.WriteString(fmt.Sprintf("%s%s%s\n", prefix, connector, styledLabel(n, opts.Color)))

	targets := make([]int, 0, len(n.Outputs))
	for _, out := range n.Outputs {
		targets = append(targets, e.body.Nodes[out].Flow.Target)
	}
	sort.Ints(targets)

	for i, t := range targets {
		e.drawASCIINode(t, nextPrefix, i == len(targets)-1, visited, opts, sb)
	}
}

func sortedKeys(m map[int]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
