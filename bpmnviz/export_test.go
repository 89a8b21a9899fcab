package bpmnviz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/bpmnflow/bpmn"
)

func buildSampleDiagram(t *testing.T) *bpmn.Diagram {
	t.Helper()
	bb := bpmn.NewBodyBuilder("proc-1", "Order Approval")
	bb.AddStartEvent("start", "Order Received")
	bb.AddTask("review", "Review Order", bpmn.TaskGeneric)
	bb.AddGateway("gw", "Approved?", bpmn.GatewayExclusive, "flow-ship")
	bb.AddTask("ship", "Ship Order", bpmn.TaskGeneric)
	sym := bpmn.SymbolError
	bb.AddEndEvent("end-rejected", "Rejected", &sym)
	bb.AddEndEvent("end-shipped", "Shipped", nil)

	bb.AddSequenceFlow("f1", "", 0, "review")
	bb.AddSequenceFlow("f2", "", 1, "gw")
	bb.AddSequenceFlow("flow-ship", "approve", 2, "ship")
	bb.AddSequenceFlow("f3", "reject", 2, "end-rejected")
	bb.AddSequenceFlow("f4", "", 3, "end-shipped")

	body, err := bb.Build()
	require.NoError(t, err)

	db := bpmn.NewDiagramBuilder("defs-1")
	db.AddBody(body, true)
	d, err := db.Build()
	require.NoError(t, err)
	return d
}

func TestExporter_DrawMermaid(t *testing.T) {
	d := buildSampleDiagram(t)
	out := NewExporter(d, 0).DrawMermaid()
	assert.Contains(t, out, "flowchart TD")
	assert.Contains(t, out, "-->|approve|")
	assert.Contains(t, out, "Review Order")
}

func TestExporter_DrawDOT(t *testing.T) {
	d := buildSampleDiagram(t)
	out := NewExporter(d, 0).DrawDOT()
	assert.Contains(t, out, "digraph G")
	assert.Contains(t, out, "shape=diamond")
	assert.Contains(t, out, "label=\"reject\"")
}

func TestExporter_DrawASCII(t *testing.T) {
	d := buildSampleDiagram(t)
	out := NewExporter(d, 0).DrawASCII(ASCIIOptions{})
	assert.Contains(t, out, "Process Flow:")
	assert.Contains(t, out, "Review Order")
	assert.Contains(t, out, "Ship Order")
}

func TestExporter_SanitizesNames(t *testing.T) {
	bb := bpmn.NewBodyBuilder("proc-2", "")
	bb.AddStartEvent("start", "<script>alert(1)</script>")
	bb.AddEndEvent("end", "", nil)
	bb.AddSequenceFlow("f1", "", 0, "end")
	body, err := bb.Build()
	require.NoError(t, err)

	db := bpmn.NewDiagramBuilder("defs-2")
	db.AddBody(body, true)
	d, err := db.Build()
	require.NoError(t, err)

	out := NewExporter(d, 0).DrawMermaid()
	assert.NotContains(t, out, "<script>")
}
