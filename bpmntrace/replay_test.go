package bpmntrace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/bpmnflow/bpmn"
)

type approvalState struct {
	approved bool
	notes    []string
}

func buildApprovalDiagram(t *testing.T) *bpmn.Diagram {
	t.Helper()
	bb := bpmn.NewBodyBuilder("proc", "Approval")
	bb.AddStartEvent("start", "Start")
	bb.AddTask("review", "Review", bpmn.TaskUser)
	bb.AddGateway("gw", "Approved?", bpmn.GatewayExclusive, "flow-reject")
	bb.AddTask("approve-task", "Finalize Approval", bpmn.TaskGeneric)
	bb.AddTask("reject-task", "Finalize Rejection", bpmn.TaskGeneric)
	bb.AddEndEvent("end-a", "Approved", nil)
	bb.AddEndEvent("end-r", "Rejected", nil)

	bb.AddSequenceFlow("f1", "", 0, "review")
	bb.AddSequenceFlow("f2", "", 1, "gw")
	bb.AddSequenceFlow("flow-approve", "approve", 2, "approve-task")
	bb.AddSequenceFlow("flow-reject", "reject", 2, "reject-task")
	bb.AddSequenceFlow("f3", "", 3, "end-a")
	bb.AddSequenceFlow("f4", "", 4, "end-r")

	body, err := bb.Build()
	require.NoError(t, err)
	db := bpmn.NewDiagramBuilder("defs")
	db.AddBody(body, true)
	d, err := db.Build()
	require.NoError(t, err)
	return d
}

func buildApprovalRegistry() *bpmn.Registry[approvalState] {
	reg := bpmn.NewRegistry[approvalState]()
	reg.AddTask("Review", func(s *approvalState) *bpmn.Symbol {
		s.notes = append(s.notes, "reviewed")
		return nil
	})
	reg.AddExclusive("Approved?", func(s *approvalState) string {
		if s.approved {
			return "approve"
		}
		return "reject"
	})
	reg.AddTask("Finalize Approval", func(s *approvalState) *bpmn.Symbol {
		s.notes = append(s.notes, "finalized-approved")
		return nil
	})
	reg.AddTask("Finalize Rejection", func(s *approvalState) *bpmn.Symbol {
		s.notes = append(s.notes, "finalized-rejected")
		return nil
	})
	return reg
}

func TestReplay_ReproducesOriginalRunState(t *testing.T) {
	d := buildApprovalDiagram(t)
	reg := buildApprovalRegistry()

	prog, err := bpmn.Install(d, reg)
	require.NoError(t, err)

	original, trace, err := prog.Run(context.Background(), approvalState{approved: true}, bpmn.Config{})
	require.NoError(t, err)

	replayed, err := Replay[approvalState](reg, approvalState{approved: true}, trace)
	require.NoError(t, err)

	assert.Equal(t, original.notes, replayed.notes)
}

func TestReplay_RejectedPath(t *testing.T) {
	d := buildApprovalDiagram(t)
	reg := buildApprovalRegistry()

	prog, err := bpmn.Install(d, reg)
	require.NoError(t, err)

	original, trace, err := prog.Run(context.Background(), approvalState{approved: false}, bpmn.Config{})
	require.NoError(t, err)

	replayed, err := Replay[approvalState](reg, approvalState{approved: false}, trace)
	require.NoError(t, err)

	assert.Equal(t, original.notes, replayed.notes)
	assert.Equal(t, []string{"reviewed", "finalized-rejected"}, replayed.notes)
}

func TestReplay_MissingCallbackErrors(t *testing.T) {
	d := buildApprovalDiagram(t)
	reg := buildApprovalRegistry()

	prog, err := bpmn.Install(d, reg)
	require.NoError(t, err)

	_, trace, err := prog.Run(context.Background(), approvalState{approved: true}, bpmn.Config{})
	require.NoError(t, err)

	emptyReg := bpmn.NewRegistry[approvalState]()
	_, err = Replay[approvalState](emptyReg, approvalState{approved: true}, trace)
	require.Error(t, err)
}
