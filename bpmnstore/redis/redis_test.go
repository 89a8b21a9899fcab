package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/smallnest/bpmnflow/bpmn"
	"github.com/smallnest/bpmnflow/bpmnstore"
)

func TestTraceStore_SaveListDelete(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	store := New(Options{Addr: mr.Addr()})
	ctx := context.Background()

	run := &bpmnstore.Run{
		ID:        "run-1",
		ProcessID: "proc-1",
		Entries: []bpmn.TraceEntry{
			{Kind: bpmn.TraceTask, NameOrID: "review-order"},
		},
		Timestamp: time.Now(),
	}

	err = store.Save(ctx, run)
	assert.NoError(t, err)

	list, err := store.List(ctx, "proc-1")
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, run.ID, list[0].ID)
	assert.Len(t, list[0].Entries, 1)

	err = store.Delete(ctx, "run-1")
	assert.NoError(t, err)

	list, err = store.List(ctx, "proc-1")
	assert.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestTraceStore_ListEmpty(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	store := New(Options{Addr: mr.Addr()})
	list, err := store.List(context.Background(), "no-such-process")
	assert.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestTraceStore_DeleteMissing(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	store := New(Options{Addr: mr.Addr()})
	err = store.Delete(context.Background(), "missing")
	assert.Error(t, err)
}

func TestTraceStore_WithTTL(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	store := New(Options{Addr: mr.Addr(), TTL: time.Minute})
	ctx := context.Background()

	run := &bpmnstore.Run{ID: "run-ttl", ProcessID: "proc-1", Timestamp: time.Now()}
	err = store.Save(ctx, run)
	assert.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	list, err := store.List(ctx, "proc-1")
	assert.NoError(t, err)
	assert.Len(t, list, 0)
}
