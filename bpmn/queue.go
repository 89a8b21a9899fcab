package bpmn

// tokenQueue is a body execution's work list, organized as batches of
// token positions rather than one flat list. A batch represents a set of
// tokens that either arrived together (a fork's branches) or were each
// independently continued; batches the current round produces via fork
// aren't visible to the scheduler until commit, which is what lets a
// bookkeeper frame be pushed before any of its tokens start moving.
type tokenQueue struct {
	batches [][]int

	// pendingDynamic stages forks whose arity is only known at fork time
	// (a multi-output pass-through event, or an Inclusive gateway's
	// ForkDecision): each gets its own inclusive bookkeeper frame on
	// commit.
	pendingDynamic [][]int

	// pendingStatic stages a Parallel gateway's fork: arity is fixed by
	// the eventual join's own |incoming| count, so no frame is opened.
	pendingStatic [][]int
}

// take removes and returns every batch ready to run this round.
func (q *tokenQueue) take() [][]int {
	b := q.batches
	q.batches = nil
	return b
}

// immediate enqueues a single continuation directly, with no new
// bookkeeper frame: used for ordinary pass-through steps and for joins
// releasing along their one outgoing flow.
func (q *tokenQueue) immediate(next int) {
	q.batches = append(q.batches, []int{next})
}

// pendingDynamicFork stages a dynamic-arity fork's branches; they become
// live only once commit runs, after a bookkeeper frame has been opened for
// them.
func (q *tokenQueue) pendingDynamicFork(next []int) {
	q.pendingDynamic = append(q.pendingDynamic, next)
}

// pendingStaticFork stages a Parallel gateway's branches; they become live
// on commit with no bookkeeper frame.
func (q *tokenQueue) pendingStaticFork(next []int) {
	q.pendingStatic = append(q.pendingStatic, next)
}

// commit opens a bookkeeper frame for each staged dynamic fork, then makes
// every staged branch (dynamic or static) live for the next round.
func (q *tokenQueue) commit(bk *bookkeeper) {
	for _, batch := range q.pendingDynamic {
		bk.pushInclusive(len(batch))
		q.batches = append(q.batches, batch)
	}
	q.pendingDynamic = nil
	for _, batch := range q.pendingStatic {
		q.batches = append(q.batches, batch)
	}
	q.pendingStatic = nil
}
