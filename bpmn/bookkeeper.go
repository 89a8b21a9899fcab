package bpmn

// bookkeeper resolves when a set of tokens that forked together has fully
// rejoined. It tracks two independent kinds of join arithmetic, because
// Inclusive and Parallel gateways count differently:
//
//   - Inclusive joins release once every token an Inclusive fork actually
//     sent out has either reached a join or drained into an End event.
//     Arity is dynamic: it's the number of paths the fork's callback chose,
//     not the gateway's static incoming-edge count. A diagram's inclusive
//     forks and joins can nest, so frames form a LIFO stack: the most
//     recently opened fork is the first one closed.
//   - Parallel joins release once the number of arrivals reaches the
//     gateway's static |incoming| count. Arity never changes, so a flat
//     per-gateway counter suffices; it's decremented by |incoming| (not
//     reset to zero) on release so a cycle feeding the same join twice
//     keeps counting correctly the second time around.
//
// A bookkeeper is scoped to a single process body execution: subprocess
// recursion gets its own bookkeeper, since sequence flows (and therefore
// forks and joins) never cross body boundaries.
type bookkeeper struct {
	inclusive []inclusiveFrame
	parallel  map[int]int
}

type inclusiveFrame struct {
	created  int
	joined   []int
	consumed int
}

func newBookkeeper() *bookkeeper {
	return &bookkeeper{parallel: make(map[int]int)}
}

// pushInclusive opens a new frame for a fork that just sent out `tokens`
// paths.
func (b *bookkeeper) pushInclusive(tokens int) {
	b.inclusive = append(b.inclusive, inclusiveFrame{created: tokens})
}

// consumeInclusive records a token arriving at an Inclusive join (gateway
// index join) and reports whether that completes the top frame. When it
// does, it returns the distinct join gateways the frame's tokens actually
// arrived at, deduplicated; more than one distinct gateway means the fork's
// branches rejoined at different places (an unbalanced diagram).
func (b *bookkeeper) consumeInclusive(join int) ([]int, bool) {
	return b.consumeInclusiveFrame(&join)
}

// consumeInclusiveEnd records a token that drained into an End event while
// inside an open Inclusive fork, without naming a join gateway.
func (b *bookkeeper) consumeInclusiveEnd() ([]int, bool) {
	return b.consumeInclusiveFrame(nil)
}

func (b *bookkeeper) consumeInclusiveFrame(join *int) ([]int, bool) {
	if len(b.inclusive) == 0 {
		return nil, false
	}
	top := len(b.inclusive) - 1
	frame := &b.inclusive[top]
	if join != nil {
		frame.joined = append(frame.joined, *join)
	}
	frame.consumed++
	if frame.created-frame.consumed > 0 {
		return nil, false
	}
	b.inclusive = b.inclusive[:top]
	return dedupInts(frame.joined), true
}

// consumeParallel records an arrival at a Parallel join with the given
// static incoming-edge count, reporting whether that arrival completes it.
func (b *bookkeeper) consumeParallel(join, incoming int) bool {
	if incoming <= 0 {
		incoming = 1
	}
	b.parallel[join]++
	if b.parallel[join] < incoming {
		return false
	}
	b.parallel[join] -= incoming
	return true
}

func dedupInts(in []int) []int {
	if len(in) <= 1 {
		return in
	}
	seen := make(map[int]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
