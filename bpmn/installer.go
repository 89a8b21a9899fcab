package bpmn

import "sort"

// Program is a Diagram whose executable nodes have been bound to a
// Registry's callbacks. It is immutable once Install returns it; Run may be
// called on the same Program as many times, concurrently, as the caller
// likes, since each Run allocates its own scheduler state.
type Program[T any] struct {
	diagram   *Diagram
	callbacks []callback[T]
}

// Install binds every Task activity and every diverging gateway (one with
// more than one outgoing sequence flow) in d to the matching callback in
// reg, by (kind, name-or-id). It aggregates every unsatisfied binding into
// a single MissingImplementationsError instead of failing on the first
// one, so a caller wiring up a new diagram sees everything left to do at
// once.
func Install[T any](d *Diagram, reg *Registry[T]) (*Program[T], error) {
	var missing []string

	for bi := range d.Bodies {
		body := &d.Bodies[bi]
		for ni := range body.Nodes {
			n := &body.Nodes[ni]
			switch n.Kind {
			case KindActivity:
				if n.Activity.Kind != ActivityTask {
					continue
				}
				if idx, ok := reg.lookup(callbackTask, n.ID); ok {
					n.Activity.CallbackIndex = idx
				} else if idx, ok := reg.lookup(callbackTask, n.Name); n.Name != "" && ok {
					n.Activity.CallbackIndex = idx
				} else {
					missing = append(missing, "Task: "+n.NameOrID())
				}
			case KindGateway:
				if len(n.Outputs) <= 1 {
					continue
				}
				if n.Gateway.Kind == GatewayParallel {
					// A Parallel fork always takes every outgoing flow; it
					// never consults a callback to choose among them.
					continue
				}
				kind := gatewayCallbackKind(n.Gateway.Kind)
				if idx, ok := reg.lookup(kind, n.ID); ok {
					n.Gateway.CallbackIndex = idx
				} else if idx, ok := reg.lookup(kind, n.Name); n.Name != "" && ok {
					n.Gateway.CallbackIndex = idx
				} else {
					missing = append(missing, n.Gateway.Kind.String()+": "+n.NameOrID())
				}
			}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingImplementationsError{Missing: missing}
	}
	return &Program[T]{diagram: d, callbacks: reg.callbacks}, nil
}

func gatewayCallbackKind(k GatewayKind) callbackKind {
	switch k {
	case GatewayExclusive:
		return callbackExclusive
	case GatewayInclusive:
		return callbackInclusive
	default:
		return callbackEventBased
	}
}
