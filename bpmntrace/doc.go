// Package bpmntrace replays a recorded bpmn.TraceEntry sequence against a
// fresh state value, re-invoking the same registry callbacks in the order
// they were originally visited.
//
// Replay only re-invokes Task and diverging-gateway callbacks: sequence
// flows, pass-through events and converging gateways never appear in a
// trace, so there is nothing to replay for them. A gateway's replayed
// decision is trusted as-is; Replay does not re-walk the diagram to verify
// the decision still resolves to a real outgoing flow, since the point of
// replay is to reproduce the state mutations the original run performed,
// not to re-validate the diagram.
package bpmntrace
