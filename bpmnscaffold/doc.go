// Package bpmnscaffold generates a starter callback registry and an
// implementation checklist for a diagram, the same way a BPMN code
// generator walks every task and diverging gateway once up front instead
// of leaving a user to discover Install's missing-implementation errors
// one at a time.
package bpmnscaffold
