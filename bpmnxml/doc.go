// Package bpmnxml decodes BPMN 2.0 XML documents into the diagram model
// the bpmn package's engine executes.
//
// Reading proceeds depth-first: a subProcess's body is fully built, and
// its diagram-wide index known, before the activity that embeds it is
// added to the enclosing body, since AddSubProcess needs a concrete body
// index rather than a forward reference. Sequence flows are added last,
// once every event/task/gateway in the body has a resolvable id.
//
// Conditional sequence flows are rejected: this engine has no expression
// evaluator, so a conditionExpression on a flow can never be honored and
// is treated as an unsupported-diagram error rather than silently ignored.
package bpmnxml
