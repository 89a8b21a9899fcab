package bpmn

import "github.com/smallnest/bpmnflow/bpmnlog"

// Config tunes a single Run. The zero value is ready to use: it logs
// through bpmnlog's package-level default logger and sizes the trace
// channel at 64 entries.
type Config struct {
	// Logger receives scheduling diagnostics for this run. Defaults to
	// bpmnlog.GetDefaultLogger() when nil.
	Logger bpmnlog.Logger

	// TraceBuffer sizes the trace channel. Defaults to 64 when zero.
	TraceBuffer int
}

func (c Config) logger() bpmnlog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return bpmnlog.GetDefaultLogger()
}

func (c Config) traceBuffer() int {
	if c.TraceBuffer > 0 {
		return c.TraceBuffer
	}
	return 64
}
