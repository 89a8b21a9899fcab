// Package bpmnlog provides a simple, leveled logging interface for the
// bpmn execution engine.
//
// This package implements a lightweight logging system with support for
// different log levels and customizable output destinations. It exists so
// the engine can report scheduling and registration events (a
// re-registered callback, an unbalanced diagram) without taking
// a hard dependency on any one logging framework.
//
// # Log Levels
//
// The package supports five log levels, in order of increasing severity:
//
//   - LevelDebug: Token-by-token scheduling detail for development
//   - LevelInfo: General run progress
//   - LevelWarn: Potentially problematic situations that don't stop a run
//   - LevelError: Failures that need attention
//   - LevelNone: Disables all logging output
//
// # Logger Interface
//
// The Logger interface provides four main logging methods:
//
//   - Debug: For detailed troubleshooting information
//   - Info: For general run flow information
//   - Warn: For issues that don't stop a run but need attention
//   - Error: For failures
//
// # Example Usage
//
// ## Basic Logging
//
//	logger := bpmnlog.NewDefaultLogger(bpmnlog.LevelInfo)
//
//	logger.Info("run %s starting", runID)
//	logger.Debug("dispatching token at node %d", nodeIndex)
//	logger.Warn("re-registering task %q", name)
//	logger.Error("run %s failed: %v", runID, err)
//
// ## Custom Output
//
//	file, err := os.OpenFile("engine.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	logger := bpmnlog.NewCustomLogger(file, bpmnlog.LevelDebug)
//	logger.Debug("this will go to the file")
//
// ## Filtering by Level
//
//	debugLogger := bpmnlog.NewDefaultLogger(bpmnlog.LevelDebug)
//	prodLogger := bpmnlog.NewDefaultLogger(bpmnlog.LevelWarn)
//
//	debugLogger.Debug("visible in debug mode")
//	prodLogger.Debug("not visible in production")
//
// # Integration with the engine
//
// Config.Logger lets a run override the package-level default without
// mutating global state:
//
//	cfg := bpmn.Config{Logger: bpmnlog.NewDefaultLogger(bpmnlog.LevelDebug)}
//	state, entries, err := program.Run(ctx, initial, cfg)
//
// # Thread Safety
//
// DefaultLogger is safe for concurrent use; the underlying stdlib
// log.Logger handles synchronization internally. GologLogger inherits
// whatever thread-safety guarantees the wrapped golog.Logger provides.
//
// # Available Implementations
//
// ## Standard Library Logger
//
// DefaultLogger wraps Go's standard log package.
//
// ## golog Integration
//
// For callers who already route logs through github.com/kataras/golog:
//
//	glogger := golog.New()
//	glogger.SetPrefix("[myapp] ")
//
//	logger := bpmnlog.NewGologLogger(glogger)
//	logger.Info("run starting")
//	logger.SetLevel(bpmnlog.LevelDebug)
//
// # Custom Loggers
//
// Implement the Logger interface directly for anything else (zap,
// logrus, a structured sink):
//
//	type CustomLogger struct{}
//
//	func (l *CustomLogger) Debug(format string, v ...any) {}
//	func (l *CustomLogger) Info(format string, v ...any)  {}
//	func (l *CustomLogger) Warn(format string, v ...any)  {}
//	func (l *CustomLogger) Error(format string, v ...any) {}
package bpmnlog
