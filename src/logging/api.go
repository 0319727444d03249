package logging

import (
	"time"

	"go.uber.org/zap"
)

// NOTE TO READER: the engine itself never logs.  Everything here is called by
// the runner and the command line front-end.

// LogError logs an input that failed to parse (syntax error, malformed token,
// unreadable file).  It counts towards the final status.
func LogError(path string, err error) {
	errorCount.Inc()
	appLogger.Warn("input rejected", zap.String("file", path), zap.Error(err))
}

// LogFault logs a table fault hit while parsing an input.  Faults are bugs in
// whatever built the tables so they are logged at error level with a stack.
func LogFault(path string, fault error) {
	errorCount.Inc()
	appLogger.Error("table fault", zap.String("file", path), zap.Error(fault), zap.Stack("stack"))
}

// LogFatal logs an unrecoverable error and terminates the program
func LogFatal(message string, fields ...zap.Field) {
	appLogger.Fatal(message, fields...)
}

// LogStateChange logs the start of a new stage along with the time taken by
// the previous one
func LogStateChange(newstate string) {
	now := time.Now()
	prev := prevUpdate.Load()
	prevUpdate.Store(now)

	fields := []zap.Field{zap.String("state", newstate)}
	if !prev.IsZero() {
		fields = append(fields, zap.Duration("previous", now.Sub(prev)))
	}

	appLogger.Debug("state change", fields...)
}

// LogFinished logs the final status of a run over `total` inputs and returns
// the number of inputs that failed
func LogFinished(total int) int {
	failed := int(errorCount.Load())

	if failed == 0 {
		appLogger.Info("parse succeeded", zap.Int("inputs", total))
	} else {
		appLogger.Info("parse failed", zap.Int("inputs", total), zap.Int("failed", failed))
	}

	return failed
}

// ErrorCount returns the number of inputs that failed so far
func ErrorCount() int {
	return int(errorCount.Load())
}
