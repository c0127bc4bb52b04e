// Package logger provides the structured logger used by callers of this
// module (the dedup harness and benchmark runner); the chunker and
// chunker/parallel packages never log (spec.md §7).
package logger

import "go.uber.org/zap"

// New builds a production zap.Logger: JSON encoding, info level, stack
// traces on error, suitable for the benchmark runner and any long-lived
// process driving the dedup harness.
func New() (*zap.Logger, error) {
	return zap.NewProduction()
}

// NewDevelopment builds a human-readable, debug-level zap.Logger for local
// runs and tests.
func NewDevelopment() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// Noop returns a logger that discards everything, for callers that want the
// dedup harness's WithLogger plumbing without any actual output.
func Noop() *zap.Logger {
	return zap.NewNop()
}
