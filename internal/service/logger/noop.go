package logger

import "context"

// noopLogger discards everything; used in tests and as a safe default
type noopLogger struct{}

// NewNoop returns a logger that drops all entries
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Info(context.Context, string, map[string]interface{})         {}
func (noopLogger) Error(context.Context, string, error, map[string]interface{}) {}
func (noopLogger) Warn(context.Context, string, map[string]interface{})         {}
func (noopLogger) Debug(context.Context, string, map[string]interface{})        {}
func (n noopLogger) WithFields(map[string]interface{}) Logger                   { return n }
