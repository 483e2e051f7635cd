package recipes

import (
	"context"
)

// Coordinator is the part of the worker facade the recipes need.
// It is implemented by *worker.Worker.
type Coordinator interface {
	// AcquireLock waits until the lock is held
	AcquireLock(ctx context.Context, name string) error
	// ReleaseLock releases one level of the lock
	ReleaseLock(name string) error
	// GetParallelValueForKey returns the value of key or ""
	GetParallelValueForKey(key string) (string, error)
	// SetParallelValueForKey stores a value visible to all workers
	SetParallelValueForKey(key, value string) error
	// WaitForValue polls key until ready accepts its value
	WaitForValue(ctx context.Context, key string, ready func(value string) bool) error
	// IsDistributed reports whether other worker processes take part in the run
	IsDistributed() bool
}

// Runner executes keywords
type Runner interface {
	// RunKeyword runs the named keyword, a returned error marks the keyword as failed
	RunKeyword(ctx context.Context, name string, args ...string) error
}
