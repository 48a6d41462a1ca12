package telemetry

import (
	"context"
	"sync/atomic"
)

type callCounterKey struct{}

// CallCounter tallies outbound backend calls made while serving one request.
type CallCounter struct {
	n atomic.Int64
}

// Load returns the number of calls counted so far.
func (c *CallCounter) Load() int64 {
	if c == nil {
		return 0
	}
	return c.n.Load()
}

// WithCallCounter returns a context carrying a fresh counter.
func WithCallCounter(ctx context.Context) (context.Context, *CallCounter) {
	counter := &CallCounter{}
	return context.WithValue(ctx, callCounterKey{}, counter), counter
}

// CountCall increments the counter carried by ctx, if any.
func CountCall(ctx context.Context) {
	if ctx == nil {
		return
	}
	if counter, ok := ctx.Value(callCounterKey{}).(*CallCounter); ok {
		counter.n.Add(1)
	}
}
