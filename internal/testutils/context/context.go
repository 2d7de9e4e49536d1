package context

import (
	"context"
	"testing"
	"time"
)

// WithTest bounds ctx by the test's deadline, minus 1 second
// to leave room for clean-up.
func WithTest(ctx context.Context, t *testing.T) (context.Context, func()) {
	if deadline, ok := t.Deadline(); ok {
		dctx, cancel := context.WithDeadline(ctx, deadline.Add(-time.Second))
		return dctx, cancel
	}
	return ctx, func() {}
}
