package timeoutguard

import (
	"context"
	"time"
)

// Execute runs op in its own goroutine and returns its result if it
// finishes within timeout, or fallback() and true (timed out) otherwise.
// op's context is cancelled on timeout so it can abandon its own work,
// but Execute itself never waits for op to actually return — the result
// channel is buffered so a late-finishing op cannot leak its goroutine.
func Execute[V any](ctx context.Context, timeout time.Duration, op func(context.Context) V, fallback func() V) (V, bool) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultCh := make(chan V, 1)
	go func() {
		resultCh <- op(opCtx)
	}()

	select {
	case v := <-resultCh:
		return v, false
	case <-opCtx.Done():
		return fallback(), true
	}
}

// ExecuteErr is Execute's error-returning counterpart, for operations that
// can themselves fail independently of timing out. On timeout it reports
// (fallback(), true, ctx.Err()); on completion it passes through op's own
// error unchanged.
func ExecuteErr[V any](ctx context.Context, timeout time.Duration, op func(context.Context) (V, error), fallback func() V) (V, bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   V
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		v, err := op(opCtx)
		resultCh <- result{v, err}
	}()

	select {
	case r := <-resultCh:
		return r.v, false, r.err
	case <-opCtx.Done():
		return fallback(), true, opCtx.Err()
	}
}
