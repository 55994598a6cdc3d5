// Package circuitbreaker implements a CLOSED/OPEN/HALF_OPEN state machine
// that guards a flaky dependency (typically a network call) behind a
// single entry point, Execute.
//
//	cb := circuitbreaker.New(circuitbreaker.Config{
//		FailureThreshold: 5,
//		RecoveryTimeout:  60 * time.Second,
//		MinimumRequests:  10,
//	})
//
//	result, err := circuitbreaker.Execute(ctx, cb, func(ctx context.Context) (Result, error) {
//		return callFlakyDependency(ctx)
//	}, func() Result { return Result{} })
//
// In CLOSED state every call runs and is counted; once at least
// MinimumRequests calls have been observed and at least FailureThreshold
// of them failed, the breaker opens and every call short-circuits to the
// fallback value and ErrOpen until RecoveryTimeout has elapsed, at which point
// a single HALF_OPEN trial call decides whether to close again or reopen.
package circuitbreaker
