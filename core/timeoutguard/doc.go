// Package timeoutguard runs an operation against a deadline, always
// returning within timeout+ε by substituting a caller-supplied fallback
// value instead of waiting for a slow operation to finish.
//
//	result, timedOut := timeoutguard.Execute(ctx, 25*time.Millisecond,
//		func(ctx context.Context) GeoLocation { return resolve(ctx, ip) },
//		func() GeoLocation { return unknownSentinel },
//	)
//
// A timeout is never escalated to the caller as an error; Execute reports
// whether it occurred via its second return value so callers can record
// it, but the zero-value contract is always "I got something usable."
package timeoutguard
