package detect

import "errors"

// Error taxonomy kinds. These are sentinel errors, not a type
// hierarchy: callers compare with errors.Is, and every one but
// ErrConfiguration is recoverable locally by substituting a fallback.
var (
	ErrGeoServiceFailure = errors.New("detect: geo service failure")
	ErrHTTPFingerprint   = errors.New("detect: http fingerprint error")
	ErrBehaviorAnalysis  = errors.New("detect: behavior analysis error")
	ErrTLSAnalysis       = errors.New("detect: tls analysis error")
	ErrScoringEngine     = errors.New("detect: scoring engine error")
	ErrTimeout           = errors.New("detect: timeout")
	ErrNetwork           = errors.New("detect: network error")
	ErrConfiguration     = errors.New("detect: configuration error")
	ErrCapacityExceeded  = errors.New("detect: capacity exceeded")
)
