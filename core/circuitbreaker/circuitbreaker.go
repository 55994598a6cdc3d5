package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is one of CLOSED, OPEN, or HALF_OPEN.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "CLOSED"
	case Open:
		return "OPEN"
	case HalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpen is returned (alongside the caller-supplied fallback value) when a
// call is rejected because the breaker is open.
var ErrOpen = errors.New("circuitbreaker: circuit is open")

// Config tunes breaker thresholds. Zero values are replaced with the
// spec-default shown in each comment.
type Config struct {
	// FailureThreshold is the failure count, once MinimumRequests has been
	// reached, that trips the breaker to OPEN. Default 5.
	FailureThreshold int
	// RecoveryTimeout is how long the breaker stays OPEN before allowing a
	// single HALF_OPEN trial. Default 60s.
	RecoveryTimeout time.Duration
	// MinimumRequests is the number of calls observed before failures are
	// even considered for tripping the breaker. Default 10.
	MinimumRequests int
}

func (c Config) withDefaults() Config {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = 60 * time.Second
	}
	if c.MinimumRequests <= 0 {
		c.MinimumRequests = 10
	}
	return c
}

// Stats is a snapshot of breaker counters, returned by Stats().
type Stats struct {
	State           State
	RequestCount    int
	FailureCount    int
	LastFailureTime time.Time
}

// Breaker guards one protected dependency.
type Breaker struct {
	cfg Config

	mu              sync.Mutex
	state           State
	requestCount    int
	failureCount    int
	lastFailureTime time.Time
	nowFunc         func() time.Time
}

// New creates a Breaker in the CLOSED state.
func New(cfg Config) *Breaker {
	return &Breaker{cfg: cfg.withDefaults(), nowFunc: time.Now}
}

// State returns the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns a snapshot of the breaker's counters.
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		State:           b.state,
		RequestCount:    b.requestCount,
		FailureCount:    b.failureCount,
		LastFailureTime: b.lastFailureTime,
	}
}

// Healthcheck reports the breaker's own state as a health dependency:
// nil while CLOSED, an error that signals degraded (it has a
// Degraded() error method) while HALF_OPEN, and a plain error while OPEN. ctx is unused but kept to satisfy the
// health.CheckFunc signature.
func (b *Breaker) Healthcheck(_ context.Context) error {
	switch b.State() {
	case Open:
		return ErrOpen
	case HalfOpen:
		return &degradedError{ErrOpen}
	default:
		return nil
	}
}

// degradedError marks an error as a degraded, not failed, condition by
// implementing health's degradedSignaler interface (Degraded() error)
// without importing core/health, keeping circuitbreaker dependency-free.
type degradedError struct{ err error }

func (d *degradedError) Error() string    { return "half-open: " + d.err.Error() }
func (d *degradedError) Unwrap() error    { return d.err }
func (d *degradedError) Degraded() error { return d.err }

// Reset returns the breaker to CLOSED with zeroed counters. Intended for
// tests and operator-triggered recovery.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Closed
	b.requestCount = 0
	b.failureCount = 0
	b.lastFailureTime = time.Time{}
}

// allow reports whether a call may proceed right now, transitioning OPEN
// to HALF_OPEN if RecoveryTimeout has elapsed.
func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return true
	case HalfOpen:
		return false // a trial is already in flight in another goroutine's view; conservatively refuse more
	case Open:
		if b.nowFunc().Sub(b.lastFailureTime) >= b.cfg.RecoveryTimeout {
			b.state = HalfOpen
			return true
		}
		return false
	default:
		return false
	}
}

func (b *Breaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.state = Closed
		b.requestCount = 0
		b.failureCount = 0
	case Closed:
		b.requestCount++
		b.failureCount = 0
	}
}

func (b *Breaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailureTime = b.nowFunc()

	switch b.state {
	case HalfOpen:
		b.state = Open
	case Closed:
		b.requestCount++
		b.failureCount++
		if b.requestCount >= b.cfg.MinimumRequests && b.failureCount >= b.cfg.FailureThreshold {
			b.state = Open
		}
	}
}

// Execute runs op if the breaker allows it, updating state from the
// result. If the breaker is open, op is never called and fallback() is
// returned alongside ErrOpen. If op returns an error, fallback() is
// returned alongside that error (the breaker has already recorded the
// failure). A successful op's result is returned with a nil error.
func Execute[V any](ctx context.Context, b *Breaker, op func(context.Context) (V, error), fallback func() V) (V, error) {
	if !b.allow() {
		return fallback(), ErrOpen
	}

	v, err := op(ctx)
	if err != nil {
		b.onFailure()
		return fallback(), err
	}
	b.onSuccess()
	return v, nil
}
