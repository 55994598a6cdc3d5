package session

import "time"

// Config controls session history bounds and eviction timing. Field
// defaults mirror settings.Cache/settings.Behavioral but the package
// stays independently configurable so it can be exercised without
// pulling in the settings package (tests, alternate entrypoints).
type Config struct {
	// MaxRequests bounds the RequestLog ring kept per session.
	MaxRequests int `env:"SESSION_MAX_REQUESTS" envDefault:"100"`
	// MaxSuspicionHistory bounds the suspicion-score trail kept per
	// session.
	MaxSuspicionHistory int `env:"SESSION_MAX_SUSPICION_HISTORY" envDefault:"20"`
	// Timeout is both the cache TTL and the staleness threshold: a
	// session whose lastSeen is older than Timeout is expired.
	Timeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"30m"`
	// MaxSessions bounds the in-memory store's LRU capacity.
	MaxSessions int `env:"SESSION_MAX_SESSIONS" envDefault:"10000"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxRequests:         100,
		MaxSuspicionHistory: 20,
		Timeout:             30 * time.Minute,
		MaxSessions:         10000,
	}
}
