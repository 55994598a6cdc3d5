package whitelist

import "time"

// BypassType identifies which kind of match let a request through.
type BypassType string

const (
	BypassIP             BypassType = "ip"
	BypassUserAgent      BypassType = "user_agent"
	BypassMonitoringTool BypassType = "monitoring_tool"
	BypassASN            BypassType = "asn"
	BypassFingerprint    BypassType = "fingerprint"
)

// Entry is one whitelist rule. Value holds the IP/ASN/fingerprint string
// or the regex/substring pattern for a BypassUserAgent entry. A zero
// ExpiresAt means the entry never expires.
type Entry struct {
	ID        string
	Type      BypassType
	Value     string
	Reason    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// expired reports whether e has an expiry in the past relative to now.
func (e Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
