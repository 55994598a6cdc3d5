// Package session maintains the per-IP rolling request history the
// behavior analyzer scores against: first/last-seen timestamps, a
// bounded ring of recent requests, the set of fingerprint digests an IP
// has presented, and a short trail of past suspicion scores.
//
// Sessions live in an LRU+TTL cache keyed by IP, with TTL equal to the
// configured session timeout. Track serializes updates per IP so two
// concurrent requests from the same address never lose one another's
// writes.
//
//	store := session.NewMemoryStore(session.DefaultConfig())
//	mgr := session.New(session.WithStore(store))
//	data, _ := mgr.Track(ctx, "203.0.113.7", session.RequestLog{
//		Timestamp: time.Now(),
//		Path:      "/checkout",
//		Method:    "POST",
//		UserAgent: "Mozilla/5.0",
//	})
package session
