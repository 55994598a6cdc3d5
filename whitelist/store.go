package whitelist

import (
	"context"
	"regexp"
	"time"
)

// EntryStore durably persists whitelist entries behind the in-memory
// Manager. Check never touches it — matching stays entirely
// in-process; a store is only consulted at startup, via Restore, and
// written through on mutation by the caller that owns both the
// Manager and the store (e.g. store/pgwhitelist).
type EntryStore interface {
	Save(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]Entry, error)
	// DeleteExpired removes every entry whose ExpiresAt is non-zero and
	// before now, returning the count removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Restore inserts entry directly into the in-memory indexes,
// preserving its ID, CreatedAt, and ExpiresAt, and bypassing the
// capacity check — used to hydrate the Manager from an EntryStore at
// startup. An unrecognized Type is ignored.
func (m *Manager) Restore(entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch entry.Type {
	case BypassIP:
		m.byIP[entry.Value] = entry
	case BypassASN:
		m.byASN[entry.Value] = entry
	case BypassFingerprint:
		m.byFingerprint[entry.Value] = entry
	case BypassUserAgent:
		var compiled *regexp.Regexp
		if re, err := regexp.Compile("(?i)" + entry.Value); err == nil {
			compiled = re
		}
		m.userAgents = append(m.userAgents, uaEntry{entry: entry, pattern: compiled})
	default:
		return
	}
	m.count++
}
