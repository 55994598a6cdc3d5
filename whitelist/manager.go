package whitelist

import (
	"net"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/settings"
)

// Result is the outcome of a Check call.
type Result struct {
	IsWhitelisted  bool
	MatchedEntries []Entry
	Reason         string
	BypassType     BypassType
}

// Manager holds whitelist entries and evaluates incoming requests against
// them. All exported methods are safe for concurrent use.
type Manager struct {
	mu                sync.RWMutex
	maxEntries        int
	monitoringEnabled bool
	monitoringPattern *regexp.Regexp
	byIP              map[string]Entry
	byASN             map[string]Entry
	byFingerprint     map[string]Entry
	userAgents        []uaEntry
	count             int
	nowFunc           func() time.Time
}

type uaEntry struct {
	entry   Entry
	pattern *regexp.Regexp // nil means substring match against entry.Value
}

// New builds a Manager from cfg, preloading the configured IPs,
// User-Agent substrings, and ASNs as permanent entries.
func New(cfg settings.Whitelist) *Manager {
	m := &Manager{
		maxEntries:        cfg.MaxEntries,
		monitoringEnabled: cfg.EnableMonitoringToolsBypass,
		monitoringPattern: compileMonitoringPattern(),
		byIP:              make(map[string]Entry),
		byASN:             make(map[string]Entry),
		byFingerprint:     make(map[string]Entry),
		nowFunc:           time.Now,
	}
	for _, ip := range cfg.IPs {
		_, _ = m.AddIP(ip, time.Time{}, "preloaded via configuration")
	}
	for _, ua := range cfg.UserAgents {
		_, _ = m.AddUserAgent(ua, time.Time{}, "preloaded via configuration")
	}
	for _, asn := range cfg.ASNs {
		_, _ = m.AddASN(asn, time.Time{}, "preloaded via configuration")
	}
	return m
}

// AddIP whitelists ip (normalized for IPv4-in-IPv6 form), optionally
// expiring at expiresAt (zero value means permanent).
func (m *Manager) AddIP(ip string, expiresAt time.Time, reason string) (Entry, error) {
	return m.add(BypassIP, normalizeIP(ip), expiresAt, reason, func(e Entry) {
		m.byIP[e.Value] = e
	})
}

// AddASN whitelists an ASN identifier exactly as supplied (e.g. "AS15169").
func (m *Manager) AddASN(asn string, expiresAt time.Time, reason string) (Entry, error) {
	return m.add(BypassASN, asn, expiresAt, reason, func(e Entry) {
		m.byASN[e.Value] = e
	})
}

// AddFingerprint whitelists a device/request fingerprint digest.
func (m *Manager) AddFingerprint(fingerprint string, expiresAt time.Time, reason string) (Entry, error) {
	return m.add(BypassFingerprint, fingerprint, expiresAt, reason, func(e Entry) {
		m.byFingerprint[e.Value] = e
	})
}

// AddUserAgent whitelists requests whose User-Agent matches pattern.
// pattern is first tried as a regular expression; if it fails to compile
// it is used as a plain substring instead, so operators can whitelist
// "Googlebot" without escaping anything.
func (m *Manager) AddUserAgent(pattern string, expiresAt time.Time, reason string) (Entry, error) {
	var compiled *regexp.Regexp
	if re, err := regexp.Compile("(?i)" + pattern); err == nil {
		compiled = re
	}
	entry, err := m.add(BypassUserAgent, pattern, expiresAt, reason, func(e Entry) {
		m.userAgents = append(m.userAgents, uaEntry{entry: e, pattern: compiled})
	})
	return entry, err
}

func (m *Manager) add(typ BypassType, value string, expiresAt time.Time, reason string, store func(Entry)) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxEntries > 0 && m.count >= m.maxEntries {
		return Entry{}, ErrCapacityExceeded
	}

	entry := Entry{
		ID:        uuid.New().String(),
		Type:      typ,
		Value:     value,
		Reason:    reason,
		CreatedAt: m.nowFunc(),
		ExpiresAt: expiresAt,
	}
	store(entry)
	m.count++
	return entry, nil
}

// Check evaluates req against every whitelist category in spec order: IP,
// User-Agent, monitoring-tool signatures, ASN, fingerprint. The first
// category with a non-expired match sets BypassType and Reason; every
// match across all categories is collected into MatchedEntries.
func (m *Manager) Check(req detect.RequestView, geo *detect.GeoLocation, fingerprint string) Result {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.nowFunc()
	var matched []Entry
	var bypassType BypassType
	var reason string

	record := func(e Entry, t BypassType) {
		matched = append(matched, e)
		if bypassType == "" {
			bypassType = t
			reason = e.Reason
		}
	}

	ip := normalizeIP(req.ClientIP)
	if e, ok := m.byIP[ip]; ok && !e.expired(now) {
		record(e, BypassIP)
	}

	for _, ua := range m.userAgents {
		if ua.entry.expired(now) {
			continue
		}
		if uaMatches(ua, req.UserAgent) {
			record(ua.entry, BypassUserAgent)
		}
	}

	if m.monitoringEnabled && req.UserAgent != "" && m.monitoringPattern.MatchString(req.UserAgent) {
		record(Entry{Type: BypassMonitoringTool, Value: req.UserAgent, Reason: "matched monitoring tool signature"}, BypassMonitoringTool)
	}

	if geo != nil {
		if e, ok := m.byASN[geo.ASN]; ok && !e.expired(now) {
			record(e, BypassASN)
		}
	}

	if fingerprint != "" {
		if e, ok := m.byFingerprint[fingerprint]; ok && !e.expired(now) {
			record(e, BypassFingerprint)
		}
	}

	return Result{
		IsWhitelisted:  len(matched) > 0,
		MatchedEntries: matched,
		Reason:         reason,
		BypassType:     bypassType,
	}
}

func uaMatches(ua uaEntry, value string) bool {
	if value == "" {
		return false
	}
	if ua.pattern != nil {
		return ua.pattern.MatchString(value)
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(ua.entry.Value))
}

// normalizeIP strips the IPv4-mapped IPv6 prefix (::ffff:a.b.c.d) so
// "::ffff:203.0.113.5" and "203.0.113.5" match the same whitelist entry.
func normalizeIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}
	if v4 := parsed.To4(); v4 != nil {
		return v4.String()
	}
	return parsed.String()
}
