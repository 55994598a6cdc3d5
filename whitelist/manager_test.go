package whitelist_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/settings"
	"github.com/botguard/botguard/whitelist"
)

func newManager(t *testing.T) *whitelist.Manager {
	t.Helper()
	cfg := settings.Whitelist{MaxEntries: 10, EnableMonitoringToolsBypass: true}
	return whitelist.New(cfg)
}

func TestManager_IPMatchIsWhitelisted(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	_, err := m.AddIP("203.0.113.10", time.Time{}, "trusted partner")
	require.NoError(t, err)

	result := m.Check(detect.RequestView{ClientIP: "203.0.113.10"}, nil, "")
	assert.True(t, result.IsWhitelisted)
	assert.Equal(t, whitelist.BypassIP, result.BypassType)
	assert.Equal(t, "trusted partner", result.Reason)
}

func TestManager_IPv4MappedIPv6Normalizes(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	_, err := m.AddIP("203.0.113.10", time.Time{}, "")
	require.NoError(t, err)

	result := m.Check(detect.RequestView{ClientIP: "::ffff:203.0.113.10"}, nil, "")
	assert.True(t, result.IsWhitelisted)
}

func TestManager_UserAgentSubstringMatch(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	_, err := m.AddUserAgent("Googlebot", time.Time{}, "search engine crawler")
	require.NoError(t, err)

	result := m.Check(detect.RequestView{UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1)"}, nil, "")
	assert.True(t, result.IsWhitelisted)
	assert.Equal(t, whitelist.BypassUserAgent, result.BypassType)
}

func TestManager_MonitoringToolBypassWhenEnabled(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	result := m.Check(detect.RequestView{UserAgent: "Pingdom.com_bot_version_1.4"}, nil, "")
	assert.True(t, result.IsWhitelisted)
	assert.Equal(t, whitelist.BypassMonitoringTool, result.BypassType)
}

func TestManager_MonitoringToolBypassDisabled(t *testing.T) {
	t.Parallel()

	cfg := settings.Whitelist{MaxEntries: 10, EnableMonitoringToolsBypass: false}
	m := whitelist.New(cfg)

	result := m.Check(detect.RequestView{UserAgent: "Pingdom.com_bot_version_1.4"}, nil, "")
	assert.False(t, result.IsWhitelisted)
}

func TestManager_ASNMatch(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	_, err := m.AddASN("AS15169", time.Time{}, "google infra")
	require.NoError(t, err)

	geo := &detect.GeoLocation{ASN: "AS15169"}
	result := m.Check(detect.RequestView{}, geo, "")
	assert.True(t, result.IsWhitelisted)
	assert.Equal(t, whitelist.BypassASN, result.BypassType)
}

func TestManager_FingerprintMatch(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	_, err := m.AddFingerprint("abc123", time.Time{}, "known-good client")
	require.NoError(t, err)

	result := m.Check(detect.RequestView{}, nil, "abc123")
	assert.True(t, result.IsWhitelisted)
	assert.Equal(t, whitelist.BypassFingerprint, result.BypassType)
}

func TestManager_ExpiredEntryIsSkipped(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	_, err := m.AddIP("203.0.113.11", time.Now().Add(-time.Hour), "")
	require.NoError(t, err)

	result := m.Check(detect.RequestView{ClientIP: "203.0.113.11"}, nil, "")
	assert.False(t, result.IsWhitelisted)
}

func TestManager_NoMatchIsNotWhitelisted(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	result := m.Check(detect.RequestView{ClientIP: "198.51.100.1", UserAgent: "curl/8.0"}, nil, "")
	assert.False(t, result.IsWhitelisted)
	assert.Empty(t, result.MatchedEntries)
}

func TestManager_IPMatchTakesPrecedenceOverUserAgentForBypassType(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	_, err := m.AddIP("203.0.113.12", time.Time{}, "ip reason")
	require.NoError(t, err)
	_, err = m.AddUserAgent("curl", time.Time{}, "ua reason")
	require.NoError(t, err)

	result := m.Check(detect.RequestView{ClientIP: "203.0.113.12", UserAgent: "curl/8.0"}, nil, "")
	require.True(t, result.IsWhitelisted)
	assert.Equal(t, whitelist.BypassIP, result.BypassType)
	assert.Len(t, result.MatchedEntries, 2)
}

func TestManager_AddIPFailsWhenAtCapacity(t *testing.T) {
	t.Parallel()

	cfg := settings.Whitelist{MaxEntries: 2}
	m := whitelist.New(cfg)

	_, err := m.AddIP("203.0.113.1", time.Time{}, "")
	require.NoError(t, err)
	_, err = m.AddIP("203.0.113.2", time.Time{}, "")
	require.NoError(t, err)

	_, err = m.AddIP("203.0.113.3", time.Time{}, "")
	assert.ErrorIs(t, err, whitelist.ErrCapacityExceeded)
}

func TestNew_PreloadsConfiguredEntries(t *testing.T) {
	t.Parallel()

	cfg := settings.Whitelist{
		MaxEntries: 10,
		IPs:        []string{"203.0.113.20"},
		UserAgents: []string{"Bingbot"},
		ASNs:       []string{"AS8075"},
	}
	m := whitelist.New(cfg)

	assert.True(t, m.Check(detect.RequestView{ClientIP: "203.0.113.20"}, nil, "").IsWhitelisted)
	assert.True(t, m.Check(detect.RequestView{UserAgent: "bingbot/2.0"}, nil, "").IsWhitelisted)
	assert.True(t, m.Check(detect.RequestView{}, &detect.GeoLocation{ASN: "AS8075"}, "").IsWhitelisted)
}
