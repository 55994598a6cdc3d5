package geo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botguard/botguard/analyzer/geo"
	"github.com/botguard/botguard/core/circuitbreaker"
	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/geoasn"
	"github.com/botguard/botguard/settings"
)

type fakeResolver struct {
	lookup geoasn.Lookup
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeResolver) Resolve(ctx context.Context, ip string) (geoasn.Lookup, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return geoasn.Lookup{}, ctx.Err()
		}
	}
	return f.lookup, f.err
}

func newAnalyzer(resolver, fallback geoasn.Resolver) *geo.Analyzer {
	return geo.New(resolver, fallback, 100,
		circuitbreaker.Config{FailureThreshold: 5, MinimumRequests: 5, RecoveryTimeout: time.Minute},
		50*time.Millisecond, settings.Default().Geographic)
}

func TestAnalyzer_PrivateIPYieldsLocalSentinel(t *testing.T) {
	t.Parallel()

	a := newAnalyzer(&fakeResolver{}, &fakeResolver{})
	loc, err := a.Analyze(context.Background(), "192.168.1.1")
	require.NoError(t, err)
	assert.Equal(t, "local", loc.Country)
	assert.Equal(t, 0, loc.RiskScore)
}

func TestAnalyzer_InvalidIPYieldsUnknownSentinel(t *testing.T) {
	t.Parallel()

	a := newAnalyzer(&fakeResolver{}, &fakeResolver{})
	loc, err := a.Analyze(context.Background(), "not-an-ip")
	require.NoError(t, err)
	assert.Equal(t, "unknown", loc.Country)
}

func TestAnalyzer_ResolvesAndClassifiesHosting(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{lookup: geoasn.Lookup{Country: "US", Organization: "Amazon.com Hosting"}}
	a := newAnalyzer(resolver, &fakeResolver{})
	loc, err := a.Analyze(context.Background(), "203.0.113.50")
	require.NoError(t, err)
	assert.True(t, loc.IsHosting)
	assert.Equal(t, 15, loc.RiskScore) // default hostingPenalty
}

func TestAnalyzer_KnownHostingASNClassifiesAsHostingEvenWithBlankOrganization(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{lookup: geoasn.Lookup{Country: "US", ASN: "AS16509"}}
	a := newAnalyzer(resolver, &fakeResolver{})
	loc, err := a.Analyze(context.Background(), "203.0.113.56")
	require.NoError(t, err)
	assert.True(t, loc.IsHosting)
	assert.Equal(t, 15, loc.RiskScore) // default hostingPenalty
}

func TestAnalyzer_HighRiskCountryAddsRiskScore(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{lookup: geoasn.Lookup{Country: "CN", Organization: "Some ISP"}}
	a := newAnalyzer(resolver, &fakeResolver{})
	loc, err := a.Analyze(context.Background(), "203.0.113.51")
	require.NoError(t, err)
	assert.Equal(t, 30, loc.RiskScore)
}

func TestAnalyzer_TorOrganizationMaxesOutRisk(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{lookup: geoasn.Lookup{Country: "CN", Organization: "Tor Exit Node Relay"}}
	a := newAnalyzer(resolver, &fakeResolver{})
	loc, err := a.Analyze(context.Background(), "203.0.113.52")
	require.NoError(t, err)
	assert.True(t, loc.IsTor)
	assert.Equal(t, 70, loc.RiskScore) // 30 country + 40 tor
}

func TestAnalyzer_ResultIsCached(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{lookup: geoasn.Lookup{Country: "US"}}
	a := newAnalyzer(resolver, &fakeResolver{})
	ctx := context.Background()

	_, err := a.Analyze(ctx, "203.0.113.53")
	require.NoError(t, err)
	_, err = a.Analyze(ctx, "203.0.113.53")
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.calls)
}

func TestAnalyzer_FallsBackToSecondaryResolverOnPrimaryError(t *testing.T) {
	t.Parallel()

	primary := &fakeResolver{err: errors.New("boom")}
	fallback := &fakeResolver{lookup: geoasn.Lookup{Country: "DE"}}
	a := newAnalyzer(primary, fallback)

	loc, err := a.Analyze(context.Background(), "203.0.113.54")
	require.NoError(t, err)
	assert.Equal(t, "DE", loc.Country)
}

func TestAnalyzer_TimeoutYieldsUnknownExternalSentinel(t *testing.T) {
	t.Parallel()

	slow := &fakeResolver{lookup: geoasn.Lookup{Country: "US"}, delay: 200 * time.Millisecond}
	a := geo.New(slow, &fakeResolver{}, 100,
		circuitbreaker.Config{FailureThreshold: 5, MinimumRequests: 5, RecoveryTimeout: time.Minute},
		10*time.Millisecond, settings.Default().Geographic)

	loc, err := a.Analyze(context.Background(), "203.0.113.55")
	require.ErrorIs(t, err, detect.ErrTimeout)
	assert.Equal(t, "unknown", loc.Country)
	assert.Equal(t, 10, loc.RiskScore)
}

func TestAnalyzer_HealthcheckReflectsBreakerState(t *testing.T) {
	t.Parallel()

	a := newAnalyzer(&fakeResolver{}, &fakeResolver{})
	assert.NoError(t, a.Healthcheck(context.Background()))
}
