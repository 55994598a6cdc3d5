package geo

import (
	"context"
	"net"
	"regexp"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/botguard/botguard/core/cache"
	"github.com/botguard/botguard/core/circuitbreaker"
	"github.com/botguard/botguard/core/timeoutguard"
	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/geoasn"
	"github.com/botguard/botguard/settings"
)

const cacheTTL = 24 * time.Hour

var (
	vpnPattern     = regexp.MustCompile(`(?i)vpn|nordvpn|expressvpn|privateinternetaccess|mullvad`)
	proxyPattern   = regexp.MustCompile(`(?i)proxy|anonymizer`)
	hostingPattern = regexp.MustCompile(`(?i)hosting|cloud|amazon|google|digitalocean|ovh|linode|vultr|azure|datacenter|data center`)
	torPattern     = regexp.MustCompile(`(?i)tor|onion`)
)

var unknownExternal = detect.GeoLocation{Country: "unknown", RiskScore: 10}
var localSentinel = detect.GeoLocation{Country: "local"}

// Analyzer resolves IPs to GeoLocation, caching results and guarding
// the resolver call with a circuit breaker and timeout.
type Analyzer struct {
	resolver geoasn.Resolver
	fallback geoasn.Resolver
	cache    cache.Store[string, detect.GeoLocation]
	breaker  *circuitbreaker.Breaker
	timeout  time.Duration
	cfg         settings.Geographic
	highRisk    map[string]struct{}
	hostingASNs map[string]struct{}
	group       singleflight.Group
}

// New builds an Analyzer backed by a bounded in-process cache.
// resolver is the primary (real) lookup strategy; fallback (typically
// geoasn.SimulatedResolver) is used when resolver errors.
func New(resolver, fallback geoasn.Resolver, maxCacheEntries int, breakerCfg circuitbreaker.Config, timeout time.Duration, cfg settings.Geographic) *Analyzer {
	return NewWithStore(resolver, fallback, cache.New[string, detect.GeoLocation](maxCacheEntries), breakerCfg, timeout, cfg)
}

// NewWithStore builds an Analyzer against an arbitrary cache.Store,
// such as store/rediscache, for deployments that share the geo cache
// across multiple coordinator instances.
func NewWithStore(resolver, fallback geoasn.Resolver, store cache.Store[string, detect.GeoLocation], breakerCfg circuitbreaker.Config, timeout time.Duration, cfg settings.Geographic) *Analyzer {
	highRisk := make(map[string]struct{}, len(cfg.HighRiskCountries))
	for _, c := range cfg.HighRiskCountries {
		highRisk[c] = struct{}{}
	}
	hostingASNs := make(map[string]struct{}, len(cfg.HostingASNs))
	for _, asn := range cfg.HostingASNs {
		hostingASNs[asn] = struct{}{}
	}
	return &Analyzer{
		resolver:    resolver,
		fallback:    fallback,
		cache:       store,
		breaker:     circuitbreaker.New(breakerCfg),
		timeout:     timeout,
		cfg:         cfg,
		highRisk:    highRisk,
		hostingASNs: hostingASNs,
	}
}

// Healthcheck exposes the underlying circuit breaker for composition
// into a health.Monitor.
func (a *Analyzer) Healthcheck(ctx context.Context) error {
	return a.breaker.Healthcheck(ctx)
}

// Analyze resolves ip to a GeoLocation. A non-nil error means the
// returned location is a fallback sentinel (private/local short
// circuit never errors).
func (a *Analyzer) Analyze(ctx context.Context, ip string) (detect.GeoLocation, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return detect.GeoLocation{Country: "unknown"}, nil
	}
	if geoasn.IsPrivateOrLocal(parsed) {
		return localSentinel, nil
	}

	if cached, ok := a.cache.Get(ip); ok {
		return cached, nil
	}

	// A thundering herd of concurrent first-requests from the same IP
	// would otherwise each pay the resolver's full latency before any
	// of them populates the cache; singleflight collapses them into
	// one resolution, with every waiter sharing its result.
	v, err, _ := a.group.Do(ip, func() (any, error) {
		location, fellBack, resolveErr := timeoutguard.ExecuteErr(ctx, a.timeout, func(ctx context.Context) (detect.GeoLocation, error) {
			return circuitbreaker.Execute(ctx, a.breaker, func(ctx context.Context) (detect.GeoLocation, error) {
				return a.resolve(ctx, ip)
			}, func() detect.GeoLocation { return unknownExternal })
		}, func() detect.GeoLocation { return unknownExternal })

		if fellBack {
			return location, detect.ErrTimeout
		}
		if resolveErr != nil {
			return location, resolveErr
		}
		a.cache.Set(ip, location, cacheTTL)
		return location, nil
	})

	location := v.(detect.GeoLocation)
	return location, err
}

func (a *Analyzer) resolve(ctx context.Context, ip string) (detect.GeoLocation, error) {
	lookup, err := a.resolver.Resolve(ctx, ip)
	if err != nil {
		lookup, err = a.fallback.Resolve(ctx, ip)
		if err != nil {
			return unknownExternal, detect.ErrGeoServiceFailure
		}
	}
	return a.classify(lookup), nil
}

func (a *Analyzer) classify(lookup geoasn.Lookup) detect.GeoLocation {
	_, knownHostingASN := a.hostingASNs[lookup.ASN]
	loc := detect.GeoLocation{
		Country:      lookup.Country,
		Region:       lookup.Region,
		City:         lookup.City,
		ASN:          lookup.ASN,
		Organization: lookup.Organization,
		IsVPN:        vpnPattern.MatchString(lookup.Organization),
		IsProxy:      proxyPattern.MatchString(lookup.Organization),
		IsHosting:    knownHostingASN || hostingPattern.MatchString(lookup.Organization),
		IsTor:        torPattern.MatchString(lookup.Organization),
	}
	loc.RiskScore = a.riskScore(loc)
	return loc
}

func (a *Analyzer) riskScore(loc detect.GeoLocation) int {
	score := 0
	if _, ok := a.highRisk[loc.Country]; ok {
		score += 30
	}
	if loc.IsVPN {
		score += a.cfg.VPNPenalty
	}
	if loc.IsProxy {
		score += 20
	}
	if loc.IsHosting {
		score += a.cfg.HostingPenalty
	}
	if loc.IsTor {
		score += 40
	}
	if score > 100 {
		score = 100
	}
	return score
}
