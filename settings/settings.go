package settings

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/botguard/botguard/core/config"
)

// ScoringWeights weights each analyzer category's contribution to the
// combined suspicion score. At least one must be > 0.
type ScoringWeights struct {
	Fingerprint float64 `env:"BOTGUARD_WEIGHT_FINGERPRINT" envDefault:"0.3"`
	Behavioral  float64 `env:"BOTGUARD_WEIGHT_BEHAVIORAL" envDefault:"0.3"`
	Geographic  float64 `env:"BOTGUARD_WEIGHT_GEOGRAPHIC" envDefault:"0.2"`
	Reputation  float64 `env:"BOTGUARD_WEIGHT_REPUTATION" envDefault:"0.2"`
}

// Thresholds draws the line between neutral, suspicious, and high-risk
// verdicts.
type Thresholds struct {
	Suspicious int `env:"BOTGUARD_THRESHOLD_SUSPICIOUS" envDefault:"30"`
	HighRisk   int `env:"BOTGUARD_THRESHOLD_HIGH_RISK" envDefault:"70"`
}

// Fingerprinting configures the HTTP fingerprint analyzer's header
// expectations and automation signature patterns.
type Fingerprinting struct {
	RequiredHeaders []string `env:"BOTGUARD_FP_REQUIRED_HEADERS" envSeparator:"," envDefault:"accept,accept-language,accept-encoding,connection,cache-control,user-agent"`
	SuspiciousPatterns []string `env:"BOTGUARD_FP_SUSPICIOUS_PATTERNS" envSeparator:"|" envDefault:"^x-forwarded-for$|^x-real-ip$|webdriver|selenium|x-selenium-test|python-requests|curl/|wget/|go-http-client|okhttp"`
	AutomationSignatures []string `env:"BOTGUARD_FP_AUTOMATION_SIGNATURES" envSeparator:"," envDefault:"selenium,webdriver,chromedriver,geckodriver,puppeteer,headlesschrome,playwright,phantomjs,scrapy,python-requests,curl,wget,go-http-client,okhttp,bot,crawler,spider,scraper"`
}

// Behavioral configures the behavior analyzer's timing thresholds.
type Behavioral struct {
	MinHumanInterval int           `env:"BOTGUARD_BEHAVIOR_MIN_HUMAN_INTERVAL_MS" envDefault:"500"`
	MaxConsistency   float64       `env:"BOTGUARD_BEHAVIOR_MAX_CONSISTENCY" envDefault:"0.8"`
	SessionTimeout   time.Duration `env:"BOTGUARD_BEHAVIOR_SESSION_TIMEOUT" envDefault:"30m"`
}

// Geographic configures the geo analyzer's country/infra risk scoring.
type Geographic struct {
	HighRiskCountries []string `env:"BOTGUARD_GEO_HIGH_RISK_COUNTRIES" envSeparator:"," envDefault:"CN,RU,KP,IR"`
	VPNPenalty        int      `env:"BOTGUARD_GEO_VPN_PENALTY" envDefault:"25"`
	HostingPenalty    int      `env:"BOTGUARD_GEO_HOSTING_PENALTY" envDefault:"15"`
	// HostingASNs is the known-hosting-provider ASN set, e.g. "AS16509"
	// (Amazon), "AS15169" (Google), "AS14061" (DigitalOcean), "AS20473"
	// (Vultr/Choopa), "AS63949" (Linode/Akamai), "AS24940" (Hetzner).
	// A lookup is classified as hosting if its ASN is in this set OR its
	// organization string matches a hosting-pattern substring.
	HostingASNs []string `env:"BOTGUARD_GEO_HOSTING_ASNS" envSeparator:"," envDefault:"AS16509,AS15169,AS14061,AS20473,AS63949,AS24940,AS8075,AS396982,AS135377"`
}

// Whitelist bounds the whitelist manager's capacity and default entries.
type Whitelist struct {
	IPs                         []string `env:"BOTGUARD_WHITELIST_IPS" envSeparator:","`
	UserAgents                  []string `env:"BOTGUARD_WHITELIST_USER_AGENTS" envSeparator:"," envDefault:"Googlebot,Bingbot,Slackbot"`
	ASNs                        []string `env:"BOTGUARD_WHITELIST_ASNS" envSeparator:","`
	MaxEntries                  int      `env:"BOTGUARD_WHITELIST_MAX_ENTRIES" envDefault:"10000"`
	EnableMonitoringToolsBypass bool     `env:"BOTGUARD_WHITELIST_ENABLE_MONITORING_BYPASS" envDefault:"true"`
}

// Cache sizes and TTLs the layered cache (sessions, geo, fingerprints).
type Cache struct {
	MaxSessions     int           `env:"BOTGUARD_CACHE_MAX_SESSIONS" envDefault:"10000"`
	MaxGeo          int           `env:"BOTGUARD_CACHE_MAX_GEO" envDefault:"50000"`
	MaxFingerprints int           `env:"BOTGUARD_CACHE_MAX_FINGERPRINTS" envDefault:"25000"`
	SessionTimeout  time.Duration `env:"BOTGUARD_CACHE_SESSION_TIMEOUT" envDefault:"30m"`
	GeoTTL          time.Duration `env:"BOTGUARD_CACHE_GEO_TTL" envDefault:"24h"`
	FingerprintTTL  time.Duration `env:"BOTGUARD_CACHE_FINGERPRINT_TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"BOTGUARD_CACHE_CLEANUP_INTERVAL" envDefault:"5m"`
}

// CircuitConfig configures one guarded dependency's breaker.
type CircuitConfig struct {
	FailureThreshold int           `env:"FAILURE_THRESHOLD" envDefault:"3"`
	RecoveryTimeout  time.Duration `env:"RECOVERY_TIMEOUT" envDefault:"30s"`
	MinimumRequests  int           `env:"MINIMUM_REQUESTS" envDefault:"5"`
}

// AnalyzerTimeouts caps each analyzer's individual slice of the shared
// request deadline.
type AnalyzerTimeouts struct {
	HTTP     time.Duration `env:"BOTGUARD_TIMEOUT_HTTP" envDefault:"15ms"`
	Behavior time.Duration `env:"BOTGUARD_TIMEOUT_BEHAVIOR" envDefault:"10ms"`
	Geo      time.Duration `env:"BOTGUARD_TIMEOUT_GEO" envDefault:"25ms"`
}

// Resilience configures the circuit breaker and deadlines that keep a
// flaky geo resolver from ever slowing down the coordinator.
type Resilience struct {
	GeoCircuit           CircuitConfig    `envPrefix:"BOTGUARD_GEO_CIRCUIT_"`
	PerAnalyzerTimeoutMs AnalyzerTimeouts
	TotalDeadlineMs      time.Duration `env:"BOTGUARD_TOTAL_DEADLINE" envDefault:"50ms"`
}

// Config is the full set of engine tunables, enumerated in the external
// interface contract.
type Config struct {
	Enabled        bool `env:"BOTGUARD_ENABLED" envDefault:"true"`
	ScoringWeights ScoringWeights
	Thresholds     Thresholds
	Fingerprinting Fingerprinting
	Behavioral     Behavioral
	Geographic     Geographic
	Whitelist      Whitelist
	Cache          Cache
	Resilience     Resilience
}

// Default returns a Config populated entirely with the documented
// envDefault values, ignoring the process environment. Useful for tests
// and for callers who only want to override a couple of fields.
func Default() Config {
	var cfg Config
	// Environment: map[string]string{} isolates parsing from the real
	// OS environment so only envDefault tags apply.
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		// the zero-environment defaults are known-good at compile time;
		// a failure here means a default value itself is malformed.
		panic(fmt.Errorf("settings: invalid built-in defaults: %w", err))
	}
	return cfg
}

// Load parses Config from the process environment via core/config,
// caching the result for the process lifetime.
func Load() (Config, error) {
	return config.Load[Config]()
}

// MustLoad is Load but panics on failure, for use during startup.
func MustLoad() Config {
	return config.MustLoad[Config]()
}

// Validate enforces the invariants the scoring engine depends on:
// at least one weight must be positive, and no weight may be negative.
func (c Config) Validate() error {
	w := c.ScoringWeights
	if w.Fingerprint < 0 || w.Behavioral < 0 || w.Geographic < 0 || w.Reputation < 0 {
		return fmt.Errorf("settings: scoring weights must be non-negative")
	}
	if w.Fingerprint+w.Behavioral+w.Geographic+w.Reputation <= 0 {
		return fmt.Errorf("settings: at least one scoring weight must be > 0")
	}
	return nil
}
