package httpfp

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/pkg/djb2"
	"github.com/botguard/botguard/settings"
)

// canonicalOrder is the header-name prefix a modern browser request
// tends to follow.
var canonicalOrder = []string{
	"host", "connection", "cache-control", "upgrade-insecure-requests",
	"user-agent", "accept", "sec-fetch-site", "sec-fetch-mode",
	"sec-fetch-dest", "accept-encoding", "accept-language",
}

// Analyzer produces an HTTPFingerprint from a RequestView.
type Analyzer struct {
	cfg               settings.Fingerprinting
	suspiciousPattern *regexp.Regexp
	automationPattern *regexp.Regexp
}

// New compiles cfg's pattern lists once so Analyze never allocates a
// regexp per call.
func New(cfg settings.Fingerprinting) (*Analyzer, error) {
	suspicious, err := compileAlternation(cfg.SuspiciousPatterns)
	if err != nil {
		return nil, err
	}
	automation, err := compileAlternation(cfg.AutomationSignatures)
	if err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg, suspiciousPattern: suspicious, automationPattern: automation}, nil
}

func compileAlternation(patterns []string) (*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	return regexp.Compile("(?i)(" + strings.Join(patterns, "|") + ")")
}

// Analyze builds an HTTPFingerprint from req. It never returns an
// error for header analysis; TLS analysis is best-effort and any
// failure there simply omits the TLS record.
func (a *Analyzer) Analyze(req detect.RequestView) detect.HTTPFingerprint {
	normalized := normalizeHeaders(req.Headers)

	fp := detect.HTTPFingerprint{
		HeaderSignature:      a.headerSignature(normalized),
		MissingHeaders:       a.missingHeaders(normalized),
		SuspiciousHeaders:    a.suspiciousHeaders(normalized),
		HeaderOrderScore:     headerOrderScore(req.RawHeaderSequence),
		AutomationSignatures: a.automationSignatures(normalized),
	}

	if req.TLS != nil && req.TLS.Encrypted {
		fp.TLSFingerprint = "tls-present"
		fp.TLSFingerprintData = a.analyzeTLS(req, normalized)
	}

	return fp
}

func normalizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		out[name] = value
	}
	return out
}

// headerSignature hashes the sorted "name:valueLength" pairs with
// DJB2, per the normative signature algorithm.
func (a *Analyzer) headerSignature(headers map[string]string) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+":"+strconv.Itoa(len(headers[name])))
	}
	return djb2.Hex(strings.Join(pairs, "|"))
}

func (a *Analyzer) missingHeaders(headers map[string]string) []string {
	var missing []string
	for _, required := range a.cfg.RequiredHeaders {
		if _, ok := headers[strings.ToLower(required)]; !ok {
			missing = append(missing, required)
		}
	}
	return missing
}

func (a *Analyzer) suspiciousHeaders(headers map[string]string) []string {
	if a.suspiciousPattern == nil {
		return nil
	}
	var names []string
	for name, value := range headers {
		if a.suspiciousPattern.MatchString(name) || a.suspiciousPattern.MatchString(value) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (a *Analyzer) automationSignatures(headers map[string]string) []string {
	if a.automationPattern == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var tokens []string
	collect := func(s string) {
		for _, m := range a.automationPattern.FindAllString(s, -1) {
			m = strings.ToLower(m)
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				tokens = append(tokens, m)
			}
		}
	}
	for name, value := range headers {
		collect(name)
		collect(value)
	}
	sort.Strings(tokens)
	return tokens
}

// headerOrderScore measures how far raw's prefix matches
// canonicalOrder, case-insensitively.
func headerOrderScore(raw []string) float64 {
	if len(raw) == 0 {
		return 0
	}
	matches := 0
	for i := 0; i < len(raw) && i < len(canonicalOrder); i++ {
		if strings.EqualFold(raw[i], canonicalOrder[i]) {
			matches++
			continue
		}
		break
	}
	denom := len(raw)
	if len(canonicalOrder) > denom {
		denom = len(canonicalOrder)
	}
	score := float64(matches) / float64(denom)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// analyzeTLS is best-effort: a panic here (e.g. a caller-supplied TLS
// record with unexpected shape in a future extension) yields a nil
// record instead of failing the overall fingerprint.
func (a *Analyzer) analyzeTLS(req detect.RequestView, headers map[string]string) (data *detect.TLSFingerprintData) {
	defer func() {
		if recover() != nil {
			data = nil
		}
	}()

	consistency := 0.5
	if _, ok := headers["sec-fetch-site"]; ok {
		consistency += 0.25
	}
	if strings.Contains(strings.ToLower(req.UserAgent), "mozilla") {
		consistency += 0.25
	}
	if consistency > 1 {
		consistency = 1
	}

	isBotPattern := a.automationPattern != nil && a.automationPattern.MatchString(strings.ToLower(req.UserAgent))

	return &detect.TLSFingerprintData{
		Version:           req.TLS.Protocol,
		Cipher:            req.TLS.Cipher,
		ConsistencyScore:  consistency,
		IsKnownBotPattern: isBotPattern,
	}
}
