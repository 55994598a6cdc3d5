package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/settings"
)

const (
	minHumanIntervalSeverityMs = 100
	navigationPenaltyScore     = 20
	highRiskCountryScore       = 30
	torScore                   = 40
	proxyScore                 = 20
	reputationFloor            = 30
	reputationHighRisk         = 70
)

var sensitivePaths = []string{"/admin", "/wp-admin", "/login.php", "/.env", "/phpmyadmin"}

// Verdict is the scoring engine's output: a combined suspicion score,
// confidence, and the list of rules that fired. The coordinator merges
// this into a detect.Result alongside per-analyzer metadata.
type Verdict struct {
	Score        int
	IsSuspicious bool
	IsHighRisk   bool
	Confidence   float64
	Reasons      []detect.Reason
	Fingerprint  string
}

// Engine combines analyzer outputs into a Verdict using a fixed weighted
// rule table.
type Engine struct {
	weights    settings.ScoringWeights
	thresholds settings.Thresholds
	behavioral settings.Behavioral
	geographic settings.Geographic
	highRisk   map[string]struct{}
}

// New validates cfg and builds an Engine. At least one scoring weight
// must be greater than zero, otherwise detect.ErrConfiguration is
// returned wrapped with the offending detail.
func New(cfg settings.Config) (*Engine, error) {
	w := cfg.ScoringWeights
	if w.Fingerprint <= 0 && w.Behavioral <= 0 && w.Geographic <= 0 && w.Reputation <= 0 {
		return nil, fmt.Errorf("%w: all scoring weights are zero", detect.ErrConfiguration)
	}
	if w.Fingerprint < 0 || w.Behavioral < 0 || w.Geographic < 0 || w.Reputation < 0 {
		return nil, fmt.Errorf("%w: scoring weights must be >= 0", detect.ErrConfiguration)
	}

	highRisk := make(map[string]struct{}, len(cfg.Geographic.HighRiskCountries))
	for _, c := range cfg.Geographic.HighRiskCountries {
		highRisk[c] = struct{}{}
	}

	return &Engine{
		weights:    w,
		thresholds: cfg.Thresholds,
		behavioral: cfg.Behavioral,
		geographic: cfg.Geographic,
		highRisk:   highRisk,
	}, nil
}

// Score combines fp, behavior, and geo into a Verdict. reputation is nil
// when no reputation source was consulted.
func (e *Engine) Score(fp detect.HTTPFingerprint, behavior detect.BehaviorMetrics, geo detect.GeoLocation, reputation *int) Verdict {
	fpScore, fpReasons := e.fingerprintCategory(fp)
	behScore, behReasons := e.behavioralCategory(behavior)
	geoScore, geoReasons := e.geographicCategory(geo)

	type weighted struct {
		score  int
		weight float64
	}
	categories := []weighted{
		{fpScore, e.weights.Fingerprint},
		{behScore, e.weights.Behavioral},
		{geoScore, e.weights.Geographic},
	}

	reasons := make([]detect.Reason, 0, len(fpReasons)+len(behReasons)+len(geoReasons)+1)
	reasons = append(reasons, fpReasons...)
	reasons = append(reasons, behReasons...)
	reasons = append(reasons, geoReasons...)

	var repScore int
	var repReasons []detect.Reason
	if reputation != nil {
		repScore, repReasons = e.reputationCategory(*reputation)
		reasons = append(reasons, repReasons...)
		categories = append(categories, weighted{repScore, e.weights.Reputation})
	}

	var weightedSum, weightSum float64
	for _, c := range categories {
		weightedSum += c.weight * float64(clampInt(c.score, 0, 100))
		weightSum += c.weight
	}

	var raw float64
	if weightSum > 0 {
		raw = weightedSum / weightSum
	}

	final := raw
	if raw > 60 {
		final = 60 + (raw-60)*1.3
	}
	if final > 100 {
		final = 100
	}
	if final < 0 {
		final = 0
	}
	score := int(math.Round(final))

	categoryScores := []int{fpScore, behScore, geoScore}
	if reputation != nil {
		categoryScores = append(categoryScores, repScore)
	}
	confidence := e.confidence(fpReasons, behReasons, geoReasons, repReasons, reputation, categoryScores)

	return Verdict{
		Score:        score,
		IsSuspicious: score >= e.thresholds.Suspicious,
		IsHighRisk:   score >= e.thresholds.HighRisk,
		Confidence:   confidence,
		Reasons:      reasons,
		Fingerprint:  identity(fp, geo, behavior),
	}
}

func (e *Engine) fingerprintCategory(fp detect.HTTPFingerprint) (int, []detect.Reason) {
	score := 0
	var reasons []detect.Reason

	if n := len(fp.MissingHeaders); n >= 1 {
		contribution := 10 * n
		score += contribution
		severity := detect.SeverityLow
		if n >= 2 {
			severity = detect.SeverityMedium
		}
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryFingerprint,
			Severity:    severity,
			Description: fmt.Sprintf("missing %d expected header(s): %s", n, strings.Join(fp.MissingHeaders, ", ")),
			Score:       contribution,
		})
	}

	if n := len(fp.AutomationSignatures); n > 0 {
		score += 80
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryFingerprint,
			Severity:    detect.SeverityHigh,
			Description: fmt.Sprintf("automation signature(s) detected: %s", strings.Join(fp.AutomationSignatures, ", ")),
			Score:       80,
		})
	}

	if n := len(fp.SuspiciousHeaders); n > 0 {
		contribution := 15 * n
		score += contribution
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryFingerprint,
			Severity:    detect.SeverityMedium,
			Description: fmt.Sprintf("suspicious header(s) present: %s", strings.Join(fp.SuspiciousHeaders, ", ")),
			Score:       contribution,
		})
	}

	if fp.HeaderOrderScore < 0.3 {
		score += 25
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryFingerprint,
			Severity:    detect.SeverityMedium,
			Description: fmt.Sprintf("header order diverges from browser baseline (score %.2f)", fp.HeaderOrderScore),
			Score:       25,
		})
	}

	return clampInt(score, 0, 100), reasons
}

func (e *Engine) behavioralCategory(b detect.BehaviorMetrics) (int, []detect.Reason) {
	score := 0
	var reasons []detect.Reason
	minHuman := float64(e.behavioral.MinHumanInterval)

	if minHuman > 0 && b.RequestInterval > 0 && b.RequestInterval < minHuman {
		contribution := int(math.Round(40 * (minHuman - b.RequestInterval) / minHuman))
		score += contribution
		severity := detect.SeverityMedium
		if b.RequestInterval < minHumanIntervalSeverityMs {
			severity = detect.SeverityHigh
		}
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryBehavioral,
			Severity:    severity,
			Description: fmt.Sprintf("request interval %.0fms is faster than expected human pace", b.RequestInterval),
			Score:       contribution,
		})
	}

	maxConsistency := e.behavioral.MaxConsistency
	if maxConsistency < 1 && b.TimingConsistency > maxConsistency {
		contribution := int(math.Round(30 * (b.TimingConsistency - maxConsistency) / (1 - maxConsistency)))
		score += contribution
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryBehavioral,
			Severity:    detect.SeverityMedium,
			Description: fmt.Sprintf("timing consistency %.2f exceeds human variability threshold %.2f", b.TimingConsistency, maxConsistency),
			Score:       contribution,
		})
	}

	if b.HumanLikeScore < 0.3 {
		contribution := int(math.Round(60 * (0.3 - b.HumanLikeScore) / 0.3))
		score += contribution
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryBehavioral,
			Severity:    detect.SeverityHigh,
			Description: fmt.Sprintf("human-like score %.2f is far below baseline", b.HumanLikeScore),
			Score:       contribution,
		})
	}

	if touchesSensitivePath(b.NavigationPattern) {
		score += navigationPenaltyScore
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryBehavioral,
			Severity:    detect.SeverityMedium,
			Description: "navigation touched a sensitive or administrative path",
			Score:       navigationPenaltyScore,
		})
	}

	return clampInt(score, 0, 100), reasons
}

func (e *Engine) geographicCategory(geo detect.GeoLocation) (int, []detect.Reason) {
	score := 0
	var reasons []detect.Reason

	if geo.IsTor {
		score += torScore
		reasons = append(reasons, detect.Reason{Category: detect.CategoryGeographic, Severity: detect.SeverityHigh, Description: "traffic originates from a Tor exit node", Score: torScore})
	}
	if geo.IsVPN {
		score += e.geographic.VPNPenalty
		reasons = append(reasons, detect.Reason{Category: detect.CategoryGeographic, Severity: detect.SeverityMedium, Description: "traffic originates from a known VPN provider", Score: e.geographic.VPNPenalty})
	}
	if geo.IsProxy {
		score += proxyScore
		reasons = append(reasons, detect.Reason{Category: detect.CategoryGeographic, Severity: detect.SeverityMedium, Description: "traffic originates from an anonymizing proxy", Score: proxyScore})
	}
	if geo.IsHosting {
		score += e.geographic.HostingPenalty
		reasons = append(reasons, detect.Reason{Category: detect.CategoryGeographic, Severity: detect.SeverityLow, Description: "traffic originates from a hosting/cloud provider, not a residential ISP", Score: e.geographic.HostingPenalty})
	}
	if _, ok := e.highRisk[geo.Country]; ok {
		score += highRiskCountryScore
		reasons = append(reasons, detect.Reason{Category: detect.CategoryGeographic, Severity: detect.SeverityMedium, Description: fmt.Sprintf("country %q is on the high-risk list", geo.Country), Score: highRiskCountryScore})
	}

	return clampInt(score, 0, 100), reasons
}

func (e *Engine) reputationCategory(reputation int) (int, []detect.Reason) {
	if reputation < reputationFloor {
		return 0, nil
	}
	severity := detect.SeverityMedium
	if reputation > reputationHighRisk {
		severity = detect.SeverityHigh
	}
	contribution := clampInt(reputation, 0, 100)
	return contribution, []detect.Reason{{
		Category:    detect.CategoryReputation,
		Severity:    severity,
		Description: fmt.Sprintf("external reputation score %d indicates prior abuse", reputation),
		Score:       contribution,
	}}
}

// confidence implements the spec's additive confidence formula: a base
// of 0.5, +0.1 per contributing data source (capped at +0.4), +0.1 when
// reputation was supplied at all, -0.2 when one category scored >=70
// while another scored exactly 0.
func (e *Engine) confidence(fpReasons, behReasons, geoReasons, repReasons []detect.Reason, reputation *int, categoryScores []int) float64 {
	confidence := 0.5

	sources := 0
	if len(fpReasons) > 0 {
		sources++
	}
	if len(behReasons) > 0 {
		sources++
	}
	if len(geoReasons) > 0 {
		sources++
	}
	if len(repReasons) > 0 {
		sources++
	}
	bonus := 0.1 * float64(sources)
	if bonus > 0.4 {
		bonus = 0.4
	}
	confidence += bonus

	if reputation != nil {
		confidence += 0.1
	}

	maxScore, minScore := categoryScores[0], categoryScores[0]
	for _, s := range categoryScores {
		if s > maxScore {
			maxScore = s
		}
		if s < minScore {
			minScore = s
		}
	}
	if maxScore >= 70 && minScore == 0 {
		confidence -= 0.2
	}

	return clampFloat(confidence, 0, 1)
}

// identity builds the deterministic fingerprint string used to correlate
// repeat offenders across requests.
func identity(fp detect.HTTPFingerprint, geo detect.GeoLocation, behavior detect.BehaviorMetrics) string {
	humanLike100 := int(math.Round(behavior.HumanLikeScore * 100))
	return fp.HeaderSignature + ":" + geo.Country + ":" + geo.ASN + ":" + strconv.Itoa(humanLike100)
}

func touchesSensitivePath(navigation []string) bool {
	for _, entry := range navigation {
		_, path, ok := strings.Cut(entry, ":")
		if !ok {
			path = entry
		}
		for _, sensitive := range sensitivePaths {
			if strings.HasPrefix(path, sensitive) {
				return true
			}
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
