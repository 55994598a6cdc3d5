package botguard

import (
	"fmt"
	"regexp"

	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/scoring"
	"github.com/botguard/botguard/settings"
)

// fallbackBotPattern matches the bot/crawler hints spec.md's HTTP
// fingerprint fallback looks for directly in the User-Agent, for use
// when the real analyzer times out.
var fallbackBotPattern = regexp.MustCompile(`(?i)bot|crawler|spider|curl|wget|python|selenium|puppeteer`)

var fallbackCommonHeaders = []string{"accept", "accept-language", "user-agent"}

// fallbackFingerprint derives a minimal HTTPFingerprint straight from
// the User-Agent and header presence, used when the real httpfp
// analyzer times out.
func fallbackFingerprint(req detect.RequestView) detect.HTTPFingerprint {
	fp := detect.HTTPFingerprint{HeaderOrderScore: 0.7}

	if fallbackBotPattern.MatchString(req.UserAgent) {
		fp.AutomationSignatures = []string{"user-agent-fallback-match"}
	}

	for _, h := range fallbackCommonHeaders {
		if _, ok := req.Headers[h]; !ok {
			fp.HeaderOrderScore = 0.3
			break
		}
	}

	return fp
}

// fallbackBehavior is the neutral BehaviorMetrics spec.md specifies when
// the behavior analyzer times out: neither clearly human nor clearly
// automated.
func fallbackBehavior() detect.BehaviorMetrics {
	return detect.BehaviorMetrics{
		RequestInterval:   2000,
		TimingConsistency: 0.5,
		HumanLikeScore:    0.5,
		NavigationPattern: []string{},
	}
}

// fallbackVerdict is the scoring engine's own fallback: a simple
// heuristic over the raw request (UA bot-token check, missing-header
// penalty) used when the real scoring.Engine.Score call fails. Its
// confidence is capped at 0.3 since it skips behavior/geo entirely.
func fallbackVerdict(req detect.RequestView, thresholds settings.Thresholds) scoring.Verdict {
	score := 0
	var reasons []detect.Reason

	if fallbackBotPattern.MatchString(req.UserAgent) {
		score += 50
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryFingerprint,
			Severity:    detect.SeverityHigh,
			Description: "scoring fallback: user-agent matches a known automation token",
			Score:       50,
		})
	}

	missing := 0
	for _, h := range fallbackCommonHeaders {
		if _, ok := req.Headers[h]; !ok {
			missing++
		}
	}
	if missing > 0 {
		contribution := 10 * missing
		score += contribution
		reasons = append(reasons, detect.Reason{
			Category:    detect.CategoryFingerprint,
			Severity:    detect.SeverityLow,
			Description: fmt.Sprintf("scoring fallback: %d expected header(s) missing", missing),
			Score:       contribution,
		})
	}

	if score > 100 {
		score = 100
	}

	return scoring.Verdict{
		Score:        score,
		IsSuspicious: score >= thresholds.Suspicious,
		IsHighRisk:   score >= thresholds.HighRisk,
		Confidence:   0.3,
		Reasons:      reasons,
	}
}
