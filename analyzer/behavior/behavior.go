package behavior

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/botguard/botguard/core/session"
	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/settings"
)

// navigationConsistencyThreshold is the hardcoded timingConsistency
// cutoff above which consistencyPenalty lowers the human-like score.
// Distinct from settings.Behavioral.MaxConsistency, which the scoring
// engine's own rule uses.
const navigationConsistencyThreshold = 0.6

// Analyzer computes BehaviorMetrics from a session's rolling request
// history, tracking each request against the session store as it
// goes.
type Analyzer struct {
	sessions *session.Manager
	cfg      settings.Behavioral
}

// New builds an Analyzer backed by sessions.
func New(sessions *session.Manager, cfg settings.Behavioral) *Analyzer {
	return &Analyzer{sessions: sessions, cfg: cfg}
}

// Analyze records req against ip's session and scores the resulting
// history.
func (a *Analyzer) Analyze(ctx context.Context, ip string, req detect.RequestView) (detect.BehaviorMetrics, error) {
	data, err := a.sessions.Track(ctx, ip, session.RequestLog{
		Timestamp: time.Now(),
		Path:      req.Path,
		Method:    req.Method,
		UserAgent: req.UserAgent,
	})
	if err != nil {
		return detect.BehaviorMetrics{}, err
	}

	interval, consistency := timing(data.Requests)
	humanLike := humanLikeScore(interval, consistency, data.Requests, a.cfg.MinHumanInterval)

	return detect.BehaviorMetrics{
		RequestInterval:   interval,
		NavigationPattern: navigationPattern(data.Requests),
		TimingConsistency: consistency,
		HumanLikeScore:    humanLike,
		SessionDuration:   data.LastSeen.Sub(data.FirstSeen),
	}, nil
}

// timing returns the mean inter-request interval in milliseconds and
// the timing consistency derived from its coefficient of variation.
func timing(requests []session.RequestLog) (intervalMs float64, consistency float64) {
	if len(requests) < 2 {
		return 0, 0
	}

	deltas := make([]float64, 0, len(requests)-1)
	for i := 1; i < len(requests); i++ {
		deltas = append(deltas, float64(requests[i].Timestamp.Sub(requests[i-1].Timestamp).Milliseconds()))
	}

	mean := meanOf(deltas)
	if len(requests) < 3 {
		return mean, 0
	}
	if mean == 0 {
		return mean, 1
	}

	stddev := stddevOf(deltas, mean)
	cv := stddev / mean
	return mean, 1 / (1 + cv)
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddevOf(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// humanLikeScore starts at 1.0 and subtracts four independent,
// individually clamped penalties.
func humanLikeScore(meanIntervalMs, consistency float64, requests []session.RequestLog, minHumanIntervalMs int) float64 {
	score := 1.0

	score -= speedPenalty(meanIntervalMs, float64(minHumanIntervalMs))
	score -= consistencyPenalty(consistency)
	score -= math.Min(navigationPenalty(requests), 0.2)
	score -= diversityPenalty(requests)

	return clamp01(score)
}

func speedPenalty(meanIntervalMs, minHumanIntervalMs float64) float64 {
	if minHumanIntervalMs <= 0 || meanIntervalMs <= 0 || meanIntervalMs >= minHumanIntervalMs {
		return 0
	}
	penalty := 0.4 * (minHumanIntervalMs - meanIntervalMs) / minHumanIntervalMs
	return clampRange(penalty, 0, 0.4)
}

func consistencyPenalty(consistency float64) float64 {
	if consistency <= navigationConsistencyThreshold {
		return 0
	}
	penalty := 0.4 * (consistency - navigationConsistencyThreshold) / 0.4
	return clampRange(penalty, 0, 0.4)
}

// navigationPenalty penalizes the longest run of identical
// (method, path) pairs beyond 3 repeats, plus a flat penalty when the
// history is long but nearly path-less (a crawler hammering few
// endpoints).
func navigationPenalty(requests []session.RequestLog) float64 {
	maxRun := longestRun(requests)

	var penalty float64
	if maxRun > 3 {
		penalty = math.Min(0.5, 0.1*float64(maxRun-3))
	}

	if len(requests) > 10 {
		uniquePaths := countUnique(requests, func(r session.RequestLog) string { return r.Path })
		if float64(uniquePaths)/float64(len(requests)) < 0.1 {
			penalty += 0.3
		}
	}

	return math.Max(penalty, 0)
}

func longestRun(requests []session.RequestLog) int {
	maxRun, run := 0, 0
	var prevKey string
	for i, r := range requests {
		key := r.Method + ":" + r.Path
		if i > 0 && key == prevKey {
			run++
		} else {
			run = 1
		}
		if run > maxRun {
			maxRun = run
		}
		prevKey = key
	}
	return maxRun
}

// diversityScore is the weighted sum of method, path, and
// user-agent diversity across requests.
func diversityScore(requests []session.RequestLog) float64 {
	n := len(requests)
	if n == 0 {
		return 0
	}

	uniqueMethods := countUnique(requests, func(r session.RequestLog) string { return r.Method })
	uniquePaths := countUnique(requests, func(r session.RequestLog) string { return r.Path })
	uniqueUAs := countUnique(requests, func(r session.RequestLog) string { return r.UserAgent })

	return 0.2*float64(uniqueMethods)/math.Min(float64(n), 5) +
		0.6*float64(uniquePaths)/float64(n) +
		0.2*float64(uniqueUAs)/math.Min(float64(n), 3)
}

func diversityPenalty(requests []session.RequestLog) float64 {
	return (1 - clamp01(diversityScore(requests))) * 0.1
}

func countUnique(requests []session.RequestLog, key func(session.RequestLog) string) int {
	seen := make(map[string]struct{}, len(requests))
	for _, r := range requests {
		seen[key(r)] = struct{}{}
	}
	return len(seen)
}

// navigationPattern returns the last <=10 "METHOD:path" strings.
func navigationPattern(requests []session.RequestLog) []string {
	start := 0
	if len(requests) > 10 {
		start = len(requests) - 10
	}
	pattern := make([]string, 0, len(requests)-start)
	for _, r := range requests[start:] {
		pattern = append(pattern, strings.ToUpper(r.Method)+":"+r.Path)
	}
	return pattern
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
