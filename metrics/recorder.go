package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/botguard/botguard/detect"
)

const defaultRingCapacity = 1000

// DetectionRecord is what the coordinator reports to RecordDetection
// once a request finishes.
type DetectionRecord struct {
	Whitelisted bool
	Suspicious  bool
	HighRisk    bool
	Country     string
	Reasons     []detect.Reason

	TotalDuration       time.Duration
	FingerprintDuration time.Duration
	BehaviorDuration    time.Duration
	GeoDuration         time.Duration
}

// Recorder accumulates rolling counters and latency samples across the
// life of the process. The zero value is not usable; construct with
// New.
type Recorder struct {
	mu sync.Mutex

	totalRequests       int64
	whitelistedRequests int64
	legitimateRequests  int64
	suspiciousRequests  int64
	highRiskRequests    int64

	errorCounts  map[string]int64
	reasonCounts map[string]int64
	geoCounts    map[string]int64

	total       *sampleRing
	fingerprint *sampleRing
	behavior    *sampleRing
	geo         *sampleRing

	nowFunc func() time.Time
}

// New builds a Recorder whose latency rings each hold the most recent
// ringCapacity samples. ringCapacity <= 0 defaults to 1000.
func New(ringCapacity int) *Recorder {
	if ringCapacity <= 0 {
		ringCapacity = defaultRingCapacity
	}
	return &Recorder{
		errorCounts:  make(map[string]int64),
		reasonCounts: make(map[string]int64),
		geoCounts:    make(map[string]int64),
		total:        newSampleRing(ringCapacity),
		fingerprint:  newSampleRing(ringCapacity),
		behavior:     newSampleRing(ringCapacity),
		geo:          newSampleRing(ringCapacity),
		nowFunc:      time.Now,
	}
}

// RecordDetection folds one completed detection pass into the rolling
// counters and latency samples.
func (r *Recorder) RecordDetection(rec DetectionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalRequests++
	switch {
	case rec.Whitelisted:
		r.whitelistedRequests++
	case rec.HighRisk:
		r.highRiskRequests++
		r.suspiciousRequests++
	case rec.Suspicious:
		r.suspiciousRequests++
	default:
		r.legitimateRequests++
	}

	if rec.Country != "" {
		r.geoCounts[rec.Country]++
	}
	for _, reason := range rec.Reasons {
		r.reasonCounts[string(reason.Category)]++
	}

	r.total.add(rec.TotalDuration)
	if rec.FingerprintDuration > 0 {
		r.fingerprint.add(rec.FingerprintDuration)
	}
	if rec.BehaviorDuration > 0 {
		r.behavior.add(rec.BehaviorDuration)
	}
	if rec.GeoDuration > 0 {
		r.geo.add(rec.GeoDuration)
	}
}

// RecordError increments the counter for the given error kind (typically
// one of the detect.Err* sentinel's Error() string, or a caller-defined
// label).
func (r *Recorder) RecordError(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorCounts[kind]++
}

// Snapshot returns a point-in-time Analytics view. The returned value
// shares no state with the Recorder; mutating it is safe.
func (r *Recorder) Snapshot() Analytics {
	r.mu.Lock()
	defer r.mu.Unlock()

	errorCounts := make(map[string]int64, len(r.errorCounts))
	for k, v := range r.errorCounts {
		errorCounts[k] = v
	}

	topReasons := make([]ReasonCount, 0, len(r.reasonCounts))
	for category, count := range r.reasonCounts {
		topReasons = append(topReasons, ReasonCount{Category: category, Count: count})
	}
	sort.Slice(topReasons, func(i, j int) bool { return topReasons[i].Count > topReasons[j].Count })

	geoDistribution := make([]GeoCount, 0, len(r.geoCounts))
	for country, count := range r.geoCounts {
		geoDistribution = append(geoDistribution, GeoCount{Country: country, Count: count})
	}
	sort.Slice(geoDistribution, func(i, j int) bool { return geoDistribution[i].Count > geoDistribution[j].Count })

	return Analytics{
		TotalRequests:       r.totalRequests,
		WhitelistedRequests: r.whitelistedRequests,
		LegitimateRequests:  r.legitimateRequests,
		SuspiciousRequests:  r.suspiciousRequests,
		HighRiskRequests:    r.highRiskRequests,
		ErrorCounts:         errorCounts,
		TopReasons:          topReasons,
		GeoDistribution:     geoDistribution,
		Latency: map[string]Percentiles{
			"total":       r.total.percentiles(),
			"fingerprint": r.fingerprint.percentiles(),
			"behavior":    r.behavior.percentiles(),
			"geo":         r.geo.percentiles(),
		},
		GeneratedAt: r.nowFunc(),
	}
}
