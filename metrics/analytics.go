package metrics

import "time"

// ReasonCount is one entry in Analytics.TopReasons.
type ReasonCount struct {
	Category string
	Count    int64
}

// GeoCount is one entry in Analytics.GeoDistribution.
type GeoCount struct {
	Country string
	Count   int64
}

// Percentiles summarizes a latency sample population for one pipeline
// stage.
type Percentiles struct {
	P50 time.Duration
	P95 time.Duration
	P99 time.Duration
}

// Analytics is the immutable point-in-time snapshot returned by
// Recorder.Snapshot.
type Analytics struct {
	TotalRequests       int64
	WhitelistedRequests int64
	LegitimateRequests  int64
	SuspiciousRequests  int64
	HighRiskRequests    int64
	ErrorCounts         map[string]int64
	TopReasons          []ReasonCount
	GeoDistribution     []GeoCount
	Latency             map[string]Percentiles
	GeneratedAt         time.Time
}
