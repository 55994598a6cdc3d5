package botguard

import "time"

// ErrorEvent is published on core/event.TopicErrorEvent whenever an
// analyzer falls back or times out, for transport/livefeed's dashboard
// and any other subscriber. It is informational only — recovery and
// scoring already happened by the time it is published.
type ErrorEvent struct {
	CorrelationID string
	Stage         string
	Message       string
	Timestamp     time.Time
}
