// Package livefeed fans the event bus's detectionEvent and errorEvent
// topics out to connected WebSocket clients, for an operator dashboard
// watching detections in real time. It is read-only and never
// influences scoring: a disconnected or slow dashboard has no effect
// on Analyze.
package livefeed
