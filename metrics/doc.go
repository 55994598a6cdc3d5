// Package metrics collects rolling counters and latency samples for the
// detection pipeline and exposes a point-in-time Analytics snapshot.
//
// Recorder is process-wide shared state (like the caches and session
// store it sits alongside): a single mutex guards the rolling sample
// rings and distribution maps, held only across the minimal critical
// section of each Record call, never across I/O.
//
// This package intentionally has no export format opinion — no
// Prometheus exposition, no JSON tags on Analytics. Turning a Snapshot
// into text/wire format is a caller concern.
package metrics
