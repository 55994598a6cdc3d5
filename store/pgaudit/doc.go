// Package pgaudit writes an append-only log of detection results to
// Postgres for compliance/forensics replay. It subscribes to the
// detectionEvent bus topic and writes best-effort and asynchronously:
// a slow or unavailable database never adds latency to Analyze.
package pgaudit
