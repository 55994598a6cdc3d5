// Package botguard wires the whitelist manager, the three analyzers,
// the scoring engine, and the metrics recorder into a single
// request-scoped entry point: Coordinator.Analyze.
//
// Callers adapt their own HTTP framework's request into a
// detect.RequestView, resolve the client IP, and call Analyze; nothing
// in this package imports net/http, so it has no opinion on routing,
// middleware, or response writing — that belongs to cmd/botguardd.
package botguard
