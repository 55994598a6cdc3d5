// Package scoring combines the three analyzers' outputs (HTTP
// fingerprint, behavior metrics, geo location) plus an optional
// reputation score into one suspicion verdict.
//
// Each category contributes an independent 0..100 raw score from a fixed
// rule table, weighted and combined into a single raw score, then passed
// through a non-linear escalation above 60 before being clamped and
// rounded to the final integer suspicion score.
package scoring
