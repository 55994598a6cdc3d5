// Package whitelist implements the bypass list consulted before the
// detection coordinator runs any analyzer. A request whose IP, User-Agent,
// ASN, or fingerprint matches a whitelist entry — or whose User-Agent
// matches the configured monitoring-tool pattern list — skips scoring
// entirely.
//
// Matching follows a fixed precedence (IP, then User-Agent, then
// monitoring-tool patterns, then ASN, then fingerprint) so bypassType
// reports the first reason a request was let through, while
// MatchedEntries still lists every entry that matched.
package whitelist
