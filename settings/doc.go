// Package settings defines the tunables enumerated in the engine's
// external-interface contract: scoring weights, thresholds, fingerprinting
// patterns, behavioral limits, geographic penalties, whitelist bounds,
// cache sizing, and resilience timeouts.
//
// Every leaf field carries an `env` tag, and all but the whitelist's
// IPs and ASNs lists (empty by default) carry an `envDefault`, loaded
// through core/config's cached, generic Load[T]:
//
//	cfg := settings.MustLoad()
//
// Callers who build configuration programmatically instead of from the
// environment skip the loader entirely and construct a Config literal, or
// start from Default() and override individual fields.
package settings
