// Package health composes component-level health checks into one
// SystemHealth snapshot: the error/health layer's own accumulated
// state, the geo analyzer's circuit breaker, and any registered
// persistence backend's Healthcheck(ctx) error function.
//
// A snapshot is cached for 30s so a hot monitoring endpoint does not
// re-run every check on each scrape; pass forceRefresh to bypass the
// cache.
//
//	mon := health.NewMonitor()
//	mon.Register("geoCircuit", geoBreaker.Healthcheck)
//	mon.Register("pgWhitelist", pgStore.Healthcheck)
//
//	snapshot := mon.Check(ctx, false)
//	if snapshot.Status != health.StatusHealthy {
//		log.Warn("degraded", "status", snapshot.Status)
//	}
package health
