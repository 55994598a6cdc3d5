// Package geo turns an IP into a detect.GeoLocation: private/loopback
// short-circuit, a 24h-TTL cache, a circuit-breaker-and-timeout-guarded
// resolver call, infrastructure classification (VPN/proxy/hosting/Tor),
// and a capped risk score.
package geo
