// Package rediscache implements core/cache.Store against Redis, so a
// multi-instance deployment can share one geo/ASN lookup cache instead
// of each instance warming its own in-memory LRU independently.
package rediscache
