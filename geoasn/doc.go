// Package geoasn classifies an IP address into a country/region/ASN
// lookup plus infrastructure flags (VPN/proxy/hosting/Tor), behind a
// Resolver interface so the geo analyzer never depends on a concrete
// lookup strategy.
//
// DNSResolver answers from the requester's own reverse-DNS PTR record
// via miekg/dns, taking the hostname's registered domain as the
// Organization; it leaves ASN blank.
// SimulatedResolver is the deterministic, DJB2-seeded fallback used
// when no real resolver is configured or the real one errors — its
// ASN and Organization fields carry a "simulated:" prefix so callers
// can tell synthetic data from a real lookup, while Country stays a
// bare ISO code so high-risk-country scoring still applies to it.
package geoasn
