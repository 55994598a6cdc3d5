package geoasn

import "context"

// Lookup is the raw country/region/city/ASN/organization data a
// Resolver produces for one IP.
type Lookup struct {
	Country      string
	Region       string
	City         string
	ASN          string
	Organization string
}

// Resolver answers a Lookup for ip.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (Lookup, error)
}
