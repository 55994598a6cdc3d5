package geoasn

import (
	"context"
	"strconv"

	"github.com/botguard/botguard/pkg/djb2"
)

// simulatedCountries/regions/organizations are small deterministic
// tables a DJB2 hash of the IP indexes into, so the same IP always
// simulates to the same Lookup across process restarts.
var (
	simulatedCountries = []string{"US", "DE", "NL", "FR", "GB", "SG", "JP", "BR", "CN", "RU"}
	simulatedOrgs      = []string{
		"Example Broadband LLC", "Regional Fiber Co-op", "Metro Wireless",
		"Amazon.com, Inc.", "Google LLC", "DigitalOcean, LLC", "OVH SAS",
		"Cloudflare, Inc.", "Residential ISP Group", "Campus Networks",
	}
)

// SimulatedResolver deterministically derives a plausible Lookup from
// a hash of the IP, for use when no real resolver is configured or the
// real one fails. Country stays a bare ISO code so downstream
// high-risk-country matching keeps working on simulated data; the
// ASN and Organization fields carry a "simulated:" prefix so callers
// can still tell synthetic data from a genuine lookup without that
// prefix leaking into country-based scoring.
type SimulatedResolver struct{}

func (SimulatedResolver) Resolve(_ context.Context, ip string) (Lookup, error) {
	h := djb2.Sum(ip)

	country := simulatedCountries[int(h)%len(simulatedCountries)]
	org := simulatedOrgs[int(h>>8)%len(simulatedOrgs)]
	asn := int(h % 64512) + 1

	return Lookup{
		Country:      country,
		Region:       "unknown",
		City:         "unknown",
		ASN:          "simulated:AS" + strconv.Itoa(asn),
		Organization: "simulated:" + org,
	}, nil
}
