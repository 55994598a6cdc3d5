package geoasn

import "net"

// privateBlocks lists the private/loopback/link-local ranges the geo
// analyzer must short-circuit to the "local" sentinel before ever
// reaching a resolver.
var privateBlocks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("geoasn: invalid CIDR literal " + cidr)
		}
		nets = append(nets, n)
	}
	return nets
}

// IsPrivateOrLocal reports whether ip falls in a private, loopback, or
// link-local range.
func IsPrivateOrLocal(ip net.IP) bool {
	for _, block := range privateBlocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}
