package geoasn

import (
	"context"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// DNSResolver answers a Lookup's Organization field from the
// requester's reverse-DNS PTR record: the registered domain of the
// PTR hostname (e.g. "amazonaws.com" from an EC2 reverse name) stands
// in for Organization. ASN and Country/Region/City are left blank — a
// reverse PTR carries no ASN or geographic signal — so callers using DNSResolver in
// isolation should expect a partial Lookup.
type DNSResolver struct {
	// Server is the resolver to query, host:port form.
	Server string
	client *dns.Client
}

// NewDNSResolver builds a DNSResolver querying server (e.g.
// "1.1.1.1:53").
func NewDNSResolver(server string) *DNSResolver {
	return &DNSResolver{Server: server, client: new(dns.Client)}
}

func (r *DNSResolver) Resolve(ctx context.Context, ip string) (Lookup, error) {
	name, err := dns.ReverseAddr(ip)
	if err != nil {
		return Lookup{}, fmt.Errorf("geoasn: reverse address for %q: %w", ip, err)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(name, dns.TypePTR)
	msg.RecursionDesired = true

	reply, _, err := r.client.ExchangeContext(ctx, msg, r.Server)
	if err != nil {
		return Lookup{}, fmt.Errorf("geoasn: PTR lookup for %s: %w", ip, err)
	}
	if reply.Rcode != dns.RcodeSuccess {
		return Lookup{}, fmt.Errorf("geoasn: PTR lookup for %s: rcode %d", ip, reply.Rcode)
	}

	for _, rr := range reply.Answer {
		ptr, ok := rr.(*dns.PTR)
		if !ok {
			continue
		}
		return Lookup{Organization: registeredDomain(ptr.Ptr)}, nil
	}

	return Lookup{}, fmt.Errorf("geoasn: no PTR record for %s", ip)
}

// registeredDomain returns the last two labels of a fully-qualified
// hostname, a cheap approximation of the registered domain good
// enough to spot well-known hosting providers by substring match.
func registeredDomain(fqdn string) string {
	labels := strings.Split(strings.TrimSuffix(fqdn, "."), ".")
	if len(labels) < 2 {
		return fqdn
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
