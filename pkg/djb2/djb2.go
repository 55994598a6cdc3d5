// Package djb2 implements the normative DJB2-style rolling hash used
// throughout this module for deterministic signatures: header-set
// fingerprints, fingerprint identity strings, and the simulated geo/ASN
// resolver's seeded-by-IP fallback.
package djb2

import "strconv"

// Sum computes the DJB2 hash of s: hash=0, then for each byte c,
// hash = ((hash<<5) - hash + c) mod 2^32. Operating on uint32 throughout
// keeps every intermediate value non-negative, so no implementation ever
// has to reconcile a signed-overflow result against another's.
func Sum(s string) uint32 {
	var hash uint32
	for i := 0; i < len(s); i++ {
		hash = (hash<<5 - hash) + uint32(s[i])
	}
	return hash
}

// Hex renders Sum(s) as lowercase hexadecimal with no zero-padding,
// matching the wire format two independent implementations must agree on.
func Hex(s string) string {
	return strconv.FormatUint(uint64(Sum(s)), 16)
}
