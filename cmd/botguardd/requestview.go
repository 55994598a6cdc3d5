package main

import (
	"net/http"
	"strings"

	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/pkg/clientip"
	"github.com/botguard/botguard/pkg/fingerprint"
)

// newRequestView adapts an incoming *http.Request into the coordinator's
// caller-supplied RequestView. net/http's Header is a map, so the wire
// order of header lines is already lost by the time a handler sees the
// request; RawHeaderSequence is therefore built from map iteration,
// which is a best-effort approximation good enough for a demo and not
// a faithful headerOrderScore signal the way a raw connection hook
// could provide.
func newRequestView(r *http.Request) detect.RequestView {
	headers := make(map[string]string, len(r.Header))
	sequence := make([]string, 0, len(r.Header))
	for name, values := range r.Header {
		lower := strings.ToLower(name)
		headers[lower] = strings.Join(values, ", ")
		sequence = append(sequence, lower)
	}

	var tls *detect.TLSFacts
	if r.TLS != nil {
		tls = &detect.TLSFacts{
			Protocol:  tlsVersionName(r.TLS.Version),
			Cipher:    tlsCipherName(r.TLS.CipherSuite),
			Encrypted: true,
		}
	}

	return detect.RequestView{
		Method:            r.Method,
		Path:              r.URL.Path,
		ClientIP:          clientip.GetIP(r),
		UserAgent:         r.UserAgent(),
		Headers:           headers,
		RawHeaderSequence: sequence,
		TLS:               tls,
		// Cookie excludes the client IP so a mobile network change or a
		// VPN hop doesn't invalidate a previously-whitelisted device.
		Fingerprint: fingerprint.Cookie(r),
	}
}
