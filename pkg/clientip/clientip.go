package clientip

import (
	"net"
	"net/http"
	"strings"
)

// headerPriority lists the headers checked, in order, before falling back
// to r.RemoteAddr.
var headerPriority = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the best-guess real client IP for r, checking proxy
// headers in priority order and falling back to RemoteAddr (port
// stripped). It never panics; the result is empty only when no header
// holds a valid IP and RemoteAddr is itself empty.
func GetIP(r *http.Request) string {
	for _, header := range headerPriority {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		if ip, ok := firstValidIP(value); ok {
			return ip
		}
	}
	return hostFromRemoteAddr(r.RemoteAddr)
}

// firstValidIP parses value as a (possibly comma-separated, as in
// X-Forwarded-For) list of IPs and returns the leftmost one that is valid
// and not the unspecified address.
func firstValidIP(value string) (string, bool) {
	for _, candidate := range strings.Split(value, ",") {
		candidate = strings.TrimSpace(candidate)
		if ip := parseValid(candidate); ip != "" {
			return ip, true
		}
	}
	return "", false
}

// parseValid validates and normalizes candidate, rejecting the
// unspecified address (0.0.0.0 / ::) which indicates no real client IP.
func parseValid(candidate string) string {
	if candidate == "" {
		return ""
	}
	ip := net.ParseIP(candidate)
	if ip == nil {
		return ""
	}
	if ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}

// hostFromRemoteAddr strips the port from a host:port RemoteAddr, falling
// back to the raw value if it isn't in that form.
func hostFromRemoteAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
