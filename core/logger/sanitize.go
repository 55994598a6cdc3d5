package logger

import (
	"log/slog"
	"strings"
)

// Redacted is substituted for any sensitive header value.
const Redacted = "[REDACTED]"

// sensitiveHeaders are never logged verbatim. Keys are lower-cased for
// case-insensitive matching against incoming header names.
var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"x-api-key":     {},
}

// Sanitize returns a copy of headers with authorization, cookie, and
// x-api-key values (matched case-insensitively) replaced by Redacted, so a
// logged request never carries a credential.
func Sanitize(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if _, sensitive := sensitiveHeaders[strings.ToLower(k)]; sensitive {
			out[k] = Redacted
			continue
		}
		out[k] = v
	}
	return out
}

// RedactAttr is a slog.HandlerOptions.ReplaceAttr hook that redacts the
// value of any attribute whose key names a sensitive header, regardless of
// which group it appears under. New installs it unless WithHandlerOptions
// is given; handler options passed that way apply it only if they set it.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if _, sensitive := sensitiveHeaders[strings.ToLower(a.Key)]; sensitive {
		return slog.String(a.Key, Redacted)
	}
	return a
}
