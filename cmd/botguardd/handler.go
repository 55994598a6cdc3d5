package main

import (
	"log/slog"
	"net/http"

	"github.com/botguard/botguard"
	"github.com/botguard/botguard/settings"
)

// newHandler builds the demo HTTP handler: every request is scored by
// the coordinator and mapped to allow/429/403 depending on where its
// suspicion score falls relative to cfg.Thresholds. This demonstrates
// the caller contract only; it contains no detection logic of its own.
func newHandler(coord *botguard.Coordinator, thresholds settings.Thresholds, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := newRequestView(r)
		result := coord.Analyze(r.Context(), view, view.ClientIP, nil)

		log.Info("request scored",
			"correlationId", result.CorrelationID,
			"score", result.SuspicionScore,
			"suspicious", result.IsSuspicious,
		)

		w.Header().Set("X-Botguard-Correlation-Id", result.CorrelationID)

		switch {
		case result.SuspicionScore >= thresholds.HighRisk:
			http.Error(w, "forbidden", http.StatusForbidden)
		case result.IsSuspicious:
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		}
	}
}
