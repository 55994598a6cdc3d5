package pgaudit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/botguard/botguard/core/event"
	"github.com/botguard/botguard/detect"
)

// Sink subscribes to the detectionEvent topic and writes each result
// to Postgres as it arrives. Writes are best-effort: a failed insert
// is logged and dropped rather than retried, since this is a
// compliance/forensics log, never read on the detection hot path.
type Sink struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewSink wraps an already-connected pool.
func NewSink(pool *pgxpool.Pool, log *slog.Logger) *Sink {
	if log == nil {
		log = slog.Default()
	}
	return &Sink{pool: pool, log: log}
}

// Run subscribes to bus and writes records until ctx is cancelled.
func (s *Sink) Run(ctx context.Context, bus *event.Bus) {
	ch, unsubscribe := bus.Subscribe(event.TopicDetectionEvent, 256)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			result, ok := evt.Payload.(detect.Result)
			if !ok {
				continue
			}
			if err := s.write(ctx, result); err != nil {
				s.log.Warn("pgaudit: failed to write audit record", "error", err, "correlationId", result.CorrelationID)
			}
		}
	}
}

func (s *Sink) write(ctx context.Context, result detect.Result) error {
	const q = `
		INSERT INTO audit_log (correlation_id, recorded_at, is_suspicious, suspicion_score, confidence, country, reason_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (correlation_id) DO NOTHING`

	country := ""
	if result.Metadata.Geo != nil {
		country = result.Metadata.Geo.Country
	}

	_, err := s.pool.Exec(ctx, q,
		result.CorrelationID,
		timestampOrNow(result.Metadata.Timestamp),
		result.IsSuspicious,
		result.SuspicionScore,
		result.Confidence,
		country,
		summarize(result.Reasons),
	)
	return err
}

func timestampOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func summarize(reasons []detect.Reason) string {
	if len(reasons) == 0 {
		return ""
	}
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, string(r.Category)+":"+r.Description)
	}
	return strings.Join(parts, "; ")
}
