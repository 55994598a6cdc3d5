package pgaudit_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botguard/botguard/core/event"
	"github.com/botguard/botguard/detect"
	"github.com/botguard/botguard/store/pgaudit"
)

// connString returns "" (skip) unless a real Postgres is reachable via
// PGAUDIT_TEST_CONN_URL, mirroring the skip-if-unavailable pattern used
// for the other external-service-backed stores in this module.
func connString(t *testing.T) string {
	t.Helper()
	url := os.Getenv("PGAUDIT_TEST_CONN_URL")
	if url == "" {
		t.Skip("PGAUDIT_TEST_CONN_URL not set, skipping Postgres-backed test")
	}
	return url
}

func newTestSink(t *testing.T) *pgaudit.Sink {
	t.Helper()
	ctx := context.Background()
	cfg := pgaudit.Config{ConnectionString: connString(t)}

	pool, err := pgaudit.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pgaudit.Migrate(ctx, pool, cfg))
	return pgaudit.NewSink(pool, nil)
}

func sampleResult(correlationID string) detect.Result {
	return detect.Result{
		IsSuspicious:   true,
		SuspicionScore: 72,
		Confidence:     0.8,
		Reasons: []detect.Reason{
			{Category: detect.CategoryFingerprint, Severity: detect.SeverityHigh, Description: "automation signature detected", Score: 40},
		},
		CorrelationID: correlationID,
		Metadata: detect.Metadata{
			Timestamp: time.Now(),
			Geo:       &detect.GeoLocation{Country: "US", RiskScore: 10},
		},
	}
}

func TestSink_RunWritesPublishedDetectionEvents(t *testing.T) {
	sink := newTestSink(t)
	bus := event.NewBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		sink.Run(ctx, bus)
		close(done)
	}()

	result := sampleResult("test-correlation-4242")
	bus.Publish(event.TopicDetectionEvent, result)

	// give the subscriber goroutine a moment to drain and write.
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done
}

func TestSink_IgnoresNonResultPayloads(t *testing.T) {
	sink := newTestSink(t)
	bus := event.NewBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		sink.Run(ctx, bus)
		close(done)
	}()

	bus.Publish(event.TopicDetectionEvent, "not a detect.Result")
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.True(t, true) // Run returned cleanly without panicking on a bad payload
}
