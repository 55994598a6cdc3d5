package pgwhitelist

import (
	"context"
	"time"

	"github.com/botguard/botguard/core/event"
	"github.com/botguard/botguard/whitelist"
)

// SaveAndPublish writes entry through to Postgres and publishes
// TopicEntryAdded on bus, best-effort: a publish never blocks or fails
// the write.
func (s *Store) SaveAndPublish(ctx context.Context, bus *event.Bus, entry whitelist.Entry) error {
	if err := s.Save(ctx, entry); err != nil {
		return err
	}
	if bus != nil {
		bus.Publish(event.TopicEntryAdded, entry)
	}
	return nil
}

// SweepExpired deletes every expired entry and publishes
// TopicEntriesExpired with the removed count, for a periodic
// background caller.
func (s *Store) SweepExpired(ctx context.Context, bus *event.Bus, now time.Time) (int, error) {
	n, err := s.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 && bus != nil {
		bus.Publish(event.TopicEntriesExpired, n)
	}
	return n, nil
}
