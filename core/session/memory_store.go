package session

import (
	"context"
	"time"

	"github.com/botguard/botguard/core/cache"
)

// MemoryStore is the default Store, backed by an in-process LRU+TTL
// cache. Save's ttl resets the entry's expiry clock, so a cache entry's
// age tracks LastSeen rather than FirstSeen.
type MemoryStore struct {
	cache *cache.Cache[string, Data]
}

// NewMemoryStore creates a MemoryStore bounded to cfg.MaxSessions.
func NewMemoryStore(cfg Config) *MemoryStore {
	return &MemoryStore{cache: cache.New[string, Data](cfg.MaxSessions)}
}

func (s *MemoryStore) Get(_ context.Context, ip string) (Data, error) {
	data, ok := s.cache.Get(ip)
	if !ok {
		return Data{}, ErrNotFound
	}
	return data, nil
}

func (s *MemoryStore) Save(_ context.Context, data Data, ttl time.Duration) error {
	s.cache.Set(data.IP, data, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, ip string) error {
	s.cache.Delete(ip)
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time, _ time.Duration) (int, error) {
	return s.cache.Sweep(now), nil
}
