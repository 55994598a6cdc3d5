package rediscache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botguard/botguard/store/rediscache"
)

// addr returns "" (skip) unless a real Redis is reachable via
// REDIS_TEST_ADDR, mirroring the skip-if-unavailable pattern used for
// the other external-service-backed stores in this module.
func addr(t *testing.T) string {
	t.Helper()
	a := os.Getenv("REDIS_TEST_ADDR")
	if a == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis-backed test")
	}
	return a
}

type geoFixture struct {
	Country string
	ASN     string
}

func newTestStore(t *testing.T) *rediscache.Store[geoFixture] {
	t.Helper()
	ctx := context.Background()
	cfg := rediscache.Config{Addr: addr(t), KeyPrefix: "botguard:cache:test:"}

	store, err := rediscache.New[geoFixture](ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SetThenGetRoundTrips(t *testing.T) {
	store := newTestStore(t)
	t.Cleanup(func() { store.Delete("203.0.113.9") })

	store.Set("203.0.113.9", geoFixture{Country: "US", ASN: "AS15169"}, time.Minute)

	got, ok := store.Get("203.0.113.9")
	require.True(t, ok)
	assert.Equal(t, "US", got.Country)
	assert.Equal(t, "AS15169", got.ASN)
}

func TestStore_GetMissingKeyReturnsFalse(t *testing.T) {
	store := newTestStore(t)
	_, ok := store.Get("203.0.113.254")
	assert.False(t, ok)
}

func TestStore_DeleteRemovesKey(t *testing.T) {
	store := newTestStore(t)
	store.Set("203.0.113.10", geoFixture{Country: "DE"}, time.Minute)

	_, removed := store.Delete("203.0.113.10")
	assert.True(t, removed)

	_, ok := store.Get("203.0.113.10")
	assert.False(t, ok)
}
