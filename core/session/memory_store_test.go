package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botguard/botguard/core/session"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(session.DefaultConfig())
	ctx := context.Background()

	data := session.Data{IP: "203.0.113.20", LastSeen: time.Now()}
	require.NoError(t, store.Save(ctx, data, time.Minute))

	got, err := store.Get(ctx, "203.0.113.20")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.20", got.IP)
}

func TestMemoryStore_GetMissingReturnsErrNotFound(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(session.DefaultConfig())
	_, err := store.Get(context.Background(), "203.0.113.21")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_DeleteExpiredSweepsStaleEntries(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(session.DefaultConfig())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, session.Data{IP: "203.0.113.22"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	n, err := store.DeleteExpired(ctx, time.Now(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_DeleteRemovesEntry(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(session.DefaultConfig())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, session.Data{IP: "203.0.113.23"}, time.Minute))
	require.NoError(t, store.Delete(ctx, "203.0.113.23"))

	_, err := store.Get(ctx, "203.0.113.23")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
