package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botguard/botguard/core/session"
)

// TestManager_TrackSerializesConcurrentUpdatesForSameIP confirms no
// lost updates: N concurrent Track calls for one IP must all be
// reflected in the final RequestCount.
func TestManager_TrackSerializesConcurrentUpdatesForSameIP(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := mgr.Track(ctx, "203.0.113.99", session.RequestLog{Path: "/race"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	data, err := mgr.Get(ctx, "203.0.113.99")
	require.NoError(t, err)
	assert.Equal(t, n, data.RequestCount)
}

// TestManager_ConcurrentUpdatesAcrossDifferentIPsDoNotInterfere checks
// that per-IP locking does not serialize unrelated IPs into each
// other's state.
func TestManager_ConcurrentUpdatesAcrossDifferentIPsDoNotInterfere(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ips := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}
	for _, ip := range ips {
		ip := ip
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, err := mgr.Track(ctx, ip, session.RequestLog{Path: "/x"})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for _, ip := range ips {
		data, err := mgr.Get(ctx, ip)
		require.NoError(t, err)
		assert.Equal(t, 50, data.RequestCount)
	}
}
