// Package cache provides a thread-safe, generic LRU cache with per-entry
// TTL expiry.
//
// The package offers a single generic cache type that evicts the least
// recently used entry when capacity is reached, and treats an entry whose
// TTL has elapsed as absent on the next access or sweep.
//
// Basic usage:
//
//	import "github.com/botguard/botguard/core/cache"
//
//	// Create a cache with capacity of 100 items
//	c := cache.New[string, int](100)
//
//	// Store values with a TTL
//	c.Set("key1", 42, time.Minute)
//	c.Set("key2", 84, time.Hour)
//
//	// Retrieve values
//	if value, found := c.Get("key1"); found {
//		fmt.Printf("Found: %d\n", value)
//	}
//
//	// Remove values
//	if value, removed := c.Delete("key1"); removed {
//		fmt.Printf("Removed: %d\n", value)
//	}
//
//	// Check size and clear cache
//	fmt.Printf("Cache size: %d\n", c.Size())
//	c.Clear()
//
// Set on an existing key updates the value and TTL and moves the entry to
// most-recently-used without changing the cache's size, returning the
// previous value:
//
//	oldValue, existed := c.Set("key1", 100, time.Minute)
//	if existed {
//		fmt.Printf("Previous value was: %d\n", oldValue)
//	}
//
// # TTL Semantics
//
// A TTL of zero means the entry never expires on its own (it is still
// subject to LRU eviction). Get treats an expired entry as absent and
// deletes it as a side effect. Sweep proactively removes every expired
// entry without waiting for an access; callers with a background ticker
// should call it periodically to bound memory use under low read traffic.
//
// # Eviction Callbacks
//
// Set up callbacks to handle resource cleanup when items are evicted,
// whether by LRU overflow, TTL expiry, manual deletion, or Clear:
//
//	c := cache.New[string, *os.File](10)
//	c.OnEvict(func(key string, file *os.File, reason cache.EvictReason) {
//		file.Close()
//	})
//
// # Thread Safety
//
// All cache operations are thread-safe and can be called concurrently
// from multiple goroutines. A single mutex guards the whole cache; no
// operation performs I/O while holding it.
//
// # Performance
//
// Get, Set, and Delete are O(1) amortized using a combination of hash map
// and doubly-linked list. Keys and Sweep are O(n) in the number of
// entries.
package cache
