// Package cache provides the bounded caches used across typeset.
//
// Cache[K, V] is a mutex-guarded LRU with a fixed entry limit. Sharded[K, V]
// spreads keys over 16 Cache shards to reduce lock contention when many
// buffers share one font catalog or shaping cache.
//
//	c := cache.New[string, int](256)
//	c.Set("key", 42)
//	v, ok := c.Get("key")
//
// Both types are safe for concurrent use and must not be copied after creation.
package cache
