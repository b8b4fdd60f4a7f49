package cache

// ShardCount is the number of shards in a Sharded cache.
// Must be a power of 2 for fast modulo via bitwise AND.
const ShardCount = 16

const shardMask = ShardCount - 1

// Sharded is an LRU cache split into ShardCount independently locked shards.
type Sharded[K comparable, V any] struct {
	shards [ShardCount]*Cache[K, V]
	hash   func(K) uint64
}

// NewSharded creates a sharded cache with perShard entries per shard.
// hash selects the shard for a key.
func NewSharded[K comparable, V any](perShard int, hash func(K) uint64) *Sharded[K, V] {
	s := &Sharded[K, V]{hash: hash}
	for i := range s.shards {
		s.shards[i] = New[K, V](perShard)
	}
	return s
}

func (s *Sharded[K, V]) shard(key K) *Cache[K, V] {
	return s.shards[s.hash(key)&shardMask]
}

// Get retrieves a value.
func (s *Sharded[K, V]) Get(key K) (V, bool) { return s.shard(key).Get(key) }

// Set stores a value.
func (s *Sharded[K, V]) Set(key K, value V) { s.shard(key).Set(key, value) }

// GetOrCreate returns the cached value or stores the result of create.
func (s *Sharded[K, V]) GetOrCreate(key K, create func() V) V {
	return s.shard(key).GetOrCreate(key, create)
}

// Delete removes an entry.
func (s *Sharded[K, V]) Delete(key K) bool { return s.shard(key).Delete(key) }

// OnEvict registers fn on every shard.
func (s *Sharded[K, V]) OnEvict(fn func(K, V)) {
	for _, c := range s.shards {
		c.OnEvict(fn)
	}
}

// Clear removes all entries from all shards.
func (s *Sharded[K, V]) Clear() {
	for _, c := range s.shards {
		c.Clear()
	}
}

// Len returns the total number of entries.
func (s *Sharded[K, V]) Len() int {
	n := 0
	for _, c := range s.shards {
		n += c.Len()
	}
	return n
}

// Stats aggregates statistics across shards. Limit is per shard.
func (s *Sharded[K, V]) Stats() Stats {
	var st Stats
	for _, c := range s.shards {
		cs := c.Stats()
		st.Len += cs.Len
		st.Hits += cs.Hits
		st.Misses += cs.Misses
		st.Limit = cs.Limit
	}
	return st
}
