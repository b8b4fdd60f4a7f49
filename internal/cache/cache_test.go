package cache

import (
	"sync"
	"testing"
)

func TestCacheLRU(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get(a) missing")
	}
	c.Set("c", 3) // evicts b, the least recently used

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("Get(%q) missing", k)
		}
	}
	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestCacheOnEvict(t *testing.T) {
	c := New[int, string](1)
	var evicted []int
	c.OnEvict(func(k int, _ string) { evicted = append(evicted, k) })
	c.Set(1, "one")
	c.Set(2, "two")
	c.Set(2, "deux") // update, no eviction
	if len(evicted) != 1 || evicted[0] != 1 {
		t.Errorf("evicted = %v, want [1]", evicted)
	}
	if v, _ := c.Get(2); v != "deux" {
		t.Errorf("Get(2) = %q, want %q", v, "deux")
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[int, int](0)
	calls := 0
	create := func() int { calls++; return 7 }
	for range 3 {
		if v := c.GetOrCreate(1, create); v != 7 {
			t.Fatalf("GetOrCreate = %d, want 7", v)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Errorf("Stats = %+v, want 2 hits 1 miss", st)
	}
	if got := st.HitRate(); got < 0.66 || got > 0.67 {
		t.Errorf("HitRate = %v, want ~0.667", got)
	}
}

func TestCacheDeleteClear(t *testing.T) {
	c := New[int, int](4)
	c.Set(1, 1)
	c.Set(2, 2)
	if !c.Delete(1) {
		t.Error("Delete(1) = false, want true")
	}
	if c.Delete(1) {
		t.Error("second Delete(1) = true, want false")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
	c.Set(3, 3) // list must be usable after Clear
	if v, ok := c.Get(3); !ok || v != 3 {
		t.Errorf("Get(3) = %d, %v", v, ok)
	}
}

func TestShardedConcurrent(t *testing.T) {
	s := NewSharded[uint64, uint64](64, func(k uint64) uint64 { return k * 0x9E3779B97F4A7C15 })
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func(base uint64) {
			defer wg.Done()
			for i := range uint64(200) {
				k := base*1000 + i
				s.Set(k, k)
				if v, ok := s.Get(k); ok && v != k {
					t.Errorf("Get(%d) = %d", k, v)
				}
			}
		}(uint64(g))
	}
	wg.Wait()
	if got, limit := s.Len(), ShardCount*64; got > limit {
		t.Errorf("Len() = %d, exceeds %d", got, limit)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d", s.Len())
	}
}
