package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	lru := NewLRU[string, int](3, 0)
	lru.Set("a", 1)
	lru.Set("b", 2)
	lru.Set("c", 3)

	// Touch "a" so "b" becomes the coldest entry.
	if _, ok := lru.Get("a"); !ok {
		t.Fatal("expected a to be present")
	}

	lru.Set("d", 4)

	if _, ok := lru.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := lru.Get(key); !ok {
			t.Errorf("expected %s to survive eviction", key)
		}
	}
}

func TestLRUEvictsExactlyOnePerOverflow(t *testing.T) {
	const capacity = 8
	lru := NewLRU[string, int](capacity, 0)

	for i := 0; i < capacity+1; i++ {
		lru.Set(fmt.Sprintf("key-%d", i), i)
	}

	if got := lru.Len(); got != capacity {
		t.Fatalf("Len = %d, want %d", got, capacity)
	}
	if _, ok := lru.Get("key-0"); ok {
		t.Error("expected the oldest key to be the one evicted")
	}
	if _, ok := lru.Get("key-1"); !ok {
		t.Error("expected the second-oldest key to survive")
	}
}

func TestLRUUpdateDoesNotGrow(t *testing.T) {
	lru := NewLRU[string, int](2, 0)
	lru.Set("a", 1)
	lru.Set("a", 2)
	lru.Set("b", 3)

	if got := lru.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2", got)
	}
	if v, _ := lru.Get("a"); v != 2 {
		t.Errorf("a = %d, want 2", v)
	}
}

func TestLRUTTLExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	lru := NewLRUWithClock[string, int](10, time.Minute, func() time.Time { return now })

	lru.Set("a", 1)
	if _, ok := lru.Get("a"); !ok {
		t.Fatal("expected fresh entry to hit")
	}

	now = now.Add(59 * time.Second)
	if _, ok := lru.Get("a"); !ok {
		t.Error("expected entry within TTL to hit")
	}

	now = now.Add(2 * time.Second)
	if _, ok := lru.Get("a"); ok {
		t.Error("expected entry past TTL to miss")
	}
}

func TestLRUZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	lru := NewLRUWithClock[string, int](10, 0, func() time.Time { return now })

	lru.Set("a", 1)
	now = now.Add(1000 * time.Hour)
	if _, ok := lru.Get("a"); !ok {
		t.Error("expected entry without TTL to survive indefinitely")
	}
}

func TestLRUPurge(t *testing.T) {
	lru := NewLRU[string, int](10, 0)
	lru.Set("a", 1)
	lru.Set("b", 2)
	lru.Purge()

	if got := lru.Len(); got != 0 {
		t.Fatalf("Len after purge = %d, want 0", got)
	}
	if _, ok := lru.Get("a"); ok {
		t.Error("expected purged entry to miss")
	}
}
