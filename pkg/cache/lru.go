package cache

import (
	"container/list"
	"sync"
	"time"
)

// Clock lets tests drive TTL expiry without real time passing.
type Clock func() time.Time

// entry is the stored record of one key: value plus the bookkeeping the
// eviction policy needs.
type entry[K comparable, V any] struct {
	key            K
	value          V
	insertedAt     time.Time
	lastAccessedAt time.Time
}

// LRU is a capacity-bounded cache with optional TTL. A hit bumps recency, an
// insert at capacity evicts the least-recently-accessed entry, and an entry
// older than the TTL is treated as a miss even if never evicted.
type LRU[K comparable, V any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration // zero disables expiry
	now        Clock
	ll         *list.List
	items      map[K]*list.Element
}

func NewLRU[K comparable, V any](maxEntries int, ttl time.Duration) *LRU[K, V] {
	if maxEntries <= 0 {
		maxEntries = 128
	}
	return &LRU[K, V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
		ll:         list.New(),
		items:      make(map[K]*list.Element),
	}
}

// NewLRUWithClock is NewLRU with an injected clock, for tests.
func NewLRUWithClock[K comparable, V any](maxEntries int, ttl time.Duration, now Clock) *LRU[K, V] {
	c := NewLRU[K, V](maxEntries, ttl)
	c.now = now
	return c
}

func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	ent := el.Value.(*entry[K, V])
	if c.expired(ent) {
		c.removeElement(el)
		return zero, false
	}
	ent.lastAccessedAt = c.now()
	c.ll.MoveToFront(el)
	return ent.value, true
}

func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry[K, V])
		ent.value = value
		ent.insertedAt = now
		ent.lastAccessedAt = now
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry[K, V]{
		key:            key,
		value:          value,
		insertedAt:     now,
		lastAccessedAt: now,
	})
	c.items[key] = el

	if c.ll.Len() > c.maxEntries {
		if back := c.ll.Back(); back != nil {
			c.removeElement(back)
		}
	}
}

func (c *LRU[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge drops every entry.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[K]*list.Element)
}

func (c *LRU[K, V]) expired(ent *entry[K, V]) bool {
	return c.ttl > 0 && c.now().Sub(ent.insertedAt) >= c.ttl
}

func (c *LRU[K, V]) removeElement(el *list.Element) {
	ent := el.Value.(*entry[K, V])
	c.ll.Remove(el)
	delete(c.items, ent.key)
}
