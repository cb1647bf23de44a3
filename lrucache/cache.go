// Package lrucache implements FuzzDex's must-cache (spec §4.5): an
// LRU-bounded memoization of Stage-1 candidate gathering, keyed by
// (must-token, constraint). This is the "stricter" design the spec
// explicitly allows: should-tokens and max_distance/limit are never part of
// the key, so Stages 2-4 always re-run over the cached candidate set and a
// should-token can never surface a stale hit.
//
// Structurally this is the teacher's internal/semantic/lru_cache.go
// (container/list + map, mutex-guarded), plus
// golang.org/x/sync/singleflight so that concurrent
// searches for the same must-token compute Stage 1 exactly once rather than
// racing each other into the index.
package lrucache

import (
	"container/list"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Candidate is one Stage-1 result: a (phrase, token-within-phrase) pair and
// its base score from must-token trigram matches.
type Candidate struct {
	PhraseID   int32
	TokenIndex int32
	TokenLen   int32
	BaseScore  float64
}

// Key identifies a cached Stage-1 computation.
type Key struct {
	Must          string
	Constraint    int32
	HasConstraint bool
}

type cacheEntry struct {
	key        Key
	candidates []Candidate
}

// Cache is a thread-safe, bounded must-cache.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	items   map[Key]*list.Element
	order   *list.List

	group singleflight.Group

	hits   uint64
	misses uint64
}

// New creates a Cache bounded at maxSize entries. maxSize <= 0 defaults to
// 1000, matching the teacher's own LRUCache default sizing behavior.
func New(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Cache{
		maxSize: maxSize,
		items:   make(map[Key]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached candidate set for key, if present, marking it
// most-recently-used. The returned slice must not be mutated.
func (c *Cache) Get(key Key) ([]Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return elem.Value.(*cacheEntry).candidates, true
}

// Set stores candidates for key, evicting the least-recently-used entry if
// the cache is over capacity.
func (c *Cache) Set(key Key, candidates []Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).candidates = candidates
		return
	}

	entry := &cacheEntry{key: key, candidates: candidates}
	elem := c.order.PushFront(entry)
	c.items[key] = elem

	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// GetOrCompute returns the cached candidate set for key, computing it via
// compute (and populating the cache) on a miss. Concurrent calls for the
// same key share a single in-flight computation via singleflight, so a
// burst of identical searches never runs Stage 1 more than once.
func (c *Cache) GetOrCompute(key Key, compute func() []Candidate) []Candidate {
	if candidates, ok := c.Get(key); ok {
		return candidates
	}

	// singleflight.Group keys on string; Key is a small fixed-shape value,
	// so a cheap deterministic encoding is enough to dedup concurrent calls.
	sfKey := key.Must
	if key.HasConstraint {
		sfKey += "\x00" + strconv.FormatInt(int64(key.Constraint), 10)
	}

	v, _, _ := c.group.Do(sfKey, func() (interface{}, error) {
		// Re-check: another goroutine may have populated the cache while
		// we were waiting to enter Do for a *different* sfKey collision,
		// or between our Get miss and Do entry.
		if candidates, ok := c.Get(key); ok {
			return candidates, nil
		}
		candidates := compute()
		c.Set(key, candidates)
		return candidates, nil
	})

	return v.([]Candidate)
}

// Stats reports cumulative hit/miss counts since creation.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
