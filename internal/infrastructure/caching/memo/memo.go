// Package memo provides a long-lived memoization cache with tag-based
// invalidation. Callers declare tags; interpreting them (deciding when to
// invalidate) belongs to whoever owns the write path, not to this cache.
package memo

import (
	"sync"
	"time"
)

type entry struct {
	value   any
	tags    []string
	addedAt time.Time
}

type inflightCall struct {
	done  chan struct{}
	value any
	err   error
}

// Cache memoizes expensive builds by key. Entries expire after the TTL and
// can be dropped eagerly by tag. Concurrent callers for the same key share
// one computation.
type Cache struct {
	entries  map[string]*entry
	tagIndex map[string]map[string]struct{} // tag -> set of keys
	inflight map[string]*inflightCall
	ttl      time.Duration
	mu       sync.Mutex
}

// NewCache creates a memoization cache. ttl <= 0 means entries never expire.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries:  make(map[string]*entry),
		tagIndex: make(map[string]map[string]struct{}),
		inflight: make(map[string]*inflightCall),
		ttl:      ttl,
	}
}

// Do returns the cached value for key, computing it with fn on a miss. The
// computed value is stored under the given invalidation tags. fn errors are
// not cached; the next caller recomputes.
func (c *Cache) Do(key string, tags []string, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, found := c.entries[key]; found && !c.expiredLocked(e) {
		c.mu.Unlock()
		return e.value, nil
	}
	if call, found := c.inflight[key]; found {
		c.mu.Unlock()
		<-call.done
		return call.value, call.err
	}
	call := &inflightCall{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	call.value, call.err = fn()

	c.mu.Lock()
	delete(c.inflight, key)
	if call.err == nil {
		c.entries[key] = &entry{value: call.value, tags: tags, addedAt: time.Now()}
		for _, tag := range tags {
			if c.tagIndex[tag] == nil {
				c.tagIndex[tag] = make(map[string]struct{})
			}
			c.tagIndex[tag][key] = struct{}{}
		}
	}
	c.mu.Unlock()
	close(call.done)

	return call.value, call.err
}

// Invalidate drops every entry registered under the tag.
func (c *Cache) Invalidate(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, found := c.tagIndex[tag]
	if !found {
		return 0
	}
	dropped := 0
	for key := range keys {
		if _, ok := c.entries[key]; ok {
			c.removeLocked(key)
			dropped++
		}
	}
	delete(c.tagIndex, tag)
	return dropped
}

// Cleanup evicts expired entries. Intended for a periodic background sweep.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, e := range c.entries {
		if c.expiredLocked(e) {
			c.removeLocked(key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) expiredLocked(e *entry) bool {
	return c.ttl > 0 && time.Since(e.addedAt) > c.ttl
}

func (c *Cache) removeLocked(key string) {
	e, found := c.entries[key]
	if !found {
		return
	}
	for _, tag := range e.tags {
		if keys, ok := c.tagIndex[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.tagIndex, tag)
			}
		}
	}
	delete(c.entries, key)
}
