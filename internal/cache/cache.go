// Package cache provides the in-memory TTL cache backing the seller feed
// client's short-lived offer memoization.
package cache

import (
	"sync"
	"time"
)

// TTLCache is a simple TTL-only cache (no LRU eviction). Seller offers are
// volatile, so entries are small and short-lived; expired entries are
// reaped by Clean or overwritten by the next Set.
type TTLCache struct {
	items map[string]*ttlItem
	mu    sync.RWMutex
	now   func() time.Time
}

type ttlItem struct {
	value     interface{}
	expiresAt time.Time
}

// NewTTLCache creates a new TTL-only cache.
func NewTTLCache() *TTLCache {
	return &TTLCache{
		items: make(map[string]*ttlItem),
		now:   time.Now,
	}
}

// Get retrieves an item. Expired entries are treated as absent.
func (t *TTLCache) Get(key string) (interface{}, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	item, exists := t.items[key]
	if !exists {
		return nil, false
	}

	// Don't remove here to avoid upgrading the lock.
	if t.now().After(item.expiresAt) {
		return nil, false
	}

	return item.value, true
}

// Set stores an item with the given TTL.
func (t *TTLCache) Set(key string, value interface{}, ttl time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items[key] = &ttlItem{
		value:     value,
		expiresAt: t.now().Add(ttl),
	}
}

// Delete removes an item.
func (t *TTLCache) Delete(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.items, key)
}

// Clear removes all items.
func (t *TTLCache) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = make(map[string]*ttlItem)
}

// Clean removes expired items.
func (t *TTLCache) Clean() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for key, item := range t.items {
		if now.After(item.expiresAt) {
			delete(t.items, key)
		}
	}
}

// Size returns the number of items currently stored, expired or not.
func (t *TTLCache) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}
