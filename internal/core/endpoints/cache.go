package endpoints

import (
	"encoding/json"
	"sync"
)

// Tag identifies the entity family a cached query result belongs to
type Tag string

const (
	TagUser            Tag = "User"
	TagLoanApplication Tag = "LoanApplication"
	TagLoanDetails     Tag = "LoanDetails"
	TagLoanProduct     Tag = "LoanProduct"
)

type cacheEntry struct {
	data json.RawMessage
	tags []Tag
}

// queryCache caches query results under endpoint+argument keys. Invalidation
// is tag-based and coarse: dropping TagLoanApplication drops every cached
// application query regardless of argument.
type queryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string]cacheEntry)}
}

func (c *queryCache) get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return entry.data, true
}

func (c *queryCache) set(key string, data json.RawMessage, tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: data, tags: tags}
}

func (c *queryCache) invalidate(tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if hasAny(entry.tags, tags) {
			delete(c.entries, key)
		}
	}
}

func hasAny(have, want []Tag) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
