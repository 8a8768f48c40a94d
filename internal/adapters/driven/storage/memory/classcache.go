package memory

import (
	"sync"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
)

// Ensure ClassificationCache implements the interface.
var _ driven.ClassificationCache = (*ClassificationCache)(nil)

// ClassificationCache is a process-lifetime classification cache.
type ClassificationCache struct {
	mu      sync.RWMutex
	entries map[string]domain.Classification
}

// NewClassificationCache creates an empty cache.
func NewClassificationCache() *ClassificationCache {
	return &ClassificationCache{entries: make(map[string]domain.Classification)}
}

// Get returns the cached classification for key.
func (c *ClassificationCache) Get(key string) (domain.Classification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	if ok {
		v.Topics = append([]string(nil), v.Topics...)
	}
	return v, ok
}

// Put stores a classification under key.
func (c *ClassificationCache) Put(key string, v domain.Classification) {
	v.Topics = append([]string(nil), v.Topics...)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// Len returns the number of cached entries.
func (c *ClassificationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
