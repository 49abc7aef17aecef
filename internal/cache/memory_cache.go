package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryCache is the in-process backend: a bounded map evicting the oldest
// insertion first. Values round-trip through JSON so the contract matches
// RedisCache exactly and stored entries are never aliased by callers.
type MemoryCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List // front = oldest insertion
}

type memEntry struct {
	key       string
	raw       []byte
	expiresAt time.Time // zero = no expiry
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 512
	}
	return &MemoryCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *MemoryCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	el, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return false, nil
	}
	e := el.Value.(*memEntry)
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.removeLocked(el)
		c.mu.Unlock()
		return false, nil
	}
	raw := e.raw
	c.mu.Unlock()

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) SetJSON(_ context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
	el := c.order.PushBack(&memEntry{key: key, raw: raw, expiresAt: expires})
	c.entries[key] = el

	for c.order.Len() > c.maxEntries {
		c.removeLocked(c.order.Front())
	}
	return nil
}

func (c *MemoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		if el, ok := c.entries[k]; ok {
			c.removeLocked(el)
		}
	}
	return nil
}

// Len reports the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) removeLocked(el *list.Element) {
	e := el.Value.(*memEntry)
	delete(c.entries, e.key)
	c.order.Remove(el)
}
