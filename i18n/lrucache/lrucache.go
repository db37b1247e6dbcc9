// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) cache.
Keys are strings. The cache evicts the least recently used entry when it reaches capacity.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache[V any] struct {
	size      int                      // Maximum number of entries
	evictList *list.List               // Front is the most recently used entry
	items     map[string]*list.Element // Maps keys to their list elements
	lock      sync.Mutex
}

type cacheEntry[V any] struct {
	key   string
	value V
}

// New creates a cache holding at most size entries.
//
// It returns an error if size is not a positive integer.
func New[V any](size int) (*Cache[V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	return &Cache[V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}, nil
}

// Add adds or updates the value for key.
//
// If the key exists, it becomes the most recently used.
// If the cache is at capacity, the least recently used item is evicted.
// Add reports whether an eviction occurred.
func (c *Cache[V]) Add(key string, value V) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*cacheEntry[V]).value = value

		return false
	}

	c.items[key] = c.evictList.PushFront(&cacheEntry[V]{key: key, value: value})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeElement(c.evictList.Back())
	}

	return evicted
}

// Get retrieves the value for key and marks it as most recently used.
// The second result reports whether the key was found.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	ent, ok := c.items[key]
	if !ok {
		var zero V

		return zero, false
	}

	c.evictList.MoveToFront(ent)

	return ent.Value.(*cacheEntry[V]).value, true
}

// Remove deletes the entry associated with key and reports whether it was present.
func (c *Cache[V]) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)

		return true
	}

	return false
}

// Keys returns all keys in the cache, from the oldest to the newest.
func (c *Cache[V]) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.items))

	for ent := c.evictList.Back(); ent != nil; ent = ent.Prev() {
		keys = append(keys, ent.Value.(*cacheEntry[V]).key)
	}

	return keys
}

// Len returns the current number of items in the cache.
func (c *Cache[V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

func (c *Cache[V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*cacheEntry[V]).key)
}
