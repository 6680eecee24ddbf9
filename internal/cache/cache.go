// Package cache provides an in-process expiring cache with optional
// least-recently-used eviction.
package cache

import (
	"container/list"
	"reflect"
	"strings"
	"sync"
	"time"
)

type entry[V any] struct {
	key      string
	value    V
	storedAt time.Time
}

// Expiring maps string keys to values that expire ttl after they were set.
// With maxSize > 0 it also evicts the least recently used entry when full;
// maxSize <= 0 leaves it unbounded. Expiry is checked lazily on read.
type Expiring[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	items   map[string]*list.Element
	order   *list.List // front = most recently used
	now     func() time.Time
}

// New creates an Expiring cache.
func New[V any](ttl time.Duration, maxSize int) *Expiring[V] {
	return &Expiring[V]{
		ttl:     ttl,
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Key builds a cache key from its identifying parts.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// TTL returns the configured time-to-live.
func (c *Expiring[V]) TTL() time.Duration { return c.ttl }

// MaxSize returns the configured capacity, 0 or less meaning unbounded.
func (c *Expiring[V]) MaxSize() int { return c.maxSize }

// Get returns the value stored under key. It reports false if the key was never
// set, has expired or was evicted. A stored nil reads back as a miss.
func (c *Expiring[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[V])
	if !c.now().Before(e.storedAt.Add(c.ttl)) {
		c.remove(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	if isNil(e.value) {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous value and restarting its ttl.
func (c *Expiring[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.storedAt = now
		c.order.MoveToFront(el)
		return
	}

	if c.maxSize > 0 {
		for c.order.Len() >= c.maxSize {
			c.remove(c.order.Back())
		}
	}
	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value, storedAt: now})
}

// Clear removes every entry.
func (c *Expiring[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of entries held, including expired ones not yet read.
func (c *Expiring[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Expiring[V]) remove(el *list.Element) {
	e := c.order.Remove(el).(*entry[V])
	delete(c.items, e.key)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
