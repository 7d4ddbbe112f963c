package querycache

import (
	"context"
	"sync"
	"time"

	"goalplan/internal/platform/clock"
)

// Key addresses one cached query, e.g. {Kind: "goalDetail", ID: "12"}.
type Key struct {
	Kind string
	ID   string
}

func (k Key) String() string {
	if k.ID == "" {
		return k.Kind
	}
	return k.Kind + "/" + k.ID
}

// Event tells a subscriber that the value under Key changed or was dropped.
type Event struct {
	Key     Key
	Removed bool
}

type entry struct {
	value     any
	updatedAt time.Time
}

// Cache is an in-memory, last-write-wins store of query results. Entries
// only expire through their kind's staleness horizon; nothing is persisted.
type Cache struct {
	mu      sync.RWMutex
	clock   clock.Clock
	ttl     map[string]time.Duration
	entries map[Key]entry
	subs    map[Key]map[int]chan Event
	nextSub int
}

type Option func(*Cache)

// WithTTL sets how long values of kind stay fresh. A zero horizon makes
// every Read refetch.
func WithTTL(kind string, ttl time.Duration) Option {
	return func(c *Cache) { c.ttl[kind] = ttl }
}

func New(clk clock.Clock, opts ...Option) *Cache {
	c := &Cache{
		clock:   clk,
		ttl:     map[string]time.Duration{},
		entries: map[Key]entry{},
		subs:    map[Key]map[int]chan Event{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the cached value for key when it is fresh, otherwise calls
// fetch and stores its result. Fetch errors leave the cache untouched.
func Read[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.fresh(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Peek returns the stored value regardless of freshness, without fetching.
func Peek[T any](c *Cache, key Key) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := e.value.(T)
	return typed, ok
}

// Patch replaces the value under key with fn(value). It is a no-op when
// the key is absent or holds a different type; it never creates an entry.
func Patch[T any](c *Cache, key Key, fn func(T) T) bool {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return false
	}
	current, ok := e.value.(T)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.entries[key] = entry{value: fn(current), updatedAt: c.clock.Now()}
	c.mu.Unlock()

	c.emit(Event{Key: key})
	return true
}

func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, updatedAt: c.clock.Now()}
	c.mu.Unlock()
	c.emit(Event{Key: key})
}

func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()
	if ok {
		c.emit(Event{Key: key, Removed: true})
	}
}

// Subscribe delivers an Event for every change to key. Delivery never
// blocks the writer: a subscriber that falls behind misses events and
// should re-read on the next one. Call cancel to stop and close the channel.
func (c *Cache) Subscribe(key Key) (<-chan Event, func()) {
	ch := make(chan Event, 1)
	c.mu.Lock()
	subID := c.nextSub
	c.nextSub++
	if c.subs[key] == nil {
		c.subs[key] = map[int]chan Event{}
	}
	c.subs[key][subID] = ch
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs[key], subID)
			if len(c.subs[key]) == 0 {
				delete(c.subs, key)
			}
			c.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (c *Cache) fresh(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	ttl := c.ttl[key.Kind]
	if ttl <= 0 || c.clock.Now().Sub(e.updatedAt) >= ttl {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) emit(ev Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subs[ev.Key] {
		select {
		case ch <- ev:
		default:
		}
	}
}
