package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader builds the value for a key on a cache miss.
type Loader[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value V
	built time.Time
}

// Store is a keyed TTL cache whose misses are coalesced with singleflight.
// A zero TTL keeps entries until they are invalidated. A load that was in
// flight when the store was invalidated returns its value but does not
// cache it.
type Store[V any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry[V]
	gen     uint64
	sf      singleflight.Group
	now     func() time.Time
}

// New creates an empty store.
func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

func (s *Store[V]) expired(e entry[V]) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(e.built) > s.ttl
}

// Get returns a fresh cached value for key, if any.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.expired(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// GetOrLoad returns the cached value for key or builds it with load.
// Concurrent misses for the same key share a single load.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, load Loader[V]) (V, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	result, err, _ := s.sf.Do(key, func() (any, error) {
		if v, ok := s.Get(key); ok {
			return v, nil
		}

		s.mu.RLock()
		gen := s.gen
		s.mu.RUnlock()

		v, err := load(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.gen == gen {
			s.entries[key] = entry[V]{value: v, built: s.now()}
		}
		s.mu.Unlock()

		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return result.(V), nil
}

// Invalidate drops the entry for key.
func (s *Store[V]) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.gen++
	s.mu.Unlock()
	s.sf.Forget(key)
}

// InvalidateAll drops every entry.
func (s *Store[V]) InvalidateAll() {
	s.mu.Lock()
	for key := range s.entries {
		s.sf.Forget(key)
	}
	s.entries = make(map[string]entry[V])
	s.gen++
	s.mu.Unlock()
}
