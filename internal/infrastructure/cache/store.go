package cache

import "sync"

// Store is a concurrency-safe in-memory map with no expiry.
// Entries live until replaced by a later Set for the same key.
type Store[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewStore creates an empty store
func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{items: make(map[K]V)}
}

// Set inserts or replaces the value for key
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

// Get returns the value for key
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Has reports whether key is present
func (s *Store[K, V]) Has(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[key]
	return ok
}

// Len returns the number of entries
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Keys returns a snapshot of the keys, in no particular order
func (s *Store[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}

// Values returns a snapshot of the values, in no particular order
func (s *Store[K, V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make([]V, 0, len(s.items))
	for _, v := range s.items {
		values = append(values, v)
	}
	return values
}
