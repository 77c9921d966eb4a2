package loom

import "sync"

// MetadataStore attaches behavioral tags to handlers (and their owners)
// without coupling the pipeline to any policy representation. Guards and
// interceptors read it to decide, e.g., required roles or cache keys.
//
// Registration happens through ordinary calls at composition time; there is
// no reflection or annotation scanning.
type MetadataStore struct {
	mu      sync.RWMutex
	entries map[any]map[string]any
}

func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		entries: make(map[any]map[string]any),
	}
}

// Set attaches key=value to target. Target is typically a *Handler or a
// handler owner reference.
func (s *MetadataStore) Set(target any, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.entries[target]
	if !ok {
		m = make(map[string]any)
		s.entries[target] = m
	}
	m[key] = value
}

// Get returns the entry attached directly to target.
func (s *MetadataStore) Get(target any, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.entries[target]
	if !ok {
		return nil, false
	}
	value, ok := m[key]
	return value, ok
}

// Lookup searches the handler first, then its owner; the first hit wins.
func (s *MetadataStore) Lookup(h *Handler, key string) (any, bool) {
	if value, ok := s.Get(h, key); ok {
		return value, ok
	}
	if h.Owner != nil {
		return s.Get(h.Owner, key)
	}
	return nil, false
}

// Keys returns the metadata keys attached directly to target.
func (s *MetadataStore) Keys(target any) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.entries[target]
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

func (s *MetadataStore) Delete(target any, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.entries[target]; ok {
		delete(m, key)
	}
}
