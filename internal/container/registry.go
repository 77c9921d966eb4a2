package container

import (
	"context"
	"sync"

	"github.com/danpasecinic/loom/internal/scope"
)

type Kind int

const (
	KindClass Kind = iota
	KindValue
	KindFactory
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindValue:
		return "value"
	case KindFactory:
		return "factory"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Ctor builds a class-provider instance from its resolved dependencies,
// supplied positionally in declared order.
type Ctor func(deps ...any) (any, error)

// Factory builds a factory-provider instance. Unlike Ctor it receives the
// resolution context.
type Factory func(ctx context.Context, deps ...any) (any, error)

type Hook func(ctx context.Context) error

// Entry is one registered provider definition plus its cached singleton
// instance, if any.
type Entry struct {
	Token        string
	Module       string
	Kind         Kind
	Ctor         Ctor
	Factory      Factory
	Value        any
	AliasOf      string
	Dependencies []string
	Scope        scope.Scope
	Lazy         bool
	OnStart      []Hook
	OnStop       []Hook

	mu           sync.RWMutex
	instance     any
	instantiated bool
	startRan     bool
}

func (e *Entry) Instance() (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.instantiated {
		return nil, false
	}
	return e.instance, true
}

func (e *Entry) SetInstance(instance any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.instance = instance
	e.instantiated = true
}

func (e *Entry) ClearInstance() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.instance = nil
	e.instantiated = false
	e.startRan = false
}

func (e *Entry) StartRan() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.startRan
}

func (e *Entry) MarkStartRan() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startRan = true
}

// edges returns the outgoing dependency edges for the provider graph. An
// alias depends on its target; everything else depends on its declared
// tokens.
func (e *Entry) edges() []string {
	if e.Kind == KindAlias {
		return []string{e.AliasOf}
	}
	return e.Dependencies
}

// Registry stores the provider entries of a single module.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

func (r *Registry) Has(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entries[token]
	return exists
}

func (r *Registry) Get(token string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[token]
	return entry, exists
}

func (r *Registry) Set(entry *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[entry.Token] = entry
}

func (r *Registry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, token)
}

func (r *Registry) Tokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.entries))
	for token := range r.entries {
		tokens = append(tokens, token)
	}
	return tokens
}

func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	return entries
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
