package container

import (
	"context"
	"sync"
	"time"

	"github.com/danpasecinic/loom/internal/scope"
)

// Resolver is the read side of the container handed to decorators.
type Resolver interface {
	Resolve(ctx context.Context, token string) (any, error)
	Has(token string) bool
}

// resolutionStack tracks the tokens currently being resolved by one logical
// resolution pass. Revisiting a token on the stack is a dependency cycle.
type resolutionStack struct {
	keys []string
	seen map[string]bool
}

func newResolutionStack() *resolutionStack {
	return &resolutionStack{seen: make(map[string]bool)}
}

func (s *resolutionStack) contains(key string) bool {
	return s.seen[key]
}

func (s *resolutionStack) push(key string) {
	s.keys = append(s.keys, key)
	s.seen[key] = true
}

func (s *resolutionStack) pop() {
	key := s.keys[len(s.keys)-1]
	s.keys = s.keys[:len(s.keys)-1]
	delete(s.seen, key)
}

// cycleTo returns the stack slice from the first occurrence of key through
// the top, closed with key again, naming the full cycle.
func (s *resolutionStack) cycleTo(key string) []string {
	for i, k := range s.keys {
		if k == key {
			cycle := make([]string, 0, len(s.keys)-i+1)
			cycle = append(cycle, s.keys[i:]...)
			return append(cycle, key)
		}
	}
	return []string{key, key}
}

func (c *Container) Resolve(ctx context.Context, token string) (any, error) {
	return c.ResolveFrom(ctx, RootModule, token)
}

func (c *Container) ResolveFrom(ctx context.Context, module, token string) (any, error) {
	return c.resolve(ctx, module, token, newResolutionStack())
}

func (c *Container) resolve(ctx context.Context, moduleName, token string, stack *resolutionStack) (any, error) {
	start := time.Now()
	instance, err := c.doResolve(ctx, moduleName, token, stack)
	c.notifyResolve(qualify(moduleName, token), time.Since(start), err)
	return instance, err
}

func (c *Container) doResolve(ctx context.Context, moduleName, token string, stack *resolutionStack) (any, error) {
	entry, owner, err := c.Lookup(moduleName, token)
	if err != nil {
		return nil, err
	}

	key := qualify(owner.Name, token)
	if stack.contains(key) {
		return nil, errCircularDependency(stack.cycleTo(key))
	}
	stack.push(key)
	defer stack.pop()

	switch entry.Kind {
	case KindValue:
		return entry.Value, nil
	case KindAlias:
		// no separate instantiation: an alias forwards to its target
		return c.resolve(ctx, owner.Name, entry.AliasOf, stack)
	}

	switch entry.Scope {
	case scope.Singleton:
		return c.resolveSingleton(ctx, owner, entry, key, stack)
	case scope.Request:
		return c.resolveRequest(ctx, owner, entry, key, stack)
	case scope.Transient:
		return c.construct(ctx, owner, entry, key, stack)
	default:
		return c.resolveSingleton(ctx, owner, entry, key, stack)
	}
}

// resolveSingleton constructs at most once, even under concurrent first
// resolutions: late callers either see the cached instance or join the
// in-flight construction.
func (c *Container) resolveSingleton(ctx context.Context, owner *Module, entry *Entry, key string, stack *resolutionStack) (any, error) {
	if instance, ok := entry.Instance(); ok {
		return instance, nil
	}

	instance, err, _ := c.flights.Do(key, func() (any, error) {
		if instance, ok := entry.Instance(); ok {
			return instance, nil
		}

		instance, err := c.construct(ctx, owner, entry, key, stack)
		if err != nil {
			return nil, err
		}
		entry.SetInstance(instance)

		if entry.Lazy && !entry.StartRan() && c.State() == StateRunning {
			if err := c.runLazyStart(ctx, key, entry); err != nil {
				return nil, err
			}
		}

		return instance, nil
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func (c *Container) resolveRequest(ctx context.Context, owner *Module, entry *Entry, key string, stack *resolutionStack) (any, error) {
	rs := ScopeFrom(ctx)
	if rs == nil {
		return nil, errResolutionFailed(
			key,
			NewError(ErrCodeResolutionFailed, "no request scope in context; use WithRequestScope", nil),
		)
	}

	if instance, ok := rs.Get(key); ok {
		return instance, nil
	}

	instance, err := c.construct(ctx, owner, entry, key, stack)
	if err != nil {
		return nil, err
	}

	rs.Set(key, instance)
	return instance, nil
}

// construct resolves the entry's dependencies depth-first in declared order
// and invokes the constructor or factory with the resolved values supplied
// positionally.
func (c *Container) construct(ctx context.Context, owner *Module, entry *Entry, key string, stack *resolutionStack) (any, error) {
	deps := make([]any, 0, len(entry.Dependencies))
	for _, dep := range entry.Dependencies {
		value, err := c.resolve(ctx, owner.Name, dep, stack)
		if err != nil {
			return nil, errResolutionFailed(key, err)
		}
		deps = append(deps, value)
	}

	var (
		instance any
		err      error
	)
	switch entry.Kind {
	case KindClass:
		instance, err = entry.Ctor(deps...)
	case KindFactory:
		instance, err = entry.Factory(ctx, deps...)
	default:
		return nil, errInvalidDefinition(key, "provider kind cannot be constructed")
	}
	if err != nil {
		return nil, errProviderFailed(key, err)
	}

	return c.applyDecorators(ctx, key, instance)
}

// RequestScope caches per-request instances. It is owned by a single request
// and dropped when the request ends.
type RequestScope struct {
	mu        sync.RWMutex
	instances map[string]any
}

func NewRequestScope() *RequestScope {
	return &RequestScope{
		instances: make(map[string]any),
	}
}

func (rs *RequestScope) Get(key string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	instance, ok := rs.instances[key]
	return instance, ok
}

func (rs *RequestScope) Set(key string, instance any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.instances[key] = instance
}

func (rs *RequestScope) Clear() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.instances = make(map[string]any)
}

type requestScopeKey struct{}

func WithRequestScope(ctx context.Context) context.Context {
	return WithScope(ctx, NewRequestScope())
}

func WithScope(ctx context.Context, rs *RequestScope) context.Context {
	return context.WithValue(ctx, requestScopeKey{}, rs)
}

func ScopeFrom(ctx context.Context) *RequestScope {
	if rs, ok := ctx.Value(requestScopeKey{}).(*RequestScope); ok {
		return rs
	}
	return nil
}
