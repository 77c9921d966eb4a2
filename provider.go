package loom

import (
	"context"

	"github.com/danpasecinic/loom/internal/container"
	"github.com/danpasecinic/loom/internal/scope"
)

// CtorFunc constructs a class-provider instance from its resolved
// dependencies, supplied positionally in declared order.
type CtorFunc func(deps ...any) (any, error)

// FactoryFunc constructs a factory-provider instance; it additionally
// receives the resolution context.
type FactoryFunc func(ctx context.Context, deps ...any) (any, error)

// Definition is one provider recipe: exactly one of the four variants
// (class, value, factory, alias) keyed by a token. Definitions are built
// with Class, Value, Factory or Alias and tuned with the chainable options.
type Definition struct {
	token    string
	kind     container.Kind
	ctor     CtorFunc
	factory  FactoryFunc
	value    any
	target   string
	deps     []string
	scope    scope.Scope
	lazy     bool
	override bool
	onStart  []Hook
	onStop   []Hook
}

// Class registers a constructor for token. deps name the tokens whose
// resolved values are passed to ctor in order.
func Class(token string, ctor CtorFunc, deps ...string) *Definition {
	return &Definition{
		token: token,
		kind:  container.KindClass,
		ctor:  ctor,
		deps:  deps,
	}
}

// Value registers an existing value for token.
func Value(token string, value any) *Definition {
	return &Definition{
		token: token,
		kind:  container.KindValue,
		value: value,
	}
}

// Factory registers a factory function for token.
func Factory(token string, factory FactoryFunc, deps ...string) *Definition {
	return &Definition{
		token:   token,
		kind:    container.KindFactory,
		factory: factory,
		deps:    deps,
	}
}

// Alias makes token resolve to target. Resolution forwards with no separate
// instantiation; alias chains must terminate in a non-alias provider.
func Alias(token, target string) *Definition {
	return &Definition{
		token:  token,
		kind:   container.KindAlias,
		target: target,
	}
}

func (d *Definition) Token() string {
	return d.token
}

// WithScope sets the instance lifetime. The default is Singleton.
func (d *Definition) WithScope(s Scope) *Definition {
	d.scope = s
	return d
}

// Lazy defers singleton construction to first resolution instead of eager
// construction at Start.
func (d *Definition) Lazy() *Definition {
	d.lazy = true
	return d
}

// Override allows the definition to replace an already registered token
// instead of failing with a duplicate-token error.
func (d *Definition) Override() *Definition {
	d.override = true
	return d
}

func (d *Definition) OnStart(hook Hook) *Definition {
	d.onStart = append(d.onStart, hook)
	return d
}

func (d *Definition) OnStop(hook Hook) *Definition {
	d.onStop = append(d.onStop, hook)
	return d
}

func (d *Definition) entry(module string) *container.Entry {
	entry := &container.Entry{
		Token:        d.token,
		Module:       module,
		Kind:         d.kind,
		Value:        d.value,
		AliasOf:      d.target,
		Dependencies: d.deps,
		Scope:        d.scope,
		Lazy:         d.lazy,
	}

	if d.ctor != nil {
		ctor := d.ctor
		entry.Ctor = func(deps ...any) (any, error) {
			return ctor(deps...)
		}
	}
	if d.factory != nil {
		factory := d.factory
		entry.Factory = func(ctx context.Context, deps ...any) (any, error) {
			return factory(ctx, deps...)
		}
	}

	for _, hook := range d.onStart {
		entry.OnStart = append(entry.OnStart, container.Hook(hook))
	}
	for _, hook := range d.onStop {
		entry.OnStop = append(entry.OnStop, container.Hook(hook))
	}

	return entry
}
