package loom

import (
	"context"
	"strings"

	"github.com/danpasecinic/loom/internal/container"
)

// Module groups providers behind import/export visibility rules. A token is
// visible to a module's own providers, and to importers only when listed in
// Export. Imports are not re-exported implicitly: if B imports A, a module
// importing B sees A's tokens only when B re-exports them.
type Module struct {
	name    string
	defs    []*Definition
	imports []*Module
	exports []string
	global  bool
}

func NewModule(name string) *Module {
	return &Module{name: name}
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Provide(defs ...*Definition) *Module {
	m.defs = append(m.defs, defs...)
	return m
}

func (m *Module) Import(mods ...*Module) *Module {
	m.imports = append(m.imports, mods...)
	return m
}

// Export lists the tokens visible to importers. A module may re-export a
// token it gets from one of its own imports.
func (m *Module) Export(tokens ...string) *Module {
	m.exports = append(m.exports, tokens...)
	return m
}

// Global makes the module's exports visible to every module without an
// explicit import edge.
func (m *Module) Global() *Module {
	m.global = true
	return m
}

// Apply registers the modules (and, recursively, their imports) on the
// container. Import cycles are a construction-time error.
func (c *Container) Apply(mods ...*Module) error {
	visited := make(map[*Module]bool)
	applying := make(map[*Module]bool)

	var apply func(m *Module, path []string) error
	apply = func(m *Module, path []string) error {
		if visited[m] {
			return nil
		}
		if applying[m] {
			cycle := append(append([]string{}, path...), m.name)
			return NewError(
				ErrCodeModuleCycle,
				"module import cycle detected: "+strings.Join(cycle, " -> "),
				nil,
			).WithCycle(cycle)
		}

		applying[m] = true
		for _, imp := range m.imports {
			if err := apply(imp, append(path, m.name)); err != nil {
				return err
			}
		}
		delete(applying, m)
		visited[m] = true

		importNames := make([]string, 0, len(m.imports))
		for _, imp := range m.imports {
			importNames = append(importNames, imp.name)
		}

		if err := c.internal.AddModule(m.name, importNames, m.exports, m.global); err != nil {
			return err
		}

		for _, d := range m.defs {
			if err := c.internal.Register(d.entry(m.name), d.override); err != nil {
				return err
			}
		}

		return nil
	}

	for _, m := range mods {
		if err := apply(m, nil); err != nil {
			return err
		}
	}

	return nil
}

func (c *Container) Modules() []string {
	return c.internal.ModuleNames()
}

// Decorator wraps a resolved instance, e.g. to add logging or metrics to a
// service without touching its provider.
type Decorator[T any] func(ctx context.Context, r Resolver, base T) (T, error)

func Decorate[T any](c *Container, token string, decorator Decorator[T]) {
	DecorateIn[T](c, container.RootModule, token, decorator)
}

func DecorateIn[T any](c *Container, module, token string, decorator Decorator[T]) {
	key := token
	if module != container.RootModule {
		key = module + ":" + token
	}

	c.internal.AddDecorator(
		key, func(ctx context.Context, r container.Resolver, instance any) (any, error) {
			typed, ok := instance.(T)
			if !ok {
				var zero T
				return zero, NewError(
					ErrCodeDecoratorFailed,
					"decorator type mismatch for "+token,
					nil,
				).WithToken(token)
			}
			return decorator(ctx, &resolverAdapter{container: c}, typed)
		},
	)
}
