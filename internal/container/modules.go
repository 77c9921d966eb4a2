package container

import (
	"github.com/danpasecinic/loom/internal/graph"
)

// Module groups providers behind import/export visibility rules. The root
// module (empty name) holds providers registered directly on the container
// and is visible everywhere.
type Module struct {
	Name     string
	Imports  []string
	Exports  map[string]bool
	Global   bool
	registry *Registry
}

// RootModule is the name of the implicit top-level module.
const RootModule = ""

func (c *Container) AddModule(name string, imports, exports []string, global bool) error {
	if name == RootModule {
		return errInvalidDefinition("", "module name must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.modules[name]; exists {
		return errInvalidDefinition("", "module already registered: "+name)
	}

	exportSet := make(map[string]bool, len(exports))
	for _, token := range exports {
		exportSet[token] = true
	}

	c.modules[name] = &Module{
		Name:     name,
		Imports:  imports,
		Exports:  exportSet,
		Global:   global,
		registry: NewRegistry(),
	}

	if cycle := c.moduleCycleLocked(); cycle != nil {
		delete(c.modules, name)
		return errModuleCycle(cycle)
	}

	return nil
}

func (c *Container) HasModule(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.modules[name]
	return exists
}

func (c *Container) ModuleNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		if name != RootModule {
			names = append(names, name)
		}
	}
	return names
}

func (c *Container) moduleCycleLocked() []string {
	g := graph.New()
	for name, m := range c.modules {
		if name == RootModule {
			continue
		}
		g.AddNode(name, m.Imports)
	}

	if !g.HasCycle() {
		return nil
	}

	paths := g.CyclePaths()
	if len(paths) == 0 {
		return nil
	}
	return paths[0]
}

// lookupLocked finds the entry for token as seen from moduleName, honoring
// visibility: the module's own providers first, then the exports of its
// imports (following explicit re-export chains, never implicit transitive
// exports), then the exports of global modules, then the root module.
func (c *Container) lookupLocked(moduleName, token string) (*Entry, *Module, error) {
	m, ok := c.modules[moduleName]
	if !ok {
		return nil, nil, errTokenNotFound(token, moduleName)
	}

	if entry, ok := m.registry.Get(token); ok {
		return entry, m, nil
	}

	visited := make(map[string]bool)
	for _, imp := range m.Imports {
		if entry, owner := c.lookupExportedLocked(imp, token, visited); entry != nil {
			return entry, owner, nil
		}
	}

	for name, gm := range c.modules {
		if !gm.Global || name == moduleName {
			continue
		}
		if entry, owner := c.lookupExportedLocked(name, token, visited); entry != nil {
			return entry, owner, nil
		}
	}

	if moduleName != RootModule {
		if root, ok := c.modules[RootModule]; ok {
			if entry, ok := root.registry.Get(token); ok {
				return entry, root, nil
			}
		}
	}

	return nil, nil, errTokenNotFound(token, moduleName)
}

// lookupExportedLocked resolves token through moduleName's export set. A
// token a module exports may live in its own providers or, when re-exported,
// in one of its imports' exports.
func (c *Container) lookupExportedLocked(moduleName, token string, visited map[string]bool) (*Entry, *Module) {
	if visited[moduleName] {
		return nil, nil
	}
	visited[moduleName] = true

	m, ok := c.modules[moduleName]
	if !ok || !m.Exports[token] {
		return nil, nil
	}

	if entry, ok := m.registry.Get(token); ok {
		return entry, m
	}

	for _, imp := range m.Imports {
		if entry, owner := c.lookupExportedLocked(imp, token, visited); entry != nil {
			return entry, owner
		}
	}

	return nil, nil
}

func (c *Container) Lookup(moduleName, token string) (*Entry, *Module, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lookupLocked(moduleName, token)
}

func qualify(module, token string) string {
	if module == RootModule {
		return token
	}
	return module + ":" + token
}
