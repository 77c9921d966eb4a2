package loom

import "github.com/danpasecinic/loom/internal/container"

// Replace swaps an already registered token for a new definition in the root
// namespace, dropping any cached instance. It is the explicit override path;
// tests use loomtest.Replace on top of it.
func (c *Container) Replace(def *Definition) error {
	return c.ReplaceIn(container.RootModule, def)
}

func (c *Container) ReplaceIn(module string, def *Definition) error {
	return c.internal.Replace(def.entry(module))
}

func (c *Container) MustReplace(def *Definition) {
	if err := c.Replace(def); err != nil {
		panic(err)
	}
}
