package container

// Replace swaps an existing entry for a new definition in the same module,
// dropping any cached instance. The token must already be registered; use
// Register for new tokens.
func (c *Container) Replace(entry *Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.modules[entry.Module]
	if !ok {
		return errInvalidDefinition(entry.Token, "unknown module: "+entry.Module)
	}

	existing, exists := m.registry.Get(entry.Token)
	if !exists {
		return errTokenNotFound(entry.Token, entry.Module)
	}

	if entry.Kind == KindValue {
		entry.SetInstance(entry.Value)
	}

	m.registry.Set(entry)

	g := c.buildGraphLocked()
	if g.HasCycle() {
		m.registry.Set(existing)
		return errCircularDependency(g.CyclePath(qualify(entry.Module, entry.Token)))
	}

	c.flights.Forget(qualify(entry.Module, entry.Token))
	return nil
}
