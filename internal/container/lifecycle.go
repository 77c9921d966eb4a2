package container

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/danpasecinic/loom/internal/scope"
)

// Start eagerly constructs every non-lazy singleton in dependency order and
// runs its OnStart hooks. Any failure here is a configuration defect and
// aborts startup.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateNew && c.state != StateStopped {
		c.mu.Unlock()
		return NewError(ErrCodeContainerState, "container already started", nil)
	}
	c.state = StateStarting
	c.mu.Unlock()

	if err := c.Validate(); err != nil {
		c.setState(StateNew)
		return err
	}

	order, err := c.Graph().StartupOrder()
	if err != nil {
		c.setState(StateNew)
		return NewError(ErrCodeStartupFailed, "failed to determine startup order", err)
	}

	for _, key := range order {
		if err := c.startEntry(ctx, key); err != nil {
			c.setState(StateNew)
			return err
		}
	}

	c.setState(StateRunning)
	return nil
}

func (c *Container) startEntry(ctx context.Context, key string) error {
	entry, ok := c.entryByKey(key)
	if !ok {
		return nil
	}

	if entry.Lazy || entry.Scope != scope.Singleton {
		return nil
	}

	if _, err := c.ResolveFrom(ctx, entry.Module, entry.Token); err != nil {
		return NewError(ErrCodeStartupFailed, "failed to resolve "+key+" during startup", err)
	}

	start := time.Now()
	var startErr error
	for _, hook := range entry.OnStart {
		c.logger.Debug("running OnStart hook", "token", key)
		if err := hook(ctx); err != nil {
			startErr = NewError(ErrCodeStartupFailed, "OnStart hook failed for "+key, err)
			break
		}
	}
	entry.MarkStartRan()
	c.notifyStart(key, time.Since(start), startErr)
	return startErr
}

func (c *Container) runLazyStart(ctx context.Context, key string, entry *Entry) error {
	start := time.Now()
	var startErr error

	for _, hook := range entry.OnStart {
		c.logger.Debug("running lazy OnStart hook", "token", key)
		if err := hook(ctx); err != nil {
			startErr = NewError(ErrCodeStartupFailed, "OnStart hook failed for "+key, err)
			break
		}
	}

	entry.MarkStartRan()
	c.notifyStart(key, time.Since(start), startErr)
	return startErr
}

// Stop runs OnStop hooks for instantiated providers in reverse dependency
// order. Hook failures are collected, not short-circuited.
func (c *Container) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return nil
	}
	c.state = StateStopping
	c.mu.Unlock()

	order, err := c.Graph().ShutdownOrder()
	if err != nil {
		c.setState(StateStopped)
		return NewError(ErrCodeShutdownFailed, "failed to determine shutdown order", err)
	}

	var errs []error
	for _, key := range order {
		entry, ok := c.entryByKey(key)
		if !ok {
			continue
		}
		if _, instantiated := entry.Instance(); !instantiated {
			continue
		}

		start := time.Now()
		var stopErr error
		for i := len(entry.OnStop) - 1; i >= 0; i-- {
			c.logger.Debug("running OnStop hook", "token", key)
			if err := entry.OnStop[i](ctx); err != nil {
				stopErr = NewError(ErrCodeShutdownFailed, "OnStop hook failed for "+key, err)
				errs = append(errs, stopErr)
			}
		}
		c.notifyStop(key, time.Since(start), stopErr)
	}

	c.setState(StateStopped)

	if len(errs) > 0 {
		return NewError(ErrCodeShutdownFailed, "shutdown finished with errors", errors.Join(errs...))
	}
	return nil
}

func (c *Container) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

func (c *Container) entryByKey(key string) (*Entry, bool) {
	module, token := splitKey(key)

	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.modules[module]
	if !ok {
		return nil, false
	}
	return m.registry.Get(token)
}

func splitKey(key string) (module, token string) {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return RootModule, key
}
