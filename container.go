package loom

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danpasecinic/loom/internal/container"
)

// Container owns the provider registry, the module graph and the singleton
// cache. It is built once at startup; after Start it is read-mostly and safe
// for concurrent use by any number of requests.
type Container struct {
	internal *container.Container
	config   *containerConfig
}

type containerConfig struct {
	logger    *slog.Logger
	onResolve []ResolveHook
	onProvide []ProvideHook
	onStart   []StartHook
	onStop    []StopHook
}

func New(opts ...Option) *Container {
	cfg := &containerConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	internal := container.New(
		&container.Config{
			Logger:    cfg.logger,
			OnResolve: cfg.onResolve,
			OnProvide: cfg.onProvide,
			OnStart:   cfg.onStart,
			OnStop:    cfg.onStop,
		},
	)

	return &Container{
		internal: internal,
		config:   cfg,
	}
}

// Register adds definitions to the container's root namespace. Root
// providers are visible from every module. Registration fails on duplicate
// tokens (unless the definition is marked Override) and on dependency
// cycles.
func (c *Container) Register(defs ...*Definition) error {
	for _, d := range defs {
		if err := c.internal.Register(d.entry(container.RootModule), d.override); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the instance for token as seen from the root namespace.
func (c *Container) Resolve(ctx context.Context, token string) (any, error) {
	return c.internal.Resolve(ctx, token)
}

// ResolveFrom resolves token from the named module's point of view,
// honoring import/export visibility.
func (c *Container) ResolveFrom(ctx context.Context, module, token string) (any, error) {
	return c.internal.ResolveFrom(ctx, module, token)
}

func (c *Container) Has(token string) bool {
	return c.internal.Has(token)
}

func (c *Container) HasIn(module, token string) bool {
	return c.internal.HasIn(module, token)
}

// Validate checks the container for configuration defects: missing
// dependencies, provider cycles, alias cycles and module import cycles.
// Start calls it implicitly.
func (c *Container) Validate() error {
	return c.internal.Validate()
}

func (c *Container) Size() int {
	return c.internal.Size()
}

func (c *Container) Keys() []string {
	return c.internal.Keys()
}

// Start eagerly constructs non-lazy singletons in dependency order and runs
// their OnStart hooks.
func (c *Container) Start(ctx context.Context) error {
	return c.internal.Start(ctx)
}

// Stop runs OnStop hooks in reverse dependency order.
func (c *Container) Stop(ctx context.Context) error {
	return c.internal.Stop(ctx)
}

// Run starts the container, waits for ctx cancellation or SIGINT/SIGTERM,
// then stops it.
func (c *Container) Run(ctx context.Context) error {
	if err := c.Start(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-quit:
	}

	signal.Stop(quit)
	close(quit)

	return c.Stop(context.Background())
}
