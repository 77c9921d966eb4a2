package container

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danpasecinic/loom/internal/graph"
)

type State int

const (
	StateNew State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

type ResolveHook func(token string, duration time.Duration, err error)

type ProvideHook func(token string)

type StartHook func(token string, duration time.Duration, err error)

type StopHook func(token string, duration time.Duration, err error)

type Container struct {
	mu      sync.RWMutex
	modules map[string]*Module
	logger  *slog.Logger
	state   State

	// flights serializes singleton construction so concurrent first
	// resolutions share one in-flight build.
	flights singleflight.Group

	decoratorsMu sync.RWMutex
	decorators   map[string][]DecoratorFunc

	onResolve []ResolveHook
	onProvide []ProvideHook
	onStart   []StartHook
	onStop    []StopHook
}

type Config struct {
	Logger    *slog.Logger
	OnResolve []ResolveHook
	OnProvide []ProvideHook
	OnStart   []StartHook
	OnStop    []StopHook
}

func New(cfg *Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		modules:    make(map[string]*Module),
		logger:     logger,
		decorators: make(map[string][]DecoratorFunc),
		onResolve:  cfg.OnResolve,
		onProvide:  cfg.OnProvide,
		onStart:    cfg.OnStart,
		onStop:     cfg.OnStop,
	}
	c.modules[RootModule] = &Module{
		Name:     RootModule,
		registry: NewRegistry(),
	}
	return c
}

// Register adds an entry to its module's registry. Duplicate tokens are
// rejected unless override is set; a registration that closes a dependency
// cycle is rolled back and rejected.
func (c *Container) Register(entry *Entry, override bool) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.modules[entry.Module]
	if !ok {
		return errInvalidDefinition(entry.Token, "unknown module: "+entry.Module)
	}

	if m.registry.Has(entry.Token) && !override {
		return errDuplicateToken(qualify(entry.Module, entry.Token))
	}

	if entry.Kind == KindValue {
		entry.SetInstance(entry.Value)
	}

	m.registry.Set(entry)

	g := c.buildGraphLocked()
	if g.HasCycle() {
		key := qualify(entry.Module, entry.Token)
		cycle := g.CyclePath(key)
		m.registry.Remove(entry.Token)
		return errCircularDependency(cycle)
	}

	c.notifyProvide(qualify(entry.Module, entry.Token))
	return nil
}

func validateEntry(entry *Entry) error {
	if entry.Token == "" {
		return errInvalidDefinition("", "token must not be empty")
	}

	switch entry.Kind {
	case KindClass:
		if entry.Ctor == nil {
			return errInvalidDefinition(entry.Token, "class provider requires a constructor")
		}
	case KindFactory:
		if entry.Factory == nil {
			return errInvalidDefinition(entry.Token, "factory provider requires a factory function")
		}
	case KindAlias:
		if entry.AliasOf == "" {
			return errInvalidDefinition(entry.Token, "alias provider requires a target token")
		}
		if entry.AliasOf == entry.Token {
			return errInvalidDefinition(entry.Token, "alias must not target itself")
		}
	case KindValue:
		// always valid
	default:
		return errInvalidDefinition(entry.Token, "unknown provider kind")
	}

	return nil
}

// buildGraphLocked snapshots the provider graph across all modules. Edges
// point at the entry that would actually serve the dependency under
// visibility rules; unresolvable dependencies become edges to nonexistent
// nodes and surface through Missing().
func (c *Container) buildGraphLocked() *graph.Graph {
	g := graph.New()

	for _, m := range c.modules {
		for _, entry := range m.registry.Entries() {
			deps := entry.edges()
			edges := make([]string, 0, len(deps))
			for _, dep := range deps {
				if _, owner, err := c.lookupLocked(m.Name, dep); err == nil {
					edges = append(edges, qualify(owner.Name, dep))
				} else {
					edges = append(edges, qualify(m.Name, dep))
				}
			}
			g.AddNode(qualify(m.Name, entry.Token), edges)
		}
	}

	return g
}

func (c *Container) Graph() *graph.Graph {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.buildGraphLocked()
}

// Validate checks the whole container for configuration defects: missing
// dependencies, provider cycles, module import cycles, and alias chains that
// do not terminate in a non-alias provider.
func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cycle := c.moduleCycleLocked(); cycle != nil {
		return errModuleCycle(cycle)
	}

	g := c.buildGraphLocked()

	if missing := g.Missing(); len(missing) > 0 {
		sort.Strings(missing)
		return NewError(
			ErrCodeTokenNotFound,
			"missing dependencies: "+strings.Join(missing, ", "),
			nil,
		)
	}

	if g.HasCycle() {
		paths := g.CyclePaths()
		if len(paths) > 0 {
			return errCircularDependency(paths[0])
		}
		return errCircularDependency(nil)
	}

	return c.validateAliasesLocked()
}

func (c *Container) validateAliasesLocked() error {
	for _, m := range c.modules {
		for _, entry := range m.registry.Entries() {
			if entry.Kind != KindAlias {
				continue
			}

			seen := map[string]bool{qualify(m.Name, entry.Token): true}
			cur, owner := entry, m
			for cur.Kind == KindAlias {
				next, nextOwner, err := c.lookupLocked(owner.Name, cur.AliasOf)
				if err != nil {
					return errInvalidDefinition(
						qualify(m.Name, entry.Token),
						"alias target not found: "+cur.AliasOf,
					)
				}
				key := qualify(nextOwner.Name, next.Token)
				if seen[key] {
					return errInvalidDefinition(
						qualify(m.Name, entry.Token),
						"alias cycle detected through "+key,
					)
				}
				seen[key] = true
				cur, owner = next, nextOwner
			}
		}
	}
	return nil
}

func (c *Container) Has(token string) bool {
	return c.HasIn(RootModule, token)
}

func (c *Container) HasIn(module, token string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, _, err := c.lookupLocked(module, token)
	return err == nil
}

// Keys returns the qualified tokens of every registered provider.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var keys []string
	for _, m := range c.modules {
		for _, token := range m.registry.Tokens() {
			keys = append(keys, qualify(m.Name, token))
		}
	}
	sort.Strings(keys)
	return keys
}

func (c *Container) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	size := 0
	for _, m := range c.modules {
		size += m.registry.Size()
	}
	return size
}

// Instances returns the instantiated singletons keyed by qualified token.
func (c *Container) Instances() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	instances := make(map[string]any)
	for _, m := range c.modules {
		for _, entry := range m.registry.Entries() {
			if instance, ok := entry.Instance(); ok {
				instances[qualify(m.Name, entry.Token)] = instance
			}
		}
	}
	return instances
}

func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Container) notifyResolve(token string, duration time.Duration, err error) {
	for _, hook := range c.onResolve {
		hook(token, duration, err)
	}
}

func (c *Container) notifyProvide(token string) {
	for _, hook := range c.onProvide {
		hook(token)
	}
}

func (c *Container) notifyStart(token string, duration time.Duration, err error) {
	for _, hook := range c.onStart {
		hook(token, duration, err)
	}
}

func (c *Container) notifyStop(token string, duration time.Duration, err error) {
	for _, hook := range c.onStop {
		hook(token, duration, err)
	}
}

// EntryInfo is a read-only snapshot of one registered provider, used by the
// debug output.
type EntryInfo struct {
	Token        string
	Module       string
	Kind         string
	Scope        string
	Dependencies []string
	Dependents   []string
	Instantiated bool
	Lazy         bool
}

func (c *Container) Snapshot() []EntryInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g := c.buildGraphLocked()

	var infos []EntryInfo
	for _, m := range c.modules {
		for _, entry := range m.registry.Entries() {
			key := qualify(m.Name, entry.Token)
			_, instantiated := entry.Instance()
			infos = append(infos, EntryInfo{
				Token:        entry.Token,
				Module:       m.Name,
				Kind:         entry.Kind.String(),
				Scope:        entry.Scope.String(),
				Dependencies: g.Edges(key),
				Dependents:   g.Dependents(key),
				Instantiated: instantiated,
				Lazy:         entry.Lazy,
			})
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		a := qualify(infos[i].Module, infos[i].Token)
		b := qualify(infos[j].Module, infos[j].Token)
		return a < b
	})
	return infos
}
