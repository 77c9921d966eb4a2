// Package loom provides a provider-based dependency injection container
// composed with an ordered, short-circuiting request pipeline.
//
// The container resolves class, value, factory and alias providers with
// lifecycle scoping, module visibility and circular-dependency detection.
// The pipeline runs a fixed stage sequence per unit of work (middleware,
// guards, interceptors, pipes, handler, exception filters) with defined
// short-circuit and error-propagation semantics.
//
// # Quick Start
//
// Create a container and register providers keyed by token:
//
//	c := loom.New()
//
//	err := c.Register(
//	    loom.Value("Config", &Config{Port: 8080}),
//	    loom.Class("Logger", func(deps ...any) (any, error) {
//	        return NewLogger(), nil
//	    }),
//	    loom.Class("Service", func(deps ...any) (any, error) {
//	        return NewService(deps[0].(*Logger)), nil
//	    }, "Logger"),
//	)
//
//	svc, err := loom.Invoke[*Service](c, "Service")
//
// Dependencies are declared by token and injected positionally in declared
// order. Registration fails fast on duplicate tokens and dependency cycles;
// Validate and Start catch missing dependencies, alias cycles and module
// import cycles before any request runs.
//
// # Providers
//
// Four definition variants cover every recipe:
//
//	loom.Class(token, ctor, deps...)     // constructor with dependencies
//	loom.Value(token, value)             // existing value
//	loom.Factory(token, fn, deps...)     // factory receiving the context
//	loom.Alias(token, target)            // forwards to another token
//
// Definitions are tuned with chainable options:
//
//	loom.Class("Conn", dial, "Config").
//	    WithScope(loom.Transient).
//	    OnStart(connect).
//	    OnStop(disconnect)
//
// # Scopes
//
// Singleton (default) instances are constructed once, eagerly at Start or
// on first resolution for Lazy providers, and cached for the container's
// lifetime; construction is serialized so concurrent first resolutions share
// one build. Request instances are cached per request scope and discarded
// with it. Transient instances are constructed on every resolution.
//
// # Modules
//
// Modules group providers behind import/export visibility:
//
//	ledger := loom.NewModule("ledger").
//	    Provide(loom.Class("Ledger", newLedger)).
//	    Export("Ledger")
//
//	billing := loom.NewModule("billing").
//	    Import(ledger).
//	    Provide(loom.Class("Invoicer", newInvoicer, "Ledger"))
//
//	err := c.Apply(billing)
//	inv, err := c.ResolveFrom(ctx, "billing", "Invoicer")
//
// A token is visible to importers only when exported, and imports are never
// re-exported implicitly. Modules marked Global export to everyone.
//
// # Pipeline
//
// The pipeline dispatches one request through the fixed stage sequence:
//
//	p := loom.NewPipeline(c).
//	    Use(logRequests).
//	    Guard(requireRole("admin")).
//	    Intercept(loom.TimeoutInterceptor(time.Second)).
//	    Pipe(validateInput).
//	    Filter(loom.FilterFor(loom.ErrCodeValidation, badRequest))
//
//	pc := loom.NewPipelineContext(ctx, req, handler)
//	res := p.Run(pc)
//
// Middleware that skips its continuation halts the run. The first guard
// returning false short-circuits with an access-denied error; later guards
// are never consulted. Interceptors wrap the rest of the pipeline as an
// explicit continuation, enabling caching, timeouts, retries and response
// transformation. Pipes transform each declared handler input or reject it
// with a validation error. Every error is routed through the exception
// filters; none escapes Run.
//
// # Metadata
//
// Declarative behavior attaches to handlers through the metadata store:
//
//	p.Metadata().Set(handler, "roles", []string{"admin"})
//	roles, ok := p.Metadata().Lookup(handler, "roles")
//
// Lookup consults the handler first, then its owner.
//
// # Lifecycle
//
// Providers can participate in the container's lifecycle:
//
//	loom.Class("Server", newServer, "Config").
//	    OnStart(func(ctx context.Context) error { return srv.Listen() }).
//	    OnStop(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//
//	c.Start(ctx)  // constructs singletons in dependency order, runs hooks
//	c.Stop(ctx)   // runs OnStop hooks in reverse order
//	c.Run(ctx)    // Start + wait for signal + Stop
//
// # Observability
//
// Container observers see every resolve/provide/start/stop; pipeline stage
// observers see each stage's duration and outcome, and unhandled observers
// receive errors no filter recognized:
//
//	c := loom.New(
//	    loom.WithResolveObserver(func(token string, d time.Duration, err error) {
//	        metrics.RecordResolve(token, d, err)
//	    }),
//	)
//	p := loom.NewPipeline(c,
//	    loom.WithStageObserver(traceStage),
//	    loom.WithUnhandledObserver(reportError),
//	)
//
// # Debug Visualization
//
// Print the provider graph for debugging:
//
//	c.PrintGraph()     // ASCII to stdout
//	c.PrintGraphDOT()  // Graphviz DOT to stdout
//	info := c.Graph()  // structured GraphInfo
package loom
