package loom

import "log/slog"

// Option configures a Container at construction time.
type Option func(*containerConfig)

// PipelineOption configures a Pipeline at construction time.
type PipelineOption func(*Pipeline)

// WithLogger sets the structured logger the container (and any pipeline built
// on it) emits through. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

// WithPipelineLogger overrides the logger for one pipeline without touching
// the container's.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMetadataStore shares a metadata store across pipelines so handler
// annotations registered once are visible to all of them.
func WithMetadataStore(store *MetadataStore) PipelineOption {
	return func(p *Pipeline) {
		p.metadata = store
	}
}

// WithResponseSink attaches the sink that receives the final result of every
// run.
func WithResponseSink(sink ResponseSink) PipelineOption {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

// Observers. Each With*Observer appends a hook; hooks fire in registration
// order.

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithProvideObserver(hook ProvideHook) Option {
	return func(cfg *containerConfig) {
		cfg.onProvide = append(cfg.onProvide, hook)
	}
}

func WithStartObserver(hook StartHook) Option {
	return func(cfg *containerConfig) {
		cfg.onStart = append(cfg.onStart, hook)
	}
}

func WithStopObserver(hook StopHook) Option {
	return func(cfg *containerConfig) {
		cfg.onStop = append(cfg.onStop, hook)
	}
}

func WithStageObserver(hook StageHook) PipelineOption {
	return func(p *Pipeline) {
		p.stageHooks = append(p.stageHooks, hook)
	}
}

func WithUnhandledObserver(hook UnhandledHook) PipelineOption {
	return func(p *Pipeline) {
		p.unhandledHooks = append(p.unhandledHooks, hook)
	}
}
