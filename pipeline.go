package loom

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Result is the terminal outcome of one pipeline run: a value, or a
// filter-produced error response. Handled marks a middleware halt (the unit
// wrote its own response and skipped the continuation).
type Result struct {
	Value   any
	Err     *Error
	Handled bool
}

func (r *Result) OK() bool {
	return r.Err == nil
}

// ErrorResponse is the generic payload the default exception filter
// produces.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseSink receives the final result of each run; a transport layer
// implements it to serialize responses onto the wire.
type ResponseSink interface {
	Write(pc *PipelineContext, res *Result)
}

// Pipeline executes the fixed stage sequence per request:
//
//	Middleware -> Guards -> Interceptors -> Pipes -> Handler -> respond
//
// with any stage error routed through the exception filters. Configure it
// once at startup; Run is safe for concurrent use.
type Pipeline struct {
	container *Container
	metadata  *MetadataStore
	logger    *slog.Logger

	middleware   []Middleware
	guards       []Guard
	interceptors []Interceptor
	pipes        []Pipe
	filters      []ExceptionFilter

	stageHooks     []StageHook
	unhandledHooks []UnhandledHook
	sink           ResponseSink
}

func NewPipeline(c *Container, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		container: c,
		metadata:  NewMetadataStore(),
		logger:    slog.Default(),
	}
	if c != nil && c.config.logger != nil {
		p.logger = c.config.logger
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Use(mw ...Middleware) *Pipeline {
	p.middleware = append(p.middleware, mw...)
	return p
}

func (p *Pipeline) Guard(guards ...Guard) *Pipeline {
	p.guards = append(p.guards, guards...)
	return p
}

func (p *Pipeline) Intercept(interceptors ...Interceptor) *Pipeline {
	p.interceptors = append(p.interceptors, interceptors...)
	return p
}

func (p *Pipeline) Pipe(pipes ...Pipe) *Pipeline {
	p.pipes = append(p.pipes, pipes...)
	return p
}

func (p *Pipeline) Filter(filters ...ExceptionFilter) *Pipeline {
	p.filters = append(p.filters, filters...)
	return p
}

func (p *Pipeline) Metadata() *MetadataStore {
	return p.metadata
}

func (p *Pipeline) Container() *Container {
	return p.container
}

// Run executes the pipeline for one request. Every per-request error
// resolves to exactly one structured error response through the matching
// (or default) exception filter; no error escapes unrouted.
func (p *Pipeline) Run(pc *PipelineContext) *Result {
	defer pc.finish()

	res := p.execute(pc)
	if p.sink != nil {
		p.sink.Write(pc, res)
	}
	return res
}

func (p *Pipeline) execute(pc *PipelineContext) *Result {
	if pc.handler == nil {
		return p.catch(pc, NewError(ErrCodeUnhandled, "pipeline run without a handler", nil))
	}

	reachedEnd, err := p.runMiddleware(pc)
	if err != nil {
		return p.catch(pc, err)
	}
	if !reachedEnd {
		value, _ := pc.Result()
		return &Result{Value: value, Handled: true}
	}

	if err := p.runGuards(pc); err != nil {
		return p.catch(pc, err)
	}

	value, err := p.runIntercepted(pc)
	if err != nil {
		return p.catch(pc, err)
	}

	pc.SetResult(value)
	return &Result{Value: value}
}

// runMiddleware walks the middleware chain; a unit that does not invoke its
// continuation halts the pipeline and the request counts as handled.
func (p *Pipeline) runMiddleware(pc *PipelineContext) (bool, error) {
	reachedEnd := false

	err := p.observe(StageMiddleware, pc, func() error {
		var invoke func(i int) error
		invoke = func(i int) error {
			if err := contextError(pc); err != nil {
				return err
			}
			if i == len(p.middleware) {
				reachedEnd = true
				return nil
			}
			return p.middleware[i](pc, func() error {
				return invoke(i + 1)
			})
		}
		return invoke(0)
	})

	return reachedEnd, err
}

// runGuards evaluates guards in order and short-circuits on the first
// rejection. The third guard is never consulted once the second says no.
func (p *Pipeline) runGuards(pc *PipelineContext) error {
	return p.observe(StageGuards, pc, func() error {
		for _, g := range p.guards {
			if err := contextError(pc); err != nil {
				return err
			}

			ok, err := g.CanActivate(pc)
			if err != nil {
				// a guard error keeps its own kind; only an explicit
				// false becomes an access-denied error
				return err
			}
			if !ok {
				return ErrAccessDenied("request rejected by guard")
			}
		}
		return nil
	})
}

// runIntercepted wraps pipes+handler in the interceptor chain. Interceptors
// listed first wrap outermost, so their before-work runs first and their
// after-work runs last.
func (p *Pipeline) runIntercepted(pc *PipelineContext) (any, error) {
	base := CallHandler(func() (any, error) {
		args, err := p.bindArguments(pc)
		if err != nil {
			return nil, err
		}
		return p.runHandler(pc, args)
	})

	next := base
	for i := len(p.interceptors) - 1; i >= 0; i-- {
		interceptor, inner := p.interceptors[i], next
		next = func() (any, error) {
			return interceptor.Intercept(pc, inner)
		}
	}

	var value any
	err := p.observe(StageInterceptors, pc, func() error {
		v, err := next()
		value = v
		return err
	})
	return value, err
}

// bindArguments extracts each declared handler input from the request and
// runs every pipe over it in order.
func (p *Pipeline) bindArguments(pc *PipelineContext) ([]any, error) {
	bindings := pc.handler.Bindings
	args := make([]any, 0, len(bindings))

	err := p.observe(StagePipes, pc, func() error {
		if err := contextError(pc); err != nil {
			return err
		}

		for i, binding := range bindings {
			var value any
			if binding.Extract != nil {
				value = binding.Extract(pc.req)
			}

			for _, pipe := range p.pipes {
				transformed, err := pipe.Transform(pc, Argument{
					Index: i,
					Name:  binding.Name,
					Value: value,
				})
				if err != nil {
					return err
				}
				value = transformed
			}

			args = append(args, value)
		}
		return nil
	})

	return args, err
}

func (p *Pipeline) runHandler(pc *PipelineContext, args []any) (any, error) {
	var value any
	err := p.observe(StageHandler, pc, func() error {
		if err := contextError(pc); err != nil {
			return err
		}

		v, err := pc.handler.Invoke(pc, args)
		value = v
		return err
	})
	return value, err
}

// catch routes err through the exception filters. The first filter that
// recognizes the error produces the final response; otherwise the default
// path builds a generic response and reports the error kind to the
// unhandled observers.
func (p *Pipeline) catch(pc *PipelineContext, err error) *Result {
	err = normalizeError(err)

	var res *Result
	_ = p.observe(StageFilters, pc, func() error {
		for _, f := range p.filters {
			if f.Handles(err) {
				res = &Result{Value: f.Catch(pc, err), Err: asError(err)}
				return nil
			}
		}

		le := asError(err)
		for _, hook := range p.unhandledHooks {
			hook(pc, le)
		}
		handler := ""
		if pc.handler != nil {
			handler = pc.handler.Name
		}
		p.logger.Error("pipeline error reached default filter",
			"request", pc.ID(),
			"handler", handler,
			"code", le.Code.String(),
			"error", le.Message,
		)

		res = &Result{
			Value: ErrorResponse{Code: le.Code.String(), Message: le.Message},
			Err:   le,
		}
		return nil
	})
	return res
}

func (p *Pipeline) observe(stage PipelineStage, pc *PipelineContext, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	for _, hook := range p.stageHooks {
		hook(stage, pc, duration, err)
	}
	p.logger.Debug("pipeline stage done",
		"request", pc.ID(),
		"stage", stage.String(),
		"duration", duration,
	)
	return err
}

// contextError maps a raised cancellation signal onto the typed taxonomy so
// it enters the filters as CancelledError (or TimeoutError for deadlines).
func contextError(pc *PipelineContext) error {
	return normalizeError(pc.ctx.Err())
}

func normalizeError(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(ErrCodeTimeout, "deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return NewError(ErrCodeCancelled, "request cancelled", err)
	}
	return err
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(ErrCodeUnhandled, err.Error(), err)
}
