package loom

// PipelineStage identifies one stage of the fixed per-request sequence, for
// stage observers and logs.
type PipelineStage int

const (
	StageMiddleware PipelineStage = iota
	StageGuards
	StageInterceptors
	StagePipes
	StageHandler
	StageFilters
)

func (s PipelineStage) String() string {
	switch s {
	case StageMiddleware:
		return "middleware"
	case StageGuards:
		return "guards"
	case StageInterceptors:
		return "interceptors"
	case StagePipes:
		return "pipes"
	case StageHandler:
		return "handler"
	case StageFilters:
		return "filters"
	default:
		return "unknown"
	}
}

// Middleware receives the context and a continuation. Not invoking next
// halts the pipeline at this stage: the request counts as fully handled by
// this unit (typically after SetResult). A returned error goes straight to
// the exception filters.
type Middleware func(pc *PipelineContext, next func() error) error

// Guard decides whether the request may proceed. Returning false
// short-circuits to the exception filters with an access-denied error;
// returning an error propagates that error's own kind instead. Guards may
// read metadata and store derived state (an authenticated principal, say)
// in the context side channel for downstream stages.
type Guard interface {
	CanActivate(pc *PipelineContext) (bool, error)
}

type GuardFunc func(pc *PipelineContext) (bool, error)

func (f GuardFunc) CanActivate(pc *PipelineContext) (bool, error) {
	return f(pc)
}

// CallHandler is the continuation an interceptor must invoke to run the rest
// of the pipeline.
type CallHandler func() (any, error)

// Interceptor wraps the downstream pipeline. It may transform the result,
// return without invoking next at all (a cache hit), race next against a
// deadline, or re-invoke next on failure. Interceptors listed first wrap
// outermost: before-work runs in list order, after-work unwinds in reverse.
type Interceptor interface {
	Intercept(pc *PipelineContext, next CallHandler) (any, error)
}

type InterceptorFunc func(pc *PipelineContext, next CallHandler) (any, error)

func (f InterceptorFunc) Intercept(pc *PipelineContext, next CallHandler) (any, error) {
	return f(pc, next)
}

// Argument is one declared handler input on its way through the pipes.
type Argument struct {
	Index int
	Name  string
	Value any
}

// Pipe transforms or validates one handler input. A returned error (usually
// ErrValidation) short-circuits to the exception filters; pipes never see
// the handler's output.
type Pipe interface {
	Transform(pc *PipelineContext, arg Argument) (any, error)
}

type PipeFunc func(pc *PipelineContext, arg Argument) (any, error)

func (f PipeFunc) Transform(pc *PipelineContext, arg Argument) (any, error) {
	return f(pc, arg)
}
