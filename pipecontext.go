package loom

import (
	"context"

	"github.com/google/uuid"

	"github.com/danpasecinic/loom/internal/container"
)

// PipelineContext is the mutable, request-lifetime record threaded through
// every stage of one pipeline run. It carries the request descriptor, the
// resolved handler, the accumulating result and a side-channel map for
// cross-stage data (a guard storing the authenticated principal, say). It is
// owned exclusively by its request; stages of one run never race on it.
type PipelineContext struct {
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	req     *IncomingRequest
	handler *Handler
	scope   *container.RequestScope

	values    map[string]any
	result    any
	resultSet bool
}

// NewPipelineContext builds the context for one run. The derived
// context.Context carries the per-request provider scope, so request-scoped
// resolutions inside any stage cache into this run.
func NewPipelineContext(ctx context.Context, req *IncomingRequest, h *Handler) *PipelineContext {
	if req == nil {
		req = &IncomingRequest{}
	}

	scope := container.NewRequestScope()
	ctx, cancel := context.WithCancel(container.WithScope(ctx, scope))

	return &PipelineContext{
		id:      uuid.NewString(),
		ctx:     ctx,
		cancel:  cancel,
		req:     req,
		handler: h,
		scope:   scope,
		values:  make(map[string]any),
	}
}

// ID is the unique identifier of this run, usable for tracing and logs.
func (pc *PipelineContext) ID() string {
	return pc.id
}

func (pc *PipelineContext) Context() context.Context {
	return pc.ctx
}

// Cancel raises the cancellation signal observed by downstream stages.
func (pc *PipelineContext) Cancel() {
	pc.cancel()
}

func (pc *PipelineContext) Request() *IncomingRequest {
	return pc.req
}

func (pc *PipelineContext) Handler() *Handler {
	return pc.handler
}

// Set stores a value in the cross-stage side channel.
func (pc *PipelineContext) Set(key string, value any) {
	pc.values[key] = value
}

func (pc *PipelineContext) Get(key string) (any, bool) {
	value, ok := pc.values[key]
	return value, ok
}

func (pc *PipelineContext) MustGet(key string) any {
	value, ok := pc.values[key]
	if !ok {
		panic("loom: no pipeline value for key " + key)
	}
	return value
}

// SetResult records the response value. Middleware that writes its own
// response calls this and skips the continuation.
func (pc *PipelineContext) SetResult(value any) {
	pc.result = value
	pc.resultSet = true
}

func (pc *PipelineContext) Result() (any, bool) {
	return pc.result, pc.resultSet
}

// finish releases per-request resources: the request-scoped provider cache
// is discarded and the context cancelled.
func (pc *PipelineContext) finish() {
	pc.scope.Clear()
	pc.cancel()
}
