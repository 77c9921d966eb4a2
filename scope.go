package loom

import (
	"context"

	"github.com/danpasecinic/loom/internal/container"
	"github.com/danpasecinic/loom/internal/scope"
)

// Scope is the caching/lifetime policy applied to a resolved instance.
//
// Singleton instances are constructed once (eagerly at Start, or on first
// resolution for lazy providers) and cached for the container's lifetime.
// Request instances are constructed once per request scope and discarded
// with it. Transient instances are constructed on every resolution and never
// cached.
type Scope = scope.Scope

const (
	Singleton = scope.Singleton
	Request   = scope.Request
	Transient = scope.Transient
)

// RequestScope is the per-request instance cache. The pipeline installs one
// automatically for each run; WithRequestScope serves callers that resolve
// request-scoped providers outside a pipeline.
type RequestScope = container.RequestScope

func NewRequestScope() *RequestScope {
	return container.NewRequestScope()
}

func WithRequestScope(ctx context.Context) context.Context {
	return container.WithRequestScope(ctx)
}
