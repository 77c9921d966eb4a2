package loom

import (
	"time"

	"github.com/danpasecinic/loom/internal/container"
)

// Container observers, fired per qualified token.
type (
	ResolveHook = container.ResolveHook
	ProvideHook = container.ProvideHook
	StartHook   = container.StartHook
	StopHook    = container.StopHook
)

// StageHook observes pipeline stage entry/exit: it fires once per stage per
// request with the stage duration and outcome.
type StageHook func(stage PipelineStage, pc *PipelineContext, duration time.Duration, err error)

// UnhandledHook receives errors that no exception filter recognized; this is
// the observability side-channel for the default filter path.
type UnhandledHook func(pc *PipelineContext, err *Error)
