// Package loomtest provides helpers for testing code that is wired through a
// loom container: a test container that stops itself via t.Cleanup, fail-fast
// registration and resolution, and provider replacement for mock injection.
package loomtest

import (
	"context"

	"github.com/danpasecinic/loom"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestContainer wraps a loom.Container and fails the test on setup errors
// instead of returning them.
type TestContainer struct {
	*loom.Container
	tb TB
}

// New builds a container whose Stop is registered as a test cleanup, so
// OnStop hooks run even when the test fails midway.
func New(tb TB, opts ...loom.Option) *TestContainer {
	tb.Helper()

	c := loom.New(opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(func() {
		if err := c.Stop(context.Background()); err != nil {
			tb.Fatalf("failed to stop container: %v", err)
		}
	})

	return tc
}

func (tc *TestContainer) RequireStart(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Start(ctx); err != nil {
		tc.tb.Fatalf("failed to start container: %v", err)
	}
}

func (tc *TestContainer) RequireStop(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Stop(ctx); err != nil {
		tc.tb.Fatalf("failed to stop container: %v", err)
	}
}

func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

// MustRegister registers definitions in the root namespace, failing the test
// on the first error.
func (tc *TestContainer) MustRegister(defs ...*loom.Definition) {
	tc.tb.Helper()

	if err := tc.Register(defs...); err != nil {
		tc.tb.Fatalf("failed to register: %v", err)
	}
}

// MustApply applies modules to the container, failing the test on error.
func (tc *TestContainer) MustApply(modules ...*loom.Module) {
	tc.tb.Helper()

	if err := tc.Apply(modules...); err != nil {
		tc.tb.Fatalf("failed to apply modules: %v", err)
	}
}

// Replace swaps token for a plain value, dropping any cached instance. The
// token must already be registered; replacing a token the production wiring
// never defined is a test bug, not a mock.
func Replace(tc *TestContainer, token string, value any) {
	tc.tb.Helper()

	if err := tc.Container.Replace(loom.Value(token, value)); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", token, err)
	}
}

// ReplaceIn is Replace for a token owned by the named module.
func ReplaceIn(tc *TestContainer, module, token string, value any) {
	tc.tb.Helper()

	if err := tc.Container.ReplaceIn(module, loom.Value(token, value)); err != nil {
		tc.tb.Fatalf("failed to replace %s:%s: %v", module, token, err)
	}
}

// ReplaceDefinition swaps a token for a full definition, keeping scope and
// hook control with the caller.
func ReplaceDefinition(tc *TestContainer, def *loom.Definition) {
	tc.tb.Helper()

	if err := tc.Container.Replace(def); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", def.Token(), err)
	}
}

func AssertHas(tc *TestContainer, token string) {
	tc.tb.Helper()

	if !tc.Has(token) {
		tc.tb.Fatalf("expected container to have %s", token)
	}
}

func AssertHasIn(tc *TestContainer, module, token string) {
	tc.tb.Helper()

	if !tc.HasIn(module, token) {
		tc.tb.Fatalf("expected module %s to see %s", module, token)
	}
}

func AssertNotHas(tc *TestContainer, token string) {
	tc.tb.Helper()

	if tc.Has(token) {
		tc.tb.Fatalf("expected container to not have %s", token)
	}
}

// MustInvoke resolves token and asserts it to T, failing the test on error.
func MustInvoke[T any](tc *TestContainer, token string) T {
	tc.tb.Helper()

	v, err := loom.Invoke[T](tc.Container, token)
	if err != nil {
		tc.tb.Fatalf("failed to invoke %s: %v", token, err)
	}
	return v
}

// MustInvokeFrom resolves token from the named module's point of view.
func MustInvokeFrom[T any](tc *TestContainer, module, token string) T {
	tc.tb.Helper()

	v, err := loom.InvokeFrom[T](context.Background(), tc.Container, module, token)
	if err != nil {
		tc.tb.Fatalf("failed to invoke %s:%s: %v", module, token, err)
	}
	return v
}

// MustRun executes a pipeline run and fails the test if it ends in an error
// response.
func MustRun(tc *TestContainer, p *loom.Pipeline, pc *loom.PipelineContext) any {
	tc.tb.Helper()

	res := p.Run(pc)
	if res.Err != nil {
		tc.tb.Fatalf("pipeline run failed: %v", res.Err)
	}
	return res.Value
}
