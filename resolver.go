package loom

import (
	"context"
	"fmt"
)

// Resolver is the narrow read interface handed to decorators and stage
// implementations that need container access without the full Container.
type Resolver interface {
	Resolve(ctx context.Context, token string) (any, error)
	Has(token string) bool
}

// Invoke resolves token and asserts the result to T.
func Invoke[T any](c *Container, token string) (T, error) {
	return InvokeCtx[T](context.Background(), c, token)
}

func InvokeCtx[T any](ctx context.Context, c *Container, token string) (T, error) {
	var zero T

	instance, err := c.Resolve(ctx, token)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, NewError(
			ErrCodeResolutionFailed,
			fmt.Sprintf("token %s resolved to %T, not the requested type", token, instance),
			nil,
		).WithToken(token)
	}

	return typed, nil
}

// InvokeFrom resolves token from the named module's point of view.
func InvokeFrom[T any](ctx context.Context, c *Container, module, token string) (T, error) {
	var zero T

	instance, err := c.ResolveFrom(ctx, module, token)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, NewError(
			ErrCodeResolutionFailed,
			fmt.Sprintf("token %s resolved to %T, not the requested type", token, instance),
			nil,
		).WithToken(token)
	}

	return typed, nil
}

func MustInvoke[T any](c *Container, token string) T {
	v, err := Invoke[T](c, token)
	if err != nil {
		panic(err)
	}
	return v
}

func MustInvokeCtx[T any](ctx context.Context, c *Container, token string) T {
	v, err := InvokeCtx[T](ctx, c, token)
	if err != nil {
		panic(err)
	}
	return v
}

func TryInvoke[T any](c *Container, token string) (T, bool) {
	v, err := Invoke[T](c, token)
	return v, err == nil
}

// Optional carries a dependency that may or may not be resolvable.
type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func InvokeOptional[T any](c *Container, token string) Optional[T] {
	return InvokeOptionalCtx[T](context.Background(), c, token)
}

func InvokeOptionalCtx[T any](ctx context.Context, c *Container, token string) Optional[T] {
	if !c.Has(token) {
		return None[T]()
	}

	typed, err := InvokeCtx[T](ctx, c, token)
	if err != nil {
		return None[T]()
	}

	return Some(typed)
}

type resolverAdapter struct {
	container *Container
}

func (r *resolverAdapter) Resolve(ctx context.Context, token string) (any, error) {
	return r.container.Resolve(ctx, token)
}

func (r *resolverAdapter) Has(token string) bool {
	return r.container.Has(token)
}
