package container

import "context"

type DecoratorFunc func(ctx context.Context, r Resolver, instance any) (any, error)

// AddDecorator registers a decorator for the qualified token. Decorators run
// in registration order after the provider constructs an instance.
func (c *Container) AddDecorator(key string, decorator DecoratorFunc) {
	c.decoratorsMu.Lock()
	defer c.decoratorsMu.Unlock()

	c.decorators[key] = append(c.decorators[key], decorator)
}

func (c *Container) applyDecorators(ctx context.Context, key string, instance any) (any, error) {
	c.decoratorsMu.RLock()
	decorators := c.decorators[key]
	c.decoratorsMu.RUnlock()

	if len(decorators) == 0 {
		return instance, nil
	}

	var err error
	for _, decorator := range decorators {
		instance, err = decorator(ctx, c, instance)
		if err != nil {
			return nil, errDecoratorFailed(key, err)
		}
	}

	return instance, nil
}
