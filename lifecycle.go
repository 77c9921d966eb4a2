package loom

import "context"

// Hook runs at container start or stop on behalf of one provider.
type Hook func(ctx context.Context) error
