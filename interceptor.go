package loom

import (
	"fmt"
	"sync"
	"time"
)

// TimeoutInterceptor races the downstream continuation against a deadline.
// On expiry it raises the pipeline's cancellation signal and fails with a
// timeout error; the in-flight continuation observes the cancellation
// through the context.
func TimeoutInterceptor(limit time.Duration) Interceptor {
	return InterceptorFunc(func(pc *PipelineContext, next CallHandler) (any, error) {
		type outcome struct {
			value any
			err   error
		}
		done := make(chan outcome, 1)

		go func() {
			value, err := next()
			done <- outcome{value: value, err: err}
		}()

		timer := time.NewTimer(limit)
		defer timer.Stop()

		select {
		case out := <-done:
			return out.value, out.err
		case <-timer.C:
			pc.Cancel()
			return nil, ErrTimeout(fmt.Sprintf("handler exceeded %s", limit))
		}
	})
}

// RetryInterceptor re-invokes the continuation on failure, up to attempts
// total invocations. The executor itself never retries; retry is always an
// explicitly configured interceptor.
func RetryInterceptor(attempts int) Interceptor {
	if attempts < 1 {
		attempts = 1
	}
	return InterceptorFunc(func(pc *PipelineContext, next CallHandler) (any, error) {
		var (
			value any
			err   error
		)
		for i := 0; i < attempts; i++ {
			if ctxErr := contextError(pc); ctxErr != nil {
				return nil, ctxErr
			}
			value, err = next()
			if err == nil {
				return value, nil
			}
		}
		return nil, err
	})
}

// CacheInterceptor returns a cached result without invoking the
// continuation at all when the key function hits; successful results are
// stored under their key. A nil key skips caching for that request.
func CacheInterceptor(key func(pc *PipelineContext) string) Interceptor {
	var (
		mu      sync.RWMutex
		results = make(map[string]any)
	)

	return InterceptorFunc(func(pc *PipelineContext, next CallHandler) (any, error) {
		k := key(pc)
		if k == "" {
			return next()
		}

		mu.RLock()
		cached, ok := results[k]
		mu.RUnlock()
		if ok {
			return cached, nil
		}

		value, err := next()
		if err != nil {
			return nil, err
		}

		mu.Lock()
		results[k] = value
		mu.Unlock()
		return value, nil
	})
}

// TransformInterceptor maps the downstream result on the way back out.
func TransformInterceptor(transform func(pc *PipelineContext, value any) any) Interceptor {
	return InterceptorFunc(func(pc *PipelineContext, next CallHandler) (any, error) {
		value, err := next()
		if err != nil {
			return nil, err
		}
		return transform(pc, value), nil
	})
}
