package loom

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

type testCounter struct {
	id int
}

func TestScope_Singleton(t *testing.T) {
	t.Parallel()

	c := New()

	var callCount atomic.Int32

	_ = c.Register(
		Class("Counter", func(deps ...any) (any, error) {
			callCount.Add(1)
			return &testCounter{id: int(callCount.Load())}, nil
		}),
	)

	first, _ := Invoke[*testCounter](c, "Counter")
	second, _ := Invoke[*testCounter](c, "Counter")
	third, _ := Invoke[*testCounter](c, "Counter")

	if first != second || second != third {
		t.Error("singleton should return same instance")
	}

	if callCount.Load() != 1 {
		t.Errorf("expected provider to be called once, got %d", callCount.Load())
	}
}

func TestScope_SingletonConcurrent(t *testing.T) {
	t.Parallel()

	c := New()

	var callCount atomic.Int32

	_ = c.Register(
		Class("Counter", func(deps ...any) (any, error) {
			callCount.Add(1)
			return &testCounter{id: int(callCount.Load())}, nil
		}),
	)

	const goroutines = 50

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		instances = make(map[*testCounter]bool)
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			instance, err := Invoke[*testCounter](c, "Counter")
			if err != nil {
				t.Errorf("Invoke failed: %v", err)
				return
			}

			mu.Lock()
			instances[instance] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if callCount.Load() != 1 {
		t.Errorf("expected exactly one construction, got %d", callCount.Load())
	}
	if len(instances) != 1 {
		t.Errorf("expected all goroutines to share one instance, got %d", len(instances))
	}
}

func TestScope_Transient(t *testing.T) {
	t.Parallel()

	c := New()

	var callCount atomic.Int32

	_ = c.Register(
		Class("Counter", func(deps ...any) (any, error) {
			callCount.Add(1)
			return &testCounter{id: int(callCount.Load())}, nil
		}).WithScope(Transient),
	)

	first, _ := Invoke[*testCounter](c, "Counter")
	second, _ := Invoke[*testCounter](c, "Counter")
	third, _ := Invoke[*testCounter](c, "Counter")

	if first == second || second == third {
		t.Error("transient should return different instances")
	}

	if first.id == second.id || second.id == third.id {
		t.Error("transient instances should have different ids")
	}

	if callCount.Load() != 3 {
		t.Errorf("expected provider to be called 3 times, got %d", callCount.Load())
	}
}

func TestScope_Request(t *testing.T) {
	t.Parallel()

	c := New()

	var callCount atomic.Int32

	_ = c.Register(
		Class("Counter", func(deps ...any) (any, error) {
			callCount.Add(1)
			return &testCounter{id: int(callCount.Load())}, nil
		}).WithScope(Request),
	)

	ctx1 := WithRequestScope(context.Background())
	ctx2 := WithRequestScope(context.Background())

	first1, _ := InvokeCtx[*testCounter](ctx1, c, "Counter")
	second1, _ := InvokeCtx[*testCounter](ctx1, c, "Counter")

	first2, _ := InvokeCtx[*testCounter](ctx2, c, "Counter")
	second2, _ := InvokeCtx[*testCounter](ctx2, c, "Counter")

	if first1 != second1 {
		t.Error("same request scope should return same instance")
	}

	if first2 != second2 {
		t.Error("same request scope should return same instance")
	}

	if first1 == first2 {
		t.Error("different request scopes should return different instances")
	}

	if callCount.Load() != 2 {
		t.Errorf("expected provider to be called 2 times, got %d", callCount.Load())
	}
}

func TestScope_Request_NoScope(t *testing.T) {
	t.Parallel()

	c := New()

	_ = c.Register(
		Class("Counter", func(deps ...any) (any, error) {
			return &testCounter{id: 1}, nil
		}).WithScope(Request),
	)

	_, err := InvokeCtx[*testCounter](context.Background(), c, "Counter")
	if err == nil {
		t.Error("expected error when request scope not in context")
	}
}

func TestScope_Request_InsidePipeline(t *testing.T) {
	t.Parallel()

	c := New()

	var callCount atomic.Int32

	_ = c.Register(
		Class("Counter", func(deps ...any) (any, error) {
			callCount.Add(1)
			return &testCounter{id: int(callCount.Load())}, nil
		}).WithScope(Request),
	)

	p := NewPipeline(c)

	handler := NewHandler("counters", func(pc *PipelineContext, args []any) (any, error) {
		first, err := InvokeCtx[*testCounter](pc.Context(), c, "Counter")
		if err != nil {
			return nil, err
		}
		second, err := InvokeCtx[*testCounter](pc.Context(), c, "Counter")
		if err != nil {
			return nil, err
		}
		return first == second, nil
	})

	res := p.Run(NewPipelineContext(context.Background(), nil, handler))
	if !res.OK() {
		t.Fatalf("run failed: %v", res.Err)
	}
	if res.Value != true {
		t.Error("resolutions within one run should share the request instance")
	}

	res = p.Run(NewPipelineContext(context.Background(), nil, handler))
	if !res.OK() {
		t.Fatalf("second run failed: %v", res.Err)
	}

	if callCount.Load() != 2 {
		t.Errorf("expected one construction per run, got %d", callCount.Load())
	}
}

func TestScope_TransientDependencyOfSingleton(t *testing.T) {
	t.Parallel()

	c := New()

	var callCount atomic.Int32

	_ = c.Register(
		Class("Counter", func(deps ...any) (any, error) {
			callCount.Add(1)
			return &testCounter{id: int(callCount.Load())}, nil
		}).WithScope(Transient),
		Class("HolderA", func(deps ...any) (any, error) {
			return deps[0], nil
		}, "Counter"),
		Class("HolderB", func(deps ...any) (any, error) {
			return deps[0], nil
		}, "Counter"),
	)

	a, _ := Invoke[*testCounter](c, "HolderA")
	b, _ := Invoke[*testCounter](c, "HolderB")

	if a == b {
		t.Error("each dependent should get its own transient instance")
	}
	if callCount.Load() != 2 {
		t.Errorf("expected 2 constructions, got %d", callCount.Load())
	}
}
