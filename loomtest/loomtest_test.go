package loomtest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/danpasecinic/loom"
	"github.com/danpasecinic/loom/loomtest"
)

type Config struct {
	Port int
	Host string
}

type Database struct {
	Config *Config
}

type UserRepository interface {
	FindByID(id int) string
}

type MockUserRepository struct {
	FindByIDFn func(id int) string
}

func (m *MockUserRepository) FindByID(id int) string {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(id)
	}
	return ""
}

func TestNew(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)
	if tc == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNewWithCleanup(t *testing.T) {
	t.Parallel()

	stopped := make(chan struct{})

	tc := loomtest.New(t)
	tc.MustRegister(
		loom.Class("Config", func(deps ...any) (any, error) {
			return &Config{Port: 8080}, nil
		}).OnStop(func(ctx context.Context) error {
			close(stopped)
			return nil
		}),
	)

	tc.RequireStart(context.Background())

	select {
	case <-stopped:
		t.Error("stop hook should not be called before test ends")
	default:
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)

	tc.MustRegister(
		loom.Value("Config", &Config{Port: 8080, Host: "localhost"}),
		loom.Class("Database", func(deps ...any) (any, error) {
			return &Database{Config: deps[0].(*Config)}, nil
		}, "Config"),
	)

	loomtest.Replace(tc, "Config", &Config{Port: 9090, Host: "testhost"})

	db := loomtest.MustInvoke[*Database](tc, "Database")
	if db.Config.Port != 9090 {
		t.Errorf("expected port 9090, got %d", db.Config.Port)
	}
	if db.Config.Host != "testhost" {
		t.Errorf("expected host testhost, got %s", db.Config.Host)
	}
}

func TestReplaceIn(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)

	store := loom.NewModule("store").
		Provide(loom.Value("Primary", &Config{Port: 5432})).
		Export("Primary")
	tc.MustApply(store)

	loomtest.ReplaceIn(tc, "store", "Primary", &Config{Port: 9999})

	primary := loomtest.MustInvokeFrom[*Config](tc, "store", "Primary")
	if primary.Port != 9999 {
		t.Errorf("expected port 9999, got %d", primary.Port)
	}
}

func TestReplaceDefinition(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)

	tc.MustRegister(loom.Class("Config", func(deps ...any) (any, error) {
		return &Config{Port: 8080}, nil
	}))

	callCount := 0
	loomtest.ReplaceDefinition(tc, loom.Class("Config", func(deps ...any) (any, error) {
		callCount++
		return &Config{Port: 3000}, nil
	}))

	cfg := loomtest.MustInvoke[*Config](tc, "Config")
	if cfg.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Port)
	}
	if callCount != 1 {
		t.Errorf("expected provider to be called once, got %d", callCount)
	}
}

func TestAssertHas(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)
	tc.MustRegister(loom.Value("Config", &Config{Port: 8080}))

	loomtest.AssertHas(tc, "Config")
}

func TestAssertHasIn(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)

	ledger := loom.NewModule("ledger").
		Provide(loom.Value("Ledger", "ledger")).
		Export("Ledger")
	billing := loom.NewModule("billing").Import(ledger)
	tc.MustApply(billing)

	loomtest.AssertHasIn(tc, "billing", "Ledger")
}

func TestAssertNotHas(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)
	loomtest.AssertNotHas(tc, "Config")
}

func TestRequireValidate(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)
	tc.MustRegister(loom.Value("Config", &Config{Port: 8080}))

	tc.RequireValidate()
}

func TestRequireStartStop(t *testing.T) {
	t.Parallel()

	started := false
	stopped := false

	tc := loomtest.New(t)
	tc.MustRegister(
		loom.Class("Config", func(deps ...any) (any, error) {
			return &Config{Port: 8080}, nil
		}).
			OnStart(func(ctx context.Context) error {
				started = true
				return nil
			}).
			OnStop(func(ctx context.Context) error {
				stopped = true
				return nil
			}),
	)

	ctx := context.Background()
	tc.RequireStart(ctx)
	if !started {
		t.Error("expected start hook to be called")
	}

	tc.RequireStop(ctx)
	if !stopped {
		t.Error("expected stop hook to be called")
	}
}

func TestMustInvoke(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)
	tc.MustRegister(loom.Value("Config", &Config{Port: 8080, Host: "localhost"}))

	cfg := loomtest.MustInvoke[*Config](tc, "Config")
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.Host != "localhost" {
		t.Errorf("expected host localhost, got %s", cfg.Host)
	}
}

func TestMockInjection(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)

	mock := &MockUserRepository{
		FindByIDFn: func(id int) string {
			return "mock-user"
		},
	}
	tc.MustRegister(loom.Value("UserRepository", UserRepository(mock)))

	repo := loomtest.MustInvoke[UserRepository](tc, "UserRepository")
	if got := repo.FindByID(1); got != "mock-user" {
		t.Errorf("expected 'mock-user', got '%s'", got)
	}
}

func TestReplaceWithMock(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)

	realRepo := &MockUserRepository{
		FindByIDFn: func(id int) string {
			return "real-user"
		},
	}
	tc.MustRegister(loom.Value("UserRepository", UserRepository(realRepo)))

	mockRepo := &MockUserRepository{
		FindByIDFn: func(id int) string {
			return "test-user-" + string(rune('0'+id))
		},
	}
	loomtest.Replace(tc, "UserRepository", UserRepository(mockRepo))

	repo := loomtest.MustInvoke[UserRepository](tc, "UserRepository")
	if got := repo.FindByID(5); got != "test-user-5" {
		t.Errorf("expected 'test-user-5', got '%s'", got)
	}
}

func TestProviderReturningError(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)
	expectedErr := errors.New("initialization failed")

	tc.MustRegister(loom.Class("Config", func(deps ...any) (any, error) {
		return nil, expectedErr
	}))

	_, err := loom.Invoke[*Config](tc.Container, "Config")
	if err == nil {
		t.Error("expected error from provider")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestDependencyChainWithReplacement(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)

	tc.MustRegister(
		loom.Value("Config", &Config{Port: 8080}),
		loom.Class("Database", func(deps ...any) (any, error) {
			return &Database{Config: deps[0].(*Config)}, nil
		}, "Config"),
	)

	loomtest.Replace(tc, "Config", &Config{Port: 3000})

	db := loomtest.MustInvoke[*Database](tc, "Database")
	if db.Config.Port != 3000 {
		t.Errorf("expected database to use replaced config with port 3000, got %d", db.Config.Port)
	}
}

func TestMustRun(t *testing.T) {
	t.Parallel()

	tc := loomtest.New(t)
	tc.MustRegister(loom.Value("Greeting", "hello"))

	h := loom.NewHandler("greet", func(pc *loom.PipelineContext, args []any) (any, error) {
		return loom.MustInvoke[string](tc.Container, "Greeting"), nil
	})

	p := loom.NewPipeline(tc.Container)
	pc := loom.NewPipelineContext(context.Background(), &loom.IncomingRequest{}, h)

	value := loomtest.MustRun(tc, p, pc)
	if value != "hello" {
		t.Errorf("expected hello, got %v", value)
	}
}
