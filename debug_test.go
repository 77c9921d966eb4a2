package loom_test

import (
	"context"
	"strings"
	"testing"

	"github.com/danpasecinic/loom"
)

func newGraphContainer(t *testing.T) *loom.Container {
	t.Helper()

	c := loom.New()
	err := c.Register(
		loom.Value("Config", &Config{Port: 8080}),
		loom.Class("Database", func(deps ...any) (any, error) {
			return &Database{Config: deps[0].(*Config)}, nil
		}, "Config"),
		loom.Class("Server", func(deps ...any) (any, error) {
			return &Server{DB: deps[0].(*Database)}, nil
		}, "Database"),
	)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return c
}

func TestGraphInfo(t *testing.T) {
	t.Parallel()

	c := newGraphContainer(t)

	info := c.Graph()
	if len(info.Providers) != 3 {
		t.Fatalf("expected 3 providers, got %d", len(info.Providers))
	}

	byToken := make(map[string]loom.ProviderInfo)
	for _, p := range info.Providers {
		byToken[p.Token] = p
	}

	db := byToken["Database"]
	if len(db.Dependencies) != 1 || db.Dependencies[0] != "Config" {
		t.Errorf("expected Database to depend on Config, got %v", db.Dependencies)
	}
	if len(db.Dependents) != 1 || db.Dependents[0] != "Server" {
		t.Errorf("expected Server to depend on Database, got %v", db.Dependents)
	}

	cfg := byToken["Config"]
	if !cfg.Instantiated {
		t.Error("value providers are instantiated at registration")
	}
	if cfg.Kind != "value" {
		t.Errorf("expected kind value, got %s", cfg.Kind)
	}

	srv := byToken["Server"]
	if srv.Instantiated {
		t.Error("Server should not be instantiated before resolution")
	}
	if srv.Scope != "singleton" {
		t.Errorf("expected singleton scope, got %s", srv.Scope)
	}
}

func TestSprintGraph(t *testing.T) {
	t.Parallel()

	c := newGraphContainer(t)

	out := c.SprintGraph()

	for _, token := range []string{"Config", "Database", "Server"} {
		if !strings.Contains(out, token) {
			t.Errorf("graph output should contain %s:\n%s", token, out)
		}
	}
	if !strings.Contains(out, "-> Config") {
		t.Errorf("graph output should show dependency edges:\n%s", out)
	}
}

func TestSprintGraphMarksInstantiated(t *testing.T) {
	t.Parallel()

	c := newGraphContainer(t)

	_, err := c.Resolve(context.Background(), "Server")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	out := c.SprintGraph()
	if !strings.Contains(out, "* Server") {
		t.Errorf("instantiated providers should be marked:\n%s", out)
	}
}

func TestSprintGraphEmpty(t *testing.T) {
	t.Parallel()

	c := loom.New()

	out := c.SprintGraph()
	if !strings.Contains(out, "empty") {
		t.Errorf("expected empty container notice, got %q", out)
	}
}

func TestGraphDOT(t *testing.T) {
	t.Parallel()

	c := newGraphContainer(t)

	var b strings.Builder
	c.FprintGraphDOT(&b)
	out := b.String()

	if !strings.Contains(out, "digraph providers {") {
		t.Errorf("expected DOT header, got:\n%s", out)
	}
	if !strings.Contains(out, `"Database" -> "Config";`) {
		t.Errorf("expected DOT edge, got:\n%s", out)
	}
}

func TestGraphModuleQualifiedKeys(t *testing.T) {
	t.Parallel()

	c := loom.New()

	mod := loom.NewModule("store").
		Provide(loom.Value("Repo", "repo"))
	if err := c.Apply(mod); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	out := c.SprintGraph()
	if !strings.Contains(out, "store:Repo") {
		t.Errorf("module providers should be shown with qualified keys:\n%s", out)
	}
}
