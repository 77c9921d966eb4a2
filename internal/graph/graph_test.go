package graph

import (
	"errors"
	"testing"
)

func TestGraph_AddNode(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"B", "C"})

	if !g.HasNode("A") {
		t.Error("node A should exist")
	}

	edges := g.Edges("A")
	if len(edges) != 2 {
		t.Errorf("expected 2 edges, got %d", len(edges))
	}
}

func TestGraph_RemoveNode(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", nil)
	g.AddNode("B", nil)

	g.RemoveNode("A")

	if g.HasNode("A") {
		t.Error("node A should not exist after removal")
	}
	if !g.HasNode("B") {
		t.Error("node B should still exist")
	}
}

func TestGraph_Dependents(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"C"})
	g.AddNode("B", []string{"C"})
	g.AddNode("C", nil)

	dependents := g.Dependents("C")
	if len(dependents) != 2 {
		t.Errorf("expected 2 dependents, got %d", len(dependents))
	}
}

func TestGraph_Missing(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"B", "C"})
	g.AddNode("B", nil)

	missing := g.Missing()
	if len(missing) != 1 || missing[0] != "C" {
		t.Errorf("expected missing dependency C, got %v", missing)
	}
}

func TestGraph_HasCycle_NoCycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"B"})
	g.AddNode("B", []string{"C"})
	g.AddNode("C", nil)

	if g.HasCycle() {
		t.Error("should not have cycle")
	}
}

func TestGraph_HasCycle_SimpleCycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"B"})
	g.AddNode("B", nil)

	if g.HasCycle() {
		t.Error("should not have cycle")
	}

	g.AddNode("B", []string{"A"})
	if !g.HasCycle() {
		t.Error("should have cycle")
	}
}

func TestGraph_HasCycle_SelfCycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"A"})

	if !g.HasCycle() {
		t.Error("self-reference should be a cycle")
	}
}

func TestGraph_HasCycle_IgnoresMissingEdges(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"Missing"})

	if g.HasCycle() {
		t.Error("an edge to a nonexistent node is not a cycle")
	}
}

func TestGraph_CyclePath(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"B"})
	g.AddNode("B", []string{"C"})
	g.AddNode("C", []string{"A"})

	path := g.CyclePath("A")
	if len(path) == 0 {
		t.Fatal("expected cycle path")
	}

	if path[0] != path[len(path)-1] {
		t.Error("cycle path should start and end with same node")
	}

	if len(path) != 4 {
		t.Errorf("expected full cycle A -> B -> C -> A, got %v", path)
	}
}

func TestGraph_CyclePath_NoCycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"B"})
	g.AddNode("B", nil)

	if path := g.CyclePath("A"); path != nil {
		t.Errorf("expected nil path, got %v", path)
	}
}

func TestGraph_CyclePaths(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"B"})
	g.AddNode("B", []string{"A"})
	g.AddNode("C", []string{"D"})
	g.AddNode("D", []string{"C"})
	g.AddNode("E", nil)

	paths := g.CyclePaths()
	if len(paths) != 2 {
		t.Errorf("expected 2 cycle paths, got %d: %v", len(paths), paths)
	}
}

func TestGraph_TopologicalSort(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"B", "C"})
	g.AddNode("B", []string{"D"})
	g.AddNode("C", []string{"D"})
	g.AddNode("D", nil)

	sorted, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sorted) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(sorted))
	}

	indexOf := func(s []string, v string) int {
		for i, x := range s {
			if x == v {
				return i
			}
		}
		return -1
	}

	if indexOf(sorted, "D") > indexOf(sorted, "B") {
		t.Error("D should come before B")
	}
	if indexOf(sorted, "D") > indexOf(sorted, "C") {
		t.Error("D should come before C")
	}
	if indexOf(sorted, "B") > indexOf(sorted, "A") {
		t.Error("B should come before A")
	}
}

func TestGraph_TopologicalSort_WithCycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("A", []string{"B"})
	g.AddNode("B", []string{"A"})

	_, err := g.TopologicalSort()
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got %v", err)
	}
}

func TestGraph_StartupOrder(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("App", []string{"Server", "Database"})
	g.AddNode("Server", []string{"Config"})
	g.AddNode("Database", []string{"Config"})
	g.AddNode("Config", nil)

	order, err := g.StartupOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	indexOf := func(s []string, v string) int {
		for i, x := range s {
			if x == v {
				return i
			}
		}
		return -1
	}

	if indexOf(order, "Config") > indexOf(order, "Server") {
		t.Error("Config should start before Server")
	}
	if indexOf(order, "Config") > indexOf(order, "Database") {
		t.Error("Config should start before Database")
	}
	if indexOf(order, "Server") > indexOf(order, "App") {
		t.Error("Server should start before App")
	}
}

func TestGraph_ShutdownOrder(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("App", []string{"Server"})
	g.AddNode("Server", []string{"Database"})
	g.AddNode("Database", nil)

	order, err := g.ShutdownOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	indexOf := func(s []string, v string) int {
		for i, x := range s {
			if x == v {
				return i
			}
		}
		return -1
	}

	if indexOf(order, "App") > indexOf(order, "Server") {
		t.Error("App should shutdown before Server")
	}
	if indexOf(order, "Server") > indexOf(order, "Database") {
		t.Error("Server should shutdown before Database")
	}
}

func BenchmarkGraph_HasCycle(b *testing.B) {
	g := New()
	for i := 0; i < 100; i++ {
		var deps []string
		if i > 0 {
			deps = []string{string(rune('A' + i - 1))}
		}
		g.AddNode(string(rune('A'+i)), deps)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g.AddNode("A", nil)
		g.HasCycle()
	}
}

func BenchmarkGraph_TopologicalSort(b *testing.B) {
	g := New()
	for i := 0; i < 100; i++ {
		var deps []string
		if i > 0 {
			deps = []string{string(rune('A' + i - 1))}
		}
		g.AddNode(string(rune('A'+i)), deps)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = g.TopologicalSort()
	}
}
