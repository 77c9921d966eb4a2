package loom

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danpasecinic/loom/internal/container"
)

type GraphInfo struct {
	Providers []ProviderInfo
}

type ProviderInfo struct {
	Token        string
	Module       string
	Kind         string
	Scope        string
	Dependencies []string
	Dependents   []string
	Instantiated bool
	Lazy         bool
}

// Graph returns a structured snapshot of every registered provider with its
// resolved dependency edges.
func (c *Container) Graph() GraphInfo {
	snapshot := c.internal.Snapshot()

	providers := make([]ProviderInfo, 0, len(snapshot))
	for _, info := range snapshot {
		providers = append(providers, ProviderInfo(info))
	}

	return GraphInfo{Providers: providers}
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *Container) SprintGraph() string {
	var b strings.Builder
	c.FprintGraph(&b)
	return b.String()
}

func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Providers) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, p := range info.Providers {
		key := p.Token
		if p.Module != container.RootModule {
			key = p.Module + ":" + p.Token
		}

		marker := " "
		if p.Instantiated {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %s [%s, %s]\n", marker, key, p.Kind, p.Scope)

		for _, dep := range p.Dependencies {
			_, _ = fmt.Fprintf(w, "    -> %s\n", dep)
		}
	}
}

// PrintGraphDOT writes the provider graph in Graphviz DOT format.
func (c *Container) PrintGraphDOT() {
	c.FprintGraphDOT(os.Stdout)
}

func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph providers {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")

	for _, p := range info.Providers {
		key := p.Token
		if p.Module != container.RootModule {
			key = p.Module + ":" + p.Token
		}

		shape := "ellipse"
		if p.Instantiated {
			shape = "box"
		}
		_, _ = fmt.Fprintf(w, "  %q [shape=%s];\n", key, shape)

		for _, dep := range p.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", key, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}
