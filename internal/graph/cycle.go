package graph

// HasCycle reports whether any directed cycle exists. The answer is cached
// until the node set changes.
func (g *Graph) HasCycle() bool {
	g.mu.RLock()
	if g.cycleValid {
		result := g.hasCycle
		g.mu.RUnlock()
		return result
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cycleValid {
		return g.hasCycle
	}

	g.hasCycle = g.hasCycleLocked()
	g.cycleValid = true
	return g.hasCycle
}

func (g *Graph) hasCycleLocked() bool {
	unvisited := make(map[string]bool, len(g.nodes))
	inProgress := make(map[string]bool, len(g.nodes))

	for id := range g.nodes {
		unvisited[id] = true
	}

	var dfs func(id string) bool
	dfs = func(id string) bool {
		unvisited[id] = false
		inProgress[id] = true

		for _, edge := range g.edges[id] {
			if _, exists := g.nodes[edge]; !exists {
				continue
			}
			if inProgress[edge] {
				return true
			}
			if unvisited[edge] && dfs(edge) {
				return true
			}
		}

		inProgress[id] = false
		return false
	}

	for id := range g.nodes {
		if unvisited[id] && dfs(id) {
			return true
		}
	}

	return false
}

// CyclePath returns one cycle reachable from start as a path ending on the
// repeated node, e.g. [A B A]. Returns nil if no cycle is reachable.
func (g *Graph) CyclePath(start string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool)
	var path []string
	onPath := make(map[string]bool)

	var dfs func(id string) []string
	dfs = func(id string) []string {
		if onPath[id] {
			var cycle []string
			found := false
			for _, p := range path {
				if p == id {
					found = true
				}
				if found {
					cycle = append(cycle, p)
				}
			}
			return append(cycle, id)
		}

		if visited[id] {
			return nil
		}

		visited[id] = true
		path = append(path, id)
		onPath[id] = true

		for _, edge := range g.edges[id] {
			if _, exists := g.nodes[edge]; !exists {
				continue
			}
			if cycle := dfs(edge); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		onPath[id] = false
		return nil
	}

	return dfs(start)
}

// CyclePaths returns one representative path per strongly connected
// component that forms a cycle.
func (g *Graph) CyclePaths() [][]string {
	components := g.cyclicComponents()
	if len(components) == 0 {
		return nil
	}

	var paths [][]string
	for _, component := range components {
		if path := g.CyclePath(component[0]); path != nil {
			paths = append(paths, path)
		}
	}
	return paths
}

// cyclicComponents runs Tarjan's algorithm and keeps only the strongly
// connected components that actually contain a cycle (size > 1, or a
// self-edge).
func (g *Graph) cyclicComponents() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t := &tarjan{
		graph:   g,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for id := range g.nodes {
		if _, visited := t.indices[id]; !visited {
			t.connect(id)
		}
	}

	var cycles [][]string
	for _, component := range t.components {
		if len(component) > 1 {
			cycles = append(cycles, component)
			continue
		}
		id := component[0]
		for _, edge := range g.edges[id] {
			if edge == id {
				cycles = append(cycles, component)
				break
			}
		}
	}

	return cycles
}

type tarjan struct {
	graph      *Graph
	index      int
	stack      []string
	onStack    map[string]bool
	indices    map[string]int
	lowlink    map[string]int
	components [][]string
}

func (t *tarjan) connect(id string) {
	t.indices[id] = t.index
	t.lowlink[id] = t.index
	t.index++
	t.stack = append(t.stack, id)
	t.onStack[id] = true

	for _, edge := range t.graph.edges[id] {
		if _, exists := t.graph.nodes[edge]; !exists {
			continue
		}

		if _, visited := t.indices[edge]; !visited {
			t.connect(edge)
			t.lowlink[id] = min(t.lowlink[id], t.lowlink[edge])
		} else if t.onStack[edge] {
			t.lowlink[id] = min(t.lowlink[id], t.indices[edge])
		}
	}

	if t.lowlink[id] == t.indices[id] {
		var component []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			component = append(component, w)
			if w == id {
				break
			}
		}
		t.components = append(t.components, component)
	}
}
