package graph

import "sync"

type Node struct {
	ID    string
	Edges []string
}

// Graph is a directed dependency graph. Nodes are provider tokens or module
// names; an edge A -> B means A depends on (or imports) B.
type Graph struct {
	mu         sync.RWMutex
	nodes      map[string]*Node
	edges      map[string][]string
	cycleValid bool
	hasCycle   bool
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string][]string),
	}
}

func (g *Graph) AddNode(id string, edges []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[id] = &Node{ID: id, Edges: edges}
	g.edges[id] = edges
	g.cycleValid = false
}

func (g *Graph) RemoveNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.nodes, id)
	delete(g.edges, id)
	g.cycleValid = false
}

func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.nodes[id]
	return exists
}

func (g *Graph) Edges(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges, exists := g.edges[id]
	if !exists {
		return nil
	}

	result := make([]string, len(edges))
	copy(result, edges)
	return result
}

// Dependents returns the nodes that point at id.
func (g *Graph) Dependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for nodeID, edges := range g.edges {
		for _, edge := range edges {
			if edge == id {
				dependents = append(dependents, nodeID)
				break
			}
		}
	}
	return dependents
}

func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, id)
	}
	return nodes
}

func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// Missing returns edge targets that have no corresponding node.
func (g *Graph) Missing() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []string
	seen := make(map[string]bool)

	for _, edges := range g.edges {
		for _, edge := range edges {
			if _, exists := g.nodes[edge]; !exists && !seen[edge] {
				missing = append(missing, edge)
				seen[edge] = true
			}
		}
	}

	return missing
}
