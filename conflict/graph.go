package conflict

import (
	"sort"

	"github.com/spjmurray/go-util/pkg/set"
	"github.com/spjmurray/go-util/pkg/slices"

	"github.com/katalvlaran/sos1/mip"
)

// Graph is the undirected conflict graph over SOS1 member variables.
type Graph struct {
	nodes []Node
	succ  [][]int
	index map[int]int // Var.Index → node id
	edges int
}

// Build creates the conflict graph of the given constraint member lists.
//
// Variables with StatusFixed and nil entries get no node. Members of one list
// become pairwise adjacent; a variable listed twice in the same list gets no
// self loop. An empty input yields an empty, usable graph.
func Build(vars [][]mip.Var) *Graph {
	g := &Graph{index: make(map[int]int)}

	var (
		ids []int
		v   mip.Var
		id  int
		ok  bool
	)
	// 1. Dense ids in first occurrence order.
	for _, list := range vars {
		for _, v = range list {
			if v == nil || v.Status() == mip.StatusFixed {
				continue
			}
			if _, ok = g.index[v.Index()]; ok {
				continue
			}
			g.index[v.Index()] = len(g.nodes)
			g.nodes = append(g.nodes, Node{Var: v})
		}
	}

	// 2. Pairwise edges, deduplicated per node.
	adj := make([]set.Set[int], len(g.nodes))
	for i := range adj {
		adj[i] = set.New[int]()
	}
	for _, list := range vars {
		ids = ids[:0]
		for _, v = range list {
			if v == nil {
				continue
			}
			if id, ok = g.index[v.Index()]; ok {
				ids = append(ids, id)
			}
		}
		for a, b := range slices.Permute(ids) {
			if a == b {
				continue
			}
			adj[a].Add(b)
			adj[b].Add(a)
		}
	}

	// 3. Sorted successor arrays.
	g.succ = make([][]int, len(g.nodes))
	for i := range adj {
		row := make([]int, 0)
		for j := range adj[i].All() {
			row = append(row, j)
		}
		sort.Ints(row)
		g.succ[i] = row
		g.edges += len(row)
	}
	g.edges /= 2

	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Node returns the node with id i. The pointer stays valid for the lifetime
// of the graph.
func (g *Graph) Node(i int) *Node { return &g.nodes[i] }

// Successors returns the sorted neighbour ids of node i. Callers must not
// modify the slice.
func (g *Graph) Successors(i int) []int { return g.succ[i] }

// Degree returns the number of neighbours of node i.
func (g *Graph) Degree(i int) int { return len(g.succ[i]) }

// Adjacent reports whether nodes i and j share an edge.
// Complexity: O(log deg(i)).
func (g *Graph) Adjacent(i, j int) bool {
	row := g.succ[i]
	k := sort.SearchInts(row, j)

	return k < len(row) && row[k] == j
}

// NodeOf returns the node id of v.
func (g *Graph) NodeOf(v mip.Var) (int, bool) {
	if v == nil {
		return -1, false
	}
	id, ok := g.index[v.Index()]

	return id, ok
}

// NodesOf maps vars to node ids; variables without a node map to -1.
func (g *Graph) NodesOf(vars []mip.Var) []int {
	ids := make([]int, len(vars))
	for i, v := range vars {
		id, ok := g.NodeOf(v)
		if !ok {
			id = -1
		}
		ids[i] = id
	}

	return ids
}

// Edges lists every edge once as {i, j} with i < j, ordered by i then j.
func (g *Graph) Edges() [][2]int {
	out := make([][2]int, 0, g.edges)
	for i, row := range g.succ {
		for _, j := range row {
			if i < j {
				out = append(out, [2]int{i, j})
			}
		}
	}

	return out
}

// Components returns the connected components, each in discovery order,
// components ordered by their smallest node id.
// Complexity: O(V + E) with an explicit stack.
func (g *Graph) Components() [][]int {
	var (
		seen  = make([]bool, len(g.nodes))
		stack []int
		comps [][]int
		u     int
	)
	for start := range g.nodes {
		if seen[start] {
			continue
		}
		comp := []int{}
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			u = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, u)
			for _, w := range g.succ[u] {
				if !seen[w] {
					seen[w] = true
					stack = append(stack, w)
				}
			}
		}
		comps = append(comps, comp)
	}

	return comps
}
