// Package clique implements a branch-and-bound search for heavy cliques in
// a node-weighted graph.
//
// BranchAndBound enumerates cliques depth-first. Candidates are ordered by
// descending weight (index tiebreak) and every clique is generated exactly
// once by only extending with candidates that come later in that order.
//
// Pruning uses a greedy colouring bound: colour classes are independent
// sets, so a clique takes at most one node per class and the sum of the
// heaviest node of each class bounds what the candidates can still add.
// A node is pruned when current + bound ≤ max(incumbent, MinWeight-1).
//
// Reporting: at a leaf the current clique is checked for maximality against
// every positive-weight node; maximal cliques heavier than the incumbent are
// handed to the Callback, which decides whether they become the incumbent
// and whether the search stops. Rejected cliques leave the incumbent as is,
// so the search goes on to report further cliques.
//
// Complexity:
//   - Worst case exponential in n; MaxTreeNodes caps the work.
//   - Per node: O(|P|²) adjacency queries for the colouring bound.
package clique

import "sort"

// BranchAndBound is the default Oracle.
type BranchAndBound struct {
	opts Options
}

// NewBranchAndBound returns an oracle with DefaultOptions modified by opts.
func NewBranchAndBound(opts ...Option) *BranchAndBound {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return &BranchAndBound{opts: o}
}

// Options returns the effective options.
func (b *BranchAndBound) Options() Options { return b.opts }

// bbEngine holds the search state of one MaxClique call.
type bbEngine struct {
	n        int
	adj      func(i, j int) bool
	w        []int
	cb       Callback
	maxNodes int
	floor    int // report/prune threshold without incumbent

	nodes    int
	reported int
	limit    bool
	stopped  bool

	cur  []int
	curW int

	best  []int
	bestW int
	found bool
}

// threshold is the weight a clique must exceed to be interesting.
func (e *bbEngine) threshold() int {
	if e.found && e.bestW > e.floor {
		return e.bestW
	}

	return e.floor
}

// colourBound returns Σ max weight per greedy colour class of P.
// P is ordered by descending weight, so the first member of a class is its
// heaviest.
func (e *bbEngine) colourBound(P []int) int {
	var (
		classes [][]int
		bound   int
		placed  bool
	)
	for _, v := range P {
		placed = false
		for c := range classes {
			if e.independentOf(classes[c], v) {
				classes[c] = append(classes[c], v)
				placed = true
				break
			}
		}
		if !placed {
			classes = append(classes, []int{v})
			bound += e.w[v]
		}
	}

	return bound
}

func (e *bbEngine) independentOf(class []int, v int) bool {
	for _, u := range class {
		if e.adj(u, v) {
			return false
		}
	}

	return true
}

// maximal reports whether no positive-weight node extends cur.
func (e *bbEngine) maximal() bool {
	var (
		v, k int
		ok   bool
	)
	inCur := make(map[int]struct{}, len(e.cur))
	for _, v = range e.cur {
		inCur[v] = struct{}{}
	}
	for v = 0; v < e.n; v++ {
		if e.w[v] <= 0 {
			continue
		}
		if _, ok = inCur[v]; ok {
			continue
		}
		ok = true
		for k = range e.cur {
			if !e.adj(v, e.cur[k]) {
				ok = false
				break
			}
		}
		if ok {
			return false
		}
	}

	return true
}

// leaf handles a clique that cannot be extended by remaining candidates.
func (e *bbEngine) leaf() {
	if len(e.cur) == 0 || e.curW <= e.threshold() || !e.maximal() {
		return
	}
	e.reported++
	accept, stop := e.cb(e.cur, e.curW)
	if accept {
		e.best = append(e.best[:0], e.cur...)
		e.bestW = e.curW
		e.found = true
	}
	if stop {
		e.stopped = true
	}
}

// dfs extends cur with candidates P.
func (e *bbEngine) dfs(P []int) {
	e.nodes++
	if e.maxNodes > 0 && e.nodes > e.maxNodes {
		e.limit = true

		return
	}
	if len(P) == 0 {
		e.leaf()

		return
	}
	if e.curW+e.colourBound(P) <= e.threshold() {
		return
	}

	var (
		v, u int
		next []int
	)
	for i := range P {
		if e.stopped || e.limit {
			return
		}
		v = P[i]
		next = make([]int, 0, len(P)-i-1)
		for _, u = range P[i+1:] {
			if e.adj(v, u) {
				next = append(next, u)
			}
		}
		e.cur = append(e.cur, v)
		e.curW += e.w[v]
		e.dfs(next)
		e.cur = e.cur[:len(e.cur)-1]
		e.curW -= e.w[v]
	}
}

// MaxClique implements Oracle. Zero-weight nodes never enter a clique.
func (b *BranchAndBound) MaxClique(n int, adjacent func(i, j int) bool, weights []int, cb Callback) (Result, error) {
	if len(weights) != n {
		return Result{}, ErrWeightsMismatch
	}
	if adjacent == nil {
		return Result{}, ErrAdjacencyNil
	}
	P := make([]int, 0, n)
	for i, w := range weights {
		if w < 0 {
			return Result{}, ErrNegativeWeight
		}
		if w > 0 {
			P = append(P, i)
		}
	}
	sort.SliceStable(P, func(a, c int) bool { return weights[P[a]] > weights[P[c]] })

	if cb == nil {
		cb = func([]int, int) (bool, bool) { return true, false }
	}
	e := bbEngine{
		n:        n,
		adj:      adjacent,
		w:        weights,
		cb:       cb,
		maxNodes: b.opts.MaxTreeNodes,
		floor:    b.opts.MinWeight - 1,
	}
	if e.floor < 0 {
		e.floor = 0
	}
	e.dfs(P)

	res := Result{Weight: e.bestW, Nodes: e.nodes, Reported: e.reported, Status: StatusOptimal}
	if e.found {
		res.Clique = append([]int(nil), e.best...)
		sort.Ints(res.Clique)
	}
	switch {
	case e.stopped:
		res.Status = StatusStopped
	case e.limit:
		res.Status = StatusNodeLimit
	}

	return res, nil
}
