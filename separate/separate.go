// Package separate finds violated cliques of the conflict graph and turns
// them into local bound cuts.
//
// Every round recomputes integer node weights
//
//	w_i = round(scale · |x_i| / |b_i|)
//
// where b_i is the local bound on the side of x_i's sign, or coef_i·z when
// strengthening and the node carries a component-unique relation; zero or
// infinite bounds give weight 0. The clique oracle then reports heavy cliques
// and a clique whose unscaled weight Σ |x_i|/|b_i| exceeds 1 yields up to two
// bound cuts.
//
// Budget policy inside the oracle callback:
//
//	accept as incumbent  iff  cuts > budget/2
//	stop                 iff  cuts ≥ budget
//
// so the search keeps looking for different violated cliques until half the
// budget is spent.
package separate

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/sos1/clique"
	"github.com/katalvlaran/sos1/conflict"
	"github.com/katalvlaran/sos1/cuts"
	"github.com/katalvlaran/sos1/mip"
)

// Separator owns the weighted auxiliary graph of one search.
type Separator struct {
	g      *conflict.Graph
	nodes  []int // auxiliary id → conflict node id
	oracle clique.Oracle
	scale  float64
	tol    mip.Tolerances
	log    *log.Logger
	str    bool

	weights []int
	ratio   []float64 // unscaled weights
	rounds  int
}

// New builds the auxiliary graph over nodes of g whose variables are neither
// StatusSum nor StatusFixed.
func New(g *conflict.Graph, opts ...Option) (*Separator, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if !(o.Scale > 0) {
		return nil, ErrBadScale
	}
	if o.Oracle == nil {
		o.Oracle = clique.NewBranchAndBound(
			clique.WithMaxTreeNodes(o.MaxTreeNodes),
			clique.WithMinWeight(int(o.Scale)),
		)
	}

	s := &Separator{
		g:      g,
		oracle: o.Oracle,
		scale:  o.Scale,
		tol:    o.Tolerances,
		log:    o.Logger,
		str:    o.Strengthen,
	}
	var st mip.Status
	for i := 0; i < g.Len(); i++ {
		st = g.Node(i).Var.Status()
		if st == mip.StatusSum || st == mip.StatusFixed {
			continue
		}
		s.nodes = append(s.nodes, i)
	}
	s.weights = make([]int, len(s.nodes))
	s.ratio = make([]float64, len(s.nodes))

	return s, nil
}

// Len returns the number of auxiliary nodes.
func (s *Separator) Len() int { return len(s.nodes) }

// GraphNode maps an auxiliary id to its conflict node id.
func (s *Separator) GraphNode(k int) int { return s.nodes[k] }

// Weights recomputes and returns the integer node weights at sol. The slice
// is owned by the Separator.
// Complexity: O(Len).
func (s *Separator) Weights(sol mip.Solution) []int {
	var (
		n    *conflict.Node
		x, b float64
	)
	for k, i := range s.nodes {
		n = s.g.Node(i)
		x = sol.Value(n.Var)
		s.weights[k], s.ratio[k] = 0, 0
		if s.tol.IsFeasZero(x) {
			continue
		}
		switch {
		case s.str && x > 0 && n.UniqueUB && n.UBVar != nil:
			b = n.UBCoef * sol.Value(n.UBVar)
		case s.str && x < 0 && n.UniqueLB && n.LBVar != nil:
			b = n.LBCoef * sol.Value(n.LBVar)
		case x > 0:
			b = n.Var.UB()
		default:
			b = n.Var.LB()
		}
		if s.tol.IsFeasZero(b) || s.tol.IsInfinity(b) {
			continue
		}
		s.ratio[k] = math.Abs(x) / math.Abs(b)
		s.weights[k] = int(math.Round(s.scale * s.ratio[k]))
	}

	return s.weights
}

// Separate runs one clique separation round at sol and hands every cut to
// sink. budget ≤ 0 disables the round.
func (s *Separator) Separate(sol mip.Solution, sink mip.RowSink, budget int) (Result, error) {
	var res Result
	if budget <= 0 || len(s.nodes) < 2 {
		return res, nil
	}
	s.rounds++
	s.Weights(sol)

	var (
		cbErr   error
		members []cuts.Member
	)
	adj := func(a, b int) bool { return s.g.Adjacent(s.nodes[a], s.nodes[b]) }
	cb := func(cl []int, weight int) (bool, bool) {
		res.Cliques++
		var sum float64
		for _, k := range cl {
			sum += s.ratio[k]
		}
		if s.tol.IsEfficacious(sum - 1) {
			res.Violated++
			members = members[:0]
			for _, k := range cl {
				members = append(members, cuts.Member{Var: s.g.Node(s.nodes[k]).Var, Node: s.g.Node(s.nodes[k])})
			}
			n, err := s.addCuts(members, sol, sink, res.Violated, budget-res.Cuts)
			res.Cuts += n
			if err != nil {
				cbErr = err

				return false, true
			}
		}

		return res.Cuts > budget/2, res.Cuts >= budget
	}

	cr, err := s.oracle.MaxClique(len(s.nodes), adj, s.weights, cb)
	if err != nil {
		return res, fmt.Errorf("separate: clique oracle: %w", err)
	}
	if cbErr != nil {
		return res, cbErr
	}
	res.Status = cr.Status
	s.log.Debug("clique separation",
		"round", s.rounds, "cliques", res.Cliques, "violated", res.Violated,
		"cuts", res.Cuts, "status", cr.Status.String())

	return res, nil
}

// addCuts generates the local bound cuts of one clique and passes them on
// until limit rows have been accepted.
func (s *Separator) addCuts(members []cuts.Member, sol mip.Solution, sink mip.RowSink, seq, limit int) (int, error) {
	lower, upper := cuts.Generate(members, cuts.Options{
		Name:       fmt.Sprintf("sos1clique_%d_%d", s.rounds, seq),
		RHS:        1,
		Strengthen: s.str,
		Lower:      true,
		Upper:      true,
	}, s.tol)

	var n int
	for _, row := range []*mip.Row{lower, upper} {
		if n >= limit {
			break
		}
		if row == nil {
			continue
		}
		fb, err := sink.AddCut(row, sol)
		if err != nil {
			return n, fmt.Errorf("separate: add cut %s: %w", row.Name, err)
		}
		if fb.Accepted {
			n++
		}
	}

	return n, nil
}
