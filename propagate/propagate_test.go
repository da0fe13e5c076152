package propagate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sos1/conflict"
	"github.com/katalvlaran/sos1/mip"
	"github.com/katalvlaran/sos1/propagate"
)

func newProp(t *testing.T, s *mip.Store, opts ...propagate.Option) *propagate.Propagator {
	t.Helper()
	p, err := propagate.New(s, s.Tolerances(), opts...)
	require.NoError(t, err)

	return p
}

func TestNew_NilDomain(t *testing.T) {
	_, err := propagate.New(nil, mip.DefaultTolerances())
	require.ErrorIs(t, err, propagate.ErrDomainNil)
}

func TestOptions(t *testing.T) {
	s := mip.NewStore()
	p := newProp(t, s, propagate.WithRules(propagate.RuleGraph), propagate.WithLogger(nil))
	require.True(t, p.Enabled(propagate.RuleGraph))
	require.False(t, p.Enabled(propagate.RuleConstraint))
	require.Equal(t, "graph", propagate.RuleGraph.String())
}

func TestConstraint_FixesOthers(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", -3, 4)
	y := s.AddVar("y", 1, 2) // forced nonzero
	z := s.AddVar("z", 0, 5)
	p := newProp(t, s)

	res, err := p.Constraint("c", []mip.Var{x, y, z}, 1)
	require.NoError(t, err)
	require.False(t, res.Cutoff)
	require.Equal(t, 3, res.NChanges)
	require.Equal(t, 0.0, x.LB())
	require.Equal(t, 0.0, x.UB())
	require.Equal(t, 0.0, z.UB())

	for _, rec := range s.Inferences() {
		require.Equal(t, mip.Inference{Constraint: "c", Info: 1}, rec.Reason)
	}

	// second run finds nothing
	res, err = p.Constraint("c", []mip.Var{x, y, z}, 1)
	require.NoError(t, err)
	require.Zero(t, res.NChanges)
}

func TestConstraint_Cutoff(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", 1, 2)
	y := s.AddVar("y", 1, 2)
	p := newProp(t, s)

	res, err := p.Constraint("c", []mip.Var{x, y}, 2)
	require.NoError(t, err)
	require.True(t, res.Cutoff)
	require.Zero(t, res.NChanges)
	require.Empty(t, s.Inferences())
}

func TestConstraint_StaleCountDetectsConflict(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", 1, 2)
	y := s.AddVar("y", -2, -1)
	p := newProp(t, s)

	res, err := p.Constraint("c", []mip.Var{x, y}, 1)
	require.NoError(t, err)
	require.True(t, res.Cutoff)
}

func TestConstraint_NothingForced(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", 0, 2)
	y := s.AddVar("y", 0, 2)
	p := newProp(t, s)

	res, err := p.Constraint("c", []mip.Var{x, y}, 0)
	require.NoError(t, err)
	require.Equal(t, propagate.Result{}, res)
}

func TestGraph_AcrossConstraints(t *testing.T) {
	s := mip.NewStore()
	a := s.AddVar("a", 0, 1)
	b := s.AddVar("b", 0.5, 1) // forced
	c := s.AddVar("c", 0, 1)
	d := s.AddVar("d", 0, 1)
	g := conflict.Build([][]mip.Var{{a, b}, {b, c}, {c, d}})
	p := newProp(t, s)

	res, err := p.Graph(g)
	require.NoError(t, err)
	require.False(t, res.Cutoff)
	require.Equal(t, 2, res.NChanges)
	require.Equal(t, 0.0, a.UB())
	require.Equal(t, 0.0, c.UB())
	require.Equal(t, 1.0, d.UB())

	bNode, _ := g.NodeOf(b)
	for _, rec := range s.Inferences() {
		require.True(t, rec.Reason.IsGraph())
		require.Equal(t, bNode, rec.Reason.Node())
	}
}

func TestGraph_Cutoff(t *testing.T) {
	s := mip.NewStore()
	a := s.AddVar("a", 1, 1)
	b := s.AddVar("b", -1, -0.5)
	g := conflict.Build([][]mip.Var{{a, b}})
	p := newProp(t, s)

	res, err := p.Graph(g)
	require.NoError(t, err)
	require.True(t, res.Cutoff)

	res, err = p.Graph(nil)
	require.NoError(t, err)
	require.Equal(t, propagate.Result{}, res)
}

func TestGraph_CutoffOnSumNeighbour(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", 1, 2) // forced
	y := s.AddVar("y", 1, 3)
	require.NoError(t, s.SetStatus(y, mip.StatusSum))
	g := conflict.Build([][]mip.Var{{x, y}})
	p := newProp(t, s, propagate.WithRules(propagate.RuleGraph))

	res, err := p.Graph(g)
	require.NoError(t, err)
	require.True(t, res.Cutoff)
	require.Empty(t, s.Inferences())
}

func TestFixZero(t *testing.T) {
	s := mip.NewStore()
	tol := s.Tolerances()
	sum := s.AddVar("s", 0, 3)
	require.NoError(t, s.SetStatus(sum, mip.StatusSum))
	zero := s.AddVar("z", -1e-8, 1e-8)
	neg := s.AddVar("n", -4, 0)

	inf, n, err := propagate.FixZero(s, sum, tol, mip.Inference{})
	require.NoError(t, err)
	require.False(t, inf)
	require.Zero(t, n)
	require.Equal(t, 3.0, sum.UB())

	forcedSum := s.AddVar("fs", 2, 3)
	require.NoError(t, s.SetStatus(forcedSum, mip.StatusSum))
	inf, n, err = propagate.FixZero(s, forcedSum, tol, mip.Inference{})
	require.NoError(t, err)
	require.True(t, inf)
	require.Zero(t, n)

	inf, n, err = propagate.FixZero(s, zero, tol, mip.Inference{})
	require.NoError(t, err)
	require.False(t, inf)
	require.Zero(t, n)

	inf, n, err = propagate.FixZero(s, neg, tol, mip.Inference{})
	require.NoError(t, err)
	require.False(t, inf)
	require.Equal(t, 1, n)
	require.Equal(t, 0.0, neg.LB())
}
