package cuts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sos1/conflict"
	"github.com/katalvlaran/sos1/cuts"
	"github.com/katalvlaran/sos1/mip"
)

const inf = 1e20

func plain(vars ...mip.Var) []cuts.Member {
	out := make([]cuts.Member, len(vars))
	for i, v := range vars {
		out[i] = cuts.Member{Var: v}
	}

	return out
}

// requireCornerValid evaluates row at every point with one member at one of
// its bounds and every other variable at zero.
func requireCornerValid(t *testing.T, s *mip.Store, row *mip.Row, members []mip.Var) {
	t.Helper()
	tol := s.Tolerances()
	for i, v := range members {
		for _, b := range []float64{v.LB(), v.UB()} {
			if tol.IsInfinity(b) {
				continue
			}
			sol := make(mip.Values, len(s.Vars()))
			sol[v.Index()] = b
			require.Truef(t, tol.IsFeasLE(row.Activity(sol), row.RHS),
				"%s violated at member %d = %g", row, i, b)
		}
	}
}

func TestGenerate_PlainGlobal(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", -2, 4)
	y := s.AddVar("y", -1, 5)
	w := s.AddVar("w", 0, 3)
	tol := s.Tolerances()

	lo, up := cuts.Generate(plain(x, y, w), cuts.Options{
		Name: "c", RHS: 1, Global: true, Lower: true, Upper: true,
	}, tol)

	require.NotNil(t, lo)
	require.NotNil(t, up)
	require.Equal(t, "c_lower", lo.Name)
	require.False(t, lo.Local)
	require.Equal(t, []mip.Var{x, y}, lo.Vars)
	require.Equal(t, []float64{-0.5, -1}, lo.Coefs)
	require.Equal(t, []mip.Var{x, y, w}, up.Vars)
	require.InDeltaSlice(t, []float64{0.25, 0.2, 1.0 / 3}, up.Coefs, 1e-12)
	require.Equal(t, 1.0, up.RHS)

	requireCornerValid(t, s, lo, []mip.Var{x, y, w})
	requireCornerValid(t, s, up, []mip.Var{x, y, w})

	// the fractional point (2, 3, 0) violates the upper cut
	require.Greater(t, up.Violation(mip.Values{2, 3, 0}), 0.0)
}

func TestGenerate_LocalBounds(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", 0, 4)
	y := s.AddVar("y", 0, 5)
	require.NoError(t, s.SetLocalBounds(x, 0, 2))

	_, up := cuts.Generate(plain(x, y), cuts.Options{Name: "k", RHS: 1, Upper: true}, s.Tolerances())
	require.NotNil(t, up)
	require.True(t, up.Local)
	require.Equal(t, []float64{0.5, 0.2}, up.Coefs)
}

func TestGenerate_WrongSignAbandons(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", -3, -1)
	y := s.AddVar("y", 0, 5)
	z := s.AddVar("z", 1, 5)

	lo, up := cuts.Generate(plain(x, y, z), cuts.Options{RHS: 1, Global: true, Lower: true, Upper: true}, s.Tolerances())
	require.Nil(t, up, "negative upper bound abandons the upper cut")
	require.Nil(t, lo, "positive lower bound abandons the lower cut")
}

func TestGenerate_DegenerateMembers(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", 0, inf)
	y := s.AddVar("y", 0, 0)
	z := s.AddVar("z", 0, 7)

	lo, up := cuts.Generate(plain(x, y, z), cuts.Options{RHS: 1, Global: true, Lower: true, Upper: true}, s.Tolerances())
	require.Nil(t, up, "one surviving member is not a cut")
	require.Nil(t, lo)

	lo, up = cuts.Generate(plain(z), cuts.Options{RHS: 1, Upper: true, Lower: true}, s.Tolerances())
	require.Nil(t, lo)
	require.Nil(t, up)
}

func TestGenerate_Strengthened(t *testing.T) {
	s := mip.NewStore()
	xs := []mip.Var{s.AddVar("x0", 0, 10), s.AddVar("x1", 0, 10), s.AddVar("x2", 0, 10)}
	z := s.AddVar("z", 0, 1)
	for _, x := range xs {
		require.NoError(t, s.AddRelation("lb", x, 1, z, -2, 0, inf))
		require.NoError(t, s.AddRelation("ub", x, 1, z, -5, -inf, 0))
	}
	tol := s.Tolerances()
	g := conflict.Build([][]mip.Var{xs})
	_, err := conflict.DetectBoundRelations(g, s.TwoVariableRelations(), tol)
	require.NoError(t, err)

	members := make([]cuts.Member, len(xs))
	for i, x := range xs {
		id, ok := g.NodeOf(x)
		require.True(t, ok)
		members[i] = cuts.Member{Var: x, Node: g.Node(id)}
	}

	lo, up := cuts.Generate(members, cuts.Options{
		Name: "s", RHS: 1, Global: true, Strengthen: true, Lower: true, Upper: true,
	}, tol)
	require.Nil(t, lo, "x ≥ 2z has the wrong sign for a lower cut")
	require.NotNil(t, up)
	require.Equal(t, []mip.Var{xs[0], xs[1], xs[2], z}, up.Vars)
	require.InDeltaSlice(t, []float64{0.2, 0.2, 0.2, -1}, up.Coefs, 1e-12)
	require.Equal(t, 0.0, up.RHS)

	// valid at x_i = 5z for z = 1, violated by the fractional spread
	sol := mip.Values{5, 0, 0, 1}
	require.LessOrEqual(t, up.Activity(sol), up.RHS+1e-9)
	require.Greater(t, up.Violation(mip.Values{2, 2, 2, 1}), 0.0)

	// without strengthening the plain bounds are used
	_, up = cuts.Generate(members, cuts.Options{RHS: 1, Global: true, Upper: true}, tol)
	require.Equal(t, []float64{0.1, 0.1, 0.1}, up.Coefs)
}

func TestGenerate_StrengthenNeedsCommonVar(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", 0, 4)
	y := s.AddVar("y", 0, 4)
	z := s.AddVar("z", 0, 1)
	n1 := &conflict.Node{Var: x, UBVar: z, UBCoef: 4, UniqueUB: true}
	n2 := &conflict.Node{Var: y}

	_, up := cuts.Generate([]cuts.Member{{Var: x, Node: n1}, {Var: y, Node: n2}},
		cuts.Options{RHS: 1, Global: true, Strengthen: true, Upper: true}, s.Tolerances())
	require.NotNil(t, up)
	require.Len(t, up.Vars, 2, "falls back to the plain row")
}
