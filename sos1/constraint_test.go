package sos1_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sos1/mip"
	"github.com/katalvlaran/sos1/sos1"
)

func names(vars []mip.Var) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Name()
	}

	return out
}

func TestNewConstraint_SortsByWeight(t *testing.T) {
	s := mip.NewStore()
	a, b, c := s.AddVar("a", 0, 1), s.AddVar("b", 0, 1), s.AddVar("c", 0, 1)

	cons, err := sos1.NewConstraint("k", []mip.Var{a, b, c}, []float64{3, 1, 2})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c", "a"}, names(cons.Vars()))
	require.Equal(t, []float64{1, 2, 3}, cons.Weights())
	require.False(t, cons.DuplicateWeights())

	_, err = sos1.NewConstraint("k", []mip.Var{a, b}, []float64{1})
	require.ErrorIs(t, err, sos1.ErrWeightsMismatch)
	_, err = sos1.NewConstraint("k", []mip.Var{a, nil}, nil)
	require.ErrorIs(t, err, mip.ErrNilVar)
}

func TestConstraint_AddAndAppend(t *testing.T) {
	s := mip.NewStore()
	a, b, c, d := s.AddVar("a", 0, 1), s.AddVar("b", 0, 1), s.AddVar("c", 0, 1), s.AddVar("d", 0, 1)

	cons, err := sos1.NewConstraint("k", []mip.Var{a, c}, []float64{1, 3})
	require.NoError(t, err)
	require.NoError(t, cons.AddVar(b, 2))
	require.NoError(t, cons.AppendVar(d))
	require.Equal(t, []string{"a", "b", "c", "d"}, names(cons.Vars()))
	require.Equal(t, []float64{1, 2, 3, 4}, cons.Weights())

	plain, err := sos1.NewConstraint("p", []mip.Var{a}, nil)
	require.NoError(t, err)
	require.ErrorIs(t, plain.AddVar(b, 1), sos1.ErrNoWeights)
	require.NoError(t, plain.AppendVar(b))
	require.Nil(t, plain.Weights())
	require.Equal(t, 2, plain.Len())
}

func TestConstraint_Copy(t *testing.T) {
	src, dst := mip.NewStore(), mip.NewStore()
	a, b := src.AddVar("a", 0, 1), src.AddVar("b", 0, 1)
	dst.AddVar("a", 0, 1)
	dst.AddVar("b", 0, 1)

	cons, err := sos1.NewConstraint("k", []mip.Var{a, b}, []float64{1, 2})
	require.NoError(t, err)

	mapVar := func(v mip.Var) (mip.Var, error) {
		tv, ok := dst.VarByName(v.Name())
		if !ok {
			return nil, errors.New("missing")
		}

		return tv, nil
	}
	cp, err := cons.Copy("k2", mapVar)
	require.NoError(t, err)
	require.Equal(t, "k2", cp.Name())
	require.Equal(t, []string{"a", "b"}, names(cp.Vars()))
	require.Equal(t, []float64{1, 2}, cp.Weights())
	require.False(t, cp.Active())

	_, err = cons.Copy("k3", func(mip.Var) (mip.Var, error) { return nil, errors.New("boom") })
	require.Error(t, err)
}

func TestConstraint_ForcedCountFollowsEvents(t *testing.T) {
	s := mip.NewStore()
	x := s.AddVar("x", 0, 4)
	y := s.AddVar("y", -4, 0)
	z := s.AddVar("z", 1, 4) // forced from the start

	cons, err := sos1.NewConstraint("k", []mip.Var{x, y, z}, nil)
	require.NoError(t, err)
	e, err := sos1.New(s)
	require.NoError(t, err)
	require.NoError(t, e.Add(cons))
	require.NoError(t, e.Activate(cons))
	require.True(t, cons.Active())
	require.Equal(t, 1, cons.NFixedNonzero())
	require.ErrorIs(t, cons.AppendVar(x), sos1.ErrConstraintActive)

	mark := s.Mark()
	require.NoError(t, s.SetLocalBounds(x, 0.5, 4))
	require.Equal(t, 2, cons.NFixedNonzero())
	require.NoError(t, s.SetLocalBounds(y, -4, -1))
	require.Equal(t, 3, cons.NFixedNonzero())

	// feasibly-zero moves do not count
	require.NoError(t, s.SetLocalBounds(x, 0.5, 4))
	require.Equal(t, 3, cons.NFixedNonzero())

	require.NoError(t, s.Undo(mark))
	require.Equal(t, 1, cons.NFixedNonzero())

	require.NoError(t, e.Deactivate(cons))
	require.Zero(t, s.Subscribers(x))
	require.NoError(t, s.SetLocalBounds(x, 1, 4))
	require.Equal(t, 1, cons.NFixedNonzero())
}
