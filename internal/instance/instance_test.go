package instance_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sos1/internal/instance"
	"github.com/katalvlaran/sos1/mip"
	"github.com/katalvlaran/sos1/sos1"
)

const sample = `
depth = 3
lp_objective = 7.5

[params]
bound_cuts_freq = 1
strengthen_bound_cuts = true

[[var]]
name = "x"
ub = 4.0
value = 2.0

[[var]]
name = "y"
ub = 4.0
value = 3.0
obj = -1.0

[[var]]
name = "z"
ub = 1.0
value = 1.0

[[var]]
name = "w"
lb = -2.0
ub = 2.0
local_lb = 0.5
status = "sum"

[[relation]]
name = "vub_x"
x = "x"
a = 1.0
y = "z"
b = -4.0
rhs = 0.0

[[sos1]]
name = "c"
vars = ["y", "x"]
weights = [2.0, 1.0]

[[sos1]]
name = "d"
vars = ["z", "w"]
`

func TestDecodeAndBuild(t *testing.T) {
	f, err := instance.Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, 3, f.Depth)
	require.Len(t, f.Vars, 4)
	require.Equal(t, 1, f.Params.BoundCutsFreq)
	require.True(t, f.Params.StrengthenBoundCuts)
	require.Equal(t, sos1.DefaultParams().MaxBoundCuts, f.Params.MaxBoundCuts)

	p, err := f.Build(nil)
	require.NoError(t, err)
	require.Equal(t, 3, p.Store.Depth())
	require.True(t, p.Engine.Params().StrengthenBoundCuts)

	x, ok := p.Store.VarByName("x")
	require.True(t, ok)
	require.Zero(t, x.LB())
	require.Equal(t, 2.0, p.Store.Value(x))

	w, _ := p.Store.VarByName("w")
	require.Equal(t, mip.StatusSum, w.Status())
	require.Equal(t, 0.5, w.LB())
	require.Equal(t, -2.0, w.GlobalLB())

	rels := p.Store.TwoVariableRelations()
	require.Len(t, rels, 1)
	require.True(t, math.IsInf(rels[0].LHS, -1))

	cons := p.Engine.Constraints()
	require.Len(t, cons, 2)
	require.Equal(t, []float64{1, 2}, cons[0].Weights())
	require.Equal(t, "x", cons[0].Vars()[0].Name())
	require.True(t, cons[1].Active())
	require.Equal(t, 1, cons[1].NFixedNonzero())

	res, violated := p.Engine.Check(p.Store)
	require.Equal(t, sos1.Infeasible, res)
	require.Equal(t, []string{"c"}, violated)
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]struct {
		src  string
		want error
	}{
		"unknown key":    {src: "colour = 1", want: instance.ErrUndecoded},
		"unknown param":  {src: "[params]\nfoo = 1", want: instance.ErrUndecoded},
		"invalid params": {src: "[params]\nclique_scale = 0.0", want: sos1.ErrInvalidParams},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := instance.Decode(strings.NewReader(tc.src))
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := instance.Decode(strings.NewReader("depth = ["))
	require.Error(t, err)
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]struct {
		src  string
		want error
	}{
		"duplicate var": {
			src:  "[[var]]\nname = \"x\"\n[[var]]\nname = \"x\"",
			want: instance.ErrDuplicateVar,
		},
		"bad status": {
			src:  "[[var]]\nname = \"x\"\nstatus = \"frozen\"",
			want: instance.ErrBadStatus,
		},
		"unknown member": {
			src:  "[[var]]\nname = \"x\"\n[[sos1]]\nname = \"c\"\nvars = [\"x\", \"q\"]",
			want: instance.ErrUnknownVar,
		},
		"unknown relation var": {
			src:  "[[var]]\nname = \"x\"\n[[relation]]\nname = \"r\"\nx = \"x\"\na = 1.0\ny = \"q\"\nb = 1.0",
			want: instance.ErrUnknownVar,
		},
		"weights mismatch": {
			src:  "[[var]]\nname = \"x\"\n[[sos1]]\nname = \"c\"\nvars = [\"x\"]\nweights = [1.0, 2.0]",
			want: sos1.ErrWeightsMismatch,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := instance.Decode(strings.NewReader(tc.src))
			require.NoError(t, err)
			_, err = f.Build(nil)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inst.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	f, err := instance.DecodeFile(path)
	require.NoError(t, err)
	require.Len(t, f.Constraints, 2)

	_, err = instance.DecodeFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
