package sos1_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sos1/sos1"
)

func TestDefaultParams_Valid(t *testing.T) {
	p := sos1.DefaultParams()
	require.NoError(t, p.Validate())
	require.True(t, p.ConflictProp)
	require.False(t, p.SOSConsProp)
	require.Equal(t, 40, p.BoundCutsDepth)
	require.Equal(t, 150, p.MaxBoundCutsRoot)
}

func TestLoadParams_Overrides(t *testing.T) {
	src := `
conflict_prop = false
branch_nonzeros = true
max_bound_cuts = 7
clique_scale = 500.0
`
	p, err := sos1.LoadParams(strings.NewReader(src))
	require.NoError(t, err)

	want := sos1.DefaultParams()
	want.ConflictProp = false
	want.BranchNonzeros = true
	want.MaxBoundCuts = 7
	want.CliqueScale = 500
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadParams_Errors(t *testing.T) {
	_, err := sos1.LoadParams(strings.NewReader("no_such_key = 1"))
	require.ErrorIs(t, err, sos1.ErrInvalidParams)

	_, err = sos1.LoadParams(strings.NewReader("branch_nonzeros = true\nbranch_weight = true"))
	require.ErrorIs(t, err, sos1.ErrInvalidParams)

	_, err = sos1.LoadParams(strings.NewReader("max_bound_cuts = ["))
	require.Error(t, err)

	_, err = sos1.LoadParamsFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestLoadParamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.toml")
	require.NoError(t, os.WriteFile(path, []byte("bound_cuts_freq = 0\n"), 0o600))

	p, err := sos1.LoadParamsFile(path)
	require.NoError(t, err)
	require.Equal(t, 0, p.BoundCutsFreq)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(p *sos1.Params)
	}{
		{"depth", func(p *sos1.Params) { p.BoundCutsDepth = -2 }},
		{"freq", func(p *sos1.Params) { p.BoundCutsFreq = -5 }},
		{"budget", func(p *sos1.Params) { p.MaxBoundCuts = -1 }},
		{"graph", func(p *sos1.Params) { p.MaxGraphNodes = -1 }},
		{"tree", func(p *sos1.Params) { p.CliqueMaxTreeNodes = -1 }},
		{"scale", func(p *sos1.Params) { p.CliqueScale = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := sos1.DefaultParams()
			tc.mod(&p)
			require.ErrorIs(t, p.Validate(), sos1.ErrInvalidParams)
		})
	}
}
