package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

const instanceTOML = `
[[var]]
name = "x"
ub = 4.0
value = 2.0

[[var]]
name = "y"
ub = 4.0
value = 3.0

[[var]]
name = "z"
ub = 4.0

[[sos1]]
name = "c"
vars = ["x", "y"]

[[sos1]]
name = "d"
vars = ["y", "z"]
`

func writeInstance(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inst.toml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	path := writeInstance(t, instanceTOML)

	out, err := execute(t, "run", path, "--metrics")
	require.NoError(t, err)
	require.Contains(t, out, "3 nodes, 2 edges, enabled=true")
	require.Contains(t, out, "branched")
	require.Contains(t, out, "sos1bnd_c_upper")
	require.Contains(t, out, "violated: c")
	require.Contains(t, out, "sos1_branchings_total")
}

func TestRunCommand_ParamsOverride(t *testing.T) {
	path := writeInstance(t, instanceTOML)
	params := filepath.Join(t.TempDir(), "params.toml")
	require.NoError(t, os.WriteFile(params, []byte("branch_sos = false\nbound_cuts_freq = -1\n"), 0o600))

	out, err := execute(t, "run", path, "--params", params)
	require.NoError(t, err)
	require.Contains(t, out, "infeasible")
	require.Contains(t, out, "didnotrun")
	require.NotContains(t, out, "child 0")
}

func TestRunCommand_Errors(t *testing.T) {
	_, err := execute(t, "run")
	require.Error(t, err)

	_, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = execute(t, "run", writeInstance(t, "bogus = 1"))
	require.Error(t, err)
}

func TestGraphCommand(t *testing.T) {
	path := writeInstance(t, instanceTOML)

	out, err := execute(t, "graph", path, "--edges")
	require.NoError(t, err)
	require.Contains(t, out, "component 0")
	require.Contains(t, out, "3 nodes")
	require.Contains(t, out, "x → y")
}

func TestLoggerContext(t *testing.T) {
	require.Same(t, log.Default(), loggerFromContext(context.Background()))

	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)
	ctx := withLogger(context.Background(), l)
	require.Same(t, l, loggerFromContext(ctx))

	l.Debug("hello", "k", 1)
	require.Contains(t, buf.String(), "hello")
}
