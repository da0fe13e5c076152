package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/sos1/internal/instance"
	"github.com/katalvlaran/sos1/metrics"
	"github.com/katalvlaran/sos1/mip"
	"github.com/katalvlaran/sos1/sos1"
)

type runOpts struct {
	params      string
	showMetrics bool
}

func newRunCmd() *cobra.Command {
	var o runOpts

	cmd := &cobra.Command{
		Use:   "run <instance.toml>",
		Short: "Run one engine round over an instance",
		Long: `Run presolve, conflict graph construction, propagation, enforcement
and bound cut separation once, using the instance values as the relaxation
solution, then check the solution against every constraint.`,
		Example: `  # One round with the instance parameters
  sos1inspect run knapsack.toml

  # Override parameters and dump metrics
  sos1inspect run knapsack.toml --params tuned.toml --metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRound(cmd, args[0], o)
		},
	}
	cmd.Flags().StringVar(&o.params, "params", "", "TOML parameter file overriding the instance [params]")
	cmd.Flags().BoolVar(&o.showMetrics, "metrics", false, "print collected metrics")

	return cmd
}

func runRound(cmd *cobra.Command, path string, o runOpts) error {
	logger := loggerFromContext(cmd.Context())
	w := cmd.OutOrStdout()

	f, err := instance.DecodeFile(path)
	if err != nil {
		return err
	}
	if o.params != "" {
		if f.Params, err = sos1.LoadParamsFile(o.params); err != nil {
			return err
		}
	}

	coll := metrics.NewCollector("sos1")
	reg := prometheus.NewRegistry()
	if err = coll.Register(reg); err != nil {
		return err
	}
	p, err := f.Build(logger, sos1.WithHooks(coll))
	if err != nil {
		return err
	}
	e, st := p.Engine, p.Store
	logger.Debug("instance loaded", "path", path, "vars", len(st.Vars()), "constraints", len(e.Constraints()))

	printTitle(w, "sos1 round: "+path)

	res, ps, err := e.Presolve()
	if err != nil {
		return err
	}
	printResult(w, "presolve", res,
		fmt.Sprintf("removed %d", ps.RemovedVars), fmt.Sprintf("fixed %d", ps.FixedVars),
		fmt.Sprintf("zero-fixings %d", ps.ZeroFixings), fmt.Sprintf("deleted %d", ps.Deleted))
	if res == sos1.Cutoff {
		return nil
	}

	if err = e.InitSolve(); err != nil {
		return err
	}
	defer e.ExitSolve()
	g := e.ConflictGraph()
	printKeyValue(w, "conflict graph", fmt.Sprintf("%d nodes, %d edges, enabled=%t", g.Len(), g.EdgeCount(), e.GraphEnabled()))

	mark := len(st.Inferences())
	if res, err = e.Propagate(); err != nil {
		return err
	}
	printResult(w, "propagate", res)
	for _, inf := range st.Inferences()[mark:] {
		printInference(w, e, inf)
	}
	if res == sos1.Cutoff {
		return nil
	}

	if res, err = e.Enforce(st); err != nil {
		return err
	}
	printResult(w, "enforce", res)
	for i, ch := range st.Children() {
		printDetail(w, "child %d: fix %s to zero (priority %.3g, estimate %.3g)",
			i, joinNames(ch.Fixed), ch.Priority, ch.Estimate)
	}

	nrows := len(st.Rows())
	if res, err = e.SeparateLP(st); err != nil {
		return err
	}
	printResult(w, "separate", res, fmt.Sprintf("depth %d", st.Depth()))
	for _, row := range st.Rows()[nrows:] {
		printDetail(w, "%s %s", iconArrow, row)
	}

	res, violated := e.Check(st)
	if len(violated) > 0 {
		printResult(w, "check", res, "violated: "+strings.Join(violated, ", "))
	} else {
		printResult(w, "check", res)
	}

	s := e.Stats()
	printKeyValue(w, "fixings", fmt.Sprint(s.Fixings))
	printKeyValue(w, "cuts", fmt.Sprintf("%d constraint, %d clique", s.ConsCuts, s.CliqueCuts))

	if o.showMetrics {
		return printMetrics(w, reg)
	}

	return nil
}

func printInference(w io.Writer, e *sos1.Engine, inf mip.InferenceRecord) {
	bound := "ub"
	if inf.Lower {
		bound = "lb"
	}
	ante, err := e.ResolvePropagation(inf.Reason)
	if err != nil {
		printDetail(w, "%s.%s = %g", inf.Var.Name(), bound, inf.Value)
		return
	}
	printDetail(w, "%s.%s = %g because %s excludes zero", inf.Var.Name(), bound, inf.Value, ante.Var.Name())
}

func joinNames(vars []mip.Var) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name()
	}

	return strings.Join(names, ", ")
}

// printMetrics prints every counter and gauge sample of reg.
func printMetrics(w io.Writer, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	printTitle(w, "metrics")
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			val := m.GetCounter().GetValue() + m.GetGauge().GetValue()
			printKeyValue(w, name, fmt.Sprint(val))
		}
	}

	return nil
}
