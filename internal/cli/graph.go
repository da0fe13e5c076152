package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sos1/conflict"
	"github.com/katalvlaran/sos1/internal/instance"
)

func newGraphCmd() *cobra.Command {
	var edges bool

	cmd := &cobra.Command{
		Use:   "graph <instance.toml>",
		Short: "Print the conflict graph of an instance by component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			f, err := instance.DecodeFile(args[0])
			if err != nil {
				return err
			}
			p, err := f.Build(loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			if err = p.Engine.InitSolve(); err != nil {
				return err
			}
			defer p.Engine.ExitSolve()

			g := p.Engine.ConflictGraph()
			printTitle(w, "conflict graph: "+args[0])
			printKeyValue(w, "nodes", fmt.Sprint(g.Len()))
			printKeyValue(w, "edges", fmt.Sprint(g.EdgeCount()))

			for i, comp := range g.Components() {
				printKeyValue(w, fmt.Sprintf("component %d", i), fmt.Sprintf("%d nodes", len(comp)))
				for _, id := range comp {
					printDetail(w, "%s%s", g.Node(id).Var.Name(), describeBounds(g.Node(id)))
				}
			}
			if edges {
				for _, e := range g.Edges() {
					printDetail(w, "%s %s %s", g.Node(e[0]).Var.Name(), iconArrow, g.Node(e[1]).Var.Name())
				}
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&edges, "edges", false, "list every edge")

	return cmd
}

// describeBounds renders the detected variable bound relations of a node.
func describeBounds(n *conflict.Node) string {
	var s string
	if n.HasUB() {
		s += fmt.Sprintf(" <= %g·%s", n.UBCoef, n.UBVar.Name())
		if n.UniqueUB {
			s += " (unique)"
		}
	}
	if n.HasLB() {
		s += fmt.Sprintf(" >= %g·%s", n.LBCoef, n.LBVar.Name())
		if n.UniqueLB {
			s += " (unique)"
		}
	}

	return s
}
