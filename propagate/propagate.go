package propagate

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/sos1/conflict"
	"github.com/katalvlaran/sos1/mip"
)

// Propagator applies the enabled rules against one Domain.
type Propagator struct {
	dom   mip.Domain
	tol   mip.Tolerances
	log   *log.Logger
	rules []Rule
}

// New returns a Propagator over dom.
func New(dom mip.Domain, tol mip.Tolerances, opts ...Option) (*Propagator, error) {
	if dom == nil {
		return nil, ErrDomainNil
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return &Propagator{dom: dom, tol: tol, log: o.Logger, rules: o.Rules}, nil
}

// Enabled reports whether rule r is active.
func (p *Propagator) Enabled(r Rule) bool {
	for _, x := range p.rules {
		if x == r {
			return true
		}
	}

	return false
}

// Constraint applies RuleConstraint to the members of the named constraint.
// nFixedNonzero is the maintained forced-nonzero count.
//
//	count > 1  → cutoff, no fixings
//	count == 1 → members other than the forced one are fixed to zero with
//	             reason {name, forced position}
func (p *Propagator) Constraint(name string, vars []mip.Var, nFixedNonzero int) (Result, error) {
	var res Result
	if nFixedNonzero > 1 {
		p.log.Debug("constraint cutoff", "cons", name, "forced", nFixedNonzero)
		res.Cutoff = true

		return res, nil
	}
	if nFixedNonzero != 1 {
		return res, nil
	}

	forced := -1
	for i, v := range vars {
		if p.tol.ExcludesZero(v) {
			forced = i
			break
		}
	}
	if forced < 0 {
		return res, nil
	}

	var (
		reason = mip.Inference{Constraint: name, Info: forced}
		inf    bool
		nchg   int
		err    error
	)
	for i, v := range vars {
		if i == forced {
			continue
		}
		inf, nchg, err = FixZero(p.dom, v, p.tol, reason)
		if err != nil {
			return res, fmt.Errorf("propagate: constraint %s: %w", name, err)
		}
		res.NChanges += nchg
		if inf {
			p.log.Debug("constraint cutoff", "cons", name, "var", v.Name())
			res.Cutoff = true

			return res, nil
		}
	}

	return res, nil
}

// Graph applies RuleGraph to every node of g.
func (p *Propagator) Graph(g *conflict.Graph) (Result, error) {
	var res Result
	if g == nil {
		return res, nil
	}
	for i := 0; i < g.Len(); i++ {
		r, err := p.Node(g, i)
		res.Merge(r)
		if err != nil || res.Cutoff {
			return res, err
		}
	}

	return res, nil
}

// Node applies RuleGraph to node i only: if its variable excludes zero, all
// neighbours are fixed to zero with the graph inference of i.
func (p *Propagator) Node(g *conflict.Graph, i int) (Result, error) {
	var res Result
	x := g.Node(i).Var
	if !p.tol.ExcludesZero(x) {
		return res, nil
	}

	var (
		reason = mip.GraphInference(i)
		inf    bool
		nchg   int
		err    error
	)
	for _, j := range g.Successors(i) {
		inf, nchg, err = FixZero(p.dom, g.Node(j).Var, p.tol, reason)
		if err != nil {
			return res, fmt.Errorf("propagate: node %d: %w", i, err)
		}
		res.NChanges += nchg
		if inf {
			p.log.Debug("graph cutoff", "var", x.Name(), "neighbour", g.Node(j).Var.Name())
			res.Cutoff = true

			return res, nil
		}
	}

	return res, nil
}

// FixZero tightens the local bounds of v to [0,0].
//
// A variable whose bounds already exclude zero is infeasible, StatusSum or
// not. Otherwise StatusSum variables are left alone (nchg 0). Bounds already
// at zero are not touched.
func FixZero(dom mip.Domain, v mip.Var, tol mip.Tolerances, reason mip.Inference) (infeasible bool, nchg int, err error) {
	if tol.ExcludesZero(v) {
		return true, 0, nil
	}
	if v.Status() == mip.StatusSum {
		return false, 0, nil
	}

	var tightened bool
	if !tol.IsFeasZero(v.UB()) {
		infeasible, tightened, err = dom.TightenUB(v, 0, reason)
		if err != nil || infeasible {
			return infeasible, nchg, err
		}
		if tightened {
			nchg++
		}
	}
	if !tol.IsFeasZero(v.LB()) {
		infeasible, tightened, err = dom.TightenLB(v, 0, reason)
		if err != nil || infeasible {
			return infeasible, nchg, err
		}
		if tightened {
			nchg++
		}
	}

	return false, nchg, nil
}
