// Package cuts builds bound cuts for a set of pairwise conflicting variables.
//
// For members x_i of which at most one may be nonzero:
//
//	upper:  Σ x_i / u_i ≤ rhs           (u_i > 0 upper bounds)
//	lower:  Σ x_i / l_i ≤ rhs           (l_i < 0 lower bounds)
//
// When strengthening is requested and all members share one
// component-unique bound variable z in that direction, the bound values are
// replaced by the relation multipliers and rhs moves onto z:
//
//	Σ x_i / coef_i − rhs·z ≤ 0
//
// A member with a zero or infinite bound is left out; a bound of the wrong
// sign drops the whole direction; fewer than two remaining members yield no
// row.
package cuts

import (
	"github.com/katalvlaran/sos1/conflict"
	"github.com/katalvlaran/sos1/mip"
)

// Member is one variable of the cut with its conflict graph node, if any.
// Node is only consulted when strengthening.
type Member struct {
	Var  mip.Var
	Node *conflict.Node
}

// Options selects what Generate builds.
type Options struct {
	// Name prefixes row names: Name+"_lower", Name+"_upper".
	Name string
	// RHS of the plain rows, the z multiplier of strengthened rows.
	RHS float64
	// Global uses global bounds and marks the rows as globally valid;
	// otherwise local bounds and local rows.
	Global bool
	// Strengthen uses detected bound relations when all members qualify.
	Strengthen bool
	// Lower and Upper choose the directions to build.
	Lower bool
	Upper bool
}

// Generate returns the lower and upper bound cut for members. Either may be
// nil when the direction is disabled, degenerate or abandoned.
// Complexity: O(len(members)).
func Generate(members []Member, opts Options, tol mip.Tolerances) (lower, upper *mip.Row) {
	if len(members) < 2 {
		return nil, nil
	}
	if opts.Lower {
		lower = build(members, opts, tol, false)
	}
	if opts.Upper {
		upper = build(members, opts, tol, true)
	}

	return lower, upper
}

// uniqueBoundVar returns the bound variable shared by all members in the
// given direction when every node is flagged component-unique.
func uniqueBoundVar(members []Member, upper bool) mip.Var {
	var z mip.Var
	for _, m := range members {
		if m.Node == nil {
			return nil
		}
		bv, uniq := m.Node.LBVar, m.Node.UniqueLB
		if upper {
			bv, uniq = m.Node.UBVar, m.Node.UniqueUB
		}
		if !uniq || bv == nil {
			return nil
		}
		if z == nil {
			z = bv
		} else if z.Index() != bv.Index() {
			return nil
		}
	}

	return z
}

func build(members []Member, opts Options, tol mip.Tolerances, upper bool) *mip.Row {
	var z mip.Var
	if opts.Strengthen {
		z = uniqueBoundVar(members, upper)
	}

	row := &mip.Row{Local: !opts.Global, RHS: opts.RHS}
	if upper {
		row.Name = opts.Name + "_upper"
	} else {
		row.Name = opts.Name + "_lower"
	}

	var b float64
	for _, m := range members {
		switch {
		case z != nil && upper:
			b = m.Node.UBCoef
		case z != nil:
			b = m.Node.LBCoef
		case upper && opts.Global:
			b = m.Var.GlobalUB()
		case upper:
			b = m.Var.UB()
		case opts.Global:
			b = m.Var.GlobalLB()
		default:
			b = m.Var.LB()
		}

		if tol.IsFeasZero(b) || tol.IsInfinity(b) {
			continue
		}
		if (upper && b < 0) || (!upper && b > 0) {
			return nil
		}
		row.Vars = append(row.Vars, m.Var)
		row.Coefs = append(row.Coefs, 1/b)
	}
	if row.Len() < 2 {
		return nil
	}
	if z != nil {
		row.Vars = append(row.Vars, z)
		row.Coefs = append(row.Coefs, -opts.RHS)
		row.RHS = 0
	}

	return row
}
