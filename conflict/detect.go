package conflict

import (
	"github.com/katalvlaran/sos1/mip"
)

// DetectBoundRelations attaches variable bound relations to the nodes of g and
// then marks component-unique bound variables.
//
// A relation LHS ≤ a·x + b·z ≤ RHS contributes when a side is feasibly zero:
//
//	a·x + b·z ≤ 0, a > 0  →  x ≤ (-b/a)·z   (upper)
//	a·x + b·z ≤ 0, a < 0  →  x ≥ (-b/a)·z   (lower)
//
// and symmetrically for ≥ 0. Both endpoints are tried. Per node and direction
// the first bound variable found is kept; a later relation on that same bound
// variable replaces the multiplier only if it is tighter (smaller for upper,
// larger for lower).
func DetectBoundRelations(g *Graph, rels []mip.LinearRelation, tol mip.Tolerances) (DetectStats, error) {
	var st DetectStats
	if g == nil {
		return st, ErrGraphNil
	}
	if g.Len() == 0 {
		return st, nil
	}

	var (
		r         mip.LinearRelation
		le, ge    bool
		lowN, upN int
	)
	for _, r = range rels {
		st.Scanned++
		if r.X == nil || r.Y == nil || r.X.Index() == r.Y.Index() {
			continue
		}
		le = !tol.IsInfinity(r.RHS) && tol.IsFeasZero(r.RHS)
		ge = !tol.IsInfinity(r.LHS) && tol.IsFeasZero(r.LHS)
		if !le && !ge {
			continue
		}
		lowN, upN = g.attach(r.X, r.A, r.Y, r.B, le, ge, tol)
		st.Lower += lowN
		st.Upper += upN
		lowN, upN = g.attach(r.Y, r.B, r.X, r.A, le, ge, tol)
		st.Lower += lowN
		st.Upper += upN
	}

	st.UniqueLB, st.UniqueUB = MarkUniqueBoundVars(g)

	return st, nil
}

// attach records the relation a·x + b·z {≤,≥} 0 on the node of x, if any.
func (g *Graph) attach(x mip.Var, a float64, z mip.Var, b float64, le, ge bool, tol mip.Tolerances) (lower, upper int) {
	id, ok := g.NodeOf(x)
	if !ok || tol.IsZero(a) || tol.IsZero(b) {
		return 0, 0
	}
	n := &g.nodes[id]
	mult := -b / a

	// a·x + b·z ≤ 0 gives an upper relation when a > 0, a lower one otherwise;
	// a·x + b·z ≥ 0 is the mirror image.
	if le {
		if a > 0 {
			upper += n.setUB(z, mult, tol)
		} else {
			lower += n.setLB(z, mult, tol)
		}
	}
	if ge {
		if a > 0 {
			lower += n.setLB(z, mult, tol)
		} else {
			upper += n.setUB(z, mult, tol)
		}
	}

	return lower, upper
}

func (n *Node) setUB(z mip.Var, d float64, tol mip.Tolerances) int {
	switch {
	case n.UBVar == nil:
		n.UBVar, n.UBCoef = z, d
	case n.UBVar.Index() == z.Index() && tol.IsFeasLT(d, n.UBCoef):
		n.UBCoef = d
	default:
		return 0
	}

	return 1
}

func (n *Node) setLB(z mip.Var, c float64, tol mip.Tolerances) int {
	switch {
	case n.LBVar == nil:
		n.LBVar, n.LBCoef = z, c
	case n.LBVar.Index() == z.Index() && tol.IsFeasGT(c, n.LBCoef):
		n.LBCoef = c
	default:
		return 0
	}

	return 1
}

// MarkUniqueBoundVars sets UniqueLB/UniqueUB on every node of each component
// in which all nodes carry a relation in that direction on one and the same
// bound variable, and clears them elsewhere. It returns how many components
// were flagged per direction.
func MarkUniqueBoundVars(g *Graph) (lower, upper int) {
	if g == nil {
		return 0, 0
	}
	var (
		uniqueLB bool
		uniqueUB bool
		first    *Node
		n        *Node
	)
	for _, comp := range g.Components() {
		first = &g.nodes[comp[0]]
		uniqueLB = first.LBVar != nil
		uniqueUB = first.UBVar != nil
		for _, id := range comp[1:] {
			n = &g.nodes[id]
			if uniqueLB && (n.LBVar == nil || n.LBVar.Index() != first.LBVar.Index()) {
				uniqueLB = false
			}
			if uniqueUB && (n.UBVar == nil || n.UBVar.Index() != first.UBVar.Index()) {
				uniqueUB = false
			}
			if !uniqueLB && !uniqueUB {
				break
			}
		}
		for _, id := range comp {
			g.nodes[id].UniqueLB = uniqueLB
			g.nodes[id].UniqueUB = uniqueUB
		}
		if uniqueLB {
			lower++
		}
		if uniqueUB {
			upper++
		}
	}

	return lower, upper
}
