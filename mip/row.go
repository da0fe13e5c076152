package mip

import (
	"fmt"
	"sort"
	"strings"
)

// Row is a sparse linear inequality Σ Coefs[i]·Vars[i] ≤ RHS.
//
// Local rows are only valid in the subtree of the node that produced them.
type Row struct {
	Name  string
	Vars  []Var
	Coefs []float64
	RHS   float64
	Local bool
}

// Len returns the number of terms.
func (r *Row) Len() int { return len(r.Vars) }

// Activity evaluates Σ coef·x at sol.
// Complexity: O(Len).
func (r *Row) Activity(sol Solution) float64 {
	var (
		act float64
		i   int
	)
	for i = range r.Vars {
		act += r.Coefs[i] * sol.Value(r.Vars[i])
	}

	return act
}

// Violation returns Activity(sol) - RHS; positive means sol violates the row.
func (r *Row) Violation(sol Solution) float64 {
	return r.Activity(sol) - r.RHS
}

// Coef returns the coefficient of v, or 0 if v is not in the row.
func (r *Row) Coef(v Var) float64 {
	for i := range r.Vars {
		if r.Vars[i].Index() == v.Index() {
			return r.Coefs[i]
		}
	}

	return 0
}

// Key is a canonical string of the row's terms, rhs and locality. Two rows
// with the same key describe the same inequality.
// Complexity: O(Len·log Len).
func (r *Row) Key() string {
	idx := make([]int, len(r.Vars))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return r.Vars[idx[a]].Index() < r.Vars[idx[b]].Index() })

	var sb strings.Builder
	for _, i := range idx {
		fmt.Fprintf(&sb, "%d:%.12g;", r.Vars[i].Index(), r.Coefs[i])
	}
	fmt.Fprintf(&sb, "<=%.12g", r.RHS)
	if r.Local {
		sb.WriteString("/local")
	}

	return sb.String()
}

// String renders the row as "name: 2 x + -1 z <= 0".
func (r *Row) String() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	sb.WriteString(":")
	for i := range r.Vars {
		if i > 0 {
			sb.WriteString(" +")
		}
		fmt.Fprintf(&sb, " %g %s", r.Coefs[i], r.Vars[i].Name())
	}
	fmt.Fprintf(&sb, " <= %g", r.RHS)

	return sb.String()
}
