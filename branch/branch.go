package branch

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/sos1/mip"
)

var (
	// ErrTreeNil is returned when Branch is called without a Tree.
	ErrTreeNil = errors.New("branch: tree is nil")
)

// Policy is the candidate scoring strategy.
type Policy uint8

const (
	// PolicyValueSum scores by the sum of absolute nonzero values.
	PolicyValueSum Policy = iota
	// PolicyNonzeros scores by the number of nonzero members.
	PolicyNonzeros
	// PolicyMaxWeight scores by the largest weight of a nonzero member.
	PolicyMaxWeight
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyValueSum:
		return "valuesum"
	case PolicyNonzeros:
		return "nonzeros"
	case PolicyMaxWeight:
		return "maxweight"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// Candidate is one constraint offered for branching. Weights may be nil, in
// which case member positions act as weights.
type Candidate struct {
	Vars    []mip.Var
	Weights []float64
}

// Outcome of Branch.
type Outcome uint8

const (
	// OutcomeNone: nothing to branch on.
	OutcomeNone Outcome = iota
	// OutcomeBranched: two children were created.
	OutcomeBranched
)

// ChildSpec describes one created child.
type ChildSpec struct {
	Fixed    []mip.Var
	Priority float64
	Estimate float64
}

// Score evaluates c at sol and returns the score and the nonzero count.
func Score(c Candidate, sol mip.Solution, policy Policy, tol mip.Tolerances) (float64, int) {
	var (
		score = math.Inf(-1)
		nz    int
		x, w  float64
	)
	if policy != PolicyMaxWeight {
		score = 0
	}
	for j, v := range c.Vars {
		x = sol.Value(v)
		if tol.IsFeasZero(x) {
			continue
		}
		nz++
		switch policy {
		case PolicyNonzeros:
			score++
		case PolicyMaxWeight:
			w = float64(j)
			if j < len(c.Weights) {
				w = c.Weights[j]
			}
			score = math.Max(score, w)
		default:
			score += math.Abs(x)
		}
	}
	if nz == 0 {
		score = 0
	}

	return score, nz
}

// Select picks the best candidate with more than one nonzero member.
// ok is false when no candidate is violated.
// Complexity: O(Σ |Vars|).
func Select(cands []Candidate, sol mip.Solution, policy Policy, tol mip.Tolerances) (idx int, score float64, ok bool) {
	idx = -1
	var (
		s  float64
		nz int
	)
	for i := range cands {
		s, nz = Score(cands[i], sol, policy, tol)
		if nz < 2 {
			continue
		}
		if idx < 0 || s > score {
			idx, score = i, s
		}
	}

	return idx, score, idx >= 0
}

// Split returns the weighted split position k, 0 ≤ k < len(vars)-1.
// When at least two values are nonzero, k lies between the first and the
// last of them so that vars[:k+1] and vars[k+1:] each hold one.
// ok is false when fewer than two members exist or all values are zero.
func Split(vars []mip.Var, sol mip.Solution, tol mip.Tolerances) (int, bool) {
	n := len(vars)
	if n < 2 {
		return 0, false
	}
	var (
		w1, w2      float64
		a           float64
		first, last = -1, -1
	)
	for j, v := range vars {
		a = math.Abs(sol.Value(v))
		w1 += float64(j) * a
		w2 += a
		if !tol.IsFeasZero(a) {
			if first < 0 {
				first = j
			}
			last = j
		}
	}
	if tol.IsFeasZero(w2) {
		return 0, false
	}
	k := int(math.Floor(w1 / w2))
	// both groups must hold a nonzero member when two of them exist
	if first >= 0 && first < last {
		if k < first {
			k = first
		}
		if k > last-1 {
			k = last - 1
		}
	}
	if k < 0 {
		k = 0
	}
	if k > n-2 {
		k = n - 2
	}

	return k, true
}

// Branch creates the two children for vars at sol. It returns OutcomeNone
// without touching tree when vars has fewer than two members or fewer than
// two nonzero values.
func Branch(tree mip.Tree, vars []mip.Var, sol mip.Solution, tol mip.Tolerances) (Outcome, []ChildSpec, error) {
	if tree == nil {
		return OutcomeNone, nil, ErrTreeNil
	}
	if len(vars) < 2 {
		return OutcomeNone, nil, nil
	}
	nz := 0
	for _, v := range vars {
		if !tol.IsFeasZero(sol.Value(v)) {
			nz++
		}
	}
	if nz < 2 {
		return OutcomeNone, nil, nil
	}

	var groups [2][]mip.Var
	if len(vars) == 2 {
		groups[0], groups[1] = vars[:1], vars[1:]
	} else {
		k, ok := Split(vars, sol, tol)
		if !ok {
			return OutcomeNone, nil, nil
		}
		groups[0], groups[1] = vars[:k+1], vars[k+1:]
	}

	specs := make([]ChildSpec, 0, 2)
	for _, fixed := range groups {
		spec, err := createChild(tree, fixed)
		if err != nil {
			return OutcomeNone, specs, err
		}
		specs = append(specs, spec)
	}

	return OutcomeBranched, specs, nil
}

// createChild creates one child fixing every variable of fixed to zero.
func createChild(tree mip.Tree, fixed []mip.Var) (ChildSpec, error) {
	spec := ChildSpec{Fixed: append([]mip.Var(nil), fixed...)}
	for _, v := range fixed {
		spec.Priority += tree.NodeSelectionPriority(v, 0)
		spec.Estimate += tree.ChildEstimate(v, 0)
	}
	spec.Estimate /= float64(len(fixed))

	child, err := tree.CreateChild(spec.Priority, spec.Estimate)
	if err != nil {
		return spec, fmt.Errorf("branch: create child: %w", err)
	}
	for _, v := range fixed {
		if err = child.FixZero(v); err != nil {
			return spec, fmt.Errorf("branch: fix %s: %w", v.Name(), err)
		}
	}

	return spec, nil
}
