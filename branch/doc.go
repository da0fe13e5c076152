// Package branch selects a violated SOS1 constraint and splits it into two
// children.
//
// Selection scores every candidate with more than one nonzero member:
//
//	PolicyValueSum  Σ |x_j| over nonzero members (default)
//	PolicyNonzeros  number of nonzero members
//	PolicyMaxWeight largest member weight among nonzero members
//
// The highest score wins; the first candidate wins ties.
//
// Splitting a constraint with n members:
//
//	n == 2: child 1 fixes x_0 = 0, child 2 fixes x_1 = 0
//	n  > 2: k = ⌊Σ j·|x_j| / Σ |x_j|⌋ clamped to [0, n-2];
//	        child 1 fixes x_0..x_k = 0, child 2 fixes x_{k+1}..x_{n-1} = 0
//
// Each child's priority is the sum, and its estimate the average, of the
// per-variable contributions reported by the Tree for the fixed variables.
package branch
