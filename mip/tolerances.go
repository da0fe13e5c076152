package mip

import "math"

// Tolerances holds the numerical thresholds every comparison goes through.
//
//   - Feas is the feasibility tolerance for bounds and solution values.
//   - Eps is the smaller epsilon for structural zero tests (coefficients).
//   - Infinity is the magnitude at and above which a value counts as infinite.
type Tolerances struct {
	Feas     float64
	Eps      float64
	Infinity float64
}

// DefaultTolerances returns Feas=1e-6, Eps=1e-9, Infinity=1e20.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Feas:     1e-6,
		Eps:      1e-9,
		Infinity: 1e20,
	}
}

// IsZero reports |x| ≤ Eps.
func (t Tolerances) IsZero(x float64) bool { return math.Abs(x) <= t.Eps }

// IsFeasZero reports |x| ≤ Feas.
func (t Tolerances) IsFeasZero(x float64) bool { return math.Abs(x) <= t.Feas }

// IsFeasPositive reports x > Feas.
func (t Tolerances) IsFeasPositive(x float64) bool { return x > t.Feas }

// IsFeasNegative reports x < -Feas.
func (t Tolerances) IsFeasNegative(x float64) bool { return x < -t.Feas }

// IsFeasEQ reports |a-b| ≤ Feas.
func (t Tolerances) IsFeasEQ(a, b float64) bool { return math.Abs(a-b) <= t.Feas }

// IsFeasLT reports a < b - Feas.
func (t Tolerances) IsFeasLT(a, b float64) bool { return a-b < -t.Feas }

// IsFeasGT reports a > b + Feas.
func (t Tolerances) IsFeasGT(a, b float64) bool { return a-b > t.Feas }

// IsFeasLE reports a ≤ b + Feas.
func (t Tolerances) IsFeasLE(a, b float64) bool { return a-b <= t.Feas }

// IsInfinity reports |x| ≥ Infinity. NaN is never infinite.
func (t Tolerances) IsInfinity(x float64) bool { return math.Abs(x) >= t.Infinity }

// FeasFloor rounds down after adding Feas, so 1.9999999 floors to 2.
func (t Tolerances) FeasFloor(x float64) float64 { return math.Floor(x + t.Feas) }

// IsEfficacious reports whether a cut violation is worth adding (> Feas).
func (t Tolerances) IsEfficacious(violation float64) bool { return violation > t.Feas }

// ExcludesZero reports whether the local bounds of v cut zero off,
// i.e. lb > Feas or ub < -Feas.
func (t Tolerances) ExcludesZero(v Var) bool {
	return t.IsFeasPositive(v.LB()) || t.IsFeasNegative(v.UB())
}

// GlobalExcludesZero is ExcludesZero on global bounds.
func (t Tolerances) GlobalExcludesZero(v Var) bool {
	return t.IsFeasPositive(v.GlobalLB()) || t.IsFeasNegative(v.GlobalUB())
}

// FixedZero reports whether the local bounds of v are both feasibly zero.
func (t Tolerances) FixedZero(v Var) bool {
	return t.IsFeasZero(v.LB()) && t.IsFeasZero(v.UB())
}

// GlobalFixedZero is FixedZero on global bounds.
func (t Tolerances) GlobalFixedZero(v Var) bool {
	return t.IsFeasZero(v.GlobalLB()) && t.IsFeasZero(v.GlobalUB())
}
