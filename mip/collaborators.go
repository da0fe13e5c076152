package mip

// Domain applies local bound tightenings on behalf of the engine.
//
// A request that lands on the wrong side of the opposite bound by no more
// than the feasibility tolerance is clamped to that bound and not reported
// as infeasible. tightened is false when the bound did not move.
type Domain interface {
	TightenLB(v Var, val float64, reason Inference) (infeasible, tightened bool, err error)
	TightenUB(v Var, val float64, reason Inference) (infeasible, tightened bool, err error)
}

// EventBus delivers local bound changes of single variables.
type EventBus interface {
	Subscribe(v Var, fn BoundHandler) (int, error)
	Unsubscribe(v Var, handle int) error
}

// Solution gives the value of a variable in some (LP or arbitrary) point.
type Solution interface {
	Value(v Var) float64
}

// Values is a Solution backed by a slice indexed by Var.Index.
// Indices outside the slice read as zero.
type Values []float64

// Value implements Solution.
func (s Values) Value(v Var) float64 {
	i := v.Index()
	if i < 0 || i >= len(s) {
		return 0
	}

	return s[i]
}

// CutFeedback reports what a RowSink did with a cut.
type CutFeedback struct {
	// Accepted is true if the row entered the cut pool.
	Accepted bool
	// Duplicate is true if an identical row was already present.
	Duplicate bool
	// Violation is Activity - RHS at the separated solution.
	Violation float64
}

// RowSink accepts separated cuts.
type RowSink interface {
	AddCut(row *Row, sol Solution) (CutFeedback, error)
}

// LinearRelation is LHS ≤ A·X + B·Y ≤ RHS. Infinite sides are ±Infinity.
type LinearRelation struct {
	Name string
	X, Y Var
	A, B float64
	LHS  float64
	RHS  float64
}

// RelationScanner enumerates the two-variable linear relations of the problem.
type RelationScanner interface {
	TwoVariableRelations() []LinearRelation
}

// Child is a freshly created child node of the current search node.
type Child interface {
	// FixZero fixes v to zero in this child only.
	FixZero(v Var) error
}

// Tree is the search-tree collaborator used for branching.
type Tree interface {
	// Depth of the current node; the root has depth 0.
	Depth() int
	// NodeSelectionPriority of a child in which v is moved to target.
	NodeSelectionPriority(v Var, target float64) float64
	// ChildEstimate of the objective of a child in which v is moved to target.
	ChildEstimate(v Var, target float64) float64
	// CreateChild creates a child of the current node.
	CreateChild(priority, estimate float64) (Child, error)
}

// Presolver applies global reductions during presolving.
type Presolver interface {
	// Fix fixes v globally to val.
	Fix(v Var, val float64) (infeasible, fixed bool, err error)
	// AddZeroFixing adds the explicit constraint v = 0; used for variables
	// that cannot be fixed directly.
	AddZeroFixing(name string, v Var) error
}
