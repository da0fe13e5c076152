// Package mip defines the collaborator boundary of the SOS1 engine: the
// variable abstraction, bound tightening, bound-change notification, solution
// access, cut sinks, two-variable relation scanning and child node creation.
//
// The engine never owns any of these. A branch-and-bound driver implements
// them on top of its own LP, tree and row storage; this package only states
// the contracts and the tolerance predicates every comparison goes through.
//
// Store is a complete in-memory implementation of all interfaces. It keeps a
// bound trail so tests and tools can backtrack (Mark/Undo) the way a search
// tree would, and it records every row, child node and zero-fixing it is
// handed.
//
// Tolerances:
//
//	IsFeasZero(x)      |x| ≤ Feas
//	IsFeasPositive(x)  x > Feas
//	IsFeasNegative(x)  x < -Feas
//	IsInfinity(x)      |x| ≥ Infinity
//
// Complexity:
//   - Every predicate is O(1).
//   - Store tightenings are O(1) plus O(k) for k subscribers of the variable.
package mip
