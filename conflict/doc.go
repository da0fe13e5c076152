// Package conflict builds the conflict graph of a set of SOS1 constraints and
// attaches detected variable bound relations to its nodes.
//
// What:
//
//   - Build: one node per not-fixed member variable (first occurrence order),
//     an undirected edge between every two members of the same constraint,
//     successor lists sorted ascending.
//   - Components: connected components via an explicit worklist.
//   - DetectBoundRelations: scans two-variable relations a·x + b·z ≤ 0 / ≥ 0
//     and records x ≤ d·z (upper) or x ≥ c·z (lower) on the node of x.
//   - MarkUniqueBoundVars: flags every node of a component whose members all
//     share one bound variable per direction.
//
// Representation:
//
//	nodes []Node   // arena indexed by dense node id
//	succ  [][]int  // sorted successor ids per node
//
// The graph is built once per search and is read-only afterwards; node
// relation fields are written only by the detector, right after Build.
//
// Complexity:
//
//   - Build:      O(Σ nᵢ² · log deg) over constraint sizes nᵢ.
//   - Adjacent:   O(log deg) by binary search.
//   - Components: O(V + E).
//   - Detect:     O(R + V + E) for R relations.
package conflict
