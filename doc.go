// Package sos1 is the root of a constraint engine for SOS1 constraints
// ("at most one member may be nonzero") used inside a branch-and-bound
// solver for mixed-integer programs.
//
// What lives where:
//
//	mip/       - collaborator interfaces (domain, events, rows, tree) and
//	             Store, an in-memory implementation of all of them
//	conflict/  - the conflict graph over SOS1 members and the detection of
//	             variable bound relations x ≤ c·z
//	propagate/ - fixing members to zero from forced-nonzero members
//	branch/    - branching candidate scoring and the weighted split
//	cuts/      - bound cut rows Σ x/ub ≤ 1 (and the lower-bound mirror)
//	clique/    - weighted maximum clique branch-and-bound with a callback
//	separate/  - clique-based bound cut separation
//	sos1/      - Constraint, Params and the Engine orchestrating the above
//	metrics/   - Prometheus hooks for the engine
//	cmd/sos1inspect - CLI running the engine over TOML instances
//
// Quick ASCII example:
//
//	  x ─── y ─── z        two constraints {x, y} and {y, z}
//
//	y forced nonzero ⇒ x = z = 0.
//
// The engine never loops on its own: the host solver calls Presolve,
// InitSolve, Propagate, Enforce, SeparateLP and Check at the right moments
// and reads back a Result status.
package sos1
