// Package sos1 is the reasoning engine for SOS1 constraints (at most one
// member nonzero) inside a branch-and-bound solver.
//
// What:
//
//   - Constraint: ordered members with optional weights and a
//     forced-nonzero count kept current from bound events.
//   - Engine: owns the constraints and, between InitSolve and ExitSolve,
//     the conflict graph, the bound relations and the clique separator.
//     Lifecycle operations return a Result status; infeasibility is the
//     Cutoff status, never an error.
//   - Params: the configuration surface, loadable from TOML.
//   - Hooks: event callbacks for metrics; NoopHooks by default.
//
// Collaborators (domain, event bus, row sink, relation scanner, tree,
// presolver) are reached through Model; mip.Store is an in-memory Model.
//
// Example:
//
//	st := mip.NewStore()
//	x, y := st.AddVar("x", 0, 4), st.AddVar("y", 0, 4)
//	c, _ := sos1.NewConstraint("c", []mip.Var{x, y}, nil)
//	e, _ := sos1.New(st)
//	_ = e.Add(c)
//	_ = e.ActivateAll()
//	_ = e.InitSolve()
//	st.SetValues(2, 3)
//	res, _ := e.Enforce(st) // Branched: one child fixes x, the other y
//
// Errors:
//
//   - ErrModelNil, ErrInvalidParams from New and LoadParams.
//   - ErrDuplicateName, ErrSolving from Add.
//   - ErrUnknownConstraint, ErrBadInference from ResolvePropagation.
//   - collaborator errors wrapped with %w.
package sos1
