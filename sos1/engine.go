package sos1

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/sos1/branch"
	"github.com/katalvlaran/sos1/clique"
	"github.com/katalvlaran/sos1/conflict"
	"github.com/katalvlaran/sos1/mip"
	"github.com/katalvlaran/sos1/propagate"
	"github.com/katalvlaran/sos1/separate"
)

// Engine owns the SOS1 constraints of one problem together with the
// per-search state: conflict graph, clique separator and propagator.
//
// Lifecycle:
//
//	New → Add/Activate → Presolve* → InitSolve →
//	  { Propagate | Enforce | SeparateLP | SeparateSol | Check }* →
//	ExitSolve → Free
//
// An Engine is not safe for concurrent use.
type Engine struct {
	model  Model
	p      Params
	tol    mip.Tolerances
	log    *log.Logger
	hooks  Hooks
	oracle clique.Oracle

	cons  []*Constraint
	names map[string]*Constraint

	// search state, valid between InitSolve and ExitSolve
	solving bool
	graph   *conflict.Graph
	graphOn bool
	sep     *separate.Separator
	prop    *propagate.Propagator

	stats Stats
}

// Antecedent is the bound that caused a propagated fixing: Var's lower
// bound (Lower) or upper bound excluded zero.
type Antecedent struct {
	Var   mip.Var
	Lower bool
	Bound float64
}

// New creates an engine over model.
func New(model Model, opts ...Option) (*Engine, error) {
	if model == nil {
		return nil, ErrModelNil
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.Params.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		model:  model,
		p:      o.Params,
		tol:    o.Tolerances,
		log:    o.Logger,
		hooks:  o.Hooks,
		oracle: o.Oracle,
		names:  make(map[string]*Constraint),
	}
	var err error
	if e.prop, err = e.newPropagator(); err != nil {
		return nil, err
	}

	return e, nil
}

// Params returns the effective parameters.
func (e *Engine) Params() Params { return e.p }

// Stats returns the cumulative statistics.
func (e *Engine) Stats() Stats { return e.stats }

// Constraints returns the constraints in insertion order.
func (e *Engine) Constraints() []*Constraint { return e.cons }

// Constraint looks a constraint up by name.
func (e *Engine) Constraint(name string) (*Constraint, bool) {
	c, ok := e.names[name]

	return c, ok
}

// ConflictGraph returns the conflict graph of the running search, or nil.
func (e *Engine) ConflictGraph() *conflict.Graph { return e.graph }

// GraphEnabled reports whether graph propagation and separation are live.
func (e *Engine) GraphEnabled() bool { return e.graphOn }

// Add registers c. Constraints cannot be added during a search.
func (e *Engine) Add(c *Constraint) error {
	if c == nil {
		return fmt.Errorf("%w: nil constraint", ErrUnknownConstraint)
	}
	if e.solving {
		return ErrSolving
	}
	if _, dup := e.names[c.name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateName, c.name)
	}
	if c.DuplicateWeights() {
		e.log.Warn("constraint has duplicate weights", "cons", c.name)
	}
	e.cons = append(e.cons, c)
	e.names[c.name] = c

	return nil
}

func (e *Engine) owned(c *Constraint) error {
	if c == nil || e.names[c.name] != c {
		return ErrUnknownConstraint
	}

	return nil
}

// Activate starts tracking the forced-nonzero count of c.
func (e *Engine) Activate(c *Constraint) error {
	if err := e.owned(c); err != nil {
		return err
	}

	return c.activate(e.model, e.tol)
}

// Deactivate stops tracking c.
func (e *Engine) Deactivate(c *Constraint) error {
	if err := e.owned(c); err != nil {
		return err
	}

	return c.deactivate(e.model)
}

// ActivateAll activates every constraint.
func (e *Engine) ActivateAll() error {
	for _, c := range e.cons {
		if err := c.activate(e.model, e.tol); err != nil {
			return err
		}
	}

	return nil
}

// newPropagator picks the rules for the current graph state. The
// constraint rule runs when requested or when no graph is available.
func (e *Engine) newPropagator() (*propagate.Propagator, error) {
	var rules []propagate.Rule
	if e.p.SOSConsProp || !e.graphOn || !e.p.ConflictProp {
		rules = append(rules, propagate.RuleConstraint)
	}
	if e.graphOn && e.p.ConflictProp {
		rules = append(rules, propagate.RuleGraph)
	}

	return propagate.New(e.model, e.tol, propagate.WithRules(rules...), propagate.WithLogger(e.log))
}

// InitSolve builds the conflict graph, detects bound relations and sets up
// clique separation. A previous search is torn down first.
func (e *Engine) InitSolve() error {
	if e.solving {
		e.ExitSolve()
	}

	lists := make([][]mip.Var, len(e.cons))
	for i, c := range e.cons {
		lists[i] = c.vars
	}
	e.graph = conflict.Build(lists)
	e.solving = true
	e.graphOn = e.graph.Len() > 0 && e.graph.Len() <= e.p.MaxGraphNodes

	if e.graph.Len() > e.p.MaxGraphNodes {
		e.log.Warn("conflict graph too large, graph features disabled",
			"nodes", e.graph.Len(), "max", e.p.MaxGraphNodes)
	}
	if e.graphOn {
		st, err := conflict.DetectBoundRelations(e.graph, e.model.TwoVariableRelations(), e.tol)
		if err != nil {
			return fmt.Errorf("sos1: detect bound relations: %w", err)
		}
		e.log.Debug("bound relations",
			"scanned", st.Scanned, "lower", st.Lower, "upper", st.Upper,
			"unique_lb", st.UniqueLB, "unique_ub", st.UniqueUB)

		if e.p.BoundCutsFromGraph {
			sopts := []separate.Option{
				separate.WithScale(e.p.CliqueScale),
				separate.WithStrengthen(e.p.StrengthenBoundCuts),
				separate.WithMaxTreeNodes(e.p.CliqueMaxTreeNodes),
				separate.WithTolerances(e.tol),
				separate.WithLogger(e.log),
			}
			if e.oracle != nil {
				sopts = append(sopts, separate.WithOracle(e.oracle))
			}
			if e.sep, err = separate.New(e.graph, sopts...); err != nil {
				return fmt.Errorf("sos1: clique separator: %w", err)
			}
		}
	}

	var err error
	if e.prop, err = e.newPropagator(); err != nil {
		return err
	}

	e.stats.GraphNodes = e.graph.Len()
	e.stats.GraphEdges = e.graph.EdgeCount()
	e.stats.GraphEnabled = e.graphOn
	e.hooks.OnGraphBuilt(e.graph.Len(), e.graph.EdgeCount(), e.graphOn)
	e.log.Debug("conflict graph", "nodes", e.graph.Len(), "edges", e.graph.EdgeCount(), "enabled", e.graphOn)

	return nil
}

// ExitSolve releases the search state: graph, separator and cached rows.
func (e *Engine) ExitSolve() {
	e.graph = nil
	e.graphOn = false
	e.sep = nil
	e.solving = false
	for _, c := range e.cons {
		c.dropRows()
	}
	// constraint-rule propagator cannot fail: the model was checked in New
	e.prop, _ = e.newPropagator()
}

// Free deactivates every constraint, ends the search and forgets all
// constraints.
func (e *Engine) Free() error {
	var first error
	for _, c := range e.cons {
		if err := c.deactivate(e.model); err != nil && first == nil {
			first = err
		}
	}
	e.ExitSolve()
	e.cons = nil
	e.names = make(map[string]*Constraint)

	return first
}

// Transform copies every constraint into target, mapping members with
// mapVar, and returns a new engine with the same options.
func (e *Engine) Transform(target Model, mapVar func(mip.Var) (mip.Var, error)) (*Engine, error) {
	te, err := New(target,
		WithParams(e.p), WithLogger(e.log), WithHooks(e.hooks),
		WithTolerances(e.tol), WithOracle(e.oracle))
	if err != nil {
		return nil, err
	}
	var tc *Constraint
	for _, c := range e.cons {
		if tc, err = c.Copy(c.name, mapVar); err != nil {
			return nil, err
		}
		if err = te.Add(tc); err != nil {
			return nil, err
		}
	}

	return te, nil
}

// Propagate runs the enabled rules at the current node.
//
// An active constraint with more than one forced-nonzero member is a cutoff
// whatever rules are enabled. A single forced member that has no node in the
// conflict graph is propagated by the constraint rule even when only the
// graph rule is enabled.
func (e *Engine) Propagate() (Result, error) {
	e.stats.Propagations++
	var total propagate.Result

	for _, c := range e.cons {
		if !c.active {
			continue
		}
		if c.nFixedNonzero > 1 {
			total.Cutoff = true
			break
		}
		if !e.prop.Enabled(propagate.RuleConstraint) && !e.forcedOutsideGraph(c) {
			continue
		}
		r, err := e.prop.Constraint(c.name, c.vars, c.nFixedNonzero)
		total.Merge(r)
		if err != nil {
			return DidNotRun, err
		}
		if total.Cutoff {
			break
		}
	}

	if !total.Cutoff && e.graphOn && e.prop.Enabled(propagate.RuleGraph) {
		r, err := e.prop.Graph(e.graph)
		total.Merge(r)
		if err != nil {
			return DidNotRun, err
		}
	}

	res := e.propResult(total)
	e.hooks.OnPropagate(res, total.NChanges)

	return res, nil
}

// forcedOutsideGraph reports whether c has its one forced-nonzero member
// outside the conflict graph, e.g. a variable fixed by the host solver.
// The graph rule cannot reach it, so the constraint rule has to.
func (e *Engine) forcedOutsideGraph(c *Constraint) bool {
	if c.nFixedNonzero != 1 {
		return false
	}
	for _, v := range c.vars {
		if !e.tol.ExcludesZero(v) {
			continue
		}
		if !e.graphOn || e.graph == nil {
			return true
		}
		_, ok := e.graph.NodeOf(v)

		return !ok
	}

	return false
}

func (e *Engine) propResult(r propagate.Result) Result {
	e.stats.Fixings += r.NChanges
	switch {
	case r.Cutoff:
		e.stats.Cutoffs++
		return Cutoff
	case r.NChanges > 0:
		return ReducedDomain
	default:
		return DidNotFind
	}
}

// policy maps the branching parameters to a scoring policy.
func (e *Engine) policy() branch.Policy {
	switch {
	case e.p.BranchNonzeros:
		return branch.PolicyNonzeros
	case e.p.BranchWeight:
		return branch.PolicyMaxWeight
	default:
		return branch.PolicyValueSum
	}
}

// Enforce handles a relaxation solution sol at the current node.
//
//  1. Constraint-local reductions of active constraints: cutoff or
//     ReducedDomain ends the call.
//  2. No constraint with two nonzero members in sol: Feasible.
//  3. Branching disabled: Infeasible, left to other branching rules.
//  4. Otherwise branch on the best candidate: Branched.
func (e *Engine) Enforce(sol mip.Solution) (Result, error) {
	var total propagate.Result
	for _, c := range e.cons {
		if !c.active {
			continue
		}
		if c.nFixedNonzero > 1 {
			total.Cutoff = true
			break
		}
		if c.nFixedNonzero == 1 {
			r, err := e.prop.Constraint(c.name, c.vars, c.nFixedNonzero)
			total.Merge(r)
			if err != nil {
				return DidNotRun, err
			}
			if total.Cutoff {
				break
			}
		}
	}
	if total.Cutoff || total.NChanges > 0 {
		return e.propResult(total), nil
	}

	cands := make([]branch.Candidate, len(e.cons))
	for i, c := range e.cons {
		cands[i] = branch.Candidate{Vars: c.vars, Weights: c.weights}
	}
	idx, score, ok := branch.Select(cands, sol, e.policy(), e.tol)
	if !ok {
		return Feasible, nil
	}
	if !e.p.BranchSOS {
		return Infeasible, nil
	}

	c := e.cons[idx]
	out, specs, err := branch.Branch(e.model, c.vars, sol, e.tol)
	if err != nil {
		return DidNotRun, fmt.Errorf("sos1: branch on %s: %w", c.name, err)
	}
	if out != branch.OutcomeBranched {
		return Infeasible, nil
	}
	e.stats.Branchings++
	e.hooks.OnBranch(c.name, len(specs))
	e.log.Debug("branched", "cons", c.name, "score", score,
		"left", len(specs[0].Fixed), "right", len(specs[1].Fixed))

	return Branched, nil
}

// SeparateLP separates bound cuts at the LP solution.
func (e *Engine) SeparateLP(lp mip.Solution) (Result, error) { return e.separate(lp) }

// SeparateSol separates bound cuts at an arbitrary solution.
func (e *Engine) SeparateSol(sol mip.Solution) (Result, error) { return e.separate(sol) }

// budget returns the cut budget of the current node, 0 when separation is
// gated off by depth or frequency.
func (e *Engine) budget(depth int) int {
	if e.p.BoundCutsDepth >= 0 && depth > e.p.BoundCutsDepth {
		return 0
	}
	switch {
	case e.p.BoundCutsFreq < 0:
		return 0
	case e.p.BoundCutsFreq == 0 && depth != 0:
		return 0
	case e.p.BoundCutsFreq > 0 && depth%e.p.BoundCutsFreq != 0:
		return 0
	}
	if depth == 0 {
		return e.p.MaxBoundCutsRoot
	}

	return e.p.MaxBoundCuts
}

// separate adds violated constraint bound cuts first, then clique cuts, both
// drawing from one per-round budget.
func (e *Engine) separate(sol mip.Solution) (Result, error) {
	depth := e.model.Depth()
	budget := e.budget(depth)
	useGraph := e.p.BoundCutsFromGraph && e.sep != nil
	if budget <= 0 || (!e.p.BoundCutsFromSOS && !useGraph) {
		return DidNotRun, nil
	}
	e.stats.SepRounds++

	var (
		ncons, nclq int
		g           *conflict.Graph
	)
	if e.graphOn {
		g = e.graph
	}
	if e.p.BoundCutsFromSOS {
		for _, c := range e.cons {
			if ncons >= budget {
				break
			}
			lower, upper := c.boundRows(g, e.p.StrengthenBoundCuts, e.tol)
			for _, row := range []*mip.Row{lower, upper} {
				if ncons >= budget {
					break
				}
				if row == nil || !e.tol.IsEfficacious(row.Violation(sol)) {
					continue
				}
				fb, err := e.model.AddCut(row, sol)
				if err != nil {
					return DidNotRun, fmt.Errorf("sos1: add cut %s: %w", row.Name, err)
				}
				if fb.Accepted {
					ncons++
				}
			}
		}
		e.stats.ConsCuts += ncons
		e.hooks.OnSeparate(SourceConstraint, ncons)
	}

	if useGraph && ncons < budget {
		r, err := e.sep.Separate(sol, e.model, budget-ncons)
		if err != nil {
			return DidNotRun, err
		}
		nclq = r.Cuts
		e.stats.CliqueCuts += nclq
		e.hooks.OnSeparate(SourceClique, nclq)
	}

	e.log.Debug("separation round", "depth", depth, "budget", budget, "cons_cuts", ncons, "clique_cuts", nclq)
	if ncons+nclq > 0 {
		return Separated, nil
	}

	return DidNotFind, nil
}

// Check reports whether sol satisfies every constraint and lists the names
// of the violated ones.
func (e *Engine) Check(sol mip.Solution) (Result, []string) {
	var violated []string
	for _, c := range e.cons {
		nz := 0
		for _, v := range c.vars {
			if !e.tol.IsFeasZero(sol.Value(v)) {
				nz++
			}
		}
		if nz > 1 {
			violated = append(violated, c.name)
		}
	}
	if len(violated) > 0 {
		return Infeasible, violated
	}

	return Feasible, nil
}

// ResolvePropagation returns the bound responsible for a fixing made with
// reason: the forced member of the named constraint, or the conflict graph
// node of a graph inference.
func (e *Engine) ResolvePropagation(reason mip.Inference) (Antecedent, error) {
	var v mip.Var
	if reason.IsGraph() {
		if e.graph == nil || reason.Node() >= e.graph.Len() {
			return Antecedent{}, fmt.Errorf("%w: graph node %d", ErrBadInference, reason.Node())
		}
		v = e.graph.Node(reason.Node()).Var
	} else {
		c, ok := e.names[reason.Constraint]
		if !ok {
			return Antecedent{}, fmt.Errorf("%w: %s", ErrUnknownConstraint, reason.Constraint)
		}
		if reason.Info >= len(c.vars) {
			return Antecedent{}, fmt.Errorf("%w: position %d in %s", ErrBadInference, reason.Info, c.name)
		}
		v = c.vars[reason.Info]
	}

	switch {
	case e.tol.IsFeasPositive(v.LB()):
		return Antecedent{Var: v, Lower: true, Bound: v.LB()}, nil
	case e.tol.IsFeasNegative(v.UB()):
		return Antecedent{Var: v, Lower: false, Bound: v.UB()}, nil
	default:
		return Antecedent{}, fmt.Errorf("%w: %s no longer excludes zero", ErrBadInference, v.Name())
	}
}
