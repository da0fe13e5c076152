package mip

import (
	"fmt"
	"math"
	"sort"
)

// Variable is the Var implementation of Store.
type Variable struct {
	store  *Store
	index  int
	name   string
	status Status
	lb, ub float64 // local
	glb    float64
	gub    float64
	obj    float64
}

// Index implements Var.
func (v *Variable) Index() int { return v.index }

// Name implements Var.
func (v *Variable) Name() string { return v.name }

// Status implements Var.
func (v *Variable) Status() Status { return v.status }

// LB implements Var.
func (v *Variable) LB() float64 { return v.lb }

// UB implements Var.
func (v *Variable) UB() float64 { return v.ub }

// GlobalLB implements Var.
func (v *Variable) GlobalLB() float64 { return v.glb }

// GlobalUB implements Var.
func (v *Variable) GlobalUB() float64 { return v.gub }

// Obj returns the objective coefficient used by ChildEstimate.
func (v *Variable) Obj() float64 { return v.obj }

// String returns the variable name.
func (v *Variable) String() string { return v.name }

// trailEntry remembers one local bound change for Undo.
type trailEntry struct {
	v     *Variable
	lower bool
	old   float64
}

// InferenceRecord is one successful local tightening with its reason.
type InferenceRecord struct {
	Var    Var
	Lower  bool
	Value  float64
	Reason Inference
}

// ChildRecord is a child node created through Store.CreateChild.
type ChildRecord struct {
	Priority float64
	Estimate float64
	Fixed    []Var
}

// FixZero implements Child.
func (c *ChildRecord) FixZero(v Var) error {
	if v == nil {
		return ErrNilVar
	}
	c.Fixed = append(c.Fixed, v)

	return nil
}

// ZeroFixing is an explicit v = 0 constraint added through AddZeroFixing.
type ZeroFixing struct {
	Name string
	Var  Var
}

// Store is an in-memory implementation of every collaborator interface:
// Domain, EventBus, Solution (the LP point), RowSink, RelationScanner, Tree
// and Presolver. It is not safe for concurrent use.
type Store struct {
	tol       Tolerances
	vars      []*Variable
	values    []float64
	lpObj     float64
	depth     int
	trail     []trailEntry
	subs      map[int]map[int]BoundHandler
	nextSub   int
	relations []LinearRelation
	rows      []*Row
	rowKeys   map[string]struct{}
	children  []*ChildRecord
	zeroFixes []ZeroFixing
	infers    []InferenceRecord
}

// NewStore returns an empty Store using DefaultTolerances.
func NewStore() *Store {
	return NewStoreWithTolerances(DefaultTolerances())
}

// NewStoreWithTolerances returns an empty Store using tol.
func NewStoreWithTolerances(tol Tolerances) *Store {
	return &Store{
		tol:     tol,
		subs:    make(map[int]map[int]BoundHandler),
		rowKeys: make(map[string]struct{}),
	}
}

// Tolerances returns the store tolerances.
func (s *Store) Tolerances() Tolerances { return s.tol }

// AddVar creates an active variable with global and local bounds [lb,ub].
// Complexity: O(1) amortized.
func (s *Store) AddVar(name string, lb, ub float64) *Variable {
	v := &Variable{
		store:  s,
		index:  len(s.vars),
		name:   name,
		status: StatusActive,
		lb:     lb,
		ub:     ub,
		glb:    lb,
		gub:    ub,
	}
	s.vars = append(s.vars, v)
	s.values = append(s.values, 0)

	return v
}

// Vars returns all variables in creation order.
func (s *Store) Vars() []*Variable { return s.vars }

// VarByName returns the first variable called name.
func (s *Store) VarByName(name string) (*Variable, bool) {
	for _, v := range s.vars {
		if v.name == name {
			return v, true
		}
	}

	return nil, false
}

// SetStatus changes the representation status of v.
func (s *Store) SetStatus(v Var, st Status) error {
	sv, err := s.lookup(v)
	if err != nil {
		return err
	}
	sv.status = st

	return nil
}

// SetObj sets the objective coefficient of v.
func (s *Store) SetObj(v Var, obj float64) error {
	sv, err := s.lookup(v)
	if err != nil {
		return err
	}
	sv.obj = obj

	return nil
}

// SetValue sets the LP value of v.
func (s *Store) SetValue(v Var, x float64) error {
	sv, err := s.lookup(v)
	if err != nil {
		return err
	}
	s.values[sv.index] = x

	return nil
}

// SetValues overwrites the LP point; missing entries become zero.
func (s *Store) SetValues(xs ...float64) {
	for i := range s.values {
		s.values[i] = 0
		if i < len(xs) {
			s.values[i] = xs[i]
		}
	}
}

// Value implements Solution for the current LP point.
func (s *Store) Value(v Var) float64 {
	i := v.Index()
	if i < 0 || i >= len(s.values) {
		return 0
	}

	return s.values[i]
}

// SetLPObjective sets the LP objective value used by ChildEstimate.
func (s *Store) SetLPObjective(obj float64) { s.lpObj = obj }

// SetDepth sets the depth of the current node.
func (s *Store) SetDepth(d int) { s.depth = d }

// lookup resolves v to a Store variable.
func (s *Store) lookup(v Var) (*Variable, error) {
	if v == nil {
		return nil, ErrNilVar
	}
	sv, ok := v.(*Variable)
	if !ok || sv.store != s {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVar, v.Name())
	}

	return sv, nil
}

// ---------------------------------------------------------------------------
// Domain
// ---------------------------------------------------------------------------

// TightenLB implements Domain.
func (s *Store) TightenLB(v Var, val float64, reason Inference) (infeasible, tightened bool, err error) {
	sv, err := s.lookup(v)
	if err != nil {
		return false, false, err
	}
	if sv.status == StatusSum {
		return false, false, fmt.Errorf("%w: %s", ErrNotTightenable, sv.name)
	}
	if s.tol.IsFeasGT(val, sv.ub) {
		return true, false, nil
	}
	val = math.Min(val, sv.ub)
	if val <= sv.lb+s.tol.Eps {
		return false, false, nil
	}
	s.setLocal(sv, true, val)
	s.infers = append(s.infers, InferenceRecord{Var: sv, Lower: true, Value: val, Reason: reason})

	return false, true, nil
}

// TightenUB implements Domain.
func (s *Store) TightenUB(v Var, val float64, reason Inference) (infeasible, tightened bool, err error) {
	sv, err := s.lookup(v)
	if err != nil {
		return false, false, err
	}
	if sv.status == StatusSum {
		return false, false, fmt.Errorf("%w: %s", ErrNotTightenable, sv.name)
	}
	if s.tol.IsFeasLT(val, sv.lb) {
		return true, false, nil
	}
	val = math.Max(val, sv.lb)
	if val >= sv.ub-s.tol.Eps {
		return false, false, nil
	}
	s.setLocal(sv, false, val)
	s.infers = append(s.infers, InferenceRecord{Var: sv, Lower: false, Value: val, Reason: reason})

	return false, true, nil
}

// SetLocalBounds overwrites the local bounds of v, trailing and notifying
// like a branching decision would.
func (s *Store) SetLocalBounds(v Var, lb, ub float64) error {
	sv, err := s.lookup(v)
	if err != nil {
		return err
	}
	if lb != sv.lb {
		s.setLocal(sv, true, lb)
	}
	if ub != sv.ub {
		s.setLocal(sv, false, ub)
	}

	return nil
}

// setLocal trails and applies one local bound change, then notifies.
func (s *Store) setLocal(sv *Variable, lower bool, val float64) {
	var ev BoundEvent
	if lower {
		s.trail = append(s.trail, trailEntry{v: sv, lower: true, old: sv.lb})
		ev = BoundEvent{Var: sv, Kind: LBTightened, Old: sv.lb, New: val}
		if val < sv.lb {
			ev.Kind = LBRelaxed
		}
		sv.lb = val
	} else {
		s.trail = append(s.trail, trailEntry{v: sv, lower: false, old: sv.ub})
		ev = BoundEvent{Var: sv, Kind: UBTightened, Old: sv.ub, New: val}
		if val > sv.ub {
			ev.Kind = UBRelaxed
		}
		sv.ub = val
	}
	s.notify(ev)
}

// Mark returns the current trail position.
func (s *Store) Mark() int { return len(s.trail) }

// Undo rewinds local bound changes back to mark, emitting the reverse events.
// Complexity: O(changes undone · subscribers).
func (s *Store) Undo(mark int) error {
	if mark < 0 || mark > len(s.trail) {
		return ErrBadMark
	}
	var (
		e  trailEntry
		ev BoundEvent
	)
	for len(s.trail) > mark {
		e = s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		if e.lower {
			ev = BoundEvent{Var: e.v, Kind: LBRelaxed, Old: e.v.lb, New: e.old}
			if e.old > e.v.lb {
				ev.Kind = LBTightened
			}
			e.v.lb = e.old
		} else {
			ev = BoundEvent{Var: e.v, Kind: UBRelaxed, Old: e.v.ub, New: e.old}
			if e.old < e.v.ub {
				ev.Kind = UBTightened
			}
			e.v.ub = e.old
		}
		s.notify(ev)
	}

	return nil
}

// Inferences returns every successful tightening in order.
func (s *Store) Inferences() []InferenceRecord { return s.infers }

// ---------------------------------------------------------------------------
// EventBus
// ---------------------------------------------------------------------------

// Subscribe implements EventBus.
func (s *Store) Subscribe(v Var, fn BoundHandler) (int, error) {
	sv, err := s.lookup(v)
	if err != nil {
		return 0, err
	}
	m, ok := s.subs[sv.index]
	if !ok {
		m = make(map[int]BoundHandler)
		s.subs[sv.index] = m
	}
	s.nextSub++
	m[s.nextSub] = fn

	return s.nextSub, nil
}

// Unsubscribe implements EventBus.
func (s *Store) Unsubscribe(v Var, handle int) error {
	sv, err := s.lookup(v)
	if err != nil {
		return err
	}
	m := s.subs[sv.index]
	if _, ok := m[handle]; !ok {
		return ErrBadHandle
	}
	delete(m, handle)

	return nil
}

// Subscribers returns the number of live subscriptions on v.
func (s *Store) Subscribers(v Var) int { return len(s.subs[v.Index()]) }

// notify delivers ev to the subscribers of its variable in handle order.
func (s *Store) notify(ev BoundEvent) {
	m := s.subs[ev.Var.Index()]
	if len(m) == 0 {
		return
	}
	handles := make([]int, 0, len(m))
	for h := range m {
		handles = append(handles, h)
	}
	sort.Ints(handles)
	for _, h := range handles {
		m[h](ev)
	}
}

// ---------------------------------------------------------------------------
// RowSink
// ---------------------------------------------------------------------------

// AddCut implements RowSink. Rows violated by more than Feas and not yet
// present are accepted.
func (s *Store) AddCut(row *Row, sol Solution) (CutFeedback, error) {
	if row == nil || row.Len() == 0 {
		return CutFeedback{}, nil
	}
	fb := CutFeedback{Violation: row.Violation(sol)}
	key := row.Key()
	if _, dup := s.rowKeys[key]; dup {
		fb.Duplicate = true

		return fb, nil
	}
	if !s.tol.IsEfficacious(fb.Violation) {
		return fb, nil
	}
	s.rowKeys[key] = struct{}{}
	s.rows = append(s.rows, row)
	fb.Accepted = true

	return fb, nil
}

// Rows returns the accepted cuts in order.
func (s *Store) Rows() []*Row { return s.rows }

// ---------------------------------------------------------------------------
// RelationScanner
// ---------------------------------------------------------------------------

// AddRelation registers lhs ≤ a·x + b·y ≤ rhs.
func (s *Store) AddRelation(name string, x Var, a float64, y Var, b float64, lhs, rhs float64) error {
	if _, err := s.lookup(x); err != nil {
		return err
	}
	if _, err := s.lookup(y); err != nil {
		return err
	}
	s.relations = append(s.relations, LinearRelation{Name: name, X: x, Y: y, A: a, B: b, LHS: lhs, RHS: rhs})

	return nil
}

// TwoVariableRelations implements RelationScanner.
func (s *Store) TwoVariableRelations() []LinearRelation { return s.relations }

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// Depth implements Tree.
func (s *Store) Depth() int { return s.depth }

// NodeSelectionPriority implements Tree: children that move the LP point
// less are preferred.
func (s *Store) NodeSelectionPriority(v Var, target float64) float64 {
	return -math.Abs(s.Value(v) - target)
}

// ChildEstimate implements Tree: LP objective plus the first-order change
// caused by moving v to target.
func (s *Store) ChildEstimate(v Var, target float64) float64 {
	var obj float64
	if sv, err := s.lookup(v); err == nil {
		obj = sv.obj
	}

	return s.lpObj + obj*(target-s.Value(v))
}

// CreateChild implements Tree.
func (s *Store) CreateChild(priority, estimate float64) (Child, error) {
	c := &ChildRecord{Priority: priority, Estimate: estimate}
	s.children = append(s.children, c)

	return c, nil
}

// Children returns the created children in order.
func (s *Store) Children() []*ChildRecord { return s.children }

// ResetChildren forgets recorded children.
func (s *Store) ResetChildren() { s.children = nil }

// ---------------------------------------------------------------------------
// Presolver
// ---------------------------------------------------------------------------

// Fix implements Presolver. Global and local bounds both become val.
func (s *Store) Fix(v Var, val float64) (infeasible, fixed bool, err error) {
	sv, err := s.lookup(v)
	if err != nil {
		return false, false, err
	}
	if sv.status == StatusSum {
		return false, false, fmt.Errorf("%w: %s", ErrNotTightenable, sv.name)
	}
	if s.tol.IsFeasLT(val, sv.glb) || s.tol.IsFeasGT(val, sv.gub) {
		return true, false, nil
	}
	if s.tol.IsFeasEQ(sv.glb, val) && s.tol.IsFeasEQ(sv.gub, val) {
		return false, false, nil
	}
	sv.glb, sv.gub = val, val
	if sv.lb != val {
		s.setLocal(sv, true, val)
	}
	if sv.ub != val {
		s.setLocal(sv, false, val)
	}
	sv.status = StatusFixed

	return false, true, nil
}

// AddZeroFixing implements Presolver.
func (s *Store) AddZeroFixing(name string, v Var) error {
	if _, err := s.lookup(v); err != nil {
		return err
	}
	s.zeroFixes = append(s.zeroFixes, ZeroFixing{Name: name, Var: v})

	return nil
}

// ZeroFixings returns the explicit zero-fixing constraints in order.
func (s *Store) ZeroFixings() []ZeroFixing { return s.zeroFixes }
