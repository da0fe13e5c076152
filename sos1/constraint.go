package sos1

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/sos1/conflict"
	"github.com/katalvlaran/sos1/cuts"
	"github.com/katalvlaran/sos1/mip"
)

// Constraint is one SOS1 constraint: at most one of Vars may be nonzero.
//
// When weights are given, members are kept sorted by ascending weight.
// The forced-nonzero count is maintained from bound events while the
// constraint is active.
type Constraint struct {
	name    string
	vars    []mip.Var
	weights []float64

	active        bool
	handles       []int
	nFixedNonzero int

	rowsBuilt bool
	lowerRow  *mip.Row
	upperRow  *mip.Row
}

// NewConstraint creates a constraint. weights may be nil; otherwise it must
// match vars in length and members are ordered by it (stable for equal
// weights).
func NewConstraint(name string, vars []mip.Var, weights []float64) (*Constraint, error) {
	for _, v := range vars {
		if v == nil {
			return nil, fmt.Errorf("sos1: constraint %s: %w", name, mip.ErrNilVar)
		}
	}
	c := &Constraint{name: name, vars: append([]mip.Var(nil), vars...)}
	if weights == nil {
		return c, nil
	}
	if len(weights) != len(vars) {
		return nil, fmt.Errorf("%w: %d weights for %d variables", ErrWeightsMismatch, len(weights), len(vars))
	}
	c.weights = append([]float64(nil), weights...)
	sort.Stable(byWeight{c})

	return c, nil
}

// byWeight sorts the members of a constraint by weight.
type byWeight struct{ c *Constraint }

func (b byWeight) Len() int           { return len(b.c.vars) }
func (b byWeight) Less(i, j int) bool { return b.c.weights[i] < b.c.weights[j] }
func (b byWeight) Swap(i, j int) {
	b.c.vars[i], b.c.vars[j] = b.c.vars[j], b.c.vars[i]
	b.c.weights[i], b.c.weights[j] = b.c.weights[j], b.c.weights[i]
}

// Name returns the constraint name.
func (c *Constraint) Name() string { return c.name }

// Vars returns the members. Callers must not modify the slice.
func (c *Constraint) Vars() []mip.Var { return c.vars }

// Weights returns the member weights, or nil.
func (c *Constraint) Weights() []float64 { return c.weights }

// Len returns the number of members.
func (c *Constraint) Len() int { return len(c.vars) }

// Active reports whether bound events are being tracked.
func (c *Constraint) Active() bool { return c.active }

// NFixedNonzero returns the maintained forced-nonzero count.
func (c *Constraint) NFixedNonzero() int { return c.nFixedNonzero }

// DuplicateWeights reports whether two members share a weight.
func (c *Constraint) DuplicateWeights() bool {
	for i := 1; i < len(c.weights); i++ {
		if c.weights[i] == c.weights[i-1] {
			return true
		}
	}

	return false
}

// AddVar inserts v at the position given by weight.
func (c *Constraint) AddVar(v mip.Var, weight float64) error {
	if v == nil {
		return mip.ErrNilVar
	}
	if c.active {
		return ErrConstraintActive
	}
	if c.weights == nil && len(c.vars) > 0 {
		return ErrNoWeights
	}
	pos := sort.Search(len(c.weights), func(i int) bool { return c.weights[i] > weight })
	c.vars = append(c.vars, nil)
	copy(c.vars[pos+1:], c.vars[pos:])
	c.vars[pos] = v
	c.weights = append(c.weights, 0)
	copy(c.weights[pos+1:], c.weights[pos:])
	c.weights[pos] = weight
	c.dropRows()

	return nil
}

// AppendVar appends v; with weights, v gets the last weight plus one.
func (c *Constraint) AppendVar(v mip.Var) error {
	if v == nil {
		return mip.ErrNilVar
	}
	if c.active {
		return ErrConstraintActive
	}
	if c.weights != nil {
		w := 0.0
		if n := len(c.weights); n > 0 {
			w = c.weights[n-1] + 1
		}
		c.weights = append(c.weights, w)
	}
	c.vars = append(c.vars, v)
	c.dropRows()

	return nil
}

// removeAt deletes member i. The constraint must be inactive.
func (c *Constraint) removeAt(i int) {
	c.vars = append(c.vars[:i], c.vars[i+1:]...)
	if c.weights != nil {
		c.weights = append(c.weights[:i], c.weights[i+1:]...)
	}
	c.dropRows()
}

// Copy returns an inactive copy named name whose members are mapped by
// mapVar, for instance into a transformed problem.
func (c *Constraint) Copy(name string, mapVar func(mip.Var) (mip.Var, error)) (*Constraint, error) {
	vars := make([]mip.Var, len(c.vars))
	var err error
	for i, v := range c.vars {
		if vars[i], err = mapVar(v); err != nil {
			return nil, fmt.Errorf("sos1: copy %s: %w", c.name, err)
		}
	}

	return NewConstraint(name, vars, c.weights)
}

// onBound updates the forced-nonzero count from one bound event.
func (c *Constraint) onBound(ev mip.BoundEvent, tol mip.Tolerances) {
	switch ev.Kind {
	case mip.LBTightened:
		if !tol.IsFeasPositive(ev.Old) && tol.IsFeasPositive(ev.New) {
			c.nFixedNonzero++
		}
	case mip.LBRelaxed:
		if tol.IsFeasPositive(ev.Old) && !tol.IsFeasPositive(ev.New) {
			c.nFixedNonzero--
		}
	case mip.UBTightened:
		if !tol.IsFeasNegative(ev.Old) && tol.IsFeasNegative(ev.New) {
			c.nFixedNonzero++
		}
	case mip.UBRelaxed:
		if tol.IsFeasNegative(ev.Old) && !tol.IsFeasNegative(ev.New) {
			c.nFixedNonzero--
		}
	}
}

// activate subscribes to bound events of every member and recounts.
func (c *Constraint) activate(bus mip.EventBus, tol mip.Tolerances) error {
	if c.active {
		return nil
	}
	c.handles = c.handles[:0]
	c.nFixedNonzero = 0
	for _, v := range c.vars {
		h, err := bus.Subscribe(v, func(ev mip.BoundEvent) { c.onBound(ev, tol) })
		if err != nil {
			_ = c.unsubscribe(bus)

			return fmt.Errorf("sos1: activate %s: %w", c.name, err)
		}
		c.handles = append(c.handles, h)
		if tol.ExcludesZero(v) {
			c.nFixedNonzero++
		}
	}
	c.active = true

	return nil
}

// deactivate drops the event subscriptions.
func (c *Constraint) deactivate(bus mip.EventBus) error {
	if !c.active {
		return nil
	}
	c.active = false
	if err := c.unsubscribe(bus); err != nil {
		return fmt.Errorf("sos1: deactivate %s: %w", c.name, err)
	}

	return nil
}

func (c *Constraint) unsubscribe(bus mip.EventBus) error {
	var first error
	for i, h := range c.handles {
		if err := bus.Unsubscribe(c.vars[i], h); err != nil && first == nil {
			first = err
		}
	}
	c.handles = c.handles[:0]

	return first
}

// boundRows returns the cached global bound cut rows, building them on first
// use. g may be nil; strengthening then never applies.
func (c *Constraint) boundRows(g *conflict.Graph, strengthen bool, tol mip.Tolerances) (lower, upper *mip.Row) {
	if c.rowsBuilt {
		return c.lowerRow, c.upperRow
	}
	members := make([]cuts.Member, len(c.vars))
	for i, v := range c.vars {
		members[i] = cuts.Member{Var: v}
		if g != nil {
			if id, ok := g.NodeOf(v); ok {
				members[i].Node = g.Node(id)
			}
		}
	}
	c.lowerRow, c.upperRow = cuts.Generate(members, cuts.Options{
		Name:       "sos1bnd_" + c.name,
		RHS:        1,
		Global:     true,
		Strengthen: strengthen && g != nil,
		Lower:      true,
		Upper:      true,
	}, tol)
	c.rowsBuilt = true

	return c.lowerRow, c.upperRow
}

// dropRows releases the cached rows.
func (c *Constraint) dropRows() {
	c.rowsBuilt = false
	c.lowerRow, c.upperRow = nil, nil
}
