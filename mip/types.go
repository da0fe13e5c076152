// Package mip declares Var, Status, Inference, bound events and the sentinel
// errors of the collaborator layer.
package mip

import (
	"errors"
	"fmt"
)

// Sentinel errors for collaborator operations.
var (
	// ErrNilVar indicates a nil variable was handed to an operation.
	ErrNilVar = errors.New("mip: variable is nil")

	// ErrUnknownVar indicates a variable that does not belong to the Store.
	ErrUnknownVar = errors.New("mip: variable not found")

	// ErrNotTightenable indicates a direct bound change on a variable whose
	// status forbids it (StatusSum).
	ErrNotTightenable = errors.New("mip: variable bounds cannot be tightened directly")

	// ErrBadHandle indicates Unsubscribe was called with an unknown handle.
	ErrBadHandle = errors.New("mip: unknown subscription handle")

	// ErrBadMark indicates Undo was asked to rewind past the trail.
	ErrBadMark = errors.New("mip: invalid trail mark")
)

// Status describes how a variable is represented in the problem.
type Status uint8

const (
	// StatusActive is a regular column whose bounds can be tightened.
	StatusActive Status = iota

	// StatusFixed is a variable fixed to a constant during presolving.
	StatusFixed

	// StatusSum is a variable expressed as a sum of other variables.
	// Its bounds are derived and cannot be tightened directly.
	StatusSum
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFixed:
		return "fixed"
	case StatusSum:
		return "sum"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Var is the variable abstraction consumed by the engine.
//
// Index must be stable and unique within one problem; it keys every map the
// engine builds. Local bounds are those of the current search node, global
// bounds those valid in the whole tree.
type Var interface {
	Index() int
	Name() string
	Status() Status
	LB() float64
	UB() float64
	GlobalLB() float64
	GlobalUB() float64
}

// Inference is the reason attached to a bound change so conflict analysis
// can reconstruct why it happened.
//
// Info ≥ 0 is the position of the responsible member inside Constraint.
// Info < 0 encodes the responsible conflict graph node as -(node+1).
type Inference struct {
	Constraint string
	Info       int
}

// GraphInference builds the Inference for a conflict graph node.
func GraphInference(node int) Inference {
	return Inference{Constraint: "", Info: -(node + 1)}
}

// IsGraph reports whether the inference stems from the conflict graph.
func (r Inference) IsGraph() bool { return r.Info < 0 }

// Node decodes the conflict graph node of a graph inference.
func (r Inference) Node() int { return -r.Info - 1 }

// BoundKind tells which bound moved and in which direction.
type BoundKind uint8

const (
	// LBTightened: the lower bound increased.
	LBTightened BoundKind = iota
	// LBRelaxed: the lower bound decreased (backtracking).
	LBRelaxed
	// UBTightened: the upper bound decreased.
	UBTightened
	// UBRelaxed: the upper bound increased (backtracking).
	UBRelaxed
)

// BoundEvent is delivered to subscribers after a local bound change.
type BoundEvent struct {
	Var  Var
	Kind BoundKind
	Old  float64
	New  float64
}

// BoundHandler receives bound events for one subscribed variable.
type BoundHandler func(ev BoundEvent)
