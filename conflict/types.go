package conflict

import (
	"errors"

	"github.com/katalvlaran/sos1/mip"
)

var (
	// ErrGraphNil is returned when a nil *Graph is passed to the detector.
	ErrGraphNil = errors.New("conflict: graph is nil")
)

// Node is the payload of one conflict graph vertex.
//
// LBVar/LBCoef hold a detected lower relation Var ≥ LBCoef·LBVar,
// UBVar/UBCoef a detected upper relation Var ≤ UBCoef·UBVar. A nil bound
// variable means no relation in that direction. UniqueLB/UniqueUB are set when
// every node of the component carries the same bound variable.
type Node struct {
	Var mip.Var

	LBVar  mip.Var
	LBCoef float64
	UBVar  mip.Var
	UBCoef float64

	UniqueLB bool
	UniqueUB bool
}

// HasLB reports whether a lower bound relation is attached.
func (n *Node) HasLB() bool { return n.LBVar != nil }

// HasUB reports whether an upper bound relation is attached.
func (n *Node) HasUB() bool { return n.UBVar != nil }

// DetectStats summarizes one DetectBoundRelations run.
type DetectStats struct {
	// Scanned is the number of relations inspected.
	Scanned int
	// Lower and Upper count relations stored (first or tighter replacement).
	Lower int
	Upper int
	// UniqueLB and UniqueUB count components flagged by MarkUniqueBoundVars.
	UniqueLB int
	UniqueUB int
}
