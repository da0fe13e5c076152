package clique

import (
	"errors"
	"fmt"
)

var (
	// ErrWeightsMismatch indicates len(weights) != n.
	ErrWeightsMismatch = errors.New("clique: weights length does not match node count")

	// ErrNegativeWeight indicates a node weight below zero.
	ErrNegativeWeight = errors.New("clique: negative node weight")

	// ErrAdjacencyNil indicates a nil adjacency predicate.
	ErrAdjacencyNil = errors.New("clique: adjacency predicate is nil")
)

// Callback is invoked for every maximal clique heavier than the incumbent.
// accept makes the clique the new incumbent; stop ends the search.
// The clique slice is only valid during the call.
type Callback func(clique []int, weight int) (accept, stop bool)

// Oracle finds heavy cliques in a node-weighted undirected graph.
type Oracle interface {
	MaxClique(n int, adjacent func(i, j int) bool, weights []int, cb Callback) (Result, error)
}

// Status tells how a search ended.
type Status uint8

const (
	// StatusOptimal: the search space was exhausted.
	StatusOptimal Status = iota
	// StatusNodeLimit: MaxTreeNodes was reached.
	StatusNodeLimit
	// StatusStopped: the callback asked to stop.
	StatusStopped
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusNodeLimit:
		return "nodelimit"
	case StatusStopped:
		return "stopped"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Result of one oracle run.
type Result struct {
	// Clique is the accepted incumbent, nil if none was accepted.
	Clique []int
	// Weight of Clique.
	Weight int
	// Nodes is the number of search tree nodes visited.
	Nodes int
	// Reported counts callback invocations.
	Reported int
	Status   Status
}

// Options configures BranchAndBound.
type Options struct {
	// MaxTreeNodes bounds the search tree; ≤ 0 means unlimited.
	MaxTreeNodes int
	// MinWeight is the smallest clique weight worth reporting.
	MinWeight int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns MaxTreeNodes=1000, MinWeight=0.
func DefaultOptions() Options {
	return Options{MaxTreeNodes: 1000, MinWeight: 0}
}

// WithMaxTreeNodes sets the tree node limit.
func WithMaxTreeNodes(n int) Option {
	return func(o *Options) { o.MaxTreeNodes = n }
}

// WithMinWeight sets the reporting threshold.
func WithMinWeight(w int) Option {
	return func(o *Options) { o.MinWeight = w }
}
