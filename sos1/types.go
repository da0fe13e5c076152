package sos1

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/sos1/clique"
	"github.com/katalvlaran/sos1/mip"
)

// Sentinel errors.
var (
	// ErrModelNil is returned by New without a model.
	ErrModelNil = errors.New("sos1: model is nil")

	// ErrInvalidParams wraps every Params validation failure.
	ErrInvalidParams = errors.New("sos1: invalid parameters")

	// ErrWeightsMismatch indicates weights and variables of different length.
	ErrWeightsMismatch = errors.New("sos1: weights length does not match variables")

	// ErrNoWeights indicates AddVar on a constraint created without weights.
	ErrNoWeights = errors.New("sos1: constraint has no weights")

	// ErrConstraintActive indicates a structural change on an active constraint.
	ErrConstraintActive = errors.New("sos1: constraint is active")

	// ErrDuplicateName indicates two constraints with the same name.
	ErrDuplicateName = errors.New("sos1: duplicate constraint name")

	// ErrUnknownConstraint indicates a constraint that is not part of the engine.
	ErrUnknownConstraint = errors.New("sos1: constraint not found")

	// ErrSolving indicates an operation that is only allowed outside the solve.
	ErrSolving = errors.New("sos1: search in progress")

	// ErrBadInference indicates an inference that cannot be resolved.
	ErrBadInference = errors.New("sos1: inference cannot be resolved")
)

// Result is the status returned by the lifecycle operations.
type Result uint8

const (
	// DidNotRun: the operation was skipped.
	DidNotRun Result = iota
	// DidNotFind: the operation ran and found nothing.
	DidNotFind
	// Feasible: the solution satisfies every constraint.
	Feasible
	// Infeasible: the solution violates a constraint and no branching was done.
	Infeasible
	// Cutoff: the current node is infeasible.
	Cutoff
	// ReducedDomain: bounds were tightened.
	ReducedDomain
	// Branched: children were created.
	Branched
	// Separated: cuts were added.
	Separated
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case DidNotRun:
		return "didnotrun"
	case DidNotFind:
		return "didnotfind"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Cutoff:
		return "cutoff"
	case ReducedDomain:
		return "reduceddomain"
	case Branched:
		return "branched"
	case Separated:
		return "separated"
	default:
		return fmt.Sprintf("result(%d)", uint8(r))
	}
}

// Model bundles every collaborator the engine talks to. mip.Store
// implements it.
type Model interface {
	mip.Domain
	mip.EventBus
	mip.RowSink
	mip.RelationScanner
	mip.Tree
	mip.Presolver
}

// Stats are cumulative counters of one engine.
type Stats struct {
	Propagations   int
	Fixings        int
	Cutoffs        int
	Branchings     int
	ConsCuts       int
	CliqueCuts     int
	SepRounds      int
	PresolveRounds int
	GraphNodes     int
	GraphEdges     int
	GraphEnabled   bool
}

// PresolveStats summarizes one Presolve call.
type PresolveStats struct {
	RemovedVars int
	FixedVars   int
	ZeroFixings int
	Deleted     int
}

// Hooks receives engine events. Implementations must be cheap; they run on
// the hot path.
type Hooks interface {
	OnGraphBuilt(nodes, edges int, enabled bool)
	OnPresolve(res Result, st PresolveStats)
	OnPropagate(res Result, changes int)
	OnBranch(constraint string, children int)
	OnSeparate(source string, cuts int)
}

// NoopHooks is the default Hooks.
type NoopHooks struct{}

func (NoopHooks) OnGraphBuilt(int, int, bool)      {}
func (NoopHooks) OnPresolve(Result, PresolveStats) {}
func (NoopHooks) OnPropagate(Result, int)          {}
func (NoopHooks) OnBranch(string, int)             {}
func (NoopHooks) OnSeparate(string, int)           {}

// Separation sources passed to Hooks.OnSeparate.
const (
	SourceConstraint = "constraint"
	SourceClique     = "clique"
)

// Options configures an Engine.
type Options struct {
	Params     Params
	Logger     *log.Logger
	Hooks      Hooks
	Tolerances mip.Tolerances
	// Oracle replaces the default clique oracle.
	Oracle clique.Oracle
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns DefaultParams, a discarding logger, no-op hooks
// and DefaultTolerances.
func DefaultOptions() Options {
	return Options{
		Params:     DefaultParams(),
		Logger:     log.NewWithOptions(io.Discard, log.Options{}),
		Hooks:      NoopHooks{},
		Tolerances: mip.DefaultTolerances(),
	}
}

// WithParams sets the parameters.
func WithParams(p Params) Option {
	return func(o *Options) { o.Params = p }
}

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithHooks sets the event hooks; nil keeps the default.
func WithHooks(h Hooks) Option {
	return func(o *Options) {
		if h != nil {
			o.Hooks = h
		}
	}
}

// WithTolerances sets the numerical tolerances.
func WithTolerances(t mip.Tolerances) Option {
	return func(o *Options) { o.Tolerances = t }
}

// WithOracle replaces the clique oracle used for graph separation.
func WithOracle(or clique.Oracle) Option {
	return func(o *Options) { o.Oracle = or }
}
