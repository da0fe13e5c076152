package separate

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/sos1/clique"
	"github.com/katalvlaran/sos1/mip"
)

var (
	// ErrGraphNil is returned by New without a conflict graph.
	ErrGraphNil = errors.New("separate: graph is nil")

	// ErrBadScale indicates a non-positive weight scale.
	ErrBadScale = errors.New("separate: scale must be positive")
)

// Options configures a Separator.
type Options struct {
	// Oracle runs the clique search; nil selects clique.BranchAndBound.
	Oracle clique.Oracle
	// Scale maps unscaled weights to integers; default 1000.
	Scale float64
	// Strengthen uses detected bound relations for weights and cuts.
	Strengthen bool
	// MaxTreeNodes caps the default oracle; default 1000.
	MaxTreeNodes int
	Tolerances   mip.Tolerances
	Logger       *log.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the defaults listed on Options.
func DefaultOptions() Options {
	return Options{
		Scale:        1000,
		MaxTreeNodes: 1000,
		Tolerances:   mip.DefaultTolerances(),
		Logger:       log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// WithOracle replaces the clique oracle.
func WithOracle(o clique.Oracle) Option {
	return func(opts *Options) { opts.Oracle = o }
}

// WithScale sets the weight scale.
func WithScale(scale float64) Option {
	return func(opts *Options) { opts.Scale = scale }
}

// WithStrengthen toggles bound relation strengthening.
func WithStrengthen(on bool) Option {
	return func(opts *Options) { opts.Strengthen = on }
}

// WithMaxTreeNodes caps the default oracle search tree.
func WithMaxTreeNodes(n int) Option {
	return func(opts *Options) { opts.MaxTreeNodes = n }
}

// WithTolerances sets the numerical tolerances.
func WithTolerances(t mip.Tolerances) Option {
	return func(opts *Options) { opts.Tolerances = t }
}

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *log.Logger) Option {
	return func(opts *Options) {
		if l != nil {
			opts.Logger = l
		}
	}
}

// Result of one separation round.
type Result struct {
	// Cliques is the number of cliques handed to the callback.
	Cliques int
	// Violated counts cliques whose unscaled weight exceeded 1.
	Violated int
	// Cuts counts rows accepted by the sink.
	Cuts int
	// Status reports how the oracle ended.
	Status clique.Status
}
