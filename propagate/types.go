package propagate

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

var (
	// ErrDomainNil is returned by New when no Domain is supplied.
	ErrDomainNil = errors.New("propagate: domain is nil")
)

// Rule selects one propagation strategy.
type Rule uint8

const (
	// RuleConstraint fixes the other members of a constraint around its one
	// forced-nonzero member.
	RuleConstraint Rule = iota
	// RuleGraph fixes the conflict graph neighbours of forced-nonzero nodes.
	RuleGraph
)

// String returns the rule name.
func (r Rule) String() string {
	switch r {
	case RuleConstraint:
		return "constraint"
	case RuleGraph:
		return "graph"
	default:
		return fmt.Sprintf("rule(%d)", uint8(r))
	}
}

// Result of one propagation call.
type Result struct {
	// Cutoff is true when the current node is infeasible.
	Cutoff bool
	// NChanges counts tightened bounds.
	NChanges int
}

// Merge accumulates o into r.
func (r *Result) Merge(o Result) {
	r.Cutoff = r.Cutoff || o.Cutoff
	r.NChanges += o.NChanges
}

// Options configures a Propagator.
type Options struct {
	// Rules lists the enabled rules; default both.
	Rules []Rule
	// Logger receives debug output; default discards.
	Logger *log.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions enables both rules and discards logs.
func DefaultOptions() Options {
	return Options{
		Rules:  []Rule{RuleConstraint, RuleGraph},
		Logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// WithRules replaces the enabled rule set.
func WithRules(rules ...Rule) Option {
	return func(o *Options) { o.Rules = append([]Rule(nil), rules...) }
}

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
