package sos1

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Params is the configuration surface of the engine. Field tags match the
// keys of a TOML parameter file.
type Params struct {
	// ConflictProp enables graph propagation.
	ConflictProp bool `toml:"conflict_prop"`
	// SOSConsProp enables constraint-local propagation even when graph
	// propagation is available.
	SOSConsProp bool `toml:"sos_cons_prop"`
	// BranchSOS enables SOS1 branching; otherwise violated solutions are
	// left to other branching rules.
	BranchSOS bool `toml:"branch_sos"`
	// BranchNonzeros scores candidates by nonzero count.
	BranchNonzeros bool `toml:"branch_nonzeros"`
	// BranchWeight scores candidates by the largest nonzero member weight.
	BranchWeight bool `toml:"branch_weight"`
	// BoundCutsFromSOS separates bound cuts of whole constraints.
	BoundCutsFromSOS bool `toml:"bound_cuts_from_sos"`
	// BoundCutsFromGraph separates bound cuts of conflict graph cliques.
	BoundCutsFromGraph bool `toml:"bound_cuts_from_graph"`
	// StrengthenBoundCuts uses component-unique bound variables.
	StrengthenBoundCuts bool `toml:"strengthen_bound_cuts"`
	// BoundCutsDepth is the deepest node that separates; -1 means no limit.
	BoundCutsDepth int `toml:"bound_cuts_depth"`
	// BoundCutsFreq separates at depths divisible by it; 0 means root only,
	// -1 never.
	BoundCutsFreq int `toml:"bound_cuts_freq"`
	// MaxBoundCuts is the per-round budget below the root.
	MaxBoundCuts int `toml:"max_bound_cuts"`
	// MaxBoundCutsRoot is the per-round budget at the root.
	MaxBoundCutsRoot int `toml:"max_bound_cuts_root"`
	// MaxGraphNodes disables graph features when the conflict graph is larger.
	MaxGraphNodes int `toml:"max_graph_nodes"`
	// CliqueMaxTreeNodes caps the clique search tree per round.
	CliqueMaxTreeNodes int `toml:"clique_max_tree_nodes"`
	// CliqueScale maps unscaled clique weights to integers.
	CliqueScale float64 `toml:"clique_scale"`
}

// DefaultParams returns the recommended settings.
func DefaultParams() Params {
	return Params{
		ConflictProp:        true,
		SOSConsProp:         false,
		BranchSOS:           true,
		BranchNonzeros:      false,
		BranchWeight:        false,
		BoundCutsFromSOS:    true,
		BoundCutsFromGraph:  true,
		StrengthenBoundCuts: false,
		BoundCutsDepth:      40,
		BoundCutsFreq:       10,
		MaxBoundCuts:        20,
		MaxBoundCutsRoot:    150,
		MaxGraphNodes:       10000,
		CliqueMaxTreeNodes:  1000,
		CliqueScale:         1000,
	}
}

// Validate rejects inconsistent settings.
func (p Params) Validate() error {
	switch {
	case p.BranchNonzeros && p.BranchWeight:
		return fmt.Errorf("%w: branch_nonzeros and branch_weight are exclusive", ErrInvalidParams)
	case p.BoundCutsDepth < -1:
		return fmt.Errorf("%w: bound_cuts_depth %d < -1", ErrInvalidParams, p.BoundCutsDepth)
	case p.BoundCutsFreq < -1:
		return fmt.Errorf("%w: bound_cuts_freq %d < -1", ErrInvalidParams, p.BoundCutsFreq)
	case p.MaxBoundCuts < 0 || p.MaxBoundCutsRoot < 0:
		return fmt.Errorf("%w: negative cut budget", ErrInvalidParams)
	case p.MaxGraphNodes < 0:
		return fmt.Errorf("%w: max_graph_nodes %d < 0", ErrInvalidParams, p.MaxGraphNodes)
	case p.CliqueMaxTreeNodes < 0:
		return fmt.Errorf("%w: clique_max_tree_nodes %d < 0", ErrInvalidParams, p.CliqueMaxTreeNodes)
	case !(p.CliqueScale > 0):
		return fmt.Errorf("%w: clique_scale must be positive", ErrInvalidParams)
	}

	return nil
}

// LoadParams decodes TOML from r over DefaultParams and validates the result.
// Keys missing from r keep their default.
func LoadParams(r io.Reader) (Params, error) {
	p := DefaultParams()
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Params{}, fmt.Errorf("sos1: decode params: %w", err)
	}
	if un := md.Undecoded(); len(un) > 0 {
		return Params{}, fmt.Errorf("%w: unknown key %q", ErrInvalidParams, un[0].String())
	}
	if err = p.Validate(); err != nil {
		return Params{}, err
	}

	return p, nil
}

// LoadParamsFile is LoadParams on the named file.
func LoadParamsFile(path string) (Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return Params{}, fmt.Errorf("sos1: open params: %w", err)
	}
	defer f.Close()

	return LoadParams(f)
}
