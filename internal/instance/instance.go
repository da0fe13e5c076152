// Package instance reads SOS1 problem instances from TOML and turns them
// into an in-memory mip.Store with a ready sos1.Engine.
//
// Format:
//
//	depth = 0
//	lp_objective = 3.5
//
//	[params]            # any sos1.Params key; omitted keys keep defaults
//	branch_nonzeros = true
//
//	[[var]]
//	name = "x"
//	lb = 0.0            # default 0
//	ub = 4.0            # default +inf
//	local_lb = 1.0      # optional node bounds, applied after activation
//	status = "active"   # active | fixed | sum
//	obj = 1.0
//	value = 2.0         # relaxation value
//
//	[[relation]]        # lhs <= a*x + b*y <= rhs; a missing side is infinite
//	name = "vub_x"
//	x = "x"
//	a = 1.0
//	y = "z"
//	b = -4.0
//	rhs = 0.0
//
//	[[sos1]]
//	name = "c"
//	vars = ["x", "y"]
//	weights = [1.0, 2.0] # optional
package instance

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/katalvlaran/sos1/mip"
	"github.com/katalvlaran/sos1/sos1"
)

// Sentinel errors.
var (
	// ErrUnknownVar indicates a reference to an undeclared variable.
	ErrUnknownVar = errors.New("instance: unknown variable")

	// ErrDuplicateVar indicates two variables with the same name.
	ErrDuplicateVar = errors.New("instance: duplicate variable")

	// ErrBadStatus indicates an unrecognized variable status.
	ErrBadStatus = errors.New("instance: bad variable status")

	// ErrUndecoded indicates keys the format does not know.
	ErrUndecoded = errors.New("instance: unknown keys")
)

// Var declares one variable.
type Var struct {
	Name    string   `toml:"name"`
	LB      *float64 `toml:"lb"`
	UB      *float64 `toml:"ub"`
	LocalLB *float64 `toml:"local_lb"`
	LocalUB *float64 `toml:"local_ub"`
	Status  string   `toml:"status"`
	Obj     float64  `toml:"obj"`
	Value   float64  `toml:"value"`
}

// Relation declares lhs ≤ a·x + b·y ≤ rhs.
type Relation struct {
	Name string   `toml:"name"`
	X    string   `toml:"x"`
	A    float64  `toml:"a"`
	Y    string   `toml:"y"`
	B    float64  `toml:"b"`
	LHS  *float64 `toml:"lhs"`
	RHS  *float64 `toml:"rhs"`
}

// Constraint declares one SOS1 constraint.
type Constraint struct {
	Name    string    `toml:"name"`
	Vars    []string  `toml:"vars"`
	Weights []float64 `toml:"weights"`
}

// File is a decoded instance.
type File struct {
	Depth       int          `toml:"depth"`
	LPObjective float64      `toml:"lp_objective"`
	Params      sos1.Params  `toml:"params"`
	Vars        []Var        `toml:"var"`
	Relations   []Relation   `toml:"relation"`
	Constraints []Constraint `toml:"sos1"`
}

// Decode reads an instance from r. Params not given keep their defaults.
func Decode(r io.Reader) (*File, error) {
	f := &File{Params: sos1.DefaultParams()}
	md, err := toml.NewDecoder(r).Decode(f)
	if err != nil {
		return nil, fmt.Errorf("instance: decode: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}

		return nil, fmt.Errorf("%w: %s", ErrUndecoded, strings.Join(names, ", "))
	}
	if err = f.Params.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// DecodeFile reads an instance from path.
func DecodeFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return Decode(fh)
}

// Problem is a built instance: the store doubles as the solution (values)
// and every collaborator of the engine.
type Problem struct {
	Store  *mip.Store
	Engine *sos1.Engine
}

func parseStatus(s string) (mip.Status, error) {
	switch strings.ToLower(s) {
	case "", "active":
		return mip.StatusActive, nil
	case "fixed":
		return mip.StatusFixed, nil
	case "sum":
		return mip.StatusSum, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadStatus, s)
	}
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}

	return *p
}

// Build creates the store and the engine. Every constraint is added and
// activated; local bounds are applied afterwards so forced-nonzero counts
// see them. opts are appended after the instance parameters.
func (f *File) Build(logger *log.Logger, opts ...sos1.Option) (*Problem, error) {
	st := mip.NewStore()
	st.SetDepth(f.Depth)
	st.SetLPObjective(f.LPObjective)

	byName := make(map[string]*mip.Variable, len(f.Vars))
	for _, vs := range f.Vars {
		if _, dup := byName[vs.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVar, vs.Name)
		}
		status, err := parseStatus(vs.Status)
		if err != nil {
			return nil, fmt.Errorf("var %s: %w", vs.Name, err)
		}
		v := st.AddVar(vs.Name, orDefault(vs.LB, 0), orDefault(vs.UB, math.Inf(1)))
		if err = st.SetStatus(v, status); err != nil {
			return nil, err
		}
		if err = st.SetObj(v, vs.Obj); err != nil {
			return nil, err
		}
		if err = st.SetValue(v, vs.Value); err != nil {
			return nil, err
		}
		byName[vs.Name] = v
	}

	lookup := func(name string) (*mip.Variable, error) {
		v, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVar, name)
		}

		return v, nil
	}

	for _, rs := range f.Relations {
		x, err := lookup(rs.X)
		if err != nil {
			return nil, fmt.Errorf("relation %s: %w", rs.Name, err)
		}
		y, err := lookup(rs.Y)
		if err != nil {
			return nil, fmt.Errorf("relation %s: %w", rs.Name, err)
		}
		if err = st.AddRelation(rs.Name, x, rs.A, y, rs.B,
			orDefault(rs.LHS, math.Inf(-1)), orDefault(rs.RHS, math.Inf(1))); err != nil {
			return nil, err
		}
	}

	opts = append([]sos1.Option{sos1.WithParams(f.Params), sos1.WithLogger(logger)}, opts...)
	e, err := sos1.New(st, opts...)
	if err != nil {
		return nil, err
	}
	for _, cs := range f.Constraints {
		vars := make([]mip.Var, len(cs.Vars))
		for i, name := range cs.Vars {
			if vars[i], err = lookup(name); err != nil {
				return nil, fmt.Errorf("sos1 %s: %w", cs.Name, err)
			}
		}
		c, err := sos1.NewConstraint(cs.Name, vars, cs.Weights)
		if err != nil {
			return nil, err
		}
		if err = e.Add(c); err != nil {
			return nil, err
		}
	}
	if err = e.ActivateAll(); err != nil {
		return nil, err
	}

	for _, vs := range f.Vars {
		if vs.LocalLB == nil && vs.LocalUB == nil {
			continue
		}
		v := byName[vs.Name]
		if err = st.SetLocalBounds(v, orDefault(vs.LocalLB, v.LB()), orDefault(vs.LocalUB, v.UB())); err != nil {
			return nil, err
		}
	}

	return &Problem{Store: st, Engine: e}, nil
}
