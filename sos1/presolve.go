package sos1

import (
	"fmt"

	"github.com/katalvlaran/sos1/mip"
)

// Presolve runs one round of global reductions on every constraint:
//
//  1. members globally fixed to zero are removed;
//  2. a variable listed twice must be zero: it is fixed and removed;
//  3. two members whose global bounds exclude zero are a cutoff; a single
//     one fixes every other member to zero and the constraint is deleted;
//  4. constraints with at most one member left are deleted.
//
// StatusSum variables cannot be fixed directly and get an explicit
// zero-fixing constraint instead. Presolve does nothing during a search.
func (e *Engine) Presolve() (Result, PresolveStats, error) {
	var st PresolveStats
	if e.solving {
		return DidNotRun, st, nil
	}
	e.stats.PresolveRounds++

	var (
		kept    = make([]*Constraint, 0, len(e.cons))
		cutoff  bool
		deleted bool
		err     error
	)
	for i, c := range e.cons {
		cutoff, deleted, err = e.presolveCons(c, &st)
		if err != nil {
			return DidNotRun, st, err
		}
		if cutoff {
			e.log.Debug("presolve cutoff", "cons", c.name)
			kept = append(kept, e.cons[i:]...)
			e.cons = kept
			e.stats.Cutoffs++
			e.hooks.OnPresolve(Cutoff, st)

			return Cutoff, st, nil
		}
		if deleted {
			delete(e.names, c.name)
			st.Deleted++
			continue
		}
		kept = append(kept, c)
	}
	e.cons = kept

	res := DidNotFind
	if st.RemovedVars+st.FixedVars+st.ZeroFixings+st.Deleted > 0 {
		res = ReducedDomain
	}
	e.hooks.OnPresolve(res, st)

	return res, st, nil
}

// presolveCons reduces one constraint. The constraint is deactivated while
// its member list changes and reactivated afterwards unless deleted.
func (e *Engine) presolveCons(c *Constraint, st *PresolveStats) (cutoff, deleted bool, err error) {
	wasActive := c.active
	if err = c.deactivate(e.model); err != nil {
		return false, false, err
	}
	defer func() {
		if err == nil && wasActive && !deleted {
			err = c.activate(e.model, e.tol)
		}
	}()

	// 1. globally zero members
	for i := len(c.vars) - 1; i >= 0; i-- {
		if e.tol.GlobalFixedZero(c.vars[i]) {
			c.removeAt(i)
			st.RemovedVars++
		}
	}

	// 2. duplicates
	count := make(map[int]int, len(c.vars))
	for _, v := range c.vars {
		count[v.Index()]++
	}
	for i := 0; i < len(c.vars); i++ {
		v := c.vars[i]
		if count[v.Index()] < 2 {
			continue
		}
		if cutoff, err = e.fixZeroGlobal(c, v, st); err != nil || cutoff {
			return cutoff, false, err
		}
		for j := len(c.vars) - 1; j >= i; j-- {
			if c.vars[j].Index() == v.Index() {
				c.removeAt(j)
				st.RemovedVars++
			}
		}
		delete(count, v.Index())
		i--
	}

	// 3. forced nonzero members
	forced, nforced := -1, 0
	for i, v := range c.vars {
		if e.tol.GlobalExcludesZero(v) {
			nforced++
			if forced < 0 {
				forced = i
			}
		}
	}
	if nforced > 1 {
		return true, false, nil
	}
	if nforced == 1 {
		for i, v := range c.vars {
			if i == forced {
				continue
			}
			if cutoff, err = e.fixZeroGlobal(c, v, st); err != nil || cutoff {
				return cutoff, false, err
			}
		}
		deleted = true
		c.dropRows()

		return false, true, nil
	}

	// 4. redundant
	if len(c.vars) <= 1 {
		deleted = true
		c.dropRows()

		return false, true, nil
	}

	return false, false, nil
}

// fixZeroGlobal fixes v to zero for good, through an explicit zero-fixing
// constraint when v is a sum of other variables.
func (e *Engine) fixZeroGlobal(c *Constraint, v mip.Var, st *PresolveStats) (bool, error) {
	if v.Status() == mip.StatusSum {
		if err := e.model.AddZeroFixing(fmt.Sprintf("sos1fix_%s_%s", c.name, v.Name()), v); err != nil {
			return false, fmt.Errorf("sos1: zero fixing %s: %w", v.Name(), err)
		}
		st.ZeroFixings++

		return false, nil
	}
	infeasible, fixed, err := e.model.Fix(v, 0)
	if err != nil {
		return false, fmt.Errorf("sos1: fix %s: %w", v.Name(), err)
	}
	if fixed {
		st.FixedVars++
	}

	return infeasible, nil
}
