package sos1_test

import (
	"fmt"

	"github.com/katalvlaran/sos1/mip"
	"github.com/katalvlaran/sos1/sos1"
)

// ExampleEngine_Enforce branches on a relaxation point with two nonzero
// members of one constraint.
//
//	x ─── y      x = 2, y = 3
//
// One child fixes x to zero, the other y.
func ExampleEngine_Enforce() {
	st := mip.NewStore()
	x, y := st.AddVar("x", 0, 4), st.AddVar("y", 0, 4)

	c, _ := sos1.NewConstraint("c", []mip.Var{x, y}, nil)
	e, _ := sos1.New(st)
	_ = e.Add(c)
	_ = e.ActivateAll()
	_ = e.InitSolve()

	st.SetValues(2, 3)
	res, err := e.Enforce(st)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res)
	for _, ch := range st.Children() {
		fmt.Println("fix", ch.Fixed[0].Name())
	}

	// Output:
	// branched
	// fix x
	// fix y
}

// ExampleEngine_Propagate shows a forced member zeroing its neighbours in
// the conflict graph.
//
//	a ─── b ─── c      b ≥ 1
func ExampleEngine_Propagate() {
	st := mip.NewStore()
	a, b, c := st.AddVar("a", 0, 5), st.AddVar("b", 0, 5), st.AddVar("c", 0, 5)

	e, _ := sos1.New(st)
	for name, vars := range map[string][]mip.Var{"ab": {a, b}, "bc": {b, c}} {
		cons, _ := sos1.NewConstraint(name, vars, nil)
		_ = e.Add(cons)
	}
	_ = e.ActivateAll()
	_ = e.InitSolve()

	_ = st.SetLocalBounds(b, 1, 5)
	res, _ := e.Propagate()
	fmt.Println(res, a.UB(), c.UB())

	// Output:
	// reduceddomain 0 0
}
