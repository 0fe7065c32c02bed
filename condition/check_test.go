// Copyright (c) 2024, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package condition_test

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"mvdan.cc/flowopt/condition"
	. "mvdan.cc/flowopt/syntax"
)

var checkTests = []struct {
	in   *Node
	want string
	path []int
}{
	{N0(Flow), "", nil},
	{N(Flow, N0(Test), N(FlowFlag, Str("a"), Bool(true), N0(Test))), "", nil},
	// unknown kinds are carried along untouched
	{N(Flow, N(Kind("log"), Str("x"), Int(3))), "", nil},
	{nil, "flow: nil root", nil},
	{N0(Test), "test: root must be a flow node", nil},
	{N(Flow, N0(Inline)), "inline at /0: reserved kind", []int{0}},
	{
		N(Flow, N0(Test), N(FlowFlag, Str("a"), Bool(true), N0(Inline))),
		"inline at /1/2: reserved kind",
		[]int{1, 2},
	},
	{
		N(Flow, N(Job, Str("j"))),
		"job at /0: job must start with a flag and a state",
		[]int{0},
	},
	{
		N(Flow, N(TestResult, N0(Name), Bool(true))),
		"test_result at /0: test_result flag must be a scalar",
		[]int{0},
	},
	{
		N(Flow, N(RunFlag, Str("r"), Int(1))),
		"run_flag at /0: run_flag state must be a boolean, found syntax.Int",
		[]int{0},
	},
	{
		N(Flow, N(Group, N1(Name, Str("g")), N0(Group))),
		"group at /0/1: group must start with its name",
		[]int{0, 1},
	},
	{N(Flow, N0(Test), nil), "flow at /: child 1 is nil", []int{}},
	{N(Flow, N(Test, (*Node)(nil))), "test at /0: child 0 is nil", []int{0}},
}

func TestCheck(t *testing.T) {
	t.Parallel()
	for i, tc := range checkTests {
		tc := tc
		t.Run(fmt.Sprintf("%02d", i), func(t *testing.T) {
			err := condition.Check(tc.in)
			if tc.want == "" {
				qt.Assert(t, err, qt.IsNil)
				return
			}
			qt.Assert(t, err, qt.ErrorMatches, tc.want)
			var serr *condition.ShapeError
			qt.Assert(t, errors.As(err, &serr), qt.IsTrue)
			qt.Assert(t, serr.Path, qt.DeepEquals, tc.path)
		})
	}
}
