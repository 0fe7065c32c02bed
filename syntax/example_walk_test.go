// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax_test

import (
	"fmt"
	"strings"

	"mvdan.cc/flowopt/syntax"
)

func ExampleWalk() {
	in := strings.NewReader(`
(flow
  (test (name "t1"))
  (run-flag "r" true
    (test (name "t2"))))`)
	f, err := syntax.NewParser().Parse(in, "")
	if err != nil {
		return
	}
	var names []string
	syntax.Walk(f, func(child syntax.Child) bool {
		switch x := child.(type) {
		case *syntax.Node:
			if x.Kind == syntax.Name && len(x.Children) > 0 {
				names = append(names, fmt.Sprint(x.Children[0]))
			}
		}
		return true
	})
	fmt.Println(strings.Join(names, " "))
	// Output: "t1" "t2"
}
