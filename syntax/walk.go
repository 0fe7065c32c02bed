// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "fmt"

// Walk traverses a flow tree in depth-first order: It starts by calling
// f(child); child must not be nil. If f returns true, Walk invokes f
// recursively for each of the children of a node, followed by f(nil).
func Walk(child Child, f func(Child) bool) {
	if !f(child) {
		return
	}

	switch x := child.(type) {
	case *Node:
		for _, c := range x.Children {
			Walk(c, f)
		}
	case Str, Bool, Int, Ident:
	default:
		panic(fmt.Sprintf("syntax.Walk: unexpected child type %T", child))
	}

	f(nil)
}
