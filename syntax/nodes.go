// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strconv"

// Kind is the type tag of a Node. The set of kinds is open; the constants
// below are the ones with a meaning to the passes in this module, and any
// other value is an opaque content kind.
type Kind string

const (
	Flow         Kind = "flow"
	Group        Kind = "group"
	FlowFlag     Kind = "flow_flag"
	RunFlag      Kind = "run_flag"
	Job          Kind = "job"
	TestResult   Kind = "test_result"
	TestExecuted Kind = "test_executed"
	ID           Kind = "id"
	Name         Kind = "name"
	Test         Kind = "test"

	// Inline is reserved. No tree handed to or returned by a pass may
	// contain it.
	Inline Kind = "inline"
)

// Child is an entry in a node's list of children: either a *Node or one of
// the scalar types Str, Bool, Int and Ident.
type Child interface {
	childNode()
}

func (*Node) childNode() {}
func (Str) childNode()   {}
func (Bool) childNode()  {}
func (Int) childNode()   {}
func (Ident) childNode() {}

// Str is a string scalar, such as a flag name.
type Str string

// Bool is a boolean scalar, such as the state of a flag.
type Bool bool

// Int is an integer scalar.
type Int int64

// Ident is an opaque identifier scalar. It is written without quotes, so
// only identifiers for which ValidIdent holds can be printed.
type Ident string

func (s Str) String() string   { return strconv.Quote(string(s)) }
func (b Bool) String() string  { return strconv.FormatBool(bool(b)) }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (i Ident) String() string { return string(i) }

// Node is a flow tree node. Nodes are values that should not be modified
// once built; passes build new nodes and share unchanged subtrees.
type Node struct {
	Kind     Kind
	Children []Child
}

// N returns a new node with the given kind and children.
func N(kind Kind, children ...Child) *Node {
	return &Node{Kind: kind, Children: children}
}

// N0 returns a new node without children.
func N0(kind Kind) *Node { return &Node{Kind: kind} }

// N1 returns a new node with a single child.
func N1(kind Kind, c Child) *Node { return &Node{Kind: kind, Children: []Child{c}} }

// N2 returns a new node with two children.
func N2(kind Kind, c1, c2 Child) *Node {
	return &Node{Kind: kind, Children: []Child{c1, c2}}
}

// Updated returns a copy of n with its children replaced. The receiver is
// left untouched.
func (n *Node) Updated(children []Child) *Node {
	return &Node{Kind: n.Kind, Children: children}
}

// Equal reports whether two children are structurally equal: scalars by
// value, nodes by kind and children.
func Equal(a, b Child) bool {
	an, aok := a.(*Node)
	bn, bok := b.(*Node)
	if aok != bok {
		return false
	}
	if !aok {
		return a == b
	}
	if an == bn {
		return true
	}
	if an == nil || bn == nil {
		return false
	}
	if an.Kind != bn.Kind || len(an.Children) != len(bn.Children) {
		return false
	}
	for i := range an.Children {
		if !Equal(an.Children[i], bn.Children[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether n and n2 are structurally equal.
func (n *Node) Equal(n2 *Node) bool { return Equal(n, n2) }
