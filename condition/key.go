// Copyright (c) 2024, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package condition

import (
	"fmt"
	"strings"

	"mvdan.cc/flowopt/syntax"
)

var flagKinds = []syntax.Kind{
	syntax.FlowFlag,
	syntax.RunFlag,
	syntax.Job,
	syntax.TestResult,
	syntax.TestExecuted,
}

// GuardKinds returns the node kinds which carry a guard.
func GuardKinds() []syntax.Kind {
	return append([]syntax.Kind{syntax.Group}, flagKinds...)
}

func isFlag(kind syntax.Kind) bool {
	for _, k := range flagKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// IsGuard reports whether nodes of the given kind carry a guard.
func IsGuard(kind syntax.Kind) bool {
	return kind == syntax.Group || isFlag(kind)
}

// Key identifies a guard: the kind of the guard node and its leading
// fields. For the flag kinds the fields are the flag and its state; for a
// group they are its name, followed by its id node when it has one.
type Key struct {
	Kind   syntax.Kind
	Fields []syntax.Child
}

// Equal reports whether k and k2 are the same guard.
func (k Key) Equal(k2 Key) bool {
	if k.Kind != k2.Kind || len(k.Fields) != len(k2.Fields) {
		return false
	}
	for i := range k.Fields {
		if !syntax.Equal(k.Fields[i], k2.Fields[i]) {
			return false
		}
	}
	return true
}

func (k Key) String() string {
	var sb strings.Builder
	sb.WriteString(string(k.Kind))
	sb.WriteByte('(')
	for i, f := range k.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, f)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Wrap builds a guard node for k holding the given children after its
// fields.
func (k Key) Wrap(children ...syntax.Child) *syntax.Node {
	all := make([]syntax.Child, 0, len(k.Fields)+len(children))
	all = append(all, k.Fields...)
	all = append(all, children...)
	return syntax.N(k.Kind, all...)
}

// KeyOf returns the key of a guard node and the children which follow its
// fields. It panics if n is not a well-formed guard node.
func KeyOf(n *syntax.Node) (Key, []syntax.Child) {
	key, payload, err := splitGuard(n)
	if err != nil {
		panic(&ShapeError{Kind: n.Kind, Text: err.Error()})
	}
	return key, payload
}

func splitGuard(n *syntax.Node) (Key, []syntax.Child, error) {
	fields := 0
	switch {
	case n.Kind == syntax.Group:
		if len(n.Children) < 1 {
			return Key{}, nil, fmt.Errorf("group must start with its name")
		}
		fields = 1
		if len(n.Children) > 1 {
			if id, ok := n.Children[1].(*syntax.Node); ok && id != nil && id.Kind == syntax.ID {
				fields = 2
			}
		}
	case isFlag(n.Kind):
		if len(n.Children) < 2 {
			return Key{}, nil, fmt.Errorf("%s must start with a flag and a state", n.Kind)
		}
		if _, ok := n.Children[0].(*syntax.Node); ok {
			return Key{}, nil, fmt.Errorf("%s flag must be a scalar", n.Kind)
		}
		if _, ok := n.Children[1].(syntax.Bool); !ok {
			return Key{}, nil, fmt.Errorf("%s state must be a boolean, found %T", n.Kind, n.Children[1])
		}
		fields = 2
	default:
		return Key{}, nil, fmt.Errorf("%s is not a guard kind", n.Kind)
	}
	key := Key{Kind: n.Kind, Fields: n.Children[:fields:fields]}
	return key, n.Children[fields:], nil
}

// Chain returns the condition chain of a node: its own key, followed by the
// chain of its first payload child. The chain stops at the first node which
// is not a guard, so it is empty for non-guard nodes.
//
// Only first children are followed. A guard holding several guards
// contributes the chain of the first one only.
func Chain(n *syntax.Node) []Key {
	var keys []Key
	for n != nil && IsGuard(n.Kind) {
		key, payload := KeyOf(n)
		keys = append(keys, key)
		n = nil
		if len(payload) > 0 {
			n, _ = payload[0].(*syntax.Node)
		}
	}
	return keys
}

// Common returns the keys present in both a and b, in the order in which
// they first appear in a.
func Common(a, b []Key) []Key {
	var common []Key
	for _, k := range a {
		if containsKey(b, k) && !containsKey(common, k) {
			common = append(common, k)
		}
	}
	return common
}

func containsKey(keys []Key, k Key) bool {
	for _, k2 := range keys {
		if k2.Equal(k) {
			return true
		}
	}
	return false
}
