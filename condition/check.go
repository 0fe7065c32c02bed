// Copyright (c) 2024, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package condition

import (
	"fmt"
	"strconv"
	"strings"

	"mvdan.cc/flowopt/syntax"
)

// ShapeError reports a node which does not have the shape the merger
// requires.
type ShapeError struct {
	// Path holds the child indices leading from the root to the node.
	// It is empty for the root and nil for errors raised outside of
	// Check.
	Path []int
	Kind syntax.Kind
	Text string
}

func (e *ShapeError) Error() string {
	if e.Path == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Text)
	}
	path := "/"
	if len(e.Path) > 0 {
		var sb strings.Builder
		for _, i := range e.Path {
			sb.WriteByte('/')
			sb.WriteString(strconv.Itoa(i))
		}
		path = sb.String()
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, path, e.Text)
}

// Check reports whether flow can be given to Optimize: the root must be a
// flow node, every guard node must start with the fields of its key, and
// the reserved inline kind must not appear anywhere.
func Check(flow *syntax.Node) error {
	if flow == nil {
		return &ShapeError{Kind: syntax.Flow, Text: "nil root"}
	}
	if flow.Kind != syntax.Flow {
		return &ShapeError{Kind: flow.Kind, Text: "root must be a flow node"}
	}
	return check(flow, nil)
}

func check(n *syntax.Node, path []int) error {
	if n.Kind == syntax.Inline {
		return &ShapeError{Path: pathOrRoot(path), Kind: n.Kind, Text: "reserved kind"}
	}
	if IsGuard(n.Kind) {
		if _, _, err := splitGuard(n); err != nil {
			return &ShapeError{Path: pathOrRoot(path), Kind: n.Kind, Text: err.Error()}
		}
	}
	for i, c := range n.Children {
		switch x := c.(type) {
		case nil:
			return &ShapeError{Path: pathOrRoot(path), Kind: n.Kind, Text: fmt.Sprintf("child %d is nil", i)}
		case *syntax.Node:
			if x == nil {
				return &ShapeError{Path: pathOrRoot(path), Kind: n.Kind, Text: fmt.Sprintf("child %d is nil", i)}
			}
			childPath := append(path[:len(path):len(path)], i)
			if err := check(x, childPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func pathOrRoot(path []int) []int {
	if path == nil {
		return []int{}
	}
	return path
}
