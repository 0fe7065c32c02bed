// Copyright (c) 2024, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package rewrite implements a generic walker that rebuilds flow trees.
//
// A Walker dispatches each node on its kind to a registered Handler. Kinds
// without a handler are rebuilt with every child processed in turn, so a
// Walker without handlers returns a tree equal to its input.
//
// A Handler may remove a node while keeping its descendants in place by
// returning a splice Result: the spliced children take the place of the
// node in its parent's list of children.
//
// Each Walker is parameterized by a context type C, a value which handlers
// receive and pass down explicitly when processing children. Passes which
// need scoped state use an immutable C, so that nothing a handler adds to
// the context is visible outside the recursive calls it makes.
package rewrite

import (
	"fmt"

	"mvdan.cc/flowopt/syntax"
)

// Result is the outcome of processing a single child: either the child to
// keep in its position, or a list of children to splice in its place.
type Result struct {
	children []syntax.Child
	splice   bool
}

// Keep returns a Result which keeps c as a single child.
func Keep(c syntax.Child) Result {
	return Result{children: []syntax.Child{c}}
}

// Splice returns a Result which replaces the processed node with the given
// children. An empty list removes the node entirely.
func Splice(children []syntax.Child) Result {
	return Result{children: children, splice: true}
}

// Spliced reports whether r is a splice.
func (r Result) Spliced() bool { return r.splice }

// Children returns the children r stands for: the kept child alone, or the
// spliced children.
func (r Result) Children() []syntax.Child { return r.children }

// Child returns the kept child. It panics if r is a splice.
func (r Result) Child() syntax.Child {
	if r.splice {
		panic("rewrite: Child called on a splice result")
	}
	return r.children[0]
}

// Handler rebuilds nodes of a particular kind.
//
// Handlers should be stateless; any state belongs in the context value,
// which they pass along when calling back into the Walker for children.
type Handler[C any] interface {
	Handle(w *Walker[C], ctx C, n *syntax.Node) Result
}

// Func is an adapter to use ordinary functions as Handlers.
type Func[C any] func(w *Walker[C], ctx C, n *syntax.Node) Result

// Handle implements Handler.
func (f Func[C]) Handle(w *Walker[C], ctx C, n *syntax.Node) Result {
	return f(w, ctx, n)
}

// Walker maps node kinds to their handlers and drives the rebuilding of a
// tree.
type Walker[C any] struct {
	handlers map[syntax.Kind]Handler[C]
}

// New creates a Walker without any handlers.
func New[C any]() *Walker[C] {
	return &Walker[C]{handlers: make(map[syntax.Kind]Handler[C])}
}

// Register sets the handler for a kind, replacing any previous one.
func (w *Walker[C]) Register(kind syntax.Kind, h Handler[C]) {
	w.handlers[kind] = h
}

// RegisterFunc registers a function as the handler for a kind.
func (w *Walker[C]) RegisterFunc(kind syntax.Kind, fn func(*Walker[C], C, *syntax.Node) Result) {
	w.Register(kind, Func[C](fn))
}

// RegisterBulk registers the same handler for multiple kinds.
func (w *Walker[C]) RegisterBulk(kinds []syntax.Kind, h Handler[C]) {
	for _, kind := range kinds {
		w.handlers[kind] = h
	}
}

// Get returns the handler for a kind, or nil if not registered.
func (w *Walker[C]) Get(kind syntax.Kind) Handler[C] {
	return w.handlers[kind]
}

// Has reports whether a handler is registered for the kind.
func (w *Walker[C]) Has(kind syntax.Kind) bool {
	return w.handlers[kind] != nil
}

// Process rebuilds a single child. Scalars are kept unchanged. Nodes are
// handed to the handler registered for their kind, or to Default.
func (w *Walker[C]) Process(ctx C, c syntax.Child) Result {
	switch x := c.(type) {
	case *syntax.Node:
		if x == nil {
			panic("rewrite: Process called with a nil node")
		}
		if h := w.handlers[x.Kind]; h != nil {
			return h.Handle(w, ctx, x)
		}
		return w.Default(ctx, x)
	case nil:
		panic("rewrite: Process called with a nil child")
	default:
		return Keep(c)
	}
}

// ProcessAll processes each child in order. Spliced results are flattened
// into the returned list in the position of the node they replace.
func (w *Walker[C]) ProcessAll(ctx C, children []syntax.Child) []syntax.Child {
	var results []syntax.Child
	for _, c := range children {
		results = append(results, w.Process(ctx, c).Children()...)
	}
	return results
}

// Default rebuilds n with the same kind and all of its children processed.
// It is used for kinds without a handler, and handlers may call it to fall
// back to that behaviour.
func (w *Walker[C]) Default(ctx C, n *syntax.Node) Result {
	return Keep(n.Updated(w.ProcessAll(ctx, n.Children)))
}

// Run processes a root node. The root cannot be spliced away: Run panics
// unless processing yields exactly one node.
func (w *Walker[C]) Run(ctx C, root *syntax.Node) *syntax.Node {
	res := w.Process(ctx, root)
	children := res.Children()
	if len(children) != 1 {
		panic(fmt.Sprintf("rewrite: root %q was replaced by %d children", root.Kind, len(children)))
	}
	n, ok := children[0].(*syntax.Node)
	if !ok {
		panic(fmt.Sprintf("rewrite: root %q was replaced by a %T", root.Kind, children[0]))
	}
	return n
}
