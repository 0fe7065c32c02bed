// Copyright (c) 2024, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package condition implements a pass which merges adjacent guards in a
// flow tree.
//
// Adjacent siblings whose condition chains share one or more guards are
// combined, so that the shared guards wrap a single subtree instead of
// being repeated on each sibling. For example:
//
//	(flow
//	  (flow-flag "bitmap" true
//	    (test
//	      (name "t1")))
//	  (flow-flag "bitmap" true
//	    (test
//	      (name "t2"))))
//
// becomes:
//
//	(flow
//	  (flow-flag "bitmap" true
//	    (test
//	      (name "t1"))
//	    (test
//	      (name "t2"))))
//
// The pass never reorders siblings and never changes which guards apply to
// each payload node. A guard nested along the first children of the same
// guard is redundant and is removed.
package condition

import (
	"go.uber.org/zap"

	"mvdan.cc/flowopt/rewrite"
	"mvdan.cc/flowopt/syntax"
)

// Option is a function which can be passed to NewMerger to alter its
// behaviour.
type Option func(*Merger)

// Logger sets the logger used to trace merge decisions at debug level.
// The default logger discards everything.
func Logger(l *zap.Logger) Option {
	return func(m *Merger) { m.log = l }
}

// Merger runs the guard merging pass. A Merger only holds configuration,
// so a single one may be used by multiple goroutines at once.
type Merger struct {
	walker *rewrite.Walker[*scope]
	log    *zap.Logger
}

// NewMerger allocates a new Merger and applies any number of options.
func NewMerger(opts ...Option) *Merger {
	m := &Merger{log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	w := rewrite.New[*scope]()
	w.RegisterFunc(syntax.Flow, m.flow)
	w.RegisterBulk(GuardKinds(), rewrite.Func[*scope](m.guard))
	m.walker = w
	return m
}

var defaultMerger = NewMerger()

// Optimize is a shortcut for NewMerger().Optimize.
func Optimize(flow *syntax.Node) *syntax.Node {
	return defaultMerger.Optimize(flow)
}

// Optimize returns a tree equivalent to flow with adjacent guards merged.
// The input is not modified.
//
// Optimize panics with a *ShapeError if Check rejects flow.
func (m *Merger) Optimize(flow *syntax.Node) *syntax.Node {
	if err := Check(flow); err != nil {
		panic(err)
	}
	return m.walker.Run(nil, flow)
}

func (m *Merger) flow(w *rewrite.Walker[*scope], sc *scope, n *syntax.Node) rewrite.Result {
	return rewrite.Keep(n.Updated(m.optimize(w, sc, w.ProcessAll(sc, n.Children))))
}

// guard handles all guard kinds. When the scope already holds the node's
// key, the node is dropped and its payload spliced into the parent.
// Either way the key is in scope while the payload is rebuilt, which
// removes any copies of the same guard nested below it.
func (m *Merger) guard(w *rewrite.Walker[*scope], sc *scope, n *syntax.Node) rewrite.Result {
	key, payload := KeyOf(n)
	inner := sc.push(key)
	children := m.optimize(w, inner, w.ProcessAll(inner, payload))
	if sc.has(key) {
		m.log.Debug("removing guard",
			zap.Stringer("key", key),
			zap.Int("depth", sc.depth()))
		return rewrite.Splice(children)
	}
	return rewrite.Keep(key.Wrap(children...))
}

// optimize makes a single left to right pass over a list of siblings,
// combining each pair of adjacent siblings which share guards. A combined
// node is processed again before being compared with the next sibling, as
// combining may expose more guards to merge.
func (m *Merger) optimize(w *rewrite.Walker[*scope], sc *scope, siblings []syntax.Child) []syntax.Child {
	var results []syntax.Child
	var acc syntax.Child
	for _, next := range siblings {
		switch {
		case acc == nil:
			acc = next
		case canBeCombined(acc, next):
			merged := m.combine(w, sc, acc.(*syntax.Node), next.(*syntax.Node))
			res := w.Process(sc, merged).Children()
			acc = nil
			if len(res) > 0 {
				results = append(results, res[:len(res)-1]...)
				acc = res[len(res)-1]
			}
		default:
			results = append(results, acc)
			acc = next
		}
	}
	if acc != nil {
		results = append(results, acc)
	}
	return results
}

func canBeCombined(a, b syntax.Child) bool {
	an, ok := a.(*syntax.Node)
	if !ok || !IsGuard(an.Kind) {
		return false
	}
	bn, ok := b.(*syntax.Node)
	if !ok || !IsGuard(bn.Kind) {
		return false
	}
	return len(Common(Chain(an), Chain(bn))) > 0
}

// combine merges two guard nodes sharing at least one key. Both are
// rebuilt with the shared keys in scope, which strips those guards from
// them wherever they appear along their chains. The shared keys are then
// nested in order around the two stripped payloads, a's first.
func (m *Merger) combine(w *rewrite.Walker[*scope], sc *scope, a, b *syntax.Node) *syntax.Node {
	common := Common(Chain(a), Chain(b))
	inner := sc.pushAll(common)
	var children []syntax.Child
	children = append(children, w.Process(inner, a).Children()...)
	children = append(children, w.Process(inner, b).Children()...)

	last := len(common) - 1
	node := common[last].Wrap(children...)
	for i := last - 1; i >= 0; i-- {
		node = common[i].Wrap(node)
	}
	if ce := m.log.Check(zap.DebugLevel, "combining siblings"); ce != nil {
		names := make([]string, len(common))
		for i, k := range common {
			names[i] = k.String()
		}
		ce.Write(zap.Strings("common", names), zap.Int("depth", sc.depth()))
	}
	return node
}
