// Copyright (c) 2024, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package condition

// scope is the stack of guard keys pending removal while a subtree is
// rebuilt. It is immutable: push returns a new scope and leaves the
// receiver as it was, so a key pushed for a recursive call is gone once
// that call returns. The nil *scope is the empty stack.
type scope struct {
	key    Key
	parent *scope
}

func (s *scope) push(k Key) *scope {
	return &scope{key: k, parent: s}
}

func (s *scope) pushAll(keys []Key) *scope {
	for _, k := range keys {
		s = s.push(k)
	}
	return s
}

func (s *scope) has(k Key) bool {
	for ; s != nil; s = s.parent {
		if s.key.Equal(k) {
			return true
		}
	}
	return false
}

func (s *scope) depth() int {
	n := 0
	for ; s != nil; s = s.parent {
		n++
	}
	return n
}
