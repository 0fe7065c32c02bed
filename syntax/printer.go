// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PrinterOption is a function which can be passed to NewPrinter
// to alter its behaviour. To apply option to existing Printer
// call it directly, for example syntax.Indent(4)(printer).
type PrinterOption func(*Printer)

// Indent sets the number of spaces used for each level of indentation.
// Zero means the default of two spaces.
func Indent(spaces uint) PrinterOption {
	return func(p *Printer) {
		if spaces == 0 {
			spaces = 2
		}
		p.indentSpaces = spaces
	}
}

// NewPrinter allocates a new Printer and applies any number of options.
func NewPrinter(opts ...PrinterOption) *Printer {
	p := &Printer{
		bufWriter:    bufio.NewWriter(nil),
		indentSpaces: 2,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Printer holds the internal state of the printing mechanism of a
// flow tree. Trees are written as s-expressions, one node per line:
//
//	(flow
//	  (flow-flag "bitmap" true
//	    (test
//	      (name "t1"))))
//
// Scalars stay on the line of their parent node. Underscores in kinds are
// written as dashes.
type Printer struct {
	bufWriter

	indentSpaces uint
	level        uint

	err error
}

type bufWriter interface {
	WriteByte(byte) error
	WriteString(string) (int, error)
	Reset(io.Writer)
	Flush() error
}

// Print "pretty-prints" the given tree to the given writer, followed by a
// newline.
//
// An error is returned if the tree holds a kind or an Ident which would not
// be read back as itself, such as Ident("true") or the kind "flow-flag".
// The output written up to that point is still flushed.
func (p *Printer) Print(w io.Writer, node *Node) error {
	p.Reset(w)
	p.level = 0
	p.err = nil
	p.node(node)
	p.WriteByte('\n')
	if err := p.Flush(); err != nil {
		return err
	}
	return p.err
}

func (p *Printer) errf(format string, a ...any) {
	if p.err == nil {
		p.err = fmt.Errorf(format, a...)
	}
}

func (p *Printer) node(n *Node) {
	if !validKind(n.Kind) {
		p.errf("syntax.Printer: invalid kind %q", string(n.Kind))
	}
	p.WriteByte('(')
	p.WriteString(strings.ReplaceAll(string(n.Kind), "_", "-"))
	p.level++
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok {
			p.newline()
			p.node(cn)
			continue
		}
		p.WriteByte(' ')
		p.scalar(c)
	}
	p.level--
	p.WriteByte(')')
}

func (p *Printer) scalar(c Child) {
	switch x := c.(type) {
	case Str:
		p.WriteString(x.String())
	case Bool:
		p.WriteString(x.String())
	case Int:
		p.WriteString(x.String())
	case Ident:
		if !ValidIdent(string(x)) {
			p.errf("syntax.Printer: invalid identifier %q", string(x))
		}
		p.WriteString(x.String())
	default:
		panic("syntax.Printer: unexpected child type")
	}
}

func (p *Printer) newline() {
	p.WriteByte('\n')
	for i := uint(0); i < p.level*p.indentSpaces; i++ {
		p.WriteByte(' ')
	}
}

// String returns the tree rooted at n in the format written by Printer,
// without a trailing newline.
func (n *Node) String() string {
	var sb strings.Builder
	NewPrinter().Print(&sb, n)
	return strings.TrimSuffix(sb.String(), "\n")
}
