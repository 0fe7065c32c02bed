// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parser holds the internal state of the parsing mechanism of a flow
// tree written as an s-expression, the format produced by Printer.
type Parser struct {
	src  []byte
	name string

	off  int
	line int
	col  int
}

// NewParser allocates a new Parser.
func NewParser() *Parser { return &Parser{} }

// Position describes a location in the source being parsed.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number, starting at 1 (byte count)
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// ParseError represents an error found when parsing a source file.
type ParseError struct {
	Position
	Filename, Text string
}

func (e *ParseError) Error() string {
	prefix := ""
	if e.Filename != "" {
		prefix = e.Filename + ":"
	}
	return fmt.Sprintf("%s%d:%d: %s", prefix, e.Line, e.Column, e.Text)
}

// Parse reads and parses a single flow tree from r. The name is only used
// in error messages.
//
// Kinds may be written with dashes or underscores; "flow-flag" and
// "flow_flag" are the same kind. A semicolon starts a comment running to
// the end of the line.
func (p *Parser) Parse(r io.Reader, name string) (*Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p.src, p.name = src, name
	p.off, p.line, p.col = 0, 1, 1

	p.skipSpace()
	if p.off >= len(p.src) {
		return nil, p.errf(p.pos(), "expected a tree, found EOF")
	}
	node, err := p.node()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.off < len(p.src) {
		return nil, p.errf(p.pos(), "unexpected content after the tree")
	}
	return node, nil
}

func (p *Parser) pos() Position {
	return Position{Offset: p.off, Line: p.line, Column: p.col}
}

func (p *Parser) errf(pos Position, format string, a ...any) error {
	return &ParseError{
		Position: pos,
		Filename: p.name,
		Text:     fmt.Sprintf(format, a...),
	}
}

func (p *Parser) advance() {
	if p.src[p.off] == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	p.off++
}

func (p *Parser) skipSpace() {
	for p.off < len(p.src) {
		switch b := p.src[p.off]; {
		case b == ';':
			for p.off < len(p.src) && p.src[p.off] != '\n' {
				p.advance()
			}
		case b == ' ', b == '\t', b == '\n', b == '\r':
			p.advance()
		default:
			return
		}
	}
}

func atomByte(b byte) bool {
	switch b {
	case '(', ')', '"', ';', ' ', '\t', '\n', '\r':
		return false
	}
	return b > ' ' && b < 0x7f
}

func (p *Parser) atom() string {
	start := p.off
	for p.off < len(p.src) && atomByte(p.src[p.off]) {
		p.advance()
	}
	return string(p.src[start:p.off])
}

func (p *Parser) node() (*Node, error) {
	open := p.pos()
	if p.src[p.off] != '(' {
		return nil, p.errf(open, "expected ( to start a node")
	}
	p.advance()
	p.skipSpace()
	kindPos := p.pos()
	kind := p.atom()
	if kind == "" {
		return nil, p.errf(kindPos, "( must be followed by a kind")
	}
	n := &Node{Kind: Kind(strings.ReplaceAll(kind, "-", "_"))}
	for {
		p.skipSpace()
		if p.off >= len(p.src) {
			return nil, p.errf(open, "reached EOF without matching ( with )")
		}
		switch p.src[p.off] {
		case ')':
			p.advance()
			return n, nil
		case '(':
			child, err := p.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case '"':
			s, err := p.str()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, s)
		default:
			pos := p.pos()
			a := p.atom()
			if a == "" {
				return nil, p.errf(pos, "invalid character %q", p.src[p.off])
			}
			n.Children = append(n.Children, scalarAtom(a))
		}
	}
}

// ValidIdent reports whether s can be written as an Ident and read back as
// the same Ident. It cannot be empty, must only hold printable ASCII other
// than parentheses, quotes and semicolons, and must not read as a Bool or an
// Int.
func ValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !atomByte(s[i]) {
			return false
		}
	}
	_, ok := scalarAtom(s).(Ident)
	return ok
}

// validKind reports whether k can be written and read back as the same kind.
func validKind(k Kind) bool {
	if k == "" {
		return false
	}
	for i := 0; i < len(k); i++ {
		if k[i] == '-' || !atomByte(k[i]) {
			return false
		}
	}
	return true
}

func scalarAtom(a string) Child {
	switch a {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(a, 10, 64); err == nil {
		return Int(i)
	}
	return Ident(a)
}

func (p *Parser) str() (Str, error) {
	start := p.pos()
	p.advance()
	escaped := false
	for p.off < len(p.src) {
		b := p.src[p.off]
		p.advance()
		switch {
		case escaped:
			escaped = false
		case b == '\\':
			escaped = true
		case b == '\n':
			return "", p.errf(start, "string literal not terminated")
		case b == '"':
			s, err := strconv.Unquote(string(p.src[start.Offset:p.off]))
			if err != nil {
				return "", p.errf(start, "invalid string literal: %v", err)
			}
			return Str(s), nil
		}
	}
	return "", p.errf(start, "string literal not terminated")
}
