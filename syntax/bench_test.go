// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"io"
	"strings"
	"testing"
)

func benchSource() string {
	return "" +
		strings.Repeat("\n\n\t\t        \n", 10) +
		"; " + strings.Repeat("foo bar ", 10) + "\n" +
		"(flow\n" +
		strings.Repeat(`  (flow-flag "bitmap" true (test (name "t1") (number 10)))`+"\n", 10) +
		strings.Repeat(`  (group (name "g1") (id g1_id) (job "j" false (test (name "a\tb"))))`+"\n", 10) +
		")\n"
}

func BenchmarkParse(b *testing.B) {
	b.ReportAllocs()
	src := benchSource()
	p := NewParser()
	in := strings.NewReader(src)
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(in, ""); err != nil {
			b.Fatal(err)
		}
		in.Reset(src)
	}
}

func BenchmarkPrint(b *testing.B) {
	b.ReportAllocs()
	tree, err := NewParser().Parse(strings.NewReader(benchSource()), "")
	if err != nil {
		b.Fatal(err)
	}
	printer := NewPrinter()
	for i := 0; i < b.N; i++ {
		if err := printer.Print(io.Discard, tree); err != nil {
			b.Fatal(err)
		}
	}
}
