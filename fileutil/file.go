// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package fileutil contains code to work with flow files, such as deciding
// which files in a directory tree hold a flow.
package fileutil

import (
	"os"
	"regexp"
	"strings"
)

var (
	// blank lines and ; comments may precede the opening of the tree
	headerRe = regexp.MustCompile(`^(\s*;[^\n]*\n)*\s*\(\s*flow[\s)]`)
	extRe    = regexp.MustCompile(`\.flow$`)
)

// HeaderSize is the number of leading bytes HasFlowHeader needs to see to
// give a reliable answer in the common case.
const HeaderSize = 512

// HasFlowHeader reports whether bs starts with the opening of a flow tree,
// after any blank space and comments.
func HasFlowHeader(bs []byte) bool {
	return headerRe.Match(bs)
}

type FlowConfidence int

const (
	ConfNotFlow FlowConfidence = iota
	ConfIfHeader
	ConfIsFlow
)

// CouldBeFlow reports how likely a directory entry is to be a flow file.
// Hidden files, directories and irregular files are never flow files. A
// file with the .flow extension always is, one with any other extension
// never is, and one without an extension is if HasFlowHeader agrees.
func CouldBeFlow(info os.FileInfo) FlowConfidence {
	name := info.Name()
	switch {
	case info.IsDir(), name[0] == '.', !info.Mode().IsRegular():
		return ConfNotFlow
	case extRe.MatchString(name):
		return ConfIsFlow
	case strings.Contains(name, "."):
		return ConfNotFlow // different extension
	case info.Size() < int64(len("(flow)")):
		return ConfNotFlow // cannot possibly hold a tree
	default:
		return ConfIfHeader
	}
}
