// Copyright (C) 2024 The jparse Authors. All Rights Reserved.

package jparse

import "fmt"

// A Position describes a location in source input. All fields are 0-based.
// Offset counts bytes, not codepoints; Line counts logical newlines (U+000A)
// seen before the location; Column is the byte offset from the start of the
// current line.
type Position struct {
	Offset int // byte offset in the input
	Line   int // line number
	Column int // byte offset within the line
}

func (p Position) String() string {
	return fmt.Sprintf("line: %d, col: %d (pos: %d)", p.Line, p.Column, p.Offset)
}

// Before reports whether p precedes q in the input. Positions are ordered by
// byte offset alone.
func (p Position) Before(q Position) bool { return p.Offset < q.Offset }
