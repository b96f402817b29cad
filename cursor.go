// Copyright (C) 2024 The jparse Authors. All Rights Reserved.

package jparse

import "sort"

// A Cursor is a positioned reader over a byte slice. It supports random
// bidirectional motion while keeping the line and column of the current
// position up to date.
//
// Line starts are discovered lazily: a newline is recorded the first time
// the cursor walks forward across it. Forward motion jumps across line
// starts already on record and then scans the remaining bytes one at a
// time. Moving backward never discards recorded line starts.
type Cursor struct {
	data []byte
	pos  int
	line int
	col  int

	// Byte offsets of the starts of all lines walked so far, ascending.
	// lineStarts[0] is always 0, and for i > 0 the byte at lineStarts[i]-1
	// is a newline.
	lineStarts []int
}

// NewCursor returns a cursor positioned at the start of data. The cursor
// does not copy data; the slice must not be modified while the cursor is in
// use.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data, lineStarts: []int{0}}
}

// Len reports the total length of the input in bytes.
func (c *Cursor) Len() int { return len(c.data) }

// AtEnd reports whether the cursor is past the last byte of the input.
func (c *Cursor) AtEnd() bool { return c.pos == len(c.data) }

// Position reports the current position of the cursor.
func (c *Cursor) Position() Position {
	return Position{Offset: c.pos, Line: c.line, Column: c.col}
}

// Mark returns the current byte offset, suitable for a later Reset.
func (c *Cursor) Mark() int { return c.pos }

// Reset relocates the cursor to the byte offset off, clamped to the bounds
// of the input. Line and column are recomputed by the move.
func (c *Cursor) Reset(off int) { c.Move(off - c.pos) }

// SetPosition relocates the cursor to p. Only the offset of p is consulted.
func (c *Cursor) SetPosition(p Position) { c.Reset(p.Offset) }

// Peek returns the bytes that Move(delta) would traverse, without moving.
// The returned slice aliases the input.
func (c *Cursor) Peek(delta int) []byte {
	lo, hi := c.span(delta)
	return c.data[lo:hi]
}

// PeekNext returns the byte at the cursor, if any, without consuming it.
func (c *Cursor) PeekNext() (byte, bool) {
	if c.pos >= len(c.data) {
		return 0, false
	}
	return c.data[c.pos], true
}

// Next consumes and returns the byte at the cursor, if any.
func (c *Cursor) Next() (byte, bool) {
	b := c.Move(1)
	if len(b) == 0 {
		return 0, false
	}
	return b[0], true
}

// Move relocates the cursor by delta bytes, clamped to the bounds of the
// input, and returns the bytes traversed. The returned slice aliases the
// input and is in input order regardless of the direction of motion.
func (c *Cursor) Move(delta int) []byte {
	lo, hi := c.span(delta)
	if delta < 0 {
		c.moveBack(lo)
	} else {
		c.moveForward(hi)
	}
	return c.data[lo:hi]
}

// span resolves delta into the half-open offset range between the current
// position and the clamped target.
func (c *Cursor) span(delta int) (lo, hi int) {
	target := c.pos + delta
	if target < 0 {
		target = 0
	} else if target > len(c.data) {
		target = len(c.data)
	}
	if target < c.pos {
		return target, c.pos
	}
	return c.pos, target
}

func (c *Cursor) moveForward(target int) {
	// Snap through line starts already on record.
	for c.line+1 < len(c.lineStarts) && c.lineStarts[c.line+1] <= target {
		c.line++
		c.pos = c.lineStarts[c.line]
	}

	// Walk the rest byte by byte. Any newline crossed here is beyond the
	// last recorded line start, except when the snap above already placed us
	// on the final recorded line; the guard keeps the record strictly
	// increasing either way.
	for c.pos < target {
		if c.data[c.pos] == '\n' {
			c.pos++
			c.line++
			if c.lineStarts[len(c.lineStarts)-1] < c.pos {
				c.lineStarts = append(c.lineStarts, c.pos)
			}
		} else {
			c.pos++
		}
	}
	c.col = c.pos - c.lineStarts[c.line]
}

func (c *Cursor) moveBack(target int) {
	// Every line start at or before the current position is already
	// recorded, so the containing line is the last recorded start <= target.
	c.pos = target
	c.line = sort.Search(len(c.lineStarts), func(i int) bool {
		return c.lineStarts[i] > target
	}) - 1
	c.col = target - c.lineStarts[c.line]
}
