// Copyright (C) 2024 The jparse Authors. All Rights Reserved.

package jparse_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jparse-go/jparse"
)

// wantPosition computes the position for offset the slow way, by scanning
// the input from the beginning.
func wantPosition(data string, offset int) jparse.Position {
	line := strings.Count(data[:offset], "\n")
	col := offset - (strings.LastIndex(data[:offset], "\n") + 1)
	return jparse.Position{Offset: offset, Line: line, Column: col}
}

func TestCursorMotion(t *testing.T) {
	const input = "ab\ncd\nef\n\ngh"

	tests := []struct {
		name  string
		moves []int
	}{
		{"forward-bytewise", []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"forward-strides", []int{4, 3, 5}},
		{"there-and-back", []int{12, -12, 5, -3, 8, -1}},
		{"clamped", []int{-5, 100, 7, -100, 3}},
		{"zigzag", []int{2, -1, 6, -4, 9, -9, 1}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := jparse.NewCursor([]byte(input))
			offset := 0
			for _, d := range test.moves {
				next := offset + d
				if next < 0 {
					next = 0
				} else if next > len(input) {
					next = len(input)
				}

				lo, hi := offset, next
				if hi < lo {
					lo, hi = hi, lo
				}
				got := c.Move(d)
				if string(got) != input[lo:hi] {
					t.Errorf("Move(%d) returned %q, want %q", d, got, input[lo:hi])
				}

				offset = next
				if diff := cmp.Diff(wantPosition(input, offset), c.Position()); diff != "" {
					t.Errorf("After Move(%d): position (-want, +got)\n%s", d, diff)
				}
			}
		})
	}
}

func TestCursorPeek(t *testing.T) {
	const input = "one\ntwo\nthree"
	c := jparse.NewCursor([]byte(input))
	c.Move(5)

	before := c.Position()
	if got := c.Peek(4); string(got) != "wo\nt" {
		t.Errorf("Peek(4): got %q, want %q", got, "wo\nt")
	}
	if got := c.Peek(-3); string(got) != "e\nt" {
		t.Errorf("Peek(-3): got %q, want %q", got, "e\nt")
	}
	if got := c.Peek(100); string(got) != "wo\nthree" {
		t.Errorf("Peek(100): got %q, want %q", got, "wo\nthree")
	}
	if diff := cmp.Diff(before, c.Position()); diff != "" {
		t.Errorf("Peek moved the cursor (-want, +got)\n%s", diff)
	}
}

func TestCursorNext(t *testing.T) {
	c := jparse.NewCursor([]byte("a\nb"))

	if b, ok := c.PeekNext(); !ok || b != 'a' {
		t.Errorf("PeekNext: got %q, %v; want 'a', true", b, ok)
	}
	var got []byte
	for {
		b, ok := c.Next()
		if !ok {
			break
		}
		got = append(got, b)
	}
	if string(got) != "a\nb" {
		t.Errorf("Next sequence: got %q, want %q", got, "a\nb")
	}
	if !c.AtEnd() {
		t.Error("Cursor should be at end of input")
	}
	if b, ok := c.PeekNext(); ok {
		t.Errorf("PeekNext at end: got %q, want none", b)
	}
	if b, ok := c.Next(); ok {
		t.Errorf("Next at end: got %q, want none", b)
	}
}

func TestCursorSetPosition(t *testing.T) {
	const input = "alpha\nbravo\ncharlie\n"
	c := jparse.NewCursor([]byte(input))

	// Walk to the end so all line starts are known, then hop around.
	c.Move(len(input))
	for _, offset := range []int{7, 0, 19, 12, 5, 6, 20, 11} {
		c.SetPosition(jparse.Position{Offset: offset})
		if diff := cmp.Diff(wantPosition(input, offset), c.Position()); diff != "" {
			t.Errorf("SetPosition(%d): (-want, +got)\n%s", offset, diff)
		}
	}
}

func TestCursorMarkReset(t *testing.T) {
	const input = "x\ny\nz"
	c := jparse.NewCursor([]byte(input))
	c.Move(2)

	mark := c.Mark()
	want := c.Position()
	c.Move(3)
	c.Reset(mark)
	if diff := cmp.Diff(want, c.Position()); diff != "" {
		t.Errorf("Reset did not restore the position (-want, +got)\n%s", diff)
	}
}

func TestCursorEmpty(t *testing.T) {
	c := jparse.NewCursor(nil)
	if !c.AtEnd() {
		t.Error("Empty cursor should be at end")
	}
	if got := c.Move(5); len(got) != 0 {
		t.Errorf("Move(5) on empty input returned %q", got)
	}
	if diff := cmp.Diff(jparse.Position{}, c.Position()); diff != "" {
		t.Errorf("Position on empty input (-want, +got)\n%s", diff)
	}
}
