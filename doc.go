// Copyright (C) 2024 The jparse Authors. All Rights Reserved.

// Package jparse implements a strict, positioned JSON lexer and the
// supporting machinery of a standards-conforming JSON reader: a
// bidirectional byte cursor with line and column bookkeeping, byte-level
// parsers, a tokenizer, and a closed taxonomy of positioned diagnostics.
//
// # Lexing
//
// A Lexer turns a Cursor over raw input into positioned tokens:
//
//	cur := jparse.NewCursor(data)
//	lx := &jparse.Lexer{RequireFullInput: true}
//	toks, err := lx.Lex(cur)
//
// Integer and float tokens are discriminated during lexing: a number
// written with no fraction or exponent whose value fits in int64 becomes an
// Integer token, anything else a Number. String tokens carry their decoded
// text, with escapes and UTF-16 surrogate pairs already resolved.
//
// # Parsing
//
// The ast subpackage builds JSON values from the token stream; its Parse
// function is the public entry point for reading a whole document:
//
//	v, err := ast.Parse(data)
//
// # Diagnostics
//
// Every error produced by this package satisfies the Diagnostic interface
// and carries the zero-based line, column, and byte offset at which the
// problem was detected. The concrete kinds form a closed set; use errors.As
// to discriminate them.
package jparse
