// Copyright (C) 2024 The jparse Authors. All Rights Reserved.

package jparse

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"go4.org/mem"

	"github.com/jparse-go/jparse/combine"
	"github.com/jparse-go/jparse/internal/escape"
)

// tokenLiteralLexer matches the keywords null, true, and false. It reads a
// maximal run of ASCII letters; any other run is an invalid literal and
// consumes nothing.
type tokenLiteralLexer struct{}

func (tokenLiteralLexer) Parse(in *Cursor) (Token, error) {
	start := in.Position()
	rest := in.Peek(in.Len() - in.Mark())
	n := 0
	for n < len(rest) && isLetter(rest[n]) {
		n++
	}
	if n == 0 {
		if len(rest) == 0 {
			return Token{}, &UnexpectedEndOfInput{Pos: start}
		}
		return Token{}, &ExpectedALiteral{Pos: start, Found: quoteByte(rest[0])}
	}

	got := mem.B(rest[:n])
	var kind Kind
	switch {
	case got.Equal(mem.S("null")):
		kind = Null
	case got.Equal(mem.S("true")):
		kind = True
	case got.Equal(mem.S("false")):
		kind = False
	default:
		return Token{}, &InvalidLiteral{Pos: start, Lexeme: got.StringCopy()}
	}
	in.Move(n)
	return Token{Pos: start, Kind: kind}, nil
}

// tokenSyntaxLexer matches one of the six punctuation characters.
type tokenSyntaxLexer struct{}

var syntaxKind = [...]Kind{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func (tokenSyntaxLexer) Parse(in *Cursor) (Token, error) {
	pos := in.Position()
	b, ok := in.PeekNext()
	if !ok {
		return Token{}, &UnexpectedEndOfInput{Pos: pos}
	}
	i := strings.IndexByte("{}[],:", b)
	if i < 0 {
		return Token{}, &ExpectedASyntax{Pos: pos, Found: quoteByte(b)}
	}
	in.Move(1)
	return Token{Pos: pos, Kind: syntaxKind[i]}, nil
}

// tokenNumberLexer matches the JSON number grammar
//
//	-? (0 | [1-9][0-9]*) (. [0-9]+)? ([eE] [+-]? [0-9]+)?
//
// and discriminates integers from floats. A whole part that overflows
// int64, or any fraction or exponent, demotes the token to a float. The
// float is accumulated digit-wise and scaled by the decimal exponent at the
// end; an exponent beyond twice the representable base-10 range clamps the
// result to a signed infinity or zero instead of failing.
type tokenNumberLexer struct{}

func (tokenNumberLexer) Parse(in *Cursor) (Token, error) {
	start := in.Position()
	b, ok := in.PeekNext()
	if !ok {
		return Token{}, &UnexpectedEndOfInput{Pos: start}
	}
	if b != '-' && !isDigit(b) {
		return Token{}, &ExpectedANumber{Pos: start, Found: quoteByte(b)}
	}

	neg := false
	if b == '-' {
		neg = true
		in.Move(1)
	}

	isInt := true
	var intAcc int64
	var fltAcc float64

	// Accumulate one digit into the running values, with the sign applied
	// per digit so that the full int64 range is reachable. While the int
	// accumulator holds the whole part exactly, the float accumulator is its
	// magnitude rounded once. The int accumulator is abandoned on the first
	// digit that would overflow; later digits accumulate into the float alone.
	acc := func(d int) {
		if isInt {
			if neg {
				if intAcc < math.MinInt64/10 || (intAcc == math.MinInt64/10 && int64(d) > -(math.MinInt64%10)) {
					isInt = false
				} else {
					intAcc = intAcc*10 - int64(d)
				}
			} else {
				if intAcc > math.MaxInt64/10 || (intAcc == math.MaxInt64/10 && int64(d) > math.MaxInt64%10) {
					isInt = false
				} else {
					intAcc = intAcc*10 + int64(d)
				}
			}
			if isInt {
				fltAcc = math.Abs(float64(intAcc))
				return
			}
		}
		fltAcc = fltAcc*10 + float64(d)
	}

	lead, err := (DigitParser{}).Parse(in)
	if err != nil {
		err = asDigitErr(err)
		in.SetPosition(start)
		return Token{}, err
	}
	acc(lead)
	if lead != 0 {
		for {
			b, ok := in.PeekNext()
			if !ok || !isDigit(b) {
				break
			}
			in.Move(1)
			acc(int(b - '0'))
		}
	}

	finalExp := 0

	if b, ok := in.PeekNext(); ok && b == '.' {
		in.Move(1)
		isInt = false
		d, err := (DigitParser{}).Parse(in)
		if err != nil {
			err = asDigitErr(err)
			in.SetPosition(start)
			return Token{}, err
		}
		acc(d)
		finalExp--
		for {
			b, ok := in.PeekNext()
			if !ok || !isDigit(b) {
				break
			}
			in.Move(1)
			acc(int(b - '0'))
			finalExp--
		}
	}

	if b, ok := in.PeekNext(); ok && (b == 'e' || b == 'E') {
		in.Move(1)
		isInt = false

		expNeg, seenSign := false, false
		if b, ok := in.PeekNext(); ok && (b == '+' || b == '-') {
			expNeg = b == '-'
			seenSign = true
			in.Move(1)
		}

		pos := in.Position()
		b, ok := in.PeekNext()
		if !ok || !isDigit(b) {
			var err error
			if seenSign {
				err = &ExpectedADigit{Pos: pos, Found: b, AtEnd: !ok}
			} else {
				err = &ExpectedADigitOrASign{Pos: pos, Found: b, AtEnd: !ok}
			}
			in.SetPosition(start)
			return Token{}, err
		}

		expVal := 0
		for {
			b, ok := in.PeekNext()
			if !ok || !isDigit(b) {
				break
			}
			in.Move(1)
			// Saturate well past the clamping thresholds so the exponent
			// itself cannot overflow.
			if expVal < 100000 {
				expVal = expVal*10 + int(b-'0')
			}
		}
		if expNeg {
			expVal = -expVal
		}
		finalExp += expVal
	}

	if isInt {
		return Token{Pos: start, Kind: Integer, Int: intAcc}, nil
	}

	const maxExp10, minExp10 = 308, -307 // base-10 exponent range of float64
	var f float64
	switch {
	case finalExp > 2*maxExp10:
		f = math.Inf(1)
	case finalExp < 2*minExp10:
		f = 0
	default:
		f = fltAcc
		for i := 0; i < finalExp; i++ {
			f *= 10
		}
		for i := 0; i > finalExp; i-- {
			f /= 10
		}
	}
	if neg {
		f = -f
	}
	return Token{Pos: start, Kind: Number, Float: f}, nil
}

// asDigitErr converts an end-of-input failure from DigitParser into the
// missing-digit diagnostic, so that a number truncated mid-construct
// reports what was expected rather than a bare end of input.
func asDigitErr(err error) error {
	var eoi *UnexpectedEndOfInput
	if errors.As(err, &eoi) {
		return &ExpectedADigit{Pos: eoi.Pos, AtEnd: true}
	}
	return err
}

// tokenStringLexer matches a quoted string, decoding escapes and validating
// the UTF-8 encoding as it goes. The token text is the decoded value.
type tokenStringLexer struct{}

func (tokenStringLexer) Parse(in *Cursor) (Token, error) {
	start := in.Position()
	b, ok := in.PeekNext()
	if !ok {
		return Token{}, &UnexpectedEndOfInput{Pos: start}
	}
	if b != '"' {
		return Token{}, &ExpectedAString{Pos: start, Found: quoteByte(b)}
	}
	in.Move(1)

	var buf []byte
	for {
		cpPos := in.Position()
		cp, err := (UTF8CodePointParser{}).Parse(in)
		if err != nil {
			in.SetPosition(start)
			return Token{}, err
		}
		switch {
		case cp.Rune == '"':
			return Token{Pos: start, Kind: String, Text: string(buf)}, nil
		case cp.Rune < 0x20:
			in.SetPosition(start)
			return Token{}, &UnexpectedControlCharacter{Pos: cpPos, Byte: byte(cp.Rune)}
		case cp.Rune != '\\':
			buf = append(buf, cp.Raw...)
		default:
			buf, err = lexEscape(in, cpPos, buf)
			if err != nil {
				in.SetPosition(start)
				return Token{}, err
			}
		}
	}
}

// lexEscape consumes the remainder of an escape sequence whose backslash is
// at escPos, appending the bytes it denotes to buf.
func lexEscape(in *Cursor, escPos Position, buf []byte) ([]byte, error) {
	selPos := in.Position()
	sel, ok := in.Next()
	if !ok {
		return buf, &UnexpectedEndOfInput{Pos: selPos}
	}
	if b, ok := escape.Single(sel); ok {
		return append(buf, b), nil
	}
	if sel != 'u' {
		return buf, &InvalidEscape{Pos: escPos, Lexeme: `\` + string(sel)}
	}

	v1, err := lexHex4(in, escPos)
	if err != nil {
		return buf, err
	}
	switch {
	case escape.IsLowSurrogate(v1):
		return buf, &InvalidEncoding{
			Pos:      escPos,
			Detail:   "Low surrogate not after a high surrogate",
			Encoding: "utf-16",
		}
	case escape.IsHighSurrogate(v1):
		pairPos := in.Position()
		if pre := in.Peek(2); len(pre) < 2 || pre[0] != '\\' || pre[1] != 'u' {
			return buf, &InvalidEncoding{
				Pos:      pairPos,
				Detail:   "High surrogate not followed by a low surrogate",
				Encoding: "utf-16",
			}
		}
		in.Move(2)
		v2, err := lexHex4(in, pairPos)
		if err != nil {
			return buf, err
		}
		if !escape.IsLowSurrogate(v2) {
			return buf, &InvalidEncoding{
				Pos:      pairPos,
				Detail:   "High surrogate not followed by a low surrogate",
				Encoding: "utf-16",
			}
		}
		return escape.AppendRune(buf, escape.CombineSurrogates(v1, v2)), nil
	default:
		return escape.AppendRune(buf, v1), nil
	}
}

// lexHex4 reads the four hex digits of a \u escape whose backslash is at
// escPos. On failure it reports the offending lexeme from the backslash
// through the byte that broke the escape, at most six characters.
func lexHex4(in *Cursor, escPos Position) (rune, error) {
	var v rune
	for i := 0; i < 4; i++ {
		d, err := (HexDigitParser{}).Parse(in)
		if err != nil {
			end := in.Mark() + 1 // include the offending byte, if any
			in.Reset(escPos.Offset)
			lexeme := string(in.Peek(end - escPos.Offset))
			return 0, &InvalidEscape{Pos: escPos, Lexeme: lexeme}
		}
		v = v<<4 | rune(d)
	}
	return v, nil
}

// A Lexer converts raw input bytes into positioned tokens.
//
// The zero value is ready for use. A Lexer reuses its output slice across
// calls, so a call to Lex invalidates the tokens returned by the previous
// one.
type Lexer struct {
	// RequireFullInput makes Lex report an error when lexing stops before
	// the end of the input.
	RequireFullInput bool

	toks []Token
}

// Lex tokenizes the input at in until no further token can be produced,
// skipping whitespace between tokens. In case of error the cursor is
// restored to the position it held on entry; otherwise it rests at the
// point where lexing stopped (the end of input when RequireFullInput is
// set).
func (l *Lexer) Lex(in *Cursor) ([]Token, error) {
	entry := in.Mark()
	l.toks = l.toks[:0]

	alt := combine.Or[*Cursor, Token]{Alts: []combine.Parser[*Cursor, Token]{
		tokenLiteralLexer{},
		tokenNumberLexer{},
		tokenStringLexer{},
		tokenSyntaxLexer{},
	}}

	skipSpace(in)
	var fails []error
	for {
		tok, _, _, err := alt.Parse(in)
		if err != nil {
			fails = err.(*combine.AllFailed).Errs
			break
		}
		l.toks = append(l.toks, tok)
		skipSpace(in)
	}

	if l.RequireFullInput && !in.AtEnd() {
		if err := mostInformative(fails); err != nil {
			in.Reset(entry)
			return nil, err
		}
		pos := in.Position()
		b, _ := in.PeekNext()
		in.Reset(entry)
		return nil, &UnexpectedCharacter{
			Pos:      pos,
			Found:    b,
			Expected: "a literal, a number, a string, or a syntax character",
		}
	}
	return l.toks, nil
}

// mostInformative picks the sub-lexer error worth surfacing: one showing
// its construct got past its first character. Errors that merely mean "this
// is not my construct" are skipped. Priority follows the order the
// sub-lexers run in: literal, number, string, syntax.
func mostInformative(fails []error) error {
	couldNotStart := [...]func(error) bool{
		func(err error) bool { var e *ExpectedALiteral; return errors.As(err, &e) },
		func(err error) bool { var e *ExpectedANumber; return errors.As(err, &e) },
		func(err error) bool { var e *ExpectedAString; return errors.As(err, &e) },
		func(err error) bool { var e *ExpectedASyntax; return errors.As(err, &e) },
	}
	for i, err := range fails {
		var eoi *UnexpectedEndOfInput
		if errors.As(err, &eoi) || couldNotStart[i](err) {
			continue
		}
		return err
	}
	return nil
}

func skipSpace(in *Cursor) {
	for {
		b, ok := in.PeekNext()
		if !ok || !isSpace(b) {
			return
		}
		in.Move(1)
	}
}

func quoteByte(b byte) string { return strconv.QuoteRune(rune(b)) }
