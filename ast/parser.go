// Copyright (C) 2024 The jparse Authors. All Rights Reserved.

package ast

import (
	"errors"

	"github.com/jparse-go/jparse"
	"github.com/jparse-go/jparse/combine"
)

// Parse parses data as a single JSON document. The returned value owns all
// of its strings and children; nothing in it aliases data. On failure the
// error is a jparse.Diagnostic locating the problem in the source.
func Parse(data []byte) (Value, error) {
	cur := jparse.NewCursor(data)
	lx := &jparse.Lexer{RequireFullInput: true}
	toks, err := lx.Lex(cur)
	if err != nil {
		return nil, err
	}
	in := &tokenCursor{toks: toks, end: cur.Position()}
	v, err := parseValue(in)
	if err != nil {
		return nil, err
	}
	if in.idx != len(in.toks) {
		return nil, &jparse.ExpectedAValue{Pos: in.pos(), Found: in.found()}
	}
	return v, nil
}

// tokenCursor reads the token stream produced by the lexer. It carries the
// position just past the last token, so that diagnostics issued at the end
// of the stream still point into the source.
type tokenCursor struct {
	toks []jparse.Token
	idx  int
	end  jparse.Position
}

func (t *tokenCursor) Mark() int   { return t.idx }
func (t *tokenCursor) Reset(m int) { t.idx = m }

// pos reports the source position of the current token, or the end
// position when the stream is exhausted.
func (t *tokenCursor) pos() jparse.Position {
	if t.idx < len(t.toks) {
		return t.toks[t.idx].Pos
	}
	return t.end
}

// found renders the current token for diagnostics. Empty means the stream
// is exhausted.
func (t *tokenCursor) found() string {
	if t.idx < len(t.toks) {
		return t.toks[t.idx].String()
	}
	return ""
}

func (t *tokenCursor) peek() (jparse.Token, bool) {
	if t.idx < len(t.toks) {
		return t.toks[t.idx], true
	}
	return jparse.Token{}, false
}

func (t *tokenCursor) take() jparse.Token {
	tok := t.toks[t.idx]
	t.idx++
	return tok
}

func parseLiteral(in *tokenCursor) (Value, error) {
	tok, ok := in.peek()
	if !ok || (tok.Kind != jparse.Null && tok.Kind != jparse.True && tok.Kind != jparse.False) {
		return nil, &jparse.ExpectedALiteral{Pos: in.pos(), Found: in.found()}
	}
	in.take()
	switch tok.Kind {
	case jparse.Null:
		return Null{}, nil
	case jparse.True:
		return Bool(true), nil
	default:
		return Bool(false), nil
	}
}

func parseNumber(in *tokenCursor) (Value, error) {
	tok, ok := in.peek()
	if !ok || (tok.Kind != jparse.Integer && tok.Kind != jparse.Number) {
		return nil, &jparse.ExpectedANumber{Pos: in.pos(), Found: in.found()}
	}
	in.take()
	if tok.Kind == jparse.Integer {
		return Int(tok.Int), nil
	}
	return Float(tok.Float), nil
}

func parseString(in *tokenCursor) (Value, error) {
	tok, ok := in.peek()
	if !ok || tok.Kind != jparse.String {
		return nil, &jparse.ExpectedAString{Pos: in.pos(), Found: in.found()}
	}
	in.take()
	return String(tok.Text), nil
}

// syntax returns a parser for one specific punctuation token.
func syntax(k jparse.Kind) combine.Func[*tokenCursor, jparse.Token] {
	return func(in *tokenCursor) (jparse.Token, error) {
		tok, ok := in.peek()
		if !ok || tok.Kind != k {
			return jparse.Token{}, &jparse.ExpectedASyntax{
				Pos: in.pos(), Found: in.found(), Expected: k.String(),
			}
		}
		return in.take(), nil
	}
}

func parseArray(in *tokenCursor) (Value, error) {
	mark := in.Mark()
	if _, err := syntax(jparse.LSquare)(in); err != nil {
		return nil, &jparse.ExpectedArrayStart{Pos: in.pos(), Found: in.found()}
	}

	elems := combine.Cycle[*tokenCursor, Value, jparse.Token]{
		Main: combine.Func[*tokenCursor, Value](parseValue),
		Sep:  syntax(jparse.Comma),
	}
	vals, stop := elems.Parse(in)

	// A comma was consumed but no element followed it.
	if !stop.AtStart && !stop.OnSep {
		in.Reset(mark)
		return nil, elementError(stop.Err)
	}

	if _, err := syntax(jparse.RSquare)(in); err != nil {
		pos, found := in.pos(), in.found()
		in.Reset(mark)
		if stop.OnSep {
			return nil, &jparse.ExpectedCommaOrArrayEnd{Pos: pos, Found: found}
		}
		return nil, elementError(stop.Err)
	}
	if vals == nil {
		vals = []Value{}
	}
	return Array(vals), nil
}

// elementError maps the failure of an array element onto the array grammar:
// a position where no value could begin reads as "expected a value or end
// of array", while an error from inside an element surfaces unchanged.
func elementError(err error) error {
	var ev *jparse.ExpectedAValue
	if errors.As(err, &ev) {
		return &jparse.ExpectedAValueOrArrayEnd{Pos: ev.Pos, Found: ev.Found}
	}
	return err
}

// member is one parsed key-value pair of an object.
type member struct {
	key string
	val Value
}

func parseMember(in *tokenCursor) (member, error) {
	seq := combine.Seq[*tokenCursor, any]{Steps: []combine.Parser[*tokenCursor, any]{
		combine.Func[*tokenCursor, any](func(in *tokenCursor) (any, error) { return parseString(in) }),
		combine.Func[*tokenCursor, any](func(in *tokenCursor) (any, error) { return syntax(jparse.Colon)(in) }),
		combine.Func[*tokenCursor, any](func(in *tokenCursor) (any, error) { return parseValue(in) }),
	}}
	vals, err := seq.Parse(in)
	if err != nil {
		return member{}, err
	}
	return member{key: string(vals[0].(String)), val: vals[2].(Value)}, nil
}

func parseObject(in *tokenCursor) (Value, error) {
	mark := in.Mark()
	if _, err := syntax(jparse.LBrace)(in); err != nil {
		return nil, &jparse.ExpectedObjectStart{Pos: in.pos(), Found: in.found()}
	}

	members := combine.Cycle[*tokenCursor, member, jparse.Token]{
		Main: combine.Func[*tokenCursor, member](parseMember),
		Sep:  syntax(jparse.Comma),
	}
	vals, stop := members.Parse(in)

	// A comma was consumed but no member followed it.
	if !stop.AtStart && !stop.OnSep {
		in.Reset(mark)
		return nil, memberError(stop.Err)
	}

	if _, err := syntax(jparse.RBrace)(in); err != nil {
		pos, found := in.pos(), in.found()
		in.Reset(mark)
		if stop.OnSep {
			return nil, &jparse.ExpectedCommaOrObjectEnd{Pos: pos, Found: found}
		}
		return nil, memberError(stop.Err)
	}

	obj := make(Object, len(vals))
	for _, m := range vals {
		obj[m.key] = m.val // later members override earlier ones
	}
	return obj, nil
}

// memberError maps the failure of an object member onto the object
// grammar: a missing key reads as "expected a string or end of object", a
// missing colon as "expected a colon", a member position where no value
// could begin as "expected a value", and an error from inside a member
// value surfaces unchanged.
func memberError(err error) error {
	var step *combine.StepError
	if !errors.As(err, &step) {
		return err
	}
	switch step.Index {
	case 0:
		var es *jparse.ExpectedAString
		if errors.As(step.Err, &es) {
			return &jparse.ExpectedAStringOrObjectEnd{Pos: es.Pos, Found: es.Found}
		}
		return step.Err
	case 1:
		var es *jparse.ExpectedASyntax
		if errors.As(step.Err, &es) {
			return &jparse.ExpectedColon{Pos: es.Pos, Found: es.Found}
		}
		return step.Err
	default:
		return step.Err
	}
}

// parseValue parses a single JSON value of any kind.
func parseValue(in *tokenCursor) (Value, error) {
	alt := combine.Or[*tokenCursor, Value]{Alts: []combine.Parser[*tokenCursor, Value]{
		combine.Func[*tokenCursor, Value](parseLiteral),
		combine.Func[*tokenCursor, Value](parseNumber),
		combine.Func[*tokenCursor, Value](parseString),
		combine.Func[*tokenCursor, Value](parseArray),
		combine.Func[*tokenCursor, Value](parseObject),
	}}
	v, _, _, err := alt.Parse(in)
	if err == nil {
		return v, nil
	}

	// An array or object that got past its opening bracket reports its own
	// structural error; otherwise no value could begin here at all.
	fails := err.(*combine.AllFailed).Errs
	var as *jparse.ExpectedArrayStart
	if !errors.As(fails[3], &as) {
		return nil, fails[3]
	}
	var os *jparse.ExpectedObjectStart
	if !errors.As(fails[4], &os) {
		return nil, fails[4]
	}
	return nil, &jparse.ExpectedAValue{Pos: in.pos(), Found: in.found()}
}
