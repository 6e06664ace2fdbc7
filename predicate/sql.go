/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/suparena/mapstore/errors"
)

// SQL parses a SQL-like predicate such as
//
//	age >= 18 AND (name LIKE 'A%' OR vip = true) AND status IN ('new', ?)
//
// Supported forms are comparisons (= == != <> < <= > >=), [NOT] LIKE,
// [NOT] ILIKE, REGEX, [NOT] IN (...), [NOT] BETWEEN a AND b and IS [NOT] NULL,
// combined with AND, OR, NOT and parentheses. Keywords are case-insensitive.
// Each ? placeholder binds the next value of args.
func SQL(text string, args ...any) (Predicate, error) {
	tokens, err := lex(text)
	if err != nil {
		return nil, err
	}

	p := &sqlParser{text: text, tokens: tokens, args: args}
	pred, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", tok.text)
	}
	if p.argIndex != len(args) {
		return nil, p.errorf("query binds %d arguments but %d were given", p.argIndex, len(args))
	}
	return pred, nil
}

// MustSQL is like SQL but panics on error. It is meant for static queries.
func MustSQL(text string, args ...any) Predicate {
	p, err := SQL(text, args...)
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the number of ? placeholders in text. It fails when
// text cannot be tokenized.
func Placeholders(text string) (int, error) {
	tokens, err := lex(text)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, tok := range tokens {
		if tok.kind == tokParam {
			n++
		}
	}
	return n, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp
	tokParam
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) keyword(k string) bool {
	return t.kind == tokIdent && strings.EqualFold(t.text, k)
}

func lex(text string) ([]token, error) {
	var tokens []token
	runes := []rune(text)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", pos: i})
			i++
		case r == '?':
			tokens = append(tokens, token{kind: tokParam, text: "?", pos: i})
			i++
		case r == '\'' || r == '"':
			s, next, err := lexString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: s, pos: i})
			i = next
		case strings.ContainsRune("=!<>", r):
			op := string(r)
			if i+1 < len(runes) {
				two := string(runes[i : i+2])
				switch two {
				case "==", "!=", "<>", "<=", ">=":
					op = two
				}
			}
			if op == "!" {
				return nil, errors.NewValidationError("query", fmt.Sprintf("unexpected '!' at %d", i))
			}
			tokens = append(tokens, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		case unicode.IsDigit(r) || ((r == '-' || r == '+') && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			i++
			for i < len(runes) && (unicode.IsDigit(runes[i]) || strings.ContainsRune(".eE", runes[i]) ||
				((runes[i] == '-' || runes[i] == '+') && (runes[i-1] == 'e' || runes[i-1] == 'E'))) {
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[start:i]), pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_' || runes[i] == '.') {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		default:
			return nil, errors.NewValidationError("query", fmt.Sprintf("unexpected character %q at %d", r, i))
		}
	}

	return append(tokens, token{kind: tokEOF, pos: len(runes)}), nil
}

// lexString reads a quoted literal starting at runes[start]. The quote is
// escaped by doubling it or with a backslash.
func lexString(runes []rune, start int) (string, int, error) {
	quote := runes[start]
	var b strings.Builder

	for i := start + 1; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			b.WriteRune(runes[i])
		case r == quote && i+1 < len(runes) && runes[i+1] == quote:
			i++
			b.WriteRune(quote)
		case r == quote:
			return b.String(), i + 1, nil
		default:
			b.WriteRune(r)
		}
	}
	return "", 0, errors.NewValidationError("query", fmt.Sprintf("unterminated string at %d", start))
}

type sqlParser struct {
	text     string
	tokens   []token
	pos      int
	args     []any
	argIndex int
}

func (p *sqlParser) peek() token { return p.tokens[p.pos] }

func (p *sqlParser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *sqlParser) errorf(format string, args ...any) error {
	return errors.NewValidationError("query", fmt.Sprintf("%s in %q", fmt.Sprintf(format, args...), p.text))
}

func (p *sqlParser) parseOr() (Predicate, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	terms := []Predicate{left}
	for p.peek().keyword("OR") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	return Or(terms...), nil
}

func (p *sqlParser) parseAnd() (Predicate, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	terms := []Predicate{left}
	for p.peek().keyword("AND") {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	return And(terms...), nil
}

func (p *sqlParser) parseUnary() (Predicate, error) {
	tok := p.peek()
	switch {
	case tok.keyword("NOT"):
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not(inner), nil
	case tok.kind == tokLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, p.errorf("missing ')'")
		}
		return inner, nil
	}
	return p.parseComparison()
}

func (p *sqlParser) parseComparison() (Predicate, error) {
	attr := p.next()
	if attr.kind != tokIdent {
		return nil, p.errorf("expected attribute, got %q", attr.text)
	}

	tok := p.next()
	if tok.kind == tokOp {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		switch tok.text {
		case "=", "==":
			return Equal(attr.text, value), nil
		case "!=", "<>":
			return NotEqual(attr.text, value), nil
		case "<":
			return LessThan(attr.text, value), nil
		case "<=":
			return LessEqual(attr.text, value), nil
		case ">":
			return GreaterThan(attr.text, value), nil
		case ">=":
			return GreaterEqual(attr.text, value), nil
		}
	}

	negate := false
	if tok.keyword("NOT") {
		negate = true
		tok = p.next()
	}

	var (
		pred Predicate
		err  error
	)
	switch {
	case tok.keyword("LIKE"), tok.keyword("ILIKE"):
		var s string
		if s, err = p.parseString(); err != nil {
			return nil, err
		}
		if tok.keyword("LIKE") {
			pred = Like(attr.text, s)
		} else {
			pred = ILike(attr.text, s)
		}
	case tok.keyword("REGEX"):
		var s string
		if s, err = p.parseString(); err != nil {
			return nil, err
		}
		if pred, err = Regex(attr.text, s); err != nil {
			return nil, errors.NewValidationError("query", err.Error())
		}
	case tok.keyword("IN"):
		var values []any
		if values, err = p.parseList(); err != nil {
			return nil, err
		}
		pred = In(attr.text, values...)
	case tok.keyword("BETWEEN"):
		var from, to any
		if from, err = p.parseValue(); err != nil {
			return nil, err
		}
		if !p.next().keyword("AND") {
			return nil, p.errorf("expected AND in BETWEEN")
		}
		if to, err = p.parseValue(); err != nil {
			return nil, err
		}
		pred = Between(attr.text, from, to)
	case tok.keyword("IS") && !negate:
		if p.peek().keyword("NOT") {
			p.next()
			negate = true
		}
		if !p.next().keyword("NULL") {
			return nil, p.errorf("expected NULL after IS")
		}
		pred = IsNull(attr.text)
	default:
		return nil, p.errorf("unexpected %q after %s", tok.text, attr.text)
	}

	if negate {
		return Not(pred), nil
	}
	return pred, nil
}

func (p *sqlParser) parseList() ([]any, error) {
	if p.next().kind != tokLParen {
		return nil, p.errorf("expected '(' after IN")
	}
	var values []any
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)

		switch tok := p.next(); tok.kind {
		case tokComma:
		case tokRParen:
			return values, nil
		default:
			return nil, p.errorf("expected ',' or ')' in IN list, got %q", tok.text)
		}
	}
}

func (p *sqlParser) parseString() (string, error) {
	v, err := p.parseValue()
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", p.errorf("expected string pattern, got %T", v)
	}
	return s, nil
}

func (p *sqlParser) parseValue() (any, error) {
	tok := p.next()
	switch tok.kind {
	case tokString:
		return tok.text, nil
	case tokNumber:
		if n, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", tok.text)
		}
		return f, nil
	case tokParam:
		if p.argIndex >= len(p.args) {
			return nil, p.errorf("not enough arguments for placeholder %d", p.argIndex+1)
		}
		v := p.args[p.argIndex]
		p.argIndex++
		return v, nil
	case tokIdent:
		switch {
		case tok.keyword("TRUE"):
			return true, nil
		case tok.keyword("FALSE"):
			return false, nil
		case tok.keyword("NULL"):
			return nil, nil
		}
	}
	return nil, p.errorf("expected value, got %q", tok.text)
}
