// Package parser turns Verily source text into term.Term values: the
// generic s-expression syntax "(head child...)" / "symbol" that both
// terms and top-level statements share. It has no notion of RULE,
// AXIOM, or any other statement head — that dispatch belongs to the
// Driver, per spec.md §6 ("the core consumes parsed statements... there
// is no on-disk format").
package parser

import (
	"strings"

	verrors "github.com/verily-lang/verily/errors"
	"github.com/verily-lang/verily/runes"
	"github.com/verily-lang/verily/term"
)

// Parser consumes a token stream produced by Lex.
type Parser struct {
	tokens []Token
	pos    int
}

// New returns a Parser over tokens.
func New(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseFile lexes and parses src (from the named file, used only for
// position metadata) into the sequence of top-level statement terms it
// contains.
func ParseFile(src, file string) ([]term.Term, error) {
	return New(Lex(src, file)).ParseAll()
}

func (p *Parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) cur() (Token, bool) {
	if p.done() {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// ParseAll parses every top-level term until the token stream is
// exhausted.
func (p *Parser) ParseAll() ([]term.Term, error) {
	var stmts []term.Term
	for !p.done() {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, t)
	}
	return stmts, nil
}

// parseTerm parses one term: a bare symbol/string leaf, or a
// parenthesized "(head child...)" compound.
func (p *Parser) parseTerm() (term.Term, error) {
	tok, ok := p.cur()
	if !ok {
		return term.Term{}, verrors.New("parser: unexpected end of input")
	}

	if tok.Text != "(" {
		p.next()
		return unquote(tok).WithPos(term.Pos{File: tok.File, Line: tok.Line, Col: tok.Col}), nil
	}

	openParen := p.next()
	headTok, ok := p.cur()
	if !ok {
		return term.Term{}, verrors.New("parser: unexpected end of input after '(' at %s:%d:%d", openParen.File, openParen.Line, openParen.Col)
	}
	if headTok.Text == "(" || headTok.Text == ")" {
		return term.Term{}, verrors.New("parser: expected a head symbol after '(' at %s:%d:%d, saw %q", openParen.File, openParen.Line, openParen.Col, headTok.Text)
	}
	p.next()

	var children []term.Term
	for {
		tok, ok := p.cur()
		if !ok {
			return term.Term{}, verrors.New("parser: unterminated list opened at %s:%d:%d", openParen.File, openParen.Line, openParen.Col)
		}
		if tok.Text == ")" {
			p.next()
			break
		}
		child, err := p.parseTerm()
		if err != nil {
			return term.Term{}, err
		}
		children = append(children, child)
	}

	head := strings.TrimPrefix(strings.TrimSuffix(headTok.Text, `"`), `"`)
	if _, ok := runes.First(head); !ok {
		return term.Term{}, verrors.New("parser: malformed head symbol %q at %s:%d:%d", headTok.Text, headTok.File, headTok.Line, headTok.Col)
	}
	return term.New(head, children...).WithPos(term.Pos{File: openParen.File, Line: openParen.Line, Col: openParen.Col}), nil
}

// unquote strips surrounding double quotes from a string-literal token,
// leaving symbol tokens untouched.
func unquote(tok Token) term.Term {
	text := tok.Text
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return term.Leaf(text[1 : len(text)-1])
	}
	return term.Leaf(text)
}
