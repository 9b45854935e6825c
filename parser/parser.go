// Package parser parses textual process expressions into a process.Node
// AST. The grammar, lowest to highest binding:
//
//	xor        : parallel | xor "^" parallel
//	parallel   : sequential | parallel "||" sequential
//	sequential : region | sequential "," region
//	region     : NAME | "(" xor ")"
//
// All three operators are left-associative, so sequencing binds tighter
// than parallel composition, which binds tighter than exclusive choice:
// "a,b^c" parses as Xor(Sequential(a,b), c). Parentheses may only group
// an xor-rooted subexpression.
package parser

import (
	"fmt"

	"github.com/pflow-xyz/go-cpi/process"
)

// SyntaxError reports malformed expression text with the byte offset
// at which the problem was found.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Parse parses a process expression and returns its AST.
// An empty expression is rejected: a region requires a task name, and
// there is no empty-process form.
func Parse(text string) (process.Node, error) {
	p, err := newParser(text)
	if err != nil {
		return nil, err
	}
	node, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokenEOF {
		return nil, p.unexpected()
	}
	return node, nil
}

type parser struct {
	lex *Lexer
	tok Token
}

func newParser(text string) (*parser, error) {
	p := &parser{lex: NewLexer(text)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) unexpected() error {
	if p.tok.Type == TokenEOF {
		return &SyntaxError{Pos: p.tok.Pos, Msg: "unexpected end of input"}
	}
	return &SyntaxError{Pos: p.tok.Pos, Msg: fmt.Sprintf("unexpected %v", p.tok.Type)}
}

func (p *parser) parseXor() (process.Node, error) {
	left, err := p.parseParallel()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenXor {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseParallel()
		if err != nil {
			return nil, err
		}
		left = &process.Xor{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseParallel() (process.Node, error) {
	left, err := p.parseSequential()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenPar {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseSequential()
		if err != nil {
			return nil, err
		}
		left = &process.Parallel{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseSequential() (process.Node, error) {
	left, err := p.parseRegion()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenSeq {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRegion()
		if err != nil {
			return nil, err
		}
		left = &process.Sequential{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseRegion() (process.Node, error) {
	switch p.tok.Type {
	case TokenName:
		task := &process.Task{Name: p.tok.Literal}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return task, nil
	case TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		if p.tok.Type != TokenRParen {
			return nil, &SyntaxError{Pos: p.tok.Pos, Msg: `expected ")"`}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.unexpected()
}
