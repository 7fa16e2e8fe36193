// Package parser implements the recursive-descent parser for infix
// arithmetic described by:
//
//	expr    := term (('+'|'-') term)*
//	term    := factor (('*'|'/') factor)*
//	factor  := ('+'|'-')? power
//	power   := atom ('^' signedAtom)*
//	signedAtom := ('+'|'-')? atom
//	atom    := Number | '(' expr ')'
//
// '+' '-' '*' '/' and '^' are all left-associative — '^' matches the
// source this spec was distilled from, not the "usual" right-associative
// convention for exponentiation.
//
// A leading sign on a factor applies to the entire '^' chain that
// follows, not just to its first operand: "-3^2" parses as -(3^2) = -9,
// not (-3)^2 = 9. A sign on the right-hand side of a single '^' (e.g.
// "2^-2") applies to that operand alone and does not extend the chain —
// preserving left associativity for "2^3^2" = (2^3)^2.
package parser

import (
	"fmt"
	"strconv"

	"github.com/ArthurGoodman/jit-calc/ast"
	"github.com/ArthurGoodman/jit-calc/lexer"
	"github.com/ArthurGoodman/jit-calc/token"
)

// Parser consumes a token stream from a Lexer and produces an expression
// tree. It reports the first error encountered with no recovery.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Parse consumes the full token stream (up to and including End) and
// returns the expression tree, or the first parse error encountered.
func Parse(l *lexer.Lexer) (ast.Node, error) {
	p := New(l)

	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.curToken.Kind != token.End {
		return nil, fmt.Errorf("excess part of expression")
	}

	return n, nil
}

func (p *Parser) parseExpr() (ast.Node, error) {
	n, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.curToken.Kind == token.Plus || p.curToken.Kind == token.Minus {
		op := binOpFor(p.curToken.Kind)
		p.nextToken()

		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		n = ast.Binary{Op: op, Left: n, Right: rhs}
	}

	return n, nil
}

func (p *Parser) parseTerm() (ast.Node, error) {
	n, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.curToken.Kind == token.Star || p.curToken.Kind == token.Slash {
		op := binOpFor(p.curToken.Kind)
		p.nextToken()

		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		n = ast.Binary{Op: op, Left: n, Right: rhs}
	}

	return n, nil
}

// parseFactor handles the optional leading sign, which applies to the
// whole power chain that follows (see package doc).
func (p *Parser) parseFactor() (ast.Node, error) {
	switch p.curToken.Kind {
	case token.Plus:
		p.nextToken()
		operand, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: ast.Add, Left: ast.Number{Value: 0}, Right: operand}, nil

	case token.Minus:
		p.nextToken()
		operand, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: ast.Sub, Left: ast.Number{Value: 0}, Right: operand}, nil

	default:
		return p.parsePower()
	}
}

// parsePower folds '^' left-associatively: a^b^c becomes (a^b)^c. Each
// right-hand operand may itself carry a sign ("2^-2"), but that sign does
// not extend the chain.
func (p *Parser) parsePower() (ast.Node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for p.curToken.Kind == token.Caret {
		p.nextToken()

		rhs, err := p.parseSignedAtom()
		if err != nil {
			return nil, err
		}

		n = ast.Binary{Op: ast.Pow, Left: n, Right: rhs}
	}

	return n, nil
}

func (p *Parser) parseSignedAtom() (ast.Node, error) {
	switch p.curToken.Kind {
	case token.Plus:
		p.nextToken()
		operand, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: ast.Add, Left: ast.Number{Value: 0}, Right: operand}, nil

	case token.Minus:
		p.nextToken()
		operand, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: ast.Sub, Left: ast.Number{Value: 0}, Right: operand}, nil

	default:
		return p.parseAtom()
	}
}

func (p *Parser) parseAtom() (ast.Node, error) {
	switch p.curToken.Kind {
	case token.Number:
		v, err := strconv.ParseFloat(p.curToken.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p.curToken.Text)
		}
		p.nextToken()
		return ast.Number{Value: v}, nil

	case token.LParen:
		p.nextToken()

		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if p.curToken.Kind != token.RParen {
			return nil, fmt.Errorf("unmatched parentheses")
		}
		p.nextToken()

		return n, nil

	case token.Unknown:
		return nil, fmt.Errorf("unknown token '%s'", p.curToken.Text)

	case token.End:
		return nil, fmt.Errorf("unexpected end of expression")

	default:
		return nil, fmt.Errorf("unexpected token %q", p.curToken.Kind)
	}
}

func binOpFor(k token.Kind) ast.BinOp {
	switch k {
	case token.Plus:
		return ast.Add
	case token.Minus:
		return ast.Sub
	case token.Star:
		return ast.Mul
	case token.Slash:
		return ast.Div
	default:
		panic("parser: binOpFor called with non-operator token kind")
	}
}
