package parser

import (
	"github.com/jackc-project/jackc/pkg/ast"
	"github.com/jackc-project/jackc/pkg/token"
)

// parseExpression is the Pratt-parser core (spec §4.2): look up the
// current token's nud, invoke it for an initial left operand, then keep
// folding in led continuations as long as the current token's precedence
// exceeds minPrecedence.
func (p *Parser) parseExpression(minPrecedence int) (ast.Expr, error) {
	r, ok := ruleFor(p.cur)
	if !ok || r.nud == nil {
		err := p.errorAt(p.cur.Pos, "unexpected token %q starting an expression", p.cur.Lexeme)
		p.synchronize()
		return nil, err
	}

	left, err := r.nud(p)
	if err != nil {
		return nil, err
	}

	for {
		next, ok := ruleFor(p.cur)
		if !ok || next.led == nil || next.prec <= minPrecedence {
			break
		}
		left, err = next.led(p, left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func nudInt(p *Parser) (ast.Expr, error) {
	t := p.cur
	p.advance()
	return ast.NewIntLit(t.Pos, t.IntValue), nil
}

func nudString(p *Parser) (ast.Expr, error) {
	t := p.cur
	p.advance()
	return ast.NewStringLit(t.Pos, t.Lexeme), nil
}

func nudKeywordLit(kind ast.KeywordLitKind) nudFn {
	return func(p *Parser) (ast.Expr, error) {
		t := p.cur
		p.advance()
		return ast.NewKeywordLit(t.Pos, kind), nil
	}
}

func nudGroup(p *Parser) (ast.Expr, error) {
	p.advance() // '('
	inner, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return inner, nil
}

func nudUnary(p *Parser) (ast.Expr, error) {
	t := p.cur
	op := ast.UnaryOpKind(t.Lexeme)
	p.advance()

	operand, err := p.parseExpression(Prefix)
	if err != nil {
		return nil, err
	}
	return ast.NewUnaryOp(t.Pos, op, operand), nil
}

// nudIdentifier reads a bare identifier; if immediately followed by '('
// it's an unqualified call, and the special case `Array<T>` absorbs
// generic type arguments (spec §4.2).
func nudIdentifier(p *Parser) (ast.Expr, error) {
	t := p.cur
	p.advance()

	if t.Lexeme == "Array" && p.cur.Is(token.Symbol, "<") {
		generics, err := p.parseGenericArgs()
		if err != nil {
			return nil, err
		}
		return ast.NewIdentifier(t.Pos, "Array", generics...), nil
	}

	if p.cur.Is(token.Symbol, "(") {
		p.advance()
		args, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return ast.NewCallExpr(t.Pos, nil, t.Lexeme, args), nil
	}

	return ast.NewIdentifier(t.Pos, t.Lexeme), nil
}

func ledBinary(op ast.BinOpKind) ledFn {
	return func(p *Parser, left ast.Expr) (ast.Expr, error) {
		t := p.cur
		r, _ := ruleFor(t)
		p.advance()

		right, err := p.parseExpression(r.prec)
		if err != nil {
			return nil, err
		}
		return ast.NewBinOp(t.Pos, op, left, right), nil
	}
}

// ledCall implements the '.' infix: `receiver.name(args)`.
func ledCall(p *Parser, left ast.Expr) (ast.Expr, error) {
	dotPos := p.cur.Pos
	p.advance() // '.'

	if p.cur.Kind != token.Identifier {
		err := p.errorAt(p.cur.Pos, "expected a subroutine name after '.'")
		p.synchronize()
		return nil, err
	}
	name := p.cur.Lexeme
	p.advance()

	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	args, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}

	return ast.NewCallExpr(dotPos, left, name, args), nil
}

// ledIndex implements the '[' infix: `base[index]`.
func ledIndex(p *Parser, left ast.Expr) (ast.Expr, error) {
	pos := p.cur.Pos
	p.advance() // '['

	idx, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("]"); err != nil {
		return nil, err
	}
	return ast.NewArrayAccess(pos, left, idx), nil
}

// parseExprList parses a comma-separated list of expressions up to (but
// not consuming) the closing token, returning an empty slice for an
// immediately-empty list.
func (p *Parser) parseExprList() ([]ast.Expr, error) {
	if p.cur.Is(token.Symbol, ")") {
		return nil, nil
	}

	var args []ast.Expr
	first, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	args = append(args, first)

	for p.cur.Is(token.Symbol, ",") {
		p.advance()
		next, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		args = append(args, next)
	}

	return args, nil
}
