package parser

import (
	"github.com/jackc-project/jackc/pkg/ast"
	"github.com/jackc-project/jackc/pkg/token"
)

// nudFn parses an expression starting at the current token (the token is
// in "prefix" position -- it begins an expression). ledFn continues an
// expression already parsed as left, with the current token in "infix/
// suffix" position. Names follow the classic Pratt-parser vocabulary
// (null-denotation / left-denotation).
type nudFn func(p *Parser) (ast.Expr, error)
type ledFn func(p *Parser, left ast.Expr) (ast.Expr, error)

type rule struct {
	nud  nudFn
	led  ledFn
	prec int
}

// typeRules drives expression parsing for generic token categories:
// any integer literal, any string literal, any identifier.
var typeRules = map[token.Kind]rule{
	token.IntConst:   {nud: nudInt, prec: Lowest},
	token.StrConst:   {nud: nudString, prec: Lowest},
	token.Identifier: {nud: nudIdentifier, prec: Lowest},
}

// textRules drives expression parsing for specific symbol/keyword
// lexemes; a lexeme entry here overrides whatever typeRules would say for
// its token Kind (spec §4.2: "Specific lexemes override category rules").
var textRules = map[string]rule{
	"(": {nud: nudGroup, prec: Lowest},

	"-": {nud: nudUnary, led: ledBinary(ast.OpSub), prec: Sum},
	"~": {nud: nudUnary, prec: Lowest},

	"+": {led: ledBinary(ast.OpAdd), prec: Sum},
	"|": {led: ledBinary(ast.OpOr), prec: Sum},

	"*": {led: ledBinary(ast.OpMul), prec: Product},
	"/": {led: ledBinary(ast.OpDiv), prec: Product},
	"&": {led: ledBinary(ast.OpAnd), prec: Product},

	"<": {led: ledBinary(ast.OpLt), prec: Compare},
	">": {led: ledBinary(ast.OpGt), prec: Compare},
	"=": {led: ledBinary(ast.OpEq), prec: Equals},

	".": {led: ledCall, prec: Call},
	"[": {led: ledIndex, prec: Index},

	"true":  {nud: nudKeywordLit(ast.KwTrue)},
	"false": {nud: nudKeywordLit(ast.KwFalse)},
	"null":  {nud: nudKeywordLit(ast.KwNull)},
	"this":  {nud: nudKeywordLit(ast.KwThis)},
}

// ruleFor looks up the dispatch rule for a token: lexeme-specific first
// (symbols and keywords only), category-generic as a fallback. Unary
// "-"/"~" sit at Prefix precedence only when consumed via nud; as a led
// they use the table's own Sum precedence (see textRules["-"]).
func ruleFor(t token.Token) (rule, bool) {
	if t.Kind == token.Symbol || t.Kind == token.Keyword {
		if r, ok := textRules[t.Lexeme]; ok {
			return r, true
		}
	}
	if r, ok := typeRules[t.Kind]; ok {
		return r, true
	}
	return rule{}, false
}
