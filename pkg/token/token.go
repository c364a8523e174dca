// Package token defines the lexical vocabulary of the Jack language: the
// tagged token variants produced by pkg/lexer and consumed by pkg/parser.
package token

import "fmt"

// Kind tags the variant a Token carries. Jack has a small, fixed token
// vocabulary (nand2tetris §10), so a string enum (as the teacher repo uses
// throughout pkg/jack and pkg/vm for its own enums) is preferred over a
// closed interface hierarchy.
type Kind string

const (
	Keyword    Kind = "keyword"
	Symbol     Kind = "symbol"
	Identifier Kind = "identifier"
	IntConst   Kind = "intConst"
	StrConst   Kind = "strConst"
	Eof        Kind = "eof"
)

// Keywords is the full Jack keyword table (spec §4.1). Membership here is
// what distinguishes a Keyword token from a plain Identifier once the
// lexer has scanned a maximal identifier run.
var Keywords = map[string]bool{
	"class": true, "method": true, "function": true, "constructor": true,
	"int": true, "boolean": true, "char": true, "void": true,
	"var": true, "static": true, "field": true,
	"let": true, "do": true, "if": true, "else": true, "while": true, "return": true,
	"true": true, "false": true, "null": true, "this": true,
}

// Symbols is the single-character symbol set recognized by the lexer.
var Symbols = map[byte]bool{
	'{': true, '}': true, '(': true, ')': true, '[': true, ']': true,
	'.': true, ',': true, ';': true,
	'+': true, '-': true, '*': true, '/': true,
	'&': true, '|': true, '<': true, '>': true, '=': true, '~': true,
}

// Position is a 1-based source location, carried by every Token and every
// ast node built from one.
type Position struct {
	File string
	Line int
	Col  int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Token is a single lexical unit. Every variant shares the same struct
// shape; Lexeme/IntValue are only meaningful for the kinds that carry a
// payload (Keyword/Symbol/Identifier use Lexeme, IntConst uses IntValue,
// StrConst uses Lexeme for the unescaped string body).
type Token struct {
	Kind     Kind
	Lexeme   string
	IntValue int
	Pos      Position
}

func (t Token) String() string {
	switch t.Kind {
	case IntConst:
		return fmt.Sprintf("IntConst(%d)", t.IntValue)
	case StrConst:
		return fmt.Sprintf("StringConst(%q)", t.Lexeme)
	case Eof:
		return "Eof"
	default:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
	}
}

// Is reports whether the token is a Keyword or Symbol with the given
// lexeme; a convenience used pervasively by the parser's lookahead checks.
func (t Token) Is(kind Kind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}
