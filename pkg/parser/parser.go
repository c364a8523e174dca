// Package parser implements the hybrid recursive-descent/Pratt parser
// from spec §4.2: recursive descent for declarations and statements,
// top-down operator precedence (Pratt) for expressions.
package parser

import (
	"github.com/jackc-project/jackc/pkg/ast"
	"github.com/jackc-project/jackc/pkg/diag"
	"github.com/jackc-project/jackc/pkg/lexer"
	"github.com/jackc-project/jackc/pkg/registry"
	"github.com/jackc-project/jackc/pkg/token"
	"github.com/jackc-project/jackc/pkg/types"
)

// safeHarbor is the set of keywords synchronize() treats as a resumable
// boundary (spec §4.2).
var safeHarbor = map[string]bool{
	"class": true, "constructor": true, "function": true, "method": true,
	"var": true, "let": true, "do": true, "if": true, "while": true, "return": true,
}

// Parser consumes tokens lazily from a Lexer and builds a *ast.Class. Per
// spec §4.7 ("[the parse phase] populates the global registry as classes
// and subroutines are recognized"), it registers the class and every
// subroutine signature into reg as soon as each is parsed, rather than
// leaving that to a later pass.
type Parser struct {
	file  string
	lex   *lexer.Lexer
	types *types.Registry
	reg   *registry.Registry

	currentClass string

	cur  token.Token
	errs diag.List

	lexFailed bool
}

// New constructs a Parser over src, using treg to intern every Type it
// constructs and reg to register the class/subroutines it recognizes. A
// lexer error while scanning the first token or its lookahead is
// unrecoverable and is returned immediately (spec §4.1: "the lexer does
// not recover").
func New(file string, src []byte, treg *types.Registry, reg *registry.Registry) (*Parser, error) {
	lx, err := lexer.New(file, src)
	if err != nil {
		return nil, err
	}

	p := &Parser{file: file, lex: lx, types: treg, reg: reg}
	p.cur = lx.Current()
	return p, nil
}

// ParseClass parses the single top-level class in this Parser's source.
// Per spec §4.2, if any error was collected (lex or parse), the caller
// must treat the result as a compilation failure; ParseClass therefore
// returns (nil, errs) rather than a partial AST whenever p.errs is
// non-empty.
func (p *Parser) ParseClass() (*ast.Class, error) {
	class := p.parseClass()

	if p.errs.HasErrors() {
		return nil, &p.errs
	}
	return class, nil
}

// advance moves to the next token, recording (and absorbing) a fatal lex
// error as a single diagnostic so the parser can still report it through
// the normal diag.List channel instead of panicking mid-grammar.
func (p *Parser) advance() {
	if p.lexFailed {
		return
	}
	if err := p.lex.Advance(); err != nil {
		p.errs.Add(err.(*diag.Error))
		p.lexFailed = true
		p.cur = token.Token{Kind: token.Eof, Pos: p.cur.Pos}
		return
	}
	p.cur = p.lex.Current()
}

func (p *Parser) errorAt(pos token.Position, format string, args ...any) error {
	e := diag.New(diag.ParseError, pos, format, args...)
	p.errs.Add(e)
	return e
}

// synchronize implements panic-mode recovery (spec §4.2): advance one
// token, then discard tokens until a ';' (consumed) or a safe-harbor
// keyword (left on the stream) or Eof.
func (p *Parser) synchronize() {
	p.advance()
	for p.cur.Kind != token.Eof {
		if p.cur.Is(token.Symbol, ";") {
			p.advance()
			return
		}
		if p.cur.Kind == token.Keyword && safeHarbor[p.cur.Lexeme] {
			return
		}
		p.advance()
	}
}

func (p *Parser) expectKeyword(kw string) error {
	if p.cur.Is(token.Keyword, kw) {
		p.advance()
		return nil
	}
	err := p.errorAt(p.cur.Pos, "expected keyword %q, got %q", kw, p.cur.Lexeme)
	p.synchronize()
	return err
}

func (p *Parser) expectSymbol(sym string) error {
	if p.cur.Is(token.Symbol, sym) {
		p.advance()
		return nil
	}
	err := p.errorAt(p.cur.Pos, "expected %q, got %q", sym, p.cur.Lexeme)
	p.synchronize()
	return err
}

func (p *Parser) expectIdentifier() (token.Token, error) {
	if p.cur.Kind == token.Identifier {
		t := p.cur
		p.advance()
		return t, nil
	}
	err := p.errorAt(p.cur.Pos, "expected an identifier, got %q", p.cur.Lexeme)
	p.synchronize()
	return token.Token{}, err
}

// ----------------------------------------------------------------------------
// Class-level grammar

func (p *Parser) parseClass() *ast.Class {
	classPos := p.cur.Pos
	if err := p.expectKeyword("class"); err != nil {
		return nil
	}

	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil
	}

	if err := p.expectSymbol("{"); err != nil {
		return nil
	}

	class := &ast.Class{Pos: classPos, Name: nameTok.Lexeme}
	p.currentClass = class.Name

	if !p.reg.RegisterClass(class.Name) {
		p.errorAt(classPos, "class %q is already declared", class.Name)
	}

	for !p.cur.Is(token.Symbol, "}") && p.cur.Kind != token.Eof {
		switch {
		case p.cur.Is(token.Keyword, "static") || p.cur.Is(token.Keyword, "field"):
			if len(class.Subs) > 0 {
				p.errorAt(p.cur.Pos, "variable declarations must precede all subroutine declarations")
				p.synchronize()
				continue
			}
			if v := p.parseClassVarDec(); v != nil {
				class.Vars = append(class.Vars, v)
			}

		case p.cur.Is(token.Keyword, "constructor") || p.cur.Is(token.Keyword, "function") || p.cur.Is(token.Keyword, "method"):
			if s := p.parseSubroutineDec(); s != nil {
				class.Subs = append(class.Subs, s)
			}

		default:
			p.errorAt(p.cur.Pos, "unexpected token %q in class body", p.cur.Lexeme)
			p.synchronize()
		}
	}

	if err := p.expectSymbol("}"); err != nil {
		return class
	}

	if !hasConstructor(class) {
		p.errorAt(class.Pos, "class %q must declare at least one constructor", class.Name)
	}

	return class
}

func hasConstructor(class *ast.Class) bool {
	for _, s := range class.Subs {
		if s.Kind == ast.Constructor {
			return true
		}
	}
	return false
}

func (p *Parser) parseClassVarDec() *ast.ClassVarDec {
	pos := p.cur.Pos
	kind := ast.Static
	if p.cur.Lexeme == "field" {
		kind = ast.Field
	}
	p.advance()

	typ, err := p.parseType()
	if err != nil {
		return nil
	}

	names, err := p.parseNameList()
	if err != nil {
		return nil
	}

	if err := p.expectSymbol(";"); err != nil {
		return nil
	}

	return &ast.ClassVarDec{Pos: pos, Kind: kind, Type: typ, Names: names}
}

func (p *Parser) parseNameList() ([]string, error) {
	first, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	names := []string{first.Lexeme}

	for p.cur.Is(token.Symbol, ",") {
		p.advance()
		next, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		names = append(names, next.Lexeme)
	}

	return names, nil
}

// parseType parses the `type` production (int|char|boolean|ident<...>);
// 'void' is handled separately by parseReturnType since it is only valid
// as a subroutine return type, never as a variable/parameter type.
func (p *Parser) parseType() (*types.Type, error) {
	switch {
	case p.cur.Is(token.Keyword, "int"):
		p.advance()
		return p.types.GetOrCreate(types.Int), nil
	case p.cur.Is(token.Keyword, "char"):
		p.advance()
		return p.types.GetOrCreate(types.Char), nil
	case p.cur.Is(token.Keyword, "boolean"):
		p.advance()
		return p.types.GetOrCreate(types.Boolean), nil
	case p.cur.Kind == token.Identifier:
		name := p.cur.Lexeme
		p.advance()
		if p.cur.Is(token.Symbol, "<") {
			generics, err := p.parseGenericArgs()
			if err != nil {
				return nil, err
			}
			return p.types.GetOrCreate(name, generics...), nil
		}
		return p.types.GetOrCreate(name), nil
	default:
		err := p.errorAt(p.cur.Pos, "expected a type, got %q", p.cur.Lexeme)
		p.synchronize()
		return nil, err
	}
}

func (p *Parser) parseGenericArgs() ([]*types.Type, error) {
	if err := p.expectSymbol("<"); err != nil {
		return nil, err
	}

	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	generics := []*types.Type{first}

	for p.cur.Is(token.Symbol, ",") {
		p.advance()
		next, err := p.parseType()
		if err != nil {
			return nil, err
		}
		generics = append(generics, next)
	}

	if err := p.expectSymbol(">"); err != nil {
		return nil, err
	}
	return generics, nil
}

func (p *Parser) parseReturnType() (*types.Type, error) {
	if p.cur.Is(token.Keyword, "void") {
		p.advance()
		return p.types.GetOrCreate(types.Void), nil
	}
	return p.parseType()
}

// ----------------------------------------------------------------------------
// Subroutine-level grammar

func (p *Parser) parseSubroutineDec() *ast.SubroutineDec {
	pos := p.cur.Pos
	kind := ast.SubroutineKind(p.cur.Lexeme)
	p.advance()

	retType, err := p.parseReturnType()
	if err != nil {
		return nil
	}

	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil
	}

	if err := p.expectSymbol("("); err != nil {
		return nil
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil
	}

	paramTypes := make([]*types.Type, len(params))
	for i, param := range params {
		paramTypes[i] = param.Type
	}
	sig := &registry.Signature{ReturnType: retType, Params: paramTypes, Kind: registry.SubroutineKind(kind), Pos: pos}
	if !p.reg.RegisterMethod(p.currentClass, nameTok.Lexeme, sig) {
		p.errorAt(pos, "subroutine %q is already declared in class %q", nameTok.Lexeme, p.currentClass)
	}

	if err := p.expectSymbol("{"); err != nil {
		return nil
	}

	var locals []*ast.VarDec
	for p.cur.Is(token.Keyword, "var") {
		if v := p.parseVarDec(); v != nil {
			locals = append(locals, v)
		}
	}

	var body []ast.Stmt
	for !p.cur.Is(token.Symbol, "}") && p.cur.Kind != token.Eof {
		if stmt := p.parseStatement(); stmt != nil {
			body = append(body, stmt)
		}
	}

	if err := p.expectSymbol("}"); err != nil {
		return nil
	}

	return &ast.SubroutineDec{
		Pos: pos, Kind: kind, ReturnType: retType, Name: nameTok.Lexeme,
		Params: params, Locals: locals, Body: body,
	}
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	if p.cur.Is(token.Symbol, ")") {
		return nil, nil
	}

	var params []ast.Param
	t, n, err := p.parseOneParam()
	if err != nil {
		return nil, err
	}
	params = append(params, ast.Param{Type: t, Name: n})

	for p.cur.Is(token.Symbol, ",") {
		p.advance()
		t, n, err := p.parseOneParam()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Type: t, Name: n})
	}

	return params, nil
}

func (p *Parser) parseOneParam() (*types.Type, string, error) {
	typ, err := p.parseType()
	if err != nil {
		return nil, "", err
	}
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, "", err
	}
	return typ, nameTok.Lexeme, nil
}

func (p *Parser) parseVarDec() *ast.VarDec {
	pos := p.cur.Pos
	p.advance() // 'var'

	typ, err := p.parseType()
	if err != nil {
		return nil
	}
	names, err := p.parseNameList()
	if err != nil {
		return nil
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil
	}

	return &ast.VarDec{Pos: pos, Type: typ, Names: names}
}

// ----------------------------------------------------------------------------
// Statement-level grammar

func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.cur.Is(token.Keyword, "let"):
		return p.parseLetStmt()
	case p.cur.Is(token.Keyword, "if"):
		return p.parseIfStmt()
	case p.cur.Is(token.Keyword, "while"):
		return p.parseWhileStmt()
	case p.cur.Is(token.Keyword, "do"):
		return p.parseDoStmt()
	case p.cur.Is(token.Keyword, "return"):
		return p.parseReturnStmt()
	default:
		p.errorAt(p.cur.Pos, "invalid statement start %q", p.cur.Lexeme)
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'let'

	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil
	}

	var index ast.Expr
	if p.cur.Is(token.Symbol, "[") {
		p.advance()
		index, err = p.parseExpression(Lowest)
		if err != nil {
			return nil
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil
		}
	}

	if err := p.expectSymbol("="); err != nil {
		return nil
	}

	value, err := p.parseExpression(Lowest)
	if err != nil {
		return nil
	}

	if err := p.expectSymbol(";"); err != nil {
		return nil
	}

	return &ast.LetStmt{Pos: pos, VarName: nameTok.Lexeme, Index: index, Value: value}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'if'

	if err := p.expectSymbol("("); err != nil {
		return nil
	}
	cond, err := p.parseExpression(Lowest)
	if err != nil {
		return nil
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil
	}

	var elseBlock []ast.Stmt
	if p.cur.Is(token.Keyword, "else") {
		p.advance()
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil
		}
	}

	return &ast.IfStmt{Pos: pos, Cond: cond, Then: then, Else: elseBlock}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'while'

	if err := p.expectSymbol("("); err != nil {
		return nil
	}
	cond, err := p.parseExpression(Lowest)
	if err != nil {
		return nil
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil
	}

	return &ast.WhileStmt{Pos: pos, Cond: cond, Body: body}
}

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}

	var stmts []ast.Stmt
	for !p.cur.Is(token.Symbol, "}") && p.cur.Kind != token.Eof {
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
	}

	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseDoStmt parses `do <expr>;`, requiring the expression be a Call
// (spec §4.2's do-statement validation).
func (p *Parser) parseDoStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'do'

	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil
	}

	call, ok := expr.(*ast.CallExpr)
	if !ok {
		p.errorAt(pos, "the 'do' keyword must be followed by a subroutine call")
		p.synchronize()
		return nil
	}

	if err := p.expectSymbol(";"); err != nil {
		return nil
	}

	return &ast.DoStmt{Pos: pos, Call: call}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'return'

	if p.cur.Is(token.Symbol, ";") {
		p.advance()
		return &ast.ReturnStmt{Pos: pos}
	}

	value, err := p.parseExpression(Lowest)
	if err != nil {
		return nil
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil
	}

	return &ast.ReturnStmt{Pos: pos, Value: value}
}
