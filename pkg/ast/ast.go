// Package ast defines the immutable tree the parser builds and every
// later phase reads (spec §3). Nodes are plain structs grouped behind
// small marker interfaces (Stmt, Expr) in the teacher's dispatch-by-type-
// switch style (pkg/jack/jack.go's Statement/Expression interfaces),
// generalized to carry source Position and (for expressions) a
// single-writer ResolvedType slot.
package ast

import (
	"github.com/jackc-project/jackc/pkg/token"
	"github.com/jackc-project/jackc/pkg/types"
	"github.com/jackc-project/jackc/pkg/utils"
)

// Program is the set of classes compiled together, keyed by class name.
// An OrderedMap (not a bare Go map) so that iteration order -- and hence
// every downstream pass that ranges over "all classes" -- is
// reproducible across runs, regardless of Go map iteration or goroutine
// scheduling order: iteration follows insertion order, which the driver
// fixes to file-discovery order (see utils.OrderedMap's doc comment).
type Program = utils.OrderedMap[string, *Class]

func NewProgram() *Program { return utils.NewOrderedMap[string, *Class]() }

// ----------------------------------------------------------------------------
// Top-level / class-level declarations

type Class struct {
	Pos  token.Position
	Name string
	Vars []*ClassVarDec
	Subs []*SubroutineDec
}

type ClassVarKind string

const (
	Static ClassVarKind = "static"
	Field  ClassVarKind = "field"
)

type ClassVarDec struct {
	Pos   token.Position
	Kind  ClassVarKind
	Type  *types.Type
	Names []string
}

type SubroutineKind string

const (
	Constructor SubroutineKind = "constructor"
	Function    SubroutineKind = "function"
	Method      SubroutineKind = "method"
)

type Param struct {
	Type *types.Type
	Name string
}

type SubroutineDec struct {
	Pos        token.Position
	Kind       SubroutineKind
	ReturnType *types.Type
	Name       string
	Params     []Param
	Locals     []*VarDec
	Body       []Stmt
}

type VarDec struct {
	Pos   token.Position
	Type  *types.Type
	Names []string
}

// ----------------------------------------------------------------------------
// Statements

// Stmt is the marker interface every statement node implements; callers
// dispatch on dynamic type with a type switch (teacher's own idiom, see
// pkg/jack/lowering.go's HandleStatement).
type Stmt interface{ stmtNode() }

type LetStmt struct {
	Pos     token.Position
	VarName string
	Index   Expr // nil unless this is an array-element assignment
	Value   Expr
}

type IfStmt struct {
	Pos  token.Position
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if there is no else-block
}

type WhileStmt struct {
	Pos  token.Position
	Cond Expr
	Body []Stmt
}

type DoStmt struct {
	Pos  token.Position
	Call *CallExpr
}

type ReturnStmt struct {
	Pos   token.Position
	Value Expr // nil for a bare `return;`
}

func (*LetStmt) stmtNode()    {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*DoStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode() {}

// ----------------------------------------------------------------------------
// Expressions

// Expr is the marker interface every expression node implements. Position
// returns the node's source location and ResolvedType exposes the
// single-writer slot the analyzer fills in (spec §3: "Every
// ExpressionNode.resolvedType is set by the time code generation reads
// it").
type Expr interface {
	exprNode()
	Position() token.Position
	ResolvedType() *types.Type
	SetResolvedType(*types.Type)
}

// base embeds the shared Position/ResolvedType plumbing so each concrete
// expression only declares its own payload fields.
type base struct {
	Pos token.Position
	typ *types.Type
}

func (b *base) Position() token.Position      { return b.Pos }
func (b *base) ResolvedType() *types.Type     { return b.typ }
func (b *base) SetResolvedType(t *types.Type) { b.typ = t }

type IntLit struct {
	base
	Value int
}

type StringLit struct {
	base
	Value string
}

// KeywordLitKind enumerates the four keyword-literal expressions.
type KeywordLitKind string

const (
	KwTrue  KeywordLitKind = "true"
	KwFalse KeywordLitKind = "false"
	KwNull  KeywordLitKind = "null"
	KwThis  KeywordLitKind = "this"
)

type KeywordLit struct {
	base
	Kind KeywordLitKind
}

// BinOpKind enumerates the nine binary operators Jack supports.
type BinOpKind string

const (
	OpAdd BinOpKind = "+"
	OpSub BinOpKind = "-"
	OpMul BinOpKind = "*"
	OpDiv BinOpKind = "/"
	OpAnd BinOpKind = "&"
	OpOr  BinOpKind = "|"
	OpLt  BinOpKind = "<"
	OpGt  BinOpKind = ">"
	OpEq  BinOpKind = "="
)

type BinOp struct {
	base
	Op    BinOpKind
	Left  Expr
	Right Expr
}

type UnaryOpKind string

const (
	OpNeg     UnaryOpKind = "-"
	OpBoolNot UnaryOpKind = "~"
)

type UnaryOp struct {
	base
	Op      UnaryOpKind
	Operand Expr
}

// Identifier is a bare name reference (variable read). It carries generic
// type arguments only for the Array<T> display form (spec §3), which the
// parser's identifier nud absorbs when `Array` is followed by '<'; every
// other identifier leaves Generics empty.
type Identifier struct {
	base
	Name     string
	Generics []*types.Type
}

type ArrayAccess struct {
	base
	Array Expr
	Index Expr
}

// CallExpr is a subroutine call. Receiver is nil for an unqualified call
// (`doSomething()` or `m()`); otherwise it is the receiver expression
// (typically an Identifier naming a variable or a class).
type CallExpr struct {
	base
	Receiver Expr
	Name     string
	Args     []Expr
}

func (*IntLit) exprNode()      {}
func (*StringLit) exprNode()   {}
func (*KeywordLit) exprNode()  {}
func (*BinOp) exprNode()       {}
func (*UnaryOp) exprNode()     {}
func (*Identifier) exprNode()  {}
func (*ArrayAccess) exprNode() {}
func (*CallExpr) exprNode()    {}

// NewIntLit and friends are small constructors the parser uses so every
// call site doesn't need to spell out the embedded base{} literal.
func NewIntLit(pos token.Position, v int) *IntLit { return &IntLit{base: base{Pos: pos}, Value: v} }

func NewStringLit(pos token.Position, v string) *StringLit {
	return &StringLit{base: base{Pos: pos}, Value: v}
}

func NewKeywordLit(pos token.Position, k KeywordLitKind) *KeywordLit {
	return &KeywordLit{base: base{Pos: pos}, Kind: k}
}

func NewBinOp(pos token.Position, op BinOpKind, l, r Expr) *BinOp {
	return &BinOp{base: base{Pos: pos}, Op: op, Left: l, Right: r}
}

func NewUnaryOp(pos token.Position, op UnaryOpKind, operand Expr) *UnaryOp {
	return &UnaryOp{base: base{Pos: pos}, Op: op, Operand: operand}
}

func NewIdentifier(pos token.Position, name string, generics ...*types.Type) *Identifier {
	return &Identifier{base: base{Pos: pos}, Name: name, Generics: generics}
}

func NewArrayAccess(pos token.Position, arr, index Expr) *ArrayAccess {
	return &ArrayAccess{base: base{Pos: pos}, Array: arr, Index: index}
}

func NewCallExpr(pos token.Position, receiver Expr, name string, args []Expr) *CallExpr {
	return &CallExpr{base: base{Pos: pos}, Receiver: receiver, Name: name, Args: args}
}
