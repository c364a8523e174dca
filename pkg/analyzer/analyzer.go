// Package analyzer implements the Semantic Analyzer from spec §4.5: given
// a read-only GlobalRegistry and one parsed Class, it populates a
// SymbolTable and fills every Expr's resolvedType, reporting the first
// semantic error it finds.
//
// Grounded on the teacher's TypeChecker (pkg/jack/typechecking.go): same
// Check/HandleClass/HandleSubroutine/HandleStatement shape and the same
// fmt.Errorf("...: %w", err) wrapping idiom. The teacher's HandleStatement
// and the tail of HandleSubroutine are stubs ("not implemented yet"); this
// package is the implementation the spec actually requires, built from
// scratch over pkg/symboltable instead of the teacher's shadowing-
// permissive ScopeTable.
package analyzer

import (
	"fmt"

	"github.com/jackc-project/jackc/pkg/ast"
	"github.com/jackc-project/jackc/pkg/diag"
	"github.com/jackc-project/jackc/pkg/registry"
	"github.com/jackc-project/jackc/pkg/symboltable"
	"github.com/jackc-project/jackc/pkg/token"
	"github.com/jackc-project/jackc/pkg/types"
)

// Analyzer is stateless across classes; all per-class state lives in the
// subContext built by AnalyzeClass, matching the spec's "Input: the
// global registry and one ClassNode" contract.
type Analyzer struct {
	reg  *registry.Registry
	treg *types.Registry
}

func New(reg *registry.Registry, treg *types.Registry) *Analyzer {
	return &Analyzer{reg: reg, treg: treg}
}

// AnalyzeClass performs the class-level walk of spec §4.5 and returns the
// populated SymbolTable for use by code generation.
func (a *Analyzer) AnalyzeClass(class *ast.Class) (*symboltable.SymbolTable, error) {
	st := symboltable.New(class.Name)

	for _, vd := range class.Vars {
		kind := symboltable.Field
		if vd.Kind == ast.Static {
			kind = symboltable.Static
		}
		for _, name := range vd.Names {
			if err := st.DefineClassVar(name, kind, vd.Type, vd.Pos); err != nil {
				return nil, err
			}
		}
	}

	for _, sub := range class.Subs {
		if err := a.analyzeSubroutine(class, sub, st); err != nil {
			return nil, fmt.Errorf("class %s, subroutine %s: %w", class.Name, sub.Name, err)
		}
		st.Snapshot()
	}

	return st, nil
}

// subContext carries everything one subroutine's statement/expression
// walk needs; it is rebuilt by analyzeSubroutine for every subroutine.
type subContext struct {
	a         *Analyzer
	class     *ast.Class
	sub       *ast.SubroutineDec
	st        *symboltable.SymbolTable
	classType *types.Type
	hasReturn bool
}

// errorf builds a located diag.SemanticError, matching the Kind every
// other phase already carries through its own diag.New call (spec §7).
func (ctx *subContext) errorf(pos token.Position, format string, args ...any) error {
	return diag.New(diag.SemanticError, pos, format, args...)
}

func (a *Analyzer) analyzeSubroutine(class *ast.Class, sub *ast.SubroutineDec, st *symboltable.SymbolTable) error {
	st.StartSubroutine(sub.Name)
	classType := a.treg.GetOrCreate(class.Name)

	if sub.Kind == ast.Method {
		if err := st.DefineThis(classType, sub.Pos); err != nil {
			return err
		}
	}

	for _, param := range sub.Params {
		if err := st.DefineArg(param.Name, param.Type, sub.Pos); err != nil {
			return err
		}
	}
	for _, local := range sub.Locals {
		for _, name := range local.Names {
			if err := st.DefineLocal(name, local.Type, local.Pos); err != nil {
				return err
			}
		}
	}

	ctx := &subContext{a: a, class: class, sub: sub, st: st, classType: classType}

	for _, stmt := range sub.Body {
		if err := ctx.analyzeStmt(stmt); err != nil {
			return err
		}
	}

	if sub.ReturnType.Base != types.Void && !ctx.hasReturn {
		return ctx.errorf(sub.Pos, "missing return of type %s", sub.ReturnType)
	}

	return nil
}

// ----------------------------------------------------------------------------
// Statement semantics (spec §4.5)

func (ctx *subContext) analyzeStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return ctx.analyzeLet(s)
	case *ast.IfStmt:
		return ctx.analyzeIf(s)
	case *ast.WhileStmt:
		return ctx.analyzeWhile(s)
	case *ast.DoStmt:
		_, err := ctx.analyzeExpr(s.Call)
		return err
	case *ast.ReturnStmt:
		return ctx.analyzeReturn(s)
	default:
		return ctx.errorf(ctx.sub.Pos, "unhandled statement type %T", stmt)
	}
}

func (ctx *subContext) analyzeLet(s *ast.LetStmt) error {
	sym, ok := ctx.st.Resolve(s.VarName)
	if !ok {
		return ctx.errorf(s.Pos, "undeclared variable %q", s.VarName)
	}

	if s.Index != nil {
		if sym.Type.Base != "Array" {
			return ctx.errorf(s.Pos, "%q is not an Array, cannot be indexed", s.VarName)
		}
		idxType, err := ctx.analyzeExpr(s.Index)
		if err != nil {
			return err
		}
		if idxType.Base != types.Int {
			return ctx.errorf(s.Pos, "array index must be int, got %s", idxType)
		}
		valType, err := ctx.analyzeExpr(s.Value)
		if err != nil {
			return err
		}
		if valType.Base != types.Int {
			return ctx.errorf(s.Pos, "array element assignment must be int, got %s", valType)
		}
		return nil
	}

	valType, err := ctx.analyzeExpr(s.Value)
	if err != nil {
		return err
	}
	if !types.Equal(valType, sym.Type) {
		return ctx.errorf(s.Pos, "cannot assign %s to %q of type %s", valType, s.VarName, sym.Type)
	}
	return nil
}

func (ctx *subContext) analyzeIf(s *ast.IfStmt) error {
	if err := ctx.requireBoolean(s.Cond, s.Pos); err != nil {
		return err
	}
	for _, stmt := range s.Then {
		if err := ctx.analyzeStmt(stmt); err != nil {
			return err
		}
	}
	for _, stmt := range s.Else {
		if err := ctx.analyzeStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *subContext) analyzeWhile(s *ast.WhileStmt) error {
	if err := ctx.requireBoolean(s.Cond, s.Pos); err != nil {
		return err
	}
	for _, stmt := range s.Body {
		if err := ctx.analyzeStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *subContext) requireBoolean(expr ast.Expr, pos token.Position) error {
	typ, err := ctx.analyzeExpr(expr)
	if err != nil {
		return err
	}
	if typ.Base != types.Boolean {
		return ctx.errorf(pos, "condition must be boolean, got %s", typ)
	}
	return nil
}

func (ctx *subContext) analyzeReturn(s *ast.ReturnStmt) error {
	ctx.hasReturn = true

	if s.Value == nil {
		if ctx.sub.ReturnType.Base != types.Void {
			return ctx.errorf(s.Pos, "%q must return a value of type %s", ctx.sub.Name, ctx.sub.ReturnType)
		}
		return nil
	}

	if ctx.sub.ReturnType.Base == types.Void {
		return ctx.errorf(s.Pos, "void subroutine %q cannot return a value", ctx.sub.Name)
	}

	valType, err := ctx.analyzeExpr(s.Value)
	if err != nil {
		return err
	}

	if ctx.sub.Kind == ast.Constructor {
		kw, ok := s.Value.(*ast.KeywordLit)
		if !ok || kw.Kind != ast.KwThis {
			return ctx.errorf(s.Pos, "constructor %q must return this", ctx.sub.Name)
		}
	}

	if !types.Equal(valType, ctx.sub.ReturnType) {
		return ctx.errorf(s.Pos, "return type mismatch, declared %s, got %s", ctx.sub.ReturnType, valType)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Expression type resolution (spec §4.5)

func (ctx *subContext) analyzeExpr(expr ast.Expr) (*types.Type, error) {
	typ, err := ctx.resolve(expr)
	if err != nil {
		return nil, err
	}
	expr.SetResolvedType(typ)
	return typ, nil
}

func (ctx *subContext) resolve(expr ast.Expr) (*types.Type, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return ctx.a.treg.GetOrCreate(types.Int), nil

	case *ast.StringLit:
		return ctx.a.treg.GetOrCreate("String"), nil

	case *ast.KeywordLit:
		switch e.Kind {
		case ast.KwTrue, ast.KwFalse:
			return ctx.a.treg.GetOrCreate(types.Boolean), nil
		case ast.KwNull:
			return ctx.a.treg.GetOrCreate(types.Null), nil
		case ast.KwThis:
			if ctx.sub.Kind == ast.Function {
				return nil, ctx.errorf(e.Position(), "'this' is forbidden inside function %q", ctx.sub.Name)
			}
			return ctx.classType, nil
		default:
			return nil, ctx.errorf(e.Position(), "unhandled keyword literal %q", e.Kind)
		}

	case *ast.Identifier:
		sym, ok := ctx.st.Resolve(e.Name)
		if !ok {
			return nil, ctx.errorf(e.Position(), "unknown identifier %q", e.Name)
		}
		return sym.Type, nil

	case *ast.BinOp:
		return ctx.resolveBinOp(e)

	case *ast.UnaryOp:
		return ctx.resolveUnaryOp(e)

	case *ast.ArrayAccess:
		return ctx.resolveArrayAccess(e)

	case *ast.CallExpr:
		return ctx.resolveCall(e)

	default:
		return nil, ctx.errorf(expr.Position(), "unhandled expression type %T", expr)
	}
}

func (ctx *subContext) resolveBinOp(e *ast.BinOp) (*types.Type, error) {
	left, err := ctx.analyzeExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := ctx.analyzeExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpAnd, ast.OpOr:
		if left.Base != types.Int || right.Base != types.Int {
			return nil, ctx.errorf(e.Position(), "operator %q requires int operands, got %s and %s", e.Op, left, right)
		}
		return ctx.a.treg.GetOrCreate(types.Int), nil

	case ast.OpLt, ast.OpGt:
		if left.Base != types.Int || right.Base != types.Int {
			return nil, ctx.errorf(e.Position(), "operator %q requires int operands, got %s and %s", e.Op, left, right)
		}
		return ctx.a.treg.GetOrCreate(types.Boolean), nil

	case ast.OpEq:
		if !types.Equal(left, right) {
			return nil, ctx.errorf(e.Position(), "'=' requires operands of the same type, got %s and %s", left, right)
		}
		return ctx.a.treg.GetOrCreate(types.Boolean), nil

	default:
		return nil, ctx.errorf(e.Position(), "unhandled binary operator %q", e.Op)
	}
}

func (ctx *subContext) resolveUnaryOp(e *ast.UnaryOp) (*types.Type, error) {
	operand, err := ctx.analyzeExpr(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpNeg:
		if operand.Base != types.Int {
			return nil, ctx.errorf(e.Position(), "unary '-' requires an int operand, got %s", operand)
		}
		return ctx.a.treg.GetOrCreate(types.Int), nil

	case ast.OpBoolNot:
		switch operand.Base {
		case types.Int:
			return ctx.a.treg.GetOrCreate(types.Int), nil
		case types.Boolean:
			return ctx.a.treg.GetOrCreate(types.Boolean), nil
		default:
			return nil, ctx.errorf(e.Position(), "unary '~' requires an int or boolean operand, got %s", operand)
		}

	default:
		return nil, ctx.errorf(e.Position(), "unhandled unary operator %q", e.Op)
	}
}

func (ctx *subContext) resolveArrayAccess(e *ast.ArrayAccess) (*types.Type, error) {
	base, err := ctx.analyzeExpr(e.Array)
	if err != nil {
		return nil, err
	}
	if base.Base != "Array" {
		return nil, ctx.errorf(e.Position(), "cannot index non-Array type %s", base)
	}
	index, err := ctx.analyzeExpr(e.Index)
	if err != nil {
		return nil, err
	}
	if index.Base != types.Int {
		return nil, ctx.errorf(e.Position(), "array index must be int, got %s", index)
	}
	return ctx.a.treg.GetOrCreate(types.Int), nil
}

// resolveCall implements the spec §4.5 "Call resolution" rules.
func (ctx *subContext) resolveCall(e *ast.CallExpr) (*types.Type, error) {
	var class string
	var wantMethod bool

	switch {
	case e.Receiver == nil:
		class = ctx.class.Name
		if ctx.a.reg.MethodExists(class, e.Name) {
			sig, err := ctx.a.reg.GetSignature(class, e.Name)
			if err != nil {
				return nil, err
			}
			if sig.Kind == registry.Method && ctx.sub.Kind == ast.Function {
				return nil, ctx.errorf(e.Position(), "cannot call method %q from function %q", e.Name, ctx.sub.Name)
			}
			wantMethod = sig.Kind == registry.Method
		} else {
			return nil, ctx.errorf(e.Position(), "unknown subroutine %q on class %q", e.Name, class)
		}

	default:
		if id, ok := e.Receiver.(*ast.Identifier); ok {
			if sym, found := ctx.st.Resolve(id.Name); found {
				class, wantMethod = sym.Type.Base, true
			} else {
				class, wantMethod = id.Name, false
			}
		} else {
			recvType, err := ctx.analyzeExpr(e.Receiver)
			if err != nil {
				return nil, err
			}
			class, wantMethod = recvType.Base, true
		}
	}

	if !ctx.a.reg.ClassExists(class) {
		return nil, ctx.errorf(e.Position(), "unknown class %q", class)
	}
	if !ctx.a.reg.MethodExists(class, e.Name) {
		return nil, ctx.errorf(e.Position(), "unknown method %q on class %q", e.Name, class)
	}

	sig, err := ctx.a.reg.GetSignature(class, e.Name)
	if err != nil {
		return nil, err
	}

	isMethod := sig.Kind == registry.Method
	if wantMethod && !isMethod {
		return nil, ctx.errorf(e.Position(), "%q is not an instance method of %q", e.Name, class)
	}
	if !wantMethod && isMethod {
		return nil, ctx.errorf(e.Position(), "%q is not a function or constructor of class %q", e.Name, class)
	}

	if len(e.Args) != len(sig.Params) {
		return nil, ctx.errorf(e.Position(), "%s.%s expects %d argument(s), got %d", class, e.Name, len(sig.Params), len(e.Args))
	}

	for i, arg := range e.Args {
		argType, err := ctx.analyzeExpr(arg)
		if err != nil {
			return nil, err
		}
		if !types.Equal(argType, sig.Params[i]) {
			return nil, ctx.errorf(e.Position(), "argument %d to %s.%s: expected %s, got %s", i+1, class, e.Name, sig.Params[i], argType)
		}
	}

	return sig.ReturnType, nil
}
