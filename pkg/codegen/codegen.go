// Package codegen implements the Code Generator from spec §4.6: it walks
// one analyzed Class and writes its Hack VM textual translation to an
// io.Writer, one function per subroutine.
//
// Adapted from the teacher's two-stage pipeline (pkg/jack/lowering.go's
// Handle* DFS over the AST, pkg/vm/codegen.go's Generate*Op textual
// formatting): here the two stages are fused into one direct-to-text
// walk, since the spec describes a single "Code Generator" producing VM
// text directly rather than an intermediate vm.Operation tree. The
// per-construct naming (genStmt/genExpr dispatch by AST node type) and
// the exact instruction text (push/pop/call/function/label/goto/if-goto)
// follow the teacher's formats one for one.
package codegen

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jackc-project/jackc/pkg/ast"
	"github.com/jackc-project/jackc/pkg/registry"
	"github.com/jackc-project/jackc/pkg/symboltable"
)

// Generator is stateless across classes; reg supplies the call-resolution
// information (which class a method belongs to, whether a subroutine is
// a Method) that the analyzer already validated.
type Generator struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Generator {
	return &Generator{reg: reg}
}

// GenerateClass writes one class's subroutines as VM text to w, restoring
// each subroutine's scope from st's history (populated by the analyzer)
// rather than re-running semantic analysis.
func (g *Generator) GenerateClass(w io.Writer, class *ast.Class, st *symboltable.SymbolTable) error {
	bw := bufio.NewWriter(w)
	for _, sub := range class.Subs {
		if err := g.genSubroutine(bw, class, sub, st); err != nil {
			return fmt.Errorf("class %s, subroutine %s: %w", class.Name, sub.Name, err)
		}
	}
	return bw.Flush()
}

// genContext carries the per-subroutine state a statement/expression walk
// needs: the output writer, the restored symbol scope, and this
// subroutine's monotonically increasing label counter (spec §4.6).
type genContext struct {
	g       *Generator
	class   *ast.Class
	sub     *ast.SubroutineDec
	st      *symboltable.SymbolTable
	w       *bufio.Writer
	nextID  int
	lastErr error
}

func (ctx *genContext) emit(format string, args ...any) {
	if ctx.lastErr != nil {
		return
	}
	_, err := fmt.Fprintf(ctx.w, format+"\n", args...)
	if err != nil {
		ctx.lastErr = err
	}
}

func (ctx *genContext) label() int {
	id := ctx.nextID
	ctx.nextID++
	return id
}

func (g *Generator) genSubroutine(w *bufio.Writer, class *ast.Class, sub *ast.SubroutineDec, st *symboltable.SymbolTable) error {
	if _, ok := st.Reenter(sub.Name); !ok {
		return fmt.Errorf("no recorded scope for subroutine %q (analyzer must run before codegen)", sub.Name)
	}

	ctx := &genContext{g: g, class: class, sub: sub, st: st, w: w}

	ctx.emit("function %s.%s %d", class.Name, sub.Name, st.LocalCount())

	switch sub.Kind {
	case ast.Constructor:
		ctx.emit("push constant %d", st.FieldCount())
		ctx.emit("call Memory.alloc 1")
		ctx.emit("pop pointer 0")
	case ast.Method:
		ctx.emit("push argument 0")
		ctx.emit("pop pointer 0")
	}

	for _, stmt := range sub.Body {
		ctx.genStmt(stmt)
	}

	return ctx.lastErr
}

// ----------------------------------------------------------------------------
// Statement lowering (spec §4.6)

func (ctx *genContext) genStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		ctx.genLet(s)
	case *ast.IfStmt:
		ctx.genIf(s)
	case *ast.WhileStmt:
		ctx.genWhile(s)
	case *ast.DoStmt:
		ctx.genExpr(s.Call)
		ctx.emit("pop temp 0")
	case *ast.ReturnStmt:
		ctx.genReturn(s)
	default:
		ctx.lastErr = fmt.Errorf("unhandled statement type %T", stmt)
	}
}

func (ctx *genContext) genLet(s *ast.LetStmt) {
	sym, ok := ctx.st.Resolve(s.VarName)
	if !ok {
		ctx.lastErr = fmt.Errorf("%s: undeclared variable %q", s.Pos, s.VarName)
		return
	}

	if s.Index == nil {
		ctx.genExpr(s.Value)
		ctx.emit("pop %s %d", segmentFor(sym.Kind), sym.Index)
		return
	}

	// Let x[i] = v: compute the target address, leave it on the stack
	// under the value, then route the write through `that` (spec §4.6).
	ctx.emit("push %s %d", segmentFor(sym.Kind), sym.Index)
	ctx.genExpr(s.Index)
	ctx.emit("add")
	ctx.genExpr(s.Value)
	ctx.emit("pop temp 0")
	ctx.emit("pop pointer 1")
	ctx.emit("push temp 0")
	ctx.emit("pop that 0")
}

func (ctx *genContext) genIf(s *ast.IfStmt) {
	id := ctx.label()

	ctx.genExpr(s.Cond)
	ctx.emit("not")
	ctx.emit("if-goto ELSE_%d", id)
	for _, stmt := range s.Then {
		ctx.genStmt(stmt)
	}
	ctx.emit("goto END_%d", id)
	ctx.emit("label ELSE_%d", id)
	for _, stmt := range s.Else {
		ctx.genStmt(stmt)
	}
	ctx.emit("label END_%d", id)
}

func (ctx *genContext) genWhile(s *ast.WhileStmt) {
	id := ctx.label()

	ctx.emit("label WHILE_%d", id)
	ctx.genExpr(s.Cond)
	ctx.emit("not")
	ctx.emit("if-goto END_%d", id)
	for _, stmt := range s.Body {
		ctx.genStmt(stmt)
	}
	ctx.emit("goto WHILE_%d", id)
	ctx.emit("label END_%d", id)
}

func (ctx *genContext) genReturn(s *ast.ReturnStmt) {
	if s.Value == nil {
		ctx.emit("push constant 0")
	} else {
		ctx.genExpr(s.Value)
	}
	ctx.emit("return")
}

func segmentFor(kind symboltable.Kind) string {
	switch kind {
	case symboltable.Static:
		return "static"
	case symboltable.Field:
		return "this"
	case symboltable.Arg:
		return "argument"
	case symboltable.Local:
		return "local"
	default:
		return "unknown"
	}
}

// ----------------------------------------------------------------------------
// Expression lowering (spec §4.6): post-order traversal producing a
// stack machine.

func (ctx *genContext) genExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.IntLit:
		ctx.emit("push constant %d", e.Value)

	case *ast.StringLit:
		ctx.emit("push constant %d", len(e.Value))
		ctx.emit("call String.new 1")
		for _, c := range e.Value {
			ctx.emit("push constant %d", c)
			ctx.emit("call String.appendChar 2")
		}

	case *ast.KeywordLit:
		switch e.Kind {
		case ast.KwTrue:
			ctx.emit("push constant 0")
			ctx.emit("not")
		case ast.KwFalse, ast.KwNull:
			ctx.emit("push constant 0")
		case ast.KwThis:
			ctx.emit("push pointer 0")
		default:
			ctx.lastErr = fmt.Errorf("%s: unhandled keyword literal %q", e.Position(), e.Kind)
		}

	case *ast.BinOp:
		ctx.genExpr(e.Left)
		ctx.genExpr(e.Right)
		ctx.emitBinOp(e.Op)

	case *ast.UnaryOp:
		ctx.genExpr(e.Operand)
		switch e.Op {
		case ast.OpNeg:
			ctx.emit("neg")
		case ast.OpBoolNot:
			ctx.emit("not")
		default:
			ctx.lastErr = fmt.Errorf("%s: unhandled unary operator %q", e.Position(), e.Op)
		}

	case *ast.Identifier:
		sym, ok := ctx.st.Resolve(e.Name)
		if !ok {
			ctx.lastErr = fmt.Errorf("%s: undeclared identifier %q", e.Position(), e.Name)
			return
		}
		ctx.emit("push %s %d", segmentFor(sym.Kind), sym.Index)

	case *ast.ArrayAccess:
		ctx.genExpr(e.Array)
		ctx.genExpr(e.Index)
		ctx.emit("add")
		ctx.emit("pop pointer 1")
		ctx.emit("push that 0")

	case *ast.CallExpr:
		ctx.genCall(e)

	default:
		ctx.lastErr = fmt.Errorf("%s: unhandled expression type %T", expr.Position(), expr)
	}
}

func (ctx *genContext) emitBinOp(op ast.BinOpKind) {
	switch op {
	case ast.OpAdd:
		ctx.emit("add")
	case ast.OpSub:
		ctx.emit("sub")
	case ast.OpAnd:
		ctx.emit("and")
	case ast.OpOr:
		ctx.emit("or")
	case ast.OpLt:
		ctx.emit("lt")
	case ast.OpGt:
		ctx.emit("gt")
	case ast.OpEq:
		ctx.emit("eq")
	case ast.OpMul:
		ctx.emit("call Math.multiply 2")
	case ast.OpDiv:
		ctx.emit("call Math.divide 2")
	default:
		ctx.lastErr = fmt.Errorf("unhandled binary operator %q", op)
	}
}

// genCall implements the three call-lowering shapes of spec §4.6.
func (ctx *genContext) genCall(e *ast.CallExpr) {
	if e.Receiver == nil {
		ctx.genUnqualifiedCall(e)
		return
	}

	if id, ok := e.Receiver.(*ast.Identifier); ok {
		if sym, found := ctx.st.Resolve(id.Name); found {
			ctx.emit("push %s %d", segmentFor(sym.Kind), sym.Index)
			ctx.pushArgsAndCall(e.Args, sym.Type.Base, e.Name, 1)
			return
		}
		// Not a variable: a bare class name, static call.
		ctx.pushArgsAndCall(e.Args, id.Name, e.Name, 0)
		return
	}

	// Any other receiver expression must resolve to a Method per the
	// analyzer's validation; push it as the implicit `this`.
	ctx.genExpr(e.Receiver)
	recvClass := ""
	if e.Receiver.ResolvedType() != nil {
		recvClass = e.Receiver.ResolvedType().Base
	}
	ctx.pushArgsAndCallKeepingReceiver(e.Args, recvClass, e.Name)
}

func (ctx *genContext) genUnqualifiedCall(e *ast.CallExpr) {
	sig, err := ctx.g.reg.GetSignature(ctx.class.Name, e.Name)
	if err != nil {
		ctx.lastErr = fmt.Errorf("%s: %w", e.Position(), err)
		return
	}

	if sig.Kind == registry.Method {
		ctx.emit("push pointer 0")
		ctx.pushArgsAndCallKeepingReceiver(e.Args, ctx.class.Name, e.Name)
		return
	}

	ctx.pushArgsAndCall(e.Args, ctx.class.Name, e.Name, 0)
}

// pushArgsAndCall pushes each argument then emits `call Class.name nArgs`,
// where nArgs is len(args)+extra (extra accounts for an implicit `this`
// the caller already pushed before calling this helper, for the
// known-variable method-call shape).
func (ctx *genContext) pushArgsAndCall(args []ast.Expr, class, name string, extra int) {
	for _, arg := range args {
		ctx.genExpr(arg)
	}
	ctx.emit("call %s.%s %d", class, name, len(args)+extra)
}

// pushArgsAndCallKeepingReceiver is pushArgsAndCall for the shape where
// the receiver (`this` or an object already on the stack) was pushed by
// the caller immediately before this call.
func (ctx *genContext) pushArgsAndCallKeepingReceiver(args []ast.Expr, class, name string) {
	ctx.pushArgsAndCall(args, class, name, 1)
}
