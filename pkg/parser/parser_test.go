package parser

import (
	"testing"

	"github.com/jackc-project/jackc/pkg/ast"
	"github.com/jackc-project/jackc/pkg/diag"
	"github.com/jackc-project/jackc/pkg/registry"
	"github.com/jackc-project/jackc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*ast.Class, error) {
	t.Helper()
	p, err := New("t.jack", []byte(src), types.New(), registry.New())
	require.NoError(t, err)
	return p.ParseClass()
}

func TestMinimalClassWithConstructor(t *testing.T) {
	class, err := parse(t, `
		class Main {
			constructor Main new() {
				return this;
			}
		}
	`)
	require.NoError(t, err)
	require.NotNil(t, class)
	assert.Equal(t, "Main", class.Name)
	require.Len(t, class.Subs, 1)
	assert.Equal(t, ast.Constructor, class.Subs[0].Kind)
}

func TestMissingConstructorIsError(t *testing.T) {
	_, err := parse(t, `
		class Foo {
			function void bar() {
				return;
			}
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constructor")
}

func TestClassVarDecAfterSubroutineIsError(t *testing.T) {
	_, err := parse(t, `
		class Foo {
			constructor Foo new() {
				return this;
			}
			field int x;
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must precede")
}

func TestDoStatementRequiresCall(t *testing.T) {
	_, err := parse(t, `
		class Foo {
			constructor Foo new() {
				do 1 + 2;
				return this;
			}
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subroutine call")
}

func TestDoStatementAcceptsQualifiedAndUnqualifiedCalls(t *testing.T) {
	class, err := parse(t, `
		class Foo {
			constructor Foo new() {
				do Output.println();
				do helper();
				return this;
			}
		}
	`)
	require.NoError(t, err)
	body := class.Subs[0].Body
	require.Len(t, body, 3)

	do1 := body[0].(*ast.DoStmt)
	assert.Equal(t, "println", do1.Call.Name)
	require.NotNil(t, do1.Call.Receiver)

	do2 := body[1].(*ast.DoStmt)
	assert.Equal(t, "helper", do2.Call.Name)
	assert.Nil(t, do2.Call.Receiver)
}

func TestArithmeticPrecedenceAndAssociativity(t *testing.T) {
	class, err := parse(t, `
		class Foo {
			constructor Foo new() {
				let x = 1 + 2 * 3 - 4;
				return this;
			}
		}
	`)
	require.NoError(t, err)
	let := class.Subs[0].Body[0].(*ast.LetStmt)

	// (1 + (2*3)) - 4, left-associative at the "+ -" level.
	top := let.Value.(*ast.BinOp)
	assert.Equal(t, ast.OpSub, top.Op)

	left := top.Left.(*ast.BinOp)
	assert.Equal(t, ast.OpAdd, left.Op)
	assert.Equal(t, 1, left.Left.(*ast.IntLit).Value)

	mul := left.Right.(*ast.BinOp)
	assert.Equal(t, ast.OpMul, mul.Op)
	assert.Equal(t, 2, mul.Left.(*ast.IntLit).Value)
	assert.Equal(t, 3, mul.Right.(*ast.IntLit).Value)

	assert.Equal(t, 4, top.Right.(*ast.IntLit).Value)
}

func TestUnaryMinusBindsTighterThanBinary(t *testing.T) {
	class, err := parse(t, `
		class Foo {
			constructor Foo new() {
				let x = -1 + 2;
				return this;
			}
		}
	`)
	require.NoError(t, err)
	let := class.Subs[0].Body[0].(*ast.LetStmt)

	top := let.Value.(*ast.BinOp)
	assert.Equal(t, ast.OpAdd, top.Op)
	neg := top.Left.(*ast.UnaryOp)
	assert.Equal(t, ast.OpNeg, neg.Op)
	assert.Equal(t, 1, neg.Operand.(*ast.IntLit).Value)
}

func TestArrayAccessAndFieldCallChaining(t *testing.T) {
	class, err := parse(t, `
		class Foo {
			constructor Foo new() {
				let x = a[i].length();
				return this;
			}
		}
	`)
	require.NoError(t, err)
	let := class.Subs[0].Body[0].(*ast.LetStmt)

	call := let.Value.(*ast.CallExpr)
	assert.Equal(t, "length", call.Name)
	access := call.Receiver.(*ast.ArrayAccess)
	assert.Equal(t, "a", access.Array.(*ast.Identifier).Name)
	assert.Equal(t, "i", access.Index.(*ast.Identifier).Name)
}

func TestArrayGenericTypeAnnotation(t *testing.T) {
	class, err := parse(t, `
		class Foo {
			field Array<int> nums;
			constructor Foo new() {
				return this;
			}
		}
	`)
	require.NoError(t, err)
	require.Len(t, class.Vars, 1)
	assert.Equal(t, "Array", class.Vars[0].Type.Base)
	require.Len(t, class.Vars[0].Type.Generics, 1)
	assert.Equal(t, "int", class.Vars[0].Type.Generics[0].Base)
}

func TestIfElseParses(t *testing.T) {
	class, err := parse(t, `
		class Foo {
			constructor Foo new() {
				if (x = 1) {
					let x = 2;
				} else {
					let x = 3;
				}
				return this;
			}
		}
	`)
	require.NoError(t, err)
	ifStmt := class.Subs[0].Body[0].(*ast.IfStmt)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestWhileLoopParses(t *testing.T) {
	class, err := parse(t, `
		class Foo {
			constructor Foo new() {
				while (i < 10) {
					let i = i + 1;
				}
				return this;
			}
		}
	`)
	require.NoError(t, err)
	while := class.Subs[0].Body[0].(*ast.WhileStmt)
	require.Len(t, while.Body, 1)
}

func TestErrorRecoveryCollectsMultipleDiagnostics(t *testing.T) {
	_, err := parse(t, `
		class Foo {
			constructor Foo new() {
				let = ;
				let y = 1;
				let = ;
				return this;
			}
		}
	`)
	require.Error(t, err)
	var list *diag.List
	require.ErrorAs(t, err, &list)
	assert.GreaterOrEqual(t, len(list.Errors), 2)
}

func TestVoidOnlyValidAsReturnType(t *testing.T) {
	class, err := parse(t, `
		class Foo {
			constructor Foo new() {
				return this;
			}
			function void bar() {
				return;
			}
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, types.Void, class.Subs[1].ReturnType.Base)

	_, err = parse(t, `
		class Foo {
			field void x;
			constructor Foo new() {
				return this;
			}
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a type")
}

func TestDuplicateClassAcrossFilesSharingRegistry(t *testing.T) {
	reg := registry.New()
	treg := types.New()

	p1, err := New("a.jack", []byte(`
		class Foo {
			constructor Foo new() {
				return this;
			}
		}
	`), treg, reg)
	require.NoError(t, err)
	_, err = p1.ParseClass()
	require.NoError(t, err)

	p2, err := New("b.jack", []byte(`
		class Foo {
			constructor Foo new() {
				return this;
			}
		}
	`), treg, reg)
	require.NoError(t, err)
	_, err = p2.ParseClass()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared")
}

func TestDuplicateSubroutineWithinClassIsError(t *testing.T) {
	_, err := parse(t, `
		class Foo {
			constructor Foo new() {
				return this;
			}
			function void bar() {
				return;
			}
			function void bar() {
				return;
			}
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared")
}

func TestStringAndKeywordLiterals(t *testing.T) {
	class, err := parse(t, `
		class Foo {
			constructor Foo new() {
				let s = "hello";
				let b = true;
				let n = null;
				return this;
			}
		}
	`)
	require.NoError(t, err)
	body := class.Subs[0].Body
	assert.Equal(t, "hello", body[0].(*ast.LetStmt).Value.(*ast.StringLit).Value)
	assert.Equal(t, ast.KwTrue, body[1].(*ast.LetStmt).Value.(*ast.KeywordLit).Kind)
	assert.Equal(t, ast.KwNull, body[2].(*ast.LetStmt).Value.(*ast.KeywordLit).Kind)
}
