// Package symboltable implements the per-unit SymbolTable from spec §3/
// §4.5: a class scope (Static+Field) and a subroutine scope (Arg+Local),
// each with its own monotonic index counter, plus a history of
// SubroutineSnapshots so code generation can re-enter a subroutine's
// scope by name without re-running the analyzer.
//
// Adapted from the teacher's ScopeTable/Scope (pkg/jack/scopes.go):
// same per-kind utils.Stack storage and push/pop-scope shape, but the
// teacher's ResolveVariable walks local -> parameter -> field -> static
// and permits a local to shadow a field of the same name. Spec §3
// forbids that entirely ("sub-scope shadowing of class-scope is not
// permitted"), so this table keeps a class-scope and a sub-scope name map
// and rejects any sub-scope name already declared in class scope, as well
// as any redefinition within a scope, so lookups never depend on search
// order.
package symboltable

import (
	"github.com/jackc-project/jackc/pkg/diag"
	"github.com/jackc-project/jackc/pkg/token"
	"github.com/jackc-project/jackc/pkg/types"
	"github.com/jackc-project/jackc/pkg/utils"
)

type Kind string

const (
	Static Kind = "static"
	Field  Kind = "field"
	Arg    Kind = "argument"
	Local  Kind = "local"
)

// Symbol is the spec §3 record: a type, a kind, the index assigned at
// definition time within its kind, and the source location it was
// declared at (for diagnostics).
type Symbol struct {
	Type  *types.Type
	Kind  Kind
	Index int
	Pos   token.Position
}

// SubroutineSnapshot preserves one subroutine's Arg/Local scope so the
// code generator can re-enter it by name during the generate phase
// without re-running the analyzer (spec §3).
type SubroutineSnapshot struct {
	Name    string
	Symbols map[string]*Symbol
	Args    utils.Stack[*Symbol]
	Locals  utils.Stack[*Symbol]
}

// SymbolTable is owned by one compilation unit (one Class). Class-scope
// entries persist for the unit's lifetime; subroutine-scope entries are
// cleared and rebuilt by StartSubroutine for each subroutine in turn.
type SymbolTable struct {
	className string

	classNames map[string]*Symbol
	statics    utils.Stack[*Symbol]
	fields     utils.Stack[*Symbol]

	subName  string
	subNames map[string]*Symbol
	args     utils.Stack[*Symbol]
	locals   utils.Stack[*Symbol]

	history map[string]*SubroutineSnapshot
}

func New(className string) *SymbolTable {
	return &SymbolTable{
		className:  className,
		classNames: make(map[string]*Symbol),
		subNames:   make(map[string]*Symbol),
		history:    make(map[string]*SubroutineSnapshot),
	}
}

// DefineClassVar registers a Static or Field symbol in class scope. Per
// spec §4.5, Static and Field each have their own index counter starting
// at 0.
func (st *SymbolTable) DefineClassVar(name string, kind Kind, typ *types.Type, pos token.Position) error {
	if _, exists := st.classNames[name]; exists {
		return diag.New(diag.SemanticError, pos, "%q is already declared in class %s", name, st.className)
	}

	var index int
	switch kind {
	case Static:
		index = st.statics.Count()
	case Field:
		index = st.fields.Count()
	default:
		return diag.New(diag.SemanticError, pos, "DefineClassVar called with non-class kind %s", kind)
	}

	sym := &Symbol{Type: typ, Kind: kind, Index: index, Pos: pos}
	st.classNames[name] = sym
	switch kind {
	case Static:
		st.statics.Push(sym)
	case Field:
		st.fields.Push(sym)
	}
	return nil
}

// StartSubroutine clears subroutine scope and resets the Arg/Local
// counters to 0 (spec §4.5).
func (st *SymbolTable) StartSubroutine(name string) {
	st.subName = name
	st.subNames = make(map[string]*Symbol)
	st.args = utils.Stack[*Symbol]{}
	st.locals = utils.Stack[*Symbol]{}
}

// DefineThis registers the implicit "this" argument at index 0 for a
// method body (spec §4.5 step 2). Callers must invoke it, if at all,
// before any DefineArg call in the same subroutine.
func (st *SymbolTable) DefineThis(classType *types.Type, pos token.Position) error {
	return st.define("this", Arg, classType, pos)
}

func (st *SymbolTable) DefineArg(name string, typ *types.Type, pos token.Position) error {
	return st.define(name, Arg, typ, pos)
}

func (st *SymbolTable) DefineLocal(name string, typ *types.Type, pos token.Position) error {
	return st.define(name, Local, typ, pos)
}

func (st *SymbolTable) define(name string, kind Kind, typ *types.Type, pos token.Position) error {
	if _, exists := st.subNames[name]; exists {
		return diag.New(diag.SemanticError, pos, "%q is already declared in %s.%s", name, st.className, st.subName)
	}
	if _, exists := st.classNames[name]; exists {
		return diag.New(diag.SemanticError, pos, "%q would shadow a class-scope symbol, which is not permitted", name)
	}

	var index int
	switch kind {
	case Arg:
		index = st.args.Count()
	case Local:
		index = st.locals.Count()
	default:
		return diag.New(diag.SemanticError, pos, "define called with non-subroutine kind %s", kind)
	}

	sym := &Symbol{Type: typ, Kind: kind, Index: index, Pos: pos}
	st.subNames[name] = sym
	switch kind {
	case Arg:
		st.args.Push(sym)
	case Local:
		st.locals.Push(sym)
	}
	return nil
}

// Resolve looks up name in subroutine scope then class scope, matching
// spec §4.5's "Identifier: looked up in sub-scope then class-scope".
func (st *SymbolTable) Resolve(name string) (*Symbol, bool) {
	if sym, ok := st.subNames[name]; ok {
		return sym, true
	}
	if sym, ok := st.classNames[name]; ok {
		return sym, true
	}
	return nil, false
}

// FieldCount supports code generation's constructor prologue (spec §4.6:
// "push constant nFields"); LocalCount supplies the nLocals of the
// `function` directive.
func (st *SymbolTable) FieldCount() int { return st.fields.Count() }

func (st *SymbolTable) LocalCount() int { return st.locals.Count() }

// stackFor returns the per-kind utils.Stack backing class or subroutine
// scope, used by OrderedSymbols/SymbolAt below.
func (st *SymbolTable) stackFor(kind Kind) *utils.Stack[*Symbol] {
	switch kind {
	case Static:
		return &st.statics
	case Field:
		return &st.fields
	case Arg:
		return &st.args
	case Local:
		return &st.locals
	default:
		return nil
	}
}

// OrderedSymbols returns kind's symbols in definition order -- the
// sequence spec §8's "index monotonicity" property is checked against
// (index values 0, 1, 2, ... in this order).
func (st *SymbolTable) OrderedSymbols(kind Kind) []*Symbol {
	stack := st.stackFor(kind)
	if stack == nil {
		return nil
	}
	return stack.Entries()
}

// SymbolAt recovers the symbol of the given kind at the given index
// without a name lookup.
func (st *SymbolTable) SymbolAt(kind Kind, index int) (*Symbol, bool) {
	stack := st.stackFor(kind)
	if stack == nil {
		return nil, false
	}
	return stack.At(index)
}

// Snapshot freezes the current subroutine scope into the table's history
// so the code generator can re-enter it later without re-analyzing.
func (st *SymbolTable) Snapshot() {
	frozen := make(map[string]*Symbol, len(st.subNames))
	for k, v := range st.subNames {
		frozen[k] = v
	}
	st.history[st.subName] = &SubroutineSnapshot{
		Name:    st.subName,
		Symbols: frozen,
		Args:    st.args,
		Locals:  st.locals,
	}
}

// Reenter restores subroutine scope from a prior Snapshot, by name.
func (st *SymbolTable) Reenter(name string) (*SubroutineSnapshot, bool) {
	snap, ok := st.history[name]
	if !ok {
		return nil, false
	}
	st.subName = name
	st.subNames = snap.Symbols
	st.args = snap.Args
	st.locals = snap.Locals
	return snap, true
}
