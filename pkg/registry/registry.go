// Package registry implements the Global Registry (spec §4.4): the single
// cross-file store of class and method declarations that the parse phase
// writes and every later phase only reads.
package registry

import (
	"fmt"
	"sync"

	"github.com/jackc-project/jackc/pkg/token"
	"github.com/jackc-project/jackc/pkg/types"
)

// SubroutineKind mirrors ast.SubroutineKind without importing pkg/ast, to
// keep the registry free of a dependency on the AST package (the parser
// imports both; the registry should stay a leaf).
type SubroutineKind string

const (
	Function    SubroutineKind = "function"
	Method      SubroutineKind = "method"
	Constructor SubroutineKind = "constructor"
)

// Signature is the MethodSignature record from spec §3.
type Signature struct {
	ReturnType *types.Type
	Params     []*types.Type
	Kind       SubroutineKind
	Pos        token.Position
}

var primitives = map[string]bool{
	types.Int: true, types.Char: true, types.Boolean: true, types.Void: true,
}

// Registry is the thread-safe store described in spec §4.4: one mutex
// guards both the class set and the class -> method -> signature map.
type Registry struct {
	mu      sync.Mutex
	classes map[string]bool
	methods map[string]map[string]*Signature
}

func New() *Registry {
	return &Registry{
		classes: make(map[string]bool),
		methods: make(map[string]map[string]*Signature),
	}
}

// RegisterClass reports false if the class name is already present.
func (r *Registry) RegisterClass(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.classes[name] {
		return false
	}
	r.classes[name] = true
	r.methods[name] = make(map[string]*Signature)
	return true
}

// RegisterMethod reports false if name is already declared within class.
// If class has no method table yet, one is created; the parser calls
// RegisterClass before RegisterMethod for the class it is parsing.
func (r *Registry) RegisterMethod(class, name string, sig *Signature) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.methods[class]
	if !ok {
		subs = make(map[string]*Signature)
		r.methods[class] = subs
	}
	if _, exists := subs[name]; exists {
		return false
	}
	subs[name] = sig
	return true
}

// ClassExists is true for registered classes and for the four primitive
// type base names (spec §4.4).
func (r *Registry) ClassExists(name string) bool {
	if primitives[name] {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classes[name]
}

func (r *Registry) MethodExists(class, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.methods[class]
	if !ok {
		return false
	}
	_, ok = subs[name]
	return ok
}

// GetSignature fails if the (class, name) pair is absent.
func (r *Registry) GetSignature(class, name string) (*Signature, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.methods[class]
	if !ok {
		return nil, fmt.Errorf("unknown class %q", class)
	}
	sig, ok := subs[name]
	if !ok {
		return nil, fmt.Errorf("unknown method %q on class %q", name, class)
	}
	return sig, nil
}

// CheckMainEntry implements the main-entry check from spec §4.5/§4.7:
// Main.main must exist, be a Function, and return void.
func (r *Registry) CheckMainEntry() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.methods["Main"]
	if !ok {
		return fmt.Errorf("class Main is missing")
	}
	sig, ok := subs["main"]
	if !ok {
		return fmt.Errorf("Main.main is missing")
	}
	if sig.Kind != Function {
		return fmt.Errorf("Main.main must be a function, got %s", sig.Kind)
	}
	if sig.ReturnType.Base != types.Void {
		return fmt.Errorf("Main.main must return void, got %s", sig.ReturnType)
	}
	return nil
}
