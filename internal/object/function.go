package object

import "github.com/cwbudde/ecmalite/pkg/ast"

// Closure is the lexical environment a Function captures at creation time.
// It is declared as an interface here to avoid an import cycle with
// internal/env, which itself stores object.Value in its bindings.
type Closure interface {
	// Enclosed returns a fresh child scope for a call to this function.
	Enclosed() Closure
}

// Function is a user-defined function, method, arrow function, or class
// constructor. Generators and async functions are Function values with
// IsGenerator/IsAsync set; internal/eval dispatches on those flags to route
// the call through internal/generator or internal/promise instead of
// evaluating the body inline (spec §4.11, §4.12).
type Function struct {
	*Object
	Name        string
	Params      []*ast.Param
	Body        ast.Node // *ast.BlockStatement, or an Expression for concise arrows
	Env         Closure
	IsArrow     bool
	IsAsync     bool
	IsGenerator bool
	This        Value // `this` at the arrow function's creation; set for arrows only
	HomeObject  *Object  // for `super` resolution inside methods
	SuperCtor   *Function // superclass constructor, for `super(...)` calls

	// FieldInits/FieldEnv are set on a class's constructor only: instance
	// field declarations, run against a fresh instance just after
	// construction begins, in the environment the class body closed over.
	FieldInits []*ast.FieldDefinition
	FieldEnv   Closure
}

func (f *Function) Type() string   { return "function" }
func (f *Function) String() string { return "function " + f.Name + "() { [native code] }" }

// HostFunc is the signature every Go-native function exposed to scripts
// must implement (spec §9 host interop: SetGlobalFunction).
type HostFunc func(this Value, args []Value) (Value, error)

// HostCallable wraps a Go function as a callable script value.
type HostCallable struct {
	*Object
	Name string
	Fn   HostFunc
}

func (h *HostCallable) Type() string   { return "function" }
func (h *HostCallable) String() string { return "function " + h.Name + "() { [native code] }" }

// NewHostCallable wraps fn as a script-callable value.
func NewHostCallable(proto *Object, name string, fn HostFunc) *HostCallable {
	return &HostCallable{Object: NewObject(proto), Name: name, Fn: fn}
}
