// Package eval implements the tree-walking evaluator (C10): expression and
// statement execution over the typed AST, environments, prototypes,
// closures, this-binding, classes, and exception handling. It is the
// largest single component of the engine, the way the teacher's own
// internal/interp/evaluator package is the largest package in that tree.
package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/ecmalite/internal/env"
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/internal/sched"
	"github.com/cwbudde/ecmalite/pkg/ast"
)

// Prototypes bundles the well-known prototype objects new values are
// linked against, built once per Interpreter (spec §2 Prototype model).
type Prototypes struct {
	Object   *object.Object
	Array    *object.Object
	Function *object.Object
	String   *object.Object
	Number   *object.Object
	Boolean  *object.Object
	Error    *object.Object
	Promise  *object.Object
	Map      *object.Object
	WeakMap  *object.Object
	Iterator *object.Object
	Generator *object.Object
}

// Interpreter holds the state shared across an entire evaluation: the
// global scope, prototype chain roots, and the cooperative scheduler that
// promise reactions and generator resumption are posted to (spec §7).
type Interpreter struct {
	Global *env.Environment
	Protos *Prototypes
	Sched  *sched.Scheduler
	Stdout io.Writer

	callDepth int
	maxDepth  int
}

// New creates an Interpreter with freshly built global scope and
// prototypes, wired to sc for scheduling microtasks and host tasks.
func New(sc *sched.Scheduler) *Interpreter {
	in := &Interpreter{
		Global:   env.New(),
		Protos:   newPrototypes(),
		Sched:    sc,
		Stdout:   os.Stdout,
		maxDepth: 2000,
	}
	installBuiltins(in)
	return in
}

func newPrototypes() *Prototypes {
	objectProto := object.NewObject(nil)
	return &Prototypes{
		Object:    objectProto,
		Array:     object.NewObject(objectProto),
		Function:  object.NewObject(objectProto),
		String:    object.NewObject(objectProto),
		Number:    object.NewObject(objectProto),
		Boolean:   object.NewObject(objectProto),
		Error:     object.NewObject(objectProto),
		Promise:   object.NewObject(objectProto),
		Map:       object.NewObject(objectProto),
		WeakMap:   object.NewObject(objectProto),
		Iterator:  object.NewObject(objectProto),
		Generator: object.NewObject(objectProto),
	}
}

// ThrowError wraps a script-level thrown value (any Value, not just
// Error instances, per spec §4.8 try/throw/catch) so it can travel through
// Go's error interface alongside internal host errors.
type ThrowError struct {
	Value object.Value
}

func (t *ThrowError) Error() string {
	if obj, ok := t.Value.(*object.Object); ok {
		if desc, ok := obj.GetOwn(object.StringKey("message")); ok {
			if msg, ok := desc.Value.(*object.String); ok {
				return fmt.Sprintf("uncaught exception: %s: %s", obj.Class, msg.Value)
			}
		}
	}
	return fmt.Sprintf("uncaught exception: %s", t.Value.String())
}

// ScriptValue lets internal/promise recover the thrown value when a
// reaction handler fails, and pkg/engine when it reports an exception,
// instead of stringifying it.
func (t *ThrowError) ScriptValue() object.Value { return t.Value }

// Throw constructs a ThrowError from a script value.
func Throw(v object.Value) error { return &ThrowError{Value: v} }

// NewError builds a script Error object with the given message, linked to
// the Error prototype.
func (in *Interpreter) NewError(kind, message string) *object.Object {
	e := object.NewObject(in.Protos.Error)
	e.Class = kind
	e.Set(object.StringKey("name"), &object.String{Value: kind})
	e.Set(object.StringKey("message"), &object.String{Value: message})
	return e
}

// ThrowTypeError is a convenience for the common case of raising a
// TypeError from within a builtin or operator implementation.
func (in *Interpreter) ThrowTypeError(format string, args ...any) error {
	return Throw(in.NewError("TypeError", fmt.Sprintf(format, args...)))
}

// Run evaluates a full program in the interpreter's global scope,
// returning the completion value of its last expression statement (spec
// §9 Evaluate).
func (in *Interpreter) Run(prog *ast.Program) (object.Value, error) {
	var last object.Value = object.UndefinedValue
	hoistVarDeclarations(prog.Statements, in.Global)
	for _, stmt := range prog.Statements {
		v, sig, err := in.evalStatement(stmt, in.Global)
		if err != nil {
			return nil, err
		}
		if sig != nil && sig.kind == signalReturn {
			return sig.value, nil
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

// SetMaxCallDepth overrides the call-stack depth guard (default 2000),
// letting an embedder tune it via internal/config's MaxRecursionDepth.
func (in *Interpreter) SetMaxCallDepth(n int) { in.maxDepth = n }

func (in *Interpreter) enterCall() error {
	in.callDepth++
	if in.callDepth > in.maxDepth {
		return in.ThrowTypeError("call stack size exceeded")
	}
	return nil
}

func (in *Interpreter) exitCall() { in.callDepth-- }
