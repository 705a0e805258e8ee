// Package generator implements the generator coroutine runtime (C13) that
// backs function* bodies after C7's yield-lowering pass identifies their
// yield points. Each generator runs its body on a dedicated goroutine,
// synchronized with the caller through an unbuffered handoff channel pair
// so that, despite the extra goroutine, at most one of the two ever
// executes script code at a time — preserving the single-threaded
// execution model the rest of the engine assumes (spec §4.11).
package generator

import "github.com/cwbudde/ecmalite/internal/object"

// Result is one step of generator iteration (spec §4.13 {value, done}).
type Result struct {
	Value object.Value
	Done  bool
}

type request struct {
	kind reqKind
	arg  object.Value
}

type reqKind int

const (
	reqNext reqKind = iota
	reqReturn
	reqThrow
)

// Generator drives a user function body, started lazily on the first
// Next call.
type Generator struct {
	*object.Object
	body    func(y *Yielder)
	started bool
	done    bool
	toBody  chan request
	fromBody chan outcome
}

type outcome struct {
	value object.Value
	done  bool
	err   error
}

// Yielder is the handle the running body uses to suspend itself; eval's
// evalYield calls Yield on the handle stored via the current scope's
// UserData.
type Yielder struct {
	toBody   chan request
	fromBody chan outcome
}

// Yield suspends the generator body, handing value to the consumer, and
// blocks until the next Next/Return/Throw call resumes it. It returns the
// value passed to Next, or a non-nil error if the resumption was a
// Throw/Return request (the body's own try/finally then sees it).
func (y *Yielder) Yield(value object.Value) (object.Value, error) {
	y.fromBody <- outcome{value: value, done: false}
	req := <-y.toBody
	switch req.kind {
	case reqThrow:
		return nil, &ThrowSignal{Value: req.arg}
	case reqReturn:
		return nil, &ReturnSignal{Value: req.arg}
	default:
		return req.arg, nil
	}
}

// ThrowSignal unwinds a generator body when the consumer calls .throw().
type ThrowSignal struct{ Value object.Value }

func (t *ThrowSignal) Error() string { return "generator throw" }

// ReturnSignal unwinds a generator body when the consumer calls .return().
type ReturnSignal struct{ Value object.Value }

func (r *ReturnSignal) Error() string { return "generator return" }

// New creates a generator whose body runs fn, given a Yielder to suspend
// through. fn's final return value becomes the iterator's completion
// value (the `{value, done: true}` result).
func New(proto *object.Object, fn func(y *Yielder) (object.Value, error)) *Generator {
	g := &Generator{
		Object:   object.NewObject(proto),
		toBody:   make(chan request),
		fromBody: make(chan outcome),
	}
	g.body = func(y *Yielder) {
		v, err := fn(y)
		g.fromBody <- outcome{value: v, done: true, err: err}
	}
	return g
}

func (g *Generator) Type() string   { return "object" }
func (g *Generator) String() string { return "[object Generator]" }

// AsObject implements object.Objecter so eval's property lookup can resolve
// Generator.prototype methods (next/return/throw) through the prototype
// chain like any other composite value.
func (g *Generator) AsObject() *object.Object { return g.Object }

func (g *Generator) start() {
	g.started = true
	go g.body(&Yielder{toBody: g.toBody, fromBody: g.fromBody})
}

// Next resumes the generator, sending v in as the yield expression's
// value, and returns the next suspension or completion.
func (g *Generator) Next(v object.Value) (Result, error) {
	if g.done {
		return Result{Value: object.UndefinedValue, Done: true}, nil
	}
	if !g.started {
		g.start()
	} else {
		g.toBody <- request{kind: reqNext, arg: v}
	}
	out := <-g.fromBody
	if out.done {
		g.done = true
	}
	if out.err != nil {
		return Result{}, out.err
	}
	return Result{Value: out.value, Done: out.done}, nil
}

// Return forces the generator to unwind as if a `return v` occurred at
// the suspended yield point, running any pending finally blocks.
func (g *Generator) Return(v object.Value) (Result, error) {
	if g.done || !g.started {
		g.done = true
		return Result{Value: v, Done: true}, nil
	}
	g.toBody <- request{kind: reqReturn, arg: v}
	out := <-g.fromBody
	g.done = true
	if out.err != nil {
		if rs, ok := out.err.(*ReturnSignal); ok {
			return Result{Value: rs.Value, Done: true}, nil
		}
		return Result{}, out.err
	}
	return Result{Value: out.value, Done: out.done}, nil
}

// Throw resumes the generator by raising an exception at its suspension
// point, as if the yield expression itself had thrown.
func (g *Generator) Throw(v object.Value) (Result, error) {
	if g.done || !g.started {
		g.done = true
		return Result{}, &ThrowSignal{Value: v}
	}
	g.toBody <- request{kind: reqThrow, arg: v}
	out := <-g.fromBody
	if out.done {
		g.done = true
	}
	if out.err != nil {
		return Result{}, out.err
	}
	return Result{Value: out.value, Done: out.done}, nil
}
