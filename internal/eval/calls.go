package eval

import (
	"github.com/cwbudde/ecmalite/internal/env"
	"github.com/cwbudde/ecmalite/internal/generator"
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/internal/promise"
	"github.com/cwbudde/ecmalite/pkg/ast"
)

// makeFunction builds a closure value capturing e, matching the teacher's
// pattern of attaching the defining environment to a callable value at
// the point the function literal is evaluated (spec §4.9 Closures).
func (in *Interpreter) makeFunction(name string, params []*ast.Param, body ast.Node, e *env.Environment, isArrow, isAsync, isGenerator bool) *object.Function {
	return &object.Function{
		Object:      object.NewObject(in.Protos.Function),
		Name:        name,
		Params:      params,
		Body:        body,
		Env:         e,
		IsArrow:     isArrow,
		IsAsync:     isAsync,
		IsGenerator: isGenerator,
	}
}

func (in *Interpreter) makeArrow(n *ast.ArrowFunctionExpression, e *env.Environment) *object.Function {
	this, _ := e.Get("this")
	fn := in.makeFunction("", n.Params, n.Body, e, true, n.IsAsync, false)
	fn.This = this
	return fn
}

// callValue invokes any callable script value (a closure, a class
// constructor's bound method, or a host function) with the given this and
// arguments.
func (in *Interpreter) callValue(callee object.Value, this object.Value, args []object.Value) (object.Value, error) {
	switch fn := callee.(type) {
	case *object.HostCallable:
		return fn.Fn(this, args)
	case *object.Function:
		return in.callFunction(fn, this, args)
	default:
		return nil, in.ThrowTypeError("value is not callable")
	}
}

// callFunction dispatches a user-defined closure call, routing generator
// and async bodies through their dedicated runtimes (spec §4.11, §4.12)
// and everything else through direct tree-walking evaluation.
func (in *Interpreter) callFunction(fn *object.Function, this object.Value, args []object.Value) (object.Value, error) {
	if err := in.enterCall(); err != nil {
		return nil, err
	}
	defer in.exitCall()

	callEnv := env.NewFunctionScope(funcEnv(fn.Env))
	if !fn.IsArrow {
		if this == nil {
			this = object.UndefinedValue
		}
		callEnv.DeclareLetConst("this", false)
		callEnv.Initialize("this", this)
	}
	in.bindParams(fn.Params, args, callEnv)
	ctx := &callContext{}
	if fn.HomeObject != nil {
		ctx.super = fn.SuperCtor
		ctx.homeProto = fn.HomeObject.Proto
	}
	callEnv.SetUserData(ctx)

	if fn.IsGenerator {
		return in.runGenerator(fn, callEnv, ctx), nil
	}
	if fn.IsAsync {
		return in.runAsync(fn, callEnv, ctx), nil
	}
	return in.runBody(fn, callEnv)
}

// funcEnv recovers the captured *env.Environment from the Closure
// interface object.Function stores it behind (only *env.Environment ever
// implements object.Closure in this engine).
func funcEnv(c object.Closure) *env.Environment {
	e, _ := c.(*env.Environment)
	return e
}

func (in *Interpreter) runBody(fn *object.Function, callEnv *env.Environment) (object.Value, error) {
	switch body := fn.Body.(type) {
	case *ast.BlockStatement:
		_, sig, err := in.evalBlock(body, callEnv)
		if err != nil {
			return nil, err
		}
		if sig != nil && sig.kind == signalReturn {
			return sig.value, nil
		}
		return object.UndefinedValue, nil
	case ast.Expression:
		return in.evalExpression(body, callEnv)
	default:
		return nil, in.ThrowTypeError("malformed function body")
	}
}

func (in *Interpreter) bindParams(params []*ast.Param, args []object.Value, callEnv *env.Environment) {
	for i, p := range params {
		if p.Rest {
			rest := []object.Value{}
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			callEnv.DeclareLetConst(p.Name.Name, false)
			callEnv.Initialize(p.Name.Name, object.NewArray(in.Protos.Array, rest...))
			return
		}
		var v object.Value = object.UndefinedValue
		if i < len(args) {
			v = args[i]
		}
		if _, isUndef := v.(*object.Undefined); isUndef && p.Default != nil {
			dv, err := in.evalExpression(p.Default, callEnv)
			if err == nil {
				v = dv
			}
		}
		callEnv.DeclareLetConst(p.Name.Name, false)
		callEnv.Initialize(p.Name.Name, v)
	}
}

func (in *Interpreter) runGenerator(fn *object.Function, callEnv *env.Environment, ctx *callContext) *generator.Generator {
	return generator.New(in.Protos.Generator, func(y *generator.Yielder) (object.Value, error) {
		ctx.yielder = y
		v, err := in.runBody(fn, callEnv)
		if rs, ok := err.(*generator.ReturnSignal); ok {
			return rs.Value, nil
		}
		return v, err
	})
}

// runAsync starts the async function body on its own goroutine and drives
// it to completion from the caller's goroutine, handing control back to the
// scheduler whenever the body suspends on an await (spec §4.12 async/await).
// The body and its driver are never both running script code at once: the
// driver blocks on suspendCh while the body runs, and the body blocks on
// resumeCh while the driver (and, later, a microtask reaction) runs.
func (in *Interpreter) runAsync(fn *object.Function, callEnv *env.Environment, ctx *callContext) *promise.Promise {
	p := promise.New(in.Protos.Promise, in.Sched)
	drv := &asyncDriver{resumeCh: make(chan asyncResume), suspendCh: make(chan asyncSuspend)}
	ctx.async = drv
	go func() {
		v, err := in.runBody(fn, callEnv)
		drv.suspendCh <- asyncSuspend{done: true, value: v, err: err}
	}()
	in.driveAsync(drv, p)
	return p
}

// driveAsync waits for the async body to either finish or suspend on an
// await, settling p on completion or registering a reaction that resumes
// the body once the awaited promise settles.
func (in *Interpreter) driveAsync(drv *asyncDriver, p *promise.Promise) {
	susp := <-drv.suspendCh
	if susp.done {
		if susp.err != nil {
			if te, ok := susp.err.(*ThrowError); ok {
				p.Reject(te.Value)
			} else {
				p.Reject(&object.String{Value: susp.err.Error()})
			}
			return
		}
		p.Resolve(susp.value)
		return
	}
	susp.awaited.Then(
		func(v object.Value) (object.Value, error) {
			drv.resumeCh <- asyncResume{value: v}
			in.driveAsync(drv, p)
			return nil, nil
		},
		func(reason object.Value) (object.Value, error) {
			drv.resumeCh <- asyncResume{err: Throw(reason)}
			in.driveAsync(drv, p)
			return nil, nil
		},
	)
}

// callContext is the single UserData handle attached to a function call's
// scope, bundling everything a nested statement/expression might need to
// look up about the enclosing call: the superclass hooks for `super`
// (set once, at call entry) and, for generator/async bodies, the
// yield/await driver (set just before the body runs). Keeping these on
// one struct instead of separate UserData values means installing the
// generator/async driver never clobbers the class super-binding a nested
// method body still needs.
type callContext struct {
	super     *object.Function
	homeProto *object.Object
	yielder   *generator.Yielder
	async     *asyncDriver
}

// asyncDriver is the channel pair an async function body's goroutine and
// its caller-side driver (driveAsync) hand control back and forth across
// at each await point.
type asyncDriver struct {
	resumeCh  chan asyncResume
	suspendCh chan asyncSuspend
}

// asyncSuspend is sent by the body goroutine: either "I'm awaiting this
// promise" (done == false) or "I'm finished" (done == true, value/err set).
type asyncSuspend struct {
	done    bool
	awaited *promise.Promise
	value   object.Value
	err     error
}

// asyncResume is sent back by the driver once the awaited promise settles,
// resuming the body with either the fulfillment value or a thrown rejection.
type asyncResume struct {
	value object.Value
	err   error
}

func (in *Interpreter) evalCall(n *ast.CallExpression, e *env.Environment) (object.Value, error) {
	var this object.Value = object.UndefinedValue
	var callee object.Value
	var err error

	if member, ok := n.Callee.(*ast.MemberExpression); ok {
		if _, isSuper := member.Object.(*ast.SuperExpression); isSuper {
			v, _, err := in.evalMember(member, e)
			if err != nil {
				return nil, err
			}
			this, _ = e.Get("this")
			callee = v
		} else {
			this, err = in.evalExpression(member.Object, e)
			if err != nil {
				return nil, err
			}
			if member.Optional {
				if _, isNull := this.(*object.Null); isNull {
					return object.UndefinedValue, nil
				}
				if _, isUndef := this.(*object.Undefined); isUndef {
					return object.UndefinedValue, nil
				}
			}
			key, err := in.memberKey(member, e)
			if err != nil {
				return nil, err
			}
			callee, err = in.getProperty(this, key)
			if err != nil {
				return nil, err
			}
		}
	} else if _, ok := n.Callee.(*ast.SuperExpression); ok {
		return in.evalSuperCall(n, e)
	} else {
		callee, err = in.evalExpression(n.Callee, e)
		if err != nil {
			return nil, err
		}
	}

	if n.Optional {
		if _, isNull := callee.(*object.Null); isNull {
			return object.UndefinedValue, nil
		}
		if _, isUndef := callee.(*object.Undefined); isUndef {
			return object.UndefinedValue, nil
		}
	}

	args, err := in.evalArgs(n.Args, e)
	if err != nil {
		return nil, err
	}
	return in.callValue(callee, this, args)
}

func (in *Interpreter) evalArgs(exprs []ast.Expression, e *env.Environment) ([]object.Value, error) {
	var args []object.Value
	for _, a := range exprs {
		if sp, ok := a.(*ast.SpreadElement); ok {
			v, err := in.evalExpression(sp.Argument, e)
			if err != nil {
				return nil, err
			}
			items, err := in.iterableToSlice(v)
			if err != nil {
				return nil, err
			}
			args = append(args, items...)
			continue
		}
		v, err := in.evalExpression(a, e)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (in *Interpreter) evalNew(n *ast.NewExpression, e *env.Environment) (object.Value, error) {
	calleeVal, err := in.evalExpression(n.Callee, e)
	if err != nil {
		return nil, err
	}
	args, err := in.evalArgs(n.Args, e)
	if err != nil {
		return nil, err
	}
	switch fn := calleeVal.(type) {
	case *object.Function:
		return in.construct(fn, args)
	case *object.HostCallable:
		// Host constructors (Promise, Map, WeakMap) build and return their
		// own fully-formed value directly, unlike construct's script-class
		// path which allocates a bare instance and runs field initializers.
		return fn.Fn(object.UndefinedValue, args)
	default:
		return nil, in.ThrowTypeError("value is not a constructor")
	}
}

func (in *Interpreter) construct(fn *object.Function, args []object.Value) (object.Value, error) {
	proto := in.Protos.Object
	if protoDesc, ok := fn.GetOwn(object.StringKey("prototype")); ok {
		if p, ok := protoDesc.Value.(*object.Object); ok {
			proto = p
		}
	}
	instance := object.NewObject(proto)
	instance.Class = fn.Name
	if err := in.initFields(fn, instance); err != nil {
		return nil, err
	}
	result, err := in.callFunction(fn, instance, args)
	if err != nil {
		return nil, err
	}
	if obj, ok := result.(*object.Object); ok {
		return obj, nil
	}
	return instance, nil
}

// initFields runs a class's instance field initializers against a freshly
// constructed instance, in the environment the class body closed over
// (spec §4.10: instance fields are assigned once per construction).
// construct runs it for the constructed class before that class's
// constructor body; evalSuperCall runs it for the superclass just before
// calling the superclass constructor.
func (in *Interpreter) initFields(fn *object.Function, instance *object.Object) error {
	if len(fn.FieldInits) == 0 {
		return nil
	}
	classEnv := funcEnv(fn.FieldEnv)
	fieldEnv := env.NewEnclosed(classEnv)
	fieldEnv.DeclareLetConst("this", false)
	fieldEnv.Initialize("this", instance)
	for _, f := range fn.FieldInits {
		key, err := in.propertyKeyOf(f.Key, f.Computed, fieldEnv)
		if err != nil {
			return err
		}
		var v object.Value = object.UndefinedValue
		if f.Value != nil {
			v, err = in.evalExpression(f.Value, fieldEnv)
			if err != nil {
				return err
			}
		}
		instance.Set(key, v)
	}
	return nil
}

// memberKey evaluates a (possibly computed) member expression's property
// key without re-evaluating the object expression.
func (in *Interpreter) memberKey(m *ast.MemberExpression, e *env.Environment) (object.PropertyKey, error) {
	if !m.Computed {
		if id, ok := m.Property.(*ast.Identifier); ok {
			return object.StringKey(id.Name), nil
		}
		return object.StringKey(""), nil
	}
	v, err := in.evalExpression(m.Property, e)
	if err != nil {
		return nil, err
	}
	if sym, ok := v.(*object.Symbol); ok {
		return object.SymbolKey(sym), nil
	}
	return object.StringKey(toDisplayString(v)), nil
}

func (in *Interpreter) evalMember(n *ast.MemberExpression, e *env.Environment) (object.Value, object.PropertyKey, error) {
	if _, ok := n.Object.(*ast.SuperExpression); ok {
		ctx, _ := e.UserData().(*callContext)
		if ctx == nil || ctx.homeProto == nil {
			return nil, nil, in.ThrowTypeError("'super' keyword is only valid inside a class method")
		}
		key, err := in.memberKey(n, e)
		if err != nil {
			return nil, nil, err
		}
		this, _ := e.Get("this")
		v, err := in.getOwnerProperty(ctx.homeProto, this, key)
		return v, key, err
	}
	obj, err := in.evalExpression(n.Object, e)
	if err != nil {
		return nil, nil, err
	}
	if n.Optional {
		if _, isNull := obj.(*object.Null); isNull {
			return object.UndefinedValue, nil, nil
		}
		if _, isUndef := obj.(*object.Undefined); isUndef {
			return object.UndefinedValue, nil, nil
		}
	}
	key, err := in.memberKey(n, e)
	if err != nil {
		return nil, nil, err
	}
	v, err := in.getProperty(obj, key)
	return v, key, err
}

// getProperty reads a property, invoking an accessor getter with obj as
// `this` when the resolved descriptor is one (spec §4.10 getters/setters).
func (in *Interpreter) getProperty(obj object.Value, key object.PropertyKey) (object.Value, error) {
	switch v := obj.(type) {
	case *object.Array:
		if idx, ok := arrayIndex(key); ok {
			if idx >= 0 && idx < len(v.Elements) {
				return v.Elements[idx], nil
			}
			return object.UndefinedValue, nil
		}
		if sk := object.KeyString(key); sk == "length" {
			return &object.Number{Value: float64(len(v.Elements))}, nil
		}
		return in.getOwnerProperty(v.Object, obj, key)
	case *object.String:
		if idx, ok := arrayIndex(key); ok {
			r := []rune(v.Value)
			if idx >= 0 && idx < len(r) {
				return &object.String{Value: string(r[idx])}, nil
			}
			return object.UndefinedValue, nil
		}
		if object.KeyString(key) == "length" {
			return &object.Number{Value: float64(len([]rune(v.Value)))}, nil
		}
		return in.getOwnerProperty(in.Protos.String, obj, key)
	case *object.Map:
		if object.KeyString(key) == "size" {
			return &object.Number{Value: float64(v.MapSize())}, nil
		}
		return in.getOwnerProperty(v.AsObject(), obj, key)
	case *object.Object:
		return in.getOwnerProperty(v, obj, key)
	case *object.Number, *object.Boolean:
		return object.UndefinedValue, nil
	case *object.Undefined:
		return nil, in.ThrowTypeError("cannot read properties of undefined")
	case *object.Null:
		return nil, in.ThrowTypeError("cannot read properties of null")
	default:
		if oc, ok := obj.(object.Objecter); ok {
			return in.getOwnerProperty(oc.AsObject(), obj, key)
		}
		return object.UndefinedValue, nil
	}
}

func (in *Interpreter) getOwnerProperty(owner *object.Object, this object.Value, key object.PropertyKey) (object.Value, error) {
	desc, ok := owner.Get(key)
	if !ok {
		return object.UndefinedValue, nil
	}
	if desc.Get != nil {
		return in.callFunction(desc.Get, this, nil)
	}
	if desc.Value == nil {
		return object.UndefinedValue, nil
	}
	return desc.Value, nil
}

func (in *Interpreter) setProperty(obj object.Value, key object.PropertyKey, v object.Value) error {
	switch t := obj.(type) {
	case *object.Array:
		if idx, ok := arrayIndex(key); ok {
			for len(t.Elements) <= idx {
				t.Elements = append(t.Elements, object.UndefinedValue)
			}
			t.Elements[idx] = v
			return nil
		}
		return in.setOwnerProperty(t.Object, obj, key, v)
	case *object.Object:
		return in.setOwnerProperty(t, obj, key, v)
	default:
		if oc, ok := obj.(object.Objecter); ok {
			return in.setOwnerProperty(oc.AsObject(), obj, key, v)
		}
		return in.ThrowTypeError("cannot set properties on this value")
	}
}

func (in *Interpreter) setOwnerProperty(owner *object.Object, this object.Value, key object.PropertyKey, v object.Value) error {
	if desc, ok := owner.Get(key); ok && desc.Set != nil {
		_, err := in.callFunction(desc.Set, this, []object.Value{v})
		return err
	}
	owner.Set(key, v)
	return nil
}

func arrayIndex(key object.PropertyKey) (int, bool) {
	s := object.KeyString(key)
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func (in *Interpreter) evalSuperCall(n *ast.CallExpression, e *env.Environment) (object.Value, error) {
	this, err := e.Get("this")
	if err != nil {
		return nil, err
	}
	superCtorVal := e.UserData()
	ctx, ok := superCtorVal.(*callContext)
	if !ok || ctx.super == nil {
		return nil, in.ThrowTypeError("'super' keyword is only valid inside a derived class constructor")
	}
	args, err := in.evalArgs(n.Args, e)
	if err != nil {
		return nil, err
	}
	if inst, ok := this.(*object.Object); ok {
		if err := in.initFields(ctx.super, inst); err != nil {
			return nil, err
		}
	}
	_, err = in.callFunction(ctx.super, this, args)
	return object.UndefinedValue, err
}
