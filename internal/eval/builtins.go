package eval

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/ecmalite/internal/generator"
	"github.com/cwbudde/ecmalite/internal/iterate"
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/internal/promise"
	"github.com/cwbudde/ecmalite/internal/sched"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// installBuiltins populates the global scope and the well-known prototypes
// with the host surface a script expects to find already defined: console,
// the Object/Array/Math/JSON/Symbol namespaces, and the Array/String/
// Function/Object prototype methods (spec §9 host interop, §2 prototypes).
// It mirrors the teacher's registerBuiltinExceptions: one call from New,
// fanning out into a handful of per-concern installers.
func installBuiltins(in *Interpreter) {
	installConsole(in)
	installGlobalFunctions(in)
	installMath(in)
	installJSON(in)
	installObjectNamespace(in)
	installArrayNamespace(in)
	installSymbolNamespace(in)
	installPromiseNamespace(in)
	installMapNamespace(in)
	installWeakMapNamespace(in)
	installObjectProto(in)
	installArrayProto(in)
	installStringProto(in)
	installFunctionProto(in)
	installGeneratorProto(in)
}

func defineGlobal(in *Interpreter, name string, v object.Value) {
	in.Global.DeclareLetConst(name, false)
	in.Global.Initialize(name, v)
}

func hostMethod(in *Interpreter, owner *object.Object, name string, fn object.HostFunc) {
	owner.SetDescriptor(object.StringKey(name), &object.PropertyDescriptor{
		Value: object.NewHostCallable(in.Protos.Function, name, fn),
	})
}

func argAt(args []object.Value, i int) object.Value {
	if i < len(args) {
		return args[i]
	}
	return object.UndefinedValue
}

// isNilish reports whether v is null or undefined, the two values the Map/
// WeakMap constructors treat as "no initial entries" (spec §2 Map/WeakMap).
func isNilish(v object.Value) bool {
	switch v.(type) {
	case *object.Undefined, *object.Null:
		return true
	default:
		return false
	}
}

// ---- console -----------------------------------------------------------

func installConsole(in *Interpreter) {
	console := object.NewObject(in.Protos.Object)
	logFn := func(this object.Value, args []object.Value) (object.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = toDisplayString(a)
		}
		fmt.Fprintln(in.Stdout, strings.Join(parts, " "))
		return object.UndefinedValue, nil
	}
	hostMethod(in, console, "log", logFn)
	hostMethod(in, console, "info", logFn)
	hostMethod(in, console, "warn", logFn)
	hostMethod(in, console, "error", logFn)
	defineGlobal(in, "console", console)
}

// ---- global functions ----------------------------------------------------

func installGlobalFunctions(in *Interpreter) {
	defineGlobal(in, "NaN", &object.Number{Value: math.NaN()})
	defineGlobal(in, "Infinity", &object.Number{Value: math.Inf(1)})
	defineGlobal(in, "undefined", object.UndefinedValue)

	defineGlobal(in, "parseInt", hostFn(in, "parseInt", func(this object.Value, args []object.Value) (object.Value, error) {
		s := strings.TrimSpace(toDisplayString(argAt(args, 0)))
		radix := 10
		if len(args) > 1 {
			if r := int(toNumber(args[1])); r != 0 {
				radix = r
			}
		}
		neg := false
		if strings.HasPrefix(s, "-") {
			neg = true
			s = s[1:]
		} else if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		if radix == 16 {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		}
		end := 0
		for end < len(s) && isDigitInRadix(s[end], radix) {
			end++
		}
		if end == 0 {
			return &object.Number{Value: math.NaN()}, nil
		}
		n, err := strconv.ParseInt(s[:end], radix, 64)
		if err != nil {
			return &object.Number{Value: math.NaN()}, nil
		}
		if neg {
			n = -n
		}
		return &object.Number{Value: float64(n)}, nil
	}))

	defineGlobal(in, "parseFloat", hostFn(in, "parseFloat", func(this object.Value, args []object.Value) (object.Value, error) {
		s := strings.TrimSpace(toDisplayString(argAt(args, 0)))
		end := len(s)
		for end > 0 {
			if _, err := strconv.ParseFloat(s[:end], 64); err == nil {
				f, _ := strconv.ParseFloat(s[:end], 64)
				return &object.Number{Value: f}, nil
			}
			end--
		}
		return &object.Number{Value: math.NaN()}, nil
	}))

	defineGlobal(in, "isNaN", hostFn(in, "isNaN", func(this object.Value, args []object.Value) (object.Value, error) {
		return object.Bool(math.IsNaN(toNumber(argAt(args, 0)))), nil
	}))
	defineGlobal(in, "isFinite", hostFn(in, "isFinite", func(this object.Value, args []object.Value) (object.Value, error) {
		n := toNumber(argAt(args, 0))
		return object.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}))

	defineGlobal(in, "String", hostFn(in, "String", func(this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return &object.String{Value: ""}, nil
		}
		return &object.String{Value: toDisplayString(args[0])}, nil
	}))
	defineGlobal(in, "Number", hostFn(in, "Number", func(this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return &object.Number{Value: 0}, nil
		}
		return &object.Number{Value: toNumber(args[0])}, nil
	}))
	defineGlobal(in, "Boolean", hostFn(in, "Boolean", func(this object.Value, args []object.Value) (object.Value, error) {
		return object.Bool(isTruthy(argAt(args, 0))), nil
	}))

	defineGlobal(in, "setTimeout", hostFn(in, "setTimeout", func(this object.Value, args []object.Value) (object.Value, error) {
		fn, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return object.UndefinedValue, nil
		}
		delay := int64(toNumber(argAt(args, 1)))
		extra := append([]object.Value{}, args[minInt(2, len(args)):]...)
		id := in.Sched.ScheduleTimer(delay, func() {
			_, _ = in.callFunction(fn, object.UndefinedValue, extra)
		})
		return &object.Number{Value: float64(id)}, nil
	}))
	defineGlobal(in, "clearTimeout", hostFn(in, "clearTimeout", func(this object.Value, args []object.Value) (object.Value, error) {
		in.Sched.CancelTimer(sched.TimerHandle(int(toNumber(argAt(args, 0)))))
		return object.UndefinedValue, nil
	}))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func isDigitInRadix(c byte, radix int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < radix
}

func hostFn(in *Interpreter, name string, fn object.HostFunc) *object.HostCallable {
	return object.NewHostCallable(in.Protos.Function, name, fn)
}

// ---- Math ----------------------------------------------------------------

func installMath(in *Interpreter) {
	m := object.NewObject(in.Protos.Object)
	m.Set(object.StringKey("PI"), &object.Number{Value: math.Pi})
	m.Set(object.StringKey("E"), &object.Number{Value: math.E})

	unary := func(name string, f func(float64) float64) {
		hostMethod(in, m, name, func(this object.Value, args []object.Value) (object.Value, error) {
			return &object.Number{Value: f(toNumber(argAt(args, 0)))}, nil
		})
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("sign", func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return x
		}
	})
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)

	hostMethod(in, m, "pow", func(this object.Value, args []object.Value) (object.Value, error) {
		return &object.Number{Value: math.Pow(toNumber(argAt(args, 0)), toNumber(argAt(args, 1)))}, nil
	})
	hostMethod(in, m, "max", func(this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return &object.Number{Value: math.Inf(-1)}, nil
		}
		best := toNumber(args[0])
		for _, a := range args[1:] {
			if v := toNumber(a); v > best {
				best = v
			}
		}
		return &object.Number{Value: best}, nil
	})
	hostMethod(in, m, "min", func(this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return &object.Number{Value: math.Inf(1)}, nil
		}
		best := toNumber(args[0])
		for _, a := range args[1:] {
			if v := toNumber(a); v < best {
				best = v
			}
		}
		return &object.Number{Value: best}, nil
	})
	hostMethod(in, m, "random", func(this object.Value, args []object.Value) (object.Value, error) {
		return &object.Number{Value: pseudoRandom()}, nil
	})
	defineGlobal(in, "Math", m)
}

// pseudoRandom is a deterministic, dependency-free stand-in for Math.random:
// the engine has no host entropy source wired in yet.
var randState uint64 = 0x2545F4914F6CDD1D

func pseudoRandom() float64 {
	randState ^= randState << 13
	randState ^= randState >> 7
	randState ^= randState << 17
	return float64(randState%1_000_000) / 1_000_000
}

// ---- JSON ------------------------------------------------------------------

func installJSON(in *Interpreter) {
	j := object.NewObject(in.Protos.Object)
	hostMethod(in, j, "stringify", func(this object.Value, args []object.Value) (object.Value, error) {
		goVal := valueToGo(argAt(args, 0))
		var out []byte
		var err error
		if len(args) > 2 {
			indent := ""
			if n, ok := args[2].(*object.Number); ok {
				indent = strings.Repeat(" ", int(n.Value))
			} else if s, ok := args[2].(*object.String); ok {
				indent = s.Value
			}
			out, err = json.MarshalIndent(goVal, "", indent)
		} else {
			out, err = json.Marshal(goVal)
		}
		if err != nil {
			return nil, in.ThrowTypeError("JSON.stringify failed: %s", err.Error())
		}
		return &object.String{Value: string(out)}, nil
	})
	hostMethod(in, j, "parse", func(this object.Value, args []object.Value) (object.Value, error) {
		s, ok := argAt(args, 0).(*object.String)
		if !ok {
			return nil, in.ThrowTypeError("JSON.parse expects a string")
		}
		var data any
		if err := json.Unmarshal([]byte(s.Value), &data); err != nil {
			return nil, in.ThrowTypeError("JSON.parse error: %s", err.Error())
		}
		return in.goToValue(data), nil
	})
	defineGlobal(in, "JSON", j)
}

func valueToGo(v object.Value) any {
	switch x := v.(type) {
	case nil, *object.Undefined:
		return nil
	case *object.Null:
		return nil
	case *object.Boolean:
		return x.Value
	case *object.Number:
		return x.Value
	case *object.String:
		return x.Value
	case *object.Array:
		out := make([]any, len(x.Elements))
		for i, e := range x.Elements {
			out[i] = valueToGo(e)
		}
		return out
	case *object.Object:
		out := map[string]any{}
		for _, k := range x.OwnKeys() {
			desc, _ := x.GetOwn(k)
			if desc == nil || desc.Value == nil {
				continue
			}
			out[object.KeyString(k)] = valueToGo(desc.Value)
		}
		return out
	default:
		return v.String()
	}
}

func (in *Interpreter) goToValue(v any) object.Value {
	switch x := v.(type) {
	case nil:
		return object.NullValue
	case bool:
		return object.Bool(x)
	case float64:
		return &object.Number{Value: x}
	case string:
		return &object.String{Value: x}
	case []any:
		elems := make([]object.Value, len(x))
		for i, e := range x {
			elems[i] = in.goToValue(e)
		}
		return object.NewArray(in.Protos.Array, elems...)
	case map[string]any:
		obj := object.NewObject(in.Protos.Object)
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(object.StringKey(k), in.goToValue(x[k]))
		}
		return obj
	default:
		return object.UndefinedValue
	}
}

// ---- Object/Array namespaces ----------------------------------------------

func installObjectNamespace(in *Interpreter) {
	o := object.NewHostCallable(in.Protos.Function, "Object", func(this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return object.NewObject(in.Protos.Object), nil
		}
		return args[0], nil
	})
	hostMethod(in, o.Object, "keys", func(this object.Value, args []object.Value) (object.Value, error) {
		keys := ownEnumerableKeys(argAt(args, 0))
		out := make([]object.Value, len(keys))
		for i, k := range keys {
			out[i] = &object.String{Value: k}
		}
		return object.NewArray(in.Protos.Array, out...), nil
	})
	hostMethod(in, o.Object, "values", func(this object.Value, args []object.Value) (object.Value, error) {
		obj, ok := argAt(args, 0).(*object.Object)
		if !ok {
			return object.NewArray(in.Protos.Array), nil
		}
		var out []object.Value
		for _, k := range obj.OwnKeys() {
			desc, _ := obj.GetOwn(k)
			if desc != nil && desc.Enumerable {
				out = append(out, desc.Value)
			}
		}
		return object.NewArray(in.Protos.Array, out...), nil
	})
	hostMethod(in, o.Object, "entries", func(this object.Value, args []object.Value) (object.Value, error) {
		obj, ok := argAt(args, 0).(*object.Object)
		if !ok {
			return object.NewArray(in.Protos.Array), nil
		}
		var out []object.Value
		for _, k := range obj.OwnKeys() {
			desc, _ := obj.GetOwn(k)
			if desc != nil && desc.Enumerable {
				out = append(out, object.NewArray(in.Protos.Array, &object.String{Value: object.KeyString(k)}, desc.Value))
			}
		}
		return object.NewArray(in.Protos.Array, out...), nil
	})
	hostMethod(in, o.Object, "assign", func(this object.Value, args []object.Value) (object.Value, error) {
		target, ok := argAt(args, 0).(*object.Object)
		if !ok {
			return nil, in.ThrowTypeError("Object.assign target must be an object")
		}
		for _, src := range args[minInt(1, len(args)):] {
			srcObj, ok := src.(*object.Object)
			if !ok {
				continue
			}
			for _, k := range srcObj.OwnKeys() {
				desc, _ := srcObj.GetOwn(k)
				if desc != nil && desc.Enumerable {
					target.Set(k, desc.Value)
				}
			}
		}
		return target, nil
	})
	hostMethod(in, o.Object, "freeze", func(this object.Value, args []object.Value) (object.Value, error) {
		return argAt(args, 0), nil // no-op: mutability isn't tracked per object yet
	})
	o.Object.Set(object.StringKey("prototype"), in.Protos.Object)
	defineGlobal(in, "Object", o)
}

func ownEnumerableKeys(v object.Value) []string {
	obj, ok := v.(*object.Object)
	if !ok {
		return nil
	}
	var out []string
	for _, k := range obj.OwnKeys() {
		desc, _ := obj.GetOwn(k)
		if desc != nil && desc.Enumerable {
			out = append(out, object.KeyString(k))
		}
	}
	return out
}

func installArrayNamespace(in *Interpreter) {
	a := object.NewHostCallable(in.Protos.Function, "Array", func(this object.Value, args []object.Value) (object.Value, error) {
		return object.NewArray(in.Protos.Array, args...), nil
	})
	hostMethod(in, a.Object, "isArray", func(this object.Value, args []object.Value) (object.Value, error) {
		_, ok := argAt(args, 0).(*object.Array)
		return object.Bool(ok), nil
	})
	hostMethod(in, a.Object, "from", func(this object.Value, args []object.Value) (object.Value, error) {
		items, err := in.iterableToSlice(argAt(args, 0))
		if err != nil {
			return nil, err
		}
		if fn, ok := argAt(args, 1).(*object.Function); ok {
			mapped := make([]object.Value, len(items))
			for i, it := range items {
				v, err := in.callFunction(fn, object.UndefinedValue, []object.Value{it, &object.Number{Value: float64(i)}})
				if err != nil {
					return nil, err
				}
				mapped[i] = v
			}
			items = mapped
		}
		return object.NewArray(in.Protos.Array, items...), nil
	})
	a.Object.Set(object.StringKey("prototype"), in.Protos.Array)
	defineGlobal(in, "Array", a)
}

func installSymbolNamespace(in *Interpreter) {
	s := object.NewHostCallable(in.Protos.Function, "Symbol", func(this object.Value, args []object.Value) (object.Value, error) {
		desc := ""
		if len(args) > 0 {
			desc = toDisplayString(args[0])
		}
		return &object.Symbol{Description: desc}, nil
	})
	s.Object.Set(object.StringKey("iterator"), iterate.IteratorSymbol)
	defineGlobal(in, "Symbol", s)
}

func installPromiseNamespace(in *Interpreter) {
	p := object.NewHostCallable(in.Protos.Function, "Promise", func(this object.Value, args []object.Value) (object.Value, error) {
		executor, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Promise constructor expects a function")
		}
		pr := promise.New(in.Protos.Promise, in.Sched)
		resolveFn := hostFn(in, "resolve", func(_ object.Value, a []object.Value) (object.Value, error) {
			pr.Resolve(argAt(a, 0))
			return object.UndefinedValue, nil
		})
		rejectFn := hostFn(in, "reject", func(_ object.Value, a []object.Value) (object.Value, error) {
			pr.Reject(argAt(a, 0))
			return object.UndefinedValue, nil
		})
		if _, err := in.callFunction(executor, object.UndefinedValue, []object.Value{resolveFn, rejectFn}); err != nil {
			if te, ok := err.(*ThrowError); ok {
				pr.Reject(te.Value)
			} else {
				pr.Reject(&object.String{Value: err.Error()})
			}
		}
		return pr, nil
	})
	hostMethod(in, p.Object, "resolve", func(this object.Value, args []object.Value) (object.Value, error) {
		return promise.Resolved(in.Protos.Promise, in.Sched, argAt(args, 0)), nil
	})
	hostMethod(in, p.Object, "reject", func(this object.Value, args []object.Value) (object.Value, error) {
		return promise.RejectedWith(in.Protos.Promise, in.Sched, argAt(args, 0)), nil
	})
	hostMethod(in, p.Object, "all", func(this object.Value, args []object.Value) (object.Value, error) {
		items, err := in.iterableToSlice(argAt(args, 0))
		if err != nil {
			return nil, err
		}
		promises := make([]*promise.Promise, len(items))
		for i, it := range items {
			if pv, ok := it.(*promise.Promise); ok {
				promises[i] = pv
			} else {
				promises[i] = promise.Resolved(in.Protos.Promise, in.Sched, it)
			}
		}
		return promise.All(in.Protos.Promise, in.Protos.Array, in.Sched, promises), nil
	})
	hostMethod(in, p.Object, "race", func(this object.Value, args []object.Value) (object.Value, error) {
		items, err := in.iterableToSlice(argAt(args, 0))
		if err != nil {
			return nil, err
		}
		promises := make([]*promise.Promise, len(items))
		for i, it := range items {
			if pv, ok := it.(*promise.Promise); ok {
				promises[i] = pv
			} else {
				promises[i] = promise.Resolved(in.Protos.Promise, in.Sched, it)
			}
		}
		return promise.Race(in.Protos.Promise, in.Sched, promises), nil
	})
	p.Object.Set(object.StringKey("prototype"), in.Protos.Promise)
	defineGlobal(in, "Promise", p)

	installPromiseProto(in)
}

func installPromiseProto(in *Interpreter) {
	hostMethod(in, in.Protos.Promise, "then", func(this object.Value, args []object.Value) (object.Value, error) {
		p, ok := this.(*promise.Promise)
		if !ok {
			return nil, in.ThrowTypeError("Promise.prototype.then called on a non-promise")
		}
		onFulfilled := wrapReactionFn(in, argAt(args, 0))
		onRejected := wrapReactionFn(in, argAt(args, 1))
		return p.Then(onFulfilled, onRejected), nil
	})
	hostMethod(in, in.Protos.Promise, "catch", func(this object.Value, args []object.Value) (object.Value, error) {
		p, ok := this.(*promise.Promise)
		if !ok {
			return nil, in.ThrowTypeError("Promise.prototype.catch called on a non-promise")
		}
		return p.Catch(wrapReactionFn(in, argAt(args, 0))), nil
	})
	hostMethod(in, in.Protos.Promise, "finally", func(this object.Value, args []object.Value) (object.Value, error) {
		p, ok := this.(*promise.Promise)
		if !ok {
			return nil, in.ThrowTypeError("Promise.prototype.finally called on a non-promise")
		}
		fn, _ := argAt(args, 0).(*object.Function)
		runFinally := func(v object.Value) (object.Value, error) {
			if fn != nil {
				if _, err := in.callFunction(fn, object.UndefinedValue, nil); err != nil {
					return nil, err
				}
			}
			return v, nil
		}
		return p.Then(runFinally, func(reason object.Value) (object.Value, error) {
			if _, err := runFinally(reason); err != nil {
				return nil, err
			}
			return nil, Throw(reason)
		}), nil
	})
}

// wrapReactionFn adapts a script callback (or nil/non-function) into the
// Go func the promise package's Then/Catch expect.
func wrapReactionFn(in *Interpreter, v object.Value) func(object.Value) (object.Value, error) {
	fn, ok := v.(*object.Function)
	if !ok {
		return nil
	}
	return func(arg object.Value) (object.Value, error) {
		return in.callFunction(fn, object.UndefinedValue, []object.Value{arg})
	}
}

// ---- Map -----------------------------------------------------------------

func installMapNamespace(in *Interpreter) {
	m := object.NewHostCallable(in.Protos.Function, "Map", func(this object.Value, args []object.Value) (object.Value, error) {
		mp := object.NewMap(in.Protos.Map)
		entries := argAt(args, 0)
		if isNilish(entries) {
			return mp, nil
		}
		items, err := in.iterableToSlice(entries)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			pair, ok := it.(*object.Array)
			if !ok || len(pair.Elements) < 2 {
				return nil, in.ThrowTypeError("Map constructor expects an iterable of [key, value] pairs")
			}
			mp.MapSet(pair.Elements[0], pair.Elements[1])
		}
		return mp, nil
	})
	m.Object.Set(object.StringKey("prototype"), in.Protos.Map)
	defineGlobal(in, "Map", m)

	installMapProto(in)
}

func installMapProto(in *Interpreter) {
	asMap := func(in *Interpreter, this object.Value) (*object.Map, error) {
		mp, ok := this.(*object.Map)
		if !ok {
			return nil, in.ThrowTypeError("Map.prototype method called on a non-Map")
		}
		return mp, nil
	}
	hostMethod(in, in.Protos.Map, "get", func(this object.Value, args []object.Value) (object.Value, error) {
		mp, err := asMap(in, this)
		if err != nil {
			return nil, err
		}
		if v, ok := mp.MapGet(argAt(args, 0)); ok {
			return v, nil
		}
		return object.UndefinedValue, nil
	})
	hostMethod(in, in.Protos.Map, "set", func(this object.Value, args []object.Value) (object.Value, error) {
		mp, err := asMap(in, this)
		if err != nil {
			return nil, err
		}
		mp.MapSet(argAt(args, 0), argAt(args, 1))
		return mp, nil
	})
	hostMethod(in, in.Protos.Map, "has", func(this object.Value, args []object.Value) (object.Value, error) {
		mp, err := asMap(in, this)
		if err != nil {
			return nil, err
		}
		_, ok := mp.MapGet(argAt(args, 0))
		return object.Bool(ok), nil
	})
	hostMethod(in, in.Protos.Map, "delete", func(this object.Value, args []object.Value) (object.Value, error) {
		mp, err := asMap(in, this)
		if err != nil {
			return nil, err
		}
		return object.Bool(mp.MapDelete(argAt(args, 0))), nil
	})
	hostMethod(in, in.Protos.Map, "forEach", func(this object.Value, args []object.Value) (object.Value, error) {
		mp, err := asMap(in, this)
		if err != nil {
			return nil, err
		}
		fn, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Map.prototype.forEach expects a function")
		}
		for _, kv := range mp.MapEntries() {
			if _, err := in.callFunction(fn, object.UndefinedValue, []object.Value{kv[1], kv[0], mp}); err != nil {
				return nil, err
			}
		}
		return object.UndefinedValue, nil
	})
}

// ---- WeakMap ---------------------------------------------------------------

func installWeakMapNamespace(in *Interpreter) {
	w := object.NewHostCallable(in.Protos.Function, "WeakMap", func(this object.Value, args []object.Value) (object.Value, error) {
		wm := object.NewWeakMap(in.Protos.WeakMap)
		entries := argAt(args, 0)
		if isNilish(entries) {
			return wm, nil
		}
		items, err := in.iterableToSlice(entries)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			pair, ok := it.(*object.Array)
			if !ok || len(pair.Elements) < 2 {
				return nil, in.ThrowTypeError("WeakMap constructor expects an iterable of [key, value] pairs")
			}
			if !wm.WeakMapSet(pair.Elements[0], pair.Elements[1]) {
				return nil, in.ThrowTypeError("Invalid value used as weak map key")
			}
		}
		return wm, nil
	})
	w.Object.Set(object.StringKey("prototype"), in.Protos.WeakMap)
	defineGlobal(in, "WeakMap", w)

	installWeakMapProto(in)
}

func installWeakMapProto(in *Interpreter) {
	asWeakMap := func(in *Interpreter, this object.Value) (*object.WeakMap, error) {
		wm, ok := this.(*object.WeakMap)
		if !ok {
			return nil, in.ThrowTypeError("WeakMap.prototype method called on a non-WeakMap")
		}
		return wm, nil
	}
	hostMethod(in, in.Protos.WeakMap, "get", func(this object.Value, args []object.Value) (object.Value, error) {
		wm, err := asWeakMap(in, this)
		if err != nil {
			return nil, err
		}
		if v, ok := wm.WeakMapGet(argAt(args, 0)); ok {
			return v, nil
		}
		return object.UndefinedValue, nil
	})
	hostMethod(in, in.Protos.WeakMap, "set", func(this object.Value, args []object.Value) (object.Value, error) {
		wm, err := asWeakMap(in, this)
		if err != nil {
			return nil, err
		}
		key := argAt(args, 0)
		if !wm.WeakMapSet(key, argAt(args, 1)) {
			return nil, in.ThrowTypeError("Invalid value used as weak map key")
		}
		return wm, nil
	})
	hostMethod(in, in.Protos.WeakMap, "has", func(this object.Value, args []object.Value) (object.Value, error) {
		wm, err := asWeakMap(in, this)
		if err != nil {
			return nil, err
		}
		return object.Bool(wm.WeakMapHas(argAt(args, 0))), nil
	})
	hostMethod(in, in.Protos.WeakMap, "delete", func(this object.Value, args []object.Value) (object.Value, error) {
		wm, err := asWeakMap(in, this)
		if err != nil {
			return nil, err
		}
		return object.Bool(wm.WeakMapDelete(argAt(args, 0))), nil
	})
}

// ---- Object.prototype ------------------------------------------------------

func installObjectProto(in *Interpreter) {
	hostMethod(in, in.Protos.Object, "hasOwnProperty", func(this object.Value, args []object.Value) (object.Value, error) {
		obj, ok := this.(*object.Object)
		if !ok {
			return object.False, nil
		}
		key := object.StringKey(toDisplayString(argAt(args, 0)))
		_, found := obj.GetOwn(key)
		return object.Bool(found), nil
	})
	hostMethod(in, in.Protos.Object, "toString", func(this object.Value, args []object.Value) (object.Value, error) {
		return &object.String{Value: toDisplayString(this)}, nil
	})
	hostMethod(in, in.Protos.Object, "isPrototypeOf", func(this object.Value, args []object.Value) (object.Value, error) {
		target, ok := argAt(args, 0).(*object.Object)
		self, selfOk := this.(*object.Object)
		if !ok || !selfOk {
			return object.False, nil
		}
		for cur := target.Proto; cur != nil; cur = cur.Proto {
			if cur == self {
				return object.True, nil
			}
		}
		return object.False, nil
	})
}

// ---- Function.prototype -----------------------------------------------------

func installFunctionProto(in *Interpreter) {
	hostMethod(in, in.Protos.Function, "call", func(this object.Value, args []object.Value) (object.Value, error) {
		fn, ok := this.(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Function.prototype.call called on a non-function")
		}
		newThis := argAt(args, 0)
		rest := []object.Value{}
		if len(args) > 1 {
			rest = args[1:]
		}
		return in.callFunction(fn, newThis, rest)
	})
	hostMethod(in, in.Protos.Function, "apply", func(this object.Value, args []object.Value) (object.Value, error) {
		fn, ok := this.(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Function.prototype.apply called on a non-function")
		}
		newThis := argAt(args, 0)
		var callArgs []object.Value
		if arr, ok := argAt(args, 1).(*object.Array); ok {
			callArgs = arr.Elements
		}
		return in.callFunction(fn, newThis, callArgs)
	})
	hostMethod(in, in.Protos.Function, "bind", func(this object.Value, args []object.Value) (object.Value, error) {
		fn, ok := this.(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Function.prototype.bind called on a non-function")
		}
		boundThis := argAt(args, 0)
		preset := append([]object.Value{}, args[minInt(1, len(args)):]...)
		return object.NewHostCallable(in.Protos.Function, "bound "+fn.Name, func(_ object.Value, callArgs []object.Value) (object.Value, error) {
			return in.callFunction(fn, boundThis, append(append([]object.Value{}, preset...), callArgs...))
		}), nil
	})
}

// ---- Generator.prototype -----------------------------------------------------

func generatorResult(in *Interpreter, res generator.Result) *object.Object {
	obj := object.NewObject(in.Protos.Object)
	obj.Set(object.StringKey("value"), res.Value)
	obj.Set(object.StringKey("done"), object.Bool(res.Done))
	return obj
}

func installGeneratorProto(in *Interpreter) {
	hostMethod(in, in.Protos.Generator, "next", func(this object.Value, args []object.Value) (object.Value, error) {
		g, ok := this.(*generator.Generator)
		if !ok {
			return nil, in.ThrowTypeError("Generator.prototype.next called on a non-generator")
		}
		res, err := g.Next(argAt(args, 0))
		if err != nil {
			return nil, Throw(errToValue(err))
		}
		return generatorResult(in, res), nil
	})
	hostMethod(in, in.Protos.Generator, "return", func(this object.Value, args []object.Value) (object.Value, error) {
		g, ok := this.(*generator.Generator)
		if !ok {
			return nil, in.ThrowTypeError("Generator.prototype.return called on a non-generator")
		}
		res, err := g.Return(argAt(args, 0))
		if err != nil {
			return nil, Throw(errToValue(err))
		}
		return generatorResult(in, res), nil
	})
	hostMethod(in, in.Protos.Generator, "throw", func(this object.Value, args []object.Value) (object.Value, error) {
		g, ok := this.(*generator.Generator)
		if !ok {
			return nil, in.ThrowTypeError("Generator.prototype.throw called on a non-generator")
		}
		res, err := g.Throw(argAt(args, 0))
		if err != nil {
			return nil, Throw(errToValue(err))
		}
		return generatorResult(in, res), nil
	})
	in.Protos.Generator.SetDescriptor(object.SymbolKey(iterate.IteratorSymbol), &object.PropertyDescriptor{
		Value: object.NewHostCallable(in.Protos.Function, "[Symbol.iterator]", func(this object.Value, args []object.Value) (object.Value, error) {
			return this, nil
		}),
	})
}

// errToValue recovers the thrown script value carried by a *ThrowError
// (e.g. one raised by an uncaught yield*/next-driven body error), falling
// back to a plain string for host-originated errors.
func errToValue(err error) object.Value {
	if te, ok := err.(*ThrowError); ok {
		return te.Value
	}
	return &object.String{Value: err.Error()}
}

// ---- Array.prototype --------------------------------------------------------

func arrayThis(in *Interpreter, v object.Value) (*object.Array, error) {
	arr, ok := v.(*object.Array)
	if !ok {
		return nil, in.ThrowTypeError("Array.prototype method called on a non-array")
	}
	return arr, nil
}

func installArrayProto(in *Interpreter) {
	hostMethod(in, in.Protos.Array, "push", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, args...)
		return &object.Number{Value: float64(len(arr.Elements))}, nil
	})
	hostMethod(in, in.Protos.Array, "pop", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		if len(arr.Elements) == 0 {
			return object.UndefinedValue, nil
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]
		return last, nil
	})
	hostMethod(in, in.Protos.Array, "shift", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		if len(arr.Elements) == 0 {
			return object.UndefinedValue, nil
		}
		first := arr.Elements[0]
		arr.Elements = arr.Elements[1:]
		return first, nil
	})
	hostMethod(in, in.Protos.Array, "unshift", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		arr.Elements = append(append([]object.Value{}, args...), arr.Elements...)
		return &object.Number{Value: float64(len(arr.Elements))}, nil
	})
	hostMethod(in, in.Protos.Array, "slice", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		start, end := sliceBounds(len(arr.Elements), args)
		out := append([]object.Value{}, arr.Elements[start:end]...)
		return object.NewArray(in.Protos.Array, out...), nil
	})
	hostMethod(in, in.Protos.Array, "splice", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		n := len(arr.Elements)
		start := clampIndex(int(toNumber(argAt(args, 0))), n)
		deleteCount := n - start
		if len(args) > 1 {
			deleteCount = clampIndex(int(toNumber(args[1])), n-start)
		}
		removed := append([]object.Value{}, arr.Elements[start:start+deleteCount]...)
		inserted := []object.Value{}
		if len(args) > 2 {
			inserted = args[2:]
		}
		rest := append([]object.Value{}, arr.Elements[start+deleteCount:]...)
		arr.Elements = append(append(arr.Elements[:start], inserted...), rest...)
		return object.NewArray(in.Protos.Array, removed...), nil
	})
	hostMethod(in, in.Protos.Array, "concat", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		out := append([]object.Value{}, arr.Elements...)
		for _, a := range args {
			if other, ok := a.(*object.Array); ok {
				out = append(out, other.Elements...)
			} else {
				out = append(out, a)
			}
		}
		return object.NewArray(in.Protos.Array, out...), nil
	})
	hostMethod(in, in.Protos.Array, "join", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		sep := ","
		if len(args) > 0 {
			if _, isUndef := args[0].(*object.Undefined); !isUndef {
				sep = toDisplayString(args[0])
			}
		}
		parts := make([]string, len(arr.Elements))
		for i, e := range arr.Elements {
			if _, isNull := e.(*object.Null); isNull {
				continue
			}
			if _, isUndef := e.(*object.Undefined); isUndef {
				continue
			}
			parts[i] = toDisplayString(e)
		}
		return &object.String{Value: strings.Join(parts, sep)}, nil
	})
	hostMethod(in, in.Protos.Array, "reverse", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(arr.Elements)-1; i < j; i, j = i+1, j-1 {
			arr.Elements[i], arr.Elements[j] = arr.Elements[j], arr.Elements[i]
		}
		return arr, nil
	})
	hostMethod(in, in.Protos.Array, "indexOf", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		target := argAt(args, 0)
		for i, e := range arr.Elements {
			if strictEquals(e, target) {
				return &object.Number{Value: float64(i)}, nil
			}
		}
		return &object.Number{Value: -1}, nil
	})
	hostMethod(in, in.Protos.Array, "includes", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		target := argAt(args, 0)
		for _, e := range arr.Elements {
			if strictEquals(e, target) {
				return object.True, nil
			}
		}
		return object.False, nil
	})
	hostMethod(in, in.Protos.Array, "forEach", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		fn, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Array.prototype.forEach expects a function")
		}
		for i, e := range arr.Elements {
			if _, err := in.callFunction(fn, object.UndefinedValue, []object.Value{e, &object.Number{Value: float64(i)}, arr}); err != nil {
				return nil, err
			}
		}
		return object.UndefinedValue, nil
	})
	hostMethod(in, in.Protos.Array, "map", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		fn, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Array.prototype.map expects a function")
		}
		out := make([]object.Value, len(arr.Elements))
		for i, e := range arr.Elements {
			v, err := in.callFunction(fn, object.UndefinedValue, []object.Value{e, &object.Number{Value: float64(i)}, arr})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return object.NewArray(in.Protos.Array, out...), nil
	})
	hostMethod(in, in.Protos.Array, "filter", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		fn, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Array.prototype.filter expects a function")
		}
		var out []object.Value
		for i, e := range arr.Elements {
			v, err := in.callFunction(fn, object.UndefinedValue, []object.Value{e, &object.Number{Value: float64(i)}, arr})
			if err != nil {
				return nil, err
			}
			if isTruthy(v) {
				out = append(out, e)
			}
		}
		return object.NewArray(in.Protos.Array, out...), nil
	})
	hostMethod(in, in.Protos.Array, "find", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		fn, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Array.prototype.find expects a function")
		}
		for i, e := range arr.Elements {
			v, err := in.callFunction(fn, object.UndefinedValue, []object.Value{e, &object.Number{Value: float64(i)}, arr})
			if err != nil {
				return nil, err
			}
			if isTruthy(v) {
				return e, nil
			}
		}
		return object.UndefinedValue, nil
	})
	hostMethod(in, in.Protos.Array, "some", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		fn, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Array.prototype.some expects a function")
		}
		for i, e := range arr.Elements {
			v, err := in.callFunction(fn, object.UndefinedValue, []object.Value{e, &object.Number{Value: float64(i)}, arr})
			if err != nil {
				return nil, err
			}
			if isTruthy(v) {
				return object.True, nil
			}
		}
		return object.False, nil
	})
	hostMethod(in, in.Protos.Array, "every", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		fn, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Array.prototype.every expects a function")
		}
		for i, e := range arr.Elements {
			v, err := in.callFunction(fn, object.UndefinedValue, []object.Value{e, &object.Number{Value: float64(i)}, arr})
			if err != nil {
				return nil, err
			}
			if !isTruthy(v) {
				return object.False, nil
			}
		}
		return object.True, nil
	})
	hostMethod(in, in.Protos.Array, "reduce", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		fn, ok := argAt(args, 0).(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("Array.prototype.reduce expects a function")
		}
		i := 0
		var acc object.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(arr.Elements) == 0 {
				return nil, in.ThrowTypeError("Reduce of empty array with no initial value")
			}
			acc = arr.Elements[0]
			i = 1
		}
		for ; i < len(arr.Elements); i++ {
			v, err := in.callFunction(fn, object.UndefinedValue, []object.Value{acc, arr.Elements[i], &object.Number{Value: float64(i)}, arr})
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	})
	hostMethod(in, in.Protos.Array, "sort", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		cmp, _ := argAt(args, 0).(*object.Function)
		var sortErr error
		sort.SliceStable(arr.Elements, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if cmp != nil {
				v, err := in.callFunction(cmp, object.UndefinedValue, []object.Value{arr.Elements[i], arr.Elements[j]})
				if err != nil {
					sortErr = err
					return false
				}
				return toNumber(v) < 0
			}
			return toDisplayString(arr.Elements[i]) < toDisplayString(arr.Elements[j])
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return arr, nil
	})
	hostMethod(in, in.Protos.Array, "flat", func(this object.Value, args []object.Value) (object.Value, error) {
		arr, err := arrayThis(in, this)
		if err != nil {
			return nil, err
		}
		depth := 1
		if len(args) > 0 {
			depth = int(toNumber(args[0]))
		}
		return object.NewArray(in.Protos.Array, flattenArray(arr.Elements, depth)...), nil
	})

	in.Protos.Array.SetDescriptor(object.SymbolKey(iterate.IteratorSymbol), &object.PropertyDescriptor{
		Value: object.NewHostCallable(in.Protos.Function, "[Symbol.iterator]", func(this object.Value, args []object.Value) (object.Value, error) {
			return newArrayIterator(in, this), nil
		}),
	})
}

func flattenArray(elems []object.Value, depth int) []object.Value {
	var out []object.Value
	for _, e := range elems {
		if arr, ok := e.(*object.Array); ok && depth > 0 {
			out = append(out, flattenArray(arr.Elements, depth-1)...)
		} else {
			out = append(out, e)
		}
	}
	return out
}

func sliceBounds(n int, args []object.Value) (int, int) {
	start := 0
	end := n
	if len(args) > 0 {
		start = clampIndex(int(toNumber(args[0])), n)
	}
	if len(args) > 1 {
		if _, isUndef := args[1].(*object.Undefined); !isUndef {
			end = clampIndex(int(toNumber(args[1])), n)
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// newArrayIterator builds a plain iterator-protocol object over arr for
// direct `.next()` calls; each call reads arr.Elements as it is at that
// moment, so elements added after creation are visited too.
func newArrayIterator(in *Interpreter, this object.Value) *object.Object {
	arr, ok := this.(*object.Array)
	if !ok {
		arr = object.NewArray(in.Protos.Array)
	}
	it := object.NewObject(in.Protos.Iterator)
	i := 0
	hostMethod(in, it, "next", func(_ object.Value, _ []object.Value) (object.Value, error) {
		res := object.NewObject(in.Protos.Object)
		if i >= len(arr.Elements) {
			res.Set(object.StringKey("done"), object.True)
			res.Set(object.StringKey("value"), object.UndefinedValue)
			return res, nil
		}
		res.Set(object.StringKey("done"), object.False)
		res.Set(object.StringKey("value"), arr.Elements[i])
		i++
		return res, nil
	})
	return it
}

// ---- String.prototype --------------------------------------------------------

func stringThis(in *Interpreter, v object.Value) (string, error) {
	if s, ok := v.(*object.String); ok {
		return s.Value, nil
	}
	return "", in.ThrowTypeError("String.prototype method called on a non-string")
}

func installStringProto(in *Interpreter) {
	hostMethod(in, in.Protos.String, "slice", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		r := []rune(s)
		start, end := sliceBounds(len(r), args)
		return &object.String{Value: string(r[start:end])}, nil
	})
	hostMethod(in, in.Protos.String, "charAt", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		r := []rune(s)
		idx := int(toNumber(argAt(args, 0)))
		if idx < 0 || idx >= len(r) {
			return &object.String{Value: ""}, nil
		}
		return &object.String{Value: string(r[idx])}, nil
	})
	hostMethod(in, in.Protos.String, "charCodeAt", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		r := []rune(s)
		idx := int(toNumber(argAt(args, 0)))
		if idx < 0 || idx >= len(r) {
			return &object.Number{Value: math.NaN()}, nil
		}
		return &object.Number{Value: float64(r[idx])}, nil
	})
	hostMethod(in, in.Protos.String, "toUpperCase", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: strings.ToUpper(s)}, nil
	})
	hostMethod(in, in.Protos.String, "toLowerCase", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: strings.ToLower(s)}, nil
	})
	hostMethod(in, in.Protos.String, "trim", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: strings.TrimSpace(s)}, nil
	})
	hostMethod(in, in.Protos.String, "indexOf", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return &object.Number{Value: float64(strings.Index(s, toDisplayString(argAt(args, 0))))}, nil
	})
	hostMethod(in, in.Protos.String, "includes", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return object.Bool(strings.Contains(s, toDisplayString(argAt(args, 0)))), nil
	})
	hostMethod(in, in.Protos.String, "startsWith", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return object.Bool(strings.HasPrefix(s, toDisplayString(argAt(args, 0)))), nil
	})
	hostMethod(in, in.Protos.String, "endsWith", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return object.Bool(strings.HasSuffix(s, toDisplayString(argAt(args, 0)))), nil
	})
	hostMethod(in, in.Protos.String, "split", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return object.NewArray(in.Protos.Array, &object.String{Value: s}), nil
		}
		sep := toDisplayString(args[0])
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]object.Value, len(parts))
		for i, p := range parts {
			out[i] = &object.String{Value: p}
		}
		return object.NewArray(in.Protos.Array, out...), nil
	})
	hostMethod(in, in.Protos.String, "replace", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		search := toDisplayString(argAt(args, 0))
		replacement := toDisplayString(argAt(args, 1))
		return &object.String{Value: strings.Replace(s, search, replacement, 1)}, nil
	})
	hostMethod(in, in.Protos.String, "replaceAll", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		search := toDisplayString(argAt(args, 0))
		replacement := toDisplayString(argAt(args, 1))
		return &object.String{Value: strings.ReplaceAll(s, search, replacement)}, nil
	})
	hostMethod(in, in.Protos.String, "repeat", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		n := int(toNumber(argAt(args, 0)))
		if n < 0 {
			return nil, in.ThrowTypeError("invalid count value")
		}
		return &object.String{Value: strings.Repeat(s, n)}, nil
	})
	hostMethod(in, in.Protos.String, "concat", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		sb.WriteString(s)
		for _, a := range args {
			sb.WriteString(toDisplayString(a))
		}
		return &object.String{Value: sb.String()}, nil
	})
	hostMethod(in, in.Protos.String, "padStart", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: padString(s, args, true)}, nil
	})
	hostMethod(in, in.Protos.String, "padEnd", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: padString(s, args, false)}, nil
	})
	hostMethod(in, in.Protos.String, "toString", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: s}, nil
	})
	hostMethod(in, in.Protos.String, "normalize", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		form := "NFC"
		if len(args) > 0 {
			form = toDisplayString(args[0])
		}
		var f norm.Form
		switch form {
		case "NFD":
			f = norm.NFD
		case "NFKC":
			f = norm.NFKC
		case "NFKD":
			f = norm.NFKD
		case "NFC":
			f = norm.NFC
		default:
			return nil, in.ThrowTypeError("invalid normalization form %q", form)
		}
		return &object.String{Value: f.String(s)}, nil
	})
	hostMethod(in, in.Protos.String, "localeCompare", func(this object.Value, args []object.Value) (object.Value, error) {
		s, err := stringThis(in, this)
		if err != nil {
			return nil, err
		}
		other := toDisplayString(argAt(args, 0))
		tag := language.Und
		if len(args) > 1 {
			if t, parseErr := language.Parse(toDisplayString(args[1])); parseErr == nil {
				tag = t
			}
		}
		c := collate.New(tag)
		return &object.Number{Value: float64(c.CompareString(s, other))}, nil
	})
}

func padString(s string, args []object.Value, start bool) string {
	targetLen := 0
	if len(args) > 0 {
		targetLen = int(toNumber(args[0]))
	}
	pad := " "
	if len(args) > 1 {
		pad = toDisplayString(args[1])
	}
	r := []rune(s)
	if pad == "" || len(r) >= targetLen {
		return s
	}
	need := targetLen - len(r)
	padRunes := []rune(strings.Repeat(pad, (need/len([]rune(pad)))+1))[:need]
	if start {
		return string(padRunes) + s
	}
	return s + string(padRunes)
}
