package eval

import (
	"github.com/cwbudde/ecmalite/internal/env"
	"github.com/cwbudde/ecmalite/internal/generator"
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/internal/promise"
	"github.com/cwbudde/ecmalite/pkg/ast"
)

// evalYield suspends the enclosing generator body, handing the yielded
// value to whichever Next/Return/Throw call is waiting on the other side
// of the Yielder channel pair (spec §4.11 Generators).
func (in *Interpreter) evalYield(n *ast.YieldExpression, e *env.Environment) (object.Value, error) {
	ctx, _ := e.UserData().(*callContext)
	if ctx == nil || ctx.yielder == nil {
		return nil, in.ThrowTypeError("yield is only valid inside a generator function")
	}

	yieldOne := func(v object.Value) (object.Value, error) {
		sent, err := ctx.yielder.Yield(v)
		if err != nil {
			if ts, ok := err.(*generator.ThrowSignal); ok {
				return nil, Throw(ts.Value)
			}
			// *generator.ReturnSignal propagates unchanged: it is not a
			// *ThrowError, so try/catch blocks in the body won't catch it,
			// but any enclosing finally still runs as the error unwinds to
			// runGenerator's wrapper, which converts it to a clean result.
			return nil, err
		}
		return sent, nil
	}

	if n.Delegate {
		var source object.Value = object.UndefinedValue
		if n.Argument != nil {
			v, err := in.evalExpression(n.Argument, e)
			if err != nil {
				return nil, err
			}
			source = v
		}
		items, err := in.iterableToSlice(source)
		if err != nil {
			return nil, err
		}
		var last object.Value = object.UndefinedValue
		for _, item := range items {
			last, err = yieldOne(item)
			if err != nil {
				return nil, err
			}
		}
		return last, nil
	}

	var arg object.Value = object.UndefinedValue
	if n.Argument != nil {
		v, err := in.evalExpression(n.Argument, e)
		if err != nil {
			return nil, err
		}
		arg = v
	}
	return yieldOne(arg)
}

// evalAwait suspends the enclosing async function body until the awaited
// value settles, handing control back to the caller-side driver so the
// scheduler can keep processing other microtasks/timers in the meantime
// (spec §4.12 async/await).
func (in *Interpreter) evalAwait(n *ast.AwaitExpression, e *env.Environment) (object.Value, error) {
	v, err := in.evalExpression(n.Argument, e)
	if err != nil {
		return nil, err
	}

	p, isPromise := v.(*promise.Promise)

	ctx, _ := e.UserData().(*callContext)
	if ctx == nil || ctx.async == nil {
		// A top-level or synchronously-driven await outside of an async
		// function's goroutine: pump the scheduler directly since there is
		// no body goroutine to suspend.
		if !isPromise {
			return v, nil
		}
		for p.StateValue() == promise.Pending {
			if in.Sched.Idle() {
				break
			}
			in.Sched.RunMicrotasks()
		}
		if p.StateValue() == promise.Rejected {
			return nil, Throw(p.Value())
		}
		return p.Value(), nil
	}

	if !isPromise {
		return v, nil
	}

	ctx.async.suspendCh <- asyncSuspend{awaited: p}
	resume := <-ctx.async.resumeCh
	if resume.err != nil {
		return nil, resume.err
	}
	return resume.value, nil
}
