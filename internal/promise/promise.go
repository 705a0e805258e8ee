// Package promise implements the Promise runtime (C11): the
// pending/fulfilled/rejected state machine, then/catch reaction
// scheduling through internal/sched's microtask queue, and the all/race
// combinators (spec §7 Promises). finally is implemented in internal/eval;
// there are no allSettled/any combinators.
package promise

import (
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/internal/sched"
)

// State is a promise's settlement state.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

// Promise is a settleable value wired to a Scheduler for deferred
// reaction dispatch.
type Promise struct {
	*object.Object
	state     State
	value     object.Value
	sched     *sched.Scheduler
	reactions []reaction
}

type reaction struct {
	onFulfilled func(object.Value) (object.Value, error)
	onRejected  func(object.Value) (object.Value, error)
	settle      func(State, object.Value)
}

// New creates a pending promise wired to sc, linked to proto.
func New(proto *object.Object, sc *sched.Scheduler) *Promise {
	return &Promise{Object: object.NewObject(proto), state: Pending, sched: sc}
}

func (p *Promise) Type() string   { return "object" }
func (p *Promise) String() string { return "[object Promise]" }

// StateValue reports the current settlement state.
func (p *Promise) StateValue() State { return p.state }

// AsObject implements object.Objecter so eval's property lookup can resolve
// Promise.prototype methods (then/catch/finally) through the prototype
// chain like any other composite value.
func (p *Promise) AsObject() *object.Object { return p.Object }

// Value returns the fulfillment value or rejection reason once settled. It
// is meaningless while the promise is still Pending.
func (p *Promise) Value() object.Value { return p.value }

// Resolve settles the promise as fulfilled with v, unless v is itself a
// thenable promise, in which case this promise adopts its eventual state
// (spec §7 promise resolution procedure).
func (p *Promise) Resolve(v object.Value) {
	if p.state != Pending {
		return
	}
	if inner, ok := v.(*Promise); ok {
		inner.Then(
			func(iv object.Value) (object.Value, error) { p.Resolve(iv); return nil, nil },
			func(reason object.Value) (object.Value, error) { p.Reject(reason); return nil, nil },
		)
		return
	}
	p.settle(Fulfilled, v)
}

// Reject settles the promise as rejected with reason.
func (p *Promise) Reject(reason object.Value) {
	if p.state != Pending {
		return
	}
	p.settle(Rejected, reason)
}

func (p *Promise) settle(st State, v object.Value) {
	p.state = st
	p.value = v
	pending := p.reactions
	p.reactions = nil
	for _, r := range pending {
		r := r
		p.sched.EnqueueMicrotask(func() { p.runReaction(r) })
	}
}

func (p *Promise) runReaction(r reaction) {
	switch p.state {
	case Fulfilled:
		if r.onFulfilled != nil {
			v, err := r.onFulfilled(p.value)
			if err != nil {
				r.settle(Rejected, errValue(err))
				return
			}
			r.settle(Fulfilled, v)
		} else {
			r.settle(Fulfilled, p.value)
		}
	case Rejected:
		if r.onRejected != nil {
			v, err := r.onRejected(p.value)
			if err != nil {
				r.settle(Rejected, errValue(err))
				return
			}
			r.settle(Fulfilled, v)
		} else {
			r.settle(Rejected, p.value)
		}
	}
}

// errValue extracts a script value from a Go error that wraps one (eval's
// *ThrowError carries an object.Value), falling back to a plain string.
func errValue(err error) object.Value {
	if tv, ok := err.(interface{ ScriptValue() object.Value }); ok {
		return tv.ScriptValue()
	}
	return &object.String{Value: err.Error()}
}

// Then registers fulfillment/rejection handlers and returns the derived
// promise they settle, per the Promises/A+ chaining algorithm (spec §7).
func (p *Promise) Then(onFulfilled, onRejected func(object.Value) (object.Value, error)) *Promise {
	derived := New(p.Proto, p.sched)
	r := reaction{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
		settle: func(st State, v object.Value) {
			if st == Fulfilled {
				derived.Resolve(v)
			} else {
				derived.Reject(v)
			}
		},
	}
	if p.state == Pending {
		p.reactions = append(p.reactions, r)
		return derived
	}
	p.sched.EnqueueMicrotask(func() { p.runReaction(r) })
	return derived
}

// Catch is sugar for Then(nil, onRejected).
func (p *Promise) Catch(onRejected func(object.Value) (object.Value, error)) *Promise {
	return p.Then(nil, onRejected)
}

// Resolved returns an already-fulfilled promise, used by Promise.resolve
// and by the all/race combinators.
func Resolved(proto *object.Object, sc *sched.Scheduler, v object.Value) *Promise {
	p := New(proto, sc)
	p.Resolve(v)
	return p
}

// RejectedWith returns an already-rejected promise.
func RejectedWith(proto *object.Object, sc *sched.Scheduler, reason object.Value) *Promise {
	p := New(proto, sc)
	p.Reject(reason)
	return p
}

// All implements Promise.all: fulfills with an array of results once every
// input settles, or rejects as soon as any one does (spec §7 combinators).
func All(proto *object.Object, arrayProto *object.Object, sc *sched.Scheduler, promises []*Promise) *Promise {
	result := New(proto, sc)
	if len(promises) == 0 {
		result.Resolve(object.NewArray(arrayProto))
		return result
	}
	values := make([]object.Value, len(promises))
	remaining := len(promises)
	for i, p := range promises {
		i := i
		p.Then(
			func(v object.Value) (object.Value, error) {
				values[i] = v
				remaining--
				if remaining == 0 {
					result.Resolve(object.NewArray(arrayProto, values...))
				}
				return nil, nil
			},
			func(reason object.Value) (object.Value, error) {
				result.Reject(reason)
				return nil, nil
			},
		)
	}
	return result
}

// Race settles with whichever input promise settles first.
func Race(proto *object.Object, sc *sched.Scheduler, promises []*Promise) *Promise {
	result := New(proto, sc)
	for _, p := range promises {
		p.Then(
			func(v object.Value) (object.Value, error) { result.Resolve(v); return nil, nil },
			func(reason object.Value) (object.Value, error) { result.Reject(reason); return nil, nil },
		)
	}
	return result
}
