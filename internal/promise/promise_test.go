package promise

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/internal/sched"
)

func TestResolveSettlesFulfilledAndRunsThenOnNextMicrotaskDrain(t *testing.T) {
	sc := sched.New()
	p := New(nil, sc)

	var got object.Value
	p.Then(func(v object.Value) (object.Value, error) {
		got = v
		return nil, nil
	}, nil)

	p.Resolve(&object.Number{Value: 7})
	assert.Nil(t, got, "reaction must not run synchronously")

	sc.RunMicrotasks()
	require.NotNil(t, got)
	assert.Equal(t, float64(7), got.(*object.Number).Value)
	assert.Equal(t, Fulfilled, p.StateValue())
}

func TestRejectSettlesRejectedAndRunsCatch(t *testing.T) {
	sc := sched.New()
	p := New(nil, sc)

	var reason object.Value
	p.Catch(func(v object.Value) (object.Value, error) {
		reason = v
		return nil, nil
	})

	p.Reject(&object.String{Value: "boom"})
	sc.RunMicrotasks()

	require.NotNil(t, reason)
	assert.Equal(t, "boom", reason.(*object.String).Value)
	assert.Equal(t, Rejected, p.StateValue())
}

func TestResolveIsIdempotentOnceSettled(t *testing.T) {
	sc := sched.New()
	p := New(nil, sc)

	p.Resolve(&object.Number{Value: 1})
	p.Resolve(&object.Number{Value: 2})
	p.Reject(&object.String{Value: "ignored"})

	assert.Equal(t, Fulfilled, p.StateValue())
	assert.Equal(t, float64(1), p.Value().(*object.Number).Value)
}

func TestResolveWithThenableAdoptsInnerPromiseState(t *testing.T) {
	sc := sched.New()
	inner := New(nil, sc)
	outer := New(nil, sc)

	outer.Resolve(inner)
	inner.Resolve(&object.Number{Value: 99})

	// Draining lets the adoption reaction (registered via Then inside
	// Resolve) and outer's own settlement both run.
	sc.RunMicrotasks()
	sc.RunMicrotasks()

	assert.Equal(t, Fulfilled, outer.StateValue())
	assert.Equal(t, float64(99), outer.Value().(*object.Number).Value)
}

func TestThenChainsFulfillmentValue(t *testing.T) {
	sc := sched.New()
	p := New(nil, sc)

	chained := p.Then(func(v object.Value) (object.Value, error) {
		n := v.(*object.Number)
		return &object.Number{Value: n.Value * 2}, nil
	}, nil)

	p.Resolve(&object.Number{Value: 5})
	sc.RunMicrotasks()

	assert.Equal(t, Fulfilled, chained.StateValue())
	assert.Equal(t, float64(10), chained.Value().(*object.Number).Value)
}

func TestThenHandlerErrorRejectsDerivedPromise(t *testing.T) {
	sc := sched.New()
	p := New(nil, sc)

	chained := p.Then(func(object.Value) (object.Value, error) {
		return nil, errors.New("handler failed")
	}, nil)

	p.Resolve(&object.Undefined{})
	sc.RunMicrotasks()

	assert.Equal(t, Rejected, chained.StateValue())
	assert.Equal(t, "handler failed", chained.Value().(*object.String).Value)
}

func TestAllFulfillsWithResultsInOrder(t *testing.T) {
	sc := sched.New()
	p1 := New(nil, sc)
	p2 := New(nil, sc)

	result := All(nil, nil, sc, []*Promise{p1, p2})

	p2.Resolve(&object.Number{Value: 2})
	p1.Resolve(&object.Number{Value: 1})
	sc.RunMicrotasks()

	require.Equal(t, Fulfilled, result.StateValue())
	arr, ok := result.Value().(*object.Array)
	require.True(t, ok)
	assert.Equal(t, float64(1), arr.Elements[0].(*object.Number).Value)
	assert.Equal(t, float64(2), arr.Elements[1].(*object.Number).Value)
}

func TestAllRejectsAsSoonAsOneInputRejects(t *testing.T) {
	sc := sched.New()
	p1 := New(nil, sc)
	p2 := New(nil, sc)

	result := All(nil, nil, sc, []*Promise{p1, p2})

	p1.Reject(&object.String{Value: "first failed"})
	sc.RunMicrotasks()

	assert.Equal(t, Rejected, result.StateValue())
	assert.Equal(t, "first failed", result.Value().(*object.String).Value)
}

func TestAllWithNoPromisesResolvesImmediatelyToEmptyArray(t *testing.T) {
	sc := sched.New()
	result := All(nil, nil, sc, nil)

	assert.Equal(t, Fulfilled, result.StateValue())
	arr, ok := result.Value().(*object.Array)
	require.True(t, ok)
	assert.Equal(t, 0, len(arr.Elements))
}

func TestRaceSettlesWithFirstSettledInput(t *testing.T) {
	sc := sched.New()
	slow := New(nil, sc)
	fast := New(nil, sc)

	result := Race(nil, sc, []*Promise{slow, fast})

	fast.Resolve(&object.Number{Value: 1})
	sc.RunMicrotasks()

	assert.Equal(t, Fulfilled, result.StateValue())
	assert.Equal(t, float64(1), result.Value().(*object.Number).Value)

	// Settling the slower one afterward must not change the already
	// settled race result.
	slow.Resolve(&object.Number{Value: 2})
	sc.RunMicrotasks()
	assert.Equal(t, float64(1), result.Value().(*object.Number).Value)
}
