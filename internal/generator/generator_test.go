package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ecmalite/internal/object"
)

func TestNextYieldsThenCompletesWithReturnValue(t *testing.T) {
	g := New(nil, func(y *Yielder) (object.Value, error) {
		_, err := y.Yield(&object.Number{Value: 1})
		if err != nil {
			return nil, err
		}
		_, err = y.Yield(&object.Number{Value: 2})
		if err != nil {
			return nil, err
		}
		return &object.String{Value: "done"}, nil
	})

	r, err := g.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, float64(1), r.Value.(*object.Number).Value)
	assert.False(t, r.Done)

	r, err = g.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, float64(2), r.Value.(*object.Number).Value)
	assert.False(t, r.Done)

	r, err = g.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, "done", r.Value.(*object.String).Value)
	assert.True(t, r.Done)
}

func TestNextPastCompletionReturnsUndefinedDone(t *testing.T) {
	g := New(nil, func(y *Yielder) (object.Value, error) {
		return object.UndefinedValue, nil
	})

	_, err := g.Next(nil)
	require.NoError(t, err)

	r, err := g.Next(nil)
	require.NoError(t, err)
	assert.True(t, r.Done)
	assert.Equal(t, object.UndefinedValue, r.Value)
}

func TestNextValueIsPassedBackIntoYieldExpression(t *testing.T) {
	g := New(nil, func(y *Yielder) (object.Value, error) {
		received, err := y.Yield(&object.Number{Value: 0})
		if err != nil {
			return nil, err
		}
		return received, nil
	})

	_, err := g.Next(nil)
	require.NoError(t, err)

	r, err := g.Next(&object.Number{Value: 42})
	require.NoError(t, err)
	assert.True(t, r.Done)
	assert.Equal(t, float64(42), r.Value.(*object.Number).Value)
}

func TestReturnUnwindsSuspendedGeneratorWithFinally(t *testing.T) {
	finallyRan := false
	g := New(nil, func(y *Yielder) (object.Value, error) {
		defer func() { finallyRan = true }()
		_, err := y.Yield(&object.Number{Value: 1})
		return nil, err
	})

	_, err := g.Next(nil)
	require.NoError(t, err)

	r, err := g.Return(&object.String{Value: "early"})
	require.NoError(t, err)
	assert.True(t, r.Done)
	assert.Equal(t, "early", r.Value.(*object.String).Value)
	assert.True(t, finallyRan)
}

func TestReturnOnNotYetStartedGeneratorCompletesImmediately(t *testing.T) {
	g := New(nil, func(y *Yielder) (object.Value, error) {
		t.Fatal("body must never start")
		return nil, nil
	})

	r, err := g.Return(&object.Number{Value: 9})
	require.NoError(t, err)
	assert.True(t, r.Done)
	assert.Equal(t, float64(9), r.Value.(*object.Number).Value)
}

func TestThrowAtSuspensionPointIsCatchableByBody(t *testing.T) {
	g := New(nil, func(y *Yielder) (object.Value, error) {
		_, err := y.Yield(&object.Number{Value: 1})
		if _, ok := err.(*ThrowSignal); ok {
			return &object.String{Value: "caught"}, nil
		}
		return nil, err
	})

	_, err := g.Next(nil)
	require.NoError(t, err)

	r, err := g.Throw(&object.String{Value: "boom"})
	require.NoError(t, err)
	assert.True(t, r.Done)
	assert.Equal(t, "caught", r.Value.(*object.String).Value)
}

func TestThrowOnNotYetStartedGeneratorReturnsThrowSignal(t *testing.T) {
	g := New(nil, func(y *Yielder) (object.Value, error) {
		t.Fatal("body must never start")
		return nil, nil
	})

	_, err := g.Throw(&object.String{Value: "boom"})
	require.Error(t, err)
	ts, ok := err.(*ThrowSignal)
	require.True(t, ok)
	assert.Equal(t, "boom", ts.Value.(*object.String).Value)
}
