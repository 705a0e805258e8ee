package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectGetSetOwnProperty(t *testing.T) {
	proto := NewObject(nil)
	proto.Set(StringKey("inherited"), &String{Value: "from-proto"})

	o := NewObject(proto)
	o.Set(StringKey("own"), &Number{Value: 42})

	v, ok := o.Get(StringKey("own"))
	require.True(t, ok)
	assert.Equal(t, &Number{Value: 42}, v.Value)

	// Inherited property resolves through the prototype chain.
	v, ok = o.Get(StringKey("inherited"))
	require.True(t, ok)
	assert.Equal(t, "from-proto", v.Value.(*String).Value)

	// GetOwn does not walk the prototype chain.
	_, ok = o.GetOwn(StringKey("inherited"))
	assert.False(t, ok)
}

func TestObjectDelete(t *testing.T) {
	o := NewObject(nil)
	o.Set(StringKey("a"), &Number{Value: 1})

	assert.True(t, o.Delete(StringKey("a")))
	_, ok := o.GetOwn(StringKey("a"))
	assert.False(t, ok)

	assert.False(t, o.Delete(StringKey("missing")))
}

func TestNumberStringFormatsLikeJS(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{3.5, "3.5"},
	}
	for _, tt := range tests {
		n := &Number{Value: tt.in}
		assert.Equal(t, tt.want, n.String())
	}
}

func TestBooleanString(t *testing.T) {
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "false", Bool(false).String())
}

func TestMapSetGetOverwritesExistingKey(t *testing.T) {
	m := NewMap(nil)

	m.MapSet(&String{Value: "k"}, &Number{Value: 1})
	m.MapSet(&String{Value: "k"}, &Number{Value: 2})

	assert.Equal(t, 1, m.MapSize())

	v, ok := m.MapGet(&String{Value: "k"})
	require.True(t, ok)
	assert.Equal(t, float64(2), v.(*Number).Value)
}

func TestMapDistinguishesKeysByValueNotPointer(t *testing.T) {
	m := NewMap(nil)

	key1 := &Number{Value: 1}
	key2 := &Number{Value: 1} // distinct pointer, same value

	m.MapSet(key1, &String{Value: "first"})
	v, ok := m.MapGet(key2)
	require.True(t, ok)
	assert.Equal(t, "first", v.(*String).Value)
}

func TestMapDelete(t *testing.T) {
	m := NewMap(nil)
	m.MapSet(&String{Value: "a"}, &Number{Value: 1})
	m.MapSet(&String{Value: "b"}, &Number{Value: 2})

	assert.True(t, m.MapDelete(&String{Value: "a"}))
	assert.Equal(t, 1, m.MapSize())

	_, ok := m.MapGet(&String{Value: "a"})
	assert.False(t, ok)

	v, ok := m.MapGet(&String{Value: "b"})
	require.True(t, ok)
	assert.Equal(t, float64(2), v.(*Number).Value)

	assert.False(t, m.MapDelete(&String{Value: "a"}))
}

func TestMapEntriesPreservesInsertionOrder(t *testing.T) {
	m := NewMap(nil)
	m.MapSet(&String{Value: "first"}, &Number{Value: 1})
	m.MapSet(&String{Value: "second"}, &Number{Value: 2})
	m.MapSet(&String{Value: "third"}, &Number{Value: 3})

	entries := m.MapEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0][0].(*String).Value)
	assert.Equal(t, "second", entries[1][0].(*String).Value)
	assert.Equal(t, "third", entries[2][0].(*String).Value)
}

func TestMapKeysWithDistinctHashesDoNotCollide(t *testing.T) {
	m := NewMap(nil)
	for i := 0; i < 100; i++ {
		m.MapSet(&Number{Value: float64(i)}, &String{Value: "v"})
	}
	assert.Equal(t, 100, m.MapSize())
	for i := 0; i < 100; i++ {
		_, ok := m.MapGet(&Number{Value: float64(i)})
		assert.True(t, ok)
	}
}
