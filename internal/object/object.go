// Package object implements the runtime value model (C2): numbers, strings,
// booleans, null/undefined, bigints, symbols, objects, arrays, functions,
// and the host-callable/promise/iterator wrapper types layered on top of
// the plain object shape.
package object

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Value is the interface every runtime value implements, mirroring the
// teacher engine's Value contract (Type/String) but sized for a
// prototype-based, dynamically typed language rather than a static one.
type Value interface {
	Type() string
	String() string
}

// Number is an IEEE-754 double, matching the target language's single
// numeric type below BigInt.
type Number struct{ Value float64 }

func (n *Number) Type() string { return "number" }
func (n *Number) String() string {
	if n.Value == float64(int64(n.Value)) && !isNegZero(n.Value) {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func isNegZero(f float64) bool { return f == 0 && 1/f < 0 }

// BigInt is an arbitrary-precision integer.
type BigInt struct{ Value *big.Int }

func (b *BigInt) Type() string   { return "bigint" }
func (b *BigInt) String() string { return b.Value.String() + "n" }

// String is a runtime string value; comparisons and map keys use the Go
// string directly.
type String struct{ Value string }

func (s *String) Type() string   { return "string" }
func (s *String) String() string { return s.Value }

// Boolean is true/false.
type Boolean struct{ Value bool }

func (b *Boolean) Type() string { return "boolean" }
func (b *Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Null is the single `null` value.
type Null struct{}

func (n *Null) Type() string   { return "null" }
func (n *Null) String() string { return "null" }

// Undefined is the single `undefined` value, distinct from Null per spec §2.
type Undefined struct{}

func (u *Undefined) Type() string   { return "undefined" }
func (u *Undefined) String() string { return "undefined" }

var (
	NullValue      = &Null{}
	UndefinedValue = &Undefined{}
	True           = &Boolean{Value: true}
	False          = &Boolean{Value: false}
)

// Bool returns the canonical Boolean singleton for b.
func Bool(b bool) *Boolean {
	if b {
		return True
	}
	return False
}

// Symbol is a unique, non-string property key (spec §2 Symbols). Identity
// is by pointer, not by Description, so two symbols created with the same
// description are still distinct keys.
type Symbol struct {
	Description string
}

func (s *Symbol) Type() string   { return "symbol" }
func (s *Symbol) String() string { return fmt.Sprintf("Symbol(%s)", s.Description) }

// PropertyKey is either a string or a *Symbol; property storage accepts
// both via this interface to avoid a second parallel map.
type PropertyKey interface {
	keyHash() uint64
	keyEqual(other PropertyKey) bool
}

type stringKey string

func (k stringKey) keyHash() uint64 { return xxhash.Sum64String(string(k)) }
func (k stringKey) keyEqual(other PropertyKey) bool {
	o, ok := other.(stringKey)
	return ok && o == k
}

type symbolKey struct{ sym *Symbol }

func (k symbolKey) keyHash() uint64 {
	return xxhash.Sum64String(fmt.Sprintf("__sym__%p", k.sym))
}
func (k symbolKey) keyEqual(other PropertyKey) bool {
	o, ok := other.(symbolKey)
	return ok && o.sym == k.sym
}

// StringKey wraps a plain string as a property key.
func StringKey(s string) PropertyKey { return stringKey(s) }

// SymbolKey wraps a *Symbol as a property key.
func SymbolKey(s *Symbol) PropertyKey { return symbolKey{sym: s} }

// KeyString returns the textual form of a string-valued key, or "" for a
// symbol key (callers enumerating for-in targets skip symbol keys first).
func KeyString(k PropertyKey) string {
	if sk, ok := k.(stringKey); ok {
		return string(sk)
	}
	return ""
}

// PropertyDescriptor holds either a plain value or an accessor pair, per
// spec §4.10 getters/setters.
type PropertyDescriptor struct {
	Value      Value
	Get        *Function
	Set        *Function
	Enumerable bool
}

// Object is the prototype-based object shape underlying every non-primitive
// value (plain objects, arrays, functions, class instances).
type Object struct {
	Class      string // diagnostic label: "Object", "Array", class name, ...
	Proto      *Object
	properties map[uint64][]objectEntry
	keyOrder   []PropertyKey // insertion order, for enumeration (spec §4.10, for-in)
}

type objectEntry struct {
	key  PropertyKey
	desc *PropertyDescriptor
}

// NewObject creates an empty object with the given prototype (nil for the
// root of the prototype chain).
func NewObject(proto *Object) *Object {
	return &Object{Class: "Object", Proto: proto, properties: map[uint64][]objectEntry{}}
}

func (o *Object) Type() string   { return "object" }
func (o *Object) String() string { return "[object " + o.Class + "]" }

// GetOwn looks up a property descriptor on this object only, without
// walking the prototype chain.
func (o *Object) GetOwn(key PropertyKey) (*PropertyDescriptor, bool) {
	for _, e := range o.properties[key.keyHash()] {
		if e.key.keyEqual(key) {
			return e.desc, true
		}
	}
	return nil, false
}

// Get resolves a property by walking the prototype chain (spec §2 Prototype
// model). It does not invoke getters; callers needing accessor semantics
// use internal/eval, which has access to the calling environment.
func (o *Object) Get(key PropertyKey) (*PropertyDescriptor, bool) {
	for cur := o; cur != nil; cur = cur.Proto {
		if d, ok := cur.GetOwn(key); ok {
			return d, true
		}
	}
	return nil, false
}

// Set writes an own data property, replacing any existing descriptor for
// that key. It never walks the prototype chain: shadowing, not mutation of
// an inherited property, is the JS semantics this preserves.
func (o *Object) Set(key PropertyKey, v Value) {
	o.SetDescriptor(key, &PropertyDescriptor{Value: v, Enumerable: true})
}

// SetDescriptor installs an arbitrary property descriptor (data or
// accessor) as an own property.
func (o *Object) SetDescriptor(key PropertyKey, desc *PropertyDescriptor) {
	h := key.keyHash()
	for i, e := range o.properties[h] {
		if e.key.keyEqual(key) {
			o.properties[h][i].desc = desc
			return
		}
	}
	o.properties[h] = append(o.properties[h], objectEntry{key: key, desc: desc})
	o.keyOrder = append(o.keyOrder, key)
}

// Delete removes an own property, reporting whether it existed.
func (o *Object) Delete(key PropertyKey) bool {
	h := key.keyHash()
	entries := o.properties[h]
	for i, e := range entries {
		if e.key.keyEqual(key) {
			o.properties[h] = append(entries[:i], entries[i+1:]...)
			for j, k := range o.keyOrder {
				if k.keyEqual(key) {
					o.keyOrder = append(o.keyOrder[:j], o.keyOrder[j+1:]...)
					break
				}
			}
			return true
		}
	}
	return false
}

// OwnKeys returns all own string keys in insertion order, whether or not
// they are enumerable; symbol keys are not included (spec §4.10 enumeration
// order: integer-like indices first is intentionally NOT modeled; this
// engine orders all string keys by insertion like the teacher's ident.Map
// does for its own symbol table).
func (o *Object) OwnKeys() []PropertyKey {
	keys := make([]PropertyKey, 0, len(o.keyOrder))
	for _, k := range o.keyOrder {
		if _, isSym := k.(symbolKey); !isSym {
			keys = append(keys, k)
		}
	}
	return keys
}

// SortedKeyStrings is a debug/test helper returning own string keys sorted
// lexically, used by snapshot tests that need deterministic output.
func (o *Object) SortedKeyStrings() []string {
	var out []string
	for _, k := range o.OwnKeys() {
		if sk, ok := k.(stringKey); ok {
			out = append(out, string(sk))
		}
	}
	sort.Strings(out)
	return out
}

// Objecter is implemented by composite value types defined outside this
// package (Promise, Generator) that embed *Object for their property
// storage, letting eval's generic property lookup reach their prototype
// chain without a type switch per composite kind.
type Objecter interface {
	AsObject() *Object
}

// Array is an Object specialization with dense integer-indexed storage.
// Assigning an index past the end extends Elements, filling the gap with
// undefined; non-integer keys live in the embedded Object's generic
// property map (spec §2 Arrays are objects).
type Array struct {
	*Object
	Elements []Value
}

func NewArray(proto *Object, elems ...Value) *Array {
	return &Array{Object: NewObject(proto), Elements: elems}
}

func (a *Array) Type() string { return "object" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil {
			parts[i] = ""
			continue
		}
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

// Map is the host Map collection (spec §2, distinct from plain objects:
// any Value, not just strings/symbols, may be a key). Its key index is
// bucketed by a 64-bit xxhash of the key's SameValueZero representation,
// the same bucketing technique pkg/symbol's intern table uses, rather than
// a plain Go map keyed by an `any` boxing of the value (which would hash
// every lookup through Go's generic, reflection-based map key hashing
// instead of a single fast non-cryptographic hash shared across both
// collection types in this package).
type Map struct {
	*Object
	keys   []Value
	values map[Value]Value
	index  map[uint64][]int
}

func NewMap(proto *Object) *Map {
	return &Map{Object: NewObject(proto), values: map[Value]Value{}, index: map[uint64][]int{}}
}

// AsObject implements Objecter so eval's property lookup resolves .get/.set/
// .size against Map.prototype the same way it does for Promise and Generator.
func (m *Map) AsObject() *Object { return m.Object }

func mapKeyOf(v Value) any {
	switch x := v.(type) {
	case *Number:
		if x.Value != x.Value {
			return "n:NaN"
		}
		return x.Value
	case *String:
		return "s:" + x.Value
	case *Boolean:
		return x.Value
	case *Null:
		return "null"
	case *Undefined:
		return "undefined"
	default:
		return v // identity for objects/functions
	}
}

func mapHashOf(v Value) uint64 {
	switch x := v.(type) {
	case *Number:
		f := x.Value
		if f == 0 {
			f = 0 // -0 and +0 share a bucket
		}
		return xxhash.Sum64String("n:" + strconv.FormatFloat(f, 'g', -1, 64))
	case *String:
		return xxhash.Sum64String("s:" + x.Value)
	case *Boolean:
		if x.Value {
			return xxhash.Sum64String("b:true")
		}
		return xxhash.Sum64String("b:false")
	case *Null:
		return xxhash.Sum64String("null")
	case *Undefined:
		return xxhash.Sum64String("undefined")
	default:
		return xxhash.Sum64String(fmt.Sprintf("id:%p", v))
	}
}

func (m *Map) findIndex(key Value) (int, bool) {
	want := mapKeyOf(key)
	for _, i := range m.index[mapHashOf(key)] {
		if mapKeyOf(m.keys[i]) == want {
			return i, true
		}
	}
	return 0, false
}

func (m *Map) MapGet(key Value) (Value, bool) {
	if i, ok := m.findIndex(key); ok {
		return m.values[m.keys[i]], true
	}
	return nil, false
}

func (m *Map) MapSet(key, val Value) {
	if i, ok := m.findIndex(key); ok {
		m.values[m.keys[i]] = val
		return
	}
	h := mapHashOf(key)
	m.index[h] = append(m.index[h], len(m.keys))
	m.keys = append(m.keys, key)
	m.values[key] = val
}

func (m *Map) MapDelete(key Value) bool {
	i, ok := m.findIndex(key)
	if !ok {
		return false
	}
	delete(m.values, m.keys[i])
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.index = map[uint64][]int{}
	for j, k := range m.keys {
		h := mapHashOf(k)
		m.index[h] = append(m.index[h], j)
	}
	return true
}

func (m *Map) MapSize() int { return len(m.keys) }

func (m *Map) MapEntries() [][2]Value {
	out := make([][2]Value, len(m.keys))
	for i, k := range m.keys {
		out[i] = [2]Value{k, m.values[k]}
	}
	return out
}

// WeakMap is the host WeakMap collection: identity-keyed, and only objects
// or functions may be keys (spec §2/§3). Unlike Map, which buckets keys by
// a SameValueZero hash so two equal primitives collide, WeakMap keys off Go
// pointer identity directly — every accepted key type here is itself a
// pointer, so the underlying Go map's built-in identity comparison is
// exactly the semantics WeakMap needs, with no hashing of its own required.
type WeakMap struct {
	*Object
	values map[Value]Value
}

func NewWeakMap(proto *Object) *WeakMap {
	return &WeakMap{Object: NewObject(proto), values: map[Value]Value{}}
}

// AsObject implements Objecter so eval's property lookup resolves .get/.set/
// .has/.delete against WeakMap.prototype the same way it does for Map.
func (w *WeakMap) AsObject() *Object { return w.Object }

// IsWeakMapKey reports whether v may be used as a WeakMap key: an object,
// array, function, host callable, or any other composite value that stores
// its own properties (spec: "keys must be objects or functions; rejects
// primitives").
func IsWeakMapKey(v Value) bool {
	switch v.(type) {
	case *Object, *Array, *Function, *HostCallable, *Map, *WeakMap:
		return true
	case Objecter:
		return true
	default:
		return false
	}
}

func (w *WeakMap) WeakMapSet(key, val Value) bool {
	if !IsWeakMapKey(key) {
		return false
	}
	w.values[key] = val
	return true
}

func (w *WeakMap) WeakMapGet(key Value) (Value, bool) {
	v, ok := w.values[key]
	return v, ok
}

func (w *WeakMap) WeakMapDelete(key Value) bool {
	if _, ok := w.values[key]; !ok {
		return false
	}
	delete(w.values, key)
	return true
}

func (w *WeakMap) WeakMapHas(key Value) bool {
	_, ok := w.values[key]
	return ok
}
