// Package iterate implements the general iterator protocol (C12): walking
// any object exposing a callable Symbol.iterator property (spec §4.13).
// The evaluator's for-of does not call Walk; it handles arrays, strings
// and Maps only.
package iterate

import "github.com/cwbudde/ecmalite/internal/object"

// IteratorSymbol is the well-known symbol objects expose a factory method
// under to participate in for-of / spread (spec §4.13 Symbol.iterator).
var IteratorSymbol = &object.Symbol{Description: "Symbol.iterator"}

// Call abstracts invoking a script-level callable without internal/iterate
// importing internal/eval (which itself imports internal/iterate for
// IteratorSymbol, so the reverse import would be a cycle). Callers supply
// the evaluator's own call primitive.
type Call func(fn object.Value, this object.Value, args []object.Value) (object.Value, error)

// Walk drains an iterable object's Symbol.iterator protocol into a slice,
// calling call to invoke the `next`/`[Symbol.iterator]` methods. It stops
// at the first result whose `done` property is the Boolean true, or at the
// first result that is not a plain object.
func Walk(call Call, iterable object.Value, getProp func(object.Value, object.PropertyKey) (object.Value, error)) ([]object.Value, error) {
	obj, ok := iterable.(*object.Object)
	if !ok {
		return nil, nil
	}
	factory, err := getProp(obj, object.SymbolKey(IteratorSymbol))
	if err != nil || factory == nil {
		return nil, nil
	}
	iterator, err := call(factory, obj, nil)
	if err != nil {
		return nil, err
	}
	nextFn, err := getProp(iterator, object.StringKey("next"))
	if err != nil || nextFn == nil {
		return nil, nil
	}
	var out []object.Value
	for {
		res, err := call(nextFn, iterator, nil)
		if err != nil {
			return nil, err
		}
		resObj, ok := res.(*object.Object)
		if !ok {
			break
		}
		doneDesc, _ := resObj.Get(object.StringKey("done"))
		if doneDesc != nil {
			if b, ok := doneDesc.Value.(*object.Boolean); ok && b.Value {
				break
			}
		}
		valDesc, _ := resObj.Get(object.StringKey("value"))
		if valDesc != nil {
			out = append(out, valDesc.Value)
		} else {
			out = append(out, object.UndefinedValue)
		}
	}
	return out, nil
}
