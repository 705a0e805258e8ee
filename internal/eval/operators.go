package eval

import (
	"math"
	"math/big"

	"github.com/cwbudde/ecmalite/internal/env"
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/pkg/ast"
)

func (in *Interpreter) evalBinary(n *ast.BinaryExpression, e *env.Environment) (object.Value, error) {
	if n.Operator == "instanceof" {
		return in.evalInstanceof(n, e)
	}
	if n.Operator == "in" {
		return in.evalIn(n, e)
	}
	left, err := in.evalExpression(n.Left, e)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpression(n.Right, e)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "+":
		return in.add(left, right)
	case "-":
		return in.numericOp(left, right, func(a, b float64) float64 { return a - b }, func(a, b *big.Int) (*big.Int, error) { return new(big.Int).Sub(a, b), nil })
	case "*":
		return in.numericOp(left, right, func(a, b float64) float64 { return a * b }, func(a, b *big.Int) (*big.Int, error) { return new(big.Int).Mul(a, b), nil })
	case "/":
		return in.numericOp(left, right, func(a, b float64) float64 { return a / b }, func(a, b *big.Int) (*big.Int, error) {
			if b.Sign() == 0 {
				return nil, in.ThrowTypeError("Division by zero")
			}
			return new(big.Int).Quo(a, b), nil
		})
	case "%":
		return in.numericOp(left, right, math.Mod, func(a, b *big.Int) (*big.Int, error) {
			if b.Sign() == 0 {
				return nil, in.ThrowTypeError("Division by zero")
			}
			return new(big.Int).Mod(a, b), nil
		})
	case "**":
		return in.pow(left, right)
	case "&":
		return &object.Number{Value: float64(int32(toNumber(left)) & int32(toNumber(right)))}, nil
	case "|":
		return &object.Number{Value: float64(int32(toNumber(left)) | int32(toNumber(right)))}, nil
	case "^":
		return &object.Number{Value: float64(int32(toNumber(left)) ^ int32(toNumber(right)))}, nil
	case "<<":
		return &object.Number{Value: float64(int32(toNumber(left)) << (uint32(toNumber(right)) & 31))}, nil
	case ">>":
		return &object.Number{Value: float64(int32(toNumber(left)) >> (uint32(toNumber(right)) & 31))}, nil
	case ">>>":
		return &object.Number{Value: float64(uint32(toNumber(left)) >> (uint32(toNumber(right)) & 31))}, nil
	case "<":
		return object.Bool(compare(left, right) < 0), nil
	case "<=":
		return object.Bool(compare(left, right) <= 0), nil
	case ">":
		return object.Bool(compare(left, right) > 0), nil
	case ">=":
		return object.Bool(compare(left, right) >= 0), nil
	case "==":
		return object.Bool(looseEquals(left, right)), nil
	case "!=":
		return object.Bool(!looseEquals(left, right)), nil
	case "===":
		return object.Bool(strictEquals(left, right)), nil
	case "!==":
		return object.Bool(!strictEquals(left, right)), nil
	default:
		return nil, in.ThrowTypeError("unsupported binary operator %s", n.Operator)
	}
}

// numericOp implements the BigInt-aware arithmetic operators (spec §4.2):
// two BigInt operands route through bf, two non-BigInt operands route
// through f, and a BigInt mixed with anything else is a typed error rather
// than a silent float coercion.
func (in *Interpreter) numericOp(a, b object.Value, f func(float64, float64) float64, bf func(*big.Int, *big.Int) (*big.Int, error)) (object.Value, error) {
	abig, aIsBig := a.(*object.BigInt)
	bbig, bIsBig := b.(*object.BigInt)
	if aIsBig || bIsBig {
		if !aIsBig || !bIsBig {
			return nil, in.ThrowTypeError("Cannot mix BigInt and other types")
		}
		r, err := bf(abig.Value, bbig.Value)
		if err != nil {
			return nil, err
		}
		return &object.BigInt{Value: r}, nil
	}
	return &object.Number{Value: f(toNumber(a), toNumber(b))}, nil
}

// pow implements `**`: BigInt bases require a BigInt exponent (and reject a
// negative one, since big.Int has no fractional representation), otherwise
// both operands coerce to float (spec §4.2, §4.10).
func (in *Interpreter) pow(a, b object.Value) (object.Value, error) {
	abig, aIsBig := a.(*object.BigInt)
	bbig, bIsBig := b.(*object.BigInt)
	if aIsBig || bIsBig {
		if !aIsBig || !bIsBig {
			return nil, in.ThrowTypeError("Cannot mix BigInt and other types")
		}
		if bbig.Value.Sign() < 0 {
			return nil, in.ThrowTypeError("Exponent must be non-negative")
		}
		return &object.BigInt{Value: new(big.Int).Exp(abig.Value, bbig.Value, nil)}, nil
	}
	return &object.Number{Value: math.Pow(toNumber(a), toNumber(b))}, nil
}

func compare(a, b object.Value) int {
	as, aIsStr := a.(*object.String)
	bs, bIsStr := b.(*object.String)
	if aIsStr && bIsStr {
		switch {
		case as.Value < bs.Value:
			return -1
		case as.Value > bs.Value:
			return 1
		default:
			return 0
		}
	}
	an, bn := toNumber(a), toNumber(b)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

// strictEquals implements `===`: same type and same value, with object
// identity for reference types (spec §4.10 equality).
func strictEquals(a, b object.Value) bool {
	switch x := a.(type) {
	case *object.Undefined:
		_, ok := b.(*object.Undefined)
		return ok
	case *object.Null:
		_, ok := b.(*object.Null)
		return ok
	case *object.Boolean:
		y, ok := b.(*object.Boolean)
		return ok && x.Value == y.Value
	case *object.Number:
		y, ok := b.(*object.Number)
		return ok && x.Value == y.Value
	case *object.String:
		y, ok := b.(*object.String)
		return ok && x.Value == y.Value
	case *object.BigInt:
		y, ok := b.(*object.BigInt)
		return ok && x.Value.Cmp(y.Value) == 0
	default:
		return a == b
	}
}

// looseEquals implements `==`'s abstract equality comparison, limited to
// the conversions this engine's value set actually needs (spec §4.10:
// null/undefined compare equal to each other only; numeric coercion
// between numbers and strings/booleans).
func looseEquals(a, b object.Value) bool {
	_, aNull := a.(*object.Null)
	_, aUndef := a.(*object.Undefined)
	_, bNull := b.(*object.Null)
	_, bUndef := b.(*object.Undefined)
	if (aNull || aUndef) && (bNull || bUndef) {
		return true
	}
	if (aNull || aUndef) != (bNull || bUndef) {
		return false
	}
	if a.Type() == b.Type() {
		return strictEquals(a, b)
	}
	_, aIsStr := a.(*object.String)
	_, bIsStr := b.(*object.String)
	_, aIsNum := a.(*object.Number)
	_, bIsNum := b.(*object.Number)
	_, aIsBool := a.(*object.Boolean)
	_, bIsBool := b.(*object.Boolean)
	if (aIsNum && (bIsStr || bIsBool)) || (bIsNum && (aIsStr || aIsBool)) {
		return toNumber(a) == toNumber(b)
	}
	return false
}

func (in *Interpreter) evalInstanceof(n *ast.BinaryExpression, e *env.Environment) (object.Value, error) {
	left, err := in.evalExpression(n.Left, e)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpression(n.Right, e)
	if err != nil {
		return nil, err
	}
	ctor, ok := right.(*object.Function)
	if !ok {
		return nil, in.ThrowTypeError("right-hand side of 'instanceof' is not callable")
	}
	protoDesc, ok := ctor.GetOwn(object.StringKey("prototype"))
	if !ok {
		return object.False, nil
	}
	targetProto, ok := protoDesc.Value.(*object.Object)
	if !ok {
		return object.False, nil
	}
	obj, ok := left.(*object.Object)
	if !ok {
		if arr, ok := left.(*object.Array); ok {
			obj = arr.Object
		} else {
			return object.False, nil
		}
	}
	for cur := obj.Proto; cur != nil; cur = cur.Proto {
		if cur == targetProto {
			return object.True, nil
		}
	}
	return object.False, nil
}

func (in *Interpreter) evalIn(n *ast.BinaryExpression, e *env.Environment) (object.Value, error) {
	left, err := in.evalExpression(n.Left, e)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpression(n.Right, e)
	if err != nil {
		return nil, err
	}
	obj, ok := right.(*object.Object)
	if !ok {
		return nil, in.ThrowTypeError("cannot use 'in' operator on this value")
	}
	key := object.StringKey(toDisplayString(left))
	_, found := obj.Get(key)
	return object.Bool(found), nil
}
