package eval

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cwbudde/ecmalite/internal/env"
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/pkg/ast"
)

func (in *Interpreter) evalExpression(expr ast.Expression, e *env.Environment) (object.Value, error) {
	switch n := expr.(type) {
	case *ast.Identifier:
		return e.Get(n.Name)
	case *ast.Literal:
		return literalValue(n), nil
	case *ast.TemplateLiteral:
		return in.evalTemplate(n, e)
	case *ast.ThisExpression:
		v, err := e.Get("this")
		if err != nil {
			return object.UndefinedValue, nil
		}
		return v, nil
	case *ast.GroupedExpression:
		return in.evalExpression(n.Inner, e)
	case *ast.SpreadElement:
		return in.evalExpression(n.Argument, e)
	case *ast.UnaryExpression:
		return in.evalUnary(n, e)
	case *ast.UpdateExpression:
		return in.evalUpdate(n, e)
	case *ast.BinaryExpression:
		return in.evalBinary(n, e)
	case *ast.LogicalExpression:
		return in.evalLogical(n, e)
	case *ast.AssignmentExpression:
		return in.evalAssignment(n, e)
	case *ast.ConditionalExpression:
		cond, err := in.evalExpression(n.Test, e)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return in.evalExpression(n.Consequent, e)
		}
		return in.evalExpression(n.Alternate, e)
	case *ast.CallExpression:
		return in.evalCall(n, e)
	case *ast.NewExpression:
		return in.evalNew(n, e)
	case *ast.MemberExpression:
		v, _, err := in.evalMember(n, e)
		return v, err
	case *ast.ArrayLiteral:
		return in.evalArrayLiteral(n, e)
	case *ast.ObjectLiteral:
		return in.evalObjectLiteral(n, e)
	case *ast.FunctionExpression:
		name := ""
		if n.Name != nil {
			name = n.Name.Name
		}
		return in.makeFunction(name, n.Params, n.Body, e, false, n.IsAsync, n.IsGenerator), nil
	case *ast.ArrowFunctionExpression:
		return in.makeArrow(n, e), nil
	case *ast.ClassDeclaration:
		return in.evalClass(n, e)
	case *ast.YieldExpression:
		return in.evalYield(n, e)
	case *ast.AwaitExpression:
		return in.evalAwait(n, e)
	default:
		return nil, in.ThrowTypeError("unsupported expression %T", expr)
	}
}

func literalValue(n *ast.Literal) object.Value {
	switch n.Kind {
	case ast.NumberLit:
		return &object.Number{Value: n.Value.(float64)}
	case ast.StringLit:
		return &object.String{Value: n.Value.(string)}
	case ast.BooleanLit:
		return object.Bool(n.Value.(bool))
	case ast.BigIntLit:
		s, _ := n.Value.(string)
		bi := new(big.Int)
		bi.SetString(s, 10)
		return &object.BigInt{Value: bi}
	case ast.NullLit:
		return object.NullValue
	default:
		return object.UndefinedValue
	}
}

func (in *Interpreter) evalTemplate(n *ast.TemplateLiteral, e *env.Environment) (object.Value, error) {
	var sb strings.Builder
	for i, q := range n.Quasis {
		sb.WriteString(q)
		if i < len(n.Expressions) {
			v, err := in.evalExpression(n.Expressions[i], e)
			if err != nil {
				return nil, err
			}
			sb.WriteString(toDisplayString(v))
		}
	}
	return &object.String{Value: sb.String()}, nil
}

func isTruthy(v object.Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case *object.Undefined, *object.Null:
		return false
	case *object.Boolean:
		return x.Value
	case *object.Number:
		return x.Value != 0 && !math.IsNaN(x.Value)
	case *object.String:
		return x.Value != ""
	case *object.BigInt:
		return x.Value.Sign() != 0
	default:
		return true
	}
}

func toDisplayString(v object.Value) string {
	if v == nil {
		return "undefined"
	}
	return v.String()
}

func toNumber(v object.Value) float64 {
	switch x := v.(type) {
	case *object.Number:
		return x.Value
	case *object.Boolean:
		if x.Value {
			return 1
		}
		return 0
	case *object.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(x.Value), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case *object.Null:
		return 0
	default:
		return math.NaN()
	}
}

func (in *Interpreter) evalUnary(n *ast.UnaryExpression, e *env.Environment) (object.Value, error) {
	if n.Operator == "typeof" {
		if id, ok := n.Operand.(*ast.Identifier); ok && !e.Has(id.Name) {
			return &object.String{Value: "undefined"}, nil
		}
		v, err := in.evalExpression(n.Operand, e)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: typeOf(v)}, nil
	}
	v, err := in.evalExpression(n.Operand, e)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "!":
		return object.Bool(!isTruthy(v)), nil
	case "-":
		if b, ok := v.(*object.BigInt); ok {
			return &object.BigInt{Value: new(big.Int).Neg(b.Value)}, nil
		}
		return &object.Number{Value: -toNumber(v)}, nil
	case "+":
		return &object.Number{Value: toNumber(v)}, nil
	case "~":
		return &object.Number{Value: float64(^int32(toNumber(v)))}, nil
	case "void":
		return object.UndefinedValue, nil
	case "delete":
		return object.True, nil
	default:
		return nil, in.ThrowTypeError("unsupported unary operator %s", n.Operator)
	}
}

func typeOf(v object.Value) string {
	switch v.(type) {
	case *object.Undefined:
		return "undefined"
	case *object.Null:
		return "object"
	case *object.Boolean:
		return "boolean"
	case *object.Number:
		return "number"
	case *object.BigInt:
		return "bigint"
	case *object.String:
		return "string"
	case *object.Symbol:
		return "symbol"
	case *object.Function, *object.HostCallable:
		return "function"
	default:
		return "object"
	}
}

func (in *Interpreter) evalUpdate(n *ast.UpdateExpression, e *env.Environment) (object.Value, error) {
	old, err := in.evalExpression(n.Operand, e)
	if err != nil {
		return nil, err
	}
	delta := 1.0
	if n.Operator == "--" {
		delta = -1.0
	}
	updated := &object.Number{Value: toNumber(old) + delta}
	if err := in.assignTo(n.Operand, e, updated); err != nil {
		return nil, err
	}
	if n.Prefix {
		return updated, nil
	}
	return &object.Number{Value: toNumber(old)}, nil
}

func (in *Interpreter) evalLogical(n *ast.LogicalExpression, e *env.Environment) (object.Value, error) {
	left, err := in.evalExpression(n.Left, e)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "&&":
		if !isTruthy(left) {
			return left, nil
		}
	case "||":
		if isTruthy(left) {
			return left, nil
		}
	case "??":
		if _, isUndef := left.(*object.Undefined); !isUndef {
			if _, isNull := left.(*object.Null); !isNull {
				return left, nil
			}
		}
	}
	return in.evalExpression(n.Right, e)
}

func (in *Interpreter) evalAssignment(n *ast.AssignmentExpression, e *env.Environment) (object.Value, error) {
	if n.Operator == "=" {
		v, err := in.evalExpression(n.Value, e)
		if err != nil {
			return nil, err
		}
		return v, in.assignTo(n.Target, e, v)
	}
	cur, err := in.evalExpression(n.Target, e)
	if err != nil {
		return nil, err
	}
	rhs, err := in.evalExpression(n.Value, e)
	if err != nil {
		return nil, err
	}
	var result object.Value
	switch n.Operator {
	case "+=":
		result, err = in.add(cur, rhs)
		if err != nil {
			return nil, err
		}
	case "-=":
		result = &object.Number{Value: toNumber(cur) - toNumber(rhs)}
	case "*=":
		result = &object.Number{Value: toNumber(cur) * toNumber(rhs)}
	case "/=":
		result = &object.Number{Value: toNumber(cur) / toNumber(rhs)}
	case "%=":
		result = &object.Number{Value: math.Mod(toNumber(cur), toNumber(rhs))}
	case "**=":
		result, err = in.pow(cur, rhs)
		if err != nil {
			return nil, err
		}
	case "&&=":
		if !isTruthy(cur) {
			return cur, nil
		}
		result = rhs
	case "||=":
		if isTruthy(cur) {
			return cur, nil
		}
		result = rhs
	case "??=":
		if _, ok := cur.(*object.Undefined); !ok {
			if _, ok := cur.(*object.Null); !ok {
				return cur, nil
			}
		}
		result = rhs
	default:
		return nil, in.ThrowTypeError("unsupported compound assignment %s", n.Operator)
	}
	return result, in.assignTo(n.Target, e, result)
}

func (in *Interpreter) assignTo(target ast.Expression, e *env.Environment, v object.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if !e.Has(t.Name) {
			in.Global.Initialize(t.Name, v)
			return nil
		}
		return e.Set(t.Name, v)
	case *ast.MemberExpression:
		obj, err := in.evalExpression(t.Object, e)
		if err != nil {
			return err
		}
		key, err := in.memberKey(t, e)
		if err != nil {
			return err
		}
		return in.setProperty(obj, key, v)
	default:
		return in.ThrowTypeError("invalid assignment target")
	}
}

// add implements `+`: string concatenation wins if either operand is a
// string, BigInt operands add as BigInt, and BigInt mixed with anything
// else is a typed error rather than a silent float coercion (spec §4.2).
func (in *Interpreter) add(a, b object.Value) (object.Value, error) {
	_, aStr := a.(*object.String)
	_, bStr := b.(*object.String)
	if aStr || bStr {
		return &object.String{Value: toDisplayString(a) + toDisplayString(b)}, nil
	}
	abig, aIsBig := a.(*object.BigInt)
	bbig, bIsBig := b.(*object.BigInt)
	if aIsBig || bIsBig {
		if !aIsBig || !bIsBig {
			return nil, in.ThrowTypeError("Cannot mix BigInt and other types")
		}
		return &object.BigInt{Value: new(big.Int).Add(abig.Value, bbig.Value)}, nil
	}
	return &object.Number{Value: toNumber(a) + toNumber(b)}, nil
}

func (in *Interpreter) evalArrayLiteral(n *ast.ArrayLiteral, e *env.Environment) (object.Value, error) {
	var elems []object.Value
	for _, el := range n.Elements {
		if el == nil {
			elems = append(elems, object.UndefinedValue)
			continue
		}
		if sp, ok := el.(*ast.SpreadElement); ok {
			v, err := in.evalExpression(sp.Argument, e)
			if err != nil {
				return nil, err
			}
			items, err := in.iterableToSlice(v)
			if err != nil {
				return nil, err
			}
			elems = append(elems, items...)
			continue
		}
		v, err := in.evalExpression(el, e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return object.NewArray(in.Protos.Array, elems...), nil
}

func (in *Interpreter) evalObjectLiteral(n *ast.ObjectLiteral, e *env.Environment) (object.Value, error) {
	obj := object.NewObject(in.Protos.Object)
	for _, sp := range n.Spreads {
		v, err := in.evalExpression(sp, e)
		if err != nil {
			return nil, err
		}
		if src, ok := v.(*object.Object); ok {
			for _, k := range src.OwnKeys() {
				d, _ := src.GetOwn(k)
				obj.Set(k, d.Value)
			}
		}
	}
	for _, p := range n.Props {
		key, err := in.propertyKeyOf(p.Key, p.Computed, e)
		if err != nil {
			return nil, err
		}
		val, err := in.evalExpression(p.Value, e)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	return obj, nil
}

func (in *Interpreter) propertyKeyOf(key ast.Expression, computed bool, e *env.Environment) (object.PropertyKey, error) {
	if computed {
		v, err := in.evalExpression(key, e)
		if err != nil {
			return nil, err
		}
		if sym, ok := v.(*object.Symbol); ok {
			return object.SymbolKey(sym), nil
		}
		return object.StringKey(toDisplayString(v)), nil
	}
	switch k := key.(type) {
	case *ast.Identifier:
		return object.StringKey(k.Name), nil
	case *ast.Literal:
		return object.StringKey(toDisplayString(literalValue(k))), nil
	default:
		return object.StringKey(""), nil
	}
}
