package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/symbol"
)

func buildExpression(s *ast.SExpr) ast.Expression {
	if s == nil {
		return nil
	}
	if s.IsLeaf() {
		return buildLiteralLeaf(s)
	}
	switch {
	case symbol.Same(s.Head, symbol.Identifier):
		return mustIdent(s)
	case symbol.Same(s.Head, symbol.Literal):
		return buildLiteralLeaf(s)
	case symbol.Same(s.Head, symbol.Template):
		return buildTemplate(s)
	case symbol.Same(s.Head, symbol.Uninitialized):
		return &ast.Literal{Token: tok(s.Pos, "undefined"), Kind: ast.UndefinedLit}
	case symbol.Same(s.Head, symbol.This):
		return &ast.ThisExpression{Token: tok(s.Pos, "this")}
	case symbol.Same(s.Head, symbol.Super):
		return &ast.SuperExpression{Token: tok(s.Pos, "super")}
	case symbol.Same(s.Head, symbol.Grouped):
		return &ast.GroupedExpression{Token: tok(s.Pos, "("), Inner: buildExpression(s.Args[0])}
	case symbol.Same(s.Head, symbol.Spread):
		return &ast.SpreadElement{Token: tok(s.Pos, "..."), Argument: buildExpression(s.Args[0])}
	case symbol.Same(s.Head, symbol.Unary):
		return buildUnary(s)
	case symbol.Same(s.Head, symbol.Update):
		return buildUpdate(s)
	case symbol.Same(s.Head, symbol.Binary):
		return &ast.BinaryExpression{Token: tok(s.Pos, ""), Left: buildExpression(s.Args[1]), Operator: leafStr(s.Args[0]), Right: buildExpression(s.Args[2])}
	case symbol.Same(s.Head, symbol.Logical):
		return &ast.LogicalExpression{Token: tok(s.Pos, ""), Left: buildExpression(s.Args[1]), Operator: leafStr(s.Args[0]), Right: buildExpression(s.Args[2])}
	case symbol.Same(s.Head, symbol.Assign):
		return &ast.AssignmentExpression{Token: tok(s.Pos, ""), Target: buildExpression(s.Args[1]), Operator: leafStr(s.Args[0]), Value: buildExpression(s.Args[2])}
	case symbol.Same(s.Head, symbol.Conditional):
		return &ast.ConditionalExpression{Token: tok(s.Pos, "?"), Test: buildExpression(s.Args[0]), Consequent: buildExpression(s.Args[1]), Alternate: buildExpression(s.Args[2])}
	case symbol.Same(s.Head, symbol.Call):
		return &ast.CallExpression{Token: tok(s.Pos, ""), Callee: buildExpression(s.Args[0]), Args: buildExprList(s.Args[1:])}
	case symbol.Same(s.Head, symbol.New):
		return &ast.NewExpression{Token: tok(s.Pos, "new"), Callee: buildExpression(s.Args[0]), Args: buildExprList(s.Args[1:])}
	case symbol.Same(s.Head, symbol.GetProperty):
		return &ast.MemberExpression{Token: tok(s.Pos, "."), Object: buildExpression(s.Args[0]), Property: buildExpression(s.Args[1]), Computed: false}
	case symbol.Same(s.Head, symbol.GetIndex):
		return &ast.MemberExpression{Token: tok(s.Pos, "["), Object: buildExpression(s.Args[0]), Property: buildExpression(s.Args[1]), Computed: true}
	case symbol.Same(s.Head, symbol.OptionalChain):
		inner := buildExpression(s.Args[0]).(*ast.MemberExpression)
		inner.Optional = true
		return inner
	case symbol.Same(s.Head, symbol.ArrayLiteral):
		return buildArrayLiteral(s)
	case symbol.Same(s.Head, symbol.ObjectLiteral):
		return buildObjectLiteral(s)
	case symbol.Same(s.Head, symbol.Function):
		return buildFunctionExpression(s)
	case symbol.Same(s.Head, symbol.Arrow):
		return buildArrow(s)
	case symbol.Same(s.Head, symbol.Class):
		return buildClass(s)
	case symbol.Same(s.Head, symbol.Yield):
		return buildYield(s, false)
	case symbol.Same(s.Head, symbol.YieldStar):
		return buildYield(s, true)
	case symbol.Same(s.Head, symbol.Await):
		return &ast.AwaitExpression{Token: tok(s.Pos, "await"), Argument: buildExpression(s.Args[0])}
	default:
		panic(fmt.Sprintf("unrecognized expression head %s", s.Head))
	}
}

func buildLiteralLeaf(s *ast.SExpr) ast.Expression {
	switch v := s.Atom.(type) {
	case nil:
		return &ast.Literal{Token: tok(s.Pos, "null"), Kind: ast.NullLit}
	case bool:
		return &ast.Literal{Token: tok(s.Pos, strconv.FormatBool(v)), Kind: ast.BooleanLit, Value: v}
	case float64:
		return &ast.Literal{Token: tok(s.Pos, strconv.FormatFloat(v, 'g', -1, 64)), Kind: ast.NumberLit, Value: v}
	case string:
		if symbol.Same(s.Head, symbol.Literal) && strings.HasSuffix(v, "n") {
			return &ast.Literal{Token: tok(s.Pos, v), Kind: ast.BigIntLit, Value: strings.TrimSuffix(v, "n")}
		}
		return &ast.Literal{Token: tok(s.Pos, v), Kind: ast.StringLit, Value: v}
	default:
		return &ast.Literal{Token: tok(s.Pos, ""), Kind: ast.UndefinedLit}
	}
}

func leafStr(s *ast.SExpr) string {
	str, _ := s.Atom.(string)
	return str
}

func buildExprList(list []*ast.SExpr) []ast.Expression {
	out := make([]ast.Expression, len(list))
	for i, e := range list {
		out[i] = buildExpression(e)
	}
	return out
}

func buildUnary(s *ast.SExpr) *ast.UnaryExpression {
	return &ast.UnaryExpression{Token: tok(s.Pos, ""), Operator: leafStr(s.Args[0]), Operand: buildExpression(s.Args[1])}
}

func buildUpdate(s *ast.SExpr) *ast.UpdateExpression {
	prefix := leafStr(s.Args[2]) == "prefix"
	return &ast.UpdateExpression{Token: tok(s.Pos, ""), Operator: leafStr(s.Args[0]), Operand: buildExpression(s.Args[1]), Prefix: prefix}
}

func buildTemplate(s *ast.SExpr) *ast.TemplateLiteral {
	quasis, _ := s.Args[0].Atom.([]string)
	tpl := &ast.TemplateLiteral{Token: tok(s.Pos, "`"), Quasis: quasis}
	for _, e := range s.Args[1:] {
		tpl.Expressions = append(tpl.Expressions, buildExpression(e))
	}
	return tpl
}

func buildArrayLiteral(s *ast.SExpr) *ast.ArrayLiteral {
	arr := &ast.ArrayLiteral{Token: tok(s.Pos, "[")}
	for _, e := range s.Args {
		if symbol.Same(e.Head, symbol.Empty) {
			arr.Elements = append(arr.Elements, nil)
			continue
		}
		arr.Elements = append(arr.Elements, buildExpression(e))
	}
	return arr
}

func buildObjectLiteral(s *ast.SExpr) *ast.ObjectLiteral {
	obj := &ast.ObjectLiteral{Token: tok(s.Pos, "{")}
	for _, p := range s.Args {
		switch {
		case symbol.Same(p.Head, symbol.Spread):
			obj.Spreads = append(obj.Spreads, buildExpression(p.Args[0]))
		case symbol.Same(p.Head, symbol.Method):
			key := buildExpression(p.Args[0])
			fn := buildFunctionExpression(p.Args[1])
			obj.Props = append(obj.Props, &ast.Property{Key: key, Value: fn, Kind: "init"})
		default:
			key := buildExpression(p.Args[0])
			val := buildExpression(p.Args[1])
			_, shorthand := val.(*ast.Identifier)
			if id, ok := key.(*ast.Identifier); ok && shorthand {
				if vi, ok := val.(*ast.Identifier); ok && vi.Name == id.Name {
					shorthand = true
				}
			}
			obj.Props = append(obj.Props, &ast.Property{Key: key, Value: val, Kind: "init", Shorthand: shorthand})
		}
	}
	return obj
}

func buildParams(paramList *ast.SExpr) []*ast.Param {
	var params []*ast.Param
	for _, p := range paramList.Args {
		name := mustIdent(&ast.SExpr{Pos: p.Pos, Args: []*ast.SExpr{p.Args[0]}})
		rest, _ := p.Args[1].Atom.(bool)
		param := &ast.Param{Name: name, Rest: rest}
		if len(p.Args) > 2 {
			param.Default = buildExpression(p.Args[2])
		}
		params = append(params, param)
	}
	return params
}

func buildFunctionExpression(s *ast.SExpr) *ast.FunctionExpression {
	var name *ast.Identifier
	if !symbol.Same(s.Args[0].Head, symbol.Empty) {
		n, _ := s.Args[0].Atom.(string)
		if n != "" {
			name = &ast.Identifier{Token: tok(s.Pos, n), Name: n}
		}
	}
	params := buildParams(s.Args[1])
	body := buildBlock(s.Args[2])
	isAsync, isGen := false, false
	if len(s.Args) > 3 {
		isAsync, _ = s.Args[3].Atom.(bool)
	}
	if len(s.Args) > 4 {
		isGen, _ = s.Args[4].Atom.(bool)
	}
	return &ast.FunctionExpression{Token: tok(s.Pos, "function"), Name: name, Params: params, Body: body, IsAsync: isAsync, IsGenerator: isGen}
}

func buildFunctionDeclaration(s *ast.SExpr) *ast.FunctionDeclaration {
	fe := buildFunctionExpression(s)
	return &ast.FunctionDeclaration{Token: fe.Token, Name: fe.Name, Params: fe.Params, Body: fe.Body, IsAsync: fe.IsAsync, IsGenerator: fe.IsGenerator}
}

func buildArrow(s *ast.SExpr) *ast.ArrowFunctionExpression {
	params := buildParams(s.Args[0])
	var body ast.Node
	if symbol.Same(s.Args[1].Head, symbol.Block) {
		body = buildBlock(s.Args[1])
	} else {
		body = buildExpression(s.Args[1])
	}
	isAsync := false
	if len(s.Args) > 2 {
		isAsync, _ = s.Args[2].Atom.(bool)
	}
	return &ast.ArrowFunctionExpression{Token: tok(s.Pos, "=>"), Params: params, Body: body, IsAsync: isAsync}
}

func buildYield(s *ast.SExpr, delegate bool) *ast.YieldExpression {
	y := &ast.YieldExpression{Token: tok(s.Pos, "yield"), Delegate: delegate}
	if len(s.Args) > 0 {
		y.Argument = buildExpression(s.Args[0])
	}
	return y
}
