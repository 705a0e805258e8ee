// Package constfold implements the constant-folding pass (C6): arithmetic,
// comparison, and logical-negation expressions whose operands are both
// literals are evaluated once at build time instead of on every execution,
// the same transform the teacher's internal/optimizer package runs over its
// own AST before bytecode generation.
package constfold

import (
	"math"
	"strconv"

	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/token"
)

// Fold rewrites prog in place, replacing foldable subtrees with their
// computed *ast.Literal value.
func Fold(prog *ast.Program) {
	for i, s := range prog.Statements {
		prog.Statements[i] = foldStatement(s)
	}
}

func foldStatement(s ast.Statement) ast.Statement {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		n.Expr = foldExpr(n.Expr)
	case *ast.VariableDeclaration:
		for _, d := range n.Declarators {
			if d.Init != nil {
				d.Init = foldExpr(d.Init)
			}
		}
	case *ast.ReturnStatement:
		if n.Value != nil {
			n.Value = foldExpr(n.Value)
		}
	case *ast.ThrowStatement:
		n.Value = foldExpr(n.Value)
	case *ast.BlockStatement:
		for i, st := range n.Body {
			n.Body[i] = foldStatement(st)
		}
	case *ast.IfStatement:
		n.Condition = foldExpr(n.Condition)
		n.Consequent = foldStatement(n.Consequent)
		if n.Alternate != nil {
			n.Alternate = foldStatement(n.Alternate)
		}
	case *ast.WhileStatement:
		n.Condition = foldExpr(n.Condition)
		n.Body = foldStatement(n.Body)
	case *ast.DoWhileStatement:
		n.Body = foldStatement(n.Body)
		n.Condition = foldExpr(n.Condition)
	case *ast.ForStatement:
		if n.Init != nil {
			n.Init = foldStatement(n.Init)
		}
		if n.Condition != nil {
			n.Condition = foldExpr(n.Condition)
		}
		if n.Update != nil {
			n.Update = foldExpr(n.Update)
		}
		n.Body = foldStatement(n.Body)
	case *ast.ForInStatement:
		n.Right = foldExpr(n.Right)
		n.Body = foldStatement(n.Body)
	case *ast.ForOfStatement:
		n.Right = foldExpr(n.Right)
		n.Body = foldStatement(n.Body)
	case *ast.SwitchStatement:
		n.Discriminant = foldExpr(n.Discriminant)
		for _, c := range n.Cases {
			if c.Test != nil {
				c.Test = foldExpr(c.Test)
			}
			for i, st := range c.Body {
				c.Body[i] = foldStatement(st)
			}
		}
	case *ast.TryStatement:
		n.Block = foldStatement(n.Block).(*ast.BlockStatement)
		if n.Handler != nil {
			n.Handler.Body = foldStatement(n.Handler.Body).(*ast.BlockStatement)
		}
		if n.Finalizer != nil {
			n.Finalizer = foldStatement(n.Finalizer).(*ast.BlockStatement)
		}
	case *ast.LabeledStatement:
		n.Body = foldStatement(n.Body)
	case *ast.FunctionDeclaration:
		n.Body = foldStatement(n.Body).(*ast.BlockStatement)
	case *ast.ClassDeclaration:
		for _, m := range n.Methods {
			m.Value.Body = foldStatement(m.Value.Body).(*ast.BlockStatement)
		}
		for _, f := range n.Fields {
			if f.Value != nil {
				f.Value = foldExpr(f.Value)
			}
		}
	}
	return s
}

func foldExpr(e ast.Expression) ast.Expression {
	switch n := e.(type) {
	case *ast.GroupedExpression:
		n.Inner = foldExpr(n.Inner)
		if lit, ok := n.Inner.(*ast.Literal); ok {
			return lit
		}
	case *ast.UnaryExpression:
		n.Operand = foldExpr(n.Operand)
		if lit, ok := n.Operand.(*ast.Literal); ok {
			if folded, ok := foldUnary(n.Operator, lit); ok {
				return folded
			}
		}
	case *ast.BinaryExpression:
		n.Left = foldExpr(n.Left)
		n.Right = foldExpr(n.Right)
		if l, lok := n.Left.(*ast.Literal); lok {
			if r, rok := n.Right.(*ast.Literal); rok {
				if folded, ok := foldBinary(n.Operator, l, r); ok {
					return folded
				}
			}
		}
	case *ast.LogicalExpression:
		n.Left = foldExpr(n.Left)
		n.Right = foldExpr(n.Right)
	case *ast.ConditionalExpression:
		n.Test = foldExpr(n.Test)
		n.Consequent = foldExpr(n.Consequent)
		n.Alternate = foldExpr(n.Alternate)
		if lit, ok := n.Test.(*ast.Literal); ok {
			if truthy(lit) {
				return n.Consequent
			}
			return n.Alternate
		}
	case *ast.AssignmentExpression:
		n.Value = foldExpr(n.Value)
	case *ast.UpdateExpression:
		// never foldable: always mutates a binding.
	case *ast.CallExpression:
		n.Callee = foldExpr(n.Callee)
		for i, a := range n.Args {
			n.Args[i] = foldExpr(a)
		}
	case *ast.NewExpression:
		n.Callee = foldExpr(n.Callee)
		for i, a := range n.Args {
			n.Args[i] = foldExpr(a)
		}
	case *ast.MemberExpression:
		n.Object = foldExpr(n.Object)
		if n.Computed {
			n.Property = foldExpr(n.Property)
		}
	case *ast.ArrayLiteral:
		for i, el := range n.Elements {
			if el != nil {
				n.Elements[i] = foldExpr(el)
			}
		}
	case *ast.ObjectLiteral:
		for _, p := range n.Props {
			if p.Computed {
				p.Key = foldExpr(p.Key)
			}
			p.Value = foldExpr(p.Value)
		}
	case *ast.SpreadElement:
		n.Argument = foldExpr(n.Argument)
	case *ast.TemplateLiteral:
		for i, ex := range n.Expressions {
			n.Expressions[i] = foldExpr(ex)
		}
	case *ast.YieldExpression:
		if n.Argument != nil {
			n.Argument = foldExpr(n.Argument)
		}
	case *ast.AwaitExpression:
		n.Argument = foldExpr(n.Argument)
	case *ast.FunctionExpression:
		n.Body = foldStatement(n.Body).(*ast.BlockStatement)
	case *ast.ArrowFunctionExpression:
		switch body := n.Body.(type) {
		case *ast.BlockStatement:
			n.Body = foldStatement(body).(*ast.BlockStatement)
		case ast.Expression:
			n.Body = foldExpr(body)
		}
	}
	return e
}

func truthy(l *ast.Literal) bool {
	switch l.Kind {
	case ast.BooleanLit:
		return l.Value.(bool)
	case ast.NullLit, ast.UndefinedLit:
		return false
	case ast.NumberLit:
		f := l.Value.(float64)
		return f != 0 && !math.IsNaN(f)
	case ast.StringLit:
		return l.Value.(string) != ""
	default:
		return true
	}
}

func numOf(l *ast.Literal) (float64, bool) {
	switch l.Kind {
	case ast.NumberLit:
		return l.Value.(float64), true
	case ast.BooleanLit:
		if l.Value.(bool) {
			return 1, true
		}
		return 0, true
	case ast.StringLit:
		f, err := strconv.ParseFloat(l.Value.(string), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func lit(src ast.Node, kind ast.LiteralKind, v any) *ast.Literal {
	return &ast.Literal{Token: token.Token{Pos: src.Pos()}, Kind: kind, Value: v}
}

func foldUnary(op string, operand *ast.Literal) (*ast.Literal, bool) {
	switch op {
	case "-":
		if f, ok := numOf(operand); ok {
			return lit(operand, ast.NumberLit, -f), true
		}
	case "+":
		if f, ok := numOf(operand); ok {
			return lit(operand, ast.NumberLit, f), true
		}
	case "!":
		return lit(operand, ast.BooleanLit, !truthy(operand)), true
	case "~":
		if f, ok := numOf(operand); ok {
			return lit(operand, ast.NumberLit, float64(^int32(f))), true
		}
	}
	return nil, false
}

func foldBinary(op string, l, r *ast.Literal) (*ast.Literal, bool) {
	// String concatenation: only when `+` and at least one side is a string,
	// matching the runtime's own `add` semantics (numeric otherwise).
	if op == "+" && (l.Kind == ast.StringLit || r.Kind == ast.StringLit) {
		return lit(l, ast.StringLit, literalText(l)+literalText(r)), true
	}
	if l.Kind == ast.StringLit && r.Kind == ast.StringLit {
		switch op {
		case "==", "===":
			return lit(l, ast.BooleanLit, l.Value.(string) == r.Value.(string)), true
		case "!=", "!==":
			return lit(l, ast.BooleanLit, l.Value.(string) != r.Value.(string)), true
		case "<":
			return lit(l, ast.BooleanLit, l.Value.(string) < r.Value.(string)), true
		case "<=":
			return lit(l, ast.BooleanLit, l.Value.(string) <= r.Value.(string)), true
		case ">":
			return lit(l, ast.BooleanLit, l.Value.(string) > r.Value.(string)), true
		case ">=":
			return lit(l, ast.BooleanLit, l.Value.(string) >= r.Value.(string)), true
		}
	}
	lf, lok := numOf(l)
	rf, rok := numOf(r)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case "+":
		return lit(l, ast.NumberLit, lf+rf), true
	case "-":
		return lit(l, ast.NumberLit, lf-rf), true
	case "*":
		return lit(l, ast.NumberLit, lf*rf), true
	case "/":
		return lit(l, ast.NumberLit, lf/rf), true
	case "%":
		return lit(l, ast.NumberLit, math.Mod(lf, rf)), true
	case "**":
		return lit(l, ast.NumberLit, math.Pow(lf, rf)), true
	case "&":
		return lit(l, ast.NumberLit, float64(int32(lf)&int32(rf))), true
	case "|":
		return lit(l, ast.NumberLit, float64(int32(lf)|int32(rf))), true
	case "^":
		return lit(l, ast.NumberLit, float64(int32(lf)^int32(rf))), true
	case "<<":
		return lit(l, ast.NumberLit, float64(int32(lf)<<(uint32(rf)&31))), true
	case ">>":
		return lit(l, ast.NumberLit, float64(int32(lf)>>(uint32(rf)&31))), true
	case "<":
		return lit(l, ast.BooleanLit, lf < rf), true
	case "<=":
		return lit(l, ast.BooleanLit, lf <= rf), true
	case ">":
		return lit(l, ast.BooleanLit, lf > rf), true
	case ">=":
		return lit(l, ast.BooleanLit, lf >= rf), true
	case "==", "===":
		return lit(l, ast.BooleanLit, lf == rf), true
	case "!=", "!==":
		return lit(l, ast.BooleanLit, lf != rf), true
	}
	return nil, false
}

func literalText(l *ast.Literal) string {
	switch l.Kind {
	case ast.StringLit:
		return l.Value.(string)
	case ast.NumberLit:
		f := l.Value.(float64)
		if f == math.Trunc(f) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case ast.BooleanLit:
		if l.Value.(bool) {
			return "true"
		}
		return "false"
	case ast.NullLit:
		return "null"
	case ast.UndefinedLit:
		return "undefined"
	case ast.BigIntLit:
		s, _ := l.Value.(string)
		return s
	default:
		return ""
	}
}

