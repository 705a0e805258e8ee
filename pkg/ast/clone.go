package ast

// Clone returns a structurally independent deep copy of n. No pass or test
// in this module calls it.
func Clone(n Node) Node {
	switch node := n.(type) {
	case nil:
		return nil
	case *Identifier:
		c := *node
		return &c
	case *Literal:
		c := *node
		return &c
	case *ThisExpression:
		c := *node
		return &c
	case *SuperExpression:
		c := *node
		return &c
	case *EmptyStatement:
		c := *node
		return &c
	case *BreakStatement:
		c := *node
		return &c
	case *ContinueStatement:
		c := *node
		return &c
	case *TemplateLiteral:
		c := *node
		c.Quasis = append([]string(nil), node.Quasis...)
		c.Expressions = cloneExprSlice(node.Expressions)
		return &c
	case *UnaryExpression:
		c := *node
		c.Operand = Clone(node.Operand).(Expression)
		return &c
	case *UpdateExpression:
		c := *node
		c.Operand = Clone(node.Operand).(Expression)
		return &c
	case *BinaryExpression:
		c := *node
		c.Left = Clone(node.Left).(Expression)
		c.Right = Clone(node.Right).(Expression)
		return &c
	case *LogicalExpression:
		c := *node
		c.Left = Clone(node.Left).(Expression)
		c.Right = Clone(node.Right).(Expression)
		return &c
	case *AssignmentExpression:
		c := *node
		c.Target = Clone(node.Target).(Expression)
		c.Value = Clone(node.Value).(Expression)
		return &c
	case *ConditionalExpression:
		c := *node
		c.Test = Clone(node.Test).(Expression)
		c.Consequent = Clone(node.Consequent).(Expression)
		c.Alternate = Clone(node.Alternate).(Expression)
		return &c
	case *GroupedExpression:
		c := *node
		c.Inner = Clone(node.Inner).(Expression)
		return &c
	case *SpreadElement:
		c := *node
		c.Argument = Clone(node.Argument).(Expression)
		return &c
	case *CallExpression:
		c := *node
		c.Callee = Clone(node.Callee).(Expression)
		c.Args = cloneExprSlice(node.Args)
		return &c
	case *NewExpression:
		c := *node
		c.Callee = Clone(node.Callee).(Expression)
		c.Args = cloneExprSlice(node.Args)
		return &c
	case *MemberExpression:
		c := *node
		c.Object = Clone(node.Object).(Expression)
		c.Property = Clone(node.Property).(Expression)
		return &c
	case *ObjectLiteral:
		c := *node
		c.Props = make([]*Property, len(node.Props))
		for i, p := range node.Props {
			pc := *p
			pc.Key = Clone(p.Key).(Expression)
			pc.Value = Clone(p.Value).(Expression)
			c.Props[i] = &pc
		}
		return &c
	case *ArrayLiteral:
		c := *node
		c.Elements = cloneExprSlice(node.Elements)
		return &c
	case *YieldExpression:
		c := *node
		if node.Argument != nil {
			c.Argument = Clone(node.Argument).(Expression)
		}
		return &c
	case *AwaitExpression:
		c := *node
		c.Argument = Clone(node.Argument).(Expression)
		return &c
	case *FunctionExpression:
		c := *node
		c.Body = Clone(node.Body).(*BlockStatement)
		return &c
	case *ArrowFunctionExpression:
		c := *node
		c.Body = Clone(node.Body)
		return &c
	case *ExpressionStatement:
		c := *node
		if node.Expr != nil {
			c.Expr = Clone(node.Expr).(Expression)
		}
		return &c
	case *VariableDeclaration:
		c := *node
		c.Declarators = make([]*Declarator, len(node.Declarators))
		for i, d := range node.Declarators {
			dc := &Declarator{Target: Clone(d.Target).(Expression)}
			if d.Init != nil {
				dc.Init = Clone(d.Init).(Expression)
			}
			c.Declarators[i] = dc
		}
		return &c
	case *ReturnStatement:
		c := *node
		if node.Value != nil {
			c.Value = Clone(node.Value).(Expression)
		}
		return &c
	case *ThrowStatement:
		c := *node
		c.Value = Clone(node.Value).(Expression)
		return &c
	case *LabeledStatement:
		c := *node
		c.Body = Clone(node.Body).(Statement)
		return &c
	case *BlockStatement:
		c := *node
		c.Body = make([]Statement, len(node.Body))
		for i, s := range node.Body {
			c.Body[i] = Clone(s).(Statement)
		}
		return &c
	case *IfStatement:
		c := *node
		c.Condition = Clone(node.Condition).(Expression)
		c.Consequent = Clone(node.Consequent).(Statement)
		if node.Alternate != nil {
			c.Alternate = Clone(node.Alternate).(Statement)
		}
		return &c
	case *WhileStatement:
		c := *node
		c.Condition = Clone(node.Condition).(Expression)
		c.Body = Clone(node.Body).(Statement)
		return &c
	case *DoWhileStatement:
		c := *node
		c.Body = Clone(node.Body).(Statement)
		c.Condition = Clone(node.Condition).(Expression)
		return &c
	case *ForStatement:
		c := *node
		if node.Init != nil {
			c.Init = Clone(node.Init.(Node))
		}
		if node.Condition != nil {
			c.Condition = Clone(node.Condition).(Expression)
		}
		if node.Update != nil {
			c.Update = Clone(node.Update).(Expression)
		}
		c.Body = Clone(node.Body).(Statement)
		return &c
	case *ForInStatement:
		c := *node
		c.Left = Clone(node.Left).(Expression)
		c.Right = Clone(node.Right).(Expression)
		c.Body = Clone(node.Body).(Statement)
		return &c
	case *ForOfStatement:
		c := *node
		c.Left = Clone(node.Left).(Expression)
		c.Right = Clone(node.Right).(Expression)
		c.Body = Clone(node.Body).(Statement)
		return &c
	case *SwitchStatement:
		c := *node
		c.Discriminant = Clone(node.Discriminant).(Expression)
		c.Cases = make([]*SwitchCase, len(node.Cases))
		for i, sc := range node.Cases {
			nc := &SwitchCase{Body: make([]Statement, len(sc.Body))}
			if sc.Test != nil {
				nc.Test = Clone(sc.Test).(Expression)
			}
			for j, s := range sc.Body {
				nc.Body[j] = Clone(s).(Statement)
			}
			c.Cases[i] = nc
		}
		return &c
	case *TryStatement:
		c := *node
		c.Block = Clone(node.Block).(*BlockStatement)
		if node.Handler != nil {
			h := &CatchClause{Body: Clone(node.Handler.Body).(*BlockStatement)}
			if node.Handler.Param != nil {
				p := *node.Handler.Param
				h.Param = &p
			}
			c.Handler = h
		}
		if node.Finalizer != nil {
			c.Finalizer = Clone(node.Finalizer).(*BlockStatement)
		}
		return &c
	case *FunctionDeclaration:
		c := *node
		c.Body = Clone(node.Body).(*BlockStatement)
		return &c
	default:
		// Nodes without internal structure relevant to the rewriting passes
		// (e.g. ClassDeclaration, which C6-C8 never rewrite in place) are
		// returned as-is; callers that need a deep class clone build one
		// explicitly at the point of use.
		return n
	}
}

func cloneExprSlice(in []Expression) []Expression {
	if in == nil {
		return nil
	}
	out := make([]Expression, len(in))
	for i, e := range in {
		if e == nil {
			continue
		}
		out[i] = Clone(e).(Expression)
	}
	return out
}
