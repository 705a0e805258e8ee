package ast

// Visitor is called once per node during Walk. Returning false stops
// descent into the node's children (but sibling traversal continues).
type Visitor func(n Node) bool

// Walk performs a depth-first traversal of the typed tree, calling v on
// every node reached. It is used by the transformation passes (C6-C8) to
// locate fold candidates, yield sites, and await sites without each pass
// re-implementing tree descent.
//
// Per spec §4.7, generator-yield lowering must NOT descend into nested
// function expressions — callers that need that restriction stop descent
// themselves by returning false from v when they see a FunctionExpression/
// FunctionDeclaration/ArrowFunctionExpression/ClassDeclaration.
func Walk(n Node, v Visitor) {
	if n == nil || !v(n) {
		return
	}
	switch node := n.(type) {
	case *Program:
		for _, s := range node.Statements {
			Walk(s, v)
		}
	case *ExpressionStatement:
		Walk(node.Expr, v)
	case *VariableDeclaration:
		for _, d := range node.Declarators {
			Walk(d.Target, v)
			if d.Init != nil {
				Walk(d.Init, v)
			}
		}
	case *ReturnStatement:
		if node.Value != nil {
			Walk(node.Value, v)
		}
	case *ThrowStatement:
		Walk(node.Value, v)
	case *LabeledStatement:
		Walk(node.Body, v)
	case *BlockStatement:
		for _, s := range node.Body {
			Walk(s, v)
		}
	case *IfStatement:
		Walk(node.Condition, v)
		Walk(node.Consequent, v)
		if node.Alternate != nil {
			Walk(node.Alternate, v)
		}
	case *WhileStatement:
		Walk(node.Condition, v)
		Walk(node.Body, v)
	case *DoWhileStatement:
		Walk(node.Body, v)
		Walk(node.Condition, v)
	case *ForStatement:
		if node.Init != nil {
			Walk(node.Init, v)
		}
		if node.Condition != nil {
			Walk(node.Condition, v)
		}
		if node.Update != nil {
			Walk(node.Update, v)
		}
		Walk(node.Body, v)
	case *ForInStatement:
		Walk(node.Left, v)
		Walk(node.Right, v)
		Walk(node.Body, v)
	case *ForOfStatement:
		Walk(node.Left, v)
		Walk(node.Right, v)
		Walk(node.Body, v)
	case *SwitchStatement:
		Walk(node.Discriminant, v)
		for _, c := range node.Cases {
			if c.Test != nil {
				Walk(c.Test, v)
			}
			for _, s := range c.Body {
				Walk(s, v)
			}
		}
	case *TryStatement:
		Walk(node.Block, v)
		if node.Handler != nil {
			Walk(node.Handler.Body, v)
		}
		if node.Finalizer != nil {
			Walk(node.Finalizer, v)
		}
	case *FunctionDeclaration:
		Walk(node.Body, v)
	case *FunctionExpression:
		Walk(node.Body, v)
	case *ArrowFunctionExpression:
		Walk(node.Body, v)
	case *ClassDeclaration:
		if node.SuperClass != nil {
			Walk(node.SuperClass, v)
		}
		for _, m := range node.Methods {
			Walk(m.Value, v)
		}
		for _, f := range node.Fields {
			if f.Value != nil {
				Walk(f.Value, v)
			}
		}
	case *UnaryExpression:
		Walk(node.Operand, v)
	case *UpdateExpression:
		Walk(node.Operand, v)
	case *BinaryExpression:
		Walk(node.Left, v)
		Walk(node.Right, v)
	case *LogicalExpression:
		Walk(node.Left, v)
		Walk(node.Right, v)
	case *AssignmentExpression:
		Walk(node.Target, v)
		Walk(node.Value, v)
	case *ConditionalExpression:
		Walk(node.Test, v)
		Walk(node.Consequent, v)
		Walk(node.Alternate, v)
	case *GroupedExpression:
		Walk(node.Inner, v)
	case *SpreadElement:
		Walk(node.Argument, v)
	case *CallExpression:
		Walk(node.Callee, v)
		for _, a := range node.Args {
			Walk(a, v)
		}
	case *NewExpression:
		Walk(node.Callee, v)
		for _, a := range node.Args {
			Walk(a, v)
		}
	case *MemberExpression:
		Walk(node.Object, v)
		if node.Computed {
			Walk(node.Property, v)
		}
	case *ObjectLiteral:
		for _, p := range node.Props {
			if p.Computed {
				Walk(p.Key, v)
			}
			Walk(p.Value, v)
		}
	case *ArrayLiteral:
		for _, e := range node.Elements {
			if e != nil {
				Walk(e, v)
			}
		}
	case *TemplateLiteral:
		for _, e := range node.Expressions {
			Walk(e, v)
		}
	case *YieldExpression:
		if node.Argument != nil {
			Walk(node.Argument, v)
		}
	case *AwaitExpression:
		Walk(node.Argument, v)
	// Identifier, Literal, ThisExpression, SuperExpression, EmptyStatement,
	// BreakStatement, ContinueStatement are leaves.
	}
}

// Contains reports whether any node in the subtree rooted at n satisfies
// pred.
func Contains(n Node, pred func(Node) bool) bool {
	found := false
	Walk(n, func(node Node) bool {
		if found {
			return false
		}
		if pred(node) {
			found = true
			return false
		}
		return true
	})
	return found
}
