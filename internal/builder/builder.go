// Package builder converts the symbolic list form produced by the parser
// (pkg/ast.SExpr) into the typed AST (C5). The conversion is total: every
// head symbol the parser can produce is handled here, and an SExpr with an
// unrecognized head is an internal error, never a user-facing one, since
// by the time a tree reaches this stage it has already passed through the
// parser's own symbol vocabulary.
package builder

import (
	"fmt"

	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/symbol"
	"github.com/cwbudde/ecmalite/pkg/token"
)

// Build converts a (Program ...) SExpr into a *ast.Program.
func Build(root *ast.SExpr) (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("builder: %v", r)
		}
	}()
	if !symbol.Same(root.Head, symbol.Program) {
		return nil, fmt.Errorf("builder: expected Program, got %s", root.Head)
	}
	p := &ast.Program{}
	for _, s := range root.Args {
		p.Statements = append(p.Statements, buildStatement(s))
	}
	return p, nil
}

func tok(pos token.Position, lit string) token.Token {
	return token.Token{Pos: pos, Literal: lit}
}

func mustIdent(s *ast.SExpr) *ast.Identifier {
	name, _ := s.Args[0].Atom.(string)
	return &ast.Identifier{Token: tok(s.Pos, name), Name: name}
}

// buildStatement dispatches on head symbol. Anything that is not one of the
// recognized statement-only heads is treated as an expression in statement
// position and wrapped in an ExpressionStatement.
func buildStatement(s *ast.SExpr) ast.Statement {
	switch {
	case symbol.Same(s.Head, symbol.Let), symbol.Same(s.Head, symbol.Const), symbol.Same(s.Head, symbol.Var):
		return buildVariableDeclaration(s)
	case symbol.Same(s.Head, symbol.Block):
		return buildBlock(s)
	case symbol.Same(s.Head, symbol.If):
		return buildIf(s)
	case symbol.Same(s.Head, symbol.While):
		return buildWhile(s)
	case symbol.Same(s.Head, symbol.DoWhile):
		return buildDoWhile(s)
	case symbol.Same(s.Head, symbol.For):
		return buildFor(s)
	case symbol.Same(s.Head, symbol.ForIn):
		return buildForInOf(s, false, false)
	case symbol.Same(s.Head, symbol.ForOf):
		return buildForInOf(s, true, false)
	case symbol.Same(s.Head, symbol.ForAwaitOf):
		return buildForInOf(s, true, true)
	case symbol.Same(s.Head, symbol.Function):
		return buildFunctionDeclaration(s)
	case symbol.Same(s.Head, symbol.Return):
		return buildReturn(s)
	case symbol.Same(s.Head, symbol.Throw):
		return &ast.ThrowStatement{Token: tok(s.Pos, "throw"), Value: buildExpression(s.Args[0])}
	case symbol.Same(s.Head, symbol.Break):
		return buildBreakContinue(s, true)
	case symbol.Same(s.Head, symbol.Continue):
		return buildBreakContinue(s, false)
	case symbol.Same(s.Head, symbol.Labeled):
		return &ast.LabeledStatement{Token: tok(s.Pos, "label"), Label: s.Args[0].Atom.(string), Body: buildStatement(s.Args[1])}
	case symbol.Same(s.Head, symbol.Try):
		return buildTry(s)
	case symbol.Same(s.Head, symbol.Switch):
		return buildSwitch(s)
	case symbol.Same(s.Head, symbol.Class):
		return buildClass(s)
	case symbol.Same(s.Head, symbol.Empty):
		return &ast.EmptyStatement{Token: tok(s.Pos, "")}
	case symbol.Same(s.Head, symbol.ExprStmt):
		return &ast.ExpressionStatement{Token: tok(s.Pos, ""), Expr: buildExpression(s.Args[0])}
	default:
		return &ast.ExpressionStatement{Token: tok(s.Pos, ""), Expr: buildExpression(s)}
	}
}

func buildBlock(s *ast.SExpr) *ast.BlockStatement {
	b := &ast.BlockStatement{Token: tok(s.Pos, "{")}
	for _, st := range s.Args {
		b.Body = append(b.Body, buildStatement(st))
	}
	return b
}

func buildVariableDeclaration(s *ast.SExpr) *ast.VariableDeclaration {
	kind := ast.DeclVar
	switch {
	case symbol.Same(s.Head, symbol.Let):
		kind = ast.DeclLet
	case symbol.Same(s.Head, symbol.Const):
		kind = ast.DeclConst
	}
	decl := &ast.VariableDeclaration{Token: tok(s.Pos, ""), Kind: kind}
	for _, d := range s.Args {
		target := buildExpression(d.Args[0])
		var init ast.Expression
		if len(d.Args) > 1 {
			init = buildExpression(d.Args[1])
		}
		decl.Declarators = append(decl.Declarators, &ast.Declarator{Target: target, Init: init})
	}
	return decl
}

func buildIf(s *ast.SExpr) *ast.IfStatement {
	stmt := &ast.IfStatement{
		Token:      tok(s.Pos, "if"),
		Condition:  buildExpression(s.Args[0]),
		Consequent: buildStatement(s.Args[1]),
	}
	if len(s.Args) > 2 {
		stmt.Alternate = buildStatement(s.Args[2])
	}
	return stmt
}

func buildWhile(s *ast.SExpr) *ast.WhileStatement {
	return &ast.WhileStatement{Token: tok(s.Pos, "while"), Condition: buildExpression(s.Args[0]), Body: buildStatement(s.Args[1])}
}

func buildDoWhile(s *ast.SExpr) *ast.DoWhileStatement {
	return &ast.DoWhileStatement{Token: tok(s.Pos, "do"), Body: buildStatement(s.Args[0]), Condition: buildExpression(s.Args[1])}
}

func buildFor(s *ast.SExpr) *ast.ForStatement {
	stmt := &ast.ForStatement{Token: tok(s.Pos, "for")}
	if init := s.Args[0]; !symbol.Same(init.Head, symbol.Empty) {
		if symbol.Same(init.Head, symbol.Let) || symbol.Same(init.Head, symbol.Const) || symbol.Same(init.Head, symbol.Var) {
			stmt.Init = buildVariableDeclaration(init)
		} else if symbol.Same(init.Head, symbol.ExprStmt) {
			stmt.Init = buildExpression(init.Args[0])
		}
	}
	if cond := s.Args[1]; !symbol.Same(cond.Head, symbol.Empty) {
		stmt.Condition = buildExpression(cond)
	}
	if upd := s.Args[2]; !symbol.Same(upd.Head, symbol.Empty) {
		stmt.Update = buildExpression(upd)
	}
	stmt.Body = buildStatement(s.Args[3])
	return stmt
}

func buildForInOf(s *ast.SExpr, isOf, isAwait bool) ast.Statement {
	declArg := s.Args[0]
	var declKind *ast.DeclKind
	if !symbol.Same(declArg.Head, symbol.Empty) {
		k := ast.DeclLet
		switch {
		case symbol.Same(declArg.Head, symbol.Const):
			k = ast.DeclConst
		case symbol.Same(declArg.Head, symbol.Var):
			k = ast.DeclVar
		}
		declKind = &k
	}
	left := buildExpression(s.Args[1])
	right := buildExpression(s.Args[2])
	body := buildStatement(s.Args[3])
	if isOf {
		return &ast.ForOfStatement{Token: tok(s.Pos, "for"), DeclKind: declKind, Left: left, Right: right, Body: body, Await: isAwait}
	}
	return &ast.ForInStatement{Token: tok(s.Pos, "for"), DeclKind: declKind, Left: left, Right: right, Body: body}
}

func buildReturn(s *ast.SExpr) *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: tok(s.Pos, "return")}
	if len(s.Args) > 0 {
		stmt.Value = buildExpression(s.Args[0])
	}
	return stmt
}

func buildBreakContinue(s *ast.SExpr, isBreak bool) ast.Statement {
	label := ""
	if len(s.Args) > 0 {
		label, _ = s.Args[0].Atom.(string)
	}
	if isBreak {
		return &ast.BreakStatement{Token: tok(s.Pos, "break"), Label: label}
	}
	return &ast.ContinueStatement{Token: tok(s.Pos, "continue"), Label: label}
}

func buildTry(s *ast.SExpr) *ast.TryStatement {
	stmt := &ast.TryStatement{Token: tok(s.Pos, "try"), Block: buildBlock(s.Args[0])}
	for _, clause := range s.Args[1:] {
		switch {
		case symbol.Same(clause.Head, symbol.Catch):
			cc := &ast.CatchClause{}
			if len(clause.Args) == 2 {
				name, _ := clause.Args[0].Atom.(string)
				cc.Param = &ast.Identifier{Token: tok(clause.Pos, name), Name: name}
				cc.Body = buildBlock(clause.Args[1])
			} else {
				cc.Body = buildBlock(clause.Args[0])
			}
			stmt.Handler = cc
		case symbol.Same(clause.Head, symbol.Finally):
			stmt.Finalizer = buildBlock(clause.Args[0])
		}
	}
	return stmt
}

func buildSwitch(s *ast.SExpr) *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: tok(s.Pos, "switch"), Discriminant: buildExpression(s.Args[0])}
	for _, c := range s.Args[1:] {
		sc := &ast.SwitchCase{}
		start := 0
		if symbol.Same(c.Head, symbol.Case) {
			sc.Test = buildExpression(c.Args[0])
			start = 1
		}
		for _, st := range c.Args[start:] {
			sc.Body = append(sc.Body, buildStatement(st))
		}
		stmt.Cases = append(stmt.Cases, sc)
	}
	return stmt
}
