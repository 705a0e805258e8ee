package parser

import (
	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/symbol"
	"github.com/cwbudde/ecmalite/pkg/token"
)

// parseClass parses both class declarations and class expressions (spec
// §4.10); the builder decides which based on statement vs expression
// position.
func (p *Parser) parseClass() *ast.SExpr {
	pos := p.pos()
	var name *ast.SExpr
	if p.peekIs(token.IDENT) {
		p.nextToken()
		name = ast.Leaf(pos, symbol.Identifier, p.cur.Token.Literal)
	} else {
		name = ast.Leaf(pos, symbol.Empty, nil)
	}
	var super *ast.SExpr
	if p.peekIs(token.EXTENDS) {
		p.nextToken()
		p.nextToken()
		super = ast.List(pos, symbol.Extends, p.parseExpression(CALL))
	} else {
		super = ast.Leaf(pos, symbol.Empty, nil)
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	var members []*ast.SExpr
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		if p.curIs(token.SEMICOLON) {
			continue
		}
		members = append(members, p.parseClassMember())
	}
	if !p.expect(token.RBRACE) {
		return nil
	}
	args := append([]*ast.SExpr{name, super}, members...)
	return ast.List(pos, symbol.Class, args...)
}

func (p *Parser) parseClassMember() *ast.SExpr {
	pos := p.pos()
	static := false
	if p.curIs(token.STATIC) {
		static = true
		p.nextToken()
	}
	isAsync := false
	if p.curIs(token.ASYNC) && !p.peekIs(token.LPAREN) {
		isAsync = true
		p.nextToken()
	}
	isGen := false
	if p.curIs(token.STAR) {
		isGen = true
		p.nextToken()
	}
	getter, setter := false, false
	if p.curIs(token.GET) && !p.peekIs(token.LPAREN) {
		getter = true
		p.nextToken()
	} else if p.curIs(token.SET) && !p.peekIs(token.LPAREN) {
		setter = true
		p.nextToken()
	}
	key := ast.Leaf(pos, symbol.Identifier, p.cur.Token.Literal)
	staticFlag := ast.Leaf(pos, symbol.Empty, static)
	getterFlag := ast.Leaf(pos, symbol.Empty, getter)
	setterFlag := ast.Leaf(pos, symbol.Empty, setter)

	if p.peekIs(token.LPAREN) {
		params := p.parseParamList()
		body := p.parseBlock()
		fn := ast.List(pos, symbol.Function, ast.Leaf(pos, symbol.Empty, nil), ast.List(pos, symbol.Param, params...), body, ast.Leaf(pos, symbol.Empty, isAsync), ast.Leaf(pos, symbol.Empty, isGen))
		return ast.List(pos, symbol.Method, key, fn, staticFlag, getterFlag, setterFlag)
	}

	// field
	var init *ast.SExpr
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		init = p.parseExpression(ASSIGNMENT)
	}
	p.consumeSemicolon()
	args := []*ast.SExpr{key, staticFlag}
	if init != nil {
		args = append(args, init)
	}
	return ast.List(pos, symbol.Field, args...)
}
