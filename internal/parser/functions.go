package parser

import (
	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/symbol"
	"github.com/cwbudde/ecmalite/pkg/token"
)

// parseParamList parses `(a, b = 1, ...rest)`, starting with cur on the
// token before `(`. Returns one SExpr per parameter, head symbol.Param.
func (p *Parser) parseParamList() []*ast.SExpr {
	if !p.expect(token.LPAREN) {
		return nil
	}
	var params []*ast.SExpr
	for !p.peekIs(token.RPAREN) {
		p.nextToken()
		pos := p.pos()
		rest := false
		if p.curIs(token.DOTDOTDOT) {
			rest = true
			p.nextToken()
		}
		name := ast.Leaf(pos, symbol.Identifier, p.cur.Token.Literal)
		var def *ast.SExpr
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			def = p.parseExpression(ASSIGNMENT)
		}
		restFlag := ast.Leaf(pos, symbol.Empty, rest)
		args := []*ast.SExpr{name, restFlag}
		if def != nil {
			args = append(args, def)
		}
		params = append(params, ast.List(pos, symbol.Param, args...))
		if p.peekIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseFunctionDeclaration(isAsync bool) *ast.SExpr {
	return p.buildFunction(isAsync, true)
}

func (p *Parser) parseFunctionExpression() *ast.SExpr {
	return p.parseFunctionExpressionAsync(false)
}

func (p *Parser) parseFunctionExpressionAsync(isAsync bool) *ast.SExpr {
	return p.buildFunction(isAsync, false)
}

// buildFunction parses `function [*] name? (params) { body }` into
// (Function name params body async generator); the name slot is an Empty
// leaf for an anonymous function and the two flags are boolean leaves, so
// the builder (C5) can reconstruct the typed node without re-scanning tokens.
func (p *Parser) buildFunction(isAsync, _ bool) *ast.SExpr {
	pos := p.pos()
	isGenerator := false
	if p.peekIs(token.STAR) {
		p.nextToken()
		isGenerator = true
	}
	var name *ast.SExpr
	if p.peekIs(token.IDENT) {
		p.nextToken()
		name = ast.Leaf(pos, symbol.Identifier, p.cur.Token.Literal)
	}
	params := p.parseParamList()
	body := p.parseBlock()

	asyncFlag := ast.Leaf(pos, symbol.Empty, isAsync)
	genFlag := ast.Leaf(pos, symbol.Empty, isGenerator)
	paramList := ast.List(pos, symbol.Param, params...)
	if name == nil {
		name = ast.Leaf(pos, symbol.Empty, nil)
	}
	return ast.List(pos, symbol.Function, name, paramList, body, asyncFlag, genFlag)
}

// tryParseArrow speculatively parses an arrow function starting at the
// current `(` (or bare identifier) token. It returns nil and leaves the
// parser position unchanged if the input is not actually an arrow function,
// since `(a, b)` is ambiguous with a parenthesized comma-expression until
// the `=>` is seen past the closing paren.
func (p *Parser) tryParseArrow(isAsync bool) *ast.SExpr {
	save := *p
	savedLexer := *p.l
	savedErrCount := len(p.errs.Errors)

	pos := p.pos()
	var params []*ast.SExpr
	ok := true
	if p.curIs(token.IDENT) {
		params = []*ast.SExpr{ast.List(pos, symbol.Param, ast.Leaf(pos, symbol.Identifier, p.cur.Token.Literal), ast.Leaf(pos, symbol.Empty, false))}
	} else if p.curIs(token.LPAREN) {
		params = p.parseParamList()
	} else {
		ok = false
	}
	if ok && p.peekIs(token.ARROW) {
		p.nextToken() // consume => is next, move cur to arrow
		p.nextToken() // move cur past arrow to body start
		var body *ast.SExpr
		if p.curIs(token.LBRACE) {
			body = p.parseBlock()
		} else {
			body = p.parseExpression(ASSIGNMENT)
		}
		asyncFlag := ast.Leaf(pos, symbol.Empty, isAsync)
		return ast.List(pos, symbol.Arrow, ast.List(pos, symbol.Param, params...), body, asyncFlag)
	}

	*p = save
	*p.l = savedLexer
	p.errs.Errors = p.errs.Errors[:savedErrCount]
	return nil
}
