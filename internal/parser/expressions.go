package parser

import (
	"strconv"
	"strings"

	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/symbol"
	"github.com/cwbudde/ecmalite/pkg/token"
)

func (p *Parser) registerExpressionParsers() {
	p.prefixFns[token.IDENT] = p.parseIdentifier
	p.prefixFns[token.NUMBER] = p.parseNumber
	p.prefixFns[token.BIGINT] = p.parseBigInt
	p.prefixFns[token.STRING] = p.parseString
	p.prefixFns[token.TEMPLATE] = p.parseTemplate
	p.prefixFns[token.TRUE] = p.parseBool
	p.prefixFns[token.FALSE] = p.parseBool
	p.prefixFns[token.NULL] = p.parseNull
	p.prefixFns[token.UNDEFINED] = p.parseUndefined
	p.prefixFns[token.THIS] = p.parseThis
	p.prefixFns[token.SUPER] = p.parseSuper
	p.prefixFns[token.LPAREN] = p.parseGroupOrArrow
	p.prefixFns[token.LBRACK] = p.parseArrayLiteral
	p.prefixFns[token.LBRACE] = p.parseObjectLiteral
	p.prefixFns[token.FUNCTION] = p.parseFunctionExpression
	p.prefixFns[token.CLASS] = p.parseClass
	p.prefixFns[token.NEW] = p.parseNew
	p.prefixFns[token.YIELD] = p.parseYield
	p.prefixFns[token.AWAIT] = p.parseAwait
	p.prefixFns[token.ASYNC] = p.parseAsyncPrefix
	p.prefixFns[token.DOTDOTDOT] = p.parseSpread
	for _, k := range []token.Kind{token.BANG, token.MINUS, token.PLUS, token.TILDE,
		token.TYPEOF, token.VOID, token.DELETE, token.INCR, token.DECR} {
		p.prefixFns[k] = p.parsePrefixUnary
	}

	for _, k := range []token.Kind{token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.STAR_STAR, token.EQ, token.NOT_EQ, token.STRICT_EQ, token.STRICT_NEQ,
		token.LESS, token.GREATER, token.LESS_EQ, token.GREATER_EQ,
		token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR,
		token.IN, token.INSTANCEOF} {
		p.infixFns[k] = p.parseBinary
	}
	p.infixFns[token.AMP_AMP] = p.parseLogical
	p.infixFns[token.PIPE_PIPE] = p.parseLogical
	p.infixFns[token.QUESTION_QUESTION] = p.parseLogical
	for _, k := range []token.Kind{token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN,
		token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN,
		token.AMP_AMP_ASSIGN, token.PIPE_PIPE_ASSIGN, token.QUESTION_QUESTION_ASSIGN} {
		p.infixFns[k] = p.parseAssignment
	}
	p.infixFns[token.QUESTION] = p.parseConditional
	p.infixFns[token.LPAREN] = p.parseCall
	p.infixFns[token.LBRACK] = p.parseIndex
	p.infixFns[token.DOT] = p.parseMember
	p.infixFns[token.QUESTION_DOT] = p.parseOptionalMember
	p.infixFns[token.INCR] = p.parsePostfixUpdate
	p.infixFns[token.DECR] = p.parsePostfixUpdate
}

func (p *Parser) parseExpression(precedence int) *ast.SExpr {
	prefix, ok := p.prefixFns[p.curKind()]
	if !ok {
		p.errorf(p.pos(), "no prefix parse function for %s (%q)", p.curKind(), p.cur.Token.Literal)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peekKind()]
		if !ok {
			break
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() *ast.SExpr {
	return ast.List(p.pos(), symbol.Identifier, ast.Leaf(p.pos(), symbol.Identifier, p.cur.Token.Literal))
}

func (p *Parser) parseNumber() *ast.SExpr {
	lit := p.cur.Token.Literal
	v, _ := strconv.ParseFloat(lit, 64)
	return ast.Leaf(p.pos(), symbol.Literal, v)
}

func (p *Parser) parseBigInt() *ast.SExpr {
	return ast.List(p.pos(), symbol.Literal, ast.Leaf(p.pos(), symbol.Literal, p.cur.Token.Literal+"n"))
}

func (p *Parser) parseString() *ast.SExpr {
	return ast.Leaf(p.pos(), symbol.Literal, p.cur.Token.Literal)
}

func (p *Parser) parseBool() *ast.SExpr {
	return ast.Leaf(p.pos(), symbol.Literal, p.cur.Token.Kind == token.TRUE)
}

func (p *Parser) parseNull() *ast.SExpr      { return ast.Leaf(p.pos(), symbol.Literal, nil) }
func (p *Parser) parseUndefined() *ast.SExpr { return ast.List(p.pos(), symbol.Uninitialized) }
func (p *Parser) parseThis() *ast.SExpr      { return ast.List(p.pos(), symbol.This) }
func (p *Parser) parseSuper() *ast.SExpr     { return ast.List(p.pos(), symbol.Super) }

// parseTemplate splits a raw `...${...}...` token into quasis and embedded
// expressions, each re-parsed with a fresh Parser (spec §4.9 Templates).
func (p *Parser) parseTemplate() *ast.SExpr {
	pos := p.pos()
	raw := p.cur.Token.Literal
	body := strings.TrimSuffix(strings.TrimPrefix(raw, "`"), "`")

	var quasis []string
	var exprs []*ast.SExpr
	var cur strings.Builder
	i := 0
	for i < len(body) {
		if body[i] == '$' && i+1 < len(body) && body[i+1] == '{' {
			quasis = append(quasis, cur.String())
			cur.Reset()
			depth := 1
			j := i + 2
			start := j
			for j < len(body) && depth > 0 {
				switch body[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			sub := New(body[start:j], p.file)
			exprs = append(exprs, sub.parseExpression(LOWEST))
			i = j + 1
			continue
		}
		cur.WriteByte(body[i])
		i++
	}
	quasis = append(quasis, cur.String())

	args := []*ast.SExpr{ast.Leaf(pos, symbol.Template, quasis)}
	args = append(args, exprs...)
	return ast.List(pos, symbol.Template, args...)
}

func (p *Parser) parseGroupOrArrow() *ast.SExpr {
	// Speculatively try an arrow function; on failure, fall back to a
	// parenthesized expression. A hand-rolled recursive-descent parser
	// cannot always tell `(a, b)` from `(a, b) => ...` without lookahead
	// past the matching paren, so both paths are attempted in source order.
	if arrow := p.tryParseArrow(false); arrow != nil {
		return arrow
	}
	pos := p.pos()
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		return inner
	}
	return ast.List(pos, symbol.Grouped, inner)
}

func (p *Parser) parseAsyncPrefix() *ast.SExpr {
	if p.peekIs(token.FUNCTION) {
		p.nextToken()
		return p.parseFunctionExpressionAsync(true)
	}
	if arrow := p.tryParseArrow(true); arrow != nil {
		return arrow
	}
	return ast.List(p.pos(), symbol.Identifier, ast.Leaf(p.pos(), symbol.Identifier, "async"))
}

func (p *Parser) parseArrayLiteral() *ast.SExpr {
	pos := p.pos()
	var elems []*ast.SExpr
	for !p.peekIs(token.RBRACK) {
		p.nextToken()
		if p.curIs(token.COMMA) {
			elems = append(elems, ast.Leaf(p.pos(), symbol.Empty, nil)) // elided hole
			continue
		}
		if p.curIs(token.DOTDOTDOT) {
			elems = append(elems, p.parseSpread())
		} else {
			elems = append(elems, p.parseExpression(ASSIGNMENT))
		}
		if p.peekIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(token.RBRACK) {
		return nil
	}
	return ast.List(pos, symbol.ArrayLiteral, elems...)
}

func (p *Parser) parseObjectLiteral() *ast.SExpr {
	pos := p.pos()
	var props []*ast.SExpr
	for !p.peekIs(token.RBRACE) {
		p.nextToken()
		if p.curIs(token.DOTDOTDOT) {
			p.nextToken()
			props = append(props, ast.List(pos, symbol.Spread, p.parseExpression(ASSIGNMENT)))
		} else {
			props = append(props, p.parseObjectProperty())
		}
		if p.peekIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(token.RBRACE) {
		return nil
	}
	return ast.List(pos, symbol.ObjectLiteral, props...)
}

func (p *Parser) parseObjectProperty() *ast.SExpr {
	pos := p.pos()
	keyLit := p.cur.Token.Literal
	key := ast.Leaf(pos, symbol.Identifier, keyLit)

	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		val := p.parseExpression(ASSIGNMENT)
		return ast.List(pos, symbol.Property, key, val)
	}
	if p.peekIs(token.LPAREN) {
		// shorthand method
		params := p.parseParamList()
		body := p.parseBlock()
		fn := ast.List(pos, symbol.Function, ast.Leaf(pos, symbol.Empty, nil), ast.List(pos, symbol.Param, params...), body)
		return ast.List(pos, symbol.Method, key, fn)
	}
	// shorthand { x }
	return ast.List(pos, symbol.Property, key, ast.List(pos, symbol.Identifier, key))
}

func (p *Parser) parseNew() *ast.SExpr {
	pos := p.pos()
	p.nextToken()
	callee := p.parseExpression(CALL)
	// if the callee parse already consumed a call, callee is a Call SExpr;
	// rewrap as New with the same head/args shape.
	if callee != nil && symbol.Same(callee.Head, symbol.Call) {
		return ast.List(pos, symbol.New, callee.Args...)
	}
	return ast.List(pos, symbol.New, callee)
}

func (p *Parser) parseYield() *ast.SExpr {
	pos := p.pos()
	delegate := false
	if p.peekIs(token.STAR) {
		p.nextToken()
		delegate = true
	}
	head := symbol.Yield
	if delegate {
		head = symbol.YieldStar
	}
	if p.peekIs(token.SEMICOLON) || p.peekIs(token.RPAREN) || p.peekIs(token.RBRACE) ||
		p.peekIs(token.RBRACK) || p.peekIs(token.COMMA) || p.peek.NewlineBefore {
		return ast.List(pos, head)
	}
	p.nextToken()
	arg := p.parseExpression(ASSIGNMENT)
	return ast.List(pos, head, arg)
}

func (p *Parser) parseAwait() *ast.SExpr {
	pos := p.pos()
	p.nextToken()
	arg := p.parseExpression(UNARY)
	return ast.List(pos, symbol.Await, arg)
}

func (p *Parser) parseSpread() *ast.SExpr {
	pos := p.pos()
	p.nextToken()
	return ast.List(pos, symbol.Spread, p.parseExpression(ASSIGNMENT))
}

func (p *Parser) parsePrefixUnary() *ast.SExpr {
	pos := p.pos()
	op := p.cur.Token.Literal
	isUpdate := p.curIs(token.INCR) || p.curIs(token.DECR)
	p.nextToken()
	operand := p.parseExpression(UNARY)
	head := symbol.Unary
	if isUpdate {
		head = symbol.Update
	}
	return ast.List(pos, head, ast.Leaf(pos, symbol.Identifier, op), operand, ast.Leaf(pos, symbol.Identifier, "prefix"))
}

func (p *Parser) parsePostfixUpdate(left *ast.SExpr) *ast.SExpr {
	pos := p.pos()
	op := p.cur.Token.Literal
	return ast.List(pos, symbol.Update, ast.Leaf(pos, symbol.Identifier, op), left, ast.Leaf(pos, symbol.Identifier, "postfix"))
}

func (p *Parser) parseBinary(left *ast.SExpr) *ast.SExpr {
	pos := p.pos()
	op := p.cur.Token.Literal
	prec := precedences[p.curKind()]
	p.nextToken()
	right := p.parseExpression(prec)
	return ast.List(pos, symbol.Binary, ast.Leaf(pos, symbol.Identifier, op), left, right)
}

func (p *Parser) parseLogical(left *ast.SExpr) *ast.SExpr {
	pos := p.pos()
	op := p.cur.Token.Literal
	prec := precedences[p.curKind()]
	p.nextToken()
	right := p.parseExpression(prec)
	return ast.List(pos, symbol.Logical, ast.Leaf(pos, symbol.Identifier, op), left, right)
}

func (p *Parser) parseAssignment(left *ast.SExpr) *ast.SExpr {
	pos := p.pos()
	op := p.cur.Token.Literal
	p.nextToken()
	right := p.parseExpression(ASSIGNMENT - 1)
	return ast.List(pos, symbol.Assign, ast.Leaf(pos, symbol.Identifier, op), left, right)
}

func (p *Parser) parseConditional(test *ast.SExpr) *ast.SExpr {
	pos := p.pos()
	p.nextToken()
	cons := p.parseExpression(ASSIGNMENT)
	if !p.expect(token.COLON) {
		return nil
	}
	p.nextToken()
	alt := p.parseExpression(ASSIGNMENT)
	return ast.List(pos, symbol.Conditional, test, cons, alt)
}

func (p *Parser) parseCall(callee *ast.SExpr) *ast.SExpr {
	pos := p.pos()
	args := p.parseArgList(token.RPAREN)
	return ast.List(pos, symbol.Call, append([]*ast.SExpr{callee}, args...)...)
}

func (p *Parser) parseArgList(end token.Kind) []*ast.SExpr {
	var args []*ast.SExpr
	for !p.peekIs(end) {
		p.nextToken()
		if p.curIs(token.DOTDOTDOT) {
			args = append(args, p.parseSpread())
		} else {
			args = append(args, p.parseExpression(ASSIGNMENT))
		}
		if p.peekIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	p.expect(end)
	return args
}

func (p *Parser) parseIndex(object *ast.SExpr) *ast.SExpr {
	pos := p.pos()
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expect(token.RBRACK) {
		return nil
	}
	return ast.List(pos, symbol.GetIndex, object, index)
}

func (p *Parser) parseMember(object *ast.SExpr) *ast.SExpr {
	pos := p.pos()
	if p.peekKind().IsKeyword() {
		p.nextToken()
	} else if !p.expect(token.IDENT) {
		return nil
	}
	prop := ast.Leaf(pos, symbol.Identifier, p.cur.Token.Literal)
	return ast.List(pos, symbol.GetProperty, object, prop)
}

func (p *Parser) parseOptionalMember(object *ast.SExpr) *ast.SExpr {
	pos := p.pos()
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		return ast.List(pos, symbol.OptionalChain, p.parseCall(object))
	}
	if p.peekIs(token.LBRACK) {
		p.nextToken()
		return ast.List(pos, symbol.OptionalChain, p.parseIndex(object))
	}
	if !p.expect(token.IDENT) {
		return nil
	}
	prop := ast.Leaf(pos, symbol.Identifier, p.cur.Token.Literal)
	return ast.List(pos, symbol.OptionalChain, ast.List(pos, symbol.GetProperty, object, prop))
}
