package parser

import (
	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/symbol"
	"github.com/cwbudde/ecmalite/pkg/token"
)

func (p *Parser) parseStatement() *ast.SExpr {
	switch p.curKind() {
	case token.LET, token.CONST, token.VAR:
		return p.parseVariableDeclaration()
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseFor()
	case token.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case token.ASYNC:
		if p.peekIs(token.FUNCTION) {
			p.nextToken()
			return p.parseFunctionDeclaration(true)
		}
	case token.RETURN:
		return p.parseReturn()
	case token.THROW:
		return p.parseThrow()
	case token.BREAK:
		return p.parseBreakContinue(symbol.Break)
	case token.CONTINUE:
		return p.parseBreakContinue(symbol.Continue)
	case token.TRY:
		return p.parseTry()
	case token.SWITCH:
		return p.parseSwitch()
	case token.CLASS:
		return p.parseClass()
	case token.SEMICOLON:
		return ast.List(p.pos(), symbol.Empty)
	case token.IDENT:
		if p.peekIs(token.COLON) {
			return p.parseLabeled()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() *ast.SExpr {
	pos := p.pos()
	expr := p.parseExpression(LOWEST)
	p.consumeSemicolon()
	return ast.List(pos, symbol.ExprStmt, expr)
}

func (p *Parser) parseBlock() *ast.SExpr {
	pos := p.pos()
	var stmts []*ast.SExpr
	p.nextToken() // consume {
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.nextToken()
	}
	return ast.List(pos, symbol.Block, stmts...)
}

func (p *Parser) declKindSymbol() *symbol.Symbol {
	switch p.curKind() {
	case token.LET:
		return symbol.Let
	case token.CONST:
		return symbol.Const
	default:
		return symbol.Var
	}
}

func (p *Parser) parseVariableDeclaration() *ast.SExpr {
	pos := p.pos()
	head := p.declKindSymbol()
	var decls []*ast.SExpr
	for {
		p.nextToken() // consume the decl keyword or comma, land on a binding identifier
		target := ast.List(p.pos(), symbol.Identifier, ast.Leaf(p.pos(), symbol.Identifier, p.cur.Token.Literal))
		var init *ast.SExpr
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			init = p.parseExpression(ASSIGNMENT)
		}
		args := []*ast.SExpr{target}
		if init != nil {
			args = append(args, init)
		}
		decls = append(decls, ast.List(pos, symbol.Declarator, args...))
		if !p.peekIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.consumeSemicolon()
	return ast.List(pos, head, decls...)
}

func (p *Parser) parseIf() *ast.SExpr {
	pos := p.pos()
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		return nil
	}
	p.nextToken()
	consequent := p.parseStatement()
	args := []*ast.SExpr{cond, consequent}
	if p.peekIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseStatement())
	}
	return ast.List(pos, symbol.If, args...)
}

func (p *Parser) parseWhile() *ast.SExpr {
	pos := p.pos()
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()
	return ast.List(pos, symbol.While, cond, body)
}

func (p *Parser) parseDoWhile() *ast.SExpr {
	pos := p.pos()
	p.nextToken()
	body := p.parseStatement()
	if !p.expect(token.WHILE) {
		return nil
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		return nil
	}
	p.consumeSemicolon()
	return ast.List(pos, symbol.DoWhile, body, cond)
}

// parseFor handles classical for(;;), for-in, for-of and for-await-of,
// disambiguating after parsing the initializer clause (spec §4.6).
func (p *Parser) parseFor() *ast.SExpr {
	pos := p.pos()
	isAwait := false
	if p.peekIs(token.AWAIT) {
		p.nextToken()
		isAwait = true
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nextToken()

	var declKind *symbol.Symbol
	var init *ast.SExpr
	if p.curIs(token.LET) || p.curIs(token.CONST) || p.curIs(token.VAR) {
		declKind = p.declKindSymbol()
		p.nextToken()
		init = ast.List(p.pos(), symbol.Identifier, ast.Leaf(p.pos(), symbol.Identifier, p.cur.Token.Literal))
	} else if !p.curIs(token.SEMICOLON) {
		init = p.parseExpression(LOWEST)
	}

	if p.peekIs(token.IN) || p.peekIs(token.OF) {
		isOf := p.peekIs(token.OF)
		p.nextToken()
		p.nextToken()
		right := p.parseExpression(LOWEST)
		if !p.expect(token.RPAREN) {
			return nil
		}
		p.nextToken()
		body := p.parseStatement()
		head := symbol.ForIn
		if isOf {
			head = symbol.ForOf
			if isAwait {
				head = symbol.ForAwaitOf
			}
		}
		args := []*ast.SExpr{declSym(declKind), init, right, body}
		return ast.List(pos, head, args...)
	}

	// Classical for(init; cond; update)
	var initStmt *ast.SExpr
	if declKind != nil {
		// re-parse full declarator list starting at current token (already past keyword)
		initStmt = p.parseForClassicalDecl(pos, declKind, init)
	} else if init != nil {
		initStmt = ast.List(pos, symbol.ExprStmt, init)
	}
	if !p.curIs(token.SEMICOLON) {
		if !p.expect(token.SEMICOLON) {
			return nil
		}
	}
	p.nextToken()
	var cond *ast.SExpr
	if !p.curIs(token.SEMICOLON) {
		cond = p.parseExpression(LOWEST)
		if !p.expect(token.SEMICOLON) {
			return nil
		}
	}
	p.nextToken()
	var update *ast.SExpr
	if !p.curIs(token.RPAREN) {
		update = p.parseExpression(LOWEST)
		if !p.expect(token.RPAREN) {
			return nil
		}
	}
	p.nextToken()
	body := p.parseStatement()

	args := []*ast.SExpr{nilOr(initStmt), nilOr(cond), nilOr(update), body}
	return ast.List(pos, symbol.For, args...)
}

// parseForClassicalDecl handles `for (let i = 0, j = 1; ...)` after the
// first binding identifier has already been consumed into firstTarget.
func (p *Parser) parseForClassicalDecl(pos token.Position, declKind *symbol.Symbol, firstTarget *ast.SExpr) *ast.SExpr {
	var decls []*ast.SExpr
	target := firstTarget
	for {
		var init *ast.SExpr
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			init = p.parseExpression(ASSIGNMENT)
		}
		args := []*ast.SExpr{target}
		if init != nil {
			args = append(args, init)
		}
		decls = append(decls, ast.List(pos, symbol.Declarator, args...))
		if !p.peekIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
		target = ast.List(p.pos(), symbol.Identifier, ast.Leaf(p.pos(), symbol.Identifier, p.cur.Token.Literal))
	}
	return ast.List(pos, declKind, decls...)
}

func declSym(s *symbol.Symbol) *ast.SExpr {
	if s == nil {
		return ast.Leaf(token.Position{}, symbol.Empty, nil)
	}
	return ast.Leaf(token.Position{}, s, s.Name())
}

func nilOr(s *ast.SExpr) *ast.SExpr {
	if s == nil {
		return ast.Leaf(token.Position{}, symbol.Empty, nil)
	}
	return s
}

func (p *Parser) parseReturn() *ast.SExpr {
	pos := p.pos()
	if p.peekIs(token.SEMICOLON) || p.peekIs(token.RBRACE) || p.peek.NewlineBefore {
		p.consumeSemicolon()
		return ast.List(pos, symbol.Return)
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.consumeSemicolon()
	return ast.List(pos, symbol.Return, val)
}

func (p *Parser) parseThrow() *ast.SExpr {
	pos := p.pos()
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.consumeSemicolon()
	return ast.List(pos, symbol.Throw, val)
}

func (p *Parser) parseBreakContinue(head *symbol.Symbol) *ast.SExpr {
	pos := p.pos()
	if p.peekIs(token.IDENT) && !p.peek.NewlineBefore {
		p.nextToken()
		label := ast.Leaf(pos, symbol.Identifier, p.cur.Token.Literal)
		p.consumeSemicolon()
		return ast.List(pos, head, label)
	}
	p.consumeSemicolon()
	return ast.List(pos, head)
}

func (p *Parser) parseLabeled() *ast.SExpr {
	pos := p.pos()
	label := p.cur.Token.Literal
	p.nextToken() // consume ident, land on ':'
	p.nextToken() // consume ':', land on body
	body := p.parseStatement()
	return ast.List(pos, symbol.Labeled, ast.Leaf(pos, symbol.Identifier, label), body)
}

func (p *Parser) parseTry() *ast.SExpr {
	pos := p.pos()
	p.nextToken()
	block := p.parseBlock()
	args := []*ast.SExpr{block}

	var handler *ast.SExpr
	if p.peekIs(token.CATCH) {
		p.nextToken()
		var param *ast.SExpr
		if p.peekIs(token.LPAREN) {
			p.nextToken()
			p.nextToken()
			param = ast.Leaf(p.pos(), symbol.Identifier, p.cur.Token.Literal)
			if !p.expect(token.RPAREN) {
				return nil
			}
		}
		p.nextToken()
		catchBody := p.parseBlock()
		if param != nil {
			handler = ast.List(pos, symbol.Catch, param, catchBody)
		} else {
			handler = ast.List(pos, symbol.Catch, catchBody)
		}
	}
	if handler != nil {
		args = append(args, handler)
	}
	var finalizer *ast.SExpr
	if p.peekIs(token.FINALLY) {
		p.nextToken()
		p.nextToken()
		finalizer = ast.List(pos, symbol.Finally, p.parseBlock())
	}
	if finalizer != nil {
		args = append(args, finalizer)
	}
	return ast.List(pos, symbol.Try, args...)
}

func (p *Parser) parseSwitch() *ast.SExpr {
	pos := p.pos()
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nextToken()
	disc := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	p.nextToken()
	args := []*ast.SExpr{disc}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		casePos := p.pos()
		var test *ast.SExpr
		head := symbol.Case
		if p.curIs(token.DEFAULT) {
			head = symbol.Default
		} else {
			p.nextToken()
			test = p.parseExpression(LOWEST)
		}
		if !p.expect(token.COLON) {
			return nil
		}
		var body []*ast.SExpr
		for !p.peekIs(token.CASE) && !p.peekIs(token.DEFAULT) && !p.peekIs(token.RBRACE) {
			p.nextToken()
			if s := p.parseStatement(); s != nil {
				body = append(body, s)
			}
		}
		caseArgs := body
		if test != nil {
			caseArgs = append([]*ast.SExpr{test}, body...)
		}
		args = append(args, ast.List(casePos, head, caseArgs...))
		p.nextToken()
	}
	return ast.List(pos, symbol.Switch, args...)
}

// ensure unused-import safety for token package usages above.
var _ = token.EOF
