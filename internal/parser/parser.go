// Package parser implements a Pratt parser (C4) that turns a token stream
// into the symbolic list form (pkg/ast.SExpr) described in spec §3. The
// typed AST is produced from that form by internal/builder.
package parser

import (
	"fmt"

	"github.com/cwbudde/ecmalite/internal/errors"
	"github.com/cwbudde/ecmalite/internal/lexer"
	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/symbol"
	"github.com/cwbudde/ecmalite/pkg/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // = += -= ...
	CONDITIONAL // ?:
	NULLISH     // ??
	LOGOR       // ||
	LOGAND      // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALITY    // == != === !==
	RELATIONAL  // < > <= >= in instanceof
	SHIFT       // << >>
	ADDITIVE    // + -
	MULTIPLY    // * / %
	EXPONENT    // **
	UNARY       // ! ~ + - typeof void delete await
	POSTFIX     // ++ -- (postfix)
	CALL        // f(...), f.x, f?.x, f[x], new f(...)
)

var precedences = map[token.Kind]int{
	token.ASSIGN: ASSIGNMENT, token.PLUS_ASSIGN: ASSIGNMENT, token.MINUS_ASSIGN: ASSIGNMENT,
	token.STAR_ASSIGN: ASSIGNMENT, token.SLASH_ASSIGN: ASSIGNMENT, token.PERCENT_ASSIGN: ASSIGNMENT,
	token.AMP_AMP_ASSIGN: ASSIGNMENT, token.PIPE_PIPE_ASSIGN: ASSIGNMENT, token.QUESTION_QUESTION_ASSIGN: ASSIGNMENT,
	token.QUESTION:           CONDITIONAL,
	token.QUESTION_QUESTION:  NULLISH,
	token.PIPE_PIPE:          LOGOR,
	token.AMP_AMP:            LOGAND,
	token.PIPE:               BITOR,
	token.CARET:              BITXOR,
	token.AMP:                BITAND,
	token.EQ:                 EQUALITY,
	token.NOT_EQ:              EQUALITY,
	token.STRICT_EQ:          EQUALITY,
	token.STRICT_NEQ:         EQUALITY,
	token.LESS:               RELATIONAL,
	token.GREATER:            RELATIONAL,
	token.LESS_EQ:            RELATIONAL,
	token.GREATER_EQ:         RELATIONAL,
	token.IN:                 RELATIONAL,
	token.INSTANCEOF:         RELATIONAL,
	token.SHL:                SHIFT,
	token.SHR:                SHIFT,
	token.PLUS:               ADDITIVE,
	token.MINUS:               ADDITIVE,
	token.STAR:               MULTIPLY,
	token.SLASH:              MULTIPLY,
	token.PERCENT:            MULTIPLY,
	token.STAR_STAR:          EXPONENT,
	token.INCR:               POSTFIX,
	token.DECR:               POSTFIX,
	token.LPAREN:             CALL,
	token.LBRACK:             CALL,
	token.DOT:                CALL,
	token.QUESTION_DOT:       CALL,
}

type (
	prefixParseFn func() *ast.SExpr
	infixParseFn  func(left *ast.SExpr) *ast.SExpr
)

// Parser turns a token stream into symbolic list form.
type Parser struct {
	l *lexer.Lexer

	cur  lexer.TokenWithNewline
	peek lexer.TokenWithNewline

	errs *errors.List
	src  string
	file string

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn
}

// New creates a Parser over source text. file is used only in diagnostics.
func New(src, file string) *Parser {
	p := &Parser{
		l:    lexer.New(src),
		errs: &errors.List{},
		src:  src,
		file: file,
	}
	p.prefixFns = map[token.Kind]prefixParseFn{}
	p.infixFns = map[token.Kind]infixParseFn{}
	p.registerExpressionParsers()

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the diagnostics accumulated during parsing.
func (p *Parser) Errors() *errors.List { return p.errs }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) curKind() token.Kind  { return p.cur.Token.Kind }
func (p *Parser) peekKind() token.Kind { return p.peek.Token.Kind }
func (p *Parser) pos() token.Position  { return p.cur.Token.Pos }

func (p *Parser) curIs(k token.Kind) bool  { return p.curKind() == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peekKind() == k }

func (p *Parser) expect(k token.Kind) bool {
	if p.peekIs(k) {
		p.nextToken()
		return true
	}
	p.errorf(p.peek.Token.Pos, "expected %s, got %s (%q)", k, p.peekKind(), p.peek.Token.Literal)
	return false
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errs.Add(errors.New(errors.KindSyntax, pos, fmt.Sprintf(format, args...), p.src, p.file))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekKind()]; ok {
		return pr
	}
	return LOWEST
}

// Parse parses a full program into symbolic list form: (Program stmt...).
func (p *Parser) Parse() *ast.SExpr {
	start := p.pos()
	var stmts []*ast.SExpr
	for !p.curIs(token.EOF) {
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.nextToken()
	}
	return ast.List(start, symbol.Program, stmts...)
}

// consumeSemicolon implements automatic semicolon insertion (spec §4.4): a
// semicolon may be elided before a line terminator, before `}`, or at EOF.
func (p *Parser) consumeSemicolon() {
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
		return
	}
	if p.peekIs(token.RBRACE) || p.peekIs(token.EOF) || p.peek.NewlineBefore {
		return
	}
	p.errorf(p.peek.Token.Pos, "expected ';', got %s", p.peekKind())
}
