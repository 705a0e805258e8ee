// Package lexer tokenizes source text for the parser (C4). It is the
// tokenization collaborator spec.md §1 treats as external detail; only the
// contract it must honor — token kinds, positions, and the "newline
// before this token" flag automatic semicolon insertion needs — is
// normative.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cwbudde/ecmalite/pkg/token"
)

// Lexer scans UTF-8 source text into tokens. Column positions are rune
// counts, not byte offsets, matching the teacher engine's Unicode handling.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int

	preserveComments bool
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithPreserveComments returns COMMENT tokens instead of skipping them,
// useful for a formatter or doc-comment extractor built on top of this
// engine.
func WithPreserveComments(preserve bool) Option {
	return func(l *Lexer) { l.preserveComments = preserve }
}

// New creates a Lexer over input, stripping a leading UTF-8 BOM if present.
func New(input string, opts ...Option) *Lexer {
	if len(input) >= 3 && input[0] == 0xEF && input[1] == 0xBB && input[2] == 0xBF {
		input = input[3:]
	}
	l := &Lexer{input: input, line: 1, column: 0}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.position = l.readPosition
	l.readPosition += size
	l.ch = r
	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekCharAt(skip int) rune {
	pos := l.readPosition
	for i := 0; i < skip; i++ {
		if pos >= len(l.input) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.position}
}

// TokenWithNewline pairs a scanned token with whether a line terminator
// appeared in the whitespace/comments skipped immediately before it. The
// parser's ASI logic (spec §4.4) consumes this flag directly instead of
// re-scanning raw source.
type TokenWithNewline struct {
	Token          token.Token
	NewlineBefore  bool
}

func (l *Lexer) skipWhitespaceAndComments() bool {
	sawNewline := false
	for {
		switch {
		case l.ch == '\n':
			sawNewline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				if l.ch == '\n' {
					sawNewline = true
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return sawNewline
		}
	}
}

// Next scans and returns the next token along with its preceding-newline
// flag. With WithPreserveComments set, a comment is returned as its own
// COMMENT token instead of being skipped with the surrounding whitespace.
func (l *Lexer) Next() TokenWithNewline {
	if l.preserveComments {
		newline := l.skipWhitespaceOnly()
		pos := l.pos()
		if l.ch == '/' && (l.peekChar() == '/' || l.peekChar() == '*') {
			return TokenWithNewline{Token: l.readComment(pos), NewlineBefore: newline}
		}
		return TokenWithNewline{Token: l.scanToken(pos), NewlineBefore: newline}
	}

	newline := l.skipWhitespaceAndComments()
	pos := l.pos()
	return TokenWithNewline{Token: l.scanToken(pos), NewlineBefore: newline}
}

// scanToken reads one non-comment, non-whitespace token starting at pos.
func (l *Lexer) scanToken(pos token.Position) token.Token {
	switch {
	case l.ch == 0:
		return token.Token{Kind: token.EOF, Literal: "", Pos: pos}
	case isIdentStart(l.ch):
		lit := l.readIdentifier()
		return token.Token{Kind: token.LookupIdent(lit), Literal: lit, Pos: pos}
	case isDigit(l.ch):
		return l.readNumber(pos)
	case l.ch == '\'' || l.ch == '"':
		return l.readString(pos, l.ch)
	case l.ch == '`':
		return l.readTemplate(pos)
	default:
		return l.readOperator(pos)
	}
}

// skipWhitespaceOnly advances past whitespace only, leaving comments in
// place for the caller to read as COMMENT tokens.
func (l *Lexer) skipWhitespaceOnly() bool {
	sawNewline := false
	for {
		switch l.ch {
		case '\n':
			sawNewline = true
			l.readChar()
		case ' ', '\t', '\r':
			l.readChar()
		default:
			return sawNewline
		}
	}
}

// readComment reads a line or block comment verbatim, including its
// delimiters.
func (l *Lexer) readComment(pos token.Position) token.Token {
	start := l.position
	if l.peekChar() == '/' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
	} else {
		l.readChar()
		l.readChar()
		for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
			l.readChar()
		}
		l.readChar()
		l.readChar()
	}
	return token.Token{Kind: token.COMMENT, Literal: l.input[start:l.position], Pos: pos}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'n' && !isFloat {
		lit := l.input[start:l.position]
		l.readChar() // consume the 'n' suffix
		return token.Token{Kind: token.BIGINT, Literal: lit, Pos: pos}
	}
	lit := l.input[start:l.position]
	return token.Token{Kind: token.NUMBER, Literal: lit, Pos: pos}
}

func (l *Lexer) readString(pos token.Position, quote rune) token.Token {
	l.readChar() // consume opening quote
	var sb strings.Builder
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			sb.WriteRune(unescape(l.ch))
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return token.Token{Kind: token.STRING, Literal: sb.String(), Pos: pos}
}

func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return ch
	}
}

// readTemplate scans a full template literal body as a single STRING-kind
// token; the parser re-lexes its quasis/interpolations (see parseTemplate
// in internal/parser/expressions.go) because a template's `${...}` segments can
// themselves contain arbitrarily nested templates.
func (l *Lexer) readTemplate(pos token.Position) token.Token {
	start := l.position
	l.readChar() // consume opening backtick
	depth := 0
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '`' && depth == 0 {
			l.readChar()
			break
		}
		if l.ch == '$' && l.peekChar() == '{' {
			depth++
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '}' && depth > 0 {
			depth--
		}
		l.readChar()
	}
	return token.Token{Kind: token.TEMPLATE, Literal: l.input[start:l.position], Pos: pos}
}

func (l *Lexer) readOperator(pos token.Position) token.Token {
	ch := l.ch
	two := string(ch) + string(l.peekChar())
	three := two + string(l.peekCharAt(1))

	switch three {
	case "===", "!==", "**=", "...", "&&=", "||=", "??=":
		l.readChar()
		l.readChar()
		l.readChar()
		return token.Token{Kind: threeCharKind(three), Literal: three, Pos: pos}
	}
	switch two {
	case "==", "!=", "<=", ">=", "&&", "||", "??", "=>", "++", "--",
		"+=", "-=", "*=", "/=", "%=", "**", "?.", "<<", ">>":
		l.readChar()
		l.readChar()
		return token.Token{Kind: twoCharKind(two), Literal: two, Pos: pos}
	}

	k, ok := singleCharKinds[ch]
	if !ok {
		l.readChar()
		return token.Token{Kind: token.ILLEGAL, Literal: string(ch), Pos: pos}
	}
	l.readChar()
	return token.Token{Kind: k, Literal: string(ch), Pos: pos}
}

var singleCharKinds = map[rune]token.Kind{
	'(': token.LPAREN, ')': token.RPAREN,
	'{': token.LBRACE, '}': token.RBRACE,
	'[': token.LBRACK, ']': token.RBRACK,
	',': token.COMMA, ';': token.SEMICOLON, ':': token.COLON,
	'.': token.DOT, '?': token.QUESTION, '=': token.ASSIGN,
	'+': token.PLUS, '-': token.MINUS, '*': token.STAR,
	'/': token.SLASH, '%': token.PERCENT, '<': token.LESS,
	'>': token.GREATER, '!': token.BANG, '&': token.AMP,
	'|': token.PIPE, '^': token.CARET, '~': token.TILDE,
}

func twoCharKind(s string) token.Kind {
	switch s {
	case "==":
		return token.EQ
	case "!=":
		return token.NOT_EQ
	case "<=":
		return token.LESS_EQ
	case ">=":
		return token.GREATER_EQ
	case "&&":
		return token.AMP_AMP
	case "||":
		return token.PIPE_PIPE
	case "??":
		return token.QUESTION_QUESTION
	case "=>":
		return token.ARROW
	case "++":
		return token.INCR
	case "--":
		return token.DECR
	case "+=":
		return token.PLUS_ASSIGN
	case "-=":
		return token.MINUS_ASSIGN
	case "*=":
		return token.STAR_ASSIGN
	case "/=":
		return token.SLASH_ASSIGN
	case "%=":
		return token.PERCENT_ASSIGN
	case "**":
		return token.STAR_STAR
	case "?.":
		return token.QUESTION_DOT
	case "<<":
		return token.SHL
	case ">>":
		return token.SHR
	}
	return token.ILLEGAL
}

func threeCharKind(s string) token.Kind {
	switch s {
	case "===":
		return token.STRICT_EQ
	case "!==":
		return token.STRICT_NEQ
	case "...":
		return token.DOTDOTDOT
	case "&&=":
		return token.AMP_AMP_ASSIGN
	case "||=":
		return token.PIPE_PIPE_ASSIGN
	case "??=":
		return token.QUESTION_QUESTION_ASSIGN
	case "**=":
		return token.STAR_ASSIGN // exponent-assign folds into the same compound-assign handling
	}
	return token.ILLEGAL
}
