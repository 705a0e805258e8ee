package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ecmalite/pkg/token"
)

func kindsOf(input string) []token.Kind {
	l := New(input)
	var kinds []token.Kind
	for {
		tok := l.Next()
		kinds = append(kinds, tok.Token.Kind)
		if tok.Token.Kind == token.EOF {
			return kinds
		}
	}
}

func TestLexerTokenizesLetStatement(t *testing.T) {
	kinds := kindsOf("let x = 1 + 2;")
	assert.Equal(t, []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.NUMBER,
		token.PLUS, token.NUMBER, token.SEMICOLON, token.EOF,
	}, kinds)
}

func TestLexerDistinguishesKeywordsFromIdentifiers(t *testing.T) {
	l := New("let letter = 1;")
	first := l.Next()
	assert.Equal(t, token.LET, first.Token.Kind)

	second := l.Next()
	assert.Equal(t, token.IDENT, second.Token.Kind)
	assert.Equal(t, "letter", second.Token.Literal)
}

func TestLexerStringLiteralUnescapes(t *testing.T) {
	l := New(`'a\nb'`)
	tok := l.Next()
	require.Equal(t, token.STRING, tok.Token.Kind)
	assert.Equal(t, "a\nb", tok.Token.Literal)
}

func TestLexerNumberLiterals(t *testing.T) {
	tests := []string{"0", "42", "3.14", "1.5e10"}
	for _, src := range tests {
		l := New(src + ";")
		tok := l.Next()
		assert.Equal(t, token.NUMBER, tok.Token.Kind, src)
		assert.Equal(t, src, tok.Token.Literal, src)
	}
}

func TestLexerBigIntLiteral(t *testing.T) {
	l := New("10n")
	tok := l.Next()
	assert.Equal(t, token.BIGINT, tok.Token.Kind)
}

func TestLexerMultiCharOperators(t *testing.T) {
	kinds := kindsOf("=== !== ?? ?. => ** &&= ||=")
	want := []token.Kind{
		token.STRICT_EQ, token.STRICT_NEQ, token.QUESTION_QUESTION,
		token.QUESTION_DOT, token.ARROW, token.STAR_STAR,
		token.AMP_AMP_ASSIGN, token.PIPE_PIPE_ASSIGN, token.EOF,
	}
	assert.Equal(t, want, kinds)
}

func TestLexerSkipsLineAndBlockComments(t *testing.T) {
	kinds := kindsOf("1 // a comment\n+ /* block */ 2;")
	assert.Equal(t, []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.SEMICOLON, token.EOF}, kinds)
}

func TestLexerPreserveCommentsOption(t *testing.T) {
	l := New("1 // hi\n", WithPreserveComments(true))
	first := l.Next()
	assert.Equal(t, token.NUMBER, first.Token.Kind)
	second := l.Next()
	assert.Equal(t, token.COMMENT, second.Token.Kind)
}

func TestLexerNewlineBeforeFlagsASICandidates(t *testing.T) {
	l := New("return\n1;")
	ret := l.Next()
	require.Equal(t, token.RETURN, ret.Token.Kind)
	assert.False(t, ret.NewlineBefore)

	num := l.Next()
	require.Equal(t, token.NUMBER, num.Token.Kind)
	assert.True(t, num.NewlineBefore, "a line terminator preceded this token")
}

func TestLexerStripsLeadingBOM(t *testing.T) {
	l := New("\xEF\xBB\xBFlet x;")
	first := l.Next()
	assert.Equal(t, token.LET, first.Token.Kind)
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	l := New("let\nx;")
	l.Next() // let
	tok := l.Next() // x, on line 2
	assert.Equal(t, 2, tok.Token.Pos.Line)
}
