package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/ecmalite/pkg/token"
)

func TestEngineErrorFormatIncludesSourceLineAndCaret(t *testing.T) {
	src := "let x = ;\n"
	e := New(KindSyntax, token.Position{Line: 1, Column: 9}, "unexpected token ';'", src, "script.js")

	out := e.Format(false)

	assert.Contains(t, out, "syntax error in script.js:1:9")
	assert.Contains(t, out, "let x = ;")
	assert.Contains(t, out, "^")
	assert.Contains(t, out, "unexpected token ';'")
}

func TestEngineErrorFormatWithoutFileOmitsFilePrefix(t *testing.T) {
	e := New(KindRuntime, token.Position{Line: 2, Column: 1}, "boom", "", "")

	out := e.Format(false)
	assert.Contains(t, out, "runtime error at line 2:1")
	assert.NotContains(t, out, " in ")
}

func TestEngineErrorFormatColorWrapsCaretAndMessage(t *testing.T) {
	e := New(KindSyntax, token.Position{Line: 1, Column: 1}, "bad", "x\n", "")

	colored := e.Format(true)
	assert.Contains(t, colored, "\033[1;31m^\033[0m")
	assert.Contains(t, colored, "\033[1mbad\033[0m")
}

func TestEngineErrorErrorMatchesUncoloredFormat(t *testing.T) {
	e := New(KindInternal, token.Position{Line: 1, Column: 1}, "internal failure", "", "")
	assert.Equal(t, e.Format(false), e.Error())
}

func TestListAggregatesMultipleErrors(t *testing.T) {
	var list List
	assert.False(t, list.HasErrors())

	list.Add(New(KindSyntax, token.Position{Line: 1, Column: 1}, "first", "", ""))
	list.Add(New(KindSyntax, token.Position{Line: 2, Column: 1}, "second", "", ""))

	assert.True(t, list.HasErrors())
	assert.Equal(t, 2, len(list.Errors))

	joined := list.Error()
	assert.True(t, strings.Contains(joined, "first"))
	assert.True(t, strings.Contains(joined, "second"))
}

func TestKindsAreDistinctStrings(t *testing.T) {
	kinds := []Kind{KindSyntax, KindRuntime, KindInternal, KindTimeout, KindDisposed}
	seen := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		assert.False(t, seen[k], "duplicate Kind value %q", k)
		seen[k] = true
	}
}
