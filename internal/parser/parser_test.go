package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ecmalite/pkg/symbol"
)

func TestParseProgramHeadAndStatementCount(t *testing.T) {
	p := New("let x = 1;\nx + 2;", "test.js")
	prog := p.Parse()

	require.False(t, p.Errors().HasErrors())
	assert.True(t, symbol.Same(prog.Head, symbol.Program))
	assert.Len(t, prog.Args, 2)
}

func TestParseLetDeclaration(t *testing.T) {
	p := New("let x = 1;", "test.js")
	prog := p.Parse()
	require.False(t, p.Errors().HasErrors())
	require.Len(t, prog.Args, 1)
	assert.True(t, symbol.Same(prog.Args[0].Head, symbol.Let))
}

func TestParseBinaryExpressionPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as (Binary + 1 (Binary * 2 3)), multiplication
	// binding tighter than addition.
	p := New("1 + 2 * 3;", "test.js")
	prog := p.Parse()
	require.False(t, p.Errors().HasErrors())

	stmt := prog.Args[0]
	require.True(t, symbol.Same(stmt.Head, symbol.ExprStmt))

	add := stmt.Args[0]
	require.True(t, symbol.Same(add.Head, symbol.Binary))
	require.Len(t, add.Args, 3)
	assert.Equal(t, "+", add.Args[0].Atom)

	rhs := add.Args[2]
	assert.True(t, symbol.Same(rhs.Head, symbol.Binary))
	assert.Equal(t, "*", rhs.Args[0].Atom)
}

func TestParseReportsSyntaxErrorsAndRecovers(t *testing.T) {
	p := New("let x = ;", "bad.js")
	p.Parse()

	assert.True(t, p.Errors().HasErrors())
}

func TestParseFunctionDeclaration(t *testing.T) {
	p := New("function add(a, b) { return a + b; }", "test.js")
	prog := p.Parse()

	require.False(t, p.Errors().HasErrors())
	require.Len(t, prog.Args, 1)
	assert.True(t, symbol.Same(prog.Args[0].Head, symbol.Function))
}

func TestParseClassDeclaration(t *testing.T) {
	p := New("class Point { constructor(x) { this.x = x; } }", "test.js")
	prog := p.Parse()

	require.False(t, p.Errors().HasErrors())
	require.Len(t, prog.Args, 1)
	assert.True(t, symbol.Same(prog.Args[0].Head, symbol.Class))
}

func TestParseGeneratorMethodInClass(t *testing.T) {
	p := New("class C { *gen() { yield 1; } }", "test.js")
	prog := p.Parse()

	require.False(t, p.Errors().HasErrors())
	cls := prog.Args[0]
	require.True(t, symbol.Same(cls.Head, symbol.Class))

	// args: name, super, members...
	method := cls.Args[2]
	require.True(t, symbol.Same(method.Head, symbol.Method))
	fn := method.Args[1]
	isGen, _ := fn.Args[4].Atom.(bool)
	assert.True(t, isGen)
}

func TestParseAsyncMethodInClass(t *testing.T) {
	p := New("class C { async load() { await 1; } }", "test.js")
	prog := p.Parse()

	require.False(t, p.Errors().HasErrors())
	cls := prog.Args[0]
	method := cls.Args[2]
	require.True(t, symbol.Same(method.Head, symbol.Method))
	fn := method.Args[1]
	isAsync, _ := fn.Args[3].Atom.(bool)
	assert.True(t, isAsync)
}

func TestParseIfStatement(t *testing.T) {
	p := New("if (x) { y; } else { z; }", "test.js")
	prog := p.Parse()

	require.False(t, p.Errors().HasErrors())
	require.Len(t, prog.Args, 1)
	assert.True(t, symbol.Same(prog.Args[0].Head, symbol.If))
}
