package cps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ecmalite/internal/builder"
	"github.com/cwbudde/ecmalite/internal/parser"
	"github.com/cwbudde/ecmalite/pkg/ast"
)

func buildSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(src, "test.js")
	root := p.Parse()
	require.False(t, p.Errors().HasErrors(), "parse errors: %v", p.Errors())
	prog, err := builder.Build(root)
	require.NoError(t, err)
	return prog
}

func TestLowerCollectsAwaitSitesInOrder(t *testing.T) {
	prog := buildSource(t, "async function f() { await 1; await 2; }")
	sites, err := Lower(prog)
	require.NoError(t, err)

	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	require.Contains(t, sites, ast.Node(fn))
	assert.Len(t, sites[fn], 2)
}

func TestLowerNonAsyncAwaitIsError(t *testing.T) {
	prog := buildSource(t, "function f() { await 1; }")
	_, err := Lower(prog)
	assert.Error(t, err)
}

func TestLowerAsyncArrowCollectsAwaitSites(t *testing.T) {
	prog := buildSource(t, "let f = async (x) => { await x; };")
	sites, err := Lower(prog)
	require.NoError(t, err)

	decl := prog.Statements[0].(*ast.VariableDeclaration)
	arrow := decl.Declarators[0].Init.(*ast.ArrowFunctionExpression)
	require.Contains(t, sites, ast.Node(arrow))
	assert.Len(t, sites[arrow], 1)
}

func TestLowerNonAsyncArrowAwaitIsError(t *testing.T) {
	prog := buildSource(t, "let f = (x) => { await x; };")
	_, err := Lower(prog)
	assert.Error(t, err)
}

func TestLowerDoesNotAttributeNestedFunctionAwaitsToOuterAsync(t *testing.T) {
	prog := buildSource(t, "async function outer() { async function inner() { await 1; } await 2; }")
	sites, err := Lower(prog)
	require.NoError(t, err)

	outer := prog.Statements[0].(*ast.FunctionDeclaration)
	assert.Len(t, sites[outer], 1, "outer's own await sites must exclude inner's")
}

func TestLowerCollectsAwaitSitesInAsyncMethod(t *testing.T) {
	prog := buildSource(t, "class C { async load() { await fetch(); } }")
	sites, err := Lower(prog)
	require.NoError(t, err)

	cls := prog.Statements[0].(*ast.ClassDeclaration)
	method := cls.Methods[0].Value
	require.Len(t, sites[method], 1)
}

func TestLowerNonAsyncMethodAwaitIsError(t *testing.T) {
	prog := buildSource(t, "class C { load() { await fetch(); } }")
	_, err := Lower(prog)
	assert.Error(t, err)
}

func TestLowerFunctionWithoutAwaitHasNoError(t *testing.T) {
	prog := buildSource(t, "async function f() { let x = 1; return x; }")
	sites, err := Lower(prog)
	require.NoError(t, err)

	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	assert.Empty(t, sites[fn])
}
