package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ecmalite/internal/parser"
	"github.com/cwbudde/ecmalite/pkg/ast"
)

func buildSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(src, "test.js")
	root := p.Parse()
	require.False(t, p.Errors().HasErrors(), "parse errors: %v", p.Errors())
	prog, err := Build(root)
	require.NoError(t, err)
	return prog
}

func TestBuildVariableDeclaration(t *testing.T) {
	prog := buildSource(t, "let x = 1;")
	require.Len(t, prog.Statements, 1)

	decl, ok := prog.Statements[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, ast.DeclLet, decl.Kind)
	require.Len(t, decl.Declarators, 1)
	ident, ok := decl.Declarators[0].Target.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", ident.Name)
}

func TestBuildExpressionStatement(t *testing.T) {
	prog := buildSource(t, "1 + 2;")
	require.Len(t, prog.Statements, 1)

	stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	bin, ok := stmt.Expr.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Operator)
}

func TestBuildFunctionDeclaration(t *testing.T) {
	prog := buildSource(t, "function add(a, b) { return a + b; }")
	require.Len(t, prog.Statements, 1)

	fn, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Name)
	assert.Len(t, fn.Params, 2)
	assert.False(t, fn.IsGenerator)
	assert.False(t, fn.IsAsync)
}

func TestBuildGeneratorFunctionDeclaration(t *testing.T) {
	prog := buildSource(t, "function* gen() { yield 1; }")
	fn, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.True(t, fn.IsGenerator)
}

func TestBuildAsyncFunctionDeclaration(t *testing.T) {
	prog := buildSource(t, "async function f() { await 1; }")
	fn, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.True(t, fn.IsAsync)
}

func TestBuildClassDeclaration(t *testing.T) {
	prog := buildSource(t, "class Point { constructor(x) { this.x = x; } }")
	cls, ok := prog.Statements[0].(*ast.ClassDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Point", cls.Name.Name)
}

func TestBuildIfStatement(t *testing.T) {
	prog := buildSource(t, "if (x) { y; } else { z; }")
	ifStmt, ok := prog.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	assert.NotNil(t, ifStmt.Consequent)
	assert.NotNil(t, ifStmt.Alternate)
}
