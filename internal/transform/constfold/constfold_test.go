package constfold

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

func exprOf(t *testing.T, prog *ast.Program) ast.Expression {
	t.Helper()
	require.Len(t, prog.Statements, 1)
	stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	return stmt.Expr
}

func TestFoldArithmeticBinary(t *testing.T) {
	prog := buildSource(t, "2 + 3 * 4;")
	Fold(prog)

	lit, ok := exprOf(t, prog).(*ast.Literal)
	require.True(t, ok, "expected folded literal, got %T", exprOf(t, prog))
	assert.Equal(t, ast.NumberLit, lit.Kind)
	assert.Equal(t, float64(14), lit.Value)
}

func TestFoldStringConcatenation(t *testing.T) {
	prog := buildSource(t, `"a" + "b";`)
	Fold(prog)

	lit, ok := exprOf(t, prog).(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.StringLit, lit.Kind)
	assert.Equal(t, "ab", lit.Value)
}

func TestFoldStringPlusNumberConcatenates(t *testing.T) {
	prog := buildSource(t, `"x" + 1;`)
	Fold(prog)

	lit, ok := exprOf(t, prog).(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.StringLit, lit.Kind)
	assert.Equal(t, "x1", lit.Value)
}

func TestFoldComparison(t *testing.T) {
	prog := buildSource(t, "3 < 4;")
	Fold(prog)

	lit, ok := exprOf(t, prog).(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.BooleanLit, lit.Kind)
	assert.Equal(t, true, lit.Value)
}

func TestFoldUnaryNegation(t *testing.T) {
	prog := buildSource(t, "-5;")
	Fold(prog)

	lit, ok := exprOf(t, prog).(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, float64(-5), lit.Value)
}

func TestFoldLogicalNot(t *testing.T) {
	prog := buildSource(t, "!true;")
	Fold(prog)

	lit, ok := exprOf(t, prog).(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.BooleanLit, lit.Kind)
	assert.Equal(t, false, lit.Value)
}

func TestFoldGroupedExpressionUnwraps(t *testing.T) {
	prog := buildSource(t, "(1 + 2);")
	Fold(prog)

	lit, ok := exprOf(t, prog).(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, float64(3), lit.Value)
}

func TestFoldConditionalPicksBranchWhenTestIsLiteral(t *testing.T) {
	prog := buildSource(t, "true ? 1 : 2;")
	Fold(prog)

	lit, ok := exprOf(t, prog).(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, float64(1), lit.Value)
}

func TestFoldDoesNotFoldExpressionWithIdentifier(t *testing.T) {
	prog := buildSource(t, "x + 1;")
	Fold(prog)

	bin, ok := exprOf(t, prog).(*ast.BinaryExpression)
	require.True(t, ok, "non-literal operand must not be folded away")
	assert.Equal(t, "+", bin.Operator)
}

func TestFoldDescendsIntoNestedStatements(t *testing.T) {
	prog := buildSource(t, "if (1 + 1) { let y = 2 * 3; }")
	Fold(prog)

	ifStmt, ok := prog.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	cond, ok := ifStmt.Condition.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, float64(2), cond.Value)

	block, ok := ifStmt.Consequent.(*ast.BlockStatement)
	require.True(t, ok)
	decl, ok := block.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	init, ok := decl.Declarators[0].Init.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, float64(6), init.Value)
}

func TestFoldDoesNotFoldUpdateExpression(t *testing.T) {
	prog := buildSource(t, "x++;")
	Fold(prog)

	_, ok := exprOf(t, prog).(*ast.UpdateExpression)
	assert.True(t, ok, "update expressions always mutate a binding and must survive folding")
}
