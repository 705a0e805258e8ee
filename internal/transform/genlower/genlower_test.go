package genlower

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

func TestLowerCollectsYieldSitesInOrder(t *testing.T) {
	prog := buildSource(t, "function* gen() { yield 1; yield 2; }")
	sites, err := Lower(prog)
	require.NoError(t, err)

	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	require.Contains(t, sites, ast.Node(fn))
	assert.Len(t, sites[fn], 2)
	assert.False(t, sites[fn][0].Delegate)
}

func TestLowerMarksYieldDelegate(t *testing.T) {
	prog := buildSource(t, "function* gen() { yield* other(); }")
	sites, err := Lower(prog)
	require.NoError(t, err)

	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	require.Len(t, sites[fn], 1)
	assert.True(t, sites[fn][0].Delegate)
}

func TestLowerNonGeneratorYieldIsError(t *testing.T) {
	prog := buildSource(t, "function gen() { yield 1; }")
	_, err := Lower(prog)
	assert.Error(t, err)
}

func TestLowerYieldInArrowIsError(t *testing.T) {
	prog := buildSource(t, "function* gen() { let f = () => { yield 1; }; }")
	_, err := Lower(prog)
	assert.Error(t, err)
}

func TestLowerDoesNotAttributeNestedFunctionYieldsToOuterGenerator(t *testing.T) {
	prog := buildSource(t, "function* outer() { function* inner() { yield 1; } yield 2; }")
	sites, err := Lower(prog)
	require.NoError(t, err)

	outer := prog.Statements[0].(*ast.FunctionDeclaration)
	assert.Len(t, sites[outer], 1, "outer's own yield sites must exclude inner's")
}

func TestLowerCollectsYieldSitesInGeneratorMethod(t *testing.T) {
	prog := buildSource(t, "class C { *gen() { yield 1; } }")
	sites, err := Lower(prog)
	require.NoError(t, err)

	cls := prog.Statements[0].(*ast.ClassDeclaration)
	method := cls.Methods[0].Value
	require.Len(t, sites[method], 1)
}

func TestLowerNonGeneratorMethodYieldIsError(t *testing.T) {
	prog := buildSource(t, "class C { gen() { yield 1; } }")
	_, err := Lower(prog)
	assert.Error(t, err)
}

func TestLowerFunctionWithoutYieldHasNoError(t *testing.T) {
	prog := buildSource(t, "function* gen() { let x = 1; return x; }")
	sites, err := Lower(prog)
	require.NoError(t, err)

	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	assert.Empty(t, sites[fn])
}
