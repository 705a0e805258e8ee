package ast

import (
	"github.com/cwbudde/ecmalite/pkg/token"
)

// FunctionDeclaration is a named `function f(...) {...}` (spec §4.9). The
// evaluator binds its name when execution reaches the declaration; it is
// not hoisted.
type FunctionDeclaration struct {
	Token       token.Token
	Name        *Identifier
	Params      []*Param
	Body        *BlockStatement
	IsAsync     bool
	IsGenerator bool
}

func (f *FunctionDeclaration) statementNode()       {}
func (f *FunctionDeclaration) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDeclaration) Pos() token.Position  { return f.Token.Pos }
func (f *FunctionDeclaration) String() string {
	prefix := "function"
	if f.IsAsync {
		prefix = "async " + prefix
	}
	if f.IsGenerator {
		prefix += "*"
	}
	return prefix + " " + f.Name.String() + "(" + joinParams(f.Params) + ") " + f.Body.String()
}

// FunctionExpression is an (optionally named) function literal used in
// expression position (spec §3 FunctionExpression{isAsync, isGenerator,
// params, body}).
type FunctionExpression struct {
	Token       token.Token
	Name        *Identifier // nil for anonymous function expressions
	Params      []*Param
	Body        *BlockStatement
	IsAsync     bool
	IsGenerator bool
}

func (f *FunctionExpression) expressionNode()      {}
func (f *FunctionExpression) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionExpression) Pos() token.Position  { return f.Token.Pos }
func (f *FunctionExpression) String() string {
	prefix := "function"
	if f.IsAsync {
		prefix = "async " + prefix
	}
	if f.IsGenerator {
		prefix += "*"
	}
	name := ""
	if f.Name != nil {
		name = f.Name.String()
	}
	return prefix + " " + name + "(" + joinParams(f.Params) + ") " + f.Body.String()
}

// ArrowFunctionExpression is `(params) => body`. It has no `this` of its
// own; it inherits the enclosing lexical `this` (spec §4.10). Body is
// either a *BlockStatement (braced body) or a single Expression
// (concise body, implicitly returned).
type ArrowFunctionExpression struct {
	Token   token.Token
	Params  []*Param
	Body    Node // *BlockStatement or Expression
	IsAsync bool
}

func (a *ArrowFunctionExpression) expressionNode()      {}
func (a *ArrowFunctionExpression) TokenLiteral() string { return a.Token.Literal }
func (a *ArrowFunctionExpression) Pos() token.Position  { return a.Token.Pos }
func (a *ArrowFunctionExpression) String() string {
	prefix := ""
	if a.IsAsync {
		prefix = "async "
	}
	return prefix + "(" + joinParams(a.Params) + ") => " + a.Body.String()
}

// YieldExpression is `yield expr` or delegated `yield* expr` inside a
// generator body; C7 checks its placement and the evaluator runs it as is.
type YieldExpression struct {
	Token     token.Token
	Argument  Expression // nil for a bare `yield`
	Delegate  bool        // true for `yield*`
}

func (y *YieldExpression) expressionNode()      {}
func (y *YieldExpression) TokenLiteral() string { return y.Token.Literal }
func (y *YieldExpression) Pos() token.Position  { return y.Token.Pos }
func (y *YieldExpression) String() string {
	prefix := "yield"
	if y.Delegate {
		prefix = "yield*"
	}
	if y.Argument == nil {
		return prefix
	}
	return prefix + " " + y.Argument.String()
}

// AwaitExpression is `await expr` inside an async function body; C8 checks
// its placement and the evaluator suspends on it directly.
type AwaitExpression struct {
	Token    token.Token
	Argument Expression
}

func (a *AwaitExpression) expressionNode()      {}
func (a *AwaitExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AwaitExpression) Pos() token.Position  { return a.Token.Pos }
func (a *AwaitExpression) String() string       { return "await " + a.Argument.String() }
