package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/ecmalite/pkg/token"
)

// ExpressionStatement wraps a single expression used in statement position.
type ExpressionStatement struct {
	Token token.Token
	Expr  Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() token.Position  { return e.Token.Pos }
func (e *ExpressionStatement) String() string {
	if e.Expr == nil {
		return ""
	}
	return e.Expr.String() + ";"
}

// DeclKind distinguishes var/let/const binding semantics (spec §4.9).
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

func (k DeclKind) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	default:
		return "var"
	}
}

// Declarator is one `name = init` entry of a VariableDeclaration; several
// may share a single `let`/`const`/`var` via comma separation.
type Declarator struct {
	Target Expression // *Identifier or an array/object destructuring pattern
	Init   Expression // nil if uninitialized
}

// VariableDeclaration is `let/const/var a = 1, b, c = 2;`.
type VariableDeclaration struct {
	Token       token.Token
	Kind        DeclKind
	Declarators []*Declarator
}

func (v *VariableDeclaration) statementNode()       {}
func (v *VariableDeclaration) TokenLiteral() string { return v.Token.Literal }
func (v *VariableDeclaration) Pos() token.Position  { return v.Token.Pos }
func (v *VariableDeclaration) String() string {
	parts := make([]string, len(v.Declarators))
	for i, d := range v.Declarators {
		if d.Init != nil {
			parts[i] = d.Target.String() + " = " + d.Init.String()
		} else {
			parts[i] = d.Target.String()
		}
	}
	return v.Kind.String() + " " + strings.Join(parts, ", ") + ";"
}

// ReturnStatement is `return expr;` or a bare `return;`.
type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for a bare return
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() token.Position  { return r.Token.Pos }
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

// ThrowStatement is `throw expr;`.
type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (t *ThrowStatement) statementNode()       {}
func (t *ThrowStatement) TokenLiteral() string { return t.Token.Literal }
func (t *ThrowStatement) Pos() token.Position  { return t.Token.Pos }
func (t *ThrowStatement) String() string       { return "throw " + t.Value.String() + ";" }

// BreakStatement is `break;` or `break label;`.
type BreakStatement struct {
	Token token.Token
	Label string // "" if unlabeled
}

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) Pos() token.Position  { return b.Token.Pos }
func (b *BreakStatement) String() string {
	if b.Label == "" {
		return "break;"
	}
	return "break " + b.Label + ";"
}

// ContinueStatement is `continue;` or `continue label;`.
type ContinueStatement struct {
	Token token.Token
	Label string
}

func (c *ContinueStatement) statementNode()       {}
func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) Pos() token.Position  { return c.Token.Pos }
func (c *ContinueStatement) String() string {
	if c.Label == "" {
		return "continue;"
	}
	return "continue " + c.Label + ";"
}

// LabeledStatement attaches a label to a statement for `break label` /
// `continue label` targeting (spec §4.10 "this" binding / statement
// semantics, labeled jumps).
type LabeledStatement struct {
	Token token.Token
	Label string
	Body  Statement
}

func (l *LabeledStatement) statementNode()       {}
func (l *LabeledStatement) TokenLiteral() string { return l.Token.Literal }
func (l *LabeledStatement) Pos() token.Position  { return l.Token.Pos }
func (l *LabeledStatement) String() string       { return l.Label + ": " + l.Body.String() }

// BlockStatement is a `{ ... }` sequence of statements introducing a new
// lexical frame for let/const bindings (spec §4.9).
type BlockStatement struct {
	Token token.Token
	Body  []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() token.Position  { return b.Token.Pos }
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range b.Body {
		out.WriteString("  ")
		out.WriteString(strings.ReplaceAll(s.String(), "\n", "\n  "))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// EmptyStatement is a bare `;`.
type EmptyStatement struct{ Token token.Token }

func (e *EmptyStatement) statementNode()       {}
func (e *EmptyStatement) TokenLiteral() string { return e.Token.Literal }
func (e *EmptyStatement) Pos() token.Position  { return e.Token.Pos }
func (e *EmptyStatement) String() string       { return ";" }
