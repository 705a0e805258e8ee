// Package ast defines the typed abstract syntax tree produced by the
// builder (C5) from the parser's symbolic list form and consumed by the
// transformation passes (C6-C8) and the evaluator (C10).
package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/ecmalite/pkg/token"
)

// Node is the base interface for all AST nodes. Every node must be able to
// report its originating token literal, its source position, and a
// debug/test string form. Source location metadata is attached to every
// node and preserved across transformations (spec §3).
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself producing a
// value.
type Statement interface {
	Node
	statementNode()
}

// Program is the root of the typed tree.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Identifier is a reference to a binding (spec §4.9 Environment).
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Name }

// Literal kinds covering the primitive values §3 enumerates: number,
// bigint, string, boolean, null, and undefined. A single node type keeps
// the typed tree close to the teacher's one-struct-per-literal-kind shape
// while avoiding five near-identical structs for values that never carry
// additional fields.
type LiteralKind int

const (
	NumberLit LiteralKind = iota
	BigIntLit
	StringLit
	BooleanLit
	NullLit
	UndefinedLit
)

// Literal is a constant value appearing directly in source.
type Literal struct {
	Token token.Token
	Kind  LiteralKind
	Value any // float64, string (also the decimal digits of a BigInt), or bool depending on Kind
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Literal }
func (l *Literal) Pos() token.Position  { return l.Token.Pos }
func (l *Literal) String() string       { return l.Token.Literal }

// TemplateLiteral is a template string with interpolated expressions
// (spec §4.4). Quasis has one more element than Expressions.
type TemplateLiteral struct {
	Token       token.Token
	Quasis      []string
	Expressions []Expression
}

func (t *TemplateLiteral) expressionNode()      {}
func (t *TemplateLiteral) TokenLiteral() string { return t.Token.Literal }
func (t *TemplateLiteral) Pos() token.Position  { return t.Token.Pos }
func (t *TemplateLiteral) String() string {
	var out bytes.Buffer
	out.WriteByte('`')
	for i, q := range t.Quasis {
		out.WriteString(q)
		if i < len(t.Expressions) {
			out.WriteString("${")
			out.WriteString(t.Expressions[i].String())
			out.WriteString("}")
		}
	}
	out.WriteByte('`')
	return out.String()
}

// UnaryExpression is a prefix operator applied to a single operand.
type UnaryExpression struct {
	Token    token.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) Pos() token.Position  { return u.Token.Pos }
func (u *UnaryExpression) String() string {
	return "(" + u.Operator + u.Operand.String() + ")"
}

// UpdateExpression is postfix/prefix ++ or --.
type UpdateExpression struct {
	Token    token.Token
	Operator string
	Operand  Expression
	Prefix   bool
}

func (u *UpdateExpression) expressionNode()      {}
func (u *UpdateExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UpdateExpression) Pos() token.Position  { return u.Token.Pos }
func (u *UpdateExpression) String() string {
	if u.Prefix {
		return u.Operator + u.Operand.String()
	}
	return u.Operand.String() + u.Operator
}

// BinaryExpression is a two-operand operator application, covering
// arithmetic, comparison, logical, and nullish-coalescing operators
// (spec §4.10 Expression semantics).
type BinaryExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) Pos() token.Position  { return b.Token.Pos }
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// LogicalExpression is &&, ||, or ??. Kept distinct from BinaryExpression
// because its right operand evaluation is conditional (short-circuit),
// which matters to constant folding (C6) and the CPS pass (C8).
type LogicalExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (l *LogicalExpression) expressionNode()      {}
func (l *LogicalExpression) TokenLiteral() string { return l.Token.Literal }
func (l *LogicalExpression) Pos() token.Position  { return l.Token.Pos }
func (l *LogicalExpression) String() string {
	return "(" + l.Left.String() + " " + l.Operator + " " + l.Right.String() + ")"
}

// AssignmentExpression covers plain `=` and compound (`+=`, `&&=`, ...)
// assignment to an identifier, member expression, or array pattern.
type AssignmentExpression struct {
	Token    token.Token
	Target   Expression
	Operator string
	Value    Expression
}

func (a *AssignmentExpression) expressionNode()      {}
func (a *AssignmentExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignmentExpression) Pos() token.Position  { return a.Token.Pos }
func (a *AssignmentExpression) String() string {
	return a.Target.String() + " " + a.Operator + " " + a.Value.String()
}

// ConditionalExpression is the ternary `cond ? then : else`.
type ConditionalExpression struct {
	Token       token.Token
	Test        Expression
	Consequent  Expression
	Alternate   Expression
}

func (c *ConditionalExpression) expressionNode()      {}
func (c *ConditionalExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ConditionalExpression) Pos() token.Position  { return c.Token.Pos }
func (c *ConditionalExpression) String() string {
	return "(" + c.Test.String() + " ? " + c.Consequent.String() + " : " + c.Alternate.String() + ")"
}

// GroupedExpression preserves an explicit parenthesization for printing.
type GroupedExpression struct {
	Token token.Token
	Inner Expression
}

func (g *GroupedExpression) expressionNode()      {}
func (g *GroupedExpression) TokenLiteral() string { return g.Token.Literal }
func (g *GroupedExpression) Pos() token.Position  { return g.Token.Pos }
func (g *GroupedExpression) String() string       { return "(" + g.Inner.String() + ")" }

// SpreadElement is `...expr` inside a call, array literal, or object
// literal.
type SpreadElement struct {
	Token    token.Token
	Argument Expression
}

func (s *SpreadElement) expressionNode()      {}
func (s *SpreadElement) TokenLiteral() string { return s.Token.Literal }
func (s *SpreadElement) Pos() token.Position  { return s.Token.Pos }
func (s *SpreadElement) String() string       { return "..." + s.Argument.String() }

// CallExpression is a function/method invocation.
type CallExpression struct {
	Token    token.Token
	Callee   Expression
	Args     []Expression
	Optional bool // true if reached via ?.( )
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() token.Position  { return c.Token.Pos }
func (c *CallExpression) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	op := "("
	if c.Optional {
		op = "?.("
	}
	return c.Callee.String() + op + strings.Join(args, ", ") + ")"
}

// NewExpression is `new Callee(args)` (spec §4.10 `new` semantics).
type NewExpression struct {
	Token  token.Token
	Callee Expression
	Args   []Expression
}

func (n *NewExpression) expressionNode()      {}
func (n *NewExpression) TokenLiteral() string { return n.Token.Literal }
func (n *NewExpression) Pos() token.Position  { return n.Token.Pos }
func (n *NewExpression) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return "new " + n.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// MemberExpression is `obj.prop`, `obj[expr]`, or their optional-chained
// forms `obj?.prop` / `obj?.[expr]`.
type MemberExpression struct {
	Token    token.Token
	Object   Expression
	Property Expression // *Identifier when !Computed, arbitrary Expression when Computed
	Computed bool
	Optional bool
}

func (m *MemberExpression) expressionNode()      {}
func (m *MemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpression) Pos() token.Position  { return m.Token.Pos }
func (m *MemberExpression) String() string {
	op := "."
	if m.Optional {
		op = "?."
	}
	if m.Computed {
		return m.Object.String() + op + "[" + m.Property.String() + "]"
	}
	return m.Object.String() + op + m.Property.String()
}

// ThisExpression is the `this` keyword.
type ThisExpression struct{ Token token.Token }

func (t *ThisExpression) expressionNode()      {}
func (t *ThisExpression) TokenLiteral() string { return t.Token.Literal }
func (t *ThisExpression) Pos() token.Position  { return t.Token.Pos }
func (t *ThisExpression) String() string       { return "this" }

// SuperExpression is the `super` keyword, valid as a call target
// (`super(...)`) or as the object of a member access (`super.m()`).
type SuperExpression struct{ Token token.Token }

func (s *SuperExpression) expressionNode()      {}
func (s *SuperExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SuperExpression) Pos() token.Position  { return s.Token.Pos }
func (s *SuperExpression) String() string       { return "super" }

// Property is one entry of an ObjectLiteral.
type Property struct {
	Key      Expression // *Identifier or Literal
	Value    Expression
	Computed bool
	Shorthand bool
	Kind     string // "init", "get", "set", "method"
}

// ObjectLiteral is `{ ... }`.
type ObjectLiteral struct {
	Token    token.Token
	Props    []*Property
	Spreads  []Expression // positions tracked implicitly via Props ordering is not needed: spec allows ...expr among properties
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectLiteral) Pos() token.Position  { return o.Token.Pos }
func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Props))
	for i, p := range o.Props {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ArrayLiteral is `[ ... ]`. Elements may contain SpreadElement entries and
// nil holes (elided elements, e.g. `[1, , 3]`).
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) Pos() token.Position  { return a.Token.Pos }
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil {
			continue
		}
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
