package ast

import (
	"github.com/cwbudde/ecmalite/pkg/token"
)

// MethodKind distinguishes plain methods from accessors and the
// constructor (spec §4.10 Classes).
type MethodKind int

const (
	MethodPlain MethodKind = iota
	MethodGetter
	MethodSetter
	MethodConstructor
)

// MethodDefinition is one member of a ClassDeclaration's body.
type MethodDefinition struct {
	Key         Expression // *Identifier, or arbitrary Expression when Computed
	Computed    bool
	Kind        MethodKind
	Static      bool
	Value       *FunctionExpression
}

func (m *MethodDefinition) String() string {
	prefix := ""
	switch m.Kind {
	case MethodGetter:
		prefix = "get "
	case MethodSetter:
		prefix = "set "
	}
	if m.Static {
		prefix = "static " + prefix
	}
	return prefix + m.Key.String() + "(" + joinParams(m.Value.Params) + ") " + m.Value.Body.String()
}

// FieldDefinition is a class field declaration, optionally static, with an
// optional initializer evaluated once per instance construction (or once
// for static fields, at class definition time).
type FieldDefinition struct {
	Key      Expression
	Computed bool
	Static   bool
	Value    Expression // nil if uninitialized (defaults to undefined)
}

// ClassDeclaration defines a constructor function value whose prototype
// carries the instance methods, and whose own object carries the static
// members (spec §4.10 Classes).
type ClassDeclaration struct {
	Token      token.Token
	Name       *Identifier // nil for an anonymous class expression
	SuperClass Expression  // nil if no `extends`
	Methods    []*MethodDefinition
	Fields     []*FieldDefinition
}

func (c *ClassDeclaration) statementNode()       {}
func (c *ClassDeclaration) expressionNode()      {} // a class declaration also parses as a valid expression
func (c *ClassDeclaration) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDeclaration) Pos() token.Position  { return c.Token.Pos }
func (c *ClassDeclaration) String() string {
	out := "class"
	if c.Name != nil {
		out += " " + c.Name.String()
	}
	if c.SuperClass != nil {
		out += " extends " + c.SuperClass.String()
	}
	out += " {\n"
	for _, f := range c.Fields {
		out += "  " + f.Key.String() + ";\n"
	}
	for _, m := range c.Methods {
		out += "  " + m.String() + "\n"
	}
	out += "}"
	return out
}
