package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/ecmalite/pkg/token"
)

// IfStatement is `if (cond) then else`.
type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequent  Statement
	Alternate   Statement // nil if no else
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) Pos() token.Position  { return i.Token.Pos }
func (i *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(i.Condition.String())
	out.WriteString(") ")
	out.WriteString(i.Consequent.String())
	if i.Alternate != nil {
		out.WriteString(" else ")
		out.WriteString(i.Alternate.String())
	}
	return out.String()
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      Statement
}

func (w *WhileStatement) statementNode()       {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) Pos() token.Position  { return w.Token.Pos }
func (w *WhileStatement) String() string {
	return "while (" + w.Condition.String() + ") " + w.Body.String()
}

// DoWhileStatement is `do body while (cond);`.
type DoWhileStatement struct {
	Token     token.Token
	Body      Statement
	Condition Expression
}

func (d *DoWhileStatement) statementNode()       {}
func (d *DoWhileStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DoWhileStatement) Pos() token.Position  { return d.Token.Pos }
func (d *DoWhileStatement) String() string {
	return "do " + d.Body.String() + " while (" + d.Condition.String() + ");"
}

// ForStatement is the C-style `for (init; cond; update) body`. Init and
// Update may be nil (omitted clauses).
type ForStatement struct {
	Token     token.Token
	Init      Node // *VariableDeclaration or Expression, or nil
	Condition Expression
	Update    Expression
	Body      Statement
}

func (f *ForStatement) statementNode()       {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) Pos() token.Position  { return f.Token.Pos }
func (f *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if f.Init != nil {
		out.WriteString(f.Init.String())
	}
	out.WriteString("; ")
	if f.Condition != nil {
		out.WriteString(f.Condition.String())
	}
	out.WriteString("; ")
	if f.Update != nil {
		out.WriteString(f.Update.String())
	}
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}

// ForInStatement is `for (x in obj) body` — enumerates the own string keys
// of a plain object in insertion order; inherited keys are not visited and
// the enumerable flag is not consulted. Symbol keys are never enumerated.
type ForInStatement struct {
	Token    token.Token
	DeclKind *DeclKind // nil if Left is a bare identifier/member expression
	Left     Expression
	Right    Expression
	Body     Statement
}

func (f *ForInStatement) statementNode()       {}
func (f *ForInStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForInStatement) Pos() token.Position  { return f.Token.Pos }
func (f *ForInStatement) String() string {
	return "for (" + f.Left.String() + " in " + f.Right.String() + ") " + f.Body.String()
}

// ForOfStatement is `for (x of iterable) body`, using the sync iterator
// protocol (spec §4.12).
type ForOfStatement struct {
	Token    token.Token
	DeclKind *DeclKind
	Left     Expression
	Right    Expression
	Body     Statement
	Await    bool // true for `for await (... of ...)`
}

func (f *ForOfStatement) statementNode()       {}
func (f *ForOfStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForOfStatement) Pos() token.Position  { return f.Token.Pos }
func (f *ForOfStatement) String() string {
	kw := "of"
	prefix := "for ("
	if f.Await {
		prefix = "for await ("
	}
	return prefix + f.Left.String() + " " + kw + " " + f.Right.String() + ") " + f.Body.String()
}

// SwitchCase is one `case expr: body...` or `default: body...` arm. Test is
// nil for the default arm.
type SwitchCase struct {
	Test Expression
	Body []Statement
}

// SwitchStatement implements fallthrough semantics unless a case body ends
// in break/return/throw (spec §4.10 statement semantics).
type SwitchStatement struct {
	Token        token.Token
	Discriminant Expression
	Cases        []*SwitchCase
}

func (s *SwitchStatement) statementNode()       {}
func (s *SwitchStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SwitchStatement) Pos() token.Position  { return s.Token.Pos }
func (s *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch (")
	out.WriteString(s.Discriminant.String())
	out.WriteString(") {\n")
	for _, c := range s.Cases {
		if c.Test != nil {
			out.WriteString("case " + c.Test.String() + ":\n")
		} else {
			out.WriteString("default:\n")
		}
		for _, st := range c.Body {
			out.WriteString("  " + st.String() + "\n")
		}
	}
	out.WriteString("}")
	return out.String()
}

// CatchClause is the `catch (param) body` part of a TryStatement. Param is
// nil for a parameter-less `catch { ... }`.
type CatchClause struct {
	Param *Identifier
	Body  *BlockStatement
}

// TryStatement is `try body [catch (e) {...}] [finally {...}]` (spec §7).
type TryStatement struct {
	Token     token.Token
	Block     *BlockStatement
	Handler   *CatchClause // nil if no catch
	Finalizer *BlockStatement // nil if no finally
}

func (t *TryStatement) statementNode()       {}
func (t *TryStatement) TokenLiteral() string { return t.Token.Literal }
func (t *TryStatement) Pos() token.Position  { return t.Token.Pos }
func (t *TryStatement) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(t.Block.String())
	if t.Handler != nil {
		out.WriteString(" catch ")
		if t.Handler.Param != nil {
			out.WriteString("(" + t.Handler.Param.String() + ") ")
		}
		out.WriteString(t.Handler.Body.String())
	}
	if t.Finalizer != nil {
		out.WriteString(" finally ")
		out.WriteString(t.Finalizer.String())
	}
	return out.String()
}

// Param is a formal parameter, optionally a rest parameter, with an
// optional default-value initializer.
type Param struct {
	Name    *Identifier
	Default Expression
	Rest    bool
}

func (p *Param) String() string {
	var s string
	if p.Rest {
		s = "..."
	}
	s += p.Name.String()
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

func joinParams(params []*Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
