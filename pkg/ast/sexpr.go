package ast

import (
	"bytes"
	"fmt"

	"github.com/cwbudde/ecmalite/pkg/symbol"
	"github.com/cwbudde/ecmalite/pkg/token"
)

// SExpr is the symbolic list form produced by the parser (C4) and consumed
// by the typed AST builder (C5); constant folding (C6) runs afterwards on
// the typed AST. It is a
// recursively nested (head arg ... arg) structure whose Head is a reserved
// symbol (spec §3 AST). Leaf nodes (identifiers, literals) carry their
// payload in Atom instead of Args.
type SExpr struct {
	Head *symbol.Symbol
	Args []*SExpr
	Atom any // string, int64, float64, bool, or nil for leaf nodes
	Pos  token.Position
}

// List builds an interior node with the given head and children.
func List(pos token.Position, head *symbol.Symbol, args ...*SExpr) *SExpr {
	return &SExpr{Head: head, Args: args, Pos: pos}
}

// Leaf builds a leaf node carrying a literal payload.
func Leaf(pos token.Position, head *symbol.Symbol, atom any) *SExpr {
	return &SExpr{Head: head, Atom: atom, Pos: pos}
}

// IsLeaf reports whether the node has no children.
func (s *SExpr) IsLeaf() bool { return len(s.Args) == 0 }

// String renders the node in (head arg arg) form for debugging and for the
// transformation tests' stable textual snapshots (spec §4.3).
func (s *SExpr) String() string {
	if s == nil {
		return "()"
	}
	if s.IsLeaf() {
		if s.Atom == nil {
			return s.Head.Name()
		}
		return fmt.Sprintf("%s:%v", s.Head.Name(), s.Atom)
	}
	var out bytes.Buffer
	out.WriteByte('(')
	out.WriteString(s.Head.Name())
	for _, a := range s.Args {
		out.WriteByte(' ')
		out.WriteString(a.String())
	}
	out.WriteByte(')')
	return out.String()
}

// Clone returns a deep, structurally independent copy of the node.
func (s *SExpr) Clone() *SExpr {
	if s == nil {
		return nil
	}
	clone := &SExpr{Head: s.Head, Atom: s.Atom, Pos: s.Pos}
	if len(s.Args) > 0 {
		clone.Args = make([]*SExpr, len(s.Args))
		for i, a := range s.Args {
			clone.Args[i] = a.Clone()
		}
	}
	return clone
}

// Equal reports structural equality: same head symbol, same atom, and
// recursively equal children. Symbols compare by identity since they are
// interned (spec §4.1), making this a cheap pointer-and-value comparison.
func (s *SExpr) Equal(other *SExpr) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Head != other.Head || len(s.Args) != len(other.Args) {
		return false
	}
	if s.Atom != other.Atom {
		return false
	}
	for i := range s.Args {
		if !s.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}
