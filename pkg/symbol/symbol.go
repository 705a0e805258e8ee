// Package symbol implements the process-wide symbol table (spec §4.1).
//
// A Symbol is an interned handle for a name: two symbols with the same
// name are the same pointer, so equality is pointer identity rather than
// string comparison. This mirrors the teacher engine's preference for a
// single normalized lookup table (its case-insensitive pkg/ident.Map)
// adapted here to exact-match interning, since the target language is
// case-sensitive.
package symbol

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Symbol is an interned identifier handle.
type Symbol struct {
	name string
}

// Name returns the symbol's textual name.
func (s *Symbol) Name() string { return s.name }

// String implements fmt.Stringer.
func (s *Symbol) String() string { return s.name }

// table is bucketed by a 64-bit content hash rather than keyed directly by
// the name string, the same xxhash-bucket technique internal/object's Map
// uses for its own key index — a bucket holds more than one Symbol only on
// a hash collision, which in practice never happens for the parser's
// bounded vocabulary of identifiers/keywords.
var (
	mu    sync.RWMutex
	table = make(map[uint64][]*Symbol)
)

func lookupLocked(name string, h uint64) *Symbol {
	for _, s := range table[h] {
		if s.name == name {
			return s
		}
	}
	return nil
}

// Intern returns the unique Symbol for name, creating it on first use.
// Calling Intern with the same name always returns the same pointer.
func Intern(name string) *Symbol {
	h := xxhash.Sum64String(name)

	mu.RLock()
	if s := lookupLocked(name, h); s != nil {
		mu.RUnlock()
		return s
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if s := lookupLocked(name, h); s != nil {
		return s
	}
	s := &Symbol{name: name}
	table[h] = append(table[h], s)
	return s
}

// Same reports whether a and b are the identical interned symbol.
// Since symbols are only ever produced by Intern, pointer comparison alone
// would suffice; Same exists so callers never have to reach for == directly.
func Same(a, b *Symbol) bool { return a == b }

// Reserved head symbols for the symbolic list form (spec §3 AST, §4.4).
// These are eagerly interned at package init so they are never subject to
// first-use allocation races during parsing.
var (
	Program       = Intern("Program")
	Block         = Intern("Block")
	Let           = Intern("Let")
	Const         = Intern("Const")
	Var           = Intern("Var")
	If            = Intern("If")
	While         = Intern("While")
	DoWhile       = Intern("DoWhile")
	For           = Intern("For")
	ForIn         = Intern("ForIn")
	ForOf         = Intern("ForOf")
	ForAwaitOf    = Intern("ForAwaitOf")
	Function      = Intern("Function")
	Lambda        = Intern("Lambda")
	Return        = Intern("Return")
	Break         = Intern("Break")
	Continue      = Intern("Continue")
	Throw         = Intern("Throw")
	Labeled       = Intern("Labeled")
	Call          = Intern("Call")
	New           = Intern("New")
	GetProperty   = Intern("GetProperty")
	SetProperty   = Intern("SetProperty")
	GetIndex      = Intern("GetIndex")
	SetIndex      = Intern("SetIndex")
	ArrayLiteral  = Intern("ArrayLiteral")
	ObjectLiteral = Intern("ObjectLiteral")
	Property      = Intern("Property")
	Method        = Intern("Method")
	Class         = Intern("Class")
	Extends       = Intern("Extends")
	Try           = Intern("Try")
	Catch         = Intern("Catch")
	Finally       = Intern("Finally")
	Case          = Intern("Case")
	Default       = Intern("Default")
	Switch        = Intern("Switch")
	Spread        = Intern("Spread")
	Rest          = Intern("Rest")
	This          = Intern("This")
	Super         = Intern("Super")
	Uninitialized = Intern("Uninitialized")
	Yield         = Intern("Yield")
	YieldStar     = Intern("YieldStar")
	Await         = Intern("Await")
	Template      = Intern("Template")
	OptionalChain = Intern("OptionalChain")
	Identifier    = Intern("Identifier")
	Literal       = Intern("Literal")
	Assign        = Intern("Assign")
	Unary         = Intern("Unary")
	Binary        = Intern("Binary")
	Logical       = Intern("Logical")
	Update        = Intern("Update")
	Conditional   = Intern("Conditional")
	Grouped       = Intern("Grouped")
	ExprStmt      = Intern("ExprStmt")
	Empty         = Intern("Empty")
	Declarator    = Intern("Declarator")
	Param         = Intern("Param")
	Arrow         = Intern("Arrow")
	Field         = Intern("Field")

	// Operator tokens.
	OpAdd       = Intern("+")
	OpSub       = Intern("-")
	OpMul       = Intern("*")
	OpDiv       = Intern("/")
	OpMod       = Intern("%")
	OpPow       = Intern("**")
	OpStrictEq  = Intern("===")
	OpStrictNeq = Intern("!==")
	OpEq        = Intern("==")
	OpNeq       = Intern("!=")
	OpAnd       = Intern("&&")
	OpOr        = Intern("||")
	OpNullish   = Intern("??")
	OpLess      = Intern("<")
	OpGreater   = Intern(">")
	OpLessEq    = Intern("<=")
	OpGreaterEq = Intern(">=")
)
