// Package genlower implements the generator-yield lowering pass (C7): it
// walks every generator function body, collecting and validating its yield
// points ahead of evaluation. A yield point is only valid directly inside
// the generator it was parsed in — never inside a nested ordinary function,
// arrow function, or class method, the same restriction ast.Walk's own
// doc comment calls out for callers that need it (spec §4.11 Generators).
//
// The engine's generator runtime (internal/generator) drives suspension
// directly through a dedicated goroutine per call rather than through a
// compiled state machine, so this pass does not rewrite yield expressions
// into continuation code; it validates placement and reports the ordered
// list of yield sites a generator body contains, information a debugger or
// an ahead-of-time analyzer can use without re-walking the tree itself.
package genlower

import (
	"fmt"

	"github.com/cwbudde/ecmalite/pkg/ast"
)

// YieldSite is one yield/yield* expression found directly inside a
// generator body (not inside a nested non-generator function).
type YieldSite struct {
	Expr     *ast.YieldExpression
	Delegate bool
}

// Lower walks prog, validating yield placement in every generator function
// and collecting its yield sites. It returns the first placement violation
// found, if any.
func Lower(prog *ast.Program) (map[ast.Node][]YieldSite, error) {
	sites := map[ast.Node][]YieldSite{}
	var err error
	for _, s := range prog.Statements {
		if err = lowerStatement(s, sites); err != nil {
			return nil, err
		}
	}
	return sites, nil
}

func lowerStatement(s ast.Statement, sites map[ast.Node][]YieldSite) error {
	var visitErr error
	ast.Walk(s, func(n ast.Node) bool {
		if visitErr != nil {
			return false
		}
		switch fn := n.(type) {
		case *ast.FunctionDeclaration:
			if fn.IsGenerator {
				visitErr = collectYields(fn, fn.Body, sites)
			} else if hasYield(fn.Body) {
				visitErr = fmt.Errorf("yield used inside non-generator function %q at %v", fn.Name.Name, fn.Pos())
			}
			return false
		case *ast.FunctionExpression:
			if fn.IsGenerator {
				visitErr = collectYields(fn, fn.Body, sites)
			} else if hasYield(fn.Body) {
				visitErr = fmt.Errorf("yield used inside non-generator function expression at %v", fn.Pos())
			}
			return false
		case *ast.ArrowFunctionExpression:
			// Arrow functions can never be generators (spec §4.9); a yield
			// here always belongs to an enclosing generator and must not be
			// treated as this arrow's own site.
			if hasYield(fn.Body) {
				visitErr = fmt.Errorf("yield used inside arrow function at %v", fn.Pos())
			}
			return false
		case *ast.ClassDeclaration:
			for _, m := range fn.Methods {
				if m.Value.IsGenerator {
					if err := collectYields(m.Value, m.Value.Body, sites); err != nil {
						visitErr = err
						return false
					}
				} else if hasYield(m.Value.Body) {
					visitErr = fmt.Errorf("yield used inside non-generator method at %v", m.Value.Pos())
				}
			}
			return false
		}
		return true
	})
	return visitErr
}

func collectYields(owner ast.Node, body ast.Node, sites map[ast.Node][]YieldSite) error {
	var list []YieldSite
	var visitErr error
	ast.Walk(body, func(n ast.Node) bool {
		if visitErr != nil {
			return false
		}
		switch nested := n.(type) {
		case *ast.FunctionDeclaration:
			// A nested function's own yields belong to it, not owner; still
			// validate its placement the same way a top-level one would be.
			if nested.IsGenerator {
				visitErr = collectYields(nested, nested.Body, sites)
			} else if hasYield(nested.Body) {
				visitErr = fmt.Errorf("yield used inside non-generator function %q at %v", nested.Name.Name, nested.Pos())
			}
			return false
		case *ast.FunctionExpression:
			if nested.IsGenerator {
				visitErr = collectYields(nested, nested.Body, sites)
			} else if hasYield(nested.Body) {
				visitErr = fmt.Errorf("yield used inside non-generator function expression at %v", nested.Pos())
			}
			return false
		case *ast.ArrowFunctionExpression:
			if hasYield(nested.Body) {
				visitErr = fmt.Errorf("yield used inside arrow function at %v", nested.Pos())
			}
			return false
		case *ast.ClassDeclaration:
			for _, m := range nested.Methods {
				if m.Value.IsGenerator {
					if err := collectYields(m.Value, m.Value.Body, sites); err != nil {
						visitErr = err
						return false
					}
				} else if hasYield(m.Value.Body) {
					visitErr = fmt.Errorf("yield used inside non-generator method at %v", m.Value.Pos())
					return false
				}
			}
			return false
		case *ast.YieldExpression:
			list = append(list, YieldSite{Expr: nested, Delegate: nested.Delegate})
		}
		return true
	})
	sites[owner] = list
	return visitErr
}

func hasYield(body ast.Node) bool {
	found := false
	ast.Walk(body, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FunctionDeclaration, *ast.FunctionExpression, *ast.ArrowFunctionExpression, *ast.ClassDeclaration:
			return false
		case *ast.YieldExpression:
			found = true
			return false
		}
		return true
	})
	return found
}
