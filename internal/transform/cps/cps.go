// Package cps implements the async/await continuation-lowering pass (C8):
// it walks every async function body, collecting and validating its await
// points ahead of evaluation. An await point is only valid directly inside
// the async function it was parsed in — never inside a nested ordinary
// (non-async) function or class method (spec §4.12 async/await).
//
// The engine's async runtime (internal/eval's asyncDriver, built on top of
// internal/promise) drives suspension directly through a dedicated goroutine
// per call rather than through a compiled continuation-passing rewrite, so
// this pass does not transform await expressions into chained .then calls;
// it validates placement and reports the ordered list of await sites an
// async body contains, the same division of labor genlower applies to
// yield inside generator bodies.
package cps

import (
	"fmt"

	"github.com/cwbudde/ecmalite/pkg/ast"
)

// AwaitSite is one await expression found directly inside an async body
// (not inside a nested non-async function).
type AwaitSite struct {
	Expr *ast.AwaitExpression
}

// Lower walks prog, validating await placement in every async function and
// collecting its await sites. It returns the first placement violation
// found, if any.
func Lower(prog *ast.Program) (map[ast.Node][]AwaitSite, error) {
	sites := map[ast.Node][]AwaitSite{}
	var err error
	for _, s := range prog.Statements {
		if err = lowerStatement(s, sites); err != nil {
			return nil, err
		}
	}
	return sites, nil
}

func lowerStatement(s ast.Statement, sites map[ast.Node][]AwaitSite) error {
	var visitErr error
	ast.Walk(s, func(n ast.Node) bool {
		if visitErr != nil {
			return false
		}
		switch fn := n.(type) {
		case *ast.FunctionDeclaration:
			if fn.IsAsync {
				visitErr = collectAwaits(fn, fn.Body, sites)
			} else if hasAwait(fn.Body) {
				visitErr = fmt.Errorf("await used inside non-async function %q at %v", fn.Name.Name, fn.Pos())
			}
			return false
		case *ast.FunctionExpression:
			if fn.IsAsync {
				visitErr = collectAwaits(fn, fn.Body, sites)
			} else if hasAwait(fn.Body) {
				visitErr = fmt.Errorf("await used inside non-async function expression at %v", fn.Pos())
			}
			return false
		case *ast.ArrowFunctionExpression:
			if fn.IsAsync {
				visitErr = collectAwaits(fn, fn.Body, sites)
			} else if hasAwait(fn.Body) {
				visitErr = fmt.Errorf("await used inside non-async arrow function at %v", fn.Pos())
			}
			return false
		case *ast.ClassDeclaration:
			for _, m := range fn.Methods {
				if m.Value.IsAsync {
					if err := collectAwaits(m.Value, m.Value.Body, sites); err != nil {
						visitErr = err
						return false
					}
				} else if hasAwait(m.Value.Body) {
					visitErr = fmt.Errorf("await used inside non-async method at %v", m.Value.Pos())
				}
			}
			return false
		}
		return true
	})
	return visitErr
}

func collectAwaits(owner ast.Node, body ast.Node, sites map[ast.Node][]AwaitSite) error {
	var list []AwaitSite
	var visitErr error
	ast.Walk(body, func(n ast.Node) bool {
		if visitErr != nil {
			return false
		}
		switch nested := n.(type) {
		case *ast.FunctionDeclaration:
			// A nested function's own awaits belong to it, not owner; still
			// validate its placement the same way a top-level one would be.
			if nested.IsAsync {
				visitErr = collectAwaits(nested, nested.Body, sites)
			} else if hasAwait(nested.Body) {
				visitErr = fmt.Errorf("await used inside non-async function %q at %v", nested.Name.Name, nested.Pos())
			}
			return false
		case *ast.FunctionExpression:
			if nested.IsAsync {
				visitErr = collectAwaits(nested, nested.Body, sites)
			} else if hasAwait(nested.Body) {
				visitErr = fmt.Errorf("await used inside non-async function expression at %v", nested.Pos())
			}
			return false
		case *ast.ArrowFunctionExpression:
			if nested.IsAsync {
				visitErr = collectAwaits(nested, nested.Body, sites)
			} else if hasAwait(nested.Body) {
				visitErr = fmt.Errorf("await used inside non-async arrow function at %v", nested.Pos())
			}
			return false
		case *ast.ClassDeclaration:
			for _, m := range nested.Methods {
				if m.Value.IsAsync {
					if err := collectAwaits(m.Value, m.Value.Body, sites); err != nil {
						visitErr = err
						return false
					}
				} else if hasAwait(m.Value.Body) {
					visitErr = fmt.Errorf("await used inside non-async method at %v", m.Value.Pos())
					return false
				}
			}
			return false
		case *ast.AwaitExpression:
			list = append(list, AwaitSite{Expr: nested})
		}
		return true
	})
	sites[owner] = list
	return visitErr
}

func hasAwait(body ast.Node) bool {
	found := false
	ast.Walk(body, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FunctionDeclaration, *ast.FunctionExpression, *ast.ArrowFunctionExpression, *ast.ClassDeclaration:
			return false
		case *ast.AwaitExpression:
			found = true
			return false
		}
		return true
	})
	return found
}
