package eval

import (
	"github.com/cwbudde/ecmalite/internal/env"
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/pkg/ast"
)

// hoistVarDeclarations walks a statement list (shallowly, not descending
// into nested function bodies) declaring every `var` name up front so
// forward references resolve to undefined instead of failing to bind
// (spec §4.2 hoisting). Function declarations are not hoisted by this
// pass: each one is bound only when execution reaches its statement.
func hoistVarDeclarations(stmts []ast.Statement, e *env.Environment) {
	for _, s := range stmts {
		hoistStatement(s, e)
	}
}

func hoistStatement(s ast.Statement, e *env.Environment) {
	switch n := s.(type) {
	case *ast.VariableDeclaration:
		if n.Kind == ast.DeclVar {
			for _, d := range n.Declarators {
				if id, ok := d.Target.(*ast.Identifier); ok {
					e.DeclareVar(id.Name)
				}
			}
		}
	case *ast.IfStatement:
		hoistStatement(n.Consequent, e)
		if n.Alternate != nil {
			hoistStatement(n.Alternate, e)
		}
	case *ast.BlockStatement:
		for _, st := range n.Body {
			hoistStatement(st, e)
		}
	case *ast.WhileStatement:
		hoistStatement(n.Body, e)
	case *ast.DoWhileStatement:
		hoistStatement(n.Body, e)
	case *ast.ForStatement:
		if vd, ok := n.Init.(*ast.VariableDeclaration); ok {
			hoistStatement(vd, e)
		}
		hoistStatement(n.Body, e)
	case *ast.ForInStatement:
		hoistStatement(n.Body, e)
	case *ast.ForOfStatement:
		hoistStatement(n.Body, e)
	case *ast.TryStatement:
		hoistStatement(n.Block, e)
		if n.Handler != nil {
			hoistStatement(n.Handler.Body, e)
		}
		if n.Finalizer != nil {
			hoistStatement(n.Finalizer, e)
		}
	case *ast.LabeledStatement:
		hoistStatement(n.Body, e)
	case *ast.SwitchStatement:
		for _, c := range n.Cases {
			for _, st := range c.Body {
				hoistStatement(st, e)
			}
		}
	}
}

// evalStatement executes a statement, returning its completion value (for
// ExpressionStatement, used by Run's REPL-style final value), a non-local
// control signal if one was raised, or an error for a thrown exception or
// internal failure.
func (in *Interpreter) evalStatement(s ast.Statement, e *env.Environment) (object.Value, *signal, error) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		v, err := in.evalExpression(n.Expr, e)
		return v, nil, err
	case *ast.VariableDeclaration:
		return nil, nil, in.evalVariableDeclaration(n, e)
	case *ast.BlockStatement:
		return in.evalBlock(n, env.NewEnclosed(e))
	case *ast.IfStatement:
		return in.evalIf(n, e)
	case *ast.WhileStatement:
		return in.evalWhile(n, e, "")
	case *ast.DoWhileStatement:
		return in.evalDoWhile(n, e, "")
	case *ast.ForStatement:
		return in.evalFor(n, e, "")
	case *ast.ForInStatement:
		return in.evalForIn(n, e, "")
	case *ast.ForOfStatement:
		return in.evalForOf(n, e, "")
	case *ast.ReturnStatement:
		var v object.Value = object.UndefinedValue
		if n.Value != nil {
			var err error
			v, err = in.evalExpression(n.Value, e)
			if err != nil {
				return nil, nil, err
			}
		}
		return nil, &signal{kind: signalReturn, value: v}, nil
	case *ast.BreakStatement:
		return nil, &signal{kind: signalBreak, label: n.Label}, nil
	case *ast.ContinueStatement:
		return nil, &signal{kind: signalContinue, label: n.Label}, nil
	case *ast.ThrowStatement:
		v, err := in.evalExpression(n.Value, e)
		if err != nil {
			return nil, nil, err
		}
		return nil, nil, Throw(v)
	case *ast.TryStatement:
		return in.evalTry(n, e)
	case *ast.LabeledStatement:
		return in.evalLabeled(n, e)
	case *ast.SwitchStatement:
		return in.evalSwitch(n, e)
	case *ast.FunctionDeclaration:
		fn := in.makeFunction(n.Name.Name, n.Params, n.Body, e, false, n.IsAsync, n.IsGenerator)
		e.Initialize(n.Name.Name, fn)
		return nil, nil, nil
	case *ast.ClassDeclaration:
		cls, err := in.evalClass(n, e)
		if err != nil {
			return nil, nil, err
		}
		if n.Name != nil {
			e.Initialize(n.Name.Name, cls)
		}
		return cls, nil, nil
	case *ast.EmptyStatement:
		return nil, nil, nil
	default:
		return nil, nil, in.ThrowTypeError("unsupported statement %T", s)
	}
}

func (in *Interpreter) evalBlock(b *ast.BlockStatement, e *env.Environment) (object.Value, *signal, error) {
	hoistVarDeclarations(b.Body, e)
	var last object.Value
	for _, st := range b.Body {
		if fd, ok := st.(*ast.FunctionDeclaration); ok {
			fn := in.makeFunction(fd.Name.Name, fd.Params, fd.Body, e, false, fd.IsAsync, fd.IsGenerator)
			e.Initialize(fd.Name.Name, fn)
			continue
		}
		if vd, ok := st.(*ast.VariableDeclaration); ok && vd.Kind != ast.DeclVar {
			for _, d := range vd.Declarators {
				if id, ok := d.Target.(*ast.Identifier); ok {
					e.DeclareLetConst(id.Name, vd.Kind == ast.DeclConst)
				}
			}
		}
		v, sig, err := in.evalStatement(st, e)
		if err != nil {
			return nil, nil, err
		}
		if sig != nil {
			return last, sig, nil
		}
		if v != nil {
			last = v
		}
	}
	return last, nil, nil
}

func (in *Interpreter) evalVariableDeclaration(n *ast.VariableDeclaration, e *env.Environment) error {
	for _, d := range n.Declarators {
		id, ok := d.Target.(*ast.Identifier)
		if !ok {
			return in.ThrowTypeError("unsupported binding target")
		}
		var v object.Value = object.UndefinedValue
		if d.Init != nil {
			var err error
			v, err = in.evalExpression(d.Init, e)
			if err != nil {
				return err
			}
		}
		if n.Kind == ast.DeclVar {
			if !e.HasOwn(id.Name) {
				e.DeclareVar(id.Name)
			}
			if err := e.Set(id.Name, v); err != nil {
				e.Initialize(id.Name, v)
			}
		} else {
			if !e.HasOwn(id.Name) {
				e.DeclareLetConst(id.Name, n.Kind == ast.DeclConst)
			}
			e.Initialize(id.Name, v)
		}
	}
	return nil
}

func (in *Interpreter) evalIf(n *ast.IfStatement, e *env.Environment) (object.Value, *signal, error) {
	cond, err := in.evalExpression(n.Condition, e)
	if err != nil {
		return nil, nil, err
	}
	if isTruthy(cond) {
		return in.evalStatement(n.Consequent, e)
	}
	if n.Alternate != nil {
		return in.evalStatement(n.Alternate, e)
	}
	return nil, nil, nil
}

func (in *Interpreter) evalWhile(n *ast.WhileStatement, e *env.Environment, label string) (object.Value, *signal, error) {
	for {
		cond, err := in.evalExpression(n.Condition, e)
		if err != nil {
			return nil, nil, err
		}
		if !isTruthy(cond) {
			return nil, nil, nil
		}
		_, sig, err := in.evalStatement(n.Body, env.NewEnclosed(e))
		if err != nil {
			return nil, nil, err
		}
		if sig.isLoopExit(label) {
			if sig.kind == signalBreak {
				return nil, nil, nil
			}
			continue
		}
		if sig != nil {
			return nil, sig, nil
		}
	}
}

func (in *Interpreter) evalDoWhile(n *ast.DoWhileStatement, e *env.Environment, label string) (object.Value, *signal, error) {
	for {
		_, sig, err := in.evalStatement(n.Body, env.NewEnclosed(e))
		if err != nil {
			return nil, nil, err
		}
		if sig.isLoopExit(label) {
			if sig.kind == signalBreak {
				return nil, nil, nil
			}
		} else if sig != nil {
			return nil, sig, nil
		}
		cond, err := in.evalExpression(n.Condition, e)
		if err != nil {
			return nil, nil, err
		}
		if !isTruthy(cond) {
			return nil, nil, nil
		}
	}
}

func (in *Interpreter) evalFor(n *ast.ForStatement, e *env.Environment, label string) (object.Value, *signal, error) {
	loopEnv := env.NewEnclosed(e)
	if n.Init != nil {
		switch init := n.Init.(type) {
		case *ast.VariableDeclaration:
			for _, d := range init.Declarators {
				if id, ok := d.Target.(*ast.Identifier); ok {
					loopEnv.DeclareLetConst(id.Name, init.Kind == ast.DeclConst)
				}
			}
			if err := in.evalVariableDeclaration(init, loopEnv); err != nil {
				return nil, nil, err
			}
		case ast.Expression:
			if _, err := in.evalExpression(init, loopEnv); err != nil {
				return nil, nil, err
			}
		}
	}
	for {
		if n.Condition != nil {
			cond, err := in.evalExpression(n.Condition, loopEnv)
			if err != nil {
				return nil, nil, err
			}
			if !isTruthy(cond) {
				return nil, nil, nil
			}
		}
		_, sig, err := in.evalStatement(n.Body, env.NewEnclosed(loopEnv))
		if err != nil {
			return nil, nil, err
		}
		if sig.isLoopExit(label) {
			if sig.kind == signalBreak {
				return nil, nil, nil
			}
		} else if sig != nil {
			return nil, sig, nil
		}
		if n.Update != nil {
			if _, err := in.evalExpression(n.Update, loopEnv); err != nil {
				return nil, nil, err
			}
		}
	}
}

func (in *Interpreter) evalForIn(n *ast.ForInStatement, e *env.Environment, label string) (object.Value, *signal, error) {
	right, err := in.evalExpression(n.Right, e)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := right.(*object.Object)
	if !ok {
		return nil, nil, nil
	}
	for _, k := range obj.OwnKeys() {
		iterEnv := env.NewEnclosed(e)
		keyStr := keyToString(k)
		if err := in.bindLoopTarget(n.Left, n.DeclKind, iterEnv, &object.String{Value: keyStr}); err != nil {
			return nil, nil, err
		}
		_, sig, err := in.evalStatement(n.Body, iterEnv)
		if err != nil {
			return nil, nil, err
		}
		if sig.isLoopExit(label) {
			if sig.kind == signalBreak {
				return nil, nil, nil
			}
			continue
		}
		if sig != nil {
			return nil, sig, nil
		}
	}
	return nil, nil, nil
}

func keyToString(k object.PropertyKey) string { return object.KeyString(k) }

func (in *Interpreter) evalForOf(n *ast.ForOfStatement, e *env.Environment, label string) (object.Value, *signal, error) {
	right, err := in.evalExpression(n.Right, e)
	if err != nil {
		return nil, nil, err
	}
	items, err := in.iterableToSlice(right)
	if err != nil {
		return nil, nil, err
	}
	for _, item := range items {
		iterEnv := env.NewEnclosed(e)
		if err := in.bindLoopTarget(n.Left, n.DeclKind, iterEnv, item); err != nil {
			return nil, nil, err
		}
		_, sig, err := in.evalStatement(n.Body, iterEnv)
		if err != nil {
			return nil, nil, err
		}
		if sig.isLoopExit(label) {
			if sig.kind == signalBreak {
				return nil, nil, nil
			}
			continue
		}
		if sig != nil {
			return nil, sig, nil
		}
	}
	return nil, nil, nil
}

func (in *Interpreter) bindLoopTarget(left ast.Expression, declKind *ast.DeclKind, e *env.Environment, v object.Value) error {
	id, ok := left.(*ast.Identifier)
	if !ok {
		return in.ThrowTypeError("unsupported for-loop binding target")
	}
	if declKind != nil {
		e.DeclareLetConst(id.Name, *declKind == ast.DeclConst)
		e.Initialize(id.Name, v)
		return nil
	}
	return e.Set(id.Name, v)
}

// iterableToSlice materializes an Array's elements, a String's characters,
// or a Map's [key, value] entries as a plain slice for for-of. Any other
// value, including generators and objects with a Symbol.iterator method,
// raises "value is not iterable"; the iterator protocol is not consulted.
func (in *Interpreter) iterableToSlice(v object.Value) ([]object.Value, error) {
	switch x := v.(type) {
	case *object.Array:
		return x.Elements, nil
	case *object.String:
		out := make([]object.Value, 0, len(x.Value))
		for _, r := range x.Value {
			out = append(out, &object.String{Value: string(r)})
		}
		return out, nil
	case *object.Map:
		out := make([]object.Value, 0, x.MapSize())
		for _, kv := range x.MapEntries() {
			out = append(out, object.NewArray(in.Protos.Array, kv[0], kv[1]))
		}
		return out, nil
	default:
		return nil, in.ThrowTypeError("value is not iterable")
	}
}

func (in *Interpreter) evalTry(n *ast.TryStatement, e *env.Environment) (object.Value, *signal, error) {
	v, sig, err := in.evalBlock(n.Block, env.NewEnclosed(e))

	if err != nil {
		if n.Handler != nil {
			if thrown, ok := err.(*ThrowError); ok {
				catchEnv := env.NewEnclosed(e)
				if n.Handler.Param != nil {
					catchEnv.DeclareLetConst(n.Handler.Param.Name, false)
					catchEnv.Initialize(n.Handler.Param.Name, thrown.Value)
				}
				v, sig, err = in.evalBlock(n.Handler.Body, catchEnv)
			}
		}
	}

	if n.Finalizer != nil {
		_, finSig, finErr := in.evalBlock(n.Finalizer, env.NewEnclosed(e))
		if finErr != nil {
			return nil, nil, finErr
		}
		if finSig != nil {
			return nil, finSig, nil
		}
	}
	return v, sig, err
}

func (in *Interpreter) evalLabeled(n *ast.LabeledStatement, e *env.Environment) (object.Value, *signal, error) {
	var v object.Value
	var sig *signal
	var err error
	switch body := n.Body.(type) {
	case *ast.WhileStatement:
		v, sig, err = in.evalWhile(body, e, n.Label)
	case *ast.DoWhileStatement:
		v, sig, err = in.evalDoWhile(body, e, n.Label)
	case *ast.ForStatement:
		v, sig, err = in.evalFor(body, e, n.Label)
	case *ast.ForInStatement:
		v, sig, err = in.evalForIn(body, e, n.Label)
	case *ast.ForOfStatement:
		v, sig, err = in.evalForOf(body, e, n.Label)
	default:
		v, sig, err = in.evalStatement(n.Body, e)
	}
	if err != nil {
		return nil, nil, err
	}
	if sig != nil && (sig.kind == signalBreak) && sig.label == n.Label {
		return v, nil, nil
	}
	return v, sig, nil
}

func (in *Interpreter) evalSwitch(n *ast.SwitchStatement, e *env.Environment) (object.Value, *signal, error) {
	disc, err := in.evalExpression(n.Discriminant, e)
	if err != nil {
		return nil, nil, err
	}
	switchEnv := env.NewEnclosed(e)
	matchedIdx := -1
	for i, c := range n.Cases {
		if c.Test == nil {
			continue
		}
		tv, err := in.evalExpression(c.Test, switchEnv)
		if err != nil {
			return nil, nil, err
		}
		if strictEquals(disc, tv) {
			matchedIdx = i
			break
		}
	}
	if matchedIdx == -1 {
		for i, c := range n.Cases {
			if c.Test == nil {
				matchedIdx = i
				break
			}
		}
	}
	if matchedIdx == -1 {
		return nil, nil, nil
	}
	for _, c := range n.Cases[matchedIdx:] {
		for _, st := range c.Body {
			_, sig, err := in.evalStatement(st, switchEnv)
			if err != nil {
				return nil, nil, err
			}
			if sig != nil {
				if sig.kind == signalBreak && sig.label == "" {
					return nil, nil, nil
				}
				return nil, sig, nil
			}
		}
	}
	return nil, nil, nil
}
