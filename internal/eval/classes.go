package eval

import (
	"github.com/cwbudde/ecmalite/internal/env"
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/pkg/ast"
)

// evalClass builds a constructor function whose prototype carries the
// instance methods/accessors and whose own object carries static members
// (spec §4.10 Classes: a class is sugar over the prototype chain).
func (in *Interpreter) evalClass(n *ast.ClassDeclaration, e *env.Environment) (object.Value, error) {
	var superCtor *object.Function
	var superProto *object.Object
	if n.SuperClass != nil {
		sv, err := in.evalExpression(n.SuperClass, e)
		if err != nil {
			return nil, err
		}
		sc, ok := sv.(*object.Function)
		if !ok {
			return nil, in.ThrowTypeError("class extends value is not a constructor")
		}
		superCtor = sc
		if protoDesc, ok := sc.GetOwn(object.StringKey("prototype")); ok {
			superProto, _ = protoDesc.Value.(*object.Object)
		}
	}

	proto := object.NewObject(superProto)

	name := ""
	if n.Name != nil {
		name = n.Name.Name
	}

	var ctor *object.Function
	for _, m := range n.Methods {
		if m.Kind == ast.MethodConstructor {
			ctor = in.makeFunction(name, m.Value.Params, m.Value.Body, e, false, false, false)
		}
	}
	if ctor == nil {
		// Implicit default constructor (spec §4.10): forwards to super if
		// there is one, otherwise does nothing besides field init.
		var params []*ast.Param
		if superCtor != nil {
			params = []*ast.Param{{Name: &ast.Identifier{Name: "args"}, Rest: true}}
		}
		ctor = in.makeFunction(name, params, &ast.BlockStatement{Body: implicitCtorBody(superCtor != nil)}, e, false, false, false)
	}
	ctor.HomeObject = proto
	ctor.SuperCtor = superCtor
	ctor.Object.Set(object.StringKey("prototype"), proto)
	ctor.Object.Class = "Function"
	if superCtor != nil {
		ctor.Object.Proto = superCtor.Object
	}
	proto.Set(object.StringKey("constructor"), ctor)

	fieldInits := make([]*ast.FieldDefinition, 0, len(n.Fields))
	for _, f := range n.Fields {
		if f.Static {
			key, err := in.propertyKeyOf(f.Key, f.Computed, e)
			if err != nil {
				return nil, err
			}
			var v object.Value = object.UndefinedValue
			if f.Value != nil {
				v, err = in.evalExpression(f.Value, e)
				if err != nil {
					return nil, err
				}
			}
			ctor.Object.Set(key, v)
			continue
		}
		fieldInits = append(fieldInits, f)
	}
	ctor.FieldInits = fieldInits
	ctor.FieldEnv = e

	for _, m := range n.Methods {
		if m.Kind == ast.MethodConstructor {
			continue
		}
		key, err := in.propertyKeyOf(m.Key, m.Computed, e)
		if err != nil {
			return nil, err
		}
		fn := in.makeFunction("", m.Value.Params, m.Value.Body, e, false, m.Value.IsAsync, m.Value.IsGenerator)
		fn.HomeObject = proto
		fn.SuperCtor = superCtor
		target := proto
		if m.Static {
			target = ctor.Object
			fn.HomeObject = ctor.Object
		}
		switch m.Kind {
		case ast.MethodGetter:
			existing, _ := target.GetOwn(key)
			desc := &object.PropertyDescriptor{Enumerable: false}
			if existing != nil {
				*desc = *existing
			}
			desc.Get = fn
			target.SetDescriptor(key, desc)
		case ast.MethodSetter:
			existing, _ := target.GetOwn(key)
			desc := &object.PropertyDescriptor{Enumerable: false}
			if existing != nil {
				*desc = *existing
			}
			desc.Set = fn
			target.SetDescriptor(key, desc)
		default:
			target.SetDescriptor(key, &object.PropertyDescriptor{Value: fn, Enumerable: false})
		}
	}

	return ctor, nil
}

func implicitCtorBody(hasSuper bool) []ast.Statement {
	if !hasSuper {
		return nil
	}
	return []ast.Statement{
		&ast.ExpressionStatement{
			Expr: &ast.CallExpression{
				Callee: &ast.SuperExpression{},
				Args:   []ast.Expression{&ast.SpreadElement{Argument: &ast.Identifier{Name: "args"}}},
			},
		},
	}
}
