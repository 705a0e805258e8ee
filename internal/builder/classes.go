package builder

import (
	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/symbol"
)

func buildClass(s *ast.SExpr) *ast.ClassDeclaration {
	cls := &ast.ClassDeclaration{Token: tok(s.Pos, "class")}
	if n, ok := s.Args[0].Atom.(string); ok && n != "" {
		cls.Name = &ast.Identifier{Token: tok(s.Pos, n), Name: n}
	}
	if !symbol.Same(s.Args[1].Head, symbol.Empty) {
		cls.SuperClass = buildExpression(s.Args[1].Args[0])
	}
	for _, m := range s.Args[2:] {
		switch {
		case symbol.Same(m.Head, symbol.Method):
			cls.Methods = append(cls.Methods, buildMethod(m))
		case symbol.Same(m.Head, symbol.Field):
			cls.Fields = append(cls.Fields, buildField(m))
		}
	}
	return cls
}

func buildMethod(m *ast.SExpr) *ast.MethodDefinition {
	key := buildExpression(m.Args[0])
	fn := buildFunctionExpression(m.Args[1])
	static, _ := m.Args[2].Atom.(bool)
	getter, _ := m.Args[3].Atom.(bool)
	setter, _ := m.Args[4].Atom.(bool)

	kind := ast.MethodPlain
	switch {
	case getter:
		kind = ast.MethodGetter
	case setter:
		kind = ast.MethodSetter
	}
	if id, ok := key.(*ast.Literal); ok && id.Kind == ast.StringLit && id.Value == "constructor" && !static {
		kind = ast.MethodConstructor
	}
	return &ast.MethodDefinition{Key: key, Kind: kind, Static: static, Value: fn}
}

func buildField(f *ast.SExpr) *ast.FieldDefinition {
	key := buildExpression(f.Args[0])
	static, _ := f.Args[1].Atom.(bool)
	field := &ast.FieldDefinition{Key: key, Static: static}
	if len(f.Args) > 2 {
		field.Value = buildExpression(f.Args[2])
	}
	return field
}
