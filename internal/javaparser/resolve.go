package javaparser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// maxResolveDepth bounds receiver chains such as a().b().c()
const maxResolveDepth = 16

type local struct {
	typ  string
	init *sitter.Node
}

// ResolveCall resolves the target of a method call or object creation.
//
// Calls into the parsed sources bind to their declaration. Calls whose
// receiver type is known but not part of the sources bind with only the
// declaring type and name. An unqualified call that several outside types
// could declare binds with an empty DeclaringType and those types as
// Candidates. nil means the receiver type could not be determined.
func (p *Project) ResolveCall(e *Expr) *MethodBinding {
	if e == nil {
		return nil
	}
	switch e.Kind() {
	case ExprMethodCall:
		return p.resolveInvocation(e.method, e.node, 0)
	case ExprNewObject:
		return p.resolveCreation(e.method, e.node)
	}
	return nil
}

func (p *Project) resolveCreation(m *MethodDecl, n *sitter.Node) *MethodBinding {
	f := m.File()
	typeText := f.text(n.ChildByFieldName("type"))
	qualified := p.ResolveTypeName(m.DeclaringType, typeText)
	if qualified == "" {
		return nil
	}
	args := namedArgs(n)

	t, ok := p.types[qualified]
	if !ok {
		return &MethodBinding{Name: lastSegment(stripTypeDecorations(typeText)), DeclaringType: qualified}
	}
	if d := p.pickOverload(t, t.SimpleName, args, m, true); d != nil {
		return bindingFor(d)
	}
	b := &MethodBinding{Name: t.SimpleName, DeclaringType: t.QualifiedName}
	if len(args) == 0 && !hasConstructors(t) {
		// Implicit default constructor
		b.Key = t.Key + "." + t.SimpleName + "()"
	}
	return b
}

func hasConstructors(t *TypeDecl) bool {
	for _, m := range t.Methods {
		if m.IsConstructor {
			return true
		}
	}
	return false
}

func (p *Project) resolveInvocation(m *MethodDecl, n *sitter.Node, depth int) *MethodBinding {
	if depth > maxResolveDepth {
		return nil
	}
	f := m.File()
	name := f.text(n.ChildByFieldName("name"))
	args := namedArgs(n)

	obj := n.ChildByFieldName("object")
	if obj == nil {
		return p.resolveUnqualified(m, name, args)
	}
	receiver := p.typeOf(m, obj, depth+1)
	if receiver == "" {
		return nil
	}
	return p.lookupMethod(receiver, name, args, m)
}

// lookupMethod finds name on the receiver type and its source superclasses
func (p *Project) lookupMethod(receiver, name string, args []*sitter.Node, ctx *MethodDecl) *MethodBinding {
	t, ok := p.types[receiver]
	if !ok {
		return &MethodBinding{Name: name, DeclaringType: receiver}
	}
	b, ancestor, resolved := p.lookupInHierarchy(t, name, args, ctx)
	switch {
	case b != nil:
		return b
	case !resolved:
		return nil
	case ancestor != "":
		return &MethodBinding{Name: name, DeclaringType: ancestor}
	}
	return &MethodBinding{Name: name, DeclaringType: receiver}
}

// lookupInHierarchy walks t and its superclasses declared in the sources.
// When the walk leaves the sources, ancestor is the first outside superclass;
// resolved is false when a superclass name could not be resolved at all.
func (p *Project) lookupInHierarchy(t *TypeDecl, name string, args []*sitter.Node, ctx *MethodDecl) (b *MethodBinding, ancestor string, resolved bool) {
	visited := make(map[*TypeDecl]bool)
	for cur := t; cur != nil && !visited[cur]; {
		visited[cur] = true
		if d := p.pickOverload(cur, name, args, ctx, false); d != nil {
			return bindingFor(d), "", true
		}
		if cur.SuperclassName == "" {
			return nil, "", true
		}
		super := p.ResolveTypeName(cur, cur.SuperclassName)
		if super == "" {
			return nil, "", false
		}
		next, ok := p.types[super]
		if !ok {
			return nil, super, true
		}
		cur = next
	}
	return nil, "", true
}

func (p *Project) resolveUnqualified(m *MethodDecl, name string, args []*sitter.Node) *MethodBinding {
	// Candidate declaring types outside the sources; "" marks an unknown one
	var outside []string

	for t := m.DeclaringType; t != nil; t = t.Outer {
		b, ancestor, resolved := p.lookupInHierarchy(t, name, args, m)
		if b != nil {
			return b
		}
		if !resolved {
			outside = append(outside, "")
		} else if ancestor != "" {
			outside = append(outside, ancestor)
		}
	}

	f := m.File()
	for _, imp := range f.Imports {
		if imp.Static && !imp.OnDemand && lastSegment(imp.Path) == name {
			return p.lookupMethod(strings.TrimSuffix(imp.Path, "."+name), name, args, m)
		}
	}
	for _, imp := range f.Imports {
		if !imp.Static || !imp.OnDemand {
			continue
		}
		if t, ok := p.types[imp.Path]; ok {
			if b, _, _ := p.lookupInHierarchy(t, name, args, m); b != nil {
				return b
			}
			continue
		}
		outside = append(outside, imp.Path)
	}

	if len(outside) == 1 && outside[0] != "" {
		return &MethodBinding{Name: name, DeclaringType: outside[0]}
	}

	// Several outside types could declare it. Keep the known ones in lookup
	// order and leave the choice to the caller.
	var candidates []string
	for _, c := range outside {
		if c != "" {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return &MethodBinding{Name: name, Candidates: candidates}
}

// typeOf infers the qualified type of a receiver expression, "" when unknown
func (p *Project) typeOf(m *MethodDecl, n *sitter.Node, depth int) string {
	if n == nil || depth > maxResolveDepth {
		return ""
	}
	f := m.File()
	ctx := m.DeclaringType

	switch n.Type() {
	case "this":
		return ctx.QualifiedName
	case "super":
		if ctx.SuperclassName == "" {
			return "java.lang.Object"
		}
		return p.ResolveTypeName(ctx, ctx.SuperclassName)
	case "identifier":
		name := f.text(n)
		if typ, ok := p.variableType(m, name, depth); ok {
			return typ
		}
		return p.ResolveTypeName(ctx, name)
	case "field_access":
		obj := n.ChildByFieldName("object")
		if p.isValue(m, obj) {
			owner := p.typeOf(m, obj, depth+1)
			return p.fieldType(owner, f.text(n.ChildByFieldName("field")))
		}
		return p.ResolveTypeName(ctx, f.text(n))
	case "scoped_identifier", "type_identifier", "scoped_type_identifier", "generic_type":
		return p.ResolveTypeName(ctx, f.text(n))
	case "method_invocation":
		b := p.resolveInvocation(m, n, depth+1)
		if b == nil || b.Decl == nil {
			return ""
		}
		return p.ResolveTypeName(b.Decl.DeclaringType, b.Decl.ReturnType)
	case "object_creation_expression":
		return p.ResolveTypeName(ctx, f.text(n.ChildByFieldName("type")))
	case "string_literal", "text_block":
		return "java.lang.String"
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return p.typeOf(m, n.NamedChild(0), depth+1)
		}
	case "cast_expression":
		return p.ResolveTypeName(ctx, f.text(n.ChildByFieldName("type")))
	}
	return ""
}

// isValue reports whether a field access chain starts from a value rather
// than from a package or type name
func (p *Project) isValue(m *MethodDecl, n *sitter.Node) bool {
	for n != nil && n.Type() == "field_access" {
		n = n.ChildByFieldName("object")
	}
	if n == nil {
		return false
	}
	if n.Type() != "identifier" {
		return true
	}
	_, ok := p.declaredVariable(m, m.File().text(n))
	return ok
}

// variableType returns the resolved type of a local, parameter or field.
// ok is true whenever name is a variable, even if its type is unresolved.
func (p *Project) variableType(m *MethodDecl, name string, depth int) (string, bool) {
	if l, ok := p.locals(m)[name]; ok {
		if stripTypeDecorations(l.typ) == "var" && l.init != nil {
			return p.typeOf(m, l.init, depth+1), true
		}
		return p.ResolveTypeName(m.DeclaringType, l.typ), true
	}
	for t := m.DeclaringType; t != nil; t = t.Outer {
		if typ, owner, ok := p.fieldInHierarchy(t, name); ok {
			return p.ResolveTypeName(owner, typ), true
		}
	}
	return "", false
}

// declaredVariable returns the declared type text of a local, parameter or field
func (p *Project) declaredVariable(m *MethodDecl, name string) (string, bool) {
	if l, ok := p.locals(m)[name]; ok {
		return l.typ, true
	}
	for t := m.DeclaringType; t != nil; t = t.Outer {
		if typ, _, ok := p.fieldInHierarchy(t, name); ok {
			return typ, true
		}
	}
	return "", false
}

func (p *Project) fieldType(owner, field string) string {
	t, ok := p.types[owner]
	if !ok {
		return ""
	}
	if typ, declaring, ok := p.fieldInHierarchy(t, field); ok {
		return p.ResolveTypeName(declaring, typ)
	}
	return ""
}

func (p *Project) fieldInHierarchy(t *TypeDecl, name string) (string, *TypeDecl, bool) {
	visited := make(map[*TypeDecl]bool)
	for cur := t; cur != nil && !visited[cur]; {
		visited[cur] = true
		if typ, ok := cur.Fields[name]; ok {
			return typ, cur, true
		}
		if cur.SuperclassName == "" {
			break
		}
		next, ok := p.types[p.ResolveTypeName(cur, cur.SuperclassName)]
		if !ok {
			break
		}
		cur = next
	}
	return "", nil, false
}

// locals collects parameters and every local variable declared anywhere in
// the method body. The first declaration of a name wins.
func (p *Project) locals(m *MethodDecl) map[string]local {
	if m.locals != nil {
		return m.locals
	}
	f := m.File()
	m.locals = make(map[string]local)
	for _, param := range m.Params {
		if param.Name != "" {
			m.locals[param.Name] = local{typ: param.Type}
		}
	}
	add := func(name *sitter.Node, typ string, init *sitter.Node) {
		if name == nil {
			return
		}
		if _, ok := m.locals[f.text(name)]; !ok {
			m.locals[f.text(name)] = local{typ: typ, init: init}
		}
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case "local_variable_declaration":
				typ := f.text(c.ChildByFieldName("type"))
				for _, d := range namedChildren(c) {
					if d.Type() == "variable_declarator" {
						add(d.ChildByFieldName("name"), typ, d.ChildByFieldName("value"))
					}
				}
			case "enhanced_for_statement", "resource":
				add(c.ChildByFieldName("name"), f.text(c.ChildByFieldName("type")), c.ChildByFieldName("value"))
			case "catch_formal_parameter":
				typ := ""
				for _, ct := range namedChildren(c) {
					if ct.Type() == "catch_type" {
						typ = f.text(ct)
					}
				}
				add(c.ChildByFieldName("name"), typ, nil)
			case "class_body", "lambda_expression":
				// Separate scopes
				continue
			}
			walk(c)
		}
	}
	walk(m.body)
	return m.locals
}

// pickOverload chooses among same-named declarations of t by arity and, when
// several remain, by the argument types that can be inferred
func (p *Project) pickOverload(t *TypeDecl, name string, args []*sitter.Node, ctx *MethodDecl, constructors bool) *MethodDecl {
	var candidates []*MethodDecl
	for _, d := range t.Methods {
		if d.IsConstructor != constructors || d.Name != name {
			continue
		}
		if arityMatches(d, len(args)) {
			candidates = append(candidates, d)
		}
	}
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}

	argTypes := make([]string, len(args))
	for i, a := range args {
		argTypes[i] = p.argType(ctx, a)
	}
	for _, d := range candidates {
		if paramsAccept(d, argTypes) {
			return d
		}
	}
	return candidates[0]
}

func arityMatches(d *MethodDecl, n int) bool {
	params := len(d.Params)
	if params > 0 && d.Params[params-1].Variadic {
		return n >= params-1
	}
	return n == params
}

func paramsAccept(d *MethodDecl, argTypes []string) bool {
	for i, arg := range argTypes {
		idx := i
		if idx >= len(d.Params) {
			idx = len(d.Params) - 1
		}
		param := erasure(d.Params[idx].Type)
		if d.Params[idx].Variadic {
			param = strings.TrimSuffix(param, "[]")
		}
		if !compatible(param, arg) {
			return false
		}
	}
	return true
}

var boxed = map[string]string{
	"boolean": "Boolean", "byte": "Byte", "char": "Character", "short": "Short",
	"int": "Integer", "long": "Long", "float": "Float", "double": "Double",
}

func compatible(param, arg string) bool {
	switch {
	case arg == "" || param == arg:
		return true
	case arg == "null":
		return !primitives[param]
	case param == "Object":
		return true
	case boxed[param] == arg || boxed[arg] == param:
		return true
	case primitives[param] && primitives[arg]:
		return widens(arg, param)
	}
	return false
}

func widens(from, to string) bool {
	order := map[string]int{"byte": 1, "short": 2, "char": 2, "int": 3, "long": 4, "float": 5, "double": 6}
	f, okF := order[from]
	t, okT := order[to]
	return okF && okT && f <= t
}

// argType returns the simple type name of an argument expression, "null" for
// the null literal and "" when unknown
func (p *Project) argType(m *MethodDecl, n *sitter.Node) string {
	f := m.File()
	switch n.Type() {
	case "string_literal", "text_block":
		return "String"
	case "true", "false":
		return "boolean"
	case "character_literal":
		return "char"
	case "null_literal":
		return "null"
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		if strings.HasSuffix(strings.ToLower(f.text(n)), "l") {
			return "long"
		}
		return "int"
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		if strings.HasSuffix(strings.ToLower(f.text(n)), "f") {
			return "float"
		}
		return "double"
	case "identifier":
		if typ, ok := p.declaredVariable(m, f.text(n)); ok && stripTypeDecorations(typ) != "var" {
			return erasure(typ)
		}
	}
	if q := p.typeOf(m, n, 0); q != "" {
		return lastSegment(q)
	}
	return ""
}

func bindingFor(d *MethodDecl) *MethodBinding {
	return &MethodBinding{
		Key:           d.Key,
		Name:          d.Name,
		DeclaringType: d.DeclaringType.QualifiedName,
		Decl:          d,
	}
}

func namedArgs(n *sitter.Node) []*sitter.Node {
	var args []*sitter.Node
	for _, a := range namedChildren(n.ChildByFieldName("arguments")) {
		switch a.Type() {
		case "line_comment", "block_comment":
			continue
		}
		args = append(args, a)
	}
	return args
}
