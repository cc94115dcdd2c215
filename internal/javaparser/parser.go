package javaparser

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"doctree/internal/logger"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"golang.org/x/sync/errgroup"
)

// ReadFunc loads the decoded content of a source file
type ReadFunc func(path string) ([]byte, error)

// ParseFiles parses every path once, in parallel, keeping the input order in
// the result. onParsed, when non-nil, is called after each file (from worker
// goroutines).
func ParseFiles(ctx context.Context, paths []string, read ReadFunc, workers int, onParsed func(path string)) ([]*File, error) {
	files := make([]*File, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			src, err := read(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			f, err := ParseSource(gctx, path, src)
			if err != nil {
				return err
			}
			files[i] = f
			if onParsed != nil {
				onParsed(path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, f := range files {
			if f != nil {
				f.Close()
			}
		}
		return nil, err
	}
	return files, nil
}

// ParseSource parses a single Java compilation unit. Syntax errors do not fail
// the parse: tree-sitter recovers and the file is flagged with HasErrors.
func ParseSource(ctx context.Context, path string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed for %s: %w", path, err)
	}

	f := &File{
		Path:   path,
		Lines:  NewLineMap(src),
		Source: src,
		tree:   tree,
	}

	root := tree.RootNode()
	if root.HasError() {
		f.HasErrors = true
		logger.LogParseError(path, fmt.Errorf("source contains syntax errors"), "tree-sitter recovery")
	}

	for _, child := range namedChildren(root) {
		switch child.Type() {
		case "package_declaration":
			f.Package = extractPackage(f, child)
		case "import_declaration":
			f.Imports = append(f.Imports, parseImport(f.text(child)))
		default:
			if _, ok := typeKinds[child.Type()]; ok {
				collectType(f, child, nil)
			}
		}
	}

	logger.Debug("[PARSER] %s: package=%q types=%d imports=%d", path, f.Package, len(f.Types), len(f.Imports))
	return f, nil
}

var typeKinds = map[string]TypeKind{
	"class_declaration":           KindClass,
	"interface_declaration":       KindInterface,
	"enum_declaration":            KindEnum,
	"record_declaration":          KindRecord,
	"annotation_type_declaration": KindAnnotation,
}

func extractPackage(f *File, n *sitter.Node) string {
	for _, c := range namedChildren(n) {
		if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
			return f.text(c)
		}
	}
	return ""
}

// parseImport handles "import a.b.C;", "import a.b.*;" and their static forms
func parseImport(text string) Import {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "import")
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ";"))

	imp := Import{}
	if strings.HasPrefix(s, "static") {
		imp.Static = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "static"))
	}
	s = strings.Join(strings.Fields(s), "")
	if strings.HasSuffix(s, ".*") {
		imp.OnDemand = true
		s = strings.TrimSuffix(s, ".*")
	}
	imp.Path = s
	return imp
}

func collectType(f *File, n *sitter.Node, outer *TypeDecl) {
	nameNode := n.ChildByFieldName("name")
	name := f.text(nameNode)
	if name == "" {
		return
	}

	qualified := name
	switch {
	case outer != nil:
		qualified = outer.QualifiedName + "." + name
	case f.Package != "":
		qualified = f.Package + "." + name
	}

	t := &TypeDecl{
		Key:           qualified,
		QualifiedName: qualified,
		SimpleName:    name,
		Kind:          typeKinds[n.Type()],
		Annotations:   extractAnnotations(f, n),
		Fields:        make(map[string]string),
		Outer:         outer,
		File:          f,
		Line:          f.Lines.Line(int(nameNode.StartByte())),
		node:          n,
	}
	if sc := n.ChildByFieldName("superclass"); sc != nil && sc.NamedChildCount() > 0 {
		t.SuperclassName = f.text(sc.NamedChild(0))
	}
	f.Types = append(f.Types, t)

	if t.Kind == KindRecord {
		if params := n.ChildByFieldName("parameters"); params != nil {
			for _, p := range namedChildren(params) {
				if p.Type() == "formal_parameter" {
					t.Fields[f.text(p.ChildByFieldName("name"))] = f.text(p.ChildByFieldName("type"))
				}
			}
		}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		collectMembers(f, t, body)
	}
}

func collectMembers(f *File, t *TypeDecl, body *sitter.Node) {
	for _, c := range namedChildren(body) {
		switch c.Type() {
		case "method_declaration", "constructor_declaration", "compact_constructor_declaration":
			t.Methods = append(t.Methods, newMethod(f, t, c))
		case "field_declaration", "constant_declaration":
			typ := f.text(c.ChildByFieldName("type"))
			for _, d := range namedChildren(c) {
				if d.Type() == "variable_declarator" {
					t.Fields[f.text(d.ChildByFieldName("name"))] = typ
				}
			}
		case "enum_body_declarations":
			collectMembers(f, t, c)
		default:
			if _, ok := typeKinds[c.Type()]; ok {
				collectType(f, c, t)
			}
		}
	}
}

func newMethod(f *File, t *TypeDecl, n *sitter.Node) *MethodDecl {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = n
	}
	m := &MethodDecl{
		Name:          f.text(n.ChildByFieldName("name")),
		DeclaringType: t,
		Annotations:   extractAnnotations(f, n),
		IsConstructor: n.Type() != "method_declaration",
		Line:          f.Lines.Line(int(nameNode.StartByte())),
		node:          n,
		body:          n.ChildByFieldName("body"),
	}
	if m.IsConstructor {
		if m.Name == "" {
			m.Name = t.SimpleName
		}
		m.ReturnType = t.SimpleName
	} else {
		m.ReturnType = f.text(n.ChildByFieldName("type"))
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		for _, p := range namedChildren(params) {
			switch p.Type() {
			case "line_comment", "block_comment", "receiver_parameter":
				continue
			}
			m.Params = append(m.Params, newParam(f, p))
		}
	}

	types := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		types = append(types, erasure(p.Type))
	}
	m.Key = t.Key + "." + m.Name + "(" + strings.Join(types, ",") + ")"
	m.QualifiedName = t.QualifiedName + "." + m.Name
	return m
}

func newParam(f *File, p *sitter.Node) Param {
	raw := strings.TrimSpace(f.text(p))
	switch p.Type() {
	case "formal_parameter":
		name := p.ChildByFieldName("name")
		if name == nil || name.Type() != "identifier" {
			return Param{Shape: ShapeOther, Raw: raw, Type: raw}
		}
		typ := f.text(p.ChildByFieldName("type"))
		if dims := p.ChildByFieldName("dimensions"); dims != nil {
			typ += f.text(dims)
		}
		return Param{Name: f.text(name), Type: typ, Shape: ShapeNamed, Raw: raw}
	case "spread_parameter":
		param := Param{Variadic: true, Shape: ShapeOther, Raw: raw, Type: raw}
		for _, c := range namedChildren(p) {
			switch c.Type() {
			case "modifiers":
			case "variable_declarator":
				if name := c.ChildByFieldName("name"); name != nil {
					param.Name = f.text(name)
					param.Shape = ShapeNamed
				}
			default:
				if param.Type == raw {
					param.Type = f.text(c) + "[]"
				}
			}
		}
		return param
	}
	return Param{Shape: ShapeOther, Raw: raw, Type: raw}
}

func extractAnnotations(f *File, decl *sitter.Node) []Annotation {
	annotations := []Annotation{}
	for _, c := range namedChildren(decl) {
		if c.Type() != "modifiers" {
			continue
		}
		for _, a := range namedChildren(c) {
			if a.Type() == "marker_annotation" || a.Type() == "annotation" {
				annotations = append(annotations, parseAnnotation(f, a))
			}
		}
	}
	return annotations
}

func parseAnnotation(f *File, n *sitter.Node) Annotation {
	annotation := Annotation{
		Name:       f.text(n.ChildByFieldName("name")),
		Attributes: make(map[string]string),
		Raw:        f.text(n),
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return annotation
	}
	for _, a := range namedChildren(args) {
		switch a.Type() {
		case "line_comment", "block_comment":
		case "element_value_pair":
			key := f.text(a.ChildByFieldName("key"))
			annotation.Attributes[key] = elementValue(f, a.ChildByFieldName("value"))
		default:
			annotation.Attributes["value"] = elementValue(f, a)
		}
	}
	return annotation
}

// elementValue returns the string value of literal (or concatenated literal)
// attribute values and the trimmed source text of anything else
func elementValue(f *File, n *sitter.Node) string {
	if v, ok := constantString(f, n); ok {
		return v
	}
	return strings.TrimSpace(f.text(n))
}

func constantString(f *File, n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string_literal", "text_block":
		v, err := UnquoteString(f.text(n))
		if err != nil {
			return "", false
		}
		return v, true
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return constantString(f, n.NamedChild(0))
		}
	case "binary_expression":
		if op := n.ChildByFieldName("operator"); op == nil || f.text(op) != "+" {
			return "", false
		}
		left, lok := constantString(f, n.ChildByFieldName("left"))
		right, rok := constantString(f, n.ChildByFieldName("right"))
		if lok && rok {
			return left + right, true
		}
	}
	return "", false
}

// erasure reduces a declared type to the form used in method keys:
// generics removed, package qualifiers dropped, varargs as arrays
func erasure(typ string) string {
	var b strings.Builder
	depth := 0
	for _, r := range typ {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth > 0:
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			b.WriteRune(r)
		}
	}
	s := strings.ReplaceAll(b.String(), "...", "[]")
	dims := ""
	if idx := strings.Index(s, "["); idx >= 0 {
		dims = s[idx:]
		s = s[:idx]
	}
	return lastSegment(s) + dims
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, n.NamedChild(i))
	}
	return children
}

func sortMethodsByOffset(methods []*MethodDecl) {
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].startByte() < methods[j].startByte()
	})
}
