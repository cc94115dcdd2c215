package javaparser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// TypeKind is the declaration kind of a named Java type
type TypeKind string

const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindRecord     TypeKind = "record"
	KindAnnotation TypeKind = "annotation"
)

// Annotation represents a Java annotation with its attributes
type Annotation struct {
	Name          string            // As written, e.g. "Test" or "org.junit.Test"
	QualifiedName string            // Resolved against the file imports, e.g. "org.junit.Test"
	Attributes    map[string]string // e.g. {"value": "clicks button", "capture": "STEP_IN"}
	Raw           string            // Original annotation text
	Declared      bool              // The annotation type is declared in the parsed sources
}

// Attribute returns a named attribute value
func (a Annotation) Attribute(key string) (string, bool) {
	v, ok := a.Attributes[key]
	return v, ok
}

// SimpleName returns the last segment of the annotation name
func (a Annotation) SimpleName() string {
	return lastSegment(a.Name)
}

// Import is one import declaration of a compilation unit
type Import struct {
	Path     string // "org.junit.Test", "org.junit" for on-demand, "org.junit.Assert.assertEquals" for static
	Static   bool
	OnDemand bool
}

// File is a parsed compilation unit. The syntax tree stays alive until the
// owning Project is closed so that every collection pass walks the same tree.
type File struct {
	Path      string
	Package   string
	Imports   []Import
	Types     []*TypeDecl // Named types in source order, nested types after their outer type
	Lines     *LineMap
	Source    []byte
	HasErrors bool

	tree *sitter.Tree
}

// Methods returns every method and constructor declared by the named types of
// the file, in source order
func (f *File) Methods() []*MethodDecl {
	var methods []*MethodDecl
	for _, t := range f.Types {
		methods = append(methods, t.Methods...)
	}
	sortMethodsByOffset(methods)
	return methods
}

// Close releases the syntax tree
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

func (f *File) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.Source)
}

// TypeDecl is a named class, interface, enum, record or annotation type
type TypeDecl struct {
	Key            string
	QualifiedName  string
	SimpleName     string
	Kind           TypeKind
	Annotations    []Annotation
	SuperclassName string            // As written, empty when absent
	Fields         map[string]string // Field name -> declared type as written
	Methods        []*MethodDecl
	Outer          *TypeDecl
	File           *File
	Line           int

	node *sitter.Node
}

// IsClass reports whether the declaration is a plain class
func (t *TypeDecl) IsClass() bool {
	return t.Kind == KindClass
}

// ParamShape distinguishes simple named parameters from anything else the
// parser recovered inside a parameter list
type ParamShape int

const (
	ShapeNamed ParamShape = iota
	ShapeOther
)

// Param is one declared method parameter
type Param struct {
	Name     string
	Type     string
	Variadic bool
	Shape    ParamShape
	Raw      string
}

// MethodDecl is a method or constructor declared in a named type
type MethodDecl struct {
	Key           string
	Name          string
	QualifiedName string
	DeclaringType *TypeDecl
	Params        []Param
	ReturnType    string
	Annotations   []Annotation
	IsConstructor bool
	Line          int

	node *sitter.Node
	body *sitter.Node
	// Lazily built local variable table (name -> declared type or initializer)
	locals map[string]local
}

// File returns the compilation unit declaring the method
func (m *MethodDecl) File() *File {
	return m.DeclaringType.File
}

// HasBody reports whether the declaration has a block body
func (m *MethodDecl) HasBody() bool {
	return m.body != nil
}

// ParamNames returns the declared parameter names in order
func (m *MethodDecl) ParamNames() []string {
	names := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		names = append(names, p.Name)
	}
	return names
}

func (m *MethodDecl) startByte() uint32 {
	return m.node.StartByte()
}

// MethodBinding is the resolved target of a call or object creation
type MethodBinding struct {
	Key           string      // Declaration key, empty when the target is outside the parsed sources
	Name          string      // Simple name, the class simple name for constructors
	DeclaringType string      // Qualified name of the declaring type
	Decl          *MethodDecl // nil for targets outside the parsed sources

	// Candidates lists the possible declaring types, superclasses before
	// static on-demand imports, when DeclaringType is ambiguous
	Candidates []string
}

// QualifiedName returns DeclaringType + "." + Name
func (b *MethodBinding) QualifiedName() string {
	return b.DeclaringType + "." + b.Name
}

// QualifiedNames returns the qualified name of every possible target, in
// lookup order
func (b *MethodBinding) QualifiedNames() []string {
	if b.DeclaringType != "" {
		return []string{b.QualifiedName()}
	}
	names := make([]string, 0, len(b.Candidates))
	for _, c := range b.Candidates {
		names = append(names, c+"."+b.Name)
	}
	return names
}

func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
