package javaparser

import "strings"

// TypeLookup reports whether a qualified type name exists outside the parsed
// sources (classpath directories and archives)
type TypeLookup interface {
	HasType(qualifiedName string) bool
}

// Project is the parsed file set plus the symbol index used to resolve
// bindings across files
type Project struct {
	Files []*File

	types    map[string]*TypeDecl
	external TypeLookup
}

// NewProject indexes the named types of files and resolves annotation names.
// external may be nil.
func NewProject(files []*File, external TypeLookup) *Project {
	p := &Project{
		Files:    files,
		types:    make(map[string]*TypeDecl),
		external: external,
	}
	for _, f := range files {
		for _, t := range f.Types {
			// First declaration wins for duplicated qualified names
			if _, ok := p.types[t.QualifiedName]; !ok {
				p.types[t.QualifiedName] = t
			}
		}
	}
	for _, f := range files {
		for _, t := range f.Types {
			p.resolveAnnotations(t, t.Annotations)
			for _, m := range t.Methods {
				p.resolveAnnotations(t, m.Annotations)
			}
		}
	}
	return p
}

// Type returns the source declaration of a qualified type name
func (p *Project) Type(qualifiedName string) (*TypeDecl, bool) {
	t, ok := p.types[qualifiedName]
	return t, ok
}

// Methods returns every method declaration of the project, file by file in
// source order
func (p *Project) Methods() []*MethodDecl {
	var methods []*MethodDecl
	for _, f := range p.Files {
		methods = append(methods, f.Methods()...)
	}
	return methods
}

// Close releases every syntax tree
func (p *Project) Close() {
	for _, f := range p.Files {
		f.Close()
	}
}

func (p *Project) resolveAnnotations(ctx *TypeDecl, annotations []Annotation) {
	for i := range annotations {
		q := p.ResolveTypeName(ctx, annotations[i].Name)
		if q == "" {
			q = annotations[i].Name
		}
		annotations[i].QualifiedName = q
		_, annotations[i].Declared = p.types[q]
	}
}

func (p *Project) known(qualifiedName string) bool {
	if _, ok := p.types[qualifiedName]; ok {
		return true
	}
	return p.external != nil && p.external.HasType(qualifiedName)
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

var javaLang = map[string]bool{
	"Object": true, "String": true, "StringBuilder": true, "StringBuffer": true,
	"Integer": true, "Long": true, "Double": true, "Float": true, "Short": true,
	"Byte": true, "Character": true, "Boolean": true, "Number": true, "Void": true,
	"Math": true, "System": true, "Thread": true, "Runnable": true, "Class": true,
	"Enum": true, "Iterable": true, "CharSequence": true, "Comparable": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"AssertionError": true, "IllegalArgumentException": true, "IllegalStateException": true,
	"NullPointerException": true, "InterruptedException": true, "Override": true,
	"Deprecated": true, "SuppressWarnings": true, "FunctionalInterface": true,
}

// ResolveTypeName resolves a type name as written inside ctx to a qualified
// name. Generic arguments and array dimensions are ignored. Returns "" for
// primitives and names that cannot be resolved.
func (p *Project) ResolveTypeName(ctx *TypeDecl, name string) string {
	name = stripTypeDecorations(name)
	if name == "" || primitives[name] || name == "var" {
		return ""
	}
	if idx := strings.Index(name, "."); idx >= 0 {
		if outer := p.resolveSimple(ctx, name[:idx], false); outer != "" {
			return outer + name[idx:]
		}
		return name
	}
	return p.resolveSimple(ctx, name, true)
}

func (p *Project) resolveSimple(ctx *TypeDecl, name string, guess bool) string {
	if ctx == nil {
		return ""
	}
	f := ctx.File

	// Member types of the enclosing declarations, innermost first
	for t := ctx; t != nil; t = t.Outer {
		if t.SimpleName == name {
			return t.QualifiedName
		}
		if candidate := t.QualifiedName + "." + name; p.known(candidate) {
			return candidate
		}
	}

	for _, t := range f.Types {
		if t.Outer == nil && t.SimpleName == name {
			return t.QualifiedName
		}
	}

	for _, imp := range f.Imports {
		if !imp.Static && !imp.OnDemand && lastSegment(imp.Path) == name {
			return imp.Path
		}
	}

	if candidate := qualify(f.Package, name); p.known(candidate) {
		return candidate
	}

	var guesses []string
	for _, imp := range f.Imports {
		if imp.Static || !imp.OnDemand {
			continue
		}
		candidate := imp.Path + "." + name
		if p.known(candidate) {
			return candidate
		}
		guesses = append(guesses, candidate)
	}

	if javaLang[name] || p.known("java.lang."+name) {
		return "java.lang." + name
	}

	// Binding recovery: a single on-demand import is the only place the name
	// can come from
	if guess && len(guesses) == 1 {
		return guesses[0]
	}
	return ""
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// stripTypeDecorations removes generic arguments, array dimensions, varargs
// and whitespace from a type as written
func stripTypeDecorations(typ string) string {
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
	s := b.String()
	s = strings.TrimSuffix(s, "...")
	if idx := strings.Index(s, "["); idx >= 0 {
		s = s[:idx]
	}
	return s
}
