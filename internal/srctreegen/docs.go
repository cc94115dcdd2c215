package srctreegen

import (
	"doctree/internal/javaparser"
	"doctree/internal/testdoc"
)

// classDoc resolves class documentation: inline page doc, inline doc, then
// the override table by qualified name
func (g *generator) classDoc(t *javaparser.TypeDecl) (*string, bool) {
	if doc, page, ok := g.inline.ClassDoc(t); ok {
		return &doc, page
	}
	if entry, ok := g.opts.Overrides.LookupClass(t.QualifiedName); ok {
		doc := entry.Doc
		return &doc, entry.Page
	}
	return nil, false
}

// methodDoc resolves method documentation: inline annotation, then the
// override table by "<class qualified name>.<method name>". A nil doc means
// the method is undocumented.
func (g *generator) methodDoc(m *javaparser.MethodDecl) (*string, testdoc.CaptureStyle) {
	if doc, capture, ok := g.inline.MethodDoc(m); ok {
		return &doc, capture
	}
	if entry, ok := g.opts.Overrides.LookupMethod(m.QualifiedName); ok {
		doc := entry.Doc
		return &doc, entry.Capture
	}
	return nil, testdoc.DefaultCaptureStyle
}
