package testdoc

import (
	"strings"

	"doctree/internal/javaparser"
	"doctree/internal/logger"
)

// InlineSource reads documentation declared on the source itself
type InlineSource interface {
	// ClassDoc returns the class documentation and whether it marks a page
	ClassDoc(t *javaparser.TypeDecl) (doc string, page bool, ok bool)
	// MethodDoc returns the method documentation and its capture style
	MethodDoc(m *javaparser.MethodDecl) (doc string, capture CaptureStyle, ok bool)
}

// DefaultAnnotationPackages holds the packages of the published @Page and
// @TestDoc annotations
var DefaultAnnotationPackages = []string{"org.sahagin.runlib.external"}

// AnnotationSource reads documentation annotations.
//
// A resolved annotation matches when its package is one of Packages or its
// type is declared in the parsed sources. An annotation whose name could not
// be resolved is matched by simple name.
type AnnotationSource struct {
	PageAnnotation string // e.g. @Page("login page")
	DocAnnotation  string // e.g. @TestDoc(value = "log in as {0}", capture = CaptureStyle.STEP_IN)
	CaptureKey     string
	Packages       []string
}

// NewAnnotationSource returns a source for @Page and @TestDoc declared in the
// given packages, DefaultAnnotationPackages when none are given
func NewAnnotationSource(packages ...string) *AnnotationSource {
	if len(packages) == 0 {
		packages = DefaultAnnotationPackages
	}
	return &AnnotationSource{
		PageAnnotation: "Page",
		DocAnnotation:  "TestDoc",
		CaptureKey:     "capture",
		Packages:       packages,
	}
}

// ClassDoc prefers the page annotation over the plain doc annotation
func (s *AnnotationSource) ClassDoc(t *javaparser.TypeDecl) (string, bool, bool) {
	if a, ok := s.find(t.Annotations, s.PageAnnotation); ok {
		doc, _ := a.Attribute("value")
		return doc, true, true
	}
	if a, ok := s.find(t.Annotations, s.DocAnnotation); ok {
		doc, _ := a.Attribute("value")
		return doc, false, true
	}
	return "", false, false
}

// MethodDoc returns the doc annotation of the method. An annotation without a
// value still counts as documentation with empty text.
func (s *AnnotationSource) MethodDoc(m *javaparser.MethodDecl) (string, CaptureStyle, bool) {
	a, ok := s.find(m.Annotations, s.DocAnnotation)
	if !ok {
		return "", "", false
	}
	doc, _ := a.Attribute("value")
	raw, _ := a.Attribute(s.CaptureKey)
	capture, err := ParseCaptureStyle(raw)
	if err != nil {
		logger.Warn("%s: %v, using %s", m.QualifiedName, err, capture)
	}
	return doc, capture, true
}

func (s *AnnotationSource) find(annotations []javaparser.Annotation, simpleName string) (javaparser.Annotation, bool) {
	for _, a := range annotations {
		if a.SimpleName() == simpleName && s.accepts(a) {
			return a, true
		}
	}
	return javaparser.Annotation{}, false
}

func (s *AnnotationSource) accepts(a javaparser.Annotation) bool {
	idx := strings.LastIndex(a.QualifiedName, ".")
	if idx < 0 || a.Declared {
		// Unresolved, or a project's own annotation
		return true
	}
	pkg := a.QualifiedName[:idx]
	for _, p := range s.Packages {
		if p == pkg {
			return true
		}
	}
	return false
}
