package adapter

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"doctree/internal/javaparser"
	"doctree/internal/testdoc"
)

//go:embed docs/*.yaml
var builtinDocs embed.FS

// AnnotationClassifier marks methods carrying one of the given annotations,
// compared by resolved qualified name
type AnnotationClassifier struct {
	Annotations []string
}

// IsRootMethod reports whether m is a test entry point
func (c *AnnotationClassifier) IsRootMethod(m *javaparser.MethodDecl) bool {
	for _, a := range m.Annotations {
		for _, name := range c.Annotations {
			if a.QualifiedName == name {
				return true
			}
		}
	}
	return false
}

// Adapter bundles the root classifier of a test framework with built-in
// documentation for its assertion library
type Adapter struct {
	Name       string
	Classifier *AnnotationClassifier
	docsFile   string
}

// Overrides returns a fresh copy of the built-in override table
func (a *Adapter) Overrides() (*testdoc.OverrideTable, error) {
	data, err := builtinDocs.ReadFile(a.docsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in docs for %s: %w", a.Name, err)
	}
	table, err := testdoc.ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("built-in docs for %s: %w", a.Name, err)
	}
	return table, nil
}

var adapters = map[string]*Adapter{
	"junit4": {
		Name:       "junit4",
		Classifier: &AnnotationClassifier{Annotations: []string{"org.junit.Test"}},
		docsFile:   "docs/junit4.yaml",
	},
	"junit5": {
		Name: "junit5",
		Classifier: &AnnotationClassifier{Annotations: []string{
			"org.junit.jupiter.api.Test",
			"org.junit.jupiter.params.ParameterizedTest",
			"org.junit.jupiter.api.RepeatedTest",
			"org.junit.jupiter.api.TestFactory",
			"org.junit.jupiter.api.TestTemplate",
		}},
		docsFile: "docs/junit5.yaml",
	},
	"testng": {
		Name:       "testng",
		Classifier: &AnnotationClassifier{Annotations: []string{"org.testng.annotations.Test"}},
		docsFile:   "docs/testng.yaml",
	},
}

// Lookup returns the adapter registered under name (case-insensitive)
func Lookup(name string) (*Adapter, error) {
	a, ok := adapters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown framework %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return a, nil
}

// Names returns the registered framework names, sorted
func Names() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
