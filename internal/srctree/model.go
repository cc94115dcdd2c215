package srctree

import "doctree/internal/testdoc"

// TestClass is a class hosting root and/or sub functions.
// A PageClass is a TestClass with Page set.
type TestClass struct {
	// Identity
	Key           string // Declaration key, or OverrideKey(qualified name) for override-only classes
	QualifiedName string // e.g. "com.example.pages.LoginPage"

	// Documentation
	TestDoc *string // nil when undocumented
	Page    bool    // Represents a UI page rather than generic test logic

	methods []*TestFunction
}

// NewTestClass creates a class entry with an empty method list
func NewTestClass(key, qualifiedName string, doc *string, page bool) *TestClass {
	return &TestClass{
		Key:           key,
		QualifiedName: qualifiedName,
		TestDoc:       doc,
		Page:          page,
		methods:       make([]*TestFunction, 0),
	}
}

// AddTestMethod links f to the class. A method with the same key is replaced
// in place so that the owned key list never holds duplicates.
func (c *TestClass) AddTestMethod(f *TestFunction) {
	f.TestClassKey = c.Key
	for i, existing := range c.methods {
		if existing.Key == f.Key {
			c.methods[i] = f
			return
		}
	}
	c.methods = append(c.methods, f)
}

// TestMethods returns the owned functions in insertion order
func (c *TestClass) TestMethods() []*TestFunction {
	return c.methods
}

// TestMethodKeys returns the owned function keys in insertion order
func (c *TestClass) TestMethodKeys() []string {
	keys := make([]string, 0, len(c.methods))
	for _, m := range c.methods {
		keys = append(keys, m.Key)
	}
	return keys
}

// TestFunction is a root test method or a documented sub function
type TestFunction struct {
	Key           string
	QualifiedName string // Declaring class qualified name + "." + method name

	TestDoc      *string
	CaptureStyle testdoc.CaptureStyle
	ArgVariables []string // Declared parameter names in order
	TestClassKey string

	CodeBody []CodeLine
}

// NewTestFunction creates a function entry with an empty code body
func NewTestFunction(key, qualifiedName string, doc *string, capture testdoc.CaptureStyle, args []string) *TestFunction {
	if args == nil {
		args = []string{}
	}
	return &TestFunction{
		Key:           key,
		QualifiedName: qualifiedName,
		TestDoc:       doc,
		CaptureStyle:  capture,
		ArgVariables:  args,
		CodeBody:      make([]CodeLine, 0),
	}
}

// AddCodeLine appends one statement to the code body
func (f *TestFunction) AddCodeLine(line CodeLine) {
	f.CodeBody = append(f.CodeBody, line)
}

// CodeLine is the code model of one top-level statement.
// StartLine and EndLine are 1-based and inclusive.
type CodeLine struct {
	StartLine int
	EndLine   int
	Code      Code
}

// OverrideKey is the key given to entries synthesized from override-only
// documentation. Calls fall back to it when the callee's own key is unknown.
func OverrideKey(qualifiedName string) string {
	return "override:" + qualifiedName
}
