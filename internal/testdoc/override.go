package testdoc

// ClassOverride documents a class by qualified name
type ClassOverride struct {
	QualifiedName string
	Doc           string
	Page          bool
	Consumed      bool
}

// MethodOverride documents a method by "<class qualified name>.<method name>"
type MethodOverride struct {
	QualifiedName string
	Doc           string
	Capture       CaptureStyle
	Consumed      bool
}

// OverrideTable holds documentation for symbols that carry none in source.
// Entries keep insertion order. A nil table has no entries.
type OverrideTable struct {
	classes   []*ClassOverride
	classIdx  map[string]int
	methods   []*MethodOverride
	methodIdx map[string]int
}

// NewOverrideTable creates an empty table
func NewOverrideTable() *OverrideTable {
	return &OverrideTable{
		classIdx:  make(map[string]int),
		methodIdx: make(map[string]int),
	}
}

// AddClass registers class documentation. A later entry for the same name
// replaces the earlier one.
func (t *OverrideTable) AddClass(qualifiedName, doc string, page bool) {
	entry := &ClassOverride{QualifiedName: qualifiedName, Doc: doc, Page: page}
	if idx, ok := t.classIdx[qualifiedName]; ok {
		t.classes[idx] = entry
		return
	}
	t.classIdx[qualifiedName] = len(t.classes)
	t.classes = append(t.classes, entry)
}

// AddMethod registers method documentation. A later entry for the same name
// replaces the earlier one.
func (t *OverrideTable) AddMethod(qualifiedName, doc string, capture CaptureStyle) {
	if capture == "" {
		capture = DefaultCaptureStyle
	}
	entry := &MethodOverride{QualifiedName: qualifiedName, Doc: doc, Capture: capture}
	if idx, ok := t.methodIdx[qualifiedName]; ok {
		t.methods[idx] = entry
		return
	}
	t.methodIdx[qualifiedName] = len(t.methods)
	t.methods = append(t.methods, entry)
}

// LookupClass returns the class entry and marks it consumed
func (t *OverrideTable) LookupClass(qualifiedName string) (*ClassOverride, bool) {
	if t == nil {
		return nil, false
	}
	idx, ok := t.classIdx[qualifiedName]
	if !ok {
		return nil, false
	}
	entry := t.classes[idx]
	entry.Consumed = true
	return entry, true
}

// LookupMethod returns the method entry and marks it consumed
func (t *OverrideTable) LookupMethod(qualifiedName string) (*MethodOverride, bool) {
	if t == nil {
		return nil, false
	}
	idx, ok := t.methodIdx[qualifiedName]
	if !ok {
		return nil, false
	}
	entry := t.methods[idx]
	entry.Consumed = true
	return entry, true
}

// Classes returns every class entry in insertion order
func (t *OverrideTable) Classes() []*ClassOverride {
	if t == nil {
		return nil
	}
	return t.classes
}

// Methods returns every method entry in insertion order
func (t *OverrideTable) Methods() []*MethodOverride {
	if t == nil {
		return nil
	}
	return t.methods
}

// UnconsumedClasses returns class entries no lookup has read yet
func (t *OverrideTable) UnconsumedClasses() []*ClassOverride {
	var result []*ClassOverride
	for _, c := range t.Classes() {
		if !c.Consumed {
			result = append(result, c)
		}
	}
	return result
}

// UnconsumedMethods returns method entries no lookup has read yet
func (t *OverrideTable) UnconsumedMethods() []*MethodOverride {
	var result []*MethodOverride
	for _, m := range t.Methods() {
		if !m.Consumed {
			result = append(result, m)
		}
	}
	return result
}

// Merge copies the entries of other into t; other wins on conflicts
func (t *OverrideTable) Merge(other *OverrideTable) {
	for _, c := range other.Classes() {
		t.AddClass(c.QualifiedName, c.Doc, c.Page)
	}
	for _, m := range other.Methods() {
		t.AddMethod(m.QualifiedName, m.Doc, m.Capture)
	}
}

// Clone returns a copy with every entry unconsumed
func (t *OverrideTable) Clone() *OverrideTable {
	c := NewOverrideTable()
	c.Merge(t)
	return c
}

// Len returns the total number of entries
func (t *OverrideTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.classes) + len(t.methods)
}
