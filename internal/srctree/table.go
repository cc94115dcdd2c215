package srctree

// ClassTable is an insertion-ordered class table where the first writer wins
type ClassTable struct {
	keys  []string
	byKey map[string]*TestClass
}

// NewClassTable creates an empty class table
func NewClassTable() *ClassTable {
	return &ClassTable{byKey: make(map[string]*TestClass)}
}

// Get returns the class stored under key
func (t *ClassTable) Get(key string) (*TestClass, bool) {
	c, ok := t.byKey[key]
	return c, ok
}

// AddIfAbsent inserts c unless its key is already present. It returns the
// stored entry and whether c was inserted.
func (t *ClassTable) AddIfAbsent(c *TestClass) (*TestClass, bool) {
	if existing, ok := t.byKey[c.Key]; ok {
		return existing, false
	}
	t.byKey[c.Key] = c
	t.keys = append(t.keys, c.Key)
	return c, true
}

// ByQualifiedName returns the first class with the given qualified name
func (t *ClassTable) ByQualifiedName(qualifiedName string) (*TestClass, bool) {
	for _, key := range t.keys {
		if c := t.byKey[key]; c.QualifiedName == qualifiedName {
			return c, true
		}
	}
	return nil, false
}

// All returns the classes in insertion order
func (t *ClassTable) All() []*TestClass {
	classes := make([]*TestClass, 0, len(t.keys))
	for _, key := range t.keys {
		classes = append(classes, t.byKey[key])
	}
	return classes
}

// Len returns the number of classes
func (t *ClassTable) Len() int {
	return len(t.keys)
}

// FuncTable is an insertion-ordered function table where the last writer wins
type FuncTable struct {
	keys  []string
	byKey map[string]*TestFunction
}

// NewFuncTable creates an empty function table
func NewFuncTable() *FuncTable {
	return &FuncTable{byKey: make(map[string]*TestFunction)}
}

// Get returns the function stored under key
func (t *FuncTable) Get(key string) (*TestFunction, bool) {
	f, ok := t.byKey[key]
	return f, ok
}

// Has reports whether key is present
func (t *FuncTable) Has(key string) bool {
	_, ok := t.byKey[key]
	return ok
}

// Put stores f, replacing any entry with the same key. A replaced entry keeps
// its position. It reports whether an entry was replaced.
func (t *FuncTable) Put(f *TestFunction) bool {
	_, replaced := t.byKey[f.Key]
	if !replaced {
		t.keys = append(t.keys, f.Key)
	}
	t.byKey[f.Key] = f
	return replaced
}

// ByQualifiedName returns the first function with the given qualified name
func (t *FuncTable) ByQualifiedName(qualifiedName string) (*TestFunction, bool) {
	for _, key := range t.keys {
		if f := t.byKey[key]; f.QualifiedName == qualifiedName {
			return f, true
		}
	}
	return nil, false
}

// All returns the functions in insertion order
func (t *FuncTable) All() []*TestFunction {
	funcs := make([]*TestFunction, 0, len(t.keys))
	for _, key := range t.keys {
		funcs = append(funcs, t.byKey[key])
	}
	return funcs
}

// Keys returns the keys in insertion order
func (t *FuncTable) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of functions
func (t *FuncTable) Len() int {
	return len(t.keys)
}
