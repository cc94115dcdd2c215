package srctree

// SourceTree aggregates the four tables of one generation run.
// It is not modified after generation completes.
type SourceTree struct {
	RootClasses *ClassTable
	SubClasses  *ClassTable
	RootFuncs   *FuncTable
	SubFuncs    *FuncTable
}

// New creates a tree with empty tables
func New() *SourceTree {
	return &SourceTree{
		RootClasses: NewClassTable(),
		SubClasses:  NewClassTable(),
		RootFuncs:   NewFuncTable(),
		SubFuncs:    NewFuncTable(),
	}
}

// Class looks a class up in the root table first, then in the sub table
func (t *SourceTree) Class(key string) (*TestClass, bool) {
	if c, ok := t.RootClasses.Get(key); ok {
		return c, true
	}
	return t.SubClasses.Get(key)
}

// Function looks a function up in the root table first, then in the sub table
func (t *SourceTree) Function(key string) (*TestFunction, bool) {
	if f, ok := t.RootFuncs.Get(key); ok {
		return f, true
	}
	return t.SubFuncs.Get(key)
}

// Stats summarizes table sizes
type Stats struct {
	RootClasses int
	SubClasses  int
	RootFuncs   int
	SubFuncs    int
	CodeLines   int
}

// Stats counts the entries of every table
func (t *SourceTree) Stats() Stats {
	s := Stats{
		RootClasses: t.RootClasses.Len(),
		SubClasses:  t.SubClasses.Len(),
		RootFuncs:   t.RootFuncs.Len(),
		SubFuncs:    t.SubFuncs.Len(),
	}
	for _, f := range t.RootFuncs.All() {
		s.CodeLines += len(f.CodeBody)
	}
	for _, f := range t.SubFuncs.All() {
		s.CodeLines += len(f.CodeBody)
	}
	return s
}
