package srctreegen

import (
	"context"
	"fmt"

	"doctree/internal/javaparser"
	"doctree/internal/logger"
	"doctree/internal/srctree"
	"doctree/internal/testdoc"
)

// RootClassifier decides which methods are test entry points
type RootClassifier interface {
	IsRootMethod(m *javaparser.MethodDecl) bool
}

// Options carries the pluggable collaborators of one generation run
type Options struct {
	Classifier RootClassifier
	Inline     testdoc.InlineSource   // Defaults to @Page / @TestDoc annotations
	Overrides  *testdoc.OverrideTable // May be nil. Consumed flags are updated in place.

	// OnProgress is called after every method of every pass
	OnProgress func(done, total int)
}

// Result is a complete tree plus the non-fatal findings of the run
type Result struct {
	Tree     *srctree.SourceTree
	Warnings []Warning
}

// generator is the accumulator threaded through the passes
type generator struct {
	project *javaparser.Project
	opts    Options
	inline  testdoc.InlineSource

	tree     *srctree.SourceTree
	warnings []Warning

	// Last declaration written under each function key, and its table
	owners map[string]owner

	done, total int
}

type owner struct {
	decl  *javaparser.MethodDecl
	table *srctree.FuncTable
}

// Generate builds the source tree of a parsed project. The passes run in
// order over the same parsed files: root collection, sub collection,
// override merge and code body collection.
func Generate(ctx context.Context, project *javaparser.Project, opts Options) (*Result, error) {
	if opts.Classifier == nil {
		return nil, fmt.Errorf("root classifier is required")
	}
	g := &generator{
		project: project,
		opts:    opts,
		inline:  opts.Inline,
		tree:    srctree.New(),
		owners:  make(map[string]owner),
	}
	if g.inline == nil {
		g.inline = testdoc.NewAnnotationSource()
	}

	methods := project.Methods()
	g.total = 3 * len(methods)

	passes := []struct {
		name string
		run  func([]*javaparser.MethodDecl) error
	}{
		{"root", g.collectRoots},
		{"sub", g.collectSubs},
		{"override", func([]*javaparser.MethodDecl) error { g.mergeOverrides(); return nil }},
		{"code body", g.collectCodeBodies},
	}
	for _, pass := range passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := pass.run(methods); err != nil {
			return nil, fmt.Errorf("%s pass: %w", pass.name, err)
		}
	}

	stats := g.tree.Stats()
	logger.Debug("[GENERATE] root classes=%d sub classes=%d root funcs=%d sub funcs=%d code lines=%d warnings=%d",
		stats.RootClasses, stats.SubClasses, stats.RootFuncs, stats.SubFuncs, stats.CodeLines, len(g.warnings))

	return &Result{Tree: g.tree, Warnings: g.warnings}, nil
}

func (g *generator) step() {
	g.done++
	if g.opts.OnProgress != nil {
		g.opts.OnProgress(g.done, g.total)
	}
}

func (g *generator) warn(kind WarningKind, file string, line int, format string, args ...interface{}) {
	w := Warning{Kind: kind, File: file, Line: line, Message: fmt.Sprintf(format, args...)}
	g.warnings = append(g.warnings, w)
	logger.Debug("[WARN] %s", w)
}

func unsupported(m *javaparser.MethodDecl, construct, format string, args ...interface{}) error {
	return &UnsupportedConstructError{
		File:      m.File().Path,
		Line:      m.Line,
		Construct: construct,
		Detail:    fmt.Sprintf(format, args...),
	}
}

// newFunction builds the function entry shared by root and sub collection
func newFunction(m *javaparser.MethodDecl, doc *string, capture testdoc.CaptureStyle) (*srctree.TestFunction, error) {
	args := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		if p.Shape != javaparser.ShapeNamed {
			return nil, unsupported(m, "parameter", "%s: parameter %q is not a simple named variable", m.QualifiedName, p.Raw)
		}
		args = append(args, p.Name)
	}
	return srctree.NewTestFunction(m.Key, m.QualifiedName, doc, capture, args), nil
}

// link attaches fn to its class and stores it, last writer wins
func (g *generator) link(m *javaparser.MethodDecl, class *srctree.TestClass, fn *srctree.TestFunction, table *srctree.FuncTable) {
	class.AddTestMethod(fn)
	if table.Put(fn) {
		logger.Debug("[COLLECT] %s replaced by a later declaration", fn.Key)
	}
	g.owners[fn.Key] = owner{decl: m, table: table}
}
