package srctreegen

import (
	"strings"

	"doctree/internal/logger"
	"doctree/internal/srctree"
)

// mergeOverrides adds the override entries no collection pass consumed.
// Existing entries are never replaced.
func (g *generator) mergeOverrides() {
	overrides := g.opts.Overrides

	for _, entry := range overrides.UnconsumedClasses() {
		if _, ok := g.findClass(entry.QualifiedName); ok {
			// Documented in source already
			entry.Consumed = true
			continue
		}
		doc := entry.Doc
		g.tree.SubClasses.AddIfAbsent(srctree.NewTestClass(g.classKey(entry.QualifiedName), entry.QualifiedName, &doc, entry.Page))
		entry.Consumed = true
		logger.Debug("[OVERRIDE] class %s", entry.QualifiedName)
	}

	for _, entry := range overrides.UnconsumedMethods() {
		idx := strings.LastIndex(entry.QualifiedName, ".")
		if idx <= 0 || idx == len(entry.QualifiedName)-1 {
			g.warn(WarnUnconsumedOverride, "", 0, "override %q has no class and method name", entry.QualifiedName)
			continue
		}
		classQualifiedName := entry.QualifiedName[:idx]

		if _, ok := g.tree.RootFuncs.ByQualifiedName(entry.QualifiedName); ok {
			entry.Consumed = true
			continue
		}
		if _, ok := g.tree.SubFuncs.ByQualifiedName(entry.QualifiedName); ok {
			entry.Consumed = true
			continue
		}

		class, ok := g.findClass(classQualifiedName)
		if !ok {
			class, _ = g.tree.SubClasses.AddIfAbsent(srctree.NewTestClass(g.classKey(classQualifiedName), classQualifiedName, nil, false))
		}
		doc := entry.Doc
		fn := srctree.NewTestFunction(srctree.OverrideKey(entry.QualifiedName), entry.QualifiedName, &doc, entry.Capture, nil)
		class.AddTestMethod(fn)
		g.tree.SubFuncs.Put(fn)
		entry.Consumed = true
		logger.Debug("[OVERRIDE] method %s", entry.QualifiedName)
	}
}

func (g *generator) findClass(qualifiedName string) (*srctree.TestClass, bool) {
	if c, ok := g.tree.RootClasses.ByQualifiedName(qualifiedName); ok {
		return c, true
	}
	return g.tree.SubClasses.ByQualifiedName(qualifiedName)
}

// classKey uses the declaration key of classes present in the sources and
// the override key for everything else
func (g *generator) classKey(qualifiedName string) string {
	if t, ok := g.project.Type(qualifiedName); ok && t.IsClass() {
		return t.Key
	}
	return srctree.OverrideKey(qualifiedName)
}
