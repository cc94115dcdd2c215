package srctreegen

import (
	"doctree/internal/javaparser"
	"doctree/internal/logger"
	"doctree/internal/srctree"
)

// collectSubs builds the sub tables from documented non-root methods. Root
// tables are read but never modified.
func (g *generator) collectSubs(methods []*javaparser.MethodDecl) error {
	for _, m := range methods {
		g.step()
		if g.opts.Classifier.IsRootMethod(m) {
			continue
		}
		if g.tree.RootFuncs.Has(m.Key) {
			// Same key as a root method from a duplicated type declaration
			logger.Debug("[SUB] %s already collected as root, skipped", m.Key)
			continue
		}
		doc, capture := g.methodDoc(m)
		if doc == nil {
			continue
		}

		class, err := g.subClass(m)
		if err != nil {
			return err
		}
		fn, err := newFunction(m, doc, capture)
		if err != nil {
			return err
		}
		g.link(m, class, fn, g.tree.SubFuncs)
		logger.Debug("[SUB] %s", m.Key)
	}
	return nil
}

// subClass reuses a root class when the declaring class hosts root methods,
// otherwise finds or creates it in the sub table
func (g *generator) subClass(m *javaparser.MethodDecl) (*srctree.TestClass, error) {
	t := m.DeclaringType
	if !t.IsClass() {
		return nil, unsupported(m, "declaring-type", "%s is declared in %s %s", m.Name, t.Kind, t.QualifiedName)
	}
	if c, ok := g.tree.RootClasses.Get(t.Key); ok {
		return c, nil
	}
	if c, ok := g.tree.SubClasses.Get(t.Key); ok {
		return c, nil
	}
	doc, page := g.classDoc(t)
	c, _ := g.tree.SubClasses.AddIfAbsent(srctree.NewTestClass(t.Key, t.QualifiedName, doc, page))
	return c, nil
}
