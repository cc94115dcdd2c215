package srctreegen

import (
	"doctree/internal/javaparser"
	"doctree/internal/logger"
	"doctree/internal/srctree"
)

// collectRoots builds the root tables from the methods the classifier marks
func (g *generator) collectRoots(methods []*javaparser.MethodDecl) error {
	for _, m := range methods {
		g.step()
		if !g.opts.Classifier.IsRootMethod(m) {
			continue
		}

		class, err := g.rootClass(m)
		if err != nil {
			return err
		}
		doc, capture := g.methodDoc(m)
		fn, err := newFunction(m, doc, capture)
		if err != nil {
			return err
		}
		g.link(m, class, fn, g.tree.RootFuncs)
		logger.Debug("[ROOT] %s", m.Key)
	}
	return nil
}

// rootClass finds or creates the root class of m. Root classes never become
// pages, whatever their documentation says.
func (g *generator) rootClass(m *javaparser.MethodDecl) (*srctree.TestClass, error) {
	t := m.DeclaringType
	if !t.IsClass() {
		return nil, unsupported(m, "declaring-type", "%s is declared in %s %s", m.Name, t.Kind, t.QualifiedName)
	}
	if c, ok := g.tree.RootClasses.Get(t.Key); ok {
		return c, nil
	}
	doc, _ := g.classDoc(t)
	c, _ := g.tree.RootClasses.AddIfAbsent(srctree.NewTestClass(t.Key, t.QualifiedName, doc, false))
	return c, nil
}
