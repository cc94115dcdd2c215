package srctreegen

import (
	"strings"

	"doctree/internal/javaparser"
	"doctree/internal/logger"
	"doctree/internal/srctree"
)

// collectCodeBodies appends one CodeLine per top-level statement to every
// collected function
func (g *generator) collectCodeBodies(methods []*javaparser.MethodDecl) error {
	for _, m := range methods {
		g.step()
		o, ok := g.owners[m.Key]
		if !ok || o.decl != m {
			continue
		}
		fn, ok := o.table.Get(m.Key)
		if !ok {
			return unsupported(m, "table-consistency", "collected method %s is missing from its function table", m.Key)
		}

		for _, stmt := range m.Statements() {
			code := g.statementCode(stmt)
			code.SetOriginalText(stmt.Text)
			fn.AddCodeLine(srctree.CodeLine{
				StartLine: stmt.StartLine,
				EndLine:   stmt.EndLine,
				Code:      code,
			})
		}
	}
	return nil
}

func (g *generator) statementCode(stmt *javaparser.Statement) srctree.Code {
	switch stmt.Kind {
	case javaparser.StmtExpression:
		if e := stmt.Expr(); e != nil {
			return g.expressionCode(e)
		}
	case javaparser.StmtLocalVariable:
		// Only the first declarator is modelled
		if e := stmt.Expr(); e != nil {
			return g.expressionCode(e)
		}
		return srctree.NewStringLiteral(nil, stmt.Text)
	}
	return srctree.NewUnknown(stmt.Text)
}

func (g *generator) expressionCode(e *javaparser.Expr) srctree.Code {
	text := e.Text()

	switch e.Kind() {
	case javaparser.ExprNull:
		return srctree.NewStringLiteral(nil, text)

	case javaparser.ExprString:
		v, err := e.StringValue()
		if err != nil {
			logger.Debug("[CODEBODY] %s:%d: %v", e.Method().File().Path, e.Line(), err)
			return srctree.NewUnknown(text)
		}
		return srctree.NewStringLiteral(&v, text)

	case javaparser.ExprAssignment:
		if rhs := e.RightHandSide(); rhs != nil {
			return g.expressionCode(rhs)
		}

	case javaparser.ExprMethodCall, javaparser.ExprNewObject:
		return g.callCode(e, text)
	}
	return srctree.NewUnknown(text)
}

// callCode resolves a call against the sub function table, by declaration key
// first and then by the override key of each possible callee qualified name
func (g *generator) callCode(e *javaparser.Expr, text string) srctree.Code {
	b := g.project.ResolveCall(e)
	if b == nil {
		g.warn(WarnUnresolvedSymbol, e.Method().File().Path, e.Line(), "cannot resolve %s", text)
		return srctree.NewUnknown(text)
	}

	target := ""
	if b.Key != "" && g.tree.SubFuncs.Has(b.Key) {
		target = b.Key
	} else {
		for _, q := range b.QualifiedNames() {
			if key := srctree.OverrideKey(q); g.tree.SubFuncs.Has(key) {
				target = key
				break
			}
		}
	}
	if target == "" {
		if b.DeclaringType == "" {
			g.warn(WarnUnresolvedSymbol, e.Method().File().Path, e.Line(), "cannot resolve %s (candidates: %s)",
				text, strings.Join(b.Candidates, ", "))
		} else {
			logger.Debug("[CODEBODY] %s is not a documented function", b.QualifiedName())
		}
		return srctree.NewUnknown(text)
	}

	args := make([]srctree.Code, 0)
	for _, arg := range e.Arguments() {
		args = append(args, g.expressionCode(arg))
	}
	return srctree.NewSubCall(target, args, text)
}
