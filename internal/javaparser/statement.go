package javaparser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// StatementKind classifies a top-level statement of a method body
type StatementKind int

const (
	StmtExpression StatementKind = iota
	StmtLocalVariable
	StmtOther
)

// Statement is one top-level statement of a method body
type Statement struct {
	Kind      StatementKind
	Text      string // Trimmed source text
	StartLine int
	EndLine   int
	Fragments int // Declarator count of a local variable declaration

	expr *Expr
}

// Expr returns the statement expression, or the initializer of the first
// declarator of a local variable declaration. nil when there is none.
func (s *Statement) Expr() *Expr {
	return s.expr
}

// Statements returns the top-level statements of the method body in source
// order. Nested blocks are not expanded. Comments are skipped.
func (m *MethodDecl) Statements() []*Statement {
	if m.body == nil {
		return nil
	}
	f := m.File()

	var statements []*Statement
	for _, n := range namedChildren(m.body) {
		switch n.Type() {
		case "line_comment", "block_comment":
			continue
		}

		stmt := &Statement{
			Kind:      StmtOther,
			Text:      strings.TrimSpace(f.text(n)),
			StartLine: f.Lines.Line(int(n.StartByte())),
			EndLine:   f.Lines.Line(int(n.EndByte())),
		}
		switch n.Type() {
		case "expression_statement":
			stmt.Kind = StmtExpression
			if n.NamedChildCount() > 0 {
				stmt.expr = m.expr(n.NamedChild(0))
			}
		case "local_variable_declaration":
			stmt.Kind = StmtLocalVariable
			for _, d := range namedChildren(n) {
				if d.Type() != "variable_declarator" {
					continue
				}
				stmt.Fragments++
				if stmt.Fragments == 1 {
					stmt.expr = m.expr(d.ChildByFieldName("value"))
				}
			}
		}
		statements = append(statements, stmt)
	}
	return statements
}

// ExprKind classifies an expression for code model conversion
type ExprKind int

const (
	ExprOther ExprKind = iota
	ExprString
	ExprNull
	ExprAssignment
	ExprMethodCall
	ExprNewObject
)

// Expr is an expression inside a method body
type Expr struct {
	method *MethodDecl
	node   *sitter.Node
}

func (m *MethodDecl) expr(n *sitter.Node) *Expr {
	if n == nil {
		return nil
	}
	return &Expr{method: m, node: n}
}

// Kind returns the expression classification
func (e *Expr) Kind() ExprKind {
	switch e.node.Type() {
	case "string_literal", "text_block":
		return ExprString
	case "null_literal":
		return ExprNull
	case "assignment_expression":
		return ExprAssignment
	case "method_invocation":
		return ExprMethodCall
	case "object_creation_expression":
		return ExprNewObject
	}
	return ExprOther
}

// Method returns the method whose body contains the expression
func (e *Expr) Method() *MethodDecl {
	return e.method
}

// Text returns the trimmed source text of the expression
func (e *Expr) Text() string {
	return strings.TrimSpace(e.method.File().text(e.node))
}

// Line returns the 1-based line where the expression starts
func (e *Expr) Line() int {
	return e.method.File().Lines.Line(int(e.node.StartByte()))
}

// StringValue returns the unescaped value of a string literal expression
func (e *Expr) StringValue() (string, error) {
	return UnquoteString(e.Text())
}

// RightHandSide returns the assigned value of an assignment expression
func (e *Expr) RightHandSide() *Expr {
	return e.method.expr(e.node.ChildByFieldName("right"))
}

// Arguments returns the call or object creation arguments in order
func (e *Expr) Arguments() []*Expr {
	args := e.node.ChildByFieldName("arguments")
	var result []*Expr
	for _, a := range namedChildren(args) {
		switch a.Type() {
		case "line_comment", "block_comment":
			continue
		}
		result = append(result, e.method.expr(a))
	}
	return result
}
