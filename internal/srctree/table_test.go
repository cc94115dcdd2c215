package srctree

import (
	"testing"

	"doctree/internal/testdoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestClassTableFirstWriterWins(t *testing.T) {
	table := NewClassTable()

	first := NewTestClass("com.example.Foo", "com.example.Foo", strPtr("first"), false)
	stored, inserted := table.AddIfAbsent(first)
	require.True(t, inserted)
	assert.Same(t, first, stored)

	second := NewTestClass("com.example.Foo", "com.example.Foo", strPtr("second"), true)
	stored, inserted = table.AddIfAbsent(second)
	assert.False(t, inserted)
	assert.Same(t, first, stored)

	got, ok := table.Get("com.example.Foo")
	require.True(t, ok)
	assert.Equal(t, "first", *got.TestDoc)
	assert.False(t, got.Page)
	assert.Equal(t, 1, table.Len())
}

func TestFuncTableLastWriterWins(t *testing.T) {
	table := NewFuncTable()

	table.Put(NewTestFunction("k1", "a.B.one", nil, testdoc.CaptureThisLine, nil))
	table.Put(NewTestFunction("k2", "a.B.two", nil, testdoc.CaptureThisLine, nil))

	replacement := NewTestFunction("k1", "a.B.one", strPtr("new doc"), testdoc.CaptureStepIn, []string{"x"})
	replacement.AddCodeLine(CodeLine{StartLine: 3, EndLine: 3, Code: NewUnknown("x();")})
	replaced := table.Put(replacement)
	assert.True(t, replaced)

	got, ok := table.Get("k1")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, "new doc", *got.TestDoc)
	assert.Len(t, got.CodeBody, 1)

	// Replaced entry keeps its position
	assert.Equal(t, []string{"k1", "k2"}, table.Keys())
}

func TestAddTestMethodReplacesInPlace(t *testing.T) {
	class := NewTestClass("a.B", "a.B", nil, false)
	class.AddTestMethod(NewTestFunction("a.B.one()", "a.B.one", nil, testdoc.CaptureThisLine, nil))
	class.AddTestMethod(NewTestFunction("a.B.two()", "a.B.two", nil, testdoc.CaptureThisLine, nil))

	updated := NewTestFunction("a.B.one()", "a.B.one", strPtr("doc"), testdoc.CaptureThisLine, nil)
	class.AddTestMethod(updated)

	assert.Equal(t, []string{"a.B.one()", "a.B.two()"}, class.TestMethodKeys())
	assert.Same(t, updated, class.TestMethods()[0])
	assert.Equal(t, "a.B", updated.TestClassKey)
}

func TestByQualifiedName(t *testing.T) {
	classes := NewClassTable()
	classes.AddIfAbsent(NewTestClass(OverrideKey("lib.Matchers"), "lib.Matchers", nil, false))

	c, ok := classes.ByQualifiedName("lib.Matchers")
	require.True(t, ok)
	assert.Equal(t, "override:lib.Matchers", c.Key)

	_, ok = classes.ByQualifiedName("lib.Other")
	assert.False(t, ok)

	funcs := NewFuncTable()
	funcs.Put(NewTestFunction(OverrideKey("lib.Matchers.is"), "lib.Matchers.is", strPtr("is"), testdoc.CaptureThisLine, nil))
	f, ok := funcs.ByQualifiedName("lib.Matchers.is")
	require.True(t, ok)
	assert.Equal(t, "override:lib.Matchers.is", f.Key)
}

type countingVisitor struct {
	strings, calls, unknowns int
}

func (v *countingVisitor) VisitStringLiteral(*StringLiteral) { v.strings++ }
func (v *countingVisitor) VisitSubCall(*SubCall)             { v.calls++ }
func (v *countingVisitor) VisitUnknown(*Unknown)             { v.unknowns++ }

func TestCodeVisitorAndWalk(t *testing.T) {
	code := NewSubCall("k", []Code{
		NewStringLiteral(strPtr("alice"), "\"alice\""),
		NewStringLiteral(nil, "null"),
		NewSubCall("k2", []Code{NewUnknown("x + y")}, "inner(x + y)"),
	}, "outer(\"alice\", null, inner(x + y))")

	v := &countingVisitor{}
	Walk(code, func(c Code) { c.Accept(v) })
	assert.Equal(t, 2, v.strings)
	assert.Equal(t, 2, v.calls)
	assert.Equal(t, 1, v.unknowns)

	code.SetOriginalText("outer(\"alice\", null, inner(x + y));")
	assert.Equal(t, "outer(\"alice\", null, inner(x + y));", code.OriginalText())
}

func TestSourceTreeLookupAndStats(t *testing.T) {
	tree := New()
	root := NewTestClass("a.FooTest", "a.FooTest", nil, false)
	tree.RootClasses.AddIfAbsent(root)
	fn := NewTestFunction("a.FooTest.test()", "a.FooTest.test", nil, testdoc.CaptureThisLine, nil)
	fn.AddCodeLine(CodeLine{StartLine: 1, EndLine: 1, Code: NewUnknown("x();")})
	root.AddTestMethod(fn)
	tree.RootFuncs.Put(fn)

	tree.SubFuncs.Put(NewTestFunction("a.Helper.bar()", "a.Helper.bar", strPtr("bar"), testdoc.CaptureThisLine, nil))

	got, ok := tree.Function("a.Helper.bar()")
	require.True(t, ok)
	assert.Equal(t, "a.Helper.bar", got.QualifiedName)

	_, ok = tree.Class("a.FooTest")
	assert.True(t, ok)

	assert.Equal(t, Stats{RootClasses: 1, RootFuncs: 1, SubFuncs: 1, CodeLines: 1}, tree.Stats())
}
