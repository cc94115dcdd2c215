package testdoc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"doctree/internal/javaparser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCaptureStyle(t *testing.T) {
	tests := []struct {
		input   string
		want    CaptureStyle
		wantErr bool
	}{
		{"", CaptureThisLine, false},
		{"step_in", CaptureStepIn, false},
		{"STEP_IN_ONLY", CaptureStepInOnly, false},
		{"CaptureStyle.NONE", CaptureNone, false},
		{" com.example.doc.CaptureStyle.THIS_LINE ", CaptureThisLine, false},
		{"sideways", CaptureThisLine, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCaptureStyle(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, CaptureStepInOnly.StepIn())
	assert.False(t, CaptureThisLine.StepIn())
}

func TestOverrideTableConsumption(t *testing.T) {
	table := NewOverrideTable()
	table.AddClass("lib.Matchers", "matchers", false)
	table.AddMethod("lib.Matchers.is", "is {0}", "")
	table.AddMethod("lib.Matchers.not", "not {0}", CaptureStepIn)

	assert.Len(t, table.UnconsumedMethods(), 2)

	m, ok := table.LookupMethod("lib.Matchers.is")
	require.True(t, ok)
	assert.True(t, m.Consumed)
	assert.Equal(t, CaptureThisLine, m.Capture)

	_, ok = table.LookupMethod("lib.Matchers.missing")
	assert.False(t, ok)

	unconsumed := table.UnconsumedMethods()
	require.Len(t, unconsumed, 1)
	assert.Equal(t, "lib.Matchers.not", unconsumed[0].QualifiedName)
	assert.Len(t, table.UnconsumedClasses(), 1)

	var nilTable *OverrideTable
	_, ok = nilTable.LookupClass("lib.Matchers")
	assert.False(t, ok)
	assert.Equal(t, 0, nilTable.Len())
}

func TestOverrideTableMergeLaterWins(t *testing.T) {
	base := NewOverrideTable()
	base.AddClass("a.Page", "old", false)
	base.AddMethod("a.Page.open", "open", CaptureNone)

	later := NewOverrideTable()
	later.AddClass("a.Page", "new", true)
	later.AddMethod("a.Other.run", "run", CaptureStepIn)

	base.Merge(later)

	c, ok := base.LookupClass("a.Page")
	require.True(t, ok)
	assert.Equal(t, "new", c.Doc)
	assert.True(t, c.Page)
	assert.Len(t, base.Methods(), 2)
	assert.Equal(t, "a.Page.open", base.Methods()[0].QualifiedName)

	clone := base.Clone()
	assert.Len(t, clone.UnconsumedClasses(), 1)
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
classes:
  - name: com.example.pages.SearchPage
    doc: search page
    page: true
methods:
  - name: org.hamcrest.CoreMatchers.is
    doc: "is {0}"
  - name: com.example.Steps.login
    doc: log in
    capture: STEP_IN
`)
	table, err := ParseYAML(data)
	require.NoError(t, err)

	require.Len(t, table.Classes(), 1)
	assert.True(t, table.Classes()[0].Page)

	require.Len(t, table.Methods(), 2)
	assert.Equal(t, CaptureThisLine, table.Methods()[0].Capture)
	assert.Equal(t, CaptureStepIn, table.Methods()[1].Capture)

	_, err = ParseYAML([]byte("methods:\n  - doc: nameless\n"))
	assert.Error(t, err)

	_, err = ParseYAML([]byte("methods:\n  - {name: a.B.c, capture: bogus}\n"))
	assert.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.xlsx")

	f := excelize.NewFile()
	_, err := f.NewSheet(SheetClasses)
	require.NoError(t, err)
	_, err = f.NewSheet(SheetMethods)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(SheetClasses, "A1", &[]interface{}{"name", "doc", "page"}))
	require.NoError(t, f.SetSheetRow(SheetClasses, "A2", &[]interface{}{"com.example.pages.CartPage", "cart page", "yes"}))
	require.NoError(t, f.SetSheetRow(SheetMethods, "A1", &[]interface{}{"name", "doc", "capture"}))
	require.NoError(t, f.SetSheetRow(SheetMethods, "A2", &[]interface{}{"org.junit.Assert.assertEquals", "{0} equals {1}", ""}))
	require.NoError(t, f.SetSheetRow(SheetMethods, "A3", &[]interface{}{"com.example.Steps.checkout", "check out", "step_in"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := LoadFile(path)
	require.NoError(t, err)

	c, ok := table.LookupClass("com.example.pages.CartPage")
	require.True(t, ok)
	assert.True(t, c.Page)
	assert.Equal(t, "cart page", c.Doc)

	m, ok := table.LookupMethod("com.example.Steps.checkout")
	require.True(t, ok)
	assert.Equal(t, CaptureStepIn, m.Capture)
	assert.Len(t, table.Methods(), 2)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.yaml")
	second := filepath.Join(dir, "b.yml")
	require.NoError(t, os.WriteFile(first, []byte("methods:\n  - {name: a.B.c, doc: first}\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("methods:\n  - {name: a.B.c, doc: second}\n"), 0644))

	table, err := LoadFiles([]string{first, second})
	require.NoError(t, err)
	m, ok := table.LookupMethod("a.B.c")
	require.True(t, ok)
	assert.Equal(t, "second", m.Doc)

	_, err = LoadFile(filepath.Join(dir, "overrides.csv"))
	assert.Error(t, err)
}

func TestAnnotationSource(t *testing.T) {
	src := []byte(`package com.example;

@Page("login page")
public class LoginPage {
    @TestDoc(value = "log in as {0}", capture = CaptureStyle.STEP_IN)
    public void login(String user) {}

    @TestDoc
    public void empty() {}

    public void plain() {}
}

@TestDoc("helpers")
class Helpers {}
`)
	f, err := javaparser.ParseSource(context.Background(), "LoginPage.java", src)
	require.NoError(t, err)
	defer f.Close()

	source := NewAnnotationSource()

	doc, page, ok := source.ClassDoc(f.Types[0])
	require.True(t, ok)
	assert.True(t, page)
	assert.Equal(t, "login page", doc)

	doc, page, ok = source.ClassDoc(f.Types[1])
	require.True(t, ok)
	assert.False(t, page)
	assert.Equal(t, "helpers", doc)

	methods := f.Types[0].Methods
	require.Len(t, methods, 3)

	doc, capture, ok := source.MethodDoc(methods[0])
	require.True(t, ok)
	assert.Equal(t, "log in as {0}", doc)
	assert.Equal(t, CaptureStepIn, capture)

	doc, capture, ok = source.MethodDoc(methods[1])
	require.True(t, ok, "annotation without value is present-but-empty")
	assert.Equal(t, "", doc)
	assert.Equal(t, CaptureThisLine, capture)

	_, _, ok = source.MethodDoc(methods[2])
	assert.False(t, ok)
}

func TestAnnotationSourceChecksPackage(t *testing.T) {
	parse := func(name, src string) *javaparser.File {
		f, err := javaparser.ParseSource(context.Background(), name, []byte(src))
		require.NoError(t, err)
		t.Cleanup(f.Close)
		return f
	}
	files := []*javaparser.File{
		parse("Published.java", `package com.example;

import org.sahagin.runlib.external.Page;
import org.sahagin.runlib.external.TestDoc;

@Page("published page")
public class Published {
    @TestDoc("published doc")
    public void run() {}
}
`),
		parse("Foreign.java", `package com.example;

import org.other.Page;
import org.other.TestDoc;

@Page("not ours")
public class Foreign {
    @TestDoc("not ours either")
    public void run() {}
}
`),
		parse("Local.java", `package com.example.doc;

public @interface Page {
    String value();
}
`),
		parse("UsesLocal.java", `package com.example;

import com.example.doc.Page;

@Page("local page")
public class UsesLocal {
    @TestDoc("unresolved doc")
    public void run() {}
}
`),
	}
	p := javaparser.NewProject(files, nil)

	source := NewAnnotationSource()
	cases := []struct {
		class   string
		wantDoc bool
	}{
		{"com.example.Published", true},
		{"com.example.Foreign", false},
		{"com.example.UsesLocal", true},
	}
	for _, tc := range cases {
		typ, ok := p.Type(tc.class)
		require.True(t, ok, tc.class)
		_, page, ok := source.ClassDoc(typ)
		assert.Equal(t, tc.wantDoc, ok, tc.class)
		assert.Equal(t, tc.wantDoc, page, tc.class)

		require.Len(t, typ.Methods, 1)
		_, _, ok = source.MethodDoc(typ.Methods[0])
		assert.Equal(t, tc.wantDoc, ok, tc.class+".run")
	}

	custom := NewAnnotationSource("org.other")
	foreign, _ := p.Type("com.example.Foreign")
	doc, _, ok := custom.ClassDoc(foreign)
	require.True(t, ok)
	assert.Equal(t, "not ours", doc)
}
