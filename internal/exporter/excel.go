package exporter

import (
	"io"
	"strings"

	"doctree/internal/srctree"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook dump
const (
	SheetClasses   = "Classes"
	SheetFunctions = "Functions"
	SheetCode      = "Code"
)

// ExcelExporter dumps the four tables and every code line into a workbook
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

func (e *ExcelExporter) Format() string    { return "xlsx" }
func (e *ExcelExporter) Extension() string { return "xlsx" }

// Export writes the workbook to w
func (e *ExcelExporter) Export(tree *srctree.SourceTree, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	if err := e.writeClasses(f, styler, tree); err != nil {
		return err
	}
	if err := e.writeFunctions(f, styler, tree); err != nil {
		return err
	}
	if err := e.writeCode(f, styler, tree); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func (e *ExcelExporter) writeClasses(f *excelize.File, s *Styler, tree *srctree.SourceTree) error {
	sheet := SheetClasses
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	e.writeRow(f, sheet, 1, []interface{}{"Table", "Key", "Qualified Name", "Page", "TestDoc", "Methods"}, s.HeaderStyle)
	freezeHeader(f, sheet)

	row := 2
	for _, table := range []struct {
		name    string
		classes []*srctree.TestClass
	}{
		{"root", tree.RootClasses.All()},
		{"sub", tree.SubClasses.All()},
	} {
		for _, c := range table.classes {
			style := s.DefaultStyle
			switch {
			case table.name == "root":
				style = s.RootStyle
			case isOverride(c.Key):
				style = s.OverrideStyle
			case c.Page:
				style = s.PageStyle
			}
			e.writeRow(f, sheet, row, []interface{}{
				table.name, c.Key, c.QualifiedName, c.Page, docText(c.TestDoc), strings.Join(c.TestMethodKeys(), "\n"),
			}, style)
			row++
		}
	}

	f.SetColWidth(sheet, "B", "C", 45)
	f.SetColWidth(sheet, "E", "F", 50)
	return nil
}

func (e *ExcelExporter) writeFunctions(f *excelize.File, s *Styler, tree *srctree.SourceTree) error {
	sheet := SheetFunctions
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	e.writeRow(f, sheet, 1, []interface{}{"Table", "Key", "Qualified Name", "Class", "Capture", "Args", "TestDoc", "Lines"}, s.HeaderStyle)
	freezeHeader(f, sheet)

	row := 2
	for _, table := range []struct {
		name  string
		funcs []*srctree.TestFunction
	}{
		{"root", tree.RootFuncs.All()},
		{"sub", tree.SubFuncs.All()},
	} {
		for _, fn := range table.funcs {
			style := s.DefaultStyle
			switch {
			case table.name == "root":
				style = s.RootStyle
			case isOverride(fn.Key):
				style = s.OverrideStyle
			}
			e.writeRow(f, sheet, row, []interface{}{
				table.name, fn.Key, fn.QualifiedName, fn.TestClassKey, string(fn.CaptureStyle),
				strings.Join(fn.ArgVariables, ", "), docText(fn.TestDoc), len(fn.CodeBody),
			}, style)
			row++
		}
	}

	f.SetColWidth(sheet, "B", "D", 45)
	f.SetColWidth(sheet, "G", "G", 50)
	return nil
}

// writeCode lists every code line, nested call arguments following their
// call with a greater depth
func (e *ExcelExporter) writeCode(f *excelize.File, s *Styler, tree *srctree.SourceTree) error {
	sheet := SheetCode
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	e.writeRow(f, sheet, 1, []interface{}{"Function", "Start", "End", "Depth", "Type", "Target", "Value", "Original Text"}, s.HeaderStyle)
	freezeHeader(f, sheet)

	row := 2
	var write func(fn *srctree.TestFunction, line srctree.CodeLine, code srctree.Code, depth int)
	write = func(fn *srctree.TestFunction, line srctree.CodeLine, code srctree.Code, depth int) {
		doc := codeDoc(code)
		style := s.DefaultStyle
		if doc.Type == CodeTypeUnknown {
			style = s.UnknownStyle
		}
		value := ""
		if doc.Type == CodeTypeString {
			value = docText(doc.Value)
		}
		e.writeRow(f, sheet, row, []interface{}{
			fn.Key, line.StartLine, line.EndLine, depth, doc.Type, doc.Target, value, doc.OriginalText,
		}, style)
		row++

		if call, ok := code.(*srctree.SubCall); ok {
			for _, arg := range call.Args {
				write(fn, line, arg, depth+1)
			}
		}
	}

	for _, funcs := range [][]*srctree.TestFunction{tree.RootFuncs.All(), tree.SubFuncs.All()} {
		for _, fn := range funcs {
			for _, line := range fn.CodeBody {
				write(fn, line, line.Code, 0)
			}
		}
	}

	f.SetColWidth(sheet, "A", "A", 45)
	f.SetColWidth(sheet, "F", "F", 45)
	f.SetColWidth(sheet, "H", "H", 60)
	return nil
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func freezeHeader(f *excelize.File, sheet string) {
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func isOverride(key string) bool {
	return strings.HasPrefix(key, srctree.OverrideKey(""))
}

// docText renders a missing value as "(none)"
func docText(s *string) string {
	if s == nil {
		return "(none)"
	}
	return *s
}
