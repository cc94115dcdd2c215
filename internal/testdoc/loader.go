package testdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"doctree/internal/logger"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Workbook sheet names for LoadXLSX
const (
	SheetClasses = "classes"
	SheetMethods = "methods"
)

type overrideFile struct {
	Classes []struct {
		Name string `yaml:"name"`
		Doc  string `yaml:"doc"`
		Page bool   `yaml:"page"`
	} `yaml:"classes"`
	Methods []struct {
		Name    string `yaml:"name"`
		Doc     string `yaml:"doc"`
		Capture string `yaml:"capture"`
	} `yaml:"methods"`
}

// ParseYAML reads an override table document:
//
//	classes:
//	  - {name: com.example.pages.LoginPage, doc: login page, page: true}
//	methods:
//	  - {name: org.hamcrest.CoreMatchers.is, doc: "is {0}", capture: this_line}
func ParseYAML(data []byte) (*OverrideTable, error) {
	var doc overrideFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse override yaml: %w", err)
	}

	table := NewOverrideTable()
	for i, c := range doc.Classes {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("classes[%d]: name is required", i)
		}
		table.AddClass(strings.TrimSpace(c.Name), c.Doc, c.Page)
	}
	for i, m := range doc.Methods {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("methods[%d]: name is required", i)
		}
		capture, err := ParseCaptureStyle(m.Capture)
		if err != nil {
			return nil, fmt.Errorf("methods[%d] %s: %w", i, m.Name, err)
		}
		table.AddMethod(strings.TrimSpace(m.Name), m.Doc, capture)
	}
	return table, nil
}

// LoadYAML reads an override table from a YAML file
func LoadYAML(path string) (*OverrideTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read override file: %w", err)
	}
	table, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// LoadXLSX reads an override table from a workbook with a "classes" sheet
// (name | doc | page) and a "methods" sheet (name | doc | capture). The first
// row of each sheet is a header. Missing sheets are treated as empty.
func LoadXLSX(path string) (*OverrideTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table := NewOverrideTable()

	classRows, err := sheetRows(f, SheetClasses)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, row := range classRows {
		name := cell(row, 0)
		if name == "" {
			continue
		}
		table.AddClass(name, cell(row, 1), parseFlag(cell(row, 2)))
	}

	methodRows, err := sheetRows(f, SheetMethods)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i, row := range methodRows {
		name := cell(row, 0)
		if name == "" {
			continue
		}
		capture, err := ParseCaptureStyle(cell(row, 2))
		if err != nil {
			return nil, fmt.Errorf("%s: %s row %d: %w", path, SheetMethods, i+2, err)
		}
		table.AddMethod(name, cell(row, 1), capture)
	}

	logger.Debug("[OVERRIDE] %s: %d classes, %d methods", path, len(table.Classes()), len(table.Methods()))
	return table, nil
}

// LoadFile dispatches on the file extension
func LoadFile(path string) (*OverrideTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".xlsx":
		return LoadXLSX(path)
	}
	return nil, fmt.Errorf("unsupported override file type: %s", path)
}

// LoadFiles loads and merges override files in order; later files win
func LoadFiles(paths []string) (*OverrideTable, error) {
	table := NewOverrideTable()
	for _, path := range paths {
		t, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		table.Merge(t)
	}
	return table, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx == -1 {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1", "page", "o":
		return true
	}
	return false
}
