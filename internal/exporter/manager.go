package exporter

import (
	"fmt"
	"io"
	"strings"

	"doctree/internal/srctree"
)

// Formats lists the supported output formats
var Formats = []string{"yaml", "json", "xlsx"}

// Get returns the exporter for a format name
func Get(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		return NewYAMLExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	case "xlsx", "excel":
		return NewExcelExporter(), nil
	}
	return nil, fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats, ", "))
}

// GetExporters returns one exporter per distinct requested format
func GetExporters(formats []string) ([]Exporter, error) {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, f := range formats {
		e, err := Get(f)
		if err != nil {
			return nil, err
		}
		if seen[e.Format()] {
			continue
		}
		seen[e.Format()] = true
		exporters = append(exporters, e)
	}
	return exporters, nil
}

// Decode reads a tree written by the yaml or json exporter
func Decode(format string, r io.Reader) (*srctree.SourceTree, error) {
	var (
		doc *Document
		err error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		doc, err = decodeYAML(r)
	case "json":
		doc, err = decodeJSON(r)
	default:
		return nil, fmt.Errorf("cannot decode format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s tree: %w", format, err)
	}
	return doc.Tree()
}
