package exporter

import (
	"encoding/json"
	"io"

	"doctree/internal/srctree"

	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the tree as a YAML document
type YAMLExporter struct{}

func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

func (e *YAMLExporter) Format() string    { return "yaml" }
func (e *YAMLExporter) Extension() string { return "yaml" }

func (e *YAMLExporter) Export(tree *srctree.SourceTree, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(tree)); err != nil {
		return err
	}
	return enc.Close()
}

func decodeYAML(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// JSONExporter writes the tree as indented JSON
type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Format() string    { return "json" }
func (e *JSONExporter) Extension() string { return "json" }

func (e *JSONExporter) Export(tree *srctree.SourceTree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewDocument(tree))
}

func decodeJSON(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
