package exporter

import (
	"io"

	"doctree/internal/srctree"
)

// Exporter writes a finished SourceTree for a downstream renderer
type Exporter interface {
	// Format is the name used in configuration (e.g. "yaml")
	Format() string
	// Extension is the output file extension without the dot
	Extension() string
	Export(tree *srctree.SourceTree, w io.Writer) error
}
