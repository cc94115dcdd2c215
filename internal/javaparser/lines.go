package javaparser

import "sort"

// LineMap maps byte offsets of a source file to 1-based line numbers
type LineMap struct {
	newlines []int
}

// NewLineMap indexes the line terminators of src
func NewLineMap(src []byte) *LineMap {
	lm := &LineMap{}
	for i, b := range src {
		switch {
		case b == '\n':
			lm.newlines = append(lm.newlines, i)
		case b == '\r' && (i+1 == len(src) || src[i+1] != '\n'):
			// Old Mac line end; a CRLF pair ends at its '\n'
			lm.newlines = append(lm.newlines, i)
		}
	}
	return lm
}

// Line returns the 1-based line containing offset. A terminator belongs to the
// line it ends.
func (lm *LineMap) Line(offset int) int {
	return sort.SearchInts(lm.newlines, offset) + 1
}

// LineCount returns the number of lines in the file
func (lm *LineMap) LineCount() int {
	return len(lm.newlines) + 1
}
