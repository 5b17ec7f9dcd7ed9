package source

import (
	"fmt"
	"path/filepath"
)

// Location identifies a point in a source file. Lines and columns are
// 1-based; columns count bytes of the encoded source, not codepoints, so
// offsets stay reproducible for multi-byte identifiers.
type Location struct {
	Filename string
	Line     int
	Column   int
}

// NewLocation creates a new Location
func NewLocation(filename string, line, column int) Location {
	return Location{Filename: filename, Line: line, Column: column}
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", filepath.Base(l.Filename), l.Line, l.Column)
}
