package doctree

import (
	"fmt"
	"strings"
)

// Level is the structural rank of a node. A child always ranks strictly
// below its parent.
type Level int

const (
	LevelUnknown Level = iota
	Glyph
	Word
	Line
	TableCell
	Region
	Table
	Page
	Section
)

var levelNames = map[Level]string{
	LevelUnknown: "UNKNOWN",
	Glyph:        "GLYPH",
	Word:         "WORD",
	Line:         "LINE",
	TableCell:    "TABLE_CELL",
	Region:       "REGION",
	Table:        "TABLE",
	Page:         "PAGE",
	Section:      "SECTION",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Container reports whether text on this level is derived from children.
func (l Level) Container() bool {
	switch l {
	case Page, Region, Line, Table, TableCell:
		return true
	}
	return false
}

// FileFormat identifies the XML dialect a tree was read from.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	// FormatALTO is the line/word oriented ALTO v3 dialect.
	FormatALTO
	// FormatPAGE is the region/table oriented PAGE 2013 dialect.
	FormatPAGE
)

func (f FileFormat) String() string {
	switch f {
	case FormatALTO:
		return "ALTO_V3"
	case FormatPAGE:
		return "PAGE"
	}
	return "UNKNOWN"
}

// ParseFileFormat is the inverse of FileFormat.String, case insensitive.
func ParseFileFormat(s string) FileFormat {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ALTO_V3", "ALTO":
		return FormatALTO
	case "PAGE", "PAGE_2013", "PAGEXML":
		return FormatPAGE
	}
	return FormatUnknown
}
