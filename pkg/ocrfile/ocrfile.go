// Package ocrfile opens OCR groundtruth files, detects their dialect and
// hands them to the matching reader.
package ocrfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/gardar/ocreval/internal/dom"
	"github.com/gardar/ocreval/pkg/alto"
	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/pagexml"
)

var (
	// ErrMalformed is returned when the file is not well formed XML.
	// Callers may fall back to reading it as plain text.
	ErrMalformed = errors.New("malformed markup")
	// ErrUnknownFormat is returned for XML of an unsupported dialect.
	ErrUnknownFormat = errors.New("unknown format")
)

// DefaultRemovable lists per dialect the elements pruned together with
// removed neighbours.
var DefaultRemovable = map[doctree.FileFormat][]string{
	doctree.FormatALTO: alto.Removable,
	doctree.FormatPAGE: pagexml.Removable,
}

// Read parses the file at path into a document tree.
func Read(path string) (*doctree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ReadBytes(data, path)
}

// ReadBytes parses data read from path into a document tree.
func ReadBytes(data []byte, path string) (*doctree.Tree, error) {
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	switch Detect(doc) {
	case doctree.FormatALTO:
		return alto.Extract(doc, path)
	case doctree.FormatPAGE:
		return pagexml.Extract(doc, path)
	}
	return nil, fmt.Errorf("%s: %w: root element %q", path, ErrUnknownFormat, rootName(doc))
}

// Parse reads data into an XML document. Syntax errors are reported as
// ErrMalformed.
func Parse(data []byte, path string) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	if dom.Root(doc) == nil {
		return nil, fmt.Errorf("%s: %w: no document element", path, ErrMalformed)
	}
	return doc, nil
}

// Detect tells the dialect of a parsed document from its root element.
func Detect(doc *xmlquery.Node) doctree.FileFormat {
	root := dom.Root(doc)
	if root == nil {
		return doctree.FormatUnknown
	}
	switch {
	case root.Data == "alto" || strings.Contains(root.NamespaceURI, "alto"):
		return doctree.FormatALTO
	case root.Data == "PcGts" || strings.Contains(root.NamespaceURI, "primaresearch.org/PAGE"):
		return doctree.FormatPAGE
	}
	return doctree.FormatUnknown
}

// IsMalformed reports whether err means the input was not XML at all.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

func rootName(doc *xmlquery.Node) string {
	if root := dom.Root(doc); root != nil {
		return root.Data
	}
	return ""
}
