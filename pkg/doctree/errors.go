package doctree

import (
	"errors"
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/gardar/ocreval/internal/dom"
)

var (
	// ErrEmptyStructure marks a required child element that is missing.
	ErrEmptyStructure = errors.New("empty structure")
	// ErrAmbiguousPage is returned when a document has no or several pages.
	ErrAmbiguousPage = errors.New("ambiguous page")
	// ErrMissingText marks a word level element without usable text.
	ErrMissingText = errors.New("missing text")
	// ErrNoTranscription is returned for non-container nodes without text.
	ErrNoTranscription = errors.New("no transcription")
	// ErrNoDimensions is returned by geometric queries on nodes without geometry.
	ErrNoDimensions = errors.New("no dimensions")
	// ErrLevelOrder is returned when a relation contradicts the level order.
	ErrLevelOrder = errors.New("level order violated")
	// ErrUnknownLevel marks a node level an operation cannot handle.
	ErrUnknownLevel = errors.New("unknown level")
	// ErrNotChild is returned when removing a node from a parent it does not belong to.
	ErrNotChild = errors.New("not a child")
	// ErrNotContained marks a member lying outside its declared container.
	ErrNotContained = errors.New("not contained")
)

// StructureError describes a structural problem at one element of a source file.
type StructureError struct {
	Path string
	Tag  string
	ID   string
	Err  error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s@ID=%s: %v", e.Path, e.Tag, e.ID, e.Err)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

// ElementError builds a StructureError for the given backing element.
func ElementError(path string, el *xmlquery.Node, err error) *StructureError {
	se := &StructureError{Path: path, Err: err}
	if el != nil {
		se.Tag = el.Data
		se.ID = dom.Identifier(el)
	}
	return se
}

func (t *Tree) nodeError(id NodeID, err error) error {
	n := &t.nodes[id]
	se := ElementError(t.path, n.elem, err)
	se.ID = n.identifier
	if se.Tag == "" {
		se.Tag = n.level.String()
	}
	return se
}
