package hocr

import (
	"strings"

	"github.com/gardar/ocreval/pkg/geometry"
)

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title    string            // Document title
	Language string            // Document language
	Metadata map[string]string // ocr-system, ocr-capabilities and friends
	Pages    []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID        string      // Unique identifier
	ImageName string      // Source image filename
	Lang      string      // Language code for this page
	BBox      BoundingBox // Page coordinates
	Areas     []Area      // Content areas (columns, regions)
	Lines     []Line      // Lines outside of any area
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Area represents a content area, a text region of a groundtruth page
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string      // Unique identifier
	BBox       BoundingBox // Area coordinates
	Paragraphs []Paragraph // Paragraphs in this area
	Lines      []Line      // Text lines directly under area
}

// Class assign 'ocr_carea' to 'Area' struct
func (Area) Class() string { return "ocr_carea" }

// Paragraph represents a paragraph within an area
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID    string      // Unique identifier
	BBox  BoundingBox // Paragraph coordinates
	Lines []Line      // Text lines in this paragraph
}

// Class assign 'ocr_par' to 'Paragraph' struct
func (Paragraph) Class() string { return "ocr_par" }

// Line represents a line of text
// Corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID       string      // Unique identifier
	BBox     BoundingBox // Line coordinates
	Baseline string      // Baseline information
	Words    []Word      // Words in this line
}

// Class assign 'ocr_line' to 'Line' struct
func (Line) Class() string { return "ocr_line" }

// Text joins the non-empty words of the line.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		if w.Text != "" {
			parts = append(parts, w.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string      // Unique identifier
	Text       string      // The actual text content
	BBox       BoundingBox // Word coordinates
	Confidence float64     // Recognition confidence (0-100)
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2
// coordinates of an hOCR 'bbox' property.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}

// BoundingBoxOf returns the axis aligned box around p.
func BoundingBoxOf(p geometry.Polygon) BoundingBox {
	if len(p) == 0 {
		return BoundingBox{}
	}
	lo, hi := p.Bounds()
	return NewBoundingBox(lo.X, lo.Y, hi.X, hi.Y)
}

// Polygon returns the box as a four corner polygon.
func (b BoundingBox) Polygon() geometry.Polygon {
	return geometry.Rect(geometry.Point{X: b.X1, Y: b.Y1}, geometry.Point{X: b.X2, Y: b.Y2})
}

// IsZero reports whether the box was never set.
func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}
