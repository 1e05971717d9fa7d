package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocreval/pkg/geometry"
)

// Page represents a single page of a Document AI result with its lines
type Page struct {
	DocumentaiObject *documentaipb.Document_Page // Original Document AI page
	PageNumber       int                         // Page number (1-based)
	Lines            []*Line                     // Text lines on this page
}

// Line represents a line of text with the tokens it spans
type Line struct {
	DocumentaiObject *documentaipb.Document_Page_Line // Original Document AI line
	PageNumber       int                              // Parent page number
	Box              geometry.Polygon                 // Pixel bounding box
	Tokens           []*Token                         // Child tokens in this line
}

// Token represents a word or token within a line
type Token struct {
	DocumentaiObject *documentaipb.Document_Page_Token // Original Document AI token
	Text             string                            // Text content of this token
	Box              geometry.Polygon                  // Pixel bounding box
}

// Text joins the token texts of the line. A non-empty frame keeps only
// tokens whose box centroid lies inside it.
func (l *Line) Text(frame geometry.Polygon) string {
	parts := make([]string, 0, len(l.Tokens))
	for _, tok := range l.Tokens {
		if tok.Text == "" {
			continue
		}
		if len(frame) > 0 && !geometry.HullContains(frame, tok.Box) {
			continue
		}
		parts = append(parts, tok.Text)
	}
	return strings.Join(parts, " ")
}
