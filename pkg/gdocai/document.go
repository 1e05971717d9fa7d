package gdocai

import (
	"sort"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocreval/pkg/geometry"
)

// PagesFromProto transforms the raw Document AI pages into lines with
// their tokens and pixel boxes, sorted by page number.
func PagesFromProto(doc *documentaipb.Document) []*Page {
	var result []*Page
	for i, page := range doc.GetPages() {
		pageNum := int(page.GetPageNumber())
		if pageNum == 0 {
			pageNum = i + 1
		}
		p := &Page{DocumentaiObject: page, PageNumber: pageNum}

		tokens := make([]*Token, 0, len(page.GetTokens()))
		for _, token := range page.GetTokens() {
			tokens = append(tokens, &Token{
				DocumentaiObject: token,
				Text:             tokenText(token.GetLayout(), doc.GetText()),
				Box:              layoutBox(token.GetLayout(), page.GetDimension()),
			})
		}

		for _, line := range page.GetLines() {
			l := &Line{
				DocumentaiObject: line,
				PageNumber:       pageNum,
				Box:              layoutBox(line.GetLayout(), page.GetDimension()),
			}
			for _, tok := range tokens {
				if isElementInParent(tok.DocumentaiObject.GetLayout(), line.GetLayout()) {
					l.Tokens = append(l.Tokens, tok)
				}
			}
			p.Lines = append(p.Lines, l)
		}
		result = append(result, p)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PageNumber < result[j].PageNumber
	})
	return result
}

// Lines returns the non-empty line texts of all pages. A non-empty frame
// keeps only tokens whose box centroid lies inside it.
func Lines(doc *documentaipb.Document, frame geometry.Polygon) []string {
	var out []string
	for _, page := range PagesFromProto(doc) {
		for _, line := range page.Lines {
			if text := line.Text(frame); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

// layoutBox converts a Document AI bounding poly to pixel coordinates.
// Absolute vertices win over normalized ones, which are scaled by the
// page dimension.
func layoutBox(layout *documentaipb.Document_Page_Layout, dimension *documentaipb.Document_Page_Dimension) geometry.Polygon {
	poly := layout.GetBoundingPoly()
	var points []geometry.Point
	if vs := poly.GetVertices(); len(vs) > 0 {
		for _, v := range vs {
			points = append(points, geometry.Point{X: float64(v.GetX()), Y: float64(v.GetY())})
		}
	} else if dimension != nil {
		w, h := float64(dimension.GetWidth()), float64(dimension.GetHeight())
		for _, v := range poly.GetNormalizedVertices() {
			points = append(points, geometry.Point{X: float64(v.GetX()) * w, Y: float64(v.GetY()) * h})
		}
	}
	if len(points) == 0 {
		return nil
	}
	return geometry.BoundingBox(points...)
}

// tokenText reads a token's text without surrounding white space
func tokenText(layout *documentaipb.Document_Page_Layout, fullText string) string {
	text := strings.TrimSpace(textFromLayout(layout, fullText))
	return strings.Join(strings.Fields(text), " ")
}

// isElementInParent checks whether the first text segment of an element
// lies within the first segment of its parent
func isElementInParent(elementLayout, parentLayout *documentaipb.Document_Page_Layout) bool {
	el := elementLayout.GetTextAnchor().GetTextSegments()
	pa := parentLayout.GetTextAnchor().GetTextSegments()
	if len(el) == 0 || len(pa) == 0 {
		return false
	}
	return el[0].GetStartIndex() >= pa[0].GetStartIndex() && el[0].GetEndIndex() <= pa[0].GetEndIndex()
}
