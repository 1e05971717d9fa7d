package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/gardar/ocreval/pkg/doctree"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"trim": strings.TrimSpace,
	"bbox": func(b BoundingBox) string {
		return fmt.Sprintf("bbox %d %d %d %d", int(b.X1), int(b.Y1), int(b.X2), int(b.Y2))
	},
	"esc": template.HTMLEscapeString,
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// GenerateHOCRDocument renders an hOCR HTML document from the HOCR struct.
func GenerateHOCRDocument(doc *HOCR) (string, error) {
	var buf bytes.Buffer
	if err := hocrTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

// FromTree converts a document tree into an hOCR document with a single
// page. Regions become areas, tables contribute the areas of their
// regions, and lines and words keep their bounding boxes.
func FromTree(tree *doctree.Tree) (*HOCR, error) {
	root := tree.Root()
	if root == doctree.NoNode {
		return nil, fmt.Errorf("%s: %w", tree.Path(), doctree.ErrEmptyStructure)
	}
	page := Page{
		ID:        "page_1",
		ImageName: tree.Identifier(root),
		BBox:      BoundingBoxOf(tree.Dimensions(root)),
	}

	var walk func(id doctree.NodeID) error
	walk = func(id doctree.NodeID) error {
		for _, c := range tree.Children(id) {
			switch tree.Level(c) {
			case doctree.Region, doctree.TableCell:
				area := Area{ID: tree.Identifier(c), BBox: BoundingBoxOf(tree.Dimensions(c))}
				for _, l := range tree.Children(c) {
					line, err := lineFromTree(tree, l)
					if err != nil {
						return err
					}
					area.Lines = append(area.Lines, line)
				}
				page.Areas = append(page.Areas, area)
			case doctree.Line:
				line, err := lineFromTree(tree, c)
				if err != nil {
					return err
				}
				page.Lines = append(page.Lines, line)
			default:
				if err := walk(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	return &HOCR{
		Title: tree.Path(),
		Metadata: map[string]string{
			"ocr-system":          "ocreval",
			"ocr-number-of-pages": "1",
			"ocr-capabilities":    "ocr_page ocr_carea ocr_line ocrx_word",
		},
		Pages: []Page{page},
	}, nil
}

func lineFromTree(tree *doctree.Tree, id doctree.NodeID) (Line, error) {
	line := Line{ID: tree.Identifier(id), BBox: BoundingBoxOf(tree.Dimensions(id))}
	words := tree.Children(id)
	if len(words) == 0 {
		// lines read from a single transcription
		text, err := tree.Text(id)
		if err != nil {
			return line, err
		}
		line.Words = append(line.Words, Word{ID: line.ID + "_w", Text: text, BBox: line.BBox})
		return line, nil
	}
	for _, w := range words {
		text, err := tree.Text(w)
		if err != nil {
			return line, err
		}
		line.Words = append(line.Words, Word{
			ID:   tree.Identifier(w),
			Text: text,
			BBox: BoundingBoxOf(tree.Dimensions(w)),
		})
	}
	return line, nil
}
