// Package overlay renders a PDF preview of a groundtruth page.
//
// The preview shows the scanned page image when one is given, a text
// layer with every word placed at its box and the outline of the query
// frame. It is meant for checking by eye what a frame keeps: render the
// filtered tree with the frame that produced it.
//
// Main Functions:
//
// - Render: Draws an hOCR page with an optional image and frame
// - RenderTree: Draws a document tree the same way
package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/ocreval/internal/log"
	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/geometry"
	"github.com/gardar/ocreval/pkg/hocr"
)

// ErrNoPageSize is returned for pages without a usable bounding box.
var ErrNoPageSize = errors.New("page has no size")

// RenderTree draws the page of tree. See Render.
func RenderTree(tree *doctree.Tree, frame geometry.Polygon, image []byte, cfg Config) ([]byte, error) {
	h, err := hocr.FromTree(tree)
	if err != nil {
		return nil, err
	}
	return Render(h, frame, image, cfg)
}

// Render draws the first page of h onto a PDF page of the same size in
// points. A non-empty image is placed as background and a non-empty
// frame is outlined on top.
func Render(h *hocr.HOCR, frame geometry.Polygon, image []byte, cfg Config) ([]byte, error) {
	if h == nil || len(h.Pages) == 0 {
		return nil, fmt.Errorf("HOCR data contains no pages")
	}
	page := h.Pages[0]
	w, ht := page.BBox.X2, page.BBox.Y2
	if w <= 0 || ht <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPageSize, page.ID)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreator("ocreval", true)
	pdf.SetTitle(h.Title, true)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: ht})

	if len(image) > 0 {
		imageType, err := detectImageType(image)
		if err != nil {
			return nil, fmt.Errorf("invalid page image: %w", err)
		}
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
		pdf.RegisterImageOptionsReader("page", opts, bytes.NewReader(image))
		pdf.ImageOptions("page", 0, 0, w, ht, false, opts, 0, "")
	}

	words, failed := drawTextLayer(pdf, page, cfg)
	if failed > 0 {
		log.Warnf("%s: %d of %d words are not Latin-1 and were approximated", h.Title, failed, words)
	}
	if len(frame) > 0 {
		drawFrame(pdf, frame, cfg)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes a rendered preview to path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
