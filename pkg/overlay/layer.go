package overlay

import (
	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/ocreval/pkg/geometry"
	"github.com/gardar/ocreval/pkg/hocr"
)

// drawTextLayer draws the words of a page onto their own layer and
// returns the number of words and of words that needed approximation.
func drawTextLayer(pdf *fpdf.Fpdf, page hocr.Page, cfg Config) (int, int) {
	layer := pdf.AddLayer(cfg.LayerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(cfg.Font.Name, cfg.Font.Style, cfg.Font.Size)
	pdf.SetLineWidth(cfg.LineWidth / 2)
	if cfg.Debug {
		pdf.SetTextColor(255, 0, 0)
		pdf.SetDrawColor(0, 0, 255)
	} else {
		pdf.SetTextColor(0, 0, 0)
	}

	words, failed := 0, 0
	drawLines := func(lines []hocr.Line) {
		for _, line := range lines {
			for _, word := range line.Words {
				if !drawWord(pdf, word, cfg) {
					failed++
				}
				words++
			}
		}
	}
	for _, area := range page.Areas {
		for _, para := range area.Paragraphs {
			drawLines(para.Lines)
		}
		drawLines(area.Lines)
	}
	drawLines(page.Lines)

	pdf.EndLayer()
	return words, failed
}

// drawWord renders a single word scaled to the width of its box and
// reports whether its text was Latin-1.
func drawWord(pdf *fpdf.Fpdf, word hocr.Word, cfg Config) bool {
	x, y := word.BBox.X1, word.BBox.Y1
	width := word.BBox.X2 - word.BBox.X1
	text, ok := latin1(word.Text)

	if strWidth := pdf.GetStringWidth(text); strWidth > 0 && width > 0 {
		pdf.SetFontSize(cfg.Font.Size * width / strWidth)
	}
	fontSize, _ := pdf.GetFontSize()
	pdf.Text(x, y+fontSize*cfg.Font.AscentRatio, text)
	pdf.SetFontSize(cfg.Font.Size)

	if cfg.Debug {
		pdf.Rect(x, y, width, word.BBox.Y2-word.BBox.Y1, "D")
	}
	return ok
}

// drawFrame outlines the query frame
func drawFrame(pdf *fpdf.Fpdf, frame geometry.Polygon, cfg Config) {
	points := make([]fpdf.PointType, 0, len(frame))
	for _, p := range frame {
		points = append(points, fpdf.PointType{X: p.X, Y: p.Y})
	}
	pdf.SetDrawColor(cfg.FrameRGB[0], cfg.FrameRGB[1], cfg.FrameRGB[2])
	pdf.SetLineWidth(cfg.LineWidth)
	pdf.Polygon(points, "D")
}
