package gdocai

import (
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocreval/pkg/hocr"
)

// CreateHOCRStruct converts a Document AI proto to the HOCR struct.
// Blocks become areas; lines outside of any paragraph go to the page.
func CreateHOCRStruct(docProto *documentaipb.Document) (*hocr.HOCR, error) {
	pages := PagesFromProto(docProto)
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	result := &hocr.HOCR{
		Title:    "Document OCR",
		Language: getDocumentLanguage(docProto),
		Metadata: map[string]string{
			"ocr-system":          "Document AI OCR",
			"ocr-number-of-pages": fmt.Sprintf("%d", len(pages)),
			"ocr-capabilities":    "ocr_page ocr_carea ocr_par ocr_line ocrx_word",
		},
	}
	for _, page := range pages {
		result.Pages = append(result.Pages, createHOCRPage(page))
	}
	return result, nil
}

// createHOCRPage converts a single page to an HOCR page
func createHOCRPage(page *Page) hocr.Page {
	raw := page.DocumentaiObject
	ocrPage := hocr.Page{
		ID:   fmt.Sprintf("page_%d", page.PageNumber),
		BBox: hocr.BoundingBoxOf(layoutBox(raw.GetLayout(), raw.GetDimension())),
	}
	if langs := raw.GetDetectedLanguages(); len(langs) > 0 {
		ocrPage.Lang = langs[0].GetLanguageCode()
	}

	assigned := make(map[*Line]bool)
	linesIn := func(parent *documentaipb.Document_Page_Layout, pidx int) []hocr.Line {
		var out []hocr.Line
		for lidx, line := range page.Lines {
			if assigned[line] || !isElementInParent(line.DocumentaiObject.GetLayout(), parent) {
				continue
			}
			assigned[line] = true
			out = append(out, convertLine(line, page.PageNumber, pidx, lidx))
		}
		return out
	}

	for aidx, block := range raw.GetBlocks() {
		area := hocr.Area{
			ID:   fmt.Sprintf("carea_%d_%d", page.PageNumber, aidx),
			BBox: hocr.BoundingBoxOf(layoutBox(block.GetLayout(), raw.GetDimension())),
		}
		for pidx, para := range raw.GetParagraphs() {
			if !isElementInParent(para.GetLayout(), block.GetLayout()) {
				continue
			}
			lines := linesIn(para.GetLayout(), pidx)
			if len(lines) == 0 {
				continue
			}
			area.Paragraphs = append(area.Paragraphs, hocr.Paragraph{
				ID:    fmt.Sprintf("par_%d_%d", page.PageNumber, pidx),
				BBox:  hocr.BoundingBoxOf(layoutBox(para.GetLayout(), raw.GetDimension())),
				Lines: lines,
			})
		}
		area.Lines = linesIn(block.GetLayout(), 0)
		ocrPage.Areas = append(ocrPage.Areas, area)
	}

	for lidx, line := range page.Lines {
		if !assigned[line] {
			ocrPage.Lines = append(ocrPage.Lines, convertLine(line, page.PageNumber, 0, lidx))
		}
	}
	return ocrPage
}

// convertLine turns a line with its tokens into an hOCR line
func convertLine(line *Line, pageNum, paraIdx, lineIdx int) hocr.Line {
	ocrLine := hocr.Line{
		ID:   fmt.Sprintf("line_%d_%d_%d", pageNum, paraIdx, lineIdx),
		BBox: hocr.BoundingBoxOf(line.Box),
	}
	for tidx, tok := range line.Tokens {
		if tok.Text == "" {
			continue
		}
		ocrLine.Words = append(ocrLine.Words, hocr.Word{
			ID:         fmt.Sprintf("word_%d_%d_%d_%d", pageNum, paraIdx, lineIdx, tidx),
			Text:       tok.Text,
			BBox:       hocr.BoundingBoxOf(tok.Box),
			Confidence: float64(tok.DocumentaiObject.GetLayout().GetConfidence() * 100),
		})
	}
	return ocrLine
}

// getDocumentLanguage finds the most common language in the document
// by counting language occurrences on pages and tokens
func getDocumentLanguage(doc *documentaipb.Document) string {
	langCount := make(map[string]int)
	for _, page := range doc.GetPages() {
		for _, lang := range page.GetDetectedLanguages() {
			langCount[lang.GetLanguageCode()]++
		}
		for _, token := range page.GetTokens() {
			for _, lang := range token.GetDetectedLanguages() {
				langCount[lang.GetLanguageCode()]++
			}
		}
	}

	var mostCommon string
	var highest int
	for lang, count := range langCount {
		if count > highest || (count == highest && lang < mostCommon) {
			highest = count
			mostCommon = lang
		}
	}
	return mostCommon
}
