package hocr

import (
	"fmt"
	"os"

	"github.com/gardar/ocreval/pkg/geometry"
)

// ReadLines parses the hOCR file at path and returns its line texts.
// A non-empty frame keeps only words whose box centroid lies inside it.
func ReadLines(path string, frame geometry.Polygon) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := ParseHOCR(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc.Lines(frame), nil
}

// Lines returns the non-empty line texts of all pages in document order.
// Lines reachable twice are only read once. A non-empty frame keeps only
// words whose box centroid lies inside it.
func (h HOCR) Lines(frame geometry.Polygon) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(lines []Line) {
		for _, line := range lines {
			if line.ID != "" {
				if seen[line.ID] {
					continue
				}
				seen[line.ID] = true
			}
			if text := filterLine(line, frame).Text(); text != "" {
				out = append(out, text)
			}
		}
	}
	for _, page := range h.Pages {
		for _, area := range page.Areas {
			for _, para := range area.Paragraphs {
				add(para.Lines)
			}
			add(area.Lines)
		}
		add(page.Lines)
	}
	return out
}

// filterLine drops the words outside of frame
func filterLine(line Line, frame geometry.Polygon) Line {
	if len(frame) == 0 {
		return line
	}
	kept := line
	kept.Words = nil
	for _, w := range line.Words {
		if geometry.HullContains(frame, w.BBox.Polygon()) {
			kept.Words = append(kept.Words, w)
		}
	}
	return kept
}
