package text

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gardar/ocreval/internal/log"
	"github.com/gardar/ocreval/pkg/frame"
	"github.com/gardar/ocreval/pkg/gdocai"
	"github.com/gardar/ocreval/pkg/geometry"
	"github.com/gardar/ocreval/pkg/hocr"
	"github.com/gardar/ocreval/pkg/ocrfile"
)

// FileLines reads the line transcriptions of the file at path.
//
// ALTO and PAGE files are parsed into a tree and pruned to frameBox when
// given, using opts for the filter. hOCR (.hocr, .html) and Document AI JSON (.json) candidates use
// the word boxes of their own formats. Files that are not well formed
// markup are read as plain text, one line per text line, and the frame
// is ignored for them.
func FileLines(path string, frameBox geometry.Polygon, opts ...frame.Option) ([]string, error) {
	frameBox = ExpandFrame(frameBox)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hocr", ".html", ".htm":
		return hocr.ReadLines(path, frameBox)
	case ".json":
		return gdocai.ReadLines(path, frameBox)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	tree, err := ocrfile.ReadBytes(data, path)
	if ocrfile.IsMalformed(err) {
		log.Debugf("%s: reading as plain text: %v", path, err)
		return PlainLines(data), nil
	}
	if err != nil {
		return nil, err
	}
	return Lines(tree, frameBox, opts...)
}

// FileOneliner is FileLines joined into a single line, together with the
// number of lines.
func FileOneliner(path string, frameBox geometry.Polygon, opts ...frame.Option) (string, int, error) {
	lines, err := FileLines(path, frameBox, opts...)
	if err != nil {
		return "", 0, err
	}
	return strings.Join(lines, " "), len(lines), nil
}

// FileDictLines reads the lines of the file at path and sanitizes them
// for dictionary lookups.
func FileDictLines(path string, frameBox geometry.Polygon, opts ...frame.Option) ([]string, error) {
	lines, err := FileLines(path, frameBox, opts...)
	if err != nil {
		return nil, err
	}
	return DictLines(lines), nil
}

// PlainLines splits text into trimmed lines and drops blank ones.
func PlainLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
