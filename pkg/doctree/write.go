package doctree

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultInfix is inserted between stem and suffix of derived output names.
const DefaultInfix = ".gt"

// OutputPath derives the output name for src: the stem, infix and the
// original suffix, in the same directory.
func OutputPath(src, infix string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + infix + ext
}

// Write serializes the backing document including all applied changes.
func (t *Tree) Write(w io.Writer) error {
	if t.doc == nil {
		return errors.New("tree has no backing document")
	}
	_, err := io.WriteString(w, t.doc.OutputXML(true))
	return err
}

// WriteFile writes the backing document to path, or next to the source
// file using OutputPath with the default infix when path is empty. It
// returns the path written.
func (t *Tree) WriteFile(path string) (string, error) {
	if path == "" {
		path = OutputPath(t.path, DefaultInfix)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
