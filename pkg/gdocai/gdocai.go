// Package gdocai reads Google Document AI results as evaluation
// candidates.
//
// The results are Document JSON exports as written by the Document AI
// client libraries or the console. They are read offline: the package
// never talks to the service. Lines are rebuilt from the text anchors of
// lines and tokens, and token boxes are scaled to pixels so that a frame
// can restrict the text to a part of the page.
//
// Main Functions:
//
// - ParseDocument: Decodes Document JSON into the Document AI proto
// - ReadLines: Reads the line texts of a JSON export, optionally framed
// - PagesFromProto: Builds pages of lines and tokens with pixel boxes
// - CreateHOCRStruct: Converts a Document AI proto into the hOCR model
package gdocai

import (
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/gardar/ocreval/pkg/geometry"
)

// ErrNoPages is returned for documents without any page.
var ErrNoPages = errors.New("document has no pages")

// ParseDocument decodes Document AI JSON. Unknown fields are ignored so
// that exports of newer API versions still load.
func ParseDocument(data []byte) (*documentaipb.Document, error) {
	doc := &documentaipb.Document{}
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if len(doc.GetPages()) == 0 {
		return nil, ErrNoPages
	}
	return doc, nil
}

// ReadDocument reads and decodes the JSON export at path.
func ReadDocument(path string) (*documentaipb.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ReadLines returns the line texts of the JSON export at path.
func ReadLines(path string, frame geometry.Polygon) ([]string, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return Lines(doc, frame), nil
}
