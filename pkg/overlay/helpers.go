package overlay

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for detectImageType
	_ "image/png"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// detectImageType tries to figure out whether the data is PNG, JPEG, etc.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return strings.ToUpper(format), nil
}

// latin1 converts text to ISO-8859-1 for the PDF core fonts. Characters
// outside of Latin-1 are replaced and reported with ok set to false.
func latin1(text string) (string, bool) {
	if s, err := charmap.ISO8859_1.NewEncoder().String(text); err == nil {
		return s, true
	}
	s, _ := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).String(text)
	return s, false
}
