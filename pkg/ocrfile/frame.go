package ocrfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/antchfx/xmlquery"

	"github.com/gardar/ocreval/internal/dom"
	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/geometry"
)

// ErrNoFrame is returned when no groundtruth frame can be determined.
var ErrNoFrame = errors.New("no groundtruth frame")

var frameName = regexp.MustCompile(`_(\d{2,})x(\d{2,})_(\d{2,})x(\d{2,})`)

// GroundtruthFrame returns the rectangle a groundtruth file was
// annotated for. Sources are tried in order:
//
//   - a file name containing _<x0>x<y0>_<x1>x<y1>
//   - the ALTO OtherTag with ID ulb_groundtruth_points
//   - the bounds of all ALTO Strings with content not starting with a digit
//   - the bounds of all PAGE TextLine coordinates, else the page Border
func GroundtruthFrame(path string) (geometry.Polygon, error) {
	if m := frameName.FindStringSubmatch(filepath.Base(path)); m != nil {
		var v [4]float64
		for i := range v {
			n, _ := strconv.Atoi(m[i+1])
			v[i] = float64(n)
		}
		return geometry.Rect(geometry.Point{X: v[0], Y: v[1]}, geometry.Point{X: v[2], Y: v[3]}), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	switch Detect(doc) {
	case doctree.FormatALTO:
		return altoFrame(doc, path)
	case doctree.FormatPAGE:
		return pageFrame(doc, path)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

func altoFrame(doc *xmlquery.Node, path string) (geometry.Polygon, error) {
	tag := xmlquery.FindOne(doc, "//*[local-name()='OtherTag'][@ID='ulb_groundtruth_points']")
	if tag != nil {
		points, err := geometry.ParsePoints(dom.AttrVal(tag, "VALUE"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(points) < 3 {
			return nil, fmt.Errorf("%s: %w: too few groundtruth points", path, geometry.ErrInvalidGeometry)
		}
		return geometry.Rect(points[0], points[2]), nil
	}

	var corners []geometry.Point
	for _, s := range xmlquery.Find(doc, "//*[local-name()='String']") {
		content := strings.TrimSpace(dom.AttrVal(s, "CONTENT"))
		if content == "" || unicode.IsDigit([]rune(content)[0]) {
			continue
		}
		var v [4]float64
		for i, name := range []string{"HPOS", "VPOS", "WIDTH", "HEIGHT"} {
			n, err := strconv.ParseFloat(dom.AttrVal(s, name), 64)
			if err != nil {
				return nil, doctree.ElementError(path, s,
					fmt.Errorf("%w: %s", geometry.ErrInvalidGeometry, name))
			}
			v[i] = n
		}
		corners = append(corners, geometry.FromBox(v[0], v[1], v[2], v[3])...)
	}
	if len(corners) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoFrame)
	}
	return geometry.BoundingBox(corners...), nil
}

func pageFrame(doc *xmlquery.Node, path string) (geometry.Polygon, error) {
	for _, expr := range []string{
		"//*[local-name()='TextLine']/*[local-name()='Coords']",
		"//*[local-name()='Page']/*[local-name()='Border']/*[local-name()='Coords']",
	} {
		var corners []geometry.Point
		for _, coords := range xmlquery.Find(doc, expr) {
			points, err := geometry.ParsePoints(dom.AttrVal(coords, "points"))
			if err != nil {
				return nil, doctree.ElementError(path, coords.Parent, err)
			}
			corners = append(corners, points...)
		}
		if len(corners) > 0 {
			return geometry.BoundingBox(corners...), nil
		}
	}
	return nil, fmt.Errorf("%s: %w: missing page and line coordinates", path, ErrNoFrame)
}
