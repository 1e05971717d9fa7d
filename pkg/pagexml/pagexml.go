// Package pagexml reads PAGE 2013 documents into a document tree.
package pagexml

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/gardar/ocreval/internal/dom"
	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/geometry"
)

// Namespace is the PAGE 2013 content namespace.
const Namespace = "http://schema.primaresearch.org/PAGE/gts/pagecontent/2013-07-15"

// Removable is empty for PAGE, its elements carry no spacing markup.
var Removable []string

var levels = map[string]doctree.Level{
	"Word":        doctree.Word,
	"TextLine":    doctree.Line,
	"TextRegion":  doctree.Region,
	"TableRegion": doctree.Table,
	"TableCell":   doctree.TableCell,
}

type extractor struct {
	path string
	tree *doctree.Tree
}

// Extract builds a tree from a parsed PAGE document. The document must
// hold exactly one Page. Regions are TextRegion and TableCell elements,
// ordered by the page's ReadingOrder when one is present.
func Extract(doc *xmlquery.Node, path string) (*doctree.Tree, error) {
	root := dom.Root(doc)
	if root == nil {
		return nil, fmt.Errorf("%s: %w: no document element", path, doctree.ErrEmptyStructure)
	}
	pages := dom.Descendants(root, "Page")
	if len(pages) != 1 {
		return nil, doctree.ElementError(path, root,
			fmt.Errorf("%w: found %d pages", doctree.ErrAmbiguousPage, len(pages)))
	}
	page := pages[0]

	e := &extractor{path: path, tree: doctree.New(doctree.FormatPAGE, path, doc)}
	width, err := e.number(page, "imageWidth")
	if err != nil {
		return nil, err
	}
	height, err := e.number(page, "imageHeight")
	if err != nil {
		return nil, err
	}
	top, err := e.tree.Add(doctree.NoNode, dom.AttrVal(page, "imageFilename"), doctree.Page, page)
	if err != nil {
		return nil, err
	}
	e.tree.SetDimensions(top, geometry.FromBox(0, 0, width, height))

	regions := dom.Descendants(root, "TextRegion")
	regions = append(regions, dom.Descendants(root, "TableCell")...)
	regions = sortByReadingOrder(regions, readingOrder(page))

	for _, region := range regions {
		id, _, err := e.element(top, region)
		if err != nil {
			return nil, err
		}
		for _, line := range dom.Descendants(region, "TextLine") {
			if err := e.line(id, line); err != nil {
				return nil, err
			}
		}
	}
	return e.tree, nil
}

func (e *extractor) line(region doctree.NodeID, el *xmlquery.Node) error {
	id, final, err := e.element(region, el)
	if err != nil {
		return err
	}
	in, err := e.tree.Contains(region, id)
	if err != nil {
		return err
	}
	if !in {
		return doctree.ElementError(e.path, el,
			fmt.Errorf("%w: line outside region %s", doctree.ErrNotContained, e.tree.Identifier(region)))
	}
	if final {
		return nil
	}
	words := dom.Descendants(el, "Word")
	if len(words) == 0 {
		return nil
	}
	e.tree.ClearText(id)
	for _, w := range words {
		wid, _, err := e.element(id, w)
		if err != nil {
			return err
		}
		if !e.tree.HasText(wid) {
			return doctree.ElementError(e.path, w, doctree.ErrMissingText)
		}
	}
	return nil
}

// element adds a node for a textual PAGE element with geometry read
// from its Coords child and text from its TextEquiv children. final is
// set for a TextLine carrying several transcriptions, whose words are
// not read.
func (e *extractor) element(parent doctree.NodeID, el *xmlquery.Node) (doctree.NodeID, bool, error) {
	level, ok := levels[el.Data]
	if !ok {
		level = doctree.LevelUnknown
	}
	coords := dom.Child(el, "Coords")
	raw, ok := dom.Attr(coords, "points")
	if coords == nil || !ok {
		return doctree.NoNode, false, doctree.ElementError(e.path, el,
			fmt.Errorf("%w: no coordinate data", geometry.ErrInvalidGeometry))
	}
	points, err := geometry.ParsePoints(raw)
	if err != nil {
		return doctree.NoNode, false, doctree.ElementError(e.path, el, err)
	}
	if len(points) < 3 {
		return doctree.NoNode, false, doctree.ElementError(e.path, el,
			fmt.Errorf("%w: too few points %q", geometry.ErrInvalidGeometry, raw))
	}

	id, err := e.tree.Add(parent, dom.AttrVal(el, "id"), level, el)
	if err != nil {
		return doctree.NoNode, false, err
	}
	e.tree.SetDimensions(id, geometry.Polygon(points))

	var equivs []*xmlquery.Node
	for _, te := range dom.Children(el, "TextEquiv") {
		if _, ok := equivText(te); ok {
			equivs = append(equivs, te)
		}
	}
	if len(equivs) == 0 {
		return id, false, nil
	}
	final := false
	if len(equivs) > 1 {
		sort.SliceStable(equivs, func(i, j int) bool {
			return index(equivs[i]) < index(equivs[j])
		})
		final = el.Data == "TextLine"
	}
	text, _ := equivText(equivs[0])
	e.tree.SetText(id, strings.ReplaceAll(text, "\n", " "))
	return id, final, nil
}

// equivText returns the text of the first Unicode element below a
// TextEquiv when it is not blank.
func equivText(textEquiv *xmlquery.Node) (string, bool) {
	u := dom.Descendants(textEquiv, "Unicode")
	if len(u) == 0 {
		return "", false
	}
	text, ok := dom.FirstText(u[0])
	if !ok || strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

func index(el *xmlquery.Node) int {
	i, err := strconv.Atoi(dom.AttrVal(el, "index"))
	if err != nil {
		return math.MaxInt
	}
	return i
}

// readingOrder maps region ids to their RegionRefIndexed index.
func readingOrder(page *xmlquery.Node) map[string]int {
	order := map[string]int{}
	groups := xmlquery.Find(page, ".//*[local-name()='ReadingOrder']")
	if len(groups) == 0 {
		return order
	}
	for _, ref := range xmlquery.Find(groups[0], ".//*[local-name()='RegionRefIndexed']") {
		region := dom.AttrVal(ref, "regionRef")
		i, err := strconv.Atoi(dom.AttrVal(ref, "index"))
		if region == "" || err != nil {
			continue
		}
		order[region] = i
	}
	return order
}

// sortByReadingOrder puts regions listed in order first, by index, and
// appends the rest in document order.
func sortByReadingOrder(regions []*xmlquery.Node, order map[string]int) []*xmlquery.Node {
	if len(order) == 0 {
		return regions
	}
	var ordered, rest []*xmlquery.Node
	for _, r := range regions {
		if _, ok := order[dom.AttrVal(r, "id")]; ok {
			ordered = append(ordered, r)
		} else {
			rest = append(rest, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return order[dom.AttrVal(ordered[i], "id")] < order[dom.AttrVal(ordered[j], "id")]
	})
	return append(ordered, rest...)
}

func (e *extractor) number(el *xmlquery.Node, name string) (float64, error) {
	raw, ok := dom.Attr(el, name)
	if !ok {
		return 0, doctree.ElementError(e.path, el,
			fmt.Errorf("%w: missing %s", geometry.ErrInvalidGeometry, name))
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, doctree.ElementError(e.path, el,
			fmt.Errorf("%w: %s=%q", geometry.ErrInvalidGeometry, name, raw))
	}
	return n, nil
}
