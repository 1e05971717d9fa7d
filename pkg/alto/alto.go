// Package alto reads ALTO v3 documents into a document tree.
//
// Blocks become regions, optionally grouped below a ComposedBlock which
// is mapped to the table level. Words are rebuilt from String elements:
// when a line uses SP elements, consecutive Strings without an SP in
// between form one word, otherwise every String is a word of its own.
package alto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/gardar/ocreval/internal/dom"
	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/geometry"
)

// Namespace is the ALTO v3 XML namespace.
const Namespace = "http://www.loc.gov/standards/alto/ns-v3#"

// Removable lists the elements that only carry formatting and are
// dropped with their neighbours.
var Removable = []string{"SP"}

const (
	labelTypeID = "ulb_groundtruth_type"
)

type extractor struct {
	path string
	tree *doctree.Tree
}

// Extract builds a tree from a parsed ALTO document.
func Extract(doc *xmlquery.Node, path string) (*doctree.Tree, error) {
	root := dom.Root(doc)
	if root == nil {
		return nil, fmt.Errorf("%s: %w: no document element", path, doctree.ErrEmptyStructure)
	}
	pages := dom.Descendants(root, "Page")
	if len(pages) == 0 {
		return nil, doctree.ElementError(path, root, fmt.Errorf("%w: no Page", doctree.ErrAmbiguousPage))
	}
	page := pages[0]

	e := &extractor{path: path, tree: doctree.New(doctree.FormatALTO, path, doc)}
	width, err := e.number(page, "WIDTH")
	if err != nil {
		return nil, err
	}
	height, err := e.number(page, "HEIGHT")
	if err != nil {
		return nil, err
	}
	top, err := e.tree.Add(doctree.NoNode, dom.Identifier(page), doctree.Page, page)
	if err != nil {
		return nil, err
	}
	e.tree.SetDimensions(top, geometry.FromBox(0, 0, width, height))
	e.tree.SetLabel(Label(doc))

	blocks := topLevelBlocks(root)
	if len(blocks) == 0 {
		return nil, doctree.ElementError(path, root, fmt.Errorf("%w: no blocks", doctree.ErrEmptyStructure))
	}
	for _, block := range blocks {
		if block.Data == "ComposedBlock" {
			err = e.composed(top, block)
		} else {
			err = e.block(top, block)
		}
		if err != nil {
			return nil, err
		}
	}
	return e.tree, nil
}

// topLevelBlocks returns TextBlocks and outermost ComposedBlocks in
// document order. TextBlocks inside a ComposedBlock are read with it.
func topLevelBlocks(root *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for _, el := range dom.Descendants(root, "ComposedBlock", "TextBlock") {
		if dom.Closest(el, "ComposedBlock") == nil {
			out = append(out, el)
		}
	}
	return out
}

func (e *extractor) composed(parent doctree.NodeID, el *xmlquery.Node) error {
	blocks := dom.Descendants(el, "TextBlock")
	if len(blocks) == 0 {
		return doctree.ElementError(e.path, el, fmt.Errorf("%w: no TextBlock", doctree.ErrEmptyStructure))
	}
	id, err := e.node(parent, el, doctree.Table)
	if err != nil {
		return err
	}
	for _, block := range blocks {
		if err := e.block(id, block); err != nil {
			return err
		}
	}
	return nil
}

func (e *extractor) block(parent doctree.NodeID, el *xmlquery.Node) error {
	lines := dom.Descendants(el, "TextLine")
	if len(lines) == 0 {
		return doctree.ElementError(e.path, el, fmt.Errorf("%w: no TextLine", doctree.ErrEmptyStructure))
	}
	id, err := e.node(parent, el, doctree.Region)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := e.line(id, line); err != nil {
			return err
		}
	}
	return nil
}

func (e *extractor) line(parent doctree.NodeID, el *xmlquery.Node) error {
	strs := dom.Children(el, "String")
	if len(strs) == 0 {
		return doctree.ElementError(e.path, el, fmt.Errorf("%w: no String", doctree.ErrEmptyStructure))
	}
	id, err := e.node(parent, el, doctree.Line)
	if err != nil {
		return err
	}
	if len(dom.Children(el, "SP")) == 0 {
		for _, s := range strs {
			content := dom.AttrVal(s, "CONTENT")
			if strings.TrimSpace(content) == "" {
				continue
			}
			if err := e.word(id, []*xmlquery.Node{s}, content); err != nil {
				return err
			}
		}
		return nil
	}

	var group []*xmlquery.Node
	var content strings.Builder
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		err := e.word(id, group, content.String())
		group = nil
		content.Reset()
		return err
	}
	for _, child := range dom.Children(el, "") {
		switch child.Data {
		case "String":
			c := dom.AttrVal(child, "CONTENT")
			if strings.TrimSpace(c) == "" {
				continue
			}
			group = append(group, child)
			content.WriteString(c)
		case "SP":
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// word adds one logical word made of the given String elements. The first
// element supplies identifier and geometry.
func (e *extractor) word(parent doctree.NodeID, group []*xmlquery.Node, content string) error {
	id, err := e.node(parent, group[0], doctree.Word)
	if err != nil {
		return err
	}
	for _, part := range group[1:] {
		e.tree.AddPart(id, part)
	}
	e.tree.SetText(id, content)
	return nil
}

func (e *extractor) node(parent doctree.NodeID, el *xmlquery.Node, level doctree.Level) (doctree.NodeID, error) {
	box, err := e.box(el)
	if err != nil {
		return doctree.NoNode, err
	}
	id, err := e.tree.Add(parent, dom.Identifier(el), level, el)
	if err != nil {
		return doctree.NoNode, err
	}
	e.tree.SetDimensions(id, box)
	return id, nil
}

func (e *extractor) box(el *xmlquery.Node) (geometry.Polygon, error) {
	var v [4]float64
	for i, name := range []string{"HPOS", "VPOS", "WIDTH", "HEIGHT"} {
		n, err := e.number(el, name)
		if err != nil {
			return nil, err
		}
		v[i] = n
	}
	return geometry.FromBox(v[0], v[1], v[2], v[3]), nil
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

// Label returns the groundtruth type annotation of an ALTO document. The
// LABEL attribute of the first OtherTag wins; otherwise the VALUE of the
// single OtherTag with ID ulb_groundtruth_type is used.
func Label(doc *xmlquery.Node) string {
	tags := xmlquery.Find(doc, "//*[local-name()='OtherTag']")
	if len(tags) == 0 {
		return ""
	}
	if label := dom.AttrVal(tags[0], "LABEL"); label != "" {
		return label
	}
	var typed []*xmlquery.Node
	for _, tag := range tags {
		if dom.AttrVal(tag, "ID") == labelTypeID {
			typed = append(typed, tag)
		}
	}
	if len(typed) == 1 {
		return dom.AttrVal(typed[0], "VALUE")
	}
	return ""
}
