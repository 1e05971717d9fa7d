// Package doctree is the dialect independent model of an OCR document.
//
// A Tree stores its nodes in one arena and links them by NodeID. Every
// node may be bound to an element of the parsed XML document the tree was
// read from; geometry changes and removals are applied to that document
// right away so it can be written back at any time.
package doctree

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/gardar/ocreval/pkg/geometry"
)

// NodeID indexes a node inside its Tree.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

type node struct {
	identifier string
	level      Level
	dims       geometry.Polygon
	text       string
	hasText    bool
	parent     NodeID
	children   []NodeID
	elem       *xmlquery.Node
	// extra elements merged into this node, e.g. grouped ALTO strings
	parts   []*xmlquery.Node
	removed bool
}

// Tree is a parsed document. The zero value is not usable, see New.
type Tree struct {
	format FileFormat
	path   string
	doc    *xmlquery.Node
	label  string
	nodes  []node
	root   NodeID
}

// New creates an empty tree for a document of the given format.
// doc may be nil for trees that are not backed by XML.
func New(format FileFormat, path string, doc *xmlquery.Node) *Tree {
	return &Tree{
		format: format,
		path:   path,
		doc:    doc,
		root:   NoNode,
	}
}

// Add appends a node below parent and returns its id. The first node is
// added with parent NoNode and becomes the root.
func (t *Tree) Add(parent NodeID, identifier string, level Level, elem *xmlquery.Node) (NodeID, error) {
	if parent == NoNode {
		if t.root != NoNode {
			return NoNode, fmt.Errorf("tree %s already has a root", t.path)
		}
	} else {
		if err := t.check(parent); err != nil {
			return NoNode, err
		}
		if level >= t.nodes[parent].level {
			return NoNode, ElementError(t.path, elem,
				fmt.Errorf("%w: %s below %s", ErrLevelOrder, level, t.nodes[parent].level))
		}
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		identifier: identifier,
		level:      level,
		parent:     parent,
		elem:       elem,
	})
	if parent == NoNode {
		t.root = id
	} else {
		t.nodes[parent].children = append(t.nodes[parent].children, id)
	}
	return id, nil
}

// AddPart binds an additional element to a node. Parts are removed from
// the document together with the node.
func (t *Tree) AddPart(id NodeID, elem *xmlquery.Node) {
	t.nodes[id].parts = append(t.nodes[id].parts, elem)
}

func (t *Tree) check(id NodeID) error {
	if id < 0 || int(id) >= len(t.nodes) {
		return fmt.Errorf("node %d out of range", id)
	}
	return nil
}

// Root returns the root id, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len counts the nodes that have not been removed.
func (t *Tree) Len() int {
	n := 0
	for i := range t.nodes {
		if !t.nodes[i].removed {
			n++
		}
	}
	return n
}

func (t *Tree) Format() FileFormat { return t.format }

func (t *Tree) Path() string { return t.path }

// Document returns the backing XML document, nil for unbacked trees.
func (t *Tree) Document() *xmlquery.Node { return t.doc }

// Label is the groundtruth type annotation of the document, if any.
func (t *Tree) Label() string { return t.label }

func (t *Tree) SetLabel(label string) { t.label = label }

func (t *Tree) Identifier(id NodeID) string { return t.nodes[id].identifier }

func (t *Tree) Level(id NodeID) Level { return t.nodes[id].level }

// Element returns the backing element of a node.
func (t *Tree) Element(id NodeID) *xmlquery.Node { return t.nodes[id].elem }

// Tag is the local name of the backing element, empty for unbacked nodes.
func (t *Tree) Tag(id NodeID) string {
	if el := t.nodes[id].elem; el != nil {
		return el.Data
	}
	return ""
}

func (t *Tree) Removed(id NodeID) bool { return t.nodes[id].removed }

// Parent returns the parent of id and false for the root.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	p := t.nodes[id].parent
	return p, p != NoNode
}

// Children returns a copy of the child list in reading order.
func (t *Tree) Children(id NodeID) []NodeID {
	c := t.nodes[id].children
	out := make([]NodeID, len(c))
	copy(out, c)
	return out
}

// Dimensions returns a copy of the node geometry.
func (t *Tree) Dimensions(id NodeID) geometry.Polygon {
	return t.nodes[id].dims.Clone()
}

// SetDimensions stores geometry without touching the backing document.
// Parsers use it while building the tree.
func (t *Tree) SetDimensions(id NodeID, p geometry.Polygon) {
	t.nodes[id].dims = p.Clone()
}

// SetText assigns literal text to a node. Blank text is ignored. Any
// text previously assigned to an ancestor is dropped since text found
// further down takes precedence.
func (t *Tree) SetText(id NodeID, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	n := &t.nodes[id]
	n.text = text
	n.hasText = true
	for p := n.parent; p != NoNode; p = t.nodes[p].parent {
		t.ClearText(p)
	}
}

// ClearText drops the literal text of a node.
func (t *Tree) ClearText(id NodeID) {
	t.nodes[id].text = ""
	t.nodes[id].hasText = false
}

// HasText reports whether a node carries literal text of its own.
func (t *Tree) HasText(id NodeID) bool { return t.nodes[id].hasText }

// Text returns the transcription of a node: its own text if set,
// otherwise the children's transcriptions joined by single spaces.
// Non-container nodes without own text fail with ErrNoTranscription.
func (t *Tree) Text(id NodeID) (string, error) {
	n := &t.nodes[id]
	if n.hasText {
		return n.text, nil
	}
	if !n.level.Container() {
		return "", t.nodeError(id, ErrNoTranscription)
	}
	parts := make([]string, 0, len(n.children))
	for _, c := range n.children {
		s, err := t.Text(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}
