package doctree

import (
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/gardar/ocreval/internal/dom"
)

// RemoveChildren detaches the given children from parent, together with
// their backing elements. Spacing elements named in removable that a
// removal leaves orphaned are dropped too, and backing elements left
// empty are detached up to the element of the root node. A parent below
// page level that loses its last child is removed from its own parent
// in turn.
//
// The returned slice lists the tag names of every removed element.
func (t *Tree) RemoveChildren(parent NodeID, removable []string, ids ...NodeID) ([]string, error) {
	if err := t.check(parent); err != nil {
		return nil, err
	}
	var removed []string
	for _, id := range ids {
		p := &t.nodes[parent]
		idx := -1
		for i, c := range p.children {
			if c == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return removed, t.nodeError(parent, fmt.Errorf("%w: node %d", ErrNotChild, id))
		}
		p.children = append(p.children[:idx:idx], p.children[idx+1:]...)
		removed = append(removed, t.detach(id, removable)...)
	}

	p := &t.nodes[parent]
	if len(ids) > 0 && len(p.children) == 0 && p.level < Page && p.parent != NoNode {
		more, err := t.RemoveChildren(p.parent, removable, parent)
		removed = append(removed, more...)
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// detach marks a subtree removed and cuts its elements out of the document.
func (t *Tree) detach(id NodeID, removable []string) []string {
	n := &t.nodes[id]
	n.parent = NoNode
	var removed []string
	var mark func(NodeID)
	mark = func(i NodeID) {
		t.nodes[i].removed = true
		for _, c := range t.nodes[i].children {
			mark(c)
		}
	}
	mark(id)
	keep := t.rootElement()
	removed = append(removed, dom.Detach(n.elem, removable, keep)...)
	for _, part := range n.parts {
		removed = append(removed, dom.Detach(part, removable, keep)...)
	}
	return removed
}

func (t *Tree) rootElement() *xmlquery.Node {
	if t.root == NoNode {
		return nil
	}
	return t.nodes[t.root].elem
}
