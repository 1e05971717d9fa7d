// Package dom holds small helpers around the xmlquery node graph that backs
// every document tree. Element names are compared by local name so that
// prefixed and default-namespace documents behave the same.
package dom

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Root returns the document element of a parsed document, or nil.
func Root(doc *xmlquery.Node) *xmlquery.Node {
	if doc == nil {
		return nil
	}
	if doc.Type == xmlquery.ElementNode {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// IsElement reports whether n is an element with the given local name.
func IsElement(n *xmlquery.Node, local string) bool {
	return n != nil && n.Type == xmlquery.ElementNode && n.Data == local
}

// Attr looks up an attribute by local name. The second result tells a
// missing attribute apart from an empty one.
func Attr(n *xmlquery.Node, local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrVal is Attr without the presence flag.
func AttrVal(n *xmlquery.Node, local string) string {
	v, _ := Attr(n, local)
	return v
}

// Identifier returns the ALTO style ID or the PAGE style id attribute.
func Identifier(n *xmlquery.Node) string {
	if v, ok := Attr(n, "ID"); ok {
		return v
	}
	return AttrVal(n, "id")
}

// UpdateAttr overwrites an existing attribute and reports whether the
// stored value changed. Missing attributes are left alone.
func UpdateAttr(n *xmlquery.Node, local, value string) bool {
	if n == nil {
		return false
	}
	for i := range n.Attr {
		if n.Attr[i].Name.Local != local {
			continue
		}
		if n.Attr[i].Value == value {
			return false
		}
		n.Attr[i].Value = value
		return true
	}
	return false
}

// Children lists the direct child elements with the given local name.
// An empty name matches every child element.
func Children(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if local == "" || c.Data == local {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first direct child element with the given local name.
func Child(n *xmlquery.Node, local string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c, local) {
			return c
		}
	}
	return nil
}

// Descendants collects every element below n whose local name is one of
// names, in document order.
func Descendants(n *xmlquery.Node, names ...string) []*xmlquery.Node {
	var out []*xmlquery.Node
	var walk func(*xmlquery.Node)
	walk = func(node *xmlquery.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			for _, name := range names {
				if c.Data == name {
					out = append(out, c)
					break
				}
			}
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// Closest walks up from n (exclusive) and returns the first ancestor
// element whose local name is one of names.
func Closest(n *xmlquery.Node, names ...string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != xmlquery.ElementNode {
			continue
		}
		for _, name := range names {
			if p.Data == name {
				return p
			}
		}
	}
	return nil
}

// IsBlankText reports whether n is a text node made of white space only.
func IsBlankText(n *xmlquery.Node) bool {
	if n == nil || (n.Type != xmlquery.TextNode && n.Type != xmlquery.CharDataNode) {
		return false
	}
	return strings.TrimSpace(n.Data) == ""
}

// FirstText returns the data of the first text child of n.
func FirstText(n *xmlquery.Node) (string, bool) {
	if n == nil || n.FirstChild == nil {
		return "", false
	}
	c := n.FirstChild
	if c.Type != xmlquery.TextNode && c.Type != xmlquery.CharDataNode {
		return "", false
	}
	return c.Data, true
}

// Detach removes n from its parent. A spacing element listed in
// removable that would be left orphaned goes with it: the one following
// n, or the one preceding n when n was the last element. The blank text
// in front of n is dropped as well. When the parent ends up without any
// content it is detached in turn, up to but not including keep. It
// returns the local names of all removed elements, n first.
func Detach(n *xmlquery.Node, removable []string, keep *xmlquery.Node) []string {
	if n == nil || n.Parent == nil {
		return nil
	}
	parent := n.Parent
	next, prev := nextElement(n), prevElement(n)
	if IsBlankText(n.PrevSibling) {
		xmlquery.RemoveFromTree(n.PrevSibling)
	}
	xmlquery.RemoveFromTree(n)
	removed := []string{n.Data}

	var orphan *xmlquery.Node
	switch {
	case next != nil && contains(removable, next.Data):
		orphan = next
	case next == nil && prev != nil && contains(removable, prev.Data):
		orphan = prev
	}
	if orphan != nil {
		if IsBlankText(orphan.PrevSibling) {
			xmlquery.RemoveFromTree(orphan.PrevSibling)
		}
		xmlquery.RemoveFromTree(orphan)
		removed = append(removed, orphan.Data)
	}

	if parent != keep && parent.Type == xmlquery.ElementNode && isEmpty(parent) {
		removed = append(removed, Detach(parent, removable, keep)...)
	}
	return removed
}

func nextElement(n *xmlquery.Node) *xmlquery.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == xmlquery.ElementNode {
			return s
		}
		if !IsBlankText(s) {
			return nil
		}
	}
	return nil
}

func prevElement(n *xmlquery.Node) *xmlquery.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == xmlquery.ElementNode {
			return s
		}
		if !IsBlankText(s) {
			return nil
		}
	}
	return nil
}

// isEmpty reports whether n has no children besides blank text.
func isEmpty(n *xmlquery.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !IsBlankText(c) {
			return false
		}
	}
	return true
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
