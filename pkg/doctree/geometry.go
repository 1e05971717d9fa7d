package doctree

import (
	"fmt"
	"strconv"

	"github.com/gardar/ocreval/internal/dom"
	"github.com/gardar/ocreval/pkg/geometry"
)

// SetGeometry stores new geometry for a node and writes it back into the
// backing element in the notation of the tree's dialect. Only attributes
// already present on the element are updated. The result reports whether
// the backing document changed.
func (t *Tree) SetGeometry(id NodeID, p geometry.Polygon) (bool, error) {
	if err := t.check(id); err != nil {
		return false, err
	}
	if len(p) == 0 {
		return false, t.nodeError(id, fmt.Errorf("%w: empty polygon", geometry.ErrInvalidGeometry))
	}
	n := &t.nodes[id]
	n.dims = p.Clone()
	if t.doc == nil || n.elem == nil {
		return false, nil
	}
	switch t.format {
	case FormatALTO:
		return writeBox(n), nil
	case FormatPAGE:
		return writePoints(n), nil
	}
	return false, nil
}

func writeBox(n *node) bool {
	tl, br := n.dims.Bounds()
	values := map[string]float64{
		"HPOS":   tl.X,
		"VPOS":   tl.Y,
		"WIDTH":  br.X - tl.X,
		"HEIGHT": br.Y - tl.Y,
	}
	changed := false
	for _, name := range []string{"HPOS", "VPOS", "WIDTH", "HEIGHT"} {
		if dom.UpdateAttr(n.elem, name, strconv.Itoa(int(values[name]))) {
			changed = true
		}
	}
	return changed
}

func writePoints(n *node) bool {
	coords := dom.Child(n.elem, "Coords")
	if coords == nil {
		return false
	}
	return dom.UpdateAttr(coords, "points", n.dims.String())
}

// ChildrenBounds returns the bounding box of all children's geometry, or
// the node's own geometry when it has no children with geometry.
func (t *Tree) ChildrenBounds(id NodeID) geometry.Polygon {
	var points []geometry.Point
	for _, c := range t.nodes[id].children {
		points = append(points, t.nodes[c].dims...)
	}
	if len(points) == 0 {
		return t.nodes[id].dims.Clone()
	}
	return geometry.BoundingBox(points...)
}

// Contains reports whether member lies inside container. The test uses
// the centroid of member against the convex hull of container and is
// only defined for a container ranking above member.
func (t *Tree) Contains(container, member NodeID) (bool, error) {
	for _, id := range []NodeID{container, member} {
		if err := t.check(id); err != nil {
			return false, err
		}
	}
	c, m := &t.nodes[container], &t.nodes[member]
	if c.level <= m.level {
		return false, t.nodeError(member,
			fmt.Errorf("%w: %s in %s", ErrLevelOrder, m.level, c.level))
	}
	if len(c.dims) == 0 {
		return false, t.nodeError(container, ErrNoDimensions)
	}
	if len(m.dims) == 0 {
		return false, t.nodeError(member, ErrNoDimensions)
	}
	return geometry.HullContains(c.dims, m.dims), nil
}

// InPolygon reports whether the centroid of the node lies inside the
// convex hull of poly.
func (t *Tree) InPolygon(id NodeID, poly geometry.Polygon) (bool, error) {
	if err := t.check(id); err != nil {
		return false, err
	}
	if len(t.nodes[id].dims) == 0 {
		return false, t.nodeError(id, ErrNoDimensions)
	}
	return geometry.HullContains(poly, t.nodes[id].dims), nil
}
