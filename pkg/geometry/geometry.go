// Package geometry implements the planar helpers used by the document tree:
// point lists parsed from OCR coordinate attributes, axis-aligned bounding
// boxes, convex hulls, centroids and point-in-polygon tests.
//
// Coordinates are page pixels with the origin in the top-left corner.
// A Polygon is an ordered list of vertices; the closing edge between the
// last and the first vertex is implicit.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidGeometry marks coordinate data that cannot form a polygon.
var ErrInvalidGeometry = errors.New("invalid geometry")

const epsilon = 1e-9

// Point is a single vertex in page pixel space
type Point struct {
	X float64
	Y float64
}

// Polygon is an ordered vertex list. Rectangles use the winding
// top-left, top-right, bottom-right, bottom-left.
type Polygon []Point

// Rect creates the four corner rectangle spanned by two opposite corners.
// The first point keeps its position in the winding, so Rect(tl, br)
// yields tl, (br.X, tl.Y), br, (tl.X, br.Y).
func Rect(a, b Point) Polygon {
	return Polygon{
		a,
		{X: b.X, Y: a.Y},
		b,
		{X: a.X, Y: b.Y},
	}
}

// FromBox builds a rectangle from the left/top/width/height quadruple
// used by ALTO position attributes.
func FromBox(left, top, width, height float64) Polygon {
	return Rect(Point{X: left, Y: top}, Point{X: left + width, Y: top + height})
}

// ParsePoints reads a whitespace separated list of "x,y" pairs.
// Any malformed pair fails with ErrInvalidGeometry.
func ParsePoints(text string) ([]Point, error) {
	fields := strings.Fields(text)
	points := make([]Point, 0, len(fields))
	for _, field := range fields {
		xy := strings.Split(field, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("%w: malformed point %q", ErrInvalidGeometry, field)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed x in %q", ErrInvalidGeometry, field)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed y in %q", ErrInvalidGeometry, field)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// ParsePolygon reads a point list into a Polygon. Exactly two points are
// taken as opposite corners of an axis-aligned rectangle and expanded to
// four corners.
func ParsePolygon(text string) (Polygon, error) {
	points, err := ParsePoints(text)
	if err != nil {
		return nil, err
	}
	switch {
	case len(points) < 2:
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidGeometry, len(points))
	case len(points) == 2:
		return Rect(points[0], points[1]), nil
	}
	return Polygon(points), nil
}

// BoundingBox returns the axis-aligned rectangle enclosing all points,
// or nil for no points.
func BoundingBox(points ...Point) Polygon {
	if len(points) == 0 {
		return nil
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect(Point{X: minX, Y: minY}, Point{X: maxX, Y: maxY})
}

// Box is shorthand for BoundingBox over the polygon's own vertices.
func (p Polygon) Box() Polygon {
	return BoundingBox(p...)
}

// Bounds returns the top-left and bottom-right corners of the bounding box.
func (p Polygon) Bounds() (Point, Point) {
	box := p.Box()
	if box == nil {
		return Point{}, Point{}
	}
	return box[0], box[2]
}

// Equal reports whether both polygons list the same vertices in the same order.
func (p Polygon) Equal(other Polygon) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// String renders the polygon as a PAGE-style point list with
// coordinates rounded to whole pixels.
func (p Polygon) String() string {
	parts := make([]string, len(p))
	for i, pt := range p {
		parts[i] = fmt.Sprintf("%d,%d", int(math.Round(pt.X)), int(math.Round(pt.Y)))
	}
	return strings.Join(parts, " ")
}

// Area is the signed shoelace area; positive for counter-clockwise
// winding in a y-up system.
func (p Polygon) Area() float64 {
	var sum float64
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return sum / 2
}

// Centroid returns the area centroid. Degenerate polygons without area
// fall back to the mean of their vertices.
func Centroid(p Polygon) Point {
	if len(p) == 0 {
		return Point{}
	}
	area := p.Area()
	if math.Abs(area) < epsilon {
		var cx, cy float64
		for _, pt := range p {
			cx += pt.X
			cy += pt.Y
		}
		n := float64(len(p))
		return Point{X: cx / n, Y: cy / n}
	}
	var cx, cy float64
	for i := range p {
		j := (i + 1) % len(p)
		cross := p[i].X*p[j].Y - p[j].X*p[i].Y
		cx += (p[i].X + p[j].X) * cross
		cy += (p[i].Y + p[j].Y) * cross
	}
	return Point{X: cx / (6 * area), Y: cy / (6 * area)}
}

// ConvexHull computes the hull with Andrew's monotone chain.
// Collinear points on the hull boundary are dropped.
func ConvexHull(p Polygon) Polygon {
	if len(p) < 3 {
		return p.Clone()
	}
	pts := p.Clone()
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	cross := func(o, a, b Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	hull := make(Polygon, 0, 2*len(pts))
	for _, pt := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], pts[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pts[i])
	}
	return hull[:len(hull)-1]
}

// Contains is the strict point-in-polygon test: points on an edge or
// vertex are outside.
func Contains(poly Polygon, pt Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if onSegment(a, b, pt) {
			return false
		}
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// HullContains tests the centroid of other against the convex hull of
// container. It tolerates member shapes that slightly overflow their
// container, which is common for OCR word boxes near region borders.
func HullContains(container, other Polygon) bool {
	if len(container) == 0 || len(other) == 0 {
		return false
	}
	return Contains(ConvexHull(container), Centroid(other))
}

func onSegment(a, b, pt Point) bool {
	cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
	if math.Abs(cross) > epsilon {
		return false
	}
	return pt.X >= math.Min(a.X, b.X)-epsilon && pt.X <= math.Max(a.X, b.X)+epsilon &&
		pt.Y >= math.Min(a.Y, b.Y)-epsilon && pt.Y <= math.Max(a.Y, b.Y)+epsilon
}
