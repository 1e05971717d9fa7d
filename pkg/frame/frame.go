// Package frame restricts a document tree to the words inside a query
// polygon. Containers that lose all their words are pruned and the
// geometry of surviving containers shrinks to their remaining children.
package frame

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gardar/ocreval/internal/log"
	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/geometry"
	"github.com/gardar/ocreval/pkg/ocrfile"
)

// ErrInvalidPoints is returned for query text that is not a point list.
var ErrInvalidPoints = errors.New("invalid frame points")

var queryPattern = regexp.MustCompile(`^(?:(?:-?\d+(?:\.\d+)?),(?:-?\d+(?:\.\d+)?) ?)+$`)

// ParseQuery validates and parses a query polygon given as "x1,y1 x2,y2 ...".
// Two points span an axis-aligned rectangle.
func ParseQuery(text string) (geometry.Polygon, error) {
	text = strings.TrimSpace(text)
	if !queryPattern.MatchString(text) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPoints, text)
	}
	p, err := geometry.ParsePolygon(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoints, err)
	}
	return p, nil
}

// Report counts the elements a filter run removed and resized, by tag.
type Report struct {
	Removed map[string]int `json:"removed"`
	Resized map[string]int `json:"resized"`
}

func newReport() Report {
	return Report{Removed: map[string]int{}, Resized: map[string]int{}}
}

// Changed reports whether the run touched the document at all.
func (r Report) Changed() bool {
	return len(r.Removed) > 0 || len(r.Resized) > 0
}

// RemovedTotal sums all removed elements.
func (r Report) RemovedTotal() int {
	n := 0
	for _, c := range r.Removed {
		n += c
	}
	return n
}

func (r Report) String() string {
	var lines []string
	for _, tag := range sortedKeys(r.Removed) {
		lines = append(lines, fmt.Sprintf("removed %d %s elements", r.Removed[tag], tag))
	}
	for _, tag := range sortedKeys(r.Resized) {
		lines = append(lines, fmt.Sprintf("resized %d %s elements", r.Resized[tag], tag))
	}
	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Option configures a Filter.
type Option func(*Filter)

// WithRemovable sets the elements dropped alongside removed neighbours
// for one dialect, replacing the default.
func WithRemovable(format doctree.FileFormat, tags ...string) Option {
	return func(f *Filter) {
		f.removable[format] = tags
	}
}

// Filter prunes trees to a query polygon.
type Filter struct {
	polygon   geometry.Polygon
	removable map[doctree.FileFormat][]string
}

// New creates a filter for the given query polygon.
func New(polygon geometry.Polygon, opts ...Option) *Filter {
	f := &Filter{
		polygon:   polygon.Clone(),
		removable: map[doctree.FileFormat][]string{},
	}
	for format, tags := range ocrfile.DefaultRemovable {
		f.removable[format] = tags
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Polygon returns the query polygon.
func (f *Filter) Polygon() geometry.Polygon {
	return f.polygon.Clone()
}

// Apply prunes tree in place. Words whose centroid lies outside the
// query polygon are removed, containers that lose all their children go
// with them and the geometry of the rest is recomputed from their
// children. Containers that never had children, such as PAGE lines
// transcribed without words, are kept or removed by their own centroid.
// A failure leaves the tree partially filtered.
func (f *Filter) Apply(tree *doctree.Tree) (Report, error) {
	report := newReport()
	root := tree.Root()
	if root == doctree.NoNode {
		return report, nil
	}
	r := &run{tree: tree, polygon: f.polygon, removable: f.removable[tree.Format()], report: report}
	if _, err := r.visit(root); err != nil {
		return report, err
	}
	for _, line := range strings.Split(report.String(), "\n") {
		if line != "" {
			log.Debugf("%s: %s", tree.Path(), line)
		}
	}
	return report, nil
}

type run struct {
	tree      *doctree.Tree
	polygon   geometry.Polygon
	removable []string
	report    Report
}

// visit works bottom-up and reports whether the node is kept.
func (r *run) visit(id doctree.NodeID) (bool, error) {
	tree := r.tree
	hadChildren := len(tree.Children(id)) > 0
	for _, c := range tree.Children(id) {
		if tree.Removed(c) {
			continue
		}
		keep, err := r.visit(c)
		if err != nil {
			return false, err
		}
		if keep || tree.Removed(c) {
			continue
		}
		removed, err := tree.RemoveChildren(id, r.removable, c)
		for _, tag := range removed {
			r.report.Removed[tag]++
		}
		if err != nil {
			return false, err
		}
	}

	level := tree.Level(id)
	switch {
	case level >= doctree.Page:
		return true, nil
	case level > doctree.Word:
		if tree.Removed(id) {
			// taken by a cascade while its last child was removed
			return true, nil
		}
		if len(tree.Children(id)) == 0 {
			if hadChildren {
				return false, nil
			}
			// transcribed on this level, judged like a word
			if len(tree.Dimensions(id)) == 0 {
				return true, nil
			}
			return tree.InPolygon(id, r.polygon)
		}
		changed, err := tree.SetGeometry(id, tree.ChildrenBounds(id))
		if err != nil {
			return false, err
		}
		if changed {
			r.report.Resized[tagOf(tree, id)]++
		}
		return true, nil
	case level == doctree.Word:
		return tree.InPolygon(id, r.polygon)
	}
	return false, &doctree.StructureError{
		Path: tree.Path(),
		Tag:  tagOf(tree, id),
		ID:   tree.Identifier(id),
		Err:  fmt.Errorf("%w: %s", doctree.ErrUnknownLevel, level),
	}
}

func tagOf(tree *doctree.Tree, id doctree.NodeID) string {
	if tag := tree.Tag(id); tag != "" {
		return tag
	}
	return tree.Level(id).String()
}

// FilterByPolygon reads the file at path and filters it to the polygon
// given as point list text. The text is validated before the file is
// touched.
func FilterByPolygon(path, points string, opts ...Option) (*doctree.Tree, Report, error) {
	polygon, err := ParseQuery(points)
	if err != nil {
		return nil, Report{}, err
	}
	return Process(path, polygon, opts...)
}

// Process reads the file at path and filters it to polygon.
func Process(path string, polygon geometry.Polygon, opts ...Option) (*doctree.Tree, Report, error) {
	tree, err := ocrfile.Read(path)
	if err != nil {
		return nil, Report{}, err
	}
	report, err := New(polygon, opts...).Apply(tree)
	if err != nil {
		return tree, report, err
	}
	return tree, report, nil
}
