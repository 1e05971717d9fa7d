// Package text assembles plain transcriptions from document trees and
// prepares them for metric and dictionary consumers.
//
// Assembly reads line or page text off a tree, optionally after pruning
// it to a frame. Sanitization stitches hyphenated line wraps and strips
// characters that are irrelevant for word based comparison. Unicode
// normalization is a separate step the caller applies explicitly.
package text

import (
	"strings"

	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/frame"
	"github.com/gardar/ocreval/pkg/geometry"
)

// Lines returns the non-blank line transcriptions of tree in reading
// order. A frame that differs from the page dimensions prunes the tree
// first with the given filter options; two points span a rectangle. The
// tree is modified in place.
func Lines(tree *doctree.Tree, frameBox geometry.Polygon, opts ...frame.Option) ([]string, error) {
	if err := applyFrame(tree, frameBox, opts); err != nil {
		return nil, err
	}
	ids, err := tree.Lines()
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		s, err := tree.Text(id)
		if err != nil {
			return nil, err
		}
		lines = append(lines, s)
	}
	return lines, nil
}

// Oneliner returns the transcription of the whole page and the number
// of lines it was assembled from.
func Oneliner(tree *doctree.Tree, frameBox geometry.Polygon, opts ...frame.Option) (string, int, error) {
	if err := applyFrame(tree, frameBox, opts); err != nil {
		return "", 0, err
	}
	root := tree.Root()
	if root == doctree.NoNode {
		return "", 0, nil
	}
	s, err := tree.Text(root)
	if err != nil {
		return "", 0, err
	}
	ids, err := tree.Lines()
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(s), len(ids), nil
}

// ExpandFrame turns a two point frame into the rectangle it spans.
// Other frames are returned as they are.
func ExpandFrame(p geometry.Polygon) geometry.Polygon {
	if len(p) == 2 {
		return geometry.Rect(p[0], p[1])
	}
	return p
}

func applyFrame(tree *doctree.Tree, frameBox geometry.Polygon, opts []frame.Option) error {
	root := tree.Root()
	if len(frameBox) == 0 || root == doctree.NoNode {
		return nil
	}
	frameBox = ExpandFrame(frameBox)
	if frameBox.Equal(tree.Dimensions(root)) {
		return nil
	}
	_, err := frame.New(frameBox, opts...).Apply(tree)
	return err
}
