package doctree

import (
	"strings"
	"unicode/utf8"
)

// Flatten lists the subtree rooted at id in pre-order.
func (t *Tree) Flatten(id NodeID) []NodeID {
	out := []NodeID{id}
	for _, c := range t.nodes[id].children {
		out = append(out, t.Flatten(c)...)
	}
	return out
}

// Lines returns the line nodes below the root, in reading order, whose
// transcription is not blank. A line that cannot be transcribed fails the
// whole call.
func (t *Tree) Lines() ([]NodeID, error) {
	var out []NodeID
	if t.root == NoNode {
		return out, nil
	}
	var walk func(NodeID) error
	walk = func(id NodeID) error {
		if t.nodes[id].level == Line {
			s, err := t.Text(id)
			if err != nil {
				return err
			}
			if strings.TrimSpace(s) != "" {
				out = append(out, id)
			}
			return nil
		}
		for _, c := range t.nodes[id].children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t.root); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats summarizes a tree.
type Stats struct {
	Levels map[Level]int
	Words  int
	Chars  int
}

// Stats counts nodes per level and the words and characters of all word
// level text below the root.
func (t *Tree) Stats() Stats {
	s := Stats{Levels: map[Level]int{}}
	if t.root == NoNode {
		return s
	}
	for _, id := range t.Flatten(t.root) {
		n := &t.nodes[id]
		s.Levels[n.level]++
		if n.level == Word && n.hasText {
			s.Words++
			s.Chars += utf8.RuneCountInString(n.text)
		}
	}
	return s
}
