// Package lettergroup paginates a dictionary by leading letter and indexes
// the page anchor of every headword.
package lettergroup

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/at-ishikawa/dictforge/internal/alphabet"
	"github.com/at-ishikawa/dictforge/internal/dictionary"
)

// UnclassifiedLetter is shown for words that start outside the alphabet.
const UnclassifiedLetter = "#"

type Group struct {
	Index   int
	Letter  string
	Title   string
	Entries []*dictionary.Entry
}

// FileName is keyed by alphabet index, so empty letters leave gaps.
func (g Group) FileName() string {
	return fmt.Sprintf("entries-%02d.xhtml", g.Index)
}

func (g Group) ManifestID() string {
	return fmt.Sprintf("item_entries_%02d", g.Index)
}

type Groups struct {
	groups  []Group
	anchors map[string]string
}

// Build groups the entries of d in their stored order.
func Build(d *dictionary.Dictionary) *Groups {
	byIndex := make(map[int]*Group)
	for _, e := range d.Entries() {
		index := alphabet.LetterIndex(e.Word)
		g, ok := byIndex[index]
		if !ok {
			letter := alphabet.Letter(index)
			if letter == "" {
				letter = UnclassifiedLetter
			}
			g = &Group{Index: index, Letter: letter}
			byIndex[index] = g
		}
		g.Entries = append(g.Entries, e)
	}

	groups := make([]Group, 0, len(byIndex))
	for _, g := range byIndex {
		groups = append(groups, *g)
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return a.Index - b.Index
	})
	if len(groups) > 0 {
		groups[0].Title = d.Metadata.Title
	}

	anchors := make(map[string]string)
	register := func(form, anchor string) {
		if _, ok := anchors[form]; !ok {
			anchors[form] = anchor
		}
	}
	for _, g := range groups {
		for _, e := range g.Entries {
			anchor := g.FileName() + "#" + e.URLID
			register(e.Word, anchor)
			if e.MeaningOrder > 1 {
				register(e.Word+strconv.Itoa(e.MeaningOrder), anchor)
			}
		}
	}

	return &Groups{
		groups:  groups,
		anchors: anchors,
	}
}

// All returns the non-empty groups in alphabet order.
func (g *Groups) All() []Group {
	return g.groups
}

func (g *Groups) Len() int {
	return len(g.groups)
}

// Anchor returns "entries-NN.xhtml#url_id" for a headword. Homographs share
// the anchor of their first entry; numbered forms such as "dhamma2" point
// to their own entry.
func (g *Groups) Anchor(word string) (string, bool) {
	a, ok := g.anchors[word]
	return a, ok
}

// Anchors returns a copy of the word to anchor index.
func (g *Groups) Anchors() map[string]string {
	out := make(map[string]string, len(g.anchors))
	for k, v := range g.anchors {
		out[k] = v
	}
	return out
}
