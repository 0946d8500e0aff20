package render

import (
	"slices"
	"strings"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
	"github.com/at-ishikawa/dictforge/internal/links"
)

// Meaning is one sense of a rendered word.
type Meaning struct {
	// ID is the url_id of the entry the meaning came from.
	ID             string
	Order          int
	Numbered       bool
	GrammarComment string
	Grammar        dictionary.Grammar
	Definition     string
	Examples       []string
	Comment        string
}

// Word merges the entries sharing a headword and label.
type Word struct {
	ID              string
	Word            string
	DictLabel       string
	Phonetic        string
	Summary         string
	Transliteration string
	Nominative      string
	Inflections     []string
	Synonyms        []string
	Antonyms        []string
	Variants        []string
	AlsoWrittenAs   []string
	SeeAlso         []string
	Meanings        []Meaning
	Body            string
}

type wordKey struct {
	word  string
	label string
}

func mergeWords(entries []*dictionary.Entry, format Format, resolver *links.Resolver, allowRawHTML bool) []Word {
	var words []*Word
	byKey := make(map[wordKey]*Word)
	for _, e := range entries {
		key := wordKey{word: e.Word, label: e.DictLabel}
		w, ok := byKey[key]
		if !ok {
			w = &Word{
				ID:              e.URLID,
				Word:            e.Word,
				DictLabel:       e.DictLabel,
				Phonetic:        e.Phonetic,
				Summary:         e.Summary,
				Transliteration: e.Transliteration,
				Nominative:      e.Nominative,
			}
			byKey[key] = w
			words = append(words, w)
		}
		fillEmpty(&w.Phonetic, e.Phonetic)
		fillEmpty(&w.Summary, e.Summary)
		fillEmpty(&w.Transliteration, e.Transliteration)
		fillEmpty(&w.Nominative, e.Nominative)
		w.Inflections = appendMissing(w.Inflections, e.Inflections...)
		w.Synonyms = appendMissing(w.Synonyms, e.Synonyms...)
		w.Antonyms = appendMissing(w.Antonyms, e.Antonyms...)
		w.Variants = appendMissing(w.Variants, e.Variants...)
		w.AlsoWrittenAs = appendMissing(w.AlsoWrittenAs, e.AlsoWrittenAs...)
		w.SeeAlso = appendMissing(w.SeeAlso, e.SeeAlso...)

		examples := make([]string, 0, len(e.Examples))
		for _, ex := range e.Examples {
			examples = append(examples, format.Definition(ex, resolver, allowRawHTML))
		}
		w.Meanings = append(w.Meanings, Meaning{
			ID:             e.URLID,
			GrammarComment: e.GrammarComment,
			Grammar:        e.Grammar,
			Definition:     format.Definition(e.Definition, resolver, allowRawHTML),
			Examples:       examples,
			Comment:        e.Comment,
		})
	}

	out := make([]Word, 0, len(words))
	for _, w := range words {
		for i := range w.Meanings {
			w.Meanings[i].Order = i + 1
			w.Meanings[i].Numbered = len(w.Meanings) > 1
		}
		w.Synonyms = resolver.ResolveList(w.Synonyms)
		w.Antonyms = resolver.ResolveList(w.Antonyms)
		w.SeeAlso = resolver.ResolveList(w.SeeAlso)
		w.Body = format.Body(*w)
		out = append(out, *w)
	}
	return out
}

func fillEmpty(v *string, s string) {
	if *v == "" {
		*v = s
	}
}

func appendMissing(list []string, items ...string) []string {
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !slices.Contains(list, item) {
			list = append(list, item)
		}
	}
	return list
}
