package normalize

import (
	"regexp"
	"strings"

	"github.com/at-ishikawa/dictforge/internal/alphabet"
	"github.com/at-ishikawa/dictforge/internal/dictionary"
)

// ExtractAlsoWrittenAs moves alternate spellings out of the definition.
//
// A definition may open with the spelling written with optional letters in
// parentheses, "a(b)c(d)e" or "a(b)c", or with an italic variant followed
// by a comma. The three shapes are tried in that order, each against what
// the previous one left, so a single definition can yield several
// fragments. Explicit "(also written as X)" notes are extracted anywhere.
func ExtractAlsoWrittenAs(e *dictionary.Entry) {
	headword := alphabet.Fold(e.Word)
	s := e.Definition
	var found []string

	if m := alsoTwoGroupPattern.FindStringSubmatch(s); m != nil {
		a, b, c, d, rest := m[1], m[2], m[3], m[4], m[5]
		found = append(found,
			a+c+rest,
			a+b+c+rest,
			a+c+d+rest,
			a+b+c+d+rest,
		)
		s = s[len(m[0]):]
	}
	if m := alsoOneGroupPattern.FindStringSubmatch(s); m != nil {
		a, b, rest := m[1], m[2], m[3]
		found = append(found, a+rest, a+b+rest)
		s = s[len(m[0]):]
	}
	if m := alsoZeroGroupPattern.FindStringSubmatch(s); m != nil && alphabet.Fold(m[1]) != headword {
		found = append(found, m[1])
		s = s[len(m[0]):]
	}

	s = extractWrittenAsNotes(s, alsoWrittenItalic, &found)
	s = extractWrittenAsNotes(s, alsoWrittenPlain, &found)

	var variants []string
	for _, v := range found {
		if alphabet.Fold(v) != headword {
			variants = append(variants, v)
		}
	}
	if len(variants) == 0 && s == e.Definition {
		return
	}
	e.AlsoWrittenAs = appendUnique(e.AlsoWrittenAs, variants...)
	e.Definition = collapseSpaces(s)
}

func extractWrittenAsNotes(s string, pattern *regexp.Regexp, found *[]string) string {
	return pattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := pattern.FindStringSubmatch(m)
		for _, v := range alsoWrittenListSplitter.Split(sub[1], -1) {
			v = strings.Trim(strings.TrimSpace(v), "*")
			if v != "" {
				*found = append(*found, v)
			}
		}
		return ""
	})
}
