package normalize

import (
	"regexp"
	"strings"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
)

// ExtractGrammarNote moves a leading run of grammar abbreviations such as
// "m. (& n.)" from the definition into the grammar comment.
func ExtractGrammarNote(e *dictionary.Entry) {
	original := strings.TrimLeft(e.Definition, " \t\n")
	rest := stripGrammarPrefix(original)
	if rest == original {
		return
	}

	consumed := original[:len(original)-len(rest)]
	note := strings.TrimRight(strings.TrimSpace(consumed), ", ")
	switch {
	case note == "":
	case e.GrammarComment == "":
		e.GrammarComment = note
	default:
		e.GrammarComment = e.GrammarComment + " " + note
	}
	e.Definition = strings.TrimSpace(rest)
}

// stripGrammarPrefix only removes from the front of s, so the result is
// always a suffix of s. Every round but the last shortens s, so the loop
// is bounded by len(s) and ends when nothing more matches: a second call is
// a no-op.
func stripGrammarPrefix(s string) string {
	for bound := len(s); bound >= 0; bound-- {
		prev := s
		s = trimPattern(s, uncertainMarkerPattern)
		s = trimPattern(s, lonePPPattern)
		s = trimRepeated(s, irregularPatterns)
		s = trimRepeated(s, abbreviationPatterns)
		s = trimPattern(s, residualPunctuationPattern)
		if s == prev {
			break
		}
	}
	return s
}

// trimRepeated strips a leading run of tokens matched by any of patterns,
// with the separators between them.
func trimRepeated(s string, patterns []*regexp.Regexp) string {
	for {
		prev := s
		for _, p := range patterns {
			s = trimPattern(s, p)
		}
		if s == prev {
			return prev
		}
		s = trimPattern(s, residualPunctuationPattern)
	}
}

func trimPattern(s string, p *regexp.Regexp) string {
	loc := p.FindStringIndex(s)
	if loc == nil || loc[0] != 0 {
		return s
	}
	return s[loc[1]:]
}
