package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/k3a/html2text"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
)

// DeriveSummary fills an empty summary with a short gloss taken from the
// definition.
func DeriveSummary(e *dictionary.Entry) {
	e.Summary = strings.TrimSpace(e.Summary)
	if e.Summary != "" {
		return
	}
	e.Summary = Summarize(e.Word, e.Definition)
}

// Summarize reduces a markdown definition to at most 50 runes of plain text
// with leading grammar notes and headword echoes removed.
func Summarize(word, definition string) string {
	s := strings.ReplaceAll(strings.TrimSpace(definition), "\n", " ")
	s = spacesPattern.ReplaceAllString(s, " ")

	s = summaryTagPattern.ReplaceAllString(s, "")
	if strings.ContainsAny(s, "<&") {
		s = html2text.HTML2Text(s)
	}
	s = summaryControlPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, `\\`, "")
	s = strings.ReplaceAll(s, `\`, "")

	s = summarySeeLinkPattern.ReplaceAllString(s, "(see $1)")
	s = summaryLinkPattern.ReplaceAllString(s, "$1")
	s = summaryMarkupPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(spacesPattern.ReplaceAllString(s, " "))

	word = strings.TrimSpace(word)
	for i := 0; i < summaryMaxIterations; i++ {
		prev := s
		s = stripLeadingWord(s, word)
		s = strings.TrimSpace(s)
		s = trimPattern(s, summaryHyphenated3)
		s = trimPattern(s, summaryHyphenated2)
		s = strings.TrimSpace(trimPattern(s, summaryOrdinalPattern))
		s = strings.TrimSpace(trimPattern(s, summaryFromPattern))
		s = strings.TrimSpace(trimPattern(s, summarySuffixPattern))
		for _, prefix := range summaryLeadingPrefixes {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
		}
		for _, p := range abbreviationPatterns {
			s = strings.TrimSpace(trimPattern(s, p))
		}
		for _, p := range irregularPatterns {
			s = strings.TrimSpace(trimPattern(s, p))
		}
		if s == prev {
			break
		}
	}

	return strings.TrimSpace(truncateRunes(s, summaryMaxRunes))
}

// stripLeadingWord removes word, or word with a different final letter, from
// the front of s when it stands alone.
func stripLeadingWord(s, word string) string {
	if word == "" {
		return s
	}
	if rest, ok := strings.CutPrefix(s, word); ok && startsWithBoundary(rest) {
		return rest
	}
	_, size := utf8.DecodeLastRuneInString(word)
	stem := word[:len(word)-size]
	if stem == "" {
		return s
	}
	if rest, ok := strings.CutPrefix(s, stem); ok {
		r, n := utf8.DecodeRuneInString(rest)
		if n > 0 && unicode.IsLetter(r) && startsWithBoundary(rest[n:]) {
			return rest[n:]
		}
	}
	return s
}

func startsWithBoundary(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
