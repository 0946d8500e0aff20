package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
)

const definePrefix = "/define/"

// Tidy repairs link and emphasis markup in a definition.
func Tidy(s string) string {
	s = emptyLinkLabelPattern.ReplaceAllString(s, "")
	s = emptyLinkTargetPattern.ReplaceAllString(s, "$1")

	s = emphasizedLinkPattern.ReplaceAllString(s, "$1")
	s = htmlEmphasizedLink.ReplaceAllString(s, "$1")
	s = htmlItalicPattern.ReplaceAllString(s, "*$1*")
	s = htmlBoldPattern.ReplaceAllString(s, "**$1**")

	s = uncertainLabelPattern.ReplaceAllString(s, "[$1](/define/$2) (?)")
	s = uncertainTargetPattern.ReplaceAllString(s, "[$1](/define/$2) (?)")

	s = internalLinkPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := internalLinkPattern.FindStringSubmatch(m)
		if strings.HasPrefix(sub[2], definePrefix) {
			return m
		}
		return sub[1]
	})

	return s
}

// StripRepeatedTitle removes a first line that only repeats the headword.
func StripRepeatedTitle(e *dictionary.Entry) {
	trimmed := strings.TrimLeft(e.Definition, " \t\n")
	line, rest, ok := strings.Cut(trimmed, "\n")
	if !ok {
		return
	}
	core := strings.Trim(strings.TrimSpace(line), "*_")
	word := strings.TrimSpace(e.Word)
	if word == "" {
		return
	}
	title := cases.Title(language.Und, cases.NoLower).String(word)
	if core != word && core != title {
		return
	}
	e.Definition = strings.TrimLeft(rest, "\n")
}
