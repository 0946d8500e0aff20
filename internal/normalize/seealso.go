package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
)

// MineSeeAlso collects cross references of the definition into the see-also
// list. "(also A, B and C)" and "(see *A*)" notes are rewritten into
// canonical "(see [A](/define/A), ...)" links first. When strip is set, the
// "(see ...)" spans are removed from the visible text afterwards.
func MineSeeAlso(e *dictionary.Entry, strip bool) {
	s := seeAlsoNotePattern.ReplaceAllStringFunc(e.Definition, func(m string) string {
		sub := seeAlsoNotePattern.FindStringSubmatch(m)
		var links []string
		for _, item := range sub[1:] {
			if item == "" {
				continue
			}
			links = append(links, fmt.Sprintf("[%s](%s%s)", item, definePrefix, item))
		}
		return "(see " + strings.Join(links, ", ") + ")"
	})

	var canonical []string
	s = defineLinkPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := defineLinkPattern.FindStringSubmatch(m)
		label, target, decoration := strings.TrimSpace(sub[1]), strings.TrimSpace(sub[2]), sub[3]
		if target != e.Word {
			e.SeeAlso = appendUnique(e.SeeAlso, target)
		}
		canonical = append(canonical, fmt.Sprintf("[%s](%s%s)%s", label, definePrefix, target, decoration))
		return "@@SEEALSO" + strconv.Itoa(len(canonical)-1) + "@@"
	})

	if strip {
		s = seeSpanPattern.ReplaceAllString(s, "")
		s = spaceBeforePunct.ReplaceAllString(s, "$1")
		s = danglingSeparatorRe.ReplaceAllString(s, "")
	}

	s = placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := placeholderPattern.FindStringSubmatch(m)
		i, err := strconv.Atoi(sub[1])
		if err != nil || i >= len(canonical) {
			return m
		}
		return canonical[i]
	})

	if s != e.Definition {
		e.Definition = collapseSpaces(s)
	}
}
