// Package normalize repairs legacy definition prose and extracts structured
// fields from it. Passes run over the whole corpus one after another.
package normalize

import (
	"log/slog"
	"strings"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
)

type Options struct {
	// Plain strips inline html (sup, em, strong, a, i, b) before any pass.
	Plain bool
	// StripSeeAlso removes literal "(see ...)" spans once their references
	// are collected into the see-also list.
	StripSeeAlso bool
	// Skip runs only tidying and summary derivation.
	Skip bool
}

// Pass mutates one entry. Passes must be total.
type Pass struct {
	Name  string
	Apply func(e *dictionary.Entry)
}

type Normalizer struct {
	options Options
	logger  *slog.Logger
}

func New(options Options, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		options: options,
		logger:  logger,
	}
}

// Passes returns the passes in the order Run applies them.
func (n *Normalizer) Passes() []Pass {
	var passes []Pass
	if n.options.Plain {
		passes = append(passes, Pass{Name: "strip-inline-html", Apply: func(e *dictionary.Entry) {
			e.Definition = StripInlineHTML(e.Definition)
		}})
	}
	passes = append(passes, Pass{Name: "tidy", Apply: func(e *dictionary.Entry) {
		e.Definition = Tidy(e.Definition)
	}})
	if !n.options.Skip {
		passes = append(passes,
			Pass{Name: "also-written-as", Apply: ExtractAlsoWrittenAs},
			Pass{Name: "strip-repeated-title", Apply: StripRepeatedTitle},
			Pass{Name: "grammar-note", Apply: ExtractGrammarNote},
			Pass{Name: "see-also", Apply: func(e *dictionary.Entry) {
				MineSeeAlso(e, n.options.StripSeeAlso)
			}},
		)
	}
	passes = append(passes, Pass{Name: "summary", Apply: DeriveSummary})
	return passes
}

// Run applies every pass to every entry. A pass finishes over the whole
// corpus before the next one starts.
func (n *Normalizer) Run(entries []*dictionary.Entry) {
	for _, pass := range n.Passes() {
		n.logger.Debug("running normalization pass",
			slog.String("pass", pass.Name),
			slog.Int("entries", len(entries)),
		)
		for _, e := range entries {
			pass.Apply(e)
		}
	}
}

// StripInlineHTML removes inline markup plain targets cannot carry.
func StripInlineHTML(s string) string {
	return inlineHTMLPattern.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	s = spacesPattern.ReplaceAllString(s, " ")
	s = blankLinesPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		found := false
		for _, existing := range list {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}
