package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/at-ishikawa/dictforge/internal/assets"
	"github.com/at-ishikawa/dictforge/internal/links"
	"github.com/at-ishikawa/dictforge/internal/markdown"
)

// Format is the per-tag rendering strategy.
type Format interface {
	Tag() Tag
	// Plain reports whether inline html is stripped before normalization.
	Plain() bool
	// Paginated formats render one page per letter group.
	Paginated() bool
	Extension() string
	// Template is the entries template of a paginated format, or the
	// whole document template otherwise.
	Template() string
	Style(anchors links.Anchors) links.Style
	// EscapeLists escapes "&" in rewritten synonym and see-also lists.
	EscapeLists() bool
	// Definition converts entry markdown, rendering its references with r.
	Definition(md string, r *links.Resolver, allowRawHTML bool) string
	// Body is the single definition body of lookup formats. Formats whose
	// template lays out the fields return "".
	Body(w Word) string
	PostProcess(doc string) string
}

// FormatFor returns the strategy of tag.
func FormatFor(tag Tag) (Format, error) {
	switch tag {
	case Epub:
		return pagedFormat{tag: Epub, template: assets.EntriesEpub}, nil
	case Mobi:
		return pagedFormat{tag: Mobi, template: assets.EntriesMobi}, nil
	case BabylonGls:
		return babylonFormat{}, nil
	case StardictXMLPlain:
		return stardictFormat{plain: true}, nil
	case StardictXMLHTML:
		return stardictFormat{}, nil
	case LaTeXPlain:
		return latexFormat{}, nil
	case C5Plain:
		return c5Format{plain: true}, nil
	case C5HTML:
		return c5Format{}, nil
	case TEIPlain:
		return teiFormat{plain: true}, nil
	case TEIFormatted:
		return teiFormat{}, nil
	}
	return nil, fmt.Errorf("no format for %s", tag)
}

var (
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
	newlinePattern    = regexp.MustCompile(`[ \t]*\n+[ \t]*`)
	betweenTagPattern = regexp.MustCompile(`>[ \t]*\n\s*<`)
	cdataPattern      = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	definitionOpen    = regexp.MustCompile(`(<definition[^>]*>)\s+`)
	definitionClose   = regexp.MustCompile(`\s+(</definition>)`)
)

func convert(md string, r *links.Resolver, fn func(string) string) string {
	protected, restore := r.Protect(md)
	return restore(fn(protected))
}

func htmlDefinition(md string, r *links.Resolver, allowRawHTML bool) string {
	return convert(md, r, func(s string) string {
		return markdown.ToHTML(s, allowRawHTML)
	})
}

func textDefinition(md string, r *links.Resolver, mode markdown.Mode) string {
	return convert(md, r, func(s string) string {
		return markdown.ToText(s, mode)
	})
}

func collapseBlankRuns(s string) string {
	return blankRunPattern.ReplaceAllString(s, "\n\n")
}

func unescapeAmpersand(s string) string {
	return strings.ReplaceAll(s, "&amp;", "&")
}

func trimDefinitions(s string) string {
	s = definitionOpen.ReplaceAllString(s, "$1")
	return definitionClose.ReplaceAllString(s, "$1")
}

// pagedFormat is Epub and Mobi.
type pagedFormat struct {
	tag      Tag
	template string
}

func (f pagedFormat) Tag() Tag { return f.tag }
func (f pagedFormat) Plain() bool { return false }
func (f pagedFormat) Paginated() bool { return true }
func (f pagedFormat) Template() string { return f.template }
func (f pagedFormat) EscapeLists() bool { return true }
func (f pagedFormat) Body(Word) string { return "" }

func (f pagedFormat) Extension() string {
	if f.tag == Mobi {
		return ".mobi"
	}
	return ".epub"
}

func (f pagedFormat) Style(anchors links.Anchors) links.Style {
	return links.AnchorStyle{Anchors: anchors}
}

func (f pagedFormat) Definition(md string, r *links.Resolver, allowRawHTML bool) string {
	return htmlDefinition(md, r, allowRawHTML)
}

func (f pagedFormat) PostProcess(doc string) string {
	return collapseBlankRuns(doc)
}

type babylonFormat struct{}

func (babylonFormat) Tag() Tag { return BabylonGls }
func (babylonFormat) Plain() bool { return false }
func (babylonFormat) Paginated() bool { return false }
func (babylonFormat) Extension() string { return ".gls" }
func (babylonFormat) Template() string { return assets.Babylon }
func (babylonFormat) Style(links.Anchors) links.Style { return links.LookupStyle{} }
func (babylonFormat) EscapeLists() bool { return true }

func (babylonFormat) Definition(md string, r *links.Resolver, allowRawHTML bool) string {
	return htmlDefinition(md, r, allowRawHTML)
}

// Body is one line: babylon separates entries by blank lines.
func (babylonFormat) Body(w Word) string {
	s := betweenTagPattern.ReplaceAllString(htmlBody(w), "><")
	return strings.TrimSpace(newlinePattern.ReplaceAllString(s, " "))
}

func (babylonFormat) PostProcess(doc string) string {
	return collapseBlankRuns(doc)
}

type stardictFormat struct {
	plain bool
}

func (f stardictFormat) Tag() Tag {
	if f.plain {
		return StardictXMLPlain
	}
	return StardictXMLHTML
}

func (f stardictFormat) Plain() bool { return f.plain }
func (f stardictFormat) Paginated() bool { return false }
func (f stardictFormat) Extension() string { return ".xml" }
func (f stardictFormat) Template() string { return assets.StardictTextual }
func (f stardictFormat) EscapeLists() bool { return !f.plain }

func (f stardictFormat) Style(links.Anchors) links.Style {
	if f.plain {
		return links.PlainStyle{}
	}
	return links.LookupStyle{}
}

func (f stardictFormat) Definition(md string, r *links.Resolver, allowRawHTML bool) string {
	if f.plain {
		return textDefinition(md, r, markdown.Plain)
	}
	return htmlDefinition(md, r, allowRawHTML)
}

func (f stardictFormat) Body(w Word) string {
	if f.plain {
		return textBody(w)
	}
	return htmlBody(w)
}

// PostProcess unescapes ampersands of plain bodies inside CDATA only, the
// surrounding XML keeps its entities.
func (f stardictFormat) PostProcess(doc string) string {
	if f.plain {
		doc = cdataPattern.ReplaceAllStringFunc(doc, unescapeAmpersand)
	}
	return trimDefinitions(collapseBlankRuns(doc))
}

type latexFormat struct{}

func (latexFormat) Tag() Tag { return LaTeXPlain }
func (latexFormat) Plain() bool { return true }
func (latexFormat) Paginated() bool { return false }
func (latexFormat) Extension() string { return ".tex" }
func (latexFormat) Template() string { return assets.LaTeX }
func (latexFormat) Style(links.Anchors) links.Style { return links.BareStyle{} }
func (latexFormat) EscapeLists() bool { return false }
func (latexFormat) Body(Word) string { return "" }

func (latexFormat) Definition(md string, r *links.Resolver, _ bool) string {
	return textDefinition(md, r, markdown.LaTeX)
}

func (latexFormat) PostProcess(doc string) string {
	doc = strings.ReplaceAll(unescapeAmpersand(doc), `\&`, "&")
	return collapseBlankRuns(strings.ReplaceAll(doc, "&", `\&`))
}

type c5Format struct {
	plain bool
}

func (f c5Format) Tag() Tag {
	if f.plain {
		return C5Plain
	}
	return C5HTML
}

func (f c5Format) Plain() bool { return f.plain }
func (f c5Format) Paginated() bool { return false }
func (f c5Format) Extension() string { return ".txt" }
func (f c5Format) Template() string { return assets.C5 }
func (f c5Format) EscapeLists() bool { return !f.plain }
func (f c5Format) Body(Word) string { return "" }

func (f c5Format) Style(links.Anchors) links.Style {
	return links.C5Style{HTML: !f.plain}
}

func (f c5Format) Definition(md string, r *links.Resolver, allowRawHTML bool) string {
	if f.plain {
		return textDefinition(md, r, markdown.Plain)
	}
	return htmlDefinition(md, r, allowRawHTML)
}

func (f c5Format) PostProcess(doc string) string {
	if f.plain {
		doc = unescapeAmpersand(doc)
	}
	return collapseBlankRuns(doc)
}

type teiFormat struct {
	plain bool
}

func (f teiFormat) Tag() Tag {
	if f.plain {
		return TEIPlain
	}
	return TEIFormatted
}

func (f teiFormat) Plain() bool { return f.plain }
func (f teiFormat) Paginated() bool { return false }
func (f teiFormat) Extension() string { return ".xml" }
func (f teiFormat) Template() string { return assets.TEI }
func (f teiFormat) Style(links.Anchors) links.Style { return links.TEIStyle{} }
func (f teiFormat) EscapeLists() bool { return true }
func (f teiFormat) Body(Word) string { return "" }

func (f teiFormat) Definition(md string, r *links.Resolver, _ bool) string {
	if f.plain {
		return convert(md, r, func(s string) string {
			return html.EscapeString(markdown.ToText(s, markdown.Plain))
		})
	}
	return textDefinition(md, r, markdown.TEI)
}

func (f teiFormat) PostProcess(doc string) string {
	return collapseBlankRuns(doc)
}

// htmlBody lays out a word for html lookup formats.
func htmlBody(w Word) string {
	var b strings.Builder
	numbered := len(w.Meanings) > 1
	phonetic := ""
	if w.Phonetic != "" {
		phonetic = "<span>[" + html.EscapeString(w.Phonetic) + "]</span>"
	}
	if numbered {
		writeParagraph(&b, phonetic)
	}
	for _, m := range w.Meanings {
		grammar := ""
		if m.GrammarComment != "" {
			grammar = `<i style="color: green;">` + html.EscapeString(m.GrammarComment) + "</i>"
		}
		if numbered {
			writeParagraph(&b, fmt.Sprintf("<b>%d.</b>", m.Order), grammar)
		} else {
			writeParagraph(&b, grammar, phonetic)
		}
		b.WriteString(m.Definition)
		b.WriteString("\n")
	}
	writeRelated(&b, "Synonyms", w.Synonyms)
	writeRelated(&b, "Antonyms", w.Antonyms)
	writeRelated(&b, "See also", w.SeeAlso)
	return strings.TrimSpace(b.String())
}

func writeParagraph(b *strings.Builder, parts ...string) {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return
	}
	b.WriteString("<p>" + strings.Join(kept, " ") + "</p>\n")
}

func writeRelated(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("<p>" + label + ": " + strings.Join(items, ", ") + "</p>\n")
}

// textBody lays out a word for plain lookup formats.
func textBody(w Word) string {
	var lines []string
	if w.Phonetic != "" {
		lines = append(lines, "["+w.Phonetic+"]")
	}
	numbered := len(w.Meanings) > 1
	for _, m := range w.Meanings {
		var head []string
		if numbered {
			head = append(head, fmt.Sprintf("%d.", m.Order))
		}
		if m.GrammarComment != "" {
			head = append(head, m.GrammarComment)
		}
		if len(head) > 0 {
			lines = append(lines, strings.Join(head, " "))
		}
		if m.Definition != "" {
			lines = append(lines, m.Definition)
		}
	}
	for _, related := range []struct {
		label string
		items []string
	}{
		{"Synonyms", w.Synonyms},
		{"Antonyms", w.Antonyms},
		{"See also", w.SeeAlso},
	} {
		if len(related.items) > 0 {
			lines = append(lines, related.label+": "+strings.Join(related.items, ", "))
		}
	}
	return strings.Join(lines, "\n")
}
