// Package links rewrites "[label](/define/target)" cross references and
// bare headword mentions into the linking convention of an output format.
package links

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
	"github.com/at-ishikawa/dictforge/internal/markdown"
)

// Private use code points delimit protected references.
const (
	tokenOpen  = "\uE000"
	tokenClose = "\uE001"
)

var (
	referencePattern = regexp.MustCompile(`\[([^\]]+)\]\(/define/([^)]+)\)`)
	tokenPattern     = regexp.MustCompile(tokenOpen + "([0-9]+)" + tokenClose)
	// An entity, or a bare ampersand that still needs escaping.
	ampersandPattern = regexp.MustCompile(`&(?:#[0-9]+;|#[xX][0-9a-fA-F]+;|[a-zA-Z][a-zA-Z0-9]*;)?`)
	angleEscaper     = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// Ref is a cross reference found in an entry.
type Ref struct {
	Label  string
	Target string
	// URLID is the entry the target resolves to. Empty when unknown.
	URLID string
}

// Style renders references for one family of formats.
type Style interface {
	Known(ref Ref) string
	Unknown(ref Ref) string
}

// Headwords looks up the entry registered under a headword form.
type Headwords interface {
	Headword(form string) (*dictionary.Entry, bool)
}

type Resolver struct {
	style           Style
	headwords       Headwords
	escapeAmpersand bool
}

// NewResolver returns a resolver. escapeAmpersand escapes "&" in rewritten
// list items for XML and HTML targets.
func NewResolver(style Style, headwords Headwords, escapeAmpersand bool) *Resolver {
	return &Resolver{
		style:           style,
		headwords:       headwords,
		escapeAmpersand: escapeAmpersand,
	}
}

func (r *Resolver) render(label, target string) string {
	ref := Ref{Label: strings.TrimSpace(label), Target: strings.TrimSpace(target)}
	if e, ok := r.headwords.Headword(ref.Target); ok {
		ref.URLID = e.URLID
		return r.style.Known(ref)
	}
	return r.style.Unknown(ref)
}

// Protect swaps the references of s for opaque tokens so the caller can
// convert the text without touching them. restore puts the rendered
// references back.
func (r *Resolver) Protect(s string) (string, func(string) string) {
	var rendered []string
	protected := referencePattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := referencePattern.FindStringSubmatch(m)
		rendered = append(rendered, r.render(sub[1], sub[2]))
		return tokenOpen + strconv.Itoa(len(rendered)-1) + tokenClose
	})
	restore := func(converted string) string {
		return tokenPattern.ReplaceAllStringFunc(converted, func(m string) string {
			sub := tokenPattern.FindStringSubmatch(m)
			i, err := strconv.Atoi(sub[1])
			if err != nil || i >= len(rendered) {
				return m
			}
			return rendered[i]
		})
	}
	return protected, restore
}

// ResolveText rewrites the references of s in place.
func (r *Resolver) ResolveText(s string) string {
	protected, restore := r.Protect(s)
	return restore(protected)
}

// ResolveList rewrites bare headword mentions such as synonyms.
func (r *Resolver) ResolveList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		s := r.render(item, item)
		if r.escapeAmpersand {
			s = EscapeAmpersand(s)
		}
		out = append(out, s)
	}
	return out
}

// EscapeAmpersand escapes bare "&" and leaves entities such as "&amp;" or
// "&#39;" alone, so it can run over already escaped text.
func EscapeAmpersand(s string) string {
	return ampersandPattern.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
}

// escapeMarkup makes a label safe as XML or HTML character data.
func escapeMarkup(s string) string {
	return angleEscaper.Replace(EscapeAmpersand(s))
}

// Anchors maps headwords to "page#id" inside a paginated book.
type Anchors interface {
	Anchor(word string) (string, bool)
}

// AnchorStyle links known headwords to their page anchor and italicizes
// the rest. Used by Epub and Mobi.
type AnchorStyle struct {
	Anchors Anchors
}

func (s AnchorStyle) Known(ref Ref) string {
	href, ok := s.Anchors.Anchor(ref.Target)
	if !ok {
		return s.Unknown(ref)
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), escapeMarkup(ref.Label))
}

func (s AnchorStyle) Unknown(ref Ref) string {
	return "<i>" + escapeMarkup(ref.Label) + "</i>"
}

// LookupStyle links through the bword:// scheme of lookup applications.
type LookupStyle struct{}

func (LookupStyle) Known(ref Ref) string {
	return fmt.Sprintf(`<a href="bword://%s">%s</a>`, html.EscapeString(ref.Target), escapeMarkup(ref.Label))
}

func (LookupStyle) Unknown(ref Ref) string {
	return escapeMarkup(ref.Label)
}

// PlainStyle drops references to their label.
type PlainStyle struct{}

func (PlainStyle) Known(ref Ref) string   { return ref.Label }
func (PlainStyle) Unknown(ref Ref) string { return ref.Label }

// C5Style uses the dictd "{headword}" cross reference syntax.
type C5Style struct {
	HTML bool
}

func (s C5Style) Known(ref Ref) string {
	label, target := ref.Label, ref.Target
	if s.HTML {
		label, target = escapeMarkup(label), escapeMarkup(target)
	}
	if ref.Label == ref.Target {
		return "{" + target + "}"
	}
	return label + " {" + target + "}"
}

func (s C5Style) Unknown(ref Ref) string {
	if s.HTML {
		return "<i>" + escapeMarkup(ref.Label) + "</i>"
	}
	return "*" + ref.Label + "*"
}

// TEIStyle points <ref> elements at the xml:id of the target entry.
type TEIStyle struct{}

func (TEIStyle) Known(ref Ref) string {
	return fmt.Sprintf(`<ref target="#%s">%s</ref>`, ref.URLID, escapeMarkup(ref.Label))
}

func (TEIStyle) Unknown(ref Ref) string {
	return `<hi rend="italic">` + escapeMarkup(ref.Label) + "</hi>"
}

// BareStyle prints the label only, escaped for LaTeX. "&" is left to the
// document post-processing.
type BareStyle struct{}

func (BareStyle) Known(ref Ref) string   { return markdown.EscapeLaTeX(ref.Label) }
func (BareStyle) Unknown(ref Ref) string { return markdown.EscapeLaTeX(ref.Label) }
