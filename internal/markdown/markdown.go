// Package markdown converts definition markdown for the output formats.
package markdown

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

const extensions = blackfriday.CommonExtensions &^ blackfriday.HeadingIDs

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
	latexEscaper      = strings.NewReplacer(
		`\`, `\textbackslash{}`,
		`{`, `\{`, `}`, `\}`,
		`$`, `\$`, `#`, `\#`, `%`, `\%`, `_`, `\_`,
		`^`, `\^{}`, `~`, `\~{}`,
	)
	xmlEscaper = strings.NewReplacer(`&`, `&amp;`, `<`, `&lt;`, `>`, `&gt;`)
)

// ToHTML renders md as XHTML. Raw html in md is dropped unless allowRawHTML.
func ToHTML(md string, allowRawHTML bool) string {
	flags := blackfriday.UseXHTML
	if !allowRawHTML {
		flags |= blackfriday.SkipHTML
	}
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: flags,
	})
	out := blackfriday.Run([]byte(md),
		blackfriday.WithExtensions(extensions),
		blackfriday.WithRenderer(renderer),
	)
	return strings.TrimSpace(string(out))
}

type Mode int

const (
	// Plain drops all markup.
	Plain Mode = iota
	// LaTeX writes \textit and itemize environments.
	LaTeX
	// TEI writes <hi>, <list> and <lb/> elements.
	TEI
)

// ToText renders md in one of the text modes.
func ToText(md string, mode Mode) string {
	out := blackfriday.Run([]byte(md),
		blackfriday.WithExtensions(extensions),
		blackfriday.WithRenderer(&textRenderer{mode: mode}),
	)
	s := blankLinesPattern.ReplaceAllString(string(out), "\n\n")
	return strings.TrimSpace(s)
}

type textRenderer struct {
	mode Mode
}

func (r *textRenderer) RenderHeader(w io.Writer, ast *blackfriday.Node) {}
func (r *textRenderer) RenderFooter(w io.Writer, ast *blackfriday.Node) {}

func (r *textRenderer) escape(b []byte) string {
	switch r.mode {
	case LaTeX:
		return latexEscaper.Replace(string(b))
	case TEI:
		return xmlEscaper.Replace(string(b))
	default:
		return string(b)
	}
}

func (r *textRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	var buf bytes.Buffer
	switch node.Type {
	case blackfriday.Text, blackfriday.Code:
		buf.WriteString(r.escape(node.Literal))
	case blackfriday.CodeBlock:
		buf.WriteString(r.escape(node.Literal))
		buf.WriteString("\n\n")
	case blackfriday.HTMLBlock:
		buf.WriteString(r.escape(tagPattern.ReplaceAll(node.Literal, nil)))
		buf.WriteString("\n\n")
	case blackfriday.HTMLSpan, blackfriday.Image, blackfriday.HorizontalRule:
	case blackfriday.Softbreak:
		buf.WriteString(" ")
	case blackfriday.Hardbreak:
		switch r.mode {
		case LaTeX:
			buf.WriteString("\\\\\n")
		case TEI:
			buf.WriteString("<lb/>")
		default:
			buf.WriteString("\n")
		}
	case blackfriday.Paragraph, blackfriday.Heading:
		if !entering && !isTightItem(node) {
			buf.WriteString("\n\n")
		}
	case blackfriday.Emph:
		buf.WriteString(r.inline(entering, `\textit{`, `<hi rend="italic">`, "</hi>"))
	case blackfriday.Strong:
		buf.WriteString(r.inline(entering, `\textbf{`, `<hi rend="bold">`, "</hi>"))
	case blackfriday.List:
		buf.WriteString(r.list(node, entering))
	case blackfriday.Item:
		buf.WriteString(r.item(node, entering))
	}
	_, _ = w.Write(buf.Bytes())
	return blackfriday.GoToNext
}

func (r *textRenderer) inline(entering bool, latexOpen, teiOpen, teiClose string) string {
	switch r.mode {
	case LaTeX:
		if entering {
			return latexOpen
		}
		return "}"
	case TEI:
		if entering {
			return teiOpen
		}
		return teiClose
	}
	return ""
}

func (r *textRenderer) list(node *blackfriday.Node, entering bool) string {
	ordered := node.ListFlags&blackfriday.ListTypeOrdered != 0
	switch r.mode {
	case LaTeX:
		env := "itemize"
		if ordered {
			env = "enumerate"
		}
		if entering {
			return `\begin{` + env + "}\n"
		}
		return `\end{` + env + "}\n\n"
	case TEI:
		if entering {
			if ordered {
				return `<list type="ordered">`
			}
			return "<list>"
		}
		return "</list>\n\n"
	}
	if !entering {
		return "\n"
	}
	return ""
}

func (r *textRenderer) item(node *blackfriday.Node, entering bool) string {
	switch r.mode {
	case LaTeX:
		if entering {
			return `\item `
		}
		return "\n"
	case TEI:
		if entering {
			return "<item>"
		}
		return "</item>"
	}
	if entering {
		return "- "
	}
	return "\n"
}

func isTightItem(node *blackfriday.Node) bool {
	p := node.Parent
	if p == nil || p.Type != blackfriday.Item || p.Parent == nil {
		return false
	}
	return p.Parent.Type == blackfriday.List && p.Parent.Tight
}

// EscapeLaTeX escapes the LaTeX special characters of s, except "&".
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}
