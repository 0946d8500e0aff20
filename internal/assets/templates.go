// Package assets holds the embedded templates and static files of the
// output formats. A template directory can override any template by name.
package assets

import (
	"embed"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const templateSuffix = ".tmpl"

// Template names.
const (
	EntriesEpub     = "entries-epub.xhtml"
	EntriesMobi     = "entries-mobi.xhtml"
	ContentPage     = "content-page.xhtml"
	HTMLToc         = "htmltoc.xhtml"
	TocNCX          = "toc.ncx"
	PackageOPF      = "package.opf"
	Cover           = "cover.xhtml"
	TitlePage       = "titlepage.xhtml"
	About           = "about.md"
	Copyright       = "copyright.md"
	StardictTextual = "stardict_textual.xml"
	Babylon         = "babylon.gls"
	C5              = "c5.txt"
	TEI             = "tei.xml"
	LaTeX           = "latex.tex"
)

// Templates parses templates from an optional override directory.
type Templates struct {
	directory string
	funcs     template.FuncMap
	logger    *slog.Logger
}

// NewTemplates returns a parser. An empty directory uses the embedded
// templates only. funcs are added to the default function map.
func NewTemplates(directory string, funcs template.FuncMap, logger *slog.Logger) *Templates {
	if logger == nil {
		logger = slog.Default()
	}
	funcMap := template.FuncMap{
		"join": strings.Join,
		"xml":  escapeXML,
		"add":  func(a, b int) int { return a + b },
	}
	for name, fn := range funcs {
		funcMap[name] = fn
	}
	return &Templates{
		directory: directory,
		funcs:     funcMap,
		logger:    logger,
	}
}

// Parse returns the template called name, e.g. "toc.ncx".
func (t *Templates) Parse(name string) (*template.Template, error) {
	var templatePath string
	if t.directory != "" {
		templatePath = filepath.Join(t.directory, name+templateSuffix)
	}
	return t.parseTemplateWithFallback(templatePath, name)
}

func (t *Templates) parseTemplateWithFallback(templatePath string, name string) (*template.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(t.funcs).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			t.logger.Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	fallback, err := templateFS.ReadFile("templates/" + name + templateSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded template %s: %w", name, err)
	}
	tmpl, err := template.New(name + templateSuffix).
		Funcs(t.funcs).
		Parse(string(fallback))
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

func escapeXML(s string) string {
	return html.EscapeString(s)
}
