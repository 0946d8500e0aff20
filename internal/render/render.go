// Package render turns a normalized dictionary into the documents of one
// output format.
package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"text/template"

	"github.com/at-ishikawa/dictforge/internal/alphabet"
	"github.com/at-ishikawa/dictforge/internal/assets"
	"github.com/at-ishikawa/dictforge/internal/dictionary"
	"github.com/at-ishikawa/dictforge/internal/ebook"
	"github.com/at-ishikawa/dictforge/internal/lettergroup"
	"github.com/at-ishikawa/dictforge/internal/links"
	"github.com/at-ishikawa/dictforge/internal/markdown"
)

// TemplateErrorBody replaces a document whose template failed to execute.
const TemplateErrorBody = "FIXME: Template rendering error."

type Options struct {
	// TemplateDirectory holds "<name>.tmpl" overrides.
	TemplateDirectory string
	// EntriesTemplate replaces the entries page template of paginated
	// formats.
	EntriesTemplate string
}

type Renderer struct {
	format    Format
	templates *assets.Templates
	entries   string
	logger    *slog.Logger
}

func NewRenderer(format Format, options Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	funcs := template.FuncMap{
		"latex":    markdown.EscapeLaTeX,
		"velthuis": alphabet.ToVelthuis,
	}
	entries := format.Template()
	if options.EntriesTemplate != "" {
		entries = options.EntriesTemplate
	}
	return &Renderer{
		format:    format,
		templates: assets.NewTemplates(options.TemplateDirectory, funcs, logger),
		entries:   entries,
		logger:    logger,
	}
}

func (r *Renderer) Format() Format {
	return r.format
}

type GroupData struct {
	Index      int
	Letter     string
	Title      string
	FileName   string
	ManifestID string
	Words      []Word
}

// DocumentData is passed to whole corpus templates.
type DocumentData struct {
	Meta   dictionary.Metadata
	Words  []Word
	Groups []GroupData
	HTML   bool
}

// PageData is passed to the entries page template.
type PageData struct {
	Meta  dictionary.Metadata
	Group GroupData
}

type NavPoint struct {
	ID    string
	Label string
	Href  string
}

type contentPageData struct {
	Meta      dictionary.Metadata
	PageTitle string
	Content   string
}

type tocData struct {
	Meta   dictionary.Metadata
	Groups []GroupData
}

type ncxData struct {
	Meta      dictionary.Metadata
	NavPoints []NavPoint
}

type opfData struct {
	Meta     dictionary.Metadata
	Manifest []ebook.ManifestItem
	Spine    []string
	CoverID  string
}

type coverData struct {
	Meta      dictionary.Metadata
	CoverHref string
}

type metaData struct {
	Meta dictionary.Metadata
}

// Document renders a whole corpus format.
func (r *Renderer) Document(d *dictionary.Dictionary, groups *lettergroup.Groups) ([]byte, error) {
	if r.format.Paginated() {
		return nil, fmt.Errorf("%s renders a book, not a single document", r.format.Tag())
	}
	data := DocumentData{
		Meta:   d.Metadata,
		Groups: r.groupData(d, groups),
		HTML:   !r.format.Plain(),
	}
	for _, g := range data.Groups {
		data.Words = append(data.Words, g.Words...)
	}
	out, err := r.execute(r.format.Template(), data)
	if err != nil {
		return nil, err
	}
	return []byte(r.format.PostProcess(out)), nil
}

const (
	coverImageID = "cover-image"
	styleID      = "style"
)

// Book renders the OEBPS pages of a paginated format.
func (r *Renderer) Book(d *dictionary.Dictionary, groups *lettergroup.Groups) (*ebook.Book, error) {
	if !r.format.Paginated() {
		return nil, fmt.Errorf("%s renders a single document, not a book", r.format.Tag())
	}
	meta := d.Metadata
	book := &ebook.Book{CoverHref: coverHref(meta.CoverPath)}
	book.Manifest = append(book.Manifest,
		ebook.ManifestItem{ID: coverImageID, Href: book.CoverHref, MediaType: ebook.MediaType(book.CoverHref), Properties: "cover-image"},
		ebook.ManifestItem{ID: styleID, Href: assets.StyleCSS, MediaType: ebook.MediaType(assets.StyleCSS)},
	)
	add := func(id, name, content, properties string, inSpine bool) {
		book.Files = append(book.Files, ebook.File{Name: name, Content: []byte(content)})
		book.Manifest = append(book.Manifest, ebook.ManifestItem{
			ID:         id,
			Href:       name,
			MediaType:  ebook.MediaType(name),
			Properties: properties,
		})
		if inSpine {
			book.Spine = append(book.Spine, id)
		}
	}

	if r.format.Tag() == Epub {
		cover, err := r.page(meta, meta.Title, assets.Cover, coverData{Meta: meta, CoverHref: book.CoverHref})
		if err != nil {
			return nil, err
		}
		add("cover", "cover.xhtml", cover, "", true)
	}

	titlePage, err := r.page(meta, meta.Title, assets.TitlePage, metaData{Meta: meta})
	if err != nil {
		return nil, err
	}
	add("titlepage", "titlepage.xhtml", titlePage, "", true)

	groupData := r.groupData(d, groups)
	toc, err := r.page(meta, "Contents", assets.HTMLToc, tocData{Meta: meta, Groups: groupData})
	if err != nil {
		return nil, err
	}
	add("toc", "htmltoc.xhtml", toc, "nav", true)

	navPoints := []NavPoint{{Label: meta.Title, Href: "titlepage.xhtml"}}
	for _, g := range groupData {
		title := g.Title
		if title == "" {
			title = g.Letter
		}
		page, err := r.page(meta, title, r.entries, PageData{Meta: meta, Group: g})
		if err != nil {
			return nil, err
		}
		add(g.ManifestID, g.FileName, page, "", true)
		navPoints = append(navPoints, NavPoint{Label: g.Letter, Href: g.FileName})
	}

	for _, front := range []struct {
		id, name, title, template string
	}{
		{"about", "about.xhtml", "About", assets.About},
		{"copyright", "copyright.xhtml", "Copyright", assets.Copyright},
	} {
		md, err := r.execute(front.template, metaData{Meta: meta})
		if err != nil {
			return nil, err
		}
		page, err := r.wrap(meta, front.title, markdown.ToHTML(md, true))
		if err != nil {
			return nil, err
		}
		add(front.id, front.name, page, "", true)
		navPoints = append(navPoints, NavPoint{Label: front.title, Href: front.name})
	}

	for i := range navPoints {
		navPoints[i].ID = fmt.Sprintf("navpoint-%d", i+1)
	}
	ncx, err := r.execute(assets.TocNCX, ncxData{Meta: meta, NavPoints: navPoints})
	if err != nil {
		return nil, err
	}
	add("ncx", "toc.ncx", ncx, "", false)

	opf, err := r.execute(assets.PackageOPF, opfData{
		Meta:     meta,
		Manifest: book.Manifest,
		Spine:    book.Spine,
		CoverID:  coverImageID,
	})
	if err != nil {
		return nil, err
	}
	book.Files = append(book.Files, ebook.File{Name: "package.opf", Content: []byte(opf)})
	return book, nil
}

func (r *Renderer) resolver(d *dictionary.Dictionary, groups *lettergroup.Groups) *links.Resolver {
	return links.NewResolver(r.format.Style(groups), d, r.format.EscapeLists())
}

func (r *Renderer) groupData(d *dictionary.Dictionary, groups *lettergroup.Groups) []GroupData {
	resolver := r.resolver(d, groups)
	out := make([]GroupData, 0, groups.Len())
	for _, g := range groups.All() {
		out = append(out, GroupData{
			Index:      g.Index,
			Letter:     g.Letter,
			Title:      g.Title,
			FileName:   g.FileName(),
			ManifestID: g.ManifestID(),
			Words:      mergeWords(g.Entries, r.format, resolver, d.Metadata.AllowRawHTML),
		})
	}
	return out
}

// page renders a content template and wraps it in the page shell.
func (r *Renderer) page(meta dictionary.Metadata, title, name string, data any) (string, error) {
	content, err := r.execute(name, data)
	if err != nil {
		return "", err
	}
	return r.wrap(meta, title, content)
}

func (r *Renderer) wrap(meta dictionary.Metadata, title, content string) (string, error) {
	page, err := r.execute(assets.ContentPage, contentPageData{Meta: meta, PageTitle: title, Content: content})
	if err != nil {
		return "", err
	}
	return r.format.PostProcess(page), nil
}

// execute fails on a template that cannot be parsed. An execution error
// is logged and the placeholder body is returned instead.
func (r *Renderer) execute(name string, data any) (string, error) {
	tmpl, err := r.templates.Parse(name)
	if err != nil {
		return "", fmt.Errorf("failed to load template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		r.logger.Error("failed to render a template",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return TemplateErrorBody, nil
	}
	return buf.String(), nil
}

func coverHref(coverPath string) string {
	if coverPath == "" {
		return assets.DefaultCover
	}
	return filepath.Base(coverPath)
}
