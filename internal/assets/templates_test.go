package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFuncs = template.FuncMap{
	"latex":    func(s string) string { return s },
	"velthuis": func(s string) string { return s },
}

func TestTemplates_Parse(t *testing.T) {
	tests := []struct {
		name      string
		directory func(t *testing.T) string
		template  string

		wantTemplateName     string
		templateData         interface{}
		wantTemplateContents string
	}{
		{
			name: "uses filesystem template when available",
			directory: func(t *testing.T) string {
				dir := t.TempDir()
				content := `Custom: {{ join .Items ", " }}`
				require.NoError(t, os.WriteFile(filepath.Join(dir, "c5.txt.tmpl"), []byte(content), 0644))
				return dir
			},
			template:             C5,
			wantTemplateName:     "c5.txt.tmpl",
			templateData:         struct{ Items []string }{Items: []string{"a", "b"}},
			wantTemplateContents: "Custom: a, b",
		},
		{
			name: "falls back to the embedded template when the override is broken",
			directory: func(t *testing.T) string {
				dir := t.TempDir()
				require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.xhtml.tmpl"), []byte("{{ .Broken "), 0644))
				return dir
			},
			template:         Cover,
			wantTemplateName: "cover.xhtml.tmpl",
			templateData: struct {
				CoverHref string
				Meta      struct{ Title string }
			}{CoverHref: "default_cover.jpg", Meta: struct{ Title string }{Title: "A & B"}},
			wantTemplateContents: "<div class=\"cover\">\n  <img src=\"default_cover.jpg\" alt=\"A &amp; B\" />\n</div>\n",
		},
		{
			name:             "uses embedded template without a directory",
			directory:        func(t *testing.T) string { return "" },
			template:         HTMLToc,
			wantTemplateName: "htmltoc.xhtml.tmpl",
			templateData: struct {
				Meta   struct{ Title string }
				Groups []struct{ FileName, Letter string }
			}{
				Meta:   struct{ Title string }{Title: "T"},
				Groups: []struct{ FileName, Letter string }{{FileName: "entries-00.xhtml", Letter: "a"}},
			},
			wantTemplateContents: `<nav epub:type="toc" id="toc">
  <h1>Contents</h1>
  <ol>
    <li><a href="titlepage.xhtml">T</a></li>
    <li><a href="entries-00.xhtml">a</a></li>
    <li><a href="about.xhtml">About</a></li>
    <li><a href="copyright.xhtml">Copyright</a></li>
  </ol>
</nav>
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templates := NewTemplates(tt.directory(t), testFuncs, nil)
			got, err := templates.Parse(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTemplateName, got.Name())

			var buf bytes.Buffer
			require.NoError(t, got.Execute(&buf, tt.templateData))
			assert.Equal(t, tt.wantTemplateContents, buf.String())
		})
	}
}

func TestTemplates_Parse_allEmbedded(t *testing.T) {
	names := []string{
		EntriesEpub, EntriesMobi, ContentPage, HTMLToc, TocNCX, PackageOPF,
		Cover, TitlePage, About, Copyright, StardictTextual, Babylon, C5, TEI, LaTeX,
	}
	templates := NewTemplates("", testFuncs, nil)
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			_, err := templates.Parse(name)
			assert.NoError(t, err)
		})
	}
}

func TestTemplates_Parse_unknown(t *testing.T) {
	_, err := NewTemplates("", testFuncs, nil).Parse("missing.txt")
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	for _, name := range []string{StyleCSS, Container, IBooksDisplayOption, DefaultCover} {
		t.Run(name, func(t *testing.T) {
			b, err := Static(name)
			require.NoError(t, err)
			assert.NotEmpty(t, b)
		})
	}

	cover, err := Static(DefaultCover)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, cover[:2])

	_, err = Static("missing.css")
	assert.Error(t, err)
}
