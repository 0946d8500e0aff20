package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
	"github.com/at-ishikawa/dictforge/internal/ebook"
	"github.com/at-ishikawa/dictforge/internal/lettergroup"
	"github.com/at-ishikawa/dictforge/internal/links"
)

var testMetadata = dictionary.Metadata{
	Title:          "Pali",
	Creator:        "C",
	Email:          "e",
	Description:    "D",
	Source:         "S",
	BookID:         "TestBook",
	Version:        "0.1.0",
	CreatedDateOPF: "2020-01-01T00:00:00Z",
	IsEpub:         true,
}

func newTestCorpus(t *testing.T, meta dictionary.Metadata) (*dictionary.Dictionary, *lettergroup.Groups) {
	t.Helper()
	d := dictionary.New(meta, nil)
	d.Add(dictionary.Entry{Word: "abbha", GrammarComment: "m.", Definition: "a cloud"})
	d.Add(dictionary.Entry{
		Word:       "dhamma",
		Synonyms:   []string{"abbha"},
		Definition: "see [abbha](/define/abbha) and [kamma](/define/kamma)",
	})
	d.Add(dictionary.Entry{Word: "dhamma", Definition: "second"})
	return d, lettergroup.Build(d)
}

func newTestRenderer(t *testing.T, tag Tag, options Options) *Renderer {
	t.Helper()
	format, err := FormatFor(tag)
	require.NoError(t, err)
	return NewRenderer(format, options, nil)
}

func TestRenderer_Document(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		want string
	}{
		{
			name: "babylon",
			tag:  BabylonGls,
			want: "\n#stripmethod=keep\n#sametypesequence=h\n#bookname=Pali\n#author=C\n#email=e\n" +
				"#description=D\n#website=S\n#date=2020-01-01T00:00:00Z\n" +
				"\nabbha\n" + `<p><i style="color: green;">m.</i></p><p>a cloud</p>` + "\n" +
				"\ndhamma\n" + `<p><b>1.</b></p><p>see <a href="bword://abbha">abbha</a> and kamma</p>` +
				`<p><b>2.</b></p><p>second</p><p>Synonyms: <a href="bword://abbha">abbha</a></p>` + "\n\n",
		},
		{
			name: "c5 plain",
			tag:  C5Plain,
			want: "\n_____\n\nabbha\nm.\na cloud\n" +
				"\n_____\n\ndhamma\n1. see {abbha} and *kamma*\n2. second\nSynonyms: {abbha}\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, groups := newTestCorpus(t, testMetadata)
			got, err := newTestRenderer(t, tt.tag, Options{}).Document(d, groups)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRenderer_Document_markup(t *testing.T) {
	tests := []struct {
		name     string
		tag      Tag
		contains []string
	}{
		{
			name: "stardict html",
			tag:  StardictXMLHTML,
			contains: []string{
				"<bookname>Pali</bookname>",
				"<key>dhamma</key>",
				`<definition type="h"><![CDATA[`,
				`<a href="bword://abbha">abbha</a>`,
				"]]></definition>",
			},
		},
		{
			name: "stardict plain",
			tag:  StardictXMLPlain,
			contains: []string{
				`<definition type="m"><![CDATA[1.` + "\nsee abbha and kamma\n2.\nsecond\nSynonyms: abbha]]></definition>",
			},
		},
		{
			name: "tei formatted",
			tag:  TEIFormatted,
			contains: []string{
				`<entry xml:id="dhamma-1">`,
				`<sense n="2" xml:id="dhamma-2">`,
				`<def>see <ref target="#abbha-1">abbha</ref> and <hi rend="italic">kamma</hi></def>`,
				`<xr type="syn"><ref target="#abbha-1">abbha</ref></xr>`,
			},
		},
		{
			name: "latex",
			tag:  LaTeXPlain,
			contains: []string{
				`\title{Pali}`,
				`\section*{dh}`,
				`\noindent\textbf{dhamma}`,
				`\textbf{1.} see abbha and kamma`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, groups := newTestCorpus(t, testMetadata)
			got, err := newTestRenderer(t, tt.tag, Options{}).Document(d, groups)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(got), want)
			}
		})
	}
}

func TestRenderer_Document_templateErrorIsSoft(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c5.txt.tmpl"), []byte("{{ .Missing }}"), 0644))

	d, groups := newTestCorpus(t, testMetadata)
	got, err := newTestRenderer(t, C5HTML, Options{TemplateDirectory: dir}).Document(d, groups)
	require.NoError(t, err)
	assert.Equal(t, TemplateErrorBody, string(got))
}

func TestRenderer_Document_rejectsPaginated(t *testing.T) {
	d, groups := newTestCorpus(t, testMetadata)
	_, err := newTestRenderer(t, Epub, Options{}).Document(d, groups)
	assert.Error(t, err)
}

func fileNames(book *ebook.Book) []string {
	var names []string
	for _, f := range book.Files {
		names = append(names, f.Name)
	}
	return names
}

func file(t *testing.T, book *ebook.Book, name string) string {
	t.Helper()
	for _, f := range book.Files {
		if f.Name == name {
			return string(f.Content)
		}
	}
	t.Fatalf("file %s not found in %v", name, fileNames(book))
	return ""
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if match(n) {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, match)...)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestRenderer_Book_epub(t *testing.T) {
	d, groups := newTestCorpus(t, testMetadata)
	book, err := newTestRenderer(t, Epub, Options{}).Book(d, groups)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cover.xhtml", "titlepage.xhtml", "htmltoc.xhtml",
		"entries-00.xhtml", "entries-07.xhtml",
		"about.xhtml", "copyright.xhtml", "toc.ncx", "package.opf",
	}, fileNames(book))
	assert.Equal(t, []string{
		"cover", "titlepage", "toc", "item_entries_00", "item_entries_07", "about", "copyright",
	}, book.Spine)
	assert.Equal(t, "default_cover.jpg", book.CoverHref)

	doc, err := html.Parse(strings.NewReader(file(t, book, "entries-07.xhtml")))
	require.NoError(t, err)

	hrefs := findAll(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "a" })
	require.Len(t, hrefs, 2)
	assert.Equal(t, "entries-00.xhtml#abbha-1", attr(hrefs[0], "href"))

	entries := findAll(doc, func(n *html.Node) bool { return attr(n, "class") == "entry" })
	require.Len(t, entries, 1)
	assert.Equal(t, "dhamma-1", attr(entries[0], "id"))

	meanings := findAll(doc, func(n *html.Node) bool { return attr(n, "class") == "meaning" })
	require.Len(t, meanings, 2)
	assert.Equal(t, "", attr(meanings[0], "id"))
	assert.Equal(t, "dhamma-2", attr(meanings[1], "id"))

	first := file(t, book, "entries-00.xhtml")
	assert.Contains(t, first, `<h1 class="dict-title">Pali</h1>`)
	assert.Contains(t, first, "<title>Pali</title>")

	opf := file(t, book, "package.opf")
	assert.Contains(t, opf, `<item id="item_entries_07" href="entries-07.xhtml" media-type="application/xhtml+xml" />`)
	assert.Contains(t, opf, `<item id="cover-image" href="default_cover.jpg" media-type="image/jpeg" properties="cover-image" />`)
	assert.NotContains(t, opf, "x-metadata")

	ncx := file(t, book, "toc.ncx")
	assert.Contains(t, ncx, `<navPoint id="navpoint-3" playOrder="3">`)
	assert.Contains(t, ncx, `<content src="entries-07.xhtml" />`)
}

func TestRenderer_Book_mobi(t *testing.T) {
	meta := testMetadata
	meta.IsEpub = false
	meta.IsMobi = true
	meta.UseVelthuis = true
	d := dictionary.New(meta, nil)
	d.Add(dictionary.Entry{Word: "ñāṇa", Inflections: []string{"ñāṇena"}, Definition: "knowledge"})

	book, err := newTestRenderer(t, Mobi, Options{}).Book(d, lettergroup.Build(d))
	require.NoError(t, err)

	assert.NotContains(t, fileNames(book), "cover.xhtml")
	page := file(t, book, book.Files[2].Name)
	assert.Contains(t, page, `<idx:orth value="ñāṇa">`)
	assert.Contains(t, page, `<idx:iform value="ñāṇena" />`)
	assert.Contains(t, page, `<idx:iform value="~naa.na" />`)
	assert.Contains(t, file(t, book, "package.opf"), "<DefaultLookupIndex>pali</DefaultLookupIndex>")
}

func TestRenderer_Book_empty(t *testing.T) {
	d := dictionary.New(testMetadata, nil)
	book, err := newTestRenderer(t, Epub, Options{}).Book(d, lettergroup.Build(d))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cover.xhtml", "titlepage.xhtml", "htmltoc.xhtml",
		"about.xhtml", "copyright.xhtml", "toc.ncx", "package.opf",
	}, fileNames(book))
}

func TestRenderer_Book_entriesTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "compact.xhtml.tmpl"),
		[]byte(`{{ range .Group.Words }}<p>{{ .Word }}</p>{{ end }}`), 0644))

	d, groups := newTestCorpus(t, testMetadata)
	book, err := newTestRenderer(t, Epub, Options{TemplateDirectory: dir, EntriesTemplate: "compact.xhtml"}).Book(d, groups)
	require.NoError(t, err)
	assert.Contains(t, file(t, book, "entries-07.xhtml"), "<p>dhamma</p>")
}

func TestMergeWords(t *testing.T) {
	d := dictionary.New(dictionary.Metadata{}, nil)
	d.Add(dictionary.Entry{Word: "dhamma", Synonyms: []string{"sacca"}, Definition: "teaching"})
	d.Add(dictionary.Entry{Word: "dhamma", Synonyms: []string{"sacca", "nyāya"}, Phonetic: "dʰamma", Definition: "thing"})
	d.Add(dictionary.Entry{Word: "dhamma", DictLabel: "DPD", Definition: "nature"})

	format, err := FormatFor(C5Plain)
	require.NoError(t, err)
	resolver := links.NewResolver(links.BareStyle{}, d, false)
	words := mergeWords(d.Entries(), format, resolver, false)

	require.Len(t, words, 2)
	assert.Equal(t, "dhamma-1", words[0].ID)
	assert.Equal(t, "dʰamma", words[0].Phonetic)
	assert.Equal(t, []string{"sacca", "nyāya"}, words[0].Synonyms)
	require.Len(t, words[0].Meanings, 2)
	assert.Equal(t, Meaning{ID: "dhamma-1", Order: 1, Numbered: true, Definition: "teaching", Examples: []string{}}, words[0].Meanings[0])
	assert.Equal(t, 2, words[0].Meanings[1].Order)
	assert.Equal(t, "dhamma-2", words[0].Meanings[1].ID)

	require.Len(t, words[1].Meanings, 1)
	assert.False(t, words[1].Meanings[0].Numbered)
	assert.Equal(t, "DPD", words[1].DictLabel)
}

func TestFormat_PostProcess(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		doc  string
		want string
	}{
		{
			name: "stardict plain unescapes inside cdata only",
			tag:  StardictXMLPlain,
			doc:  "<key>a&amp;b</key><definition type=\"m\">\n<![CDATA[a &amp; b]]>\n</definition>",
			want: "<key>a&amp;b</key><definition type=\"m\"><![CDATA[a & b]]></definition>",
		},
		{
			name: "stardict html trims definitions",
			tag:  StardictXMLHTML,
			doc:  "<definition type=\"h\">\n  <![CDATA[x &amp; y]]>\n</definition>",
			want: "<definition type=\"h\"><![CDATA[x &amp; y]]></definition>",
		},
		{
			name: "latex escapes every ampersand once",
			tag:  LaTeXPlain,
			doc:  `a & b \& c &amp; d`,
			want: `a \& b \& c \& d`,
		},
		{
			name: "c5 plain unescapes and collapses blank lines",
			tag:  C5Plain,
			doc:  "x &amp; y\n\n\n\nz",
			want: "x & y\n\nz",
		},
		{
			name: "c5 html keeps entities",
			tag:  C5HTML,
			doc:  "x &amp; y\n\n\nz",
			want: "x &amp; y\n\nz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := FormatFor(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, format.PostProcess(tt.doc))
		})
	}
}

func TestFormatFor(t *testing.T) {
	for _, tag := range Tags() {
		t.Run(tag.String(), func(t *testing.T) {
			format, err := FormatFor(tag)
			require.NoError(t, err)
			assert.Equal(t, tag, format.Tag())
			assert.Equal(t, tag == Epub || tag == Mobi, format.Paginated())
			assert.NotEmpty(t, format.Extension())
			assert.NotEmpty(t, format.Template())
		})
	}

	_, err := FormatFor(Tag(99))
	assert.Error(t, err)
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		in      string
		want    Tag
		wantErr bool
	}{
		{in: "epub", want: Epub},
		{in: "StardictXmlHtml", want: StardictXMLHTML},
		{in: "c5-plain", want: C5Plain},
		{in: " TEI_formatted ", want: TEIFormatted},
		{in: "pdf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTag(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := ParseTag(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestBabylonBody_isSingleLine(t *testing.T) {
	w := Word{
		Phonetic: "a&b",
		Meanings: []Meaning{{Order: 1, GrammarComment: "m.", Definition: "<p>one\ntwo</p>\n\n<p>three</p>"}},
	}
	got := babylonFormat{}.Body(w)
	assert.False(t, bytes.ContainsRune([]byte(got), '\n'))
	assert.Equal(t, `<p><i style="color: green;">m.</i> <span>[a&amp;b]</span></p><p>one two</p><p>three</p>`, got)
}
