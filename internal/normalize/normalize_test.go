package normalize

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
)

func TestTidy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty label link is removed", input: "a [](x)b", want: "a b"},
		{name: "empty target keeps the label", input: "[kamma]()", want: "kamma"},
		{name: "markdown emphasis around a link", input: "*[kamma](/define/kamma)*", want: "[kamma](/define/kamma)"},
		{name: "html emphasis around a link", input: "<i>[kamma](/define/kamma)</i>", want: "[kamma](/define/kamma)"},
		{name: "html emphasis becomes markdown", input: "<i>sati</i> and <b>jhāna</b>", want: "*sati* and **jhāna**"},
		{name: "uncertain label and target", input: "[sati?](/define/sati?)", want: "[sati](/define/sati) (?)"},
		{name: "uncertain target", input: "[sati](/define/sati?)", want: "[sati](/define/sati) (?)"},
		{name: "internal path link becomes its label", input: "see [the sutta](/suttas/mn1)", want: "see the sutta"},
		{name: "fragment link becomes its label", input: "[note](#fn1).", want: "note."},
		{name: "define links are kept", input: "[x](/define/x)", want: "[x](/define/x)"},
		{name: "external links are kept", input: "[site](https://example.org)", want: "[site](https://example.org)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tidy(tt.input))
		})
	}
}

func TestStripInlineHTML(t *testing.T) {
	got := StripInlineHTML(`<sup>1</sup>teaching <a href="x">link</a> <strong>b</strong> <em>e</em> <span>kept</span>`)
	assert.Equal(t, "1teaching link b e <span>kept</span>", got)
}

func TestExtractAlsoWrittenAs(t *testing.T) {
	tests := []struct {
		name           string
		word           string
		definition     string
		wantVariants   []string
		wantDefinition string
	}{
		{
			name:           "explicit italic note",
			word:           "pañña",
			definition:     "wisdom (also written as *paññā*)",
			wantVariants:   []string{"paññā"},
			wantDefinition: "wisdom",
		},
		{
			name:           "explicit plain note",
			word:           "pañña",
			definition:     "wisdom (also written as paññā) in the suttas",
			wantVariants:   []string{"paññā"},
			wantDefinition: "wisdom in the suttas",
		},
		{
			name:           "one optional letter group",
			word:           "kusala",
			definition:     "kusala(m), skilful",
			wantVariants:   []string{"kusalam"},
			wantDefinition: "skilful",
		},
		{
			name:           "two optional letter groups",
			word:           "aggi",
			definition:     "ag(g)i(ṃ) fire",
			wantVariants:   []string{"agi", "agiṃ", "aggiṃ"},
			wantDefinition: "fire",
		},
		{
			name:           "leading italic variant",
			word:           "ahaṃ",
			definition:     "*ahakaṃ*, I, me",
			wantVariants:   []string{"ahakaṃ"},
			wantDefinition: "I, me",
		},
		{
			name:           "italic headword is not a variant",
			word:           "ahaṃ",
			definition:     "*ahaṃ*, I, me",
			wantVariants:   nil,
			wantDefinition: "*ahaṃ*, I, me",
		},
		{
			// The shapes run in sequence on the shortened string, so one
			// definition can yield fragments from several of them.
			name:           "harvests every fragment from one definition",
			word:           "dhamma",
			definition:     "dhamma(ṃ) *dhammo*, teaching (also written as *dharma*)",
			wantVariants:   []string{"dhammaṃ", "dhammo", "dharma"},
			wantDefinition: "teaching",
		},
		{
			name:           "plain definition is untouched",
			word:           "buddha",
			definition:     "the awakened one",
			wantVariants:   nil,
			wantDefinition: "the awakened one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &dictionary.Entry{Word: tt.word, Definition: tt.definition}
			ExtractAlsoWrittenAs(e)

			if diff := cmp.Diff(tt.wantVariants, e.AlsoWrittenAs); diff != "" {
				t.Errorf("AlsoWrittenAs mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantDefinition, e.Definition)
		})
	}
}

func TestStripRepeatedTitle(t *testing.T) {
	tests := []struct {
		name       string
		word       string
		definition string
		want       string
	}{
		{name: "bold capitalized echo", word: "sati", definition: "**Sati**\nmindfulness", want: "mindfulness"},
		{name: "plain echo with blank line", word: "sati", definition: "sati\n\nmindfulness", want: "mindfulness"},
		{name: "first line with more text", word: "sati", definition: "sati is\nmindfulness", want: "sati is\nmindfulness"},
		{name: "single line", word: "sati", definition: "sati", want: "sati"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &dictionary.Entry{Word: tt.word, Definition: tt.definition}
			StripRepeatedTitle(e)
			assert.Equal(t, tt.want, e.Definition)
		})
	}
}

func TestExtractGrammarNote(t *testing.T) {
	tests := []struct {
		name           string
		definition     string
		wantComment    string
		wantDefinition string
	}{
		{name: "gender with irregular form", definition: "m. (& n.) mind", wantComment: "m. (& n.)", wantDefinition: "mind"},
		{name: "uncertain marker and lone pp", definition: "(?) pp of gacchati, gone", wantComment: "(?) pp", wantDefinition: "of gacchati, gone"},
		{name: "three letter abbreviation", definition: "mfn. skilful", wantComment: "mfn.", wantDefinition: "skilful"},
		{name: "m(fn)", definition: "m(fn). good", wantComment: "m(fn).", wantDefinition: "good"},
		{name: "fpp with brackets", definition: "fpp[.] to be done", wantComment: "fpp[.]", wantDefinition: "to be done"},
		{name: "longer abbreviations", definition: "abstr. caus. of karoti", wantComment: "abstr. caus.", wantDefinition: "of karoti"},
		{name: "trailing commas are trimmed", definition: "m., f., the elephant", wantComment: "m., f.", wantDefinition: "the elephant"},
		{name: "words without a dot are kept", definition: "act of giving", wantComment: "", wantDefinition: "act of giving"},
		{name: "unknown abbreviation", definition: "adj. good", wantComment: "", wantDefinition: "adj. good"},
		{name: "parenthesized abbreviation", definition: "(m.) thing", wantComment: "(m.)", wantDefinition: "thing"},
		{name: "parenthesized without a dot", definition: "(pl) the eyes", wantComment: "(pl)", wantDefinition: "the eyes"},
		{
			name:           "long run of abbreviations",
			definition:     "m. f. n. m. f. n. m. f. n. m. f. n. word",
			wantComment:    "m. f. n. m. f. n. m. f. n. m. f. n.",
			wantDefinition: "word",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &dictionary.Entry{Word: "x", Definition: tt.definition}
			ExtractGrammarNote(e)
			assert.Equal(t, tt.wantComment, e.GrammarComment)
			assert.Equal(t, tt.wantDefinition, e.Definition)

			// a second run is a no-op
			again := *e
			ExtractGrammarNote(&again)
			assert.Equal(t, *e, again)
		})
	}
}

func TestExtractGrammarNote_appendsToComment(t *testing.T) {
	e := &dictionary.Entry{Word: "x", GrammarComment: "ind.", Definition: "m. thing"}
	ExtractGrammarNote(e)
	assert.Equal(t, "ind. m.", e.GrammarComment)
	assert.Equal(t, "thing", e.Definition)
}

func TestMineSeeAlso(t *testing.T) {
	tests := []struct {
		name           string
		word           string
		definition     string
		strip          bool
		wantSeeAlso    []string
		wantDefinition string
	}{
		{
			name:           "existing link",
			word:           "abbhā",
			definition:     "cloud; see [abbha](/define/abbha)",
			wantSeeAlso:    []string{"abbha"},
			wantDefinition: "cloud; see [abbha](/define/abbha)",
		},
		{
			name:           "italic also note",
			word:           "karma",
			definition:     "action (also *kamma*)",
			wantSeeAlso:    []string{"kamma"},
			wantDefinition: "action (see [kamma](/define/kamma))",
		},
		{
			name:           "three items",
			word:           "magga",
			definition:     "path (also sati, samādhi and paññā)",
			wantSeeAlso:    []string{"sati", "samādhi", "paññā"},
			wantDefinition: "path (see [sati](/define/sati), [samādhi](/define/samādhi), [paññā](/define/paññā))",
		},
		{
			name:           "see span is stripped",
			word:           "dhamma",
			definition:     "teaching (see *dhamma2*)",
			strip:          true,
			wantSeeAlso:    []string{"dhamma2"},
			wantDefinition: "teaching",
		},
		{
			name:           "decorations follow the link",
			word:           "y",
			definition:     "[x](/define/x) (?) and [z](/define/z)",
			wantSeeAlso:    []string{"x", "z"},
			wantDefinition: "[x](/define/x) (?) and [z](/define/z)",
		},
		{
			name:           "self reference is not collected",
			word:           "sati",
			definition:     "[sati](/define/sati)",
			wantSeeAlso:    nil,
			wantDefinition: "[sati](/define/sati)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &dictionary.Entry{Word: tt.word, Definition: tt.definition}
			MineSeeAlso(e, tt.strip)
			assert.Equal(t, tt.wantSeeAlso, e.SeeAlso)
			assert.Equal(t, tt.wantDefinition, e.Definition)
		})
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		word       string
		definition string
		want       string
	}{
		{name: "abbreviation prefix", word: "citta", definition: "m. mind, thought", want: "mind, thought"},
		{name: "headword echo", word: "citta", definition: "citta, mind", want: "mind"},
		{name: "inflected headword echo", word: "citta", definition: "citto the mind", want: "the mind"},
		{name: "links and html", word: "kāya", definition: "<i>kāya</i> body, see [kāya](/define/kāya)", want: "body, see kāya"},
		{name: "hyphenated compound", word: "x", definition: "kusala-citta-sampayutta, associated with skill", want: "associated with skill"},
		{name: "parenthesized abbreviation", word: "x", definition: "(m.) thing", want: "thing"},
		{name: "from note", word: "gamana", definition: "(from gacchati) going", want: "going"},
		{name: "see link", word: "dhamma", definition: "1. teaching (see *[dhamma2](/define/dhamma2)*)", want: "teaching (see dhamma2)"},
		{name: "truncated on a rune boundary", word: "x", definition: strings.Repeat("ā", 60), want: strings.Repeat("ā", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.word, tt.definition))
		})
	}
}

func TestDeriveSummary_keepsExplicitSummary(t *testing.T) {
	e := &dictionary.Entry{Word: "citta", Summary: "  mind ", Definition: "m. thought"}
	DeriveSummary(e)
	assert.Equal(t, "mind", e.Summary)
}

func TestNormalizer_Run(t *testing.T) {
	d := dictionary.New(dictionary.Metadata{}, nil)
	first := d.Add(dictionary.Entry{Word: "dhamma", MeaningOrder: 0, Definition: "1. teaching (see *dhamma2*)"})
	d.Add(dictionary.Entry{Word: "dhamma", MeaningOrder: 2, Definition: "2. phenomenon"})

	New(Options{}, nil).Run(d.Entries())

	assert.Equal(t, 1, first.MeaningOrder)
	assert.Equal(t, "teaching (see dhamma2)", first.Summary)
	assert.Contains(t, first.SeeAlso, "dhamma2")
	assert.Equal(t, "1. teaching (see [dhamma2](/define/dhamma2))", first.Definition)
}

func TestNormalizer_Passes(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		want    []string
	}{
		{
			name:    "all passes",
			options: Options{},
			want:    []string{"tidy", "also-written-as", "strip-repeated-title", "grammar-note", "see-also", "summary"},
		},
		{
			name:    "plain targets strip html first",
			options: Options{Plain: true},
			want:    []string{"strip-inline-html", "tidy", "also-written-as", "strip-repeated-title", "grammar-note", "see-also", "summary"},
		},
		{
			name:    "skip keeps tidy and summary",
			options: Options{Skip: true},
			want:    []string{"tidy", "summary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range New(tt.options, nil).Passes() {
				got = append(got, p.Name)
			}
			require.Equal(t, tt.want, got)
		})
	}
}
