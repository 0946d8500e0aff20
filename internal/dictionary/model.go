package dictionary

import (
	"time"
)

// Entry is one dictionary entry as read from a source and refined by the
// normalizer. Definition holds markdown prose.
type Entry struct {
	Word            string   `toml:"word" yaml:"word"`
	MeaningOrder    int      `toml:"meaning_order,omitempty" yaml:"meaning_order"`
	DictLabel       string   `toml:"dict_label,omitempty" yaml:"dict_label,omitempty"`
	Nominative      string   `toml:"nominative,omitempty" yaml:"nominative,omitempty"`
	Summary         string   `toml:"summary,omitempty" yaml:"summary,omitempty"`
	GrammarComment  string   `toml:"grammar,omitempty" yaml:"grammar,omitempty"`
	Phonetic        string   `toml:"phonetic,omitempty" yaml:"phonetic,omitempty"`
	Transliteration string   `toml:"transliteration,omitempty" yaml:"transliteration,omitempty"`
	Inflections     []string `toml:"inflections,omitempty" yaml:"inflections,omitempty"`
	Synonyms        []string `toml:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	Antonyms        []string `toml:"antonyms,omitempty" yaml:"antonyms,omitempty"`
	Variants        []string `toml:"variants,omitempty" yaml:"variants,omitempty"`
	AlsoWrittenAs   []string `toml:"also_written_as,omitempty" yaml:"also_written_as,omitempty"`
	SeeAlso         []string `toml:"see_also,omitempty" yaml:"see_also,omitempty"`
	Comment         string   `toml:"comment,omitempty" yaml:"comment,omitempty"`
	Grammar         Grammar  `toml:"grammar_block,omitempty" yaml:"grammar_block,omitempty"`
	Examples        []string `toml:"examples,omitempty" yaml:"examples,omitempty"`
	URLID           string   `toml:"url_id,omitempty" yaml:"url_id"`

	Definition string `toml:"-" yaml:"definition"`
}

// Grammar is the structured grammar block of an entry. Fields are free text.
type Grammar struct {
	Roots        []string `toml:"roots,omitempty" yaml:"roots,omitempty"`
	Construction []string `toml:"construction,omitempty" yaml:"construction,omitempty"`
	PartOfSpeech string   `toml:"part_of_speech,omitempty" yaml:"part_of_speech,omitempty"`
	Case         string   `toml:"case,omitempty" yaml:"case,omitempty"`
	Number       string   `toml:"number,omitempty" yaml:"number,omitempty"`
	Gender       string   `toml:"gender,omitempty" yaml:"gender,omitempty"`
	Person       string   `toml:"person,omitempty" yaml:"person,omitempty"`
	Voice        string   `toml:"voice,omitempty" yaml:"voice,omitempty"`
	Transitivity string   `toml:"transitivity,omitempty" yaml:"transitivity,omitempty"`
	Polarity     string   `toml:"polarity,omitempty" yaml:"polarity,omitempty"`
	VerbClass    string   `toml:"verb_class,omitempty" yaml:"verb_class,omitempty"`
}

// IsZero reports whether no grammar field is set.
func (g Grammar) IsZero() bool {
	return len(g.Roots) == 0 && len(g.Construction) == 0 &&
		g.PartOfSpeech == "" && g.Case == "" && g.Number == "" && g.Gender == "" &&
		g.Person == "" && g.Voice == "" && g.Transitivity == "" && g.Polarity == "" &&
		g.VerbClass == ""
}

// Metadata describes the dictionary as a publication.
type Metadata struct {
	Title            string `toml:"title" yaml:"title"`
	DictLabel        string `toml:"dict_label,omitempty" yaml:"dict_label,omitempty"`
	Description      string `toml:"description" yaml:"description"`
	Creator          string `toml:"creator" yaml:"creator"`
	Email            string `toml:"email" yaml:"email"`
	Source           string `toml:"source" yaml:"source"`
	CoverPath        string `toml:"cover_path" yaml:"cover_path"`
	BookID           string `toml:"book_id" yaml:"book_id"`
	Version          string `toml:"version" yaml:"version"`
	CreatedDateHuman string `toml:"created_date_human" yaml:"created_date_human"`
	CreatedDateOPF   string `toml:"created_date_opf" yaml:"created_date_opf"`
	WordPrefix       string `toml:"word_prefix" yaml:"word_prefix"`
	UseVelthuis      bool   `toml:"use_velthuis" yaml:"use_velthuis"`
	AllowRawHTML     bool   `toml:"allow_raw_html" yaml:"allow_raw_html"`
	AddVelthuis      bool   `toml:"add_velthuis" yaml:"add_velthuis"`
	AddASCII         bool   `toml:"add_ascii" yaml:"add_ascii"`
	IsEpub           bool   `toml:"is_epub" yaml:"is_epub"`
	IsMobi           bool   `toml:"is_mobi" yaml:"is_mobi"`
}

// DefaultMetadata returns the metadata used when a source leaves fields empty.
func DefaultMetadata(now time.Time) Metadata {
	return Metadata{
		Title:            "Dictionary",
		Description:      "Pali - English",
		Creator:          "Simsapa Dhamma Reader",
		Email:            "person@example.com",
		Source:           "https://simsapa.github.io",
		CoverPath:        "default_cover.jpg",
		BookID:           "SimsapaPaliDictionary",
		Version:          "0.1.0",
		CreatedDateHuman: now.Format(time.RFC1123Z),
		CreatedDateOPF:   now.UTC().Format(time.RFC3339),
		AddASCII:         true,
		IsEpub:           true,
	}
}

// Merge fills the empty fields of m from defaults. AddASCII is on when
// either side sets it; other flags are kept from m.
func (m Metadata) Merge(defaults Metadata) Metadata {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&m.Title, defaults.Title)
	fill(&m.Description, defaults.Description)
	fill(&m.Creator, defaults.Creator)
	fill(&m.Email, defaults.Email)
	fill(&m.Source, defaults.Source)
	fill(&m.CoverPath, defaults.CoverPath)
	fill(&m.BookID, defaults.BookID)
	fill(&m.Version, defaults.Version)
	fill(&m.CreatedDateHuman, defaults.CreatedDateHuman)
	fill(&m.CreatedDateOPF, defaults.CreatedDateOPF)
	m.AddASCII = m.AddASCII || defaults.AddASCII
	return m
}
