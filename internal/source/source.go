// Package source reads and writes dictionary sources: a TOML metadata
// block followed by entries, each a TOML header and a markdown definition.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
)

const (
	MetadataSeparator = "--- DICTIONARY METADATA ---"
	EntriesSeparator  = "--- DICTIONARY WORD ENTRIES ---"
	tomlFence         = "``` toml"
	fence             = "```"
)

// ErrMalformed wraps every parse failure of a source.
var ErrMalformed = errors.New("malformed source")

type Source struct {
	Metadata dictionary.Metadata
	Entries  []dictionary.Entry
}

// ReadFile parses the source at path.
func ReadFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	src, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s > %w", path, err)
	}
	return src, nil
}

func Parse(r io.Reader) (*Source, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read the source: %w", err)
	}

	parts := strings.Split(string(b), EntriesSeparator)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: Bad Markdown input. Can't separate the Dictionary header and DictWord entries", ErrMalformed)
	}

	header := strings.NewReplacer(MetadataSeparator, "", tomlFence, "", fence, "").Replace(parts[0])
	var src Source
	if err := toml.Unmarshal([]byte(header), &src.Metadata); err != nil {
		return nil, fmt.Errorf("%w: dictionary metadata: %w", ErrMalformed, err)
	}

	for i, block := range strings.Split(parts[1], tomlFence) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		entry, err := parseEntry(block)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrMalformed, i, err)
		}
		src.Entries = append(src.Entries, entry)
	}
	return &src, nil
}

func parseEntry(block string) (dictionary.Entry, error) {
	header, definition, ok := strings.Cut(block, fence)
	if !ok {
		return dictionary.Entry{}, errors.New("the toml header is not closed")
	}
	var entry dictionary.Entry
	if err := toml.Unmarshal([]byte(header), &entry); err != nil {
		return dictionary.Entry{}, err
	}
	if strings.TrimSpace(entry.Word) == "" {
		return dictionary.Entry{}, errors.New("word is empty")
	}
	entry.Definition = strings.TrimSpace(definition)
	return entry, nil
}

// WriteMarkdown writes meta and entries in the source format Parse reads.
func WriteMarkdown(w io.Writer, meta dictionary.Metadata, entries []*dictionary.Entry) error {
	header, err := toml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("toml.Marshal() > %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n\n%s\n%s\n%s\n\n%s\n\n",
		MetadataSeparator, tomlFence, strings.TrimSpace(string(header)), fence, EntriesSeparator); err != nil {
		return fmt.Errorf("failed to write the metadata: %w", err)
	}

	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		b, err := toml.Marshal(e)
		if err != nil {
			return fmt.Errorf("toml.Marshal(%s) > %w", e.Word, err)
		}
		blocks = append(blocks, fmt.Sprintf("%s\n%s\n%s\n\n%s",
			tomlFence, strings.TrimSpace(string(b)), fence, strings.TrimSpace(e.Definition)))
	}
	if _, err := io.WriteString(w, strings.Join(blocks, "\n\n")+"\n"); err != nil {
		return fmt.Errorf("failed to write the entries: %w", err)
	}
	return nil
}

type dump struct {
	Metadata dictionary.Metadata `yaml:"metadata"`
	Entries  []*dictionary.Entry `yaml:"entries"`
}

// WriteYAML dumps meta and entries as one YAML document.
func WriteYAML(w io.Writer, meta dictionary.Metadata, entries []*dictionary.Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(dump{Metadata: meta, Entries: entries}); err != nil {
		return fmt.Errorf("yaml.Encode() > %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("yaml.Encode() > %w", err)
	}
	return nil
}
