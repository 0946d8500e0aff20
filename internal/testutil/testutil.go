// Package testutil provides shared test helpers for creating config files and dictionary sources.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dictforge/internal/dictionary"
	"github.com/at-ishikawa/dictforge/internal/source"
)

// SetupTestConfig creates a config file building format into outputPath, with an empty template directory.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir, format, outputPath string) string {
	t.Helper()

	templatesDir := filepath.Join(tmpDir, "templates")
	require.NoError(t, os.MkdirAll(templatesDir, 0755))

	configContent := fmt.Sprintf(`build:
  format: %s
  output_path: %s
templates:
  directory: %s
`,
		format,
		outputPath,
		templatesDir,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SampleMetadata is the metadata of the sample source.
func SampleMetadata() dictionary.Metadata {
	return dictionary.Metadata{
		Title:            "Sample Dictionary",
		Creator:          "Tester",
		CreatedDateHuman: "Mon, 02 Jan 2006 15:04:05 +0000",
		CreatedDateOPF:   "2006-01-02T15:04:05Z",
	}
}

// SampleEntries returns a small corpus with a cross reference, a homograph and an unknown link.
func SampleEntries() []*dictionary.Entry {
	return []*dictionary.Entry{
		{Word: "abbha", GrammarComment: "m.", Definition: "a cloud"},
		{Word: "dhamma", Synonyms: []string{"abbha"}, Definition: "teaching, see [abbha](/define/abbha) and [kamma](/define/kamma)"},
		{Word: "dhamma", MeaningOrder: 2, Definition: "second"},
	}
}

// WriteSource writes meta and entries as a source file named name in dir.
// Returns the path to the source file.
func WriteSource(t *testing.T, dir, name string, meta dictionary.Metadata, entries []*dictionary.Entry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	require.NoError(t, source.WriteMarkdown(f, meta, entries))
	return path
}

// WriteSampleSource writes the sample corpus to dir/sample.md.
func WriteSampleSource(t *testing.T, dir string) string {
	t.Helper()
	return WriteSource(t, dir, "sample.md", SampleMetadata(), SampleEntries())
}
