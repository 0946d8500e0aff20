package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dictforge/internal/source"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir, "c5_plain", filepath.Join(tmpDir, "dict.txt"))

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "format: c5_plain")
	assert.Contains(t, string(content), "output_path: "+filepath.Join(tmpDir, "dict.txt"))
	assert.DirExists(t, filepath.Join(tmpDir, "templates"))
}

func TestWriteSampleSource(t *testing.T) {
	path := WriteSampleSource(t, t.TempDir())

	src, err := source.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Sample Dictionary", src.Metadata.Title)
	require.Len(t, src.Entries, 3)
	assert.Equal(t, "abbha", src.Entries[0].Word)
	assert.Equal(t, "a cloud", src.Entries[0].Definition)
	assert.Equal(t, 2, src.Entries[2].MeaningOrder)
}
