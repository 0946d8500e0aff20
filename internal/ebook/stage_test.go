package ebook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dictforge/internal/assets"
)

func TestStage(t *testing.T) {
	tests := []struct {
		name      string
		options   func(t *testing.T) StageOptions
		wantFiles []string
		noFiles   []string
		wantCover []byte
	}{
		{
			name:    "epub tree with the default cover",
			options: func(t *testing.T) StageOptions { return StageOptions{Container: true} },
			wantFiles: []string{
				"mimetype",
				"META-INF/container.xml",
				"META-INF/com.apple.ibooks.display-options.xml",
				"OEBPS/package.opf",
				"OEBPS/style.css",
				"OEBPS/default_cover.jpg",
			},
		},
		{
			name: "mobi tree with a custom cover",
			options: func(t *testing.T) StageOptions {
				cover := filepath.Join(t.TempDir(), "cover.jpg")
				require.NoError(t, os.WriteFile(cover, []byte("custom"), 0644))
				return StageOptions{CoverPath: cover}
			},
			wantFiles: []string{"OEBPS/package.opf", "OEBPS/default_cover.jpg"},
			noFiles:   []string{"mimetype", "META-INF"},
			wantCover: []byte("custom"),
		},
		{
			name: "missing cover falls back to the default",
			options: func(t *testing.T) StageOptions {
				return StageOptions{CoverPath: filepath.Join(t.TempDir(), "missing.jpg")}
			},
			wantFiles: []string{"OEBPS/default_cover.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildDir := filepath.Join(t.TempDir(), BuildDirName)
			require.NoError(t, Stage(buildDir, testBook(), tt.options(t), nil))

			for _, name := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(buildDir, name))
			}
			for _, name := range tt.noFiles {
				assert.NoFileExists(t, filepath.Join(buildDir, name))
				assert.NoDirExists(t, filepath.Join(buildDir, name))
			}

			cover, err := os.ReadFile(filepath.Join(buildDir, "OEBPS", "default_cover.jpg"))
			require.NoError(t, err)
			want := tt.wantCover
			if want == nil {
				want, err = assets.Static(assets.DefaultCover)
				require.NoError(t, err)
			}
			assert.Equal(t, want, cover)
		})
	}
}

func TestStage_mimetype(t *testing.T) {
	buildDir := t.TempDir()
	require.NoError(t, Stage(buildDir, testBook(), StageOptions{Container: true}, nil))

	b, err := os.ReadFile(filepath.Join(buildDir, "mimetype"))
	require.NoError(t, err)
	assert.Equal(t, "application/epub+zip", string(b))
}

func TestStage_clearsPreviousBuild(t *testing.T) {
	buildDir := t.TempDir()
	stale := filepath.Join(buildDir, "OEBPS", "stale.xhtml")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	require.NoError(t, Stage(buildDir, testBook(), StageOptions{}, nil))
	assert.NoFileExists(t, stale)
}

func TestStage_missingManifestResource(t *testing.T) {
	book := testBook()
	book.Files = book.Files[1:]

	err := Stage(t.TempDir(), book, StageOptions{}, nil)
	assert.ErrorIs(t, err, ErrMissingResource)
}
