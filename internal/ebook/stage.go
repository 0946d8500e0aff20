package ebook

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/at-ishikawa/dictforge/internal/assets"
)

const (
	// BuildDirName is created next to the output file.
	BuildDirName = "ebook-build"
	mimetype     = "application/epub+zip"
	metaInfDir   = "META-INF"
	oebpsDir     = "OEBPS"
	navName      = "htmltoc.xhtml"
)

type StageOptions struct {
	// Container writes mimetype and META-INF. Mobi builds skip them.
	Container bool
	// CoverPath is the cover image on disk. A missing file falls back to
	// the embedded default cover.
	CoverPath string
}

// OPFPath returns the package.opf of a staged build.
func OPFPath(buildDir string) string {
	return filepath.Join(buildDir, oebpsDir, "package.opf")
}

// Stage writes book into a fresh buildDir and verifies the result.
func Stage(buildDir string, book *Book, options StageOptions, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.RemoveAll(buildDir); err != nil {
		return fmt.Errorf("failed to clear %s: %w", buildDir, err)
	}
	oebps := filepath.Join(buildDir, oebpsDir)
	if err := os.MkdirAll(oebps, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", oebps, err)
	}

	if options.Container {
		if err := writeFile(filepath.Join(buildDir, "mimetype"), []byte(mimetype)); err != nil {
			return err
		}
		for _, name := range []string{assets.Container, assets.IBooksDisplayOption} {
			if err := copyStatic(filepath.Join(buildDir, metaInfDir, name), name); err != nil {
				return err
			}
		}
	}

	for _, f := range book.Files {
		if err := writeFile(filepath.Join(oebps, filepath.FromSlash(f.Name)), f.Content); err != nil {
			return err
		}
	}
	if err := copyStatic(filepath.Join(oebps, assets.StyleCSS), assets.StyleCSS); err != nil {
		return err
	}
	if book.CoverHref != "" {
		if err := stageCover(filepath.Join(oebps, book.CoverHref), options.CoverPath, logger); err != nil {
			return err
		}
	}

	if err := VerifyManifest(oebps); err != nil {
		return err
	}
	if hasFile(book, navName) {
		if err := VerifyNav(oebps, navName); err != nil {
			return err
		}
	}
	return nil
}

func stageCover(dst, src string, logger *slog.Logger) error {
	if src != "" {
		b, err := os.ReadFile(src)
		if err == nil {
			return writeFile(dst, b)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read cover %s: %w", src, err)
		}
		logger.Warn("cover image not found, using the default cover",
			slog.String("coverPath", src),
		)
	}
	return copyStatic(dst, assets.DefaultCover)
}

func copyStatic(dst, name string) error {
	b, err := assets.Static(name)
	if err != nil {
		return err
	}
	return writeFile(dst, b)
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func hasFile(book *Book, name string) bool {
	for _, f := range book.Files {
		if f.Name == name {
			return true
		}
	}
	return false
}
