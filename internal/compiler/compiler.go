// Package compiler runs one build: it merges sources into a dictionary,
// normalizes and groups the entries, renders one format and writes the
// artifact.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ianlewis/go-dictzip"

	"github.com/at-ishikawa/dictforge/internal/assets"
	"github.com/at-ishikawa/dictforge/internal/dictionary"
	"github.com/at-ishikawa/dictforge/internal/ebook"
	"github.com/at-ishikawa/dictforge/internal/lettergroup"
	"github.com/at-ishikawa/dictforge/internal/normalize"
	"github.com/at-ishikawa/dictforge/internal/render"
	"github.com/at-ishikawa/dictforge/internal/source"
)

// DictzipExtension on a C5 output path makes Build compress the output.
const DictzipExtension = ".dz"

type Options struct {
	Format render.Tag
	// OutputPath defaults to "<dict label or title>.<format extension>"
	// in the working directory.
	OutputPath string
	BuildDir   string

	Title     string
	DictLabel string

	Skip         bool
	StripSeeAlso bool

	TemplateDirectory string
	EntriesTemplate   string

	KeepBuildFiles   bool
	DontRunKindleGen bool

	// Now stamps the created dates a source leaves empty.
	Now time.Time
}

// Result is a prepared build: the normalized dictionary and its letter
// groups.
type Result struct {
	Dictionary *dictionary.Dictionary
	Groups     *lettergroup.Groups
	Format     render.Format
}

type Compiler struct {
	packager *ebook.Packager
	logger   *slog.Logger
}

func New(packager *ebook.Packager, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		packager: packager,
		logger:   logger,
	}
}

// ReadSources parses every path in order.
func ReadSources(paths []string) ([]*source.Source, error) {
	if len(paths) == 0 {
		return nil, errors.New("no source files given")
	}
	sources := make([]*source.Source, 0, len(paths))
	for _, path := range paths {
		src, err := source.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Prepare runs every phase before rendering. Each phase finishes over the
// whole corpus before the next one starts.
func (c *Compiler) Prepare(sources []*source.Source, options Options) (*Result, error) {
	format, err := render.FormatFor(options.Format)
	if err != nil {
		return nil, err
	}

	d := dictionary.New(c.metadata(sources, options), c.logger)
	for _, src := range sources {
		for _, entry := range src.Entries {
			d.Add(entry)
		}
	}
	c.logger.Debug("loaded entries",
		slog.Int("entries", d.Len()),
		slog.Int("sources", len(sources)),
	)

	normalize.New(normalize.Options{
		Plain:        format.Plain(),
		StripSeeAlso: options.StripSeeAlso,
		Skip:         options.Skip,
	}, c.logger).Run(d.Entries())

	return &Result{
		Dictionary: d,
		Groups:     lettergroup.Build(d),
		Format:     format,
	}, nil
}

// Build prepares, renders and writes one artifact. It returns the output
// path.
func (c *Compiler) Build(ctx context.Context, sources []*source.Source, options Options) (string, error) {
	result, err := c.Prepare(sources, options)
	if err != nil {
		return "", err
	}
	format := result.Format
	outputPath := options.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath(result.Dictionary.Metadata, format)
	}

	renderer := render.NewRenderer(format, render.Options{
		TemplateDirectory: options.TemplateDirectory,
		EntriesTemplate:   options.EntriesTemplate,
	}, c.logger)

	if !format.Paginated() {
		doc, err := renderer.Document(result.Dictionary, result.Groups)
		if err != nil {
			return "", fmt.Errorf("failed to render %s: %w", format.Tag(), err)
		}
		dictzipped := isC5(format.Tag()) && strings.HasSuffix(outputPath, DictzipExtension)
		if err := writeDocument(outputPath, doc, dictzipped); err != nil {
			return "", err
		}
		c.logger.Info("wrote a dictionary",
			slog.String("format", format.Tag().String()),
			slog.Int("entries", result.Dictionary.Len()),
			slog.String("output", outputPath),
		)
		return outputPath, nil
	}

	book, err := renderer.Book(result.Dictionary, result.Groups)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", format.Tag(), err)
	}
	packageOptions := ebook.PackageOptions{
		BuildDir:         options.BuildDir,
		CoverPath:        coverPath(result.Dictionary.Metadata.CoverPath),
		KeepBuildFiles:   options.KeepBuildFiles,
		DontRunKindleGen: options.DontRunKindleGen,
	}
	if format.Tag() == render.Mobi {
		err = c.packager.Mobi(ctx, book, outputPath, packageOptions)
	} else {
		err = c.packager.Epub(ctx, book, outputPath, packageOptions)
	}
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

// metadata takes the first source's metadata, fills empty fields from the
// later sources and then from the defaults.
func (c *Compiler) metadata(sources []*source.Source, options Options) dictionary.Metadata {
	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}

	var meta dictionary.Metadata
	for i, src := range sources {
		if i == 0 {
			meta = src.Metadata
			continue
		}
		meta = meta.Merge(src.Metadata)
		if meta.DictLabel == "" {
			meta.DictLabel = src.Metadata.DictLabel
		}
	}
	meta = meta.Merge(dictionary.DefaultMetadata(now))

	if options.Title != "" {
		meta.Title = options.Title
	}
	if options.DictLabel != "" {
		meta.DictLabel = options.DictLabel
	}
	meta.IsEpub = options.Format == render.Epub
	meta.IsMobi = options.Format == render.Mobi
	return meta
}

// DefaultOutputPath names the artifact after the dictionary label, or the
// title when there is no label.
func DefaultOutputPath(meta dictionary.Metadata, format render.Format) string {
	name := meta.DictLabel
	if name == "" {
		name = meta.Title
	}
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = "dictionary"
	}
	return name + format.Extension()
}

// coverPath returns "" for the embedded cover so staging copies it without
// looking on disk.
func coverPath(path string) string {
	if path == assets.DefaultCover {
		return ""
	}
	return path
}

func isC5(tag render.Tag) bool {
	return tag == render.C5Plain || tag == render.C5HTML
}

func writeDocument(path string, doc []byte, dictzipped bool) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	if !dictzipped {
		if _, err := f.Write(doc); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	z, err := dictzip.NewWriter(f)
	if err != nil {
		return fmt.Errorf("dictzip.NewWriter() > %w", err)
	}
	if _, err := z.Write(doc); err != nil {
		_ = z.Close()
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}
	if err := z.Close(); err != nil {
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}
	return nil
}
