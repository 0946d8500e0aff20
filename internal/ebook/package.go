package ebook

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type PackageOptions struct {
	// BuildDir is the staging directory, usually <output dir>/ebook-build.
	BuildDir         string
	CoverPath        string
	KeepBuildFiles   bool
	DontRunKindleGen bool
}

// Packager stages a rendered book and produces the final artifact.
type Packager struct {
	archiver  Archiver
	converter Converter
	logger    *slog.Logger
}

func NewPackager(archiver Archiver, converter Converter, logger *slog.Logger) *Packager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Packager{
		archiver:  archiver,
		converter: converter,
		logger:    logger,
	}
}

// DefaultBuildDir returns the staging directory next to outputPath.
func DefaultBuildDir(outputPath string) string {
	return filepath.Join(filepath.Dir(outputPath), BuildDirName)
}

func (p *Packager) Epub(ctx context.Context, book *Book, outputPath string, options PackageOptions) error {
	buildDir := p.buildDir(outputPath, options)
	if err := Stage(buildDir, book, StageOptions{Container: true, CoverPath: options.CoverPath}, p.logger); err != nil {
		return fmt.Errorf("failed to stage the epub: %w", err)
	}
	if err := p.archiver.Archive(ctx, buildDir, outputPath); err != nil {
		return fmt.Errorf("failed to archive the epub: %w", err)
	}
	p.logDone(buildDir, outputPath)
	return p.cleanup(buildDir, options)
}

func (p *Packager) Mobi(ctx context.Context, book *Book, outputPath string, options PackageOptions) error {
	// kindlegen runs inside the staging directory, so every path it sees
	// must survive the change of working directory.
	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", outputPath, err)
	}
	buildDir, err := filepath.Abs(p.buildDir(outputPath, options))
	if err != nil {
		return fmt.Errorf("failed to resolve the build directory: %w", err)
	}

	if err := Stage(buildDir, book, StageOptions{CoverPath: options.CoverPath}, p.logger); err != nil {
		return fmt.Errorf("failed to stage the mobi sources: %w", err)
	}
	if options.DontRunKindleGen {
		p.logger.Info("skipping kindlegen", slog.String("buildDir", buildDir))
		return nil
	}
	if p.converter == nil {
		return fmt.Errorf("no mobi converter configured")
	}

	if err := p.converter.Convert(ctx, OPFPath(buildDir), outputPath); err != nil {
		return fmt.Errorf("failed to convert to mobi: %w", err)
	}
	p.logDone(buildDir, outputPath)
	return p.cleanup(buildDir, options)
}

func (p *Packager) buildDir(outputPath string, options PackageOptions) string {
	if options.BuildDir != "" {
		return options.BuildDir
	}
	return DefaultBuildDir(outputPath)
}

func (p *Packager) logDone(buildDir, outputPath string) {
	title, creator, err := BookTitle(OPFPath(buildDir))
	if err != nil {
		p.logger.Debug("failed to read the staged package", slog.Any("error", err))
		return
	}
	p.logger.Info("packaged a book",
		slog.String("title", title),
		slog.String("creator", creator),
		slog.String("output", outputPath),
	)
}

func (p *Packager) cleanup(buildDir string, options PackageOptions) error {
	if options.KeepBuildFiles {
		return nil
	}
	if err := os.RemoveAll(buildDir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", buildDir, err)
	}
	return nil
}
