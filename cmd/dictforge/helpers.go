package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/dictforge/internal/compiler"
	"github.com/at-ishikawa/dictforge/internal/config"
	"github.com/at-ishikawa/dictforge/internal/ebook"
	"github.com/at-ishikawa/dictforge/internal/render"
)

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"format":             "build.format",
	"output":             "build.output_path",
	"build-dir":          "build.build_directory",
	"zip-with":           "build.zip_with",
	"mobi-compression":   "build.mobi_compression",
	"kindlegen":          "build.kindlegen_path",
	"dont-run-kindlegen": "build.dont_run_kindlegen",
	"keep-build-files":   "build.keep_build_files",
	"skip-processing":    "processing.skip",
	"strip-see-also":     "processing.strip_see_also",
	"templates":          "templates.directory",
	"entries-template":   "templates.entries_template",
	"title":              "overrides.title",
	"dict-label":         "overrides.dict_label",
}

// loadConfig loads the configuration with the flags of flags that were set
// taking precedence over the file.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := loader.Viper().BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
			}
		}
	}
	return loader.Load()
}

func compilerOptions(cfg *config.Config) (compiler.Options, error) {
	tag, err := render.ParseTag(cfg.Build.Format)
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{
		Format:            tag,
		OutputPath:        cfg.Build.OutputPath,
		BuildDir:          cfg.Build.BuildDirectory,
		Title:             cfg.Overrides.Title,
		DictLabel:         cfg.Overrides.DictLabel,
		Skip:              cfg.Processing.Skip,
		StripSeeAlso:      cfg.Processing.StripSeeAlso,
		TemplateDirectory: cfg.Templates.Directory,
		EntriesTemplate:   cfg.Templates.EntriesTemplate,
		KeepBuildFiles:    cfg.Build.KeepBuildFiles,
		DontRunKindleGen:  cfg.Build.DontRunKindleGen,
		Now:               time.Now(),
	}, nil
}

func newPackager(cfg *config.Config, logger *slog.Logger) *ebook.Packager {
	runner := ebook.ExecRunner{}
	var archiver ebook.Archiver = ebook.NewLibArchiver()
	if cfg.Build.ZipWith == "cli" {
		archiver = ebook.NewCLIArchiver(runner)
	}
	converter := ebook.NewKindleGen(cfg.Build.KindleGenPath, cfg.Build.MobiCompression, runner, logger)
	return ebook.NewPackager(archiver, converter, logger)
}
