package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/dictforge/internal/compiler"
	"github.com/at-ishikawa/dictforge/internal/render"
)

// FormatFlag selects the output format of a build.
type FormatFlag struct {
	tag render.Tag
	set bool
}

// Set implements pflag.Value.
func (f *FormatFlag) Set(v string) error {
	tag, err := render.ParseTag(v)
	if err != nil {
		return err
	}
	f.tag = tag
	f.set = true
	return nil
}

// String implements pflag.Value.
func (f *FormatFlag) String() string {
	if f == nil || !f.set {
		return ""
	}
	return f.tag.String()
}

// Type implements pflag.Value.
func (f *FormatFlag) Type() string {
	return "FormatFlag"
}

var (
	_ pflag.Value = (*FormatFlag)(nil)
)

func addProcessingFlags(flags *pflag.FlagSet, format *FormatFlag) {
	flags.Var(format, "format", "Output format. Options: "+strings.Join(render.TagNames(), ", "))
	flags.Bool("skip-processing", false, "Only tidy definitions and derive summaries")
	flags.Bool("strip-see-also", false, "Remove (see ...) notes once their references are collected")
	flags.String("title", "", "Replace the dictionary title of the sources")
	flags.String("dict-label", "", "Replace the dictionary label of the sources")
}

func newBuildCommand() *cobra.Command {
	var format FormatFlag
	command := &cobra.Command{
		Use:   "build <source.md>...",
		Short: "Compile dictionary sources into one output format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			options, err := compilerOptions(cfg)
			if err != nil {
				return err
			}
			sources, err := compiler.ReadSources(args)
			if err != nil {
				return fmt.Errorf("failed to read sources: %w", err)
			}

			logger := slog.Default()
			outputPath, err := compiler.New(newPackager(cfg, logger), logger).Build(cmd.Context(), sources, options)
			if err != nil {
				_, _ = color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "✗ %s build failed\n", options.Format)
				return err
			}
			green := color.New(color.FgGreen)
			if options.Format == render.Mobi && options.DontRunKindleGen {
				_, _ = green.Fprintf(cmd.OutOrStdout(), "✓ Staged the Mobi sources of %s\n", outputPath)
				return nil
			}
			_, _ = green.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%s)\n", outputPath, options.Format)
			return nil
		},
	}

	flags := command.Flags()
	addProcessingFlags(flags, &format)
	flags.StringP("output", "o", "", "Output path. Defaults to <dict label>.<extension>")
	flags.String("build-dir", "", "Staging directory for e-book builds")
	flags.String("zip-with", "", "Epub archiver. Options: lib, cli")
	flags.Int("mobi-compression", 0, "KindleGen compression level, 0 to 2")
	flags.String("kindlegen", "", "Path to the kindlegen binary")
	flags.Bool("dont-run-kindlegen", false, "Stop after staging the Mobi sources")
	flags.Bool("keep-build-files", false, "Keep the staging directory after the build")
	flags.String("templates", "", "Directory with template overrides")
	flags.String("entries-template", "", "Template name for the entries pages of e-books")
	return command
}
