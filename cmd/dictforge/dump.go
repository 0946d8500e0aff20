package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/dictforge/internal/compiler"
	"github.com/at-ishikawa/dictforge/internal/source"
)

type DumpFlag string

// Set implements pflag.Value.
func (d *DumpFlag) Set(v string) error {
	switch v {
	case string(DumpYAML):
		*d = DumpYAML
	case string(DumpMarkdown):
		*d = DumpMarkdown
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, DumpYAML, DumpMarkdown)
	}
	return nil
}

// String implements pflag.Value.
func (d *DumpFlag) String() string {
	if d == nil {
		return ""
	}
	return string(*d)
}

// Type implements pflag.Value.
func (d *DumpFlag) Type() string {
	return "DumpFlag"
}

var (
	_ pflag.Value = (*DumpFlag)(nil)
)

const (
	DumpYAML     DumpFlag = "yaml"
	DumpMarkdown DumpFlag = "markdown"
)

func newDumpCommand() *cobra.Command {
	var format FormatFlag
	as := DumpYAML
	var outputPath string
	command := &cobra.Command{
		Use:   "dump <source.md>...",
		Short: "Print the normalized entries",
		Long:  "Print the entries after normalization, as YAML or in the markdown source format",
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
			result, err := compiler.New(nil, slog.Default()).Prepare(sources, options)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outputPath, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			d := result.Dictionary
			if as == DumpMarkdown {
				return source.WriteMarkdown(w, d.Metadata, d.Entries())
			}
			return source.WriteYAML(w, d.Metadata, d.Entries())
		},
	}

	flags := command.Flags()
	addProcessingFlags(flags, &format)
	flags.Var(&as, "as", "Output encoding. Options: yaml, markdown")
	flags.StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")
	return command
}
