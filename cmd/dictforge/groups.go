package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dictforge/internal/compiler"
	"github.com/at-ishikawa/dictforge/internal/lettergroup"
)

func newGroupsCommand() *cobra.Command {
	var format FormatFlag
	command := &cobra.Command{
		Use:   "groups <source.md>...",
		Short: "Show how entries are paginated into letter groups",
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
			printGroups(cmd.OutOrStdout(), result.Groups)
			return nil
		},
	}
	addProcessingFlags(command.Flags(), &format)
	return command
}

func printGroups(w io.Writer, groups *lettergroup.Groups) {
	if groups.Len() == 0 {
		_, _ = fmt.Fprintln(w, "No entries.")
		return
	}

	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	tbl := table.New("Index", "Letter", "Page", "Entries", "Title").
		WithWriter(w).
		WithHeaderFormatter(headerFmt)
	for _, g := range groups.All() {
		tbl.AddRow(g.Index, g.Letter, g.FileName(), len(g.Entries), g.Title)
	}
	tbl.Print()
}
