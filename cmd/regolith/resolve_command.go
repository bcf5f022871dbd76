package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"regolith/internal/bundle"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var showSizes bool

	cmd := &cobra.Command{
		Use:   "resolve <bundle-root>",
		Short: "Walk a bundle's reference graph and list the files it covers",
		Long: `Resolve performs the same reference walk as install without copying
anything. It lists every file the bundle covers, or fails with the first
cycle, dangling reference, or escaping path it finds.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			graph, err := bundle.NewResolver(logger).Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			files := graph.Files()
			out := cmd.OutOrStdout()

			if !isTerminal(out) {
				// Plain lines when piped, one relative path each.
				for _, f := range files {
					fmt.Fprintln(out, f.RelPath)
				}
				return nil
			}

			headers := []string{"Path"}
			aligns := []columnAlignment{alignLeft}
			if showSizes {
				headers = append(headers, "Bytes")
				aligns = append(aligns, alignRight)
			}
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				row := []string{f.RelPath}
				if showSizes {
					info, err := os.Stat(f.Source)
					if err != nil {
						return err
					}
					row = append(row, strconv.FormatInt(info.Size(), 10))
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			fmt.Fprintf(out, "%s: %d files\n", graph.Document().LID, len(files))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSizes, "sizes", false, "Include file sizes in the listing")
	return cmd
}
