package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var dbPath string

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded install runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openAuditStore(ctx, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No install runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					run.BundleLID,
					run.CreatedAt.UTC().Format(time.RFC3339),
					strconv.Itoa(run.FileCount),
					strconv.FormatInt(run.TotalBytes, 10),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Bundle", "When", "Files", "Bytes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	runsCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Audit database path (defaults to install.audit_db from the config)")
	runsCmd.AddCommand(newRunsShowCommand(ctx, &dbPath))
	return runsCmd
}

func newRunsShowCommand(ctx *commandContext, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the files a recorded run installed",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openAuditStore(ctx, *dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("no recorded run %s", args[0])
			}
			entries, err := store.RunEntries(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s\n", run.RunID)
			fmt.Fprintf(out, "  bundle: %s\n", run.BundleLID)
			fmt.Fprintf(out, "  from:   %s\n", run.BundleRoot)
			fmt.Fprintf(out, "  into:   %s\n", run.DestinationRoot)
			fmt.Fprintf(out, "  when:   %s\n", run.CreatedAt.UTC().Format(time.RFC3339))

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.RelPath,
					strconv.FormatInt(entry.Size, 10),
					entry.Checksum,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Path", "Bytes", run.Algorithm},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
