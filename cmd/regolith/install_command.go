package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"regolith/internal/auditlog"
	"regolith/internal/bundle"
	"regolith/internal/config"
)

func newInstallCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var checksum string
	var auditDB string
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "install <bundle-root> <destination>",
		Short: "Resolve a bundle and copy its files into a destination tree",
		Long: `Install walks the label reference graph rooted at <bundle-root>/bundle.xml,
verifies it is complete and acyclic, and copies every referenced file under
<destination> with checksum verification. Nothing is copied unless the whole
bundle resolves.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if workers > 0 {
				cfg.Install.Workers = workers
			}
			if v := strings.ToLower(strings.TrimSpace(checksum)); v != "" {
				cfg.Install.Checksum = v
			}
			if auditDB != "" {
				expanded, err := config.ExpandPath(auditDB)
				if err != nil {
					return err
				}
				cfg.Install.AuditDB = expanded
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			manifest, err := bundle.NewInstaller(cfg, logger).Install(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if cfg.Install.AuditDB != "" {
				if err := recordRun(cmd, cfg.Install.AuditDB, manifest); err != nil {
					return err
				}
			}
			if manifestPath != "" {
				if err := writeManifest(manifestPath, manifest); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Installed %s\n", manifest.BundleLID)
			fmt.Fprintf(out, "  run:   %s\n", manifest.RunID)
			fmt.Fprintf(out, "  files: %d (%d bytes, %s)\n", len(manifest.Entries), manifest.TotalBytes(), manifest.Algorithm)
			fmt.Fprintf(out, "  into:  %s\n", manifest.DestinationRoot)
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent copy workers (defaults to the configured value)")
	cmd.Flags().StringVar(&checksum, "checksum", "", "Checksum algorithm: sha256 or blake3")
	cmd.Flags().StringVar(&auditDB, "audit-db", "", "Record the run in this audit database")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Also write the run manifest as JSON to this path")
	return cmd
}

func recordRun(cmd *cobra.Command, dbPath string, manifest *bundle.Manifest) error {
	store, err := auditlog.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer store.Close()

	if err := store.RecordRun(cmd.Context(), manifest); err != nil {
		return fmt.Errorf("record install run: %w", err)
	}
	return nil
}

func writeManifest(path string, manifest *bundle.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
