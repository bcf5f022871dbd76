package auditlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"regolith/internal/bundle"
)

// Run summarizes one recorded install.
type Run struct {
	RunID           string
	BundleLID       string
	BundleRoot      string
	DestinationRoot string
	Algorithm       string
	FileCount       int
	TotalBytes      int64
	CreatedAt       time.Time
}

// Store manages install history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the audit database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun persists an install manifest and its per-file entries in one
// transaction.
func (s *Store) RecordRun(ctx context.Context, manifest *bundle.Manifest) error {
	if manifest == nil {
		return errors.New("manifest is nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO install_runs (
            run_id, bundle_lid, bundle_root, destination_root,
            algorithm, file_count, total_bytes, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		manifest.RunID,
		manifest.BundleLID,
		manifest.BundleRoot,
		manifest.DestinationRoot,
		manifest.Algorithm,
		len(manifest.Entries),
		manifest.TotalBytes(),
		manifest.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, entry := range manifest.Entries {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO install_files (run_id, rel_path, source, size, checksum)
             VALUES (?, ?, ?, ?, ?)`,
			manifest.RunID,
			entry.RelPath,
			entry.Source,
			entry.Size,
			entry.Checksum,
		)
		if err != nil {
			return fmt.Errorf("insert file %s: %w", entry.RelPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns recorded runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, bundle_lid, bundle_root, destination_root,
                algorithm, file_count, total_bytes, created_at
         FROM install_runs ORDER BY created_at DESC, run_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(
			&run.RunID, &run.BundleLID, &run.BundleRoot, &run.DestinationRoot,
			&run.Algorithm, &run.FileCount, &run.TotalBytes, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", createdAt, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches one run by identifier, or nil when absent.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT run_id, bundle_lid, bundle_root, destination_root,
                algorithm, file_count, total_bytes, created_at
         FROM install_runs WHERE run_id = ?`,
		runID,
	)

	var run Run
	var createdAt string
	err := row.Scan(
		&run.RunID, &run.BundleLID, &run.BundleRoot, &run.DestinationRoot,
		&run.Algorithm, &run.FileCount, &run.TotalBytes, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse run timestamp %q: %w", createdAt, err)
	}
	return &run, nil
}

// RunEntries returns the per-file entries of a run, ordered by path.
func (s *Store) RunEntries(ctx context.Context, runID string) ([]bundle.Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT rel_path, source, size, checksum
         FROM install_files WHERE run_id = ? ORDER BY rel_path`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run files: %w", err)
	}
	defer rows.Close()

	var entries []bundle.Entry
	for rows.Next() {
		var entry bundle.Entry
		if err := rows.Scan(&entry.RelPath, &entry.Source, &entry.Size, &entry.Checksum); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run files: %w", err)
	}
	return entries, nil
}
