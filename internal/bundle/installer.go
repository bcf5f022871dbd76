package bundle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"regolith/internal/config"
	"regolith/internal/fileutil"
	"regolith/internal/logging"
)

// LockFileName is the advisory lock the installer holds in the destination
// root for the duration of a run.
const LockFileName = ".regolith.lock"

// Installer copies resolved bundles into destination trees.
type Installer struct {
	cfg      *config.Config
	logger   *slog.Logger
	resolver *Resolver
}

// NewInstaller constructs the installer using default dependencies.
func NewInstaller(cfg *config.Config, logger *slog.Logger) *Installer {
	return &Installer{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "installer"),
		resolver: NewResolver(logger),
	}
}

// Install resolves the bundle at bundleRoot and copies every resolved file
// under destRoot, preserving layout relative to the bundle root. Each copy
// is checksum-verified; the first failure aborts the remaining copies,
// though copies already started run to completion before Install returns.
// Pre-existing destination files are overwritten, so an interrupted run is
// resumed by running Install again.
func (ins *Installer) Install(ctx context.Context, bundleRoot, destRoot string) (*Manifest, error) {
	algo, err := fileutil.ParseAlgorithm(ins.cfg.Install.Checksum)
	if err != nil {
		return nil, err
	}

	dest, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve destination root %q: %w", destRoot, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("create destination root: %w", err)
	}

	lock := flock.New(filepath.Join(dest, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock destination: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrDestinationLocked, dest)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	graph, err := ins.resolver.Resolve(ctx, bundleRoot)
	if err != nil {
		return nil, err
	}

	files := graph.Files()
	entries := make([]Entry, len(files))
	if err := ins.copyAll(ctx, files, dest, algo, entries); err != nil {
		return nil, err
	}

	manifest := &Manifest{
		RunID:           uuid.NewString(),
		BundleLID:       graph.Document().LID,
		BundleRoot:      graph.Root,
		DestinationRoot: dest,
		Algorithm:       string(algo),
		CreatedAt:       time.Now().UTC(),
		Entries:         entries,
	}
	ins.logger.Info(
		"bundle installed",
		logging.String(logging.FieldRunID, manifest.RunID),
		logging.String(logging.FieldBundle, manifest.BundleLID),
		logging.Int("files", len(entries)),
		logging.Int64("bytes", manifest.TotalBytes()),
	)
	return manifest, nil
}

// copyAll fans the copy list out over the configured number of workers.
// The first error cancels the remaining queue; every started copy finishes
// before copyAll returns, so no writes outlive the call.
func (ins *Installer) copyAll(ctx context.Context, files []FileRef, dest string, algo fileutil.Algorithm, entries []Entry) error {
	workers := ins.cfg.Install.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}
	if workers == 0 {
		return nil
	}

	copyCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if copyCtx.Err() != nil {
					continue // aborted, drain the queue without copying
				}
				entry, err := ins.copyOne(files[i], dest, algo)
				if err != nil {
					fail(err)
					continue
				}
				entries[i] = entry
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

func (ins *Installer) copyOne(f FileRef, dest string, algo fileutil.Algorithm) (Entry, error) {
	dst := filepath.Join(dest, filepath.FromSlash(f.RelPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Entry{}, fmt.Errorf("create directory for %s: %w", f.RelPath, err)
	}

	result, err := fileutil.CopyVerified(f.Source, dst, algo)
	if err != nil {
		var mismatch *fileutil.MismatchError
		if errors.As(err, &mismatch) {
			return Entry{}, &CopyIntegrityError{
				Source:      f.Source,
				Destination: dst,
				Algorithm:   string(mismatch.Algorithm),
				Expected:    mismatch.Expected,
				Actual:      mismatch.Actual,
			}
		}
		return Entry{}, fmt.Errorf("copy %s: %w", f.Source, err)
	}

	ins.logger.Debug(
		"copied file",
		logging.String("relative_path", f.RelPath),
		logging.Int64("bytes", result.Size),
		logging.String("checksum", result.Digest),
	)
	return Entry{RelPath: f.RelPath, Source: f.Source, Size: result.Size, Checksum: result.Digest}, nil
}
