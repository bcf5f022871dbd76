package testsupport

import (
	"path/filepath"
	"testing"

	"regolith/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a normalized config suitable for tests: single-worker
// installs, sha256 checksums, audit logging off.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Install.Workers = 1
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithWorkers sets the installer copy concurrency.
func WithWorkers(n int) ConfigOption {
	return func(c *config.Config) {
		c.Install.Workers = n
	}
}

// WithChecksum selects the installer checksum algorithm.
func WithChecksum(algo string) ConfigOption {
	return func(c *config.Config) {
		c.Install.Checksum = algo
	}
}

// WithAuditDB points the installer audit log at a database under dir.
func WithAuditDB(dir string) ConfigOption {
	return func(c *config.Config) {
		c.Install.AuditDB = filepath.Join(dir, "installs.db")
	}
}
