package config

import (
	"os"
	"path/filepath"
	"testing"

	"regolith/internal/pid"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("exists = true for missing file %s", path)
	}
	if cfg.Install.Workers != defaultInstallWorkers {
		t.Fatalf("Workers = %d, want default %d", cfg.Install.Workers, defaultInstallWorkers)
	}
	if cfg.Install.Checksum != "sha256" {
		t.Fatalf("Checksum = %q", cfg.Install.Checksum)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[logging]
format = "JSON"
level = "Debug"

[pid]
encode_scheme = "V2"
decode_schemes = ["V2", " v1 "]

[install]
workers = 2
checksum = "BLAKE3"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("exists = false for a present file")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.Install.Checksum != "blake3" || cfg.Install.Workers != 2 {
		t.Fatalf("install = %+v", cfg.Install)
	}
	if len(cfg.PID.DecodeSchemes) != 2 || cfg.PID.DecodeSchemes[1] != "v1" {
		t.Fatalf("decode schemes = %v", cfg.PID.DecodeSchemes)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Install.Workers = -1 }},
		{"unknown checksum", func(c *Config) { c.Install.Checksum = "crc32" }},
		{"unknown encode scheme", func(c *Config) { c.PID.EncodeScheme = "v9" }},
		{"unknown decode scheme", func(c *Config) { c.PID.DecodeSchemes = []string{"v2", "v9"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate succeeded, want error")
			}
		})
	}
}

func TestCodecFromConfig(t *testing.T) {
	cfg := Default()
	codec, err := cfg.Codec()
	if err != nil {
		t.Fatalf("Codec: %v", err)
	}
	if codec.EncodeScheme() != pid.SchemeV2 {
		t.Fatalf("EncodeScheme = %s", codec.EncodeScheme())
	}
	schemes := codec.DecodeSchemes()
	if len(schemes) != 2 || schemes[0] != pid.SchemeV2 || schemes[1] != pid.SchemeV1 {
		t.Fatalf("DecodeSchemes = %v", schemes)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample not found after CreateSample")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
	if err := CreateSample(path); err == nil {
		t.Fatal("CreateSample over an existing file succeeded")
	}
}
