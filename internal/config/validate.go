package config

import (
	"fmt"

	"regolith/internal/pid"
)

// Validate checks the configuration for values normalize cannot repair.
func (c *Config) Validate() error {
	if c.Install.Workers < 1 {
		return fmt.Errorf("install.workers must be at least 1, got %d", c.Install.Workers)
	}
	switch c.Install.Checksum {
	case "sha256", "blake3":
	default:
		return fmt.Errorf("install.checksum must be sha256 or blake3, got %q", c.Install.Checksum)
	}
	if _, err := pid.ParseScheme(c.PID.EncodeScheme); err != nil {
		return fmt.Errorf("pid.encode_scheme: %w", err)
	}
	for _, s := range c.PID.DecodeSchemes {
		if _, err := pid.ParseScheme(s); err != nil {
			return fmt.Errorf("pid.decode_schemes: %w", err)
		}
	}
	return nil
}

// Codec builds the identifier codec selected by the configuration.
func (c *Config) Codec() (*pid.Codec, error) {
	encode, err := pid.ParseScheme(c.PID.EncodeScheme)
	if err != nil {
		return nil, fmt.Errorf("pid.encode_scheme: %w", err)
	}
	decode := make([]pid.Scheme, 0, len(c.PID.DecodeSchemes))
	for _, s := range c.PID.DecodeSchemes {
		scheme, err := pid.ParseScheme(s)
		if err != nil {
			return nil, fmt.Errorf("pid.decode_schemes: %w", err)
		}
		decode = append(decode, scheme)
	}
	return pid.NewCodec(encode, decode...)
}
