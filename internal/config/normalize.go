package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeLogging()
	c.normalizePID()
	if err := c.normalizeInstall(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizePID() {
	c.PID.EncodeScheme = strings.ToLower(strings.TrimSpace(c.PID.EncodeScheme))
	if c.PID.EncodeScheme == "" {
		c.PID.EncodeScheme = defaultEncodeScheme
	}
	schemes := make([]string, 0, len(c.PID.DecodeSchemes))
	for _, s := range c.PID.DecodeSchemes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			schemes = append(schemes, s)
		}
	}
	if len(schemes) == 0 {
		schemes = []string{c.PID.EncodeScheme}
	}
	c.PID.DecodeSchemes = schemes
}

func (c *Config) normalizeInstall() error {
	if c.Install.Workers == 0 {
		c.Install.Workers = defaultInstallWorkers
	}
	c.Install.Checksum = strings.ToLower(strings.TrimSpace(c.Install.Checksum))
	if c.Install.Checksum == "" {
		c.Install.Checksum = defaultChecksum
	}
	if strings.TrimSpace(c.Install.AuditDB) != "" {
		expanded, err := expandPath(c.Install.AuditDB)
		if err != nil {
			return fmt.Errorf("install.audit_db: %w", err)
		}
		c.Install.AuditDB = expanded
	} else {
		c.Install.AuditDB = ""
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		expanded, err := expandPath(c.Logging.Dir)
		if err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
		c.Logging.Dir = expanded
	} else {
		c.Logging.Dir = ""
	}
	return nil
}
