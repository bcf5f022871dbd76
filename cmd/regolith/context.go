package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"regolith/internal/auditlog"
	"regolith/internal/config"
	"regolith/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func openAuditStore(c *commandContext, dbPath string) (*auditlog.Store, error) {
	if dbPath == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		dbPath = cfg.Install.AuditDB
	}
	if dbPath == "" {
		return nil, errors.New("no audit database configured; set install.audit_db in the config file or pass --db")
	}
	expanded, err := config.ExpandPath(dbPath)
	if err != nil {
		return nil, err
	}
	return auditlog.Open(expanded)
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}
