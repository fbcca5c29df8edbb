package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Engine.validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if strings.TrimSpace(d.DSN) == "" {
		return fmt.Errorf("dsn is required")
	}
	if d.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be > 0 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be within 0..max_conns (got %d)", d.MinConns)
	}
	if d.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout must be >= 0 (got %s)", d.LockTimeout)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be debug, info, warn or error (got %q)", l.Level)
	}
	return nil
}

// bcrypt accepts costs 4..31.
func (a *AuthConfig) validate() error {
	if a.BcryptCost < 4 || a.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be within 4..31 (got %d)", a.BcryptCost)
	}
	if a.MinPasswordLength < 1 || a.MinPasswordLength > 72 {
		return fmt.Errorf("min_password_length must be within 1..72 (got %d)", a.MinPasswordLength)
	}
	return nil
}

func (e *EngineConfig) validate() error {
	switch e.DefaultRole {
	case "guest", "user":
	default:
		return fmt.Errorf("default_role must be guest or user (got %q)", e.DefaultRole)
	}
	if e.MaxListLimit <= 0 {
		return fmt.Errorf("max_list_limit must be > 0 (got %d)", e.MaxListLimit)
	}
	if e.ListLimit <= 0 || e.ListLimit > e.MaxListLimit {
		return fmt.Errorf("list_limit must be within 1..max_list_limit (got %d)", e.ListLimit)
	}
	return nil
}
