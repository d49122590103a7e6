// Package config loads the framesql project configuration: named database
// targets from framesql.yaml with environment variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/framesql/framesql/pkg/adapter"
	"github.com/framesql/framesql/pkg/dialect"
)

// TargetConfig holds the connection settings of one named database target.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlite, postgres, duckdb

	// File-based databases (SQLite, DuckDB)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema string `koanf:"schema"`

	// MustExist refuses to create a missing database file.
	MustExist bool `koanf:"must_exist"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// Config is the full project configuration.
type Config struct {
	// DefaultTarget names the target used when none is selected.
	DefaultTarget string `koanf:"default_target"`

	// Targets maps target names to their connection settings.
	Targets map[string]TargetConfig `koanf:"targets"`
}

// TargetNames returns the configured target names in sorted order.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Target resolves a target by name. An empty name resolves the default
// target.
func (c *Config) Target(name string) (TargetConfig, error) {
	if name == "" {
		name = c.DefaultTarget
	}
	if name == "" {
		if len(c.Targets) == 1 {
			for _, t := range c.Targets {
				return t, nil
			}
		}
		return TargetConfig{}, fmt.Errorf("no target selected and no default_target configured, available targets: %v", c.TargetNames())
	}
	t, ok := c.Targets[name]
	if !ok {
		return TargetConfig{}, fmt.Errorf("unknown target %q, available targets: %v", name, c.TargetNames())
	}
	return t, nil
}

// Validate checks every configured target against the adapter registry.
func (c *Config) Validate() error {
	if c.DefaultTarget != "" {
		if _, ok := c.Targets[c.DefaultTarget]; !ok {
			return fmt.Errorf("default_target %q is not a configured target", c.DefaultTarget)
		}
	}
	for name, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("target %q: %w", name, err)
		}
	}
	return nil
}

// Validate checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.List(),
		}
	}
	return nil
}

// AdapterConfig converts the target into the adapter connection config.
func (t *TargetConfig) AdapterConfig(logger *slog.Logger) adapter.Config {
	return adapter.Config{
		Type:      strings.ToLower(t.Type),
		Database:  t.Database,
		Host:      t.Host,
		Port:      t.Port,
		User:      t.User,
		Password:  t.Password,
		Schema:    t.Schema,
		MustExist: t.MustExist,
		Options:   t.Options,
		Logger:    logger,
	}
}

// DefaultSchemaForType returns the default schema for a database type.
// It looks up the dialect in the registry; if not found, returns "main" as
// a fallback.
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok && d.DefaultSchema != "" {
		return d.DefaultSchema
	}
	return "main"
}
