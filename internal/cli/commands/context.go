// Package commands contains the framesql CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/framesql/framesql/internal/config"
	"github.com/framesql/framesql/pkg/adapter"

	// Register the built-in adapters.
	_ "github.com/framesql/framesql/pkg/adapters/duckdb"
	_ "github.com/framesql/framesql/pkg/adapters/postgres"
	_ "github.com/framesql/framesql/pkg/adapters/sqlite"
)

type configKey struct{}
type loggerKey struct{}
type targetKey struct{}

// WithConfig stores the loaded config in the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFromContext retrieves the config stored by the root command.
func ConfigFromContext(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return nil
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext retrieves the logger stored by the root command.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithTarget stores the selected target name in the context.
func WithTarget(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, targetKey{}, name)
}

// TargetFromContext retrieves the selected target name.
func TargetFromContext(ctx context.Context) string {
	if t, ok := ctx.Value(targetKey{}).(string); ok {
		return t
	}
	return ""
}

// connectTarget resolves a target by name and returns a connected database
// manager. The caller owns the returned manager and has to close it.
func connectTarget(ctx context.Context, name string) (adapter.Database, error) {
	cfg := ConfigFromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("no framesql.yaml found, run from a project directory or pass --config")
	}
	target, err := cfg.Target(name)
	if err != nil {
		return nil, err
	}
	db, err := adapter.New(target.AdapterConfig(LoggerFromContext(ctx)))
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx, target.AdapterConfig(LoggerFromContext(ctx))); err != nil {
		return nil, err
	}
	return db, nil
}
