// Package postgres provides the PostgreSQL database manager for framesql,
// backed by the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/adapter"
	"github.com/framesql/framesql/pkg/dialect"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// Adapter implements the adapter.Database interface for PostgreSQL.
type Adapter struct {
	adapter.Base
}

// New creates a new, not yet connected PostgreSQL adapter.
func New() *Adapter {
	a := &Adapter{}
	a.D, _ = dialect.Get("postgres")
	return a
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("connecting to postgres",
			slog.String("host", cfg.Host),
			slog.String("database", cfg.Database))
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return framesql.WrapError(framesql.ErrCreateEngine, err,
			"failed to open postgres connection")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return framesql.WrapError(framesql.ErrCreateEngine, err,
			"failed to ping postgres database %s", cfg.Database)
	}

	a.DB = db
	a.Cfg = cfg
	a.Logger = cfg.Logger
	return nil
}

// buildDSN constructs a key=value PostgreSQL connection string from the
// config.
func buildDSN(cfg adapter.Config) (string, error) {
	if cfg.Database == "" {
		return "", framesql.NewError(framesql.ErrCreateConnectionURL,
			"a database name is required to connect to postgres")
	}
	if cfg.Password != "" && cfg.User == "" {
		return "", framesql.NewError(framesql.ErrCreateConnectionURL,
			"a password was given without a user")
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)
	if cfg.User != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.User)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	if cfg.Schema != "" {
		dsn += fmt.Sprintf(" search_path=%s", cfg.Schema)
	}
	return dsn, nil
}

var _ adapter.Database = (*Adapter)(nil)
