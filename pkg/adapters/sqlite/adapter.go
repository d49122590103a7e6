// Package sqlite provides the SQLite database manager for framesql, backed
// by the cgo-free modernc.org driver.
package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/adapter"
	"github.com/framesql/framesql/pkg/dialect"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements the adapter.Database interface for SQLite.
type Adapter struct {
	adapter.Base
}

// New creates a new, not yet connected SQLite adapter.
func New() *Adapter {
	a := &Adapter{}
	a.D, _ = dialect.Get("sqlite")
	return a
}

// Connect opens the SQLite database named by cfg.Database. An empty name
// opens an in-memory database. With cfg.MustExist the file has to exist
// already, otherwise SQLite creates it on first write.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.Database
	if dsn == "" {
		dsn = ":memory:"
	}
	if cfg.MustExist && dsn != ":memory:" {
		if _, err := os.Stat(dsn); err != nil {
			return framesql.WrapError(framesql.ErrDatabaseFileNotFound, err,
				"database file %s does not exist and must_exist is set", dsn)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("connecting to sqlite", slog.String("database", dsn))
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return framesql.WrapError(framesql.ErrCreateEngine, err,
			"failed to open sqlite database %s", dsn)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return framesql.WrapError(framesql.ErrCreateEngine, err,
			"failed to ping sqlite database %s", dsn)
	}

	a.DB = db
	a.Cfg = cfg
	a.Logger = cfg.Logger

	if on, ok := cfg.Options["foreign_keys"]; ok {
		if err := a.ManageForeignKeys(ctx, on == "on" || on == "true" || on == "1"); err != nil {
			_ = db.Close()
			a.DB = nil
			return err
		}
	}
	return nil
}

// ManageForeignKeys turns foreign key enforcement on or off for the
// connection. SQLite ships with enforcement off.
func (a *Adapter) ManageForeignKeys(ctx context.Context, on bool) error {
	if a.DB == nil {
		return framesql.NewError(framesql.ErrCreateEngine,
			"database connection not established")
	}
	pragma := "PRAGMA foreign_keys = OFF"
	if on {
		pragma = "PRAGMA foreign_keys = ON"
	}
	if _, err := a.DB.ExecContext(ctx, pragma); err != nil {
		return framesql.WrapError(framesql.ErrExecuteStatement, err,
			"failed to set foreign key enforcement")
	}
	return nil
}

var _ adapter.Database = (*Adapter)(nil)
