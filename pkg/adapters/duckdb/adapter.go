// Package duckdb provides the DuckDB database manager for framesql.
package duckdb

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/adapter"
	"github.com/framesql/framesql/pkg/dialect"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements the adapter.Database interface for DuckDB.
type Adapter struct {
	adapter.Base
}

// New creates a new, not yet connected DuckDB adapter.
func New() *Adapter {
	a := &Adapter{}
	a.D, _ = dialect.Get("duckdb")
	return a
}

// Connect opens the DuckDB database file named by cfg.Database, or an
// in-memory database when the name is empty.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Database
	if cfg.MustExist && path != "" && path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			return framesql.WrapError(framesql.ErrDatabaseFileNotFound, err,
				"database file %s does not exist and must_exist is set", path)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("connecting to duckdb", slog.String("database", path))
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return framesql.WrapError(framesql.ErrCreateEngine, err,
			"failed to open duckdb database %s", path)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return framesql.WrapError(framesql.ErrCreateEngine, err,
			"failed to ping duckdb database %s", path)
	}

	a.DB = db
	a.Cfg = cfg
	a.Logger = cfg.Logger
	return nil
}

var _ adapter.Database = (*Adapter)(nil)
