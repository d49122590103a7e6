// Package adapter defines the database manager contract of framesql and a
// base implementation shared by the concrete adapters in pkg/adapters/.
//
// A Database wraps one database/sql connection pool plus its dialect and
// exposes the frame-oriented operations: loading query results into frames,
// saving frames under a save policy, per-row upserts and single-statement
// merges. Concrete adapters contribute connection handling (DSN
// construction, driver selection, session pragmas) and embed Base for
// everything else.
package adapter

import (
	"context"
	"log/slog"

	"github.com/framesql/framesql/pkg/dialect"
	"github.com/framesql/framesql/pkg/frame"
)

// Conn is the connection surface the operations run on. *sql.DB, *sql.Tx
// and *sql.Conn all satisfy it.
type Conn = frame.ExecQuerier

// Config holds the connection settings for a database target.
type Config struct {
	// Type names the adapter to use ("sqlite", "postgres", "duckdb").
	Type string `koanf:"type"`

	// Database is the database name, or the file path for file-backed
	// engines. Empty means in-memory for engines that support it.
	Database string `koanf:"database"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Schema   string `koanf:"schema"`

	// MustExist makes file-backed adapters fail when the database file
	// does not already exist instead of creating it.
	MustExist bool `koanf:"must_exist"`

	// Options carries adapter-specific settings, e.g. "foreign_keys" for
	// SQLite.
	Options map[string]string `koanf:"options"`

	// Logger receives operation logs. Nil disables logging.
	Logger *slog.Logger `koanf:"-"`
}

// Database is the interface all framesql database managers implement.
type Database interface {
	// Connect opens the connection pool described by the config and
	// verifies it with a ping.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection pool.
	Close() error

	// Dialect returns the SQL dialect configuration of the manager.
	Dialect() *dialect.Dialect

	// Exec runs a statement that returns no rows and reports the number
	// of affected rows. Named ":name" markers in the statement are bound
	// from params.
	Exec(ctx context.Context, stmt string, params map[string]any) (int64, error)

	// Query runs a statement and scans the result into a frame.
	Query(ctx context.Context, stmt string, params map[string]any, opts frame.ScanOptions) (*frame.Frame, error)

	// LoadTable loads a table or the result of a SELECT statement into a
	// frame.
	LoadTable(ctx context.Context, source string, opts LoadOptions) (*frame.Frame, error)

	// SaveFrame writes a frame to a table under the configured save
	// policy and returns the number of rows written.
	SaveFrame(ctx context.Context, f *frame.Frame, table string, opts SaveOptions) (int64, error)

	// DeleteAllRecords removes every row of a table and returns the
	// number of deleted rows.
	DeleteAllRecords(ctx context.Context, table string) (int64, error)

	// Upsert updates existing rows and inserts missing ones, one row at
	// a time, matching on the configured match columns (the frame's row
	// key by default).
	Upsert(ctx context.Context, f *frame.Frame, table string, opts UpsertOptions) (UpsertResult, error)

	// Merge performs the update-or-insert with the dialect's native MERGE
	// statement. Dialects without MERGE support fail the static
	// capability check before anything is built or executed.
	Merge(ctx context.Context, f *frame.Frame, table string, opts MergeOptions) (MergeResult, error)
}

// LoadOptions tune LoadTable.
type LoadOptions struct {
	// Params binds named markers when source is a SELECT statement.
	Params map[string]any

	// Scan configures how the result set becomes a frame: row key,
	// column type coercion, datetime parsing and timezone handling.
	Scan frame.ScanOptions
}

// SavePolicy selects what SaveFrame does when the target table already
// holds data.
type SavePolicy string

const (
	// SaveAppend adds the frame's rows to whatever the table holds.
	SaveAppend SavePolicy = "append"

	// SaveFail refuses to write when the table already exists.
	SaveFail SavePolicy = "fail"

	// SaveReplace deletes all rows and keeps the table definition.
	SaveReplace SavePolicy = "replace"

	// SaveDropReplace drops the table and recreates it from the frame's
	// schema before writing.
	SaveDropReplace SavePolicy = "drop-replace"
)

// SaveOptions tune SaveFrame.
type SaveOptions struct {
	// Policy defaults to SaveAppend.
	Policy SavePolicy

	// ChunkSize caps rows per INSERT statement. Zero derives a chunk
	// size from the dialect's bind-parameter budget.
	ChunkSize int

	// TimeEncoding overrides how Time columns cross the wire for
	// dialects without native datetime binding. Empty defaults to the
	// string encoding.
	TimeEncoding frame.TimeEncoding

	// TimeLayout is the layout for the string time encoding. Empty
	// defaults to frame.DefaultTimeLayout.
	TimeLayout string
}

// UpsertOptions tune Upsert.
type UpsertOptions struct {
	// Columns selects the data columns to update and insert. The zero
	// value selects all of them. The frame's key columns are always part
	// of the insert and never part of the update set.
	Columns frame.Selection

	// MatchColumns selects the columns that correlate frame rows with
	// existing table rows. The zero value matches on the frame's row
	// key. Match columns never enter the update set.
	MatchColumns frame.Selection

	// UpdateKey selects row-key components to update alongside the data
	// columns. The zero value keeps the key out of the update set. Key
	// components that are also match columns are not updated.
	UpdateKey frame.Selection

	// UpdateOnly skips the insert of unmatched rows.
	UpdateOnly bool

	// DryRun builds and returns the statements without touching the
	// database.
	DryRun bool

	// Conn runs the upsert on a caller-supplied connection or
	// transaction. No transaction is opened then; the caller owns the
	// transaction boundary.
	Conn Conn
}

// UpsertResult reports what an upsert did together with the statements it
// ran.
type UpsertResult struct {
	Updated  int64
	Inserted int64

	UpdateStatement string
	InsertStatement string
}

// MergeOptions tune Merge.
type MergeOptions struct {
	// Columns selects the data columns to merge, like UpsertOptions.Columns.
	Columns frame.Selection

	// MatchColumns selects the columns the MERGE correlates on, like
	// UpsertOptions.MatchColumns. The zero value matches on the frame's
	// row key.
	MatchColumns frame.Selection

	// UpdateKey selects row-key components to include in the WHEN
	// MATCHED update set, like UpsertOptions.UpdateKey.
	UpdateKey frame.Selection

	// AddUpdateCondition guards the WHEN MATCHED branch so matched rows
	// are only rewritten when an update column actually differs. By
	// default matched rows are always rewritten.
	AddUpdateCondition bool

	// TargetAlias and SourceAlias override the aliases in the generated
	// statement.
	TargetAlias string
	SourceAlias string

	// DryRun builds and returns the statement without touching the
	// database.
	DryRun bool

	// Conn runs the merge on a caller-supplied connection or
	// transaction, like UpsertOptions.Conn.
	Conn Conn
}

// MergeResult reports what a merge did together with the statement it ran.
type MergeResult struct {
	Affected  int64
	Statement string
}
