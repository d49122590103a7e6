package dialect

import "github.com/framesql/framesql/pkg/frame"

// builtinSQLite is the SQLite dialect configuration.
// SQLite has no native MERGE statement and no native datetime binding;
// Time columns should cross the wire as strings or unix seconds.
var builtinSQLite = &Dialect{
	Name:           "sqlite",
	Placeholders:   Question,
	SupportsMerge:  false,
	NativeDatetime: false,
	DefaultSchema:  "main",
	existsQuery:    "SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?",
	columnTypes: map[frame.Kind]string{
		frame.Int:    "INTEGER",
		frame.Float:  "REAL",
		frame.Bool:   "INTEGER",
		frame.String: "TEXT",
		frame.Time:   "TEXT",
		frame.Bytes:  "BLOB",
	},
}

// builtinPostgres is the PostgreSQL dialect configuration.
// MERGE is available since PostgreSQL 15.
var builtinPostgres = &Dialect{
	Name:           "postgres",
	Placeholders:   Dollar,
	SupportsMerge:  true,
	NativeDatetime: true,
	DefaultSchema:  "public",
	existsQuery:    "SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1",
	columnTypes: map[frame.Kind]string{
		frame.Int:    "BIGINT",
		frame.Float:  "DOUBLE PRECISION",
		frame.Bool:   "BOOLEAN",
		frame.String: "TEXT",
		frame.Time:   "TIMESTAMPTZ",
		frame.Bytes:  "BYTEA",
	},
}

// builtinDuckDB is the DuckDB dialect configuration.
var builtinDuckDB = &Dialect{
	Name:           "duckdb",
	Placeholders:   Question,
	SupportsMerge:  true,
	NativeDatetime: true,
	DefaultSchema:  "main",
	existsQuery:    "SELECT 1 FROM information_schema.tables WHERE table_name = ?",
	columnTypes: map[frame.Kind]string{
		frame.Int:    "BIGINT",
		frame.Float:  "DOUBLE",
		frame.Bool:   "BOOLEAN",
		frame.String: "VARCHAR",
		frame.Time:   "TIMESTAMP",
		frame.Bytes:  "BLOB",
	},
}

func init() {
	Register(builtinSQLite)
	Register(builtinPostgres)
	Register(builtinDuckDB)
}
