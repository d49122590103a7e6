// Package dialect defines the closed set of SQL dialects supported by
// framesql together with their capability flags. Statement kinds that a
// dialect cannot express (MERGE) are rejected by a static capability check
// before any statement text is built or any connection I/O occurs.
package dialect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/frame"
)

// PlaceholderStyle selects how positional bind markers are rendered.
type PlaceholderStyle int

const (
	// Question renders every marker as "?".
	Question PlaceholderStyle = iota
	// Dollar renders the n-th marker as "$n".
	Dollar
)

// Dialect is the configuration of one supported SQL dialect.
type Dialect struct {
	// Name identifies the dialect ("sqlite", "postgres", "duckdb").
	Name string

	// Placeholders is the positional bind marker style of the dialect's
	// drivers.
	Placeholders PlaceholderStyle

	// SupportsMerge reports whether the dialect has a native MERGE
	// statement.
	SupportsMerge bool

	// NativeDatetime reports whether the dialect can bind datetime values
	// directly. Dialects without it (SQLite) should have Time columns
	// encoded as strings or unix seconds before writing.
	NativeDatetime bool

	// DefaultSchema is the schema unqualified table names resolve to.
	DefaultSchema string

	// existsQuery is the text of the table existence probe with one bound
	// parameter: the table name.
	existsQuery string

	// columnTypes maps frame kinds to the dialect's column type names,
	// used when a save operation has to create the target table.
	columnTypes map[frame.Kind]string
}

// Placeholder renders the positional marker for the n-th bound argument
// (1-based).
func (d *Dialect) Placeholder(n int) string {
	if d.Placeholders == Dollar {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// TableExistsQuery returns the statement probing for a table's existence.
// It takes the table name as its single bound argument and returns at most
// one row.
func (d *Dialect) TableExistsQuery() string {
	return d.existsQuery
}

// ColumnType returns the dialect's column type name for a frame kind.
func (d *Dialect) ColumnType(k frame.Kind) string {
	if t, ok := d.columnTypes[k]; ok {
		return t
	}
	return d.columnTypes[frame.String]
}

// CheckMerge returns a capability failure when the dialect has no native
// MERGE statement. The check is static and happens before any statement is
// built or executed.
func (d *Dialect) CheckMerge() error {
	if !d.SupportsMerge {
		return framesql.NewError(framesql.ErrStatementNotSupported,
			"dialect %s does not support the MERGE statement, try the similar upsert operation instead",
			d.Name)
	}
	return nil
}

// validIdentifierRe validates SQL identifiers: a leading letter or
// underscore followed by word characters, with at most one dot for
// schema-qualified names.
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// ValidateTableName checks that a table name is safe to interpolate into
// generated SQL text. Table names cannot be bound as statement parameters
// in standard SQL, so they get their own validation path.
func ValidateTableName(table string) error {
	if table == "" {
		return framesql.NewError(framesql.ErrInvalidTableName, "table name must not be empty")
	}
	if n := len(strings.Fields(table)); n > 1 {
		return framesql.NewError(framesql.ErrInvalidTableName,
			"table name contains spaces (%d), the table name must be a single word: %s", n-1, table)
	}
	if len(table) > 128 || !validIdentifierRe.MatchString(table) {
		return framesql.NewError(framesql.ErrInvalidTableName, "invalid table name: %s", table)
	}
	return nil
}

// ValidateColumnName checks that a column name is safe to interpolate into
// generated SQL text.
func ValidateColumnName(col string) error {
	if col == "" {
		return framesql.NewError(framesql.ErrInvalidColumnName, "column name must not be empty")
	}
	if len(col) > 128 || strings.Contains(col, ".") || !validIdentifierRe.MatchString(col) {
		return framesql.NewError(framesql.ErrInvalidColumnName, "invalid column name: %s", col)
	}
	return nil
}
