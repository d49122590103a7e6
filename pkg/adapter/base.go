package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/dialect"
	"github.com/framesql/framesql/pkg/frame"
	"github.com/framesql/framesql/pkg/statement"
)

// Base provides the dialect-generic implementation of every Database
// operation on top of database/sql. Concrete adapters embed it and
// contribute Connect.
type Base struct {
	DB     *sql.DB
	D      *dialect.Dialect
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *Base) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection", slog.String("dialect", b.D.Name))
		}
		return b.DB.Close()
	}
	return nil
}

// Dialect returns the SQL dialect configuration of the manager.
func (b *Base) Dialect() *dialect.Dialect { return b.D }

// IsConnected returns true if the database connection is established.
func (b *Base) IsConnected() bool { return b.DB != nil }

func (b *Base) conn() (*sql.DB, error) {
	if b.DB == nil {
		return nil, framesql.NewError(framesql.ErrCreateEngine,
			"database connection not established")
	}
	return b.DB, nil
}

// writeConn picks the connection the per-row operations run on. A
// caller-supplied conn is used as-is and the caller owns its transaction
// boundary; otherwise a transaction is opened on the pool and returned for
// the operation to commit.
func (b *Base) writeConn(ctx context.Context, supplied Conn, table, op string) (Conn, *sql.Tx, error) {
	if supplied != nil {
		return supplied, nil, nil
	}
	db, err := b.conn()
	if err != nil {
		return nil, nil, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, framesql.WrapError(framesql.ErrExecuteStatement, err,
			"failed to begin the %s transaction for table %s", op, table)
	}
	return tx, tx, nil
}

func (b *Base) debug(msg string, args ...any) {
	if b.Logger != nil {
		b.Logger.Debug(msg, args...)
	}
}

// Exec runs a statement that returns no rows. Named ":name" markers are
// bound from params and rewritten into the dialect's positional style.
func (b *Base) Exec(ctx context.Context, stmt string, params map[string]any) (int64, error) {
	db, err := b.conn()
	if err != nil {
		return 0, err
	}
	return execOn(ctx, db, b.D, stmt, params)
}

func execOn(ctx context.Context, conn Conn, d *dialect.Dialect, stmt string, params map[string]any) (int64, error) {
	bound, args, err := statement.Bind(stmt, params, d)
	if err != nil {
		return 0, err
	}
	res, err := conn.ExecContext(ctx, bound, args...)
	if err != nil {
		return 0, framesql.WrapError(framesql.ErrExecuteStatement, err,
			"failed to execute statement")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, framesql.WrapError(framesql.ErrExecuteStatement, err,
			"failed to read the affected row count")
	}
	return n, nil
}

// Query runs a statement and scans the result into a frame.
func (b *Base) Query(ctx context.Context, stmt string, params map[string]any, opts frame.ScanOptions) (*frame.Frame, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	bound, args, err := statement.Bind(stmt, params, b.D)
	if err != nil {
		return nil, err
	}
	//nolint:rowserrcheck // FromRows checks rows.Err after iteration
	rows, err := db.QueryContext(ctx, bound, args...)
	if err != nil {
		return nil, framesql.WrapError(framesql.ErrExecuteStatement, err,
			"failed to execute query")
	}
	defer func() { _ = rows.Close() }()
	return frame.FromRows(rows, opts)
}

// TableExists probes the database for a table with the given name.
func (b *Base) TableExists(ctx context.Context, table string) (bool, error) {
	db, err := b.conn()
	if err != nil {
		return false, err
	}
	rows, err := db.QueryContext(ctx, b.D.TableExistsQuery(), table)
	if err != nil {
		return false, framesql.WrapError(framesql.ErrExecuteStatement, err,
			"failed to check existence of table %s", table)
	}
	defer func() { _ = rows.Close() }()
	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, framesql.WrapError(framesql.ErrExecuteStatement, err,
			"failed to check existence of table %s", table)
	}
	return exists, nil
}

// LoadTable loads a table or the result of a SELECT statement into a frame.
// A source without whitespace is treated as a table name and expanded to
// SELECT * FROM source; anything else runs as SQL with opts.Params bound.
func (b *Base) LoadTable(ctx context.Context, source string, opts LoadOptions) (*frame.Frame, error) {
	stmt := source
	if len(strings.Fields(source)) == 1 {
		if err := dialect.ValidateTableName(source); err != nil {
			return nil, err
		}
		stmt = fmt.Sprintf("SELECT * FROM %s", source)
	}

	f, err := b.Query(ctx, stmt, opts.Params, opts.Scan)
	if err != nil {
		// Scan-side failures keep their specific kind.
		if errors.Is(err, framesql.ErrSetIndex) || errors.Is(err, framesql.ErrDataTypeConversion) {
			return nil, err
		}
		return nil, framesql.WrapError(framesql.ErrLoadTable, err,
			"failed to load table or query: %s", source)
	}
	b.debug("loaded table",
		slog.String("source", source),
		slog.Int("rows", f.NumRows()),
		slog.Int("columns", f.NumCols()))
	return f, nil
}

// DeleteAllRecords removes every row of a table and returns the number of
// deleted rows. The table definition is kept.
func (b *Base) DeleteAllRecords(ctx context.Context, table string) (int64, error) {
	if err := dialect.ValidateTableName(table); err != nil {
		return 0, err
	}
	db, err := b.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table))
	if err != nil {
		return 0, framesql.WrapError(framesql.ErrDeleteFromTable, err,
			"failed to delete records from table %s", table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, framesql.WrapError(framesql.ErrDeleteFromTable, err,
			"failed to read the affected row count for table %s", table)
	}
	b.debug("deleted all records", slog.String("table", table), slog.Int64("rows", n))
	return n, nil
}

// SaveFrame writes a frame to a table under the save policy in opts and
// returns the number of rows written. A missing target table is created
// from the frame's schema.
func (b *Base) SaveFrame(ctx context.Context, f *frame.Frame, table string, opts SaveOptions) (int64, error) {
	if f == nil || f.NumCols() == 0 {
		return 0, framesql.NewError(framesql.ErrInvalidInput,
			"no frame to save to table %s", table)
	}
	if err := dialect.ValidateTableName(table); err != nil {
		return 0, err
	}
	policy := opts.Policy
	if policy == "" {
		policy = SaveAppend
	}
	switch policy {
	case SaveAppend, SaveFail, SaveReplace, SaveDropReplace:
	default:
		return 0, framesql.NewError(framesql.ErrInvalidInput,
			"invalid save policy %q, expected one of: append, fail, replace, drop-replace", policy)
	}

	db, err := b.conn()
	if err != nil {
		return 0, err
	}
	exists, err := b.TableExists(ctx, table)
	if err != nil {
		return 0, framesql.WrapError(framesql.ErrSaveFrame, err,
			"failed to save frame to table %s", table)
	}

	switch {
	case policy == SaveFail && exists:
		return 0, framesql.NewError(framesql.ErrTableExists,
			"table %s already exists", table)
	case policy == SaveReplace && exists:
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return 0, framesql.WrapError(framesql.ErrSaveFrame, err,
				"failed to clear table %s before saving", table)
		}
	case policy == SaveDropReplace:
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return 0, framesql.WrapError(framesql.ErrSaveFrame, err,
				"failed to drop table %s before saving", table)
		}
		exists = false
	}
	if !exists {
		if err := b.createTable(ctx, f, table); err != nil {
			return 0, err
		}
	}

	out := f
	if !b.D.NativeDatetime {
		enc := opts.TimeEncoding
		if enc == "" {
			enc = frame.TimeAsString
		}
		out, err = f.ConvertTimes(enc, opts.TimeLayout)
		if err != nil {
			return 0, err
		}
	}

	n, err := out.InsertAll(ctx, db, table, frame.InsertAllOptions{
		Placeholder: b.D.Placeholder,
		ChunkSize:   opts.ChunkSize,
	})
	if err != nil {
		return 0, framesql.WrapError(framesql.ErrSaveFrame, err,
			"failed to save frame to table %s", table)
	}
	b.debug("saved frame",
		slog.String("table", table),
		slog.String("policy", string(policy)),
		slog.Int64("rows", n))
	return n, nil
}

// createTable creates the target table from the frame's schema, with the
// frame's key columns as the primary key.
func (b *Base) createTable(ctx context.Context, f *frame.Frame, table string) error {
	cols := f.Columns()
	defs := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		if err := dialect.ValidateColumnName(c.Name); err != nil {
			return err
		}
		def := fmt.Sprintf("    %s %s", c.Name, b.D.ColumnType(c.Kind))
		defs = append(defs, def)
	}
	if key := f.KeyColumns(); len(key) > 0 {
		defs = append(defs, fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(key, ", ")))
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n)", table, strings.Join(defs, ",\n"))

	if _, err := b.DB.ExecContext(ctx, ddl); err != nil {
		return framesql.WrapError(framesql.ErrSaveFrame, err,
			"failed to create table %s", table)
	}
	b.debug("created table", slog.String("table", table))
	return nil
}

// upsertPlan resolves the column sets and table name shared by Upsert and
// Merge.
func upsertPlan(f *frame.Frame, table string, cols, match, updateKey frame.Selection) (updateCols, insertCols, matchCols []string, err error) {
	if f == nil || f.NumCols() == 0 {
		return nil, nil, nil, framesql.NewError(framesql.ErrInvalidInput,
			"no frame to write to table %s", table)
	}
	if err := dialect.ValidateTableName(table); err != nil {
		return nil, nil, nil, err
	}
	matchCols, err = matchColumns(f, table, match)
	if err != nil {
		return nil, nil, nil, err
	}
	if cols.IsNone() {
		cols = frame.All()
	}
	updateCols, err = f.Project(cols, updateKey)
	if err != nil {
		return nil, nil, nil, err
	}
	// Match columns never end up in the update set even when selected
	// explicitly.
	updateCols = without(updateCols, matchCols)
	if len(updateCols) == 0 {
		return nil, nil, nil, framesql.NewError(framesql.ErrInvalidInput,
			"no columns to update in table %s, every selected column is a match column", table)
	}
	insertCols, err = f.Project(cols, frame.All())
	if err != nil {
		return nil, nil, nil, err
	}
	// Match columns outside the selection and the key still have to be
	// bound so the insert row is complete.
	for _, c := range matchCols {
		if !contains(insertCols, c) {
			insertCols = append(insertCols, c)
		}
	}
	return updateCols, insertCols, matchCols, nil
}

// matchColumns resolves the match selection to column names: the frame's
// row key by default, or explicitly named columns validated against the
// frame.
func matchColumns(f *frame.Frame, table string, match frame.Selection) ([]string, error) {
	if match.IsAll() {
		return nil, framesql.NewError(framesql.ErrInvalidInput,
			"match columns for table %s must be named explicitly or left empty to match on the row key", table)
	}
	if match.IsNone() {
		key := f.KeyColumns()
		if len(key) == 0 {
			return nil, framesql.NewError(framesql.ErrInvalidInput,
				"the frame needs a row key or explicit match columns to match existing rows in table %s against", table)
		}
		return key, nil
	}
	return f.Project(match, frame.None())
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}

func without(list, drop []string) []string {
	out := list[:0]
	for _, s := range list {
		keep := true
		for _, d := range drop {
			if s == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, s)
		}
	}
	return out
}

// rowParams builds the parameter map for one frame row over the named
// columns.
func rowParams(f *frame.Frame, row int, cols []string) (map[string]any, error) {
	params := make(map[string]any, len(cols))
	for _, c := range cols {
		v, err := f.Value(row, c)
		if err != nil {
			return nil, err
		}
		params[c] = v
	}
	return params, nil
}

// Upsert updates the table rows matching the configured match columns (the
// frame's row key by default) and inserts the rows that matched nothing,
// one frame row at a time. Without a caller-supplied opts.Conn the rows run
// inside a single transaction on the manager's pool. With opts.DryRun the
// statements are built and returned without touching the database.
func (b *Base) Upsert(ctx context.Context, f *frame.Frame, table string, opts UpsertOptions) (UpsertResult, error) {
	var result UpsertResult

	updateCols, insertCols, matchCols, err := upsertPlan(f, table, opts.Columns, opts.MatchColumns, opts.UpdateKey)
	if err != nil {
		return result, err
	}
	result.UpdateStatement, err = statement.BuildUpdate(table, updateCols, matchCols)
	if err != nil {
		return result, err
	}
	if !opts.UpdateOnly {
		result.InsertStatement, err = statement.BuildConditionalInsert(table, insertCols, matchCols)
		if err != nil {
			return result, err
		}
	}
	if opts.DryRun {
		return result, nil
	}

	conn, tx, err := b.writeConn(ctx, opts.Conn, table, "upsert")
	if err != nil {
		return result, err
	}
	if tx != nil {
		defer func() { _ = tx.Rollback() }()
	}

	for i := 0; i < f.NumRows(); i++ {
		params, err := rowParams(f, i, insertCols)
		if err != nil {
			return result, err
		}
		n, err := execOn(ctx, conn, b.D, result.UpdateStatement, params)
		if err != nil {
			return result, framesql.WrapError(framesql.ErrExecuteStatement, err,
				"failed to upsert row %d into table %s", i, table)
		}
		result.Updated += n
		if n > 0 || opts.UpdateOnly {
			continue
		}
		n, err = execOn(ctx, conn, b.D, result.InsertStatement, params)
		if err != nil {
			return result, framesql.WrapError(framesql.ErrExecuteStatement, err,
				"failed to upsert row %d into table %s", i, table)
		}
		result.Inserted += n
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return result, framesql.WrapError(framesql.ErrExecuteStatement, err,
				"failed to commit the upsert transaction for table %s", table)
		}
	}
	b.debug("upserted frame",
		slog.String("table", table),
		slog.Int64("updated", result.Updated),
		slog.Int64("inserted", result.Inserted))
	return result, nil
}

// Merge performs the update-or-insert with the dialect's native MERGE
// statement, one frame row at a time. Without a caller-supplied opts.Conn
// the rows run inside a single transaction on the manager's pool. The
// capability check runs before any statement is built or any connection
// I/O happens.
func (b *Base) Merge(ctx context.Context, f *frame.Frame, table string, opts MergeOptions) (MergeResult, error) {
	var result MergeResult

	if err := b.D.CheckMerge(); err != nil {
		return result, err
	}
	updateCols, insertCols, matchCols, err := upsertPlan(f, table, opts.Columns, opts.MatchColumns, opts.UpdateKey)
	if err != nil {
		return result, err
	}
	result.Statement, err = statement.BuildMerge(table, insertCols, matchCols, updateCols, statement.MergeOptions{
		TargetAlias:        opts.TargetAlias,
		SourceAlias:        opts.SourceAlias,
		AddUpdateCondition: opts.AddUpdateCondition,
	})
	if err != nil {
		return result, err
	}
	if opts.DryRun {
		return result, nil
	}

	conn, tx, err := b.writeConn(ctx, opts.Conn, table, "merge")
	if err != nil {
		return result, err
	}
	if tx != nil {
		defer func() { _ = tx.Rollback() }()
	}

	for i := 0; i < f.NumRows(); i++ {
		params, err := rowParams(f, i, insertCols)
		if err != nil {
			return result, err
		}
		n, err := execOn(ctx, conn, b.D, result.Statement, params)
		if err != nil {
			return result, framesql.WrapError(framesql.ErrExecuteStatement, err,
				"failed to merge row %d into table %s", i, table)
		}
		result.Affected += n
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return result, framesql.WrapError(framesql.ErrExecuteStatement, err,
				"failed to commit the merge transaction for table %s", table)
		}
	}
	b.debug("merged frame",
		slog.String("table", table),
		slog.Int64("affected", result.Affected))
	return result, nil
}
