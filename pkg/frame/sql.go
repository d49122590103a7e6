package frame

import (
	"context"
	"database/sql"
	"strings"

	"github.com/framesql/framesql"
)

// ExecQuerier wraps the standard ExecContext and QueryContext methods.
// *sql.DB, *sql.Tx and *sql.Conn all satisfy it.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// maxBindParams is the placeholder budget per INSERT when no chunk size is
// given. 999 is the historical SQLite limit and a safe floor everywhere.
const maxBindParams = 999

// InsertAllOptions control the bulk write path.
type InsertAllOptions struct {
	// Placeholder renders the positional marker for the n-th bound
	// argument (1-based). Required.
	Placeholder func(n int) string

	// ChunkSize caps the number of rows per INSERT statement.
	// Zero derives a chunk size from the placeholder budget.
	ChunkSize int
}

// InsertAll writes every row of the frame to the named table with multi-row
// INSERT statements, chunked to stay within the bind-parameter budget.
// All columns are written in declaration order, key components included.
// The table identifier must have been validated by the caller.
func (f *Frame) InsertAll(ctx context.Context, conn ExecQuerier, table string, opts InsertAllOptions) (int64, error) {
	if opts.Placeholder == nil {
		return 0, framesql.NewError(framesql.ErrInvalidInput, "a placeholder renderer is required")
	}
	ncols := len(f.cols)
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = maxBindParams / ncols
		if chunk < 1 {
			chunk = 1
		}
	}

	var written int64
	for start := 0; start < len(f.rows); start += chunk {
		end := start + chunk
		if end > len(f.rows) {
			end = len(f.rows)
		}
		stmt, args := f.buildInsertChunk(table, start, end, opts.Placeholder)
		res, err := conn.ExecContext(ctx, stmt, args...)
		if err != nil {
			return written, framesql.WrapError(framesql.ErrExecuteStatement, err,
				"bulk insert into table %s, rows %d..%d", table, start, end-1)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += n
		}
	}
	return written, nil
}

func (f *Frame) buildInsertChunk(table string, start, end int, ph func(int) string) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	for i, c := range f.cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Name)
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, (end-start)*len(f.cols))
	n := 1
	for r := start; r < end; r++ {
		if r > start {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for i, v := range f.rows[r] {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ph(n))
			n++
			args = append(args, v)
		}
		b.WriteString(")")
	}
	return b.String(), args
}
