package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/dialect"
	"github.com/framesql/framesql/pkg/frame"
	"github.com/framesql/framesql/pkg/statement"
)

// newMockBase returns a Base over a sqlmock connection with exact statement
// matching.
func newMockBase(t *testing.T, dialectName string) (*Base, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	d, ok := dialect.Get(dialectName)
	require.True(t, ok)
	return &Base{DB: db, D: d}, mock
}

// customerFrame builds a two-row frame keyed on CustomerId.
func customerFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.MustNew(
		frame.Column{Name: "CustomerId", Kind: frame.Int},
		frame.Column{Name: "CustomerName", Kind: frame.String},
	)
	require.NoError(t, f.AppendRow(int64(1), "Zed"))
	require.NoError(t, f.AppendRow(int64(2), "Kaivn"))
	require.NoError(t, f.SetIndex("CustomerId"))
	return f
}

func TestBaseClose(t *testing.T) {
	t.Run("nil DB", func(t *testing.T) {
		b := &Base{D: mustGetDialect(t, "sqlite")}
		assert.NoError(t, b.Close())
		assert.False(t, b.IsConnected())
	})
	t.Run("open DB", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		mock.ExpectClose()
		assert.True(t, b.IsConnected())
		assert.NoError(t, b.Close())
	})
}

func mustGetDialect(t *testing.T, name string) *dialect.Dialect {
	t.Helper()
	d, ok := dialect.Get(name)
	require.True(t, ok)
	return d
}

func TestExecBindsNamedParams(t *testing.T) {
	b, mock := newMockBase(t, "sqlite")
	mock.ExpectExec("UPDATE Item SET Qty = ? WHERE ItemId = ?").
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := b.Exec(context.Background(),
		"UPDATE Item SET Qty = :Qty WHERE ItemId = :ItemId",
		map[string]any{"Qty": 3, "ItemId": 7})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecNotConnected(t *testing.T) {
	b := &Base{D: mustGetDialect(t, "sqlite")}
	_, err := b.Exec(context.Background(), "DELETE FROM Item", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, framesql.ErrCreateEngine)
}

func TestLoadTable(t *testing.T) {
	t.Run("table name expands to select star", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		mock.ExpectQuery("SELECT * FROM Item").
			WillReturnRows(sqlmock.NewRows([]string{"ItemId", "Name"}).
				AddRow(int64(1), "gold").
				AddRow(int64(2), "silver"))

		f, err := b.LoadTable(context.Background(), "Item", LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, f.NumRows())
		assert.Equal(t, []string{"ItemId", "Name"}, f.ColumnNames())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query with bound params", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		mock.ExpectQuery("SELECT * FROM Item WHERE ItemId = ?").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"ItemId", "Name"}).AddRow(int64(1), "gold"))

		f, err := b.LoadTable(context.Background(),
			"SELECT * FROM Item WHERE ItemId = :id",
			LoadOptions{Params: map[string]any{"id": 1}})
		require.NoError(t, err)
		assert.Equal(t, 1, f.NumRows())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result keeps the columns", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		mock.ExpectQuery("SELECT * FROM Item").
			WillReturnRows(sqlmock.NewRows([]string{"ItemId", "Name"}))

		f, err := b.LoadTable(context.Background(), "Item", LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, 0, f.NumRows())
		assert.Equal(t, []string{"ItemId", "Name"}, f.ColumnNames())
	})

	t.Run("invalid table name", func(t *testing.T) {
		b, _ := newMockBase(t, "sqlite")
		_, err := b.LoadTable(context.Background(), "Item;--", LoadOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrInvalidTableName)
	})

	t.Run("query failure wraps the load kind", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		mock.ExpectQuery("SELECT * FROM Item").
			WillReturnError(assert.AnError)

		_, err := b.LoadTable(context.Background(), "Item", LoadOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrLoadTable)
	})

	t.Run("bad index column keeps the set index kind", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		mock.ExpectQuery("SELECT * FROM Item").
			WillReturnRows(sqlmock.NewRows([]string{"ItemId", "Name"}).AddRow(int64(1), "gold"))

		_, err := b.LoadTable(context.Background(), "Item", LoadOptions{
			Scan: frame.ScanOptions{Index: []string{"NoSuchColumn"}},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrSetIndex)
		assert.NotErrorIs(t, err, framesql.ErrLoadTable)
	})
}

func TestDeleteAllRecords(t *testing.T) {
	t.Run("deletes and reports the count", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		mock.ExpectExec("DELETE FROM Item").
			WillReturnResult(sqlmock.NewResult(0, 4))

		n, err := b.DeleteAllRecords(context.Background(), "Item")
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid table name", func(t *testing.T) {
		b, _ := newMockBase(t, "sqlite")
		_, err := b.DeleteAllRecords(context.Background(), "Item WHERE 1=1")
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrInvalidTableName)
	})

	t.Run("execution failure wraps the delete kind", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		mock.ExpectExec("DELETE FROM Item").WillReturnError(assert.AnError)

		_, err := b.DeleteAllRecords(context.Background(), "Item")
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrDeleteFromTable)
	})

	t.Run("row count failure wraps the delete kind", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		mock.ExpectExec("DELETE FROM Item").
			WillReturnResult(sqlmock.NewErrorResult(assert.AnError))

		_, err := b.DeleteAllRecords(context.Background(), "Item")
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrDeleteFromTable)
	})
}

const sqliteExistsQuery = "SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?"

func TestSaveFrame(t *testing.T) {
	t.Run("append to existing table", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		mock.ExpectQuery(sqliteExistsQuery).WithArgs("Customer").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
		mock.ExpectExec("INSERT INTO Customer (CustomerId, CustomerName) VALUES (?, ?), (?, ?)").
			WithArgs(int64(1), "Zed", int64(2), "Kaivn").
			WillReturnResult(sqlmock.NewResult(0, 2))

		n, err := b.SaveFrame(context.Background(), f, "Customer", SaveOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("append creates a missing table", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		mock.ExpectQuery(sqliteExistsQuery).WithArgs("Customer").
			WillReturnRows(sqlmock.NewRows([]string{"1"}))
		mock.ExpectExec("CREATE TABLE Customer (\n    CustomerId INTEGER,\n    CustomerName TEXT,\n    PRIMARY KEY (CustomerId)\n)").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO Customer (CustomerId, CustomerName) VALUES (?, ?), (?, ?)").
			WithArgs(int64(1), "Zed", int64(2), "Kaivn").
			WillReturnResult(sqlmock.NewResult(0, 2))

		n, err := b.SaveFrame(context.Background(), f, "Customer", SaveOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fail policy on existing table", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		mock.ExpectQuery(sqliteExistsQuery).WithArgs("Customer").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		_, err := b.SaveFrame(context.Background(), f, "Customer", SaveOptions{Policy: SaveFail})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrTableExists)
		assert.NotErrorIs(t, err, framesql.ErrSaveFrame)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replace clears rows and keeps the table", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		mock.ExpectQuery(sqliteExistsQuery).WithArgs("Customer").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
		mock.ExpectExec("DELETE FROM Customer").
			WillReturnResult(sqlmock.NewResult(0, 5))
		mock.ExpectExec("INSERT INTO Customer (CustomerId, CustomerName) VALUES (?, ?), (?, ?)").
			WithArgs(int64(1), "Zed", int64(2), "Kaivn").
			WillReturnResult(sqlmock.NewResult(0, 2))

		n, err := b.SaveFrame(context.Background(), f, "Customer", SaveOptions{Policy: SaveReplace})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("drop-replace recreates the table", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		mock.ExpectQuery(sqliteExistsQuery).WithArgs("Customer").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
		mock.ExpectExec("DROP TABLE IF EXISTS Customer").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE Customer (\n    CustomerId INTEGER,\n    CustomerName TEXT,\n    PRIMARY KEY (CustomerId)\n)").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO Customer (CustomerId, CustomerName) VALUES (?, ?), (?, ?)").
			WithArgs(int64(1), "Zed", int64(2), "Kaivn").
			WillReturnResult(sqlmock.NewResult(0, 2))

		n, err := b.SaveFrame(context.Background(), f, "Customer", SaveOptions{Policy: SaveDropReplace})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid save policy", func(t *testing.T) {
		b, _ := newMockBase(t, "sqlite")
		_, err := b.SaveFrame(context.Background(), customerFrame(t), "Customer", SaveOptions{Policy: "upsert"})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrInvalidInput)
	})

	t.Run("insert failure wraps the save kind", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		mock.ExpectQuery(sqliteExistsQuery).WithArgs("Customer").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
		mock.ExpectExec("INSERT INTO Customer (CustomerId, CustomerName) VALUES (?, ?), (?, ?)").
			WillReturnError(assert.AnError)

		_, err := b.SaveFrame(context.Background(), f, "Customer", SaveOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrSaveFrame)
		assert.NotErrorIs(t, err, framesql.ErrTableExists)
	})
}

const (
	boundUpdate = "UPDATE Customer\nSET\n    CustomerName = ?\nWHERE\n    CustomerId = ?"

	boundConditionalInsert = "INSERT INTO Customer (\n" +
		"    CustomerName,\n" +
		"    CustomerId\n" +
		")\n" +
		"    SELECT\n" +
		"        ?,\n" +
		"        ?\n" +
		"    WHERE\n" +
		"        NOT EXISTS (\n" +
		"            SELECT\n" +
		"                1\n" +
		"            FROM Customer\n" +
		"            WHERE\n" +
		"                CustomerId = ?\n" +
		"        )"
)

func TestUpsert(t *testing.T) {
	t.Run("updates matched rows and inserts the rest", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		mock.ExpectBegin()
		// Row 1 exists and is updated.
		mock.ExpectExec(boundUpdate).WithArgs("Zed", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// Row 2 matches nothing and falls through to the insert.
		mock.ExpectExec(boundUpdate).WithArgs("Kaivn", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(boundConditionalInsert).WithArgs("Kaivn", int64(2), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := b.Upsert(context.Background(), f, "Customer", UpsertOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Updated)
		assert.Equal(t, int64(1), result.Inserted)
		assert.NotEmpty(t, result.UpdateStatement)
		assert.NotEmpty(t, result.InsertStatement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update only skips the insert", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		mock.ExpectBegin()
		mock.ExpectExec(boundUpdate).WithArgs("Zed", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(boundUpdate).WithArgs("Kaivn", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		result, err := b.Upsert(context.Background(), f, "Customer", UpsertOptions{UpdateOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Updated)
		assert.Equal(t, int64(0), result.Inserted)
		assert.Empty(t, result.InsertStatement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("dry run builds statements without touching the database", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		result, err := b.Upsert(context.Background(), f, "Customer", UpsertOptions{DryRun: true})
		require.NoError(t, err)
		assert.Contains(t, result.UpdateStatement, "UPDATE Customer")
		assert.Contains(t, result.InsertStatement, "NOT EXISTS")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("frame without a row key", func(t *testing.T) {
		b, _ := newMockBase(t, "sqlite")
		f := frame.MustNew(frame.Column{Name: "Name", Kind: frame.String})
		require.NoError(t, f.AppendRow("Zed"))

		_, err := b.Upsert(context.Background(), f, "Customer", UpsertOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrInvalidInput)
	})

	t.Run("statement failure rolls back", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		mock.ExpectBegin()
		mock.ExpectExec(boundUpdate).WithArgs("Zed", int64(1)).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		_, err := b.Upsert(context.Background(), f, "Customer", UpsertOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrExecuteStatement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("matches on explicit columns instead of the key", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := contactFrame(t)

		update := "UPDATE Customer\n" +
			"SET\n" +
			"    Birthdate = ?\n" +
			"WHERE\n" +
			"    CustomerName = ?"
		insert := "INSERT INTO Customer (\n" +
			"    CustomerName,\n" +
			"    Birthdate,\n" +
			"    Id\n" +
			")\n" +
			"    SELECT\n" +
			"        ?,\n" +
			"        ?,\n" +
			"        ?\n" +
			"    WHERE\n" +
			"        NOT EXISTS (\n" +
			"            SELECT\n" +
			"                1\n" +
			"            FROM Customer\n" +
			"            WHERE\n" +
			"                CustomerName = ?\n" +
			"        )"

		mock.ExpectBegin()
		mock.ExpectExec(update).WithArgs("1990-07-14", "Zezima").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(update).WithArgs("1969-06-20", "Prince Ali").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(insert).WithArgs("Prince Ali", "1969-06-20", int64(2), "Prince Ali").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := b.Upsert(context.Background(), f, "Customer",
			UpsertOptions{MatchColumns: frame.Names("CustomerName")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Updated)
		assert.Equal(t, int64(1), result.Inserted)
		assert.Equal(t,
			"UPDATE Customer\nSET\n    Birthdate = :Birthdate\nWHERE\n    CustomerName = :CustomerName",
			result.UpdateStatement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update key adds key components to the update set", func(t *testing.T) {
		b, _ := newMockBase(t, "sqlite")
		f := contactFrame(t)

		result, err := b.Upsert(context.Background(), f, "Customer", UpsertOptions{
			MatchColumns: frame.Names("CustomerName"),
			UpdateKey:    frame.All(),
			DryRun:       true,
		})
		require.NoError(t, err)
		assert.Equal(t,
			"UPDATE Customer\nSET\n    Birthdate = :Birthdate,\n    Id = :Id\nWHERE\n    CustomerName = :CustomerName",
			result.UpdateStatement)
	})

	t.Run("match columns stay out of the update set", func(t *testing.T) {
		b, _ := newMockBase(t, "sqlite")
		f := customerFrame(t)

		// The key is the match column here, so selecting it for update
		// has no effect.
		result, err := b.Upsert(context.Background(), f, "Customer", UpsertOptions{
			UpdateKey: frame.All(),
			DryRun:    true,
		})
		require.NoError(t, err)
		assert.Equal(t,
			"UPDATE Customer\nSET\n    CustomerName = :CustomerName\nWHERE\n    CustomerId = :CustomerId",
			result.UpdateStatement)
	})

	t.Run("unknown match column", func(t *testing.T) {
		b, _ := newMockBase(t, "sqlite")
		f := customerFrame(t)

		_, err := b.Upsert(context.Background(), f, "Customer",
			UpsertOptions{MatchColumns: frame.Names("Nope")})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrInvalidColumnName)
	})

	t.Run("every selected column is a match column", func(t *testing.T) {
		b, _ := newMockBase(t, "sqlite")
		f := customerFrame(t)

		_, err := b.Upsert(context.Background(), f, "Customer",
			UpsertOptions{MatchColumns: frame.Names("CustomerName")})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrInvalidInput)
	})

	t.Run("runs on a caller supplied transaction", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		// Exactly one transaction, begun and committed by the caller.
		mock.ExpectBegin()
		mock.ExpectExec(boundUpdate).WithArgs("Zed", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(boundUpdate).WithArgs("Kaivn", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := b.DB.BeginTx(context.Background(), nil)
		require.NoError(t, err)

		result, err := b.Upsert(context.Background(), f, "Customer",
			UpsertOptions{Conn: tx, UpdateOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Updated)

		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// contactFrame builds a two-row frame keyed on Id with two data columns.
func contactFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.MustNew(
		frame.Column{Name: "Id", Kind: frame.Int},
		frame.Column{Name: "CustomerName", Kind: frame.String},
		frame.Column{Name: "Birthdate", Kind: frame.String},
	)
	require.NoError(t, f.AppendRow(int64(1), "Zezima", "1990-07-14"))
	require.NoError(t, f.AppendRow(int64(2), "Prince Ali", "1969-06-20"))
	require.NoError(t, f.SetIndex("Id"))
	return f
}

func TestMerge(t *testing.T) {
	t.Run("unsupported dialect fails before any work", func(t *testing.T) {
		b, mock := newMockBase(t, "sqlite")
		f := customerFrame(t)

		_, err := b.Merge(context.Background(), f, "Customer", MergeOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrStatementNotSupported)
		// No validation ran, no statement was built, nothing hit the wire.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("capability check precedes validation", func(t *testing.T) {
		b, _ := newMockBase(t, "sqlite")
		_, err := b.Merge(context.Background(), nil, "not a valid name", MergeOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, framesql.ErrStatementNotSupported)
	})

	t.Run("merges each row in one transaction", func(t *testing.T) {
		b, mock := newMockBase(t, "duckdb")
		f := customerFrame(t)

		stmt, err := b.Merge(context.Background(), f, "Customer", MergeOptions{DryRun: true})
		require.NoError(t, err)
		bound := toQuestionMarkers(stmt.Statement)

		// Column markers appear in projection order: data columns first,
		// then the key.
		mock.ExpectBegin()
		mock.ExpectExec(bound).WithArgs("Zed", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(bound).WithArgs("Kaivn", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := b.Merge(context.Background(), f, "Customer", MergeOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Affected)
		assert.Contains(t, result.Statement, "MERGE INTO Customer AS target")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("dry run returns the statement only", func(t *testing.T) {
		b, mock := newMockBase(t, "postgres")
		f := customerFrame(t)

		result, err := b.Merge(context.Background(), f, "Customer", MergeOptions{DryRun: true})
		require.NoError(t, err)
		assert.Contains(t, result.Statement, "WHEN NOT MATCHED THEN")
		// Matched rows are rewritten unconditionally unless the guard is
		// requested.
		assert.Contains(t, result.Statement, "WHEN MATCHED THEN")
		assert.NotContains(t, result.Statement, "IS DISTINCT FROM")
		assert.Equal(t, int64(0), result.Affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update condition guards the matched branch", func(t *testing.T) {
		b, _ := newMockBase(t, "postgres")
		f := customerFrame(t)

		result, err := b.Merge(context.Background(), f, "Customer",
			MergeOptions{DryRun: true, AddUpdateCondition: true})
		require.NoError(t, err)
		assert.Contains(t, result.Statement,
			"WHEN MATCHED AND (\n    target.CustomerName IS DISTINCT FROM source.CustomerName\n) THEN")
	})

	t.Run("runs on a caller supplied connection", func(t *testing.T) {
		b, mock := newMockBase(t, "duckdb")
		f := customerFrame(t)

		stmt, err := b.Merge(context.Background(), f, "Customer", MergeOptions{DryRun: true})
		require.NoError(t, err)
		bound := toQuestionMarkers(stmt.Statement)

		// No transaction is opened around the rows.
		mock.ExpectExec(bound).WithArgs("Zed", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(bound).WithArgs("Kaivn", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		result, err := b.Merge(context.Background(), f, "Customer", MergeOptions{Conn: b.DB})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// toQuestionMarkers rewrites the named markers of a built statement the way
// Bind does for a question-style dialect, so tests can state expectations
// against the wire text.
func toQuestionMarkers(stmt string) string {
	d, _ := dialect.Get("duckdb")
	// CustomerId and CustomerName are the only markers in the fixtures.
	bound, _, err := statement.Bind(stmt, map[string]any{
		"CustomerId":   nil,
		"CustomerName": nil,
	}, d)
	if err != nil {
		panic(err)
	}
	return bound
}
