package dialect

import (
	"testing"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDialectsRegistered(t *testing.T) {
	assert.Equal(t, []string{"duckdb", "postgres", "sqlite"}, List())

	for _, name := range []string{"sqlite", "postgres", "duckdb"} {
		d, ok := Get(name)
		require.True(t, ok, "dialect %s not registered", name)
		assert.Equal(t, name, d.Name)
	}

	_, ok := Get("oracle")
	assert.False(t, ok)
}

func TestPlaceholderStyles(t *testing.T) {
	sqlite, _ := Get("sqlite")
	postgres, _ := Get("postgres")
	duckdb, _ := Get("duckdb")

	assert.Equal(t, "?", sqlite.Placeholder(1))
	assert.Equal(t, "?", sqlite.Placeholder(7))
	assert.Equal(t, "$1", postgres.Placeholder(1))
	assert.Equal(t, "$7", postgres.Placeholder(7))
	assert.Equal(t, "?", duckdb.Placeholder(3))
}

func TestCheckMerge(t *testing.T) {
	tests := []struct {
		dialect   string
		expectErr bool
	}{
		{dialect: "sqlite", expectErr: true},
		{dialect: "postgres", expectErr: false},
		{dialect: "duckdb", expectErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			d, ok := Get(tt.dialect)
			require.True(t, ok)
			err := d.CheckMerge()
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, framesql.ErrStatementNotSupported)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestColumnType(t *testing.T) {
	sqlite, _ := Get("sqlite")
	postgres, _ := Get("postgres")

	assert.Equal(t, "INTEGER", sqlite.ColumnType(frame.Int))
	assert.Equal(t, "TEXT", sqlite.ColumnType(frame.Time))
	assert.Equal(t, "TIMESTAMPTZ", postgres.ColumnType(frame.Time))
	// Unmapped kinds fall back to the string type.
	assert.Equal(t, "TEXT", sqlite.ColumnType(frame.Any))
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		table     string
		expectErr bool
	}{
		{name: "simple", table: "Customer"},
		{name: "underscore", table: "_staging_items"},
		{name: "schema qualified", table: "main.Customer"},
		{name: "empty", table: "", expectErr: true},
		{name: "spaces reject sql injection", table: "Customer; DROP TABLE Customer", expectErr: true},
		{name: "multiple words", table: "Customer WHERE 1=1", expectErr: true},
		{name: "leading digit", table: "1table", expectErr: true},
		{name: "quote character", table: `Customer"`, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.table)
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, framesql.ErrInvalidTableName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateColumnName(t *testing.T) {
	assert.NoError(t, ValidateColumnName("CustomerName"))
	assert.NoError(t, ValidateColumnName("_id"))
	assert.ErrorIs(t, ValidateColumnName(""), framesql.ErrInvalidColumnName)
	assert.ErrorIs(t, ValidateColumnName("a.b"), framesql.ErrInvalidColumnName)
	assert.ErrorIs(t, ValidateColumnName("name = :name"), framesql.ErrInvalidColumnName)
}
