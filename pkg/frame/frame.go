// Package frame provides the in-memory tabular structure used by framesql:
// ordered, named, typed columns plus an optional row key, with helpers to
// construct frames from database rows and to write them back in bulk.
package frame

import (
	"bytes"
	"fmt"
	"time"

	"github.com/framesql/framesql"
)

// Kind classifies the run-time representation of a column's values.
type Kind int

const (
	// Any marks a column whose kind has not been determined.
	Any Kind = iota
	// Int holds int64 values.
	Int
	// Float holds float64 values.
	Float
	// Bool holds bool values.
	Bool
	// String holds string values.
	String
	// Time holds time.Time values.
	Time
	// Bytes holds []byte values.
	Bytes
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Time:
		return "time"
	case Bytes:
		return "bytes"
	default:
		return "any"
	}
}

// Column describes one column of a Frame.
type Column struct {
	Name string
	Kind Kind

	// TZAware marks a Time column whose values carry a real timezone,
	// as opposed to naive wall-clock values.
	TZAware bool
}

// Frame is an ordered collection of named, typed columns with zero or more
// rows. A Frame may designate one or more of its columns as the row key;
// key values are unique across rows. The zero value is not usable, use New.
type Frame struct {
	cols []Column
	key  []int // indices into cols, in key declaration order
	rows [][]any
}

// New creates an empty Frame with the given columns.
// Column names must be non-empty and unique.
func New(cols ...Column) (*Frame, error) {
	if len(cols) == 0 {
		return nil, framesql.NewError(framesql.ErrInvalidInput, "a frame requires at least one column")
	}
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if c.Name == "" {
			return nil, framesql.NewError(framesql.ErrInvalidInput, "column names must not be empty")
		}
		if _, ok := seen[c.Name]; ok {
			return nil, framesql.NewError(framesql.ErrInvalidInput, "duplicate column name: %s", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return &Frame{cols: append([]Column(nil), cols...)}, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(cols ...Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return len(f.rows) }

// NumCols returns the number of columns, key components included.
func (f *Frame) NumCols() int { return len(f.cols) }

// Columns returns a copy of all column descriptors in declaration order.
func (f *Frame) Columns() []Column {
	return append([]Column(nil), f.cols...)
}

// ColumnNames returns all column names in declaration order,
// key components included.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// DataColumns returns the names of the non-key columns in declaration order.
func (f *Frame) DataColumns() []string {
	names := make([]string, 0, len(f.cols)-len(f.key))
	for i, c := range f.cols {
		if !f.isKeyIndex(i) {
			names = append(names, c.Name)
		}
	}
	return names
}

// KeyColumns returns the names of the row-key components in key order.
// The slice is empty when no row key is set.
func (f *Frame) KeyColumns() []string {
	names := make([]string, len(f.key))
	for i, idx := range f.key {
		names[i] = f.cols[idx].Name
	}
	return names
}

// ColumnIndex returns the position of the named column.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	for i, c := range f.cols {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns the descriptor of the named column.
func (f *Frame) Column(name string) (Column, bool) {
	if i, ok := f.ColumnIndex(name); ok {
		return f.cols[i], true
	}
	return Column{}, false
}

// AppendRow appends one row of values, one value per column in declaration
// order. If a row key is set the new key tuple must not collide with an
// existing row.
func (f *Frame) AppendRow(values ...any) error {
	if len(values) != len(f.cols) {
		return framesql.NewError(framesql.ErrInvalidInput,
			"row has %d values, frame has %d columns", len(values), len(f.cols))
	}
	row := append([]any(nil), values...)
	if len(f.key) > 0 {
		kt := f.keyTuple(row)
		for _, existing := range f.rows {
			if f.keyTuple(existing) == kt {
				return framesql.NewError(framesql.ErrSetIndex, "duplicate row key: %s", kt)
			}
		}
	}
	f.rows = append(f.rows, row)
	return nil
}

// Row returns the i-th row. The returned slice is the frame's backing
// storage; use SetValue to mutate values.
func (f *Frame) Row(i int) []any { return f.rows[i] }

// Value returns the value at the given row in the named column.
func (f *Frame) Value(row int, col string) (any, error) {
	idx, ok := f.ColumnIndex(col)
	if !ok {
		return nil, framesql.NewError(framesql.ErrInvalidColumnName, "unknown column: %s", col)
	}
	if row < 0 || row >= len(f.rows) {
		return nil, framesql.NewError(framesql.ErrInvalidInput, "row %d out of range [0, %d)", row, len(f.rows))
	}
	return f.rows[row][idx], nil
}

// SetValue sets the value at the given row in the named column.
func (f *Frame) SetValue(row int, col string, v any) error {
	idx, ok := f.ColumnIndex(col)
	if !ok {
		return framesql.NewError(framesql.ErrInvalidColumnName, "unknown column: %s", col)
	}
	if row < 0 || row >= len(f.rows) {
		return framesql.NewError(framesql.ErrInvalidInput, "row %d out of range [0, %d)", row, len(f.rows))
	}
	f.rows[row][idx] = v
	return nil
}

// SetIndex designates the named columns, in the given order, as the row key.
// Key values must be unique across rows and must not be nil.
func (f *Frame) SetIndex(names ...string) error {
	if len(names) == 0 {
		return framesql.NewError(framesql.ErrSetIndex, "at least one key column is required")
	}
	key := make([]int, 0, len(names))
	for _, name := range names {
		idx, ok := f.ColumnIndex(name)
		if !ok {
			return framesql.NewError(framesql.ErrSetIndex,
				"cannot set index to %v: unknown column %s", names, name)
		}
		key = append(key, idx)
	}
	// Validate uniqueness and completeness of the key tuples before
	// committing the new key.
	seen := make(map[string]struct{}, len(f.rows))
	for i, row := range f.rows {
		for _, idx := range key {
			if row[idx] == nil {
				return framesql.NewError(framesql.ErrSetIndex,
					"row %d has a nil value in key column %s", i, f.cols[idx].Name)
			}
		}
		kt := keyTupleOf(row, key)
		if _, ok := seen[kt]; ok {
			return framesql.NewError(framesql.ErrSetIndex, "duplicate row key: %s", kt)
		}
		seen[kt] = struct{}{}
	}
	f.key = key
	return nil
}

// ResetIndex removes the row-key designation. The key columns remain
// ordinary columns of the frame.
func (f *Frame) ResetIndex() { f.key = nil }

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	out := &Frame{
		cols: append([]Column(nil), f.cols...),
		key:  append([]int(nil), f.key...),
		rows: make([][]any, len(f.rows)),
	}
	for i, row := range f.rows {
		out.rows[i] = append([]any(nil), row...)
	}
	return out
}

// Equal reports whether two frames have identical columns, row keys and
// row values. Time values compare with time.Time.Equal semantics, so the
// same instant in different locations compares equal; Bytes values compare
// by content.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil || len(f.cols) != len(other.cols) || len(f.rows) != len(other.rows) {
		return false
	}
	for i := range f.cols {
		if f.cols[i] != other.cols[i] {
			return false
		}
	}
	if len(f.key) != len(other.key) {
		return false
	}
	for i := range f.key {
		if f.key[i] != other.key[i] {
			return false
		}
	}
	for i := range f.rows {
		for j := range f.rows[i] {
			if !valueEqual(f.rows[i][j], other.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}

func (f *Frame) isKeyIndex(i int) bool {
	for _, idx := range f.key {
		if idx == i {
			return true
		}
	}
	return false
}

func (f *Frame) keyTuple(row []any) string {
	return keyTupleOf(row, f.key)
}

func keyTupleOf(row []any, key []int) string {
	s := ""
	for i, idx := range key {
		if i > 0 {
			s += "\x1f"
		}
		s += fmt.Sprint(row[idx])
	}
	return s
}
