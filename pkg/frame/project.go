package frame

import "github.com/framesql/framesql"

// Selection directs which columns of a frame participate in a generated
// statement. Use All, None or Names to construct one.
type Selection struct {
	all   bool
	names []string
}

// All selects every column the selection applies to: all data columns for a
// column selection, or all key components for a key selection.
func All() Selection { return Selection{all: true} }

// None selects no columns.
func None() Selection { return Selection{} }

// Names selects exactly the given columns, in the given order.
func Names(names ...string) Selection { return Selection{names: append([]string(nil), names...)} }

// IsNone reports whether the selection selects nothing.
func (s Selection) IsNone() bool { return !s.all && len(s.names) == 0 }

// IsAll reports whether the selection was constructed with All.
func (s Selection) IsAll() bool { return s.all }

// Project computes the ordered column set to use in a generated statement.
//
// cols selects among the frame's data columns (All resolves to every data
// column in declaration order). includeKey selects among the row-key
// components (All resolves to every component in key order); selected key
// components are appended after the data columns. Explicit names are
// validated against the frame, unknown names fail with the invalid column
// name kind. The output is deterministic: identical inputs always produce
// the identical ordered list.
func (f *Frame) Project(cols Selection, includeKey Selection) ([]string, error) {
	var out []string
	switch {
	case cols.all:
		out = f.DataColumns()
	default:
		out = make([]string, 0, len(cols.names))
		var invalid []string
		for _, name := range cols.names {
			if _, ok := f.ColumnIndex(name); !ok {
				invalid = append(invalid, name)
				continue
			}
			out = append(out, name)
		}
		if len(invalid) > 0 {
			return nil, framesql.NewError(framesql.ErrInvalidColumnName,
				"invalid column names: %v, frame columns: %v", invalid, f.ColumnNames())
		}
	}

	keyNames := f.KeyColumns()
	switch {
	case includeKey.all:
		out = appendMissing(out, keyNames...)
	case len(includeKey.names) > 0:
		var invalid []string
		for _, name := range includeKey.names {
			if !contains(keyNames, name) {
				invalid = append(invalid, name)
				continue
			}
			out = appendMissing(out, name)
		}
		if len(invalid) > 0 {
			return nil, framesql.NewError(framesql.ErrInvalidColumnName,
				"invalid key column names: %v, frame key: %v", invalid, keyNames)
		}
	}
	return out, nil
}

func appendMissing(list []string, names ...string) []string {
	for _, name := range names {
		if !contains(list, name) {
			list = append(list, name)
		}
	}
	return list
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
