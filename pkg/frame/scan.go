package frame

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/framesql/framesql"
)

// ScanOptions control how FromRows builds a Frame from a result set.
type ScanOptions struct {
	// Index names the columns to designate as the row key, in order.
	Index []string

	// DTypes maps column names to the kind their values are coerced to
	// after scanning.
	DTypes map[string]Kind

	// ParseDates maps column names to a parse layout. An empty layout
	// tries a set of common layouts per value.
	ParseDates map[string]string

	// LocalizeTZ localizes naive Time columns to the named zone.
	LocalizeTZ string

	// TargetTZ converts localized Time columns to the named zone.
	// Only used together with LocalizeTZ.
	TargetTZ string
}

// FromRows drains a result set into a new Frame, applying the requested
// type coercions, datetime parsing, timezone handling and row-key
// assignment. The result set is fully consumed but not closed.
func FromRows(rows *sql.Rows, opts ScanOptions) (*Frame, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, framesql.WrapError(framesql.ErrLoadTable, err, "cannot read result columns")
	}
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name}
	}
	f, err := New(cols...)
	if err != nil {
		return nil, err
	}

	dest := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, framesql.WrapError(framesql.ErrLoadTable, err, "cannot scan row %d", f.NumRows())
		}
		row := make([]any, len(names))
		for i, v := range dest {
			row[i] = normalizeScanned(v)
		}
		f.rows = append(f.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, framesql.WrapError(framesql.ErrLoadTable, err, "error iterating result set")
	}

	f.inferKinds()

	for col, kind := range opts.DTypes {
		if err := f.Coerce(col, kind); err != nil {
			return nil, err
		}
	}
	for col, layout := range opts.ParseDates {
		if err := f.ParseTimes(col, layout); err != nil {
			return nil, err
		}
	}
	if opts.LocalizeTZ != "" {
		if err := f.Localize(opts.LocalizeTZ, opts.TargetTZ); err != nil {
			return nil, err
		}
	}
	if len(opts.Index) > 0 {
		if err := f.SetIndex(opts.Index...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// normalizeScanned maps driver-provided values onto the frame value model.
func normalizeScanned(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}

// inferKinds assigns each Any column the kind of its first non-nil value.
func (f *Frame) inferKinds() {
	for i := range f.cols {
		if f.cols[i].Kind != Any {
			continue
		}
		for _, row := range f.rows {
			if row[i] == nil {
				continue
			}
			f.cols[i].Kind = kindOf(row[i])
			if f.cols[i].Kind == Time {
				t := row[i].(time.Time)
				f.cols[i].TZAware = t.Location() != time.UTC
			}
			break
		}
	}
}

func kindOf(v any) Kind {
	switch v.(type) {
	case int64:
		return Int
	case float64:
		return Float
	case bool:
		return Bool
	case string:
		return String
	case time.Time:
		return Time
	case []byte:
		return Bytes
	default:
		return Any
	}
}

// Coerce converts every value of the named column to the given kind.
// Values that cannot be represented in the target kind fail with the data
// type conversion kind, identifying the column.
func (f *Frame) Coerce(col string, kind Kind) error {
	idx, ok := f.ColumnIndex(col)
	if !ok {
		return framesql.NewError(framesql.ErrDataTypeConversion,
			"only column names can be used as coercion targets, unknown column: %s, columns: %v",
			col, f.ColumnNames())
	}
	for i, row := range f.rows {
		if row[idx] == nil {
			continue
		}
		v, err := convertValue(row[idx], kind)
		if err != nil {
			return framesql.WrapError(framesql.ErrDataTypeConversion, err,
				"column %s row %d", col, i)
		}
		row[idx] = v
	}
	f.cols[idx].Kind = kind
	return nil
}

func convertValue(v any, to Kind) (any, error) {
	switch to {
	case Int:
		switch v := v.(type) {
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		case bool:
			if v {
				return int64(1), nil
			}
			return int64(0), nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to int", v)
			}
			return n, nil
		case time.Time:
			return v.UTC().Unix(), nil
		}
	case Float:
		switch v := v.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case string:
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to float", v)
			}
			return x, nil
		}
	case Bool:
		switch v := v.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to bool", v)
			}
			return b, nil
		}
	case String:
		switch v := v.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		case time.Time:
			return v.Format(DefaultTimeLayout), nil
		default:
			return fmt.Sprint(v), nil
		}
	case Time:
		switch v := v.(type) {
		case time.Time:
			return v, nil
		case string:
			t, _, err := parseTime(v, "")
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to time", v)
			}
			return t, nil
		case int64:
			return time.Unix(v, 0).UTC(), nil
		}
	case Bytes:
		switch v := v.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}
	}
	return nil, fmt.Errorf("cannot convert %T to %s", v, to)
}
