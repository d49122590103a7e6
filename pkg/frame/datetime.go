package frame

import (
	"strings"
	"time"

	"github.com/framesql/framesql"
)

// DefaultTimeLayout is the layout used when converting Time columns to
// strings for dialects without native datetime binding support.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// defaultParseLayouts are tried in order when no explicit layout is given.
// Layouts carrying zone information produce timezone-aware columns.
var defaultParseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// layoutIsAware reports whether a layout carries timezone information.
func layoutIsAware(layout string) bool {
	return strings.Contains(layout, "Z07") || strings.Contains(layout, "-07") ||
		strings.Contains(layout, "MST")
}

// ParseTimes converts the named string column to a Time column.
// With an empty layout a set of common layouts is tried per value.
// The column becomes timezone-aware only when the layout carries zone
// information. Unparseable values fail with the data type conversion kind,
// identifying the column.
func (f *Frame) ParseTimes(col string, layout string) error {
	idx, ok := f.ColumnIndex(col)
	if !ok {
		return framesql.NewError(framesql.ErrInvalidColumnName, "unknown column: %s", col)
	}
	aware := layout != "" && layoutIsAware(layout)
	for i, row := range f.rows {
		if row[idx] == nil {
			continue
		}
		s, ok := row[idx].(string)
		if !ok {
			if _, isTime := row[idx].(time.Time); isTime {
				continue
			}
			return framesql.NewError(framesql.ErrDataTypeConversion,
				"column %s row %d: cannot parse %T as datetime", col, i, row[idx])
		}
		t, usedLayout, err := parseTime(s, layout)
		if err != nil {
			return framesql.WrapError(framesql.ErrDataTypeConversion, err,
				"column %s row %d: cannot parse %q as datetime", col, i, s)
		}
		if layout == "" && layoutIsAware(usedLayout) {
			aware = true
		}
		row[idx] = t
	}
	f.cols[idx].Kind = Time
	f.cols[idx].TZAware = aware
	return nil
}

func parseTime(s string, layout string) (time.Time, string, error) {
	if layout != "" {
		t, err := time.Parse(layout, s)
		return t, layout, err
	}
	var lastErr error
	for _, l := range defaultParseLayouts {
		t, err := time.Parse(l, s)
		if err == nil {
			return t, l, nil
		}
		lastErr = err
	}
	return time.Time{}, "", lastErr
}

// Localize assigns the named timezone to every naive Time column of the
// frame and, when targetTZ is non-empty, converts the localized columns to
// the target zone. Localizing an already timezone-aware column is a
// configuration error of the data type conversion kind.
func (f *Frame) Localize(localizeTZ, targetTZ string) error {
	loc, err := time.LoadLocation(localizeTZ)
	if err != nil {
		return framesql.WrapError(framesql.ErrDataTypeConversion, err,
			"unknown timezone %q", localizeTZ)
	}
	var target *time.Location
	if targetTZ != "" && targetTZ != localizeTZ {
		if target, err = time.LoadLocation(targetTZ); err != nil {
			return framesql.WrapError(framesql.ErrDataTypeConversion, err,
				"unknown timezone %q", targetTZ)
		}
	}
	for i := range f.cols {
		if f.cols[i].Kind != Time {
			continue
		}
		if f.cols[i].TZAware {
			return framesql.NewError(framesql.ErrDataTypeConversion,
				"column %s is already timezone aware and cannot be localized to %s",
				f.cols[i].Name, localizeTZ)
		}
		for _, row := range f.rows {
			v := row[i]
			if v == nil {
				continue
			}
			t, ok := v.(time.Time)
			if !ok {
				return framesql.NewError(framesql.ErrDataTypeConversion,
					"column %s: cannot localize %T as datetime", f.cols[i].Name, v)
			}
			// Reinterpret the wall clock in the localized zone.
			lt := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(),
				t.Second(), t.Nanosecond(), loc)
			if target != nil {
				lt = lt.In(target)
			}
			row[i] = lt
		}
		f.cols[i].TZAware = true
	}
	return nil
}

// TimeEncoding selects the wire representation of Time columns for dialects
// that cannot bind datetime values natively.
type TimeEncoding string

const (
	// TimeAsString encodes Time values as formatted strings.
	TimeAsString TimeEncoding = "str"
	// TimeAsInt encodes Time values as seconds since the unix epoch in UTC.
	TimeAsInt TimeEncoding = "int"
)

// ConvertTimes returns a copy of the frame with every Time column converted
// to the requested encoding. The layout applies to TimeAsString only; when
// empty DefaultTimeLayout is used.
func (f *Frame) ConvertTimes(enc TimeEncoding, layout string) (*Frame, error) {
	if enc != TimeAsString && enc != TimeAsInt {
		return nil, framesql.NewError(framesql.ErrInvalidInput,
			"invalid time encoding %q, valid options: %q, %q", enc, TimeAsString, TimeAsInt)
	}
	if layout == "" {
		layout = DefaultTimeLayout
	}
	out := f.Copy()
	for i := range out.cols {
		if out.cols[i].Kind != Time {
			continue
		}
		for _, row := range out.rows {
			v := row[i]
			if v == nil {
				continue
			}
			t, ok := v.(time.Time)
			if !ok {
				return nil, framesql.NewError(framesql.ErrDataTypeConversion,
					"column %s: cannot convert %T as datetime", out.cols[i].Name, v)
			}
			if enc == TimeAsString {
				row[i] = t.Format(layout)
			} else {
				row[i] = t.UTC().Unix()
			}
		}
		if enc == TimeAsString {
			out.cols[i].Kind = String
		} else {
			out.cols[i].Kind = Int
		}
		out.cols[i].TZAware = false
	}
	return out, nil
}
