package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/framesql/framesql"
)

// ReadCSV builds a Frame from CSV data. The first record is the header.
// All columns are read as strings; use Coerce or ParseTimes afterwards to
// assign kinds, and SetIndex to assign a row key.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, framesql.WrapError(framesql.ErrInvalidInput, err, "cannot read CSV header")
	}
	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name, Kind: String}
	}
	f, err := New(cols...)
	if err != nil {
		return nil, err
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, framesql.WrapError(framesql.ErrInvalidInput, err,
				"cannot read CSV row %d", f.NumRows()+1)
		}
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}
		f.rows = append(f.rows, row)
	}
	return f, nil
}

// WriteCSV writes the frame as CSV with a header record.
// Nil values are written as empty fields.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(f.cols))
	for _, row := range f.rows {
		for i, v := range row {
			record[i] = formatCSVValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCSVValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
