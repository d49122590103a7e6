package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/framesql/framesql/pkg/frame"
)

// renderFrame writes a frame to out in the requested format.
func renderFrame(out io.Writer, f *frame.Frame, format string) error {
	switch format {
	case "", "table":
		renderTable(out, f)
		return nil
	case "csv":
		return f.WriteCSV(out)
	default:
		return fmt.Errorf("unknown output format %q, expected table or csv", format)
	}
}

func renderTable(out io.Writer, f *frame.Frame) {
	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.SetStyle(table.StyleLight)

	header := make(table.Row, 0, f.NumCols())
	for _, name := range f.ColumnNames() {
		header = append(header, name)
	}
	w.AppendHeader(header)

	for i := 0; i < f.NumRows(); i++ {
		row := make(table.Row, 0, f.NumCols())
		for _, v := range f.Row(i) {
			if v == nil {
				row = append(row, "NULL")
				continue
			}
			row = append(row, v)
		}
		w.AppendRow(row)
	}
	w.Render()
	fmt.Fprintf(out, "(%d rows)\n", f.NumRows())
}
