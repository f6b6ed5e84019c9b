package cli

import (
	"fmt"
	"io"

	"github.com/ideamans/go-sheetfdw"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Output formats accepted by --format
const (
	formatTable    = "table"
	formatCSV      = "csv"
	formatMarkdown = "markdown"
)

// renderRows writes rows in column order. Nulls print as NULL in the
// table format and as empty fields otherwise.
func renderRows(w io.Writer, columns []string, rows []sheetfdw.Row, format string) error {
	if format == formatTable && len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, col := range columns {
			r[i] = displayValue(row[col], format)
		}
		t.AppendRow(r)
	}

	switch format {
	case formatTable:
		t.SetCaption("(%d rows)", len(rows))
		t.Render()
	case formatCSV:
		t.RenderCSV()
	case formatMarkdown:
		t.RenderMarkdown()
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatTable, formatCSV, formatMarkdown)
	}
	return nil
}

func displayValue(v interface{}, format string) string {
	if v == nil {
		if format == formatTable {
			return "NULL"
		}
		return ""
	}
	return sheetfdw.CellString(v)
}

// renderColumns lists the column definitions with their sheet positions
func renderColumns(w io.Writer, tbl *sheetfdw.Table) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "name", "type", "row id"})
	for _, col := range tbl.Columns() {
		mark := ""
		if col.Name == tbl.RowIDColumn() {
			mark = "yes"
		}
		t.AppendRow(table.Row{col.Ordinal, col.Name, col.Type.String(), mark})
	}
	t.Render()
}
