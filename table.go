package sheetfdw

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
)

// Table exposes one worksheet as a relational table.
//
// Table keeps no row data between calls. The header row is read once at
// construction and defines column positions for the table's lifetime;
// every scan fetches the whole sheet again and every update or delete
// locates its row again.
type Table struct {
	sheet   Sheet
	columns Columns
	opts    Options
	codec   Codec
	mapper  *RowMapper
	locator *RowLocator
	logger  *slog.Logger
}

// NewTable creates a table over sheet. The sheet is owned by the caller
// and must outlive the table.
func NewTable(ctx context.Context, sheet Sheet, columns Columns, opts Options, logger *slog.Logger) (*Table, error) {
	if sheet == nil {
		return nil, fmt.Errorf("sheet is required")
	}
	if err := columns.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	header, err := sheet.Header(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	mapper := NewRowMapper(header, opts.RowIDColumn, opts.FormulaColumns)
	idColumn := 0
	if opts.RowIDColumn != "" {
		idColumn = mapper.Position(opts.RowIDColumn)
		if idColumn == 0 {
			logger.Warn("row id column not found in sheet header; update and delete will match no rows",
				slog.String("column", opts.RowIDColumn))
		}
	}

	return &Table{
		sheet:   sheet,
		columns: append(Columns(nil), columns...),
		opts:    opts,
		codec:   Codec{DecimalSeparator: opts.DecimalSeparator},
		mapper:  mapper,
		locator: NewRowLocator(sheet, idColumn),
		logger:  logger,
	}, nil
}

// Columns returns the column definitions of the table
func (t *Table) Columns() Columns {
	return append(Columns(nil), t.columns...)
}

// RowIDColumn returns the name of the update/delete key column
func (t *Table) RowIDColumn() string {
	return t.opts.RowIDColumn
}

// Scan fetches the sheet and yields each data row projected to columns.
// An empty columns list yields every defined column. quals are hints only:
// the host must filter yielded rows itself.
//
// A transport fault or unsupported type is yielded once as an error and
// ends the sequence. Cells that fail to convert are logged and yielded as nil.
func (t *Table) Scan(ctx context.Context, quals []Qual, columns []string) iter.Seq2[Row, error] {
	if len(columns) == 0 {
		columns = t.columns.Names()
	}

	return func(yield func(Row, error) bool) {
		t.logger.Debug("scan", slog.Any("quals", quals), slog.Any("columns", columns))

		values, err := t.sheet.Values(ctx)
		if err != nil {
			yield(nil, fmt.Errorf("failed to fetch sheet values: %w", err))
			return
		}
		if len(values) == 0 {
			return
		}

		header := make([]string, len(values[0]))
		for i, v := range values[0] {
			header[i] = CellString(v)
		}

		for _, data := range values[1:] {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			row, err := t.decodeRow(Flatten(header, data))
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(row.Project(columns), nil) {
				return
			}
		}
	}
}

// Insert appends row to the sheet and returns it as accepted
func (t *Table) Insert(ctx context.Context, row Row) (Row, error) {
	t.logger.Debug("insert", slog.Any("values", row))

	converted, err := t.encodeRow(row)
	if err != nil {
		return nil, err
	}

	if err := t.sheet.AppendRow(ctx, t.mapper.ToPositional(converted), t.opts.ValueInputOption); err != nil {
		return nil, fmt.Errorf("failed to append row: %w", err)
	}
	return row.Clone(), nil
}

// Update writes the columns of row into the row identified by id. Only
// the given columns are written; the identifier column and formula
// columns are never written. found is false when no row has id, in which
// case nothing is written.
func (t *Table) Update(ctx context.Context, id interface{}, row Row) (Row, bool, error) {
	t.logger.Debug("update", slog.Any("id", id), slog.Any("values", row))

	converted, err := t.encodeRow(row)
	if err != nil {
		return nil, false, err
	}
	if err := t.mapper.CheckWritable(converted); err != nil {
		return nil, false, err
	}

	physical, found, err := t.locate(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}

	cells, err := t.mapper.ToCellSet(converted, physical)
	if err != nil {
		return nil, false, err
	}
	if len(cells) > 0 {
		if err := t.sheet.UpdateCells(ctx, cells, t.opts.ValueInputOption); err != nil {
			return nil, false, fmt.Errorf("failed to update row %d: %w", physical, err)
		}
	}
	return row.Clone(), true, nil
}

// Delete removes the row identified by id. Rows below it shift up by one.
func (t *Table) Delete(ctx context.Context, id interface{}) (bool, error) {
	t.logger.Debug("delete", slog.Any("id", id))

	physical, found, err := t.locate(ctx, id)
	if err != nil || !found {
		return false, err
	}

	if err := t.sheet.DeleteRow(ctx, physical); err != nil {
		return false, fmt.Errorf("failed to delete row %d: %w", physical, err)
	}
	return true, nil
}

// locate canonicalizes id the way it is stored in the sheet, then searches
// the identifier column for it.
func (t *Table) locate(ctx context.Context, id interface{}) (int, bool, error) {
	text := CellString(id)
	if col, ok := t.columns.Lookup(t.opts.RowIDColumn); ok {
		remote, err := t.codec.ToRemote(col.Type, id)
		if err == nil {
			text = CellString(remote)
		}
	}
	return t.locator.Locate(ctx, text)
}

// decodeRow converts every defined column present in raw to its host value.
func (t *Table) decodeRow(raw map[string]interface{}) (Row, error) {
	row := make(Row, len(t.columns))
	for _, col := range t.columns {
		v, ok := raw[col.Name]
		if !ok {
			row[col.Name] = nil
			continue
		}
		hv, err := t.convert(col, v, t.codec.ToHost)
		if err != nil {
			return nil, err
		}
		row[col.Name] = hv
	}
	return row, nil
}

// encodeRow converts host values to cell values. Keys that are not defined
// columns encode as empty cells.
func (t *Table) encodeRow(row Row) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(row))
	for name, v := range row {
		col, ok := t.columns.Lookup(name)
		if !ok {
			out[name] = ""
			continue
		}
		rv, err := t.convert(col, v, t.codec.ToRemote)
		if err != nil {
			return nil, err
		}
		if rv == nil {
			rv = ""
		}
		out[name] = rv
	}
	return out, nil
}

// convert applies fn and absorbs conversion faults as nil with a warning.
func (t *Table) convert(col ColumnDefinition, v interface{}, fn func(ColumnType, interface{}) (interface{}, error)) (interface{}, error) {
	out, err := fn(col.Type, v)
	if err == nil {
		return out, nil
	}

	var convErr *ConversionError
	if errors.As(err, &convErr) {
		convErr.Column = col.Name
		t.logger.Warn("invalid value",
			slog.String("column", col.Name),
			slog.String("type", col.Type.String()),
			slog.Any("value", v),
			slog.String("error", convErr.Err.Error()))
		return nil, nil
	}
	return nil, fmt.Errorf("column %q: %w", col.Name, err)
}
