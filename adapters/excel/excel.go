package excel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ideamans/go-sheetfdw"
	"github.com/natefinch/atomic"
	"github.com/xuri/excelize/v2"
)

// Sheet implements sheetfdw.Sheet for one worksheet of a local .xlsx file.
// The workbook is opened for every call and saved after every mutation.
type Sheet struct {
	config Config
	mu     sync.Mutex
}

// New creates an Excel backend with the given configuration
func New(config *Config) (*Sheet, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Sheet{config: *config}, nil
}

// Create makes sure the workbook and worksheet exist and writes header
// into row 1 when the worksheet is empty, then returns the backend.
func Create(config *Config, header ...string) (*Sheet, error) {
	s, err := New(config)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var f *excelize.File
	if _, err := os.Stat(s.config.FilePath); err == nil {
		f, err = excelize.OpenFile(s.config.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(s.config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		f = excelize.NewFile()
	}
	defer f.Close()

	index, err := f.GetSheetIndex(s.config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet index: %w", err)
	}
	if index == -1 {
		index, err = f.NewSheet(s.config.SheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		f.SetActiveSheet(index)
		// Delete default sheet if it exists and is not our sheet
		if defaultSheet := f.GetSheetName(0); defaultSheet != s.config.SheetName && defaultSheet == "Sheet1" {
			_ = f.DeleteSheet(defaultSheet)
		}
	}

	rows, err := f.GetRows(s.config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 && len(header) > 0 {
		values := make([]interface{}, len(header))
		for i, name := range header {
			values[i] = name
		}
		if err := f.SetSheetRow(s.config.SheetName, "A1", &values); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	if err := s.save(f); err != nil {
		return nil, err
	}
	return s, nil
}

// Header returns the column names in row 1
func (s *Sheet) Header(ctx context.Context) ([]string, error) {
	values, err := s.Values(ctx)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []string{}, nil
	}
	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = sheetfdw.CellString(v)
	}
	return header, nil
}

// Values returns every row of the worksheet. Numeric cells come back as
// float64 (dates as serial numbers), booleans as bool, everything else as
// the cell text.
func (s *Sheet) Values(ctx context.Context) ([][]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.readValues(f)
}

// AppendRow writes values into the row after the last non-empty row
func (s *Sheet) AppendRow(ctx context.Context, values []interface{}, opt sheetfdw.ValueInputOption) error {
	return s.mutate(ctx, func(f *excelize.File) error {
		rows, err := f.GetRows(s.config.SheetName)
		if err != nil {
			return fmt.Errorf("failed to get rows: %w", err)
		}
		row := len(rows) + 1
		for i, v := range values {
			if err := s.writeCell(f, i+1, row, v, opt); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateCells writes each cell and leaves all others alone
func (s *Sheet) UpdateCells(ctx context.Context, cells []sheetfdw.Cell, opt sheetfdw.ValueInputOption) error {
	if len(cells) == 0 {
		return nil
	}
	return s.mutate(ctx, func(f *excelize.File) error {
		for _, c := range cells {
			if c.Row < 1 || c.Column < 1 {
				return fmt.Errorf("%w: cell (%d, %d)", ErrRowOutOfRange, c.Row, c.Column)
			}
			if err := s.writeCell(f, c.Column, c.Row, c.Value, opt); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteRow removes a row; the rows below move up by one
func (s *Sheet) DeleteRow(ctx context.Context, row int) error {
	return s.mutate(ctx, func(f *excelize.File) error {
		rows, err := f.GetRows(s.config.SheetName)
		if err != nil {
			return fmt.Errorf("failed to get rows: %w", err)
		}
		if row < 1 || row > len(rows) {
			return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
		}
		if err := f.RemoveRow(s.config.SheetName, row); err != nil {
			return fmt.Errorf("failed to remove row %d: %w", row, err)
		}
		return nil
	})
}

// FindInColumn returns the first data row whose cell text equals value
func (s *Sheet) FindInColumn(ctx context.Context, column int, value string) (int, bool, error) {
	if column < 1 {
		return 0, false, nil
	}
	values, err := s.Values(ctx)
	if err != nil {
		return 0, false, err
	}
	for i := 1; i < len(values); i++ {
		row := values[i]
		if column-1 < len(row) && sheetfdw.CellString(row[column-1]) == value {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

// mutate opens the workbook, applies fn and saves the result
func (s *Sheet) mutate(ctx context.Context, fn func(f *excelize.File) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}
	return s.save(f)
}

// open opens the workbook and checks the worksheet exists
func (s *Sheet) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.config.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, s.config.FilePath)
		}
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}

	index, err := f.GetSheetIndex(s.config.SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get sheet index: %w", err)
	}
	if index == -1 {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, s.config.SheetName)
	}
	return f, nil
}

// save writes the workbook to a temporary file and renames it into place
func (s *Sheet) save(f *excelize.File) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to serialize Excel file: %w", err)
	}
	if err := atomic.WriteFile(s.config.FilePath, buf); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func (s *Sheet) readValues(f *excelize.File) ([][]interface{}, error) {
	rows, err := f.GetRows(s.config.SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, text := range row {
			if text == "" {
				values[i][j] = ""
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(s.config.SheetName, cell)
			if err != nil {
				return nil, fmt.Errorf("failed to get type of %s: %w", cell, err)
			}
			values[i][j] = typedValue(typ, text)
		}
	}
	return values, nil
}

// typedValue mirrors the shapes the Sheets API returns for unformatted values
func typedValue(typ excelize.CellType, text string) interface{} {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	case excelize.CellTypeBool:
		return text == "1" || strings.EqualFold(text, "true")
	}
	return text
}

// writeCell stores v at (col, row). With USER_ENTERED, text starting with
// "=" is stored as a formula.
func (s *Sheet) writeCell(f *excelize.File, col, row int, v interface{}, opt sheetfdw.ValueInputOption) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if text, ok := v.(string); ok && opt == sheetfdw.InputUserEntered && strings.HasPrefix(text, "=") {
		if err := f.SetCellFormula(s.config.SheetName, cell, strings.TrimPrefix(text, "=")); err != nil {
			return fmt.Errorf("failed to set formula at %s: %w", cell, err)
		}
		return nil
	}
	if err := f.SetCellValue(s.config.SheetName, cell, v); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}
