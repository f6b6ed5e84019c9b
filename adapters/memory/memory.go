// Package memory provides an in-process sheet for tests and scratch tables.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ideamans/go-sheetfdw"
)

// ErrRowOutOfRange is returned when a row position does not exist
var ErrRowOutOfRange = errors.New("row out of range")

// Sheet holds rows of cells in memory. Row 1 is the header.
type Sheet struct {
	mu   sync.RWMutex
	rows [][]interface{}
}

// New creates a sheet with the given header and no data rows
func New(header ...string) *Sheet {
	row := make([]interface{}, len(header))
	for i, name := range header {
		row[i] = name
	}
	return &Sheet{rows: [][]interface{}{row}}
}

// NewFromValues creates a sheet from rows, the first being the header
func NewFromValues(values [][]interface{}) *Sheet {
	return &Sheet{rows: copyRows(values)}
}

// Header returns the column names in row 1
func (s *Sheet) Header(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.rows) == 0 {
		return []string{}, nil
	}
	header := make([]string, len(s.rows[0]))
	for i, v := range s.rows[0] {
		header[i] = sheetfdw.CellString(v)
	}
	return header, nil
}

// Values returns a copy of every row including the header
func (s *Sheet) Values(ctx context.Context) ([][]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyRows(s.rows), nil
}

// AppendRow adds a row at the end of the sheet
func (s *Sheet) AppendRow(ctx context.Context, values []interface{}, _ sheetfdw.ValueInputOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append(s.rows, append([]interface{}(nil), values...))
	return nil
}

// UpdateCells writes each cell, growing short rows as needed
func (s *Sheet) UpdateCells(ctx context.Context, cells []sheetfdw.Cell, _ sheetfdw.ValueInputOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cells {
		if c.Row < 1 || c.Row > len(s.rows) || c.Column < 1 {
			return fmt.Errorf("%w: cell (%d, %d)", ErrRowOutOfRange, c.Row, c.Column)
		}
	}
	for _, c := range cells {
		row := s.rows[c.Row-1]
		for len(row) < c.Column {
			row = append(row, "")
		}
		row[c.Column-1] = c.Value
		s.rows[c.Row-1] = row
	}
	return nil
}

// DeleteRow removes a row; the rows below move up by one
func (s *Sheet) DeleteRow(ctx context.Context, row int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if row < 1 || row > len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	s.rows = append(s.rows[:row-1], s.rows[row:]...)
	return nil
}

// FindInColumn returns the first data row whose cell text equals value
func (s *Sheet) FindInColumn(ctx context.Context, column int, value string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	if column < 1 {
		return 0, false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 1; i < len(s.rows); i++ {
		row := s.rows[i]
		if column-1 < len(row) && sheetfdw.CellString(row[column-1]) == value {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

// Len returns the number of rows including the header
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rows)
}

// copyRows creates a deep copy of rows
func copyRows(rows [][]interface{}) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = append([]interface{}(nil), row...)
	}
	return out
}
