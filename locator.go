package sheetfdw

import (
	"context"
	"fmt"
)

// RowLocator resolves a row identifier to its current physical row.
//
// The result is only valid until the next insert or delete above it;
// callers must locate again for every mutation. Identifier values are
// assumed unique: with duplicates the first physical match wins.
type RowLocator struct {
	sheet  Sheet
	column int // 1-based position of the identifier column, 0 if absent
}

// NewRowLocator creates a locator searching the given header column
func NewRowLocator(sheet Sheet, column int) *RowLocator {
	return &RowLocator{sheet: sheet, column: column}
}

// Locate returns the 1-based physical row holding id.
func (l *RowLocator) Locate(ctx context.Context, id string) (int, bool, error) {
	if l.column <= 0 {
		return 0, false, nil
	}
	row, found, err := l.sheet.FindInColumn(ctx, l.column, id)
	if err != nil {
		return 0, false, fmt.Errorf("failed to locate row %q: %w", id, err)
	}
	if !found || row < 2 {
		return 0, false, nil
	}
	return row, true, nil
}
