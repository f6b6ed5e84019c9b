package sheetfdw

import "context"

// ValueInputOption controls how the remote side interprets written values
type ValueInputOption string

const (
	// InputUserEntered parses values as if typed into the UI: formulas,
	// numbers and dates are recognized.
	InputUserEntered ValueInputOption = "USER_ENTERED"
	// InputRaw stores values as-is.
	InputRaw ValueInputOption = "RAW"
)

// Cell addresses a single cell for a positional update. Row and Column
// are 1-based; row 1 is the header.
type Cell struct {
	Row    int
	Column int
	Value  interface{}
}

// Sheet is the remote worksheet a Table reads and mutates. Row 1 holds
// the column names; data starts at row 2.
type Sheet interface {
	// Header returns the column names in row 1
	Header(ctx context.Context) ([]string, error)

	// Values returns every row including the header, unformatted
	Values(ctx context.Context) ([][]interface{}, error)

	// AppendRow adds a row after the last non-empty row
	AppendRow(ctx context.Context, values []interface{}, opt ValueInputOption) error

	// UpdateCells writes the given cells and leaves all others alone
	UpdateCells(ctx context.Context, cells []Cell, opt ValueInputOption) error

	// DeleteRow removes a row; rows below it move up by one
	DeleteRow(ctx context.Context, row int) error

	// FindInColumn returns the first data row whose cell in column has the
	// text value. found is false when no row matches.
	FindInColumn(ctx context.Context, column int, value string) (row int, found bool, err error)
}
