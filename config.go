package sheetfdw

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Options represents the foreign table options recognized by the adapter
type Options struct {
	RowIDColumn      string           // Column used as the update/delete key
	FormulaColumns   []string         // Columns computed by the sheet, never updated
	ValueInputOption ValueInputOption // How written values are interpreted (default: USER_ENTERED)
	DecimalSeparator string           // Fractional separator of numeric cell text (default: ".")

	// Connection options, used by the backend constructors only
	KeyFile       string
	SpreadsheetID string
	SheetIndex    int
}

// DefaultOptions returns options with defaults applied
func DefaultOptions() Options {
	return Options{
		ValueInputOption: InputUserEntered,
		DecimalSeparator: ".",
	}
}

// ParseOptions reads options from the flat key/value form a host passes
// to a foreign table.
func ParseOptions(raw map[string]string) (Options, error) {
	opts := DefaultOptions()

	for key, value := range raw {
		switch key {
		case "row_id", "row_id_column":
			opts.RowIDColumn = strings.TrimSpace(value)
		case "formula_columns":
			opts.FormulaColumns = SplitList(value)
		case "value_input_option":
			opts.ValueInputOption = ValueInputOption(strings.ToUpper(strings.TrimSpace(value)))
		case "decimal_separator":
			opts.DecimalSeparator = value
		case "keyfile":
			opts.KeyFile = value
		case "gskey", "spreadsheet_id":
			opts.SpreadsheetID = value
		case "sheet":
			idx, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return opts, fmt.Errorf("%w: sheet must be an integer index: %q", ErrInvalidOptions, value)
			}
			opts.SheetIndex = idx
		}
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Validate checks if the options are valid
func (o *Options) Validate() error {
	if o.ValueInputOption == "" {
		o.ValueInputOption = InputUserEntered
	}
	if o.DecimalSeparator == "" {
		o.DecimalSeparator = "."
	}

	switch o.ValueInputOption {
	case InputUserEntered, InputRaw:
	default:
		return fmt.Errorf("%w: unknown value_input_option %q", ErrInvalidOptions, o.ValueInputOption)
	}
	if utf8.RuneCountInString(o.DecimalSeparator) != 1 {
		return fmt.Errorf("%w: decimal_separator must be a single character, got %q", ErrInvalidOptions, o.DecimalSeparator)
	}
	if o.SheetIndex < 0 {
		return fmt.Errorf("%w: sheet index must not be negative", ErrInvalidOptions)
	}
	for _, col := range o.FormulaColumns {
		if col == o.RowIDColumn && col != "" {
			return fmt.Errorf("%w: row_id column %q cannot be a formula column", ErrInvalidOptions, col)
		}
	}
	return nil
}

// SplitList splits a comma separated option value, dropping blanks
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
