package googlesheets

import (
	"errors"
	"fmt"

	"github.com/ideamans/go-sheetfdw"
)

var (
	// ErrMissingSpreadsheetID is returned when no spreadsheet key is configured
	ErrMissingSpreadsheetID = errors.New("spreadsheet ID is required")
	// ErrSheetNotFound is returned when the worksheet does not exist
	ErrSheetNotFound = errors.New("sheet not found")
)

// Config represents configuration specific to the Google Sheets backend
type Config struct {
	SpreadsheetID string
	SheetIndex    int    // 0-based worksheet index, used when SheetName is empty
	SheetName     string // worksheet title, takes precedence over SheetIndex
	MaxRetries    int    // retries for idempotent calls (default: 3, negative disables)
}

// ConfigFromOptions builds a Config from foreign table options
func ConfigFromOptions(opts sheetfdw.Options) Config {
	return Config{
		SpreadsheetID: opts.SpreadsheetID,
		SheetIndex:    opts.SheetIndex,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return ErrMissingSpreadsheetID
	}
	if c.SheetIndex < 0 {
		return fmt.Errorf("sheet index must not be negative: %d", c.SheetIndex)
	}
	return nil
}

func (c *Config) retries() int {
	switch {
	case c.MaxRetries < 0:
		return 0
	case c.MaxRetries == 0:
		return 3
	default:
		return c.MaxRetries
	}
}
