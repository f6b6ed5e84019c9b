package config

import (
	"fmt"
	"strings"

	"github.com/ideamans/go-sheetfdw"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSheets:
	case BackendExcel:
		if c.Excel.File == "" {
			return fmt.Errorf("excel.file is required for the excel backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendSheets, BackendExcel)
	}

	if len(c.Columns) == 0 {
		return fmt.Errorf("no columns configured\nHint: add a columns list to %s", DefaultConfigName)
	}
	if _, err := c.TableColumns(); err != nil {
		return err
	}
	if _, err := c.TableOptions(); err != nil {
		return err
	}
	return nil
}

// TableColumns converts the configured columns to table column definitions.
func (c *Config) TableColumns() (sheetfdw.Columns, error) {
	defs := make([]sheetfdw.ColumnDefinition, 0, len(c.Columns))
	for _, col := range c.Columns {
		typ, err := sheetfdw.ParseColumnType(col.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		defs = append(defs, sheetfdw.ColumnDefinition{Name: strings.TrimSpace(col.Name), Type: typ})
	}
	return sheetfdw.NewColumns(defs...)
}

// TableOptions parses the configured foreign table options.
func (c *Config) TableOptions() (sheetfdw.Options, error) {
	return sheetfdw.ParseOptions(c.Options)
}
