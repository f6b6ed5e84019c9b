// Package config loads the sheetfdw CLI configuration.
//
// Values come from, lowest to highest precedence: built-in defaults, the
// sheetfdw.yaml file, a .env file next to it, SHEETFDW_ environment
// variables, and explicitly set command-line flags.
package config

// Backend names accepted by the backend key.
const (
	BackendSheets = "sheets"
	BackendExcel  = "excel"
)

// Default values
const (
	DefaultBackend    = BackendSheets
	DefaultExcelSheet = "Sheet1"
	DefaultConfigName = "sheetfdw.yaml"
	EnvPrefix         = "SHEETFDW_"
)

// Config is the CLI configuration.
type Config struct {
	Backend string            `koanf:"backend"`
	Options map[string]string `koanf:"options"` // foreign table options, see sheetfdw.ParseOptions
	Excel   ExcelConfig       `koanf:"excel"`
	Columns []ColumnConfig    `koanf:"columns"`
	Verbose bool              `koanf:"verbose"`

	// File is the config file that was loaded, empty if none
	File string `koanf:"-"`
}

// ExcelConfig locates the workbook for the excel backend.
type ExcelConfig struct {
	File  string `koanf:"file"`
	Sheet string `koanf:"sheet"`
}

// ColumnConfig declares one column of the table.
type ColumnConfig struct {
	Name string `koanf:"name"`
	Type string `koanf:"type"`
}
