package excel

// Config holds configuration for the Excel backend
type Config struct {
	FilePath  string // Path to the Excel file
	SheetName string // Name of the sheet to use
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return ErrMissingFilePath
	}
	if c.SheetName == "" {
		return ErrMissingSheetName
	}
	return nil
}
