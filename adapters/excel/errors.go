package excel

import "errors"

var (
	// ErrMissingFilePath is returned when file path is not specified
	ErrMissingFilePath = errors.New("file path is required")
	// ErrMissingSheetName is returned when sheet name is not specified
	ErrMissingSheetName = errors.New("sheet name is required")
	// ErrFileNotFound is returned when the workbook does not exist
	ErrFileNotFound = errors.New("workbook not found")
	// ErrSheetNotFound is returned when the specified sheet doesn't exist
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrRowOutOfRange is returned when a row position does not exist
	ErrRowOutOfRange = errors.New("row out of range")
)
