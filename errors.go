package sheetfdw

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported data type")
	ErrUnknownColumn   = errors.New("column not found in sheet header")
	ErrInvalidOptions  = errors.New("invalid options")
	ErrInvalidColumns  = errors.New("invalid column definitions")
)

// ConversionError reports a cell or host value that could not be converted
// for its column type. Table treats it as recoverable: the value becomes nil.
type ConversionError struct {
	Column string
	Type   ColumnType
	Value  interface{}
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("invalid value %v for column %s (%s): %v", e.Value, e.Column, e.Type, e.Err)
	}
	return fmt.Sprintf("invalid value %v for type %s: %v", e.Value, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
