package sheetfdw

import (
	"fmt"
	"strings"
)

// ColumnType is the relational type of a column
type ColumnType uint8

const (
	TypeInvalid ColumnType = iota
	TypeUUID
	TypeString
	TypeInteger
	TypeFloat
	TypeDate
)

func (t ColumnType) String() string {
	switch t {
	case TypeUUID:
		return "uuid"
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeDate:
		return "date"
	default:
		return fmt.Sprintf("ColumnType(%d)", uint8(t))
	}
}

// Valid reports whether the type has a codec
func (t ColumnType) Valid() bool {
	return t >= TypeUUID && t <= TypeDate
}

// ParseColumnType accepts the canonical names as well as the PostgreSQL
// spellings a foreign table declaration may use.
func ParseColumnType(name string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uuid":
		return TypeUUID, nil
	case "string", "varchar", "character varying", "text":
		return TypeString, nil
	case "integer", "int", "int4", "int8", "bigint":
		return TypeInteger, nil
	case "float", "float8", "double", "double precision":
		return TypeFloat, nil
	case "date":
		return TypeDate, nil
	default:
		return TypeInvalid, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
	}
}

// ColumnDefinition describes one column of the foreign table
type ColumnDefinition struct {
	Name    string
	Type    ColumnType
	Ordinal int // 1-based position in the host schema
}

// Columns is the fixed column set of a table, in host schema order
type Columns []ColumnDefinition

// NewColumns builds a column set and assigns ordinals by position.
func NewColumns(defs ...ColumnDefinition) (Columns, error) {
	cols := make(Columns, len(defs))
	copy(cols, defs)
	for i := range cols {
		cols[i].Ordinal = i + 1
	}
	if err := cols.Validate(); err != nil {
		return nil, err
	}
	return cols, nil
}

// Validate checks names are present and unique and every type is supported
func (c Columns) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no columns defined", ErrInvalidColumns)
	}
	seen := make(map[string]bool, len(c))
	for _, col := range c {
		if col.Name == "" {
			return fmt.Errorf("%w: column %d has no name", ErrInvalidColumns, col.Ordinal)
		}
		if seen[col.Name] {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidColumns, col.Name)
		}
		seen[col.Name] = true
		if !col.Type.Valid() {
			return fmt.Errorf("%w: %s for column %q", ErrUnsupportedType, col.Type, col.Name)
		}
	}
	return nil
}

// Lookup returns the definition for name
func (c Columns) Lookup(name string) (ColumnDefinition, bool) {
	for _, col := range c {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnDefinition{}, false
}

// Names returns the column names in order
func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}
