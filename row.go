package sheetfdw

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Row is a relational row: column name to host value, nil for null.
type Row map[string]interface{}

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Project returns a row holding only the given columns. Columns missing
// from r are present with a nil value.
func (r Row) Project(columns []string) Row {
	out := make(Row, len(columns))
	for _, col := range columns {
		out[col] = r[col]
	}
	return out
}

// GetAsString returns the value as string or defaultValue if null or missing
func (r Row) GetAsString(col string, defaultValue string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return defaultValue
	}
	return CellString(v)
}

// GetAsInt64 returns the value as int64 or defaultValue if not found
func (r Row) GetAsInt64(col string, defaultValue int64) int64 {
	switch val := r[col].(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	case string:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

// GetAsFloat64 returns the value as float64 or defaultValue if not found
func (r Row) GetAsFloat64(col string, defaultValue float64) float64 {
	switch val := r[col].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetAsTime returns the value as time.Time or defaultValue if not found
func (r Row) GetAsTime(col string, defaultValue time.Time) time.Time {
	switch val := r[col].(type) {
	case time.Time:
		return val
	case string:
		for _, format := range hostDateFormats {
			if t, err := time.Parse(format, val); err == nil {
				return t
			}
		}
	}
	return defaultValue
}

// GetAsUUID returns the value as uuid.UUID or defaultValue if not found
func (r Row) GetAsUUID(col string, defaultValue uuid.UUID) uuid.UUID {
	switch val := r[col].(type) {
	case uuid.UUID:
		return val
	case string:
		if id, err := uuid.Parse(val); err == nil {
			return id
		}
	}
	return defaultValue
}

var hostDateFormats = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseHostValue parses a textual literal, as typed by a user, into the
// host value for t. The literals "" and "NULL" parse to nil.
func ParseHostValue(t ColumnType, s string) (interface{}, error) {
	if s == "" || strings.EqualFold(s, "null") {
		return nil, nil
	}
	switch t {
	case TypeUUID:
		return uuid.Parse(s)
	case TypeString:
		return s, nil
	case TypeInteger:
		return strconv.ParseInt(s, 10, 64)
	case TypeFloat:
		return strconv.ParseFloat(s, 64)
	case TypeDate:
		for _, format := range hostDateFormats {
			if v, err := time.Parse(format, s); err == nil {
				y, m, d := v.Date()
				return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
			}
		}
		return nil, fmt.Errorf("cannot parse %q as date", s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}
