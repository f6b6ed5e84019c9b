package sheetfdw

import (
	"fmt"
	"time"
)

// Qual is a predicate hint passed by the host with a scan. Table accepts
// quals but never filters with them; hosts re-check every yielded row.
type Qual struct {
	Column   string      // column name
	Operator string      // =, ==, !=, <>, >, >=, <, <=, in
	Value    interface{} // comparison value ([]interface{} for in)
}

func (q Qual) String() string {
	return fmt.Sprintf("%s %s %v", q.Column, q.Operator, q.Value)
}

// Matches evaluates the qual against a row. A missing column is null.
func (q Qual) Matches(row Row) bool {
	value := row[q.Column]

	switch q.Operator {
	case "=", "==":
		return compareEqual(value, q.Value)
	case "!=", "<>":
		return !compareEqual(value, q.Value)
	case ">":
		c, ok := compareOrder(value, q.Value)
		return ok && c > 0
	case ">=":
		c, ok := compareOrder(value, q.Value)
		return ok && c >= 0
	case "<":
		c, ok := compareOrder(value, q.Value)
		return ok && c < 0
	case "<=":
		c, ok := compareOrder(value, q.Value)
		return ok && c <= 0
	case "in":
		list, ok := q.Value.([]interface{})
		if !ok {
			return false
		}
		for _, item := range list {
			if compareEqual(value, item) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// MatchesAll reports whether row satisfies every qual (AND)
func MatchesAll(row Row, quals []Qual) bool {
	for _, q := range quals {
		if !q.Matches(row) {
			return false
		}
	}
	return true
}

// ValidateQuals validates qual structure
func ValidateQuals(quals []Qual) error {
	for i, q := range quals {
		switch q.Operator {
		case "=", "==", "!=", "<>", ">", ">=", "<", "<=":
		case "in":
			if _, ok := q.Value.([]interface{}); !ok {
				return fmt.Errorf("operator 'in' requires []interface{} value in qual %d", i)
			}
		default:
			return fmt.Errorf("invalid operator '%s' in qual %d", q.Operator, i)
		}
		if q.Column == "" {
			return fmt.Errorf("empty column name in qual %d", i)
		}
	}
	return nil
}

// compareEqual compares two values for equality
func compareEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c, ok := compareOrder(a, b); ok {
		return c == 0
	}
	return CellString(a) == CellString(b)
}

// compareOrder orders numbers numerically and times chronologically
func compareOrder(a, b interface{}) (int, bool) {
	if isNumeric(a) && isNumeric(b) {
		x, y := toFloat64(a), toFloat64(b)
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	ta, okA := a.(time.Time)
	tb, okB := b.(time.Time)
	if okA && okB {
		return ta.Compare(tb), true
	}
	return 0, false
}

// isNumeric checks if a value is numeric
func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// toFloat64 converts a numeric value to float64
func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return 0
	}
}
