package sheetfdw

import (
	"fmt"
	"sort"
)

// RowMapper aligns flat sheet rows with named columns using the header row.
type RowMapper struct {
	header      []string
	positions   map[string]int // column name -> 1-based position
	rowIDColumn string
	formula     map[string]bool
}

// NewRowMapper creates a mapper for header. The row identifier column and
// formula columns are never written by ToCellSet.
func NewRowMapper(header []string, rowIDColumn string, formulaColumns []string) *RowMapper {
	m := &RowMapper{
		header:      append([]string(nil), header...),
		positions:   make(map[string]int, len(header)),
		rowIDColumn: rowIDColumn,
		formula:     make(map[string]bool, len(formulaColumns)),
	}
	for i, name := range header {
		if name == "" {
			continue
		}
		// first occurrence wins, matching a left-to-right header lookup
		if _, ok := m.positions[name]; !ok {
			m.positions[name] = i + 1
		}
	}
	for _, name := range formulaColumns {
		m.formula[name] = true
	}
	return m
}

// Header returns a copy of the header row
func (m *RowMapper) Header() []string {
	return append([]string(nil), m.header...)
}

// Position returns the 1-based header position of name, or 0
func (m *RowMapper) Position(name string) int {
	return m.positions[name]
}

// Flatten maps data cells to header names by position. Missing trailing
// cells map to "", cells beyond the header are dropped.
func Flatten(header []string, data []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if _, dup := out[name]; dup {
			continue
		}
		if i < len(data) && data[i] != nil {
			out[name] = data[i]
		} else {
			out[name] = ""
		}
	}
	return out
}

// ToPositional arranges values in header order for an append. Header
// columns without a value are left empty; keys not in the header are dropped.
func (m *RowMapper) ToPositional(values map[string]interface{}) []interface{} {
	out := make([]interface{}, len(m.header))
	for i, name := range m.header {
		if v, ok := values[name]; ok && v != nil && m.positions[name] == i+1 {
			out[i] = v
		} else {
			out[i] = ""
		}
	}
	return out
}

// CheckWritable returns ErrUnknownColumn for the first key of values that
// would be written but has no header position.
func (m *RowMapper) CheckWritable(values map[string]interface{}) error {
	for name := range values {
		if name == m.rowIDColumn || m.formula[name] {
			continue
		}
		if m.positions[name] == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
	}
	return nil
}

// ToCellSet builds the cell updates for physicalRow, skipping the row
// identifier column and formula columns. Cells come back ordered by column.
func (m *RowMapper) ToCellSet(values map[string]interface{}, physicalRow int) ([]Cell, error) {
	if err := m.CheckWritable(values); err != nil {
		return nil, err
	}
	cells := make([]Cell, 0, len(values))
	for name, v := range values {
		if name == m.rowIDColumn || m.formula[name] {
			continue
		}
		pos := m.positions[name]
		if v == nil {
			v = ""
		}
		cells = append(cells, Cell{Row: physicalRow, Column: pos, Value: v})
	}
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Column < cells[j].Column
	})
	return cells, nil
}
