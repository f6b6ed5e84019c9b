package cli

import (
	"fmt"
	"strings"

	"github.com/ideamans/go-sheetfdw"
)

// whereOperators is ordered so that two-character operators match first
var whereOperators = []string{">=", "<=", "!=", "<>", "=", ">", "<"}

// parseAssignments turns col=value literals into a row, typed by column.
func parseAssignments(columns sheetfdw.Columns, assignments []string) (sheetfdw.Row, error) {
	row := make(sheetfdw.Row, len(assignments))
	for _, a := range assignments {
		name, literal, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q (want column=value)", a)
		}
		v, err := parseLiteral(columns, name, literal)
		if err != nil {
			return nil, err
		}
		row[name] = v
	}
	return row, nil
}

// parseWhere turns expressions such as qty>=3 into quals.
func parseWhere(columns sheetfdw.Columns, exprs []string) ([]sheetfdw.Qual, error) {
	quals := make([]sheetfdw.Qual, 0, len(exprs))
	for _, expr := range exprs {
		q, err := parseCondition(columns, expr)
		if err != nil {
			return nil, err
		}
		quals = append(quals, q)
	}
	if err := sheetfdw.ValidateQuals(quals); err != nil {
		return nil, err
	}
	return quals, nil
}

func parseCondition(columns sheetfdw.Columns, expr string) (sheetfdw.Qual, error) {
	best := -1
	var op string
	for _, candidate := range whereOperators {
		if i := strings.Index(expr, candidate); i > 0 && (best == -1 || i < best) {
			best, op = i, candidate
		}
	}
	if best == -1 {
		return sheetfdw.Qual{}, fmt.Errorf("invalid condition %q (want column<op>value)", expr)
	}

	name := strings.TrimSpace(expr[:best])
	v, err := parseLiteral(columns, name, strings.TrimSpace(expr[best+len(op):]))
	if err != nil {
		return sheetfdw.Qual{}, err
	}
	return sheetfdw.Qual{Column: name, Operator: op, Value: v}, nil
}

func parseLiteral(columns sheetfdw.Columns, name, literal string) (interface{}, error) {
	col, ok := columns.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	v, err := sheetfdw.ParseHostValue(col.Type, literal)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}
