// Package sheettest runs the same table scenarios against every backend.
package sheettest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/ideamans/go-sheetfdw"
	"github.com/ideamans/go-sheetfdw/internal/testutil"
)

// Opener returns a sheet holding rows, the first being the header.
type Opener func(t *testing.T, rows [][]interface{}) sheetfdw.Sheet

// Run runs every scenario against sheets created by open.
func Run(t *testing.T, open Opener) {
	t.Run("BasicCRUD", func(t *testing.T) { testBasicCRUD(t, open) })
	t.Run("DataTypes", func(t *testing.T) { testDataTypes(t, open) })
	t.Run("FormulaColumns", func(t *testing.T) { testFormulaColumns(t, open) })
	t.Run("DeleteShift", func(t *testing.T) { testDeleteShift(t, open) })
	t.Run("ConcurrentScans", func(t *testing.T) { testConcurrentScans(t, open) })
}

func newTable(t *testing.T, sheet sheetfdw.Sheet, rowID string, formula []string, defs ...sheetfdw.ColumnDefinition) *sheetfdw.Table {
	t.Helper()
	cols, err := sheetfdw.NewColumns(defs...)
	if err != nil {
		t.Fatalf("NewColumns() error = %v", err)
	}
	opts := sheetfdw.DefaultOptions()
	opts.RowIDColumn = rowID
	opts.FormulaColumns = formula
	table, err := sheetfdw.NewTable(context.Background(), sheet, cols, opts, testutil.NewLogger(t))
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}

func scanAll(t *testing.T, table *sheetfdw.Table, columns ...string) []sheetfdw.Row {
	t.Helper()
	rows := []sheetfdw.Row{}
	for row, err := range table.Scan(context.Background(), nil, columns) {
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		rows = append(rows, row)
	}
	return rows
}

func diffRows(t *testing.T, want, got []sheetfdw.Row) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func testBasicCRUD(t *testing.T, open Opener) {
	ctx := context.Background()
	sheet := open(t, [][]interface{}{{"id", "name"}})
	table := newTable(t, sheet, "id", nil,
		sheetfdw.ColumnDefinition{Name: "id", Type: sheetfdw.TypeString},
		sheetfdw.ColumnDefinition{Name: "name", Type: sheetfdw.TypeString},
	)

	for _, r := range []sheetfdw.Row{
		{"id": "u1", "name": "Alice"},
		{"id": "u2", "name": "Bob"},
		{"id": "u3"},
	} {
		if _, err := table.Insert(ctx, r); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	diffRows(t, []sheetfdw.Row{
		{"id": "u1", "name": "Alice"},
		{"id": "u2", "name": "Bob"},
		{"id": "u3", "name": nil},
	}, scanAll(t, table))

	if _, found, err := table.Update(ctx, "u3", sheetfdw.Row{"name": "Carol"}); err != nil || !found {
		t.Fatalf("Update(u3) = %v, %v", found, err)
	}
	if _, found, err := table.Update(ctx, "u9", sheetfdw.Row{"name": "nobody"}); err != nil || found {
		t.Errorf("Update(u9) = %v, %v; want not found", found, err)
	}
	if found, err := table.Delete(ctx, "u1"); err != nil || !found {
		t.Fatalf("Delete(u1) = %v, %v", found, err)
	}

	diffRows(t, []sheetfdw.Row{
		{"id": "u2", "name": "Bob"},
		{"id": "u3", "name": "Carol"},
	}, scanAll(t, table))
}

func testDataTypes(t *testing.T, open Opener) {
	ctx := context.Background()
	sheet := open(t, [][]interface{}{{"id", "count", "ratio", "day", "note"}})
	table := newTable(t, sheet, "id", nil,
		sheetfdw.ColumnDefinition{Name: "id", Type: sheetfdw.TypeUUID},
		sheetfdw.ColumnDefinition{Name: "count", Type: sheetfdw.TypeInteger},
		sheetfdw.ColumnDefinition{Name: "ratio", Type: sheetfdw.TypeFloat},
		sheetfdw.ColumnDefinition{Name: "day", Type: sheetfdw.TypeDate},
		sheetfdw.ColumnDefinition{Name: "note", Type: sheetfdw.TypeString},
	)

	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	day := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	in := sheetfdw.Row{"id": id, "count": int64(-42), "ratio": 0.125, "day": day, "note": "leap day"}
	if _, err := table.Insert(ctx, in); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := table.Insert(ctx, sheetfdw.Row{"id": uuid.Nil}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	diffRows(t, []sheetfdw.Row{
		in,
		{"id": uuid.Nil, "count": nil, "ratio": nil, "day": nil, "note": nil},
	}, scanAll(t, table))

	if _, found, err := table.Update(ctx, id, sheetfdw.Row{"day": day.AddDate(0, 0, 1), "count": nil}); err != nil || !found {
		t.Fatalf("Update() = %v, %v", found, err)
	}
	rows := scanAll(t, table, "count", "day")
	diffRows(t, []sheetfdw.Row{{"count": nil, "day": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}}, rows[:1])
}

func testFormulaColumns(t *testing.T, open Opener) {
	ctx := context.Background()
	sheet := open(t, [][]interface{}{
		{"id", "qty", "total"},
		{"A", 2.0, 20.0},
	})
	table := newTable(t, sheet, "id", []string{"total"},
		sheetfdw.ColumnDefinition{Name: "id", Type: sheetfdw.TypeString},
		sheetfdw.ColumnDefinition{Name: "qty", Type: sheetfdw.TypeFloat},
		sheetfdw.ColumnDefinition{Name: "total", Type: sheetfdw.TypeFloat},
	)

	if _, found, err := table.Update(ctx, "A", sheetfdw.Row{"qty": 3.0, "total": 999.0}); err != nil || !found {
		t.Fatalf("Update() = %v, %v", found, err)
	}
	diffRows(t, []sheetfdw.Row{{"id": "A", "qty": 3.0, "total": 20.0}}, scanAll(t, table))
}

func testDeleteShift(t *testing.T, open Opener) {
	ctx := context.Background()
	sheet := open(t, [][]interface{}{{"id"}, {"A"}, {"B"}, {"C"}, {"D"}})
	table := newTable(t, sheet, "id", nil,
		sheetfdw.ColumnDefinition{Name: "id", Type: sheetfdw.TypeString},
	)

	row, found, err := sheet.FindInColumn(ctx, 1, "C")
	if err != nil || !found || row != 4 {
		t.Fatalf("FindInColumn(C) = %d, %v, %v; want 4", row, found, err)
	}
	if found, err := table.Delete(ctx, "B"); err != nil || !found {
		t.Fatalf("Delete(B) = %v, %v", found, err)
	}
	row, found, err = sheet.FindInColumn(ctx, 1, "C")
	if err != nil || !found || row != 3 {
		t.Errorf("FindInColumn(C) after delete = %d, %v, %v; want 3", row, found, err)
	}
	diffRows(t, []sheetfdw.Row{{"id": "A"}, {"id": "C"}, {"id": "D"}}, scanAll(t, table))
}

func testConcurrentScans(t *testing.T, open Opener) {
	sheet := open(t, [][]interface{}{{"id"}, {"A"}, {"B"}})
	table := newTable(t, sheet, "id", nil,
		sheetfdw.ColumnDefinition{Name: "id", Type: sheetfdw.TypeString},
	)

	var wg sync.WaitGroup
	counts := make([]int, 4)
	for i := range counts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, err := range table.Scan(context.Background(), nil, nil) {
				if err != nil {
					t.Errorf("Scan() error = %v", err)
					return
				}
				counts[i]++
			}
		}(i)
	}
	wg.Wait()

	for i, n := range counts {
		if n != 2 {
			t.Errorf("scan %d returned %d rows, want 2", i, n)
		}
	}
}
