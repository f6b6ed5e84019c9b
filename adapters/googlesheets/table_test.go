package googlesheets

import (
	"context"
	"testing"

	"github.com/ideamans/go-sheetfdw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableOverSheets(t *testing.T) {
	fake, server := newFakeSheets(t, sampleRows())
	s := fake.open(t, server, Config{})
	ctx := context.Background()

	columns, err := sheetfdw.NewColumns(
		sheetfdw.ColumnDefinition{Name: "id", Type: sheetfdw.TypeString},
		sheetfdw.ColumnDefinition{Name: "name", Type: sheetfdw.TypeString},
		sheetfdw.ColumnDefinition{Name: "amount", Type: sheetfdw.TypeFloat},
		sheetfdw.ColumnDefinition{Name: "total", Type: sheetfdw.TypeFloat},
	)
	require.NoError(t, err)

	opts := sheetfdw.DefaultOptions()
	opts.RowIDColumn = "id"
	opts.FormulaColumns = []string{"total"}

	table, err := sheetfdw.NewTable(ctx, s, columns, opts, nil)
	require.NoError(t, err)

	t.Run("scan", func(t *testing.T) {
		var rows []sheetfdw.Row
		for row, err := range table.Scan(ctx, nil, []string{"id", "amount"}) {
			require.NoError(t, err)
			rows = append(rows, row)
		}
		require.Len(t, rows, 3)
		assert.Equal(t, sheetfdw.Row{"id": "A", "amount": 10.5}, rows[0])
		assert.Equal(t, sheetfdw.Row{"id": "C", "amount": nil}, rows[2])
	})

	t.Run("update skips formula column", func(t *testing.T) {
		_, found, err := table.Update(ctx, "B", sheetfdw.Row{"id": "B", "amount": 4.0, "total": 99.0})
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []interface{}{"B", "Bob", 4.0, 6.0}, fake.snapshot()[2])
	})

	t.Run("delete then locate shifts", func(t *testing.T) {
		found, err := table.Delete(ctx, "B")
		require.NoError(t, err)
		assert.True(t, found)

		_, found, err = table.Update(ctx, "B", sheetfdw.Row{"name": "ghost"})
		require.NoError(t, err)
		assert.False(t, found)

		row, ok, err := s.FindInColumn(ctx, 1, "C")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, row)
	})

	t.Run("insert", func(t *testing.T) {
		_, err := table.Insert(ctx, sheetfdw.Row{"id": "E", "amount": 2.5})
		require.NoError(t, err)
		rows := fake.snapshot()
		assert.Equal(t, []interface{}{"E", "", 2.5, ""}, rows[len(rows)-1])
	})
}
