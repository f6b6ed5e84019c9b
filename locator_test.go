package sheetfdw_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ideamans/go-sheetfdw"
	"github.com/ideamans/go-sheetfdw/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowLocator_Locate(t *testing.T) {
	sheet := memory.NewFromValues([][]interface{}{
		{"id", "name"},
		{"A", "Alice"},
		{"B", "Bob"},
		{"C", "Carol"},
	})
	ctx := context.Background()
	locator := sheetfdw.NewRowLocator(sheet, 1)

	row, found, err := locator.Locate(ctx, "B")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, row)

	_, found, err = locator.Locate(ctx, "Z")
	require.NoError(t, err)
	assert.False(t, found)

	// the header cell is never a match
	_, found, err = locator.Locate(ctx, "id")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRowLocator_NoColumn(t *testing.T) {
	failing := &failingSheet{err: errors.New("should not be called")}
	locator := sheetfdw.NewRowLocator(failing, 0)

	_, found, err := locator.Locate(context.Background(), "A")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRowLocator_TransportFault(t *testing.T) {
	boom := errors.New("boom")
	locator := sheetfdw.NewRowLocator(&failingSheet{err: boom}, 1)

	_, found, err := locator.Locate(context.Background(), "A")
	assert.ErrorIs(t, err, boom)
	assert.False(t, found)
}

// failingSheet fails every call with err
type failingSheet struct {
	err error
}

func (f *failingSheet) Header(context.Context) ([]string, error) { return nil, f.err }

func (f *failingSheet) Values(context.Context) ([][]interface{}, error) { return nil, f.err }

func (f *failingSheet) AppendRow(context.Context, []interface{}, sheetfdw.ValueInputOption) error {
	return f.err
}

func (f *failingSheet) UpdateCells(context.Context, []sheetfdw.Cell, sheetfdw.ValueInputOption) error {
	return f.err
}

func (f *failingSheet) DeleteRow(context.Context, int) error { return f.err }

func (f *failingSheet) FindInColumn(context.Context, int, string) (int, bool, error) {
	return 0, false, f.err
}
