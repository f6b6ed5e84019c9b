package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ideamans/go-sheetfdw"
	"github.com/ideamans/go-sheetfdw/adapters/excel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupProject writes a workbook and a config file and returns the config path.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	book, err := excel.Create(&excel.Config{FilePath: filepath.Join(dir, "stock.xlsx"), SheetName: "Stock"},
		"id", "name", "qty", "price", "total")
	require.NoError(t, err)

	ctx := context.Background()
	for _, r := range [][]interface{}{
		{"A", "apple", 3, 1.5, "=C2*D2"},
		{"B", "banana", 5, "n/a", "=C3*D3"},
		{"C", "cherry", 1, 4.0, "=C4*D4"},
	} {
		require.NoError(t, book.AppendRow(ctx, r, sheetfdw.InputUserEntered))
	}

	cfg := `backend: excel
excel:
  file: stock.xlsx
  sheet: Stock
options:
  row_id: id
  formula_columns: total
columns:
  - {name: id, type: text}
  - {name: name, type: text}
  - {name: qty, type: integer}
  - {name: price, type: float}
`
	path := filepath.Join(dir, "sheetfdw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestScanCommand(t *testing.T) {
	cfg := setupProject(t)

	out, errOut, err := run(t, "--config", cfg, "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "apple")
	assert.Contains(t, out, "banana")
	assert.Contains(t, out, "NULL", "malformed price is shown as null")
	assert.Contains(t, out, "(3 rows)")
	assert.Contains(t, errOut, "invalid value")

	out, _, err = run(t, "--config", cfg, "scan", "name", "--where", "qty>=3", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "name\napple\nbanana\n", out)

	out, _, err = run(t, "--config", cfg, "scan", "--where", "qty>100")
	require.NoError(t, err)
	assert.Equal(t, "(0 rows)\n", out)

	_, _, err = run(t, "--config", cfg, "scan", "--where", "color=red")
	assert.ErrorContains(t, err, "unknown column")
}

func TestInsertUpdateDeleteCommands(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := run(t, "--config", cfg, "insert", "--set", "id=D", "--set", "name=date", "--set", "qty=2")
	require.NoError(t, err)
	assert.Equal(t, "INSERT 1\n", out)

	out, _, err = run(t, "--config", cfg, "update", "B", "--set", "price=0.25", "--set", "qty=NULL")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE 1\n", out)

	out, _, err = run(t, "--config", cfg, "delete", "A")
	require.NoError(t, err)
	assert.Equal(t, "DELETE 1\n", out)

	out, _, err = run(t, "--config", cfg, "scan", "id", "qty", "price", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "id,qty,price\nB,,0.25\nC,1,4\nD,2,\n", out)

	_, _, err = run(t, "--config", cfg, "delete", "A")
	assert.True(t, errors.Is(err, errNoSuchRow), "got %v", err)

	_, _, err = run(t, "--config", cfg, "update", "Z", "--set", "qty=1")
	assert.ErrorIs(t, err, errNoSuchRow)

	_, _, err = run(t, "--config", cfg, "insert")
	assert.ErrorContains(t, err, "nothing to insert")

	_, _, err = run(t, "--config", cfg, "insert", "--set", "qty=many")
	assert.ErrorContains(t, err, `column "qty"`)
}

func TestRowIDFlagOverride(t *testing.T) {
	cfg := setupProject(t)

	// rows are keyed by name instead of id
	_, _, err := run(t, "--config", cfg, "--row-id", "name", "delete", "cherry")
	require.NoError(t, err)

	out, _, err := run(t, "--config", cfg, "scan", "id", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "id\nA\nB\n", out)
}

func TestColumnsCommand(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := run(t, "--config", cfg, "columns")
	require.NoError(t, err)
	for _, want := range []string{"id", "name", "qty", "integer", "price", "float", "yes"} {
		assert.Contains(t, out, want)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("sheetfdw v%s (%s)\n", Version, GitCommit), out)
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheetfdw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: excel\nexcel: {file: x.xlsx}\n"), 0644))

	_, _, err := run(t, "--config", path, "scan")
	assert.ErrorContains(t, err, "no columns configured")

	require.NoError(t, os.WriteFile(path, []byte("backend: ftp\ncolumns: [{name: id, type: text}]\n"), 0644))
	_, _, err = run(t, "--config", path, "scan")
	assert.ErrorContains(t, err, "unknown backend")

	require.NoError(t, os.WriteFile(path, []byte("backend: excel\nexcel: {file: missing.xlsx}\ncolumns: [{name: id, type: text}]\n"), 0644))
	_, _, err = run(t, "--config", path, "scan")
	assert.ErrorIs(t, err, excel.ErrFileNotFound)
}

func TestParseCondition(t *testing.T) {
	cols, err := sheetfdw.NewColumns(
		sheetfdw.ColumnDefinition{Name: "qty", Type: sheetfdw.TypeInteger},
		sheetfdw.ColumnDefinition{Name: "name", Type: sheetfdw.TypeString},
	)
	require.NoError(t, err)

	tests := []struct {
		expr    string
		want    sheetfdw.Qual
		wantErr bool
	}{
		{expr: "qty>=3", want: sheetfdw.Qual{Column: "qty", Operator: ">=", Value: int64(3)}},
		{expr: "qty <> 2", want: sheetfdw.Qual{Column: "qty", Operator: "<>", Value: int64(2)}},
		{expr: "qty<1", want: sheetfdw.Qual{Column: "qty", Operator: "<", Value: int64(1)}},
		{expr: "name=a=b", want: sheetfdw.Qual{Column: "name", Operator: "=", Value: "a=b"}},
		{expr: "name!=", want: sheetfdw.Qual{Column: "name", Operator: "!=", Value: nil}},
		{expr: "=x", wantErr: true},
		{expr: "qty", wantErr: true},
		{expr: "qty=x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := parseCondition(cols, tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	row, err := parseAssignments(cols, []string{"qty=4", "name=x = y"})
	require.NoError(t, err)
	assert.Equal(t, sheetfdw.Row{"qty": int64(4), "name": "x = y"}, row)

	_, err = parseAssignments(cols, []string{"novalue"})
	assert.True(t, strings.Contains(err.Error(), "invalid assignment"))
}
