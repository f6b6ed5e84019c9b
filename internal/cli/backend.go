package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ideamans/go-sheetfdw"
	"github.com/ideamans/go-sheetfdw/adapters/excel"
	"github.com/ideamans/go-sheetfdw/adapters/googlesheets"
	"github.com/ideamans/go-sheetfdw/internal/cli/config"
)

// openSheet creates the configured backend
func openSheet(ctx context.Context, cfg *config.Config, opts sheetfdw.Options) (sheetfdw.Sheet, error) {
	switch cfg.Backend {
	case config.BackendSheets:
		s, err := googlesheets.NewFromOptions(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
		}
		return s, nil
	case config.BackendExcel:
		s, err := excel.New(&excel.Config{FilePath: cfg.Excel.File, SheetName: cfg.Excel.Sheet})
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// openTable builds the table for the configured backend and columns
func openTable(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sheetfdw.Table, error) {
	columns, err := cfg.TableColumns()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.TableOptions()
	if err != nil {
		return nil, err
	}

	sheet, err := openSheet(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	return sheetfdw.NewTable(ctx, sheet, columns, opts, logger)
}
