package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ideamans/go-sheetfdw"
	"github.com/ideamans/go-sheetfdw/adapters/excel"
)

func main() {
	ctx := context.Background()

	// Create the workbook with its header row if it does not exist yet
	sheet, err := excel.Create(&excel.Config{
		FilePath:  "./example_data.xlsx",
		SheetName: "orders",
	}, "id", "item", "qty", "price", "ordered", "total")
	if err != nil {
		log.Fatalf("Failed to open workbook: %v", err)
	}

	columns, err := sheetfdw.NewColumns(
		sheetfdw.ColumnDefinition{Name: "id", Type: sheetfdw.TypeInteger},
		sheetfdw.ColumnDefinition{Name: "item", Type: sheetfdw.TypeString},
		sheetfdw.ColumnDefinition{Name: "qty", Type: sheetfdw.TypeInteger},
		sheetfdw.ColumnDefinition{Name: "price", Type: sheetfdw.TypeFloat},
		sheetfdw.ColumnDefinition{Name: "ordered", Type: sheetfdw.TypeDate},
		sheetfdw.ColumnDefinition{Name: "total", Type: sheetfdw.TypeFloat},
	)
	if err != nil {
		log.Fatal(err)
	}

	opts := sheetfdw.DefaultOptions()
	opts.RowIDColumn = "id"
	opts.FormulaColumns = []string{"total"}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	table, err := sheetfdw.NewTable(ctx, sheet, columns, opts, logger)
	if err != nil {
		log.Fatal(err)
	}

	// 1. Insert orders; total is left to the workbook
	fmt.Println("Inserting orders...")
	today := time.Now()
	for i, item := range []string{"pencil", "notebook", "eraser"} {
		_, err := table.Insert(ctx, sheetfdw.Row{
			"id":      int64(i + 1),
			"item":    item,
			"qty":     int64(10 * (i + 1)),
			"price":   0.5 + float64(i),
			"ordered": today,
		})
		if err != nil {
			log.Fatalf("Failed to insert %s: %v", item, err)
		}
	}

	// 2. Update one order
	if _, found, err := table.Update(ctx, int64(2), sheetfdw.Row{"qty": int64(5)}); err != nil {
		log.Fatalf("Failed to update: %v", err)
	} else {
		fmt.Printf("Updated order 2: %v\n", found)
	}

	// 3. Delete one order
	if found, err := table.Delete(ctx, int64(3)); err != nil {
		log.Fatalf("Failed to delete: %v", err)
	} else {
		fmt.Printf("Deleted order 3: %v\n", found)
	}

	// 4. List what is left
	fmt.Println("Orders:")
	for row, err := range table.Scan(ctx, nil, nil) {
		if err != nil {
			log.Fatalf("Failed to scan: %v", err)
		}
		fmt.Printf("  #%d %-10s qty=%-3d price=%.2f ordered=%s\n",
			row.GetAsInt64("id", 0),
			row.GetAsString("item", ""),
			row.GetAsInt64("qty", 0),
			row.GetAsFloat64("price", 0),
			row.GetAsTime("ordered", time.Time{}).Format(time.DateOnly),
		)
	}
}
