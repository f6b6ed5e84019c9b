package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ideamans/go-sheetfdw"
	"github.com/ideamans/go-sheetfdw/adapters/googlesheets"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Table options as they would appear on a foreign table
	opts, err := sheetfdw.ParseOptions(map[string]string{
		"gskey":   "your-spreadsheet-id",
		"sheet":   "0",
		"row_id":  "id",
		"keyfile": "./service-account.json",
	})
	if err != nil {
		return err
	}

	sheet, err := googlesheets.NewFromOptions(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}

	// Row 1 of the worksheet must hold: id, name, age, joined
	columns, err := sheetfdw.NewColumns(
		sheetfdw.ColumnDefinition{Name: "id", Type: sheetfdw.TypeUUID},
		sheetfdw.ColumnDefinition{Name: "name", Type: sheetfdw.TypeString},
		sheetfdw.ColumnDefinition{Name: "age", Type: sheetfdw.TypeInteger},
		sheetfdw.ColumnDefinition{Name: "joined", Type: sheetfdw.TypeDate},
	)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	table, err := sheetfdw.NewTable(ctx, sheet, columns, opts, logger)
	if err != nil {
		return err
	}

	// Insert a row
	id := uuid.New()
	_, err = table.Insert(ctx, sheetfdw.Row{
		"id":     id,
		"name":   "John Doe",
		"age":    int64(30),
		"joined": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}
	fmt.Printf("Inserted %s\n", id)

	// Scan, filtering on the host side
	quals := []sheetfdw.Qual{
		{Column: "age", Operator: ">=", Value: int64(25)},
		{Column: "age", Operator: "<=", Value: int64(35)},
	}
	fmt.Println("Users aged 25-35:")
	for row, err := range table.Scan(ctx, quals, []string{"name", "age"}) {
		if err != nil {
			return fmt.Errorf("failed to scan: %w", err)
		}
		if !sheetfdw.MatchesAll(row, quals) {
			continue
		}
		fmt.Printf("  %s (age: %d)\n", row.GetAsString("name", "Unknown"), row.GetAsInt64("age", 0))
	}

	// Update by row id
	if _, found, err := table.Update(ctx, id, sheetfdw.Row{"age": int64(31)}); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	} else if !found {
		fmt.Println("Row disappeared before update")
	}

	// Delete by row id
	found, err := table.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	fmt.Printf("Deleted: %v\n", found)
	return nil
}
