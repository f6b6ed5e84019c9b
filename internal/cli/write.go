package cli

import (
	"errors"
	"fmt"

	"github.com/ideamans/go-sheetfdw"
	"github.com/spf13/cobra"
)

// errNoSuchRow is returned when update or delete finds no row with the id
var errNoSuchRow = errors.New("no such row")

// newInsertCommand creates the insert command.
func newInsertCommand() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "insert --set column=value ...",
		Short: "Append a row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			tbl, err := openTable(ctx, cfg, newLogger(cmd, cfg))
			if err != nil {
				return err
			}
			row, err := parseAssignments(tbl.Columns(), set)
			if err != nil {
				return err
			}
			if len(row) == 0 {
				return fmt.Errorf("nothing to insert\nHint: pass values with --set column=value")
			}

			if _, err := tbl.Insert(ctx, row); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "INSERT 1")
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&set, "set", "s", nil, "Column value as column=value (repeatable)")
	return cmd
}

// newUpdateCommand creates the update command.
func newUpdateCommand() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "update ID --set column=value ...",
		Short: "Change columns of the row with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			tbl, err := openTable(ctx, cfg, newLogger(cmd, cfg))
			if err != nil {
				return err
			}
			id, err := parseID(tbl, args[0])
			if err != nil {
				return err
			}
			row, err := parseAssignments(tbl.Columns(), set)
			if err != nil {
				return err
			}

			_, found, err := tbl.Update(ctx, id, row)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", errNoSuchRow, args[0])
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "UPDATE 1")
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&set, "set", "s", nil, "Column value as column=value (repeatable)")
	return cmd
}

// newDeleteCommand creates the delete command.
func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove the row with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			tbl, err := openTable(ctx, cfg, newLogger(cmd, cfg))
			if err != nil {
				return err
			}
			id, err := parseID(tbl, args[0])
			if err != nil {
				return err
			}

			found, err := tbl.Delete(ctx, id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", errNoSuchRow, args[0])
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "DELETE 1")
			return nil
		},
	}
}

// parseID types the identifier literal like the row id column
func parseID(tbl *sheetfdw.Table, literal string) (interface{}, error) {
	if tbl.RowIDColumn() == "" {
		return nil, fmt.Errorf("no row_id option configured\nHint: set options.row_id in the config file or pass --row-id")
	}
	col, ok := tbl.Columns().Lookup(tbl.RowIDColumn())
	if !ok {
		return literal, nil
	}
	return sheetfdw.ParseHostValue(col.Type, literal)
}
