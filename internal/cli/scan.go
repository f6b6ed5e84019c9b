package cli

import (
	"github.com/ideamans/go-sheetfdw"
	"github.com/spf13/cobra"
)

// newScanCommand creates the scan command.
func newScanCommand() *cobra.Command {
	var (
		where  []string
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "scan [column...]",
		Short: "Print the rows of the table",
		Long: `Fetch the whole sheet and print its rows.

Conditions given with --where are checked on each row after it is read:
  sheetfdw scan id name --where "qty>=3" --where status=open`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			tbl, err := openTable(ctx, cfg, newLogger(cmd, cfg))
			if err != nil {
				return err
			}
			quals, err := parseWhere(tbl.Columns(), where)
			if err != nil {
				return err
			}

			columns := args
			if len(columns) == 0 {
				columns = tbl.Columns().Names()
			}
			// fetch the qual columns too, then drop them when rendering
			fetch := append([]string(nil), columns...)
			for _, q := range quals {
				fetch = append(fetch, q.Column)
			}

			var rows []sheetfdw.Row
			for row, err := range tbl.Scan(ctx, quals, fetch) {
				if err != nil {
					return err
				}
				if !sheetfdw.MatchesAll(row, quals) {
					continue
				}
				rows = append(rows, row)
				if limit > 0 && len(rows) >= limit {
					break
				}
			}
			return renderRows(cmd.OutOrStdout(), columns, rows, format)
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Condition column<op>value; op is one of = != <> > >= < <= (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table|csv|markdown)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many matching rows (0 for all)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{formatTable, formatCSV, formatMarkdown}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
