package cli

import (
	"github.com/spf13/cobra"
)

// newColumnsCommand creates the columns command.
func newColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "Show the table columns",
		Long:  `Print the configured columns and their types after checking the sheet header can be read.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())
			tbl, err := openTable(cmd.Context(), cfg, newLogger(cmd, cfg))
			if err != nil {
				return err
			}
			renderColumns(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}
