package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCommand creates the version command.
func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sheetfdw v%s (%s)\n", version, GitCommit)
		},
	}
}
