// Package cli provides the sheetfdw command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ideamans/go-sheetfdw/internal/cli/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "sheetfdw",
		Short: "Query and edit a spreadsheet as a relational table",
		Long: `sheetfdw exposes one worksheet of a Google spreadsheet or a local
workbook as a table with typed columns. Row 1 holds the column names.

Columns, table options and the backend are read from sheetfdw.yaml,
SHEETFDW_ environment variables and flags.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help, version and completion commands
			switch cmd.Name() {
			case "help", "version", "completion", "__complete":
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Verbose && cfg.File != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", cfg.File)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sheetfdw.yaml)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.BackendSheets, config.BackendExcel}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCommand(Version))
	rootCmd.AddCommand(newColumnsCommand())
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newInsertCommand())
	rootCmd.AddCommand(newUpdateCommand())
	rootCmd.AddCommand(newDeleteCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getConfig retrieves the config from the command context.
func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{Backend: config.DefaultBackend}
}

// newLogger writes table warnings to stderr; debug records only with --verbose.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
