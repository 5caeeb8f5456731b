// Package cli provides the command-line interface for the Lobianco backend.
package cli

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/config"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/db"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/logging"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	cfg      *config.Config
	logger   *slog.Logger
	database *sql.DB

	closeLog = func() {}
)

// rootCmd runs the HTTP server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "lobianco",
	Short: "Lobianco Investimentos site backend",
	Long: `Backend for the Lobianco Investimentos real-estate site: listings with
photos, the site configuration, and the visitor chat assistant.

Configuration is read from the environment and an optional .env file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger, closeLog, err = logging.New(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		database, err = db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		return nil
	},
	RunE: runServe,
}

// Execute adds all child commands to the root command and runs it.
// Resources opened by PersistentPreRunE are released even when the command
// fails.
func Execute() error {
	defer release()
	return rootCmd.Execute()
}

// release closes the database and the log file, if open.
func release() {
	if database != nil {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
		database = nil
	}
	closeLog()
	closeLog = func() {}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cleanupConfigCmd)
	rootCmd.AddCommand(versionCmd)
}
