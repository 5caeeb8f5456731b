package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/service"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/store"
)

var cleanupConfigCmd = &cobra.Command{
	Use:   "cleanup-config",
	Short: "Remove duplicate site configuration rows",
	Long: `Delete every site configuration row except the most recently updated one.

Examples:
  lobianco cleanup-config`,
	RunE: runCleanupConfig,
}

func runCleanupConfig(cmd *cobra.Command, args []string) error {
	svc := service.NewConfigService(store.NewSiteConfigStore(database), logger)

	res, err := svc.Cleanup(cmd.Context())
	if err != nil {
		return fmt.Errorf("cleanup config: %w", err)
	}

	out := cmd.OutOrStdout()
	switch {
	case res.Kept == nil:
		fmt.Fprintln(out, "No site configuration stored.")
	case res.Removed == 0:
		fmt.Fprintf(out, "No duplicates found. Active config: %s\n", res.Kept.ID)
	default:
		fmt.Fprintf(out, "Removed %d duplicate(s). Kept config %s (updated %s)\n",
			res.Removed, res.Kept.ID, res.Kept.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
