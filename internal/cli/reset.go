package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all projects, tasks and milestones",
	Long: `Delete every project, task and milestone in the account, on the configured
backend. Settings, preferences and the login session are kept.`,
	RunE: runReset,
}

var resetForce bool

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !resetForce && !confirm(cmd.InOrStdin(), out, "Delete ALL projects, tasks and milestones?") {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	fmt.Fprintf(out, "🧹 Clearing %s data...\n", cfg.Backend)
	if err := ws.dash.ResetAccount(context.Background()); err != nil {
		return err
	}
	if err := ws.prefs.SetLastProject(""); err != nil {
		return fmt.Errorf("failed to clear last project: %w", err)
	}
	fmt.Fprintln(out, "All data cleared.")
	return nil
}
