package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/service"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Change or delete several tasks at once",
	Long: `Apply one change to several tasks. Every task is attempted; failures are
reported without undoing the ones that succeeded.

Examples:
  launchdeck bulk status done 3f2a 9c1e 77b0
  launchdeck bulk priority high 3f2a 9c1e
  launchdeck bulk delete 3f2a 9c1e --force`,
}

var bulkStatusCmd = &cobra.Command{
	Use:   "status [status] [task-id...]",
	Short: "Set the status of several tasks",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runBulkStatus,
}

var bulkPriorityCmd = &cobra.Command{
	Use:   "priority [priority] [task-id...]",
	Short: "Set the priority of several tasks",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runBulkPriority,
}

var bulkDeleteCmd = &cobra.Command{
	Use:   "delete [task-id...]",
	Short: "Delete several tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBulkDelete,
}

var bulkForce bool

func init() {
	bulkDeleteCmd.Flags().BoolVarP(&bulkForce, "force", "f", false, "Do not ask for confirmation")

	bulkCmd.AddCommand(bulkStatusCmd)
	bulkCmd.AddCommand(bulkPriorityCmd)
	bulkCmd.AddCommand(bulkDeleteCmd)
}

// bulkTargets resolves task refs in the current project
func bulkTargets(ctx context.Context, ws *workspace, refs []string) ([]model.Task, error) {
	data, err := ws.loadCurrent(ctx)
	if err != nil {
		return nil, err
	}
	return findTasks(data.Tasks, refs)
}

func reportBulk(w io.Writer, verb string, done, total int, err error) error {
	fmt.Fprintf(w, "✓ %s %d of %d tasks\n", verb, done, total)
	return err
}

func runBulkStatus(cmd *cobra.Command, args []string) error {
	status, err := model.ParseStatus(args[0])
	if err != nil {
		return err
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	tasks, err := bulkTargets(ctx, ws, args[1:])
	if err != nil {
		return err
	}
	res, err := ws.dash.BulkUpdateStatus(ctx, tasks, status)
	return reportBulk(cmd.OutOrStdout(), "Updated", len(res.Updated), len(tasks), err)
}

func runBulkPriority(cmd *cobra.Command, args []string) error {
	priority, err := model.ParsePriority(args[0])
	if err != nil {
		return err
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	tasks, err := bulkTargets(ctx, ws, args[1:])
	if err != nil {
		return err
	}
	res, err := ws.dash.BulkUpdatePriority(ctx, tasks, priority)
	return reportBulk(cmd.OutOrStdout(), "Updated", len(res.Updated), len(tasks), err)
}

func runBulkDelete(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	tasks, err := bulkTargets(ctx, ws, args)
	if err != nil {
		return err
	}
	if cfg.ConfirmDelete && !bulkForce {
		q := fmt.Sprintf("Delete %d tasks?", len(tasks))
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), q) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	var res service.BulkResult
	res, err = ws.dash.BulkDelete(ctx, ids)
	return reportBulk(cmd.OutOrStdout(), "Deleted", len(res.Deleted), len(tasks), err)
}
