package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/launchdeck/internal/service"
)

var milestoneCmd = &cobra.Command{
	Use:     "milestone",
	Aliases: []string{"ms"},
	Short:   "Manage milestones in the current project",
	Long: `Milestones track progress from the tasks due within a week of their target date.`,
}

var milestoneAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a milestone",
	Long: `Add a milestone. Progress is derived from tasks due within 7 days of the target.

Examples:
  launchdeck milestone add "Private beta" --target 2026-11-15`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMilestoneAdd,
}

var milestoneListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List milestones",
	RunE:    runMilestoneList,
}

var milestoneSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Recalculate milestone progress from tasks",
	RunE:  runMilestoneSync,
}

var (
	milestoneTarget      string
	milestoneDescription string
)

func init() {
	milestoneAddCmd.Flags().StringVar(&milestoneTarget, "target", "", "Target date YYYY-MM-DD")
	milestoneAddCmd.Flags().StringVarP(&milestoneDescription, "description", "d", "", "Description")
	_ = milestoneAddCmd.MarkFlagRequired("target")

	milestoneCmd.AddCommand(milestoneAddCmd)
	milestoneCmd.AddCommand(milestoneListCmd)
	milestoneCmd.AddCommand(milestoneSyncCmd)
}

func runMilestoneAdd(cmd *cobra.Command, args []string) error {
	target, err := parseDay(milestoneTarget)
	if err != nil {
		return err
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	data, err := ws.loadCurrent(ctx)
	if err != nil {
		return err
	}

	m, err := ws.dash.CreateMilestone(ctx, service.MilestoneForm{
		ProjectID:   data.Project.ID,
		Title:       strings.Join(args, " "),
		Description: milestoneDescription,
		TargetDate:  target,
	}, data.Tasks)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added milestone %q for %s (%d%%, %s)\n",
		m.Title, milestoneTarget, m.Progress, m.Status)
	return nil
}

func runMilestoneList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	data, err := ws.loadCurrent(context.Background())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(data.Milestones) == 0 {
		fmt.Fprintln(out, "No milestones yet. Add one with: launchdeck milestone add \"Beta\" --target YYYY-MM-DD")
		return nil
	}
	fmt.Fprintf(out, "\n🏁 %s\n", data.Project.Name)
	printMilestones(out, data.Milestones)
	fmt.Fprintln(out)
	return nil
}

func runMilestoneSync(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	data, err := ws.loadCurrent(ctx)
	if err != nil {
		return err
	}
	ms, err := ws.dash.RecalculateMilestones(ctx, data)
	if err != nil {
		return err
	}
	printMilestones(cmd.OutOrStdout(), ms)
	return nil
}
