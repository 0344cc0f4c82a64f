package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/launchdeck/internal/insights"
	"github.com/existflow/launchdeck/internal/model"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Show what to work on next",
	RunE:  runFocus,
}

var winsCmd = &cobra.Command{
	Use:   "wins",
	Short: "Show recent wins",
	RunE:  runWins,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show project analytics",
	RunE:  runStats,
}

func runFocus(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	data, err := ws.loadCurrent(context.Background())
	if err != nil {
		return err
	}
	sum := insights.Summarize(data.Tasks)
	area := insights.RecommendFocus(data.Tasks, data.Milestones, sum.TotalHours, ws.dash.Now())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n🎯 %s\n", area.Headline)
	for _, a := range area.Actions {
		fmt.Fprintf(out, "   • %s\n", a)
	}
	if area.UrgentCount > 0 {
		fmt.Fprintf(out, "\n   %d urgent items\n", area.UrgentCount)
	}
	fmt.Fprintln(out)
	return nil
}

func runWins(cmd *cobra.Command, args []string) error {
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
	wins := insights.RecentWins(data.Tasks, data.Milestones, ws.dash.Now())
	if len(wins) == 0 {
		fmt.Fprintln(out, "No wins yet this week. Finish a task to get one!")
		return nil
	}
	fmt.Fprintln(out)
	for _, w := range wins {
		fmt.Fprintf(out, "  %s %s\n     %s\n", w.Icon, w.Title, w.Description)
	}
	fmt.Fprintln(out)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
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
	sum := insights.Summarize(data.Tasks)

	fmt.Fprintf(out, "\n📊 %s  (sprint %d of %d, launch %s)\n", data.Project.Name,
		data.Project.CurrentSprint, data.Project.TotalSprints, data.Project.TargetLaunchDate.Format(model.DateLayout))
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "  Tasks      %d/%d completed (%d%%)\n", sum.CompletedTasks, sum.TotalTasks, sum.CompletionPercent)
	fmt.Fprintf(out, "  Hours      %.1f of %.1f estimated (%d%%)\n", sum.CompletedHours, sum.TotalHours, sum.TimeProgressPercent)

	counts := insights.StatusCounts(data.Tasks)
	fmt.Fprint(out, "  Status    ")
	for _, s := range model.TaskStatuses {
		fmt.Fprintf(out, " %s %d ", s, counts[s])
	}
	fmt.Fprintln(out)

	if cats := insights.CategoryBreakdown(data.Tasks); len(cats) > 0 {
		fmt.Fprintln(out, "\n  Category        Done   Est.h  Act.h")
		for _, c := range cats {
			fmt.Fprintf(out, "  %-14s  %2d/%-2d  %5.1f  %5.1f  %s\n", c.Category, c.Completed, c.Total,
				c.EstimatedHours, c.ActualHours, bar(insights.WidthPercent(float64(c.Completed), float64(c.Total)), 20))
		}
	}
	fmt.Fprintln(out)
	return nil
}

// bar renders a percentage as a fixed-width block bar
func bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
