package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/launchdeck/internal/insights"
	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/service"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Create, list, switch and update launch projects.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new project",
	Long: `Create a new project. Sprints are one week each, counted from start to target launch.

Examples:
  launchdeck project new "Invoice SaaS" --target 2026-12-01
  launchdeck project new "Game jam" --start 2026-11-01 --weeks 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProjectNew,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all projects",
	RunE:    runProjectList,
}

var projectUseCmd = &cobra.Command{
	Use:   "use [project]",
	Short: "Switch the current project",
	Long: `Set the project that commands and the dashboard open by default.

Examples:
  launchdeck project use 3f2a
  launchdeck project use "Invoice SaaS"`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectUse,
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the current project",
	RunE:  runProjectUpdate,
}

var (
	projectDescription string
	projectStart       string
	projectTarget      string
	projectWeeks       int
	projectName        string
	projectSprint      int
)

func init() {
	projectNewCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
	projectNewCmd.Flags().StringVar(&projectStart, "start", "", "Start date YYYY-MM-DD (default today)")
	projectNewCmd.Flags().StringVar(&projectTarget, "target", "", "Target launch date YYYY-MM-DD")
	projectNewCmd.Flags().IntVar(&projectWeeks, "weeks", 12, "Weeks until launch when --target is not set")

	projectUpdateCmd.Flags().StringVar(&projectName, "name", "", "New name")
	projectUpdateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "New description")
	projectUpdateCmd.Flags().StringVar(&projectStart, "start", "", "New start date YYYY-MM-DD")
	projectUpdateCmd.Flags().StringVar(&projectTarget, "target", "", "New target launch date YYYY-MM-DD")
	projectUpdateCmd.Flags().IntVar(&projectSprint, "sprint", 0, "Current sprint")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectUseCmd)
	projectCmd.AddCommand(projectUpdateCmd)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	form := service.ProjectForm{
		Name:        strings.Join(args, " "),
		Description: projectDescription,
		StartDate:   today(ws.dash.Now()),
	}
	if projectStart != "" {
		if form.StartDate, err = parseDay(projectStart); err != nil {
			return err
		}
	}
	form.TargetLaunchDate = form.StartDate.AddDate(0, 0, 7*projectWeeks)
	if projectTarget != "" {
		if form.TargetLaunchDate, err = parseDay(projectTarget); err != nil {
			return err
		}
	}

	p, err := ws.dash.CreateProject(context.Background(), form)
	if err != nil {
		return err
	}
	if err := ws.prefs.SetLastProject(p.ID); err != nil {
		return fmt.Errorf("failed to remember project: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created project: %s (id: %s, %d sprints)\n", p.Name, shortID(p.ID), p.TotalSprints)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	projects, err := ws.dash.LoadProjects(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found. Create one with: launchdeck project new \"My launch\"")
		return nil
	}

	current, _ := ws.prefs.PickProject(projects)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-8s  %-28s  %-10s  %-8s  %s\n", "ID", "Name", "Launch", "Sprint", "Done")
	fmt.Fprintln(out, strings.Repeat("─", 70))
	for _, p := range projects {
		data, err := ws.dash.LoadProject(ctx, p)
		if err != nil {
			return err
		}
		sum := insights.Summarize(data.Tasks)
		marker := "  "
		if p.ID == current.ID {
			marker = "❯ "
		}
		fmt.Fprintf(out, "%s%-8s  %-28s  %-10s  %d/%-6d  %d/%d\n", marker, shortID(p.ID), truncate(p.Name, 28),
			p.TargetLaunchDate.Format(model.DateLayout), p.CurrentSprint, p.TotalSprints, sum.CompletedTasks, sum.TotalTasks)
	}
	fmt.Fprintln(out)
	return nil
}

func runProjectUse(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	projects, err := ws.dash.LoadProjects(context.Background())
	if err != nil {
		return err
	}
	p, err := findProject(projects, args[0])
	if err != nil {
		return err
	}
	if err := ws.prefs.SetLastProject(p.ID); err != nil {
		return fmt.Errorf("failed to set project: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📁 Switched to: %s\n", p.Name)
	return nil
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	p, err := ws.currentProject(ctx)
	if err != nil {
		return err
	}

	var patch model.ProjectPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		patch.Name = &projectName
	}
	if flags.Changed("description") {
		patch.Description = &projectDescription
	}
	if flags.Changed("start") {
		start, err := parseDay(projectStart)
		if err != nil {
			return err
		}
		patch.StartDate = &start
	}
	if flags.Changed("target") {
		target, err := parseDay(projectTarget)
		if err != nil {
			return err
		}
		patch.TargetLaunchDate = &target
	}
	if flags.Changed("sprint") {
		patch.CurrentSprint = &projectSprint
	}
	if patch.StartDate != nil || patch.TargetLaunchDate != nil {
		start, target := p.StartDate, p.TargetLaunchDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.TargetLaunchDate != nil {
			target = *patch.TargetLaunchDate
		}
		sprints := model.WeeksBetween(start, target)
		patch.TotalSprints = &sprints
	}

	updated, err := ws.dash.UpdateProject(ctx, p.ID, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated project: %s\n", updated.Name)
	return nil
}
