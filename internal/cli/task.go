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

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks in the current project",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a task to the current project.

Examples:
  launchdeck task add "Write landing page copy" --category Marketing --hours 3
  launchdeck task add "Stripe webhooks" -p high --due 2026-11-20 --sprint 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks of the current project.

Examples:
  launchdeck task list
  launchdeck task list --status doing --sort priority
  launchdeck task list --search stripe`,
	RunE: runTaskList,
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Move a task to another status",
	Long: `Change a task's status. Time spent In Progress is tracked automatically.

Statuses: todo, doing, done, blocked (or the full labels).

Examples:
  launchdeck task status 3f2a doing
  launchdeck task status 3f2a done`,
	Args: cobra.ExactArgs(2),
	RunE: runTaskStatus,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

var (
	taskDescription string
	taskCategory    string
	taskPriority    string
	taskStatus      string
	taskHours       float64
	taskDue         string
	taskSprint      int
	taskTitle       string

	listStatus   string
	listPriority string
	listCategory string
	listSearch   string
	listSort     string

	deleteForce bool
)

func init() {
	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		c.Flags().StringVarP(&taskDescription, "description", "d", "", "Description")
		c.Flags().StringVarP(&taskCategory, "category", "c", "", "Category (Development, Design, Marketing, ...)")
		c.Flags().StringVarP(&taskPriority, "priority", "p", "", "Priority (low, medium, high)")
		c.Flags().StringVarP(&taskStatus, "status", "s", "", "Status (todo, doing, done, blocked)")
		c.Flags().Float64Var(&taskHours, "hours", 0, "Estimated hours")
		c.Flags().StringVar(&taskDue, "due", "", "Due date YYYY-MM-DD")
		c.Flags().IntVar(&taskSprint, "sprint", 0, "Sprint week")
	}
	taskEditCmd.Flags().StringVar(&taskTitle, "title", "", "New title")

	taskListCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status")
	taskListCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority")
	taskListCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	taskListCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Search title, description and category")
	taskListCmd.Flags().StringVar(&listSort, "sort", "due", "Sort by due, priority, created or title")

	taskDeleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
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

	form := service.TaskForm{
		ProjectID:      p.ID,
		Title:          strings.Join(args, " "),
		Description:    taskDescription,
		Category:       taskCategory,
		EstimatedHours: taskHours,
		SprintWeek:     taskSprint,
	}
	if taskPriority != "" {
		if form.Priority, err = model.ParsePriority(taskPriority); err != nil {
			return err
		}
	}
	if taskStatus != "" {
		if form.Status, err = model.ParseStatus(taskStatus); err != nil {
			return err
		}
	}
	if taskDue != "" {
		due, err := parseDay(taskDue)
		if err != nil {
			return err
		}
		form.DueDate = &due
	}

	t, err := ws.dash.CreateTask(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added to [%s]: %q (%s, %s) id %s\n", p.Name, t.Title, t.Priority, t.Status, shortID(t.ID))
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	data, err := ws.loadCurrent(context.Background())
	if err != nil {
		return err
	}

	filter := insights.Filter{Search: listSearch, Category: listCategory}
	if listStatus != "" {
		s, err := model.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		filter.Status = string(s)
	}
	if listPriority != "" {
		p, err := model.ParsePriority(listPriority)
		if err != nil {
			return err
		}
		filter.Priority = string(p)
	}

	out := cmd.OutOrStdout()
	tasks := insights.SortTasks(insights.FilterTasks(data.Tasks, filter), insights.SortKey(listSort))
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found. Add one with: launchdeck task add \"Your task\"")
		return nil
	}

	pending := 0
	for _, t := range tasks {
		if t.IsActive() {
			pending++
		}
	}
	fmt.Fprintf(out, "\n📁 %s (%d pending)\n", data.Project.Name, pending)
	printTasks(out, tasks, ws.dash.Now())
	fmt.Fprintln(out)
	return nil
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	status, err := model.ParseStatus(args[1])
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
	t, err := findTask(data.Tasks, args[0])
	if err != nil {
		return err
	}

	updated, err := ws.dash.ChangeTaskStatus(ctx, t, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %q: %s → %s (%.1fh tracked)\n",
		statusIcon(updated.Status), updated.Title, t.Status, updated.Status, updated.ActualHours)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
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
	t, err := findTask(data.Tasks, args[0])
	if err != nil {
		return err
	}

	var patch model.TaskPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &taskTitle
	}
	if flags.Changed("description") {
		patch.Description = &taskDescription
	}
	if flags.Changed("category") {
		patch.Category = &taskCategory
	}
	if flags.Changed("priority") {
		p, err := model.ParsePriority(taskPriority)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if flags.Changed("status") {
		s, err := model.ParseStatus(taskStatus)
		if err != nil {
			return err
		}
		patch.Status = &s
	}
	if flags.Changed("hours") {
		patch.EstimatedHours = &taskHours
	}
	if flags.Changed("due") {
		due, err := parseDay(taskDue)
		if err != nil {
			return err
		}
		patch.DueDate = &due
	}
	if flags.Changed("sprint") {
		patch.SprintWeek = &taskSprint
	}

	updated, err := ws.dash.UpdateTask(ctx, t, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated: %q\n", updated.Title)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
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
	t, err := findTask(data.Tasks, args[0])
	if err != nil {
		return err
	}

	if cfg.ConfirmDelete && !deleteForce {
		fmt.Fprintf(cmd.OutOrStdout(), "About to delete: %q (ID: %s)\n", t.Title, t.ID)
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if err := ws.dash.DeleteTask(ctx, t.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted: %q\n", t.Title)
	return nil
}
