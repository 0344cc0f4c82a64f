package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/service"
	"github.com/existflow/launchdeck/internal/template"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current project",
	Long: `Export tasks, milestones or the complete project as JSON or CSV, or save the
project as a reusable template with dates relative to its start.

Examples:
  launchdeck export --kind tasks --format csv
  launchdeck export --kind complete
  launchdeck export --template --out ~/templates`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a project template",
	Long: `Import a template file. Dates are laid out from today.

Modes:
  new-project      create a new project from the template (default)
  replace-current  clear the current project's tasks and milestones and refill it

Examples:
  launchdeck import saas-mvp.json
  launchdeck import saas-mvp.json --mode replace-current --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	exportKind     string
	exportFormat   string
	exportTemplate bool
	exportOut      string

	importMode string
	importYes  bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportKind, "kind", "k", string(template.KindComplete), "What to export: tasks, milestones, complete, template")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(template.FormatJSON), "File format: json or csv")
	exportCmd.Flags().BoolVarP(&exportTemplate, "template", "t", false, "Export as a reusable template (same as --kind template)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "Directory to write the file to")

	importCmd.Flags().StringVarP(&importMode, "mode", "m", string(service.ImportNewProject), "new-project or replace-current")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Import without confirmation")
}

func runExport(cmd *cobra.Command, args []string) error {
	kind, err := template.ParseKind(exportKind)
	if err != nil {
		return err
	}
	if exportTemplate {
		kind = template.KindTemplate
	}
	format, err := template.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	data, err := ws.loadCurrent(context.Background())
	if err != nil {
		return err
	}
	file, err := ws.dash.Export(data, kind, format, cfg.Author)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(exportOut, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(exportOut, file.Name)
	if err := os.WriteFile(path, file.Data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s to %s\n", kind, path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	mode, err := service.ParseImportMode(importMode)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	tpl, err := template.Parse(raw, today(ws.dash.Now()))
	if err != nil {
		return err
	}

	var current *model.Project
	if p, err := ws.currentProject(ctx); err == nil {
		current = &p
	}
	if !modeAvailable(mode, current) {
		return service.ErrModeUnavailable
	}

	out := cmd.OutOrStdout()
	printPreview(out, template.Preview(tpl))
	if mode == service.ImportReplaceCurrent {
		fmt.Fprintf(out, "\n⚠️  This replaces every task and milestone in %q.\n", current.Name)
	}
	if !importYes && !confirm(cmd.InOrStdin(), out, "Import this template?") {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	res, err := ws.dash.ImportTemplate(ctx, tpl, mode, current)
	if res.Project.ID != "" {
		if perr := ws.prefs.SetLastProject(res.Project.ID); perr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to remember project: %v\n", perr)
		}
	}
	if res.TasksRemoved+res.MilestonesRemoved > 0 {
		fmt.Fprintf(out, "🧹 Removed %d tasks and %d milestones\n", res.TasksRemoved, res.MilestonesRemoved)
	}
	fmt.Fprintf(out, "✓ Imported into %q: %d milestones, %d tasks\n", res.Project.Name, res.MilestonesCreated, res.TasksCreated)
	return err
}

func modeAvailable(mode service.ImportMode, current *model.Project) bool {
	for _, m := range service.AvailableModes(current) {
		if m == mode {
			return true
		}
	}
	return false
}

func printPreview(w io.Writer, o template.Overview) {
	fmt.Fprintf(w, "\n📦 %s  (v%s by %s)\n", o.Metadata.Name, o.Version, o.Metadata.Author)
	if o.Metadata.Description != "" {
		fmt.Fprintf(w, "   %s\n", o.Metadata.Description)
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  Project     %s, %s → %s (%d sprints)\n", o.Project.Name,
		o.Project.StartDate.Format(model.DateLayout), o.Project.TargetLaunchDate.Format(model.DateLayout), o.Project.TotalSprints)
	fmt.Fprintf(w, "  Milestones  %d\n", o.MilestoneCount)
	for _, m := range o.Milestones {
		fmt.Fprintf(w, "    • %s (%s)\n", m.Title, m.TargetDate.Format(model.DateLayout))
	}
	if more := o.MilestoneCount - len(o.Milestones); more > 0 {
		fmt.Fprintf(w, "    … and %d more\n", more)
	}
	fmt.Fprintf(w, "  Tasks       %d\n", o.TaskCount)
	for _, t := range o.Tasks {
		fmt.Fprintf(w, "    • %s [%s, %s]\n", t.Title, t.Category, t.Priority)
	}
	if more := o.TaskCount - len(o.Tasks); more > 0 {
		fmt.Fprintf(w, "    … and %d more\n", more)
	}
}
