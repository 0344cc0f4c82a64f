package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/existflow/launchdeck/internal/config"
	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	configDir  string
	projectRef string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "launchdeck",
	Short: "launchdeck - launch planning dashboard for solo founders",
	Long: `launchdeck tracks projects, tasks and milestones on the way to a launch date.

Run 'launchdeck' without arguments to open the dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := configDir
		if dir == "" {
			dir = config.DefaultDir()
		}
		loaded, err := config.LoadFrom(dir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		// Flags override the file and are remembered
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.Err(err))
			}
		}

		if err := logger.Init(cfg.LoggerConfig()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Info("launchdeck started", logger.F("command", cmd.CommandPath()), logger.F("backend", cfg.Backend))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		logger.Info("Launching TUI")
		m := tui.NewModel(ws.dash, ws.prefs, cfg.Author)
		p := tea.NewProgram(m, tea.WithAltScreen())

		final, err := p.Run()
		if err != nil {
			logger.Error("TUI error", logger.Err(err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		if fm, ok := final.(tui.Model); ok {
			fm.Close()
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("launchdeck exiting", logger.F("command", cmd.CommandPath()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "dir", "", "Config directory (default ~/.launchdeck)")
	rootCmd.PersistentFlags().StringVarP(&projectRef, "project", "P", "", "Project id, id prefix or name (default: last used)")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(milestoneCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(winsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(authCmd)
}
