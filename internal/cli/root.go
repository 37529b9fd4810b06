package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"tally-cli/internal/config"
	"tally-cli/internal/format"
	"tally-cli/internal/logging"
	"tally-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	List       string
	Backend    string
	PrettyJSON bool
	Format     string

	settings config.Settings
	log      *slog.Logger
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{settings: config.LoadOrDefault()})
}

// Execute runs the root command with args and closes the log file on every
// exit path, including command errors.
func Execute(args []string) error {
	app := &App{settings: config.LoadOrDefault()}
	return execute(app, newRootCmd(app), args)
}

func execute(app *App, cmd *cobra.Command, args []string) error {
	defer func() { _ = app.closeLogFile() }()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(app *App) *cobra.Command {

	cmd := &cobra.Command{
		Use:          "tally",
		Short:        "Shopping carts and timber cutting orders (CLI + TUI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tally

  # Scriptable commands
  tally items list
  tally --list cutting summary

  # Direct item lookup (shortcut for: tally items show <id>)
  tally 3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		log, closeLog, err := logging.Open(app.settings.LogFile, app.settings.LogLevel)
		if err != nil {
			return writeErr(cmd, fmt.Errorf("log: %w", err))
		}
		app.log = log
		app.closeLog = closeLog
		app.log.Debug("command", "path", cmd.CommandPath(), "args", args)
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.closeLogFile()
	}

	s := app.settings
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", s.Dir, "Path to the storage dir (overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", s.Workspace, "Workspace name (default: current workspace, else 'default')")
	cmd.PersistentFlags().StringVar(&app.List, "list", s.List, "List kind (cart|cutting; default: config 'list', else cart)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", s.Backend, "Storage backend (sqlite|file|memory)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", s.Format, "Output format (json|table)")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newSortCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newSummaryCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func (a *App) closeLogFile() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

func (a *App) logger() *slog.Logger {
	if a.log == nil {
		return logging.Discard()
	}
	return a.log
}

func runTUI(cmd *cobra.Command, app *App) error {
	sess, err := openSession(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	theme := strings.TrimSpace(app.settings.TUITheme)
	if theme == "" && sess.cfg.TUI != nil {
		theme = sess.cfg.TUI.Theme
	}
	return tui.Run(tui.Options{
		Manager:   sess.mgr,
		Watch:     sess.watch,
		Workspace: app.Workspace,
		ExportDir: ".",
		Theme:     theme,
	})
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
