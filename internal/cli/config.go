package cli

import (
	"tally-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings and the global config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			s := app.settings
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"configPath": path,
					"config":     cfg,
					"env": map[string]any{
						"dir":        s.Dir,
						"workspace":  s.Workspace,
						"list":       s.List,
						"backend":    s.Backend,
						"format":     s.Format,
						"logLevel":   s.LogLevel,
						"logFile":    s.LogFile,
						"webAddr":    s.WebAddr,
						"webtuiAddr": s.WebTUIAddr,
						"tuiTheme":   s.TUITheme,
					},
				},
			})
		},
	})

	return cmd
}
