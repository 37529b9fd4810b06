package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tally-cli/internal/logging"
	"tally-cli/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the TUI in your browser (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Run the Bubble Tea TUI over the web via a server-side PTY and a browser terminal emulator.

Notes:
- No authentication; bind to localhost.
- Each browser tab starts a TUI subprocess on the server.
`),
		Example: strings.TrimSpace(`
tally webtui --addr 127.0.0.1:3334
tally --workspace shop --list cutting webtui
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			lvl, err := logging.ParseLevel(app.settings.LogLevel)
			if err != nil {
				return writeErr(cmd, err)
			}

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:      strings.TrimSpace(addr),
				Dir:       dir,
				Workspace: strings.TrimSpace(app.Workspace),
				List:      strings.TrimSpace(app.List),
				Backend:   strings.TrimSpace(app.Backend),
				Logger:    logging.New(cmd.ErrOrStderr(), lvl),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"workspace": strings.TrimSpace(app.Workspace),
					"dir":       dir,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"open http://" + listenAddr,
				},
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "tally webtui running at http://%s (workspace=%s)\n", listenAddr, strings.TrimSpace(app.Workspace))
			return http.ListenAndServe(listenAddr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.settings.WebTUIAddr, "Bind address (host:port or :port)")
	return cmd
}
