package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"tally-cli/internal/logging"
	"tally-cli/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the list as a live HTML UI",
		Long: strings.TrimSpace(`
Serve the current list from a local HTTP server.

Pages are server-rendered; forms work without JavaScript. With JavaScript,
Datastar keeps every open tab in sync over server-sent events.
`),
		Example: strings.TrimSpace(`
# Serve the current workspace on localhost
tally web --addr 127.0.0.1:3333

# Serve the cutting orders of a specific workspace, read-only
tally --workspace shop --list cutting web --read-only
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			lvl, err := logging.ParseLevel(app.settings.LogLevel)
			if err != nil {
				return writeErr(cmd, err)
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:      listenAddr,
				Workspace: strings.TrimSpace(app.Workspace),
				Dir:       sess.dir,
				ReadOnly:  readOnly,
				Manager:   sess.mgr,
				Watch:     sess.watch,
				Logger:    logging.New(cmd.ErrOrStderr(), lvl),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer srv.Stop()

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"workspace": strings.TrimSpace(app.Workspace),
					"list":      string(sess.mgr.Schema().Variant),
					"dir":       sess.dir,
					"readOnly":  readOnly,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "tally web running at %s (workspace=%s)\n", url, strings.TrimSpace(app.Workspace))
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			return http.Serve(ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.settings.WebAddr, "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", true, "Open the UI in your default browser")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject every change")
	return cmd
}
