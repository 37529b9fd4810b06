package cli

import (
	"fmt"
	"strings"
	"time"

	"tally-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var raw bool
	var render bool
	var toDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Markdown report of the list and its summary",
		Example: strings.TrimSpace(`
tally report --render
tally --list cutting report --to ./reports --overwrite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			opt := publish.RenderOptions{Workspace: app.Workspace, Now: time.Now()}

			if strings.TrimSpace(toDir) != "" {
				res, err := publish.WriteList(sess.mgr.Schema(), sess.mgr.Items(), toDir, publish.WriteOptions{
					Overwrite:     overwrite,
					RenderOptions: opt,
				})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}

			md, err := publish.RenderListMarkdown(sess.mgr.Schema(), sess.mgr.Items(), opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			switch {
			case raw:
				_, err = fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			case render:
				out, err := renderTerminalMarkdown(app, md)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"markdown": md}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")
	cmd.Flags().BoolVar(&render, "render", false, "Render the markdown for the terminal")
	cmd.Flags().StringVar(&toDir, "to", "", "Write <list>.md into this directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing report file")
	return cmd
}
