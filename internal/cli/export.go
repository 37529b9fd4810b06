package cli

import (
	"errors"
	"fmt"
	"strings"

	"tally-cli/internal/listmgr"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var toDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full list (filters never apply)",
	}
	cmd.PersistentFlags().StringVar(&toDir, "to", ".", "Directory to write the export into")

	var stdout bool
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Export as CSV (cart_items.csv / cutting_orders.csv)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if stdout {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), listmgr.CSV(sess.mgr.Schema(), sess.mgr.Items()))
				return err
			}
			d := &listmgr.DirDownloader{Dir: strings.TrimSpace(toDir)}
			if err := sess.mgr.Export(cmd.Context(), d); err != nil {
				return writeErr(cmd, err)
			}
			return writeExported(cmd, app, d, len(sess.mgr.Items()))
		},
	}
	csvCmd.Flags().BoolVar(&stdout, "stdout", false, "Print the CSV instead of writing a file")

	xlsxCmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Export as a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d := &listmgr.DirDownloader{Dir: strings.TrimSpace(toDir)}
			if err := sess.mgr.ExportXLSX(cmd.Context(), d); err != nil {
				return writeErr(cmd, err)
			}
			return writeExported(cmd, app, d, len(sess.mgr.Items()))
		},
	}

	cmd.AddCommand(csvCmd)
	cmd.AddCommand(xlsxCmd)
	return cmd
}

func writeExported(cmd *cobra.Command, app *App, d *listmgr.DirDownloader, n int) error {
	if d.Written == "" {
		return writeErr(cmd, errors.New("export: nothing written"))
	}
	return writeOut(cmd, app, map[string]any{"data": map[string]any{
		"exportedTo": d.Written,
		"items":      n,
	}})
}
