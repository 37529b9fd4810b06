package cli

import (
	"tally-cli/internal/listmgr"

	"github.com/spf13/cobra"
)

func newSortCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Reorder the stored list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "apply <field> [asc|desc]",
		Short: "Sort the stored list by a field (stable)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := listmgr.Asc
			if len(args) == 2 {
				d, err := listmgr.ParseDirection(args[1])
				if err != nil {
					return writeErr(cmd, err)
				}
				dir = d
			}
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.mgr.SortApply(cmd.Context(), args[0], dir); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": itemRows{schema: sess.mgr.Schema(), items: sess.mgr.Items()}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the sort and restore the default list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.mgr.SortReset(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": itemRows{schema: sess.mgr.Schema(), items: sess.mgr.Items()}})
		},
	})

	// The sort selection is session state; the stored order stays as it is.
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the sort selection without reordering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess.mgr.ClearSort()
			return writeOut(cmd, app, map[string]any{"data": itemRows{schema: sess.mgr.Schema(), items: sess.mgr.Items()}})
		},
	})

	return cmd
}
