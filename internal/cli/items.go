package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/model"

	"github.com/spf13/cobra"
)

// itemRows writes as a JSON array of items (each with its derived value) or
// as the export table.
type itemRows struct {
	schema *model.Schema
	items  []model.Item
}

type itemJSON struct {
	model.Item
	Value float64 `json:"value"`
}

func newItemJSON(s *model.Schema, it model.Item) itemJSON {
	return itemJSON{Item: it, Value: s.Value(it)}
}

func (r itemRows) MarshalJSON() ([]byte, error) {
	out := make([]itemJSON, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, newItemJSON(r.schema, it))
	}
	return json.Marshal(out)
}

func (r itemRows) TableHeaders() []string { return listmgr.ExportHeader(r.schema) }

func (r itemRows) TableRows() [][]string { return listmgr.ExportRows(r.schema, r.items) }

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List and change the items of the current list",
	}

	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsRemoveCmd(app))
	cmd.AddCommand(newItemsQtyCmd(app))

	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var search string
	var sortField string
	var desc bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items (optionally filtered and ordered for display only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := sess.mgr.Schema()
			items := listmgr.Filter(s, sess.mgr.Items(), search)
			dir := listmgr.Asc
			if desc {
				dir = listmgr.Desc
			}
			items, err = listmgr.Sort(s, items, strings.TrimSpace(sortField), dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": itemRows{schema: s, items: items}})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring filter")
	cmd.Flags().StringVar(&sortField, "sort", "", "Order the output by field (does not change the stored order)")
	cmd.Flags().BoolVar(&desc, "desc", false, "Descending order (with --sort)")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, ok := sess.mgr.Find(id)
			if !ok {
				return writeErr(cmd, listmgr.NotFoundError{Kind: sess.mgr.Schema().Noun, ID: id})
			}
			return writeOut(cmd, app, map[string]any{"data": newItemJSON(sess.mgr.Schema(), it)})
		},
	}
}

func newItemsAddCmd(app *App) *cobra.Command {
	values := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item (every field of the list is required)",
		Example: strings.TrimSpace(`
tally items add --name Pear --price 2 --store-section Fruits --quantity 2
tally --list cutting items add --timber-type Pine --required-length 4 --grade A --quantity 5
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := applyFieldFlags(cmd, sess.mgr.Schema(), values, sess.mgr.SetDraftField); err != nil {
				return writeErr(cmd, err)
			}
			it, err := sess.mgr.Add(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newItemJSON(sess.mgr.Schema(), it)})
		},
	}
	addFieldFlags(cmd, values)
	return cmd
}

func newItemsEditCmd(app *App) *cobra.Command {
	values := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an item (unset flags keep their value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.mgr.StartEdit(id); err != nil {
				return writeErr(cmd, err)
			}
			if err := applyFieldFlags(cmd, sess.mgr.Schema(), values, sess.mgr.ChangeEditField); err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.mgr.SaveEdit(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			it, _ := sess.mgr.Find(id)
			return writeOut(cmd, app, map[string]any{"data": newItemJSON(sess.mgr.Schema(), it)})
		},
	}
	addFieldFlags(cmd, values)
	return cmd
}

func newItemsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			removed, err := sess.mgr.Remove(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !removed {
				return writeErr(cmd, listmgr.NotFoundError{Kind: sess.mgr.Schema().Noun, ID: id})
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": id}})
		},
	}
}

func newItemsQtyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <id> <quantity>",
		Short: "Set an item's quantity (values below 1 are ignored)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			q, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid quantity: %q", args[1]))
			}
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := sess.mgr.Find(id); !ok {
				return writeErr(cmd, listmgr.NotFoundError{Kind: sess.mgr.Schema().Noun, ID: id})
			}
			changed, err := sess.mgr.QuantityChange(cmd.Context(), id, q)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, _ := sess.mgr.Find(id)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"changed": changed,
				"item":    newItemJSON(sess.mgr.Schema(), it),
			}})
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %q", s)
	}
	return id, nil
}

// flagName turns a field name into its kebab-case flag ("storeSection" -> "store-section").
func flagName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// addFieldFlags registers one flag per field of every list kind; which ones
// apply is only known once --list is resolved.
func addFieldFlags(cmd *cobra.Command, values map[string]*string) {
	for _, s := range []*model.Schema{model.Cart(), model.Cutting()} {
		for _, f := range s.Fields {
			name := flagName(f.Name)
			if _, ok := values[name]; ok {
				continue
			}
			v := new(string)
			values[name] = v
			usage := f.Label
			if f.Unit != "" {
				usage += " (" + f.Unit + ")"
			}
			cmd.Flags().StringVar(v, name, "", usage)
		}
	}
}

func applyFieldFlags(cmd *cobra.Command, s *model.Schema, values map[string]*string, set func(name, value string) error) error {
	own := map[string]bool{}
	for _, f := range s.Fields {
		name := flagName(f.Name)
		own[name] = true
		if !cmd.Flags().Changed(name) {
			continue
		}
		if err := set(f.Name, *values[name]); err != nil {
			return err
		}
	}
	for name := range values {
		if cmd.Flags().Changed(name) && !own[name] {
			return fmt.Errorf("--%s does not apply to %s lists", name, s.Variant)
		}
	}
	return nil
}
