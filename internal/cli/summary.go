package cli

import (
	"encoding/json"
	"strconv"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/model"

	"github.com/spf13/cobra"
)

// summaryTable writes as the Summary JSON or as metric/value rows.
type summaryTable struct {
	schema *model.Schema
	sum    listmgr.Summary
}

func (t summaryTable) MarshalJSON() ([]byte, error) { return json.Marshal(t.sum) }

func (t summaryTable) TableHeaders() []string { return []string{"Metric", "Value"} }

func (t summaryTable) TableRows() [][]string {
	s := t.schema
	rows := [][]string{{"Total Quantity", strconv.Itoa(t.sum.TotalQuantity)}}
	if s.HasLength() {
		rows = append(rows, []string{"Total Length", model.FormatDecimal(t.sum.TotalLength)})
	}
	rows = append(rows, []string{s.ValueLabel, model.FormatDecimal(t.sum.TotalValue)})
	label := s.CategoryField
	if f, ok := s.Field(s.CategoryField); ok {
		label = f.Label
	}
	for _, c := range t.sum.ByCategory {
		rows = append(rows, []string{label + ": " + c.Key, strconv.Itoa(c.Quantity)})
	}
	return rows
}

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Totals over the whole list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := sess.mgr.Schema()
			return writeOut(cmd, app, map[string]any{"data": summaryTable{schema: s, sum: sess.mgr.View().Summary}})
		},
	}
}
