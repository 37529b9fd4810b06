package listmgr

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tally-cli/internal/model"

	"github.com/tealeg/xlsx"
)

const (
	ContentTypeCSV  = "text/csv;charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Downloader hands a finished export to the user (a file on disk, an HTTP
// attachment, ...).
type Downloader interface {
	Download(ctx context.Context, filename string, content []byte) error
}

// DirDownloader writes downloads into Dir, replacing files of the same name.
type DirDownloader struct {
	Dir string

	// Written is the path of the last file written.
	Written string
}

func (d *DirDownloader) Download(_ context.Context, filename string, content []byte) error {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return errors.New("download: missing filename")
	}
	dir := strings.TrimSpace(d.Dir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	p := filepath.Join(dir, filename)
	if err := os.WriteFile(p, content, 0o644); err != nil {
		return err
	}
	d.Written = p
	return nil
}

// ExportHeader is the column header row of an export.
func ExportHeader(s *model.Schema) []string {
	h := []string{"ID"}
	for _, f := range s.Fields {
		h = append(h, f.Label)
	}
	return append(h, s.ValueLabel)
}

// ExportRows renders every item as export cells: decimals and the derived
// value get two decimal places.
func ExportRows(s *model.Schema, items []model.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		row := []string{strconv.Itoa(it.ID)}
		for _, f := range s.Fields {
			row = append(row, f.Display(it))
		}
		row = append(row, model.FormatDecimal(s.Value(it)))
		rows = append(rows, row)
	}
	return rows
}

// CSV renders the header plus one line per item. Fields are joined with
// commas as-is: embedded commas are not quoted.
func CSV(s *model.Schema, items []model.Item) string {
	lines := []string{strings.Join(ExportHeader(s), ",")}
	for _, row := range ExportRows(s, items) {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

// WriteXLSX writes the export table as a single-sheet spreadsheet.
func WriteXLSX(w io.Writer, s *model.Schema, items []model.Item) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(s.Title)
	if err != nil {
		return err
	}
	header := sheet.AddRow()
	for _, h := range ExportHeader(s) {
		header.AddCell().SetValue(h)
	}
	for _, it := range items {
		row := sheet.AddRow()
		row.AddCell().SetInt(it.ID)
		for _, f := range s.Fields {
			switch f.Kind {
			case model.FieldText:
				row.AddCell().SetString(f.Raw(it))
			case model.FieldInteger:
				row.AddCell().SetInt(int(f.Number(it)))
			default:
				row.AddCell().SetFloat(f.Number(it))
			}
		}
		row.AddCell().SetFloat(s.Value(it))
	}
	return file.Write(w)
}

// Export hands the full, unfiltered list as CSV to d.
func (m *Manager) Export(ctx context.Context, d Downloader) error {
	if d == nil {
		return errors.New("export: missing downloader")
	}
	return d.Download(ctx, m.schema.ExportFile, []byte(CSV(m.schema, m.items)))
}

// ExportXLSX hands the full list as a spreadsheet to d.
func (m *Manager) ExportXLSX(ctx context.Context, d Downloader) error {
	if d == nil {
		return errors.New("export: missing downloader")
	}
	var b bytes.Buffer
	if err := WriteXLSX(&b, m.schema, m.items); err != nil {
		return err
	}
	name := strings.TrimSuffix(m.schema.ExportFile, filepath.Ext(m.schema.ExportFile)) + ".xlsx"
	return d.Download(ctx, name, b.Bytes())
}
