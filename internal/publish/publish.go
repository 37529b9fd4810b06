package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"tally-cli/internal/model"
)

type WriteOptions struct {
	Overwrite bool
	RenderOptions
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteList renders the list report into toDir/<storage key>.md.
func WriteList(s *model.Schema, items []model.Item, toDir string, opt WriteOptions) (WriteResult, error) {
	if s == nil {
		return WriteResult{}, errors.New("missing schema")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md, err := RenderListMarkdown(s, items, opt.RenderOptions)
	if err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(toDir, s.StorageKey+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
