package listmgr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tally-cli/internal/model"
)

// Encode serializes a list in the stored JSON array format.
func Encode(items []model.Item) (string, error) {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a stored list. ok is false when raw is not a JSON array of
// items or the array is empty; callers fall back to the seed list.
// DecodeFor also rejects rows the schema would not accept.
func Decode(raw string) (items []model.Item, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] != '[' {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

// DecodeFor is Decode plus row checks: every row must pass s.Check and ids
// must be unique. Any bad row rejects the whole payload.
func DecodeFor(s *model.Schema, raw string) ([]model.Item, error) {
	items, ok := Decode(raw)
	if !ok {
		return nil, fmt.Errorf("not a non-empty JSON array of items")
	}
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if err := s.Check(it); err != nil {
			return nil, err
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}
	return items, nil
}

func encodeSeq(n int) string { return strconv.Itoa(n) }

func decodeSeq(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
