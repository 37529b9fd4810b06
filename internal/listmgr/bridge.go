package listmgr

import (
	"context"
	"log/slog"

	"tally-cli/internal/model"
	"tally-cli/internal/store"
)

// Bridge reads and writes whole-list snapshots. It never edits items.
type Bridge struct {
	KV     store.KV
	Key    string
	Schema *model.Schema
	Log    *slog.Logger
}

func (b Bridge) seqKey() string { return b.Key + ".seq" }

// Load returns the stored list, or seed when nothing usable is stored, plus
// the highest id ever issued for this key.
func (b Bridge) Load(ctx context.Context, seed []model.Item) ([]model.Item, int, error) {
	raw, ok, err := b.KV.Get(ctx, b.Key)
	if err != nil {
		return nil, 0, err
	}
	var items []model.Item
	if ok {
		var derr error
		items, derr = DecodeFor(b.Schema, raw)
		if derr != nil {
			b.Log.Debug("stored list unusable; using seed", "key", b.Key, "bytes", len(raw), "err", derr)
		}
	}
	if items == nil {
		items = seed
	}

	hw := maxID(items)
	if rawSeq, ok, err := b.KV.Get(ctx, b.seqKey()); err != nil {
		return nil, 0, err
	} else if ok {
		hw = max(hw, decodeSeq(rawSeq))
	}
	return items, hw, nil
}

// Save writes the id high-water mark before the list. A failed list write
// leaves ids reserved rather than reusable.
func (b Bridge) Save(ctx context.Context, items []model.Item, highWater int) error {
	raw, err := Encode(items)
	if err != nil {
		return err
	}
	if err := b.KV.Set(ctx, b.seqKey(), encodeSeq(highWater)); err != nil {
		return err
	}
	return b.KV.Set(ctx, b.Key, raw)
}

func maxID(items []model.Item) int {
	hi := 0
	for _, it := range items {
		hi = max(hi, it.ID)
	}
	return hi
}
