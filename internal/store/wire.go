package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"takes-cli/internal/model"
)

// Legacy wire shape: the pre-hierarchy tracker kept a flat list of
// recordings with a per-page value map instead of timestamped entries.
// Legacy records are recognized by the absence of the "type" discriminator;
// anything carrying "type" is already current and passes through untouched,
// which makes migration idempotent.
type legacyRecord struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	CreatedAt int64                      `json:"createdAt"`
	UpdatedAt int64                      `json:"updatedAt"`
	Data      map[string]json.RawMessage `json:"data"`
	LastPage  int                        `json:"lastPage"`
}

// DecodeItems parses a stored collection, upgrading any legacy records to
// the current shape. nowMs is used as the approximate timestamp for migrated
// entries (original relative timing is not recoverable). The second return
// reports whether any record needed migration.
func DecodeItems(b []byte, nowMs int64) ([]model.Item, bool, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, false, fmt.Errorf("parse items: %w", err)
	}
	return MigrateItems(raw, nowMs)
}

func MigrateItems(raw []json.RawMessage, nowMs int64) ([]model.Item, bool, error) {
	items := make([]model.Item, 0, len(raw))
	migrated := false
	for _, r := range raw {
		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return nil, false, fmt.Errorf("parse item: %w", err)
		}
		if probe.Type != "" {
			var it model.Item
			if err := json.Unmarshal(r, &it); err != nil {
				return nil, false, fmt.Errorf("parse item: %w", err)
			}
			items = append(items, normalize(it))
			continue
		}

		var rec legacyRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, false, fmt.Errorf("parse legacy item: %w", err)
		}
		it, err := upgradeLegacy(rec, nowMs)
		if err != nil {
			return nil, false, err
		}
		items = append(items, it)
		migrated = true
	}
	return items, migrated, nil
}

func upgradeLegacy(rec legacyRecord, nowMs int64) (model.Item, error) {
	pages := make([]int, 0, len(rec.Data))
	for k := range rec.Data {
		n, err := strconv.Atoi(k)
		if err != nil {
			return model.Item{}, fmt.Errorf("parse legacy page %q: %w", k, err)
		}
		pages = append(pages, n)
	}
	sort.Ints(pages)

	entries := make([]model.Entry, 0, len(pages))
	for _, p := range pages {
		value, note, err := decodeLegacyValue(rec.Data[strconv.Itoa(p)])
		if err != nil {
			return model.Item{}, err
		}
		entries = append(entries, model.Entry{
			ID:        NewID(),
			Value:     value,
			Timestamp: nowMs,
			Section:   1,
			Note:      note,
		})
	}

	createdAt := rec.CreatedAt
	if createdAt == 0 {
		createdAt = nowMs
	}
	updatedAt := rec.UpdatedAt
	if updatedAt == 0 {
		updatedAt = nowMs
	}

	return model.Item{
		ID:             rec.ID,
		ParentID:       nil,
		Type:           model.TypeTake,
		Name:           rec.Name,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		Entries:        entries,
		Status:         model.StatusIdle,
		StartTime:      nil,
		TotalDuration:  0,
		CurrentSection: 1,
	}, nil
}

// decodeLegacyValue handles both legacy per-page encodings:
// a bare string ("plus") or an object ({"value": "wave", "note": "n"}).
func decodeLegacyValue(r json.RawMessage) (model.EntryValue, string, error) {
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return model.EntryValue(s), "", nil
	}
	var obj struct {
		Value string `json:"value"`
		Note  string `json:"note"`
	}
	if err := json.Unmarshal(r, &obj); err != nil {
		return "", "", fmt.Errorf("parse legacy page value: %w", err)
	}
	return model.EntryValue(obj.Value), obj.Note, nil
}

func normalize(it model.Item) model.Item {
	if it.Entries == nil {
		it.Entries = []model.Entry{}
	}
	if it.Status == "" {
		it.Status = model.StatusIdle
	}
	if it.CurrentSection < 1 {
		it.CurrentSection = 1
	}
	return it
}
