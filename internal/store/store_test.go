package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"takes-cli/internal/model"
)

func strPtr(s string) *string { return &s }

func take(id, name string, parent *string) model.Item {
	return model.Item{
		ID:             id,
		ParentID:       parent,
		Type:           model.TypeTake,
		Name:           name,
		CreatedAt:      1000,
		UpdatedAt:      2000,
		Entries:        []model.Entry{},
		Status:         model.StatusIdle,
		TotalDuration:  0,
		CurrentSection: 1,
	}
}

func folder(id, name string) model.Item {
	it := take(id, name, nil)
	it.Type = model.TypeFolder
	return it
}

func TestLoadEmptyStore(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(db.Items) != 0 {
		t.Fatalf("expected empty collection, got %d items", len(db.Items))
	}
}

func TestSaveLoadRoundTripPreservesOrder(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	f := folder("folder-1", "Session A")
	tk := take("take-1", "Warmup", strPtr("folder-1"))
	tk.Entries = []model.Entry{
		{ID: "e1", Value: model.ValuePlus, Timestamp: 120, Section: 1, Note: ""},
		{ID: "e2", Value: model.ValueWave, Timestamp: 2040, Section: 2, Note: "drifted"},
	}
	tk.Status = model.StatusPaused
	tk.TotalDuration = 2100
	tk.CurrentSection = 2
	other := take("take-2", "Second", nil)

	in := &DB{Version: 1, Items: []model.Item{tk, f, other}}
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in.Items, out.Items) {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in.Items, out.Items)
	}
}

func TestSaveReplacesFullCollection(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	if err := s.Save(&DB{Version: 1, Items: []model.Item{take("a", "A", nil), take("b", "B", nil)}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(&DB{Version: 1, Items: []model.Item{take("c", "C", nil)}}); err != nil {
		t.Fatalf("save 2: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].ID != "c" {
		t.Fatalf("expected only item c after second save, got %+v", out.Items)
	}
}

func TestLegacyFileImportsOnFirstLoad(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"rec-1","name":"Old recording","createdAt":500,"updatedAt":600,` +
		`"data":{"1":"plus","2":{"value":"wave","note":"n"}},"lastPage":2}]`
	if err := os.WriteFile(filepath.Join(dir, legacyFileName), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	s := Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(db.Items) != 1 {
		t.Fatalf("expected 1 migrated item, got %d", len(db.Items))
	}
	it := db.Items[0]
	if it.Type != model.TypeTake || it.ID != "rec-1" || it.ParentID != nil {
		t.Fatalf("unexpected migrated item: %+v", it)
	}
	if it.Status != model.StatusIdle || it.StartTime != nil || it.CurrentSection != 1 {
		t.Fatalf("migrated take should be idle with section 1: %+v", it)
	}
	if len(it.Entries) != 2 {
		t.Fatalf("expected 2 migrated entries, got %d", len(it.Entries))
	}
	if it.Entries[0].Value != model.ValuePlus || it.Entries[0].Note != "" {
		t.Fatalf("unexpected first entry: %+v", it.Entries[0])
	}
	if it.Entries[1].Value != model.ValueWave || it.Entries[1].Note != "n" {
		t.Fatalf("unexpected second entry: %+v", it.Entries[1])
	}
	for _, e := range it.Entries {
		if e.Section != 1 {
			t.Fatalf("migrated entries must land in section 1, got %d", e.Section)
		}
		if e.ID == "" {
			t.Fatalf("migrated entry without id")
		}
	}

	// The upgraded form is persisted, so a second load sees identical data
	// without re-running migration.
	again, err := s.Load()
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !reflect.DeepEqual(db.Items, again.Items) {
		t.Fatalf("second load diverged:\n1st: %+v\n2nd: %+v", db.Items, again.Items)
	}
}

func TestLegacyImportDoesNotResurrectDeletedItems(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"rec-1","name":"Old recording","createdAt":500,"updatedAt":600,` +
		`"data":{"1":"plus"},"lastPage":1}]`
	if err := os.WriteFile(filepath.Join(dir, legacyFileName), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	s := Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(db.Items) != 1 {
		t.Fatalf("expected the legacy item imported, got %d items", len(db.Items))
	}

	// The user deletes everything; the legacy file still sits on disk.
	if err := s.Save(&DB{Version: 1, Items: []model.Item{}}); err != nil {
		t.Fatalf("save empty: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(out.Items) != 0 {
		t.Fatalf("deleted items resurrected from %s: %+v", legacyFileName, out.Items)
	}
}

func TestMalformedLegacyFileFallsBackEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, legacyFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	s := Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load should not fail on malformed slot: %v", err)
	}
	if len(db.Items) != 0 {
		t.Fatalf("expected empty fallback, got %d items", len(db.Items))
	}
}
