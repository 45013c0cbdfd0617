package tree

import (
	"errors"
	"testing"

	"takes-cli/internal/model"
	"takes-cli/internal/store"
)

func newManager(t *testing.T) Manager {
	t.Helper()
	return Manager{Store: store.Store{Dir: t.TempDir()}}
}

func TestCreateTakeDefaults(t *testing.T) {
	m := newManager(t)

	it, err := m.Create("  Warmup  ", model.TypeTake, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.ID == "" {
		t.Fatalf("expected allocated id")
	}
	if it.Name != "Warmup" {
		t.Fatalf("expected trimmed name, got %q", it.Name)
	}
	if it.Status != model.StatusIdle || it.CurrentSection != 1 || len(it.Entries) != 0 {
		t.Fatalf("unexpected take defaults: %+v", it)
	}
	if it.StartTime != nil || it.TotalDuration != 0 {
		t.Fatalf("fresh take must not carry timer state: %+v", it)
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	m := newManager(t)
	if _, err := m.Create("   ", model.TypeFolder, nil); err == nil {
		t.Fatalf("expected validation error for blank name")
	}
	// Nothing persisted.
	items, err := m.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected create must not persist, got %d items", len(items))
	}
}

func TestCreateInsertsAtFront(t *testing.T) {
	m := newManager(t)
	first, _ := m.Create("first", model.TypeTake, nil)
	second, _ := m.Create("second", model.TypeTake, nil)

	items, err := m.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatalf("expected most-recent-first order, got %v then %v", items[0].Name, items[1].Name)
	}
}

func TestCreateRejectsTakeAsParent(t *testing.T) {
	m := newManager(t)
	tk, err := m.Create("T", model.TypeTake, nil)
	if err != nil {
		t.Fatalf("create take: %v", err)
	}
	if _, err := m.Create("child", model.TypeTake, &tk.ID); err == nil {
		t.Fatalf("expected error: takes are leaves")
	}
	var verr ValidationError
	_, err = m.Create("child", model.TypeTake, &tk.ID)
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRenameMissingItemIsNoOp(t *testing.T) {
	m := newManager(t)
	if err := m.Rename("gone", "whatever"); err != nil {
		t.Fatalf("rename of missing item should be a no-op, got %v", err)
	}
}

func TestRenameUpdatesNameAndStamp(t *testing.T) {
	m := newManager(t)
	it, _ := m.Create("Before", model.TypeFolder, nil)

	if err := m.Rename(it.ID, "After"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := m.Get(it.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "After" {
		t.Fatalf("expected renamed item, got %q", got.Name)
	}
	if got.UpdatedAt < it.UpdatedAt {
		t.Fatalf("updatedAt went backwards: %d -> %d", it.UpdatedAt, got.UpdatedAt)
	}
}

func TestMoveRejectsOwnSubtree(t *testing.T) {
	m := newManager(t)
	outer, _ := m.Create("outer", model.TypeFolder, nil)
	inner, _ := m.Create("inner", model.TypeFolder, &outer.ID)
	leaf, _ := m.Create("leaf", model.TypeFolder, &inner.ID)

	if err := m.Move(outer.ID, &leaf.ID); err == nil {
		t.Fatalf("expected cycle rejection moving outer under its grandchild")
	}
	if err := m.Move(outer.ID, &outer.ID); err == nil {
		t.Fatalf("expected cycle rejection moving an item into itself")
	}

	// The rejected moves must not have changed anything.
	got, _ := m.Get(outer.ID)
	if got.ParentID != nil {
		t.Fatalf("outer should still sit at root, got parent %v", *got.ParentID)
	}
}

func TestMoveToRootAndBetweenFolders(t *testing.T) {
	m := newManager(t)
	a, _ := m.Create("A", model.TypeFolder, nil)
	b, _ := m.Create("B", model.TypeFolder, nil)
	tk, _ := m.Create("T", model.TypeTake, &a.ID)

	if err := m.Move(tk.ID, &b.ID); err != nil {
		t.Fatalf("move into B: %v", err)
	}
	got, _ := m.Get(tk.ID)
	if got.ParentID == nil || *got.ParentID != b.ID {
		t.Fatalf("expected parent B, got %v", got.ParentID)
	}

	if err := m.Move(tk.ID, nil); err != nil {
		t.Fatalf("move to root: %v", err)
	}
	got, _ = m.Get(tk.ID)
	if got.ParentID != nil {
		t.Fatalf("expected root parent, got %v", *got.ParentID)
	}
}

func TestMoveMissingTargetIsNoOp(t *testing.T) {
	m := newManager(t)
	tk, _ := m.Create("T", model.TypeTake, nil)
	gone := "gone"
	if err := m.Move(tk.ID, &gone); err != nil {
		t.Fatalf("move to vanished folder should be a no-op, got %v", err)
	}
	got, _ := m.Get(tk.ID)
	if got.ParentID != nil {
		t.Fatalf("no-op move must not change the parent")
	}
}

func TestDeleteCascades(t *testing.T) {
	m := newManager(t)
	f, _ := m.Create("F", model.TypeFolder, nil)
	sub, _ := m.Create("sub", model.TypeFolder, &f.ID)
	tk, _ := m.Create("T", model.TypeTake, &sub.ID)
	keep, _ := m.Create("keep", model.TypeTake, nil)

	if err := m.Delete(f.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	items, err := m.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Fatalf("expected only %q to survive, got %+v", keep.Name, items)
	}
	for _, it := range items {
		if it.ParentID != nil && (*it.ParentID == f.ID || *it.ParentID == sub.ID || *it.ParentID == tk.ID) {
			t.Fatalf("orphaned item after cascade: %+v", it)
		}
	}
}

func TestChildrenOrdering(t *testing.T) {
	m := newManager(t)
	root := "root-1"

	item := func(id, name string, typ model.ItemType, parent *string, updated int64) model.Item {
		return model.Item{
			ID: id, ParentID: parent, Type: typ, Name: name,
			CreatedAt: 1, UpdatedAt: updated,
			Entries: []model.Entry{}, Status: model.StatusIdle, CurrentSection: 1,
		}
	}
	db := &store.DB{Version: 1, Items: []model.Item{
		item(root, "root", model.TypeFolder, nil, 1),
		item("take-old", "old", model.TypeTake, &root, 500),
		item("take-new", "new", model.TypeTake, &root, 100),
		item("folder-1", "folder", model.TypeFolder, &root, 10),
	}}
	if err := m.Store.Save(db); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	kids, err := m.Children(&root)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(kids) != 3 {
		t.Fatalf("expected 3 children, got %d", len(kids))
	}
	// Folders first despite the oldest stamp, then takes by updatedAt desc.
	if kids[0].ID != "folder-1" {
		t.Fatalf("expected folder first, got %q", kids[0].Name)
	}
	if kids[1].ID != "take-old" || kids[2].ID != "take-new" {
		t.Fatalf("expected takes by updatedAt desc, got %q then %q", kids[1].ID, kids[2].ID)
	}
}

func TestChildrenRootLevel(t *testing.T) {
	m := newManager(t)
	f, _ := m.Create("F", model.TypeFolder, nil)
	if _, err := m.Create("inside", model.TypeTake, &f.ID); err != nil {
		t.Fatalf("create: %v", err)
	}

	rootKids, err := m.Children(nil)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(rootKids) != 1 || rootKids[0].ID != f.ID {
		t.Fatalf("expected only the folder at root, got %+v", rootKids)
	}
}
