// Package tree implements the hierarchy operations over the item store:
// folders contain folders and takes, takes are always leaves. Every
// operation loads the full collection, mutates it in memory and saves it
// back in one write.
package tree

import (
	"sort"
	"strings"

	"takes-cli/internal/model"
	"takes-cli/internal/store"
)

type Manager struct {
	Store store.Store
}

// Create allocates an id, applies per-type defaults and inserts the new item
// at the front of the collection (most-recent-first). The name must be
// non-empty after trimming; the parent, when given, must be an existing
// folder.
func (m Manager) Create(name string, typ model.ItemType, parentID *string) (model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Item{}, errValidation("name must not be empty")
	}
	if typ != model.TypeFolder && typ != model.TypeTake {
		return model.Item{}, errValidation("invalid item type: %q", typ)
	}

	db, err := m.Store.Load()
	if err != nil {
		return model.Item{}, err
	}
	if parentID != nil {
		parent, ok := db.FindItem(*parentID)
		if !ok {
			return model.Item{}, NotFoundError{Kind: "folder", ID: *parentID}
		}
		if !parent.IsFolder() {
			return model.Item{}, errValidation("parent %s is not a folder", *parentID)
		}
	}

	now := store.NowMilli()
	it := model.Item{
		ID:             store.NewID(),
		ParentID:       parentID,
		Type:           typ,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
		Entries:        []model.Entry{},
		Status:         model.StatusIdle,
		StartTime:      nil,
		TotalDuration:  0,
		CurrentSection: 1,
	}

	db.Items = append([]model.Item{it}, db.Items...)
	if err := m.Store.Save(db); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// Rename updates the label. A missing id is a silent no-op: the item raced
// with a delete and the caller's view will refresh anyway.
func (m Manager) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errValidation("name must not be empty")
	}

	db, err := m.Store.Load()
	if err != nil {
		return err
	}
	it, ok := db.FindItem(id)
	if !ok {
		return nil
	}
	it.Name = name
	it.UpdatedAt = store.NowMilli()
	return m.Store.Save(db)
}

// Move reassigns the parent. The target must be an existing folder (nil
// means root), and the move is rejected when the target sits inside the
// moved item's own subtree: we walk the parent chain from the target to the
// root rather than trusting the caller to pre-filter candidates.
func (m Manager) Move(id string, newParentID *string) error {
	db, err := m.Store.Load()
	if err != nil {
		return err
	}
	it, ok := db.FindItem(id)
	if !ok {
		return nil
	}

	if newParentID != nil {
		parent, ok := db.FindItem(*newParentID)
		if !ok {
			return nil
		}
		if !parent.IsFolder() {
			return errValidation("parent %s is not a folder", *newParentID)
		}
		if isOrDescendsFrom(db, *newParentID, id) {
			return errValidation("cannot move %s into its own subtree", id)
		}
	}

	it.ParentID = newParentID
	it.UpdatedAt = store.NowMilli()
	return m.Store.Save(db)
}

// isOrDescendsFrom reports whether candidate is ancestorID itself or sits
// anywhere below it. Walks parentId edges toward the root; bounded by the
// collection size as a guard against corrupted (cyclic) stores.
func isOrDescendsFrom(db *store.DB, candidate, ancestorID string) bool {
	cur := candidate
	for steps := 0; steps <= len(db.Items); steps++ {
		if cur == ancestorID {
			return true
		}
		it, ok := db.FindItem(cur)
		if !ok || it.ParentID == nil {
			return false
		}
		cur = *it.ParentID
	}
	return true
}

// Delete removes the item and its full descendant closure in one write.
// The closure is a fixed-point expansion over parentId edges, so children
// are never orphaned. A missing id is a silent no-op.
func (m Manager) Delete(id string) error {
	db, err := m.Store.Load()
	if err != nil {
		return err
	}
	if _, ok := db.FindItem(id); !ok {
		return nil
	}

	doomed := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, it := range db.Items {
			if it.ParentID == nil || doomed[it.ID] {
				continue
			}
			if doomed[*it.ParentID] {
				doomed[it.ID] = true
				changed = true
			}
		}
	}

	kept := db.Items[:0]
	for _, it := range db.Items {
		if !doomed[it.ID] {
			kept = append(kept, it)
		}
	}
	db.Items = kept
	return m.Store.Save(db)
}

// Children lists the direct children of a folder (nil for the root level),
// folders before takes, most recently updated first within each group.
func (m Manager) Children(parentID *string) ([]model.Item, error) {
	db, err := m.Store.Load()
	if err != nil {
		return nil, err
	}
	out := []model.Item{}
	for _, it := range db.Items {
		if sameParent(it.ParentID, parentID) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFolder() != out[j].IsFolder() {
			return out[i].IsFolder()
		}
		return out[i].UpdatedAt > out[j].UpdatedAt
	})
	return out, nil
}

func (m Manager) Get(id string) (model.Item, error) {
	db, err := m.Store.Load()
	if err != nil {
		return model.Item{}, err
	}
	it, ok := db.FindItem(id)
	if !ok {
		return model.Item{}, NotFoundError{Kind: "item", ID: id}
	}
	return *it, nil
}

func (m Manager) All() ([]model.Item, error) {
	db, err := m.Store.Load()
	if err != nil {
		return nil, err
	}
	return db.Items, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
