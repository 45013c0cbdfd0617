// Package session drives the recording state machine for a single take:
// idle -> recording <-> paused. The session is a view over the stored item
// plus an in-memory clock; it is re-derived from the store whenever a take
// is opened, and every mutation persists the full take immediately.
package session

import (
	"fmt"
	"time"

	"takes-cli/internal/model"
	"takes-cli/internal/store"
)

type Session struct {
	store store.Store
	take  model.Item

	// cursor is the view index over [0, len(entries)]; len(entries) is the
	// "about to create a new entry" sentinel.
	cursor int

	now func() time.Time
}

func Open(st store.Store, takeID string) (*Session, error) {
	db, err := st.Load()
	if err != nil {
		return nil, err
	}
	it, ok := db.FindItem(takeID)
	if !ok {
		return nil, fmt.Errorf("take not found: %s", takeID)
	}
	if !it.IsTake() {
		return nil, fmt.Errorf("%s is a folder, not a take", takeID)
	}
	return &Session{
		store:  st,
		take:   *it,
		cursor: len(it.Entries),
		now:    time.Now,
	}, nil
}

func (s *Session) Take() model.Item { return s.take }
func (s *Session) Cursor() int      { return s.cursor }

// AtSentinel reports whether the cursor sits at the one-past-end "new entry"
// position.
func (s *Session) AtSentinel() bool { return s.cursor == len(s.take.Entries) }

// Elapsed is the live recorded time: accumulated closed segments plus the
// currently open segment. Display-only; it is never written to the store on
// a timer tick, only on explicit transitions and entry mutations.
func (s *Session) Elapsed() time.Duration {
	return time.Duration(s.elapsedAt(s.now())) * time.Millisecond
}

func (s *Session) elapsedAt(now time.Time) int64 {
	total := s.take.TotalDuration
	if s.take.Recording() && s.take.StartTime != nil {
		total += now.UnixMilli() - *s.take.StartTime
	}
	return total
}

// Start opens the first timer segment. Valid only from idle.
func (s *Session) Start() error {
	if s.take.Status != model.StatusIdle {
		return fmt.Errorf("cannot start: take is %s", s.take.Status)
	}
	ms := s.now().UnixMilli()
	s.take.Status = model.StatusRecording
	s.take.StartTime = &ms
	return s.persist()
}

// Pause closes the open segment, folding its duration into TotalDuration.
func (s *Session) Pause() error {
	if !s.take.Recording() {
		return fmt.Errorf("cannot pause: take is %s", s.take.Status)
	}
	now := s.now()
	s.take.TotalDuration = s.elapsedAt(now)
	s.take.Status = model.StatusPaused
	s.take.StartTime = nil
	return s.persist()
}

// Resume opens a fresh segment; closed-segment time is untouched.
func (s *Session) Resume() error {
	if s.take.Status != model.StatusPaused {
		return fmt.Errorf("cannot resume: take is %s", s.take.Status)
	}
	ms := s.now().UnixMilli()
	s.take.Status = model.StatusRecording
	s.take.StartTime = &ms
	return s.persist()
}

// Toggle advances the timer the way the record button does: idle starts,
// recording pauses, paused resumes.
func (s *Session) Toggle() error {
	switch s.take.Status {
	case model.StatusIdle:
		return s.Start()
	case model.StatusRecording:
		return s.Pause()
	default:
		return s.Resume()
	}
}

// AddEntry appends an observation stamped with the current elapsed time and
// section, and moves the cursor to the new sentinel. While recording, the
// elapsed value is checkpointed: TotalDuration takes the snapshot and the
// open segment is re-based at the same instant, so the running timer is
// unaffected and a reload resumes from the same point.
func (s *Session) AddEntry(value model.EntryValue) (model.Entry, error) {
	now := s.now()
	elapsed := s.elapsedAt(now)

	e := model.Entry{
		ID:        store.NewID(),
		Value:     value,
		Timestamp: elapsed,
		Section:   s.take.CurrentSection,
		Note:      "",
	}
	s.take.Entries = append(s.take.Entries, e)
	s.take.TotalDuration = elapsed
	if s.take.Recording() {
		ms := now.UnixMilli()
		s.take.StartTime = &ms
	}
	s.cursor = len(s.take.Entries)
	if err := s.persist(); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// SetEntryValue overwrites the value at index. Editing the last entry while
// the timer runs also refreshes its timestamp to the live elapsed value:
// re-tapping a value right after the fact corrects the live observation.
// Earlier entries keep their timestamps.
func (s *Session) SetEntryValue(index int, value model.EntryValue) error {
	if index < 0 || index >= len(s.take.Entries) {
		return fmt.Errorf("entry index out of range: %d", index)
	}
	s.take.Entries[index].Value = value
	if index == len(s.take.Entries)-1 && s.take.Recording() {
		s.take.Entries[index].Timestamp = s.elapsedAt(s.now())
	}
	return s.persist()
}

func (s *Session) SetEntryNote(index int, note string) error {
	if index < 0 || index >= len(s.take.Entries) {
		return fmt.Errorf("entry index out of range: %d", index)
	}
	s.take.Entries[index].Note = note
	return s.persist()
}

// DeleteEntry removes by position. The cursor clamps to the new last
// position, or to the sentinel when the list empties.
func (s *Session) DeleteEntry(index int) error {
	if index < 0 || index >= len(s.take.Entries) {
		return fmt.Errorf("entry index out of range: %d", index)
	}
	s.take.Entries = append(s.take.Entries[:index], s.take.Entries[index+1:]...)
	if n := len(s.take.Entries); n > 0 {
		s.cursor = n - 1
	} else {
		s.cursor = 0
	}
	return s.persist()
}

// NextSection bumps the section label for entries appended from now on;
// recorded entries keep the section they were born with.
func (s *Session) NextSection() error {
	s.take.CurrentSection++
	return s.persist()
}

func (s *Session) CursorNext() {
	if s.cursor < len(s.take.Entries) {
		s.cursor++
	}
}

func (s *Session) CursorPrev() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Select applies a value at the cursor: the sentinel appends a new entry,
// an existing position overwrites in place.
func (s *Session) Select(value model.EntryValue) error {
	if s.AtSentinel() {
		_, err := s.AddEntry(value)
		return err
	}
	return s.SetEntryValue(s.cursor, value)
}

// Finalize is the explicit save-and-leave operation: a running timer is
// folded into TotalDuration (saving mid-recording loses nothing), status is
// forced to paused and the open segment cleared. Must complete synchronously
// before the session view is torn down.
func (s *Session) Finalize() error {
	if s.take.Recording() {
		s.take.TotalDuration = s.elapsedAt(s.now())
	}
	s.take.Status = model.StatusPaused
	s.take.StartTime = nil
	return s.persist()
}

// persist writes the full take through the store. If the take was deleted
// from another view since the session opened, the write is skipped rather
// than resurrecting it.
func (s *Session) persist() error {
	db, err := s.store.Load()
	if err != nil {
		return err
	}
	s.take.UpdatedAt = s.now().UnixMilli()
	if !db.ReplaceItem(s.take) {
		return nil
	}
	return s.store.Save(db)
}
