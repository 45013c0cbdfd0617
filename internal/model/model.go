package model

type ItemType string

const (
	TypeFolder ItemType = "FOLDER"
	TypeTake   ItemType = "TAKE"
)

type TakeStatus string

const (
	StatusIdle      TakeStatus = "idle"
	StatusRecording TakeStatus = "recording"
	StatusPaused    TakeStatus = "paused"
)

type EntryValue string

const (
	ValuePlus  EntryValue = "plus"
	ValueMinus EntryValue = "minus"
	ValueWave  EntryValue = "wave"
)

// Item is a node in the folder/take hierarchy. ParentID nil means the item
// sits at the root. Takes are always leaves; only folders may be parents.
//
// All timestamps are epoch milliseconds to keep the persisted shape identical
// across exports, backups and the store.
type Item struct {
	ID        string   `json:"id"`
	ParentID  *string  `json:"parentId"`
	Type      ItemType `json:"type"`
	Name      string   `json:"name"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`

	// Take fields. Folders carry the same defaults (empty entries, idle),
	// which keeps every record the same shape on the wire.
	Entries        []Entry    `json:"entries"`
	Status         TakeStatus `json:"status"`
	StartTime      *int64     `json:"startTime"`
	TotalDuration  int64      `json:"totalDuration"`
	CurrentSection int        `json:"currentSection"`
}

// Entry is one recorded observation within a take. Timestamp is elapsed
// milliseconds on the take's own timer, not wall clock.
type Entry struct {
	ID        string     `json:"id"`
	Value     EntryValue `json:"value"`
	Timestamp int64      `json:"timestamp"`
	Section   int        `json:"section"`
	Note      string     `json:"note"`
}

func (it Item) IsFolder() bool { return it.Type == TypeFolder }
func (it Item) IsTake() bool   { return it.Type == TypeTake }

// Recording reports whether the take has an open timer segment.
// StartTime is set if and only if this returns true.
func (it Item) Recording() bool { return it.Status == StatusRecording }

func ParseItemType(s string) (ItemType, bool) {
	switch s {
	case string(TypeFolder), "folder":
		return TypeFolder, true
	case string(TypeTake), "take":
		return TypeTake, true
	}
	return "", false
}

func ParseEntryValue(s string) (EntryValue, bool) {
	switch s {
	case string(ValuePlus), "+":
		return ValuePlus, true
	case string(ValueMinus), "-":
		return ValueMinus, true
	case string(ValueWave), "~":
		return ValueWave, true
	}
	return "", false
}
