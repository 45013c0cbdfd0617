package store

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewID returns a globally unique identifier for items and entries.
// UUIDv4 from the OS crypto source; if that source is unavailable we fall
// back to a timestamp + random-suffix scheme rather than failing, since id
// generation must always succeed.
func NewID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fallbackID(time.Now())
}

func fallbackID(now time.Time) string {
	suffix := strconv.FormatInt(rand.Int63(), 36)
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix
}
