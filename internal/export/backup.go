package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"takes-cli/internal/model"
)

// WriteBackup dumps the entire collection as indented JSON, exactly the
// shape the store persists. Restoring is dropping the file into a store dir
// as tracker.json and letting the next load import it.
func WriteBackup(w io.Writer, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func BackupFileName(now time.Time) string {
	return "takes-backup-" + now.Format("2006-01-02") + ".json"
}
