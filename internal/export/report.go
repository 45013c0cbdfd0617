// Package export turns stored items into documents: per-take PDF reports,
// recursive folder archives and raw JSON backups. Everything here is a pure
// function over the item model; nothing reads or writes the store.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"takes-cli/internal/format"
	"takes-cli/internal/model"
)

type sectionGroup struct {
	Section int
	Entries []model.Entry
}

// groupBySection partitions a take's entries by section label, ascending.
// Entry order within a section is preserved (temporal/insertion order).
func groupBySection(take model.Item) []sectionGroup {
	bySection := map[int][]model.Entry{}
	for _, e := range take.Entries {
		sec := e.Section
		if sec < 1 {
			sec = 1
		}
		bySection[sec] = append(bySection[sec], e)
	}
	keys := make([]int, 0, len(bySection))
	for k := range bySection {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]sectionGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, sectionGroup{Section: k, Entries: bySection[k]})
	}
	return out
}

// WriteTakeReport renders the take as a paginated PDF: a title header, then
// entries grouped by ascending section with per-entry timestamp, value and
// note lines.
func WriteTakeReport(w io.Writer, take model.Item) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	name := take.Name
	if strings.TrimSpace(name) == "" {
		name = "Untitled Take"
	}
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(20, 20, name)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 30, "Date: "+time.UnixMilli(take.CreatedAt).Format("2006-01-02"))
	pdf.Text(20, 35, "Duration: "+format.Clock(take.TotalDuration))

	y := 50.0
	groups := groupBySection(take)
	if len(groups) == 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(20, y, "No data recorded.")
		return pdf.Output(w)
	}

	for _, g := range groups {
		if y > 270 {
			pdf.AddPage()
			y = 20
		}
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(20, y, fmt.Sprintf("Section %d", g.Section))
		y += 10
		pdf.SetFont("Helvetica", "", 12)

		for _, e := range g.Entries {
			if y > 280 {
				pdf.AddPage()
				y = 20
			}
			pdf.Text(25, y, fmt.Sprintf("[%s] %s", format.Clock(e.Timestamp), strings.ToUpper(string(e.Value))))
			y += 6

			if e.Note != "" {
				pdf.SetFont("Helvetica", "", 10)
				pdf.SetTextColor(100, 100, 100)
				lines := pdf.SplitText("Note: "+e.Note, 160)
				for _, ln := range lines {
					if y > 280 {
						pdf.AddPage()
						y = 20
					}
					pdf.Text(30, y, ln)
					y += 5
				}
				y += 4
				pdf.SetTextColor(0, 0, 0)
				pdf.SetFont("Helvetica", "", 12)
			} else {
				y += 2
			}
		}
		y += 5
	}

	return pdf.Output(w)
}

// ReportMarkdown is the same report as markdown. The TUI summary view feeds
// this through glamour; it also round-trips cleanly into plain text.
func ReportMarkdown(take model.Item) string {
	var b strings.Builder

	name := take.Name
	if strings.TrimSpace(name) == "" {
		name = "Untitled Take"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "Date: %s  \n", time.UnixMilli(take.CreatedAt).Format("2006-01-02"))
	fmt.Fprintf(&b, "Duration: `%s`\n", format.Clock(take.TotalDuration))

	groups := groupBySection(take)
	if len(groups) == 0 {
		b.WriteString("\nNo data recorded.\n")
		return b.String()
	}

	for _, g := range groups {
		fmt.Fprintf(&b, "\n## Section %d\n\n", g.Section)
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "- `[%s]` **%s**\n", format.Clock(e.Timestamp), strings.ToUpper(string(e.Value)))
			if e.Note != "" {
				fmt.Fprintf(&b, "  - %s\n", e.Note)
			}
		}
	}
	return b.String()
}
