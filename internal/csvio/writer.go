package csvio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/tabulr/timetabler/internal/scheduler"
	"github.com/tabulr/timetabler/pkg/model"
)

// ResultRow is one line of the exported schedule file.
type ResultRow struct {
	Day      int    `csv:"day"`
	Period   int    `csv:"period"`
	Course   string `csv:"course"`
	Teacher  string `csv:"teacher"`
	Sections string `csv:"sections"`
}

// ExportResult writes the schedule to the CSV file at path, replacing any
// existing file, and returns the path.
func ExportResult(res *scheduler.Result, path string) (string, error) {
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	rows := formatResult(res)
	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// MarshalResult renders the schedule as a CSV string.
func MarshalResult(res *scheduler.Result) (string, error) {
	rows := formatResult(res)
	return gocsv.MarshalString(&rows)
}

// PrintResult writes a human-readable schedule table grouped by day,
// followed by the unassigned courses if any.
func PrintResult(w io.Writer, res *scheduler.Result) {
	for day := 1; day <= res.Grid.Days(); day++ {
		printedDay := false
		for period := 1; period <= res.Grid.PeriodsPerDay(); period++ {
			slot := model.TimeSlot{Day: day, Period: period}
			for _, c := range res.Grid.OccupantsOf(slot) {
				if !printedDay {
					printedDay = true
					fmt.Fprintf(w, "Day %d\n", day)
				}
				fmt.Fprintf(w, "  period %-3d %-24s %-18s [%s]\n",
					period, c.Name, c.Teacher, strings.Join(c.SectionList(), ","))
			}
		}
	}
	fmt.Fprintf(w, "Periods used: %d\n", res.Periods)
	if len(res.Unassigned) > 0 {
		fmt.Fprintf(w, "Unassigned (%d):\n", len(res.Unassigned))
		for _, c := range res.Unassigned {
			fmt.Fprintf(w, "  %s (%s)\n", c.Name, c.Teacher)
		}
	}
}

// formatResult flattens the grid day-major so exported files read like a
// week, one course per row, in placement order within each slot.
func formatResult(res *scheduler.Result) []*ResultRow {
	var rows []*ResultRow
	for day := 1; day <= res.Grid.Days(); day++ {
		for period := 1; period <= res.Grid.PeriodsPerDay(); period++ {
			slot := model.TimeSlot{Day: day, Period: period}
			for _, c := range res.Grid.OccupantsOf(slot) {
				rows = append(rows, &ResultRow{
					Day:      day,
					Period:   period,
					Course:   c.Name,
					Teacher:  c.Teacher,
					Sections: strings.Join(c.SectionList(), ","),
				})
			}
		}
	}
	return rows
}
