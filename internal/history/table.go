package history

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	// headerStyle for table column names
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	// cellStyle for table rows
	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// borderStyle for table rules
	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// FormatRuns writes recorded runs as a table, one row per run.
func FormatRuns(w io.Writer, runs []Run) {
	t := newTable("RUN", "STARTED", "SUITE", "TOTAL", "PASS", "FAIL", "VERSION")
	for _, r := range runs {
		t.Row(
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Suite,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Pass),
			strconv.Itoa(r.Fail),
			r.Version,
		)
	}
	fmt.Fprintln(w, t.Render())
}

// FormatNodes writes the node counts of one run as a table.
func FormatNodes(w io.Writer, nodes []NodeResult) {
	t := newTable("PATH", "PASS", "FAIL")
	for _, n := range nodes {
		t.Row(n.Path, strconv.Itoa(n.Pass), strconv.Itoa(n.Fail))
	}
	fmt.Fprintln(w, t.Render())
}
