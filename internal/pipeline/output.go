package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/docdash/internal/config"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// headerBoxStyle for the run header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// stageStyle for the active stage indicator
	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))
)

// FormatHeader renders the run header with configuration info
func FormatHeader(w io.Writer, cfg *config.Config, runID string) {
	content := fmt.Sprintf("%s %s  %s %s\n%s %s\n%s %s",
		dimStyle.Render("Suite:"), titleStyle.Render(cfg.Suite),
		dimStyle.Render("Run:"), runID,
		dimStyle.Render("Summary:"), cfg.SummaryPath,
		dimStyle.Render("Examples:"), cfg.DestRoot,
	)
	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatStage writes a stage progress line
func FormatStage(w io.Writer, stage, detail string) {
	indicator := stageStyle.Render("●")
	if detail != "" {
		fmt.Fprintf(w, "%s %s %s\n", indicator, stage, dimStyle.Render("("+detail+")"))
		return
	}
	fmt.Fprintf(w, "%s %s\n", indicator, stage)
}

