package dashboard

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/disiqueira/gotree/v3"
)

var (
	// dimStyle for labels in the summary line
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// passStyle for pass counts
	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// failStyle for fail counts
	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// labelStyle for chapter and section titles
	labelStyle = lipgloss.NewStyle().
			Bold(true)
)

// Summary returns the one-line totals for the root of the tree.
func Summary(t *Tree) string {
	return fmt.Sprintf("%s %d\t%s %d\t%s %d",
		dimStyle.Render("# of tests:"), t.Total(),
		dimStyle.Render("pass"), t.Pass,
		dimStyle.Render("fail"), t.Fail,
	)
}

// Render writes the summary line followed by the tree.
func Render(w io.Writer, t *Tree) {
	fmt.Fprintln(w, Summary(t))
	fmt.Fprint(w, Visual(t).Print())
}

// Visual converts the dashboard into a printable gotree.
func Visual(t *Tree) gotree.Tree {
	root := gotree.New(nodeText(t))
	addChildren(root, t)
	return root
}

func addChildren(parent gotree.Tree, t *Tree) {
	for _, child := range t.Children {
		addChildren(parent.Add(nodeText(child)), child)
	}
}

func nodeText(t *Tree) string {
	pass := passStyle.Render(fmt.Sprintf("✔ %d", t.Pass))
	fail := failStyle.Render(fmt.Sprintf("✘ %d", t.Fail))
	if t.Fail == 0 {
		fail = dimStyle.Render(fmt.Sprintf("✘ %d", t.Fail))
	}
	return fmt.Sprintf("%s  %s  %s", labelStyle.Render(t.Label), pass, fail)
}
