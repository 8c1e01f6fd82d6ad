package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/itsmostafa/docdash/internal/runner"
)

// Tool builds the command that extracts the examples of one document.
type Tool interface {
	Name() string
	BuildCommand(doc, outputRoot string) runner.Command
}

// Locator runs the extraction tool once per document.
type Locator struct {
	Runner runner.Runner
	Tool   Tool
	Logger *slog.Logger
}

// Extract persists the examples of every document under outputRoot. Documents
// are processed one at a time in sorted order; the first failure aborts the
// run since a partial extraction would skew the dashboard.
func (l *Locator) Extract(ctx context.Context, docs []string, sourceRoot, outputRoot string) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sorted := append([]string(nil), docs...)
	sort.Strings(sorted)

	for i, doc := range sorted {
		path := filepath.Join(sourceRoot, filepath.FromSlash(doc))
		cmd := l.Tool.BuildCommand(path, outputRoot)
		logger.Debug("extracting examples",
			"tool", l.Tool.Name(),
			"doc", doc,
			"progress", fmt.Sprintf("%d/%d", i+1, len(sorted)),
		)
		if err := l.Runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("extract %s: %w", doc, err)
		}
	}
	return nil
}
