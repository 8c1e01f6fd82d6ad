// Package pipeline runs the dashboard stages in order: map the hierarchy,
// extract examples, organize them, run the test suite and read its log.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/itsmostafa/docdash/internal/config"
	"github.com/itsmostafa/docdash/internal/dashboard"
	"github.com/itsmostafa/docdash/internal/extract"
	"github.com/itsmostafa/docdash/internal/hierarchy"
	"github.com/itsmostafa/docdash/internal/organize"
	"github.com/itsmostafa/docdash/internal/runner"
	"github.com/itsmostafa/docdash/internal/testlog"
)

// Stage names used in logs and error messages
const (
	StageMap        = "map hierarchy"
	StageExtract    = "extract examples"
	StageOrganize   = "organize examples"
	StagePreprocess = "preprocess examples"
	StageTest       = "run examples"
	StageParse      = "parse log"
	StageRecord     = "record history"
)

// StageError identifies the stage a run failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Recorder stores finished dashboards.
type Recorder interface {
	Record(ctx context.Context, runID, suite string, tree *dashboard.Tree) error
}

// Pipeline holds everything a dashboard run needs.
type Pipeline struct {
	Config *config.Config
	Runner runner.Runner
	Logger *slog.Logger
	// Output receives the header and the rendered dashboard
	Output io.Writer
	// History is optional
	History Recorder
	// Clean removes stale extraction output before extracting
	Clean bool

	runID string
}

// Result is the outcome of a full run.
type Result struct {
	RunID     string
	PathMap   hierarchy.PathMap
	Organized organize.Report
	Dashboard *dashboard.Tree
}

func (p *Pipeline) defaults() {
	if p.Config == nil {
		p.Config = config.DefaultConfig()
	}
	if p.Runner == nil {
		p.Runner = &runner.ExecRunner{Stderr: os.Stderr}
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Output == nil {
		p.Output = os.Stdout
	}
	if p.runID == "" {
		p.runID = uuid.New().String()
		p.Logger = p.Logger.With("run_id", p.runID)
	}
}

// Run executes every stage in order and displays the dashboard. Each stage
// must succeed before the next starts.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.defaults()
	cfg := p.Config
	FormatHeader(p.Output, cfg, p.runID)

	pm, err := p.MapHierarchy()
	if err != nil {
		return nil, err
	}
	if err := p.Extract(ctx, pm); err != nil {
		return nil, err
	}
	report, err := p.Organize(pm)
	if err != nil {
		return nil, err
	}
	if err := p.Preprocess(); err != nil {
		return nil, err
	}
	if err := p.RunTests(ctx); err != nil {
		return nil, err
	}
	tree, err := p.ParseLog()
	if err != nil {
		return nil, err
	}

	dashboard.Render(p.Output, tree)

	if err := p.Record(ctx, tree); err != nil {
		return nil, err
	}

	return &Result{RunID: p.runID, PathMap: pm, Organized: report, Dashboard: tree}, nil
}

// Report parses an existing log and displays it without running any tool.
func (p *Pipeline) Report(ctx context.Context) (*dashboard.Tree, error) {
	p.defaults()
	tree, err := p.ParseLog()
	if err != nil {
		return nil, err
	}
	dashboard.Render(p.Output, tree)
	return tree, nil
}

// MapHierarchy reads the table of contents.
func (p *Pipeline) MapHierarchy() (hierarchy.PathMap, error) {
	p.defaults()
	cfg := p.Config
	logger := p.Logger.With("stage", StageMap)

	pm, err := hierarchy.ParseSummary(cfg.SummaryPath, cfg.PathMapOptions()...)
	if err != nil {
		return hierarchy.PathMap{}, &StageError{Stage: StageMap, Err: err}
	}
	logger.Info("mapped documents", "summary", cfg.SummaryPath, "docs", pm.Len())
	return pm, nil
}

// Extract runs the extraction tool for every mapped document.
func (p *Pipeline) Extract(ctx context.Context, pm hierarchy.PathMap) error {
	p.defaults()
	cfg := p.Config
	logger := p.Logger.With("stage", StageExtract)

	if p.Clean {
		if err := os.RemoveAll(cfg.ExtractRoot); err != nil {
			return &StageError{Stage: StageExtract, Err: fmt.Errorf("failed to clean %s: %w", cfg.ExtractRoot, err)}
		}
		logger.Debug("removed previous extraction output", "dir", cfg.ExtractRoot)
	}
	if err := os.MkdirAll(cfg.ExtractRoot, 0755); err != nil {
		return &StageError{Stage: StageExtract, Err: fmt.Errorf("failed to create %s: %w", cfg.ExtractRoot, err)}
	}

	FormatStage(p.Output, StageExtract, fmt.Sprintf("%d documents", pm.Len()))
	loc := &extract.Locator{Runner: p.Runner, Tool: cfg.RustdocTool(), Logger: logger}
	if err := loc.Extract(ctx, pm.Docs(), cfg.SourceRoot, cfg.ExtractRoot); err != nil {
		return &StageError{Stage: StageExtract, Err: err}
	}
	logger.Info("extracted examples", "output", cfg.ExtractRoot)
	return nil
}

// Organize re-files the extracted examples by chapter and section.
func (p *Pipeline) Organize(pm hierarchy.PathMap) (organize.Report, error) {
	p.defaults()
	cfg := p.Config
	logger := p.Logger.With("stage", StageOrganize)

	report, err := organize.Organize(pm, cfg.SourceRoot, cfg.ExtractRoot, cfg.DestRoot, organize.Options{
		Ext:    cfg.Extension,
		Logger: logger,
	})
	if err != nil {
		return report, &StageError{Stage: StageOrganize, Err: err}
	}
	logger.Info("organized examples",
		"relocated", len(report.Relocated),
		"empty", len(report.Empty),
		"overwritten", report.Overwritten,
		"collisions", len(report.Collisions),
	)
	return report, nil
}

// Preprocess marks the examples known to loop forever.
func (p *Pipeline) Preprocess() error {
	p.defaults()
	cfg := p.Config
	if len(cfg.UnwindExamples) == 0 {
		return nil
	}
	if err := organize.Preprocess(cfg.DestRoot, cfg.UnwindExamples, cfg.UnwindHeader); err != nil {
		return &StageError{Stage: StagePreprocess, Err: err}
	}
	p.Logger.Info("preprocessed examples", "stage", StagePreprocess, "count", len(cfg.UnwindExamples))
	return nil
}

// RunTests runs the suite over the organized examples.
func (p *Pipeline) RunTests(ctx context.Context) error {
	p.defaults()
	cfg := p.Config
	logger := p.Logger.With("stage", StageTest)

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0755); err != nil {
		return &StageError{Stage: StageTest, Err: fmt.Errorf("failed to create log directory: %w", err)}
	}
	// A log left by an earlier run must not be read as this run's results.
	if err := os.Remove(cfg.LogPath); err != nil && !os.IsNotExist(err) {
		return &StageError{Stage: StageTest, Err: fmt.Errorf("failed to remove previous log: %w", err)}
	}

	FormatStage(p.Output, StageTest, cfg.Suite)
	cmd := cfg.XPyTool().BuildCommand(cfg.Suite, cfg.LogPath)
	logger.Debug("running test suite", "command", cmd.String())
	if err := p.Runner.Run(ctx, cmd); err != nil {
		return &StageError{Stage: StageTest, Err: err}
	}
	logger.Info("ran test suite", "suite", cfg.Suite, "log", cfg.LogPath)
	return nil
}

// ParseLog reads the suite's result log into a dashboard.
func (p *Pipeline) ParseLog() (*dashboard.Tree, error) {
	p.defaults()
	cfg := p.Config

	tree, err := testlog.ParseLog(cfg.LogPath, testlog.Options{Tag: cfg.Tag, Root: cfg.Root})
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}
	p.Logger.Info("parsed log", "stage", StageParse, "total", tree.Total(), "pass", tree.Pass, "fail", tree.Fail)
	return tree, nil
}

// Record stores the dashboard when a history store is configured.
func (p *Pipeline) Record(ctx context.Context, tree *dashboard.Tree) error {
	p.defaults()
	if p.History == nil {
		return nil
	}
	if err := p.History.Record(ctx, p.runID, p.Config.Suite, tree); err != nil {
		return &StageError{Stage: StageRecord, Err: err}
	}
	p.Logger.Debug("recorded run", "stage", StageRecord)
	return nil
}
