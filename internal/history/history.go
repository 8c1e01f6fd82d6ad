// Package history records dashboard results in SQLite so that runs can be
// compared over time.
//
// Usage:
//
//	store, err := history.Open("target/history.db")
//	defer store.Close()
//	err = store.Record(ctx, runID, "ref", tree)
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/itsmostafa/docdash/internal/dashboard"
	"github.com/itsmostafa/docdash/internal/version"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	suite      TEXT NOT NULL,
	total      INTEGER NOT NULL,
	pass       INTEGER NOT NULL,
	fail       INTEGER NOT NULL,
	version    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS run_nodes (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	path   TEXT NOT NULL,
	depth  INTEGER NOT NULL,
	pass   INTEGER NOT NULL,
	fail   INTEGER NOT NULL,
	PRIMARY KEY (run_id, path)
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Run is the root summary of one recorded dashboard.
type Run struct {
	ID        string
	StartedAt time.Time
	Suite     string
	Total     int
	Pass      int
	Fail      int
	// Version of docdash that recorded the run
	Version string
}

// NodeResult is the count of one dashboard node in a recorded run. Path
// joins the labels from the root with "/".
type NodeResult struct {
	Path  string
	Depth int
	Pass  int
	Fail  int
}

// Store persists dashboard runs.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the history database at path. Use ":memory:" in
// tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises
	// writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the counts of every node of tree under runID.
func (s *Store) Record(ctx context.Context, runID, suite string, tree *dashboard.Tree) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, suite, total, pass, fail, version) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, s.now().UnixMilli(), suite, tree.Total(), tree.Pass, tree.Fail, version.Version)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO run_nodes (run_id, path, depth, pass, fail) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("history: prepare: %w", err)
	}
	defer stmt.Close()

	var walkErr error
	tree.Walk(func(path []string, node *dashboard.Tree) {
		if walkErr != nil {
			return
		}
		_, walkErr = stmt.ExecContext(ctx, runID, strings.Join(path, "/"), len(path), node.Pass, node.Fail)
	})
	if walkErr != nil {
		return fmt.Errorf("history: insert nodes: %w", walkErr)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, suite, total, pass, fail, version FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt int64
		if err := rows.Scan(&r.ID, &startedAt, &r.Suite, &r.Total, &r.Pass, &r.Fail, &r.Version); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Nodes returns the recorded node counts of a run up to maxDepth (the root
// has depth 1). A maxDepth <= 0 returns every node.
func (s *Store) Nodes(ctx context.Context, runID string, maxDepth int) ([]NodeResult, error) {
	query := `SELECT path, depth, pass, fail FROM run_nodes WHERE run_id = ?`
	args := []any{runID}
	if maxDepth > 0 {
		query += ` AND depth <= ?`
		args = append(args, maxDepth)
	}
	query += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: nodes: %w", err)
	}
	defer rows.Close()

	var nodes []NodeResult
	for rows.Next() {
		var n NodeResult
		if err := rows.Scan(&n.Path, &n.Depth, &n.Pass, &n.Fail); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
