// Package organize re-files extracted examples under a directory tree that
// mirrors the chapter/section hierarchy of the documentation.
package organize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/itsmostafa/docdash/internal/extract"
	"github.com/itsmostafa/docdash/internal/hierarchy"
)

// EncodingLookupError reports an extraction directory whose decoded prefix
// matches no known document.
type EncodingLookupError struct {
	Dir    string
	Prefix string
}

func (e *EncodingLookupError) Error() string {
	return fmt.Sprintf("extracted directory %s: prefix %q does not match any document in the table of contents", e.Dir, e.Prefix)
}

// Collision records documents whose folded paths coincide. Examples of such
// documents cannot be told apart; the last document in sorted order wins.
type Collision struct {
	Prefix string
	Docs   []string
}

// ReverseLookup maps the folded path of every document, as the extraction
// tool would encode it, to the document's destination.
func ReverseLookup(pm hierarchy.PathMap, sourceRoot string) (map[string][]string, []Collision) {
	lookup := make(map[string][]string, pm.Len())
	owners := make(map[string][]string, pm.Len())

	pm.Each(func(doc string, dest []string) {
		prefix := extract.Fold(filepath.Join(sourceRoot, filepath.FromSlash(doc)))
		lookup[prefix] = dest
		owners[prefix] = append(owners[prefix], doc)
	})

	var collisions []Collision
	for prefix, docs := range owners {
		if len(docs) > 1 {
			collisions = append(collisions, Collision{Prefix: prefix, Docs: docs})
		}
	}
	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i].Prefix < collisions[j].Prefix
	})
	return lookup, collisions
}

// Options configures Organize.
type Options struct {
	// Ext is the extension given to relocated examples. Default: "rs".
	Ext string
	// Logger receives collision warnings and per-file debug output.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Ext == "" {
		o.Ext = "rs"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Relocation is one copied example.
type Relocation struct {
	From string
	To   string
}

// Report summarises an Organize run.
type Report struct {
	Relocated []Relocation
	// Empty lists extraction directories without examples, e.g. documents
	// whose examples are all ignored.
	Empty []string
	// Overwritten counts examples that replaced one copied earlier in the
	// same run because they share a document and line.
	Overwritten int
	Collisions  []Collision
}

// Organize copies one example per extraction directory under extractedRoot
// to destRoot/<destination>/<line>.<ext>. The example index is dropped.
func Organize(pm hierarchy.PathMap, sourceRoot, extractedRoot, destRoot string, opts Options) (Report, error) {
	opts.defaults()

	lookup, collisions := ReverseLookup(pm, sourceRoot)
	report := Report{Collisions: collisions}
	for _, c := range collisions {
		opts.Logger.Warn("documents share an encoded prefix", "prefix", c.Prefix, "docs", c.Docs)
	}

	dirs, err := os.ReadDir(extractedRoot)
	if err != nil {
		return report, fmt.Errorf("read extracted examples: %w", err)
	}

	written := make(map[string]bool)
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		dirPath := filepath.Join(extractedRoot, dir.Name())

		example, err := firstFile(dirPath)
		if err != nil {
			return report, err
		}
		if example == "" {
			report.Empty = append(report.Empty, dirPath)
			continue
		}

		name, err := extract.ParseEncodedName(dir.Name())
		if err != nil {
			return report, fmt.Errorf("extracted directory %s: %w", dirPath, err)
		}
		dest, ok := lookup[name.Prefix]
		if !ok {
			return report, &EncodingLookupError{Dir: dirPath, Prefix: name.Prefix}
		}

		parts := append([]string{destRoot}, dest...)
		parts = append(parts, strconv.Itoa(name.Line)+"."+opts.Ext)
		to := filepath.Join(parts...)

		if err := copyFile(example, to); err != nil {
			return report, err
		}
		if written[to] {
			report.Overwritten++
		}
		written[to] = true
		report.Relocated = append(report.Relocated, Relocation{From: example, To: to})
		opts.Logger.Debug("relocated example", "from", example, "to", to)
	}

	return report, nil
}

// firstFile returns the first regular file in dir in name order, or "" when
// there is none.
func firstFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read extracted directory: %w", err)
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", nil
}

func copyFile(from, to string) error {
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", to, err)
	}

	src, err := os.Open(from)
	if err != nil {
		return fmt.Errorf("failed to open example: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", to, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", from, to, err)
	}
	return dst.Close()
}
