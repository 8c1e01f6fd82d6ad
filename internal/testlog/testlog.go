// Package testlog reads the result log written by compiletest and folds it
// into a dashboard tree.
package testlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/itsmostafa/docdash/internal/dashboard"
)

// StatusOK marks a passing test; every other status is a failure.
const StatusOK = "ok"

// LogFormatError reports a log line that is not "<status> [tag] <path>".
type LogFormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *LogFormatError) Error() string {
	return fmt.Sprintf("log line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Options configures parsing.
type Options struct {
	// Tag is the bracketed mode tag between status and path. Default: "rmc".
	Tag string
	// Root is the label of the tree every line folds into. Default: "ref".
	Root string
}

func (o *Options) defaults() {
	if o.Tag == "" {
		o.Tag = "rmc"
	}
	if o.Root == "" {
		o.Root = "ref"
	}
}

// ParseLine splits a log line into the path segments of the test and its
// outcome. The trailing extension segment of the path is dropped.
func ParseLine(line, tag string) ([]string, bool, error) {
	sep := " [" + tag + "] "
	status, path, ok := strings.Cut(line, sep)
	if !ok {
		return nil, false, &LogFormatError{Text: line, Reason: fmt.Sprintf("missing %q separator", strings.TrimSpace(sep))}
	}
	if path == "" {
		return nil, false, &LogFormatError{Text: line, Reason: "empty test path"}
	}

	segments := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '.'
	})
	if len(segments) < 2 {
		return nil, false, &LogFormatError{Text: line, Reason: "test path has no segments before its extension"}
	}
	return segments[:len(segments)-1], status == StatusOK, nil
}

// Parse folds every line of r into a tree rooted at opts.Root. Any malformed
// line, a blank one included, aborts parsing.
func Parse(r io.Reader, opts Options) (*dashboard.Tree, error) {
	opts.defaults()

	tree := dashboard.New(opts.Root)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		segments, passed, err := ParseLine(line, opts.Tag)
		if err != nil {
			var lfe *LogFormatError
			if errors.As(err, &lfe) {
				lfe.Line = lineNum
			}
			return nil, err
		}

		leaf, err := dashboard.Leaf(segments, passed)
		if err != nil {
			return nil, fmt.Errorf("log line %d: %w", lineNum, err)
		}
		tree, err = dashboard.Merge(tree, leaf)
		if err != nil {
			return nil, fmt.Errorf("log line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	return tree, nil
}

// ParseLog opens the log at path and parses it.
func ParseLog(path string, opts Options) (*dashboard.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	defer f.Close()

	tree, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}
