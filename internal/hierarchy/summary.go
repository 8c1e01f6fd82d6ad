// Package hierarchy derives the chapter/section hierarchy of a book from its
// table of contents and maps every linked document onto it.
package hierarchy

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// DefaultRoot is the first segment of every destination path.
const DefaultRoot = "ref"

// Preamble is the fixed start of the table of contents: a title heading
// followed by a link to the introduction.
type Preamble struct {
	Title      string `yaml:"title"`
	IntroTitle string `yaml:"intro_title"`
	IntroPath  string `yaml:"intro_path"`
}

// DefaultPreamble returns the preamble of The Rust Reference.
func DefaultPreamble() Preamble {
	return Preamble{
		Title:      "The Rust Reference",
		IntroTitle: "Introduction",
		IntroPath:  "introduction.md",
	}
}

// Markdown renders the exact text the table of contents must start with.
func (p Preamble) Markdown() string {
	return fmt.Sprintf("# %s\n\n[%s](%s)", p.Title, p.IntroTitle, p.IntroPath)
}

// FormatError reports a table of contents whose preamble changed.
type FormatError struct {
	Path string
	Want string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("table of contents does not start with %q", e.Want)
	}
	return fmt.Sprintf("table of contents %s does not start with %q", e.Path, e.Want)
}

type options struct {
	root     string
	preamble Preamble
}

// Option customises BuildPathMap.
type Option func(*options)

// WithRoot sets the root label of destination paths. Default: "ref".
func WithRoot(root string) Option { return func(o *options) { o.root = root } }

// WithPreamble sets the expected preamble. Default: DefaultPreamble().
func WithPreamble(p Preamble) Option { return func(o *options) { o.preamble = p } }

func newOptions(opts []Option) options {
	o := options{root: DefaultRoot, preamble: DefaultPreamble()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BuildPathMap parses a table of contents and maps each linked document to
// its destination path. The introduction is mapped to [root, IntroTitle]
// before the rest of the outline is read.
func BuildPathMap(src []byte, opts ...Option) (PathMap, error) {
	entries, o, err := outlineEntries(src, opts)
	if err != nil {
		return PathMap{}, err
	}
	seed := map[string][]string{
		o.preamble.IntroPath: {o.root, o.preamble.IntroTitle},
	}
	return fold(entries, o.root, seed), nil
}

// ParseSummary reads the table of contents at path and builds its PathMap.
func ParseSummary(path string, opts ...Option) (PathMap, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return PathMap{}, fmt.Errorf("read table of contents: %w", err)
	}
	pm, err := BuildPathMap(src, opts...)
	var fe *FormatError
	if errors.As(err, &fe) {
		fe.Path = path
	}
	return pm, err
}

// outlineEntries checks the preamble and returns the entries that follow it.
func outlineEntries(src []byte, opts []Option) ([]Entry, options, error) {
	o := newOptions(opts)
	start := o.preamble.Markdown()
	if !bytes.HasPrefix(src, []byte(start)) {
		return nil, o, &FormatError{Want: start}
	}
	skip := len(Events([]byte(start)))
	events := Events(src)
	if skip > len(events) {
		skip = len(events)
	}
	return Entries(events[skip:]), o, nil
}
