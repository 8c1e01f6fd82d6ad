// Package config loads docdash settings from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/docdash/internal/hierarchy"
	"github.com/itsmostafa/docdash/internal/runner"
)

// Config holds paths and tool settings for a dashboard run. Relative paths
// are resolved against the working directory, which is expected to be the
// root of the compiler checkout.
type Config struct {
	// SummaryPath is the table of contents of the book
	SummaryPath string `yaml:"summary_path"`
	// SourceRoot contains the documents the table of contents links to
	SourceRoot string `yaml:"source_root"`
	// ExtractRoot receives the extraction tool's output
	ExtractRoot string `yaml:"extract_root"`
	// DestRoot receives the reorganized examples; the test suite reads them
	// from DestRoot/<Root>
	DestRoot string `yaml:"dest_root"`
	// LogPath is where compiletest writes one result line per example
	LogPath string `yaml:"log_path"`

	Suite     string             `yaml:"suite"`
	Root      string             `yaml:"root"`
	Tag       string             `yaml:"tag"`
	Extension string             `yaml:"extension"`
	Preamble  hierarchy.Preamble `yaml:"preamble"`

	Rustdoc RustdocConfig `yaml:"rustdoc"`
	XPy     XPyConfig     `yaml:"xpy"`

	// UnwindExamples are examples, relative to DestRoot, that loop forever
	// unless the verifier bounds unwinding
	UnwindExamples []string `yaml:"unwind_examples"`
	UnwindHeader   string   `yaml:"unwind_header"`

	// HistoryDB is the SQLite database recording past runs; empty disables it
	HistoryDB string `yaml:"history_db"`
}

// RustdocConfig configures the extraction tool.
type RustdocConfig struct {
	Path        string `yaml:"path"`
	Toolchain   string `yaml:"toolchain"`
	TestBuilder string `yaml:"test_builder"`
}

// XPyConfig configures the test runner.
type XPyConfig struct {
	Path     string   `yaml:"path"`
	Stage    int      `yaml:"stage"`
	StripEnv []string `yaml:"strip_env"`
}

// DefaultConfig returns the layout of The Rust Reference dashboard inside
// the compiler repository.
func DefaultConfig() *Config {
	rustdoc := runner.DefaultRustdoc()
	xpy := runner.DefaultXPy()
	return &Config{
		SummaryPath: "src/doc/reference/src/SUMMARY.md",
		SourceRoot:  "src/doc/reference/src",
		ExtractRoot: "src/tools/dashboard/target/ref",
		DestRoot:    "src/test",
		LogPath:     "src/tools/dashboard/target/ref.log",
		Suite:       "ref",
		Root:        hierarchy.DefaultRoot,
		Tag:         "rmc",
		Extension:   "rs",
		Preamble:    hierarchy.DefaultPreamble(),
		Rustdoc: RustdocConfig{
			Path:        rustdoc.Path,
			Toolchain:   rustdoc.Toolchain,
			TestBuilder: rustdoc.TestBuilder,
		},
		XPy: XPyConfig{
			Path:     xpy.Path,
			Stage:    xpy.Stage,
			StripEnv: xpy.StripEnv,
		},
		UnwindExamples: []string{
			"ref/Appendices/Glossary/263.rs",
			"ref/Linkage/190.rs",
			"ref/Statements and expressions/Expressions/Loop expressions/133.rs",
			"ref/Statements and expressions/Expressions/Method call expressions/10.rs",
		},
		UnwindHeader: "// cbmc-flags: --unwind 1 --unwinding-assertions",
		HistoryDB:    "src/tools/dashboard/target/history.db",
	}
}

// LoadConfig reads a YAML config file. Returns DefaultConfig merged with the
// file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Load returns DefaultConfig when path is empty and LoadConfig otherwise.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return cfg, cfg.Validate()
	}
	return LoadConfig(path)
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"summary_path", c.SummaryPath},
		{"source_root", c.SourceRoot},
		{"extract_root", c.ExtractRoot},
		{"dest_root", c.DestRoot},
		{"log_path", c.LogPath},
		{"suite", c.Suite},
		{"root", c.Root},
		{"tag", c.Tag},
		{"extension", c.Extension},
		{"preamble.title", c.Preamble.Title},
		{"preamble.intro_path", c.Preamble.IntroPath},
		{"rustdoc.path", c.Rustdoc.Path},
		{"xpy.path", c.XPy.Path},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}
	if c.XPy.Stage < 0 {
		return fmt.Errorf("xpy.stage must be >= 0")
	}
	return nil
}

// RustdocTool returns the configured extraction tool.
func (c *Config) RustdocTool() runner.Rustdoc {
	return runner.Rustdoc{
		Path:        c.Rustdoc.Path,
		Toolchain:   c.Rustdoc.Toolchain,
		TestBuilder: c.Rustdoc.TestBuilder,
	}
}

// XPyTool returns the configured test runner.
func (c *Config) XPyTool() runner.XPy {
	return runner.XPy{
		Path:     c.XPy.Path,
		Stage:    c.XPy.Stage,
		StripEnv: c.XPy.StripEnv,
	}
}

// PathMapOptions returns the options for reading the table of contents.
func (c *Config) PathMapOptions() []hierarchy.Option {
	return []hierarchy.Option{
		hierarchy.WithRoot(c.Root),
		hierarchy.WithPreamble(c.Preamble),
	}
}
