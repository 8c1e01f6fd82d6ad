package runner

import (
	"os"
	"strconv"
)

// Rustdoc builds extraction commands for rustdoc's doctest persistence.
type Rustdoc struct {
	// Path to the rustdoc binary
	Path string
	// Toolchain selects a rustup toolchain (e.g. "+nightly"); empty for none
	Toolchain string
	// TestBuilder is the program rustdoc calls instead of linking, so that
	// compiled examples are only printed
	TestBuilder string
}

// DefaultRustdoc returns the nightly rustdoc with the dashboard's print
// script as test builder.
func DefaultRustdoc() Rustdoc {
	return Rustdoc{
		Path:        "rustdoc",
		Toolchain:   "+nightly",
		TestBuilder: "src/tools/dashboard/print.sh",
	}
}

// Name returns the tool name
func (r Rustdoc) Name() string {
	return "rustdoc"
}

// BuildCommand extracts the examples of doc into outputRoot without running
// them.
func (r Rustdoc) BuildCommand(doc, outputRoot string) Command {
	var args []string
	if r.Toolchain != "" {
		args = append(args, r.Toolchain)
	}
	args = append(args,
		"--test",
		"-Z", "unstable-options",
		doc,
		"--test-builder", r.TestBuilder,
		"--persist-doctests", outputRoot,
		"--no-run",
	)
	return Command{Tool: r.Name(), Path: r.Path, Args: args}
}

// XPy builds compiletest invocations through the x.py bootstrap script.
type XPy struct {
	// Path to the bootstrap script
	Path string
	// Stage is the compiler build stage to test with
	Stage int
	// StripEnv lists substrings of variable names removed from the inherited
	// environment so that x.py does not rebuild the compiler
	StripEnv []string
}

// DefaultXPy returns ./x.py at stage 1, dropping cargo and rustc variables.
func DefaultXPy() XPy {
	return XPy{
		Path:     "./x.py",
		Stage:    1,
		StripEnv: []string{"CARGO", "LD_LIBRARY_PATH", "RUST"},
	}
}

// Name returns the tool name
func (x XPy) Name() string {
	return "x.py"
}

// BuildCommand runs suite incrementally and writes one result line per test
// to logPath.
func (x XPy) BuildCommand(suite, logPath string) Command {
	return Command{
		Tool: x.Name(),
		Path: x.Path,
		Args: []string{
			"test", suite,
			"-i",
			"--stage", strconv.Itoa(x.Stage),
			"--test-args", "--logfile",
			"--test-args", logPath,
		},
		Env: FilterEnv(os.Environ(), x.StripEnv),
	}
}
