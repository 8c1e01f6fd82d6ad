package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	// Tool is a short human-readable name used in diagnostics (e.g. "rustdoc")
	Tool string
	// Path is the executable to run
	Path string
	// Args are passed to the executable as-is
	Args []string
	// Dir is the working directory; empty means the current one
	Dir string
	// Env replaces the inherited environment when non-nil
	Env []string
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Runner executes external tools. Implementations block until the tool
// exits.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// SubprocessError reports a tool that could not be started or exited with a
// non-zero status.
type SubprocessError struct {
	Command  Command
	ExitCode int
	Stderr   string
	Err      error
}

func (e *SubprocessError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Command.Tool)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s exited with status %d", e.Command.Tool, e.ExitCode)
	}
	msg += fmt.Sprintf(" (%s)", e.Command)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}

// maxStderrBytes bounds the stderr tail kept for diagnostics.
const maxStderrBytes = 4 * 1024

// ExecRunner runs tools with os/exec. Stdout is discarded; stderr is
// forwarded to Stderr when set and its tail is kept for error reports.
type ExecRunner struct {
	Stderr io.Writer
}

// Run starts the command and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdout = io.Discard

	tail := &tailBuffer{limit: maxStderrBytes}
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, tail)
	} else {
		cmd.Stderr = tail
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	subErr := &SubprocessError{
		Command:  c,
		ExitCode: -1,
		Stderr:   strings.TrimSpace(tail.String()),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		subErr.ExitCode = exitErr.ExitCode()
	}
	return subErr
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}

// FilterEnv returns environ without the variables whose names contain any of
// the given substrings.
func FilterEnv(environ []string, strip []string) []string {
	filtered := make([]string, 0, len(environ))
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if containsAny(key, strip) {
			continue
		}
		filtered = append(filtered, kv)
	}
	return filtered
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
