package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFilterEnv(t *testing.T) {
	environ := []string{
		"PATH=/usr/bin",
		"HOME=/home/dev",
		"CARGO_HOME=/home/dev/.cargo",
		"CARGO=/usr/bin/cargo",
		"LD_LIBRARY_PATH=/opt/lib",
		"RUSTFLAGS=-Dwarnings",
		"__CARGO_FIX_PLZ=1",
		"MY_VAR=RUST",
		"EMPTY=",
	}

	got := FilterEnv(environ, []string{"CARGO", "LD_LIBRARY_PATH", "RUST"})
	want := []string{"PATH=/usr/bin", "HOME=/home/dev", "MY_VAR=RUST", "EMPTY="}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterEnv() = %v, want %v", got, want)
	}

	t.Run("empty substrings strip nothing", func(t *testing.T) {
		got := FilterEnv(environ, []string{""})
		if len(got) != len(environ) {
			t.Errorf("expected %d vars, got %d", len(environ), len(got))
		}
	})
}

func TestRustdocBuildCommand(t *testing.T) {
	tool := DefaultRustdoc()
	cmd := tool.BuildCommand("src/doc/reference/src/types/integer.md", "target/ref")

	if cmd.Tool != "rustdoc" || cmd.Path != "rustdoc" {
		t.Errorf("unexpected tool: %+v", cmd)
	}
	want := []string{
		"+nightly", "--test", "-Z", "unstable-options",
		"src/doc/reference/src/types/integer.md",
		"--test-builder", "src/tools/dashboard/print.sh",
		"--persist-doctests", "target/ref",
		"--no-run",
	}
	if !reflect.DeepEqual(cmd.Args, want) {
		t.Errorf("Args = %v, want %v", cmd.Args, want)
	}
	if cmd.Env != nil {
		t.Error("rustdoc should inherit the environment")
	}

	t.Run("without toolchain", func(t *testing.T) {
		tool.Toolchain = ""
		cmd := tool.BuildCommand("a.md", "out")
		if cmd.Args[0] != "--test" {
			t.Errorf("expected --test first, got %v", cmd.Args)
		}
	})
}

func TestXPyBuildCommand(t *testing.T) {
	t.Setenv("CARGO_TARGET_DIR", "/tmp/target")
	t.Setenv("DOCDASH_KEEP", "1")

	cmd := DefaultXPy().BuildCommand("ref", "target/ref.log")
	want := []string{
		"test", "ref", "-i", "--stage", "1",
		"--test-args", "--logfile", "--test-args", "target/ref.log",
	}
	if !reflect.DeepEqual(cmd.Args, want) {
		t.Errorf("Args = %v, want %v", cmd.Args, want)
	}
	env := strings.Join(cmd.Env, "\n")
	if strings.Contains(env, "CARGO_TARGET_DIR") {
		t.Error("CARGO_TARGET_DIR should have been stripped")
	}
	if !strings.Contains(env, "DOCDASH_KEEP=1") {
		t.Error("DOCDASH_KEEP should have been kept")
	}
	if cmd.String() != "./x.py "+strings.Join(want, " ") {
		t.Errorf("String() = %q", cmd.String())
	}
}

func TestExecRunner(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	r := &ExecRunner{}
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		dir := t.TempDir()
		marker := filepath.Join(dir, "ran")
		err := r.Run(ctx, Command{Tool: "sh", Path: sh, Args: []string{"-c", "echo out; touch " + marker}})
		if err != nil {
			t.Fatalf("Run() unexpected error: %v", err)
		}
		if _, err := os.Stat(marker); err != nil {
			t.Errorf("command did not run: %v", err)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		err := r.Run(ctx, Command{Tool: "sh", Path: sh, Args: []string{"-c", "echo broken >&2; exit 3"}})
		var subErr *SubprocessError
		if !errors.As(err, &subErr) {
			t.Fatalf("expected SubprocessError, got %v", err)
		}
		if subErr.ExitCode != 3 {
			t.Errorf("ExitCode = %d, want 3", subErr.ExitCode)
		}
		if subErr.Stderr != "broken" {
			t.Errorf("Stderr = %q, want %q", subErr.Stderr, "broken")
		}
		if !strings.Contains(err.Error(), "status 3") {
			t.Errorf("error should mention the status: %v", err)
		}
	})

	t.Run("missing executable", func(t *testing.T) {
		err := r.Run(ctx, Command{Tool: "nope", Path: filepath.Join(t.TempDir(), "nope")})
		var subErr *SubprocessError
		if !errors.As(err, &subErr) {
			t.Fatalf("expected SubprocessError, got %v", err)
		}
		if subErr.ExitCode != -1 {
			t.Errorf("ExitCode = %d, want -1", subErr.ExitCode)
		}
	})

	t.Run("environment replaced", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "env")
		err := r.Run(ctx, Command{
			Tool: "sh",
			Path: sh,
			Args: []string{"-c", "echo \"$ONLY\" > " + out},
			Env:  []string{"ONLY=yes"},
		})
		if err != nil {
			t.Fatalf("Run() unexpected error: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(string(data)) != "yes" {
			t.Errorf("env not passed: %q", data)
		}
	})
}

func TestTailBuffer(t *testing.T) {
	tail := &tailBuffer{limit: 4}
	tail.Write([]byte("abc"))
	tail.Write([]byte("defg"))
	if tail.String() != "defg" {
		t.Errorf("String() = %q, want %q", tail.String(), "defg")
	}
}
