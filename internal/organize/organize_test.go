package organize

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/itsmostafa/docdash/internal/hierarchy"
)

const summary = "# The Rust Reference\n\n[Introduction](introduction.md)\n\n" +
	"- Types\n" +
	"    - [Integer types](types/integer.md)\n" +
	"    - [Float types](types/float.md)\n"

func pathMap(t *testing.T, src string) hierarchy.PathMap {
	t.Helper()
	pm, err := hierarchy.BuildPathMap([]byte(src))
	if err != nil {
		t.Fatalf("BuildPathMap() unexpected error: %v", err)
	}
	return pm
}

// writeExample creates extractedRoot/dir/name with the given content.
func writeExample(t *testing.T, root, dir, name, content string) {
	t.Helper()
	path := filepath.Join(root, dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	return string(data)
}

func TestReverseLookup(t *testing.T) {
	pm := pathMap(t, summary)
	lookup, collisions := ReverseLookup(pm, "ref")

	want := map[string][]string{
		"ref_introduction_md":  {"ref", "Introduction"},
		"ref_types_integer_md": {"ref", "Types", "Integer types"},
		"ref_types_float_md":   {"ref", "Types", "Float types"},
	}
	if !reflect.DeepEqual(lookup, want) {
		t.Errorf("ReverseLookup() = %v, want %v", lookup, want)
	}
	if len(collisions) != 0 {
		t.Errorf("unexpected collisions: %v", collisions)
	}

	t.Run("colliding documents are reported", func(t *testing.T) {
		src := "# The Rust Reference\n\n[Introduction](introduction.md)\n\n" +
			"- [Dashed](a-b.md)\n" +
			"- [Nested](a/b.md)\n"
		_, collisions := ReverseLookup(pathMap(t, src), "src")
		if len(collisions) != 1 {
			t.Fatalf("expected 1 collision, got %v", collisions)
		}
		if collisions[0].Prefix != "src_a_b_md" || len(collisions[0].Docs) != 2 {
			t.Errorf("unexpected collision: %+v", collisions[0])
		}
	})
}

func TestOrganize(t *testing.T) {
	pm := pathMap(t, summary)

	t.Run("relocates one example per directory", func(t *testing.T) {
		extracted := t.TempDir()
		dest := t.TempDir()
		writeExample(t, extracted, "ref_types_integer_md_5_0", "rust_out", "fn main() { let x: u8 = 5; }")
		writeExample(t, extracted, "ref_types_float_md_12_0", "rust_out", "fn main() { let y = 1.0; }")
		writeExample(t, extracted, "ref_introduction_md_3_0", "a_first", "first")
		writeExample(t, extracted, "ref_introduction_md_3_0", "b_second", "second")
		if err := os.MkdirAll(filepath.Join(extracted, "ref_types_float_md_40_0"), 0755); err != nil {
			t.Fatal(err)
		}

		report, err := Organize(pm, "ref", extracted, dest, Options{})
		if err != nil {
			t.Fatalf("Organize() unexpected error: %v", err)
		}

		got := readFile(t, filepath.Join(dest, "ref", "Types", "Integer types", "5.rs"))
		if got != "fn main() { let x: u8 = 5; }" {
			t.Errorf("unexpected content: %q", got)
		}
		readFile(t, filepath.Join(dest, "ref", "Types", "Float types", "12.rs"))
		if got := readFile(t, filepath.Join(dest, "ref", "Introduction", "3.rs")); got != "first" {
			t.Errorf("expected the first artifact to be used, got %q", got)
		}

		if len(report.Relocated) != 3 {
			t.Errorf("expected 3 relocations, got %d", len(report.Relocated))
		}
		if len(report.Empty) != 1 || !strings.HasSuffix(report.Empty[0], "ref_types_float_md_40_0") {
			t.Errorf("unexpected empty directories: %v", report.Empty)
		}
		if report.Overwritten != 0 {
			t.Errorf("Overwritten = %d, want 0", report.Overwritten)
		}
	})

	t.Run("same line overwrites silently", func(t *testing.T) {
		extracted := t.TempDir()
		dest := t.TempDir()
		writeExample(t, extracted, "ref_types_integer_md_5_0", "rust_out", "index 0")
		writeExample(t, extracted, "ref_types_integer_md_5_1", "rust_out", "index 1")

		report, err := Organize(pm, "ref", extracted, dest, Options{Ext: "txt"})
		if err != nil {
			t.Fatalf("Organize() unexpected error: %v", err)
		}
		got := readFile(t, filepath.Join(dest, "ref", "Types", "Integer types", "5.txt"))
		if got != "index 1" {
			t.Errorf("expected the later example to win, got %q", got)
		}
		if report.Overwritten != 1 {
			t.Errorf("Overwritten = %d, want 1", report.Overwritten)
		}
	})

	t.Run("unknown prefix", func(t *testing.T) {
		extracted := t.TempDir()
		writeExample(t, extracted, "ref_types_string_md_7_0", "rust_out", "")

		_, err := Organize(pm, "ref", extracted, t.TempDir(), Options{})
		var lookupErr *EncodingLookupError
		if !errors.As(err, &lookupErr) {
			t.Fatalf("expected EncodingLookupError, got %v", err)
		}
		if lookupErr.Prefix != "ref_types_string_md" {
			t.Errorf("Prefix = %q", lookupErr.Prefix)
		}
	})

	t.Run("malformed directory name", func(t *testing.T) {
		extracted := t.TempDir()
		writeExample(t, extracted, "not-encoded", "rust_out", "")

		if _, err := Organize(pm, "ref", extracted, t.TempDir(), Options{}); err == nil {
			t.Error("expected an error for a malformed directory name")
		}
	})

	t.Run("missing extracted root", func(t *testing.T) {
		if _, err := Organize(pm, "ref", filepath.Join(t.TempDir(), "missing"), t.TempDir(), Options{}); err == nil {
			t.Error("expected an error for a missing directory")
		}
	})
}

func TestPreprocess(t *testing.T) {
	dest := t.TempDir()
	example := "ref/Linkage/190.rs"
	path := filepath.Join(dest, "ref", "Linkage", "190.rs")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("fn main() { loop {} }\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := Preprocess(dest, []string{example}, ""); err != nil {
			t.Fatalf("Preprocess() unexpected error: %v", err)
		}
	}
	want := DefaultUnwindHeader + "\nfn main() { loop {} }\n"
	if got := readFile(t, path); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	t.Run("missing example", func(t *testing.T) {
		if err := Preprocess(dest, []string{"ref/Nope/1.rs"}, ""); err == nil {
			t.Error("expected an error for a missing example")
		}
	})
}
