package history

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/itsmostafa/docdash/internal/dashboard"
	"github.com/itsmostafa/docdash/internal/version"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTree(t *testing.T) *dashboard.Tree {
	t.Helper()
	tree := dashboard.New("ref")
	for _, leaf := range []struct {
		path   []string
		passed bool
	}{
		{[]string{"ref", "Types", "integer", "5"}, true},
		{[]string{"ref", "Types", "integer", "9"}, false},
		{[]string{"ref", "Linkage", "190"}, true},
	} {
		l, err := dashboard.Leaf(leaf.path, leaf.passed)
		if err != nil {
			t.Fatal(err)
		}
		if tree, err = dashboard.Merge(tree, l); err != nil {
			t.Fatal(err)
		}
	}
	return tree
}

func TestRecordAndList(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	tree := sampleTree(t)
	if err := store.Record(ctx, "run-1", "ref", tree); err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}
	if err := store.Record(ctx, "run-2", "ref", dashboard.New("ref")); err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Errorf("expected newest run first, got %q", runs[0].ID)
	}
	if r := runs[1]; r.Total != 3 || r.Pass != 2 || r.Fail != 1 || r.Suite != "ref" || r.Version != version.Version {
		t.Errorf("run-1 = %+v", r)
	}
	if !runs[1].StartedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("StartedAt = %v", runs[1].StartedAt)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}

	t.Run("duplicate run id", func(t *testing.T) {
		if err := store.Record(ctx, "run-1", "ref", tree); err == nil {
			t.Error("expected error for duplicate run id")
		}
	})
}

func TestNodes(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()

	if err := store.Record(ctx, "run-1", "ref", sampleTree(t)); err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}

	all, err := store.Nodes(ctx, "run-1", 0)
	if err != nil {
		t.Fatalf("Nodes() unexpected error: %v", err)
	}
	// ref, Linkage, Linkage/190, Types, Types/integer, integer/5, integer/9
	if len(all) != 7 {
		t.Fatalf("expected 7 nodes, got %d: %+v", len(all), all)
	}
	if all[0].Path != "ref" || all[0].Depth != 1 || all[0].Pass != 2 || all[0].Fail != 1 {
		t.Errorf("root = %+v", all[0])
	}

	top, err := store.Nodes(ctx, "run-1", 2)
	if err != nil {
		t.Fatalf("Nodes() unexpected error: %v", err)
	}
	want := []NodeResult{
		{Path: "ref", Depth: 1, Pass: 2, Fail: 1},
		{Path: "ref/Linkage", Depth: 2, Pass: 1, Fail: 0},
		{Path: "ref/Types", Depth: 2, Pass: 1, Fail: 1},
	}
	if len(top) != len(want) {
		t.Fatalf("expected %d nodes, got %+v", len(want), top)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("node %d = %+v, want %+v", i, top[i], want[i])
		}
	}
}

func TestFormatTables(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()
	if err := store.Record(ctx, "run-1", "ref", sampleTree(t)); err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	var buf bytes.Buffer
	FormatRuns(&buf, runs)
	for _, want := range []string{"RUN", "SUITE", "VERSION", "run-1", version.Version} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("runs table missing %q:\n%s", want, buf.String())
		}
	}

	nodes, err := store.Nodes(ctx, "run-1", 2)
	if err != nil {
		t.Fatalf("Nodes() unexpected error: %v", err)
	}
	buf.Reset()
	FormatNodes(&buf, nodes)
	got := buf.String()
	for _, want := range []string{"PATH", "ref/Linkage", "ref/Types"} {
		if !strings.Contains(got, want) {
			t.Errorf("nodes table missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ref/Types/integer") {
		t.Errorf("nodes table shows rows below the depth limit:\n%s", got)
	}

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		FormatRuns(&buf, nil)
		if !strings.Contains(buf.String(), "RUN") {
			t.Errorf("expected headers for an empty table, got:\n%s", buf.String())
		}
	})
}
