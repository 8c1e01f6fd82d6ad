// Package dashboard aggregates per-example pass/fail results into a tree that
// mirrors the chapter/section hierarchy of the documentation.
package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Node holds the label and pass/fail counts of a dashboard entry.
type Node struct {
	Label string
	Pass  int
	Fail  int
}

// Tree is a node plus its children. For every internal node, Pass and Fail
// equal the sums over its children.
//
// Trees are treated as values: Leaf and Merge never mutate their inputs, and
// merged trees may share unchanged subtrees with them.
type Tree struct {
	Node
	Children []*Tree
}

// LabelMismatchError is returned when merging trees whose roots differ.
type LabelMismatchError struct {
	Left  string
	Right string
}

func (e *LabelMismatchError) Error() string {
	return fmt.Sprintf("cannot merge trees with different root labels: %q and %q", e.Left, e.Right)
}

// ErrEmptyPath is returned by Leaf when called without labels.
var ErrEmptyPath = errors.New("leaf path must contain at least one label")

// New returns a childless tree with zero counts.
func New(label string) *Tree {
	return &Tree{Node: Node{Label: label}}
}

// Leaf builds a single chain from path[0] down to path[len(path)-1]. The
// deepest node records the test outcome and every ancestor carries the same
// counts.
func Leaf(path []string, passed bool) (*Tree, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	pass, fail := 0, 1
	if passed {
		pass, fail = 1, 0
	}

	tree := &Tree{Node: Node{Label: path[len(path)-1], Pass: pass, Fail: fail}}
	for i := len(path) - 2; i >= 0; i-- {
		tree = &Tree{
			Node:     Node{Label: path[i], Pass: tree.Pass, Fail: tree.Fail},
			Children: []*Tree{tree},
		}
	}
	return tree, nil
}

// Merge combines two trees with the same root label. Counts are summed,
// children with matching labels are merged recursively and children present
// on one side only are carried over as they are.
//
// Merging the same tree twice counts it twice.
func Merge(a, b *Tree) (*Tree, error) {
	if a.Label != b.Label {
		return nil, &LabelMismatchError{Left: a.Label, Right: b.Label}
	}

	merged := &Tree{
		Node: Node{
			Label: a.Label,
			Pass:  a.Pass + b.Pass,
			Fail:  a.Fail + b.Fail,
		},
	}

	index := make(map[string]*Tree, len(b.Children))
	for _, child := range b.Children {
		index[child.Label] = child
	}

	for _, child := range a.Children {
		other, ok := index[child.Label]
		if !ok {
			merged.Children = append(merged.Children, child)
			continue
		}
		delete(index, child.Label)
		sub, err := Merge(child, other)
		if err != nil {
			return nil, err
		}
		merged.Children = append(merged.Children, sub)
	}
	for _, child := range b.Children {
		if _, ok := index[child.Label]; ok {
			merged.Children = append(merged.Children, child)
		}
	}

	sortChildren(merged.Children)
	return merged, nil
}

// sortChildren orders siblings by label, comparing numerically when both
// labels are line numbers so that "9" sorts before "10".
func sortChildren(children []*Tree) {
	sort.SliceStable(children, func(i, j int) bool {
		return labelLess(children[i].Label, children[j].Label)
	})
}

func labelLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// Total returns the number of tests counted at this node.
func (t *Tree) Total() int {
	return t.Pass + t.Fail
}

// Child returns the direct child with the given label.
func (t *Tree) Child(label string) (*Tree, bool) {
	for _, child := range t.Children {
		if child.Label == label {
			return child, true
		}
	}
	return nil, false
}

// Find follows labels below t and returns the node they lead to.
func (t *Tree) Find(labels ...string) (*Tree, bool) {
	node := t
	for _, label := range labels {
		next, ok := node.Child(label)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Walk traverses the tree depth-first, calling fn with each node and the
// labels leading to it (including its own).
func (t *Tree) Walk(fn func(path []string, node *Tree)) {
	var walk func(prefix []string, node *Tree)
	walk = func(prefix []string, node *Tree) {
		path := append(append([]string(nil), prefix...), node.Label)
		fn(path, node)
		for _, child := range node.Children {
			walk(path, child)
		}
	}
	walk(nil, t)
}

// Check verifies that counts are non-negative and that every internal node
// carries the sum of its children's counts.
func (t *Tree) Check() error {
	var err error
	t.Walk(func(path []string, node *Tree) {
		if err != nil {
			return
		}
		if node.Pass < 0 || node.Fail < 0 {
			err = fmt.Errorf("negative counts at %v: pass=%d fail=%d", path, node.Pass, node.Fail)
			return
		}
		if len(node.Children) == 0 {
			return
		}
		pass, fail := 0, 0
		for _, child := range node.Children {
			pass += child.Pass
			fail += child.Fail
		}
		if pass != node.Pass || fail != node.Fail {
			err = fmt.Errorf("counts at %v are pass=%d fail=%d, children sum to pass=%d fail=%d",
				path, node.Pass, node.Fail, pass, fail)
		}
	})
	return err
}

// Equal reports whether two trees have the same labels, counts and children,
// ignoring child order.
func Equal(a, b *Tree) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Node != b.Node || len(a.Children) != len(b.Children) {
		return false
	}
	for _, child := range a.Children {
		other, ok := b.Child(child.Label)
		if !ok || !Equal(child, other) {
			return false
		}
	}
	return true
}
