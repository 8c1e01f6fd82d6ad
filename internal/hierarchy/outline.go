package hierarchy

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// OutlineNode is a titled entry of the table of contents. Path is empty for
// entries that do not link to a document.
type OutlineNode struct {
	Title    string
	Path     string
	Children []*OutlineNode
}

// BuildOutline builds the ordered outline that follows the preamble. The
// introduction comes first.
func BuildOutline(src []byte, opts ...Option) ([]*OutlineNode, error) {
	entries, o, err := outlineEntries(src, opts)
	if err != nil {
		return nil, err
	}
	intro := &OutlineNode{Title: o.preamble.IntroTitle, Path: o.preamble.IntroPath}
	return append([]*OutlineNode{intro}, OutlineFromEntries(entries)...), nil
}

// ReadOutline reads the table of contents at path and builds its outline.
func ReadOutline(path string, opts ...Option) ([]*OutlineNode, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table of contents: %w", err)
	}
	nodes, err := BuildOutline(src, opts...)
	var fe *FormatError
	if errors.As(err, &fe) {
		fe.Path = path
	}
	return nodes, err
}

// OutlineFromEntries nests entries by depth. Each entry becomes a child of
// the most recent entry one level above it.
func OutlineFromEntries(entries []Entry) []*OutlineNode {
	var roots []*OutlineNode
	var stack []*OutlineNode

	for _, e := range entries {
		node := &OutlineNode{Title: e.Titles[len(e.Titles)-1], Path: e.Dest}
		depth := e.Depth()
		if depth-1 < len(stack) {
			stack = stack[:depth-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}
	return roots
}

// Walk traverses the outline depth-first, calling fn with each node and its
// depth (1 for top-level entries).
func Walk(nodes []*OutlineNode, fn func(node *OutlineNode, depth int)) {
	var walk func([]*OutlineNode, int)
	walk = func(children []*OutlineNode, depth int) {
		for _, node := range children {
			fn(node, depth)
			walk(node.Children, depth+1)
		}
	}
	walk(nodes, 1)
}

// PrintOutline renders the outline as an indented list.
func PrintOutline(nodes []*OutlineNode) string {
	var sb strings.Builder
	Walk(nodes, func(node *OutlineNode, depth int) {
		sb.WriteString(strings.Repeat("  ", depth-1))
		sb.WriteString(node.Title)
		if node.Path != "" {
			sb.WriteString(" (")
			sb.WriteString(node.Path)
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	})
	return sb.String()
}
