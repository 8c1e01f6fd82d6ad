package hierarchy

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// EventKind identifies a structural event in a table of contents.
type EventKind int

const (
	ItemOpen EventKind = iota
	ItemClose
	LinkOpen
	LinkClose
	Text
)

func (k EventKind) String() string {
	switch k {
	case ItemOpen:
		return "item-open"
	case ItemClose:
		return "item-close"
	case LinkOpen:
		return "link-open"
	case LinkClose:
		return "link-close"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Event is one entry of the flattened document stream. Dest is set for
// link events, Text for text runs.
type Event struct {
	Kind EventKind
	Dest string
	Text string
}

// Events parses markdown with goldmark and flattens the AST into the list
// item, link and text events the outline state machine consumes. Other node
// kinds are walked through but produce no events of their own.
func Events(src []byte) []Event {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var events []Event
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.ListItem:
			if entering {
				events = append(events, Event{Kind: ItemOpen})
			} else {
				events = append(events, Event{Kind: ItemClose})
			}
		case *ast.Link:
			kind := LinkClose
			if entering {
				kind = LinkOpen
			}
			events = append(events, Event{Kind: kind, Dest: string(node.Destination)})
		case *ast.Text:
			if !entering {
				break
			}
			value := string(textValue(node, src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				value += " "
			}
			if value != "" {
				events = append(events, Event{Kind: Text, Text: value})
			}
		case *ast.String:
			if entering && len(node.Value) > 0 {
				events = append(events, Event{Kind: Text, Text: string(node.Value)})
			}
		}
		return ast.WalkContinue, nil
	})
	return events
}

// textValue returns the text of a node as a reader sees it. Code span
// content is literal; elsewhere backslash escapes and character references
// are resolved.
func textValue(node *ast.Text, src []byte) []byte {
	value := node.Segment.Value(src)
	if _, ok := node.Parent().(*ast.CodeSpan); ok {
		return value
	}
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}
