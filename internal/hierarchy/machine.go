package hierarchy

import "strings"

// State is the position of the outline state machine within the current
// list item.
type State int

const (
	// StateAwaitingTitle: an item was opened and no title text has been seen yet.
	StateAwaitingTitle State = iota
	// StateTitleOpen: collecting a title that is not wrapped in a link.
	StateTitleOpen
	// StateLinkOpen: collecting the text of a link; the link target is pending.
	StateLinkOpen
	// StateTitleClosed: the item's title is complete. Further text in the same
	// item is not part of the outline.
	StateTitleClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingTitle:
		return "awaiting-title"
	case StateTitleOpen:
		return "title-open"
	case StateLinkOpen:
		return "link-open"
	case StateTitleClosed:
		return "title-closed"
	default:
		return "unknown"
	}
}

// Entry is a completed outline entry: the titles from the outermost list item
// down to this one, and the linked document if there is one.
type Entry struct {
	Titles []string
	Dest   string
}

// Depth is the nesting level of the entry; top-level items have depth 1.
func (e Entry) Depth() int {
	return len(e.Titles)
}

type frame struct {
	title  string
	titled bool
}

type machine struct {
	state   State
	frames  []frame
	title   strings.Builder
	dest    string
	entries []Entry
}

// Entries runs the outline state machine over events and returns every
// entry in document order. It has no side effects.
func Entries(events []Event) []Entry {
	m := &machine{}
	for _, ev := range events {
		m.step(ev)
	}
	return m.entries
}

func (m *machine) step(ev Event) {
	switch ev.Kind {
	case ItemOpen:
		if m.state == StateTitleOpen {
			m.closeTitle("")
		}
		m.frames = append(m.frames, frame{})
		m.state = StateAwaitingTitle

	case ItemClose:
		if m.state == StateTitleOpen || m.state == StateLinkOpen {
			m.closeTitle("")
		}
		if len(m.frames) > 0 {
			m.frames = m.frames[:len(m.frames)-1]
		}
		m.state = StateAwaitingTitle
		if n := len(m.frames); n > 0 && m.frames[n-1].titled {
			m.state = StateTitleClosed
		}

	case LinkOpen:
		switch m.state {
		case StateAwaitingTitle:
			m.title.Reset()
			m.dest = ev.Dest
			m.state = StateLinkOpen
		case StateTitleOpen:
			// "Intro [part](part.md)": the link completes the title begun
			// by the bare text.
			m.dest = ev.Dest
			m.state = StateLinkOpen
		}

	case LinkClose:
		if m.state == StateLinkOpen {
			m.closeTitle(m.dest)
		}

	case Text:
		switch m.state {
		case StateAwaitingTitle:
			if len(m.frames) == 0 {
				return
			}
			m.title.Reset()
			m.title.WriteString(ev.Text)
			m.state = StateTitleOpen
		case StateTitleOpen, StateLinkOpen:
			m.title.WriteString(ev.Text)
		}
	}
}

// closeTitle fixes the title of the innermost item and emits its entry.
// Links outside any list item become top-level entries.
func (m *machine) closeTitle(dest string) {
	title := strings.Join(strings.Fields(m.title.String()), " ")
	m.title.Reset()
	m.dest = ""

	titles := m.titles()
	titles = append(titles, title)
	m.entries = append(m.entries, Entry{Titles: titles, Dest: dest})

	if n := len(m.frames); n > 0 {
		m.frames[n-1] = frame{title: title, titled: true}
		m.state = StateTitleClosed
	} else {
		m.state = StateAwaitingTitle
	}
}

// titles returns the titles of the enclosing items, excluding the innermost
// one being closed.
func (m *machine) titles() []string {
	var titles []string
	for i, f := range m.frames {
		if i == len(m.frames)-1 {
			break
		}
		if f.titled {
			titles = append(titles, f.title)
		}
	}
	return titles
}
