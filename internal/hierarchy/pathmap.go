package hierarchy

import "sort"

// PathMap maps documents referenced from the table of contents to their
// position in the chapter/section hierarchy. Destinations start with the
// root label. A PathMap is immutable once built.
type PathMap struct {
	dests map[string][]string
}

// Fold turns an event stream into a PathMap rooted at root. Entries without
// a linked document are part of the hierarchy but are not mapped.
func Fold(events []Event, root string) PathMap {
	return fold(Entries(events), root, nil)
}

func fold(entries []Entry, root string, seed map[string][]string) PathMap {
	dests := make(map[string][]string, len(seed)+len(entries))
	for doc, dest := range seed {
		dests[doc] = dest
	}
	for _, e := range entries {
		if e.Dest == "" {
			continue
		}
		dest := make([]string, 0, len(e.Titles)+1)
		dest = append(dest, root)
		dest = append(dest, e.Titles...)
		dests[e.Dest] = dest
	}
	return PathMap{dests: dests}
}

// Lookup returns the destination of doc.
func (p PathMap) Lookup(doc string) ([]string, bool) {
	dest, ok := p.dests[doc]
	if !ok {
		return nil, false
	}
	return append([]string(nil), dest...), true
}

// Len returns the number of mapped documents.
func (p PathMap) Len() int {
	return len(p.dests)
}

// Docs returns the mapped documents in sorted order.
func (p PathMap) Docs() []string {
	docs := make([]string, 0, len(p.dests))
	for doc := range p.dests {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	return docs
}

// Each calls fn for every document in sorted order.
func (p PathMap) Each(fn func(doc string, dest []string)) {
	for _, doc := range p.Docs() {
		fn(doc, append([]string(nil), p.dests[doc]...))
	}
}
