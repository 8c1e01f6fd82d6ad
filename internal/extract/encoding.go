// Package extract drives the external doctest extraction tool and decodes
// the directory names it produces.
package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// Filler replaces path separators, dots and dashes in encoded names.
const Filler = '_'

var folder = strings.NewReplacer(`\`, "_", "/", "_", "-", "_", ".", "_")

// Fold applies the extraction tool's flattening transform to a document
// path. The transform is many-to-one: "a-b.md" and "a/b_md" fold alike.
func Fold(path string) string {
	return folder.Replace(path)
}

// EncodedName is a decoded extraction directory name of the form
// <prefix>_<line>_<index>.
type EncodedName struct {
	Prefix string
	Line   int
	Index  int
}

// ParseEncodedName splits name from the right into prefix, line and index.
// The prefix may itself contain the filler character.
func ParseEncodedName(name string) (EncodedName, error) {
	i := strings.LastIndexByte(name, Filler)
	if i < 0 {
		return EncodedName{}, fmt.Errorf("encoded name %q: missing example index", name)
	}
	rest, indexStr := name[:i], name[i+1:]

	j := strings.LastIndexByte(rest, Filler)
	if j < 0 {
		return EncodedName{}, fmt.Errorf("encoded name %q: missing line number", name)
	}
	prefix, lineStr := rest[:j], rest[j+1:]

	if prefix == "" {
		return EncodedName{}, fmt.Errorf("encoded name %q: empty document prefix", name)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 0 {
		return EncodedName{}, fmt.Errorf("encoded name %q: invalid line number %q", name, lineStr)
	}
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		return EncodedName{}, fmt.Errorf("encoded name %q: invalid example index %q", name, indexStr)
	}
	return EncodedName{Prefix: prefix, Line: line, Index: index}, nil
}
