// Package paths implements the dotted path grammar used to address values
// inside a JSON tree, e.g. "a.b[0].c[2]" or "[1].name" for a top-level array.
//
// A path is a dot-separated list of segments. A segment is a bare key, a key
// followed by one or more bracketed indexes ("b[0]", "m[1][2]"), or bracketed
// indexes with no key ("[0]"), which index the current container directly.
// Anything that does not match that exact shape is treated as a bare key.
package paths

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies a path segment
type Kind int

const (
	// KindKey is a bare object key: "name"
	KindKey Kind = iota
	// KindIndex indexes the current container directly: "[0]"
	KindIndex
	// KindKeyedIndex looks up a key and then indexes into it: "items[0]"
	KindKeyedIndex
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindIndex:
		return "index"
	case KindKeyedIndex:
		return "keyed-index"
	default:
		return "unknown"
	}
}

// Segment is one dot-delimited unit of a path
type Segment struct {
	Kind    Kind
	Key     string
	Indices []int
}

// indexedPart matches a key (possibly empty) followed by one or more [digits] groups
var indexedPart = regexp.MustCompile(`^([^\[\]]*)((?:\[[0-9]+\])+)$`)

var indexGroup = regexp.MustCompile(`\[([0-9]+)\]`)

// Parse splits path into classified segments. An empty path has no segments.
func Parse(path string) []Segment {
	if path == "" {
		return nil
	}

	parts := strings.Split(path, ".")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		segments = append(segments, parseSegment(part))
	}
	return segments
}

func parseSegment(part string) Segment {
	m := indexedPart.FindStringSubmatch(part)
	if m == nil {
		return Segment{Kind: KindKey, Key: part}
	}

	groups := indexGroup.FindAllStringSubmatch(m[2], -1)
	indices := make([]int, 0, len(groups))
	for _, g := range groups {
		n, err := strconv.Atoi(g[1])
		if err != nil {
			// Too large to be an index, so it can only be a key
			return Segment{Kind: KindKey, Key: part}
		}
		indices = append(indices, n)
	}

	if m[1] == "" {
		return Segment{Kind: KindIndex, Indices: indices}
	}
	return Segment{Kind: KindKeyedIndex, Key: m[1], Indices: indices}
}

// String reconstructs the textual form of the segment
func (s Segment) String() string {
	var b strings.Builder
	if s.Kind != KindIndex {
		b.WriteString(s.Key)
	}
	if s.Kind != KindKey {
		for _, i := range s.Indices {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(i))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Join reconstructs a path from its segments
func Join(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// step is a single traversal move: either an object key or an array index.
// Segments are flattened into steps once so traversals never re-classify text.
type step struct {
	key     string
	index   int
	isIndex bool
}

func toSteps(segments []Segment) []step {
	steps := make([]step, 0, len(segments))
	for _, s := range segments {
		if s.Kind != KindIndex {
			steps = append(steps, step{key: s.Key})
		}
		if s.Kind != KindKey {
			for _, i := range s.Indices {
				steps = append(steps, step{index: i, isIndex: true})
			}
		}
	}
	return steps
}
