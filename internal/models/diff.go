package models

// DiffType classifies a single difference between two documents
type DiffType string

const (
	DiffAdded    DiffType = "added"
	DiffRemoved  DiffType = "removed"
	DiffModified DiffType = "modified"
)

// DiffEntry is one classified difference at a given path.
// Entries are produced by a comparer and consumed read-only by the report generator.
type DiffEntry struct {
	Type     DiffType
	Path     string
	OldValue JSONValue
	HasOld   bool
	NewValue JSONValue
	HasNew   bool
}

// Added creates an entry for a value that only exists in the right document
func Added(path string, newValue JSONValue) DiffEntry {
	return DiffEntry{Type: DiffAdded, Path: path, NewValue: newValue, HasNew: true}
}

// Removed creates an entry for a value that only exists in the left document
func Removed(path string, oldValue JSONValue) DiffEntry {
	return DiffEntry{Type: DiffRemoved, Path: path, OldValue: oldValue, HasOld: true}
}

// Modified creates an entry for a value that changed between the documents
func Modified(path string, oldValue, newValue JSONValue) DiffEntry {
	return DiffEntry{
		Type:     DiffModified,
		Path:     path,
		OldValue: oldValue,
		HasOld:   true,
		NewValue: newValue,
		HasNew:   true,
	}
}

// Old returns the old value if this entry carries one.
// Added entries never report an old value, whatever their raw fields hold.
func (d DiffEntry) Old() (JSONValue, bool) {
	if !d.HasOld || d.Type == DiffAdded {
		return nil, false
	}
	return d.OldValue, true
}

// New returns the new value if this entry carries one.
// Removed entries never report a new value.
func (d DiffEntry) New() (JSONValue, bool) {
	if !d.HasNew || d.Type == DiffRemoved {
		return nil, false
	}
	return d.NewValue, true
}

// Stats holds counts of diff entries by type
type Stats struct {
	Total    int `json:"total"`
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

// RenderConfig is a set of independent toggles controlling report output.
// No combination is invalid.
type RenderConfig struct {
	IncludeStats    bool `yaml:"include_stats" toml:"include_stats" json:"includeStats"`
	IncludePaths    bool `yaml:"include_paths" toml:"include_paths" json:"includePaths"`
	IncludeOriginal bool `yaml:"include_original" toml:"include_original" json:"includeOriginal"`
	PrettyPrint     bool `yaml:"pretty_print" toml:"pretty_print" json:"prettyPrint"`
}

// DefaultRenderConfig returns the toggles used when nothing else is configured
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		IncludeStats:    true,
		IncludePaths:    true,
		IncludeOriginal: false,
		PrettyPrint:     true,
	}
}

// CompareSettings tune how two documents are compared
type CompareSettings struct {
	// IgnoreOrder treats arrays holding the same elements in a different order as equal
	IgnoreOrder bool `yaml:"ignore_order" toml:"ignore_order" json:"ignoreOrder"`
	// IgnoreWhitespace trims leading and trailing whitespace of strings before comparing
	IgnoreWhitespace bool `yaml:"ignore_whitespace" toml:"ignore_whitespace" json:"ignoreWhitespace"`
	CaseSensitive    bool `yaml:"case_sensitive" toml:"case_sensitive" json:"caseSensitive"`
	// MaxDifferences caps the number of reported entries, 0 means unlimited
	MaxDifferences int `yaml:"max_differences" toml:"max_differences" json:"maxDifferences"`
}

// DefaultCompareSettings mirrors the comparison service's defaults
func DefaultCompareSettings() CompareSettings {
	return CompareSettings{
		IgnoreOrder:      false,
		IgnoreWhitespace: true,
		CaseSensitive:    true,
		MaxDifferences:   0,
	}
}
