package compare

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) models.JSONValue {
	t.Helper()
	v, err := codec.ParseStrict(text)
	require.NoError(t, err)
	return v
}

func strictSettings() models.CompareSettings {
	return models.CompareSettings{CaseSensitive: true}
}

func TestLocal_Compare(t *testing.T) {
	tests := []struct {
		name     string
		left     string
		right    string
		settings models.CompareSettings
		expected []models.DiffEntry
	}{
		{
			name:     "identical",
			left:     `{"a":1,"b":[1,2]}`,
			right:    `{"b":[1,2],"a":1}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{},
		},
		{
			name:     "added key",
			left:     `{"a":1}`,
			right:    `{"a":1,"b":{"c":true}}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{models.Added("b", models.ObjectOf("c", true))},
		},
		{
			name:     "removed key",
			left:     `{"a":1,"b":2}`,
			right:    `{"a":1}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{models.Removed("b", json.Number("2"))},
		},
		{
			name:     "modified nested value",
			left:     `{"user":{"name":"Alice"}}`,
			right:    `{"user":{"name":"Bob"}}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{models.Modified("user.name", "Alice", "Bob")},
		},
		{
			name:     "array element changed",
			left:     `{"list":[1,2,3]}`,
			right:    `{"list":[1,5,3]}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{models.Modified("list[1]", json.Number("2"), json.Number("5"))},
		},
		{
			name:     "array element appended",
			left:     `{"list":[1,2]}`,
			right:    `{"list":[1,2,3]}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{models.Added("list[2]", json.Number("3"))},
		},
		{
			name:     "array element dropped",
			left:     `{"list":[1,2]}`,
			right:    `{"list":[1]}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{models.Removed("list[1]", json.Number("2"))},
		},
		{
			name:     "numeric object keys are keys",
			left:     `{"0":{"1":"a"}}`,
			right:    `{"0":{"1":"b"}}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{models.Modified("0.1", "a", "b")},
		},
		{
			name:     "root type change",
			left:     `[1]`,
			right:    `{"a":1}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{models.Modified("", models.NewArray(json.Number("1")), models.ObjectOf("a", json.Number("1")))},
		},
		{
			name:     "whitespace ignored",
			left:     `{"s":"  hello "}`,
			right:    `{"s":"hello"}`,
			settings: models.CompareSettings{IgnoreWhitespace: true, CaseSensitive: true},
			expected: []models.DiffEntry{},
		},
		{
			name:     "whitespace significant",
			left:     `{"s":"  hello "}`,
			right:    `{"s":"hello"}`,
			settings: strictSettings(),
			expected: []models.DiffEntry{models.Modified("s", "  hello ", "hello")},
		},
		{
			name:     "case insensitive",
			left:     `{"s":"Hello"}`,
			right:    `{"s":"hELLO"}`,
			settings: models.CompareSettings{CaseSensitive: false},
			expected: []models.DiffEntry{},
		},
		{
			name:     "order ignored",
			left:     `{"tags":["a","b","c"]}`,
			right:    `{"tags":["c","a","b"]}`,
			settings: models.CompareSettings{IgnoreOrder: true, CaseSensitive: true},
			expected: []models.DiffEntry{},
		},
	}

	comparer := NewLocal(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diffs, err := comparer.Compare(context.Background(), mustParse(t, tt.left), mustParse(t, tt.right), tt.settings)
			require.NoError(t, err)
			require.Len(t, diffs, len(tt.expected))
			for i := range tt.expected {
				assertEntry(t, tt.expected[i], diffs[i])
			}
		})
	}
}

// assertEntry compares entries through their JSON text so Object internals don't matter
func assertEntry(t *testing.T, expected, actual models.DiffEntry) {
	t.Helper()
	assert.Equal(t, expected.Type, actual.Type)
	assert.Equal(t, expected.Path, actual.Path)

	expOld, expHasOld := expected.Old()
	actOld, actHasOld := actual.Old()
	assert.Equal(t, expHasOld, actHasOld, "old value presence at %q", expected.Path)
	if expHasOld {
		assert.Equal(t, codec.Stringify(expOld, 0), codec.Stringify(actOld, 0))
	}

	expNew, expHasNew := expected.New()
	actNew, actHasNew := actual.New()
	assert.Equal(t, expHasNew, actHasNew, "new value presence at %q", expected.Path)
	if expHasNew {
		assert.Equal(t, codec.Stringify(expNew, 0), codec.Stringify(actNew, 0))
	}
}

func TestLocal_ReportsOriginalStrings(t *testing.T) {
	// values come from the caller's documents, not the folded copies
	left := mustParse(t, `{"s":" A ","n":1}`)
	right := mustParse(t, `{"s":"b","n":1}`)

	diffs, err := NewLocal(nil).Compare(context.Background(), left, right,
		models.CompareSettings{IgnoreWhitespace: true, CaseSensitive: false})
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assertEntry(t, models.Modified("s", " A ", "b"), diffs[0])
}

func TestLocal_MultipleChanges(t *testing.T) {
	left := mustParse(t, `{"a":1,"b":2,"c":3}`)
	right := mustParse(t, `{"a":1,"b":20,"d":4}`)

	diffs, err := NewLocal(nil).Compare(context.Background(), left, right, strictSettings())
	require.NoError(t, err)

	byPath := make(map[string]models.DiffEntry)
	for _, d := range diffs {
		byPath[d.Path] = d
	}
	require.Len(t, byPath, 3)
	assert.Equal(t, models.DiffModified, byPath["b"].Type)
	assert.Equal(t, models.DiffRemoved, byPath["c"].Type)
	assert.Equal(t, models.DiffAdded, byPath["d"].Type)
}

func TestLocal_MaxDifferences(t *testing.T) {
	left := mustParse(t, `{"a":1,"b":2,"c":3}`)
	right := mustParse(t, `{"a":10,"b":20,"c":30}`)

	settings := strictSettings()
	settings.MaxDifferences = 2
	diffs, err := NewLocal(nil).Compare(context.Background(), left, right, settings)
	require.NoError(t, err)
	assert.Len(t, diffs, 2)
}

func TestLocal_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocal(nil).Compare(ctx, models.NewObject(), models.NewObject(), strictSettings())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocal_CyclicInput(t *testing.T) {
	cyclic := models.NewObject()
	cyclic.Set("self", cyclic)

	_, err := NewLocal(nil).Compare(context.Background(), cyclic, models.NewObject(), strictSettings())
	require.Error(t, err)
}
