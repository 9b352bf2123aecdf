package convert

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":  JSON,
		" YAML": YAML,
		"yml":   YAML,
		"Toml":  TOML,
		"xml":   XML,
	}
	for name, expected := range tests {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, got, name)
	}

	_, err := ParseFormat("csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: csv")
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		from, to string
		opts     Options
		expected string
	}{
		{
			name:     "json to pretty json",
			content:  `{"b":1,"a":[true,null]}`,
			from:     "json",
			to:       "json",
			opts:     DefaultOptions(),
			expected: "{\n  \"b\": 1,\n  \"a\": [\n    true,\n    null\n  ]\n}",
		},
		{
			name:     "json to compact json",
			content:  "{\n  \"a\": 1\n}",
			from:     "json",
			to:       "json",
			opts:     Options{},
			expected: `{"a":1}`,
		},
		{
			name:     "json to xml",
			content:  `{"user":{"name":"Alice"},"tags":["x"]}`,
			from:     "json",
			to:       "xml",
			opts:     Options{RootName: "doc"},
			expected: `<doc><user><name>Alice</name></user><tags><item index="0">x</item></tags></doc>`,
		},
		{
			name:     "json to yaml keeps key order",
			content:  `{"name":"Alice","age":30,"tags":["a","b"],"address":{"city":"Paris"}}`,
			from:     "json",
			to:       "yaml",
			opts:     DefaultOptions(),
			expected: "name: Alice\nage: 30\ntags:\n  - a\n  - b\naddress:\n  city: Paris\n",
		},
		{
			name:     "yaml to json",
			content:  "name: Alice\nage: 30\nratio: 0.5\nactive: true\nnothing: ~\nlist:\n  - 1\n  - two\n",
			from:     "yml",
			to:       "json",
			opts:     Options{},
			expected: `{"name":"Alice","age":30,"ratio":0.5,"active":true,"nothing":null,"list":[1,"two"]}`,
		},
		{
			name:     "toml to json keeps source order",
			content:  "title = \"demo\"\ncount = 3\n\n[owner]\nname = \"Bob\"\nadmin = false\n\n[[servers]]\nhost = \"a\"\n\n[[servers]]\nhost = \"b\"\n",
			from:     "toml",
			to:       "json",
			opts:     Options{},
			expected: `{"title":"demo","count":3,"owner":{"name":"Bob","admin":false},"servers":[{"host":"a"},{"host":"b"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.content, tt.from, tt.to, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		from, to string
		contains string
	}{
		{name: "unknown source", content: `{}`, from: "ini", to: "json", contains: "unsupported format: ini"},
		{name: "unknown target", content: `{}`, from: "json", to: "csv", contains: "unsupported format: csv"},
		{name: "xml input", content: `<a/>`, from: "xml", to: "json", contains: "cannot read xml input"},
		{name: "toml output", content: `{}`, from: "json", to: "toml", contains: "cannot write toml output"},
		{name: "broken json", content: `{"a":`, from: "json", to: "yaml", contains: "invalid JSON format"},
		{name: "broken yaml", content: "a: [1,", from: "yaml", to: "json", contains: "invalid YAML"},
		{name: "broken toml", content: "a = ", from: "toml", to: "json", contains: "invalid TOML"},
		{name: "infinity", content: "x: .inf", from: "yaml", to: "json", contains: "no JSON representation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(tt.content, tt.from, tt.to, DefaultOptions())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	for _, f := range []Format{JSON, YAML, TOML} {
		_, err := Decode(f, "  \n")
		require.Error(t, err, f)
		assert.True(t, stderrors.Is(err, errors.ErrEmptyInput), f)
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	original := `{"s":"true","n":"12","empty":{},"none":[],"deep":{"list":[{"k":1.25}]},"neg":-3}`
	doc, err := codec.ParseStrict(original)
	require.NoError(t, err)

	out, err := Encode(YAML, doc, DefaultOptions())
	require.NoError(t, err)

	back, err := Decode(YAML, out)
	require.NoError(t, err)
	assert.Equal(t, original, codec.Stringify(back, 0))
}

func TestYAML_Aliases(t *testing.T) {
	doc, err := Decode(YAML, "base: &b\n  x: 1\ncopy: *b\n")
	require.NoError(t, err)

	obj := doc.(*models.Object)
	copied, ok := obj.Get("copy")
	require.True(t, ok)
	assert.Equal(t, `{"x":1}`, codec.Stringify(copied, 0))
}

func TestYAML_HexIntegers(t *testing.T) {
	doc, err := Decode(YAML, "v: 0x1F\n")
	require.NoError(t, err)
	assert.Equal(t, `{"v":31}`, codec.Stringify(doc, 0))
}

// aliasBomb builds a document where each level lists the previous one ten times
func aliasBomb(levels int) string {
	var b strings.Builder
	b.WriteString(`l0: &l0 ["lol","lol","lol","lol","lol","lol","lol","lol","lol","lol"]` + "\n")
	for i := 1; i <= levels; i++ {
		refs := make([]string, 10)
		for j := range refs {
			refs[j] = fmt.Sprintf("*l%d", i-1)
		}
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.Join(refs, ","))
	}
	return b.String()
}

func TestYAML_AliasExpansionIsBounded(t *testing.T) {
	tests := []struct {
		name   string
		levels int
		ok     bool
	}{
		{"shallow aliases", 2, true},
		{"nine levels", 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(aliasBomb(tt.levels), "yaml", "json", DefaultOptions())
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrAliasExpansion))
			var appErr *errors.AppError
			require.True(t, stderrors.As(err, &appErr))
			assert.Equal(t, errors.ErrorTypeParsing, appErr.Type)
		})
	}
}

func TestYAML_MergeKeys(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "single merge",
			content:  "base: &b {x: 1, y: 2}\nitem:\n  <<: *b\n  z: 3\n",
			expected: `{"base":{"x":1,"y":2},"item":{"x":1,"y":2,"z":3}}`,
		},
		{
			name:     "explicit key wins over merge",
			content:  "base: &b {x: 1, y: 2}\nitem:\n  y: 9\n  <<: *b\n",
			expected: `{"base":{"x":1,"y":2},"item":{"y":9,"x":1}}`,
		},
		{
			name:     "explicit key after merge still wins",
			content:  "base: &b {x: 1, y: 2}\nitem:\n  <<: *b\n  y: 9\n",
			expected: `{"base":{"x":1,"y":2},"item":{"x":1,"y":9}}`,
		},
		{
			name:     "earlier source wins in a merge list",
			content:  "a: &a {k: 1}\nb: &b {k: 2, m: 3}\nitem:\n  <<: [*a, *b]\n",
			expected: `{"a":{"k":1},"b":{"k":2,"m":3},"item":{"k":1,"m":3}}`,
		},
		{
			name:     "quoted key is literal",
			content:  "\"<<\": 1\n",
			expected: `{"<<":1}`,
		},
		{
			name:     "alias to a scalar key",
			content:  "name: &k id\n*k : 7\n",
			expected: `{"name":"id","id":7}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(YAML, tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, codec.Stringify(doc, 0))
		})
	}
}

func TestYAML_RejectsUndecodableKeys(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sentinel error
	}{
		{"sequence key", "? [a, b]\n: 1\n", errors.ErrComplexKey},
		{"mapping key", "? {a: 1}\n: 1\n", errors.ErrComplexKey},
		{"alias to a mapping key", "base: &b {a: 1}\n? *b\n: 1\n", errors.ErrComplexKey},
		{"merge of a scalar", "s: &s text\nitem:\n  <<: *s\n", errors.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(YAML, tt.content)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.sentinel))
			var appErr *errors.AppError
			require.True(t, stderrors.As(err, &appErr))
			assert.Equal(t, errors.ErrorTypeParsing, appErr.Type)
		})
	}
}
