package compare

import (
	"testing"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchThenApply(t *testing.T) {
	left := mustParse(t, `{"name":"Alice","tags":["a"],"meta":{"v":1}}`)
	right := mustParse(t, `{"name":"Bob","tags":["a","b"],"meta":{}}`)

	local := NewLocal(nil)
	patch, err := local.Patch(left, right, strictSettings())
	require.NoError(t, err)
	require.NotEmpty(t, patch)

	raw, err := MarshalPatch(patch, 0)
	require.NoError(t, err)

	patched, err := ApplyPatch(left, raw)
	require.NoError(t, err)

	diffs, err := local.Compare(t.Context(), patched, right, strictSettings())
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestMarshalPatch_Empty(t *testing.T) {
	doc := mustParse(t, `{"a":1}`)
	patch, err := NewLocal(nil).Patch(doc, doc, strictSettings())
	require.NoError(t, err)

	raw, err := MarshalPatch(patch, 2)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestMarshalPatch_Indented(t *testing.T) {
	patch, err := NewLocal(nil).Patch(mustParse(t, `{"a":1}`), mustParse(t, `{"a":2}`), strictSettings())
	require.NoError(t, err)

	raw, err := MarshalPatch(patch, 2)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\"op\": \"replace\"")
	assert.Contains(t, string(raw), "\"path\": \"/a\"")
}

func TestApplyPatch_Errors(t *testing.T) {
	doc := mustParse(t, `{"a":1}`)

	_, err := ApplyPatch(doc, []byte(`not a patch`))
	assert.Error(t, err)

	_, err = ApplyPatch(doc, []byte(`[{"op":"remove","path":"/missing"}]`))
	assert.Error(t, err)
}

func TestApplyPatch_KeepsResultParsable(t *testing.T) {
	doc := mustParse(t, `{"a":1}`)
	patched, err := ApplyPatch(doc, []byte(`[{"op":"add","path":"/b","value":[true]}]`))
	require.NoError(t, err)

	assert.Equal(t, `{"a":1,"b":[true]}`, codec.Stringify(patched, 0))
}
