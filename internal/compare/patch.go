package compare

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/wI2L/jsondiff"
)

// MarshalPatch encodes patch as an RFC 6902 document, indented when indent > 0
func MarshalPatch(patch jsondiff.Patch, indent int) ([]byte, error) {
	if patch == nil {
		patch = jsondiff.Patch{}
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, errors.NewSerializationError("cannot encode patch", err)
	}
	if indent == 0 {
		return raw, nil
	}
	v, err := codec.ParseBytes(raw)
	if err != nil {
		return nil, err
	}
	return codec.Encode(v, indent)
}

// ApplyPatch applies an RFC 6902 patch to doc and returns the patched document.
// The result is decoded again so callers get an ordered value back.
func ApplyPatch(doc models.JSONValue, patchJSON []byte) (models.JSONValue, error) {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, errors.NewParsingError("invalid JSON patch", err)
	}

	source, err := codec.Encode(doc, 0)
	if err != nil {
		return nil, err
	}

	patched, err := patch.Apply(source)
	if err != nil {
		return nil, errors.NewPathError("cannot apply JSON patch", err)
	}
	return codec.ParseBytes(patched)
}
