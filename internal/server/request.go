package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
)

// decodeBody reads the request body as a JSON object
func decodeBody(w http.ResponseWriter, r *http.Request) (*models.Object, error) {
	body, err := codec.ParseReader(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	obj, ok := body.(*models.Object)
	if !ok {
		return nil, errors.NewInputError("request body must be a JSON object", nil)
	}
	return obj, nil
}

// document reads a field that holds either a JSON value or JSON text.
// Missing fields and blank text read as null.
func document(obj *models.Object, key string) (models.JSONValue, error) {
	v, _ := obj.Get(key)
	text, isText := v.(string)
	if !isText {
		return v, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return codec.ParseStrict(text)
}

// documentText is document's inverse: JSON text is kept as sent and other
// values are rendered with the default indent
func documentText(obj *models.Object, key string) string {
	v, ok := obj.Get(key)
	if !ok || v == nil {
		return ""
	}
	if text, isText := v.(string); isText {
		return text
	}
	return codec.Stringify(v, codec.DefaultIndent)
}

func stringField(obj *models.Object, key, fallback string) string {
	if obj == nil {
		return fallback
	}
	if v, ok := obj.Get(key); ok {
		if s, isString := v.(string); isString {
			return s
		}
	}
	return fallback
}

func boolField(obj *models.Object, key string, fallback bool) bool {
	if obj == nil {
		return fallback
	}
	if v, ok := obj.Get(key); ok {
		if b, isBool := v.(bool); isBool {
			return b
		}
	}
	return fallback
}

func intField(obj *models.Object, key string, fallback int) int {
	if obj == nil {
		return fallback
	}
	v, ok := obj.Get(key)
	if !ok {
		return fallback
	}
	n, isNumber := v.(json.Number)
	if !isNumber {
		return fallback
	}
	i, err := n.Int64()
	if err != nil {
		return fallback
	}
	return int(i)
}

func objectField(obj *models.Object, key string) *models.Object {
	v, _ := obj.Get(key)
	child, _ := v.(*models.Object)
	return child
}

func settingsFrom(obj *models.Object) models.CompareSettings {
	defaults := models.DefaultCompareSettings()
	return models.CompareSettings{
		IgnoreOrder:      boolField(obj, "ignoreOrder", defaults.IgnoreOrder),
		IgnoreWhitespace: boolField(obj, "ignoreWhitespace", defaults.IgnoreWhitespace),
		CaseSensitive:    boolField(obj, "caseSensitive", defaults.CaseSensitive),
		MaxDifferences:   intField(obj, "maxDifferences", defaults.MaxDifferences),
	}
}

func renderConfigFrom(obj *models.Object) models.RenderConfig {
	defaults := models.DefaultRenderConfig()
	return models.RenderConfig{
		IncludeStats:    boolField(obj, "includeStats", defaults.IncludeStats),
		IncludePaths:    boolField(obj, "includePaths", defaults.IncludePaths),
		IncludeOriginal: boolField(obj, "includeOriginal", defaults.IncludeOriginal),
		PrettyPrint:     boolField(obj, "prettyPrint", defaults.PrettyPrint),
	}
}
