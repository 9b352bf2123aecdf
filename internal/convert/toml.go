package convert

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
)

func decodeTOML(content string) (models.JSONValue, error) {
	var raw map[string]interface{}
	md, err := toml.Decode(content, &raw)
	if err != nil {
		return nil, errors.NewParsingError("invalid TOML", err)
	}

	t := &tomlTables{order: make(map[string][]string)}
	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		if len(key) == 0 {
			continue
		}
		parent := strings.Join(key[:len(key)-1], "\x00")
		full := parent + "\x01" + key[len(key)-1]
		if !seen[full] {
			seen[full] = true
			t.order[parent] = append(t.order[parent], key[len(key)-1])
		}
	}
	return t.convert(raw, nil)
}

// tomlTables rebuilds tables in the order their keys appear in the source.
// Entries of an array of tables share the order of that table's path.
type tomlTables struct {
	order map[string][]string
}

func (t *tomlTables) convert(v interface{}, path []string) (models.JSONValue, error) {
	switch node := v.(type) {
	case map[string]interface{}:
		obj := models.NewObject()
		for _, key := range t.keysOf(node, path) {
			child, err := t.convert(node[key], append(path[:len(path):len(path)], key))
			if err != nil {
				return nil, err
			}
			obj.Set(key, child)
		}
		return obj, nil
	case []map[string]interface{}:
		arr := models.NewArray()
		for _, item := range node {
			child, err := t.convert(item, path)
			if err != nil {
				return nil, err
			}
			arr.Append(child)
		}
		return arr, nil
	case []interface{}:
		arr := models.NewArray()
		for _, item := range node {
			child, err := t.convert(item, path)
			if err != nil {
				return nil, err
			}
			arr.Append(child)
		}
		return arr, nil
	case string, bool:
		return node, nil
	case int64:
		return json.Number(strconv.FormatInt(node, 10)), nil
	case float64:
		if math.IsInf(node, 0) || math.IsNaN(node) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("value at %s has no JSON representation", strings.Join(path, ".")), errors.ErrUnsupportedType)
		}
		return json.Number(strconv.FormatFloat(node, 'g', -1, 64)), nil
	case time.Time:
		return node.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		// local dates and times
		return node.String(), nil
	}
	return nil, errors.NewParsingError(fmt.Sprintf("unsupported TOML value %T", v), errors.ErrUnsupportedType)
}

// keysOf lists the keys of a table in source order. Keys the metadata does
// not cover are appended sorted.
func (t *tomlTables) keysOf(table map[string]interface{}, path []string) []string {
	keys := make([]string, 0, len(table))
	used := make(map[string]bool, len(table))
	for _, key := range t.order[strings.Join(path, "\x00")] {
		if _, ok := table[key]; ok && !used[key] {
			used[key] = true
			keys = append(keys, key)
		}
	}

	var rest []string
	for key := range table {
		if !used[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
