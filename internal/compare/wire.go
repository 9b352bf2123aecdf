package compare

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/mcncl/jsondelta/internal/paths"
)

// EncodeDifferences renders entries the way the comparison service sends
// them: "$"-rooted paths, lowercase types, and oldValue/newValue present only
// where the entry type carries them.
func EncodeDifferences(diffs []models.DiffEntry) *models.Array {
	list := models.NewArray()
	for _, d := range diffs {
		item := models.ObjectOf(
			"path", ServicePath(d.Path),
			"type", string(d.Type),
		)
		if old, ok := d.Old(); ok {
			item.Set("oldValue", old)
		}
		if v, ok := d.New(); ok {
			item.Set("newValue", v)
		}
		item.Set("depth", json.Number(strconv.Itoa(len(paths.Parse(d.Path)))))
		list.Append(item)
	}
	return list
}

// DecodeDifferences reads entries from either {"differences": [...]} or a bare list
func DecodeDifferences(data models.JSONValue) ([]models.DiffEntry, error) {
	list := data
	if obj, ok := data.(*models.Object); ok {
		list, _ = obj.Get("differences")
	}
	if list == nil {
		return []models.DiffEntry{}, nil
	}

	items, ok := list.(*models.Array)
	if !ok {
		return nil, errors.NewCompareError("comparison response has no differences list", errors.ErrRemoteFailure)
	}

	diffs := make([]models.DiffEntry, 0, items.Len())
	for i, item := range items.Items {
		obj, ok := item.(*models.Object)
		if !ok {
			return nil, errors.NewCompareError(fmt.Sprintf("difference %d is not an object", i), errors.ErrRemoteFailure)
		}

		rawType, _ := obj.Get("type")
		typeName, _ := rawType.(string)
		rawPath, _ := obj.Get("path")
		pathText, _ := rawPath.(string)
		path := NormalizeServicePath(pathText)
		oldValue, _ := obj.Get("oldValue")
		newValue, _ := obj.Get("newValue")

		switch models.DiffType(strings.ToLower(typeName)) {
		case models.DiffAdded:
			diffs = append(diffs, models.Added(path, newValue))
		case models.DiffRemoved:
			diffs = append(diffs, models.Removed(path, oldValue))
		case models.DiffModified:
			diffs = append(diffs, models.Modified(path, oldValue, newValue))
		default:
			return nil, errors.NewCompareError(fmt.Sprintf("difference %d has unknown type %q", i, typeName), errors.ErrRemoteFailure)
		}
	}
	return diffs, nil
}

// NormalizeServicePath strips the "$" root marker the comparison service puts
// in front of every path: "$.a.b[0]" becomes "a.b[0]" and "$" becomes "".
func NormalizeServicePath(path string) string {
	switch {
	case path == "$":
		return ""
	case strings.HasPrefix(path, "$."):
		return path[2:]
	case strings.HasPrefix(path, "$["):
		return path[1:]
	default:
		return path
	}
}

// ServicePath is the inverse of NormalizeServicePath
func ServicePath(path string) string {
	switch {
	case path == "":
		return "$"
	case strings.HasPrefix(path, "["):
		return "$" + path
	default:
		return "$." + path
	}
}
