// Package tree provides depth-first utilities over JSON values: copying,
// measuring, key normalization, type detection and a minimal markup rendering.
package tree

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/jsondelta/internal/models"
)

// DefaultRootName is the tag used for the outermost object in ToMarkup
const DefaultRootName = "root"

// JSON type names reported by TypeOf
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Clone returns a deep copy of v. Containers are rebuilt recursively so the
// result never shares an Object or Array with the input.
func Clone(v models.JSONValue) models.JSONValue {
	switch node := v.(type) {
	case *models.Object:
		if node == nil {
			return nil
		}
		out := models.NewObject()
		for _, key := range node.Keys() {
			child, _ := node.Get(key)
			out.Set(key, Clone(child))
		}
		return out
	case *models.Array:
		if node == nil {
			return nil
		}
		items := make([]models.JSONValue, len(node.Items))
		for i, item := range node.Items {
			items[i] = Clone(item)
		}
		return models.NewArray(items...)
	default:
		return v
	}
}

// Depth is 0 for scalars and 1 + the deepest child for containers.
// An empty container has depth 1.
func Depth(v models.JSONValue) int {
	children, ok := childrenOf(v)
	if !ok {
		return 0
	}
	deepest := 0
	for _, child := range children {
		deepest = max(deepest, Depth(child))
	}
	return deepest + 1
}

// Size counts every node below v: the number of direct children of a container
// plus the size of each child. Scalars have size 0.
func Size(v models.JSONValue) int {
	children, ok := childrenOf(v)
	if !ok {
		return 0
	}
	total := len(children)
	for _, child := range children {
		total += Size(child)
	}
	return total
}

func childrenOf(v models.JSONValue) ([]models.JSONValue, bool) {
	switch node := v.(type) {
	case *models.Object:
		if node == nil {
			return nil, false
		}
		children := make([]models.JSONValue, 0, node.Len())
		for _, key := range node.Keys() {
			child, _ := node.Get(key)
			children = append(children, child)
		}
		return children, true
	case *models.Array:
		if node == nil {
			return nil, false
		}
		return node.Items, true
	default:
		return nil, false
	}
}

// NormalizeKeys returns a copy of v with every object's keys sorted by code point.
// Array elements are normalized in place of their original position, never reordered.
func NormalizeKeys(v models.JSONValue) models.JSONValue {
	switch node := v.(type) {
	case *models.Object:
		if node == nil {
			return nil
		}
		keys := node.Keys()
		sort.Strings(keys)
		out := models.NewObject()
		for _, key := range keys {
			child, _ := node.Get(key)
			out.Set(key, NormalizeKeys(child))
		}
		return out
	case *models.Array:
		if node == nil {
			return nil
		}
		items := make([]models.JSONValue, len(node.Items))
		for i, item := range node.Items {
			items[i] = NormalizeKeys(item)
		}
		return models.NewArray(items...)
	default:
		return v
	}
}

// MapStrings returns a copy of v with fn applied to every string leaf.
// Object keys are left untouched.
func MapStrings(v models.JSONValue, fn func(string) string) models.JSONValue {
	switch node := v.(type) {
	case string:
		return fn(node)
	case *models.Object:
		if node == nil {
			return nil
		}
		out := models.NewObject()
		for _, key := range node.Keys() {
			child, _ := node.Get(key)
			out.Set(key, MapStrings(child, fn))
		}
		return out
	case *models.Array:
		if node == nil {
			return nil
		}
		items := make([]models.JSONValue, len(node.Items))
		for i, item := range node.Items {
			items[i] = MapStrings(item, fn)
		}
		return models.NewArray(items...)
	default:
		return v
	}
}

// ToMarkup renders v as nested tags. An object becomes a tag named rootName
// holding one child tag per key; arrays become a run of <item index="i"> tags;
// scalars are written in their plain string form. Nothing is escaped.
func ToMarkup(v models.JSONValue, rootName string) string {
	if rootName == "" {
		rootName = DefaultRootName
	}
	var b strings.Builder
	writeMarkup(&b, v, rootName)
	return b.String()
}

func writeMarkup(b *strings.Builder, v models.JSONValue, name string) {
	switch node := v.(type) {
	case *models.Array:
		if node == nil {
			b.WriteString(TypeNull)
			return
		}
		for i, item := range node.Items {
			fmt.Fprintf(b, `<item index="%d">`, i)
			writeMarkup(b, item, "item")
			b.WriteString("</item>")
		}
	case *models.Object:
		if node == nil {
			b.WriteString(TypeNull)
			return
		}
		b.WriteString("<" + name + ">")
		for _, key := range node.Keys() {
			child, _ := node.Get(key)
			switch child.(type) {
			case *models.Object:
				writeMarkup(b, child, key)
			case *models.Array:
				b.WriteString("<" + key + ">")
				writeMarkup(b, child, key)
				b.WriteString("</" + key + ">")
			default:
				b.WriteString("<" + key + ">" + ScalarString(child) + "</" + key + ">")
			}
		}
		b.WriteString("</" + name + ">")
	default:
		b.WriteString(ScalarString(v))
	}
}

// ScalarString returns the plain text form of a scalar: null, true/false,
// the literal digits of a number or the raw string contents.
func ScalarString(v models.JSONValue) string {
	switch s := v.(type) {
	case nil:
		return TypeNull
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// TypeOf names the JSON type of v
func TypeOf(v models.JSONValue) string {
	switch node := v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	case *models.Array:
		if node == nil {
			return TypeNull
		}
		return TypeArray
	case *models.Object:
		if node == nil {
			return TypeNull
		}
		return TypeObject
	default:
		return TypeObject
	}
}

// SameType reports whether a and b have the same JSON type.
// null only matches null.
func SameType(a, b models.JSONValue) bool {
	return TypeOf(a) == TypeOf(b)
}

// IsContainer reports whether v is a non-nil object or array
func IsContainer(v models.JSONValue) bool {
	_, ok := childrenOf(v)
	return ok
}
