package models

import (
	"bytes"
	"encoding/json"
)

// JSONValue is a generic type to represent any JSON value.
// This can be nil, bool, json.Number, string, *Array, or *Object.
// Other Go scalars (float64, int) are tolerated and treated as scalars.
type JSONValue interface{}

// Object is a JSON object that remembers the order its keys were inserted in.
// It is always used through a pointer so path writes can mutate it in place.
type Object struct {
	keys   []string
	values map[string]JSONValue
}

// NewObject creates an empty Object
func NewObject() *Object {
	return &Object{values: make(map[string]JSONValue)}
}

// ObjectOf builds an Object from alternating key/value arguments.
// It exists mostly to keep test fixtures readable.
func ObjectOf(pairs ...interface{}) *Object {
	obj := NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		obj.Set(key, pairs[i+1])
	}
	return obj
}

// Len returns the number of keys
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value stored under key and whether the key is present
func (o *Object) Get(key string) (JSONValue, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores value under key. New keys are appended, existing keys keep their position.
func (o *Object) Set(key string, value JSONValue) {
	if o.values == nil {
		o.values = make(map[string]JSONValue)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key. Missing keys are ignored.
func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, exists := o.values[key]; !exists {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// MarshalJSON implements json.Marshaler, keeping insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCompact(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeCompact(&buf, o.values[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Array is a JSON array. Like Object it is used through a pointer so that
// writes past the end can grow it without the caller re-assigning anything.
type Array struct {
	Items []JSONValue
}

// NewArray creates an Array holding items
func NewArray(items ...JSONValue) *Array {
	if items == nil {
		items = []JSONValue{}
	}
	return &Array{Items: items}
}

// Len returns the number of elements
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Items)
}

// Get returns the element at index i and whether i is in range
func (a *Array) Get(i int) (JSONValue, bool) {
	if a == nil || i < 0 || i >= len(a.Items) {
		return nil, false
	}
	return a.Items[i], true
}

// MaxPadding is the largest run of nulls Set inserts to reach an index
// past the end of an array.
const MaxPadding = 1 << 16

// Set stores value at index i, padding with nulls when i is past the end,
// and reports whether it did. Negative indexes and indexes more than
// MaxPadding past the end are rejected.
func (a *Array) Set(i int, value JSONValue) bool {
	if i < 0 || i-len(a.Items) > MaxPadding {
		return false
	}
	for len(a.Items) <= i {
		a.Items = append(a.Items, nil)
	}
	a.Items[i] = value
	return true
}

// Append adds values to the end of the array
func (a *Array) Append(values ...JSONValue) {
	a.Items = append(a.Items, values...)
}

// Remove splices out the element at index i. Out of range indexes are ignored.
func (a *Array) Remove(i int) {
	if a == nil || i < 0 || i >= len(a.Items) {
		return
	}
	a.Items = append(a.Items[:i], a.Items[i+1:]...)
}

// MarshalJSON implements json.Marshaler
func (a *Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range a.Items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCompact(&buf, item); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// writeCompact encodes v without HTML escaping, which keeps the output identical
// to what a browser's JSON.stringify would produce.
func writeCompact(buf *bytes.Buffer, v JSONValue) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode always terminates with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
