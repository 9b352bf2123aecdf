package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
)

type encoder struct {
	buf    bytes.Buffer
	indent string
	// containers currently being written, used to detect cycles
	active map[interface{}]struct{}
}

// Encode serializes v keeping object key order. With indent > 0 the output is
// spread over lines with indent spaces per level and ": " after keys; with 0 it
// is compact. Widths above MaxIndent are clamped to MaxIndent. HTML
// characters are not escaped.
func Encode(v models.JSONValue, indent int) ([]byte, error) {
	e := &encoder{active: make(map[interface{}]struct{})}
	indent = ClampIndent(indent)
	if indent > 0 {
		e.indent = strings.Repeat(" ", indent)
	}
	if err := e.write(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

func (e *encoder) write(v models.JSONValue, depth int) error {
	switch node := v.(type) {
	case *models.Object:
		if node == nil {
			e.buf.WriteString("null")
			return nil
		}
		return e.writeObject(node, depth)
	case *models.Array:
		if node == nil {
			e.buf.WriteString("null")
			return nil
		}
		return e.writeArray(node, depth)
	default:
		return e.writeScalar(v)
	}
}

func (e *encoder) enter(container interface{}) error {
	if _, seen := e.active[container]; seen {
		return errors.NewSerializationError("cannot serialize a value that contains itself", errors.ErrCyclicValue)
	}
	e.active[container] = struct{}{}
	return nil
}

func (e *encoder) writeObject(obj *models.Object, depth int) error {
	if err := e.enter(obj); err != nil {
		return err
	}
	defer delete(e.active, obj)

	keys := obj.Keys()
	if len(keys) == 0 {
		e.buf.WriteString("{}")
		return nil
	}

	e.buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.writeScalar(key); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if e.indent != "" {
			e.buf.WriteByte(' ')
		}
		child, _ := obj.Get(key)
		if err := e.write(child, depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) writeArray(arr *models.Array, depth int) error {
	if err := e.enter(arr); err != nil {
		return err
	}
	defer delete(e.active, arr)

	if len(arr.Items) == 0 {
		e.buf.WriteString("[]")
		return nil
	}

	e.buf.WriteByte('[')
	for i, item := range arr.Items {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.write(item, depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) writeScalar(v models.JSONValue) error {
	switch s := v.(type) {
	case nil:
		e.buf.WriteString("null")
		return nil
	case bool:
		if s {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
		return nil
	case json.Number:
		if s == "" {
			e.buf.WriteString("0")
			return nil
		}
	case float64:
		// Non-finite numbers have no JSON form and are written as null
		if math.IsNaN(s) || math.IsInf(s, 0) {
			e.buf.WriteString("null")
			return nil
		}
	}

	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.NewSerializationError(fmt.Sprintf("cannot serialize value of type %T", v), errors.ErrUnsupportedType)
	}
	e.buf.Write(bytes.TrimSuffix(scratch.Bytes(), []byte("\n")))
	return nil
}

// Stringify is Encode that never fails. When v cannot be serialized it returns a
// short description of v instead and logs the failure.
func Stringify(v models.JSONValue, indent int) string {
	out, err := Encode(v, indent)
	if err != nil {
		log.Debug("could not serialize value", "err", err)
		return describe(v)
	}
	return string(out)
}

func describe(v models.JSONValue) string {
	switch node := v.(type) {
	case *models.Object:
		return fmt.Sprintf("<object with %d entries>", node.Len())
	case *models.Array:
		return fmt.Sprintf("<array with %d items>", node.Len())
	default:
		return fmt.Sprint(v)
	}
}
