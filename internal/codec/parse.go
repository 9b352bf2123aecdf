// Package codec parses and serializes JSON while keeping object key order.
//
// The strict functions return errors from internal/errors. The lenient ones
// (Parse, Stringify, Format, Compress) never fail: malformed input degrades to a
// fallback value or the unchanged text and the failure is logged at debug level.
package codec

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
)

// ParseStrict decodes a single JSON value from text. Object keys keep the order
// they appear in and numbers are kept as json.Number.
func ParseStrict(text string) (models.JSONValue, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseReader(strings.NewReader(text))
}

// ParseBytes is ParseStrict for a byte slice
func ParseBytes(data []byte) (models.JSONValue, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	return ParseReader(bytes.NewReader(data))
}

// ParseReader decodes exactly one JSON value from reader. Whitespace after the
// value is allowed; a second value is not.
func ParseReader(reader io.Reader) (models.JSONValue, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return nil, decodeError(err, decoder)
	}

	root, err := decodeToken(decoder, tok)
	if err != nil {
		return nil, decodeError(err, decoder)
	}

	// Anything but EOF after the first value is either a second value or garbage
	if _, err := decoder.Token(); err == nil {
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError(
			fmt.Sprintf("invalid trailing data after first JSON value: %v", err),
			errors.ErrInvalidJSON,
		)
	}

	return root, nil
}

func decodeValue(decoder *json.Decoder) (models.JSONValue, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, unexpectedEOF(err)
	}
	return decodeToken(decoder, tok)
}

func decodeToken(decoder *json.Decoder, tok json.Token) (models.JSONValue, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}

	switch delim {
	case '{':
		obj := models.NewObject()
		for decoder.More() {
			keyTok, err := decoder.Token()
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", keyTok)
			}
			value, err := decodeValue(decoder)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if err := expectDelim(decoder, '}'); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := models.NewArray()
		for decoder.More() {
			value, err := decodeValue(decoder)
			if err != nil {
				return nil, err
			}
			arr.Append(value)
		}
		if err := expectDelim(decoder, ']'); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	tok, err := decoder.Token()
	if err != nil {
		return unexpectedEOF(err)
	}
	if got, ok := tok.(json.Delim); !ok || got != want {
		return fmt.Errorf("expected %q, found %v", want, tok)
	}
	return nil
}

// unexpectedEOF turns an EOF inside a value into io.ErrUnexpectedEOF
func unexpectedEOF(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func decodeError(err error, decoder *json.Decoder) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError(
			fmt.Sprintf("unexpected end of JSON input at offset %d", decoder.InputOffset()),
			errors.ErrInvalidJSON,
		)
	}
	return errors.NewParsingError(
		fmt.Sprintf("failed to decode JSON at offset %d: %v", decoder.InputOffset(), err),
		errors.ErrInvalidJSON,
	)
}

// Parse decodes text and returns fallback when it is blank or malformed
func Parse(text string, fallback models.JSONValue) models.JSONValue {
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	v, err := ParseStrict(text)
	if err != nil {
		log.Debug("malformed JSON input, using fallback", "err", err)
		return fallback
	}
	return v
}

// errorOffset pulls the byte offset out of a parse error, or -1 when there is none
func errorOffset(err error) int64 {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return syntaxError.Offset
	}
	return -1
}
