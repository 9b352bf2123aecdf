package codec

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mcncl/jsondelta/internal/errors"
)

// DefaultIndent is the indent width used by Format
const DefaultIndent = 2

// MaxIndent is the widest indent Encode will produce
const MaxIndent = 10

// ClampIndent limits indent to the range 0..MaxIndent
func ClampIndent(indent int) int {
	switch {
	case indent < 0:
		return 0
	case indent > MaxIndent:
		return MaxIndent
	default:
		return indent
	}
}

// Format re-serializes text with two space indentation. Blank text yields ""
// and text that does not parse is returned unchanged.
func Format(text string) string {
	return FormatIndent(text, DefaultIndent)
}

// FormatIndent is Format with a custom indent width
func FormatIndent(text string, indent int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	v, err := ParseStrict(text)
	if err != nil {
		log.Debug("not formatting malformed JSON", "err", err)
		return text
	}
	return Stringify(v, indent)
}

// Compress re-serializes text without any whitespace.
// Like Format it passes unparsable text through untouched.
func Compress(text string) string {
	return FormatIndent(text, 0)
}

// Validation describes whether a piece of text is syntactically valid JSON.
// Line and Column are 1-based and only set when the error position is known.
type Validation struct {
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Offset int64  `json:"offset,omitempty"`
}

// Validate checks text for JSON syntax errors. Blank text counts as valid
// since there is nothing to compare yet.
func Validate(text string) Validation {
	if strings.TrimSpace(text) == "" {
		return Validation{Valid: true}
	}
	if _, err := ParseStrict(text); err != nil {
		result := Validation{Error: errors.UserFriendlyError(err)}

		var probe interface{}
		if offset := errorOffset(json.Unmarshal([]byte(text), &probe)); offset >= 0 {
			result.Offset = offset
			result.Line, result.Column = position(text, offset)
		}
		return result
	}
	return Validation{Valid: true}
}

// position converts a byte offset into a 1-based line and column. The offset
// reported by encoding/json points just past the offending byte.
func position(text string, offset int64) (int, int) {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	line, column := 1, 1
	for i := int64(0); i < offset-1; i++ {
		if text[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}
