// Package escape makes arbitrary text safe to interpolate into the markup and
// comma separated report formats.
package escape

import (
	"fmt"
	"strings"
)

// markupReplacer runs a single left to right pass, so an already escaped
// "&amp;" becomes "&amp;amp;". Escaping is therefore not idempotent.
var markupReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#x2F;",
)

// Markup escapes the characters & < > " ' and / as HTML entities.
// No other characters are touched.
func Markup(text string) string {
	return markupReplacer.Replace(text)
}

// TabularField renders value as one comma separated field. nil becomes an
// empty quoted field. Values containing a double quote, a comma or a line break
// are wrapped in double quotes with inner quotes doubled; everything else is
// returned as is.
func TabularField(value interface{}) string {
	if value == nil {
		return `""`
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}

	if strings.ContainsAny(s, "\",\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
