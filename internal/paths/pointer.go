package paths

import (
	"strconv"
	"strings"

	"github.com/mcncl/jsondelta/internal/models"
)

var (
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
)

// FromPointer converts an RFC 6901 JSON pointer ("/a/b/0") into a dotted path
// ("a.b[0]"). A numeric token only becomes an index when the value it is applied
// to in doc is an array; everywhere else tokens are keys. The "-" token of an
// array names the position just past its last element.
func FromPointer(doc models.JSONValue, pointer string) string {
	if pointer == "" {
		return ""
	}

	tokens := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	var b strings.Builder
	current := doc
	for _, raw := range tokens {
		token := pointerUnescaper.Replace(raw)

		if arr, ok := current.(*models.Array); ok && arr != nil {
			if idx, ok := arrayIndex(arr, token); ok {
				b.WriteString("[" + strconv.Itoa(idx) + "]")
				current, _ = arr.Get(idx)
				continue
			}
		}

		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
		if obj, ok := current.(*models.Object); ok && obj != nil {
			current, _ = obj.Get(token)
		} else {
			current = nil
		}
	}
	return b.String()
}

func arrayIndex(arr *models.Array, token string) (int, bool) {
	if token == "-" {
		return arr.Len(), true
	}
	if token == "" || strings.TrimLeft(token, "0123456789") != "" {
		return 0, false
	}
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// ToPointer converts a dotted path into an RFC 6901 JSON pointer.
// The empty path maps to the empty pointer, which addresses the whole document.
func ToPointer(path string) string {
	var b strings.Builder
	for _, st := range toSteps(Parse(path)) {
		b.WriteByte('/')
		if st.isIndex {
			b.WriteString(strconv.Itoa(st.index))
		} else {
			b.WriteString(pointerEscaper.Replace(st.key))
		}
	}
	return b.String()
}
