// Package compare computes the list of differences between two JSON documents,
// either in process or by asking a remote comparison service.
package compare

import (
	"context"
	"strings"

	"github.com/mcncl/jsondelta/internal/models"
	"github.com/mcncl/jsondelta/internal/tree"
)

// Comparer produces the classified differences between left and right.
// Entries are returned in a stable order.
type Comparer interface {
	Compare(ctx context.Context, left, right models.JSONValue, settings models.CompareSettings) ([]models.DiffEntry, error)
}

// prepare applies the string folding settings to a copy of v
func prepare(v models.JSONValue, settings models.CompareSettings) models.JSONValue {
	if !settings.IgnoreWhitespace && settings.CaseSensitive {
		return v
	}
	return tree.MapStrings(v, func(s string) string {
		if settings.IgnoreWhitespace {
			s = strings.TrimSpace(s)
		}
		if !settings.CaseSensitive {
			s = strings.ToLower(s)
		}
		return s
	})
}

func truncate(diffs []models.DiffEntry, limit int) []models.DiffEntry {
	if limit > 0 && len(diffs) > limit {
		return diffs[:limit]
	}
	return diffs
}
