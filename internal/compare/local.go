package compare

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/mcncl/jsondelta/internal/paths"
	"github.com/wI2L/jsondiff"
)

// Local compares documents in process using RFC 6902 patches from jsondiff.
// Reported values are read back from the caller's documents, so key order and
// the literal text of numbers survive the round trip.
type Local struct {
	logger *log.Logger
}

// NewLocal creates a Local comparer. A nil logger uses log.Default().
func NewLocal(logger *log.Logger) *Local {
	if logger == nil {
		logger = log.Default()
	}
	return &Local{logger: logger}
}

// Compare implements Comparer
func (l *Local) Compare(ctx context.Context, left, right models.JSONValue, settings models.CompareSettings) ([]models.DiffEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	patch, err := l.patch(left, right, settings)
	if err != nil {
		return nil, err
	}

	appended := make(map[string]int)
	diffs := make([]models.DiffEntry, 0, len(patch))
	for _, op := range patch {
		switch op.Type {
		case jsondiff.OperationAdd:
			path := l.addPath(op.Path, left, right, appended)
			diffs = append(diffs, models.Added(path, valueAt(right, path, op.Value)))
		case jsondiff.OperationRemove:
			path := paths.FromPointer(left, op.Path)
			diffs = append(diffs, models.Removed(path, valueAt(left, path, op.OldValue)))
		case jsondiff.OperationReplace:
			path := paths.FromPointer(left, op.Path)
			diffs = append(diffs, models.Modified(path, valueAt(left, path, op.OldValue), valueAt(right, path, op.Value)))
		default:
			l.logger.Debug("skipping patch operation", "op", op.Type, "path", op.Path)
		}
	}

	l.logger.Debug("compared documents", "differences", len(diffs))
	return truncate(diffs, settings.MaxDifferences), nil
}

// Patch returns the raw RFC 6902 patch that turns left into right
func (l *Local) Patch(left, right models.JSONValue, settings models.CompareSettings) (jsondiff.Patch, error) {
	return l.patch(left, right, settings)
}

func (l *Local) patch(left, right models.JSONValue, settings models.CompareSettings) (jsondiff.Patch, error) {
	source, err := codec.Encode(prepare(left, settings), 0)
	if err != nil {
		return nil, errors.NewCompareError("cannot encode left document", err)
	}
	target, err := codec.Encode(prepare(right, settings), 0)
	if err != nil {
		return nil, errors.NewCompareError("cannot encode right document", err)
	}

	var opts []jsondiff.Option
	if settings.IgnoreOrder {
		opts = append(opts, jsondiff.Equivalent())
	}

	patch, err := jsondiff.CompareJSON(source, target, opts...)
	if err != nil {
		return nil, errors.NewCompareError("failed to compare documents", err)
	}
	return patch, nil
}

// addPath converts the pointer of an add operation. A trailing "-" appends to
// an array of the left document; consecutive appends get consecutive indexes.
func (l *Local) addPath(pointer string, left, right models.JSONValue, appended map[string]int) string {
	parentPtr, ok := strings.CutSuffix(pointer, "/-")
	if !ok {
		return paths.FromPointer(right, pointer)
	}

	parent := paths.FromPointer(left, parentPtr)
	base := 0
	if v, found := paths.Resolve(left, parent); found {
		if arr, isArr := v.(*models.Array); isArr {
			base = arr.Len()
		}
	}
	index := base + appended[parentPtr]
	appended[parentPtr]++

	return parent + "[" + strconv.Itoa(index) + "]"
}

func valueAt(doc models.JSONValue, path string, fallback interface{}) models.JSONValue {
	if v, ok := paths.Resolve(doc, path); ok {
		return v
	}
	return fallback
}
