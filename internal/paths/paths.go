package paths

import (
	"strconv"

	"github.com/mcncl/jsondelta/internal/models"
)

// lookup reads the child this step addresses inside container
func (st step) lookup(container models.JSONValue) (models.JSONValue, bool) {
	if st.isIndex {
		arr, ok := container.(*models.Array)
		if !ok || arr == nil {
			return nil, false
		}
		return arr.Get(st.index)
	}
	obj, ok := container.(*models.Object)
	if !ok || obj == nil {
		return nil, false
	}
	return obj.Get(st.key)
}

// accepts reports whether v is the kind of container this step can descend into
func (st step) accepts(v models.JSONValue) bool {
	if st.isIndex {
		arr, ok := v.(*models.Array)
		return ok && arr != nil
	}
	obj, ok := v.(*models.Object)
	return ok && obj != nil
}

// newContainer creates an empty container this step can descend into
func (st step) newContainer() models.JSONValue {
	if st.isIndex {
		return models.NewArray()
	}
	return models.NewObject()
}

// assign sets value at this step inside container, which must already be accepted
func (st step) assign(container, value models.JSONValue) {
	if st.isIndex {
		container.(*models.Array).Set(st.index, value)
		return
	}
	container.(*models.Object).Set(st.key, value)
}

// remove deletes the child this step addresses, ignoring mismatched containers
func (st step) remove(container models.JSONValue) {
	if !st.accepts(container) {
		return
	}
	if st.isIndex {
		container.(*models.Array).Remove(st.index)
		return
	}
	container.(*models.Object).Delete(st.key)
}

// reachable reports whether every index along steps lies within
// models.MaxPadding of the end of the array it lands in
func reachable(root models.JSONValue, steps []step) bool {
	current := root
	for _, st := range steps {
		if st.isIndex {
			arr, _ := current.(*models.Array)
			if st.index-arr.Len() > models.MaxPadding {
				return false
			}
		}
		current, _ = st.lookup(current)
	}
	return true
}

func walk(root models.JSONValue, steps []step) (models.JSONValue, bool) {
	current := root
	for _, st := range steps {
		next, ok := st.lookup(current)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Resolve returns the value at path and whether it exists.
// An empty path resolves to root itself. Resolution never panics: a missing
// key, an out of range index or a non-container along the way all report absence.
func Resolve(root models.JSONValue, path string) (models.JSONValue, bool) {
	if path == "" {
		return root, true
	}
	return walk(root, toSteps(Parse(path)))
}

// Write stores value at path, creating intermediate containers as needed.
//
// A missing intermediate becomes an array when the following step is an index
// and an object otherwise. Values along the path that are not the container
// kind the next step needs are replaced by a fresh container, so writing
// "a.b" into {"a": 1} yields {"a": {"b": value}}. The empty path is a no-op,
// as is any path whose first step does not fit root, because the root
// reference belongs to the caller. A path with an index more than
// models.MaxPadding past the end of its array is skipped entirely.
func Write(root models.JSONValue, path string, value models.JSONValue) {
	if path == "" {
		return
	}
	steps := toSteps(Parse(path))
	if len(steps) == 0 || !steps[0].accepts(root) || !reachable(root, steps) {
		return
	}

	current := root
	for i, st := range steps[:len(steps)-1] {
		next := steps[i+1]
		child, ok := st.lookup(current)
		if !ok || !next.accepts(child) {
			child = next.newContainer()
			st.assign(current, child)
		}
		current = child
	}
	steps[len(steps)-1].assign(current, value)
}

// Delete removes the value at path. Paths that do not resolve are ignored.
// Array elements are spliced out, shifting later elements down by one.
func Delete(root models.JSONValue, path string) {
	if path == "" {
		return
	}
	steps := toSteps(Parse(path))
	if len(steps) == 0 {
		return
	}
	parent, ok := walk(root, steps[:len(steps)-1])
	if !ok {
		return
	}
	steps[len(steps)-1].remove(parent)
}

// Enumerate lists every path inside root, depth-first with parents before
// their descendants. Object keys follow insertion order. Scalars add nothing.
func Enumerate(root models.JSONValue, prefix string) []string {
	var paths []string
	enumerate(root, prefix, &paths)
	return paths
}

func enumerate(v models.JSONValue, prefix string, out *[]string) {
	switch node := v.(type) {
	case *models.Array:
		if node == nil {
			return
		}
		for i, item := range node.Items {
			current := prefix + "[" + strconv.Itoa(i) + "]"
			*out = append(*out, current)
			enumerate(item, current, out)
		}
	case *models.Object:
		if node == nil {
			return
		}
		for _, key := range node.Keys() {
			current := key
			if prefix != "" {
				current = prefix + "." + key
			}
			*out = append(*out, current)
			child, _ := node.Get(key)
			enumerate(child, current, out)
		}
	}
}
