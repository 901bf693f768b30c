package jsonedit

import "sort"

// Reconstruct builds a minimal document containing only the edited
// paths and the scaffolding needed to reach them. It is used when the
// backing file is deleted upstream: saving the full current tree would
// silently resurrect content the user never touched.
//
// Each edited path resolves against current; a path that fails to
// resolve (absent key, out-of-range index, traversal through a leaf)
// is skipped silently and the rest proceed. Intermediate containers
// are created per the next segment's kind. Array targets grow to
// index+1, with untouched lower slots filled by empty objects so index
// alignment is preserved. Note the filler is an empty object even when
// the siblings are primitives; this mirrors the historical behavior
// downstream consumers rely on, quirky as it is.
//
// When nothing resolves, the result is an empty root object.
func Reconstruct(current Value, edited PathSet) Value {
	paths := make([]string, 0, len(edited))
	for p := range edited {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var root Value = Object{}
	for _, ps := range paths {
		p, err := ParsePath(ps)
		if err != nil || len(p) == 0 {
			continue
		}
		v, ok := Resolve(current, p)
		if !ok {
			continue
		}
		if updated, ok := sparseInsert(root, p, Clone(v)); ok {
			root = updated
		}
	}
	return root
}

// sparseInsert places val at path inside container, creating
// intermediate objects/arrays as needed. A kind conflict with an
// already-built intermediate reports ok=false and leaves the container
// untouched.
func sparseInsert(container Value, path Path, val Value) (Value, bool) {
	seg := path[0]
	last := len(path) == 1

	if seg.IsIndex {
		arr, ok := container.(Array)
		if !ok {
			return container, false
		}
		for len(arr) <= seg.Index {
			arr = append(arr, Object{})
		}
		if last {
			arr[seg.Index] = val
			return arr, true
		}
		child := arr[seg.Index]
		if placeholder, isObj := child.(Object); isObj && len(placeholder) == 0 && path[1].IsIndex {
			// Filler slot being promoted to a real intermediate array.
			child = Array{}
		}
		updated, ok := sparseInsert(child, path[1:], val)
		if !ok {
			return container, false
		}
		arr[seg.Index] = updated
		return arr, true
	}

	obj, ok := container.(Object)
	if !ok {
		return container, false
	}
	if last {
		return obj.Set(seg.Name, val), true
	}
	child, exists := obj.Get(seg.Name)
	if !exists {
		if path[1].IsIndex {
			child = Array{}
		} else {
			child = Object{}
		}
	}
	updated, ok := sparseInsert(child, path[1:], val)
	if !ok {
		return container, false
	}
	return obj.Set(seg.Name, updated), true
}
