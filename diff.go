package jsonedit

import "sort"

// ChangeKind classifies a path relative to the comparison baseline.
// The zero value means unchanged; unchanged paths are never stored in
// a ChangeMap.
type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	ChangeAdded
	ChangeModified
	ChangeDeleted
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeDeleted:
		return "deleted"
	}
	return "unchanged"
}

// ChangeMap is a sparse classification keyed by canonical path string.
// Absence of a key means the path is unchanged.
type ChangeMap map[string]ChangeKind

// Paths returns the classified paths in sorted order.
func (m ChangeMap) Paths() []string {
	out := make([]string, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Compare diffs current against original and returns the sparse change
// map. A nil original is treated as an empty tree, so every current
// leaf comes out added. Compare never fails.
//
// Marking is deliberately asymmetric. Additions are recorded only at
// the leaves that hold new content; a container that exists only in
// current gets no entry of its own. Deletions are recorded at every
// node of the removed subtree, containers included, so a collapsed
// container still shows as removed.
func Compare(current, original Value) ChangeMap {
	m := ChangeMap{}
	diffInto(m, nil, current, original)
	return m
}

func diffInto(m ChangeMap, p Path, cur, orig Value) {
	switch {
	case cur == nil && orig == nil:
		return
	case orig == nil:
		markAdded(m, p, cur)
	case cur == nil:
		markDeleted(m, p, orig)
	case Equal(cur, orig):
		return
	case cur.Kind() == orig.Kind() && IsContainer(cur):
		diffChildren(m, p, cur, orig)
	default:
		// Leaf change, or the slot's kind changed outright (leaf vs
		// container, object vs array): one modification at this path.
		m[p.String()] = ChangeModified
	}
}

// diffChildren walks the union of child names/indices present in
// either side.
func diffChildren(m ChangeMap, p Path, cur, orig Value) {
	switch c := cur.(type) {
	case Object:
		o := orig.(Object)
		for _, key := range unionKeys(c, o) {
			cv, _ := c.Get(key)
			ov, _ := o.Get(key)
			diffInto(m, p.Child(Field(key)), cv, ov)
		}
	case Array:
		o := orig.(Array)
		n := len(c)
		if len(o) > n {
			n = len(o)
		}
		for i := 0; i < n; i++ {
			var cv, ov Value
			if i < len(c) {
				cv = c[i]
			}
			if i < len(o) {
				ov = o[i]
			}
			diffInto(m, p.Child(Index(i)), cv, ov)
		}
	}
}

// markAdded records added leaves under p. Containers reached this way
// stay unrecorded.
func markAdded(m ChangeMap, p Path, v Value) {
	switch vv := v.(type) {
	case Object:
		for _, mem := range vv {
			markAdded(m, p.Child(Field(mem.Key)), mem.Value)
		}
	case Array:
		for i, e := range vv {
			markAdded(m, p.Child(Index(i)), e)
		}
	default:
		m[p.String()] = ChangeAdded
	}
}

// markDeleted records p and every descendant, leaf and container
// alike, as deleted.
func markDeleted(m ChangeMap, p Path, v Value) {
	m[p.String()] = ChangeDeleted
	switch vv := v.(type) {
	case Object:
		for _, mem := range vv {
			markDeleted(m, p.Child(Field(mem.Key)), mem.Value)
		}
	case Array:
		for i, e := range vv {
			markDeleted(m, p.Child(Index(i)), e)
		}
	}
}

func unionKeys(cur, orig Object) []string {
	keys := make([]string, 0, len(cur)+len(orig))
	seen := make(map[string]struct{}, len(cur)+len(orig))
	for _, m := range cur {
		if _, ok := seen[m.Key]; !ok {
			seen[m.Key] = struct{}{}
			keys = append(keys, m.Key)
		}
	}
	for _, m := range orig {
		if _, ok := seen[m.Key]; !ok {
			seen[m.Key] = struct{}{}
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// CompareHybrid overlays a whole-document status (added or deleted)
// onto a per-field diff. Paths covered by edited -- equal to an edited
// path or nested under one -- are classified by plain value comparison
// against original; every other path present in current takes status
// verbatim, containers included, even when its value matches original.
// Paths present only in original are always deleted, recursively,
// whether or not they were edited. The root document's own path is not
// recorded; status applies from the first level down.
//
// A status other than added or deleted degenerates to a plain Compare.
func CompareHybrid(current, original Value, status ChangeKind, edited PathSet) ChangeMap {
	if status != ChangeAdded && status != ChangeDeleted {
		return Compare(current, original)
	}
	m := ChangeMap{}
	hybridChildren(m, nil, current, original, status, edited)
	return m
}

func hybridInto(m ChangeMap, p Path, cur, orig Value, status ChangeKind, edited PathSet) {
	if cur == nil {
		if orig != nil {
			markDeleted(m, p, orig)
		}
		return
	}
	if edited.Covers(p.String()) {
		// Explicitly edited fields keep per-field semantics; from here
		// down everything is a descendant of an edited path.
		diffInto(m, p, cur, orig)
		return
	}
	m[p.String()] = status
	if IsContainer(cur) {
		hybridChildren(m, p, cur, orig, status, edited)
	}
}

func hybridChildren(m ChangeMap, p Path, cur, orig Value, status ChangeKind, edited PathSet) {
	switch c := cur.(type) {
	case Object:
		var o Object
		if oo, ok := orig.(Object); ok {
			o = oo
		}
		for _, key := range unionKeys(c, o) {
			cv, _ := c.Get(key)
			ov, _ := o.Get(key)
			hybridInto(m, p.Child(Field(key)), cv, ov, status, edited)
		}
	case Array:
		var o Array
		if oo, ok := orig.(Array); ok {
			o = oo
		}
		n := len(c)
		if len(o) > n {
			n = len(o)
		}
		for i := 0; i < n; i++ {
			var cv, ov Value
			if i < len(c) {
				cv = c[i]
			}
			if i < len(o) {
				ov = o[i]
			}
			hybridInto(m, p.Child(Index(i)), cv, ov, status, edited)
		}
	}
}
