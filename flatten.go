package jsonedit

import "sort"

// Node is one visible row of the flattened tree projection. Nodes are
// rebuilt wholesale on every recompute; only the ID survives across
// rebuilds (for expansion-state lookups on the UI side).
type Node struct {
	ID         string // canonical path string
	Label      string // field name, or "[i]" for array elements
	Value      Value  // current value, or original value for deleted ghost rows
	Depth      int
	ParentKind Kind
	Expanded   bool
	Container  bool
	Change     ChangeKind
}

// ConfigureOptions carries the per-document inputs that feed the
// change map and the initial expansion state.
type ConfigureOptions struct {
	// Status is the whole-document version-control status. ChangeAdded
	// or ChangeDeleted switches diffing to hybrid mode; anything else
	// means a plain per-field diff.
	Status ChangeKind

	// EditedPaths seeds the cumulative edited-path set, canonical
	// strings. Usually empty on a fresh load.
	EditedPaths []string

	// Expanded lists container paths expanded by default, in addition
	// to the root (which always starts expanded).
	Expanded []string
}

// Session owns the derived display state for one open document:
// change map, expansion sets, change filter, and the visible row
// sequence. Every input change triggers a full recompute of the rows;
// nothing is patched incrementally. A Session must not be shared
// across documents; sessions for different documents are independent
// and safe to drive from different goroutines.
type Session struct {
	current  Value
	original Value
	status   ChangeKind
	edited   PathSet

	changes ChangeMap

	expanded       PathSet
	collapsed      PathSet
	searchExpanded PathSet

	filterChanges bool
	kept          PathSet

	rows []Node
}

func NewSession() *Session {
	return &Session{}
}

// Configure resets the session for a (re)loaded document: all derived
// state is discarded, the change map recomputed, and the visible rows
// rebuilt. original may be nil when there is no baseline.
func (s *Session) Configure(current, original Value, opts ConfigureOptions) {
	s.current = current
	s.original = original
	s.status = opts.Status
	s.edited = NewPathSet(opts.EditedPaths...)
	s.expanded = NewPathSet(opts.Expanded...)
	s.expanded.Add("")
	s.collapsed = NewPathSet()
	s.searchExpanded = NewPathSet()
	s.filterChanges = false
	s.recompute()
}

// Rows returns the current visible row sequence. The slice is owned by
// the session and replaced wholesale on the next recompute.
func (s *Session) Rows() []Node {
	return s.rows
}

// ChangeAt returns the classification recorded for path, ChangeNone
// when the path is unchanged.
func (s *Session) ChangeAt(path string) ChangeKind {
	return s.changes[path]
}

// Changes returns the current change map.
func (s *Session) Changes() ChangeMap {
	return s.changes
}

// ChangedCount returns the number of classified paths.
func (s *Session) ChangedCount() int {
	return len(s.changes)
}

// IsExpanded reports the effective expansion of path: search-forced
// expansion always wins, then a manual collapse, then the expanded
// set.
func (s *Session) IsExpanded(path string) bool {
	if s.searchExpanded.Has(path) {
		return true
	}
	if s.collapsed.Has(path) {
		return false
	}
	return s.expanded.Has(path)
}

// Expand marks path expanded and clears any manual collapse on it.
func (s *Session) Expand(path string) {
	delete(s.collapsed, path)
	s.expanded.Add(path)
	s.recomputeRows()
}

// Collapse manually collapses path, overriding default expansion.
func (s *Session) Collapse(path string) {
	delete(s.expanded, path)
	s.collapsed.Add(path)
	s.recomputeRows()
}

// Toggle flips the effective expansion of path.
func (s *Session) Toggle(path string) {
	if s.IsExpanded(path) {
		s.Collapse(path)
	} else {
		s.Expand(path)
	}
}

// ExpandAll expands every container path present in either tree, so
// deleted branches open up too.
func (s *Session) ExpandAll() {
	s.expanded = s.containerInventory()
	s.expanded.Add("")
	s.collapsed = NewPathSet()
	s.recomputeRows()
}

// CollapseAllExceptRoot collapses everything below the root.
func (s *Session) CollapseAllExceptRoot() {
	s.collapsed = s.containerInventory()
	s.expanded = NewPathSet("")
	s.recomputeRows()
}

// SetSearchPath force-expands every ancestor of the matched path so
// the match is reachable. An empty path clears the forced set.
func (s *Session) SetSearchPath(path string) {
	if path == "" {
		s.searchExpanded = NewPathSet()
	} else {
		s.searchExpanded = NewPathSet(ancestorPaths(path)...)
	}
	s.recomputeRows()
}

// SetChangeFilter toggles showing only changed paths plus the
// ancestors needed to keep the tree connected.
func (s *Session) SetChangeFilter(enabled bool) {
	s.filterChanges = enabled
	s.recomputeRows()
}

// SetValue applies one edit to the current tree, records the path as
// explicitly edited, and recomputes. The error is the patcher's:
// structural impossibility rejects the single edit and leaves the
// session untouched.
func (s *Session) SetValue(p Path, newValue Value) error {
	updated, err := SetValue(s.current, p, newValue)
	if err != nil {
		return err
	}
	s.current = updated
	s.edited.Add(p.String())
	s.recompute()
	return nil
}

// EditedPaths returns the cumulative edited-path set. It resets on
// Configure, i.e. on save or reload.
func (s *Session) EditedPaths() PathSet {
	return s.edited
}

// Current returns the session's current tree.
func (s *Session) Current() Value {
	return s.current
}

// recompute rebuilds the change map and then the rows.
func (s *Session) recompute() {
	if s.status == ChangeAdded || s.status == ChangeDeleted {
		s.changes = CompareHybrid(s.current, s.original, s.status, s.edited)
	} else {
		s.changes = Compare(s.current, s.original)
	}
	s.recomputeRows()
}

// recomputeRows rebuilds the visible row sequence from scratch.
func (s *Session) recomputeRows() {
	s.kept = nil
	if s.filterChanges {
		s.kept = NewPathSet()
		for p := range s.changes {
			s.kept.Add(p)
			for _, anc := range ancestorPaths(p) {
				s.kept.Add(anc)
			}
		}
	}
	s.rows = s.rows[:0]
	root := s.current
	ghost := false
	if root == nil {
		root, ghost = s.original, true
	}
	if root == nil {
		return
	}
	if s.kept != nil && !s.kept.Has("") {
		return
	}
	change := s.changes[""]
	if ghost {
		change = ChangeDeleted
	}
	s.rows = append(s.rows, Node{
		ID:        "",
		Value:     root,
		Expanded:  s.IsExpanded(""),
		Container: IsContainer(root),
		Change:    change,
	})
	if IsContainer(root) && s.IsExpanded("") {
		s.appendChildren(nil, s.current, s.original, 1)
	}
}

// appendChildren emits rows for the union of children from current
// and original, so fields deleted from current still appear as ghost
// rows. Object fields come out in sorted lexical order, array elements
// in index order. Children of a collapsed container are never visited,
// which bounds the cost of a rebuild to the number of visible rows.
func (s *Session) appendChildren(p Path, cur, orig Value, depth int) {
	parentKind := KindObject
	if cur != nil {
		parentKind = cur.Kind()
	} else if orig != nil {
		parentKind = orig.Kind()
	}
	switch parentKind {
	case KindObject:
		co, _ := cur.(Object)
		oo, _ := orig.(Object)
		keys := unionKeys(co, oo)
		sort.Strings(keys)
		for _, key := range keys {
			cv, _ := co.Get(key)
			ov, _ := oo.Get(key)
			s.appendNode(p.Child(Field(key)), key, cv, ov, depth, parentKind)
		}
	case KindArray:
		ca, _ := cur.(Array)
		oa, _ := orig.(Array)
		n := len(ca)
		if len(oa) > n {
			n = len(oa)
		}
		for i := 0; i < n; i++ {
			var cv, ov Value
			if i < len(ca) {
				cv = ca[i]
			}
			if i < len(oa) {
				ov = oa[i]
			}
			s.appendNode(p.Child(Index(i)), Path{Index(i)}.String(), cv, ov, depth, parentKind)
		}
	}
}

func (s *Session) appendNode(p Path, label string, cv, ov Value, depth int, parentKind Kind) {
	id := p.String()
	if s.kept != nil && !s.kept.Has(id) {
		return
	}
	val := cv
	if val == nil {
		val = ov // deleted ghost row resolves from original
	}
	if val == nil {
		return
	}
	node := Node{
		ID:         id,
		Label:      label,
		Value:      val,
		Depth:      depth,
		ParentKind: parentKind,
		Container:  IsContainer(val),
		Change:     s.changes[id],
	}
	node.Expanded = node.Container && s.IsExpanded(id)
	s.rows = append(s.rows, node)
	if node.Expanded {
		s.appendChildren(p, cv, ov, depth+1)
	}
}

// containerInventory collects every container path from both trees.
// The root is excluded; callers decide its fate.
func (s *Session) containerInventory() PathSet {
	inv := NewPathSet()
	var walk func(p Path, v Value)
	walk = func(p Path, v Value) {
		switch vv := v.(type) {
		case Object:
			if len(p) > 0 {
				inv.Add(p.String())
			}
			for _, m := range vv {
				walk(p.Child(Field(m.Key)), m.Value)
			}
		case Array:
			if len(p) > 0 {
				inv.Add(p.String())
			}
			for i, e := range vv {
				walk(p.Child(Index(i)), e)
			}
		}
	}
	if s.current != nil {
		walk(nil, s.current)
	}
	if s.original != nil {
		walk(nil, s.original)
	}
	return inv
}
