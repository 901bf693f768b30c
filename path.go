package jsonedit

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a named object field or a
// positional array index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// Field returns an object-field segment.
func Field(name string) Segment { return Segment{Name: name} }

// Index returns an array-index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path addresses a location in a document tree. The zero-length Path
// addresses the root. Paths are values: append via Child, never mutate
// a Path another structure holds.
type Path []Segment

// Child returns a new Path extending p by one segment. The backing
// array is always copied so siblings built from the same parent do not
// alias each other.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// String renders the canonical dot-joined form, e.g. "a.b.[0].c".
// Field names are escaped so the rendering stays injective: backslash
// and dot are backslash-escaped, a leading "[" is escaped so a field
// literally named "[0]" cannot collide with an index segment, and the
// empty field name renders as `\e` so it cannot collide with the
// root's empty rendering.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if i > 0 {
			sb.WriteByte('.')
		}
		if seg.IsIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.Index))
			sb.WriteByte(']')
			continue
		}
		sb.WriteString(escapeSegment(seg.Name))
	}
	return sb.String()
}

func escapeSegment(name string) string {
	if name == "" {
		return `\e`
	}
	if !strings.ContainsAny(name, `\.`) && !strings.HasPrefix(name, "[") {
		return name
	}
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '\\' || c == '.' || (c == '[' && i == 0) {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// ParsePath is the inverse of Path.String. It fails on malformed index
// segments or dangling escapes.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	var p Path
	var cur strings.Builder
	escaped := false
	raw := true // no escape seen in the current segment yet
	flush := func() error {
		seg := cur.String()
		cur.Reset()
		if raw && strings.HasPrefix(seg, "[") {
			if !strings.HasSuffix(seg, "]") {
				return fmt.Errorf("jsonedit: malformed index segment %q in path %q", seg, s)
			}
			n, err := strconv.Atoi(seg[1 : len(seg)-1])
			if err != nil || n < 0 {
				return fmt.Errorf("jsonedit: malformed index segment %q in path %q", seg, s)
			}
			p = append(p, Index(n))
			return nil
		}
		p = append(p, Field(seg))
		return nil
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			if c != 'e' {
				// `\e` is the empty-field marker and contributes no
				// bytes; every other escape passes its char through.
				cur.WriteByte(c)
			}
			escaped = false
		case c == '\\':
			escaped = true
			raw = false
		case c == '.':
			if err := flush(); err != nil {
				return nil, err
			}
			raw = true
		default:
			cur.WriteByte(c)
		}
	}
	if escaped {
		return nil, fmt.Errorf("jsonedit: dangling escape in path %q", s)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return p, nil
}

// PathSet is a set of canonical path strings, typically the fields a
// user explicitly edited in one session.
type PathSet map[string]struct{}

func NewPathSet(paths ...string) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

func (s PathSet) Add(path string)      { s[path] = struct{}{} }
func (s PathSet) Has(path string) bool { _, ok := s[path]; return ok }

// Covers reports whether path equals a member of the set or is nested
// under one. The check is segment-boundary aware: "ab" is not covered
// by "a".
func (s PathSet) Covers(path string) bool {
	if s.Has(path) {
		return true
	}
	for member := range s {
		if isDescendantPath(path, member) {
			return true
		}
	}
	return false
}

// isDescendantPath reports whether path is strictly below ancestor in
// canonical string form.
func isDescendantPath(path, ancestor string) bool {
	if ancestor == "" {
		return path != ""
	}
	return len(path) > len(ancestor) &&
		strings.HasPrefix(path, ancestor) &&
		path[len(ancestor)] == '.'
}

// ancestorPaths returns every proper prefix of path in canonical form,
// starting with the root "".
func ancestorPaths(path string) []string {
	p, err := ParsePath(path)
	if err != nil {
		return []string{""}
	}
	out := make([]string, 0, len(p))
	for i := 0; i < len(p); i++ {
		out = append(out, Path(p[:i]).String())
	}
	return out
}
