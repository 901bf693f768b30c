package jsonedit

import (
	"errors"
	"fmt"
)

// ErrBadTarget reports a structurally impossible edit, e.g. an index
// segment applied to an object or traversal through a scalar. The
// offending edit is rejected; nothing is mutated.
var ErrBadTarget = errors.New("jsonedit: edit target is structurally impossible")

// SetValue returns a copy of root with the value at p replaced by
// newValue. Containers along the path are rebuilt; untouched siblings
// are shared with the input tree. A missing object field is created
// (edits may restore a deleted field), and an index equal to the array
// length appends. Anything else that cannot hold the edit fails with
// ErrBadTarget.
func SetValue(root Value, p Path, newValue Value) (Value, error) {
	if len(p) == 0 {
		return newValue, nil
	}
	seg := p[0]
	switch c := root.(type) {
	case Object:
		if seg.IsIndex {
			return nil, fmt.Errorf("%w: index %d into object at %q", ErrBadTarget, seg.Index, p.String())
		}
		child, exists := c.Get(seg.Name)
		if !exists {
			if len(p) > 1 {
				return nil, fmt.Errorf("%w: missing intermediate field %q", ErrBadTarget, seg.Name)
			}
			child = nil
		}
		updated, err := SetValue(child, p[1:], newValue)
		if err != nil {
			return nil, err
		}
		out := make(Object, len(c))
		copy(out, c)
		return out.Set(seg.Name, updated), nil
	case Array:
		if !seg.IsIndex {
			return nil, fmt.Errorf("%w: field %q into array", ErrBadTarget, seg.Name)
		}
		if seg.Index < 0 || seg.Index > len(c) {
			return nil, fmt.Errorf("%w: index %d out of range (len %d)", ErrBadTarget, seg.Index, len(c))
		}
		if seg.Index == len(c) {
			if len(p) > 1 {
				return nil, fmt.Errorf("%w: missing intermediate element %d", ErrBadTarget, seg.Index)
			}
			out := make(Array, len(c), len(c)+1)
			copy(out, c)
			return append(out, newValue), nil
		}
		updated, err := SetValue(c[seg.Index], p[1:], newValue)
		if err != nil {
			return nil, err
		}
		out := make(Array, len(c))
		copy(out, c)
		out[seg.Index] = updated
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot descend into %s at segment %q", ErrBadTarget, kindOf(root), segLabel(seg))
	}
}

func kindOf(v Value) string {
	if v == nil {
		return "absent value"
	}
	return v.Kind().String()
}

func segLabel(seg Segment) string {
	return Path{seg}.String()
}

// ApplyMinimalEdit splices newValue into serialized JSON text at p,
// touching only the bytes of the old value so the resulting
// version-control diff stays small. Two tiers: locate the exact byte
// span of the value at p and splice; when the span cannot be found
// (structural drift, non-JSON text) or the replacement is a container
// whose layout we cannot match, fall back to a full structural replace
// and re-serialization with the text's detected indent. Callers never
// learn which tier ran; the fallback just costs a larger diff.
func ApplyMinimalEdit(text []byte, p Path, newValue Value) ([]byte, error) {
	if !IsContainer(newValue) {
		if start, end, ok := locateValueSpan(text, p); ok {
			repl := EncodeJSON(newValue, 0)
			out := make([]byte, 0, len(text)-(end-start)+len(repl))
			out = append(out, text[:start]...)
			out = append(out, repl...)
			out = append(out, text[end:]...)
			return out, nil
		}
	}

	tree, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("jsonedit: minimal edit fallback cannot parse document: %w", err)
	}
	updated, err := SetValue(tree, p, newValue)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(updated, detectIndent(text)), nil
}
