package jsonedit

import "strconv"

// Kind discriminates the closed set of Value variants.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// Value is one node of a document tree. The variant set is closed:
// Null, Bool, Number, String, Object, Array. A nil Value means
// "absent" everywhere in this package.
type Value interface {
	Kind() Kind
}

type Null struct{}

type Bool bool

// Number carries the numeric literal as text so encoding round-trips
// without float formatting drift.
type Number string

type String string

// Member is one key/value entry of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an insertion-ordered mapping. Order is preserved so
// wholesale re-serialization does not shuffle keys.
type Object []Member

type Array []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Object) Kind() Kind { return KindObject }
func (Array) Kind() Kind  { return KindArray }

// Int returns a Number holding the decimal rendering of i.
func Int(i int64) Number { return Number(strconv.FormatInt(i, 10)) }

// Float returns a Number holding the shortest exact rendering of f.
func Float(f float64) Number { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// IsContainer reports whether v is an Object or Array. Everything
// else, including nil, is a leaf for diff purposes.
func IsContainer(v Value) bool {
	if v == nil {
		return false
	}
	k := v.Kind()
	return k == KindObject || k == KindArray
}

// Get returns the member value for key, or nil/false when absent.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set returns o with key bound to v, replacing in place when the key
// exists and appending otherwise.
func (o Object) Set(key string, v Value) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = v
			return o
		}
	}
	return append(o, Member{Key: key, Value: v})
}

// Delete returns o without key. Order of the remaining members is
// preserved.
func (o Object) Delete(key string) Object {
	for i := range o {
		if o[i].Key == key {
			return append(o[:i:i], o[i+1:]...)
		}
	}
	return o
}

// Keys returns the member keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Equal reports structural equality. Numbers compare by literal text,
// objects by ordered member sequence.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		return av == b.(Number)
	case String:
		return av == b.(String)
	case Object:
		bv := b.(Object)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v. Scalars are immutable and returned
// as-is.
func Clone(v Value) Value {
	switch vv := v.(type) {
	case Object:
		out := make(Object, len(vv))
		for i, m := range vv {
			out[i] = Member{Key: m.Key, Value: Clone(m.Value)}
		}
		return out
	case Array:
		out := make(Array, len(vv))
		for i, e := range vv {
			out[i] = Clone(e)
		}
		return out
	default:
		return v
	}
}

// Resolve walks p from root and returns the value it addresses.
// Resolution fails (ok=false) on an absent key, an out-of-range index,
// or traversal through a leaf; it never panics.
func Resolve(root Value, p Path) (Value, bool) {
	cur := root
	for _, seg := range p {
		if cur == nil {
			return nil, false
		}
		switch c := cur.(type) {
		case Object:
			if seg.IsIndex {
				return nil, false
			}
			v, ok := c.Get(seg.Name)
			if !ok {
				return nil, false
			}
			cur = v
		case Array:
			if !seg.IsIndex || seg.Index < 0 || seg.Index >= len(c) {
				return nil, false
			}
			cur = c[seg.Index]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}
