package jsonedit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	gyaml "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"
)

// Parse decodes a configuration document into a Value. JSON is the
// primary format; since JSON is a YAML subset the same decoder accepts
// YAML-flavored bundles too. Object key order is preserved, and
// numeric scalars keep their source literal (1e10, 1.10 and beyond
// 64-bit integers all survive re-serialization byte for byte; decoding
// through Go's native number types would silently retype or reformat
// them). Empty input yields an empty root object.
func Parse(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Object{}, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("jsonedit: failed to parse document: %w", err)
	}
	return FromYAMLNode(&node)
}

// FromYAMLNode converts a yaml.v3 node tree into a Value, for hosts
// that already hold parsed nodes. Document nodes unwrap to their
// content; alias nodes resolve through their anchor.
func FromYAMLNode(n *yaml.Node) (Value, error) {
	if n == nil {
		return nil, fmt.Errorf("jsonedit: nil yaml node")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Object{}, nil
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)
	case yaml.MappingNode:
		out := make(Object, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := FromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out = append(out, Member{Key: n.Content[i].Value, Value: v})
		}
		return out, nil
	case yaml.SequenceNode:
		out := make(Array, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return Null{}, nil
		case "!!bool":
			return Bool(n.Value == "true" || n.Value == "True"), nil
		case "!!int", "!!float":
			// The node keeps the source literal, not a parsed float.
			return Number(n.Value), nil
		default:
			return String(n.Value), nil
		}
	}
	return nil, fmt.Errorf("jsonedit: unsupported yaml node kind %d", n.Kind)
}

// EncodeJSON serializes v deterministically: object members in
// insertion order, arrays in index order. indent <= 0 produces compact
// output; otherwise indent spaces per nesting level and a trailing
// newline, matching how config files are stored.
func EncodeJSON(v Value, indent int) []byte {
	var buf bytes.Buffer
	encodeValue(&buf, v, indent, 0)
	if indent > 0 {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func encodeValue(buf *bytes.Buffer, v Value, indent, depth int) {
	switch vv := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		if vv {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(string(vv))
	case String:
		b, _ := json.Marshal(string(vv))
		buf.Write(b)
	case Object:
		if len(vv) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, m := range vv {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeNewlineIndent(buf, indent, depth+1)
			b, _ := json.Marshal(m.Key)
			buf.Write(b)
			buf.WriteByte(':')
			if indent > 0 {
				buf.WriteByte(' ')
			}
			encodeValue(buf, m.Value, indent, depth+1)
		}
		writeNewlineIndent(buf, indent, depth)
		buf.WriteByte('}')
	case Array:
		if len(vv) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, e := range vv {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeNewlineIndent(buf, indent, depth+1)
			encodeValue(buf, e, indent, depth+1)
		}
		writeNewlineIndent(buf, indent, depth)
		buf.WriteByte(']')
	}
}

func writeNewlineIndent(buf *bytes.Buffer, indent, depth int) {
	if indent <= 0 {
		return
	}
	buf.WriteByte('\n')
	for i := 0; i < indent*depth; i++ {
		buf.WriteByte(' ')
	}
}

// detectIndent inspects serialized text and returns its base indent
// width, defaulting to 2 when there is no evidence.
func detectIndent(b []byte) int {
	lines := bytes.Split(b, []byte("\n"))

	indents := []int{}
	for _, ln := range lines {
		if len(bytes.TrimSpace(ln)) == 0 {
			continue
		}
		n := leadingSpaces(ln)
		if n > 0 {
			indents = append(indents, n)
		}
	}
	if len(indents) == 0 {
		return 2
	}

	// GCD of observed indents gives the base step.
	result := indents[0]
	for i := 1; i < len(indents); i++ {
		result = gcd(result, indents[i])
		if result == 1 {
			break
		}
	}
	if result > 0 && result <= 8 {
		return result
	}
	return 2
}

func leadingSpaces(ln []byte) int {
	return len(ln) - len(bytes.TrimLeft(ln, " "))
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// EncodeYAML serializes v as block-style YAML, the symmetric writer
// for hosts whose bundles live in YAML files. Object member order is
// preserved through an ordered mapping.
func EncodeYAML(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := gyaml.NewEncoder(&buf, gyaml.Indent(2))
	if err := enc.Encode(toOrdered(v)); err != nil {
		return nil, fmt.Errorf("jsonedit: failed to encode yaml: %w", err)
	}
	_ = enc.Close()
	return buf.Bytes(), nil
}

// toOrdered lowers a Value into the encoder's native shapes. Number
// literals that fit a Go int64 or float64 pass through as numbers;
// anything wider keeps its literal text.
func toOrdered(v Value) any {
	switch vv := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(vv)
	case Number:
		if i, err := strconv.ParseInt(string(vv), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(string(vv), 64); err == nil {
			return f
		}
		return string(vv)
	case String:
		return string(vv)
	case Object:
		ms := make(gyaml.MapSlice, 0, len(vv))
		for _, m := range vv {
			ms = append(ms, gyaml.MapItem{Key: m.Key, Value: toOrdered(m.Value)})
		}
		return ms
	case Array:
		out := make([]any, 0, len(vv))
		for _, e := range vv {
			out = append(out, toOrdered(e))
		}
		return out
	}
	return nil
}
