package jsonedit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

type patchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ToJSONPatch renders the difference between original and current as
// an RFC-6902 patch document: applying the result to original yields
// current. Unlike the sparse ChangeMap, ops are emitted at the highest
// differing node so intermediate containers need not pre-exist in the
// target.
func ToJSONPatch(current, original Value) ([]byte, error) {
	ops := []patchOp{}
	patchOpsInto(&ops, "", current, original)
	b, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("jsonedit: failed to marshal patch ops: %w", err)
	}
	return b, nil
}

func patchOpsInto(ops *[]patchOp, ptr string, cur, orig Value) {
	switch {
	case cur == nil && orig == nil:
	case orig == nil:
		*ops = append(*ops, patchOp{Op: "add", Path: ptr, Value: EncodeJSON(cur, 0)})
	case cur == nil:
		*ops = append(*ops, patchOp{Op: "remove", Path: ptr})
	case Equal(cur, orig):
	case cur.Kind() == orig.Kind() && IsContainer(cur):
		patchChildOps(ops, ptr, cur, orig)
	default:
		*ops = append(*ops, patchOp{Op: "replace", Path: ptr, Value: EncodeJSON(cur, 0)})
	}
}

func patchChildOps(ops *[]patchOp, ptr string, cur, orig Value) {
	switch c := cur.(type) {
	case Object:
		o := orig.(Object)
		for _, key := range unionKeys(c, o) {
			cv, _ := c.Get(key)
			ov, _ := o.Get(key)
			patchOpsInto(ops, ptr+"/"+escapePointerToken(key), cv, ov)
		}
	case Array:
		o := orig.(Array)
		n := len(c)
		if len(o) < n {
			n = len(o)
		}
		for i := 0; i < n; i++ {
			patchOpsInto(ops, ptr+"/"+strconv.Itoa(i), c[i], o[i])
		}
		// Removals run back to front so earlier indices stay valid.
		for i := len(o) - 1; i >= len(c); i-- {
			*ops = append(*ops, patchOp{Op: "remove", Path: ptr + "/" + strconv.Itoa(i)})
		}
		for i := len(o); i < len(c); i++ {
			*ops = append(*ops, patchOp{Op: "add", Path: ptr + "/" + strconv.Itoa(i), Value: EncodeJSON(c[i], 0)})
		}
	}
}

func escapePointerToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// ApplyJSONPatch applies an RFC-6902 patch document to v and returns
// the patched tree. Hosts use this to apply batched edit events
// arriving as JSON Patch payloads.
func ApplyJSONPatch(v Value, patchJSON []byte) (Value, error) {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("jsonedit: failed to decode patch: %w", err)
	}
	doc := EncodeJSON(v, 0)
	out, err := patch.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("jsonedit: failed to apply patch: %w", err)
	}
	return Parse(out)
}
