package jsonedit

import (
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

func TestSetValueReplacesLeaf(t *testing.T) {
	root := mustParse(t, `{"a":{"b":1},"c":2}`)
	got, err := SetValue(root, Path{Field("a"), Field("b")}, String("new"))
	if err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if !Equal(got, mustParse(t, `{"a":{"b":"new"},"c":2}`)) {
		t.Fatalf("unexpected result: %s", EncodeJSON(got, 0))
	}
	// Input tree untouched.
	if !Equal(root, mustParse(t, `{"a":{"b":1},"c":2}`)) {
		t.Fatalf("input mutated: %s", EncodeJSON(root, 0))
	}
}

func TestSetValueCreatesMissingFinalField(t *testing.T) {
	root := mustParse(t, `{"a":{}}`)
	got, err := SetValue(root, Path{Field("a"), Field("fresh")}, Bool(true))
	if err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if !Equal(got, mustParse(t, `{"a":{"fresh":true}}`)) {
		t.Fatalf("unexpected result: %s", EncodeJSON(got, 0))
	}
}

func TestSetValueAppendsAtArrayLength(t *testing.T) {
	root := mustParse(t, `{"xs":[1,2]}`)
	got, err := SetValue(root, Path{Field("xs"), Index(2)}, Int(3))
	if err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if !Equal(got, mustParse(t, `{"xs":[1,2,3]}`)) {
		t.Fatalf("unexpected result: %s", EncodeJSON(got, 0))
	}
}

func TestSetValueStructuralImpossibility(t *testing.T) {
	root := mustParse(t, `{"a":{"b":1},"xs":[1]}`)
	cases := []Path{
		{Field("a"), Index(0)},               // index into object
		{Field("xs"), Field("k")},            // field into array
		{Field("xs"), Index(5)},              // index beyond append position
		{Field("a"), Field("b"), Field("c")}, // descend through leaf
		{Field("nope"), Field("x")},          // missing intermediate
	}
	for _, p := range cases {
		if _, err := SetValue(root, p, Int(0)); err == nil {
			t.Fatalf("SetValue(%s) should fail", p.String())
		}
	}
}

func TestSetValueAtRootReplacesDocument(t *testing.T) {
	got, err := SetValue(mustParse(t, `{"a":1}`), Path{}, mustParse(t, `[1,2]`))
	if err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if !Equal(got, mustParse(t, `[1,2]`)) {
		t.Fatalf("unexpected result: %s", EncodeJSON(got, 0))
	}
}

func TestApplyMinimalEditTouchesOnlyTargetLine(t *testing.T) {
	original := `{
    "greeting": "hello",
    "nested": {
        "count": 7,
        "flag": false
    },
    "items": ["a", "b"]
}
`
	out, err := ApplyMinimalEdit([]byte(original), Path{Field("nested"), Field("count")}, Int(8))
	if err != nil {
		t.Fatalf("ApplyMinimalEdit: %v", err)
	}

	diff := unifiedDiff(original, string(out))
	adds, removes := diffStats(diff)
	if adds != 1 || removes != 1 {
		t.Fatalf("expected single-line change, got %d additions / %d removals:\n%s", adds, removes, diff)
	}
	if !strings.Contains(string(out), `"count": 8`) {
		t.Fatalf("value not spliced:\n%s", string(out))
	}
	// Everything else byte-identical, spacing and key order included.
	if !strings.Contains(string(out), `"items": ["a", "b"]`) {
		t.Fatalf("unrelated bytes disturbed:\n%s", string(out))
	}
}

func TestApplyMinimalEditArrayElement(t *testing.T) {
	original := `{"xs": [10, 20, 30]}`
	out, err := ApplyMinimalEdit([]byte(original), Path{Field("xs"), Index(1)}, Int(99))
	if err != nil {
		t.Fatalf("ApplyMinimalEdit: %v", err)
	}
	if string(out) != `{"xs": [10, 99, 30]}` {
		t.Fatalf("unexpected output: %s", string(out))
	}
}

func TestApplyMinimalEditStringWithEscapes(t *testing.T) {
	original := `{"msg": "line\none", "other": 1}`
	out, err := ApplyMinimalEdit([]byte(original), Path{Field("msg")}, String("two"))
	if err != nil {
		t.Fatalf("ApplyMinimalEdit: %v", err)
	}
	if string(out) != `{"msg": "two", "other": 1}` {
		t.Fatalf("unexpected output: %s", string(out))
	}
}

func TestApplyMinimalEditFallsBackOnStructuralDrift(t *testing.T) {
	// The path does not exist in the text: splice cannot locate a
	// span... and the structural fallback cannot create missing
	// intermediates either, so the edit is rejected.
	if _, err := ApplyMinimalEdit([]byte(`{"a": 1}`), Path{Field("b"), Field("c")}, Int(2)); err == nil {
		t.Fatalf("expected error for unreachable path")
	}

	// A final missing field is creatable: splice fails, fallback
	// rebuilds the document.
	out, err := ApplyMinimalEdit([]byte(`{"a": 1}`), Path{Field("b")}, Int(2))
	if err != nil {
		t.Fatalf("ApplyMinimalEdit fallback: %v", err)
	}
	got := mustParse(t, string(out))
	if !Equal(got, mustParse(t, `{"a":1,"b":2}`)) {
		t.Fatalf("fallback result: %s", string(out))
	}
}

func TestApplyMinimalEditContainerValueUsesFallback(t *testing.T) {
	original := `{"cfg": {"x": 1}, "other": true}`
	out, err := ApplyMinimalEdit([]byte(original), Path{Field("cfg")}, mustParse(t, `{"x":2,"y":3}`))
	if err != nil {
		t.Fatalf("ApplyMinimalEdit: %v", err)
	}
	if !Equal(mustParse(t, string(out)), mustParse(t, `{"cfg":{"x":2,"y":3},"other":true}`)) {
		t.Fatalf("unexpected output: %s", string(out))
	}
}

func TestApplyMinimalEditDuplicateKeyIsAmbiguous(t *testing.T) {
	// Duplicate key at the target level: splicing next to a duplicate
	// could change which occurrence wins, so the splice tier must
	// refuse. The fallback parser also rejects the duplicate, so the
	// whole edit fails cleanly instead of corrupting the document.
	original := `{"a": 1, "a": 2}`
	if start, end, ok := locateValueSpan([]byte(original), Path{Field("a")}); ok {
		t.Fatalf("duplicate key should be ambiguous, located span [%d,%d)", start, end)
	}
	if out, err := ApplyMinimalEdit([]byte(original), Path{Field("a")}, Int(3)); err == nil {
		// Some decoders tolerate duplicates; if so the result must at
		// least carry the new value.
		got, ok := Resolve(mustParse(t, string(out)), Path{Field("a")})
		if !ok || !Equal(got, Int(3)) {
			t.Fatalf("unexpected output: %s", string(out))
		}
	}
}

func TestApplyMinimalEditRejectsUnparseableTextWhenSpliceFails(t *testing.T) {
	if _, err := ApplyMinimalEdit([]byte(`{"a": oops`), Path{Field("b")}, Int(1)); err == nil {
		t.Fatalf("expected error for unparseable text")
	}
}

func unifiedDiff(before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func diffStats(diff string) (adds, removes int) {
	for _, line := range strings.Split(diff, "\n") {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '+':
			if !strings.HasPrefix(line, "+++") {
				adds++
			}
		case '-':
			if !strings.HasPrefix(line, "---") {
				removes++
			}
		}
	}
	return
}
