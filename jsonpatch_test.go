package jsonedit

import (
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/stretchr/testify/require"
)

// Applying the generated patch to original must reproduce current,
// verified through the reference RFC-6902 implementation.
func TestToJSONPatchRoundTripsThroughReferenceApplier(t *testing.T) {
	cases := []struct{ name, original, current string }{
		{"leaf modified", `{"a":{"x":1,"y":9}}`, `{"a":{"x":1,"y":2}}`},
		{"field added", `{"a":1}`, `{"a":1,"b":{"c":2}}`},
		{"field removed", `{"a":1,"gone":{"d":2}}`, `{"a":1}`},
		{"array grown", `{"xs":[1]}`, `{"xs":[1,2,3]}`},
		{"array shrunk", `{"xs":[1,2,3]}`, `{"xs":[1]}`},
		{"kind change", `{"a":[1]}`, `{"a":{"b":1}}`},
		{"escaped keys", `{"a/b":1,"c~d":2}`, `{"a/b":9,"c~d":2}`},
		{"no change", `{"a":1}`, `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			original := mustParse(t, tc.original)
			current := mustParse(t, tc.current)

			patchJSON, err := ToJSONPatch(current, original)
			require.NoError(t, err)

			patch, err := jsonpatch.DecodePatch(patchJSON)
			require.NoError(t, err)

			patched, err := patch.Apply(EncodeJSON(original, 0))
			require.NoError(t, err)

			got := mustParse(t, string(patched))
			require.True(t, Equal(got, current),
				"patch round trip drifted:\npatch: %s\n  got: %s\n want: %s",
				patchJSON, EncodeJSON(got, 0), EncodeJSON(current, 0))
		})
	}
}

func TestApplyJSONPatchUpdatesTree(t *testing.T) {
	v := mustParse(t, `{"service":{"replicas":2,"image":"v1"}}`)

	got, err := ApplyJSONPatch(v, []byte(`[
		{"op":"replace","path":"/service/replicas","value":5},
		{"op":"add","path":"/service/tag","value":"stable"}
	]`))
	require.NoError(t, err)

	replicas, ok := Resolve(got, Path{Field("service"), Field("replicas")})
	require.True(t, ok)
	require.True(t, Equal(replicas, Int(5)))

	tag, ok := Resolve(got, Path{Field("service"), Field("tag")})
	require.True(t, ok)
	require.True(t, Equal(tag, String("stable")))
}

func TestApplyJSONPatchBadPatch(t *testing.T) {
	v := mustParse(t, `{"a":1}`)
	if _, err := ApplyJSONPatch(v, []byte(`{"not":"a patch"}`)); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ApplyJSONPatch(v, []byte(`[{"op":"replace","path":"/missing","value":1}]`)); err == nil {
		t.Fatalf("expected apply error for missing target")
	}
}
