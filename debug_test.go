package jsonedit

import "strings"

// dumpPath renders a path and its resolved value for failure messages.
func dumpPath(root Value, p Path) string {
	v, ok := Resolve(root, p)
	if !ok {
		return p.String() + " -> <unresolved>"
	}
	return p.String() + " -> " + strings.TrimSpace(string(EncodeJSON(v, 0)))
}
