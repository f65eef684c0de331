package merge

import "github.com/canvasengine/engine/schema"

// correspondenceKey returns the stable merge identity for a node: its
// semantic key when present, or its identifier otherwise. Two nodes in
// different branches correspond when their keys match, document-wide,
// not merely within one artboard or one parent's children.
func correspondenceKey(n schema.Node) string {
	if n.SemanticKey != "" {
		return "sk:" + n.SemanticKey
	}
	return "id:" + n.ID
}

func artboardKey(ab schema.Artboard) string {
	return "ab:" + ab.ID
}

// keysOf returns the correspondence keys of nodes in their given order.
func keysOf(nodes []schema.Node) []string {
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = correspondenceKey(n)
	}
	return keys
}

// indexByKey returns a lookup from correspondence key to node for nodes.
func indexByKey(nodes []schema.Node) map[string]schema.Node {
	out := make(map[string]schema.Node, len(nodes))
	for _, n := range nodes {
		out[correspondenceKey(n)] = n
	}
	return out
}

// stringSet is a small set built from a key slice.
type stringSet map[string]bool

func setOf(keys []string) stringSet {
	s := make(stringSet, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

// filterOrder returns the subsequence of order whose keys are present in
// keep, preserving relative order.
func filterOrder(order []string, keep stringSet) []string {
	out := make([]string, 0, len(order))
	for _, k := range order {
		if keep[k] {
			out = append(out, k)
		}
	}
	return out
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
