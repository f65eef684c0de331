package merge

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/canvasengine/engine/schema"
)

// mergeScalar applies the field-level merge policy to one field: take
// whichever side changed, accept once if both sides made
// the same change, and on divergent changes keep local while recording
// a property conflict.
func mergeScalar(nodeID, path, field string, base, local, remote interface{}, conflicts *[]Conflict) interface{} {
	localChanged := !reflect.DeepEqual(base, local)
	remoteChanged := !reflect.DeepEqual(base, remote)

	switch {
	case !localChanged && !remoteChanged:
		return base
	case localChanged && !remoteChanged:
		return local
	case !localChanged && remoteChanged:
		return remote
	default:
		if reflect.DeepEqual(local, remote) {
			return local
		}
		*conflicts = append(*conflicts, Conflict{
			Code: CodePropertyDivergent, NodeID: nodeID, Path: path, Field: field,
			Base: base, Local: local, Remote: remote,
			Message: fmt.Sprintf("%s changed on both branches", field),
		})
		return local
	}
}

// mergeDataBag merges a free-form map key-wise using mergeScalar's
// scalar rules per key.
func mergeDataBag(nodeID, path, field string, base, local, remote map[string]interface{}, conflicts *[]Conflict) map[string]interface{} {
	if base == nil && local == nil && remote == nil {
		return nil
	}
	keys := map[string]bool{}
	for k := range base {
		keys[k] = true
	}
	for k := range local {
		keys[k] = true
	}
	for k := range remote {
		keys[k] = true
	}
	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	out := make(map[string]interface{}, len(ordered))
	for _, k := range ordered {
		merged := mergeScalar(nodeID, path, field+"."+k, base[k], local[k], remote[k], conflicts)
		if merged != nil {
			out[k] = merged
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mergeStyleValue merges a node's optional style bag: scalar sub-fields
// field-wise, fill/stroke sequences as opaque wholes (no per-element
// merge). Conflicts found are appended to conflicts.
func mergeStyleValue(nodeID, path string, base, local, remote *schema.Style, conflicts *[]Conflict) *schema.Style {
	if base == nil && local == nil && remote == nil {
		return nil
	}
	zero := schema.Style{}
	deref := func(s *schema.Style) schema.Style {
		if s == nil {
			return zero
		}
		return *s
	}
	b, l, r := deref(base), deref(local), deref(remote)

	out := schema.Style{}
	if v, ok := mergeScalar(nodeID, path, "style.fills", b.Fills, l.Fills, r.Fills, conflicts).([]schema.Fill); ok {
		out.Fills = v
	}
	if v, ok := mergeScalar(nodeID, path, "style.strokes", b.Strokes, l.Strokes, r.Strokes, conflicts).([]schema.Stroke); ok {
		out.Strokes = v
	}
	if v, ok := mergeScalar(nodeID, path, "style.cornerRadius", b.CornerRadius, l.CornerRadius, r.CornerRadius, conflicts).(float64); ok {
		out.CornerRadius = v
	}
	if v, ok := mergeScalar(nodeID, path, "style.opacity", b.Opacity, l.Opacity, r.Opacity, conflicts).(*float64); ok {
		out.Opacity = v
	}
	if v, ok := mergeScalar(nodeID, path, "style.shadow", b.Shadow, l.Shadow, r.Shadow, conflicts).(*schema.Shadow); ok {
		out.Shadow = v
	}

	if out.Fills == nil && out.Strokes == nil && out.CornerRadius == 0 && out.Opacity == nil && out.Shadow == nil {
		return nil
	}
	return &out
}
