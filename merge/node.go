package merge

import "github.com/canvasengine/engine/schema"

// mergeNodeFields merges a node present in all three branches, field by
// field. Children are handled separately by the caller via
// mergeChildren; this only merges a node's own scalar and opaque
// fields.
func mergeNodeFields(path string, base, local, remote schema.Node) (schema.Node, []Conflict) {
	var conflicts []Conflict
	id := base.ID

	merged := base
	merged.Name, _ = mergeScalar(id, path, "name", base.Name, local.Name, remote.Name, &conflicts).(string)
	merged.Visible, _ = mergeScalar(id, path, "visible", base.Visible, local.Visible, remote.Visible, &conflicts).(bool)
	merged.Frame, _ = mergeScalar(id, path, "frame", base.Frame, local.Frame, remote.Frame, &conflicts).(schema.Rectangle)
	merged.Style = mergeStyleValue(id, path, base.Style, local.Style, remote.Style, &conflicts)
	merged.Data = mergeDataBag(id, path, "data", base.Data, local.Data, remote.Data, &conflicts)
	merged.Binding, _ = mergeScalar(id, path, "binding", base.Binding, local.Binding, remote.Binding, &conflicts).(*schema.Binding)
	merged.SemanticKey, _ = mergeScalar(id, path, "semanticKey", base.SemanticKey, local.SemanticKey, remote.SemanticKey, &conflicts).(string)

	if v, ok := mergeScalar(id, path, "layout", base.Layout, local.Layout, remote.Layout, &conflicts).(*schema.LayoutHints); ok {
		merged.Layout = v
	}
	merged.Text, _ = mergeScalar(id, path, "text", base.Text, local.Text, remote.Text, &conflicts).(string)
	if v, ok := mergeScalar(id, path, "textStyle", base.TextStyle, local.TextStyle, remote.TextStyle, &conflicts).(*schema.TextStyle); ok {
		merged.TextStyle = v
	}
	merged.ComponentKey, _ = mergeScalar(id, path, "componentKey", base.ComponentKey, local.ComponentKey, remote.ComponentKey, &conflicts).(string)
	merged.Overrides = mergeDataBag(id, path, "overrides", base.Overrides, local.Overrides, remote.Overrides, &conflicts)

	return merged, conflicts
}
