package schema

import "github.com/canvasengine/engine/internal/ids"

// Repair fills in safe defaults for a document that already claims
// CurrentVersion but is missing them: missing document id or name,
// missing artboard id or name, missing `children: []` on frames. A
// missing node `frame` is not repaired (it decodes as a zero Rectangle,
// which already validates). Repair
// never invents identifiers for existing nodes, never changes a node's
// type, and never removes fields. It returns a repaired copy; doc is
// left untouched.
//
// Callers should revalidate the result. Repair intentionally does not
// call Validate itself, since a caller may want to chain several repair
// passes before paying for a full validation.
func Repair(doc Document) Document {
	out := doc.Clone()
	if out.ID == "" {
		out.ID = string(ids.New())
	}
	if out.Name == "" {
		out.Name = "Untitled"
	}
	for i := range out.Artboards {
		repairArtboard(&out.Artboards[i])
	}
	return out
}

func repairArtboard(ab *Artboard) {
	if ab.ID == "" {
		ab.ID = string(ids.New())
	}
	if ab.Name == "" {
		ab.Name = "Untitled Artboard"
	}
	for i := range ab.Children {
		repairNode(&ab.Children[i])
	}
}

func repairNode(n *Node) {
	if n.Type == KindFrame && n.Children == nil {
		n.Children = []Node{}
	}
	for i := range n.Children {
		repairNode(&n.Children[i])
	}
}
