// Package hittest implements point-to-node resolution ordered from
// topmost visible to bottom.
//
// Node frames are in absolute document coordinates (the same coordinate
// space as their containing artboard), so containment is a direct
// rectangle test with no accumulated parent transform; this engine
// does not model rotation or per-node transforms, only axis-aligned
// frames. A node's own frame is tested on its own terms: nothing clips
// it to its artboard's bounds, so a node positioned or sized past its
// artboard's edge is still hit there.
//
// Z-order falls directly out of paint order: a scene graph paints a
// node, then its children over it in child-index order, so the pre-order
// traversal sequence *is* the paint order and the topmost-to-bottom hit
// order is simply that sequence reversed. An invisible node removes its
// entire subtree from candidacy, since nothing under a hidden node is
// rendered either.
package hittest

import (
	"github.com/canvasengine/engine/schema"
)

// Result is one node whose frame contains the tested point.
type Result struct {
	Node          *schema.Node
	Path          schema.NodePath
	ArtboardIndex int
}

// HitTest returns every node (and its owning artboard) whose frame
// contains (x, y), ordered from topmost visible to bottom. The first
// result, if any, is the selection candidate.
func HitTest(doc *schema.Document, x, y float64) []Result {
	var paintOrder []Result
	for ai, ab := range doc.Artboards {
		collect(ab.Children, schema.RootPath(ai), ai, x, y, &paintOrder)
	}
	reverse(paintOrder)
	return paintOrder
}

func collect(nodes []schema.Node, base schema.NodePath, artboardIndex int, x, y float64, out *[]Result) {
	for i := range nodes {
		n := &nodes[i]
		if !n.Visible {
			// An invisible node hides its whole subtree.
			continue
		}
		path := base.Child(i)
		if n.Frame.Contains(x, y) {
			*out = append(*out, Result{Node: n, Path: path, ArtboardIndex: artboardIndex})
		}
		collect(n.Children, path, artboardIndex, x, y, out)
	}
}

func reverse(r []Result) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}

// TopHit returns the selection candidate for (x, y): the first (topmost)
// result, or false if nothing is hit.
func TopHit(doc *schema.Document, x, y float64) (Result, bool) {
	results := HitTest(doc, x, y)
	if len(results) == 0 {
		return Result{}, false
	}
	return results[0], true
}
