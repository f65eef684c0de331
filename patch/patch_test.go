package patch

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/canvasengine/engine/errs"
	"github.com/canvasengine/engine/internal/ids"
	"github.com/canvasengine/engine/schema"
)

func newID() string { return string(ids.New()) }

func fixtureDocument() schema.Document {
	return schema.Document{
		SchemaVersion: schema.CurrentVersion,
		ID:            newID(),
		Name:          "Doc",
		Artboards: []schema.Artboard{
			{
				ID:    newID(),
				Name:  "Artboard",
				Frame: schema.Rectangle{Width: 100, Height: 100},
				Children: []schema.Node{
					{ID: newID(), Type: schema.KindFrame, Name: "Frame A", Visible: true, Frame: schema.Rectangle{Width: 10, Height: 10}},
					{ID: newID(), Type: schema.KindText, Name: "Text B", Visible: true, Frame: schema.Rectangle{Width: 10, Height: 10}, Text: "hi"},
				},
			},
		},
	}
}

func TestApplyReplaceName(t *testing.T) {
	doc := fixtureDocument()
	out, err := Apply(doc, []Operation{
		{Op: OpReplace, Path: "/artboards/0/children/0/name", Value: "Renamed"},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Artboards[0].Children[0].Name != "Renamed" {
		t.Fatalf("expected renamed node, got %q", out.Artboards[0].Children[0].Name)
	}
	if doc.Artboards[0].Children[0].Name == "Renamed" {
		t.Fatalf("Apply must not mutate its input")
	}
}

func TestApplyAddChild(t *testing.T) {
	doc := fixtureDocument()
	newNode := map[string]interface{}{
		"id": newID(), "type": "text", "name": "New", "visible": true,
		"frame": map[string]interface{}{"x": 0, "y": 0, "width": 1, "height": 1},
		"text":  "added",
	}
	out, err := Apply(doc, []Operation{
		{Op: OpAdd, Path: "/artboards/0/children/-", Value: newNode},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Artboards[0].Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(out.Artboards[0].Children))
	}
	if out.Artboards[0].Children[2].Name != "New" {
		t.Fatalf("expected appended node, got %+v", out.Artboards[0].Children[2])
	}
}

func TestApplyRemove(t *testing.T) {
	doc := fixtureDocument()
	out, err := Apply(doc, []Operation{
		{Op: OpRemove, Path: "/artboards/0/children/0"},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Artboards[0].Children) != 1 || out.Artboards[0].Children[0].Name != "Text B" {
		t.Fatalf("unexpected children after remove: %+v", out.Artboards[0].Children)
	}
}

func TestApplyTestPreconditionFailure(t *testing.T) {
	doc := fixtureDocument()
	_, err := Apply(doc, []Operation{
		{Op: OpTest, Path: "/name", Value: "NotTheName"},
	})
	if err == nil {
		t.Fatalf("expected precondition failure")
	}
	var ee *errs.EngineError
	if !asEngineError(err, &ee) {
		t.Fatalf("expected *errs.EngineError, got %T", err)
	}
	if ee.Code != errs.PatchPreconditionFailed {
		t.Fatalf("expected PatchPreconditionFailed, got %s", ee.Code)
	}
}

func TestApplyUnknownPathFails(t *testing.T) {
	doc := fixtureDocument()
	_, err := Apply(doc, []Operation{
		{Op: OpReplace, Path: "/artboards/0/children/99/name", Value: "x"},
	})
	if err == nil {
		t.Fatalf("expected an error for an out-of-range path")
	}
}

func TestApplyMove(t *testing.T) {
	doc := fixtureDocument()
	out, err := Apply(doc, []Operation{
		{Op: OpMove, From: "/artboards/0/children/0", Path: "/artboards/0/children/1"},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Artboards[0].Children) != 2 {
		t.Fatalf("expected 2 children after move, got %d", len(out.Artboards[0].Children))
	}
	if out.Artboards[0].Children[1].Name != "Frame A" {
		t.Fatalf("expected Frame A moved to the end, got %+v", out.Artboards[0].Children)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	doc := fixtureDocument()
	ops := []Operation{
		{Op: OpReplace, Path: "/artboards/0/children/0/name", Value: "Renamed"},
		{Op: OpRemove, Path: "/artboards/0/children/1"},
	}

	forward, err := Apply(doc, ops)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	inverse, err := Invert(ops, doc)
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}

	back, err := Apply(forward, inverse)
	if err != nil {
		t.Fatalf("Apply inverse: %v", err)
	}

	if diff := cmp.Diff(doc, back); diff != "" {
		t.Fatalf("round trip did not reconstruct original document (-want +got):\n%s", diff)
	}
}

func TestInvertAddUndoesWithRemove(t *testing.T) {
	doc := fixtureDocument()
	ops := []Operation{
		{Op: OpAdd, Path: "/artboards/0/children/-", Value: map[string]interface{}{
			"id": newID(), "type": "text", "name": "New", "visible": true,
			"frame": map[string]interface{}{"x": 0, "y": 0, "width": 1, "height": 1},
			"text":  "added",
		}},
	}
	inverse, err := Invert(ops, doc)
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if len(inverse) != 1 || inverse[0].Op != OpRemove {
		t.Fatalf("expected a single remove inverse, got %+v", inverse)
	}
}

func asEngineError(err error, target **errs.EngineError) bool {
	if ee, ok := err.(*errs.EngineError); ok {
		*target = ee
		return true
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return asEngineError(u.Unwrap(), target)
	}
	return false
}
