package ops

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/canvasengine/engine/errs"
	"github.com/canvasengine/engine/internal/ids"
	"github.com/canvasengine/engine/patch"
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
				Frame: schema.Rectangle{Width: 400, Height: 300},
				Children: []schema.Node{
					{
						ID: newID(), Type: schema.KindFrame, Name: "Frame A", Visible: true,
						Frame: schema.Rectangle{Width: 100, Height: 100},
						Children: []schema.Node{
							{ID: newID(), Type: schema.KindText, Name: "Label", Visible: true, Frame: schema.Rectangle{Width: 10, Height: 10}, Text: "hi"},
						},
					},
				},
			},
		},
	}
}

func engineErrorCode(t *testing.T, err error) errs.Code {
	t.Helper()
	ee, ok := err.(*errs.EngineError)
	if !ok {
		t.Fatalf("expected *errs.EngineError, got %T (%v)", err, err)
	}
	return ee.Code
}

func TestCreateAppendsToArtboardRoot(t *testing.T) {
	doc := fixtureDocument()
	result, err := Create(doc, schema.RootPath(0), schema.Node{Type: schema.KindFrame, Name: "New Frame"}, nil, Options{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	children := result.Document.Artboards[0].Children
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	added := children[1]
	if added.Name != "New Frame" || added.ID == "" || !added.Visible {
		t.Fatalf("unexpected created node: %+v", added)
	}
	if added.Children == nil {
		t.Fatalf("expected frame to default to an empty children slice")
	}
	if len(result.Patches) != 1 || len(result.Inverse) != 1 {
		t.Fatalf("expected one forward and one inverse patch")
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	doc := fixtureDocument()
	_, err := Create(doc, schema.RootPath(0), schema.Node{Type: "bogus"}, nil, Options{})
	if err == nil || engineErrorCode(t, err) != errs.InvalidNode {
		t.Fatalf("expected InvalidNode, got %v", err)
	}
}

func TestCreateRejectsNonContainerParent(t *testing.T) {
	doc := fixtureDocument()
	textPath := schema.RootPath(0).Child(0).Child(0)
	_, err := Create(doc, textPath, schema.Node{Type: schema.KindText, Name: "x"}, nil, Options{})
	if err == nil || engineErrorCode(t, err) != errs.ParentNotContainer {
		t.Fatalf("expected ParentNotContainer, got %v", err)
	}
}

func TestUpdateRenamesNode(t *testing.T) {
	doc := fixtureDocument()
	nodeID := doc.Artboards[0].Children[0].ID
	result, err := Update(doc, nodeID, map[string]interface{}{"name": "Renamed"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if result.Document.Artboards[0].Children[0].Name != "Renamed" {
		t.Fatalf("expected renamed node, got %+v", result.Document.Artboards[0].Children[0])
	}
}

func TestUpdateRejectsTypeChange(t *testing.T) {
	doc := fixtureDocument()
	nodeID := doc.Artboards[0].Children[0].ID
	_, err := Update(doc, nodeID, map[string]interface{}{"type": "text"})
	if err == nil || engineErrorCode(t, err) != errs.TypeChangeDisallowed {
		t.Fatalf("expected TypeChangeDisallowed, got %v", err)
	}
}

func TestUpdateUnknownNodeFails(t *testing.T) {
	doc := fixtureDocument()
	_, err := Update(doc, "not-a-real-id", map[string]interface{}{"name": "x"})
	if err == nil || engineErrorCode(t, err) != errs.NodeNotFound {
		t.Fatalf("expected NodeNotFound, got %v", err)
	}
}

func TestDeleteRemovesSubtree(t *testing.T) {
	doc := fixtureDocument()
	nodeID := doc.Artboards[0].Children[0].ID
	result, err := Delete(doc, nodeID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(result.Document.Artboards[0].Children) != 0 {
		t.Fatalf("expected empty artboard after delete, got %+v", result.Document.Artboards[0].Children)
	}
}

func TestDeleteArtboardRootDisallowed(t *testing.T) {
	doc := fixtureDocument()
	_, err := Delete(doc, doc.Artboards[0].ID)
	if err == nil || engineErrorCode(t, err) != errs.RootDeletionDisallowed {
		t.Fatalf("expected RootDeletionDisallowed, got %v", err)
	}
}

func TestMoveReparentsNode(t *testing.T) {
	doc := fixtureDocument()
	labelID := doc.Artboards[0].Children[0].Children[0].ID
	result, err := Move(doc, labelID, schema.RootPath(0), 1)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if len(result.Document.Artboards[0].Children[0].Children) != 0 {
		t.Fatalf("expected label detached from Frame A")
	}
	if len(result.Document.Artboards[0].Children) != 2 || result.Document.Artboards[0].Children[1].ID != labelID {
		t.Fatalf("expected label moved to artboard root, got %+v", result.Document.Artboards[0].Children)
	}
}

func TestMoveIntoOwnSubtreeIsACycle(t *testing.T) {
	doc := fixtureDocument()
	framePath := schema.RootPath(0).Child(0)
	frameID := doc.Artboards[0].Children[0].ID
	_, err := Move(doc, frameID, framePath.Child(0), 0)
	if err == nil || engineErrorCode(t, err) != errs.WouldCreateCycle {
		t.Fatalf("expected WouldCreateCycle, got %v", err)
	}
}

func TestMoveIntoNonContainerFails(t *testing.T) {
	doc := fixtureDocument()
	doc.Artboards[0].Children = append(doc.Artboards[0].Children, schema.Node{
		ID: newID(), Type: schema.KindText, Name: "Orphan", Visible: true, Frame: schema.Rectangle{Width: 1, Height: 1}, Text: "o",
	})
	labelID := doc.Artboards[0].Children[0].Children[0].ID
	orphanPath := schema.RootPath(0).Child(1)
	_, err := Move(doc, labelID, orphanPath, 0)
	if err == nil || engineErrorCode(t, err) != errs.TargetNotContainer {
		t.Fatalf("expected TargetNotContainer, got %v", err)
	}
}

func TestDuplicateAllocatesFreshIdentifiers(t *testing.T) {
	doc := fixtureDocument()
	frameID := doc.Artboards[0].Children[0].ID
	result, err := Duplicate(doc, frameID, Options{})
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	children := result.Document.Artboards[0].Children
	if len(children) != 2 {
		t.Fatalf("expected 2 top-level children after duplicate, got %d", len(children))
	}
	if children[1].ID == frameID {
		t.Fatalf("expected a fresh identifier on the duplicate")
	}
	if children[1].Children[0].ID == doc.Artboards[0].Children[0].Children[0].ID {
		t.Fatalf("expected a fresh identifier on the duplicated descendant too")
	}
}

func TestDuplicateClearsSemanticKey(t *testing.T) {
	doc := fixtureDocument()
	doc.Artboards[0].Children[0].SemanticKey = "hero-frame"
	frameID := doc.Artboards[0].Children[0].ID
	result, err := Duplicate(doc, frameID, Options{})
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if result.Document.Artboards[0].Children[1].SemanticKey != "" {
		t.Fatalf("expected semantic key to not be copied")
	}
}

func TestDuplicateAppendsCopySuffixToName(t *testing.T) {
	doc := fixtureDocument()
	frameID := doc.Artboards[0].Children[0].ID
	result, err := Duplicate(doc, frameID, Options{})
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	original := doc.Artboards[0].Children[0]
	duplicate := result.Document.Artboards[0].Children[1]
	want := original.Name + " Copy"
	if duplicate.Name != want {
		t.Fatalf("expected duplicate name %q, got %q", want, duplicate.Name)
	}
	if duplicate.Children[0].Name != original.Children[0].Name {
		t.Fatalf("expected descendant names to pass through unchanged, got %q", duplicate.Children[0].Name)
	}
}

func TestInversePatchesUndoDuplicate(t *testing.T) {
	doc := fixtureDocument()
	frameID := doc.Artboards[0].Children[0].ID
	result, err := Duplicate(doc, frameID, Options{})
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}

	undone, err := patch.Apply(result.Document, result.Inverse)
	if err != nil {
		t.Fatalf("applying inverse: %v", err)
	}
	if diff := cmp.Diff(doc, undone); diff != "" {
		t.Fatalf("inverse patches did not reconstruct the original document (-want +got):\n%s", diff)
	}
}

func TestInversePatchesUndoCreate(t *testing.T) {
	doc := fixtureDocument()
	result, err := Create(doc, schema.RootPath(0), schema.Node{Type: schema.KindText, Name: "Temp", Text: "x"}, nil, Options{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	undone, err := patch.Apply(result.Document, result.Inverse)
	if err != nil {
		t.Fatalf("applying inverse: %v", err)
	}
	if diff := cmp.Diff(doc, undone); diff != "" {
		t.Fatalf("inverse patches did not reconstruct the original document (-want +got):\n%s", diff)
	}
}
