package hittest

import (
	"testing"

	"github.com/canvasengine/engine/internal/ids"
	"github.com/canvasengine/engine/schema"
)

func newID() string { return string(ids.New()) }

func overlappingDocument() schema.Document {
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
						ID: newID(), Type: schema.KindFrame, Name: "Back", Visible: true,
						Frame: schema.Rectangle{X: 0, Y: 0, Width: 100, Height: 100},
					},
					{
						ID: newID(), Type: schema.KindFrame, Name: "Front", Visible: true,
						Frame: schema.Rectangle{X: 0, Y: 0, Width: 100, Height: 100},
						Children: []schema.Node{
							{ID: newID(), Type: schema.KindText, Name: "Child", Visible: true, Frame: schema.Rectangle{X: 10, Y: 10, Width: 10, Height: 10}, Text: "hi"},
						},
					},
					{
						ID: newID(), Type: schema.KindFrame, Name: "Hidden", Visible: false,
						Frame: schema.Rectangle{X: 0, Y: 0, Width: 100, Height: 100},
						Children: []schema.Node{
							{ID: newID(), Type: schema.KindText, Name: "HiddenChild", Visible: true, Frame: schema.Rectangle{X: 0, Y: 0, Width: 100, Height: 100}, Text: "hi"},
						},
					},
				},
			},
		},
	}
}

func TestHitTestLastSiblingOnTop(t *testing.T) {
	doc := overlappingDocument()
	results := HitTest(&doc, 50, 50)

	var names []string
	for _, r := range results {
		names = append(names, r.Node.Name)
	}
	want := []string{"Front", "Back"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("want %v, got %v", want, names)
	}
}

func TestHitTestChildAboveParent(t *testing.T) {
	doc := overlappingDocument()
	results := HitTest(&doc, 15, 15)

	if len(results) < 2 {
		t.Fatalf("expected at least 2 hits, got %d", len(results))
	}
	if results[0].Node.Name != "Child" {
		t.Fatalf("expected Child topmost, got %s", results[0].Node.Name)
	}
	if results[1].Node.Name != "Front" {
		t.Fatalf("expected Front beneath Child, got %s", results[1].Node.Name)
	}
}

func TestHitTestExcludesInvisibleSubtree(t *testing.T) {
	doc := overlappingDocument()
	results := HitTest(&doc, 90, 90)

	for _, r := range results {
		if r.Node.Name == "Hidden" || r.Node.Name == "HiddenChild" {
			t.Fatalf("invisible subtree must be excluded, got %s", r.Node.Name)
		}
	}
}

func TestHitTestOutsideAllFramesReturnsNoResults(t *testing.T) {
	doc := overlappingDocument()
	results := HitTest(&doc, 350, 250)
	if len(results) != 0 {
		t.Fatalf("expected no hits, got %+v", results)
	}
}

func TestHitTestNodeExtendingPastArtboardBounds(t *testing.T) {
	doc := overlappingDocument()
	ab := &doc.Artboards[0]
	ab.Children = append(ab.Children, schema.Node{
		ID: newID(), Type: schema.KindFrame, Name: "Overflow", Visible: true,
		Frame: schema.Rectangle{X: 380, Y: 280, Width: 100, Height: 100},
	})

	results := HitTest(&doc, 450, 350)
	if len(results) != 1 || results[0].Node.Name != "Overflow" {
		t.Fatalf("expected a hit on Overflow outside the artboard's own bounds, got %+v", results)
	}
}

func TestTopHit(t *testing.T) {
	doc := overlappingDocument()
	top, ok := TopHit(&doc, 15, 15)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if top.Node.Name != "Child" {
		t.Fatalf("expected Child as top hit, got %s", top.Node.Name)
	}

	_, ok = TopHit(&doc, 350, 250)
	if ok {
		t.Fatalf("expected no top hit outside all frames")
	}
}
