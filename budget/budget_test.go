package budget

import (
	"testing"
	"time"

	"github.com/canvasengine/engine/internal/ids"
	"github.com/canvasengine/engine/schema"
)

func newID() string { return string(ids.New()) }

func smallDocument() schema.Document {
	return schema.Document{
		SchemaVersion: schema.CurrentVersion,
		ID:            newID(),
		Name:          "Doc",
		Artboards: []schema.Artboard{
			{ID: newID(), Name: "A", Frame: schema.Rectangle{Width: 10, Height: 10}, Children: []schema.Node{
				{ID: newID(), Type: schema.KindFrame, Name: "F", Visible: true, Frame: schema.Rectangle{Width: 1, Height: 1}},
			}},
		},
	}
}

func TestCheckWithinLimitsHasNoWarnings(t *testing.T) {
	doc := smallDocument()
	r := Check(&doc, DefaultLimits())
	if len(r.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", r.Warnings)
	}
	if r.NodeCount != 1 {
		t.Fatalf("expected 1 node, got %d", r.NodeCount)
	}
}

func TestCheckExceedsNodeLimit(t *testing.T) {
	doc := smallDocument()
	tight := Limits{MaxNodes: 0, MaxArtboards: 100, MaxDepth: 50, MaxMemoryBytes: 100 * 1024 * 1024, MaxOperationTime: time.Second}
	r := Check(&doc, tight)
	if len(r.Warnings) == 0 {
		t.Fatalf("expected a node-count warning")
	}
}

func TestGuardReturnsErrorWhenExceeded(t *testing.T) {
	doc := smallDocument()
	tight := Limits{MaxNodes: 0, MaxArtboards: 100, MaxDepth: 50, MaxMemoryBytes: 100 * 1024 * 1024, MaxOperationTime: time.Second}
	if err := Guard(&doc, tight); err == nil {
		t.Fatalf("expected Guard to reject an over-budget document")
	}
}

func TestGuardPassesWithinLimits(t *testing.T) {
	doc := smallDocument()
	if err := Guard(&doc, DefaultLimits()); err != nil {
		t.Fatalf("expected Guard to pass, got %v", err)
	}
}

func TestEnforceDeadlineExceeded(t *testing.T) {
	limits := Limits{MaxNodes: 1, MaxArtboards: 1, MaxDepth: 1, MaxMemoryBytes: 1, MaxOperationTime: time.Nanosecond}
	start := time.Now().Add(-time.Hour)
	if err := EnforceDeadline(start, limits); err == nil {
		t.Fatalf("expected deadline exceeded error")
	}
}

func TestEnforceDeadlineWithinBudget(t *testing.T) {
	if err := EnforceDeadline(time.Now(), DefaultLimits()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
