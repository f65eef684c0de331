package migration

import "testing"

func TestDetectVersionPrefersExplicitVersionField(t *testing.T) {
	doc := Raw{"version": "2.0.0", "schemaVersion": "0.1.0"}
	if got := DetectVersion(doc); got != "2.0.0" {
		t.Fatalf("want 2.0.0, got %s", got)
	}
}

func TestDetectVersionFallsBackToSchemaVersion(t *testing.T) {
	doc := Raw{"schemaVersion": "0.1.0"}
	if got := DetectVersion(doc); got != "0.1.0" {
		t.Fatalf("want 0.1.0, got %s", got)
	}
}

func TestDetectVersionInfersLegacyStructure(t *testing.T) {
	doc := Raw{"pages": []interface{}{}}
	if got := DetectVersion(doc); got != "0.0.1" {
		t.Fatalf("want 0.0.1, got %s", got)
	}
}

func TestPathReturnsNoPathWhenUnreachable(t *testing.T) {
	r := DefaultRegistry()
	if _, err := r.Path("9.9.9", Current); err == nil {
		t.Fatalf("expected NoMigrationPathError")
	}
}

func TestMigrateLegacyDocument(t *testing.T) {
	r := DefaultRegistry()
	legacy := Raw{
		"schemaVersion": "0.0.1",
		"name":          "Legacy Doc",
		"pages": []interface{}{
			map[string]interface{}{"id": "01ARZ3NDEKTSV4RRFFQ69G5FAV", "name": "Page 1"},
		},
	}

	migrated, err := r.Migrate(legacy, Current)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if migrated["schemaVersion"] != Current {
		t.Fatalf("expected schemaVersion %s, got %v", Current, migrated["schemaVersion"])
	}
	if _, stillHasPages := migrated["pages"]; stillHasPages {
		t.Fatalf("expected 'pages' to be renamed to 'artboards'")
	}
	artboards, ok := migrated["artboards"].([]interface{})
	if !ok || len(artboards) != 1 {
		t.Fatalf("expected one artboard carried over, got %#v", migrated["artboards"])
	}
	if id, _ := migrated["id"].(string); id == "" {
		t.Fatalf("expected a document id to be allocated")
	}

	// Original input must be untouched.
	if _, hasArtboards := legacy["artboards"]; hasArtboards {
		t.Fatalf("Migrate must not mutate its input")
	}
}

func TestCheckCompatibilityDoesNotMutate(t *testing.T) {
	r := DefaultRegistry()
	legacy := Raw{"schemaVersion": "0.0.1", "pages": []interface{}{}}
	report := r.CheckCompatibility(legacy, Current)

	if report.IsCurrent {
		t.Fatalf("legacy document must not report as current")
	}
	if !report.NeedsMigration || !report.CanMigrate {
		t.Fatalf("expected a migratable legacy document")
	}
	if len(report.Path) == 0 {
		t.Fatalf("expected a non-empty migration path")
	}
	if _, hasArtboards := legacy["artboards"]; hasArtboards {
		t.Fatalf("CheckCompatibility must not mutate input")
	}
}

func TestCheckCompatibilityCurrentDocument(t *testing.T) {
	r := DefaultRegistry()
	doc := Raw{"schemaVersion": Current}
	report := r.CheckCompatibility(doc, Current)
	if !report.IsCurrent || report.NeedsMigration {
		t.Fatalf("expected current document to report as up to date, got %+v", report)
	}
}
