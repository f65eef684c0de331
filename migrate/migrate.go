// Package migrate exposes the engine's migration entry points at the
// schema.Document boundary, wiring internal/migration's generic
// JSON-level registry to the typed document model.
package migrate

import (
	"encoding/json"
	"fmt"

	"github.com/canvasengine/engine/errs"
	"github.com/canvasengine/engine/internal/migration"
	"github.com/canvasengine/engine/schema"
)

// Compatibility is migration.Compatibility re-exported at this
// package's boundary so callers never need to import the internal
// package directly.
type Compatibility = migration.Compatibility

var defaultRegistry = migration.DefaultRegistry()

// CheckCompatibility inspects raw JSON bytes and reports their
// compatibility with the current schema version, without mutating
// input or running any migration.
func CheckCompatibility(data []byte) (Compatibility, error) {
	raw, err := decodeRaw(data)
	if err != nil {
		return Compatibility{}, err
	}
	return defaultRegistry.CheckCompatibility(raw, migration.Current), nil
}

// Migrate upgrades raw JSON bytes to the current schema version,
// composing the unique registered path and validating the result.
// Returns *errs.EngineError with code NoMigrationPath if no path
// connects the document's detected version to current, or
// InvalidSchema if the migrated result still fails validation.
func Migrate(data []byte) (schema.Document, error) {
	raw, err := decodeRaw(data)
	if err != nil {
		return schema.Document{}, err
	}

	migrated, err := defaultRegistry.Migrate(raw, migration.Current)
	if err != nil {
		if _, ok := err.(*migration.NoMigrationPathError); ok {
			return schema.Document{}, errs.Wrap(errs.NoMigrationPath, "migrate", err)
		}
		return schema.Document{}, errs.Wrap(errs.UnknownVersion, "migrate", err)
	}

	migratedJSON, err := json.Marshal(migrated)
	if err != nil {
		return schema.Document{}, fmt.Errorf("migrate: re-encoding migrated document: %w", err)
	}

	doc, err := schema.Parse(migratedJSON)
	if err != nil {
		if ve, ok := err.(*schema.ValidationError); ok {
			return schema.Document{}, ve.EngineError("migrate")
		}
		return schema.Document{}, err
	}
	return doc, nil
}

func decodeRaw(data []byte) (migration.Raw, error) {
	var raw migration.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("migrate: malformed JSON: %w", err)
	}
	return raw, nil
}
