package migration

import (
	"github.com/canvasengine/engine/internal/ids"
	"github.com/canvasengine/engine/schema"
)

// Current is the schema version this registry migrates documents to.
var Current = schema.CurrentVersion

// legacyToCurrent upgrades the legacy "pages" layout: pages become
// artboards verbatim, a document id is allocated if absent, and
// schemaVersion is set to the current literal. A migration may
// allocate identifiers only when introducing new required nodes (here,
// the document's own id, which did not exist in the legacy layout),
// never for nodes that already exist, so existing node and artboard
// identifiers pass through untouched.
func legacyToCurrent(doc Raw) (Raw, error) {
	out := make(Raw, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	if pages, ok := out["pages"]; ok {
		out["artboards"] = pages
		delete(out, "pages")
	}

	if id, ok := out["id"].(string); !ok || id == "" {
		out["id"] = string(ids.New())
	}
	if name, ok := out["name"].(string); !ok || name == "" {
		out["name"] = "Untitled"
	}

	out["schemaVersion"] = Current
	delete(out, "version")
	return out, nil
}

// DefaultRegistry returns the engine's built-in migration registry.
func DefaultRegistry() *Registry {
	return NewRegistry(Step{
		From:  "0.0.1",
		To:    Current,
		Apply: legacyToCurrent,
	})
}
