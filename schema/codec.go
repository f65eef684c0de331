package schema

import (
	"encoding/json"
	"fmt"

	"github.com/canvasengine/engine/internal/canonicaljson"
)

// Parse decodes UTF-8 JSON bytes into a Document and validates it. It
// returns Validate's *ValidationError, unwrapped, if the document is
// structurally invalid, and a plain wrapped error if the bytes are not
// well-formed JSON.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("schema: malformed JSON: %w", err)
	}
	if err := Validate(&doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ParseUnchecked decodes JSON bytes into a Document without validating
// it. Callers in the migration path use this so that a document on an
// older or malformed schema can be inspected and migrated before it is
// required to validate.
func ParseUnchecked(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("schema: malformed JSON: %w", err)
	}
	return doc, nil
}

// Serialize renders doc as canonical JSON bytes: sorted object keys at
// every level, two-space indentation, one key/value per line, a single
// trailing newline, arrays left in input order.
func Serialize(doc Document) ([]byte, error) {
	return canonicaljson.MarshalValue(doc)
}

// Hash returns the SHA-256 digest of doc's canonical serialization.
func Hash(doc Document) ([32]byte, error) {
	return canonicaljson.HashValue(doc)
}

// Equal reports whether a and b are structurally equal: their canonical
// serializations are byte-identical.
func Equal(a, b Document) (bool, error) {
	return canonicaljson.Equal(a, b)
}
