package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML-encoded document (a convenience for hosting
// tools that keep source-controlled fixtures in YAML rather than JSON)
// and validates it the same way Parse does. YAML is converted to the
// engine's native JSON model via an intermediate round trip, so
// canonical serialization and hashing are always computed from the one
// JSON representation; YAML is never a second source of truth.
func ParseYAML(data []byte) (Document, error) {
	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return Document{}, fmt.Errorf("schema: malformed YAML: %w", err)
	}
	jsonBytes, err := json.Marshal(normalizeYAML(generic))
	if err != nil {
		return Document{}, fmt.Errorf("schema: converting YAML to JSON: %w", err)
	}
	return Parse(jsonBytes)
}

// ToYAML renders doc as YAML, for hosting tools that prefer it for
// checked-in fixtures.
func ToYAML(doc Document) ([]byte, error) {
	raw, err := Serialize(doc)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("schema: decoding canonical JSON: %w", err)
	}
	return yaml.Marshal(generic)
}

// normalizeYAML converts the map[interface{}]interface{} shapes
// gopkg.in/yaml.v3 can produce for nested mappings into
// map[string]interface{}, which encoding/json requires.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, elem := range val {
			out[k] = normalizeYAML(elem)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, elem := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(elem)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = normalizeYAML(elem)
		}
		return out
	default:
		return v
	}
}
