package schema

import "testing"

func TestSerializeIsCanonicalAcrossEqualDocuments(t *testing.T) {
	a := simpleDocument()
	b := a.Clone()

	sa, err := Serialize(a)
	if err != nil {
		t.Fatalf("Serialize a: %v", err)
	}
	sb, err := Serialize(b)
	if err != nil {
		t.Fatalf("Serialize b: %v", err)
	}
	if string(sa) != string(sb) {
		t.Fatalf("expected byte-identical serialization of equal documents")
	}
}

func TestParseSerializeRoundTrip(t *testing.T) {
	doc := simpleDocument()
	raw, err := Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reserialized, err := Serialize(parsed)
	if err != nil {
		t.Fatalf("Serialize again: %v", err)
	}
	if string(raw) != string(reserialized) {
		t.Fatalf("round trip did not reproduce canonical bytes:\nwant:\n%s\ngot:\n%s", raw, reserialized)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	doc := simpleDocument()
	h1, err := Hash(doc)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash(doc.Clone())
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected equal documents to hash identically")
	}
}

func TestYAMLRoundTripPreservesStructure(t *testing.T) {
	doc := simpleDocument()
	y, err := ToYAML(doc)
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}
	parsed, err := ParseYAML(y)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	equal, err := Equal(doc, parsed)
	if err != nil {
		t.Fatalf("Equal: %v", err)
	}
	if !equal {
		t.Fatalf("expected YAML round trip to preserve document structure")
	}
}
