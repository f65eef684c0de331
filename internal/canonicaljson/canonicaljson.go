// Package canonicaljson implements the engine's one permitted
// serialization path: object keys sorted lexicographically at every
// nesting level, two-space indentation, one key/value per line, a
// single trailing newline, numbers in shortest round-trip form, and
// arrays left in input order.
//
// encoding/json guarantees none of these ordering or indentation rules
// (map key order is unspecified and its indenter does not sort keys),
// so this package walks a generic tree (as produced by json.Unmarshal
// into interface{}, or built directly from the document model) and
// emits bytes by hand: sort.Strings over map keys, then a hand-written
// writer, rather than reaching for a third-party canonicalization
// library. There isn't an idiomatic one in the ecosystem that encodes
// this exact two-space/sorted-key/single-trailing-newline shape, so
// stdlib encoding/json plus a hand written tree walk is the grounded
// choice.
package canonicaljson

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

const indentUnit = "  "

// Marshal encodes v (any JSON-shaped value: map[string]interface{},
// []interface{}, string, float64/json.Number, bool, or nil; the shapes
// produced by encoding/json) into canonical bytes. Any other Go type,
// including int, is rejected; use MarshalValue for arbitrary values.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// MarshalValue round-trips v through encoding/json first (so struct tags
// and custom MarshalJSON methods are honored) and then re-emits it in
// canonical form.
func MarshalValue(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicaljson: marshal intermediate: %w", err)
	}
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canonicaljson: decode intermediate: %w", err)
	}
	return Marshal(generic)
}

func encode(buf *bytes.Buffer, v interface{}, depth int) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		encoded, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(encoded)
	case json.Number:
		buf.WriteString(shortestNumber(val))
	case float64:
		buf.WriteString(shortestNumber(json.Number(strconv.FormatFloat(val, 'g', -1, 64))))
	case map[string]interface{}:
		return encodeObject(buf, val, depth)
	case []interface{}:
		return encodeArray(buf, val, depth)
	default:
		return fmt.Errorf("canonicaljson: unsupported type %T", v)
	}
	return nil
}

func encodeObject(buf *bytes.Buffer, m map[string]interface{}, depth int) error {
	if len(m) == 0 {
		buf.WriteString("{}")
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteString("{\n")
	childIndent := indent(depth + 1)
	for i, k := range keys {
		buf.WriteString(childIndent)
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(keyBytes)
		buf.WriteString(": ")
		if err := encode(buf, m[k], depth+1); err != nil {
			return err
		}
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(indent(depth))
	buf.WriteByte('}')
	return nil
}

func encodeArray(buf *bytes.Buffer, arr []interface{}, depth int) error {
	if len(arr) == 0 {
		buf.WriteString("[]")
		return nil
	}

	buf.WriteString("[\n")
	childIndent := indent(depth + 1)
	for i, elem := range arr {
		buf.WriteString(childIndent)
		if err := encode(buf, elem, depth+1); err != nil {
			return err
		}
		if i < len(arr)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(indent(depth))
	buf.WriteByte(']')
	return nil
}

func indent(depth int) string {
	out := make([]byte, 0, depth*len(indentUnit))
	for i := 0; i < depth; i++ {
		out = append(out, indentUnit...)
	}
	return string(out)
}

// shortestNumber re-renders a decoded JSON number in its shortest
// round-trip form: integral values print without a trailing ".0", and
// everything else keeps Go's shortest float formatting.
func shortestNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Hash returns the SHA-256 digest of v's canonical bytes.
func Hash(v interface{}) ([32]byte, error) {
	b, err := Marshal(v)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(b), nil
}

// HashValue is Hash for arbitrary Go values, routed through MarshalValue.
func HashValue(v interface{}) ([32]byte, error) {
	b, err := MarshalValue(v)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(b), nil
}

// Equal reports whether a and b serialize to byte-identical canonical
// form: the engine's definition of structural equality.
func Equal(a, b interface{}) (bool, error) {
	ab, err := MarshalValue(a)
	if err != nil {
		return false, err
	}
	bb, err := MarshalValue(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}
