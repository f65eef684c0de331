package merge

import (
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/canvasengine/engine/patch"
	"github.com/canvasengine/engine/schema"
)

// diffDocuments returns a JSON-Patch sequence that transforms base into
// merged. It is not a minimal diff: array elements are compared
// position by position with any length difference trimmed or appended
// at the tail. Applying the result to base always reproduces merged
// exactly, which is the only property callers rely on.
func diffDocuments(base, merged schema.Document) ([]patch.Operation, error) {
	a, err := toGenericTree(base)
	if err != nil {
		return nil, err
	}
	b, err := toGenericTree(merged)
	if err != nil {
		return nil, err
	}
	var ops []patch.Operation
	diffValue("", a, b, &ops)
	return ops, nil
}

func toGenericTree(doc schema.Document) (interface{}, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func diffValue(pointer string, a, b interface{}, out *[]patch.Operation) {
	if reflect.DeepEqual(a, b) {
		return
	}

	aMap, aIsMap := a.(map[string]interface{})
	bMap, bIsMap := b.(map[string]interface{})
	if aIsMap && bIsMap {
		diffMap(pointer, aMap, bMap, out)
		return
	}

	aSlice, aIsSlice := a.([]interface{})
	bSlice, bIsSlice := b.([]interface{})
	if aIsSlice && bIsSlice {
		diffSlice(pointer, aSlice, bSlice, out)
		return
	}

	if a == nil {
		*out = append(*out, patch.Operation{Op: patch.OpAdd, Path: pointer, Value: b})
		return
	}
	if b == nil {
		*out = append(*out, patch.Operation{Op: patch.OpRemove, Path: pointer})
		return
	}
	*out = append(*out, patch.Operation{Op: patch.OpReplace, Path: pointer, Value: b})
}

func diffMap(pointer string, a, b map[string]interface{}, out *[]patch.Operation) {
	for k := range a {
		if _, ok := b[k]; !ok {
			*out = append(*out, patch.Operation{Op: patch.OpRemove, Path: pointer + "/" + escapeToken(k)})
		}
	}
	for k, bv := range b {
		p := pointer + "/" + escapeToken(k)
		if av, ok := a[k]; ok {
			diffValue(p, av, bv, out)
		} else {
			*out = append(*out, patch.Operation{Op: patch.OpAdd, Path: p, Value: bv})
		}
	}
}

func diffSlice(pointer string, a, b []interface{}, out *[]patch.Operation) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		diffValue(pointer+"/"+strconv.Itoa(i), a[i], b[i], out)
	}
	switch {
	case len(b) > len(a):
		for i := len(a); i < len(b); i++ {
			*out = append(*out, patch.Operation{Op: patch.OpAdd, Path: pointer + "/-", Value: b[i]})
		}
	case len(a) > len(b):
		for i := len(a) - 1; i >= len(b); i-- {
			*out = append(*out, patch.Operation{Op: patch.OpRemove, Path: pointer + "/" + strconv.Itoa(i)})
		}
	}
}

func escapeToken(tok string) string {
	out := make([]byte, 0, len(tok))
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, tok[i])
		}
	}
	return string(out)
}
