// Package patch implements JSON-Patch (RFC 6902) apply and invert over
// canvas documents, addressed by JSON Pointer (RFC 6901) paths built
// from schema.NodePath.Pointer().
//
// No verified third-party JSON-Patch implementation surfaced in the
// retrieved dependency pack closely enough to ground an import; the
// one candidate seen (gomodules.xyz/jsonpatch/v2) appeared only as a
// vendored go.mod with its source filtered out, with no importing
// module's own require block naming it directly, so its real API
// couldn't be confirmed. Document operations are applied over a
// generic JSON tree (the same map[string]interface{}/[]interface{}
// shape encoding/json produces) rather than the typed schema.Document,
// since a patch may target a path encoding/json cannot type-check
// structurally ahead of time.
package patch

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/canvasengine/engine/errs"
	"github.com/canvasengine/engine/schema"
)

// Op is one of the six RFC 6902 operation kinds.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
	OpMove    Op = "move"
	OpCopy    Op = "copy"
	OpTest    Op = "test"
)

// Operation is a single JSON-Patch step.
type Operation struct {
	Op    Op          `json:"op"`
	Path  string      `json:"path"`
	From  string      `json:"from,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

// Apply runs patches against document in order and returns the result.
// It is strict: a patch whose target path does not exist, or whose
// "test" precondition fails, aborts the whole sequence with an error and
// a zero Document. doc itself is never modified.
func Apply(doc schema.Document, patches []Operation) (schema.Document, error) {
	tree, err := toTree(doc)
	if err != nil {
		return schema.Document{}, errs.Wrap(errs.InvalidValue, "patch.Apply", err)
	}

	for i, p := range patches {
		tree, err = applyOne(tree, p)
		if err != nil {
			code := errs.PathNotFound
			if p.Op == OpTest {
				code = errs.PatchPreconditionFailed
			}
			return schema.Document{}, errs.Wrap(code, "patch.Apply", fmt.Errorf("step %d (%s %s): %w", i, p.Op, p.Path, err)).WithPath(p.Path)
		}
	}

	return fromTree(tree)
}

func applyOne(tree interface{}, p Operation) (interface{}, error) {
	switch p.Op {
	case OpAdd:
		tokens, err := parsePointer(p.Path)
		if err != nil {
			return nil, err
		}
		return insertAt(tree, tokens, p.Value)

	case OpRemove:
		tokens, err := parsePointer(p.Path)
		if err != nil {
			return nil, err
		}
		newTree, _, err := removeAt(tree, tokens)
		return newTree, err

	case OpReplace:
		tokens, err := parsePointer(p.Path)
		if err != nil {
			return nil, err
		}
		return replaceAt(tree, tokens, p.Value)

	case OpMove:
		fromTokens, err := parsePointer(p.From)
		if err != nil {
			return nil, err
		}
		newTree, moved, err := removeAt(tree, fromTokens)
		if err != nil {
			return nil, err
		}
		toTokens, err := parsePointer(p.Path)
		if err != nil {
			return nil, err
		}
		return insertAt(newTree, toTokens, moved)

	case OpCopy:
		fromTokens, err := parsePointer(p.From)
		if err != nil {
			return nil, err
		}
		val, err := getAt(tree, fromTokens)
		if err != nil {
			return nil, err
		}
		toTokens, err := parsePointer(p.Path)
		if err != nil {
			return nil, err
		}
		return insertAt(tree, toTokens, deepCopyValue(val))

	case OpTest:
		tokens, err := parsePointer(p.Path)
		if err != nil {
			return nil, err
		}
		got, err := getAt(tree, tokens)
		if err != nil {
			return nil, err
		}
		if !reflect.DeepEqual(got, p.Value) {
			return nil, fmt.Errorf("precondition failed: got %v, want %v", got, p.Value)
		}
		return tree, nil

	default:
		return nil, fmt.Errorf("unknown op %q", p.Op)
	}
}

// Invert produces the patch sequence that undoes patches, given the
// document they were about to be applied to. Applying Invert(patches,
// pre) to Apply(pre, patches) reconstructs pre exactly.
func Invert(patches []Operation, pre schema.Document) ([]Operation, error) {
	tree, err := toTree(pre)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidValue, "patch.Invert", err)
	}

	inverses := make([]Operation, len(patches))
	for i, p := range patches {
		inv, newTree, err := invertOne(tree, p)
		if err != nil {
			return nil, errs.Wrap(errs.PathNotFound, "patch.Invert", fmt.Errorf("step %d (%s %s): %w", i, p.Op, p.Path, err)).WithPath(p.Path)
		}
		inverses[len(patches)-1-i] = inv
		tree = newTree
	}
	return inverses, nil
}

// invertOne computes the inverse of a single patch step given the tree
// state immediately before that step, then returns the tree state after
// applying the step (so the caller can feed it to the next iteration).
func invertOne(tree interface{}, p Operation) (Operation, interface{}, error) {
	switch p.Op {
	case OpTest:
		newTree, err := applyOne(tree, p)
		return Operation{Op: OpTest, Path: p.Path, Value: p.Value}, newTree, err

	case OpReplace:
		tokens, err := parsePointer(p.Path)
		if err != nil {
			return Operation{}, nil, err
		}
		old, err := getAt(tree, tokens)
		if err != nil {
			return Operation{}, nil, err
		}
		newTree, err := replaceAt(tree, tokens, p.Value)
		if err != nil {
			return Operation{}, nil, err
		}
		return Operation{Op: OpReplace, Path: p.Path, Value: deepCopyValue(old)}, newTree, nil

	case OpAdd:
		tokens, err := parsePointer(p.Path)
		if err != nil {
			return Operation{}, nil, err
		}
		old, existed := tryGet(tree, tokens)
		removePath := p.Path
		if len(tokens) > 0 {
			if parent, err := getAt(tree, tokens[:len(tokens)-1]); err == nil {
				if arr, isArray := parent.([]interface{}); isArray {
					// Adding into an array inserts rather than replaces.
					existed = false
					if tokens[len(tokens)-1] == "-" {
						removePath = p.Path[:len(p.Path)-1] + strconv.Itoa(len(arr))
					}
				}
			}
		}
		newTree, err := insertAt(tree, tokens, p.Value)
		if err != nil {
			return Operation{}, nil, err
		}
		if existed {
			return Operation{Op: OpReplace, Path: p.Path, Value: deepCopyValue(old)}, newTree, nil
		}
		return Operation{Op: OpRemove, Path: removePath}, newTree, nil

	case OpRemove:
		tokens, err := parsePointer(p.Path)
		if err != nil {
			return Operation{}, nil, err
		}
		newTree, removed, err := removeAt(tree, tokens)
		if err != nil {
			return Operation{}, nil, err
		}
		return Operation{Op: OpAdd, Path: p.Path, Value: deepCopyValue(removed)}, newTree, nil

	case OpMove:
		newTree, err := applyOne(tree, p)
		if err != nil {
			return Operation{}, nil, err
		}
		return Operation{Op: OpMove, Path: p.From, From: p.Path}, newTree, nil

	case OpCopy:
		toTokens, err := parsePointer(p.Path)
		if err != nil {
			return Operation{}, nil, err
		}
		old, existed := tryGet(tree, toTokens)
		newTree, err := applyOne(tree, p)
		if err != nil {
			return Operation{}, nil, err
		}
		if existed {
			return Operation{Op: OpReplace, Path: p.Path, Value: deepCopyValue(old)}, newTree, nil
		}
		return Operation{Op: OpRemove, Path: p.Path}, newTree, nil

	default:
		return Operation{}, nil, fmt.Errorf("unknown op %q", p.Op)
	}
}

func tryGet(tree interface{}, tokens []string) (interface{}, bool) {
	v, err := getAt(tree, tokens)
	if err != nil {
		return nil, false
	}
	return v, true
}

func toTree(doc schema.Document) (interface{}, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var tree interface{}
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func fromTree(tree interface{}) (schema.Document, error) {
	b, err := json.Marshal(tree)
	if err != nil {
		return schema.Document{}, errs.Wrap(errs.InvalidValue, "patch.fromTree", err)
	}
	var doc schema.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return schema.Document{}, errs.Wrap(errs.InvalidValue, "patch.fromTree", err)
	}
	return doc, nil
}

func deepCopyValue(v interface{}) interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}
