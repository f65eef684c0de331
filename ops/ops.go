// Package ops implements the five node operations that mutate a
// document: create, update, delete, move, and duplicate. Every
// operation consumes an immutable document and returns a new one
// alongside the JSON-Patch sequence (and its inverse) that explains the
// change, rather than mutating its input.
//
// Each operation builds its forward patch by hand, from what it knows
// the mutation should be, then delegates actually applying it and
// computing the inverse to package patch, so the document returned here
// and the patch sequence describing it can never drift apart.
package ops

import (
	"encoding/json"
	"time"

	"github.com/canvasengine/engine/budget"
	"github.com/canvasengine/engine/errs"
	"github.com/canvasengine/engine/internal/ids"
	"github.com/canvasengine/engine/patch"
	"github.com/canvasengine/engine/schema"
)

// Result is the outcome of a successful operation.
type Result struct {
	Document schema.Document
	Patches  []patch.Operation
	Inverse  []patch.Operation
}

// Options configures the budget thresholds an operation enforces. The
// zero value uses budget.DefaultLimits().
type Options struct {
	Limits budget.Limits
}

func nodeToValue(n schema.Node) (interface{}, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// resolveContainer returns the path a new child of parentPath would be
// inserted under, validating that parentPath names a container. An
// artboard-root path is always a valid container (the artboard itself).
func resolveContainer(doc *schema.Document, parentPath schema.NodePath) error {
	if parentPath.IsArtboardRoot() {
		if parentPath.ArtboardIndex < 0 || parentPath.ArtboardIndex >= len(doc.Artboards) {
			return errs.Newf(errs.ParentNotFound, "ops.Create", "artboard index %d out of range", parentPath.ArtboardIndex)
		}
		return nil
	}
	node, err := schema.Resolve(doc, parentPath)
	if err != nil {
		return errs.Wrap(errs.ParentNotFound, "ops.Create", err)
	}
	if !node.IsContainer() {
		return errs.Newf(errs.ParentNotContainer, "ops.Create", "node at %s is not a container", parentPath)
	}
	return nil
}

func containerLen(doc *schema.Document, parentPath schema.NodePath) (int, error) {
	if parentPath.IsArtboardRoot() {
		return len(doc.Artboards[parentPath.ArtboardIndex].Children), nil
	}
	node, err := schema.Resolve(doc, parentPath)
	if err != nil {
		return 0, err
	}
	return len(node.Children), nil
}

// Create allocates an identifier for partial, assigns its defaults, and
// inserts it as a child of parentPath at index (or appended, if index is
// nil).
func Create(doc schema.Document, parentPath schema.NodePath, partial schema.Node, index *int, opts Options) (Result, error) {
	start := time.Now()
	if err := resolveContainer(&doc, parentPath); err != nil {
		return Result{}, err
	}
	switch partial.Type {
	case schema.KindFrame, schema.KindText, schema.KindComponent:
	default:
		return Result{}, errs.Newf(errs.InvalidNode, "ops.Create", "unknown node type %q", partial.Type)
	}

	n := partial
	n.ID = string(ids.New())
	n.Visible = true
	if n.Type == schema.KindFrame && n.Children == nil {
		n.Children = []schema.Node{}
	}
	if n.Type == schema.KindComponent && n.Overrides == nil {
		n.Overrides = map[string]interface{}{}
	}

	length, err := containerLen(&doc, parentPath)
	if err != nil {
		return Result{}, errs.Wrap(errs.ParentNotFound, "ops.Create", err)
	}
	insertAt := length
	if index != nil {
		if *index < 0 || *index > length {
			return Result{}, errs.Newf(errs.InvalidNode, "ops.Create", "index %d out of range (0..%d)", *index, length)
		}
		insertAt = *index
	}

	value, err := nodeToValue(n)
	if err != nil {
		return Result{}, errs.Wrap(errs.InvalidNode, "ops.Create", err)
	}

	targetPath := parentPath.Child(insertAt)
	forward := []patch.Operation{{Op: patch.OpAdd, Path: targetPath.Pointer(), Value: value}}

	return finish(doc, forward, "ops.Create", &opts, true, start)
}

// Update shallow-merges fieldUpdates into the node identified by
// nodeID. Updating "id" or "type" is rejected.
func Update(doc schema.Document, nodeID string, fieldUpdates map[string]interface{}) (Result, error) {
	start := time.Now()
	path, ok := schema.FindByID(&doc, nodeID)
	if !ok {
		return Result{}, errs.Newf(errs.NodeNotFound, "ops.Update", "node %q not found", nodeID)
	}
	if _, bad := fieldUpdates["id"]; bad {
		return Result{}, errs.New(errs.TypeChangeDisallowed, "ops.Update", "cannot change id")
	}
	if _, bad := fieldUpdates["type"]; bad {
		return Result{}, errs.New(errs.TypeChangeDisallowed, "ops.Update", "cannot change type")
	}
	if len(fieldUpdates) == 0 {
		return Result{}, errs.New(errs.InvalidValue, "ops.Update", "no field updates supplied")
	}

	base := path.Pointer()
	forward := make([]patch.Operation, 0, len(fieldUpdates))
	for field, value := range fieldUpdates {
		forward = append(forward, patch.Operation{Op: patch.OpAdd, Path: base + "/" + field, Value: value})
	}

	return finish(doc, forward, "ops.Update", nil, false, start)
}

// Delete removes the node identified by nodeID, and its subtree, from
// its parent's child sequence. Deleting an artboard's own identifier
// through this node-level operation is disallowed.
func Delete(doc schema.Document, nodeID string) (Result, error) {
	start := time.Now()
	path, ok := schema.FindByID(&doc, nodeID)
	if !ok {
		for _, ab := range doc.Artboards {
			if ab.ID == nodeID {
				return Result{}, errs.New(errs.RootDeletionDisallowed, "ops.Delete", "cannot delete an artboard root through node delete")
			}
		}
		return Result{}, errs.Newf(errs.NodeNotFound, "ops.Delete", "node %q not found", nodeID)
	}

	forward := []patch.Operation{{Op: patch.OpRemove, Path: path.Pointer()}}
	return finish(doc, forward, "ops.Delete", nil, false, start)
}

// Move detaches the node identified by nodeID and reinserts it as a
// child of newParentPath at index, preserving its identifier.
func Move(doc schema.Document, nodeID string, newParentPath schema.NodePath, index int) (Result, error) {
	start := time.Now()
	sourcePath, ok := schema.FindByID(&doc, nodeID)
	if !ok {
		return Result{}, errs.Newf(errs.NodeNotFound, "ops.Move", "node %q not found", nodeID)
	}

	if sourcePath.Equal(newParentPath) || sourcePath.IsAncestorOf(newParentPath) {
		return Result{}, errs.New(errs.WouldCreateCycle, "ops.Move", "move target is the node itself or one of its descendants")
	}

	if err := resolveContainer(&doc, newParentPath); err != nil {
		return Result{}, errs.Wrap(errs.TargetNotContainer, "ops.Move", err)
	}
	length, err := containerLen(&doc, newParentPath)
	if err != nil {
		return Result{}, errs.Wrap(errs.TargetNotContainer, "ops.Move", err)
	}
	if index < 0 || index > length {
		return Result{}, errs.Newf(errs.TargetNotContainer, "ops.Move", "index %d out of range (0..%d)", index, length)
	}

	// The move's target pointer is resolved after the source has been
	// detached, so a parent route that passes through a later sibling of
	// the source shifts down by one at the source's level.
	parent := newParentPath
	srcParent, hasParent := sourcePath.Parent()
	if !hasParent {
		srcParent = schema.RootPath(sourcePath.ArtboardIndex)
	}
	if srcParent.IsAncestorOf(parent) {
		level := len(srcParent.Indices)
		if parent.Indices[level] > sourcePath.Indices[level] {
			adjusted := append([]int(nil), parent.Indices...)
			adjusted[level]--
			parent = schema.NodePath{ArtboardIndex: parent.ArtboardIndex, Indices: adjusted}
		}
	}
	targetPath := parent.Child(index)
	forward := []patch.Operation{{Op: patch.OpMove, From: sourcePath.Pointer(), Path: targetPath.Pointer()}}
	return finish(doc, forward, "ops.Move", nil, false, start)
}

// Duplicate deep-copies the subtree rooted at nodeID, allocating fresh
// identifiers throughout, and inserts the copy immediately after the
// source at the same level. Semantic keys are not copied. The copy's
// root is renamed "<original> Copy"; descendants keep their names.
func Duplicate(doc schema.Document, nodeID string, opts Options) (Result, error) {
	start := time.Now()
	sourcePath, ok := schema.FindByID(&doc, nodeID)
	if !ok {
		return Result{}, errs.Newf(errs.NodeNotFound, "ops.Duplicate", "node %q not found", nodeID)
	}
	source, err := schema.Resolve(&doc, sourcePath)
	if err != nil {
		return Result{}, errs.Wrap(errs.NodeNotFound, "ops.Duplicate", err)
	}

	clone, err := deepCopyNode(*source)
	if err != nil {
		return Result{}, errs.Wrap(errs.InvalidNode, "ops.Duplicate", err)
	}
	clone = assignFreshIdentifiers(clone)
	clone.Name = clone.Name + " Copy"

	parentPath, hasParent := sourcePath.Parent()
	if !hasParent {
		parentPath = schema.RootPath(sourcePath.ArtboardIndex)
	}
	insertIndex := sourcePath.Indices[len(sourcePath.Indices)-1] + 1
	targetPath := parentPath.Child(insertIndex)

	value, err := nodeToValue(clone)
	if err != nil {
		return Result{}, errs.Wrap(errs.InvalidNode, "ops.Duplicate", err)
	}

	forward := []patch.Operation{{Op: patch.OpAdd, Path: targetPath.Pointer(), Value: value}}
	return finish(doc, forward, "ops.Duplicate", &opts, true, start)
}

func deepCopyNode(n schema.Node) (schema.Node, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return schema.Node{}, err
	}
	var out schema.Node
	if err := json.Unmarshal(b, &out); err != nil {
		return schema.Node{}, err
	}
	return out, nil
}

func assignFreshIdentifiers(n schema.Node) schema.Node {
	n.ID = string(ids.New())
	n.SemanticKey = ""
	if n.Children != nil {
		children := make([]schema.Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = assignFreshIdentifiers(c)
		}
		n.Children = children
	}
	return n
}

// finish applies forward to doc, computes its inverse, and enforces the
// operation's budget thresholds: wall time unconditionally, and for
// operations that grow the document, the node/depth/memory guard too,
// before returning the result.
func finish(doc schema.Document, forward []patch.Operation, op string, opts *Options, growsDocument bool, start time.Time) (Result, error) {
	limits := budget.DefaultLimits()
	if opts != nil {
		limits = opts.Limits
	}

	newDoc, err := patch.Apply(doc, forward)
	if err != nil {
		return Result{}, err
	}

	if growsDocument {
		if err := budget.Guard(&newDoc, limits); err != nil {
			return Result{}, err
		}
	}

	if err := budget.EnforceDeadline(start, limits); err != nil {
		return Result{}, err
	}

	inverse, err := patch.Invert(forward, doc)
	if err != nil {
		return Result{}, errs.Wrap(errs.InvalidValue, op, err)
	}

	return Result{Document: newDoc, Patches: forward, Inverse: inverse}, nil
}
