package merge

import (
	"reflect"

	"github.com/canvasengine/engine/budget"
	"github.com/canvasengine/engine/errs"
	"github.com/canvasengine/engine/schema"
)

// mergeChildren merges one container's child sequence: each
// child is classified add/remove/edit relative to base, non-conflicting
// adds and removes are applied, and the final order is computed from
// local's ordering with remote-exclusive additions spliced in, falling
// back to local's order (with a recorded conflict) whenever local and
// remote disagree about the relative order of children both branches
// know about.
func mergeChildren(path string, base, local, remote []schema.Node, depth int, limits budget.Limits, conflicts *[]Conflict) ([]schema.Node, error) {
	if depth > limits.MaxDepth {
		return nil, errs.New(errs.MergeAborted, "merge.mergeChildren", "maximum nesting depth exceeded during merge")
	}

	baseIdx, localIdx, remoteIdx := indexByKey(base), indexByKey(local), indexByKey(remote)
	baseKeys, localKeys, remoteKeys := keysOf(base), keysOf(local), keysOf(remote)

	survivors := map[string]schema.Node{}
	processed := stringSet{}

	process := func(key string) error {
		if processed[key] {
			return nil
		}
		processed[key] = true

		bNode, inBase := baseIdx[key]
		lNode, inLocal := localIdx[key]
		rNode, inRemote := remoteIdx[key]

		switch {
		case inBase && inLocal && inRemote:
			merged, childConflicts, err := mergeOneNode(path, bNode, lNode, rNode, depth, limits)
			if err != nil {
				return err
			}
			*conflicts = append(*conflicts, childConflicts...)
			survivors[key] = merged

		case inBase && inLocal && !inRemote:
			if reflect.DeepEqual(bNode, lNode) {
				return nil // remote's delete wins, local made no change
			}
			*conflicts = append(*conflicts, Conflict{
				Code: CodeEditDelete, Key: key, NodeID: lNode.ID, Path: path,
				Message: "local edited a node remote deleted; keeping the edit",
			})
			survivors[key] = lNode

		case inBase && !inLocal && inRemote:
			if reflect.DeepEqual(bNode, rNode) {
				return nil // local's delete wins, remote made no change
			}
			*conflicts = append(*conflicts, Conflict{
				Code: CodeEditDelete, Key: key, NodeID: rNode.ID, Path: path,
				Message: "remote edited a node local deleted; keeping the edit",
			})
			survivors[key] = rNode

		case inBase && !inLocal && !inRemote:
			// Deleted on both sides: no conflict.

		case !inBase && inLocal && inRemote:
			if reflect.DeepEqual(lNode, rNode) {
				survivors[key] = lNode
				return nil
			}
			*conflicts = append(*conflicts, Conflict{
				Code: CodeAddAdd, Key: key, NodeID: lNode.ID, Path: path,
				Message: "both branches added a node under the same correspondence key with different content",
			})
			survivors[key] = lNode

		case !inBase && inLocal && !inRemote:
			survivors[key] = lNode

		case !inBase && !inLocal && inRemote:
			survivors[key] = rNode
		}
		return nil
	}

	for _, k := range baseKeys {
		if err := process(k); err != nil {
			return nil, err
		}
	}
	for _, k := range localKeys {
		if err := process(k); err != nil {
			return nil, err
		}
	}
	for _, k := range remoteKeys {
		if err := process(k); err != nil {
			return nil, err
		}
	}

	keep := make(stringSet, len(survivors))
	for k := range survivors {
		keep[k] = true
	}

	finalOrder := computeOrder(keep, localKeys, remoteKeys, conflicts, path)

	if len(finalOrder) != len(survivors) {
		return nil, errs.New(errs.MergeAborted, "merge.mergeChildren", "duplicate correspondence key detected in merged child sequence")
	}

	out := make([]schema.Node, len(finalOrder))
	for i, k := range finalOrder {
		out[i] = survivors[k]
	}
	return out, nil
}

// mergeOneNode merges a node present in all three branches: its own
// fields via mergeNodeFields, then, if it is a container, its children
// recursively.
func mergeOneNode(path string, base, local, remote schema.Node, depth int, limits budget.Limits) (schema.Node, []Conflict, error) {
	childPath := path + "/" + correspondenceKey(base)
	merged, conflicts := mergeNodeFields(childPath, base, local, remote)

	if merged.Type == schema.KindFrame {
		mergedChildren, err := mergeChildren(childPath, base.Children, local.Children, remote.Children, depth+1, limits, &conflicts)
		if err != nil {
			return schema.Node{}, nil, err
		}
		merged.Children = mergedChildren
	}
	return merged, conflicts, nil
}

// computeOrder builds the final child order from local's ordering
// (restricted to surviving keys), with remote-exclusive additions
// spliced in near their original remote neighbors. When local and
// remote disagree about the relative order of a child set both branches
// knew about, an order conflict is recorded and local's order is kept.
func computeOrder(keep stringSet, localKeys, remoteKeys []string, conflicts *[]Conflict, path string) []string {
	localOrder := filterOrder(localKeys, keep)
	remoteOrder := filterOrder(remoteKeys, keep)

	localSet := setOf(localOrder)
	remoteSet := setOf(remoteOrder)

	common := make(stringSet)
	for k := range localSet {
		if remoteSet[k] {
			common[k] = true
		}
	}
	localCommon := filterOrder(localOrder, common)
	remoteCommon := filterOrder(remoteOrder, common)
	if !sameOrder(localCommon, remoteCommon) {
		*conflicts = append(*conflicts, Conflict{
			Code: CodeOrderConflict, Path: path,
			Base:    nil,
			Local:   localCommon,
			Remote:  remoteCommon,
			Message: "local and remote reordered the same children incompatibly; keeping local's order",
		})
	}

	var prefix []string
	insertAfter := map[string][]string{}
	lastAnchor := ""
	for _, k := range remoteOrder {
		if localSet[k] {
			lastAnchor = k
			continue
		}
		if lastAnchor == "" {
			prefix = append(prefix, k)
		} else {
			insertAfter[lastAnchor] = append(insertAfter[lastAnchor], k)
		}
	}

	final := make([]string, 0, len(localOrder)+len(remoteOrder))
	final = append(final, prefix...)
	for _, k := range localOrder {
		final = append(final, k)
		if extra, ok := insertAfter[k]; ok {
			final = append(final, extra...)
		}
	}
	return final
}
