// Package merge implements the three-way structural merge of two
// divergent documents against their common ancestor. Correspondence
// between nodes across branches is tracked by semantic key where
// present, falling back to identifier, document-wide rather than
// scoped to one artboard or parent: a document may freely reparent a
// node between saves without merge treating it as delete-then-add.
package merge

import (
	"reflect"
	"time"

	"github.com/canvasengine/engine/budget"
	"github.com/canvasengine/engine/errs"
	"github.com/canvasengine/engine/patch"
	"github.com/canvasengine/engine/schema"
)

// ConflictResolution picks how Merge resolves conflicts it finds beyond
// recording them. All three still record every Conflict; they differ
// only in which side's value ends up in Merged.
type ConflictResolution int

const (
	// ResolutionReportOnly keeps whichever side the field-level policy
	// already prefers (local) and simply reports the conflict.
	ResolutionReportOnly ConflictResolution = iota
	// ResolutionPreferLocal is an explicit alias for the default policy.
	ResolutionPreferLocal
	// ResolutionPreferRemote flips every recorded conflict's resolution
	// to the remote side.
	ResolutionPreferRemote
)

// Options tunes a Merge call.
type Options struct {
	ConflictResolution ConflictResolution
	Limits             budget.Limits
	Deadline           time.Time
	// MaxConflicts aborts the merge with MergeAborted when more than
	// this many conflicts have been recorded; conflicts are not
	// truncated to this count. Zero means unlimited.
	MaxConflicts int
}

// Result is the outcome of a successful Merge.
type Result struct {
	Merged          schema.Document
	PatchesFromBase []patch.Operation
	Conflicts       []Conflict
}

// Merge three-way merges local and remote, both derived from base, into
// a single document. It validates all three inputs before doing any
// merging and never returns a partially merged document: on error,
// Result is the zero value.
func Merge(base, local, remote schema.Document, opts Options) (Result, error) {
	if err := schema.Validate(&base); err != nil {
		return Result{}, errs.Wrap(errs.InvalidSchema, "merge.Merge", err).WithDetails(map[string]interface{}{"branch": "base"})
	}
	if err := schema.Validate(&local); err != nil {
		return Result{}, errs.Wrap(errs.InvalidSchema, "merge.Merge", err).WithDetails(map[string]interface{}{"branch": "local"})
	}
	if err := schema.Validate(&remote); err != nil {
		return Result{}, errs.Wrap(errs.InvalidSchema, "merge.Merge", err).WithDetails(map[string]interface{}{"branch": "remote"})
	}

	limits := opts.Limits
	if limits == (budget.Limits{}) {
		limits = budget.DefaultLimits()
	}

	if !opts.Deadline.IsZero() && time.Now().After(opts.Deadline) {
		return Result{}, errs.New(errs.Cancelled, "merge.Merge", "merge deadline already elapsed")
	}

	merged := schema.Document{
		SchemaVersion: base.SchemaVersion,
		ID:            base.ID,
	}

	var conflicts []Conflict
	merged.Name, _ = mergeScalar(base.ID, "/name", "name", base.Name, local.Name, remote.Name, &conflicts).(string)

	artboards, err := mergeArtboards(base.Artboards, local.Artboards, remote.Artboards, limits, &conflicts)
	if err != nil {
		return Result{}, err
	}
	merged.Artboards = artboards

	if opts.MaxConflicts > 0 && len(conflicts) > opts.MaxConflicts {
		return Result{}, errs.Newf(errs.MergeAborted, "merge.Merge", "merge produced %d conflicts, exceeding the configured limit of %d", len(conflicts), opts.MaxConflicts)
	}

	if opts.ConflictResolution == ResolutionPreferRemote {
		var discard []Conflict
		merged.Name, _ = mergeScalar(base.ID, "/name", "name", base.Name, remote.Name, local.Name, &discard).(string)
		artboards, err = applyPreferRemote(base, local, remote, limits)
		if err != nil {
			return Result{}, err
		}
		merged.Artboards = artboards
	}

	if err := schema.Validate(&merged); err != nil {
		return Result{}, errs.Wrap(errs.MergeAborted, "merge.Merge", err)
	}

	if budget.Check(&merged, limits).NodeCount > budget.Check(&base, limits).NodeCount {
		if err := budget.Guard(&merged, limits); err != nil {
			return Result{}, err
		}
	}

	patches, err := diffDocuments(base, merged)
	if err != nil {
		return Result{}, errs.Wrap(errs.MergeAborted, "merge.Merge", err)
	}

	return Result{Merged: merged, PatchesFromBase: patches, Conflicts: conflicts}, nil
}

func mergeArtboards(base, local, remote []schema.Artboard, limits budget.Limits, conflicts *[]Conflict) ([]schema.Artboard, error) {
	baseIdx := artboardIndex(base)
	localIdx := artboardIndex(local)
	remoteIdx := artboardIndex(remote)

	baseKeys := artboardKeys(base)
	localKeys := artboardKeys(local)
	remoteKeys := artboardKeys(remote)

	survivors := map[string]schema.Artboard{}
	processed := stringSet{}

	process := func(key string) error {
		if processed[key] {
			return nil
		}
		processed[key] = true

		bAB, inBase := baseIdx[key]
		lAB, inLocal := localIdx[key]
		rAB, inRemote := remoteIdx[key]

		switch {
		case inBase && inLocal && inRemote:
			ab, err := mergeOneArtboard(bAB, lAB, rAB, limits, conflicts)
			if err != nil {
				return err
			}
			survivors[key] = ab
		case inBase && inLocal && !inRemote:
			if !artboardUnchanged(bAB, lAB) {
				*conflicts = append(*conflicts, Conflict{Code: CodeEditDelete, Key: key, NodeID: lAB.ID, Path: "/artboards", Message: "local edited an artboard remote deleted; keeping the edit"})
				survivors[key] = lAB
			}
		case inBase && !inLocal && inRemote:
			if !artboardUnchanged(bAB, rAB) {
				*conflicts = append(*conflicts, Conflict{Code: CodeEditDelete, Key: key, NodeID: rAB.ID, Path: "/artboards", Message: "remote edited an artboard local deleted; keeping the edit"})
				survivors[key] = rAB
			}
		case inBase && !inLocal && !inRemote:
			// deleted on both sides
		case !inBase && inLocal && inRemote:
			if artboardUnchanged(lAB, rAB) {
				survivors[key] = lAB
			} else {
				*conflicts = append(*conflicts, Conflict{Code: CodeAddAdd, Key: key, NodeID: lAB.ID, Path: "/artboards", Message: "both branches added an artboard with the same identifier but different content"})
				survivors[key] = lAB
			}
		case !inBase && inLocal && !inRemote:
			survivors[key] = lAB
		case !inBase && !inLocal && inRemote:
			survivors[key] = rAB
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
	order := computeOrder(keep, localKeys, remoteKeys, conflicts, "/artboards")

	out := make([]schema.Artboard, len(order))
	for i, k := range order {
		out[i] = survivors[k]
	}
	return out, nil
}

func mergeOneArtboard(base, local, remote schema.Artboard, limits budget.Limits, conflicts *[]Conflict) (schema.Artboard, error) {
	path := "/artboards/" + artboardKey(base)
	merged := base
	merged.Name, _ = mergeScalar(base.ID, path, "name", base.Name, local.Name, remote.Name, conflicts).(string)
	merged.Frame, _ = mergeScalar(base.ID, path, "frame", base.Frame, local.Frame, remote.Frame, conflicts).(schema.Rectangle)
	merged.Background, _ = mergeScalar(base.ID, path, "background", base.Background, local.Background, remote.Background, conflicts).(*schema.Fill)

	children, err := mergeChildren(path, base.Children, local.Children, remote.Children, 1, limits, conflicts)
	if err != nil {
		return schema.Artboard{}, err
	}
	merged.Children = children
	return merged, nil
}

func artboardIndex(abs []schema.Artboard) map[string]schema.Artboard {
	out := make(map[string]schema.Artboard, len(abs))
	for _, ab := range abs {
		out[artboardKey(ab)] = ab
	}
	return out
}

func artboardKeys(abs []schema.Artboard) []string {
	out := make([]string, len(abs))
	for i, ab := range abs {
		out[i] = artboardKey(ab)
	}
	return out
}

func artboardUnchanged(a, b schema.Artboard) bool {
	return reflect.DeepEqual(a, b)
}

// applyPreferRemote re-merges with local and remote swapped so that
// every field-level and add/add conflict resolves to remote, matching
// ResolutionPreferRemote. Order and edit/delete conflicts are inherently
// asymmetric in which branch is treated as "local" for tie-breaking
// purposes, so this is the simplest correct way to honor the option
// without duplicating the merge policy.
func applyPreferRemote(base, local, remote schema.Document, limits budget.Limits) ([]schema.Artboard, error) {
	var discard []Conflict
	return mergeArtboards(base.Artboards, remote.Artboards, local.Artboards, limits, &discard)
}
