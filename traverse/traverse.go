// Package traverse implements a pre-order walk over a document's nodes:
// artboard-index ascending, then child-index ascending at each level,
// read-only and restartable.
//
// Go 1.23's range-over-func iterators are the natural fit for "lazy,
// restartable, single-pass-per-iterator-value, honors max_depth and an
// optional predicate": Walk returns an iter.Seq that a caller ranges
// over, and breaking out of the range loop stops the walk cleanly with
// no goroutine or channel left behind.
package traverse

import (
	"iter"
	"regexp"

	"github.com/canvasengine/engine/schema"
)

// Entry is one node yielded by a walk.
type Entry struct {
	Node          *schema.Node
	Path          schema.NodePath
	Depth         int
	ArtboardIndex int
}

// Options configures a walk.
type Options struct {
	// MaxDepth limits how deep the walk descends below its starting
	// point. Zero means unlimited.
	MaxDepth int
	// IncludeRoot includes the artboard's own synthetic root entry
	// (Depth 0, Node nil) before its children when true.
	IncludeRoot bool
	// Predicate, when non-nil, is consulted for every node; the walk
	// still descends into a node's children even if the predicate
	// rejects the node itself, so filtering never hides descendants of
	// a rejected node.
	Predicate func(Entry) bool
	// ArtboardIndex restricts the walk to a single artboard when
	// non-nil.
	ArtboardIndex *int
}

// Walk returns a restartable, read-only pre-order iterator over doc's
// nodes. Each call to Walk (or each new range loop over its result)
// starts a fresh traversal from the beginning.
func Walk(doc *schema.Document, opts Options) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for ai, ab := range doc.Artboards {
			if opts.ArtboardIndex != nil && ai != *opts.ArtboardIndex {
				continue
			}
			if opts.IncludeRoot {
				root := Entry{Node: nil, Path: schema.RootPath(ai), Depth: 0, ArtboardIndex: ai}
				if opts.Predicate == nil || opts.Predicate(root) {
					if !yield(root) {
						return
					}
				}
			}
			if !walkChildren(ab.Children, schema.RootPath(ai), 1, ai, opts, yield) {
				return
			}
		}
	}
}

func walkChildren(nodes []schema.Node, base schema.NodePath, depth, artboardIndex int, opts Options, yield func(Entry) bool) bool {
	if opts.MaxDepth > 0 && depth > opts.MaxDepth {
		return true
	}
	for i := range nodes {
		n := &nodes[i]
		path := base.Child(i)
		entry := Entry{Node: n, Path: path, Depth: depth, ArtboardIndex: artboardIndex}
		if opts.Predicate == nil || opts.Predicate(entry) {
			if !yield(entry) {
				return false
			}
		}
		if !walkChildren(n.Children, path, depth+1, artboardIndex, opts, yield) {
			return false
		}
	}
	return true
}

// Collect drains a walk into a slice; a convenience for callers that
// want the whole result rather than ranging incrementally.
func Collect(seq iter.Seq[Entry]) []Entry {
	var out []Entry
	for e := range seq {
		out = append(out, e)
	}
	return out
}

// FindByType returns every node of the given kind, in pre-order.
func FindByType(doc *schema.Document, kind schema.NodeKind) []Entry {
	var out []Entry
	for e := range Walk(doc, Options{}) {
		if e.Node != nil && e.Node.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

// FindByName returns every node whose name matches the given regular
// expression pattern.
func FindByName(doc *schema.Document, pattern string) ([]Entry, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for e := range Walk(doc, Options{}) {
		if e.Node != nil && re.MatchString(e.Node.Name) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Ancestors returns the chain of entries from the artboard root down to
// (but not including) the node named by path, nearest ancestor last.
func Ancestors(doc *schema.Document, path schema.NodePath) ([]Entry, error) {
	var out []Entry
	for depth := 0; depth < len(path.Indices); depth++ {
		p := schema.NodePath{ArtboardIndex: path.ArtboardIndex, Indices: append([]int(nil), path.Indices[:depth]...)}
		if p.IsArtboardRoot() {
			continue
		}
		n, err := schema.Resolve(doc, p)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Node: n, Path: p, Depth: depth, ArtboardIndex: path.ArtboardIndex})
	}
	return out, nil
}

// Descendants returns every entry strictly below the node named by
// path, in pre-order.
func Descendants(doc *schema.Document, path schema.NodePath) ([]Entry, error) {
	n, err := schema.Resolve(doc, path)
	if err != nil {
		return nil, err
	}
	var out []Entry
	walkChildren(n.Children, path, path.Depth()+1, path.ArtboardIndex, Options{}, func(e Entry) bool {
		out = append(out, e)
		return true
	})
	return out, nil
}

// Count returns the number of nodes a walk with opts would yield.
func Count(doc *schema.Document, opts Options) int {
	n := 0
	for range Walk(doc, opts) {
		n++
	}
	return n
}

// Stats summarizes a document's shape.
type Stats struct {
	TotalNodes   int
	MaxDepth     int
	CountByType  map[schema.NodeKind]int
	ArtboardCount int
}

// ComputeStats walks the whole document once and summarizes it.
func ComputeStats(doc *schema.Document) Stats {
	s := Stats{CountByType: map[schema.NodeKind]int{}, ArtboardCount: len(doc.Artboards)}
	for e := range Walk(doc, Options{}) {
		s.TotalNodes++
		s.CountByType[e.Node.Type]++
		if e.Depth > s.MaxDepth {
			s.MaxDepth = e.Depth
		}
	}
	return s
}
