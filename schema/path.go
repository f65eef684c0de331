package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// childrenLiteral is the one fixed path-segment literal a node path uses.
const childrenLiteral = "children"

// NodePath is an ordered route from the document root to a node, built
// from an artboard index and a chain of child indices (each implicitly
// separated by the literal "children" segment).
type NodePath struct {
	ArtboardIndex int
	Indices       []int
}

// RootPath returns the path to artboard index ai's own frame (no
// children traversed).
func RootPath(artboardIndex int) NodePath {
	return NodePath{ArtboardIndex: artboardIndex}
}

// Child returns the path to the childIndex'th child of p.
func (p NodePath) Child(childIndex int) NodePath {
	out := NodePath{ArtboardIndex: p.ArtboardIndex, Indices: make([]int, len(p.Indices)+1)}
	copy(out.Indices, p.Indices)
	out.Indices[len(p.Indices)] = childIndex
	return out
}

// Parent returns p's parent path and true, or the zero path and false if
// p already names an artboard root.
func (p NodePath) Parent() (NodePath, bool) {
	if len(p.Indices) == 0 {
		return NodePath{}, false
	}
	return NodePath{ArtboardIndex: p.ArtboardIndex, Indices: append([]int(nil), p.Indices[:len(p.Indices)-1]...)}, true
}

// Depth is the number of child-traversal steps from the artboard root;
// an artboard root itself has depth 0.
func (p NodePath) Depth() int {
	return len(p.Indices)
}

// IsArtboardRoot reports whether p names an artboard directly (no node
// within it).
func (p NodePath) IsArtboardRoot() bool {
	return len(p.Indices) == 0
}

// Equal reports structural equality between two paths.
func (p NodePath) Equal(o NodePath) bool {
	if p.ArtboardIndex != o.ArtboardIndex || len(p.Indices) != len(o.Indices) {
		return false
	}
	for i := range p.Indices {
		if p.Indices[i] != o.Indices[i] {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether p is a strict ancestor of o.
func (p NodePath) IsAncestorOf(o NodePath) bool {
	if p.ArtboardIndex != o.ArtboardIndex || len(p.Indices) >= len(o.Indices) {
		return false
	}
	for i := range p.Indices {
		if p.Indices[i] != o.Indices[i] {
			return false
		}
	}
	return true
}

// Segments returns the mixed int/string segment sequence:
// [artboardIndex, "children", i, "children", j, ...].
func (p NodePath) Segments() []interface{} {
	out := make([]interface{}, 0, 1+2*len(p.Indices))
	out = append(out, p.ArtboardIndex)
	for _, idx := range p.Indices {
		out = append(out, childrenLiteral, idx)
	}
	return out
}

// Pointer renders p as a JSON Pointer (RFC 6901) rooted at the document:
// "/artboards/<artboardIndex>/children/<i>/children/<j>/...".
func (p NodePath) Pointer() string {
	var b strings.Builder
	b.WriteString("/artboards/")
	b.WriteString(strconv.Itoa(p.ArtboardIndex))
	for _, idx := range p.Indices {
		b.WriteString("/children/")
		b.WriteString(strconv.Itoa(idx))
	}
	return b.String()
}

func (p NodePath) String() string {
	return p.Pointer()
}

// Resolve walks doc along p and returns the node it names. Returns an
// error if any segment is out of range. Resolving an artboard-root path
// (Depth() == 0) is not supported here; callers needing the artboard
// itself should index doc.Artboards directly.
func Resolve(doc *Document, p NodePath) (*Node, error) {
	if p.ArtboardIndex < 0 || p.ArtboardIndex >= len(doc.Artboards) {
		return nil, fmt.Errorf("artboard index %d out of range (have %d)", p.ArtboardIndex, len(doc.Artboards))
	}
	ab := &doc.Artboards[p.ArtboardIndex]
	if len(p.Indices) == 0 {
		return nil, fmt.Errorf("path %s names an artboard root, not a node", p)
	}

	children := ab.Children
	var node *Node
	for depth, idx := range p.Indices {
		if idx < 0 || idx >= len(children) {
			return nil, fmt.Errorf("path %s: index %d out of range at depth %d (have %d children)", p, idx, depth, len(children))
		}
		node = &children[idx]
		children = node.Children
	}
	return node, nil
}

// ResolveParentSlice returns a pointer to the slice header that owns the
// node named by p (either an artboard's Children or a frame's Children),
// along with the index of that node within it.
func ResolveParentSlice(doc *Document, p NodePath) (*[]Node, int, error) {
	if p.ArtboardIndex < 0 || p.ArtboardIndex >= len(doc.Artboards) {
		return nil, 0, fmt.Errorf("artboard index %d out of range (have %d)", p.ArtboardIndex, len(doc.Artboards))
	}
	ab := &doc.Artboards[p.ArtboardIndex]
	if len(p.Indices) == 0 {
		return nil, 0, fmt.Errorf("path %s names an artboard root, which has no owning slice", p)
	}

	slicePtr := &ab.Children
	for depth := 0; depth < len(p.Indices)-1; depth++ {
		idx := p.Indices[depth]
		if idx < 0 || idx >= len(*slicePtr) {
			return nil, 0, fmt.Errorf("path %s: index %d out of range at depth %d", p, idx, depth)
		}
		slicePtr = &(*slicePtr)[idx].Children
	}
	lastIdx := p.Indices[len(p.Indices)-1]
	if lastIdx < 0 || lastIdx >= len(*slicePtr) {
		return nil, 0, fmt.Errorf("path %s: index %d out of range", p, lastIdx)
	}
	return slicePtr, lastIdx, nil
}

// FindByID walks the whole document looking for a node with the given
// identifier and returns its path. This is a simple linear scan; package
// traverse offers the iterator-based, filterable version for bulk
// traversal work.
func FindByID(doc *Document, id string) (NodePath, bool) {
	for ai, ab := range doc.Artboards {
		if p, ok := findIn(ab.Children, RootPath(ai), id); ok {
			return p, true
		}
	}
	return NodePath{}, false
}

func findIn(nodes []Node, base NodePath, id string) (NodePath, bool) {
	for i, n := range nodes {
		p := base.Child(i)
		if n.ID == id {
			return p, true
		}
		if found, ok := findIn(n.Children, p, id); ok {
			return found, true
		}
	}
	return NodePath{}, false
}
