// Package schema defines the canvas document's data model, its
// validator and repair mode, and the canonical parse/serialize/hash
// entry points.
//
// Every exported type here is a plain, JSON-tagged Go value; runtime-
// validated record shapes map to ordinary structs with validation
// happening once, at parse time, in Validate, rather than scattered
// through accessors.
package schema

// CurrentVersion is the schema version literal every current document
// must carry.
const CurrentVersion = "0.1.0"

// NodeKind discriminates the tagged union of node variants. The set is
// closed: frame, text, component.
type NodeKind string

const (
	KindFrame     NodeKind = "frame"
	KindText      NodeKind = "text"
	KindComponent NodeKind = "component"
)

// Rectangle is a node or artboard's bounding box. Coordinates may be
// negative; dimensions never.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether point (px, py) falls within r, inclusive of
// its edges.
func (r Rectangle) Contains(px, py float64) bool {
	return px >= r.X && px <= r.X+r.Width && py >= r.Y && py <= r.Y+r.Height
}

// Fill is one paint layer in a style's ordered fill sequence.
type Fill struct {
	Type    string  `json:"type"`
	Color   string  `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Stroke is one paint layer in a style's ordered stroke sequence.
type Stroke struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Shadow describes a single drop/inner shadow effect.
type Shadow struct {
	Type    string  `json:"type,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Blur    float64 `json:"blur"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Style is a node's optional bag of visual attributes. Fill and stroke
// ordering is significant (it is painting order) and is never resorted
// by the engine.
type Style struct {
	Fills        []Fill  `json:"fills,omitempty"`
	Strokes      []Stroke `json:"strokes,omitempty"`
	CornerRadius float64  `json:"cornerRadius,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty"`
	Shadow       *Shadow  `json:"shadow,omitempty"`
}

// TextStyle is a node's optional typographic attributes.
type TextStyle struct {
	FontFamily    string  `json:"fontFamily,omitempty"`
	FontSize      float64 `json:"fontSize,omitempty"`
	FontWeight    int     `json:"fontWeight,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	LetterSpacing float64 `json:"letterSpacing,omitempty"`
	Color         string  `json:"color,omitempty"`
}

// LayoutHints are optional auto-layout directives carried by frames.
type LayoutHints struct {
	Mode           string  `json:"mode,omitempty"` // "none", "horizontal", "vertical"
	Gap            float64 `json:"gap,omitempty"`
	PaddingTop     float64 `json:"paddingTop,omitempty"`
	PaddingRight   float64 `json:"paddingRight,omitempty"`
	PaddingBottom  float64 `json:"paddingBottom,omitempty"`
	PaddingLeft    float64 `json:"paddingLeft,omitempty"`
}

// Binding is an optional descriptor linking a node to an external data
// source (design-token pipeline, CMS field, etc.). The engine treats it
// as opaque.
type Binding struct {
	Source string                 `json:"source"`
	Path   string                 `json:"path,omitempty"`
	Extra  map[string]interface{} `json:"extra,omitempty"`
}

// Node is the tagged-union node variant. Type selects which of the
// variant-specific fields are meaningful:
//
//   - frame:     Layout, Children
//   - text:      Text, TextStyle
//   - component: ComponentKey, Overrides
//
// Fields outside a variant's set are always left at their zero value;
// the validator rejects documents that populate them.
type Node struct {
	ID          string    `json:"id"`
	Type        NodeKind  `json:"type"`
	Name        string    `json:"name"`
	Visible     bool      `json:"visible"`
	Frame       Rectangle `json:"frame"`
	Style       *Style    `json:"style,omitempty"`
	Data        map[string]interface{} `json:"data,omitempty"`
	Binding     *Binding  `json:"binding,omitempty"`
	SemanticKey string    `json:"semanticKey,omitempty"`

	// frame-only
	Layout   *LayoutHints `json:"layout,omitempty"`
	Children []Node       `json:"children,omitempty"`

	// text-only
	Text      string     `json:"text,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty"`

	// component-only
	ComponentKey string                 `json:"componentKey,omitempty"`
	Overrides    map[string]interface{} `json:"overrides,omitempty"`
}

// IsContainer reports whether the node can own children, currently
// only frames.
func (n *Node) IsContainer() bool {
	return n.Type == KindFrame
}

// Artboard is a top-level container in a document.
type Artboard struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Frame    Rectangle `json:"frame"`
	Children []Node    `json:"children"`
	// Background is the artboard's painted background, expressed the
	// same way a node's first fill is.
	Background *Fill `json:"background,omitempty"`
}

// Document is the top-level value the engine operates on. Documents
// are value types: every mutation in package ops or package
// patch returns a new Document rather than mutating this one in place.
type Document struct {
	SchemaVersion string     `json:"schemaVersion"`
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Artboards     []Artboard `json:"artboards"`
}

// Clone returns a deep copy of d, so callers can mutate the result
// without aliasing d's slices or maps.
func (d Document) Clone() Document {
	out := Document{
		SchemaVersion: d.SchemaVersion,
		ID:            d.ID,
		Name:          d.Name,
		Artboards:     make([]Artboard, len(d.Artboards)),
	}
	for i, ab := range d.Artboards {
		out.Artboards[i] = cloneArtboard(ab)
	}
	return out
}

func cloneArtboard(ab Artboard) Artboard {
	out := ab
	out.Children = cloneNodes(ab.Children)
	if ab.Background != nil {
		bg := *ab.Background
		out.Background = &bg
	}
	return out
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n Node) Node {
	out := n
	if n.Style != nil {
		s := *n.Style
		s.Fills = append([]Fill(nil), n.Style.Fills...)
		s.Strokes = append([]Stroke(nil), n.Style.Strokes...)
		if n.Style.Opacity != nil {
			o := *n.Style.Opacity
			s.Opacity = &o
		}
		if n.Style.Shadow != nil {
			sh := *n.Style.Shadow
			s.Shadow = &sh
		}
		out.Style = &s
	}
	if n.Data != nil {
		out.Data = make(map[string]interface{}, len(n.Data))
		for k, v := range n.Data {
			out.Data[k] = v
		}
	}
	if n.Binding != nil {
		b := *n.Binding
		out.Binding = &b
	}
	if n.Layout != nil {
		l := *n.Layout
		out.Layout = &l
	}
	out.Children = cloneNodes(n.Children)
	if n.TextStyle != nil {
		ts := *n.TextStyle
		out.TextStyle = &ts
	}
	if n.Overrides != nil {
		out.Overrides = make(map[string]interface{}, len(n.Overrides))
		for k, v := range n.Overrides {
			out.Overrides[k] = v
		}
	}
	return out
}
