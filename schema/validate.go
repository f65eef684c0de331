package schema

import (
	"fmt"

	"github.com/canvasengine/engine/errs"
	"github.com/canvasengine/engine/internal/ids"
)

// Violation is a single structural problem found by Validate, pointing
// at the exact location it occurred.
type Violation struct {
	Path    string // JSON Pointer-style path to the offending value
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// ValidationError collects every violation found in one pass. Validation
// never stops at the first problem; it reports everything wrong with a
// document in one shot.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invalid document: %s", e.Violations[0])
	}
	return fmt.Sprintf("invalid document: %d violations (first: %s)", len(e.Violations), e.Violations[0])
}

// EngineError adapts a ValidationError to the engine's closed taxonomy.
func (e *ValidationError) EngineError(operation string) *errs.EngineError {
	details := map[string]interface{}{"violations": e.Violations}
	return errs.New(errs.InvalidSchema, operation, e.Error()).WithDetails(details)
}

type validator struct {
	violations []Violation
	seenIDs    map[string]string // id -> first path that used it
	seenKeys   map[string]string // semantic key -> first path that used it
}

// Validate checks doc against every structural constraint the schema
// defines and returns a *ValidationError listing every violation found,
// or nil if doc is valid. Validate never mutates doc.
func Validate(doc *Document) error {
	v := &validator{
		seenIDs:  map[string]string{},
		seenKeys: map[string]string{},
	}
	v.validateDocument(doc)
	if len(v.violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.violations}
}

func (v *validator) fail(path, format string, args ...interface{}) {
	v.violations = append(v.violations, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) validateDocument(doc *Document) {
	if doc.SchemaVersion != CurrentVersion {
		v.fail("/schemaVersion", "must equal %q, got %q", CurrentVersion, doc.SchemaVersion)
	}
	if doc.ID == "" {
		v.fail("/id", "document id must not be empty")
	} else if _, err := ids.Parse(doc.ID); err != nil {
		v.fail("/id", "invalid identifier: %v", err)
	}
	if doc.Name == "" {
		v.fail("/name", "document name must not be empty")
	}
	if len(doc.Artboards) == 0 {
		v.fail("/artboards", "document must contain at least one artboard")
	}
	for i, ab := range doc.Artboards {
		v.validateArtboard(&ab, fmt.Sprintf("/artboards/%d", i))
	}
}

func (v *validator) validateArtboard(ab *Artboard, path string) {
	if ab.ID == "" {
		v.fail(path+"/id", "artboard id must not be empty")
	} else {
		v.checkID(ab.ID, path+"/id")
	}
	if ab.Name == "" {
		v.fail(path+"/name", "artboard name must not be empty")
	}
	v.validateRectangle(ab.Frame, path+"/frame")
	for i := range ab.Children {
		v.validateNode(&ab.Children[i], path+fmt.Sprintf("/children/%d", i))
	}
}

func (v *validator) checkID(id, path string) {
	if _, err := ids.Parse(id); err != nil {
		v.fail(path, "invalid identifier %q: %v", id, err)
		return
	}
	if first, seen := v.seenIDs[id]; seen {
		v.fail(path, "duplicate identifier %q (first used at %s)", id, first)
		return
	}
	v.seenIDs[id] = path
}

func (v *validator) checkSemanticKey(key, path string) {
	if key == "" {
		return
	}
	if first, seen := v.seenKeys[key]; seen {
		v.fail(path, "duplicate semantic key %q (first used at %s)", key, first)
		return
	}
	v.seenKeys[key] = path
}

func (v *validator) validateNode(n *Node, path string) {
	v.checkID(n.ID, path+"/id")
	v.checkSemanticKey(n.SemanticKey, path+"/semanticKey")

	switch n.Type {
	case KindFrame, KindText, KindComponent:
	default:
		v.fail(path+"/type", "unknown node type %q (must be frame, text, or component)", n.Type)
	}
	if n.Name == "" {
		v.fail(path+"/name", "node name must not be empty")
	}
	v.validateRectangle(n.Frame, path+"/frame")
	if n.Style != nil {
		v.validateStyle(n.Style, path+"/style")
	}

	switch n.Type {
	case KindFrame:
		if n.Text != "" || n.TextStyle != nil {
			v.fail(path, "frame node must not carry text fields")
		}
		if n.ComponentKey != "" || n.Overrides != nil {
			v.fail(path, "frame node must not carry component fields")
		}
		for i := range n.Children {
			v.validateNode(&n.Children[i], path+fmt.Sprintf("/children/%d", i))
		}
	case KindText:
		if n.Children != nil {
			v.fail(path, "text node must not have children")
		}
		if n.Layout != nil {
			v.fail(path, "text node must not carry layout hints")
		}
		if n.ComponentKey != "" || n.Overrides != nil {
			v.fail(path, "text node must not carry component fields")
		}
	case KindComponent:
		if n.Children != nil {
			v.fail(path, "component instance must not have children")
		}
		if n.Layout != nil {
			v.fail(path, "component instance must not carry layout hints")
		}
		if n.Text != "" || n.TextStyle != nil {
			v.fail(path, "component instance must not carry text fields")
		}
		if n.ComponentKey == "" {
			v.fail(path+"/componentKey", "component instance must specify a component key")
		}
	}
}

func (v *validator) validateRectangle(r Rectangle, path string) {
	if r.Width < 0 {
		v.fail(path+"/width", "width must be non-negative, got %v", r.Width)
	}
	if r.Height < 0 {
		v.fail(path+"/height", "height must be non-negative, got %v", r.Height)
	}
}

func (v *validator) validateStyle(s *Style, path string) {
	if s.Opacity != nil && (*s.Opacity < 0 || *s.Opacity > 1) {
		v.fail(path+"/opacity", "opacity must be within [0, 1], got %v", *s.Opacity)
	}
	for i, f := range s.Fills {
		if f.Opacity != 0 && (f.Opacity < 0 || f.Opacity > 1) {
			v.fail(path+fmt.Sprintf("/fills/%d/opacity", i), "fill opacity must be within [0, 1], got %v", f.Opacity)
		}
	}
	if s.Shadow != nil && s.Shadow.Opacity != 0 && (s.Shadow.Opacity < 0 || s.Shadow.Opacity > 1) {
		v.fail(path+"/shadow/opacity", "shadow opacity must be within [0, 1], got %v", s.Shadow.Opacity)
	}
}
