package merge

// Code is one member of the closed, stable conflict-code set. Every
// implementation of this engine must emit the same codes so tests built
// against one are portable to another.
type Code string

const (
	// CodePropertyDivergent marks a scalar or opaque-sequence field
	// changed to different values on both branches.
	CodePropertyDivergent Code = "P-001"
	// CodeEditDelete marks one branch editing a node the other deleted.
	CodeEditDelete Code = "S-001"
	// CodeOrderConflict marks two branches reordering the same child
	// set into incompatible sequences.
	CodeOrderConflict Code = "S-002"
	// CodeAddAdd marks both branches independently adding a node under
	// the same correspondence key with different content.
	CodeAddAdd Code = "C-001"
)

// Conflict is one irreconcilable difference found during a merge. Every
// conflict names the node (by correspondence key and, where known, its
// base identifier) and the base/local/remote values that disagreed.
type Conflict struct {
	Code    Code
	Key     string // correspondence key of the involved node or slot
	NodeID  string
	Path    string
	Field   string
	Base    interface{}
	Local   interface{}
	Remote  interface{}
	Message string
}
